// Package memory provides an in-memory ContractStore for tests and
// store-less ad-hoc comparisons.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/gautamkumar30/kontract.ai/internal/core/domain"
	"github.com/gautamkumar30/kontract.ai/internal/core/ports/driven"
)

// Ensure ContractStore implements the interface.
var _ driven.ContractStore = (*ContractStore)(nil)

// changeKey identifies the change set of one version pair.
type changeKey struct {
	from string
	to   string
}

// ContractStore is an in-memory implementation of driven.ContractStore.
type ContractStore struct {
	mu        sync.RWMutex
	contracts map[string]domain.Contract
	versions  map[string]domain.Version
	clauses   map[string][]domain.Clause
	changes   map[changeKey][]domain.Change
	alerts    map[string][]domain.Alert
}

// NewContractStore creates a new in-memory contract store.
func NewContractStore() *ContractStore {
	return &ContractStore{
		contracts: make(map[string]domain.Contract),
		versions:  make(map[string]domain.Version),
		clauses:   make(map[string][]domain.Clause),
		changes:   make(map[changeKey][]domain.Change),
		alerts:    make(map[string][]domain.Alert),
	}
}

// SaveContract stores or updates a contract.
func (s *ContractStore) SaveContract(_ context.Context, contract *domain.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contracts[contract.ID] = *contract
	return nil
}

// GetContract retrieves a contract by ID.
func (s *ContractStore) GetContract(_ context.Context, id string) (*domain.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	contract, ok := s.contracts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &contract, nil
}

// SaveVersion stores a new contract version.
func (s *ContractStore) SaveVersion(_ context.Context, version *domain.Version) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.versions[version.ID] = *version
	return nil
}

// GetVersion retrieves a version by ID.
func (s *ContractStore) GetVersion(_ context.Context, id string) (*domain.Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	version, ok := s.versions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &version, nil
}

// PreviousVersion returns the latest earlier version of the same contract.
func (s *ContractStore) PreviousVersion(_ context.Context, version *domain.Version) (*domain.Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best *domain.Version
	for id := range s.versions {
		candidate := s.versions[id]
		if candidate.ContractID != version.ContractID || candidate.Number >= version.Number {
			continue
		}
		if best == nil || candidate.Number > best.Number {
			v := candidate
			best = &v
		}
	}
	if best == nil {
		return nil, domain.ErrNotFound
	}
	return best, nil
}

// SaveClauses stores the clauses of a version.
func (s *ContractStore) SaveClauses(_ context.Context, clauses []domain.Clause) error {
	if len(clauses) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	versionID := clauses[0].VersionID
	s.clauses[versionID] = append([]domain.Clause(nil), clauses...)
	return nil
}

// GetClauses retrieves all clauses of a version in clause-number order.
func (s *ContractStore) GetClauses(_ context.Context, versionID string) ([]domain.Clause, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	clauses := append([]domain.Clause(nil), s.clauses[versionID]...)
	sort.Slice(clauses, func(i, j int) bool { return clauses[i].Number < clauses[j].Number })
	return clauses, nil
}

// SaveChanges stores the classified changes for a version pair.
func (s *ContractStore) SaveChanges(_ context.Context, fromVersionID, toVersionID string, changes []domain.Change) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.changes[changeKey{fromVersionID, toVersionID}] = append([]domain.Change(nil), changes...)
	return nil
}

// GetChanges retrieves the changes recorded for a version pair.
func (s *ContractStore) GetChanges(_ context.Context, fromVersionID, toVersionID string) ([]domain.Change, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Change(nil), s.changes[changeKey{fromVersionID, toVersionID}]...), nil
}

// SaveAlert records an alert for a high-risk change.
func (s *ContractStore) SaveAlert(_ context.Context, alert *domain.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts[alert.ContractID] = append(s.alerts[alert.ContractID], *alert)
	return nil
}

// GetAlerts retrieves all alerts for a contract.
func (s *ContractStore) GetAlerts(_ context.Context, contractID string) ([]domain.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Alert(nil), s.alerts[contractID]...), nil
}

// Close releases resources. The in-memory store has none.
func (s *ContractStore) Close() error {
	return nil
}
