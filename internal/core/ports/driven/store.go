package driven

import (
	"context"

	"github.com/gautamkumar30/kontract.ai/internal/core/domain"
)

// ContractStore persists contracts, their versions, and the analysis
// artefacts produced by the pipeline. Persistence is a collaborator of
// the pipeline, not part of it: the core works against this port and the
// CLI compare path runs without any store at all.
type ContractStore interface {
	// SaveContract stores or updates a contract.
	SaveContract(ctx context.Context, contract *domain.Contract) error

	// GetContract retrieves a contract by ID.
	GetContract(ctx context.Context, id string) (*domain.Contract, error)

	// SaveVersion stores a new contract version.
	SaveVersion(ctx context.Context, version *domain.Version) error

	// GetVersion retrieves a version by ID.
	GetVersion(ctx context.Context, id string) (*domain.Version, error)

	// PreviousVersion returns the latest version of the same contract
	// with a lower sequence number, or domain.ErrNotFound if the given
	// version is the first.
	PreviousVersion(ctx context.Context, version *domain.Version) (*domain.Version, error)

	// SaveClauses stores the segmented, fingerprinted clauses of a version.
	SaveClauses(ctx context.Context, clauses []domain.Clause) error

	// GetClauses retrieves all clauses of a version in clause-number order.
	GetClauses(ctx context.Context, versionID string) ([]domain.Clause, error)

	// SaveChanges stores the classified changes for a version pair.
	SaveChanges(ctx context.Context, fromVersionID, toVersionID string, changes []domain.Change) error

	// GetChanges retrieves the changes recorded for a version pair.
	GetChanges(ctx context.Context, fromVersionID, toVersionID string) ([]domain.Change, error)

	// SaveAlert records an alert for a high-risk change.
	SaveAlert(ctx context.Context, alert *domain.Alert) error

	// GetAlerts retrieves all alerts for a contract.
	GetAlerts(ctx context.Context, contractID string) ([]domain.Alert, error)

	// Close releases resources.
	Close() error
}
