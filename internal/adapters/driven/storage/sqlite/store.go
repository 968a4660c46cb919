// Package sqlite provides a SQLite-backed ContractStore.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/gautamkumar30/kontract.ai/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/gautamkumar30/kontract.ai/internal/core/domain"
	"github.com/gautamkumar30/kontract.ai/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.ContractStore = (*Store)(nil)

// Store is a SQLite-backed implementation of driven.ContractStore.
// Fingerprints are stored inline with their clause; the term-weight
// vector and keyword map are serialised as JSON.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.kontract/data/contracts.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".kontract", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "contracts.db")

	// WAL mode for better concurrency between comparison runs
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate applies embedded migrations in version order.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}
		if version <= currentVersion {
			continue
		}

		script, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(script)); err != nil {
			return fmt.Errorf("applying migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}
	return nil
}

// SaveContract stores or updates a contract.
func (s *Store) SaveContract(ctx context.Context, contract *domain.Contract) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO contracts (id, name, vendor, type, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, vendor = excluded.vendor, type = excluded.type
	`, contract.ID, contract.Name, contract.Vendor, string(contract.Type), contract.CreatedAt)
	if err != nil {
		return fmt.Errorf("saving contract: %w", err)
	}
	return nil
}

// GetContract retrieves a contract by ID.
func (s *Store) GetContract(ctx context.Context, id string) (*domain.Contract, error) {
	var contract domain.Contract
	var contractType string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, vendor, type, created_at FROM contracts WHERE id = ?
	`, id).Scan(&contract.ID, &contract.Name, &contract.Vendor, &contractType, &contract.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting contract: %w", err)
	}
	contract.Type = domain.ContractType(contractType)
	return &contract, nil
}

// SaveVersion stores a new contract version.
func (s *Store) SaveVersion(ctx context.Context, version *domain.Version) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO versions (id, contract_id, number, raw_text, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, version.ID, version.ContractID, version.Number, version.RawText, version.CreatedAt)
	if err != nil {
		return fmt.Errorf("saving version: %w", err)
	}
	return nil
}

// GetVersion retrieves a version by ID.
func (s *Store) GetVersion(ctx context.Context, id string) (*domain.Version, error) {
	var version domain.Version
	err := s.db.QueryRowContext(ctx, `
		SELECT id, contract_id, number, raw_text, created_at FROM versions WHERE id = ?
	`, id).Scan(&version.ID, &version.ContractID, &version.Number, &version.RawText, &version.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting version: %w", err)
	}
	return &version, nil
}

// PreviousVersion returns the latest earlier version of the same contract.
func (s *Store) PreviousVersion(ctx context.Context, version *domain.Version) (*domain.Version, error) {
	var previous domain.Version
	err := s.db.QueryRowContext(ctx, `
		SELECT id, contract_id, number, raw_text, created_at FROM versions
		WHERE contract_id = ? AND number < ?
		ORDER BY number DESC LIMIT 1
	`, version.ContractID, version.Number).Scan(
		&previous.ID, &previous.ContractID, &previous.Number, &previous.RawText, &previous.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting previous version: %w", err)
	}
	return &previous, nil
}

// SaveClauses stores the segmented, fingerprinted clauses of a version.
func (s *Store) SaveClauses(ctx context.Context, clauses []domain.Clause) error {
	if len(clauses) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for i := range clauses {
		clause := &clauses[i]

		var textHash string
		var simhash int64
		var vectorJSON, keywordsJSON sql.NullString
		if fp := clause.Fingerprint; fp != nil {
			textHash = fp.TextHash
			simhash = int64(fp.SimHash)
			if fp.Vector != nil {
				data, err := json.Marshal(fp.Vector)
				if err != nil {
					return fmt.Errorf("marshalling vector: %w", err)
				}
				vectorJSON = sql.NullString{String: string(data), Valid: true}
			}
			if fp.Keywords != nil {
				data, err := json.Marshal(fp.Keywords)
				if err != nil {
					return fmt.Errorf("marshalling keywords: %w", err)
				}
				keywordsJSON = sql.NullString{String: string(data), Valid: true}
			}
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO clauses (id, version_id, number, heading, category, text,
				span_start, span_end, word_count, text_hash, simhash, vector, keywords)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, clause.ID, clause.VersionID, clause.Number, clause.Heading, string(clause.Category),
			clause.Text, clause.SpanStart, clause.SpanEnd, clause.WordCount,
			textHash, simhash, vectorJSON, keywordsJSON)
		if err != nil {
			return fmt.Errorf("saving clause %d: %w", clause.Number, err)
		}
	}

	return tx.Commit()
}

// GetClauses retrieves all clauses of a version in clause-number order.
func (s *Store) GetClauses(ctx context.Context, versionID string) ([]domain.Clause, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, version_id, number, heading, category, text,
			span_start, span_end, word_count, text_hash, simhash, vector, keywords
		FROM clauses WHERE version_id = ? ORDER BY number
	`, versionID)
	if err != nil {
		return nil, fmt.Errorf("querying clauses: %w", err)
	}
	defer rows.Close()

	var clauses []domain.Clause
	for rows.Next() {
		var clause domain.Clause
		var category, textHash string
		var simhash int64
		var vectorJSON, keywordsJSON sql.NullString

		if err := rows.Scan(&clause.ID, &clause.VersionID, &clause.Number, &clause.Heading,
			&category, &clause.Text, &clause.SpanStart, &clause.SpanEnd, &clause.WordCount,
			&textHash, &simhash, &vectorJSON, &keywordsJSON); err != nil {
			return nil, fmt.Errorf("scanning clause: %w", err)
		}

		clause.Category = domain.Category(category)
		fp := &domain.Fingerprint{
			TextHash: textHash,
			SimHash:  uint64(simhash),
		}
		if vectorJSON.Valid {
			if err := json.Unmarshal([]byte(vectorJSON.String), &fp.Vector); err != nil {
				return nil, fmt.Errorf("unmarshalling vector: %w", err)
			}
		}
		if keywordsJSON.Valid {
			if err := json.Unmarshal([]byte(keywordsJSON.String), &fp.Keywords); err != nil {
				return nil, fmt.Errorf("unmarshalling keywords: %w", err)
			}
		}
		clause.Fingerprint = fp
		clauses = append(clauses, clause)
	}
	return clauses, rows.Err()
}

// SaveChanges stores the classified changes for a version pair.
func (s *Store) SaveChanges(ctx context.Context, fromVersionID, toVersionID string, changes []domain.Change) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for i := range changes {
		change := &changes[i]

		var diffJSON sql.NullString
		if change.Diff != nil {
			data, err := json.Marshal(change.Diff)
			if err != nil {
				return fmt.Errorf("marshalling diff: %w", err)
			}
			diffJSON = sql.NullString{String: string(data), Valid: true}
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO changes (id, from_version_id, to_version_id, kind,
				old_clause_id, new_clause_id, similarity, magnitude, diff,
				summary, risk_level, risk_score, explanation)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, change.ID, fromVersionID, toVersionID, string(change.Kind),
			nullable(change.OldClauseID), nullable(change.NewClauseID),
			change.Similarity, change.Magnitude, diffJSON,
			change.Summary, string(change.RiskLevel), change.RiskScore, change.Explanation)
		if err != nil {
			return fmt.Errorf("saving change: %w", err)
		}
	}

	return tx.Commit()
}

// GetChanges retrieves the changes recorded for a version pair.
func (s *Store) GetChanges(ctx context.Context, fromVersionID, toVersionID string) ([]domain.Change, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, old_clause_id, new_clause_id, similarity, magnitude,
			diff, summary, risk_level, risk_score, explanation
		FROM changes WHERE from_version_id = ? AND to_version_id = ?
	`, fromVersionID, toVersionID)
	if err != nil {
		return nil, fmt.Errorf("querying changes: %w", err)
	}
	defer rows.Close()

	var changes []domain.Change
	for rows.Next() {
		var change domain.Change
		var kind, riskLevel string
		var oldClauseID, newClauseID, diffJSON sql.NullString

		if err := rows.Scan(&change.ID, &kind, &oldClauseID, &newClauseID,
			&change.Similarity, &change.Magnitude, &diffJSON,
			&change.Summary, &riskLevel, &change.RiskScore, &change.Explanation); err != nil {
			return nil, fmt.Errorf("scanning change: %w", err)
		}

		change.Kind = domain.ChangeKind(kind)
		change.RiskLevel = domain.RiskLevel(riskLevel)
		change.OldClauseID = oldClauseID.String
		change.NewClauseID = newClauseID.String
		if diffJSON.Valid {
			if err := json.Unmarshal([]byte(diffJSON.String), &change.Diff); err != nil {
				return nil, fmt.Errorf("unmarshalling diff: %w", err)
			}
		}
		changes = append(changes, change)
	}
	return changes, rows.Err()
}

// SaveAlert records an alert for a high-risk change.
func (s *Store) SaveAlert(ctx context.Context, alert *domain.Alert) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO alerts (id, contract_id, change_id, risk_level, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, alert.ID, alert.ContractID, alert.ChangeID, string(alert.RiskLevel), string(alert.Status), alert.CreatedAt)
	if err != nil {
		return fmt.Errorf("saving alert: %w", err)
	}
	return nil
}

// GetAlerts retrieves all alerts for a contract.
func (s *Store) GetAlerts(ctx context.Context, contractID string) ([]domain.Alert, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, contract_id, change_id, risk_level, status, created_at
		FROM alerts WHERE contract_id = ? ORDER BY created_at
	`, contractID)
	if err != nil {
		return nil, fmt.Errorf("querying alerts: %w", err)
	}
	defer rows.Close()

	var alerts []domain.Alert
	for rows.Next() {
		var alert domain.Alert
		var riskLevel, status string
		if err := rows.Scan(&alert.ID, &alert.ContractID, &alert.ChangeID, &riskLevel, &status, &alert.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning alert: %w", err)
		}
		alert.RiskLevel = domain.RiskLevel(riskLevel)
		alert.Status = domain.AlertStatus(status)
		alerts = append(alerts, alert)
	}
	return alerts, rows.Err()
}

// nullable converts an empty string to SQL NULL.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
