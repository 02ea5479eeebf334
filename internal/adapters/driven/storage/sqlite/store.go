package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/manuscript-validator/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/manuscript-validator/internal/core/domain"
	"github.com/custodia-labs/manuscript-validator/internal/core/ports/driven"
)

// Store is a SQLite-based storage that provides access to the store
// interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.manuscript-validator/data/validator.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".manuscript-validator", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "validator.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
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

// IgnoredResultStore returns an IgnoredResultStore interface backed by this store.
func (s *Store) IgnoredResultStore() driven.IgnoredResultStore {
	return &ignoredResultStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
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
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_ignored_results.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Ignored Result Store ====================

// ignoredResultStore implements driven.IgnoredResultStore.
type ignoredResultStore struct {
	store *Store
}

var _ driven.IgnoredResultStore = (*ignoredResultStore)(nil)

// Add stores an ignored result. A record with the same ID is replaced.
func (s *ignoredResultStore) Add(ctx context.Context, ignored *domain.IgnoredResult) error {
	if ignored == nil || ignored.ID == "" || ignored.Result == nil {
		return domain.ErrInvalidInput
	}

	resultJSON, err := json.Marshal(ignored.Result)
	if err != nil {
		return fmt.Errorf("marshalling result: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO ignored_results
			(id, manuscript_id, result_type, object_type, result, reason, ignored_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, ignored.ID, ignored.ManuscriptID, string(ignored.Result.Type), string(ignored.Result.ObjectType),
		string(resultJSON), ignored.Reason, ignored.IgnoredAt.UTC())
	if err != nil {
		return fmt.Errorf("adding ignored result: %w", err)
	}
	return nil
}

// Remove deletes an ignored result by ID.
func (s *ignoredResultStore) Remove(ctx context.Context, id string) error {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM ignored_results WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("removing ignored result: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("removing ignored result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("ignored result %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// GetByManuscriptID returns all ignored results for a manuscript, oldest first.
func (s *ignoredResultStore) GetByManuscriptID(ctx context.Context, manuscriptID string) ([]domain.IgnoredResult, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, manuscript_id, result, reason, ignored_at
		FROM ignored_results WHERE manuscript_id = ?
		ORDER BY ignored_at, id
	`, manuscriptID)
	if err != nil {
		return nil, fmt.Errorf("querying ignored results: %w", err)
	}
	defer rows.Close()

	return scanIgnoredResults(rows)
}

// List returns all ignored results, oldest first.
func (s *ignoredResultStore) List(ctx context.Context) ([]domain.IgnoredResult, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, manuscript_id, result, reason, ignored_at
		FROM ignored_results
		ORDER BY ignored_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying ignored results: %w", err)
	}
	defer rows.Close()

	return scanIgnoredResults(rows)
}

// ==================== Helper Functions ====================

// scanIgnoredResults scans ignored result rows.
func scanIgnoredResults(rows *sql.Rows) ([]domain.IgnoredResult, error) {
	records := make([]domain.IgnoredResult, 0)
	for rows.Next() {
		var record domain.IgnoredResult
		var resultJSON string
		var ignoredAt time.Time

		if err := rows.Scan(&record.ID, &record.ManuscriptID, &resultJSON, &record.Reason, &ignoredAt); err != nil {
			return nil, fmt.Errorf("scanning ignored result: %w", err)
		}

		var result domain.ValidationResult
		if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
			return nil, fmt.Errorf("unmarshalling ignored result %s: %w", record.ID, err)
		}
		record.Result = &result
		record.IgnoredAt = ignoredAt
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ignored results: %w", err)
	}
	return records, nil
}
