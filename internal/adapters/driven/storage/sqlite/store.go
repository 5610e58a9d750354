package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/adsync/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/adsync/internal/core/domain"
	"github.com/custodia-labs/adsync/internal/core/ports/driven"
)

// defaultListLimit caps ListRuns when no limit is given.
const defaultListLimit = 20

// Store is a SQLite database holding the run ledger.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (creating if needed) the database at dbPath.
// If dbPath is empty, defaults to ~/.adsync/data/runs.db.
func NewStore(dbPath string) (*Store, error) {
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".adsync", "data", "runs.db")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

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

// RunLedger returns a RunLedger backed by this store.
func (s *Store) RunLedger() driven.RunLedger {
	return &runLedger{store: s}
}

// migrate runs all pending up migrations in version order.
func (s *Store) migrate(fsys fs.FS) error {
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
		// "001_sync_runs.up.sql" -> 1
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
		if err := s.apply(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// apply runs one migration and records its version atomically.
func (s *Store) apply(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(script); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}

// ==================== Run Ledger ====================

// runLedger implements driven.RunLedger.
type runLedger struct {
	store *Store
}

var _ driven.RunLedger = (*runLedger)(nil)

// SaveRun creates or updates a run.
func (l *runLedger) SaveRun(ctx context.Context, job *domain.SyncJob) error {
	_, err := l.store.db.ExecContext(ctx, `
		INSERT INTO sync_runs (
			id, audience_name, audience_resource_name, job_resource_name,
			submitted, skipped, status, error, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			audience_name = excluded.audience_name,
			audience_resource_name = excluded.audience_resource_name,
			job_resource_name = excluded.job_resource_name,
			submitted = excluded.submitted,
			skipped = excluded.skipped,
			status = excluded.status,
			error = excluded.error,
			updated_at = excluded.updated_at
	`,
		job.ID,
		job.AudienceName,
		job.AudienceResourceName,
		job.ResourceName,
		job.Submitted,
		job.Skipped,
		string(job.Status),
		job.Error,
		job.CreatedAt.UnixNano(),
		job.UpdatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("saving run %s: %w", job.ID, err)
	}
	return nil
}

// ListRuns returns the most recent runs first.
func (l *runLedger) ListRuns(ctx context.Context, limit int) ([]domain.SyncJob, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := l.store.db.QueryContext(ctx, `
		SELECT id, audience_name, audience_resource_name, job_resource_name,
			submitted, skipped, status, error, created_at, updated_at
		FROM sync_runs
		ORDER BY created_at DESC, id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.SyncJob
	for rows.Next() {
		var (
			job       domain.SyncJob
			status    string
			createdAt int64
			updatedAt int64
		)
		if err := rows.Scan(
			&job.ID,
			&job.AudienceName,
			&job.AudienceResourceName,
			&job.ResourceName,
			&job.Submitted,
			&job.Skipped,
			&status,
			&job.Error,
			&createdAt,
			&updatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		job.Status = domain.JobStatus(status)
		job.CreatedAt = time.Unix(0, createdAt).UTC()
		job.UpdatedAt = time.Unix(0, updatedAt).UTC()
		runs = append(runs, job)
	}
	return runs, rows.Err()
}
