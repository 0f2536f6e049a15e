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

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/repostat/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/repostat/internal/core/domain"
	"github.com/custodia-labs/repostat/internal/core/ports/driven"
	"github.com/custodia-labs/repostat/internal/logger"
)

// DefaultFileName is the database file name used when no path is given.
const DefaultFileName = "cache.db"

// Ensure Store implements the interface.
var _ driven.CacheStore = (*Store)(nil)

// Store is a SQLite-backed cache store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the database at path and applies migrations.
// If path is empty, defaults to ~/.repostat/cache.db.
func NewStore(path string) (*Store, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".repostat", DefaultFileName)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: path,
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

// Location returns the database file path.
func (s *Store) Location() string {
	return s.path
}

// migrate runs all pending migrations.
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
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_cache.up.sql" -> 1)
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
		logger.Debug("sqlite: applied migration %s", name)
	}

	return nil
}

// Load reads the header and records in position order. A database with
// no header rows yields headerSize placeholder lines. Rows that violate
// record invariants load as zero records so they read as stale.
func (s *Store) Load(ctx context.Context, headerSize int) (*domain.CacheFile, error) {
	header, err := s.loadHeader(ctx)
	if err != nil {
		return nil, err
	}
	cache := domain.NewCacheFile(headerSize)
	copy(cache.Header, header)

	rows, err := s.db.QueryContext(ctx, `
		SELECT position, repo_key, commit_count, authored_commits, additions, deletions
		FROM cache_records ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var position int
		var r domain.CacheRecord
		if err := rows.Scan(&position, &r.Key, &r.CommitCount, &r.AuthoredCommits, &r.Additions, &r.Deletions); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		if err := r.Validate(); err != nil {
			logger.Warn("sqlite: record %d: %v, treating as stale", position, err)
			r = domain.CacheRecord{}
		}
		cache.Records = append(cache.Records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}

	return cache, nil
}

func (s *Store) loadHeader(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT line FROM cache_header ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("querying header: %w", err)
	}
	defer rows.Close()

	var header []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, fmt.Errorf("scanning header: %w", err)
		}
		header = append(header, line)
	}
	return header, rows.Err()
}

// Save replaces the stored header and records in a single transaction.
func (s *Store) Save(ctx context.Context, cache *domain.CacheFile) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM cache_header"); err != nil {
		return fmt.Errorf("clearing header: %w", err)
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM cache_records"); err != nil {
		return fmt.Errorf("clearing records: %w", err)
	}

	for i, line := range cache.Header {
		if _, err = tx.ExecContext(ctx,
			"INSERT INTO cache_header (position, line) VALUES (?, ?)", i, line); err != nil {
			return fmt.Errorf("saving header line %d: %w", i, err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO cache_records (position, repo_key, commit_count, authored_commits, additions, deletions)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing record insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range cache.Records {
		if _, err = stmt.ExecContext(ctx, i, r.Key, r.CommitCount, r.AuthoredCommits, r.Additions, r.Deletions); err != nil {
			return fmt.Errorf("saving record %d: %w", i, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing cache: %w", err)
	}
	logger.Debug("sqlite: wrote %d records to %s", len(cache.Records), s.path)
	return nil
}
