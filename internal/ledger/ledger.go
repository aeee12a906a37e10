package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Entry records one accepted item identifier. Entries are created once and
// never mutated or deleted.
type Entry struct {
	Identifier   string
	DiscoveredAt time.Time
}

// Stats aggregates ledger state for diagnostic output.
type Stats struct {
	Total  int
	Oldest time.Time
	Newest time.Time
}

// Health reports diagnostic information about the ledger database.
type Health struct {
	DBPath           string
	DatabaseExists   bool
	DatabaseReadable bool
	TableExists      bool
	TotalEntries     int
	IntegrityCheck   bool
	Error            string
}

// Store manages dedup persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the ledger database and applies the schema.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("ledger path required")
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// IsNew reports whether the identifier has never been accepted.
func (s *Store) IsNew(ctx context.Context, identifier string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM ledger_entries WHERE identifier = ?`, identifier,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup identifier: %w", err)
	}
	return false, nil
}

// Accept records the identifier. Accepting an already-present identifier is a
// no-op, not an error.
func (s *Store) Accept(ctx context.Context, identifier string) error {
	_, err := s.claim(ctx, identifier)
	return err
}

// MarkNew atomically claims an identifier: it returns true when the
// identifier was not previously present and has now been recorded. This is
// the check-and-record step the orchestrator uses so a crash between fetch
// and delivery never loses dedup state for claimed items.
func (s *Store) MarkNew(ctx context.Context, identifier string) (bool, error) {
	return s.claim(ctx, identifier)
}

func (s *Store) claim(ctx context.Context, identifier string) (bool, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return false, errors.New("identifier required")
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO ledger_entries (identifier, discovered_at) VALUES (?, ?)`,
		identifier,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return false, fmt.Errorf("record identifier: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// Entries returns all ledger entries ordered by discovery time.
func (s *Store) Entries(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT identifier, discovered_at FROM ledger_entries ORDER BY discovered_at, identifier`)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			identifier string
			discovered string
		)
		if err := rows.Scan(&identifier, &discovered); err != nil {
			return nil, err
		}
		entry := Entry{Identifier: identifier}
		if parsed, err := time.Parse(time.RFC3339Nano, discovered); err == nil {
			entry.DiscoveredAt = parsed
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Stats returns aggregate counts over the ledger.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var (
		stats  Stats
		oldest sql.NullString
		newest sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1), MIN(discovered_at), MAX(discovered_at) FROM ledger_entries`,
	).Scan(&stats.Total, &oldest, &newest)
	if err != nil {
		return Stats{}, fmt.Errorf("ledger stats: %w", err)
	}
	if oldest.Valid {
		if parsed, err := time.Parse(time.RFC3339Nano, oldest.String); err == nil {
			stats.Oldest = parsed
		}
	}
	if newest.Valid {
		if parsed, err := time.Parse(time.RFC3339Nano, newest.String); err == nil {
			stats.Newest = parsed
		}
	}
	return stats, nil
}

// CheckHealth returns diagnostic information about the ledger database.
func (s *Store) CheckHealth(ctx context.Context) (Health, error) {
	health := Health{DBPath: s.path}

	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return health, nil
		}
		return health, fmt.Errorf("stat ledger database: %w", err)
	}
	if info.IsDir() {
		return health, fmt.Errorf("ledger database path %q is a directory", s.path)
	}
	health.DatabaseExists = true

	connCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(connCtx); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("ping ledger database: %w", err)
	}
	health.DatabaseReadable = true

	var tableName string
	row := s.db.QueryRowContext(connCtx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'ledger_entries'")
	if err := row.Scan(&tableName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return health, nil
		}
		health.Error = err.Error()
		return health, fmt.Errorf("query table info: %w", err)
	}
	health.TableExists = true

	row = s.db.QueryRowContext(connCtx, "SELECT COUNT(*) FROM ledger_entries")
	if err := row.Scan(&health.TotalEntries); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("count ledger entries: %w", err)
	}

	row = s.db.QueryRowContext(connCtx, "PRAGMA integrity_check")
	var integrityResult string
	if err := row.Scan(&integrityResult); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("integrity check: %w", err)
	}
	health.IntegrityCheck = strings.EqualFold(integrityResult, "ok")

	return health, nil
}
