package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS resources (
	url        TEXT PRIMARY KEY,
	fetched_at INTEGER NOT NULL,
	max_age_ms INTEGER NOT NULL,
	payload    BLOB NOT NULL
)`

// SQLiteStore persists entries in an SQLite database so they survive
// across runs. Timestamps are kept at millisecond precision.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (creating if needed) the database at path.
// Use ":memory:" for a throwaway store.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("%w: mkdir: %v", ErrStoreOpen, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreOpen, err)
	}
	// One connection: ":memory:" databases are per-connection, and writes are rare.
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
		sqliteSchema,
	} {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%w: %s: %v", ErrStoreOpen, stmt, err)
		}
	}

	return &SQLiteStore{db: db}, nil
}

// Get returns the stored entry for url, or nil.
func (s *SQLiteStore) Get(ctx context.Context, url string) (*Entry, error) {
	var (
		fetchedAt, maxAgeMS int64
		payload             []byte
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT fetched_at, max_age_ms, payload FROM resources WHERE url = ?`, url,
	).Scan(&fetchedAt, &maxAgeMS, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}

	return &Entry{
		URL:       url,
		FetchedAt: time.UnixMilli(fetchedAt),
		MaxAge:    time.Duration(maxAgeMS) * time.Millisecond,
		Payload:   payload,
	}, nil
}

// Put upserts entry.
func (s *SQLiteStore) Put(ctx context.Context, entry *Entry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO resources (url, fetched_at, max_age_ms, payload) VALUES (?, ?, ?, ?)
		 ON CONFLICT(url) DO UPDATE SET
		   fetched_at = excluded.fetched_at,
		   max_age_ms = excluded.max_age_ms,
		   payload    = excluded.payload`,
		entry.URL, entry.FetchedAt.UnixMilli(), entry.MaxAge.Milliseconds(), entry.Payload,
	)
	if err != nil {
		return fmt.Errorf("writing %s: %w", entry.URL, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Compile-time interface check.
var _ Store = (*SQLiteStore)(nil)
