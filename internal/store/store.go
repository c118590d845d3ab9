// Package store persists per-file cursor positions in SQLite, so
// reopening a file returns to where editing left off.
package store

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite" // register sqlite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS positions (
	path     TEXT PRIMARY KEY,
	line     INTEGER NOT NULL,
	col      INTEGER NOT NULL,
	updated  INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_positions_updated ON positions(updated);
`

// Positions older than this are pruned on open; a file untouched for
// months does not need its cursor remembered.
const maxAge = 90 * 24 * time.Hour

// Store is a SQLite-backed cursor position store.
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

// Open creates or opens the position database at the given path.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open position db: %w", err)
	}

	// SQLite pragmas for performance.
	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	s := &Store{db: db}
	s.purgeStale()
	return s, nil
}

// Close closes the database. Safe on a nil receiver.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.db.Close()
}

// Get returns the remembered 0-based cursor position for a file.
// Safe to call on a nil receiver (returns a miss).
func (s *Store) Get(path string) (line, col int, ok bool) {
	if s == nil {
		return 0, 0, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.QueryRow(
		"SELECT line, col FROM positions WHERE path = ?",
		normalizePath(path),
	).Scan(&line, &col)
	if err != nil {
		return 0, 0, false
	}
	return line, col, true
}

// Set remembers the cursor position for a file. No-op on nil receiver.
func (s *Store) Set(path string, line, col int) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO positions (path, line, col, updated) VALUES (?, ?, ?, ?)",
		normalizePath(path), line, col, time.Now().Unix(),
	)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to save cursor position")
	}
}

// purgeStale removes positions not touched within maxAge.
func (s *Store) purgeStale() {
	cutoff := time.Now().Add(-maxAge).Unix()
	res, err := s.db.Exec("DELETE FROM positions WHERE updated <= ?", cutoff)
	if err != nil {
		log.Warn().Err(err).Msg("failed to purge stale positions")
		return
	}
	if n, _ := res.RowsAffected(); n > 0 {
		log.Info().Int64("deleted", n).Msg("purged stale cursor positions")
	}
}

// normalizePath keys entries by absolute path so the same file opened
// from different directories shares one entry.
func normalizePath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
