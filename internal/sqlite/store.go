package sqlite

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Store owns the database path and hands out scoped sessions. A session's
// connection is opened on acquisition and closed when the scope exits, on
// success or failure. Writes are only durable after an explicit Commit inside
// the scope; anything uncommitted rolls back on release.
type Store struct {
	path string
	log  *slog.Logger
}

// New creates a store for the database file at path.
func New(path string, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{path: path, log: log}
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Acquire opens a connection and transaction, runs fn against the session,
// and releases both. If fn returns an error or never calls Commit, the
// transaction rolls back.
func (s *Store) Acquire(fn func(*Session) error) error {
	if dir := filepath.Dir(s.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()
	// Single local writer; SQLite gains nothing from a pool.
	db.SetMaxOpenConns(1)

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	sess := &Session{tx: tx, log: s.log}
	if err := fn(sess); err != nil {
		_ = tx.Rollback()
		return err
	}
	if !sess.committed {
		_ = tx.Rollback()
	}
	return nil
}
