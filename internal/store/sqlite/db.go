// Package sqlite implements store.Store on SQLite via modernc.org/sqlite.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ppiankov/politikcred/internal/store"
	_ "modernc.org/sqlite"
)

const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store is a SQLite-backed store.Store
type Store struct {
	conn *sql.DB
	path string
}

var _ store.Store = (*Store)(nil)

// Open opens or creates a SQLite database at the given path
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return initialize(conn, path)
}

// OpenInMemory creates an in-memory database (for testing)
func OpenInMemory() (*Store, error) {
	conn, err := sql.Open("sqlite", ":memory:?_pragma=foreign_keys(ON)")
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	// Every pooled connection would otherwise get its own empty database
	conn.SetMaxOpenConns(1)

	return initialize(conn, ":memory:")
}

func initialize(conn *sql.DB, path string) (*Store, error) {
	s := &Store{conn: conn, path: path}
	if _, err := conn.Exec(Schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.conn.Close()
}

// Path returns the database path
func (s *Store) Path() string {
	return s.path
}

// sqliteConstraint is the primary result code for constraint violations
const sqliteConstraint = 19

// classify marks constraint violations as invalid data and everything else
// (busy, locked, I/O) as transient
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var coded interface{ Code() int }
	if errors.As(err, &coded) && coded.Code()&0xff == sqliteConstraint {
		return store.Invalid(op, err)
	}
	return store.Transient(op, err)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
