package store

import (
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/synergysphere/synergysphere/internal/model"
)

// MemoryDSN opens the database entirely in process memory. The dashboard
// always uses this DSN: all state is discarded when the process exits.
const MemoryDSN = ":memory:"

// SQLiteStore implements the Store interface on an SQLite database,
// which the dashboard opens in memory as its session-scoped state
// container. It also tracks the single authenticated session user.
type SQLiteStore struct {
	db *sqlx.DB

	mu      sync.Mutex
	current *model.User
}

// NewSQLiteStore opens (or creates) a SQLite database at dsn, enables
// foreign keys, and runs any pending schema migrations. Callers pass
// MemoryDSN for the session-scoped store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// An in-memory database vanishes when its last connection closes.
	// Pin the pool to a single connection so every query sees the same
	// database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// scanUser scans a user row.
func scanUser(rows interface{ Scan(dest ...interface{}) error }) (model.User, error) {
	var u model.User
	err := rows.Scan(
		&u.ID, &u.Name, &u.Email, &u.AvatarURL, &u.Role, &u.CreatedAt,
	)
	if err != nil {
		return model.User{}, fmt.Errorf("scanning user row: %w", err)
	}
	return u, nil
}

// boolToInt converts a boolean to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
