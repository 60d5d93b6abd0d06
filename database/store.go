package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// StateStore is the device-local key/value store backing all persisted
// portal state. Values are plain JSON text. The default backend is a sqlite
// file next to the binary; setting DATABASE_URL switches to a shared
// Postgres instance with the same table shape.
//
// There is no cross-process coordination: two portals writing the same key
// leave whichever write landed last.
type StateStore struct {
	db        *sql.DB
	getQuery  string
	setQuery  string
	delQuery  string
	keysQuery string
}

const schema = `
CREATE TABLE IF NOT EXISTS local_state (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`

// Open connects the state store. A non-empty databaseURL selects Postgres;
// otherwise dataPath names the sqlite file (":memory:" is accepted).
func Open(dataPath, databaseURL string) (*StateStore, error) {
	if databaseURL != "" {
		return openPostgres(databaseURL)
	}
	return openSQLite(dataPath)
}

func openSQLite(dataPath string) (*StateStore, error) {
	db, err := sql.Open("sqlite", dataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}

	// The store has a single writer; more connections just invite
	// SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	store := &StateStore{
		db:        db,
		getQuery:  `SELECT value FROM local_state WHERE key = ?`,
		setQuery:  `INSERT INTO local_state (key, value, updated_at) VALUES (?, ?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		delQuery:  `DELETE FROM local_state WHERE key = ?`,
		keysQuery: `SELECT key FROM local_state ORDER BY key`,
	}

	if err := store.init(); err != nil {
		db.Close()
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"backend": "sqlite",
		"path":    dataPath,
	}).Info("State store opened")

	return store, nil
}

func openPostgres(databaseURL string) (*StateStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping state store: %w", err)
	}

	store := &StateStore{
		db:        db,
		getQuery:  `SELECT value FROM local_state WHERE key = $1`,
		setQuery:  `INSERT INTO local_state (key, value, updated_at) VALUES ($1, $2, $3) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		delQuery:  `DELETE FROM local_state WHERE key = $1`,
		keysQuery: `SELECT key FROM local_state ORDER BY key`,
	}

	if err := store.init(); err != nil {
		db.Close()
		return nil, err
	}

	logrus.WithField("backend", "postgres").Info("State store opened")

	return store, nil
}

func (s *StateStore) init() error {
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create state table: %w", err)
	}
	return nil
}

// Get returns the value stored under key. The boolean reports whether the
// key was present at all, mirroring the absent-vs-empty distinction the
// session flags rely on.
func (s *StateStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, s.getQuery, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read state key %q: %w", key, err)
	}
	return value, true, nil
}

// Set writes value under key, replacing any previous value.
func (s *StateStore) Set(ctx context.Context, key, value string) error {
	if _, err := s.db.ExecContext(ctx, s.setQuery, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to write state key %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *StateStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, s.delQuery, key); err != nil {
		return fmt.Errorf("failed to delete state key %q: %w", key, err)
	}
	return nil
}

// Keys lists every stored key, for diagnostics.
func (s *StateStore) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, s.keysQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list state keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

func (s *StateStore) Close() {
	if s.db != nil {
		s.db.Close()
		logrus.Info("State store closed")
	}
}
