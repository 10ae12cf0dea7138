package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	// Configure pragmas.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS schedules (
		id                   INTEGER PRIMARY KEY AUTOINCREMENT,
		title                TEXT NOT NULL,
		description          TEXT NOT NULL DEFAULT '',
		location             TEXT NOT NULL DEFAULT '',
		type                 TEXT NOT NULL DEFAULT 'custom',
		custom_type          TEXT NOT NULL DEFAULT '',
		start_time           TEXT NOT NULL,
		end_time             TEXT,
		recurrence_type      TEXT NOT NULL DEFAULT 'none',
		recurrence_interval  INTEGER NOT NULL DEFAULT 1,
		recurrence_days      TEXT NOT NULL DEFAULT '[]',
		recurrence_end_type  TEXT NOT NULL DEFAULT 'never',
		recurrence_end_date  TEXT,
		recurrence_end_count INTEGER NOT NULL DEFAULT 0,
		color                TEXT NOT NULL DEFAULT '#6C63FF',
		created_at           TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		updated_at           TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE INDEX IF NOT EXISTS idx_schedules_start ON schedules(start_time);

	CREATE TABLE IF NOT EXISTS schedule_exceptions (
		schedule_id INTEGER NOT NULL REFERENCES schedules(id) ON DELETE CASCADE,
		date        TEXT NOT NULL,
		PRIMARY KEY (schedule_id, date)
	);

	CREATE TABLE IF NOT EXISTS tasks (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		title       TEXT NOT NULL,
		notes       TEXT NOT NULL DEFAULT '',
		due_date    TEXT,
		done        INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		updated_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_due ON tasks(due_date);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	INSERT OR IGNORE INTO settings (key, value) VALUES
		('week_start',        'monday'),
		('day_start_hour',    '8'),
		('min_block_minutes', '30');
	`
	_, err := s.db.Exec(ddl)
	return err
}

// DefaultDBPath returns ~/.config/agendo/agendo.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "agendo", "agendo.db"), nil
}
