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
	CREATE TABLE IF NOT EXISTS sessions (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL,
		mode       TEXT NOT NULL,
		duration   INTEGER NOT NULL DEFAULT 0,
		status     TEXT NOT NULL,
		timestamp  TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
	CREATE INDEX IF NOT EXISTS idx_sessions_time ON sessions(timestamp);

	CREATE TABLE IF NOT EXISTS timer_state (
		user_id            TEXT PRIMARY KEY,
		is_running         INTEGER NOT NULL DEFAULT 0,
		expires_at         TEXT,
		time_left_at_pause INTEGER,
		segment_start      INTEGER NOT NULL DEFAULT 1500,
		mode               TEXT NOT NULL DEFAULT 'focus',
		updated_at         TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS user_stats (
		user_id          TEXT PRIMARY KEY,
		hours_spent      REAL NOT NULL DEFAULT 0,
		daily_goal_hours REAL NOT NULL DEFAULT 2,
		last_active      TEXT
	);

	CREATE TABLE IF NOT EXISTS tasks (
		id          TEXT PRIMARY KEY,
		user_id     TEXT NOT NULL,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		type        TEXT NOT NULL DEFAULT 'general',
		status      TEXT NOT NULL DEFAULT 'To-Do',
		completed   INTEGER NOT NULL DEFAULT 0,
		due_date    TEXT,
		created_at  TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_user ON tasks(user_id);

	CREATE TABLE IF NOT EXISTS stages (
		id       TEXT PRIMARY KEY,
		user_id  TEXT NOT NULL,
		name     TEXT NOT NULL,
		builtin  INTEGER NOT NULL DEFAULT 0,
		position INTEGER NOT NULL DEFAULT 0,
		UNIQUE(user_id, name)
	);

	CREATE TABLE IF NOT EXISTS notes (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL,
		title      TEXT NOT NULL DEFAULT '',
		content    TEXT NOT NULL DEFAULT '',
		timestamp  TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_notes_user ON notes(user_id);

	CREATE TABLE IF NOT EXISTS notifications (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL,
		text       TEXT NOT NULL,
		read       INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	INSERT OR IGNORE INTO settings (key, value) VALUES
		('daily_goal_hours',   '2'),
		('week_start',         'monday'),
		('summarize_endpoint', ''),
		('video_endpoint',     'https://www.googleapis.com/youtube/v3/search'),
		('video_api_key',      '');
	`
	_, err := s.db.Exec(ddl)
	return err
}

// DefaultDBPath returns ~/.config/focustime/focustime.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "focustime", "focustime.db"), nil
}
