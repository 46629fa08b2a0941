// Package history persists the command lines launched through screendeck
// in a small SQLite database, so the new-session dialog can suggest what
// worked last time. Nothing about screen's own sessions is stored here;
// session state belongs to screen.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/asheshgoplani/screendeck/internal/logging"
)

var histLog = logging.ForComponent(logging.CompHistory)

// SchemaVersion tracks the current database schema version.
// Bump this when adding migrations.
const SchemaVersion = 1

// DefaultFileName is the database file under ~/.screendeck.
const DefaultFileName = "history.db"

// Store wraps the SQLite database. Thread-safe within one process;
// WAL mode plus a busy timeout keep concurrent screendeck invocations
// (dashboard open while `screendeck new` runs) from tripping over locks.
type Store struct {
	db *sql.DB
}

// Entry is one remembered command.
type Entry struct {
	Command  string
	UseCount int
	LastUsed time.Time
}

// Open creates or opens the database at dbPath.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return nil, fmt.Errorf("history: mkdir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("history: open: %w", err)
	}

	// WAL mode: concurrent readers while writing
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: wal mode: %w", err)
	}

	// Busy timeout: wait up to 5s if another process holds a lock
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: busy timeout: %w", err)
	}

	return &Store{db: db}, nil
}

// Close checkpoints WAL and closes the database.
func (s *Store) Close() error {
	_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
	return s.db.Close()
}

// Migrate creates tables if they don't exist.
func (s *Store) Migrate() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("history: begin migrate: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS metadata (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("history: create metadata: %w", err)
	}

	if _, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS commands (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			command      TEXT NOT NULL UNIQUE,
			use_count    INTEGER NOT NULL DEFAULT 1,
			last_used_at INTEGER NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("history: create commands: %w", err)
	}

	if _, err := tx.Exec(`
		INSERT OR REPLACE INTO metadata (key, value) VALUES ('schema_version', ?)
	`, fmt.Sprintf("%d", SchemaVersion)); err != nil {
		return fmt.Errorf("history: set schema version: %w", err)
	}

	return tx.Commit()
}

// Record remembers one launched command, bumping its use count if it was
// seen before. Empty commands (a session created with the default shell)
// are not worth remembering.
func (s *Store) Record(command string) error {
	if command == "" {
		return nil
	}
	// Nanosecond timestamps so rapid re-records still reorder correctly.
	_, err := s.db.Exec(`
		INSERT INTO commands (command, use_count, last_used_at)
		VALUES (?, 1, ?)
		ON CONFLICT(command) DO UPDATE SET
			use_count    = use_count + 1,
			last_used_at = excluded.last_used_at
	`, command, time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("history: record: %w", err)
	}
	histLog.Debug("command_recorded")
	return nil
}

// Recent returns up to limit distinct commands, most recently used first.
func (s *Store) Recent(limit int) ([]string, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT command FROM commands
		ORDER BY last_used_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: recent: %w", err)
	}
	defer rows.Close()

	var commands []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		commands = append(commands, c)
	}
	return commands, rows.Err()
}

// Entries returns up to limit entries with usage details, most recently
// used first. Backs the `screendeck history` subcommand.
func (s *Store) Entries(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT command, use_count, last_used_at FROM commands
		ORDER BY last_used_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var lastUsed int64
		if err := rows.Scan(&e.Command, &e.UseCount, &lastUsed); err != nil {
			return nil, err
		}
		e.LastUsed = time.Unix(0, lastUsed)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Prune drops the least recently used commands beyond max.
func (s *Store) Prune(max int) error {
	if max <= 0 {
		return nil
	}
	_, err := s.db.Exec(`
		DELETE FROM commands WHERE id NOT IN (
			SELECT id FROM commands
			ORDER BY last_used_at DESC, id DESC
			LIMIT ?
		)
	`, max)
	if err != nil {
		return fmt.Errorf("history: prune: %w", err)
	}
	return nil
}

// Clear removes all remembered commands.
func (s *Store) Clear() error {
	_, err := s.db.Exec(`DELETE FROM commands`)
	if err != nil {
		return fmt.Errorf("history: clear: %w", err)
	}
	return nil
}

// DefaultPath returns ~/.screendeck/history.db.
func DefaultPath(screendeckDir string) string {
	return filepath.Join(screendeckDir, DefaultFileName)
}
