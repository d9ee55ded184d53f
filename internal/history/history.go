// Package history records finished conversions in a local SQLite database
// so the web runner can offer re-downloads and previews of past results.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS conversions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    input_name TEXT NOT NULL,
    kind TEXT NOT NULL,
    output_name TEXT NOT NULL,
    output_path TEXT NOT NULL,
    mime TEXT NOT NULL,
    turns INTEGER DEFAULT 0,
    diagnostics TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_conversions_created_at ON conversions(created_at DESC);
`

// Entry is one recorded conversion.
type Entry struct {
	ID          int64
	InputName   string
	Kind        string
	OutputName  string
	OutputPath  string
	MIME        string
	Turns       int
	Diagnostics string
	CreatedAt   time.Time
}

type Store struct {
	*sql.DB
}

// Open opens the history database and initializes the schema
func Open(dbPath string) (*Store, error) {
	// Ensure the directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// The _time_format=sqlite parameter tells the driver to parse RFC3339 timestamps
	dsn := dbPath + "?_time_format=sqlite"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite works best with a single connection
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	store := &Store{sqlDB}
	if _, err := store.Exec(schema); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

// Add records a finished conversion and returns its id.
func (s *Store) Add(e *Entry) (int64, error) {
	res, err := s.Exec(`
		INSERT INTO conversions (input_name, kind, output_name, output_path, mime, turns, diagnostics)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, e.InputName, e.Kind, e.OutputName, e.OutputPath, e.MIME, e.Turns, e.Diagnostics)
	if err != nil {
		return 0, fmt.Errorf("failed to insert conversion: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get conversion id: %w", err)
	}
	return id, nil
}

// Get returns one conversion by id.
func (s *Store) Get(id int64) (*Entry, error) {
	e := &Entry{}
	err := s.QueryRow(`
		SELECT id, input_name, kind, output_name, output_path, mime, turns, diagnostics, created_at
		FROM conversions WHERE id = ?
	`, id).Scan(&e.ID, &e.InputName, &e.Kind, &e.OutputName, &e.OutputPath, &e.MIME, &e.Turns, &e.Diagnostics, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversion: %w", err)
	}
	return e, nil
}

// Recent lists the most recent conversions, newest first.
func (s *Store) Recent(limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.Query(`
		SELECT id, input_name, kind, output_name, output_path, mime, turns, diagnostics, created_at
		FROM conversions ORDER BY created_at DESC, id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversions: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		e := &Entry{}
		if err := rows.Scan(&e.ID, &e.InputName, &e.Kind, &e.OutputName, &e.OutputPath, &e.MIME, &e.Turns, &e.Diagnostics, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan conversion: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.DB.Close()
}
