// Package library persists per-document reading positions in a small
// SQLite database. Positions are keyed by document fingerprint, so an
// edited book restarts from the beginning rather than landing on a
// chapter index that no longer lines up.
//
// Everything here is best effort: a missing or broken database means
// "start at chapter zero", never a failed launch.
package library

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS positions (
	fingerprint TEXT PRIMARY KEY,
	chapter     INTEGER NOT NULL,
	line        INTEGER NOT NULL,
	updated_at  INTEGER NOT NULL
);
`

// Position is where reading left off in a document.
type Position struct {
	Chapter int
	Line    int
}

// Store wraps the positions database.
type Store struct {
	db *sql.DB
}

// Open creates or opens the library database at path, creating parent
// directories as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("library: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("library: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("library: init schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Position returns the saved position for a document fingerprint.
func (s *Store) Position(fingerprint string) (Position, bool) {
	var pos Position
	err := s.db.QueryRow(
		`SELECT chapter, line FROM positions WHERE fingerprint = ?`,
		fingerprint,
	).Scan(&pos.Chapter, &pos.Line)
	if err != nil {
		return Position{}, false
	}
	return pos, true
}

// SavePosition upserts the position for a document fingerprint.
func (s *Store) SavePosition(fingerprint string, pos Position) error {
	_, err := s.db.Exec(
		`INSERT INTO positions (fingerprint, chapter, line, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(fingerprint) DO UPDATE SET
		   chapter = excluded.chapter,
		   line = excluded.line,
		   updated_at = excluded.updated_at`,
		fingerprint, pos.Chapter, pos.Line, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("library: save position: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
