// Package session persists annotation sessions to a SQLite database so
// an interrupted run can be resumed.
package session

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when no session matches the requested id.
var ErrNotFound = errors.New("session not found")

// Record is a stored session.
type Record struct {
	ID      string
	Name    string
	State   []byte
	Created time.Time
	Updated time.Time
}

// Store persists session records. The state payload is opaque to the
// store.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id      TEXT PRIMARY KEY,
	name    TEXT NOT NULL,
	state   BLOB NOT NULL,
	created INTEGER NOT NULL,
	updated INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS sessions_updated ON sessions(updated);
`

// Open creates or opens a session store at path. Parent directories are
// created as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating session dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening session store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing session store: %w", err)
	}
	return &Store{db: db}, nil
}

// Save inserts a new session or updates an existing one. A record with
// an empty ID is assigned one.
func (s *Store) Save(rec *Record) error {
	now := time.Now()
	if rec.ID == "" {
		rec.ID = uuid.NewString()
		rec.Created = now
	}
	rec.Updated = now

	_, err := s.db.Exec(`
		INSERT INTO sessions (id, name, state, created, updated)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			state = excluded.state,
			updated = excluded.updated`,
		rec.ID, rec.Name, rec.State, rec.Created.Unix(), rec.Updated.Unix())
	if err != nil {
		return fmt.Errorf("saving session %s: %w", rec.ID, err)
	}
	return nil
}

// Load fetches a session by id.
func (s *Store) Load(id string) (*Record, error) {
	row := s.db.QueryRow(`
		SELECT id, name, state, created, updated
		FROM sessions WHERE id = ?`, id)
	return scanRecord(row)
}

// Latest returns the most recently updated session, or ErrNotFound when
// the store is empty.
func (s *Store) Latest() (*Record, error) {
	row := s.db.QueryRow(`
		SELECT id, name, state, created, updated
		FROM sessions ORDER BY updated DESC LIMIT 1`)
	return scanRecord(row)
}

// List returns all sessions, most recently updated first. State payloads
// are not loaded.
func (s *Store) List() ([]*Record, error) {
	rows, err := s.db.Query(`
		SELECT id, name, created, updated
		FROM sessions ORDER BY updated DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var recs []*Record
	for rows.Next() {
		var rec Record
		var created, updated int64
		if err := rows.Scan(&rec.ID, &rec.Name, &created, &updated); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		rec.Created = time.Unix(created, 0)
		rec.Updated = time.Unix(updated, 0)
		recs = append(recs, &rec)
	}
	return recs, rows.Err()
}

// Delete removes a session. Deleting a missing session is not an error.
func (s *Store) Delete(id string) error {
	if _, err := s.db.Exec(`DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting session %s: %w", id, err)
	}
	return nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func scanRecord(row *sql.Row) (*Record, error) {
	var rec Record
	var created, updated int64
	err := row.Scan(&rec.ID, &rec.Name, &rec.State, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	rec.Created = time.Unix(created, 0)
	rec.Updated = time.Unix(updated, 0)
	return &rec, nil
}
