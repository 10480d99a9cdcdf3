// Package auth manages integrations: per-user Todoist credentials keyed
// by opaque integration identifiers.
//
// The durable layer is SQLite with two tables mirroring the service's
// historical layout: "integrations" (one row per end user) and "tokens"
// (the single legacy local-mode credential).
package auth

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// Integration is one stored credential plus its generated identifier.
type Integration struct {
	ID           string  `json:"integration_id"`
	TodoistToken string  `json:"-"`
	CreatedAt    string  `json:"created_at"`
	LastUsed     *string `json:"last_used,omitempty"`
	UserAgent    string  `json:"user_agent,omitempty"`
}

// Store is the durable integration store backed by SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the SQLite database at path and runs
// migrations. The parent directory is created if it does not exist.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("auth: create data dir: %w", err)
		}
	}

	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("auth: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("auth: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("auth: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS integrations (
			integration_id TEXT PRIMARY KEY,
			todoist_token  TEXT NOT NULL,
			created_at     TEXT NOT NULL,
			last_used      TEXT,
			user_agent     TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS tokens (
			type  TEXT PRIMARY KEY,
			token TEXT NOT NULL
		);
	`
	_, err := s.db.Exec(schema)
	return err
}

// ─── Integrations ────────────────────────────────────────────────────────────

// InsertIntegration persists a new integration record. The id must be
// unique; a duplicate fails on the primary key.
func (s *Store) InsertIntegration(rec Integration) error {
	_, err := s.db.Exec(
		`INSERT INTO integrations (integration_id, todoist_token, created_at, last_used, user_agent)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.TodoistToken, rec.CreatedAt, rec.LastUsed, rec.UserAgent,
	)
	if err != nil {
		return fmt.Errorf("auth: insert integration: %w", err)
	}
	return nil
}

// GetIntegration returns the record for id, or nil when no record
// exists. Lookup is a case-sensitive exact match.
func (s *Store) GetIntegration(id string) (*Integration, error) {
	row := s.db.QueryRow(
		`SELECT integration_id, todoist_token, created_at, last_used, user_agent
		 FROM integrations WHERE integration_id = ?`, id,
	)

	var rec Integration
	err := row.Scan(&rec.ID, &rec.TodoistToken, &rec.CreatedAt, &rec.LastUsed, &rec.UserAgent)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("auth: get integration: %w", err)
	}
	return &rec, nil
}

// TouchIntegration records a successful lookup by setting last_used.
// Concurrent touches are last-write-wins.
func (s *Store) TouchIntegration(id, when string) error {
	_, err := s.db.Exec(
		`UPDATE integrations SET last_used = ? WHERE integration_id = ?`, when, id,
	)
	if err != nil {
		return fmt.Errorf("auth: touch integration: %w", err)
	}
	return nil
}

// DeleteIntegration removes the record for id. Returns true when a
// record existed and was removed. Hard delete, no tombstone.
func (s *Store) DeleteIntegration(id string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM integrations WHERE integration_id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("auth: delete integration: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("auth: delete integration: %w", err)
	}
	return n > 0, nil
}

// ListIntegrations returns all stored records. Order is unspecified.
func (s *Store) ListIntegrations() ([]Integration, error) {
	rows, err := s.db.Query(
		`SELECT integration_id, todoist_token, created_at, last_used, user_agent
		 FROM integrations`,
	)
	if err != nil {
		return nil, fmt.Errorf("auth: list integrations: %w", err)
	}
	defer rows.Close()

	var out []Integration
	for rows.Next() {
		var rec Integration
		if err := rows.Scan(&rec.ID, &rec.TodoistToken, &rec.CreatedAt, &rec.LastUsed, &rec.UserAgent); err != nil {
			return nil, fmt.Errorf("auth: list integrations: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("auth: list integrations: %w", err)
	}
	return out, nil
}

// ─── Legacy local-mode token ─────────────────────────────────────────────────

const legacyTokenType = "todoist_api"

// APIToken returns the stored local-mode Todoist token, or "" when none
// is stored.
func (s *Store) APIToken() (string, error) {
	row := s.db.QueryRow(`SELECT token FROM tokens WHERE type = ?`, legacyTokenType)

	var token string
	err := row.Scan(&token)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("auth: get api token: %w", err)
	}
	return token, nil
}

// SetAPIToken stores the local-mode Todoist token, replacing any
// previous value.
func (s *Store) SetAPIToken(token string) error {
	_, err := s.db.Exec(
		`INSERT INTO tokens (type, token) VALUES (?, ?)
		 ON CONFLICT(type) DO UPDATE SET token = excluded.token`,
		legacyTokenType, token,
	)
	if err != nil {
		return fmt.Errorf("auth: set api token: %w", err)
	}
	return nil
}

// ClearAPIToken removes the stored local-mode token.
func (s *Store) ClearAPIToken() error {
	_, err := s.db.Exec(`DELETE FROM tokens WHERE type = ?`, legacyTokenType)
	if err != nil {
		return fmt.Errorf("auth: clear api token: %w", err)
	}
	return nil
}

// now returns the current UTC time in the stored timestamp format.
func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
