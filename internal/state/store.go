// Package state persists per-conversation agent state between turns.
//
// It uses SQLite as a simple durable key/value collaborator: the
// questionnaire engine treats its session as a value that is fully read
// at turn start and fully written at turn end, and this store is where
// those values live between tool invocations. It also keeps a small
// audit trail of score submissions for post-hoc debugging.
package state

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// Config holds state store configuration.
type Config struct {
	DataDir string
}

// DefaultConfig returns the default configuration, storing data under
// ~/.scorecard.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{DataDir: filepath.Join(home, ".scorecard")}
}

// Store is the durable session-state collaborator backed by SQLite.
type Store struct {
	db *sql.DB
}

// New creates a Store: it creates the data directory if needed, opens
// SQLite with WAL mode, and runs migrations.
func New(cfg Config) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("state: create data dir: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, "state.db")
	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("state: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("state: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("state: migration: %w", err)
	}

	return s, nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS submissions (
			id          TEXT PRIMARY KEY,
			session_key TEXT NOT NULL,
			score       INTEGER NOT NULL,
			reasoning   TEXT NOT NULL,
			outcome     TEXT NOT NULL,
			created_at  TEXT NOT NULL
		)`,
	}
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the serialized state stored under key, or nil when no
// state exists.
func (s *Store) Get(key string) ([]byte, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM sessions WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("state: get %q: %w", key, err)
	}
	return []byte(value), nil
}

// Set stores value under key. A nil value clears the entry.
func (s *Store) Set(key string, value []byte) error {
	if value == nil {
		if _, err := s.db.Exec(`DELETE FROM sessions WHERE key = ?`, key); err != nil {
			return fmt.Errorf("state: clear %q: %w", key, err)
		}
		return nil
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO sessions (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(value), now,
	)
	if err != nil {
		return fmt.Errorf("state: set %q: %w", key, err)
	}
	return nil
}

// Submission is one recorded score submission attempt.
type Submission struct {
	ID         string `json:"id"`
	SessionKey string `json:"session_key"`
	Score      int    `json:"score"`
	Reasoning  string `json:"reasoning"`
	Outcome    string `json:"outcome"`
	CreatedAt  string `json:"created_at"`
}

// RecordSubmission appends a submission outcome to the audit trail.
// An id is assigned when the caller leaves it empty.
func (s *Store) RecordSubmission(sub Submission) (string, error) {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	now := time.Now().UTC().Format(time.RFC3339)

	_, err := s.db.Exec(
		`INSERT INTO submissions (id, session_key, score, reasoning, outcome, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.SessionKey, sub.Score, sub.Reasoning, sub.Outcome, now,
	)
	if err != nil {
		return "", fmt.Errorf("state: record submission: %w", err)
	}
	return sub.ID, nil
}

// RecentSubmissions returns the latest audit entries, newest first.
func (s *Store) RecentSubmissions(limit int) ([]Submission, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, session_key, score, reasoning, outcome, created_at
		 FROM submissions ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("state: list submissions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var subs []Submission
	for rows.Next() {
		var sub Submission
		if err := rows.Scan(&sub.ID, &sub.SessionKey, &sub.Score, &sub.Reasoning, &sub.Outcome, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("state: scan submission: %w", err)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}
