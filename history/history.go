// Package history records every routed command in a SQLite database.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"
)

type Interaction struct {
	ID         string    `json:"id"`
	At         time.Time `json:"at"`
	Profile    string    `json:"profile,omitempty"`
	Utterance  string    `json:"utterance"`
	Intent     string    `json:"intent"`
	Restricted bool      `json:"restricted"`
}

type Recorder interface {
	Record(ctx context.Context, in Interaction) (Interaction, error)
	Recent(ctx context.Context, limit int) ([]Interaction, error)
}

// SQLiteStore implements Recorder using SQLite.
type SQLiteStore struct {
	db *sql.DB

	mu      sync.Mutex
	entropy *rand.Rand
}

// NewSQLite opens or creates the database at dbPath.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS interactions (
		id         TEXT PRIMARY KEY,
		at         INTEGER NOT NULL,
		profile    TEXT NOT NULL DEFAULT '',
		utterance  TEXT NOT NULL,
		intent     TEXT NOT NULL,
		restricted INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_interactions_at ON interactions(at DESC);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) newID(at time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return ulid.MustNew(ulid.Timestamp(at), s.entropy).String()
}

// Record stores in, filling ID and At when they are empty.
func (s *SQLiteStore) Record(ctx context.Context, in Interaction) (Interaction, error) {
	if in.At.IsZero() {
		in.At = time.Now()
	}

	if in.ID == "" {
		in.ID = s.newID(in.At)
	}

	restricted := 0
	if in.Restricted {
		restricted = 1
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO interactions (id, at, profile, utterance, intent, restricted) VALUES (?, ?, ?, ?, ?, ?)`,
		in.ID, in.At.UnixMilli(), in.Profile, in.Utterance, in.Intent, restricted)
	if err != nil {
		return Interaction{}, fmt.Errorf("insert interaction: %w", err)
	}

	return in, nil
}

// Recent returns up to limit interactions, newest first.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]Interaction, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, at, profile, utterance, intent, restricted FROM interactions ORDER BY at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query interactions: %w", err)
	}
	defer rows.Close()

	var out []Interaction
	for rows.Next() {
		var in Interaction
		var at int64
		var restricted int

		if err := rows.Scan(&in.ID, &at, &in.Profile, &in.Utterance, &in.Intent, &restricted); err != nil {
			return nil, fmt.Errorf("scan interaction row: %w", err)
		}

		in.At = time.UnixMilli(at)
		in.Restricted = restricted != 0
		out = append(out, in)
	}

	return out, rows.Err()
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
