package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog/log"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS markov_transitions (
	current_state TEXT NOT NULL,
	next_state    TEXT NOT NULL,
	count         INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (current_state, next_state)
);
CREATE TABLE IF NOT EXISTS q_values (
	state_hash INTEGER NOT NULL,
	state_key  TEXT NOT NULL,
	action     TEXT NOT NULL,
	value      REAL NOT NULL DEFAULT 0,
	PRIMARY KEY (state_hash, action)
);
`

// SQLite is a durable MarkovStore and QStore over a single database
// file. Writes retry on transient (busy/locked) failures.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("could not open store at %s: %w", path, err)
	}
	// The engine is single-writer; a second connection would just fight
	// over the file lock.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not create schema: %w", err)
	}
	log.Debug().Str("path", path).Msg("opened-sqlite-store")
	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

// write runs fn with a short retry loop; sqlite reports lock contention
// as an error rather than blocking.
func (s *SQLite) write(fn func() error) error {
	return retry.Do(fn,
		retry.Attempts(3),
		retry.Delay(10*time.Millisecond),
		retry.LastErrorOnly(true),
	)
}

func (s *SQLite) RecordTransition(current, next string, count int) error {
	return s.write(func() error {
		_, err := s.db.Exec(`
			INSERT INTO markov_transitions (current_state, next_state, count)
			VALUES (?, ?, ?)
			ON CONFLICT (current_state, next_state)
			DO UPDATE SET count = count + excluded.count`,
			current, next, count)
		return err
	})
}

func (s *SQLite) Transitions(current string) (map[string]int, error) {
	rows, err := s.db.Query(`
		SELECT next_state, count FROM markov_transitions
		WHERE current_state = ?`, current)
	if err != nil {
		return nil, fmt.Errorf("could not read transitions: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var next string
		var count int
		if err := rows.Scan(&next, &count); err != nil {
			return nil, err
		}
		counts[next] = count
	}
	return counts, rows.Err()
}

func (s *SQLite) StateProbabilities(current string) (map[string]float64, error) {
	counts, err := s.Transitions(current)
	if err != nil {
		return nil, err
	}
	return Normalize(counts), nil
}

func stateHash(state string) int64 {
	return int64(xxhash.Sum64String(state))
}

func (s *SQLite) GetQValue(state, action string) (float64, error) {
	var value float64
	err := s.db.QueryRow(`
		SELECT value FROM q_values WHERE state_hash = ? AND action = ?`,
		stateHash(state), action).Scan(&value)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("could not read q-value: %w", err)
	}
	return value, nil
}

func (s *SQLite) SetQValue(state, action string, value float64) error {
	return s.write(func() error {
		_, err := s.db.Exec(`
			INSERT INTO q_values (state_hash, state_key, action, value)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (state_hash, action)
			DO UPDATE SET value = excluded.value`,
			stateHash(state), state, action, value)
		return err
	})
}

func (s *SQLite) StateActions(state string) (map[string]float64, error) {
	rows, err := s.db.Query(`
		SELECT action, value FROM q_values WHERE state_hash = ?`,
		stateHash(state))
	if err != nil {
		return nil, fmt.Errorf("could not read state actions: %w", err)
	}
	defer rows.Close()

	actions := make(map[string]float64)
	for rows.Next() {
		var action string
		var value float64
		if err := rows.Scan(&action, &value); err != nil {
			return nil, err
		}
		actions[action] = value
	}
	return actions, rows.Err()
}
