package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

// sequence hands out the ordering number shared by all event tables, so a
// compile, the LLM call that served it and the playback it started can be
// put back in order across tables.
type sequence struct {
	mu sync.Mutex
	db *sql.DB
}

const (
	createSequence = `CREATE TABLE IF NOT EXISTS event_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`
	seedSequence    = `INSERT OR IGNORE INTO event_sequence (id, next_val) VALUES (1, 1)`
	advanceSequence = `UPDATE event_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`
)

func newSequence(db *sql.DB) (*sequence, error) {
	for _, stmt := range []string{createSequence, seedSequence} {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("init event sequence: %w", err)
		}
	}
	return &sequence{db: db}, nil
}

// next returns the current value and advances the counter. Values start
// at 1 and survive reopening the database.
func (s *sequence) next(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	if err := s.db.QueryRowContext(ctx, advanceSequence).Scan(&n); err != nil {
		return 0, fmt.Errorf("advance event sequence: %w", err)
	}
	return n, nil
}
