package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

const sequenceTable = "global_sequence"

// sequenceCounter orders grades and LLM events against each other: rows in
// both tables draw from the same counter. It is raw SQL because the ent
// builders cannot express an upsert with RETURNING.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS ` + sequenceTable + ` (
		id    INTEGER PRIMARY KEY CHECK (id = 1),
		value INTEGER NOT NULL
	)`)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", sequenceTable, err)
	}
	return &sequenceCounter{db: db}, nil
}

// Next returns the next value, starting at 1. The single row is created on
// first use.
func (c *sequenceCounter) Next(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var v int64
	err := c.db.QueryRowContext(ctx, `INSERT INTO `+sequenceTable+` (id, value) VALUES (1, 1)
		ON CONFLICT(id) DO UPDATE SET value = value + 1
		RETURNING value`).Scan(&v)
	if err != nil {
		return 0, fmt.Errorf("advance %s: %w", sequenceTable, err)
	}
	return v, nil
}
