package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/TechyShie/ecopulse/internal/repository"
)

// ResponseCache implements repository.ResponseCache for SQLite
type ResponseCache struct {
	db  *DB
	now func() time.Time
}

// NewResponseCache creates a new ResponseCache
func NewResponseCache(db *DB) *ResponseCache {
	return &ResponseCache{db: db, now: time.Now}
}

// Get returns the cached body and when it was stored
func (c *ResponseCache) Get(ctx context.Context, owner, key string) ([]byte, time.Time, error) {
	var body []byte
	var storedAt time.Time
	err := c.db.QueryRowContext(ctx,
		`SELECT body, stored_at FROM response_cache WHERE owner = ? AND key = ?`,
		owner, key,
	).Scan(&body, &storedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, repository.ErrNotFound
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to read cache: %w", err)
	}
	return body, storedAt, nil
}

// Put stores body, replacing any previous entry
func (c *ResponseCache) Put(ctx context.Context, owner, key string, body []byte) error {
	if owner == "" || key == "" {
		return repository.ErrInvalidInput
	}
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO response_cache (owner, key, body, stored_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(owner, key) DO UPDATE SET body = excluded.body, stored_at = excluded.stored_at
	`, owner, key, body, c.now().UTC())
	if err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	return nil
}

// Purge removes all entries of owner
func (c *ResponseCache) Purge(ctx context.Context, owner string) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM response_cache WHERE owner = ?`, owner); err != nil {
		return fmt.Errorf("failed to purge cache: %w", err)
	}
	return nil
}
