package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/TechyShie/ecopulse/internal/domain/activity"
	"github.com/TechyShie/ecopulse/internal/repository"
)

// PendingLogRepository implements repository.PendingLogRepository for SQLite
type PendingLogRepository struct {
	db *DB
}

// NewPendingLogRepository creates a new PendingLogRepository
func NewPendingLogRepository(db *DB) *PendingLogRepository {
	return &PendingLogRepository{db: db}
}

// Save inserts or replaces a pending log. Only PendingLocal ids are accepted.
func (r *PendingLogRepository) Save(ctx context.Context, owner string, log activity.Log) error {
	if !log.ID.IsPending() {
		return fmt.Errorf("%w: log %s is not pending", repository.ErrInvalidInput, log.ID)
	}
	payload, err := json.Marshal(log)
	if err != nil {
		return fmt.Errorf("failed to encode pending log: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO pending_logs (owner, id, payload, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(owner, id) DO UPDATE SET payload = excluded.payload
	`, owner, log.ID.String(), string(payload), log.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save pending log: %w", err)
	}
	return nil
}

// Get retrieves a pending log by id
func (r *PendingLogRepository) Get(ctx context.Context, owner string, id activity.LogID) (*activity.Log, error) {
	var payload string
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM pending_logs WHERE owner = ? AND id = ?`,
		owner, id.String(),
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pending log: %w", err)
	}

	var log activity.Log
	if err := json.Unmarshal([]byte(payload), &log); err != nil {
		return nil, fmt.Errorf("failed to decode pending log: %w", err)
	}
	return &log, nil
}

// List returns pending logs of owner in creation order
func (r *PendingLogRepository) List(ctx context.Context, owner string) ([]activity.Log, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT payload FROM pending_logs WHERE owner = ? ORDER BY created_at, id`,
		owner,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending logs: %w", err)
	}
	defer rows.Close()

	var logs []activity.Log
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan pending log: %w", err)
		}
		var log activity.Log
		if err := json.Unmarshal([]byte(payload), &log); err != nil {
			return nil, fmt.Errorf("failed to decode pending log: %w", err)
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

// Remove deletes a pending log
func (r *PendingLogRepository) Remove(ctx context.Context, owner string, id activity.LogID) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM pending_logs WHERE owner = ? AND id = ?`,
		owner, id.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to remove pending log: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
