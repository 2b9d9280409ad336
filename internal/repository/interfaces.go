package repository

import (
	"context"
	"time"

	"github.com/TechyShie/ecopulse/internal/domain/activity"
)

// ResponseCache stores the last successful read per owner and key.
type ResponseCache interface {
	Get(ctx context.Context, owner, key string) ([]byte, time.Time, error)
	Put(ctx context.Context, owner, key string, body []byte) error
	Purge(ctx context.Context, owner string) error
}

// PendingLogRepository queues logs whose create call failed.
type PendingLogRepository interface {
	Save(ctx context.Context, owner string, log activity.Log) error
	Get(ctx context.Context, owner string, id activity.LogID) (*activity.Log, error)
	List(ctx context.Context, owner string) ([]activity.Log, error)
	Remove(ctx context.Context, owner string, id activity.LogID) error
}
