package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/TechyShie/ecopulse/internal/apierror"
	"github.com/TechyShie/ecopulse/internal/domain/activity"
	"github.com/TechyShie/ecopulse/internal/repository"
	"go.uber.org/zap"
)

// LogsAPI covers /api/logs and the local queue of pending logs.
type LogsAPI struct {
	c *core
}

// List returns a page of the user's logs.
func (l *LogsAPI) List(ctx context.Context, page Page) (Result[[]activity.Log], error) {
	return withFallback(l.c, page.cacheKey("logs"), fallbackLogs(l.c.now()), func(ctx context.Context) ([]activity.Log, error) {
		var out []activity.Log
		err := l.c.get(ctx, "/api/logs", page.query(), &out)
		return out, err
	})(ctx)
}

// ListWithPending is List with queued pending logs in front.
func (l *LogsAPI) ListWithPending(ctx context.Context, page Page) (Result[[]activity.Log], error) {
	res, err := l.List(ctx, page)
	if err != nil {
		return res, err
	}
	pending, err := l.Pending(ctx)
	if err != nil {
		l.c.logger.Warn("listing pending logs", zap.Error(err))
		return res, nil
	}
	if len(pending) > 0 {
		res.Value = append(pending, res.Value...)
	}
	return res, nil
}

// Pending returns the queued logs of the current user, oldest first.
func (l *LogsAPI) Pending(ctx context.Context) ([]activity.Log, error) {
	if l.c.pending == nil {
		return nil, nil
	}
	return l.c.pending.List(ctx, l.c.session.Owner(ctx))
}

// Create records a new log on the server.
func (l *LogsAPI) Create(ctx context.Context, in activity.Input) (*activity.Log, error) {
	if err := l.c.check(in); err != nil {
		return nil, err
	}
	var out activity.Log
	if err := l.c.send(ctx, http.MethodPost, "/api/logs", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateOrQueue creates a log, or on a transport failure or 5xx queues it
// locally and returns it with a pending id. A 4xx is returned as is.
func (l *LogsAPI) CreateOrQueue(ctx context.Context, in activity.Input) (*activity.Log, error) {
	created, err := l.Create(ctx, in)
	if err == nil {
		return created, nil
	}
	if !apierror.Retryable(err) || l.c.pending == nil {
		return nil, err
	}

	queued := in.ToLog(activity.NewPendingLocal(), l.c.now().UTC())
	if qerr := l.c.pending.Save(ctx, l.c.session.Owner(ctx), queued); qerr != nil {
		l.c.logger.Error("queueing pending log", zap.Error(qerr))
		return nil, err
	}
	l.c.logger.Warn("queued log for later sync",
		zap.Stringer("id", queued.ID),
		zap.Stringer("kind", apierror.KindOf(err)),
		zap.Error(err))
	return &queued, nil
}

// Update changes a log. A pending log is changed in the local queue.
func (l *LogsAPI) Update(ctx context.Context, id activity.LogID, in activity.Input) (*activity.Log, error) {
	if id.IsZero() {
		return nil, apierror.Validation("A log id is required.", map[string]string{"id": "is required"})
	}
	if err := l.c.check(in); err != nil {
		return nil, err
	}

	if id.IsPending() {
		if l.c.pending == nil {
			return nil, repository.ErrNotFound
		}
		owner := l.c.session.Owner(ctx)
		existing, err := l.c.pending.Get(ctx, owner, id)
		if err != nil {
			return nil, err
		}
		updated := in.ToLog(id, existing.CreatedAt)
		if err := l.c.pending.Save(ctx, owner, updated); err != nil {
			return nil, err
		}
		return &updated, nil
	}

	var out activity.Log
	if err := l.c.send(ctx, http.MethodPut, "/api/logs/"+id.String(), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a log. A pending log is dropped from the local queue.
func (l *LogsAPI) Delete(ctx context.Context, id activity.LogID) error {
	if id.IsZero() {
		return apierror.Validation("A log id is required.", map[string]string{"id": "is required"})
	}
	if id.IsPending() {
		if l.c.pending == nil {
			return repository.ErrNotFound
		}
		return l.c.pending.Remove(ctx, l.c.session.Owner(ctx), id)
	}
	return l.c.send(ctx, http.MethodDelete, "/api/logs/"+id.String(), nil, nil)
}

// SyncResult is the outcome of replaying one pending log.
type SyncResult struct {
	LocalID activity.LogID
	Created *activity.Log
	Err     error
}

// Synced reports whether the log reached the server.
func (r SyncResult) Synced() bool {
	return r.Err == nil && r.Created != nil
}

// SyncPending replays queued logs in order. A log is removed from the queue
// once the server confirms it. Other failures are reported per log and the
// log stays queued. AuthExpired and cancellation stop the replay.
func (l *LogsAPI) SyncPending(ctx context.Context) ([]SyncResult, error) {
	if l.c.pending == nil {
		return nil, nil
	}
	owner := l.c.session.Owner(ctx)
	queued, err := l.c.pending.List(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("listing pending logs: %w", err)
	}

	results := make([]SyncResult, 0, len(queued))
	for _, q := range queued {
		created, err := l.Create(ctx, activity.InputFrom(q))
		switch apierror.KindOf(err) {
		case apierror.KindNone:
		case apierror.KindAuthExpired, apierror.KindCanceled:
			return results, err
		default:
			l.c.logger.Warn("pending log not synced", zap.Stringer("id", q.ID), zap.Error(err))
			results = append(results, SyncResult{LocalID: q.ID, Err: err})
			continue
		}

		if err := l.c.pending.Remove(ctx, owner, q.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			l.c.logger.Error("removing synced log from queue", zap.Stringer("id", q.ID), zap.Error(err))
		}
		results = append(results, SyncResult{LocalID: q.ID, Created: created})
	}
	return results, nil
}
