package api

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/TechyShie/ecopulse/internal/apierror"
	"github.com/TechyShie/ecopulse/internal/repository"
	"go.uber.org/zap"
)

// Source tells where a read result came from.
type Source string

const (
	SourceRemote   Source = "remote"
	SourceCache    Source = "cache"
	SourceFallback Source = "fallback"
)

// Result is the outcome of a read that may be served degraded.
type Result[T any] struct {
	Value  T
	Source Source
	// StoredAt is when a cached value was fetched.
	StoredAt time.Time
	// Err is the failure that caused a degraded result.
	Err error
}

// Degraded reports whether the value did not come from the server.
func (r Result[T]) Degraded() bool {
	return r.Source != SourceRemote
}

// withFallback decorates a read-only fetch. A successful fetch refreshes the
// cache. On a transport or server failure the last cached value is served,
// or static when nothing is cached, and the failure is logged. Any other
// failure, AuthExpired in particular, is returned unchanged.
func withFallback[T any](c *core, key string, static T, fetch func(context.Context) (T, error)) func(context.Context) (Result[T], error) {
	return func(ctx context.Context) (Result[T], error) {
		owner := c.session.Owner(ctx)

		v, err := fetch(ctx)
		if err == nil {
			c.remember(ctx, owner, key, v)
			return Result[T]{Value: v, Source: SourceRemote}, nil
		}
		if !apierror.Degradable(err) {
			return Result[T]{}, err
		}

		if cached, storedAt, ok := recall[T](ctx, c, owner, key); ok {
			c.logger.Warn("serving cached data",
				zap.String("key", key),
				zap.Time("stored_at", storedAt),
				zap.Stringer("kind", apierror.KindOf(err)),
				zap.Error(err))
			return Result[T]{Value: cached, Source: SourceCache, StoredAt: storedAt, Err: err}, nil
		}

		c.logger.Warn("serving fallback data",
			zap.String("key", key),
			zap.Stringer("kind", apierror.KindOf(err)),
			zap.Error(err))
		return Result[T]{Value: static, Source: SourceFallback, Err: err}, nil
	}
}

func recall[T any](ctx context.Context, c *core, owner, key string) (T, time.Time, bool) {
	var zero T
	if c.cache == nil {
		return zero, time.Time{}, false
	}
	data, storedAt, err := c.cache.Get(ctx, owner, key)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			c.logger.Warn("reading cache entry", zap.String("key", key), zap.Error(err))
		}
		return zero, time.Time{}, false
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		c.logger.Warn("decoding cache entry", zap.String("key", key), zap.Error(err))
		return zero, time.Time{}, false
	}
	return v, storedAt, true
}
