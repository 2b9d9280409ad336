// Package loadstate tracks the outcome of a view's last data load and can
// re-run it on demand.
package loadstate

import (
	"context"
	"errors"
	"sync"

	"github.com/TechyShie/ecopulse/internal/apierror"
)

// ErrNothingToRetry is returned by Retry before any Load.
var ErrNothingToRetry = errors.New("no previous call to retry")

// Status is the phase of a load.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

// Func loads a value.
type Func[T any] func(ctx context.Context) (T, error)

// State remembers the last call, its value and its error.
type State[T any] struct {
	mu     sync.Mutex
	status Status
	value  T
	err    error
	last   Func[T]
}

// Load runs fn and records the outcome. A failed load keeps the previous
// value so a view can keep showing it under an error banner.
func (s *State[T]) Load(ctx context.Context, fn Func[T]) (T, error) {
	s.mu.Lock()
	s.last = fn
	s.status = StatusLoading
	s.mu.Unlock()

	v, err := fn(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.status = StatusFailed
		s.err = err
		return s.value, err
	}
	s.status = StatusReady
	s.value = v
	s.err = nil
	return v, nil
}

// Retry re-invokes the last call passed to Load.
func (s *State[T]) Retry(ctx context.Context) (T, error) {
	s.mu.Lock()
	fn := s.last
	s.mu.Unlock()
	if fn == nil {
		var zero T
		return zero, ErrNothingToRetry
	}
	return s.Load(ctx, fn)
}

// CanRetry reports whether the last load failed in a way a retry might
// fix. Auth and validation failures need user action instead.
func (s *State[T]) CanRetry() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusFailed || s.last == nil {
		return false
	}
	switch apierror.KindOf(s.err) {
	case apierror.KindTransport, apierror.KindServer, apierror.KindCanceled:
		return true
	default:
		return false
	}
}

func (s *State[T]) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == "" {
		return StatusIdle
	}
	return s.status
}

func (s *State[T]) Value() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

func (s *State[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
