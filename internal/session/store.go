// Package session holds the bearer token and user identity of the current
// client, backed by a small key-value store.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/TechyShie/ecopulse/internal/domain/account"
	"go.uber.org/zap"
)

// Storage keys.
const (
	TokenKey = "token"
	UserKey  = "user"
)

// ErrEmptyToken is returned by SetAuth when no token is given.
var ErrEmptyToken = errors.New("session token must not be empty")

// KV is the persisted key-value storage behind a Store.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	// Update sets and removes keys atomically.
	Update(ctx context.Context, set map[string]string, remove ...string) error
}

// State is the authentication state of a session.
type State string

const (
	StateAnonymous     State = "anonymous"
	StateAuthenticated State = "authenticated"
)

// Store is the single source of truth for who is logged in.
type Store struct {
	kv     KV
	mu     sync.Mutex
	logger *zap.Logger
}

// NewStore creates a Store over kv.
func NewStore(kv KV, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{kv: kv, logger: logger}
}

// SetAuth stores the token and user together. A nil user removes any
// previously stored user.
func (s *Store) SetAuth(ctx context.Context, token string, user *account.User) error {
	if strings.TrimSpace(token) == "" {
		return ErrEmptyToken
	}
	set := map[string]string{TokenKey: token}
	var remove []string
	if user != nil {
		data, err := json.Marshal(user)
		if err != nil {
			return fmt.Errorf("encoding user: %w", err)
		}
		set[UserKey] = string(data)
	} else {
		remove = append(remove, UserKey)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Update(ctx, set, remove...); err != nil {
		return fmt.Errorf("storing session: %w", err)
	}
	return nil
}

// SetUser replaces the stored user while keeping the token. It is a no-op
// for anonymous sessions so a user is never stored without a token.
func (s *Store) SetUser(ctx context.Context, user account.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encoding user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token(ctx) == "" {
		return nil
	}
	if err := s.kv.Update(ctx, map[string]string{UserKey: string(data)}); err != nil {
		return fmt.Errorf("storing user: %w", err)
	}
	return nil
}

// Token returns the bearer token, or "" when absent or unreadable.
func (s *Store) Token(ctx context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token(ctx)
}

func (s *Store) token(ctx context.Context) string {
	token, ok, err := s.kv.Get(ctx, TokenKey)
	if err != nil {
		s.logger.Warn("reading session token", zap.Error(err))
		return ""
	}
	if !ok {
		return ""
	}
	return token
}

// User returns the stored user, or nil when absent or malformed.
func (s *Store) User(ctx context.Context) *account.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok, err := s.kv.Get(ctx, UserKey)
	if err != nil {
		s.logger.Warn("reading session user", zap.Error(err))
		return nil
	}
	if !ok || raw == "" {
		return nil
	}
	var user account.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		s.logger.Warn("discarding malformed session user", zap.Error(err))
		return nil
	}
	return &user
}

// IsAuthenticated reports whether a non-empty token is present. The token
// itself is not validated; the server rejects stale tokens.
func (s *Store) IsAuthenticated(ctx context.Context) bool {
	return s.Token(ctx) != ""
}

// State returns the current authentication state.
func (s *Store) State(ctx context.Context) State {
	if s.IsAuthenticated(ctx) {
		return StateAuthenticated
	}
	return StateAnonymous
}

// ClearAuth removes both token and user. Calling it again is harmless.
func (s *Store) ClearAuth(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Update(ctx, nil, TokenKey, UserKey); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

// Owner returns a stable key for the current user, used to scope local
// caches so data is never mixed across users.
func (s *Store) Owner(ctx context.Context) string {
	if u := s.User(ctx); u != nil {
		switch {
		case u.ID != 0:
			return fmt.Sprintf("user:%d", u.ID)
		case u.Email != "":
			return "email:" + strings.ToLower(u.Email)
		}
	}
	if s.IsAuthenticated(ctx) {
		return "token"
	}
	return "anonymous"
}
