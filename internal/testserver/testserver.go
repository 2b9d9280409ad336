// Package testserver runs the mock backend behind an httptest server and
// wires a fully configured API client against it.
package testserver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/TechyShie/ecopulse/internal/api"
	"github.com/TechyShie/ecopulse/internal/mockapi"
	"github.com/TechyShie/ecopulse/internal/restclient"
	"github.com/TechyShie/ecopulse/internal/session"
	"github.com/TechyShie/ecopulse/internal/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Start is the initial time of every test server clock.
var Start = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

// Clock is a settable time source shared by the backend and the client.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Navigator counts login redirects.
type Navigator struct {
	redirects atomic.Int32
}

func (n *Navigator) RedirectToLogin(context.Context) { n.redirects.Add(1) }

// Redirects returns how many times the client asked for a login.
func (n *Navigator) Redirects() int { return int(n.redirects.Load()) }

// TestServer is a seeded mock backend plus a client pointed at it.
type TestServer struct {
	Server    *httptest.Server
	Backend   *mockapi.Server
	Store     *mockapi.Store
	DB        *sqlite.DB
	Session   *session.Store
	Navigator *Navigator
	Clock     *Clock
	API       *api.Client

	down atomic.Bool
}

// New starts a seeded backend and returns a client with an anonymous
// session, a sqlite response cache and a sqlite pending-log queue.
func New(t *testing.T) *TestServer {
	t.Helper()

	clock := &Clock{now: Start}
	store := mockapi.NewStore(clock.Now)
	require.NoError(t, store.Seed(bcrypt.MinCost))

	backend := mockapi.New(store, mockapi.Options{
		Secret:     "test-secret",
		TokenTTL:   time.Hour,
		BcryptCost: bcrypt.MinCost,
		Now:        clock.Now,
	})

	ts := &TestServer{
		Backend:   backend,
		Store:     store,
		Navigator: &Navigator{},
		Clock:     clock,
	}

	handler := backend.Handler()
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ts.down.Load() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"detail":"Service temporarily unavailable"}`))
			return
		}
		handler.ServeHTTP(w, r)
	}))

	dsn := fmt.Sprintf("file:testserver_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	ts.DB = db

	t.Cleanup(func() {
		ts.Server.Close()
		_ = db.Close()
	})

	logger := zap.NewNop()
	ts.Session = session.NewStore(sqlite.NewKVStore(db), logger)

	rest, err := restclient.New(restclient.Options{
		BaseURL:   ts.Server.URL,
		Timeout:   5 * time.Second,
		Session:   ts.Session,
		Navigator: ts.Navigator,
		Logger:    logger,
	})
	require.NoError(t, err)

	ts.API, err = api.New(api.Deps{
		Requester: rest,
		Session:   ts.Session,
		Cache:     sqlite.NewResponseCache(db),
		Pending:   sqlite.NewPendingLogRepository(db),
		Logger:    logger,
		Now:       clock.Now,
	})
	require.NoError(t, err)

	return ts
}

// SetDown makes every request fail with 503 until called with false.
func (ts *TestServer) SetDown(down bool) {
	ts.down.Store(down)
}

// LoginDemo logs the client in as the seeded demo user.
func (ts *TestServer) LoginDemo(t *testing.T) {
	t.Helper()
	_, err := ts.API.Auth.Login(context.Background(), "demo@ecopulse.app", mockapi.DemoPassword)
	require.NoError(t, err)
}
