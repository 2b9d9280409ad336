package api_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/TechyShie/ecopulse/internal/api"
	"github.com/TechyShie/ecopulse/internal/domain/account"
	"github.com/TechyShie/ecopulse/internal/domain/activity"
	"github.com/TechyShie/ecopulse/internal/restclient"
	"github.com/TechyShie/ecopulse/internal/session"
	"github.com/TechyShie/ecopulse/internal/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var fixedNow = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

type recordingNavigator struct {
	redirects atomic.Int32
}

func (n *recordingNavigator) RedirectToLogin(context.Context) { n.redirects.Add(1) }

func (n *recordingNavigator) count() int { return int(n.redirects.Load()) }

type harness struct {
	server  *httptest.Server
	client  *api.Client
	store   *session.Store
	nav     *recordingNavigator
	cache   *sqlite.ResponseCache
	pending *sqlite.PendingLogRepository
}

func newHarness(t *testing.T, handler http.Handler) *harness {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	dsn := fmt.Sprintf("file:api_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })

	logger := zaptest.NewLogger(t)
	store := session.NewStore(session.NewMemoryKV(), logger)
	nav := &recordingNavigator{}
	rest, err := restclient.New(restclient.Options{
		BaseURL:   server.URL,
		Session:   store,
		Navigator: nav,
		Logger:    logger,
	})
	require.NoError(t, err)

	h := &harness{
		server:  server,
		store:   store,
		nav:     nav,
		cache:   sqlite.NewResponseCache(db),
		pending: sqlite.NewPendingLogRepository(db),
	}
	h.client, err = api.New(api.Deps{
		Requester: rest,
		Session:   store,
		Cache:     h.cache,
		Pending:   h.pending,
		Logger:    logger,
		Now:       func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	return h
}

func (h *harness) login(t *testing.T) {
	t.Helper()
	require.NoError(t, h.store.SetAuth(context.Background(), "tok-7", &account.User{ID: 7, Email: "ada@example.com"}))
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func validInput() activity.Input {
	return activity.Input{
		ActivityType:   "transportation",
		Description:    "Cycled to work",
		EmissionsSaved: 2.5,
		PointsEarned:   25,
		ActivityDate:   activity.MustDate("2024-01-15"),
	}
}
