package restclient_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/TechyShie/ecopulse/internal/apierror"
	"github.com/TechyShie/ecopulse/internal/domain/account"
	"github.com/TechyShie/ecopulse/internal/restclient"
	"github.com/TechyShie/ecopulse/internal/session"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type recordingNavigator struct {
	redirects int
}

func (n *recordingNavigator) RedirectToLogin(context.Context) { n.redirects++ }

func newClient(t *testing.T, handler http.HandlerFunc) (*restclient.Client, *session.Store, *recordingNavigator) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := session.NewMemoryStore()
	nav := &recordingNavigator{}
	client, err := restclient.New(restclient.Options{
		BaseURL:   server.URL,
		Session:   store,
		Navigator: nav,
		Logger:    zaptest.NewLogger(t),
	})
	require.NoError(t, err)
	return client, store, nav
}

func TestNew_Validation(t *testing.T) {
	_, err := restclient.New(restclient.Options{Session: session.NewMemoryStore()})
	require.Error(t, err)

	_, err = restclient.New(restclient.Options{BaseURL: "not-a-url", Session: session.NewMemoryStore()})
	require.Error(t, err)

	_, err = restclient.New(restclient.Options{BaseURL: "http://localhost"})
	require.Error(t, err)
}

func TestDo_HeadersAndBody(t *testing.T) {
	var gotAuth, gotType, gotMethod, gotPath, gotQuery string
	var gotBody map[string]any
	client, store, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"id":9}`))
	})
	ctx := context.Background()
	require.NoError(t, store.SetAuth(ctx, "secret", nil))

	var out struct {
		ID int `json:"id"`
	}
	err := client.Do(ctx, restclient.Request{
		Method: http.MethodPost,
		Path:   "/api/logs",
		Query:  url.Values{"dry_run": {"1"}},
		Body:   map[string]any{"description": "bike"},
		Header: http.Header{"X-Trace": {"abc"}},
	}, &out)
	require.NoError(t, err)

	require.Equal(t, 9, out.ID)
	require.Equal(t, "Bearer secret", gotAuth)
	require.Equal(t, "application/json", gotType)
	require.Equal(t, http.MethodPost, gotMethod)
	require.Equal(t, "/api/logs", gotPath)
	require.Equal(t, "dry_run=1", gotQuery)
	require.Equal(t, "bike", gotBody["description"])
}

func TestDo_DefaultsToGetWithoutBody(t *testing.T) {
	var gotMethod, gotAuth string
	var bodyLen int
	client, _, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotAuth = r.Header.Get("Authorization")
		data, _ := io.ReadAll(r.Body)
		bodyLen = len(data)
		_, _ = w.Write([]byte(`[]`))
	})

	err := client.Do(context.Background(), restclient.Request{Path: "/api/leaderboard", Body: map[string]string{"ignored": "x"}}, nil)
	require.NoError(t, err)
	require.Equal(t, http.MethodGet, gotMethod)
	require.Empty(t, gotAuth, "no token means no Authorization header")
	require.Zero(t, bodyLen)
}

func TestDo_NoContent(t *testing.T) {
	client, _, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	out := map[string]string{"untouched": "yes"}
	require.NoError(t, client.Do(context.Background(), restclient.Request{Method: http.MethodDelete, Path: "/api/logs/1"}, &out))
	require.Equal(t, "yes", out["untouched"])
}

func TestDo_UnauthorizedEvictsSession(t *testing.T) {
	var gotPath string
	client, store, nav := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Could not validate credentials"}`))
	})
	ctx := context.Background()
	require.NoError(t, store.SetAuth(ctx, "stale", &account.User{ID: 1}))

	err := client.Get(ctx, "/api/logs", nil, nil)

	require.ErrorIs(t, err, apierror.ErrAuthExpired)
	require.Equal(t, "/api/logs", gotPath)
	require.False(t, store.IsAuthenticated(ctx))
	require.Nil(t, store.User(ctx))
	require.Equal(t, 1, nav.redirects)
}

func TestDo_ErrorBodies(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		kind    apierror.Kind
		message string
	}{
		{"validation list", http.StatusUnprocessableEntity, `{"detail":[{"loc":["body","email"],"msg":"field required"}]}`, apierror.KindValidation, "field required"},
		{"detail string", http.StatusNotFound, `{"detail":"Log not found"}`, apierror.KindServer, "Log not found"},
		{"password quirk", http.StatusInternalServerError, `{"detail":"password cannot be longer than 72 bytes"}`, apierror.KindDomainConstraint, apierror.PasswordTooLongMessage},
		{"no body", http.StatusInternalServerError, ``, apierror.KindServer, "Internal Server Error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client, _, nav := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})

			err := client.Get(context.Background(), "/api/x", nil, nil)
			var apiErr *apierror.Error
			require.True(t, errors.As(err, &apiErr))
			require.Equal(t, tc.kind, apiErr.Kind)
			require.Equal(t, tc.message, apiErr.Message)
			require.Equal(t, tc.status, apiErr.Status)
			require.Zero(t, nav.redirects)
		})
	}
}

func TestDo_UndecodableSuccessBody(t *testing.T) {
	client, _, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	var out map[string]any
	err := client.Get(context.Background(), "/api/profile", nil, &out)
	require.Equal(t, apierror.KindServer, apierror.KindOf(err))
}

func TestDo_TransportErrorPropagatesUnchanged(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	client, err := restclient.New(restclient.Options{BaseURL: baseURL, Session: session.NewMemoryStore()})
	require.NoError(t, err)

	err = client.Get(context.Background(), "/api/dashboard/stats", nil, nil)
	require.Error(t, err)

	var urlErr *url.Error
	require.True(t, errors.As(err, &urlErr), "expected the raw *url.Error, got %T", err)
	require.Equal(t, apierror.KindTransport, apierror.KindOf(err))
}

func TestDo_BaseURLWithPathPrefix(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(server.Close)

	client, err := restclient.New(restclient.Options{BaseURL: server.URL + "/v1/", Session: session.NewMemoryStore()})
	require.NoError(t, err)
	require.NoError(t, client.Delete(context.Background(), "/api/logs/4"))
	require.Equal(t, "/v1/api/logs/4", gotPath)
}

func TestNavigatorFunc(t *testing.T) {
	called := false
	var nav restclient.Navigator = restclient.NavigatorFunc(func(context.Context) { called = true })
	nav.RedirectToLogin(context.Background())
	require.True(t, called)
}
