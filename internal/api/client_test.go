package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/TechyShie/ecopulse/internal/api"
	"github.com/TechyShie/ecopulse/internal/apierror"
	"github.com/TechyShie/ecopulse/internal/domain/account"
	"github.com/TechyShie/ecopulse/internal/domain/activity"
	"github.com/TechyShie/ecopulse/internal/domain/chat"
	"github.com/TechyShie/ecopulse/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiresCollaborators(t *testing.T) {
	_, err := api.New(api.Deps{})
	require.Error(t, err)

	_, err = api.New(api.Deps{Requester: &mockRequester{}})
	require.Error(t, err)

	c, err := api.New(api.Deps{Requester: &mockRequester{}, Session: session.NewMemoryStore()})
	require.NoError(t, err)
	require.NotNil(t, c.Logs)
}

func TestEveryAccessor_401EvictsSession(t *testing.T) {
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"detail":"Could not validate credentials"}`)
	}))

	name := "Ada"
	calls := map[string]func(ctx context.Context) error{
		"auth.me": func(ctx context.Context) error { _, err := h.client.Auth.Me(ctx); return err },
		"dashboard.stats": func(ctx context.Context) error {
			_, err := h.client.Dashboard.Stats(ctx)
			return err
		},
		"dashboard.activities": func(ctx context.Context) error {
			_, err := h.client.Dashboard.Activities(ctx, api.Page{Limit: 5})
			return err
		},
		"dashboard.overview": func(ctx context.Context) error {
			_, err := h.client.Dashboard.Overview(ctx, api.Page{})
			return err
		},
		"logs.list":   func(ctx context.Context) error { _, err := h.client.Logs.List(ctx, api.Page{}); return err },
		"logs.create": func(ctx context.Context) error { _, err := h.client.Logs.Create(ctx, validInput()); return err },
		"logs.create_or_queue": func(ctx context.Context) error {
			_, err := h.client.Logs.CreateOrQueue(ctx, validInput())
			return err
		},
		"logs.update": func(ctx context.Context) error {
			_, err := h.client.Logs.Update(ctx, activity.Persisted(3), validInput())
			return err
		},
		"logs.delete": func(ctx context.Context) error { return h.client.Logs.Delete(ctx, activity.Persisted(3)) },
		"insights.weekly": func(ctx context.Context) error {
			_, err := h.client.Insights.Weekly(ctx)
			return err
		},
		"insights.categories": func(ctx context.Context) error {
			_, err := h.client.Insights.Categories(ctx)
			return err
		},
		"insights.summary": func(ctx context.Context) error {
			_, err := h.client.Insights.Summary(ctx)
			return err
		},
		"leaderboard": func(ctx context.Context) error {
			_, err := h.client.Leaderboard.Get(ctx, api.Page{})
			return err
		},
		"profile.get": func(ctx context.Context) error { _, err := h.client.Profile.Get(ctx); return err },
		"profile.update": func(ctx context.Context) error {
			_, err := h.client.Profile.Update(ctx, account.ProfileUpdate{FullName: &name})
			return err
		},
		"profile.badges": func(ctx context.Context) error {
			_, err := h.client.Profile.Badges(ctx)
			return err
		},
		"profile.achievements": func(ctx context.Context) error {
			_, err := h.client.Profile.Achievements(ctx)
			return err
		},
		"ai.chat": func(ctx context.Context) error { _, err := h.client.AI.Chat(ctx, "tips?"); return err },
		"ai.ask": func(ctx context.Context) error {
			_, err := h.client.AI.Ask(ctx, &chat.Conversation{}, "tips?")
			return err
		},
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			h.login(t)
			before := h.nav.count()

			err := call(ctx)
			require.Error(t, err)
			assert.True(t, apierror.IsAuthExpired(err))
			assert.False(t, h.store.IsAuthenticated(ctx))
			assert.Nil(t, h.store.User(ctx))
			assert.Greater(t, h.nav.count(), before)
		})
	}
}

func TestLogsList_401Flow(t *testing.T) {
	var hits int32
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Equal(t, "/api/logs", r.URL.Path)
		writeJSON(w, http.StatusUnauthorized, `{"detail":"Token expired"}`)
	}))
	ctx := context.Background()
	h.login(t)

	res, err := h.client.Logs.List(ctx, api.Page{})
	require.Error(t, err)
	assert.Equal(t, apierror.AuthExpiredMessage, err.Error())
	assert.Empty(t, res.Value)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	assert.Equal(t, 1, h.nav.count())
	assert.Equal(t, session.StateAnonymous, h.store.State(ctx))
	assert.Empty(t, h.store.Token(ctx))
}

func TestLogin_StoresSession(t *testing.T) {
	var got map[string]string
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&got)
		writeJSON(w, http.StatusOK, `{"access_token":"jwt-1","token_type":"bearer","user":{"id":3,"email":"ada@example.com","full_name":"Ada"}}`)
	}))
	ctx := context.Background()

	user, err := h.client.Auth.Login(ctx, "ada@example.com", "secret-pass")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, int64(3), user.ID)
	assert.Equal(t, "ada@example.com", got["email"])
	assert.Equal(t, "secret-pass", got["password"])
	assert.Equal(t, "jwt-1", h.store.Token(ctx))
	assert.Equal(t, "Ada", h.store.User(ctx).FullName)
}

func TestLogin_FetchesUserWhenMissing(t *testing.T) {
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			writeJSON(w, http.StatusOK, `{"access_token":"jwt-2"}`)
		case "/auth/me":
			assert.Equal(t, "Bearer jwt-2", r.Header.Get("Authorization"))
			writeJSON(w, http.StatusOK, `{"id":4,"email":"bo@example.com"}`)
		default:
			http.NotFound(w, r)
		}
	}))
	ctx := context.Background()

	user, err := h.client.Auth.Login(ctx, "bo@example.com", "secret-pass")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, int64(4), h.store.User(ctx).ID)
}

func TestLogin_UserLookupFailureIsTolerated(t *testing.T) {
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/login" {
			writeJSON(w, http.StatusOK, `{"access_token":"jwt-3"}`)
			return
		}
		writeJSON(w, http.StatusInternalServerError, `{"detail":"boom"}`)
	}))
	ctx := context.Background()

	user, err := h.client.Auth.Login(ctx, "cy@example.com", "secret-pass")
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.True(t, h.store.IsAuthenticated(ctx))
	assert.Nil(t, h.store.User(ctx))
}

func TestLogin_MissingTokenIsServerError(t *testing.T) {
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{}`)
	}))
	ctx := context.Background()

	_, err := h.client.Auth.Login(ctx, "cy@example.com", "secret-pass")
	require.Error(t, err)
	assert.Equal(t, apierror.KindServer, apierror.KindOf(err))
	assert.False(t, h.store.IsAuthenticated(ctx))
}

func TestValidationNeverReachesNetwork(t *testing.T) {
	var hits int32
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		writeJSON(w, http.StatusOK, `{}`)
	}))
	ctx := context.Background()
	h.login(t)

	_, err := h.client.Auth.Login(ctx, "not-an-email", "")
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))

	_, err = h.client.Auth.Signup(ctx, "ada@example.com", "longenough", "Ada", "different1")
	require.Error(t, err)
	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Fields, "confirm_password")

	_, err = h.client.Auth.Signup(ctx, "ada@example.com", "short", "Ada", "short")
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))

	bad := validInput()
	bad.EmissionsSaved = -1
	_, err = h.client.Logs.Create(ctx, bad)
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Fields, "emissions_saved")

	bad = validInput()
	bad.ActivityDate = activity.Date{}
	_, err = h.client.Logs.CreateOrQueue(ctx, bad)
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Fields, "activity_date")

	_, err = h.client.AI.Chat(ctx, "   ")
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))

	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
	pending, err := h.client.Logs.Pending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestSignup_PasswordTooLongForBackend(t *testing.T) {
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, `{"detail":"password cannot be longer than 72 bytes, truncate manually if necessary (e.g. my_password[:72])"}`)
	}))
	ctx := context.Background()

	// 40 characters, 80 bytes: fine for the form, too long for bcrypt.
	pw := strings.Repeat("é", 40)
	_, err := h.client.Auth.Signup(ctx, "ada@example.com", pw, "Ada", pw)
	require.Error(t, err)
	assert.Equal(t, apierror.KindDomainConstraint, apierror.KindOf(err))
	assert.Equal(t, apierror.PasswordTooLongMessage, err.Error())
}

func TestSignup_StoresSessionOnlyWithToken(t *testing.T) {
	var withToken atomic.Bool
	withToken.Store(true)
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if withToken.Load() {
			writeJSON(w, http.StatusCreated, `{"id":5,"email":"di@example.com","full_name":"Di","access_token":"jwt-5"}`)
			return
		}
		writeJSON(w, http.StatusCreated, `{"id":6,"email":"ed@example.com","full_name":"Ed"}`)
	}))
	ctx := context.Background()

	user, err := h.client.Auth.Signup(ctx, "di@example.com", "longenough", "Di", "longenough")
	require.NoError(t, err)
	assert.Equal(t, int64(5), user.ID)
	assert.Equal(t, "jwt-5", h.store.Token(ctx))
	assert.Equal(t, "Di", h.store.User(ctx).FullName)

	require.NoError(t, h.client.Auth.Logout(ctx))
	withToken.Store(false)
	user, err = h.client.Auth.Signup(ctx, "ed@example.com", "longenough", "Ed", "longenough")
	require.NoError(t, err)
	assert.Equal(t, int64(6), user.ID)
	assert.False(t, h.store.IsAuthenticated(ctx))
}

func TestProfile_RefreshesSessionUser(t *testing.T) {
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"id":7,"email":"ada@example.com","username":"ada","full_name":"Ada Lovelace","eco_score":420,"created_at":"2024-01-01T00:00:00Z"}`)
	}))
	ctx := context.Background()
	h.login(t)

	prof, err := h.client.Profile.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 420, prof.EcoScore)
	assert.Equal(t, "Ada Lovelace", h.store.User(ctx).FullName)
	assert.Equal(t, "ada", h.store.User(ctx).Username)
}
