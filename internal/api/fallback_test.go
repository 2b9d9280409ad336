package api_test

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/TechyShie/ecopulse/internal/api"
	"github.com/TechyShie/ecopulse/internal/apierror"
	"github.com/TechyShie/ecopulse/internal/domain/account"
	"github.com/TechyShie/ecopulse/internal/repository"
	"github.com/TechyShie/ecopulse/internal/repository/mocks"
	"github.com/TechyShie/ecopulse/internal/restclient"
	"github.com/TechyShie/ecopulse/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type mockRequester struct {
	mock.Mock
}

func (m *mockRequester) Do(ctx context.Context, req restclient.Request, out any) error {
	args := m.Called(ctx, req, out)
	return args.Error(0)
}

func TestStats_ServesCacheAfterServerError(t *testing.T) {
	var broken atomic.Bool
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if broken.Load() {
			writeJSON(w, http.StatusServiceUnavailable, `{"detail":"maintenance"}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"total_emissions_saved":12.5,"total_points":120,"eco_score":64,"activities_count":6,"current_streak":3}`)
	}))
	ctx := context.Background()
	h.login(t)

	first, err := h.client.Dashboard.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, api.SourceRemote, first.Source)
	assert.False(t, first.Degraded())

	broken.Store(true)
	second, err := h.client.Dashboard.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, api.SourceCache, second.Source)
	assert.True(t, second.Degraded())
	assert.Equal(t, first.Value, second.Value)
	assert.False(t, second.StoredAt.IsZero())
	assert.Equal(t, apierror.KindServer, apierror.KindOf(second.Err))
}

func TestStats_ServesStaticWithoutCache(t *testing.T) {
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, `{"detail":"Traceback (most recent call last): ..."}`)
	}))
	ctx := context.Background()
	h.login(t)

	res, err := h.client.Dashboard.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, api.SourceFallback, res.Source)
	assert.Equal(t, 5, res.Value.ActivitiesCount)
	assert.NotContains(t, res.Err.Error(), "Traceback")
}

func TestCache_IsScopedToUser(t *testing.T) {
	var broken atomic.Bool
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if broken.Load() {
			writeJSON(w, http.StatusBadGateway, `{}`)
			return
		}
		writeJSON(w, http.StatusOK, `[{"category":"food","emissions_saved":4,"count":2}]`)
	}))
	ctx := context.Background()
	h.login(t)

	_, err := h.client.Insights.Categories(ctx)
	require.NoError(t, err)

	broken.Store(true)
	require.NoError(t, h.store.SetAuth(ctx, "tok-8", &account.User{ID: 8}))
	res, err := h.client.Insights.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, api.SourceFallback, res.Source)
}

func TestFallback_TransportFailure(t *testing.T) {
	h := newHarness(t, http.NotFoundHandler())
	ctx := context.Background()
	h.login(t)
	h.server.Close()

	res, err := h.client.Insights.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, api.SourceFallback, res.Source)
	assert.Equal(t, apierror.KindTransport, apierror.KindOf(res.Err))
	assert.Equal(t, "shopping", res.Value.TopCategory)

	weekly, err := h.client.Insights.Weekly(ctx)
	require.NoError(t, err)
	require.Len(t, weekly.Value, 7)
	assert.Equal(t, "2024-01-15", weekly.Value[6].Day.String())
	assert.Equal(t, 2.5, weekly.Value[6].EmissionsSaved)
}

func TestFallback_ValidationErrorPropagates(t *testing.T) {
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnprocessableEntity, `{"detail":[{"loc":["query","limit"],"msg":"ensure this value is less than or equal to 100","type":"value_error"}]}`)
	}))
	ctx := context.Background()
	h.login(t)

	_, err := h.client.Logs.List(ctx, api.Page{Limit: 1000})
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
	assert.True(t, h.store.IsAuthenticated(ctx))
}

func TestFallback_WithMockedCollaborators(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()
	require.NoError(t, store.SetAuth(ctx, "tok", &account.User{ID: 9}))

	req := &mockRequester{}
	req.On("Do", mock.Anything, mock.MatchedBy(func(r restclient.Request) bool {
		return r.Path == "/api/profile/badges"
	}), mock.Anything).Return(errors.New("dial tcp: connection refused"))

	cache := &mocks.ResponseCache{}
	cache.On("Get", mock.Anything, "user:9", "profile.badges").Return(nil, time.Time{}, repository.ErrNotFound)

	core, logs := observer.New(zap.WarnLevel)
	client, err := api.New(api.Deps{Requester: req, Session: store, Cache: cache, Logger: zap.New(core)})
	require.NoError(t, err)

	res, err := client.Profile.Badges(ctx)
	require.NoError(t, err)
	assert.Equal(t, api.SourceFallback, res.Source)
	assert.Empty(t, res.Value)
	assert.Equal(t, 1, logs.FilterMessage("serving fallback data").Len())

	req.AssertExpectations(t)
	cache.AssertExpectations(t)
	cache.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFallback_RefreshesCacheOnSuccess(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()
	require.NoError(t, store.SetAuth(ctx, "tok", &account.User{Email: "Ada@Example.com"}))

	req := &mockRequester{}
	req.On("Do", mock.Anything, mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		out := args.Get(2).(*[]account.Achievement)
		*out = []account.Achievement{{ID: "first-log", Progress: 1, Target: 1, Completed: true}}
	}).Return(nil)

	cache := &mocks.ResponseCache{}
	cache.On("Put", mock.Anything, "email:ada@example.com", "profile.achievements", mock.Anything).Return(nil)

	client, err := api.New(api.Deps{Requester: req, Session: store, Cache: cache})
	require.NoError(t, err)

	res, err := client.Profile.Achievements(ctx)
	require.NoError(t, err)
	assert.Equal(t, api.SourceRemote, res.Source)
	require.Len(t, res.Value, 1)
	assert.True(t, res.Value[0].Completed)
	cache.AssertExpectations(t)
}

func TestLeaderboard_RejectsBrokenRanks(t *testing.T) {
	var body atomic.Value
	body.Store(`[{"rank":11,"username":"a"},{"rank":12,"username":"b"}]`)
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "10", r.URL.Query().Get("skip"))
		assert.Equal(t, "2", r.URL.Query().Get("limit"))
		writeJSON(w, http.StatusOK, body.Load().(string))
	}))
	ctx := context.Background()
	h.login(t)
	page := api.Page{Skip: 10, Limit: 2}

	res, err := h.client.Leaderboard.Get(ctx, page)
	require.NoError(t, err)
	assert.Equal(t, api.SourceRemote, res.Source)
	require.Len(t, res.Value, 2)

	body.Store(`[{"rank":11,"username":"a"},{"rank":11,"username":"b"}]`)
	res, err = h.client.Leaderboard.Get(ctx, page)
	require.NoError(t, err)
	assert.Equal(t, api.SourceCache, res.Source)
	assert.Equal(t, "b", res.Value[1].Username)
	assert.Equal(t, 12, res.Value[1].Rank)
}

func TestDashboardOverview_FetchesBoth(t *testing.T) {
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/dashboard/stats":
			writeJSON(w, http.StatusOK, `{"total_points":50}`)
		case "/api/dashboard/activities":
			assert.Equal(t, "3", r.URL.Query().Get("limit"))
			writeJSON(w, http.StatusOK, `[{"id":1,"activity_type":"food","description":"Vegan","emissions_saved":1,"points_earned":10,"activity_date":"2024-01-14","created_at":"2024-01-14T10:00:00Z"}]`)
		default:
			http.NotFound(w, r)
		}
	}))
	ctx := context.Background()
	h.login(t)

	ov, err := h.client.Dashboard.Overview(ctx, api.Page{Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, 50, ov.Stats.Value.TotalPoints)
	require.Len(t, ov.Activities.Value, 1)
	assert.Equal(t, "Vegan", ov.Activities.Value[0].Description)
	assert.Equal(t, api.SourceRemote, ov.Activities.Source)
}
