package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/TechyShie/ecopulse/internal/api"
	"github.com/TechyShie/ecopulse/internal/apierror"
	"github.com/TechyShie/ecopulse/internal/domain/activity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// logsBackend serves /api/logs and fails POSTs while down is set.
type logsBackend struct {
	down    atomic.Bool
	creates atomic.Int32
	other   atomic.Int32
}

func (b *logsBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/logs":
		writeJSON(w, http.StatusOK, `[{"id":1,"activity_type":"energy","description":"LED bulbs","emissions_saved":0.5,"points_earned":5,"activity_date":"2024-01-10","created_at":"2024-01-10T09:00:00Z"}]`)
	case r.Method == http.MethodPost && r.URL.Path == "/api/logs":
		if b.down.Load() {
			writeJSON(w, http.StatusServiceUnavailable, `{"detail":"Service Unavailable"}`)
			return
		}
		var in activity.Input
		_ = json.NewDecoder(r.Body).Decode(&in)
		n := b.creates.Add(1)
		log := in.ToLog(activity.Persisted(int64(100+n)), fixedNow)
		data, _ := json.Marshal(log)
		writeJSON(w, http.StatusCreated, string(data))
	default:
		b.other.Add(1)
		writeJSON(w, http.StatusOK, `{}`)
	}
}

func TestCreateOrQueue_ThenSync(t *testing.T) {
	backend := &logsBackend{}
	backend.down.Store(true)
	h := newHarness(t, backend)
	ctx := context.Background()
	h.login(t)

	queued, err := h.client.Logs.CreateOrQueue(ctx, validInput())
	require.NoError(t, err)
	require.True(t, queued.Pending())
	assert.Contains(t, queued.ID.String(), activity.LocalIDPrefix)

	listed, err := h.client.Logs.ListWithPending(ctx, api.Page{})
	require.NoError(t, err)
	require.Len(t, listed.Value, 2)
	assert.Equal(t, queued.ID, listed.Value[0].ID)
	assert.Equal(t, activity.Persisted(1), listed.Value[1].ID)

	// A failed replay keeps the log queued.
	results, err := h.client.Logs.SyncPending(ctx)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].Synced())
	pending, err := h.client.Logs.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	backend.down.Store(false)
	results, err = h.client.Logs.SyncPending(ctx)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Synced())
	assert.Equal(t, queued.ID, results[0].LocalID)
	assert.Equal(t, activity.Persisted(101), results[0].Created.ID)
	assert.Equal(t, "Cycled to work", results[0].Created.Description)

	pending, err = h.client.Logs.Pending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestCreateOrQueue_ServerConfirmed(t *testing.T) {
	h := newHarness(t, &logsBackend{})
	ctx := context.Background()
	h.login(t)

	created, err := h.client.Logs.CreateOrQueue(ctx, validInput())
	require.NoError(t, err)
	assert.False(t, created.Pending())
	pending, err := h.client.Logs.Pending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestCreateOrQueue_RejectionIsNotQueued(t *testing.T) {
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, `{"detail":"Invalid category"}`)
	}))
	ctx := context.Background()
	h.login(t)

	_, err := h.client.Logs.CreateOrQueue(ctx, validInput())
	require.Error(t, err)
	assert.Equal(t, "Invalid category", apierror.UserMessage(err))
	pending, err := h.client.Logs.Pending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestCreateOrQueue_AuthExpiredIsNotQueued(t *testing.T) {
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"detail":"expired"}`)
	}))
	ctx := context.Background()
	h.login(t)

	_, err := h.client.Logs.CreateOrQueue(ctx, validInput())
	require.True(t, apierror.IsAuthExpired(err))

	all, err := h.pending.List(ctx, "user:7")
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestPendingLogs_UpdateAndDeleteStayLocal(t *testing.T) {
	backend := &logsBackend{}
	backend.down.Store(true)
	h := newHarness(t, backend)
	ctx := context.Background()
	h.login(t)

	queued, err := h.client.Logs.CreateOrQueue(ctx, validInput())
	require.NoError(t, err)

	in := validInput()
	in.Description = "Cycled to the station"
	updated, err := h.client.Logs.Update(ctx, queued.ID, in)
	require.NoError(t, err)
	assert.Equal(t, queued.ID, updated.ID)
	assert.Equal(t, queued.CreatedAt, updated.CreatedAt)

	pending, err := h.client.Logs.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "Cycled to the station", pending[0].Description)

	require.NoError(t, h.client.Logs.Delete(ctx, queued.ID))
	pending, err = h.client.Logs.Pending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	assert.Error(t, h.client.Logs.Delete(ctx, queued.ID))
	assert.Equal(t, int32(0), backend.other.Load())
}

func TestUpdateAndDelete_Persisted(t *testing.T) {
	var gotMethod, gotPath atomic.Value
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod.Store(r.Method)
		gotPath.Store(r.URL.Path)
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusOK, `{"id":42,"activity_type":"food","description":"Updated","emissions_saved":1,"points_earned":10,"activity_date":"2024-01-15","created_at":"2024-01-15T08:00:00Z"}`)
	}))
	ctx := context.Background()
	h.login(t)

	updated, err := h.client.Logs.Update(ctx, activity.Persisted(42), validInput())
	require.NoError(t, err)
	assert.Equal(t, "Updated", updated.Description)
	assert.Equal(t, http.MethodPut, gotMethod.Load())
	assert.Equal(t, "/api/logs/42", gotPath.Load())

	require.NoError(t, h.client.Logs.Delete(ctx, activity.Persisted(42)))
	assert.Equal(t, http.MethodDelete, gotMethod.Load())

	err = h.client.Logs.Delete(ctx, activity.LogID{})
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}
