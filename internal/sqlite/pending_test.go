package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/TechyShie/ecopulse/internal/domain/activity"
	"github.com/TechyShie/ecopulse/internal/repository"
	"github.com/stretchr/testify/require"
)

func pendingLog(desc string, created time.Time) activity.Log {
	return activity.Input{
		ActivityType:   "food",
		Description:    desc,
		EmissionsSaved: 2.5,
		PointsEarned:   5,
		ActivityDate:   activity.DateOf(created),
	}.ToLog(activity.NewPendingLocal(), created)
}

func TestPendingLogRepository_SaveListRemove(t *testing.T) {
	db := NewTestDB(t)
	repo := NewPendingLogRepository(db)
	ctx := context.Background()
	base := time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)

	second := pendingLog("second", base.Add(time.Hour))
	first := pendingLog("first", base)
	require.NoError(t, repo.Save(ctx, "user:1", second))
	require.NoError(t, repo.Save(ctx, "user:1", first))
	require.NoError(t, repo.Save(ctx, "user:2", pendingLog("other user", base)))

	logs, err := repo.List(ctx, "user:1")
	require.NoError(t, err)
	require.Len(t, logs, 2)
	require.Equal(t, "first", logs[0].Description)
	require.Equal(t, first.ID, logs[0].ID)
	require.True(t, logs[0].Pending())

	got, err := repo.Get(ctx, "user:1", second.ID)
	require.NoError(t, err)
	require.Equal(t, "second", got.Description)

	require.NoError(t, repo.Remove(ctx, "user:1", first.ID))
	require.ErrorIs(t, repo.Remove(ctx, "user:1", first.ID), repository.ErrNotFound)

	_, err = repo.Get(ctx, "user:1", first.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPendingLogRepository_SaveReplaces(t *testing.T) {
	repo := NewPendingLogRepository(NewTestDB(t))
	ctx := context.Background()

	log := pendingLog("draft", time.Now())
	require.NoError(t, repo.Save(ctx, "u", log))
	log.Description = "edited"
	require.NoError(t, repo.Save(ctx, "u", log))

	logs, err := repo.List(ctx, "u")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.Equal(t, "edited", logs[0].Description)
}

func TestPendingLogRepository_RejectsPersistedIDs(t *testing.T) {
	repo := NewPendingLogRepository(NewTestDB(t))
	log := pendingLog("x", time.Now())
	log.ID = activity.Persisted(5)

	require.ErrorIs(t, repo.Save(context.Background(), "u", log), repository.ErrInvalidInput)
}
