package api

import (
	"context"
	"net/http"

	"github.com/TechyShie/ecopulse/internal/apierror"
	"github.com/TechyShie/ecopulse/internal/domain/stats"
	"go.uber.org/zap"
)

// LeaderboardAPI covers /api/leaderboard.
type LeaderboardAPI struct {
	c *core
}

// Get returns a page of ranked users. A page whose ranks are not
// contiguous from skip+1 is rejected as a server error.
func (l *LeaderboardAPI) Get(ctx context.Context, page Page) (Result[[]stats.LeaderboardEntry], error) {
	return withFallback(l.c, page.cacheKey("leaderboard"), []stats.LeaderboardEntry{}, func(ctx context.Context) ([]stats.LeaderboardEntry, error) {
		var out []stats.LeaderboardEntry
		if err := l.c.get(ctx, "/api/leaderboard", page.query(), &out); err != nil {
			return nil, err
		}
		if err := stats.ValidateRanks(out, page.Skip); err != nil {
			l.c.logger.Warn("rejecting leaderboard page", zap.Error(err))
			return nil, &apierror.Error{
				Kind:    apierror.KindServer,
				Status:  http.StatusOK,
				Message: "The leaderboard is being updated. Please try again shortly.",
			}
		}
		return out, nil
	})(ctx)
}
