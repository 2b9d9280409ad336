package api

import (
	"context"
	"sync"

	"github.com/TechyShie/ecopulse/internal/apierror"
	"github.com/TechyShie/ecopulse/internal/domain/activity"
	"github.com/TechyShie/ecopulse/internal/domain/stats"
)

// DashboardAPI covers /api/dashboard.
type DashboardAPI struct {
	c *core
}

// Stats returns the dashboard totals.
func (d *DashboardAPI) Stats(ctx context.Context) (Result[stats.Dashboard], error) {
	return withFallback(d.c, "dashboard.stats", fallbackDashboard(d.c.now()), func(ctx context.Context) (stats.Dashboard, error) {
		var out stats.Dashboard
		err := d.c.get(ctx, "/api/dashboard/stats", nil, &out)
		return out, err
	})(ctx)
}

// Activities returns the most recent activities.
func (d *DashboardAPI) Activities(ctx context.Context, page Page) (Result[[]activity.Log], error) {
	static := fallbackLogs(d.c.now())
	if page.Limit > 0 && len(static) > page.Limit {
		static = static[:page.Limit]
	}
	return withFallback(d.c, page.cacheKey("dashboard.activities"), static, func(ctx context.Context) ([]activity.Log, error) {
		var out []activity.Log
		err := d.c.get(ctx, "/api/dashboard/activities", page.query(), &out)
		return out, err
	})(ctx)
}

// Overview is what the dashboard renders.
type Overview struct {
	Stats      Result[stats.Dashboard]
	Activities Result[[]activity.Log]
}

// Overview fetches stats and recent activities concurrently. Neither call
// waits on the other. An AuthExpired failure takes precedence over others.
func (d *DashboardAPI) Overview(ctx context.Context, page Page) (Overview, error) {
	var (
		wg                sync.WaitGroup
		out               Overview
		statsErr, actsErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		out.Stats, statsErr = d.Stats(ctx)
	}()
	go func() {
		defer wg.Done()
		out.Activities, actsErr = d.Activities(ctx, page)
	}()
	wg.Wait()

	switch {
	case apierror.IsAuthExpired(statsErr):
		return Overview{}, statsErr
	case apierror.IsAuthExpired(actsErr):
		return Overview{}, actsErr
	case statsErr != nil:
		return Overview{}, statsErr
	case actsErr != nil:
		return Overview{}, actsErr
	}
	return out, nil
}
