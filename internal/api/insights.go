package api

import (
	"context"

	"github.com/TechyShie/ecopulse/internal/domain/stats"
)

// InsightsAPI covers /api/insights.
type InsightsAPI struct {
	c *core
}

// Weekly returns the per-day series of the last week.
func (i *InsightsAPI) Weekly(ctx context.Context) (Result[[]stats.WeeklyPoint], error) {
	return withFallback(i.c, "insights.weekly", fallbackWeekly(i.c.now()), func(ctx context.Context) ([]stats.WeeklyPoint, error) {
		var out []stats.WeeklyPoint
		err := i.c.get(ctx, "/api/insights/weekly", nil, &out)
		return out, err
	})(ctx)
}

// Categories returns emissions saved per category.
func (i *InsightsAPI) Categories(ctx context.Context) (Result[[]stats.CategoryPoint], error) {
	return withFallback(i.c, "insights.categories", fallbackCategories(i.c.now()), func(ctx context.Context) ([]stats.CategoryPoint, error) {
		var out []stats.CategoryPoint
		err := i.c.get(ctx, "/api/insights/categories", nil, &out)
		return out, err
	})(ctx)
}

// Summary returns the overall insight summary.
func (i *InsightsAPI) Summary(ctx context.Context) (Result[stats.InsightSummary], error) {
	return withFallback(i.c, "insights.summary", fallbackSummary(i.c.now()), func(ctx context.Context) (stats.InsightSummary, error) {
		var out stats.InsightSummary
		err := i.c.get(ctx, "/api/insights/summary", nil, &out)
		return out, err
	})(ctx)
}
