package api

import (
	"time"

	"github.com/TechyShie/ecopulse/internal/collection"
	"github.com/TechyShie/ecopulse/internal/domain/activity"
	"github.com/TechyShie/ecopulse/internal/domain/stats"
)

// Static data shown when neither the server nor the cache can answer.

func fallbackLogs(now time.Time) []activity.Log {
	today := activity.DateOf(now)
	at := now.UTC().Truncate(time.Hour)
	return []activity.Log{
		{ID: activity.Persisted(1), ActivityType: activity.CategoryTransportation, Description: "Cycled to work", EmissionsSaved: 2.5, PointsEarned: 25, ActivityDate: today, CreatedAt: at},
		{ID: activity.Persisted(2), ActivityType: activity.CategoryFood, Description: "Plant-based lunch", EmissionsSaved: 1.5, PointsEarned: 15, ActivityDate: today.AddDays(-1), CreatedAt: at.Add(-24 * time.Hour)},
		{ID: activity.Persisted(3), ActivityType: activity.CategoryEnergy, Description: "Air-dried laundry", EmissionsSaved: 1.75, PointsEarned: 18, ActivityDate: today.AddDays(-2), CreatedAt: at.Add(-48 * time.Hour)},
		{ID: activity.Persisted(4), ActivityType: activity.CategoryWaste, Description: "Recycled glass and paper", EmissionsSaved: 0.5, PointsEarned: 5, ActivityDate: today.AddDays(-3), CreatedAt: at.Add(-72 * time.Hour)},
		{ID: activity.Persisted(5), ActivityType: activity.CategoryShopping, Description: "Bought second-hand jacket", EmissionsSaved: 4, PointsEarned: 40, ActivityDate: today.AddDays(-5), CreatedAt: at.Add(-120 * time.Hour)},
	}
}

func fallbackDashboard(now time.Time) stats.Dashboard {
	s := collection.Summarize(fallbackLogs(now))
	return stats.Dashboard{
		TotalEmissionsSaved: s.TotalEmissions,
		TotalPoints:         s.TotalPoints,
		ActivitiesCount:     s.TotalLogs,
	}
}

func fallbackWeekly(now time.Time) []stats.WeeklyPoint {
	byDay := make(map[activity.Date]collection.DaySummary)
	for _, d := range collection.AggregateByDay(fallbackLogs(now)) {
		byDay[d.Day] = d
	}
	today := activity.DateOf(now)
	out := make([]stats.WeeklyPoint, 0, 7)
	for i := 6; i >= 0; i-- {
		day := today.AddDays(-i)
		d := byDay[day]
		out = append(out, stats.WeeklyPoint{Day: day, EmissionsSaved: d.TotalEmissions, Points: d.TotalPoints})
	}
	return out
}

func fallbackCategories(now time.Time) []stats.CategoryPoint {
	sums := collection.AggregateByCategory(fallbackLogs(now))
	out := make([]stats.CategoryPoint, 0, len(sums))
	for _, s := range sums {
		out = append(out, stats.CategoryPoint{Category: s.Category, EmissionsSaved: s.TotalEmissions, Count: s.ActivityCount})
	}
	return out
}

func fallbackSummary(now time.Time) stats.InsightSummary {
	logs := fallbackLogs(now)
	s := collection.Summarize(logs)
	return stats.InsightSummary{
		TotalLogs:       s.TotalLogs,
		TotalEmissions:  s.TotalEmissions,
		AverageEmission: s.AverageEmission,
		TopCategory:     collection.TopCategory(logs),
	}
}
