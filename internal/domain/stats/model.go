package stats

import "github.com/TechyShie/ecopulse/internal/domain/activity"

// Dashboard is the aggregate dashboard view for the current user.
type Dashboard struct {
	TotalEmissionsSaved float64 `json:"total_emissions_saved"`
	TotalPoints         int     `json:"total_points"`
	EcoScore            int     `json:"eco_score"`
	ActivitiesCount     int     `json:"activities_count"`
	CurrentStreak       int     `json:"current_streak"`
	Rank                int     `json:"rank,omitempty"`
}

// WeeklyPoint is one day of the weekly insight series.
type WeeklyPoint struct {
	Day            activity.Date `json:"day"`
	EmissionsSaved float64       `json:"emissions_saved"`
	Points         int           `json:"points"`
}

// CategoryPoint is the per-category insight row.
type CategoryPoint struct {
	Category       string  `json:"category"`
	EmissionsSaved float64 `json:"emissions_saved"`
	Count          int     `json:"count"`
}

// InsightSummary is the overall insight summary.
type InsightSummary struct {
	TotalLogs       int     `json:"total_logs"`
	TotalEmissions  float64 `json:"total_emissions"`
	AverageEmission float64 `json:"average_emission"`
	TopCategory     string  `json:"top_category,omitempty"`
}
