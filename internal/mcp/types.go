package mcp

import (
	"github.com/TechyShie/ecopulse/internal/api"
	"github.com/TechyShie/ecopulse/internal/collection"
	"github.com/TechyShie/ecopulse/internal/domain/activity"
	"github.com/TechyShie/ecopulse/internal/domain/stats"
)

type DashboardStatsParams struct{}

type ListLogsParams struct {
	Search    string `json:"search,omitempty" jsonschema:"case-insensitive text matched against description, notes and location"`
	Category  string `json:"category,omitempty" jsonschema:"category name or all"`
	DateFrom  string `json:"date_from,omitempty" jsonschema:"first activity date to include, YYYY-MM-DD"`
	DateTo    string `json:"date_to,omitempty" jsonschema:"last activity date to include, YYYY-MM-DD"`
	Page      int    `json:"page,omitempty" jsonschema:"1-based page number"`
	PageSize  int    `json:"page_size,omitempty" jsonschema:"logs per page, default 10"`
	SortBy    string `json:"sort_by,omitempty" jsonschema:"date, created_at, emissions, points, type or description"`
	SortOrder string `json:"sort_order,omitempty" jsonschema:"asc or desc"`
}

type LogActivityParams struct {
	ActivityType   string  `json:"activity_type" jsonschema:"category such as transportation, energy, food, waste or shopping"`
	Description    string  `json:"description" jsonschema:"what the user did"`
	EmissionsSaved float64 `json:"emissions_saved" jsonschema:"kilograms of CO2 saved"`
	PointsEarned   int     `json:"points_earned,omitempty" jsonschema:"points awarded, computed by the server when omitted"`
	ActivityDate   string  `json:"activity_date,omitempty" jsonschema:"YYYY-MM-DD, defaults to today"`
	Notes          string  `json:"notes,omitempty"`
	Location       string  `json:"location,omitempty"`
}

type CategorySummaryParams struct {
	DateFrom string `json:"date_from,omitempty" jsonschema:"first activity date to include, YYYY-MM-DD"`
	DateTo   string `json:"date_to,omitempty" jsonschema:"last activity date to include, YYYY-MM-DD"`
}

type LeaderboardParams struct {
	Skip  int `json:"skip,omitempty" jsonschema:"entries to skip"`
	Limit int `json:"limit,omitempty" jsonschema:"entries to return"`
}

type AskAssistantParams struct {
	Prompt string `json:"prompt" jsonschema:"question for the EcoPulse assistant"`
}

type DashboardStatsResponse struct {
	Stats  stats.Dashboard `json:"stats"`
	Source api.Source      `json:"source"`
}

type ListLogsResponse struct {
	Logs   []activity.Log      `json:"logs"`
	Page   collection.PageInfo `json:"page"`
	Source api.Source          `json:"source"`
}

type LogActivityResponse struct {
	Log     activity.Log `json:"log"`
	Pending bool         `json:"pending"`
}

type CategorySummaryResponse struct {
	Categories []collection.CategorySummary `json:"categories"`
	Summary    collection.Summary           `json:"summary"`
	Source     api.Source                   `json:"source"`
}

type LeaderboardResponse struct {
	Entries []stats.LeaderboardEntry `json:"entries"`
	Source  api.Source               `json:"source"`
}

type AskAssistantResponse struct {
	Reply    string `json:"reply"`
	Fallback bool   `json:"fallback,omitempty"`
}
