// Package collection filters, sorts, paginates and aggregates in-memory
// activity logs. Every function is pure: inputs are never modified.
package collection

import (
	"strings"

	"github.com/TechyShie/ecopulse/internal/domain/activity"
)

// CategoryAll disables the category filter.
const CategoryAll = "all"

// DefaultPageSize is used when a page size below 1 is requested.
const DefaultPageSize = 10

// SortField names a sortable log field.
type SortField string

const (
	SortByDate        SortField = "date"
	SortByCreatedAt   SortField = "created_at"
	SortByEmissions   SortField = "emissions"
	SortByPoints      SortField = "points"
	SortByType        SortField = "type"
	SortByDescription SortField = "description"
)

// SortOrder is asc or desc.
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// ParseSortField accepts the field names used by the web client as well as
// the canonical ones. Unknown names are returned as is and sort as no-ops.
func ParseSortField(s string) SortField {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "date", "activity_date", "activitydate":
		return SortByDate
	case "created_at", "createdat", "created":
		return SortByCreatedAt
	case "emissions", "emissions_saved", "emissionssaved", "co2":
		return SortByEmissions
	case "points", "points_earned", "pointsearned":
		return SortByPoints
	case "type", "category", "activity_type", "activitytype":
		return SortByType
	case "description":
		return SortByDescription
	default:
		return SortField(s)
	}
}

// ParseSortOrder returns Asc for "asc" and Desc for anything else.
func ParseSortOrder(s string) SortOrder {
	if strings.EqualFold(strings.TrimSpace(s), string(Asc)) {
		return Asc
	}
	return Desc
}

// Params is the ephemeral filter, sort and page state of a log view.
// Zero dates mean no bound.
type Params struct {
	SearchTerm string
	Category   string
	DateFrom   activity.Date
	DateTo     activity.Date
	Page       int
	PageSize   int
	SortBy     SortField
	SortOrder  SortOrder
}

// DefaultParams returns the state a log view starts in: every category,
// newest first, first page.
func DefaultParams() Params {
	return Params{
		Category:  CategoryAll,
		Page:      1,
		PageSize:  DefaultPageSize,
		SortBy:    SortByDate,
		SortOrder: Desc,
	}
}
