package collection

import "github.com/TechyShie/ecopulse/internal/domain/activity"

// PageInfo describes where a page sits in the full collection.
type PageInfo struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// Paginate returns the 1-indexed page of items, [(page-1)*limit, page*limit).
// A page past the end is empty, not an error. Page < 1 is treated as 1 and
// limit < 1 as DefaultPageSize.
func Paginate[T any](items []T, page, limit int) ([]T, PageInfo) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}

	total := len(items)
	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}
	info := PageInfo{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}

	if page > totalPages {
		return []T{}, info
	}
	// page <= totalPages keeps start below total, so this cannot overflow.
	start := (page - 1) * limit
	end := min(start+limit, total)
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out, info
}

// Apply filters, then sorts, then paginates logs according to p.
func Apply(logs []activity.Log, p Params) ([]activity.Log, PageInfo) {
	filtered := Filter(logs, p)
	sorted := Sort(filtered, p.SortBy, p.SortOrder)
	return Paginate(sorted, p.Page, p.PageSize)
}
