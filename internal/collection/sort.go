package collection

import (
	"cmp"
	"slices"
	"strings"

	"github.com/TechyShie/ecopulse/internal/domain/activity"
)

// Sort returns a stably sorted copy of logs. Desc reverses the asc ordering
// while equal elements keep their input order. Unknown fields leave the
// order unchanged.
func Sort(logs []activity.Log, by SortField, order SortOrder) []activity.Log {
	out := slices.Clone(logs)
	compare := comparator(by)
	if compare == nil {
		return out
	}
	if order == Desc {
		asc := compare
		compare = func(a, b activity.Log) int { return asc(b, a) }
	}
	slices.SortStableFunc(out, compare)
	return out
}

func comparator(by SortField) func(a, b activity.Log) int {
	switch by {
	case SortByDate:
		return func(a, b activity.Log) int { return a.ActivityDate.Compare(b.ActivityDate) }
	case SortByCreatedAt:
		return func(a, b activity.Log) int { return a.CreatedAt.Compare(b.CreatedAt) }
	case SortByEmissions:
		return func(a, b activity.Log) int { return cmp.Compare(a.EmissionsSaved, b.EmissionsSaved) }
	case SortByPoints:
		return func(a, b activity.Log) int { return cmp.Compare(a.PointsEarned, b.PointsEarned) }
	case SortByType:
		return func(a, b activity.Log) int { return cmp.Compare(a.Category(), b.Category()) }
	case SortByDescription:
		return func(a, b activity.Log) int {
			return cmp.Compare(strings.ToLower(a.Description), strings.ToLower(b.Description))
		}
	default:
		return nil
	}
}
