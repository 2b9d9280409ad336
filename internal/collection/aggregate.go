package collection

import (
	"cmp"
	"math/big"
	"slices"

	"github.com/TechyShie/ecopulse/internal/domain/activity"
)

// emissionTotal sums emissions exactly. Each float64 converts to a rational
// without loss, so a group total is rounded once, when it is read.
type emissionTotal struct {
	sum big.Rat
}

// add ignores NaN and infinities, which have no rational value.
func (t *emissionTotal) add(kg float64) {
	var x big.Rat
	if x.SetFloat64(kg) != nil {
		t.sum.Add(&t.sum, &x)
	}
}

func (t *emissionTotal) kg() float64 {
	f, _ := t.sum.Float64()
	return f
}

// mean returns the total divided by n, rounded once.
func (t *emissionTotal) mean(n int) float64 {
	var q big.Rat
	q.Quo(&t.sum, new(big.Rat).SetInt64(int64(n)))
	f, _ := q.Float64()
	return f
}

// CategorySummary is the total of one category.
type CategorySummary struct {
	Category       string  `json:"category"`
	TotalEmissions float64 `json:"total_emissions"`
	ActivityCount  int     `json:"activity_count"`
}

// Summary totals a set of logs.
type Summary struct {
	TotalLogs       int     `json:"total_logs"`
	TotalEmissions  float64 `json:"total_emissions"`
	AverageEmission float64 `json:"average_emission"`
	TotalPoints     int     `json:"total_points"`
}

// DaySummary totals the logs of one activity date.
type DaySummary struct {
	Day            activity.Date `json:"day"`
	TotalEmissions float64       `json:"total_emissions"`
	TotalPoints    int           `json:"total_points"`
	ActivityCount  int           `json:"activity_count"`
}

// AggregateByCategory groups logs by canonical category. Only categories
// with at least one log appear, sorted by name.
func AggregateByCategory(logs []activity.Log) []CategorySummary {
	type acc struct {
		emissions emissionTotal
		count     int
	}
	groups := make(map[string]*acc)
	for _, l := range logs {
		c := l.Category()
		g, ok := groups[c]
		if !ok {
			g = &acc{}
			groups[c] = g
		}
		g.emissions.add(l.EmissionsSaved)
		g.count++
	}

	out := make([]CategorySummary, 0, len(groups))
	for c, g := range groups {
		out = append(out, CategorySummary{
			Category:       c,
			TotalEmissions: g.emissions.kg(),
			ActivityCount:  g.count,
		})
	}
	slices.SortFunc(out, func(a, b CategorySummary) int { return cmp.Compare(a.Category, b.Category) })
	return out
}

// TopCategory returns the category with the highest emissions saved, or ""
// for no logs. Ties go to the alphabetically first category.
func TopCategory(logs []activity.Log) string {
	top := ""
	best := -1.0
	for _, c := range AggregateByCategory(logs) {
		if c.TotalEmissions > best {
			top, best = c.Category, c.TotalEmissions
		}
	}
	return top
}

// Summarize totals logs. The average is 0 for an empty input.
func Summarize(logs []activity.Log) Summary {
	var emissions emissionTotal
	points := 0
	for _, l := range logs {
		emissions.add(l.EmissionsSaved)
		points += l.PointsEarned
	}

	s := Summary{
		TotalLogs:      len(logs),
		TotalEmissions: emissions.kg(),
		TotalPoints:    points,
	}
	if s.TotalLogs > 0 {
		s.AverageEmission = emissions.mean(s.TotalLogs)
	}
	return s
}

// AggregateByDay groups logs by activity date, oldest first.
func AggregateByDay(logs []activity.Log) []DaySummary {
	type acc struct {
		day       activity.Date
		emissions emissionTotal
		points    int
		count     int
	}
	groups := make(map[string]*acc)
	for _, l := range logs {
		key := l.ActivityDate.String()
		g, ok := groups[key]
		if !ok {
			g = &acc{day: l.ActivityDate}
			groups[key] = g
		}
		g.emissions.add(l.EmissionsSaved)
		g.points += l.PointsEarned
		g.count++
	}

	out := make([]DaySummary, 0, len(groups))
	for _, g := range groups {
		out = append(out, DaySummary{
			Day:            g.day,
			TotalEmissions: g.emissions.kg(),
			TotalPoints:    g.points,
			ActivityCount:  g.count,
		})
	}
	slices.SortFunc(out, func(a, b DaySummary) int { return a.Day.Compare(b.Day) })
	return out
}
