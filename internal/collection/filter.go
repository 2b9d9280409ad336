package collection

import (
	"strings"

	"github.com/TechyShie/ecopulse/internal/domain/activity"
)

// Predicate reports whether a log is kept.
type Predicate func(activity.Log) bool

// MatchCategory keeps logs of the category. "all" and "" keep everything.
func MatchCategory(category string) Predicate {
	c := strings.TrimSpace(category)
	if c == "" || strings.EqualFold(c, CategoryAll) {
		return nil
	}
	want := activity.Canonical(c)
	return func(l activity.Log) bool {
		return l.Category() == want
	}
}

// MatchSearch keeps logs whose description, notes or location contain term,
// ignoring case. An empty term keeps everything.
func MatchSearch(term string) Predicate {
	t := strings.ToLower(strings.TrimSpace(term))
	if t == "" {
		return nil
	}
	return func(l activity.Log) bool {
		return strings.Contains(strings.ToLower(l.Description), t) ||
			strings.Contains(strings.ToLower(l.Notes), t) ||
			strings.Contains(strings.ToLower(l.Location), t)
	}
}

// MatchDateRange keeps logs whose activity date is within [from, to]. A zero
// bound is open.
func MatchDateRange(from, to activity.Date) Predicate {
	if from.IsZero() && to.IsZero() {
		return nil
	}
	return func(l activity.Log) bool {
		if !from.IsZero() && l.ActivityDate.Before(from) {
			return false
		}
		if !to.IsZero() && l.ActivityDate.After(to) {
			return false
		}
		return true
	}
}

// Where keeps logs matching every predicate, in input order. Nil predicates
// are ignored.
func Where(logs []activity.Log, preds ...Predicate) []activity.Log {
	out := make([]activity.Log, 0, len(logs))
	for _, l := range logs {
		if matchAll(l, preds) {
			out = append(out, l)
		}
	}
	return out
}

func matchAll(l activity.Log, preds []Predicate) bool {
	for _, p := range preds {
		if p != nil && !p(l) {
			return false
		}
	}
	return true
}

// Filter applies the category, search and date-range criteria of p.
func Filter(logs []activity.Log, p Params) []activity.Log {
	return Where(logs,
		MatchCategory(p.Category),
		MatchSearch(p.SearchTerm),
		MatchDateRange(p.DateFrom, p.DateTo),
	)
}
