package stats

import (
	"errors"
	"fmt"
)

// ErrRankSequence indicates leaderboard ranks are not contiguous from the page start.
var ErrRankSequence = errors.New("leaderboard ranks are not contiguous")

// LeaderboardEntry is one ranked user.
type LeaderboardEntry struct {
	Rank           int     `json:"rank"`
	Username       string  `json:"username"`
	FullName       string  `json:"full_name"`
	EcoScore       int     `json:"eco_score"`
	EmissionsSaved float64 `json:"emissions_saved"`
}

// ValidateRanks checks that entries are ranked skip+1, skip+2, ... in order.
func ValidateRanks(entries []LeaderboardEntry, skip int) error {
	for i, e := range entries {
		if want := skip + i + 1; e.Rank != want {
			return fmt.Errorf("%w: entry %d has rank %d, want %d", ErrRankSequence, i, e.Rank, want)
		}
	}
	return nil
}
