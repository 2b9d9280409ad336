package collection_test

import (
	"math/rand"
	"time"

	"github.com/TechyShie/ecopulse/internal/domain/activity"
)

func fixtureLog(id int64, date, category, desc string, emissions float64, points int) activity.Log {
	d := activity.MustDate(date)
	return activity.Log{
		ID:             activity.Persisted(id),
		ActivityType:   category,
		Description:    desc,
		EmissionsSaved: emissions,
		PointsEarned:   points,
		ActivityDate:   d,
		CreatedAt:      d.Time().Add(18 * time.Hour),
	}
}

// weekLogs is the Jan 8-15 sample week used by the web client's fixtures.
func weekLogs() []activity.Log {
	logs := []activity.Log{
		fixtureLog(1, "2024-01-08", "travel", "Cycled to work instead of driving", 2.5, 25),
		fixtureLog(2, "2024-01-09", "energy", "Switched to LED bulbs", 1.25, 12),
		fixtureLog(3, "2024-01-10", "transport", "Took the bus downtown", 1.75, 15),
		fixtureLog(4, "2024-01-11", "food", "Restaurant dinner", 0.5, 5),
		fixtureLog(5, "2024-01-12", "energy", "Air-dried the laundry", 0.75, 8),
		fixtureLog(6, "2024-01-13", "travel", "Carpooled to the airport", 4, 30),
		fixtureLog(7, "2024-01-14", "food", "Weekly grocery shopping", 1.5, 10),
		fixtureLog(8, "2024-01-15", "transport", "Walked to the market", 0.25, 5),
	}
	logs[3].Notes = "Chose the vegetarian menu"
	logs[5].Location = "Nairobi"
	logs[6].Notes = "Local produce, no plastic bags"
	return logs
}

var randomCategories = []string{"travel", "food", "energy", "transport", "waste", "shopping", "Food"}

// randomLogs generates logs with emissions in quarter-kilogram steps and
// plenty of duplicate dates and values, so sort ties are common.
func randomLogs(r *rand.Rand, n int) []activity.Log {
	start := activity.MustDate("2024-01-01")
	words := []string{"bike", "bus", "solar", "compost", "local", "vegan", "train"}
	logs := make([]activity.Log, n)
	for i := range logs {
		d := start.AddDays(r.Intn(20))
		logs[i] = activity.Log{
			ID:             activity.Persisted(int64(i + 1)),
			ActivityType:   randomCategories[r.Intn(len(randomCategories))],
			Description:    words[r.Intn(len(words))] + " trip",
			EmissionsSaved: float64(r.Intn(40)) / 4,
			PointsEarned:   r.Intn(5) * 5,
			ActivityDate:   d,
			CreatedAt:      d.Time().Add(time.Duration(r.Intn(3)) * time.Hour),
		}
		if r.Intn(3) == 0 {
			logs[i].Notes = words[r.Intn(len(words))]
		}
	}
	return logs
}

// decimalLogs generates emissions with arbitrary decimals, including values
// well below a milligram.
func decimalLogs(r *rand.Rand, n int) []activity.Log {
	logs := randomLogs(r, n)
	for i := range logs {
		switch r.Intn(3) {
		case 0:
			logs[i].EmissionsSaved = r.Float64() * 1e-6
		case 1:
			logs[i].EmissionsSaved = float64(r.Intn(100000)) / 1000
		default:
			logs[i].EmissionsSaved = r.Float64() * 50
		}
	}
	return logs
}
