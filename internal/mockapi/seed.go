package mockapi

import (
	"fmt"

	"github.com/TechyShie/ecopulse/internal/domain/activity"
	"golang.org/x/crypto/bcrypt"
)

// DemoPassword is the password of every seeded account.
const DemoPassword = "ecopulse-demo"

type seedUser struct {
	email, fullName string
	logs            []activity.Input
}

// Seed adds demo accounts with a few days of activity so the dashboard,
// insights and leaderboard have something to show.
func (s *Store) Seed(cost int) error {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	today := activity.DateOf(s.now())
	input := func(kind, desc string, kg float64, daysAgo int) activity.Input {
		return activity.Input{
			ActivityType:   kind,
			Description:    desc,
			EmissionsSaved: kg,
			PointsEarned:   pointsFor(kg),
			ActivityDate:   today.AddDays(-daysAgo),
		}
	}

	users := []seedUser{
		{"demo@ecopulse.app", "Demo User", []activity.Input{
			input(activity.CategoryTransportation, "Cycled to work", 2.5, 0),
			input(activity.CategoryFood, "Plant-based lunch", 1.5, 1),
			input(activity.CategoryEnergy, "Air-dried laundry", 1.75, 2),
			input(activity.CategoryWaste, "Composted kitchen scraps", 0.75, 3),
		}},
		{"grace@ecopulse.app", "Grace Hopper", []activity.Input{
			input(activity.CategoryTransportation, "Took the train", 6, 0),
			input(activity.CategoryShopping, "Repaired a bike instead of buying new", 12, 4),
		}},
		{"alan@ecopulse.app", "Alan Turing", []activity.Input{
			input(activity.CategoryEnergy, "Installed LED bulbs", 3, 1),
		}},
	}

	for _, u := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), cost)
		if err != nil {
			return fmt.Errorf("hashing demo password: %w", err)
		}
		prof, err := s.createUser(u.email, u.fullName, hash)
		if err != nil {
			return fmt.Errorf("seeding %s: %w", u.email, err)
		}
		for _, in := range u.logs {
			s.addLog(prof.ID, in)
		}
	}
	return nil
}
