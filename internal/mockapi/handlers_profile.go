package mockapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/TechyShie/ecopulse/internal/collection"
	"github.com/TechyShie/ecopulse/internal/domain/account"
	"github.com/TechyShie/ecopulse/internal/domain/activity"
)

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	prof, ok := s.currentProfile(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, prof)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var upd account.ProfileUpdate
	if err := s.decode(r, &upd); err != nil {
		writeValidation(w, err)
		return
	}
	userID, _ := UserFromContext(r.Context())
	prof, err := s.store.updateProfile(userID, upd)
	switch {
	case errors.Is(err, errUsernameUsed):
		writeDetail(w, http.StatusBadRequest, "Username already taken")
		return
	case err != nil:
		unauthorized(w, "Could not validate credentials")
		return
	}
	writeJSON(w, http.StatusOK, prof)
}

type milestone struct {
	id, name, description, icon string
	target                      int
	progress                    func(logs []activity.Log) int
}

var milestones = []milestone{
	{"first-step", "First Step", "Log your first eco-friendly activity.", "🌱", 1, countLogs},
	{"eco-regular", "Eco Regular", "Log 10 activities.", "🌿", 10, countLogs},
	{"carbon-cutter", "Carbon Cutter", "Save 50 kg of CO2.", "🌍", 50, savedKg},
	{"all-rounder", "All-Rounder", "Log activities in 5 categories.", "🏅", 5, categoryCount},
}

func countLogs(logs []activity.Log) int { return len(logs) }

func savedKg(logs []activity.Log) int {
	return int(collection.Summarize(logs).TotalEmissions)
}

func categoryCount(logs []activity.Log) int {
	return len(collection.AggregateByCategory(logs))
}

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	logs := s.userLogs(r)
	out := make([]account.Achievement, 0, len(milestones))
	for _, m := range milestones {
		p := min(m.progress(logs), m.target)
		out = append(out, account.Achievement{
			ID:          m.id,
			Name:        m.name,
			Description: m.description,
			Progress:    p,
			Target:      m.target,
			Completed:   p >= m.target,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleBadges returns one badge per completed milestone, earned when the
// log that completed it was created.
func (s *Server) handleBadges(w http.ResponseWriter, r *http.Request) {
	logs := collection.Sort(s.userLogs(r), collection.SortByCreatedAt, collection.Asc)
	out := []account.Badge{}
	for _, m := range milestones {
		for i := range logs {
			if m.progress(logs[:i+1]) >= m.target {
				earned := logs[i].CreatedAt.Truncate(time.Second)
				out = append(out, account.Badge{ID: m.id, Name: m.name, Description: m.description, Icon: m.icon, EarnedAt: &earned})
				break
			}
		}
	}
	writeJSON(w, http.StatusOK, out)
}
