package mockapi

import (
	"net/http"
	"strings"

	"github.com/TechyShie/ecopulse/internal/collection"
	"github.com/TechyShie/ecopulse/internal/domain/activity"
	"github.com/TechyShie/ecopulse/internal/domain/stats"
)

const defaultLeaderboardLimit = 10

func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserFromContext(r.Context())
	logs := s.store.Logs(userID)
	sum := collection.Summarize(logs)

	out := stats.Dashboard{
		TotalEmissionsSaved: sum.TotalEmissions,
		TotalPoints:         sum.TotalPoints,
		EcoScore:            sum.TotalPoints,
		ActivitiesCount:     sum.TotalLogs,
		CurrentStreak:       streak(logs, activity.DateOf(s.now())),
	}
	for i, st := range s.store.standings() {
		if st.profile.ID == userID {
			out.Rank = i + 1
			break
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// streak counts consecutive days with at least one log, ending today or,
// when nothing is logged today yet, yesterday.
func streak(logs []activity.Log, today activity.Date) int {
	days := make(map[activity.Date]bool, len(logs))
	for _, l := range logs {
		days[l.ActivityDate] = true
	}
	day := today
	if !days[day] {
		day = day.AddDays(-1)
	}
	n := 0
	for days[day] {
		n++
		day = day.AddDays(-1)
	}
	return n
}

func (s *Server) handleWeekly(w http.ResponseWriter, r *http.Request) {
	today := activity.DateOf(s.now())
	from := today.AddDays(-6)
	recent := collection.Where(s.userLogs(r), collection.MatchDateRange(from, today))

	byDay := make(map[activity.Date]collection.DaySummary)
	for _, d := range collection.AggregateByDay(recent) {
		byDay[d.Day] = d
	}
	out := make([]stats.WeeklyPoint, 0, 7)
	for day := from; !day.After(today); day = day.AddDays(1) {
		d := byDay[day]
		out = append(out, stats.WeeklyPoint{Day: day, EmissionsSaved: d.TotalEmissions, Points: d.TotalPoints})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	sums := collection.AggregateByCategory(s.userLogs(r))
	out := make([]stats.CategoryPoint, 0, len(sums))
	for _, c := range sums {
		out = append(out, stats.CategoryPoint{Category: c.Category, EmissionsSaved: c.TotalEmissions, Count: c.ActivityCount})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	logs := s.userLogs(r)
	sum := collection.Summarize(logs)
	writeJSON(w, http.StatusOK, stats.InsightSummary{
		TotalLogs:       sum.TotalLogs,
		TotalEmissions:  sum.TotalEmissions,
		AverageEmission: sum.AverageEmission,
		TopCategory:     collection.TopCategory(logs),
	})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	all := s.store.standings()
	skip, limit := pageParams(r, defaultLeaderboardLimit)
	page := window(all, skip, limit)

	out := make([]stats.LeaderboardEntry, 0, len(page))
	for i, st := range page {
		out = append(out, stats.LeaderboardEntry{
			Rank:           skip + i + 1,
			Username:       st.profile.Username,
			FullName:       st.profile.FullName,
			EcoScore:       st.profile.EcoScore,
			EmissionsSaved: st.emissionsSaved,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

var chatTips = []struct {
	keywords []string
	reply    string
}{
	{[]string{"car", "drive", "commute", "transport", "bike"}, "Swapping one car trip a week for cycling or transit saves around 2-3 kg of CO2. Log it under transportation to track the savings."},
	{[]string{"energy", "electric", "heating", "light"}, "Switching to LED bulbs and lowering your thermostat by 1°C are easy energy wins. Each can save several kilograms of CO2 a month."},
	{[]string{"food", "meat", "diet", "eat"}, "A plant-based meal instead of beef saves roughly 1.5 kg of CO2. Try a meat-free day each week."},
	{[]string{"waste", "recycle", "plastic", "compost"}, "Composting food scraps and recycling glass and paper keep waste out of landfill and cut methane emissions."},
	{[]string{"shop", "buy", "clothes"}, "Buying second-hand and repairing what you own avoids most of a product's manufacturing footprint."},
}

const defaultChatReply = "Every logged activity counts. Try tracking your commute, meals and energy use this week to see where you save the most CO2."

type chatReply struct {
	Response string `json:"response"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Prompt string `json:"prompt" validate:"required"`
	}
	if err := s.decode(r, &req); err != nil {
		writeValidation(w, err)
		return
	}
	prompt := strings.ToLower(req.Prompt)
	for _, tip := range chatTips {
		for _, kw := range tip.keywords {
			if strings.Contains(prompt, kw) {
				writeJSON(w, http.StatusOK, chatReply{Response: tip.reply})
				return
			}
		}
	}
	writeJSON(w, http.StatusOK, chatReply{Response: defaultChatReply})
}
