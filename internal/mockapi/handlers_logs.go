package mockapi

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/TechyShie/ecopulse/internal/collection"
	"github.com/TechyShie/ecopulse/internal/domain/activity"
	"github.com/go-chi/chi/v5"
)

const (
	defaultLogsLimit       = 100
	defaultActivitiesLimit = 5
)

func (s *Server) userLogs(r *http.Request) []activity.Log {
	userID, _ := UserFromContext(r.Context())
	return s.store.Logs(userID)
}

func (s *Server) handleListLogs(w http.ResponseWriter, r *http.Request) {
	logs := collection.Sort(s.userLogs(r), collection.SortByDate, collection.Desc)
	skip, limit := pageParams(r, defaultLogsLimit)
	writeJSON(w, http.StatusOK, window(logs, skip, limit))
}

func (s *Server) handleDashboardActivities(w http.ResponseWriter, r *http.Request) {
	logs := collection.Sort(s.userLogs(r), collection.SortByCreatedAt, collection.Desc)
	skip, limit := pageParams(r, defaultActivitiesLimit)
	writeJSON(w, http.StatusOK, window(logs, skip, limit))
}

func (s *Server) decodeInput(w http.ResponseWriter, r *http.Request) (activity.Input, bool) {
	var in activity.Input
	if err := s.decode(r, &in); err != nil {
		writeValidation(w, err)
		return in, false
	}
	in.ActivityType = activity.Canonical(in.ActivityType)
	if in.PointsEarned == 0 {
		in.PointsEarned = pointsFor(in.EmissionsSaved)
	}
	return in, true
}

// pointsFor awards ten points per kilogram saved.
func pointsFor(kg float64) int {
	return int(math.Round(kg * 10))
}

func (s *Server) handleCreateLog(w http.ResponseWriter, r *http.Request) {
	in, ok := s.decodeInput(w, r)
	if !ok {
		return
	}
	userID, _ := UserFromContext(r.Context())
	writeJSON(w, http.StatusCreated, s.store.addLog(userID, in))
}

func logIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeDetail(w, http.StatusNotFound, "Activity log not found")
		return 0, false
	}
	return id, true
}

func (s *Server) handleUpdateLog(w http.ResponseWriter, r *http.Request) {
	id, ok := logIDParam(w, r)
	if !ok {
		return
	}
	in, ok := s.decodeInput(w, r)
	if !ok {
		return
	}
	userID, _ := UserFromContext(r.Context())
	updated, err := s.store.updateLog(userID, id, in)
	if errors.Is(err, errLogNotFound) {
		writeDetail(w, http.StatusNotFound, "Activity log not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteLog(w http.ResponseWriter, r *http.Request) {
	id, ok := logIDParam(w, r)
	if !ok {
		return
	}
	userID, _ := UserFromContext(r.Context())
	if err := s.store.deleteLog(userID, id); err != nil {
		writeDetail(w, http.StatusNotFound, "Activity log not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
