package devserver

import (
	"encoding/json"
	"net/http"

	"github.com/vitatrack/vitatrack/internal/logger"
	"github.com/vitatrack/vitatrack/internal/models"
	"github.com/vitatrack/vitatrack/internal/utils"
)

// The nutrition endpoints answer with a flat category map, not an envelope.

func (s *Server) getDailyIntake(w http.ResponseWriter, r *http.Request) {
	userID, date, ok := intakeParams(w, r)
	if !ok {
		return
	}
	totals, err := s.store.GetDailyIntake(userID, date)
	if err != nil {
		logger.Error("Failed to read daily intake", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read daily intake")
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

func (s *Server) putDailyIntake(w http.ResponseWriter, r *http.Request) {
	userID, date, ok := intakeParams(w, r)
	if !ok {
		return
	}
	totals, ok := decodeTotals(w, r)
	if !ok {
		return
	}
	if err := s.store.SaveDailyIntake(userID, date, totals); err != nil {
		logger.Error("Failed to save daily intake", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save daily intake")
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

func (s *Server) getGoalSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryUserID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}
	goals, err := s.store.GetGoalSettings(userID)
	if err != nil {
		logger.Error("Failed to read goal settings", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read goal settings")
		return
	}
	writeJSON(w, http.StatusOK, goals)
}

func (s *Server) putGoalSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryUserID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}
	goals, ok := decodeTotals(w, r)
	if !ok {
		return
	}
	if err := s.store.SaveGoalSettings(userID, goals); err != nil {
		logger.Error("Failed to save goal settings", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save goal settings")
		return
	}
	writeJSON(w, http.StatusOK, goals)
}

func intakeParams(w http.ResponseWriter, r *http.Request) (int64, string, bool) {
	userID, ok := queryUserID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "userId is required")
		return 0, "", false
	}
	date, err := utils.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return 0, "", false
	}
	return userID, utils.FormatDate(date), true
}

func decodeTotals(w http.ResponseWriter, r *http.Request) (models.NutrientTotals, bool) {
	var totals models.NutrientTotals
	if err := json.NewDecoder(r.Body).Decode(&totals); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return models.NutrientTotals{}, false
	}
	for _, v := range totals.Values() {
		if v < 0 {
			writeError(w, http.StatusBadRequest, "values cannot be negative")
			return models.NutrientTotals{}, false
		}
	}
	return totals, true
}
