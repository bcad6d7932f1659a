package devserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/vitatrack/vitatrack/internal/constants"
	"github.com/vitatrack/vitatrack/internal/logger"
	"github.com/vitatrack/vitatrack/internal/models"
	"github.com/vitatrack/vitatrack/internal/storage"
	"github.com/vitatrack/vitatrack/internal/utils"
)

type mealRecordJSON struct {
	ID         int64   `json:"id"`
	FoodID     int64   `json:"food_id"`
	Name       string  `json:"name"`
	Calories   float64 `json:"calories"`
	Unit       string  `json:"unit"`
	Amount     float64 `json:"amount"`
	MealType   string  `json:"meal_type"`
	RecordDate string  `json:"record_date"`
	ImageURL   *string `json:"image_url"`
}

type foodRequest struct {
	Name     string   `json:"name"`
	Calories float64  `json:"calories"`
	Unit     string   `json:"unit"`
	Date     string   `json:"date"`
	UserID   int64    `json:"user_id"`
	MealType string   `json:"meal_type"`
	Amount   *float64 `json:"amount"`
	ImageURL string   `json:"image_url"`
}

func toJSON(r storage.MealRecord) mealRecordJSON {
	out := mealRecordJSON{
		ID:         r.ID,
		FoodID:     r.FoodID,
		Name:       r.Name,
		Calories:   r.Calories,
		Unit:       r.Unit,
		Amount:     r.Amount,
		MealType:   r.MealType,
		RecordDate: r.RecordDate,
	}
	if r.ImageURL != "" {
		img := r.ImageURL
		out.ImageURL = &img
	}
	return out
}

func (s *Server) listMealRecords(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "userId")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	filter := storage.MealFilter{MealType: r.URL.Query().Get("meal_type")}
	if d := r.URL.Query().Get("date"); d != "" {
		date, err := utils.ParseDate(d)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		filter.Date = utils.FormatDate(date)
	}
	if filter.MealType != "" {
		if _, err := models.ParseMealType(filter.MealType); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	records, err := s.store.GetMealRecords(userID, filter)
	if err != nil {
		logger.Error("Failed to list meal records", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list meal records")
		return
	}

	data := make([]mealRecordJSON, 0, len(records))
	for _, rec := range records {
		data = append(data, toJSON(rec))
	}
	writeJSON(w, http.StatusOK, envelope{Message: "Meal records retrieved", Data: data})
}

func (s *Server) createFood(w http.ResponseWriter, r *http.Request) {
	var req foodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	meal, err := req.toNewMeal()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.store.AddMeal(meal)
	if err != nil {
		logger.Error("Failed to add food", "user_id", meal.UserID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to add food")
		return
	}
	writeJSON(w, http.StatusCreated, envelope{
		Message: "Food added",
		Data:    map[string]int64{"food_id": created.FoodID, "id": created.ID},
	})
}

func (req foodRequest) toNewMeal() (storage.NewMeal, error) {
	name := strings.TrimSpace(req.Name)
	switch {
	case name == "":
		return storage.NewMeal{}, errors.New("name is required")
	case req.UserID <= 0:
		return storage.NewMeal{}, errors.New("user_id is required")
	case req.Calories < 0:
		return storage.NewMeal{}, errors.New("calories cannot be negative")
	case req.Amount != nil && *req.Amount <= 0:
		return storage.NewMeal{}, errors.New("amount must be greater than zero")
	}

	mealType, err := models.ParseMealType(req.MealType)
	if err != nil {
		return storage.NewMeal{}, err
	}

	date, err := parseRecordDate(req.Date)
	if err != nil {
		return storage.NewMeal{}, err
	}

	unit := strings.TrimSpace(req.Unit)
	if unit == "" {
		unit = constants.DefaultUnit
	}
	amount := constants.DefaultAmount
	if req.Amount != nil {
		amount = *req.Amount
	}

	return storage.NewMeal{
		UserID:     req.UserID,
		Name:       name,
		Calories:   req.Calories,
		Unit:       unit,
		Amount:     amount,
		MealType:   string(mealType),
		RecordDate: date,
		ImageURL:   strings.TrimSpace(req.ImageURL),
	}, nil
}

// parseRecordDate accepts a timestamp (stored as the server-local calendar
// day) or a bare YYYY-MM-DD date.
func parseRecordDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", errors.New("date is required")
	}
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return utils.FormatDate(ts.In(time.Local)), nil
	}
	d, err := utils.ParseDate(s)
	if err != nil {
		return "", err
	}
	return utils.FormatDate(d), nil
}

func (s *Server) updateFood(w http.ResponseWriter, r *http.Request) {
	foodID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid food id")
		return
	}

	var req foodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" || req.Calories < 0 || (req.Amount != nil && *req.Amount <= 0) {
		writeError(w, http.StatusBadRequest, "name, calories and amount must be valid")
		return
	}

	update := storage.FoodUpdate{
		Name:     name,
		Calories: req.Calories,
		Unit:     strings.TrimSpace(req.Unit),
		Amount:   constants.DefaultAmount,
		ImageURL: strings.TrimSpace(req.ImageURL),
	}
	if update.Unit == "" {
		update.Unit = constants.DefaultUnit
	}
	if req.Amount != nil {
		update.Amount = *req.Amount
	}

	if err := s.store.UpdateFood(foodID, update); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "food not found")
			return
		}
		logger.Error("Failed to update food", "food_id", foodID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update food")
		return
	}
	writeJSON(w, http.StatusOK, envelope{Message: "Food updated"})
}

func (s *Server) deleteMealRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid meal record id")
		return
	}

	if err := s.store.DeleteMealRecord(id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "meal record not found")
			return
		}
		logger.Error("Failed to delete meal record", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete meal record")
		return
	}
	writeJSON(w, http.StatusOK, envelope{Message: "Meal record deleted"})
}
