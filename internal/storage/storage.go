// Package storage defines the persistence layer of the development backend.
package storage

import (
	"errors"
	"strings"

	"github.com/vitatrack/vitatrack/internal/models"
)

// ErrNotFound is returned when a row addressed by id does not exist.
var ErrNotFound = errors.New("not found")

// MealRecord is a meal-record row joined with its food.
type MealRecord struct {
	ID         int64
	FoodID     int64
	UserID     int64
	Name       string
	Calories   float64
	Unit       string
	Amount     float64
	MealType   string
	RecordDate string // YYYY-MM-DD
	ImageURL   string
}

// NewMeal is the input for creating a food and its meal record.
type NewMeal struct {
	UserID     int64
	Name       string
	Calories   float64
	Unit       string
	Amount     float64
	MealType   string
	RecordDate string // YYYY-MM-DD
	ImageURL   string
}

// FoodUpdate holds the editable food fields.
type FoodUpdate struct {
	Name     string
	Calories float64
	Unit     string
	Amount   float64
	ImageURL string
}

// MealFilter narrows GetMealRecords. Empty fields match everything.
type MealFilter struct {
	Date     string
	MealType string
}

type Provider interface {
	// Lifecycle
	Init() error
	Close() error

	// Meals
	AddMeal(NewMeal) (MealRecord, error)
	GetMealRecords(userID int64, filter MealFilter) ([]MealRecord, error)
	UpdateFood(foodID int64, update FoodUpdate) error
	DeleteMealRecord(id int64) error

	// Nutrition
	GetDailyIntake(userID int64, date string) (models.NutrientTotals, error)
	SaveDailyIntake(userID int64, date string, totals models.NutrientTotals) error
	GetGoalSettings(userID int64) (models.NutrientTotals, error)
	SaveGoalSettings(userID int64, totals models.NutrientTotals) error

	// Utils
	SchemaVersion() (current, latest int, err error)
	GetConfigPath() string
}

// IsPostgres reports whether dsn selects the PostgreSQL provider.
func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}
