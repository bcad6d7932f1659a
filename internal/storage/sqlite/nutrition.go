package sqlite

import (
	"database/sql"
	"errors"

	"github.com/vitatrack/vitatrack/internal/models"
)

// GetDailyIntake returns zero totals when nothing was recorded for the day.
func (s *Store) GetDailyIntake(userID int64, date string) (models.NutrientTotals, error) {
	var n models.NutrientTotals
	err := s.db.QueryRow(`
SELECT vegetables, fruits, grains, meat, dairy, extras
FROM daily_intake WHERE user_id = ? AND date = ?`, userID, date).
		Scan(&n.Vegetables, &n.Fruits, &n.Grains, &n.Meat, &n.Dairy, &n.Extras)
	if errors.Is(err, sql.ErrNoRows) {
		return models.NutrientTotals{}, nil
	}
	return n, err
}

func (s *Store) SaveDailyIntake(userID int64, date string, n models.NutrientTotals) error {
	_, err := s.db.Exec(`
INSERT INTO daily_intake (user_id, date, vegetables, fruits, grains, meat, dairy, extras)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(user_id, date) DO UPDATE SET
    vegetables = excluded.vegetables, fruits = excluded.fruits, grains = excluded.grains,
    meat = excluded.meat, dairy = excluded.dairy, extras = excluded.extras`,
		userID, date, n.Vegetables, n.Fruits, n.Grains, n.Meat, n.Dairy, n.Extras)
	return err
}

// GetGoalSettings returns zero goals when the user has none configured.
func (s *Store) GetGoalSettings(userID int64) (models.NutrientTotals, error) {
	var n models.NutrientTotals
	err := s.db.QueryRow(`
SELECT vegetables, fruits, grains, meat, dairy, extras
FROM goal_settings WHERE user_id = ?`, userID).
		Scan(&n.Vegetables, &n.Fruits, &n.Grains, &n.Meat, &n.Dairy, &n.Extras)
	if errors.Is(err, sql.ErrNoRows) {
		return models.NutrientTotals{}, nil
	}
	return n, err
}

func (s *Store) SaveGoalSettings(userID int64, n models.NutrientTotals) error {
	_, err := s.db.Exec(`
INSERT INTO goal_settings (user_id, vegetables, fruits, grains, meat, dairy, extras)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(user_id) DO UPDATE SET
    vegetables = excluded.vegetables, fruits = excluded.fruits, grains = excluded.grains,
    meat = excluded.meat, dairy = excluded.dairy, extras = excluded.extras`,
		userID, n.Vegetables, n.Fruits, n.Grains, n.Meat, n.Dairy, n.Extras)
	return err
}
