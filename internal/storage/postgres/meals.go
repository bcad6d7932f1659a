package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/vitatrack/vitatrack/internal/storage"
)

const mealSelect = `
SELECT m.id, m.food_id, m.user_id, f.name, f.calories, f.unit, f.amount, m.meal_type,
       to_char(m.record_date, 'YYYY-MM-DD'), COALESCE(f.image_url, '')
FROM meal_records m JOIN foods f ON f.id = m.food_id`

func (s *Store) AddMeal(in storage.NewMeal) (storage.MealRecord, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return storage.MealRecord{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var foodID int64
	err = tx.QueryRow(`INSERT INTO foods (user_id, name, calories, unit, amount, image_url) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		in.UserID, in.Name, in.Calories, in.Unit, in.Amount, nullString(in.ImageURL)).Scan(&foodID)
	if err != nil {
		return storage.MealRecord{}, fmt.Errorf("failed to insert food: %w", err)
	}

	var id int64
	err = tx.QueryRow(`INSERT INTO meal_records (user_id, food_id, meal_type, record_date) VALUES ($1, $2, $3, $4) RETURNING id`,
		in.UserID, foodID, in.MealType, in.RecordDate).Scan(&id)
	if err != nil {
		return storage.MealRecord{}, fmt.Errorf("failed to insert meal record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return storage.MealRecord{}, err
	}

	return storage.MealRecord{
		ID:         id,
		FoodID:     foodID,
		UserID:     in.UserID,
		Name:       in.Name,
		Calories:   in.Calories,
		Unit:       in.Unit,
		Amount:     in.Amount,
		MealType:   in.MealType,
		RecordDate: in.RecordDate,
		ImageURL:   in.ImageURL,
	}, nil
}

func (s *Store) GetMealRecords(userID int64, filter storage.MealFilter) ([]storage.MealRecord, error) {
	where := []string{"m.user_id = $1"}
	args := []any{userID}
	if filter.Date != "" {
		args = append(args, filter.Date)
		where = append(where, fmt.Sprintf("m.record_date = $%d", len(args)))
	}
	if filter.MealType != "" {
		args = append(args, filter.MealType)
		where = append(where, fmt.Sprintf("m.meal_type = $%d", len(args)))
	}

	rows, err := s.db.Query(mealSelect+" WHERE "+strings.Join(where, " AND ")+" ORDER BY m.id", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []storage.MealRecord
	for rows.Next() {
		var r storage.MealRecord
		if err := rows.Scan(&r.ID, &r.FoodID, &r.UserID, &r.Name, &r.Calories, &r.Unit, &r.Amount, &r.MealType, &r.RecordDate, &r.ImageURL); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *Store) UpdateFood(foodID int64, u storage.FoodUpdate) error {
	res, err := s.db.Exec(`UPDATE foods SET name = $1, calories = $2, unit = $3, amount = $4, image_url = $5 WHERE id = $6`,
		u.Name, u.Calories, u.Unit, u.Amount, nullString(u.ImageURL), foodID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteMealRecord removes a meal record and its food once no record references it.
func (s *Store) DeleteMealRecord(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var foodID int64
	if err := tx.QueryRow(`DELETE FROM meal_records WHERE id = $1 RETURNING food_id`, id).Scan(&foodID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrNotFound
		}
		return err
	}
	if _, err := tx.Exec(`DELETE FROM foods WHERE id = $1 AND NOT EXISTS (SELECT 1 FROM meal_records WHERE food_id = $1)`, foodID); err != nil {
		return err
	}
	return tx.Commit()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
