package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/vitatrack/vitatrack/internal/storage"
)

const mealSelect = `
SELECT m.id, m.food_id, m.user_id, f.name, f.calories, f.unit, f.amount, m.meal_type, m.record_date, COALESCE(f.image_url, '')
FROM meal_records m JOIN foods f ON f.id = m.food_id`

func (s *Store) AddMeal(in storage.NewMeal) (storage.MealRecord, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return storage.MealRecord{}, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`INSERT INTO foods (user_id, name, calories, unit, amount, image_url) VALUES (?, ?, ?, ?, ?, ?)`,
		in.UserID, in.Name, in.Calories, in.Unit, in.Amount, nullString(in.ImageURL))
	if err != nil {
		return storage.MealRecord{}, fmt.Errorf("failed to insert food: %w", err)
	}
	foodID, err := res.LastInsertId()
	if err != nil {
		return storage.MealRecord{}, err
	}

	res, err = tx.Exec(`INSERT INTO meal_records (user_id, food_id, meal_type, record_date) VALUES (?, ?, ?, ?)`,
		in.UserID, foodID, in.MealType, in.RecordDate)
	if err != nil {
		return storage.MealRecord{}, fmt.Errorf("failed to insert meal record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return storage.MealRecord{}, err
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
	where := []string{"m.user_id = ?"}
	args := []any{userID}
	if filter.Date != "" {
		where = append(where, "m.record_date = ?")
		args = append(args, filter.Date)
	}
	if filter.MealType != "" {
		where = append(where, "m.meal_type = ?")
		args = append(args, filter.MealType)
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
	res, err := s.db.Exec(`UPDATE foods SET name = ?, calories = ?, unit = ?, amount = ?, image_url = ? WHERE id = ?`,
		u.Name, u.Calories, u.Unit, u.Amount, nullString(u.ImageURL), foodID)
	if err != nil {
		return err
	}
	return expectRow(res)
}

// DeleteMealRecord removes a meal record and its food once no record references it.
func (s *Store) DeleteMealRecord(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var foodID int64
	if err := tx.QueryRow(`SELECT food_id FROM meal_records WHERE id = ?`, id).Scan(&foodID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrNotFound
		}
		return err
	}
	if _, err := tx.Exec(`DELETE FROM meal_records WHERE id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM foods WHERE id = ? AND NOT EXISTS (SELECT 1 FROM meal_records WHERE food_id = ?)`, foodID, foodID); err != nil {
		return err
	}
	return tx.Commit()
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
