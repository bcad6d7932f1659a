package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/vitatrack/vitatrack/internal/constants"
	"github.com/vitatrack/vitatrack/internal/models"
)

type AddFormModel struct {
	Name     string
	Calories string
	Meal     models.MealType
	Amount   string
	Unit     string
}

func newAddForm(fm *AddFormModel) *huh.Form {
	options := make([]huh.Option[models.MealType], 0, len(models.MealTypes))
	for _, mt := range models.MealTypes {
		options = append(options, huh.NewOption(strings.ToUpper(string(mt[:1]))+string(mt[1:]), mt))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Food").
				Value(&fm.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Calories (kcal)").
				Value(&fm.Calories).
				Validate(func(s string) error {
					n, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil || n < 0 {
						return fmt.Errorf("must be a non-negative whole number")
					}
					return nil
				}),
			huh.NewSelect[models.MealType]().
				Title("Meal").
				Options(options...).
				Value(&fm.Meal),
			huh.NewInput().
				Title("Amount").
				Value(&fm.Amount).
				Validate(func(s string) error {
					v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
					if err != nil || v <= 0 {
						return fmt.Errorf("must be a positive number")
					}
					return nil
				}),
			huh.NewInput().
				Title("Unit").
				Value(&fm.Unit),
		),
	)
}

func defaultAddForm() *AddFormModel {
	return &AddFormModel{
		Meal:   models.MealBreakfast,
		Amount: "1",
		Unit:   constants.DefaultUnit,
	}
}

// Record builds a record on day from the completed form.
func (fm *AddFormModel) Record(day time.Time) models.Record {
	calories, _ := strconv.Atoi(strings.TrimSpace(fm.Calories))
	r := models.NewRecord(strings.TrimSpace(fm.Name), calories, day)
	r.MealType = fm.Meal.Ptr()
	if amount, err := strconv.ParseFloat(strings.TrimSpace(fm.Amount), 64); err == nil {
		r.Amount = models.Float64(amount)
	}
	if unit := strings.TrimSpace(fm.Unit); unit != "" {
		r.Unit = unit
	}
	return r
}
