package records

import (
	"context"
	"time"

	"github.com/vitatrack/vitatrack/internal/cli"
	"github.com/vitatrack/vitatrack/internal/models"
	"github.com/vitatrack/vitatrack/internal/store"
)

type RecordListCmd struct {
	Date string `help:"Day to list (YYYY-MM-DD, today, yesterday, tomorrow)." default:"today"`
	Meal string `short:"m" help:"Only show one meal type (breakfast|lunch|dinner|snack)."`
}

func (c *RecordListCmd) Validate() error {
	if c.Meal == "" {
		return nil
	}
	_, err := models.ParseMealType(c.Meal)
	return err
}

func (c *RecordListCmd) Run(ctx *cli.Context) error {
	date, err := cli.ParseDay(c.Date, time.Now())
	if err != nil {
		return err
	}
	if _, err := ctx.Open(context.Background(), date); err != nil {
		return err
	}

	snap := ctx.Store.Snapshot()
	if c.Meal != "" {
		mt, _ := models.ParseMealType(c.Meal)
		snap.Records = filterMeal(snap.Records, mt)
		snap.MealCounts = store.CountMeals(snap.Records, snap.SelectedDate)
	}
	cli.PrintDay(ctx.Writer(), snap, time.Now())
	return nil
}

func filterMeal(records []models.Record, mt models.MealType) []models.Record {
	var out []models.Record
	for _, r := range records {
		if r.MealType != nil && *r.MealType == mt {
			out = append(out, r)
		}
	}
	return out
}
