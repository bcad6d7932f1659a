package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vitatrack/vitatrack/internal/models"
	"github.com/vitatrack/vitatrack/internal/progress"
	"github.com/vitatrack/vitatrack/internal/utils"
)

type ProgressCmd struct {
	Date string `help:"Day to report (YYYY-MM-DD, today, yesterday)." default:"today"`
}

func (c *ProgressCmd) Run(ctx *Context) error {
	date, err := ParseDay(c.Date, time.Now())
	if err != nil {
		return err
	}
	user, err := ctx.Session.Current()
	if err != nil {
		return err
	}

	bg := context.Background()
	intake, err := ctx.Client.DailyIntake(bg, user.ID, date)
	if err != nil {
		return fmt.Errorf("failed to get daily intake: %w", err)
	}
	goals, err := ctx.Client.GoalSettings(bg, user.ID)
	if err != nil {
		return fmt.Errorf("failed to get goal settings: %w", err)
	}

	ratio := progress.Calculate(intake, goals)
	ctx.Printf("Progress for %s: %d%%\n", utils.DateLabel(date, time.Now()), progress.Percent(ratio))
	ctx.Printf("%s\n\n", progress.Message(ratio))
	printCategories(ctx, intake, goals)
	return nil
}

var categoryNames = []string{"Vegetables", "Fruits", "Grains", "Meat", "Dairy", "Extras"}

func printCategories(ctx *Context, intake, goals models.NutrientTotals) {
	in, goal := intake.Values(), goals.Values()
	for i, name := range categoryNames {
		ctx.Printf("  %-11s %5.1f / %-5.1f %s\n", name, in[i], goal[i], bar(in[i], goal[i], 20))
	}
}

func bar(value, goal float64, width int) string {
	filled := 0
	if goal > 0 && value > 0 {
		filled = int(value / goal * float64(width))
		if filled > width {
			filled = width
		}
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}
