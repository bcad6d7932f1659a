package records

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/vitatrack/vitatrack/internal/cli"
	apperrors "github.com/vitatrack/vitatrack/internal/errors"
	"github.com/vitatrack/vitatrack/internal/models"
)

type RecordAddCmd struct {
	Name     string  `arg:"" help:"Food name."`
	Calories int     `arg:"" help:"Calories (kcal)."`
	Meal     string  `short:"m" help:"Meal type (breakfast|lunch|dinner|snack)." default:"breakfast"`
	Unit     string  `short:"u" help:"Unit of the amount." default:"g"`
	Amount   float64 `short:"a" help:"Amount in units." default:"1"`
	Date     string  `short:"d" help:"Day of the record (YYYY-MM-DD, today, yesterday)." default:"today"`
	Image    string  `help:"Photo to upload with the record."`
}

func (c *RecordAddCmd) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if c.Calories < 0 {
		return fmt.Errorf("calories cannot be negative")
	}
	if c.Amount <= 0 {
		return fmt.Errorf("amount must be greater than zero")
	}
	_, err := models.ParseMealType(c.Meal)
	return err
}

func (c *RecordAddCmd) Run(ctx *cli.Context) error {
	date, err := cli.ParseDay(c.Date, time.Now())
	if err != nil {
		return err
	}
	bg := context.Background()
	user, err := ctx.Open(bg, date)
	if err != nil {
		return err
	}

	mealType, _ := models.ParseMealType(c.Meal)
	rec := models.NewRecord(strings.TrimSpace(c.Name), c.Calories, date)
	rec.MealType = &mealType
	rec.Unit = c.Unit
	rec.Amount = models.Float64(c.Amount)

	if c.Image != "" {
		f, err := os.Open(c.Image)
		if err != nil {
			return fmt.Errorf("failed to open image: %w", err)
		}
		defer f.Close()
		url, err := ctx.Client.UploadImage(bg, user.ID, c.Image, f)
		if err != nil {
			return fmt.Errorf("failed to upload image: %w", err)
		}
		rec.ImageURL = url
	}

	saved, err := ctx.Store.Add(bg, rec)
	if err != nil {
		ctx.Printf("❌ %s was not saved: %s\n", rec.Name, apperrors.Describe(err))
		return err
	}

	ctx.Printf("Added food: %s\n", cli.FormatRecord(saved, ctx.Store.Status(saved.LocalID)))
	return nil
}
