package records

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vitatrack/vitatrack/internal/cli"
	"github.com/vitatrack/vitatrack/internal/models"
	"github.com/vitatrack/vitatrack/internal/utils"
)

type RecordEditCmd struct {
	ID       int64    `arg:"" help:"Record ID as shown by 'records list'."`
	Date     string   `short:"d" help:"Day the record belongs to." default:"today"`
	Name     *string  `help:"New food name."`
	Calories *int     `short:"c" help:"New calories."`
	Unit     *string  `short:"u" help:"New unit."`
	Amount   *float64 `short:"a" help:"New amount."`
}

func (c *RecordEditCmd) Validate() error {
	if c.Name == nil && c.Calories == nil && c.Unit == nil && c.Amount == nil {
		return fmt.Errorf("nothing to change: pass --name, --calories, --unit or --amount")
	}
	return nil
}

func (c *RecordEditCmd) Run(ctx *cli.Context) error {
	date, err := cli.ParseDay(c.Date, time.Now())
	if err != nil {
		return err
	}
	bg := context.Background()
	if _, err := ctx.Open(bg, date); err != nil {
		return err
	}

	rec, ok := cli.FindByServerID(ctx.Store.Records(), c.ID)
	if !ok {
		return fmt.Errorf("no record #%d on %s", c.ID, utils.FormatDate(date))
	}

	if c.Name != nil {
		rec.Name = strings.TrimSpace(*c.Name)
	}
	if c.Calories != nil {
		rec.Calories = *c.Calories
	}
	if c.Unit != nil {
		rec.Unit = strings.TrimSpace(*c.Unit)
	}
	if c.Amount != nil {
		rec.Amount = models.Float64(*c.Amount)
	}

	if err := ctx.Store.Update(bg, rec); err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}

	updated, _ := ctx.Store.Record(rec.LocalID)
	ctx.Printf("Updated: %s\n", cli.FormatRecord(updated, ctx.Store.Status(updated.LocalID)))
	return nil
}
