package records

import (
	"context"
	"fmt"
	"time"

	"github.com/vitatrack/vitatrack/internal/cli"
	"github.com/vitatrack/vitatrack/internal/utils"
)

type RecordDeleteCmd struct {
	ID   int64  `arg:"" help:"Record ID as shown by 'records list'."`
	Date string `short:"d" help:"Day the record belongs to." default:"today"`
}

func (c *RecordDeleteCmd) Run(ctx *cli.Context) error {
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

	if err := ctx.Store.Delete(bg, rec); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}

	ctx.Printf("Deleted food: %s (ID: %d)\n", rec.Name, c.ID)
	return nil
}
