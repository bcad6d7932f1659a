package cli

import (
	"context"
	"time"
)

// DayCmd shows the records of one day, optionally stepping from --date.
type DayCmd struct {
	Show DayShowCmd `cmd:"" help:"Show a day." default:"1"`
	Prev DayPrevCmd `cmd:"" help:"Show the day before --date."`
	Next DayNextCmd `cmd:"" help:"Show the day after --date."`
}

type DayShowCmd struct {
	Date   string `help:"Day to show (YYYY-MM-DD, today, yesterday, tomorrow)." default:"today"`
	Offset int    `help:"Days to add to --date." default:"0"`
}

func (c *DayShowCmd) Run(ctx *Context) error {
	date, err := ParseDay(c.Date, time.Now())
	if err != nil {
		return err
	}
	if _, err := ctx.Open(context.Background(), date.AddDate(0, 0, c.Offset)); err != nil {
		return err
	}
	PrintDay(ctx.Writer(), ctx.Store.Snapshot(), time.Now())
	return nil
}

type DayPrevCmd struct {
	Date string `help:"Day to step back from." default:"today"`
}

func (c *DayPrevCmd) Run(ctx *Context) error {
	return stepDay(ctx, c.Date, false)
}

type DayNextCmd struct {
	Date string `help:"Day to step forward from." default:"today"`
}

func (c *DayNextCmd) Run(ctx *Context) error {
	return stepDay(ctx, c.Date, true)
}

// stepDay loads from and then moves the store one day, so the second load
// goes through the store's day navigation.
func stepDay(ctx *Context, from string, forward bool) error {
	date, err := ParseDay(from, time.Now())
	if err != nil {
		return err
	}
	bg := context.Background()
	if _, err := ctx.Open(bg, date); err != nil {
		return err
	}
	if forward {
		err = ctx.Store.NextDay(bg)
	} else {
		err = ctx.Store.PreviousDay(bg)
	}
	if err != nil {
		return err
	}
	PrintDay(ctx.Writer(), ctx.Store.Snapshot(), time.Now())
	return nil
}
