package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/vitatrack/vitatrack/internal/config"
	"github.com/vitatrack/vitatrack/internal/constants"
	"github.com/vitatrack/vitatrack/internal/models"
	"github.com/vitatrack/vitatrack/internal/remote"
	"github.com/vitatrack/vitatrack/internal/session"
	"github.com/vitatrack/vitatrack/internal/store"
	"github.com/vitatrack/vitatrack/internal/utils"
)

type Context struct {
	Config  config.Config
	Client  *remote.Client
	Session *session.Gate
	// Store is created by Open and Attach.
	Store *store.Store
	Out   io.Writer
}

func NewContext(cfg config.Config, client *remote.Client) *Context {
	return &Context{
		Config:  cfg,
		Client:  client,
		Session: session.NewGate(),
		Out:     os.Stdout,
	}
}

// Attach creates the record store with date selected and registers it with
// the session gate. Later calls return the existing store.
func (c *Context) Attach(date time.Time) *store.Store {
	if c.Store == nil {
		c.Store = store.New(c.Client, store.WithDate(date))
		c.Session.Subscribe(c.Store)
	}
	return c.Store
}

// Open resumes the persisted session and loads the records of date.
func (c *Context) Open(ctx context.Context, date time.Time) (models.User, error) {
	c.Attach(date)
	return c.Session.Resume(ctx)
}

// Writer returns the command output, stdout unless Out is set.
func (c *Context) Writer() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Writer(), format, args...)
}

// ParseDay parses a --date flag value. Besides YYYY-MM-DD it accepts
// today, yesterday and tomorrow.
func ParseDay(s string, now time.Time) (time.Time, error) {
	today := utils.StartOfDay(now)
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return today, nil
	case "yesterday":
		return utils.AddDays(today, -1), nil
	case "tomorrow":
		return utils.AddDays(today, 1), nil
	}
	return utils.ParseDateInLocation(strings.TrimSpace(s), now.Location())
}

// FindByServerID returns the record with the given food id.
func FindByServerID(records []models.Record, id int64) (models.Record, bool) {
	for _, r := range records {
		if r.ServerID != nil && *r.ServerID == id {
			return r, true
		}
	}
	return models.Record{}, false
}

// PrintDay writes the day header, meal counts and records of snap.
func PrintDay(w io.Writer, snap store.Snapshot, now time.Time) {
	date := snap.SelectedDate
	label := utils.DateLabel(date, now)
	if label != date.Format(constants.DisplayDateFormat) {
		label = fmt.Sprintf("%s (%s)", label, utils.FormatDate(date))
	}
	fmt.Fprintf(w, "%s: %d record(s), %d kcal\n", label, len(snap.Records), TotalCalories(snap.Records))

	counts := make([]string, 0, len(models.MealTypes))
	for _, mt := range models.MealTypes {
		counts = append(counts, fmt.Sprintf("%s %d", mt, snap.MealCounts[mt]))
	}
	fmt.Fprintf(w, "Meals: %s\n", strings.Join(counts, " | "))

	if len(snap.Records) == 0 {
		fmt.Fprintln(w, "No food records")
		return
	}

	records := append([]models.Record(nil), snap.Records...)
	sort.SliceStable(records, func(i, j int) bool {
		return mealOrder(records[i].MealType) < mealOrder(records[j].MealType)
	})
	for _, r := range records {
		fmt.Fprintf(w, "  %s\n", FormatRecord(r, snap.Status[r.LocalID]))
	}
}

// FormatRecord renders one record on a single line.
func FormatRecord(r models.Record, status store.SyncStatus) string {
	id := "#-"
	if r.ServerID != nil {
		id = fmt.Sprintf("#%d", *r.ServerID)
	}
	meal := "unassigned"
	if r.MealType != nil {
		meal = string(*r.MealType)
	}
	line := fmt.Sprintf("%-5s [%s] %s - %d kcal", id, meal, r.Name, r.Calories)
	if r.Amount != nil {
		line += fmt.Sprintf(" (%g %s)", *r.Amount, r.Unit)
	}
	if r.ImageURL != "" {
		line += " [photo]"
	}
	if status != "" && status != store.StatusSynced {
		line += fmt.Sprintf(" (%s)", status)
	}
	return line
}

func TotalCalories(records []models.Record) int {
	total := 0
	for _, r := range records {
		total += r.Calories
	}
	return total
}

func mealOrder(mt *models.MealType) int {
	if mt == nil {
		return len(models.MealTypes)
	}
	for i, m := range models.MealTypes {
		if m == *mt {
			return i
		}
	}
	return len(models.MealTypes)
}
