package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/vitatrack/vitatrack/internal/models"
	"github.com/vitatrack/vitatrack/internal/progress"
	"github.com/vitatrack/vitatrack/internal/store"
	"github.com/vitatrack/vitatrack/internal/tui/components/records"
)

type SessionState int

const (
	StateRecords SessionState = iota
	StateAdd
	StateConfirmDelete
)

// Session starts the persisted user session on the store.
type Session interface {
	Resume(ctx context.Context) (models.User, error)
}

// NutritionSource provides the data for the progress line.
type NutritionSource interface {
	DailyIntake(ctx context.Context, userID int64, date time.Time) (models.NutrientTotals, error)
	GoalSettings(ctx context.Context, userID int64) (models.NutrientTotals, error)
}

type snapshotMsg store.Snapshot

type opResultMsg struct {
	action string
	err    error
}

type progressMsg struct {
	date  time.Time
	ratio float64
	err   error
}

type Model struct {
	store     *store.Store
	session   Session
	nutrition NutritionSource

	snapshots <-chan store.Snapshot
	cancel    func()
	snap      store.Snapshot

	state      SessionState
	keys       KeyMap
	help       help.Model
	recordList records.Model
	form       *huh.Form
	addForm    *AddFormModel
	toDelete   *models.Record

	progress *float64
	status   string
	err      error
	busy     int
	quitting bool
	width    int
	height   int
	now      func() time.Time
}

func NewModel(st *store.Store, session Session, nutrition NutritionSource) Model {
	ch, cancel := st.Subscribe()
	return Model{
		store:      st,
		session:    session,
		nutrition:  nutrition,
		snapshots:  ch,
		cancel:     cancel,
		snap:       st.Snapshot(),
		state:      StateRecords,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		recordList: records.New(80, 10),
		now:        time.Now,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForSnapshot(m.snapshots), m.resume())
}

func (m Model) ShortHelp() []key.Binding {
	return m.keys.ShortHelp()
}

func (m Model) FullHelp() [][]key.Binding {
	return m.keys.FullHelp()
}

// waitForSnapshot delivers the next store snapshot as a message.
func waitForSnapshot(ch <-chan store.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return nil
		}
		return snapshotMsg(snap)
	}
}

func (m Model) resume() tea.Cmd {
	return func() tea.Msg {
		_, err := m.session.Resume(context.Background())
		return opResultMsg{action: "load", err: err}
	}
}

func (m Model) run(action string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return opResultMsg{action: action, err: fn(context.Background())}
	}
}

func (m Model) fetchProgress() tea.Cmd {
	user := m.snap.User
	date := m.snap.SelectedDate
	if user == nil || m.nutrition == nil {
		return nil
	}
	return func() tea.Msg {
		ctx := context.Background()
		intake, err := m.nutrition.DailyIntake(ctx, user.ID, date)
		if err != nil {
			return progressMsg{date: date, err: err}
		}
		goals, err := m.nutrition.GoalSettings(ctx, user.ID)
		if err != nil {
			return progressMsg{date: date, err: err}
		}
		return progressMsg{date: date, ratio: progress.Calculate(intake, goals)}
	}
}
