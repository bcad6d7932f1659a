package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/vitatrack/vitatrack/internal/logger"
	"github.com/vitatrack/vitatrack/internal/store"
	"github.com/vitatrack/vitatrack/internal/utils"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.recordList.SetSize(msg.Width-4, max(msg.Height-10, 3))
		return m, nil

	case snapshotMsg:
		prev := m.snap.SelectedDate
		m.snap = store.Snapshot(msg)
		m.recordList.SetRecords(m.snap.Records, m.snap.Status)
		if !utils.SameDay(prev, m.snap.SelectedDate) {
			m.progress = nil
		}
		return m, waitForSnapshot(m.snapshots)

	case opResultMsg:
		if m.busy > 0 {
			m.busy--
		}
		if msg.err != nil {
			if errors.Is(msg.err, store.ErrStale) {
				return m, nil
			}
			m.err = msg.err
			m.status = ""
			return m, nil
		}
		m.err = nil
		switch msg.action {
		case "load":
			m.status = ""
			return m, m.fetchProgress()
		case "add":
			m.status = "Saved"
			return m, m.fetchProgress()
		case "delete":
			m.status = "Deleted"
			return m, m.fetchProgress()
		}
		return m, nil

	case progressMsg:
		if msg.err != nil {
			logger.Debug("Progress unavailable", "error", msg.err)
			m.progress = nil
			return m, nil
		}
		if utils.SameDay(m.snap.SelectedDate, msg.date) {
			ratio := msg.ratio
			m.progress = &ratio
		}
		return m, nil
	}

	switch m.state {
	case StateAdd:
		return m.updateAdd(msg)
	case StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			m.cancel()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.PrevDay):
			m.busy++
			return m, m.run("load", m.store.PreviousDay)
		case key.Matches(msg, m.keys.NextDay):
			m.busy++
			return m, m.run("load", m.store.NextDay)
		case key.Matches(msg, m.keys.Today):
			return m.load(utils.StartOfDay(m.now()))
		case key.Matches(msg, m.keys.Reload):
			return m.load(m.snap.SelectedDate)
		case key.Matches(msg, m.keys.Progress):
			return m, m.fetchProgress()
		case key.Matches(msg, m.keys.Add):
			m.addForm = defaultAddForm()
			m.form = newAddForm(m.addForm)
			m.state = StateAdd
			m.status = ""
			return m, m.form.Init()
		case key.Matches(msg, m.keys.Delete):
			if rec, ok := m.recordList.Selected(); ok {
				m.toDelete = &rec
				m.state = StateConfirmDelete
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.recordList, cmd = m.recordList.Update(msg)
	return m, cmd
}

func (m Model) load(date time.Time) (tea.Model, tea.Cmd) {
	m.busy++
	return m, m.run("load", func(ctx context.Context) error {
		return m.store.Load(ctx, date)
	})
}

func (m Model) updateAdd(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = StateRecords
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		rec := m.addForm.Record(m.snap.SelectedDate)
		m.state = StateRecords
		m.busy++
		return m, m.run("add", func(ctx context.Context) error {
			_, err := m.store.Add(ctx, rec)
			return err
		})
	case huh.StateAborted:
		m.state = StateRecords
		return m, nil
	}
	return m, cmd
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.toDelete == nil {
		return m, nil
	}

	switch keyMsg.String() {
	case "y", "Y":
		rec := *m.toDelete
		m.toDelete = nil
		m.state = StateRecords
		m.busy++
		return m, m.run("delete", func(ctx context.Context) error {
			return m.store.Delete(ctx, rec)
		})
	case "n", "N", "esc":
		m.toDelete = nil
		m.state = StateRecords
	}
	return m, nil
}
