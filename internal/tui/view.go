package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	apperrors "github.com/vitatrack/vitatrack/internal/errors"
	"github.com/vitatrack/vitatrack/internal/models"
	"github.com/vitatrack/vitatrack/internal/progress"
	"github.com/vitatrack/vitatrack/internal/utils"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateAdd:
		content = m.form.View()
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	default:
		content = m.recordList.View()
	}

	return docStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewHeader(),
		m.viewProgress(),
		"",
		content,
		"",
		m.viewStatus(),
		m.help.View(m),
	))
}

func (m Model) viewHeader() string {
	title := titleStyle.Render(fmt.Sprintf("VitaTrack · %s", utils.DateLabel(m.snap.SelectedDate, m.now())))

	counts := make([]string, 0, len(models.MealTypes))
	for _, mt := range models.MealTypes {
		counts = append(counts, fmt.Sprintf("%s %d", mt, m.snap.MealCounts[mt]))
	}

	user := "not logged in"
	if m.snap.User != nil {
		user = m.snap.User.Username
		if user == "" {
			user = fmt.Sprintf("user %d", m.snap.User.ID)
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		title,
		countStyle.Render(strings.Join(counts, " · ")),
		countStyle.Render(user),
	)
}

func (m Model) viewProgress() string {
	if m.progress == nil {
		return countStyle.Render("Progress: -")
	}
	return countStyle.Render(fmt.Sprintf("Progress: %d%% · %s", progress.Percent(*m.progress), progress.Message(*m.progress)))
}

func (m Model) viewStatus() string {
	switch {
	case m.err != nil:
		return dangerStyle.Render(apperrors.Describe(m.err))
	case m.busy > 0:
		return warningStyle.Render("Syncing...")
	case m.status != "":
		return successStyle.Render(m.status)
	}
	if n := m.store.Stats().Failures(); n > 0 {
		return warningStyle.Render(fmt.Sprintf("%d sync failure(s) this session", n))
	}
	return ""
}

func (m Model) viewConfirmDelete() string {
	if m.toDelete == nil {
		return ""
	}
	return warningStyle.Render(fmt.Sprintf("Delete %q (%d kcal)? (y/n)", m.toDelete.Name, m.toDelete.Calories))
}
