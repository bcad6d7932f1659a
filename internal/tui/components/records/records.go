package records

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vitatrack/vitatrack/internal/models"
	"github.com/vitatrack/vitatrack/internal/store"
)

type Model struct {
	table   table.Model
	records []models.Record
}

func New(width, height int) Model {
	t := table.New(
		table.WithColumns(columns(width)),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return Model{table: t}
}

func columns(width int) []table.Column {
	name := width - 6 - 10 - 8 - 10 - 10 - 12
	if name < 12 {
		name = 12
	}
	return []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Meal", Width: 10},
		{Title: "Name", Width: name},
		{Title: "kcal", Width: 8},
		{Title: "Amount", Width: 10},
		{Title: "Status", Width: 10},
	}
}

// SetRecords replaces the rows, keeping the cursor in range.
func (m *Model) SetRecords(records []models.Record, status map[models.LocalID]store.SyncStatus) {
	m.records = records
	rows := make([]table.Row, len(records))
	for i, r := range records {
		rows[i] = row(r, status[r.LocalID])
	}
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

func row(r models.Record, status store.SyncStatus) table.Row {
	id := "-"
	if r.ServerID != nil {
		id = fmt.Sprintf("%d", *r.ServerID)
	}
	meal := "-"
	if r.MealType != nil {
		meal = string(*r.MealType)
	}
	amount := "-"
	if r.Amount != nil {
		amount = fmt.Sprintf("%g %s", *r.Amount, r.Unit)
	}
	if status == "" {
		status = store.StatusSynced
	}
	name := r.Name
	if r.ImageURL != "" {
		name += " 📷"
	}
	return table.Row{id, meal, name, fmt.Sprintf("%d", r.Calories), amount, string(status)}
}

// Selected returns the record under the cursor.
func (m Model) Selected() (models.Record, bool) {
	c := m.table.Cursor()
	if c < 0 || c >= len(m.records) {
		return models.Record{}, false
	}
	return m.records[c], true
}

func (m *Model) SetSize(width, height int) {
	m.table.SetColumns(columns(width))
	m.table.SetWidth(width)
	m.table.SetHeight(height)
}

func (m Model) Len() int {
	return len(m.records)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.records) == 0 {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Render("No food records for this day. Press 'a' to add one.")
	}
	return m.table.View()
}
