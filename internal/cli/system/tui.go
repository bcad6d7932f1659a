package system

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vitatrack/vitatrack/internal/cli"
	"github.com/vitatrack/vitatrack/internal/tui"
	"github.com/vitatrack/vitatrack/internal/utils"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.Session.Current(); err != nil {
		return err
	}

	st := ctx.Attach(utils.StartOfDay(time.Now()))
	p := tea.NewProgram(tui.NewModel(st, ctx.Session, ctx.Client), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("alas, there's been an error: %w", err)
	}
	return nil
}

