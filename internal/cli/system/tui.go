package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/pomohabit/internal/cli"
	"github.com/julianstephens/pomohabit/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	m, err := ctx.Tracker()
	if err != nil {
		return err
	}

	ctx.PerformAutomaticBackup("tui")

	p := tea.NewProgram(tui.NewModel(m, ctx.NewTimer, ctx.Notifier()), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
