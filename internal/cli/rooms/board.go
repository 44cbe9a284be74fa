package rooms

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/codemon-ai/make-meeting-room/internal/cli"
	"github.com/codemon-ai/make-meeting-room/internal/tui"
)

// BoardCmd opens the interactive availability board.
type BoardCmd struct {
	Date string `arg:"" optional:"" help:"Date to open on. Defaults to today."`
}

func (c *BoardCmd) Run(ctx *cli.Context) error {
	svc, settings, err := ctx.Service(context.Background())
	if err != nil {
		return err
	}
	defer ctx.Close()

	date, err := ctx.ParseDate(settings, c.Date)
	if err != nil {
		return err
	}

	p := tea.NewProgram(tui.NewModel(svc, date, ctx.Today(settings)), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("board failed: %w", err)
	}
	return nil
}
