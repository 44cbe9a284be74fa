package rooms

import (
	"fmt"

	"github.com/codemon-ai/make-meeting-room/internal/cli"
	"github.com/codemon-ai/make-meeting-room/internal/display"
)

// HistoryCmd shows recorded booking attempts.
type HistoryCmd struct {
	From  string `help:"First date to include (YYYY-MM-DD, today, ...)."`
	To    string `help:"Last date to include."`
	Limit int    `help:"Maximum number of records." default:"20"`
}

func (c *HistoryCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}

	var from, to string
	if c.From != "" {
		if from, err = ctx.ParseDate(settings, c.From); err != nil {
			return err
		}
	}
	if c.To != "" {
		if to, err = ctx.ParseDate(settings, c.To); err != nil {
			return err
		}
	}

	bookings, err := ctx.Store.GetBookings(from, to, c.Limit)
	if err != nil {
		return fmt.Errorf("failed to get booking history: %w", err)
	}
	fmt.Fprint(ctx.Writer(), display.History(bookings))
	return nil
}
