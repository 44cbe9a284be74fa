package rooms

import (
	"context"
	"fmt"

	"github.com/codemon-ai/make-meeting-room/internal/cli"
	"github.com/codemon-ai/make-meeting-room/internal/display"
	"github.com/codemon-ai/make-meeting-room/internal/utils"
)

// CheckCmd shows room availability for a day, or checks one time range
// against every room.
type CheckCmd struct {
	Date string `arg:"" optional:"" help:"Date to check (today, tomorrow, YYYY-MM-DD, YYMMDD). Omit for interactive mode."`
	Time string `short:"t" help:"Only check this range (HH:MM-HH:MM)."`
}

func (c *CheckCmd) Run(ctx *cli.Context) error {
	if c.Date == "" && c.Time == "" && ctx.Interactive {
		return (&InteractiveCmd{}).Run(ctx)
	}

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc, settings, err := ctx.Service(appCtx)
	if err != nil {
		return err
	}
	defer ctx.Close()

	date, err := ctx.ParseDate(settings, c.Date)
	if err != nil {
		return err
	}
	today := ctx.Today(settings)

	if c.Time != "" {
		iv, err := utils.ParseTimeRange(c.Time)
		if err != nil {
			return err
		}
		decisions, err := svc.CheckAll(appCtx, date, iv)
		if err != nil {
			return err
		}
		fmt.Fprint(ctx.Writer(), display.Decisions(date, today, iv, decisions))
		return nil
	}

	all, err := svc.Availability(appCtx, date)
	if err != nil {
		return err
	}
	fmt.Fprint(ctx.Writer(), display.Availability(date, today, all, svc.Window()))
	return nil
}
