package rooms

import (
	"context"

	"github.com/codemon-ai/make-meeting-room/internal/booking"
	"github.com/codemon-ai/make-meeting-room/internal/cli"
	"github.com/codemon-ai/make-meeting-room/internal/utils"
)

// ScheduleCmd puts a meeting on the calendar without reserving a room.
type ScheduleCmd struct {
	Date        string   `arg:"" help:"Date (today, tomorrow, YYYY-MM-DD, YYMMDD)."`
	Time        string   `arg:"" help:"Time range (HH:MM-HH:MM)."`
	Title       string   `required:"" help:"Meeting title."`
	Description string   `help:"Event description."`
	Attendees   []string `name:"attendee" help:"Attendee e-mail. Repeatable."`
	Organizer   string   `help:"Calendar owner e-mail. Defaults to GOOGLE_CALENDAR_USER." env:"MR_ORGANIZER"`
}

func (c *ScheduleCmd) Run(ctx *cli.Context) error {
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
	iv, err := utils.ParseTimeRange(c.Time)
	if err != nil {
		return err
	}

	ev, err := svc.Schedule(appCtx, booking.ScheduleRequest{
		Date:        date,
		Interval:    iv,
		Title:       c.Title,
		Description: c.Description,
		Organizer:   organizer(ctx, c.Organizer),
		Attendees:   c.Attendees,
	})
	if err != nil {
		return err
	}

	ctx.Printf("✓ 일정 등록 완료: %s %s %s\n", date, iv, c.Title)
	if ev.Link != "" {
		ctx.Printf("  %s\n", ev.Link)
	}
	return nil
}
