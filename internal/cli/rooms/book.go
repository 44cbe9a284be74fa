package rooms

import (
	"context"
	"fmt"

	"github.com/codemon-ai/make-meeting-room/internal/booking"
	"github.com/codemon-ai/make-meeting-room/internal/cli"
	"github.com/codemon-ai/make-meeting-room/internal/constants"
	"github.com/codemon-ai/make-meeting-room/internal/display"
	"github.com/codemon-ai/make-meeting-room/internal/utils"
)

// BookCmd reserves a room.
type BookCmd struct {
	Room        string   `arg:"" help:"Room name, e.g. R3.1."`
	Date        string   `arg:"" help:"Date (today, tomorrow, YYYY-MM-DD, YYMMDD)."`
	Time        string   `arg:"" help:"Time range (HH:MM-HH:MM)."`
	Title       string   `help:"Meeting title." default:"회의"`
	Description string   `help:"Reservation description."`
	Attendees   []string `name:"attendee" help:"Attendee e-mail for the calendar invite. Repeatable."`
	Organizer   string   `help:"Calendar owner e-mail. Defaults to GOOGLE_CALENDAR_USER." env:"MR_ORGANIZER"`
}

func (c *BookCmd) Run(ctx *cli.Context) error {
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

	return book(appCtx, ctx, svc, booking.BookRequest{
		Room:        c.Room,
		Date:        date,
		Interval:    iv,
		Title:       c.Title,
		Description: c.Description,
		Requester:   ctx.UserID(settings),
		Organizer:   organizer(ctx, c.Organizer),
		Attendees:   c.Attendees,
		Source:      constants.BookingSourceCLI,
	})
}

func book(appCtx context.Context, ctx *cli.Context, svc *booking.Service, req booking.BookRequest) error {
	res, err := svc.Book(appCtx, req)
	if err != nil {
		fmt.Fprint(ctx.Writer(), display.BookError(err))
		return cli.Reported(err)
	}
	fmt.Fprint(ctx.Writer(), display.BookResult(res))
	return nil
}

func organizer(ctx *cli.Context, explicit string) string {
	if explicit != "" {
		return explicit
	}
	return ctx.Google.CalendarUser
}
