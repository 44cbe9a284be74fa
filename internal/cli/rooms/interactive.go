package rooms

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/codemon-ai/make-meeting-room/internal/availability"
	"github.com/codemon-ai/make-meeting-room/internal/booking"
	"github.com/codemon-ai/make-meeting-room/internal/cli"
	"github.com/codemon-ai/make-meeting-room/internal/constants"
	"github.com/codemon-ai/make-meeting-room/internal/display"
	"github.com/codemon-ai/make-meeting-room/internal/models"
	"github.com/codemon-ai/make-meeting-room/internal/utils"
)

const interactiveDays = 7

var errNoFreeRoom = errors.New("no room has a free slot on this date")

// InteractiveCmd walks through date, room and time selection and books the
// result.
type InteractiveCmd struct{}

func (c *InteractiveCmd) Run(ctx *cli.Context) error {
	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc, settings, err := ctx.Service(appCtx)
	if err != nil {
		return err
	}
	defer ctx.Close()

	today := ctx.Today(settings)
	slot := settings.SlotIntervalMin
	if slot <= 0 {
		slot = constants.DefaultSlotIntervalMin
	}

	var date string
	err = runForm(huh.NewSelect[string]().
		Title("날짜").
		Options(dateOptions(today, interactiveDays)...).
		Value(&date))
	if err != nil {
		return err
	}

	all, err := svc.Availability(appCtx, date)
	if err != nil {
		return err
	}
	fmt.Fprint(ctx.Writer(), display.Availability(date, today, all, svc.Window()))

	rooms := roomOptions(all, slot)
	if len(rooms) == 0 {
		return errNoFreeRoom
	}

	var room string
	if err := runForm(huh.NewSelect[string]().Title("회의실").Options(rooms...).Value(&room)); err != nil {
		return err
	}
	gaps := gapsFor(all, room)

	var start models.Clock
	if err := runForm(huh.NewSelect[models.Clock]().Title("시작 시간").Options(startOptions(gaps, slot)...).Value(&start)); err != nil {
		return err
	}

	var (
		end       models.Clock
		title     = "회의"
		confirmed = true
	)
	err = runForm(
		huh.NewSelect[models.Clock]().
			Title("종료 시간").
			Options(endOptions(start, gaps)...).
			Value(&end),
		huh.NewInput().
			Title("회의 제목").
			Value(&title).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("제목을 입력하세요")
				}
				return nil
			}),
		huh.NewConfirm().
			Title("예약할까요?").
			Value(&confirmed),
	)
	if err != nil {
		return err
	}
	if !confirmed {
		ctx.Printf("예약을 취소했습니다.\n")
		return nil
	}

	return book(appCtx, ctx, svc, booking.BookRequest{
		Room:      room,
		Date:      date,
		Interval:  models.Interval{Start: start, End: end},
		Title:     strings.TrimSpace(title),
		Requester: ctx.UserID(settings),
		Organizer: organizer(ctx, ""),
		Source:    constants.BookingSourceCLI,
	})
}

func runForm(fields ...huh.Field) error {
	return huh.NewForm(huh.NewGroup(fields...)).WithTheme(huh.ThemeDracula()).Run()
}

func dateOptions(today string, days int) []huh.Option[string] {
	t, err := time.Parse(constants.DateFormat, today)
	if err != nil {
		return nil
	}
	opts := make([]huh.Option[string], 0, days)
	for i := 0; i < days; i++ {
		d := t.AddDate(0, 0, i).Format(constants.DateFormat)
		opts = append(opts, huh.NewOption(utils.FormatDateDisplay(d, today), d))
	}
	return opts
}

// roomOptions lists rooms that can take at least one booking.
func roomOptions(all []models.RoomAvailability, slot int) []huh.Option[string] {
	var opts []huh.Option[string]
	for _, ra := range all {
		starts := bookableStarts(ra.Gaps, slot)
		if len(starts) == 0 {
			continue
		}
		label := fmt.Sprintf("%s · 시작 가능 %d개", ra.Room.Label(), len(starts))
		opts = append(opts, huh.NewOption(label, ra.Room.Name))
	}
	return opts
}

func gapsFor(all []models.RoomAvailability, room string) []models.Interval {
	for _, ra := range all {
		if ra.Room.Name == room {
			return ra.Gaps
		}
	}
	return nil
}

// bookableStarts lists slot-aligned starts with room for the shortest booking.
func bookableStarts(gaps []models.Interval, slot int) []models.Clock {
	var out []models.Clock
	for _, c := range availability.StartChoices(gaps, slot) {
		if len(availability.EndChoices(c, gaps, constants.MinBookingMin)) > 0 {
			out = append(out, c)
		}
	}
	return out
}

func startOptions(gaps []models.Interval, slot int) []huh.Option[models.Clock] {
	starts := bookableStarts(gaps, slot)
	opts := make([]huh.Option[models.Clock], 0, len(starts))
	for _, c := range starts {
		opts = append(opts, huh.NewOption(c.String(), c))
	}
	return opts
}

// endOptions lists end times within the start's gap in booking steps, capped
// at the longest allowed booking.
func endOptions(start models.Clock, gaps []models.Interval) []huh.Option[models.Clock] {
	var opts []huh.Option[models.Clock]
	for _, c := range availability.EndChoices(start, gaps, constants.BookingStepMin) {
		d := int(c - start)
		if d > constants.MaxBookingMin {
			break
		}
		opts = append(opts, huh.NewOption(fmt.Sprintf("%s (%s)", c, utils.FormatDuration(d)), c))
	}
	return opts
}
