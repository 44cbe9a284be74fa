package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/codemon-ai/make-meeting-room/internal/availability"
	"github.com/codemon-ai/make-meeting-room/internal/calendar"
	"github.com/codemon-ai/make-meeting-room/internal/constants"
	"github.com/codemon-ai/make-meeting-room/internal/logger"
	"github.com/codemon-ai/make-meeting-room/internal/models"
	"github.com/codemon-ai/make-meeting-room/internal/validation"
)

// BookRequest is a reservation request from the CLI or the bot.
type BookRequest struct {
	Room        string
	Date        string
	Interval    models.Interval
	Title       string
	Description string
	// Requester is the display name kept in history.
	Requester string
	// Organizer is the calendar owner's e-mail. Empty skips the calendar.
	Organizer string
	Attendees []string
	Source    constants.BookingSource
}

// BookResult describes a successful reservation.
type BookResult struct {
	Booking models.Booking
	Room    models.Room
	// Event is set when a calendar event was created.
	Event *calendar.EventResult
	// CalendarErr is set when the reservation succeeded but the calendar
	// event could not be created.
	CalendarErr error
}

// Book checks the proposal against fresh portal data and submits it. The
// local check only filters out known conflicts; the portal has the final
// say and a refusal there surfaces as ErrRejected. Every attempt that gets
// past input validation is recorded in history.
func (s *Service) Book(ctx context.Context, req BookRequest) (BookResult, error) {
	room, err := s.rooms.Resolve(req.Room)
	if err != nil {
		return BookResult{}, err
	}

	vr := s.validator.ValidateBooking(validation.BookingRequest{
		Room:     room.Name,
		Date:     req.Date,
		Interval: req.Interval,
		Title:    req.Title,
	})
	if err := vr.Err(); err != nil {
		return BookResult{}, err
	}

	rec := models.Booking{
		ID:        uuid.New().String(),
		Room:      room.Name,
		Date:      req.Date,
		Start:     req.Interval.Start.String(),
		End:       req.Interval.End.String(),
		Title:     req.Title,
		Requester: req.Requester,
		Source:    req.Source,
	}
	if rec.Source == "" {
		rec.Source = constants.BookingSourceCLI
	}

	res, err := s.reservations(ctx, req.Date)
	if err != nil {
		s.record(rec, constants.BookingStatusFailed, err.Error())
		return BookResult{}, err
	}
	ra := availability.BuildRoomAvailability([]models.Room{room}, req.Date, res, s.window)[0]

	decision, err := availability.CheckRoom(req.Interval, ra, s.window)
	if err != nil {
		return BookResult{}, err
	}
	if !decision.Available {
		cerr := &ConflictError{
			Room:        room.Name,
			Date:        req.Date,
			Interval:    req.Interval,
			Branch:      decision.Branch,
			Reservation: decision.Conflict,
		}
		s.record(rec, constants.BookingStatusConflict, cerr.Error())
		return BookResult{}, cerr
	}

	log := logger.ForBooking(room.Name, req.Date)
	var result models.SubmitResult
	err = s.withSession(ctx, func() error {
		var err error
		result, err = s.portal.Submit(ctx, models.SubmitRequest{
			Room:        room,
			Date:        req.Date,
			Interval:    req.Interval,
			Title:       req.Title,
			Description: req.Description,
		})
		return err
	})
	if err != nil {
		s.record(rec, constants.BookingStatusFailed, err.Error())
		return BookResult{}, fmt.Errorf("failed to submit reservation: %w", err)
	}
	if !result.Accepted {
		s.record(rec, constants.BookingStatusRejected, result.Message)
		log.Info("reservation rejected by portal", "time", req.Interval, "message", result.Message)
		return BookResult{}, fmt.Errorf("%w: %s", ErrRejected, result.Message)
	}
	log.Info("reservation submitted", "time", req.Interval)

	out := BookResult{Room: room}
	if req.Organizer != "" && s.CalendarEnabled() {
		ev, err := s.calendar.CreateEvent(ctx, req.Organizer, calendar.EventInput{
			Title:       fmt.Sprintf("[%s] %s", room.Name, req.Title),
			Description: fmt.Sprintf("회의실: %s\n그룹웨어 예약 완료", room.Label()),
			Location:    room.Label(),
			Date:        req.Date,
			Interval:    req.Interval,
			Attendees:   req.Attendees,
		})
		if err != nil {
			log.Warn("calendar event for reservation failed", "error", err)
			out.CalendarErr = err
		} else {
			out.Event = &ev
			rec.EventLink = ev.Link
		}
	}

	out.Booking = s.record(rec, constants.BookingStatusBooked, result.Message)
	return out, nil
}

// ScheduleRequest is a calendar-only meeting without a room.
type ScheduleRequest struct {
	Date        string
	Interval    models.Interval
	Title       string
	Description string
	Organizer   string
	Attendees   []string
}

// Schedule creates a calendar event without reserving a room.
func (s *Service) Schedule(ctx context.Context, req ScheduleRequest) (calendar.EventResult, error) {
	if !s.CalendarEnabled() {
		return calendar.EventResult{}, calendar.ErrDisabled
	}
	if req.Organizer == "" {
		return calendar.EventResult{}, errors.New("organizer e-mail is required")
	}
	return s.calendar.CreateEvent(ctx, req.Organizer, calendar.EventInput{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Interval:    req.Interval,
		Attendees:   req.Attendees,
	})
}

func (s *Service) record(b models.Booking, status constants.BookingStatus, message string) models.Booking {
	b.Status = status
	b.Message = message
	b.CreatedAt = s.now().UTC().Format(time.RFC3339)
	if s.recorder == nil {
		return b
	}
	if err := s.recorder.AddBooking(b); err != nil {
		logger.Warn("failed to record booking history", "id", b.ID, "status", status, "error", err)
	}
	return b
}
