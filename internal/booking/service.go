// Package booking orchestrates availability queries and reservations. Every
// query fetches fresh reservation data from the portal; nothing is cached
// between calls.
package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/codemon-ai/make-meeting-room/internal/availability"
	"github.com/codemon-ai/make-meeting-room/internal/calendar"
	"github.com/codemon-ai/make-meeting-room/internal/constants"
	"github.com/codemon-ai/make-meeting-room/internal/groupware"
	"github.com/codemon-ai/make-meeting-room/internal/logger"
	"github.com/codemon-ai/make-meeting-room/internal/models"
	"github.com/codemon-ai/make-meeting-room/internal/registry"
	"github.com/codemon-ai/make-meeting-room/internal/validation"
)

var (
	// ErrConflict matches every *ConflictError.
	ErrConflict = errors.New("room is not available")
	// ErrRejected is returned when the portal refuses a reservation that
	// passed the local check, e.g. because someone booked it in between.
	ErrRejected = errors.New("portal rejected the reservation")
)

// ConflictError reports a proposal that failed the local conflict check.
type ConflictError struct {
	Room     string
	Date     string
	Interval models.Interval
	Branch   availability.Branch
	// Reservation is the earliest overlapping reservation, if any.
	Reservation *models.Reservation
}

func (e *ConflictError) Error() string {
	if e.Reservation != nil {
		return fmt.Sprintf("%s is not available %s %s: reserved %s by %s",
			e.Room, e.Date, e.Interval, e.Reservation.Interval(), e.Reservation.Reserver)
	}
	return fmt.Sprintf("%s is not available %s %s", e.Room, e.Date, e.Interval)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// Portal is the part of the groupware session the service needs.
type Portal interface {
	EnsureAuthenticated(ctx context.Context) error
	FetchReservations(ctx context.Context, date string) ([]models.RawReservation, error)
	Submit(ctx context.Context, req models.SubmitRequest) (models.SubmitResult, error)
}

// Recorder stores booking history.
type Recorder interface {
	AddBooking(models.Booking) error
}

// Calendar creates calendar events.
type Calendar interface {
	Enabled() bool
	CreateEvent(ctx context.Context, organizer string, in calendar.EventInput) (calendar.EventResult, error)
}

// Config wires a Service. Recorder and Calendar are optional.
type Config struct {
	Portal   Portal
	Rooms    *registry.Registry
	Recorder Recorder
	Calendar Calendar
	Window   models.Interval
	// Now is used for history timestamps and the past-booking check.
	Now func() time.Time
	// Location is the zone of booking dates. Nil uses the zone of Now.
	Location *time.Location
}

// Service is safe for concurrent use when its collaborators are.
type Service struct {
	portal    Portal
	rooms     *registry.Registry
	recorder  Recorder
	calendar  Calendar
	window    models.Interval
	now       func() time.Time
	validator *validation.Validator
}

// New creates a Service.
func New(cfg Config) *Service {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	rooms := cfg.Rooms
	if rooms == nil {
		rooms = registry.New(constants.DefaultRooms)
	}
	return &Service{
		portal:    cfg.Portal,
		rooms:     rooms,
		recorder:  cfg.Recorder,
		calendar:  cfg.Calendar,
		window:    cfg.Window,
		now:       now,
		validator: &validation.Validator{Now: now, Location: cfg.Location},
	}
}

// Window returns the working-hours window.
func (s *Service) Window() models.Interval {
	return s.window
}

// Rooms returns the room registry.
func (s *Service) Rooms() *registry.Registry {
	return s.rooms
}

// CalendarEnabled reports whether calendar events can be created.
func (s *Service) CalendarEnabled() bool {
	return s.calendar != nil && s.calendar.Enabled()
}

// Connect logs in and refreshes room ids from the portal when it exposes
// its resource tree.
func (s *Service) Connect(ctx context.Context) (registry.Source, error) {
	if err := s.portal.EnsureAuthenticated(ctx); err != nil {
		return s.rooms.Source(), err
	}
	if tree, ok := s.portal.(registry.TreeSource); ok {
		return s.rooms.Load(ctx, tree), nil
	}
	return s.rooms.Source(), nil
}

// KeepAlive logs in again when the session is no longer authenticated.
func (s *Service) KeepAlive(ctx context.Context) error {
	return s.portal.EnsureAuthenticated(ctx)
}

// withSession runs fn on an authenticated session, logging in again once
// if the portal reports the session expired.
func (s *Service) withSession(ctx context.Context, fn func() error) error {
	if err := s.portal.EnsureAuthenticated(ctx); err != nil {
		return err
	}
	err := fn()
	if errors.Is(err, groupware.ErrSessionExpired) {
		logger.Warn("portal session expired, logging in again")
		if err := s.portal.EnsureAuthenticated(ctx); err != nil {
			return err
		}
		err = fn()
	}
	return err
}

func (s *Service) reservations(ctx context.Context, date string) ([]models.Reservation, error) {
	var raw []models.RawReservation
	err := s.withSession(ctx, func() error {
		var err error
		raw, err = s.portal.FetchReservations(ctx, date)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reservations for %s: %w", date, err)
	}

	res, dropped := availability.NormalizeReport(raw, date, s.rooms.Names(), s.window)
	for _, d := range dropped {
		logger.Debug("reservation record dropped", "date", date, "index", d.Index, "reason", d.Reason)
	}
	return res, nil
}

// Availability returns every room's reservations and free gaps for date.
func (s *Service) Availability(ctx context.Context, date string) ([]models.RoomAvailability, error) {
	res, err := s.reservations(ctx, date)
	if err != nil {
		return nil, err
	}
	return availability.BuildRoomAvailability(s.rooms.Rooms(), date, res, s.window), nil
}

// RoomAvailability returns one room's reservations and gaps for date.
func (s *Service) RoomAvailability(ctx context.Context, room, date string) (models.RoomAvailability, error) {
	r, err := s.rooms.Resolve(room)
	if err != nil {
		return models.RoomAvailability{}, err
	}
	res, err := s.reservations(ctx, date)
	if err != nil {
		return models.RoomAvailability{}, err
	}
	return availability.BuildRoomAvailability([]models.Room{r}, date, res, s.window)[0], nil
}

// Check decides whether room can take interval on date.
func (s *Service) Check(ctx context.Context, room, date string, interval models.Interval) (availability.Decision, error) {
	ra, err := s.RoomAvailability(ctx, room, date)
	if err != nil {
		return availability.Decision{}, err
	}
	return availability.CheckRoom(interval, ra, s.window)
}

// RoomDecision pairs a room with its conflict-check outcome.
type RoomDecision struct {
	Availability models.RoomAvailability
	Decision     availability.Decision
}

// CheckAll runs the conflict check for interval against every room.
func (s *Service) CheckAll(ctx context.Context, date string, interval models.Interval) ([]RoomDecision, error) {
	all, err := s.Availability(ctx, date)
	if err != nil {
		return nil, err
	}
	out := make([]RoomDecision, 0, len(all))
	for _, ra := range all {
		d, err := availability.CheckRoom(interval, ra, s.window)
		if err != nil {
			return nil, err
		}
		out = append(out, RoomDecision{Availability: ra, Decision: d})
	}
	return out, nil
}
