package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/codemon-ai/make-meeting-room/internal/constants"
	"github.com/codemon-ai/make-meeting-room/internal/models"
	"github.com/codemon-ai/make-meeting-room/internal/utils"
)

// ConflictType represents the type of validation problem
type ConflictType string

const (
	ConflictInvalidDate     ConflictType = "invalid_date"
	ConflictInvalidTime     ConflictType = "invalid_time"
	ConflictDuration        ConflictType = "invalid_duration"
	ConflictMissingRoom     ConflictType = "missing_room"
	ConflictTitleTooLong    ConflictType = "title_too_long"
	ConflictPastBooking     ConflictType = "past_booking"
	ConflictInvalidWindow   ConflictType = "invalid_window"
	ConflictInvalidSlot     ConflictType = "invalid_slot_interval"
	ConflictInvalidTimezone ConflictType = "invalid_timezone"
)

// MaxTitleLength bounds a reservation title
const MaxTitleLength = 100

// Conflict represents one detected problem
type Conflict struct {
	Type        ConflictType
	Description string
	Field       string
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// Has reports whether a conflict of type t was detected
func (vr *ValidationResult) Has(t ConflictType) bool {
	for _, c := range vr.Conflicts {
		if c.Type == t {
			return true
		}
	}
	return false
}

// Err returns the conflicts as a single error, or nil
func (vr *ValidationResult) Err() error {
	if !vr.HasConflicts() {
		return nil
	}
	msgs := make([]string, 0, len(vr.Conflicts))
	for _, c := range vr.Conflicts {
		msgs = append(msgs, c.Description)
	}
	return fmt.Errorf("invalid request: %s", strings.Join(msgs, "; "))
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No problems detected."
	}

	report := "Problems detected:\n"
	for _, conflict := range vr.Conflicts {
		report += fmt.Sprintf("- %s\n", conflict.Description)
	}
	return report
}

func (vr *ValidationResult) add(t ConflictType, field, format string, args ...any) {
	vr.Conflicts = append(vr.Conflicts, Conflict{
		Type:        t,
		Field:       field,
		Description: fmt.Sprintf(format, args...),
	})
}

// BookingRequest is a reservation request before it reaches the portal
type BookingRequest struct {
	Room     string
	Date     string
	Interval models.Interval
	Title    string
}

// Validator validates booking requests and settings
type Validator struct {
	// Now returns the current time; nil skips the past-booking check.
	Now func() time.Time
	// Location is the zone booking dates and times are given in. Nil uses
	// the zone of Now.
	Location *time.Location
}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateBooking checks a booking request. Durations run from 30 minutes to
// 8 hours in 30-minute steps.
func (v *Validator) ValidateBooking(req BookingRequest) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	if strings.TrimSpace(req.Room) == "" {
		result.add(ConflictMissingRoom, "room", "room is required")
	}

	date, dateErr := time.Parse(constants.DateFormat, req.Date)
	if dateErr != nil {
		result.add(ConflictInvalidDate, "date", "date %q is not YYYY-MM-DD", req.Date)
	}

	if !req.Interval.Valid() {
		result.add(ConflictInvalidTime, "time", "time range %s is not a valid same-day range", req.Interval)
	} else {
		d := req.Interval.Duration()
		switch {
		case d < constants.MinBookingMin:
			result.add(ConflictDuration, "time", "duration %s is shorter than %s", utils.FormatDuration(d), utils.FormatDuration(constants.MinBookingMin))
		case d > constants.MaxBookingMin:
			result.add(ConflictDuration, "time", "duration %s is longer than %s", utils.FormatDuration(d), utils.FormatDuration(constants.MaxBookingMin))
		case d%constants.BookingStepMin != 0:
			result.add(ConflictDuration, "time", "duration %s is not a multiple of %d minutes", utils.FormatDuration(d), constants.BookingStepMin)
		}
	}

	if n := len([]rune(req.Title)); n > MaxTitleLength {
		result.add(ConflictTitleTooLong, "title", "title is %d characters, limit is %d", n, MaxTitleLength)
	}

	if v.Now != nil && dateErr == nil && req.Interval.Valid() {
		now := v.Now()
		loc := v.Location
		if loc == nil {
			loc = now.Location()
		}
		start := time.Date(date.Year(), date.Month(), date.Day(), 0, int(req.Interval.Start), 0, 0, loc)
		if start.Before(now) {
			result.add(ConflictPastBooking, "time", "%s %s has already started", req.Date, req.Interval.Start)
		}
	}

	return result
}

// ValidateSettings checks persisted settings for consistency
func (v *Validator) ValidateSettings(s models.Settings) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	start, errStart := models.ParseClock(s.WorkStart)
	if errStart != nil {
		result.add(ConflictInvalidTime, constants.SettingWorkStart, "work start %q is not HH:MM", s.WorkStart)
	}
	end, errEnd := models.ParseClock(s.WorkEnd)
	if errEnd != nil {
		result.add(ConflictInvalidTime, constants.SettingWorkEnd, "work end %q is not HH:MM", s.WorkEnd)
	}
	if errStart == nil && errEnd == nil && start >= end {
		result.add(ConflictInvalidWindow, constants.SettingWorkEnd, "work end %s must be after work start %s", end, start)
	}

	if s.SlotIntervalMin <= 0 || s.SlotIntervalMin > 120 || constants.MinutesPerDay%s.SlotIntervalMin != 0 {
		result.add(ConflictInvalidSlot, constants.SettingSlotIntervalMin, "slot interval %d must divide a day and be at most 120 minutes", s.SlotIntervalMin)
	}

	if !utils.ValidateTimezone(s.Timezone) {
		result.add(ConflictInvalidTimezone, constants.SettingTimezone, "unknown timezone %q", s.Timezone)
	}

	return result
}

// Window returns the working-hours window of valid settings.
func Window(s models.Settings) (models.Interval, error) {
	v := New()
	if r := v.ValidateSettings(s); r.Has(ConflictInvalidTime) || r.Has(ConflictInvalidWindow) {
		return models.Interval{}, r.Err()
	}
	return models.NewInterval(s.WorkStart, s.WorkEnd)
}
