package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/codemon-ai/make-meeting-room/internal/models"
)

func interval(t *testing.T, start, end string) models.Interval {
	t.Helper()
	iv, err := models.NewInterval(start, end)
	if err != nil {
		t.Fatalf("NewInterval(%s, %s): %v", start, end, err)
	}
	return iv
}

func TestValidateBooking(t *testing.T) {
	validator := New()

	tests := []struct {
		name  string
		req   BookingRequest
		wants []ConflictType
	}{
		{
			name: "valid",
			req:  BookingRequest{Room: "R3.1", Date: "2025-03-10", Interval: interval(t, "10:00", "11:30"), Title: "Weekly sync"},
		},
		{
			name:  "missing room",
			req:   BookingRequest{Date: "2025-03-10", Interval: interval(t, "10:00", "11:00")},
			wants: []ConflictType{ConflictMissingRoom},
		},
		{
			name:  "bad date",
			req:   BookingRequest{Room: "R3.1", Date: "2025/03/10", Interval: interval(t, "10:00", "11:00")},
			wants: []ConflictType{ConflictInvalidDate},
		},
		{
			name:  "reversed range",
			req:   BookingRequest{Room: "R3.1", Date: "2025-03-10", Interval: interval(t, "11:00", "10:00")},
			wants: []ConflictType{ConflictInvalidTime},
		},
		{
			name:  "too short",
			req:   BookingRequest{Room: "R3.1", Date: "2025-03-10", Interval: interval(t, "10:00", "10:15")},
			wants: []ConflictType{ConflictDuration},
		},
		{
			name:  "too long",
			req:   BookingRequest{Room: "R3.1", Date: "2025-03-10", Interval: interval(t, "09:00", "17:30")},
			wants: []ConflictType{ConflictDuration},
		},
		{
			name:  "off step",
			req:   BookingRequest{Room: "R3.1", Date: "2025-03-10", Interval: interval(t, "10:00", "10:45")},
			wants: []ConflictType{ConflictDuration},
		},
		{
			name:  "eight hours is allowed",
			req:   BookingRequest{Room: "R3.1", Date: "2025-03-10", Interval: interval(t, "09:00", "17:00")},
			wants: nil,
		},
		{
			name:  "long title",
			req:   BookingRequest{Room: "R3.1", Date: "2025-03-10", Interval: interval(t, "10:00", "11:00"), Title: strings.Repeat("회", MaxTitleLength+1)},
			wants: []ConflictType{ConflictTitleTooLong},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validator.ValidateBooking(tt.req)
			if len(result.Conflicts) != len(tt.wants) {
				t.Fatalf("got %d conflicts, want %d: %s", len(result.Conflicts), len(tt.wants), result.FormatReport())
			}
			for _, want := range tt.wants {
				if !result.Has(want) {
					t.Errorf("expected conflict %s, got %s", want, result.FormatReport())
				}
			}
		})
	}
}

func TestValidateBooking_Past(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	validator := &Validator{Now: func() time.Time { return now }}

	past := validator.ValidateBooking(BookingRequest{Room: "R2.1", Date: "2025-03-10", Interval: interval(t, "11:00", "12:00")})
	if !past.Has(ConflictPastBooking) {
		t.Error("expected a past booking conflict")
	}

	future := validator.ValidateBooking(BookingRequest{Room: "R2.1", Date: "2025-03-10", Interval: interval(t, "13:00", "14:00")})
	if future.HasConflicts() {
		t.Errorf("unexpected conflicts: %s", future.FormatReport())
	}
}

func TestValidateBooking_PastInLocation(t *testing.T) {
	seoul, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// 09:30 UTC is 18:30 in Seoul.
	now := time.Date(2025, 12, 10, 9, 30, 0, 0, time.UTC)
	validator := &Validator{Now: func() time.Time { return now }, Location: seoul}

	started := validator.ValidateBooking(BookingRequest{Room: "R3.1", Date: "2025-12-10", Interval: interval(t, "10:00", "11:00")})
	if !started.Has(ConflictPastBooking) {
		t.Error("10:00 Seoul time has passed at 18:30 Seoul time")
	}

	evening := validator.ValidateBooking(BookingRequest{Room: "R3.1", Date: "2025-12-10", Interval: interval(t, "19:00", "20:00")})
	if evening.HasConflicts() {
		t.Errorf("unexpected conflicts: %s", evening.FormatReport())
	}
}

func TestValidateSettings(t *testing.T) {
	validator := New()

	valid := models.Settings{WorkStart: "09:00", WorkEnd: "18:00", SlotIntervalMin: 30, Timezone: "UTC"}
	if r := validator.ValidateSettings(valid); r.HasConflicts() {
		t.Fatalf("valid settings flagged: %s", r.FormatReport())
	}

	tests := []struct {
		name   string
		mutate func(*models.Settings)
		want   ConflictType
	}{
		{"bad start", func(s *models.Settings) { s.WorkStart = "9am" }, ConflictInvalidTime},
		{"end before start", func(s *models.Settings) { s.WorkEnd = "08:00" }, ConflictInvalidWindow},
		{"zero slot", func(s *models.Settings) { s.SlotIntervalMin = 0 }, ConflictInvalidSlot},
		{"uneven slot", func(s *models.Settings) { s.SlotIntervalMin = 7 }, ConflictInvalidSlot},
		{"bad timezone", func(s *models.Settings) { s.Timezone = "Mars/Olympus" }, ConflictInvalidTimezone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)
			r := validator.ValidateSettings(s)
			if !r.Has(tt.want) {
				t.Errorf("expected %s, got %s", tt.want, r.FormatReport())
			}
			if r.Err() == nil {
				t.Error("Err() should be non-nil")
			}
		})
	}
}

func TestWindow(t *testing.T) {
	w, err := Window(models.Settings{WorkStart: "09:00", WorkEnd: "18:00", SlotIntervalMin: 30, Timezone: "UTC"})
	if err != nil {
		t.Fatalf("Window failed: %v", err)
	}
	if w.Start.String() != "09:00" || w.End.String() != "18:00" {
		t.Errorf("Window() = %s", w)
	}

	if _, err := Window(models.Settings{WorkStart: "18:00", WorkEnd: "09:00"}); err == nil {
		t.Error("expected error for reversed window")
	}
}
