package display

import (
	"fmt"
	"strings"
	"testing"

	"github.com/codemon-ai/make-meeting-room/internal/availability"
	"github.com/codemon-ai/make-meeting-room/internal/booking"
	"github.com/codemon-ai/make-meeting-room/internal/calendar"
	"github.com/codemon-ai/make-meeting-room/internal/constants"
	"github.com/codemon-ai/make-meeting-room/internal/models"
)

func iv(start, end string) models.Interval {
	return models.Interval{Start: models.MustClock(start), End: models.MustClock(end)}
}

var window = iv("09:00", "18:00")

func TestAvailability(t *testing.T) {
	busy := models.RoomAvailability{
		Room: models.Room{Name: "R3.1", Floor: "3F"},
		Date: "2025-12-10",
		Reservations: []models.Reservation{
			{Room: "R3.1", Start: models.MustClock("10:00"), End: models.MustClock("11:00"), Reserver: "홍길동", Title: "주간회의"},
		},
		Gaps: []models.Interval{iv("09:00", "10:00"), iv("11:00", "18:00")},
	}
	free := models.RoomAvailability{
		Room: models.Room{Name: "R2.1", Floor: "2F"},
		Date: "2025-12-10",
		Gaps: []models.Interval{window},
	}

	out := Availability("2025-12-10", "2025-12-10", []models.RoomAvailability{free, busy}, window)

	for _, want := range []string{
		"2025-12-10 (수) 오늘",
		"R2.1 (2F)",
		"종일 가능",
		"R3.1 (3F)",
		"09:00-10:00",
		"주간회의 (홍길동)",
		"11:00-18:00",
		"7시간",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "09:00-10:00") > strings.Index(out, "10:00-11:00") {
		t.Errorf("timeline not ordered by start:\n%s", out)
	}
}

func TestDecisions(t *testing.T) {
	conflict := models.Reservation{Start: models.MustClock("10:00"), End: models.MustClock("11:00"), Reserver: "김철수"}
	decisions := []booking.RoomDecision{
		{
			Availability: models.RoomAvailability{Room: models.Room{Name: "R2.1", Floor: "2F"}},
			Decision:     availability.Decision{Available: true},
		},
		{
			Availability: models.RoomAvailability{Room: models.Room{Name: "R3.1", Floor: "3F"}},
			Decision:     availability.Decision{Conflict: &conflict},
		},
		{
			Availability: models.RoomAvailability{Room: models.Room{Name: "R3.2", Floor: "3F"}},
			Decision:     availability.Decision{Available: true, Branch: availability.BranchOffHours},
		},
	}

	out := Decisions("2025-12-10", "2025-12-09", iv("10:00", "10:30"), decisions)
	for _, want := range []string{"내일", "10:00-10:30", "예약 가능", "10:00-11:00 김철수", "업무시간 외", "2/3"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestBookResult(t *testing.T) {
	res := booking.BookResult{
		Booking: models.Booking{Date: "2025-12-10", Start: "14:00", End: "15:00", Title: "스프린트 리뷰"},
		Room:    models.Room{Name: "R3.1", Floor: "3F"},
		Event:   &calendar.EventResult{ID: "evt", Link: "https://calendar.google.com/evt"},
	}
	out := BookResult(res)
	for _, want := range []string{"예약 완료", "R3.1 (3F)", "14:00-15:00", "스프린트 리뷰", "https://calendar.google.com/evt"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	res.Event = nil
	res.CalendarErr = fmt.Errorf("quota exceeded")
	if out := BookResult(res); !strings.Contains(out, "quota exceeded") {
		t.Errorf("calendar failure not shown:\n%s", out)
	}
}

func TestBookError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "conflict",
			err: &booking.ConflictError{
				Room:        "R3.1",
				Date:        "2025-12-10",
				Interval:    iv("10:00", "11:00"),
				Reservation: &models.Reservation{Start: models.MustClock("10:30"), End: models.MustClock("11:30"), Reserver: "박영희"},
			},
			want: "10:30-11:30 박영희",
		},
		{
			name: "rejected",
			err:  fmt.Errorf("%w: 중복 예약", booking.ErrRejected),
			want: "거절",
		},
		{
			name: "other",
			err:  fmt.Errorf("network down"),
			want: "network down",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if out := BookError(tt.err); !strings.Contains(out, tt.want) {
				t.Errorf("BookError() = %q, want it to contain %q", out, tt.want)
			}
		})
	}
}

func TestHistory(t *testing.T) {
	if out := History(nil); !strings.Contains(out, "없습니다") {
		t.Errorf("empty history = %q", out)
	}

	out := History([]models.Booking{
		{Date: "2025-12-10", Start: "10:00", End: "11:00", Room: "R3.1", Title: "1on1",
			Status: constants.BookingStatusBooked, Source: constants.BookingSourceCLI},
		{Date: "2025-12-11", Start: "14:00", End: "15:00", Room: "R2.1", Title: "retro",
			Status: constants.BookingStatusConflict, Source: constants.BookingSourceBot},
	})
	for _, want := range []string{"회의실", "R3.1", "10:00-11:00", "booked", "conflict", "bot"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRooms(t *testing.T) {
	rooms := []models.Room{{Name: "R2.1", Floor: "2F", Location: constants.Location, ResSeq: 100}}
	if out := Rooms(rooms, false); !strings.Contains(out, "resSeq 100") || !strings.Contains(out, "정적") {
		t.Errorf("Rooms() = %q", out)
	}
	if out := Rooms(rooms, true); !strings.Contains(out, "그룹웨어") {
		t.Errorf("Rooms() = %q", out)
	}
}
