// Package display renders availability, conflict checks and booking history
// for the terminal.
package display

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/codemon-ai/make-meeting-room/internal/availability"
	"github.com/codemon-ai/make-meeting-room/internal/booking"
	"github.com/codemon-ai/make-meeting-room/internal/models"
	"github.com/codemon-ai/make-meeting-room/internal/utils"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	roomStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(14)

	freeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	busyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	dangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// Availability renders every room's timeline for date. Rooms with no
// reservations and one gap covering the window are shown as free all day.
func Availability(date, today string, rooms []models.RoomAvailability, window models.Interval) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("회의실 현황 " + utils.FormatDateDisplay(date, today)))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("업무시간 " + window.String()))
	b.WriteString("\n\n")

	for _, ra := range rooms {
		b.WriteString(roomStyle.Render(ra.Room.Label()))
		b.WriteString("\n")
		if availability.FullyFree(ra, window) {
			b.WriteString("  " + freeStyle.Render("✓ 종일 가능") + "\n\n")
			continue
		}
		for _, e := range availability.Timeline(ra) {
			b.WriteString("  ")
			b.WriteString(timeStyle.Render(e.Interval.String()))
			if e.Free {
				b.WriteString(freeStyle.Render("○ 예약 가능"))
				b.WriteString(mutedStyle.Render(" " + utils.FormatDuration(e.Interval.Duration())))
			} else {
				b.WriteString(busyStyle.Render("● " + reservationLabel(e.Reservation)))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

// Decisions renders the outcome of checking one interval against every room.
func Decisions(date, today string, iv models.Interval, decisions []booking.RoomDecision) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s %s", utils.FormatDateDisplay(date, today), iv)))
	b.WriteString("\n\n")

	free := 0
	for _, rd := range decisions {
		b.WriteString("  ")
		b.WriteString(roomStyle.Width(12).Render(rd.Availability.Room.Label()))
		switch {
		case rd.Decision.Available:
			free++
			b.WriteString(freeStyle.Render("✓ 예약 가능"))
		case rd.Decision.Conflict != nil:
			c := rd.Decision.Conflict
			b.WriteString(busyStyle.Render(fmt.Sprintf("✗ %s %s", c.Interval(), reservationLabel(c))))
		default:
			b.WriteString(dangerStyle.Render("✗ 예약 불가"))
		}
		if rd.Decision.Branch == availability.BranchOffHours {
			b.WriteString(mutedStyle.Render(" (업무시간 외)"))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%d/%d 회의실 예약 가능", free, len(decisions))))
	b.WriteString("\n")
	return b.String()
}

// BookResult renders a successful reservation.
func BookResult(res booking.BookResult) string {
	var b strings.Builder
	b.WriteString(freeStyle.Render("✓ 예약 완료"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  회의실: %s\n", res.Room.Label())
	fmt.Fprintf(&b, "  일시:   %s %s-%s\n", res.Booking.Date, res.Booking.Start, res.Booking.End)
	fmt.Fprintf(&b, "  제목:   %s\n", res.Booking.Title)
	switch {
	case res.Event != nil:
		fmt.Fprintf(&b, "  캘린더: %s\n", res.Event.Link)
	case res.CalendarErr != nil:
		b.WriteString(busyStyle.Render(fmt.Sprintf("  ⚠ 캘린더 등록 실패: %v", res.CalendarErr)))
		b.WriteString("\n")
	}
	return b.String()
}

// BookError renders a failed reservation with the reason it failed.
func BookError(err error) string {
	var ce *booking.ConflictError
	switch {
	case errors.As(err, &ce):
		msg := fmt.Sprintf("✗ %s %s %s 예약 불가", ce.Room, ce.Date, ce.Interval)
		if ce.Reservation != nil {
			msg += fmt.Sprintf("\n  %s %s", ce.Reservation.Interval(), reservationLabel(ce.Reservation))
		}
		return dangerStyle.Render(msg) + "\n"
	case errors.Is(err, booking.ErrRejected):
		return dangerStyle.Render(fmt.Sprintf("✗ 그룹웨어가 예약을 거절했습니다: %v", err)) + "\n"
	default:
		return dangerStyle.Render(fmt.Sprintf("✗ 예약 실패: %v", err)) + "\n"
	}
}

// History renders booking history records as a table.
func History(bookings []models.Booking) string {
	if len(bookings) == 0 {
		return mutedStyle.Render("예약 기록이 없습니다.") + "\n"
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers("날짜", "시간", "회의실", "제목", "상태", "경로").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	for _, bk := range bookings {
		t.Row(
			bk.Date,
			bk.Start+"-"+bk.End,
			bk.Room,
			bk.Title,
			string(bk.Status),
			string(bk.Source),
		)
	}
	return t.Render() + "\n"
}

// Rooms renders the room registry.
func Rooms(rooms []models.Room, dynamic bool) string {
	var b strings.Builder
	for _, r := range rooms {
		fmt.Fprintf(&b, "  %s %s %s\n",
			roomStyle.Width(6).Render(r.Name),
			timeStyle.Width(4).Render(r.Floor),
			mutedStyle.Render(fmt.Sprintf("%s · resSeq %d", r.Location, r.ResSeq)))
	}
	src := "정적 테이블"
	if dynamic {
		src = "그룹웨어"
	}
	b.WriteString(mutedStyle.Render("출처: " + src))
	b.WriteString("\n")
	return b.String()
}

func reservationLabel(r *models.Reservation) string {
	if r == nil {
		return ""
	}
	switch {
	case r.Title != "" && r.Reserver != "":
		return fmt.Sprintf("%s (%s)", r.Title, r.Reserver)
	case r.Reserver != "":
		return r.Reserver
	case r.Title != "":
		return r.Title
	default:
		return "예약됨"
	}
}
