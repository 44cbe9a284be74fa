package utils

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/codemon-ai/make-meeting-room/internal/constants"
	"github.com/codemon-ai/make-meeting-room/internal/models"
)

var koreanWeekdays = [...]string{"일", "월", "화", "수", "목", "금", "토"}

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// ParseDateInput resolves a user-supplied date relative to now. Accepted
// forms: today/tomorrow (also 오늘/내일), YYYY-MM-DD, YYYYMMDD and YYMMDD.
func ParseDateInput(input string, now time.Time) (string, error) {
	in := strings.ToLower(strings.TrimSpace(input))
	switch in {
	case "", "today", "오늘":
		return now.Format(constants.DateFormat), nil
	case "tomorrow", "내일":
		return now.AddDate(0, 0, 1).Format(constants.DateFormat), nil
	}

	layout := ""
	switch {
	case len(in) == 10 && strings.Count(in, "-") == 2:
		layout = constants.DateFormat
	case len(in) == 8 && isDigits(in):
		layout = "20060102"
	case len(in) == 6 && isDigits(in):
		layout = "060102"
	}
	if layout == "" {
		return "", fmt.Errorf("invalid date %q: use today, tomorrow, YYYY-MM-DD or YYMMDD", input)
	}

	t, err := time.Parse(layout, in)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", input, err)
	}
	return t.Format(constants.DateFormat), nil
}

// ParseShortTime accepts "1000", "930", "9:30" or "09:30" and returns HH:MM.
func ParseShortTime(input string) (string, error) {
	in := strings.TrimSpace(input)
	if isDigits(in) && (len(in) == 3 || len(in) == 4) {
		in = in[:len(in)-2] + ":" + in[len(in)-2:]
	}
	c, err := models.ParseClock(in)
	if err != nil {
		return "", fmt.Errorf("invalid time %q: use HHMM or HH:MM", input)
	}
	return c.String(), nil
}

// ParseTimeRange parses "HH:MM-HH:MM" (short forms allowed on either side).
func ParseTimeRange(input string) (models.Interval, error) {
	parts := strings.Split(strings.TrimSpace(input), "-")
	if len(parts) != 2 {
		return models.Interval{}, fmt.Errorf("invalid time range %q: use HH:MM-HH:MM", input)
	}
	start, err := ParseShortTime(parts[0])
	if err != nil {
		return models.Interval{}, err
	}
	end, err := ParseShortTime(parts[1])
	if err != nil {
		return models.Interval{}, err
	}
	return models.NewInterval(start, end)
}

// EndAfter returns start plus hours, rounded to the minute. The result must
// stay within the same day.
func EndAfter(start models.Clock, hours float64) (models.Clock, error) {
	if hours <= 0 {
		return 0, fmt.Errorf("duration must be positive")
	}
	end := start + models.Clock(math.Round(hours*60))
	if !end.Valid() {
		return 0, fmt.Errorf("booking from %s for %g hours runs past midnight", start, hours)
	}
	return end, nil
}

// FormatDateDisplay renders a date with its weekday, marking today and tomorrow.
func FormatDateDisplay(date, today string) string {
	t, err := time.Parse(constants.DateFormat, date)
	if err != nil {
		return date
	}
	label := fmt.Sprintf("%s (%s)", date, koreanWeekdays[t.Weekday()])
	if tt, err := time.Parse(constants.DateFormat, today); err == nil {
		switch int(t.Sub(tt).Hours() / 24) {
		case 0:
			label += " 오늘"
		case 1:
			label += " 내일"
		}
	}
	return label
}

// FormatDuration renders minutes as "30분", "1시간" or "1시간 30분".
func FormatDuration(minutes int) string {
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%d분", m)
	case m == 0:
		return fmt.Sprintf("%d시간", h)
	default:
		return fmt.Sprintf("%d시간 %d분", h, m)
	}
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	if timezone == "" || timezone == "Local" {
		return true
	}
	_, err := time.LoadLocation(timezone)
	return err == nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
