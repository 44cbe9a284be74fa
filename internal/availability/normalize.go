package availability

import (
	"regexp"
	"sort"
	"strings"

	"github.com/codemon-ai/make-meeting-room/internal/models"
)

// Dropped describes a raw record that could not be normalized.
type Dropped struct {
	Index  int
	Reason string
}

var titleRoomPattern = regexp.MustCompile(`\[(R\d+\.\d+)\]`)

// lastMinute is where a reservation running past midnight is clipped. A
// Clock cannot express 24:00, so minute 23:59 itself stays free.
const lastMinute = models.Clock(24*60 - 1)

// Normalize converts raw records into canonical reservations for one date.
// Records for other rooms or other dates, and records whose times cannot be
// resolved, are dropped silently. The result is sorted by room, start, end.
func Normalize(raw []models.RawReservation, date string, rooms []string, window models.Interval) []models.Reservation {
	out, _ := NormalizeReport(raw, date, rooms, window)
	return out
}

// NormalizeReport is Normalize plus the list of dropped records and why.
func NormalizeReport(raw []models.RawReservation, date string, rooms []string, window models.Interval) ([]models.Reservation, []Dropped) {
	var (
		out     []models.Reservation
		dropped []Dropped
	)
	for i, rec := range raw {
		res, reason := normalizeOne(rec, date, rooms, window)
		if reason != "" {
			dropped = append(dropped, Dropped{Index: i, Reason: reason})
			continue
		}
		out = append(out, res)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Room != out[j].Room {
			return out[i].Room < out[j].Room
		}
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].End < out[j].End
	})
	return out, dropped
}

func normalizeOne(rec models.RawReservation, date string, rooms []string, window models.Interval) (models.Reservation, string) {
	room, ok := matchRoom(roomName(rec), rooms)
	if !ok {
		return models.Reservation{}, "room not in allowlist"
	}

	if d := recordDate(rec); d != "" && d != date {
		return models.Reservation{}, "different date"
	}

	var iv models.Interval
	if isAllDay(rec) {
		iv = window
	} else {
		start, ok := startClock(rec)
		if !ok {
			return models.Reservation{}, "missing start time"
		}
		end, ok := endClock(rec, date)
		if !ok {
			return models.Reservation{}, "missing end time"
		}
		iv = models.Interval{Start: start, End: end}
	}
	if !iv.Valid() {
		return models.Reservation{}, "end not after start"
	}

	resSeq, _ := rec.ResSeq.Int()
	return models.Reservation{
		ResSeq:     resSeq,
		Room:       room,
		Date:       date,
		Start:      iv.Start,
		End:        iv.End,
		Reserver:   firstNonEmpty(rec.UseEmpNm, rec.EmpName, rec.RegEmpNm),
		ReserverID: firstNonEmpty(string(rec.UseEmpID), string(rec.RegEmpID)),
		Title:      firstNonEmpty(rec.ReqText, rec.Title),
	}, ""
}

func roomName(rec models.RawReservation) string {
	if name := firstNonEmpty(rec.ResName, rec.ResNm); name != "" {
		return name
	}
	if m := titleRoomPattern.FindStringSubmatch(rec.Title); m != nil {
		return m[1]
	}
	return ""
}

func matchRoom(name string, rooms []string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	for _, r := range rooms {
		if strings.EqualFold(r, name) {
			return r, true
		}
	}
	return "", false
}

// recordDate returns the date prefix of the first start field carrying one.
func recordDate(rec models.RawReservation) string {
	for _, v := range []string{rec.StartDate, rec.FromDate, rec.Start, rec.ResStartDate} {
		if d := datePrefix(v); d != "" {
			return d
		}
	}
	return ""
}

func isAllDay(rec models.RawReservation) bool {
	if strings.EqualFold(string(rec.AllDay), "true") {
		return true
	}
	return strings.EqualFold(rec.AllDayYn, "Y") || strings.EqualFold(rec.AlldayYn, "Y")
}

func startClock(rec models.RawReservation) (models.Clock, bool) {
	if c, ok := localClock(rec.StartDate); ok {
		return c, true
	}
	if c, ok := isoClock(rec.Start); ok {
		return c, true
	}
	if c, ok := isoClock(rec.ResStartDate); ok {
		return c, true
	}
	return plainClock(rec.FromTime)
}

func endClock(rec models.RawReservation, date string) (models.Clock, bool) {
	// Spans past midnight: the booking occupies the rest of the day.
	for _, v := range []string{rec.EndDate, rec.ToDate, rec.End, rec.ResEndDate} {
		if d := datePrefix(v); d != "" && d > date {
			return lastMinute, true
		}
	}
	if c, ok := localClock(rec.EndDate); ok {
		return c, true
	}
	if c, ok := isoClock(rec.End); ok {
		return c, true
	}
	if c, ok := isoClock(rec.ResEndDate); ok {
		return c, true
	}
	return plainClock(rec.ToTime)
}

// localClock reads "YYYY-MM-DD HH:MM[:SS]".
func localClock(v string) (models.Clock, bool) {
	v = strings.TrimSpace(v)
	if len(v) < 16 || v[10] != ' ' {
		return 0, false
	}
	c, err := models.ParseClock(v[11:16])
	return c, err == nil
}

// isoClock reads the literal HH:MM after the 'T' separator of an ISO-8601 value.
func isoClock(v string) (models.Clock, bool) {
	v = strings.TrimSpace(v)
	idx := strings.IndexByte(v, 'T')
	if idx < 0 || len(v) < idx+6 {
		return 0, false
	}
	c, err := models.ParseClock(v[idx+1 : idx+6])
	return c, err == nil
}

func plainClock(v string) (models.Clock, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}
	if len(v) == 4 && !strings.Contains(v, ":") {
		v = v[:2] + ":" + v[2:]
	}
	c, err := models.ParseClock(v)
	return c, err == nil
}

func datePrefix(v string) string {
	v = strings.TrimSpace(v)
	if len(v) < 10 {
		return ""
	}
	p := v[:10]
	if p[4] != '-' || p[7] != '-' {
		return ""
	}
	for i, ch := range p {
		if i == 4 || i == 7 {
			continue
		}
		if ch < '0' || ch > '9' {
			return ""
		}
	}
	return p
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
