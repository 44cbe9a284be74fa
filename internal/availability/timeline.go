package availability

import (
	"sort"

	"github.com/codemon-ai/make-meeting-room/internal/models"
)

// Entry is one row of a room's day timeline.
type Entry struct {
	Interval    models.Interval
	Free        bool
	Reservation *models.Reservation
}

// Timeline merges a room's gaps and reservations into one list ordered by start.
func Timeline(ra models.RoomAvailability) []Entry {
	entries := make([]Entry, 0, len(ra.Gaps)+len(ra.Reservations))
	for _, g := range ra.Gaps {
		entries = append(entries, Entry{Interval: g, Free: true})
	}
	for i := range ra.Reservations {
		r := ra.Reservations[i]
		entries = append(entries, Entry{Interval: r.Interval(), Reservation: &r})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Interval.Start < entries[j].Interval.Start
	})
	return entries
}

// StartChoices lists candidate start times, step minutes apart, from which at
// least one step fits inside a gap.
func StartChoices(gaps []models.Interval, step int) []models.Clock {
	if step <= 0 {
		return nil
	}
	var out []models.Clock
	for _, g := range gaps {
		for t := g.Start; int(t)+step <= int(g.End); t += models.Clock(step) {
			out = append(out, t)
		}
	}
	return out
}

// EndChoices lists candidate end times for a booking starting at start,
// limited to the gap containing start.
func EndChoices(start models.Clock, gaps []models.Interval, step int) []models.Clock {
	if step <= 0 {
		return nil
	}
	for _, g := range gaps {
		if start < g.Start || start >= g.End {
			continue
		}
		var out []models.Clock
		for t := start + models.Clock(step); t <= g.End; t += models.Clock(step) {
			out = append(out, t)
		}
		return out
	}
	return nil
}
