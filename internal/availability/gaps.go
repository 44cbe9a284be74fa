package availability

import (
	"sort"

	"github.com/codemon-ai/make-meeting-room/internal/models"
)

// ComputeGaps returns the free intervals of window not covered by any of the
// given intervals. Input order does not matter and overlapping or nested
// intervals are handled; intervals reaching outside window are clipped.
// Gaps are ascending and pairwise disjoint.
func ComputeGaps(reserved []models.Interval, window models.Interval) []models.Interval {
	sorted := make([]models.Interval, len(reserved))
	copy(sorted, reserved)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	var gaps []models.Interval
	cursor := window.Start
	for _, r := range sorted {
		gapEnd := min(r.Start, window.End)
		if cursor < gapEnd {
			gaps = append(gaps, models.Interval{Start: cursor, End: gapEnd})
		}
		cursor = max(cursor, r.End)
	}

	if cursor < window.End {
		gaps = append(gaps, models.Interval{Start: cursor, End: window.End})
	}
	return gaps
}

// BuildRoomAvailability groups canonical reservations by room and derives
// each room's gaps. Room order follows rooms.
func BuildRoomAvailability(rooms []models.Room, date string, reservations []models.Reservation, window models.Interval) []models.RoomAvailability {
	byRoom := make(map[string][]models.Reservation, len(rooms))
	for _, r := range reservations {
		byRoom[r.Room] = append(byRoom[r.Room], r)
	}

	out := make([]models.RoomAvailability, 0, len(rooms))
	for _, room := range rooms {
		res := byRoom[room.Name]
		sort.SliceStable(res, func(i, j int) bool {
			return res[i].Start < res[j].Start
		})
		intervals := make([]models.Interval, 0, len(res))
		for _, r := range res {
			intervals = append(intervals, r.Interval())
		}
		out = append(out, models.RoomAvailability{
			Room:         room,
			Date:         date,
			Reservations: res,
			Gaps:         ComputeGaps(intervals, window),
		})
	}
	return out
}

// FullyFree reports whether the room has no reservations and a single gap
// spanning the whole window.
func FullyFree(ra models.RoomAvailability, window models.Interval) bool {
	return len(ra.Reservations) == 0 && len(ra.Gaps) == 1 && ra.Gaps[0] == window
}
