package availability

import (
	"errors"
	"fmt"
	"sort"

	"github.com/codemon-ai/make-meeting-room/internal/models"
)

// ErrInvalidInterval is returned for a proposed interval that is empty,
// reversed, or reaches outside a single day.
var ErrInvalidInterval = errors.New("invalid time interval")

// Branch identifies which rule decided a conflict check.
type Branch int

const (
	// BranchWorkingHours: the proposal lies inside the window and must fit a single gap.
	BranchWorkingHours Branch = iota
	// BranchOffHours: the proposal reaches outside the window and must only avoid overlaps.
	BranchOffHours
)

func (b Branch) String() string {
	if b == BranchOffHours {
		return "off-hours"
	}
	return "working-hours"
}

// Decision is the outcome of a conflict check.
type Decision struct {
	Available bool
	Branch    Branch
	// Conflict is the earliest reservation overlapping the proposal, if any.
	Conflict *models.Reservation
}

// Check decides whether proposed can be booked given the room's gaps and
// reservations for the day. A proposal inside window is granted only when it
// fits entirely within one gap. A proposal reaching outside window on either
// side is granted when it overlaps no reservation; gaps do not apply to it.
func Check(proposed models.Interval, gaps []models.Interval, reservations []models.Reservation, window models.Interval) (Decision, error) {
	if !proposed.Valid() {
		return Decision{}, fmt.Errorf("%w: %s", ErrInvalidInterval, proposed)
	}

	conflict := firstOverlap(proposed, reservations)

	if window.Contains(proposed) {
		d := Decision{Branch: BranchWorkingHours, Conflict: conflict}
		for _, g := range gaps {
			if g.Contains(proposed) {
				d.Available = true
				d.Conflict = nil
				break
			}
		}
		return d, nil
	}

	return Decision{
		Available: conflict == nil,
		Branch:    BranchOffHours,
		Conflict:  conflict,
	}, nil
}

// IsAvailable is Check reduced to its boolean outcome.
func IsAvailable(proposed models.Interval, gaps []models.Interval, reservations []models.Reservation, window models.Interval) (bool, error) {
	d, err := Check(proposed, gaps, reservations, window)
	if err != nil {
		return false, err
	}
	return d.Available, nil
}

// CheckRoom runs Check against a room's computed availability.
func CheckRoom(proposed models.Interval, ra models.RoomAvailability, window models.Interval) (Decision, error) {
	return Check(proposed, ra.Gaps, ra.Reservations, window)
}

func firstOverlap(proposed models.Interval, reservations []models.Reservation) *models.Reservation {
	sorted := make([]models.Reservation, len(reservations))
	copy(sorted, reservations)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})
	for i := range sorted {
		if sorted[i].Interval().Overlaps(proposed) {
			r := sorted[i]
			return &r
		}
	}
	return nil
}
