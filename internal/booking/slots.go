package booking

import (
	"fmt"

	"github.com/medidir/clinic-booking-platform/internal/schedule"
)

// FreeSlots walks a weekly window in slotMinutes steps and returns the
// ordered free start times as "HH:MM" strings. A slot is produced only if
// it fits entirely inside the window (no trailing partial slot) and its
// start is not an exact match of an occupied time.
//
// Occupied times on a different grid are NOT removed: the check is an
// exact string match of the start time, not an interval-overlap test.
// Booked times always come from slots this same function produced, so in
// practice the grids agree; keeping the comparison exact keeps the
// function a pure set difference.
//
// The function is pure: same inputs, same output, no hidden state.
func FreeSlots(startTime, endTime string, slotMinutes int, occupied []string) ([]string, error) {
	if slotMinutes <= 0 {
		return nil, fmt.Errorf("slot duration must be positive, got %d", slotMinutes)
	}

	start, err := schedule.ClockMinutes(startTime)
	if err != nil {
		return nil, fmt.Errorf("window start: %w", err)
	}
	end, err := schedule.ClockMinutes(endTime)
	if err != nil {
		return nil, fmt.Errorf("window end: %w", err)
	}

	taken := make(map[string]struct{}, len(occupied))
	for _, t := range occupied {
		taken[t] = struct{}{}
	}

	slots := []string{}
	for m := start; m+slotMinutes <= end; m += slotMinutes {
		s := schedule.FormatClock(m)
		if _, ok := taken[s]; ok {
			continue
		}
		slots = append(slots, s)
	}

	return slots, nil
}
