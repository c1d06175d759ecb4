package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrWindowNotFound = errors.New("weekly window not found")
	ErrWindowExists   = errors.New("weekly window already exists for that weekday")
)

// Store persists per-doctor recurring weekly windows. Windows are written
// by the facility operator through the provider dashboard and are
// read-mostly everywhere else.
type Store interface {
	GetWindow(ctx context.Context, doctorID uuid.UUID, dayOfWeek int) (*WeeklyWindow, error)
	ListWindows(ctx context.Context, doctorID uuid.UUID) ([]WeeklyWindow, error)
	CreateWindow(ctx context.Context, w WeeklyWindow) (*WeeklyWindow, error)
	UpdateWindow(ctx context.Context, w WeeklyWindow) (*WeeklyWindow, error)
	DeleteWindow(ctx context.Context, id uuid.UUID) error
}

// Validate checks the window invariants before it reaches the store.
func (w WeeklyWindow) Validate() error {
	if w.DoctorID == uuid.Nil {
		return fmt.Errorf("doctor_id is required")
	}
	return w.validateTimes()
}

func (w WeeklyWindow) validateTimes() error {
	if w.DayOfWeek < 0 || w.DayOfWeek > 6 {
		return fmt.Errorf("day_of_week must be in 0..6, got %d", w.DayOfWeek)
	}
	start, err := ClockMinutes(w.StartTime)
	if err != nil {
		return fmt.Errorf("start_time: %w", err)
	}
	end, err := ClockMinutes(w.EndTime)
	if err != nil {
		return fmt.Errorf("end_time: %w", err)
	}
	if start >= end {
		return fmt.Errorf("start_time %s must be before end_time %s", w.StartTime, w.EndTime)
	}
	if w.SlotDurationMinutes <= 0 {
		return fmt.Errorf("slot_duration_minutes must be positive, got %d", w.SlotDurationMinutes)
	}
	return nil
}

// ClockMinutes parses a local wall-clock string into minutes since
// midnight. Accepts "HH:MM" and "HH:MM:SS" (the seconds are ignored, which
// is how TIME columns come back from the database).
func ClockMinutes(s string) (int, error) {
	if len(s) > 5 {
		s = s[:5]
	}
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("invalid clock value %q, want HH:MM", s)
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	for _, c := range []byte{s[0], s[1], s[3], s[4]} {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("invalid clock value %q, want HH:MM", s)
		}
	}
	if h > 23 || m > 59 {
		return 0, fmt.Errorf("clock value %q out of range", s)
	}
	return h*60 + m, nil
}

// FormatClock renders minutes since midnight back to "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
