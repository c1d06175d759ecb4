package schedule

import (
	"time"

	"github.com/google/uuid"
)

// WeeklyWindow is one recurring availability window for a doctor. A doctor
// has at most one active window per weekday; multiple windows per day are
// not modeled.
type WeeklyWindow struct {
	ID                  uuid.UUID
	DoctorID            uuid.UUID
	DayOfWeek           int    // Sat=0 .. Fri=6, see DayIndex
	StartTime           string // local wall clock, "HH:MM"
	EndTime             string // local wall clock, "HH:MM", strictly after StartTime
	SlotDurationMinutes int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// DayIndex maps a calendar date onto the weekday ordering used by
// doctor_schedules rows: Saturday=0, Sunday=1, ... Friday=6. This rotation
// is a product convention (the booking week starts on Saturday) and this
// function is the only place it lives.
func DayIndex(t time.Time) int {
	// time.Weekday is 0=Sunday .. 6=Saturday
	return (int(t.Weekday()) + 1) % 7
}
