package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medidir/clinic-booking-platform/internal/metrics"
	redisclient "github.com/medidir/clinic-booking-platform/internal/redis"
	"github.com/medidir/clinic-booking-platform/internal/schedule"
)

// AvailabilityService answers "what can this patient book on this date"
// and performs the reservation. It owns no state of its own: everything
// flows through the schedule and booking stores for the duration of one
// request.
type AvailabilityService struct {
	schedules schedule.Store
	bookings  Store
	locker    redisclient.Locker
	metrics   *metrics.BookingMetrics
	logger    zerolog.Logger
}

func NewAvailabilityService(schedules schedule.Store, bookings Store, locker redisclient.Locker, m *metrics.BookingMetrics, logger zerolog.Logger) *AvailabilityService {
	return &AvailabilityService{
		schedules: schedules,
		bookings:  bookings,
		locker:    locker,
		metrics:   m,
		logger:    logger,
	}
}

// AvailableSlots computes the bookable start times for (doctor, day).
// A doctor with no weekly window on that weekday simply has no slots;
// that is a normal empty result, never an error.
func (s *AvailabilityService) AvailableSlots(ctx context.Context, doctorID uuid.UUID, day time.Time) ([]string, error) {
	s.metrics.ObserveAvailabilityQuery()

	win, err := s.schedules.GetWindow(ctx, doctorID, schedule.DayIndex(day))
	if err != nil {
		if errors.Is(err, schedule.ErrWindowNotFound) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("load weekly window: %w", err)
	}

	existing, err := s.bookings.ListForDoctorDate(ctx, doctorID, day)
	if err != nil {
		return nil, fmt.Errorf("load bookings for date: %w", err)
	}

	occupied := make([]string, 0, len(existing))
	for _, b := range existing {
		occupied = append(occupied, b.BookingTime.Format("15:04"))
	}

	return FreeSlots(win.StartTime, win.EndTime, win.SlotDurationMinutes, occupied)
}

type ReserveRequest struct {
	ClinicID  uuid.UUID
	DoctorID  *uuid.UUID // nil for clinic-level visits
	PatientID uuid.UUID
	Day       time.Time
	SlotTime  string // "HH:MM"
}

// Reserve re-derives availability as of this call, then creates a PENDING
// booking. The availability re-check is an optimization; the partial
// unique index in the booking store is the final authority, so two
// concurrent reservations of the same slot resolve to exactly one winner.
func (s *AvailabilityService) Reserve(ctx context.Context, req ReserveRequest) (*Booking, error) {
	slotMin, err := schedule.ClockMinutes(req.SlotTime)
	if err != nil {
		return nil, fmt.Errorf("slot time: %w", err)
	}

	bookingTime := slotTimestamp(req.Day, slotMin)

	b := Booking{
		ClinicID:    req.ClinicID,
		DoctorID:    req.DoctorID,
		PatientID:   req.PatientID,
		BookingTime: bookingTime,
	}

	// Clinic-level visits have no per-doctor schedule to check.
	if req.DoctorID == nil {
		created, err := s.bookings.CreateIfFree(ctx, b)
		if err != nil {
			s.metrics.ObserveReservation(reservationOutcome(err))
			return nil, err
		}
		s.metrics.ObserveReservation("created")
		return created, nil
	}

	var created *Booking

	err = s.locker.WithSlotLock(ctx, *req.DoctorID, bookingTime, func(lockCtx context.Context) error {
		avail, err := s.AvailableSlots(lockCtx, *req.DoctorID, req.Day)
		if err != nil {
			return err
		}
		if !containsSlot(avail, req.SlotTime) {
			return ErrSlotUnavailable
		}

		created, err = s.bookings.CreateIfFree(lockCtx, b)
		if err != nil {
			return err
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			// Another reservation for the same slot holds the lock. From the
			// caller's point of view the slot is taken until proven otherwise.
			err = ErrSlotUnavailable
		}
		s.metrics.ObserveReservation(reservationOutcome(err))
		return nil, err
	}

	s.metrics.ObserveReservation("created")
	s.logger.Info().
		Str("clinic_id", req.ClinicID.String()).
		Str("doctor_id", req.DoctorID.String()).
		Str("patient_id", req.PatientID.String()).
		Time("booking_time", bookingTime).
		Msg("slot reserved")

	return created, nil
}

func reservationOutcome(err error) string {
	if errors.Is(err, ErrSlotUnavailable) {
		return "conflict"
	}
	return "error"
}

func containsSlot(slots []string, want string) bool {
	for _, s := range slots {
		if s == want {
			return true
		}
	}
	return false
}

// slotTimestamp combines a calendar day and minutes-since-midnight into
// the absolute booking timestamp. All times are facility-local wall clock;
// the single facility timezone rides along on the day value.
func slotTimestamp(day time.Time, clockMinutes int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), clockMinutes/60, clockMinutes%60, 0, 0, day.Location())
}
