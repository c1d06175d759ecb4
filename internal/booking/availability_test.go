package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisclient "github.com/medidir/clinic-booking-platform/internal/redis"
	"github.com/medidir/clinic-booking-platform/internal/schedule"
)

// memBookingStore is an in-process Store that enforces the same
// one-active-booking-per-slot rule as the partial unique index.
type memBookingStore struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*Booking
}

func newMemBookingStore() *memBookingStore {
	return &memBookingStore{bookings: map[uuid.UUID]*Booking{}}
}

func (s *memBookingStore) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *memBookingStore) ListForDoctorDate(ctx context.Context, doctorID uuid.UUID, day time.Time) ([]Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Booking
	for _, b := range s.bookings {
		if b.DoctorID == nil || *b.DoctorID != doctorID || b.Status == StatusCancelled {
			continue
		}
		y1, m1, d1 := b.BookingTime.Date()
		y2, m2, d2 := day.Date()
		if y1 == y2 && m1 == m2 && d1 == d2 {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (s *memBookingStore) CreateIfFree(ctx context.Context, b Booking) (*Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.DoctorID != nil {
		for _, existing := range s.bookings {
			if existing.DoctorID != nil && *existing.DoctorID == *b.DoctorID &&
				existing.BookingTime.Equal(b.BookingTime) && existing.Status != StatusCancelled {
				return nil, ErrSlotUnavailable
			}
		}
	}
	b.ID = uuid.New()
	b.Status = StatusPending
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	cp := b
	s.bookings[b.ID] = &cp
	out := b
	return &out, nil
}

func (s *memBookingStore) UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status) (*Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok || b.Status != from {
		return nil, ErrBookingNotFound
	}
	b.Status = to
	b.UpdatedAt = time.Now()
	cp := *b
	return &cp, nil
}

func (s *memBookingStore) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Booking
	for _, b := range s.bookings {
		if b.PatientID == patientID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (s *memBookingStore) ListByClinic(ctx context.Context, clinicID uuid.UUID, limit, offset int) ([]Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Booking
	for _, b := range s.bookings {
		if b.ClinicID == clinicID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (s *memBookingStore) FindElapsedConfirmed(ctx context.Context, now time.Time) ([]Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Booking
	for _, b := range s.bookings {
		if b.Status == StatusConfirmed && b.BookingTime.Before(now) {
			out = append(out, *b)
		}
	}
	return out, nil
}

// memScheduleStore serves fixed weekly windows keyed by (doctor, weekday).
type memScheduleStore struct {
	windows map[uuid.UUID]map[int]schedule.WeeklyWindow
}

func newMemScheduleStore() *memScheduleStore {
	return &memScheduleStore{windows: map[uuid.UUID]map[int]schedule.WeeklyWindow{}}
}

func (s *memScheduleStore) add(w schedule.WeeklyWindow) {
	if s.windows[w.DoctorID] == nil {
		s.windows[w.DoctorID] = map[int]schedule.WeeklyWindow{}
	}
	s.windows[w.DoctorID][w.DayOfWeek] = w
}

func (s *memScheduleStore) GetWindow(ctx context.Context, doctorID uuid.UUID, dayOfWeek int) (*schedule.WeeklyWindow, error) {
	w, ok := s.windows[doctorID][dayOfWeek]
	if !ok {
		return nil, schedule.ErrWindowNotFound
	}
	return &w, nil
}

func (s *memScheduleStore) ListWindows(ctx context.Context, doctorID uuid.UUID) ([]schedule.WeeklyWindow, error) {
	var out []schedule.WeeklyWindow
	for _, w := range s.windows[doctorID] {
		out = append(out, w)
	}
	return out, nil
}

func (s *memScheduleStore) CreateWindow(ctx context.Context, w schedule.WeeklyWindow) (*schedule.WeeklyWindow, error) {
	s.add(w)
	return &w, nil
}

func (s *memScheduleStore) UpdateWindow(ctx context.Context, w schedule.WeeklyWindow) (*schedule.WeeklyWindow, error) {
	s.add(w)
	return &w, nil
}

func (s *memScheduleStore) DeleteWindow(ctx context.Context, id uuid.UUID) error {
	return nil
}

// passLocker hands the critical section straight through. The store is the
// real uniqueness authority, so tests do not need Redis.
type passLocker struct{}

func (passLocker) WithSlotLock(ctx context.Context, doctorID uuid.UUID, slotAt time.Time, fn func(context.Context) error) error {
	return fn(ctx)
}

// heldLocker simulates lock contention.
type heldLocker struct{}

func (heldLocker) WithSlotLock(ctx context.Context, doctorID uuid.UUID, slotAt time.Time, fn func(context.Context) error) error {
	return redisclient.ErrLockNotAcquired
}

// tuesday returns a fixed Tuesday, day index 3 in the Saturday-first week.
func tuesday(t *testing.T) time.Time {
	t.Helper()
	day, err := time.Parse("2006-01-02", "2026-09-01")
	require.NoError(t, err)
	return day
}

func newTestAvailability(schedules schedule.Store, bookings Store) *AvailabilityService {
	return NewAvailabilityService(schedules, bookings, passLocker{}, nil, zerolog.Nop())
}

func TestAvailableSlots_NoWindowIsEmptyNotError(t *testing.T) {
	svc := newTestAvailability(newMemScheduleStore(), newMemBookingStore())

	slots, err := svc.AvailableSlots(context.Background(), uuid.New(), tuesday(t))
	require.NoError(t, err)
	require.NotNil(t, slots)
	assert.Empty(t, slots)
}

func TestAvailableSlots_SubtractsBookings(t *testing.T) {
	doctorID := uuid.New()
	day := tuesday(t)

	schedules := newMemScheduleStore()
	schedules.add(schedule.WeeklyWindow{
		DoctorID:            doctorID,
		DayOfWeek:           schedule.DayIndex(day),
		StartTime:           "09:00",
		EndTime:             "12:00",
		SlotDurationMinutes: 30,
	})

	bookings := newMemBookingStore()
	svc := newTestAvailability(schedules, bookings)

	for _, slot := range []string{"09:30", "11:00"} {
		_, err := svc.Reserve(context.Background(), ReserveRequest{
			ClinicID:  uuid.New(),
			DoctorID:  &doctorID,
			PatientID: uuid.New(),
			Day:       day,
			SlotTime:  slot,
		})
		require.NoError(t, err)
	}

	slots, err := svc.AvailableSlots(context.Background(), doctorID, day)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "10:00", "10:30", "11:30"}, slots)
}

func TestReserve_CreatesPendingAtSlotTimestamp(t *testing.T) {
	doctorID := uuid.New()
	day := tuesday(t)

	schedules := newMemScheduleStore()
	schedules.add(schedule.WeeklyWindow{
		DoctorID:            doctorID,
		DayOfWeek:           schedule.DayIndex(day),
		StartTime:           "09:00",
		EndTime:             "17:00",
		SlotDurationMinutes: 60,
	})

	svc := newTestAvailability(schedules, newMemBookingStore())

	b, err := svc.Reserve(context.Background(), ReserveRequest{
		ClinicID:  uuid.New(),
		DoctorID:  &doctorID,
		PatientID: uuid.New(),
		Day:       day,
		SlotTime:  "14:00",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, b.Status)
	assert.Equal(t, 14, b.BookingTime.Hour())
	assert.Equal(t, 0, b.BookingTime.Minute())
	assert.Equal(t, day.Day(), b.BookingTime.Day())
}

func TestReserve_TakenSlotIsUnavailable(t *testing.T) {
	doctorID := uuid.New()
	day := tuesday(t)

	schedules := newMemScheduleStore()
	schedules.add(schedule.WeeklyWindow{
		DoctorID:            doctorID,
		DayOfWeek:           schedule.DayIndex(day),
		StartTime:           "09:00",
		EndTime:             "12:00",
		SlotDurationMinutes: 30,
	})

	svc := newTestAvailability(schedules, newMemBookingStore())

	req := ReserveRequest{
		ClinicID:  uuid.New(),
		DoctorID:  &doctorID,
		PatientID: uuid.New(),
		Day:       day,
		SlotTime:  "09:30",
	}
	_, err := svc.Reserve(context.Background(), req)
	require.NoError(t, err)

	req.PatientID = uuid.New()
	_, err = svc.Reserve(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestReserve_SlotOutsideWindowIsUnavailable(t *testing.T) {
	doctorID := uuid.New()
	day := tuesday(t)

	schedules := newMemScheduleStore()
	schedules.add(schedule.WeeklyWindow{
		DoctorID:            doctorID,
		DayOfWeek:           schedule.DayIndex(day),
		StartTime:           "09:00",
		EndTime:             "12:00",
		SlotDurationMinutes: 30,
	})

	svc := newTestAvailability(schedules, newMemBookingStore())

	for _, slot := range []string{"08:30", "12:00", "09:10"} {
		_, err := svc.Reserve(context.Background(), ReserveRequest{
			ClinicID:  uuid.New(),
			DoctorID:  &doctorID,
			PatientID: uuid.New(),
			Day:       day,
			SlotTime:  slot,
		})
		assert.ErrorIs(t, err, ErrSlotUnavailable, "slot %s", slot)
	}
}

func TestReserve_BadSlotTime(t *testing.T) {
	doctorID := uuid.New()
	svc := newTestAvailability(newMemScheduleStore(), newMemBookingStore())

	_, err := svc.Reserve(context.Background(), ReserveRequest{
		ClinicID:  uuid.New(),
		DoctorID:  &doctorID,
		PatientID: uuid.New(),
		Day:       tuesday(t),
		SlotTime:  "2pm",
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSlotUnavailable)
}

func TestReserve_LockContentionReportsUnavailable(t *testing.T) {
	doctorID := uuid.New()
	svc := NewAvailabilityService(newMemScheduleStore(), newMemBookingStore(), heldLocker{}, nil, zerolog.Nop())

	_, err := svc.Reserve(context.Background(), ReserveRequest{
		ClinicID:  uuid.New(),
		DoctorID:  &doctorID,
		PatientID: uuid.New(),
		Day:       tuesday(t),
		SlotTime:  "09:00",
	})
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestReserve_ClinicLevelSkipsSchedule(t *testing.T) {
	// No doctor, no weekly window: the booking goes straight through and
	// repeated times do not collide.
	svc := newTestAvailability(newMemScheduleStore(), newMemBookingStore())
	day := tuesday(t)
	clinicID := uuid.New()

	for i := 0; i < 2; i++ {
		b, err := svc.Reserve(context.Background(), ReserveRequest{
			ClinicID:  clinicID,
			PatientID: uuid.New(),
			Day:       day,
			SlotTime:  "10:00",
		})
		require.NoError(t, err)
		assert.Nil(t, b.DoctorID)
	}
}

func TestReserve_ConcurrentSameSlotOneWinner(t *testing.T) {
	doctorID := uuid.New()
	day := tuesday(t)

	schedules := newMemScheduleStore()
	schedules.add(schedule.WeeklyWindow{
		DoctorID:            doctorID,
		DayOfWeek:           schedule.DayIndex(day),
		StartTime:           "09:00",
		EndTime:             "17:00",
		SlotDurationMinutes: 30,
	})

	svc := newTestAvailability(schedules, newMemBookingStore())

	const attempts = 32
	var wg sync.WaitGroup
	results := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Reserve(context.Background(), ReserveRequest{
				ClinicID:  uuid.New(),
				DoctorID:  &doctorID,
				PatientID: uuid.New(),
				Day:       day,
				SlotTime:  "10:30",
			})
			results[i] = err
		}(i)
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range results {
		switch {
		case err == nil:
			wins++
		case assert.ErrorIs(t, err, ErrSlotUnavailable):
			conflicts++
		}
	}
	assert.Equal(t, 1, wins, "exactly one reservation should win")
	assert.Equal(t, attempts-1, conflicts)
}
