package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrSlotUnavailable means the requested slot is no longer free: either
	// the availability re-check or the storage-level uniqueness constraint
	// rejected the reservation. Callers should refresh and pick another slot.
	ErrSlotUnavailable = errors.New("slot is no longer available")

	// ErrInvalidTransition means the requested status change is not legal
	// from the booking's current state, or the actor may not perform it.
	ErrInvalidTransition = errors.New("invalid booking status transition")

	ErrBookingNotFound = errors.New("booking not found")
)

// Store contains all booking persistence the services need.
// CreateIfFree is the invariant-bearing operation: the storage layer is
// the final authority on double-booking, via a partial unique index on
// (doctor_id, booking_time) over non-CANCELLED rows.
type Store interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// ListForDoctorDate returns non-CANCELLED bookings for one doctor on
	// one calendar day.
	ListForDoctorDate(ctx context.Context, doctorID uuid.UUID, day time.Time) ([]Booking, error)

	// CreateIfFree inserts a PENDING booking, returning ErrSlotUnavailable
	// when the uniqueness constraint rejects it.
	CreateIfFree(ctx context.Context, b Booking) (*Booking, error)

	// UpdateStatus is a compare-and-swap: the row is only updated when its
	// current status equals from. ErrBookingNotFound signals a lost race.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status) (*Booking, error)

	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]Booking, error)
	ListByClinic(ctx context.Context, clinicID uuid.UUID, limit, offset int) ([]Booking, error)

	// FindElapsedConfirmed returns CONFIRMED bookings whose time has passed,
	// for the completion worker.
	FindElapsedConfirmed(ctx context.Context, now time.Time) ([]Booking, error)
}
