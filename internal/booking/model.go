package booking

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
)

// Terminal reports whether no further transition may leave the status.
func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// Booking is one reservation of a slot. DoctorID is nil for clinic-level
// visits booked without a specific doctor; those do not take part in the
// per-doctor double-booking invariant.
type Booking struct {
	ID          uuid.UUID
	ClinicID    uuid.UUID
	DoctorID    *uuid.UUID
	PatientID   uuid.UUID
	BookingTime time.Time // facility-local wall clock
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Actor is whoever is asking for a state change. Authentication is handled
// upstream; the lifecycle manager only checks ownership.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

type Role string

const (
	RolePatient  Role = "PATIENT"
	RoleProvider Role = "PROVIDER"
	RoleAdmin    Role = "ADMIN"
)
