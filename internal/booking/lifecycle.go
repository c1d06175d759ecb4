package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medidir/clinic-booking-platform/internal/metrics"
)

// ErrNotAllowed means the actor does not own the booking or its facility.
var ErrNotAllowed = errors.New("actor may not modify this booking")

// OwnerResolver maps a clinic to its operating account. The directory
// store implements it.
type OwnerResolver interface {
	ClinicOwner(ctx context.Context, clinicID uuid.UUID) (uuid.UUID, error)
}

// Lifecycle applies the booking state machine:
//
//	PENDING -> CONFIRMED   (facility operator)
//	PENDING -> CANCELLED   (patient or facility operator)
//	CONFIRMED -> CANCELLED (patient or facility operator)
//	CONFIRMED -> COMPLETED (completion worker, once the time has passed)
//
// CANCELLED and COMPLETED are terminal. Cancelling frees the slot
// implicitly: the slot calculator only reads non-CANCELLED bookings.
type Lifecycle struct {
	bookings Store
	owners   OwnerResolver
	metrics  *metrics.BookingMetrics
	logger   zerolog.Logger
	now      func() time.Time
}

func NewLifecycle(bookings Store, owners OwnerResolver, m *metrics.BookingMetrics, logger zerolog.Logger) *Lifecycle {
	return &Lifecycle{
		bookings: bookings,
		owners:   owners,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// Confirm moves a PENDING booking to CONFIRMED. Confirming an already
// CONFIRMED booking is an idempotent no-op.
func (l *Lifecycle) Confirm(ctx context.Context, bookingID uuid.UUID, actor Actor) (*Booking, error) {
	b, err := l.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("load booking: %w", err)
	}

	if err := l.authorizeOperator(ctx, b, actor); err != nil {
		return nil, err
	}

	switch b.Status {
	case StatusConfirmed:
		return b, nil
	case StatusPending:
		// fall through to the update
	default:
		l.metrics.ObserveTransition(string(StatusConfirmed), "rejected")
		return nil, ErrInvalidTransition
	}

	updated, err := l.bookings.UpdateStatus(ctx, b.ID, StatusPending, StatusConfirmed)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			// Status changed underneath us between the read and the swap.
			l.metrics.ObserveTransition(string(StatusConfirmed), "rejected")
			return nil, ErrInvalidTransition
		}
		return nil, fmt.Errorf("confirm booking: %w", err)
	}

	l.metrics.ObserveTransition(string(StatusConfirmed), "applied")
	l.logger.Info().Str("booking_id", b.ID.String()).Msg("booking confirmed")
	return updated, nil
}

// Cancel moves a PENDING or CONFIRMED booking to CANCELLED. The owning
// patient may cancel only future bookings; the facility operator may
// cancel at any time before a terminal state.
func (l *Lifecycle) Cancel(ctx context.Context, bookingID uuid.UUID, actor Actor) (*Booking, error) {
	b, err := l.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("load booking: %w", err)
	}

	switch actor.Role {
	case RolePatient:
		if b.PatientID != actor.ID {
			return nil, ErrNotAllowed
		}
		if !b.BookingTime.After(l.now()) {
			return nil, ErrInvalidTransition
		}
	default:
		if err := l.authorizeOperator(ctx, b, actor); err != nil {
			return nil, err
		}
	}

	if b.Status != StatusPending && b.Status != StatusConfirmed {
		l.metrics.ObserveTransition(string(StatusCancelled), "rejected")
		return nil, ErrInvalidTransition
	}

	updated, err := l.bookings.UpdateStatus(ctx, b.ID, b.Status, StatusCancelled)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			l.metrics.ObserveTransition(string(StatusCancelled), "rejected")
			return nil, ErrInvalidTransition
		}
		return nil, fmt.Errorf("cancel booking: %w", err)
	}

	l.metrics.ObserveTransition(string(StatusCancelled), "applied")
	l.logger.Info().
		Str("booking_id", b.ID.String()).
		Str("actor_role", string(actor.Role)).
		Msg("booking cancelled")
	return updated, nil
}

// CompleteElapsed marks past CONFIRMED bookings COMPLETED. Called
// periodically by the completion worker.
func (l *Lifecycle) CompleteElapsed(ctx context.Context) error {
	elapsed, err := l.bookings.FindElapsedConfirmed(ctx, l.now())
	if err != nil {
		return fmt.Errorf("find elapsed confirmed bookings: %w", err)
	}

	for _, b := range elapsed {
		_, err := l.bookings.UpdateStatus(ctx, b.ID, StatusConfirmed, StatusCompleted)
		if err != nil && !errors.Is(err, ErrBookingNotFound) {
			l.logger.Error().Err(err).Str("booking_id", b.ID.String()).Msg("failed to complete booking")
			continue
		}
		l.metrics.ObserveTransition(string(StatusCompleted), "applied")
	}

	return nil
}

func (l *Lifecycle) authorizeOperator(ctx context.Context, b *Booking, actor Actor) error {
	if actor.Role == RoleAdmin {
		return nil
	}
	if actor.Role != RoleProvider {
		return ErrNotAllowed
	}

	owner, err := l.owners.ClinicOwner(ctx, b.ClinicID)
	if err != nil {
		return fmt.Errorf("resolve clinic owner: %w", err)
	}
	if owner != actor.ID {
		return ErrNotAllowed
	}
	return nil
}
