package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool the store needs. pgxmock satisfies it
// in tests.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type PgStore struct {
	db DB
}

func NewPgStore(db DB) *PgStore {
	return &PgStore{db: db}
}

const bookingColumns = `
	id, clinic_id, doctor_id, patient_id, booking_time, status, created_at, updated_at`

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	var doctorID *uuid.UUID

	err := row.Scan(
		&b.ID,
		&b.ClinicID,
		&doctorID,
		&b.PatientID,
		&b.BookingTime,
		&b.Status,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	b.DoctorID = doctorID
	return &b, nil
}

func (s *PgStore) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	row := s.db.QueryRow(ctx, `
		SELECT`+bookingColumns+`
		FROM bookings
		WHERE id = $1
	`, id)
	return scanBooking(row)
}

func (s *PgStore) ListForDoctorDate(ctx context.Context, doctorID uuid.UUID, day time.Time) ([]Booking, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	rows, err := s.db.Query(ctx, `
		SELECT`+bookingColumns+`
		FROM bookings
		WHERE doctor_id = $1
		  AND booking_time >= $2
		  AND booking_time < $3
		  AND status <> 'CANCELLED'
		ORDER BY booking_time
	`, doctorID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBookings(rows)
}

func (s *PgStore) CreateIfFree(ctx context.Context, b Booking) (*Booking, error) {
	id := b.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO bookings (id, clinic_id, doctor_id, patient_id, booking_time, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 'PENDING', now(), now())
		RETURNING`+bookingColumns+`
	`, id, b.ClinicID, b.DoctorID, b.PatientID, b.BookingTime)

	created, err := scanBooking(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// The partial unique index on (doctor_id, booking_time) rejected
			// a concurrent duplicate. Expected outcome, not a failure.
			return nil, ErrSlotUnavailable
		}
		return nil, err
	}
	return created, nil
}

func (s *PgStore) UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status) (*Booking, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE bookings
		SET status = $2,
		    updated_at = now()
		WHERE id = $1
		  AND status = $3
		RETURNING`+bookingColumns+`
	`, id, to, from)

	return scanBooking(row)
}

func (s *PgStore) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]Booking, error) {
	rows, err := s.db.Query(ctx, `
		SELECT`+bookingColumns+`
		FROM bookings
		WHERE patient_id = $1
		ORDER BY booking_time DESC
		LIMIT $2 OFFSET $3
	`, patientID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBookings(rows)
}

func (s *PgStore) ListByClinic(ctx context.Context, clinicID uuid.UUID, limit, offset int) ([]Booking, error) {
	rows, err := s.db.Query(ctx, `
		SELECT`+bookingColumns+`
		FROM bookings
		WHERE clinic_id = $1
		ORDER BY booking_time DESC
		LIMIT $2 OFFSET $3
	`, clinicID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBookings(rows)
}

func (s *PgStore) FindElapsedConfirmed(ctx context.Context, now time.Time) ([]Booking, error) {
	rows, err := s.db.Query(ctx, `
		SELECT`+bookingColumns+`
		FROM bookings
		WHERE status = 'CONFIRMED'
		  AND booking_time < $1
	`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBookings(rows)
}

func collectBookings(rows pgx.Rows) ([]Booking, error) {
	var result []Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
