package schedule

import (
	"context"
	"errors"

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

const windowColumns = `
	id, doctor_id, day_of_week,
	to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI'),
	slot_duration_minutes, created_at, updated_at`

func scanWindow(row pgx.Row) (*WeeklyWindow, error) {
	var w WeeklyWindow

	err := row.Scan(
		&w.ID,
		&w.DoctorID,
		&w.DayOfWeek,
		&w.StartTime,
		&w.EndTime,
		&w.SlotDurationMinutes,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWindowNotFound
		}
		return nil, err
	}

	return &w, nil
}

func (s *PgStore) GetWindow(ctx context.Context, doctorID uuid.UUID, dayOfWeek int) (*WeeklyWindow, error) {
	row := s.db.QueryRow(ctx, `
		SELECT`+windowColumns+`
		FROM doctor_schedules
		WHERE doctor_id = $1 AND day_of_week = $2
	`, doctorID, dayOfWeek)
	return scanWindow(row)
}

func (s *PgStore) ListWindows(ctx context.Context, doctorID uuid.UUID) ([]WeeklyWindow, error) {
	rows, err := s.db.Query(ctx, `
		SELECT`+windowColumns+`
		FROM doctor_schedules
		WHERE doctor_id = $1
		ORDER BY day_of_week
	`, doctorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []WeeklyWindow
	for rows.Next() {
		w, err := scanWindow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *w)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (s *PgStore) CreateWindow(ctx context.Context, w WeeklyWindow) (*WeeklyWindow, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}

	id := w.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO doctor_schedules (id, doctor_id, day_of_week, start_time, end_time, slot_duration_minutes, created_at, updated_at)
		VALUES ($1, $2, $3, $4::time, $5::time, $6, now(), now())
		RETURNING`+windowColumns+`
	`, id, w.DoctorID, w.DayOfWeek, w.StartTime, w.EndTime, w.SlotDurationMinutes)

	created, err := scanWindow(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrWindowExists
		}
		return nil, err
	}
	return created, nil
}

func (s *PgStore) UpdateWindow(ctx context.Context, w WeeklyWindow) (*WeeklyWindow, error) {
	if err := w.validateTimes(); err != nil {
		return nil, err
	}

	row := s.db.QueryRow(ctx, `
		UPDATE doctor_schedules
		SET day_of_week = $2,
		    start_time = $3::time,
		    end_time = $4::time,
		    slot_duration_minutes = $5,
		    updated_at = now()
		WHERE id = $1
		RETURNING`+windowColumns+`
	`, w.ID, w.DayOfWeek, w.StartTime, w.EndTime, w.SlotDurationMinutes)

	updated, err := scanWindow(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrWindowExists
		}
		return nil, err
	}
	return updated, nil
}

func (s *PgStore) DeleteWindow(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `
		DELETE FROM doctor_schedules WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrWindowNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
