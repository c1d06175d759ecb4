package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var windowCols = []string{"id", "doctor_id", "day_of_week", "start_time", "end_time", "slot_duration_minutes", "created_at", "updated_at"}

func windowRow(w WeeklyWindow) *pgxmock.Rows {
	return pgxmock.NewRows(windowCols).
		AddRow(w.ID, w.DoctorID, w.DayOfWeek, w.StartTime, w.EndTime, w.SlotDurationMinutes, w.CreatedAt, w.UpdatedAt)
}

func testWindow() WeeklyWindow {
	now := time.Now().Truncate(time.Second)
	return WeeklyWindow{
		ID:                  uuid.New(),
		DoctorID:            uuid.New(),
		DayOfWeek:           3,
		StartTime:           "09:00",
		EndTime:             "17:00",
		SlotDurationMinutes: 30,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

func TestPgStoreGetWindow(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	want := testWindow()
	mock.ExpectQuery("SELECT(.+)FROM doctor_schedules").
		WithArgs(want.DoctorID, want.DayOfWeek).
		WillReturnRows(windowRow(want))

	store := NewPgStore(mock)
	got, err := store.GetWindow(context.Background(), want.DoctorID, want.DayOfWeek)
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, "09:00", got.StartTime)
	assert.Equal(t, "17:00", got.EndTime)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgStoreGetWindow_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	doctorID := uuid.New()
	mock.ExpectQuery("SELECT(.+)FROM doctor_schedules").
		WithArgs(doctorID, 0).
		WillReturnError(pgx.ErrNoRows)

	store := NewPgStore(mock)
	_, err = store.GetWindow(context.Background(), doctorID, 0)
	assert.ErrorIs(t, err, ErrWindowNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgStoreListWindows(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	doctorID := uuid.New()
	first := testWindow()
	first.DoctorID = doctorID
	first.DayOfWeek = 0
	second := testWindow()
	second.DoctorID = doctorID
	second.DayOfWeek = 4

	rows := pgxmock.NewRows(windowCols).
		AddRow(first.ID, first.DoctorID, first.DayOfWeek, first.StartTime, first.EndTime, first.SlotDurationMinutes, first.CreatedAt, first.UpdatedAt).
		AddRow(second.ID, second.DoctorID, second.DayOfWeek, second.StartTime, second.EndTime, second.SlotDurationMinutes, second.CreatedAt, second.UpdatedAt)

	mock.ExpectQuery("SELECT(.+)FROM doctor_schedules").
		WithArgs(doctorID).
		WillReturnRows(rows)

	store := NewPgStore(mock)
	got, err := store.ListWindows(context.Background(), doctorID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 0, got[0].DayOfWeek)
	assert.Equal(t, 4, got[1].DayOfWeek)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgStoreCreateWindow(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	want := testWindow()
	mock.ExpectQuery("INSERT INTO doctor_schedules").
		WithArgs(pgxmock.AnyArg(), want.DoctorID, want.DayOfWeek, want.StartTime, want.EndTime, want.SlotDurationMinutes).
		WillReturnRows(windowRow(want))

	store := NewPgStore(mock)
	got, err := store.CreateWindow(context.Background(), WeeklyWindow{
		DoctorID:            want.DoctorID,
		DayOfWeek:           want.DayOfWeek,
		StartTime:           want.StartTime,
		EndTime:             want.EndTime,
		SlotDurationMinutes: want.SlotDurationMinutes,
	})
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgStoreCreateWindow_DuplicateWeekday(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	w := testWindow()
	mock.ExpectQuery("INSERT INTO doctor_schedules").
		WithArgs(pgxmock.AnyArg(), w.DoctorID, w.DayOfWeek, w.StartTime, w.EndTime, w.SlotDurationMinutes).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	store := NewPgStore(mock)
	_, err = store.CreateWindow(context.Background(), WeeklyWindow{
		DoctorID:            w.DoctorID,
		DayOfWeek:           w.DayOfWeek,
		StartTime:           w.StartTime,
		EndTime:             w.EndTime,
		SlotDurationMinutes: w.SlotDurationMinutes,
	})
	assert.ErrorIs(t, err, ErrWindowExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgStoreCreateWindow_InvalidSkipsQuery(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewPgStore(mock)
	_, err = store.CreateWindow(context.Background(), WeeklyWindow{
		DoctorID:            uuid.New(),
		DayOfWeek:           3,
		StartTime:           "17:00",
		EndTime:             "09:00",
		SlotDurationMinutes: 30,
	})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet(), "invalid window must not reach the database")
}

func TestPgStoreUpdateWindow(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	want := testWindow()
	mock.ExpectQuery("UPDATE doctor_schedules").
		WithArgs(want.ID, want.DayOfWeek, want.StartTime, want.EndTime, want.SlotDurationMinutes).
		WillReturnRows(windowRow(want))

	store := NewPgStore(mock)
	got, err := store.UpdateWindow(context.Background(), want)
	require.NoError(t, err)
	assert.Equal(t, want.SlotDurationMinutes, got.SlotDurationMinutes)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgStoreDeleteWindow(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	mock.ExpectExec("DELETE FROM doctor_schedules").
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	store := NewPgStore(mock)
	require.NoError(t, store.DeleteWindow(context.Background(), id))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgStoreDeleteWindow_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	mock.ExpectExec("DELETE FROM doctor_schedules").
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	store := NewPgStore(mock)
	err = store.DeleteWindow(context.Background(), id)
	assert.ErrorIs(t, err, ErrWindowNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
