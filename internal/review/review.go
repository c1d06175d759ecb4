package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/medidir/clinic-booking-platform/internal/directory"
)

var ErrReviewNotFound = errors.New("review not found")

// Review is patient feedback on a facility.
type Review struct {
	ID         uuid.UUID
	EntityID   uuid.UUID
	EntityType directory.FacilityType
	UserID     uuid.UUID
	Rating     int // 1..5
	Comment    string
	CreatedAt  time.Time
}

func (r Review) Validate() error {
	if r.EntityID == uuid.Nil {
		return fmt.Errorf("entity_id is required")
	}
	if r.UserID == uuid.Nil {
		return fmt.Errorf("user_id is required")
	}
	if r.Rating < 1 || r.Rating > 5 {
		return fmt.Errorf("rating must be in 1..5, got %d", r.Rating)
	}
	return nil
}

type Store interface {
	Create(ctx context.Context, r Review) (*Review, error)
	ListForEntity(ctx context.Context, entityID uuid.UUID) ([]Review, error)
	AverageRating(ctx context.Context, entityID uuid.UUID) (float64, int, error)
}

// DB is the subset of pgxpool.Pool the store needs.
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

const reviewColumns = `
	id, entity_id, entity_type, user_id, rating, comment, created_at`

func scanReview(row pgx.Row) (*Review, error) {
	var r Review

	err := row.Scan(
		&r.ID,
		&r.EntityID,
		&r.EntityType,
		&r.UserID,
		&r.Rating,
		&r.Comment,
		&r.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}

	return &r, nil
}

func (s *PgStore) Create(ctx context.Context, r Review) (*Review, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	id := r.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO reviews (id, entity_id, entity_type, user_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		RETURNING`+reviewColumns+`
	`, id, r.EntityID, r.EntityType, r.UserID, r.Rating, r.Comment)

	return scanReview(row)
}

func (s *PgStore) ListForEntity(ctx context.Context, entityID uuid.UUID) ([]Review, error) {
	rows, err := s.db.Query(ctx, `
		SELECT`+reviewColumns+`
		FROM reviews
		WHERE entity_id = $1
		ORDER BY created_at DESC
	`, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Review
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *r)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (s *PgStore) AverageRating(ctx context.Context, entityID uuid.UUID) (float64, int, error) {
	var avg float64
	var count int
	err := s.db.QueryRow(ctx, `
		SELECT COALESCE(AVG(rating), 0), COUNT(*)
		FROM reviews
		WHERE entity_id = $1
	`, entityID).Scan(&avg, &count)
	if err != nil {
		return 0, 0, err
	}
	return avg, count, nil
}
