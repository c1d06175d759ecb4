package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

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

const facilityColumns = `
	id, type, owner_id, name_en, name_ar, city_id, location_en, location_ar,
	logo_url, contact_phone, services, description_en, description_ar,
	is_verified, created_at, updated_at`

func scanFacility(row pgx.Row) (*Facility, error) {
	var f Facility

	err := row.Scan(
		&f.ID,
		&f.Type,
		&f.OwnerID,
		&f.NameEN,
		&f.NameAR,
		&f.CityID,
		&f.LocationEN,
		&f.LocationAR,
		&f.LogoURL,
		&f.ContactPhone,
		&f.Services,
		&f.DescriptionEN,
		&f.DescriptionAR,
		&f.IsVerified,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFacilityNotFound
		}
		return nil, err
	}

	return &f, nil
}

const doctorColumns = `
	id, name_en, name_ar, specialty_ids, bio, photo_url, created_at, updated_at`

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor

	err := row.Scan(
		&d.ID,
		&d.NameEN,
		&d.NameAR,
		&d.SpecialtyIDs,
		&d.Bio,
		&d.PhotoURL,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}

	return &d, nil
}

func (s *PgStore) GetFacility(ctx context.Context, id uuid.UUID) (*Facility, error) {
	row := s.db.QueryRow(ctx, `
		SELECT`+facilityColumns+`
		FROM facilities
		WHERE id = $1
	`, id)
	return scanFacility(row)
}

func (s *PgStore) ListFacilities(ctx context.Context, f FacilityFilter) ([]Facility, error) {
	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	var (
		conds []string
		args  []any
	)
	if f.Type != "" {
		args = append(args, string(f.Type))
		conds = append(conds, fmt.Sprintf("type = $%d", len(args)))
	}
	if f.CityID != 0 {
		args = append(args, f.CityID)
		conds = append(conds, fmt.Sprintf("city_id = $%d", len(args)))
	}
	if f.Query != "" {
		args = append(args, "%"+f.Query+"%")
		conds = append(conds, fmt.Sprintf("(name_en ILIKE $%d OR name_ar ILIKE $%d)", len(args), len(args)))
	}

	query := `SELECT` + facilityColumns + ` FROM facilities`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Facility
	for rows.Next() {
		fac, err := scanFacility(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *fac)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (s *PgStore) CreateFacility(ctx context.Context, fac Facility) (*Facility, error) {
	if err := fac.Validate(); err != nil {
		return nil, err
	}

	id := fac.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO facilities (id, type, owner_id, name_en, name_ar, city_id, location_en, location_ar,
		                        logo_url, contact_phone, services, description_en, description_ar,
		                        is_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, now(), now())
		RETURNING`+facilityColumns+`
	`, id, fac.Type, fac.OwnerID, fac.NameEN, fac.NameAR, fac.CityID, fac.LocationEN, fac.LocationAR,
		fac.LogoURL, fac.ContactPhone, fac.Services, fac.DescriptionEN, fac.DescriptionAR, fac.IsVerified)

	return scanFacility(row)
}

func (s *PgStore) UpdateFacility(ctx context.Context, fac Facility) (*Facility, error) {
	if err := fac.Validate(); err != nil {
		return nil, err
	}

	row := s.db.QueryRow(ctx, `
		UPDATE facilities
		SET name_en = $2, name_ar = $3, city_id = $4, location_en = $5, location_ar = $6,
		    logo_url = $7, contact_phone = $8, services = $9, description_en = $10,
		    description_ar = $11, updated_at = now()
		WHERE id = $1
		RETURNING`+facilityColumns+`
	`, fac.ID, fac.NameEN, fac.NameAR, fac.CityID, fac.LocationEN, fac.LocationAR,
		fac.LogoURL, fac.ContactPhone, fac.Services, fac.DescriptionEN, fac.DescriptionAR)

	return scanFacility(row)
}

func (s *PgStore) ClinicOwner(ctx context.Context, clinicID uuid.UUID) (uuid.UUID, error) {
	var owner uuid.UUID
	err := s.db.QueryRow(ctx, `
		SELECT owner_id FROM facilities WHERE id = $1
	`, clinicID).Scan(&owner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, ErrFacilityNotFound
		}
		return uuid.Nil, err
	}
	return owner, nil
}

func (s *PgStore) GetDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	row := s.db.QueryRow(ctx, `
		SELECT`+doctorColumns+`
		FROM doctors
		WHERE id = $1
	`, id)
	return scanDoctor(row)
}

func (s *PgStore) SearchDoctors(ctx context.Context, query string, limit int) ([]Doctor, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	rows, err := s.db.Query(ctx, `
		SELECT`+doctorColumns+`
		FROM doctors
		WHERE name_en ILIKE $1 OR name_ar ILIKE $1
		ORDER BY name_en
		LIMIT $2
	`, "%"+query+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectDoctors(rows)
}

func (s *PgStore) CreateDoctor(ctx context.Context, d Doctor) (*Doctor, error) {
	id := d.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO doctors (id, name_en, name_ar, specialty_ids, bio, photo_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		RETURNING`+doctorColumns+`
	`, id, d.NameEN, d.NameAR, d.SpecialtyIDs, d.Bio, d.PhotoURL)

	return scanDoctor(row)
}

func (s *PgStore) ListClinicDoctors(ctx context.Context, clinicID uuid.UUID) ([]Doctor, error) {
	rows, err := s.db.Query(ctx, `
		SELECT d.id, d.name_en, d.name_ar, d.specialty_ids, d.bio, d.photo_url, d.created_at, d.updated_at
		FROM doctors d
		JOIN clinic_doctors cd ON cd.doctor_id = d.id
		WHERE cd.clinic_id = $1
		ORDER BY d.name_en
	`, clinicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectDoctors(rows)
}

func (s *PgStore) LinkDoctor(ctx context.Context, clinicID, doctorID uuid.UUID) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO clinic_doctors (clinic_id, doctor_id)
		VALUES ($1, $2)
		ON CONFLICT (clinic_id, doctor_id) DO NOTHING
	`, clinicID, doctorID)
	return err
}

func (s *PgStore) UnlinkDoctor(ctx context.Context, clinicID, doctorID uuid.UUID) error {
	_, err := s.db.Exec(ctx, `
		DELETE FROM clinic_doctors
		WHERE clinic_id = $1 AND doctor_id = $2
	`, clinicID, doctorID)
	return err
}

func (s *PgStore) ListCities(ctx context.Context) ([]City, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name_en, name_ar FROM cities ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []City
	for rows.Next() {
		var c City
		if err := rows.Scan(&c.ID, &c.NameEN, &c.NameAR); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (s *PgStore) ListSpecialties(ctx context.Context) ([]Specialty, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name_en, name_ar FROM specialties ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Specialty
	for rows.Next() {
		var sp Specialty
		if err := rows.Scan(&sp.ID, &sp.NameEN, &sp.NameAR); err != nil {
			return nil, err
		}
		result = append(result, sp)
	}
	return result, rows.Err()
}

func collectDoctors(rows pgx.Rows) ([]Doctor, error) {
	var result []Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
