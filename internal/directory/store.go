package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrFacilityNotFound = errors.New("facility not found")
	ErrDoctorNotFound   = errors.New("doctor not found")
)

// FacilityFilter narrows ListFacilities. Zero values mean "no filter".
type FacilityFilter struct {
	Type   FacilityType
	CityID int32
	Query  string // matches either bilingual name, case-insensitive
	Limit  int
	Offset int
}

// Store is the directory's data access: facilities, doctors and the links
// between them. Plain CRUD; the scheduling engine only relies on
// ClinicOwner for ownership checks.
type Store interface {
	GetFacility(ctx context.Context, id uuid.UUID) (*Facility, error)
	ListFacilities(ctx context.Context, f FacilityFilter) ([]Facility, error)
	CreateFacility(ctx context.Context, fac Facility) (*Facility, error)
	UpdateFacility(ctx context.Context, fac Facility) (*Facility, error)
	ClinicOwner(ctx context.Context, clinicID uuid.UUID) (uuid.UUID, error)

	GetDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error)
	SearchDoctors(ctx context.Context, query string, limit int) ([]Doctor, error)
	CreateDoctor(ctx context.Context, d Doctor) (*Doctor, error)
	ListClinicDoctors(ctx context.Context, clinicID uuid.UUID) ([]Doctor, error)
	LinkDoctor(ctx context.Context, clinicID, doctorID uuid.UUID) error
	UnlinkDoctor(ctx context.Context, clinicID, doctorID uuid.UUID) error

	ListCities(ctx context.Context) ([]City, error)
	ListSpecialties(ctx context.Context) ([]Specialty, error)
}

func (f Facility) Validate() error {
	if f.Type != TypeClinic && f.Type != TypePharmacy {
		return fmt.Errorf("facility type must be CLINIC or PHARMACY, got %q", f.Type)
	}
	if f.OwnerID == uuid.Nil {
		return fmt.Errorf("owner_id is required")
	}
	if f.NameEN == "" && f.NameAR == "" {
		return fmt.Errorf("at least one of name_en, name_ar is required")
	}
	return nil
}
