package directory

import (
	"time"

	"github.com/google/uuid"
)

type FacilityType string

const (
	TypeClinic   FacilityType = "CLINIC"
	TypePharmacy FacilityType = "PHARMACY"
)

// Facility is a clinic or pharmacy listed in the directory. Names and
// descriptions are bilingual; which one renders is the UI's business.
type Facility struct {
	ID            uuid.UUID
	Type          FacilityType
	OwnerID       uuid.UUID
	NameEN        string
	NameAR        string
	CityID        int32
	LocationEN    *string
	LocationAR    *string
	LogoURL       *string
	ContactPhone  *string
	Services      []string
	DescriptionEN *string
	DescriptionAR *string
	IsVerified    bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Doctor works at one or more clinics via the clinic_doctors link table.
// SpecialtyIDs is the canonical representation; older consumers that only
// understood a single specialty read it through PrimarySpecialtyID.
type Doctor struct {
	ID           uuid.UUID
	NameEN       string
	NameAR       string
	SpecialtyIDs []int32
	Bio          *string
	PhotoURL     *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PrimarySpecialtyID is the derived single-specialty fallback. It is
// computed, never stored.
func (d Doctor) PrimarySpecialtyID() (int32, bool) {
	if len(d.SpecialtyIDs) == 0 {
		return 0, false
	}
	return d.SpecialtyIDs[0], true
}

type City struct {
	ID     int32
	NameEN string
	NameAR string
}

type Specialty struct {
	ID     int32
	NameEN string
	NameAR string
}
