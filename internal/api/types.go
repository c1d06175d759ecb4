package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/medidir/clinic-booking-platform/internal/booking"
	"github.com/medidir/clinic-booking-platform/internal/directory"
	"github.com/medidir/clinic-booking-platform/internal/review"
	"github.com/medidir/clinic-booking-platform/internal/schedule"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02T15:04"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type SlotsResponse struct {
	DoctorID uuid.UUID `json:"doctor_id"`
	Date     string    `json:"date"`
	Slots    []string  `json:"slots"`
}

type ReserveRequest struct {
	ClinicID  string `json:"clinic_id"`
	DoctorID  string `json:"doctor_id,omitempty"`
	PatientID string `json:"patient_id"`
	Date      string `json:"date"`      // YYYY-MM-DD
	SlotTime  string `json:"slot_time"` // HH:MM
}

type BookingResponse struct {
	ID          uuid.UUID  `json:"id"`
	ClinicID    uuid.UUID  `json:"clinic_id"`
	DoctorID    *uuid.UUID `json:"doctor_id,omitempty"`
	PatientID   uuid.UUID  `json:"patient_id"`
	BookingTime string     `json:"booking_time"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:          b.ID,
		ClinicID:    b.ClinicID,
		DoctorID:    b.DoctorID,
		PatientID:   b.PatientID,
		BookingTime: b.BookingTime.Format(timestampLayout),
		Status:      string(b.Status),
		CreatedAt:   b.CreatedAt,
	}
}

type ScheduleRequest struct {
	DayOfWeek           int    `json:"day_of_week"` // Sat=0 .. Fri=6
	StartTime           string `json:"start_time"`  // HH:MM
	EndTime             string `json:"end_time"`    // HH:MM
	SlotDurationMinutes int    `json:"slot_duration_minutes"`
}

type ScheduleResponse struct {
	ID                  uuid.UUID `json:"id"`
	DoctorID            uuid.UUID `json:"doctor_id"`
	DayOfWeek           int       `json:"day_of_week"`
	StartTime           string    `json:"start_time"`
	EndTime             string    `json:"end_time"`
	SlotDurationMinutes int       `json:"slot_duration_minutes"`
}

func toScheduleResponse(w *schedule.WeeklyWindow) ScheduleResponse {
	return ScheduleResponse{
		ID:                  w.ID,
		DoctorID:            w.DoctorID,
		DayOfWeek:           w.DayOfWeek,
		StartTime:           w.StartTime,
		EndTime:             w.EndTime,
		SlotDurationMinutes: w.SlotDurationMinutes,
	}
}

type FacilityRequest struct {
	Type          string   `json:"type"`
	OwnerID       string   `json:"owner_id"`
	NameEN        string   `json:"name_en"`
	NameAR        string   `json:"name_ar"`
	CityID        int32    `json:"city_id"`
	LocationEN    *string  `json:"location_en,omitempty"`
	LocationAR    *string  `json:"location_ar,omitempty"`
	LogoURL       *string  `json:"logo_url,omitempty"`
	ContactPhone  *string  `json:"contact_phone,omitempty"`
	Services      []string `json:"services,omitempty"`
	DescriptionEN *string  `json:"description_en,omitempty"`
	DescriptionAR *string  `json:"description_ar,omitempty"`
}

type FacilityResponse struct {
	ID            uuid.UUID `json:"id"`
	Type          string    `json:"type"`
	OwnerID       uuid.UUID `json:"owner_id"`
	NameEN        string    `json:"name_en"`
	NameAR        string    `json:"name_ar"`
	CityID        int32     `json:"city_id"`
	LocationEN    *string   `json:"location_en,omitempty"`
	LocationAR    *string   `json:"location_ar,omitempty"`
	LogoURL       *string   `json:"logo_url,omitempty"`
	ContactPhone  *string   `json:"contact_phone,omitempty"`
	Services      []string  `json:"services,omitempty"`
	DescriptionEN *string   `json:"description_en,omitempty"`
	DescriptionAR *string   `json:"description_ar,omitempty"`
	IsVerified    bool      `json:"is_verified"`
	CreatedAt     time.Time `json:"created_at"`
}

func toFacilityResponse(f *directory.Facility) FacilityResponse {
	return FacilityResponse{
		ID:            f.ID,
		Type:          string(f.Type),
		OwnerID:       f.OwnerID,
		NameEN:        f.NameEN,
		NameAR:        f.NameAR,
		CityID:        f.CityID,
		LocationEN:    f.LocationEN,
		LocationAR:    f.LocationAR,
		LogoURL:       f.LogoURL,
		ContactPhone:  f.ContactPhone,
		Services:      f.Services,
		DescriptionEN: f.DescriptionEN,
		DescriptionAR: f.DescriptionAR,
		IsVerified:    f.IsVerified,
		CreatedAt:     f.CreatedAt,
	}
}

type DoctorRequest struct {
	NameEN       string  `json:"name_en"`
	NameAR       string  `json:"name_ar"`
	SpecialtyIDs []int32 `json:"specialty_ids"`
	Bio          *string `json:"bio,omitempty"`
	PhotoURL     *string `json:"photo_url,omitempty"`
}

// DoctorResponse carries the canonical specialty_ids array plus the
// derived singular specialty_id for consumers that predate the array.
type DoctorResponse struct {
	ID           uuid.UUID `json:"id"`
	NameEN       string    `json:"name_en"`
	NameAR       string    `json:"name_ar"`
	SpecialtyIDs []int32   `json:"specialty_ids"`
	SpecialtyID  *int32    `json:"specialty_id,omitempty"`
	Bio          *string   `json:"bio,omitempty"`
	PhotoURL     *string   `json:"photo_url,omitempty"`
}

func toDoctorResponse(d *directory.Doctor) DoctorResponse {
	resp := DoctorResponse{
		ID:           d.ID,
		NameEN:       d.NameEN,
		NameAR:       d.NameAR,
		SpecialtyIDs: d.SpecialtyIDs,
		Bio:          d.Bio,
		PhotoURL:     d.PhotoURL,
	}
	if primary, ok := d.PrimarySpecialtyID(); ok {
		resp.SpecialtyID = &primary
	}
	return resp
}

type ReviewRequest struct {
	UserID  string `json:"user_id"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type ReviewResponse struct {
	ID        uuid.UUID `json:"id"`
	EntityID  uuid.UUID `json:"entity_id"`
	UserID    uuid.UUID `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

func toReviewResponse(r *review.Review) ReviewResponse {
	return ReviewResponse{
		ID:        r.ID,
		EntityID:  r.EntityID,
		UserID:    r.UserID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}

type RatingResponse struct {
	EntityID uuid.UUID `json:"entity_id"`
	Average  float64   `json:"average"`
	Count    int       `json:"count"`
}
