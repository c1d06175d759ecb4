package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/medidir/clinic-booking-platform/internal/directory"
)

func listFacilitiesHandler(store directory.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		filter := directory.FacilityFilter{
			Type:   directory.FacilityType(q.Get("type")),
			CityID: int32(intQuery(r, "city_id", 0)),
			Query:  q.Get("q"),
			Limit:  intQuery(r, "limit", 50),
			Offset: intQuery(r, "offset", 0),
		}

		facilities, err := store.ListFacilities(r.Context(), filter)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		resp := make([]FacilityResponse, 0, len(facilities))
		for i := range facilities {
			resp = append(resp, toFacilityResponse(&facilities[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func getFacilityHandler(store directory.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_facility_id", "id must be a valid UUID")
			return
		}

		f, err := store.GetFacility(r.Context(), id)
		if err != nil {
			handleDirectoryError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toFacilityResponse(f))
	}
}

func createFacilityHandler(store directory.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req FacilityRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		ownerID, err := uuid.Parse(req.OwnerID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_owner_id", "owner_id must be a valid UUID")
			return
		}

		created, err := store.CreateFacility(r.Context(), directory.Facility{
			Type:          directory.FacilityType(req.Type),
			OwnerID:       ownerID,
			NameEN:        req.NameEN,
			NameAR:        req.NameAR,
			CityID:        req.CityID,
			LocationEN:    req.LocationEN,
			LocationAR:    req.LocationAR,
			LogoURL:       req.LogoURL,
			ContactPhone:  req.ContactPhone,
			Services:      req.Services,
			DescriptionEN: req.DescriptionEN,
			DescriptionAR: req.DescriptionAR,
		})
		if err != nil {
			handleDirectoryError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toFacilityResponse(created))
	}
}

func updateFacilityHandler(store directory.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_facility_id", "id must be a valid UUID")
			return
		}

		existing, err := store.GetFacility(r.Context(), id)
		if err != nil {
			handleDirectoryError(w, err)
			return
		}

		var req FacilityRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		existing.NameEN = req.NameEN
		existing.NameAR = req.NameAR
		existing.CityID = req.CityID
		existing.LocationEN = req.LocationEN
		existing.LocationAR = req.LocationAR
		existing.LogoURL = req.LogoURL
		existing.ContactPhone = req.ContactPhone
		existing.Services = req.Services
		existing.DescriptionEN = req.DescriptionEN
		existing.DescriptionAR = req.DescriptionAR

		updated, err := store.UpdateFacility(r.Context(), *existing)
		if err != nil {
			handleDirectoryError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toFacilityResponse(updated))
	}
}

func listClinicDoctorsHandler(store directory.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clinicID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_facility_id", "id must be a valid UUID")
			return
		}

		doctors, err := store.ListClinicDoctors(r.Context(), clinicID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		resp := make([]DoctorResponse, 0, len(doctors))
		for i := range doctors {
			resp = append(resp, toDoctorResponse(&doctors[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func linkDoctorHandler(store directory.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clinicID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_facility_id", "id must be a valid UUID")
			return
		}

		var req struct {
			DoctorID string `json:"doctor_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		doctorID, err := uuid.Parse(req.DoctorID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_doctor_id", "doctor_id must be a valid UUID")
			return
		}

		if err := store.LinkDoctor(r.Context(), clinicID, doctorID); err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func unlinkDoctorHandler(store directory.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clinicID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_facility_id", "id must be a valid UUID")
			return
		}

		doctorID, err := uuid.Parse(chi.URLParam(r, "doctorID"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_doctor_id", "doctorID must be a valid UUID")
			return
		}

		if err := store.UnlinkDoctor(r.Context(), clinicID, doctorID); err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func searchDoctorsHandler(store directory.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctors, err := store.SearchDoctors(r.Context(), r.URL.Query().Get("q"), intQuery(r, "limit", 20))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		resp := make([]DoctorResponse, 0, len(doctors))
		for i := range doctors {
			resp = append(resp, toDoctorResponse(&doctors[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func createDoctorHandler(store directory.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DoctorRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		if req.NameEN == "" && req.NameAR == "" {
			writeError(w, http.StatusBadRequest, "invalid_doctor", "at least one of name_en, name_ar is required")
			return
		}

		created, err := store.CreateDoctor(r.Context(), directory.Doctor{
			NameEN:       req.NameEN,
			NameAR:       req.NameAR,
			SpecialtyIDs: req.SpecialtyIDs,
			Bio:          req.Bio,
			PhotoURL:     req.PhotoURL,
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusCreated, toDoctorResponse(created))
	}
}

func listCitiesHandler(store directory.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cities, err := store.ListCities(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, cities)
	}
}

func listSpecialtiesHandler(store directory.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		specialties, err := store.ListSpecialties(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, specialties)
	}
}

func handleDirectoryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, directory.ErrFacilityNotFound):
		writeError(w, http.StatusNotFound, "facility_not_found", err.Error())
	case errors.Is(err, directory.ErrDoctorNotFound):
		writeError(w, http.StatusNotFound, "doctor_not_found", err.Error())
	default:
		writeError(w, http.StatusBadRequest, "invalid_facility", err.Error())
	}
}
