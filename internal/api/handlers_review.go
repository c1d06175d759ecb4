package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/medidir/clinic-booking-platform/internal/directory"
	"github.com/medidir/clinic-booking-platform/internal/review"
)

func listReviewsHandler(reviews review.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entityID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_facility_id", "id must be a valid UUID")
			return
		}

		rows, err := reviews.ListForEntity(r.Context(), entityID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		resp := make([]ReviewResponse, 0, len(rows))
		for i := range rows {
			resp = append(resp, toReviewResponse(&rows[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func createReviewHandler(reviews review.Store, facilities directory.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entityID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_facility_id", "id must be a valid UUID")
			return
		}

		fac, err := facilities.GetFacility(r.Context(), entityID)
		if err != nil {
			if errors.Is(err, directory.ErrFacilityNotFound) {
				writeError(w, http.StatusNotFound, "facility_not_found", err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		var req ReviewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		userID, err := uuid.Parse(req.UserID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_user_id", "user_id must be a valid UUID")
			return
		}

		created, err := reviews.Create(r.Context(), review.Review{
			EntityID:   entityID,
			EntityType: fac.Type,
			UserID:     userID,
			Rating:     req.Rating,
			Comment:    req.Comment,
		})
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_review", err.Error())
			return
		}

		writeJSON(w, http.StatusCreated, toReviewResponse(created))
	}
}

func facilityRatingHandler(reviews review.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entityID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_facility_id", "id must be a valid UUID")
			return
		}

		avg, count, err := reviews.AverageRating(r.Context(), entityID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, RatingResponse{
			EntityID: entityID,
			Average:  avg,
			Count:    count,
		})
	}
}
