package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/medidir/clinic-booking-platform/internal/schedule"
)

func listSchedulesHandler(store schedule.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctorID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_doctor_id", "id must be a valid UUID")
			return
		}

		windows, err := store.ListWindows(r.Context(), doctorID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		resp := make([]ScheduleResponse, 0, len(windows))
		for i := range windows {
			resp = append(resp, toScheduleResponse(&windows[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func createScheduleHandler(store schedule.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctorID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_doctor_id", "id must be a valid UUID")
			return
		}

		var req ScheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		created, err := store.CreateWindow(r.Context(), schedule.WeeklyWindow{
			DoctorID:            doctorID,
			DayOfWeek:           req.DayOfWeek,
			StartTime:           req.StartTime,
			EndTime:             req.EndTime,
			SlotDurationMinutes: req.SlotDurationMinutes,
		})
		if err != nil {
			handleScheduleError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toScheduleResponse(created))
	}
}

func updateScheduleHandler(store schedule.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_schedule_id", "id must be a valid UUID")
			return
		}

		var req ScheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		updated, err := store.UpdateWindow(r.Context(), schedule.WeeklyWindow{
			ID:                  id,
			DayOfWeek:           req.DayOfWeek,
			StartTime:           req.StartTime,
			EndTime:             req.EndTime,
			SlotDurationMinutes: req.SlotDurationMinutes,
		})
		if err != nil {
			handleScheduleError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toScheduleResponse(updated))
	}
}

func deleteScheduleHandler(store schedule.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_schedule_id", "id must be a valid UUID")
			return
		}

		if err := store.DeleteWindow(r.Context(), id); err != nil {
			handleScheduleError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func handleScheduleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, schedule.ErrWindowNotFound):
		writeError(w, http.StatusNotFound, "schedule_not_found", err.Error())
	case errors.Is(err, schedule.ErrWindowExists):
		writeError(w, http.StatusConflict, "schedule_exists", err.Error())
	default:
		writeError(w, http.StatusBadRequest, "invalid_schedule", err.Error())
	}
}
