package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/medidir/clinic-booking-platform/internal/booking"
	"github.com/medidir/clinic-booking-platform/internal/directory"
	"github.com/medidir/clinic-booking-platform/internal/metrics"
	"github.com/medidir/clinic-booking-platform/internal/review"
	"github.com/medidir/clinic-booking-platform/internal/schedule"
)

type RouterConfig struct {
	Availability *booking.AvailabilityService
	Lifecycle    *booking.Lifecycle
	Bookings     booking.Store
	Schedules    schedule.Store
	Directory    directory.Store
	Reviews      review.Store
	PgPool       *pgxpool.Pool
	Redis        *redis.Client
	HTTPMetrics  *metrics.HTTPMetrics
	Logger       zerolog.Logger
	Env          string
	Version      string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Logger))
	r.Use(MetricsMiddleware(cfg.HTTPMetrics))
	r.Use(ActorMiddleware)

	// Health and metrics
	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// Scheduling engine
	r.Get("/doctors/{id}/slots", availableSlotsHandler(cfg.Availability))
	r.Post("/bookings", reserveHandler(cfg.Availability))
	r.Get("/bookings", listBookingsHandler(cfg.Bookings))
	r.Get("/bookings/{id}", getBookingHandler(cfg.Bookings))
	r.Post("/bookings/{id}/confirm", confirmHandler(cfg.Lifecycle))
	r.Post("/bookings/{id}/cancel", cancelHandler(cfg.Lifecycle))

	// Weekly schedules (provider dashboard)
	r.Get("/doctors/{id}/schedules", listSchedulesHandler(cfg.Schedules))
	r.Post("/doctors/{id}/schedules", createScheduleHandler(cfg.Schedules))
	r.Put("/schedules/{id}", updateScheduleHandler(cfg.Schedules))
	r.Delete("/schedules/{id}", deleteScheduleHandler(cfg.Schedules))

	// Directory
	r.Get("/facilities", listFacilitiesHandler(cfg.Directory))
	r.Post("/facilities", createFacilityHandler(cfg.Directory))
	r.Get("/facilities/{id}", getFacilityHandler(cfg.Directory))
	r.Put("/facilities/{id}", updateFacilityHandler(cfg.Directory))
	r.Get("/facilities/{id}/doctors", listClinicDoctorsHandler(cfg.Directory))
	r.Post("/facilities/{id}/doctors", linkDoctorHandler(cfg.Directory))
	r.Delete("/facilities/{id}/doctors/{doctorID}", unlinkDoctorHandler(cfg.Directory))
	r.Get("/doctors/search", searchDoctorsHandler(cfg.Directory))
	r.Post("/doctors", createDoctorHandler(cfg.Directory))
	r.Get("/cities", listCitiesHandler(cfg.Directory))
	r.Get("/specialties", listSpecialtiesHandler(cfg.Directory))

	// Reviews
	r.Get("/facilities/{id}/reviews", listReviewsHandler(cfg.Reviews))
	r.Post("/facilities/{id}/reviews", createReviewHandler(cfg.Reviews, cfg.Directory))
	r.Get("/facilities/{id}/rating", facilityRatingHandler(cfg.Reviews))

	return r
}
