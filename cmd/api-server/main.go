package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/medidir/clinic-booking-platform/internal/api"
	"github.com/medidir/clinic-booking-platform/internal/booking"
	"github.com/medidir/clinic-booking-platform/internal/config"
	"github.com/medidir/clinic-booking-platform/internal/db"
	"github.com/medidir/clinic-booking-platform/internal/directory"
	"github.com/medidir/clinic-booking-platform/internal/logging"
	"github.com/medidir/clinic-booking-platform/internal/metrics"
	redisclient "github.com/medidir/clinic-booking-platform/internal/redis"
	"github.com/medidir/clinic-booking-platform/internal/review"
	"github.com/medidir/clinic-booking-platform/internal/schedule"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("config load error")
	}

	logger := logging.New(cfg.LogLevel, cfg.Env)
	logger.Info().Str("env", cfg.Env).Str("http_port", cfg.HTTPPort).Msg("api-server starting up")

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect Postgres
	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connection error")
	}
	defer pgPool.Close()
	logger.Info().Msg("connected to Postgres")

	// Connect Redis
	rdb, err := redisclient.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connection error")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			logger.Error().Err(err).Msg("error closing redis")
		}
	}()
	logger.Info().Msg("connected to Redis")

	bookingMetrics := metrics.NewBookingMetrics(prometheus.DefaultRegisterer)
	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

	scheduleStore := schedule.NewPgStore(pgPool)
	bookingStore := booking.NewPgStore(pgPool)
	directoryStore := directory.NewPgStore(pgPool)
	reviewStore := review.NewPgStore(pgPool)

	locker := redisclient.NewRedisSlotLocker(rdb, cfg.LockTTL)
	availability := booking.NewAvailabilityService(scheduleStore, bookingStore, locker, bookingMetrics, logger)
	lifecycle := booking.NewLifecycle(bookingStore, directoryStore, bookingMetrics, logger)

	router := api.NewRouter(api.RouterConfig{
		Availability: availability,
		Lifecycle:    lifecycle,
		Bookings:     bookingStore,
		Schedules:    scheduleStore,
		Directory:    directoryStore,
		Reviews:      reviewStore,
		PgPool:       pgPool,
		Redis:        rdb,
		HTTPMetrics:  httpMetrics,
		Logger:       logger,
		Env:          cfg.Env,
		Version:      version,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server error")
		}
	}()

	<-rootCtx.Done()
	logger.Info().Msg("shutting down api-server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
