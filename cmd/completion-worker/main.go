package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/medidir/clinic-booking-platform/internal/booking"
	"github.com/medidir/clinic-booking-platform/internal/config"
	"github.com/medidir/clinic-booking-platform/internal/db"
	"github.com/medidir/clinic-booking-platform/internal/directory"
	"github.com/medidir/clinic-booking-platform/internal/logging"
)

// The completion worker sweeps CONFIRMED bookings whose time has passed
// and marks them COMPLETED. It is the only writer of the COMPLETED state.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("config load error")
	}

	logger := logging.New(cfg.LogLevel, cfg.Env)
	logger.Info().Str("env", cfg.Env).Dur("interval", cfg.WorkerInterval).Msg("completion-worker starting up")

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connection error")
	}
	defer pgPool.Close()
	logger.Info().Msg("connected to Postgres")

	bookingStore := booking.NewPgStore(pgPool)
	directoryStore := directory.NewPgStore(pgPool)
	lifecycle := booking.NewLifecycle(bookingStore, directoryStore, nil, logger)

	// Run once at startup
	runOnce(rootCtx, lifecycle, logger)

	ticker := time.NewTicker(cfg.WorkerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rootCtx.Done():
			logger.Info().Msg("shutdown signal received, stopping completion worker")
			return
		case <-ticker.C:
			runOnce(rootCtx, lifecycle, logger)
		}
	}
}

func runOnce(ctx context.Context, lc *booking.Lifecycle, logger zerolog.Logger) {
	runCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	start := time.Now()
	if err := lc.CompleteElapsed(runCtx); err != nil {
		logger.Error().Err(err).Msg("completion run error")
		return
	}
	logger.Info().Dur("took", time.Since(start)).Msg("completion run complete")
}
