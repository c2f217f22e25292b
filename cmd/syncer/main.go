package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"venue-guide/internal/backend"
	"venue-guide/internal/catalog"
	"venue-guide/internal/config"
	"venue-guide/internal/db"
	"venue-guide/internal/geo"
	"venue-guide/internal/logging"
)

func main() {
	// Parse command line flags
	configPath := config.RegisterFlags(flag.CommandLine)
	once := flag.Bool("once", false, "Run a single sync and exit")
	delay := flag.Duration("delay", 0, "Delay between geocoding requests (default from config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err == nil {
		err = cfg.ApplyFlags(flag.CommandLine)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("using database", zap.String("db", cfg.DBPath))

	// Initialize database
	database, err := db.New(cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer database.Close()

	// Configure syncer
	syncCfg := catalog.DefaultConfig()
	syncCfg.Token = cfg.Sync.Token
	syncCfg.FillMissing = cfg.Geocoder.FillMissing
	syncCfg.GeocodeDelay = cfg.Geocoder.Delay
	if *delay > 0 {
		syncCfg.GeocodeDelay = *delay
	}

	s := catalog.New(
		backend.New(cfg.BackendURL),
		database,
		geo.NewGeocoder(cfg.Geocoder.URL, cfg.Geocoder.CountryCodes),
		logger.Named("catalog"),
		syncCfg,
	)

	// Cancel on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *once {
		if _, err := s.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Fatal("sync failed", zap.Error(err))
		}
		return
	}

	logger.Info("syncing periodically", zap.Duration("interval", cfg.Sync.Interval))
	ticker := time.NewTicker(cfg.Sync.Interval)
	defer ticker.Stop()

	for {
		// Failures are recorded in sync_runs; the next tick retries
		s.Run(ctx)

		select {
		case <-ctx.Done():
			logger.Info("sync loop stopped")
			return
		case <-ticker.C:
		}
	}
}
