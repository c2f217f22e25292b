package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"venue-guide/internal/api"
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
	syncOnStart := flag.Bool("sync-on-start", true, "Sync the catalog at startup when the cache is empty")
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

	cfg.StaticDir = resolveDir(cfg.StaticDir)

	logger.Info("starting",
		zap.String("db", cfg.DBPath),
		zap.String("static", cfg.StaticDir),
		zap.String("backend", cfg.BackendURL),
		zap.Any("observer", cfg.Observer),
	)

	// Initialize database
	database, err := db.New(cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer database.Close()

	client := backend.New(cfg.BackendURL)
	geocoder := geo.NewGeocoder(cfg.Geocoder.URL, cfg.Geocoder.CountryCodes)

	var router *geo.Router
	if cfg.Routing.Enabled {
		router = geo.NewRouter(cfg.Routing.URL, cfg.Routing.Costing).WithOrigin(cfg.Observer)
	}

	syncCfg := catalog.DefaultConfig()
	syncCfg.Token = cfg.Sync.Token
	syncCfg.FillMissing = cfg.Geocoder.FillMissing
	syncCfg.GeocodeDelay = cfg.Geocoder.Delay
	syncer := catalog.New(client, database, geocoder, logger.Named("catalog"), syncCfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handlers := api.NewHandlers(api.Options{
		DB:       database,
		Backend:  client,
		Syncer:   syncer,
		Geocoder: geocoder,
		Router:   router,
		Observer: cfg.Observer,
		Logger:   logger.Named("http"),
		Context:  ctx,
	})

	if *syncOnStart {
		if count, err := database.GetVenueCount(ctx); err == nil && count == 0 {
			if _, err := syncer.Run(ctx); err != nil {
				logger.Warn("initial sync failed, serving empty cache", zap.Error(err))
			}
		}
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handlers.Routes(cfg.StaticDir, cfg.MapAPIKey),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	// Start server
	logger.Info("listening", zap.String("addr", "http://localhost"+srv.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server failed", zap.Error(err))
	}

	handlers.Wait()
}

// resolveDir finds dir next to the executable, falling back to the working
// directory for development
func resolveDir(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	if execPath, err := os.Executable(); err == nil {
		baseDir := filepath.Dir(filepath.Dir(execPath))
		candidate := filepath.Join(baseDir, dir)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	cwd, _ := os.Getwd()
	return filepath.Join(cwd, dir)
}
