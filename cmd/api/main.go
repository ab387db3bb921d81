package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stakeholder_map_backend/internal/adapters"
	"stakeholder_map_backend/internal/feedback"
	apphttp "stakeholder_map_backend/internal/http"
	"stakeholder_map_backend/internal/http/router"
	"stakeholder_map_backend/internal/maps"
	"stakeholder_map_backend/internal/regions"
	"stakeholder_map_backend/internal/stakeholders"
	"stakeholder_map_backend/migrations"
	"stakeholder_map_backend/platform/config"
	"stakeholder_map_backend/platform/db"
	"stakeholder_map_backend/platform/logger"
	"stakeholder_map_backend/platform/metrics"
	"stakeholder_map_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, migrations.FS)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete", "enabled", cfg.MigrationsEnabled)

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	appMetrics := metrics.New()

	geocodeCache, closeCache := maps.NewCache(ctx, cfg, log)
	defer func() {
		_ = closeCache()
	}()

	val := validator.New()

	// ========================================================================
	// Domain Modules
	// ========================================================================

	mapsService := maps.NewServiceFromConfig(cfg, cfg.GetGeocodeCacheTTL(), geocodeCache, appMetrics, log)
	mapsModule := maps.NewModule(mapsService, cfg)

	regionsModule, err := regions.NewModule(cfg, log)
	if err != nil {
		log.Error("failed to load region catalog", "error", err)
		panic("failed to load region catalog: " + err.Error())
	}

	stakeholdersModule, err := stakeholders.NewModule(pool, stakeholders.Dependencies{
		Geocoder: adapters.NewGeocoderAdapter(mapsService),
		Regions:  regionsModule.Catalog(),
		Drops:    appMetrics,
	}, val, cfg, log)
	if err != nil {
		log.Error("failed to initialize stakeholders module", "error", err)
		panic("failed to initialize stakeholders module: " + err.Error())
	}

	feedbackModule, err := feedback.NewModule(pool, val, log)
	if err != nil {
		log.Error("failed to initialize feedback module", "error", err)
		panic("failed to initialize feedback module: " + err.Error())
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:  cfg,
		Logger:  log,
		Health:  db.NewPoolAdapter(pool),
		Metrics: appMetrics,
		Modules: []apphttp.Module{
			stakeholdersModule,
			feedbackModule,
			regionsModule,
			mapsModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
