package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stakeholder_map_backend/internal/adapters"
	"stakeholder_map_backend/internal/maps"
	"stakeholder_map_backend/internal/regions"
	"stakeholder_map_backend/internal/stakeholders"
	"stakeholder_map_backend/internal/stakeholders/service"
	"stakeholder_map_backend/platform/config"
	"stakeholder_map_backend/platform/db"
	"stakeholder_map_backend/platform/logger"
	"stakeholder_map_backend/platform/metrics"
	"stakeholder_map_backend/platform/validator"
)

func main() {
	batchSize := flag.Int("batch", 25, "rows fetched per batch")
	pace := flag.Duration("pace", time.Second, "pause after each geocoder call")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting stakeholder geocode backfill", "batch", *batchSize, "pace", pace.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	geocodeCache, closeCache := maps.NewCache(ctx, cfg, log)
	defer func() {
		_ = closeCache()
	}()

	appMetrics := metrics.New()
	mapsService := maps.NewServiceFromConfig(cfg, cfg.GetGeocodeCacheTTL(), geocodeCache, appMetrics, log)

	regionsModule, err := regions.NewModule(cfg, log)
	if err != nil {
		log.Error("failed to load region catalog", "error", err)
		panic("failed to load region catalog: " + err.Error())
	}

	module, err := stakeholders.NewModule(pool, stakeholders.Dependencies{
		Geocoder: adapters.NewGeocoderAdapter(mapsService),
		Regions:  regionsModule.Catalog(),
		Drops:    appMetrics,
	}, validator.New(), cfg, log)
	if err != nil {
		log.Error("failed to initialize stakeholders module", "error", err)
		panic("failed to initialize stakeholders module: " + err.Error())
	}

	result, err := module.Service().BackfillLocations(ctx, service.BackfillOptions{
		BatchSize: *batchSize,
		Pace:      *pace,
	})
	if errors.Is(err, context.Canceled) {
		log.Info("geocode backfill interrupted", "updated", result.Updated, "failed", result.Failed)
		return
	}
	if err != nil {
		log.Error("geocode backfill aborted", "error", err, "updated", result.Updated, "failed", result.Failed)
		panic("geocode backfill aborted: " + err.Error())
	}
	log.Info("geocode backfill finished", "updated", result.Updated, "failed", result.Failed)
}
