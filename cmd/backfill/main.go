// Command backfill resolves tax rates for orders that were imported but never
// fetched through the API. It pages through unresolved orders and runs them
// through the same engine chain the server uses.
// Usage: go run ./cmd/backfill
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"taxpoint/internal/cache/mem"
	"taxpoint/internal/config"
	"taxpoint/internal/geocode/cached"
	"taxpoint/internal/geocode/nominatim"
	"taxpoint/internal/port"
	"taxpoint/internal/rates"
	"taxpoint/internal/repository/postgres"
	"taxpoint/internal/service"
	"taxpoint/internal/taxengine"
	"taxpoint/internal/taxengine/local"
	"taxpoint/internal/taxengine/remote"
)

const batchSize = 100

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer func() { _ = db.Close() }()

	orderRepo := postgres.NewOrderRepo(db)

	norm := rates.NewDefaultNormalizer()
	table := rates.Load(cfg.Rates.CSVPath, norm)
	calc := taxengine.NewCalculator(cfg.Rates.DefaultRate)

	geocoder := cached.NewGeocoder(
		nominatim.NewClient(cfg.Geocoder.BaseURL, cfg.Geocoder.UserAgent,
			time.Duration(cfg.Geocoder.TimeoutSecs)*time.Second),
		mem.NewCache(), cfg.GeoCache.TTL)

	var engines []port.TaxEngine
	var names []string
	if cfg.Engine.UseRemote && cfg.Engine.ScriptPath != "" {
		engines = append(engines, remote.NewEngine(cfg.Engine.Command, cfg.Engine.ScriptPath,
			time.Duration(cfg.Engine.TimeoutSecs)*time.Second, calc))
		names = append(names, "remote")
	}
	engines = append(engines, local.NewEngine(geocoder, table, norm, calc))
	names = append(names, "local")

	resolver := service.NewOrderResolver(orderRepo, taxengine.NewFallbackEngine(engines, names, calc), cfg.Resolver.Concurrency)

	ctx := context.Background()
	total := 0
	for {
		orders, err := orderRepo.ListUnresolved(ctx, batchSize)
		if err != nil {
			return fmt.Errorf("listing unresolved orders: %w", err)
		}
		if len(orders) == 0 {
			break
		}

		resolved, err := resolver.EnsureResolvedBatch(ctx, orders)
		if err != nil {
			return fmt.Errorf("resolving batch: %w", err)
		}

		progressed := 0
		for i := range resolved {
			if resolved[i].Resolved() {
				progressed++
			}
		}
		if progressed == 0 {
			log.Printf("WARN: no orders resolved in this batch, stopping")
			break
		}
		total += progressed
		log.Printf("resolved %d orders so far", total)
	}

	log.Printf("backfill complete: %d orders resolved", total)
	return nil
}
