package main

import (
	"fmt"
	"log"
	"time"

	"taxpoint/internal/cache/mem"
	rediscache "taxpoint/internal/cache/redis"
	"taxpoint/internal/config"
	"taxpoint/internal/email/noop"
	"taxpoint/internal/email/ses"
	"taxpoint/internal/geocode/cached"
	"taxpoint/internal/geocode/nominatim"
	"taxpoint/internal/handler"
	"taxpoint/internal/port"
	"taxpoint/internal/rates"
	"taxpoint/internal/repository/postgres"
	"taxpoint/internal/router"
	"taxpoint/internal/service"
	s3storage "taxpoint/internal/storage/s3"
	"taxpoint/internal/taxengine"
	"taxpoint/internal/taxengine/local"
	"taxpoint/internal/taxengine/remote"
)

// @title Taxpoint API
// @version 1.0
// @description Jurisdiction resolution and composite sales tax calculation for orders.
// @BasePath /api/v1
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	orderRepo := postgres.NewOrderRepo(db)
	statsRepo := postgres.NewStatsRepo(db)

	// Rate table and tax engines
	norm := rates.NewDefaultNormalizer()
	table := rates.Load(cfg.Rates.CSVPath, norm)
	calc := taxengine.NewCalculator(cfg.Rates.DefaultRate)

	geocoder, err := buildGeocoder(cfg)
	if err != nil {
		return err
	}
	engine := buildEngine(cfg, geocoder, table, norm, calc)

	// Resolver and services
	resolver := service.NewOrderResolver(orderRepo, engine, cfg.Resolver.Concurrency)
	orderSvc := service.NewOrderService(orderRepo, resolver)
	statsSvc := service.NewStatsService(statsRepo)

	var storage port.ObjectStorage
	if cfg.Archive.Provider == "s3" {
		storage, err = s3storage.NewS3Client(&cfg.Archive)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	}

	var emailSender port.EmailSender
	switch cfg.Email.Provider {
	case "ses":
		emailSender, err = ses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	default:
		emailSender = noop.NewNoopSender()
	}

	importSvc := service.NewImportService(orderRepo, storage, emailSender, service.ImportConfig{
		ArchivePrefix: cfg.Archive.Prefix,
		NotifyAddress: cfg.Email.NotifyAddress,
	})

	// Initialize handlers
	orderH := handler.NewOrderHandler(orderSvc, importSvc)
	statsH := handler.NewStatsHandler(statsSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(cfg, orderH, statsH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// buildGeocoder wires the Nominatim client behind the configured cache backend.
func buildGeocoder(cfg *config.Config) (port.Geocoder, error) {
	client := nominatim.NewClient(
		cfg.Geocoder.BaseURL,
		cfg.Geocoder.UserAgent,
		time.Duration(cfg.Geocoder.TimeoutSecs)*time.Second,
	)

	switch cfg.GeoCache.Backend {
	case "redis":
		cache, err := rediscache.NewCache(cfg.GeoCache.RedisAddr, cfg.GeoCache.RedisPassword, cfg.GeoCache.RedisDB)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis cache: %w", err)
		}
		return cached.NewGeocoder(client, cache, cfg.GeoCache.TTL), nil
	case "none":
		return client, nil
	default:
		return cached.NewGeocoder(client, mem.NewCache(), cfg.GeoCache.TTL), nil
	}
}

// buildEngine assembles the tiered engine chain: optional out-of-process
// engine first, then the in-process one, with the default rate as the floor.
func buildEngine(cfg *config.Config, geocoder port.Geocoder, table *rates.Table, norm *rates.Normalizer, calc *taxengine.Calculator) port.TaxEngine {
	var engines []port.TaxEngine
	var names []string

	if cfg.Engine.UseRemote && cfg.Engine.ScriptPath != "" {
		engines = append(engines, remote.NewEngine(
			cfg.Engine.Command,
			cfg.Engine.ScriptPath,
			time.Duration(cfg.Engine.TimeoutSecs)*time.Second,
			calc,
		))
		names = append(names, "remote")
	}

	engines = append(engines, local.NewEngine(geocoder, table, norm, calc))
	names = append(names, "local")

	return taxengine.NewFallbackEngine(engines, names, calc)
}
