package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/shopwindow/shopwindow/internal/adapters/geocoding"
	"github.com/shopwindow/shopwindow/internal/adapters/http"
	natsadapter "github.com/shopwindow/shopwindow/internal/adapters/nats"
	"github.com/shopwindow/shopwindow/internal/adapters/postgres"
	"github.com/shopwindow/shopwindow/internal/adapters/valkey"
	"github.com/shopwindow/shopwindow/internal/core/ports"
	"github.com/shopwindow/shopwindow/internal/core/usecases"
	"github.com/shopwindow/shopwindow/internal/pkg/config"
	"github.com/shopwindow/shopwindow/internal/pkg/logging"
	"github.com/shopwindow/shopwindow/internal/pkg/metrics"
	"github.com/shopwindow/shopwindow/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("shopwindow-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup("api", logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown(context.Background())
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Pool gauges for Grafana
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				metrics.UpdateDBPoolMetrics(db.Pool.Stat())
			}
		}
	}()

	// Cache. The API degrades to uncached aggregation when Valkey is
	// down, so a failure here is not fatal.
	var statsCache ports.CacheService
	var cache *valkey.Cache
	cache, err = valkey.New(cfg.Valkey.Addr, cfg.Valkey.Prefix)
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
		cache = nil
	} else {
		statsCache = cache
		defer cache.Close()
	}

	// NATS JetStream publisher for lifecycle events
	var events ports.EventPublisher
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, events disabled", "error", err)
	} else {
		events = pub
		defer pub.Close()
	}

	// Raw NATS connection for the WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	}

	// Geocoder
	geocoder := geocoding.NewNominatim(
		cfg.Geocoder.BaseURL,
		cfg.Geocoder.UserAgent,
		time.Duration(cfg.Geocoder.TimeoutSeconds)*time.Second,
	)

	// Repos
	centerRepo := postgres.NewCenterRepo(db)
	tenantRepo := postgres.NewTenantRepo(db)

	// Use cases
	centerSvc := usecases.NewCenterService(centerRepo, geocoder, events)
	tenantSvc := usecases.NewTenantService(tenantRepo, centerRepo)
	statsSvc := usecases.NewStatsService(centerRepo, tenantRepo, statsCache, cfg.Stats.TopOwners)

	deps := &http.Dependencies{
		Centers: centerSvc,
		Tenants: tenantSvc,
		Stats:   statsSvc,
		NATS:    natsConn,
		DB:      db,
		Cache:   cache,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "Shop Window API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173, https://*.shopwindow.dev",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
