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
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/nats-io/nats.go"

	"github.com/jfkcannabis/storefront/internal/adapters/http"
	"github.com/jfkcannabis/storefront/internal/adapters/mockmaps"
	natsadapter "github.com/jfkcannabis/storefront/internal/adapters/nats"
	"github.com/jfkcannabis/storefront/internal/adapters/postgres"
	temporaladapter "github.com/jfkcannabis/storefront/internal/adapters/temporal"
	"github.com/jfkcannabis/storefront/internal/adapters/valkey"
	"github.com/jfkcannabis/storefront/internal/adapters/zones"
	"github.com/jfkcannabis/storefront/internal/core/domain"
	"github.com/jfkcannabis/storefront/internal/core/ports"
	"github.com/jfkcannabis/storefront/internal/core/usecases"
	"github.com/jfkcannabis/storefront/internal/pkg/config"
	"github.com/jfkcannabis/storefront/internal/pkg/logging"
	"github.com/jfkcannabis/storefront/internal/pkg/metrics"
	"github.com/jfkcannabis/storefront/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("storefront-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup(cfg.Telemetry.ServiceName, cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	go reportPoolStats(ctx, db)

	// Cache (optional). cacheSvc stays a nil interface when valkey is down.
	var cacheSvc ports.CacheService
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable, caching disabled", "error", err)
	} else {
		defer cache.Close()
		cacheSvc = cache
	}

	// NATS (optional)
	var events ports.EventPublisher
	var natsConn *nats.Conn
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, events disabled", "error", err)
	} else {
		defer pub.Close()
		events = pub
		natsConn = pub.Conn()
	}

	// Zones
	zoneRepo, err := zones.New(cfg.Delivery.DomainZones())
	if err != nil {
		log.Fatalf("delivery zones: %v", err)
	}

	// Providers
	geocoder := valkey.NewCachedGeocoder(mockmaps.New(nil), cacheSvc)
	places := postgres.NewBusinessRepo(db)

	// Use cases
	deliverySvc := usecases.NewDeliveryService(zoneRepo, geocoder, events)
	businessSvc := usecases.NewBusinessService(places, cacheSvc, cfg.Delivery.SearchRadiusMiles)
	contentSvc := usecases.NewContentService(postgres.NewContentRepo(db), cacheSvc, events)

	// Cache invalidation when another instance or the publisher worker
	// changes a document.
	if events != nil && cacheSvc != nil {
		sub, err := natsadapter.NewSubscriber(cfg.NATS.URL, "storefront-api-cache")
		if err != nil {
			slog.Warn("content subscriber unavailable", "error", err)
		} else {
			defer sub.Close()
			err := sub.SubscribeContentEvents(ctx, func(ctx context.Context, ev *domain.ContentEvent) error {
				contentSvc.Invalidate(ctx, ev.Slug)
				return nil
			})
			if err != nil {
				slog.Warn("subscribe content events", "error", err)
			}
		}
	}

	deps := &http.Dependencies{
		Delivery:    deliverySvc,
		Businesses:  businessSvc,
		Content:     contentSvc,
		NATS:        natsConn,
		DB:          db,
		Cache:       cache,
		CORSOrigins: cfg.Server.CORSOrigins,
	}

	// Publishing workflow (optional). Without Temporal, publish runs inline.
	tc, err := temporaladapter.Dial(cfg.Temporal.HostPort, cfg.Temporal.Namespace)
	if err != nil {
		slog.Warn("temporal unavailable, publishing inline", "error", err)
	} else {
		defer tc.Close()
		deps.Publisher = temporaladapter.NewPublisher(tc, cfg.Temporal.TaskQueue)
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "JFK Cannabis Storefront API",
	})
	app.Use(recover.New())

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr, "zones", len(cfg.Delivery.Zones))
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

// reportPoolStats refreshes the DB pool gauges until ctx is done.
func reportPoolStats(ctx context.Context, db *postgres.DB) {
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
}
