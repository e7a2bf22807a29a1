package main

import (
	"context"
	"log"
	"log/slog"

	"go.temporal.io/sdk/worker"

	natsadapter "github.com/jfkcannabis/storefront/internal/adapters/nats"
	"github.com/jfkcannabis/storefront/internal/adapters/postgres"
	temporaladapter "github.com/jfkcannabis/storefront/internal/adapters/temporal"
	"github.com/jfkcannabis/storefront/internal/adapters/valkey"
	"github.com/jfkcannabis/storefront/internal/core/ports"
	"github.com/jfkcannabis/storefront/internal/core/usecases"
	"github.com/jfkcannabis/storefront/internal/pkg/config"
	"github.com/jfkcannabis/storefront/internal/pkg/logging"
	"github.com/jfkcannabis/storefront/internal/workflows"
)

func main() {
	cfg, err := config.Load("storefront-publisher")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Telemetry.ServiceName, cfg.Log.Level, cfg.Log.Format)

	ctx := context.Background()

	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Announcements need NATS; without it AnnounceContent is a no-op.
	var events ports.EventPublisher
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, announcements disabled", "error", err)
	} else {
		defer pub.Close()
		events = pub
	}

	var cacheSvc ports.CacheService
	if cache, err := valkey.New(cfg.Valkey.Addr); err != nil {
		slog.Warn("valkey unavailable", "error", err)
	} else {
		defer cache.Close()
		cacheSvc = cache
	}

	content := usecases.NewContentService(postgres.NewContentRepo(db), cacheSvc, events)

	c, err := temporaladapter.Dial(cfg.Temporal.HostPort, cfg.Temporal.Namespace)
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})

	// Register workflow & activities
	w.RegisterWorkflow(workflows.PublishContentWorkflow)
	w.RegisterActivity(&workflows.PublishActivities{Content: content})

	slog.Info("publisher worker started", "task_queue", cfg.Temporal.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
