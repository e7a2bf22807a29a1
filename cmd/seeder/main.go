package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jfkcannabis/storefront/internal/adapters/mockmaps"
	"github.com/jfkcannabis/storefront/internal/adapters/postgres"
	"github.com/jfkcannabis/storefront/internal/core/domain"
	"github.com/jfkcannabis/storefront/internal/pkg/config"
	"github.com/jfkcannabis/storefront/internal/pkg/logging"
)

const (
	batchSize   = 500
	maxParallel = 4
)

// Usage: seeder [manifest.json] [source1,source2]
// Without a manifest the built-in partner fixtures are loaded.
func main() {
	cfg, err := config.Load("storefront-seeder")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Telemetry.ServiceName, cfg.Log.Level, cfg.Log.Format)

	ctx := context.Background()

	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()
	repo := postgres.NewBusinessRepo(db)

	if len(os.Args) < 2 {
		fixtures := mockmaps.Fixtures()
		if err := upsertChunks(ctx, repo, fixtures); err != nil {
			log.Fatalf("seed fixtures: %v", err)
		}
		slog.Info("fixtures seeded", "businesses", len(fixtures))
		return
	}

	manifest, err := loadManifest(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}

	filter := map[string]bool{}
	if len(os.Args) > 2 {
		for _, s := range strings.Split(os.Args[2], ",") {
			filter[strings.TrimSpace(s)] = true
		}
	}

	slog.Info("seeding business directory", "sources", len(manifest.Sources), "path", os.Args[1])

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)

	for _, src := range manifest.Sources {
		if len(filter) > 0 && !filter[src.Name] {
			continue
		}
		g.Go(func() error {
			return seedSource(gctx, repo, src)
		})
	}

	if err := g.Wait(); err != nil {
		log.Fatalf("seed: %v", err)
	}
	slog.Info("seeding complete")
}

func seedSource(ctx context.Context, repo *postgres.BusinessRepo, src Source) error {
	businesses, errs := src.businesses()
	for _, err := range errs {
		slog.Warn("skipping business", "source", src.Name, "error", err)
	}
	if err := upsertChunks(ctx, repo, businesses); err != nil {
		return fmt.Errorf("source %s: %w", src.Name, err)
	}
	slog.Info("source seeded", "source", src.Name, "businesses", len(businesses), "skipped", len(errs))
	return nil
}

func upsertChunks(ctx context.Context, repo *postgres.BusinessRepo, bs []domain.BusinessLocation) error {
	for start := 0; start < len(bs); start += batchSize {
		end := min(start+batchSize, len(bs))
		if err := repo.UpsertBatch(ctx, bs[start:end]); err != nil {
			return err
		}
	}
	return nil
}
