//go:build integration
// +build integration

package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jfkcannabis/storefront/internal/adapters/http"
	"github.com/jfkcannabis/storefront/internal/adapters/mockmaps"
	"github.com/jfkcannabis/storefront/internal/adapters/postgres"
	"github.com/jfkcannabis/storefront/internal/core/domain"
	"github.com/jfkcannabis/storefront/internal/core/usecases"
	"github.com/jfkcannabis/storefront/internal/pkg/config"
)

// setupTestDB connects to the database named by STOREFRONT_DATABASE_* and
// expects migrations to have been applied.
func setupTestDB(t *testing.T) *postgres.DB {
	cfg, err := config.Load("storefront-test")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	db, err := postgres.New(ctx, cfg.Database.DSN(), 4)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)
	return db
}

// setupTestDeps wires PostgreSQL-backed repositories, no cache or broker.
func setupTestDeps(t *testing.T, db *postgres.DB) *http.Dependencies {
	businesses := postgres.NewBusinessRepo(db)
	d := makeDeps(t)
	d.Businesses = usecases.NewBusinessService(businesses, nil, 10)
	d.Content = usecases.NewContentService(postgres.NewContentRepo(db), nil, nil)
	d.DB = db
	return d
}

func TestReady_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	app := setupApp(setupTestDeps(t, setupTestDB(t)))

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/ready", nil), -1)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

// TestNearbyBusinesses_Integration seeds the fixture directory and runs the
// PostGIS radius query through the HTTP layer.
func TestNearbyBusinesses_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupTestDB(t)
	if err := postgres.NewBusinessRepo(db).UpsertBatch(context.Background(), mockmaps.Fixtures()); err != nil {
		t.Fatalf("seed businesses: %v", err)
	}
	app := setupApp(setupTestDeps(t, db))

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/businesses/nearby?lat=40.6413&lng=-73.7781&limit=5", nil), -1)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var got []domain.RankedBusiness
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got) == 0 {
		t.Fatal("expected at least 1 nearby business, got 0")
	}
	for i, b := range got {
		if b.ID == "biz-midtown-lounge" {
			t.Errorf("midtown is outside the search radius")
		}
		if i > 0 && got[i-1].DistanceMiles > b.DistanceMiles {
			t.Errorf("results not nearest first at %d: %.1f > %.1f", i, got[i-1].DistanceMiles, b.DistanceMiles)
		}
	}
}

// TestBusinessRepo_NearbyOrder_Integration checks the repository itself returns
// the closest row first even when it was inserted last.
func TestBusinessRepo_NearbyOrder_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupTestDB(t)
	repo := postgres.NewBusinessRepo(db)
	origin := domain.Coordinate{Latitude: 40.6413, Longitude: -73.7781}
	batch := []domain.BusinessLocation{
		{ID: "order-far", Name: "Far", Type: domain.BusinessCafe, Coordinate: domain.Coordinate{Latitude: origin.Latitude + 0.05, Longitude: origin.Longitude}},
		{ID: "order-near", Name: "Near", Type: domain.BusinessCafe, Coordinate: origin},
	}
	if err := repo.UpsertBatch(context.Background(), batch); err != nil {
		t.Fatalf("seed businesses: %v", err)
	}

	got, err := repo.Nearby(context.Background(), origin, 0.5, 1)
	if err != nil {
		t.Fatalf("nearby: %v", err)
	}
	if len(got) != 1 || got[0].ID != "order-near" {
		t.Errorf("expected order-near first, got %+v", got)
	}
}

// TestContentLifecycle_Integration creates, reads, publishes and unpublishes
// a document against the real schema.
func TestContentLifecycle_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	app := setupApp(setupTestDeps(t, setupTestDB(t)))
	title := "Integration " + time.Now().Format("20060102150405")

	resp := do(t, app, "POST", "/v1/content", fmt.Sprintf(`{"kind":"post","title":%q,"body_markdown":"**open late**"}`, title))
	if resp.StatusCode != 201 {
		t.Fatalf("create: expected 201, got %d: %s", resp.StatusCode, readBody(t, resp.Body))
	}
	var created domain.ContentDocument
	json.Unmarshal(readBody(t, resp.Body), &created)

	resp = do(t, app, "GET", "/v1/content/"+created.Slug, "")
	if resp.StatusCode != 200 {
		t.Fatalf("get: expected 200, got %d", resp.StatusCode)
	}
	var fetched domain.ContentDocument
	json.Unmarshal(readBody(t, resp.Body), &fetched)
	if !strings.Contains(fetched.BodyHTML, "<strong>open late</strong>") {
		t.Errorf("unexpected html %q", fetched.BodyHTML)
	}

	resp = do(t, app, "POST", "/v1/content/"+created.ID+"/publish", "")
	var published domain.ContentDocument
	json.Unmarshal(readBody(t, resp.Body), &published)
	if published.Status != domain.StatusPublished || published.PublishedAt == nil {
		t.Errorf("expected published with timestamp, got %+v", published)
	}

	resp = do(t, app, "POST", "/v1/content/"+created.ID+"/unpublish", "")
	var draft domain.ContentDocument
	json.Unmarshal(readBody(t, resp.Body), &draft)
	if draft.Status != domain.StatusDraft || draft.PublishedAt != nil {
		t.Errorf("expected draft without timestamp, got %+v", draft)
	}

	// Same title again collides on slug.
	resp = do(t, app, "POST", "/v1/content", fmt.Sprintf(`{"kind":"post","title":%q}`, title))
	if resp.StatusCode != 409 {
		t.Errorf("duplicate slug: expected 409, got %d", resp.StatusCode)
	}
}
