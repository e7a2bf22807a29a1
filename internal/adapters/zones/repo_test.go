package zones_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jfkcannabis/storefront/internal/adapters/zones"
	"github.com/jfkcannabis/storefront/internal/core/domain"
)

func TestNew_KeepsOrder(t *testing.T) {
	in := []domain.DeliveryZone{
		{ID: "b", Center: domain.Coordinate{Latitude: 40.7, Longitude: -73.8}, RadiusMiles: 8},
		{ID: "a", Center: domain.Coordinate{Latitude: 40.6, Longitude: -73.7}, RadiusMiles: 5},
	}
	repo, err := zones.New(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	in[0].ID = "mutated"
	got, _ := repo.List(context.Background())
	if len(got) != 2 || got[0].ID != "b" || got[1].ID != "a" {
		t.Errorf("unexpected zones %+v", got)
	}

	got[0].Name = "changed"
	again, _ := repo.List(context.Background())
	if again[0].Name == "changed" {
		t.Error("List must return a copy")
	}
}

func TestNew_Invalid(t *testing.T) {
	_, err := zones.New([]domain.DeliveryZone{
		{ID: "a", Center: domain.Coordinate{Latitude: 91}, RadiusMiles: 5},
		{ID: "a", RadiusMiles: 0},
		{RadiusMiles: 1, DeliveryFee: -1},
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, domain.ErrInvalidCoordinate) {
		t.Errorf("expected ErrInvalidCoordinate in %v", err)
	}
}

func TestNew_Empty(t *testing.T) {
	repo, err := zones.New(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := repo.List(context.Background())
	if len(got) != 0 {
		t.Errorf("expected no zones, got %d", len(got))
	}
}
