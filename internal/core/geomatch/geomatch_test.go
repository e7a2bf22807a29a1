package geomatch_test

import (
	"math"
	"testing"

	"github.com/jfkcannabis/storefront/internal/core/domain"
	"github.com/jfkcannabis/storefront/internal/core/geomatch"
)

var (
	jfkCenter   = domain.Coordinate{Latitude: 40.6413, Longitude: -73.7781}
	nearJFK     = domain.Coordinate{Latitude: 40.6650, Longitude: -73.7834}
	jamaicaCtr  = domain.Coordinate{Latitude: 40.7027, Longitude: -73.7890}
	manhattanPt = domain.Coordinate{Latitude: 40.7831, Longitude: -73.9712}
)

func jfkZone() domain.DeliveryZone {
	return domain.DeliveryZone{
		ID:                 "zone-1",
		Name:               "Zone 1: JFK Airport Area",
		Center:             jfkCenter,
		RadiusMiles:        5,
		DeliveryFee:        5,
		EstimatedTimeLabel: "30-45 min",
	}
}

func jamaicaZone() domain.DeliveryZone {
	return domain.DeliveryZone{
		ID:          "zone-2",
		Name:        "Zone 2: Jamaica & South Queens",
		Center:      jamaicaCtr,
		RadiusMiles: 8,
		DeliveryFee: 10,
	}
}

// haversine is the textbook formula, written independently as a reference.
func haversine(a, b domain.Coordinate) float64 {
	const r = 3958.8
	rad := math.Pi / 180
	phi1, phi2 := a.Latitude*rad, b.Latitude*rad
	dPhi := (b.Latitude - a.Latitude) * rad
	dLambda := (b.Longitude - a.Longitude) * rad
	h := math.Pow(math.Sin(dPhi/2), 2) + math.Cos(phi1)*math.Cos(phi2)*math.Pow(math.Sin(dLambda/2), 2)
	return 2 * r * math.Asin(math.Sqrt(h))
}

func TestDistanceMiles_Zero(t *testing.T) {
	for _, p := range []domain.Coordinate{jfkCenter, nearJFK, manhattanPt, {}, {Latitude: -89.5, Longitude: 179.9}} {
		if d := geomatch.DistanceMiles(p, p); d != 0 {
			t.Errorf("DistanceMiles(%v, %v) = %f, want 0", p, p, d)
		}
	}
}

func TestDistanceMiles_Symmetric(t *testing.T) {
	pts := []domain.Coordinate{jfkCenter, nearJFK, jamaicaCtr, manhattanPt, {Latitude: -33.86, Longitude: 151.21}}
	for _, a := range pts {
		for _, b := range pts {
			if ab, ba := geomatch.DistanceMiles(a, b), geomatch.DistanceMiles(b, a); ab != ba {
				t.Errorf("asymmetric distance %v/%v: %f vs %f", a, b, ab, ba)
			}
		}
	}
}

func TestDistanceMiles_MatchesTextbook(t *testing.T) {
	pts := []domain.Coordinate{jfkCenter, nearJFK, jamaicaCtr, manhattanPt, {Latitude: 51.47, Longitude: -0.4543}}
	for _, a := range pts {
		for _, b := range pts {
			want := haversine(a, b)
			got := geomatch.DistanceMiles(a, b)
			if want == 0 {
				if got > 1e-9 {
					t.Errorf("expected 0 for %v/%v, got %g", a, b, got)
				}
				continue
			}
			if math.Abs(got-want)/want > 1e-6 {
				t.Errorf("DistanceMiles(%v, %v) = %f, textbook %f", a, b, got, want)
			}
		}
	}
}

func TestDistanceMiles_JFKFixture(t *testing.T) {
	d := geomatch.DistanceMiles(nearJFK, jfkCenter)
	if math.Abs(d-1.67) > 0.05 {
		t.Errorf("expected ~1.67 miles, got %f", d)
	}
}

func TestFindContainingZone_JFK(t *testing.T) {
	z, ok := geomatch.FindContainingZone(nearJFK, []domain.DeliveryZone{jfkZone()})
	if !ok {
		t.Fatal("expected a zone")
	}
	if z.Name != "Zone 1: JFK Airport Area" {
		t.Errorf("unexpected zone %q", z.Name)
	}
}

func TestFindContainingZone_FirstMatchWins(t *testing.T) {
	// nearJFK is inside both zones
	a, b := jfkZone(), jamaicaZone()
	if geomatch.DistanceMiles(nearJFK, b.Center) > b.RadiusMiles {
		t.Fatal("fixture broken: point should be inside the Jamaica zone too")
	}

	z, ok := geomatch.FindContainingZone(nearJFK, []domain.DeliveryZone{a, b})
	if !ok || z.ID != "zone-1" {
		t.Errorf("expected zone-1 first, got %q (ok=%v)", z.ID, ok)
	}

	z, ok = geomatch.FindContainingZone(nearJFK, []domain.DeliveryZone{b, a})
	if !ok || z.ID != "zone-2" {
		t.Errorf("expected zone-2 after swapping order, got %q (ok=%v)", z.ID, ok)
	}
}

func TestFindContainingZone_Boundary(t *testing.T) {
	d := geomatch.DistanceMiles(nearJFK, jfkCenter)
	z := jfkZone()
	z.RadiusMiles = d
	if _, ok := geomatch.FindContainingZone(nearJFK, []domain.DeliveryZone{z}); !ok {
		t.Error("a point exactly on the radius should be inside")
	}
}

func TestFindContainingZone_NoMatch(t *testing.T) {
	if _, ok := geomatch.FindContainingZone(manhattanPt, []domain.DeliveryZone{jfkZone()}); ok {
		t.Error("manhattan should be outside the JFK zone")
	}
}

func TestFindContainingZone_Empty(t *testing.T) {
	if _, ok := geomatch.FindContainingZone(nearJFK, nil); ok {
		t.Error("expected no zone for empty list")
	}
	if _, ok := geomatch.FindContainingZone(nearJFK, []domain.DeliveryZone{}); ok {
		t.Error("expected no zone for empty list")
	}
}

func TestFindContainingZone_DoesNotMutate(t *testing.T) {
	zones := []domain.DeliveryZone{jamaicaZone(), jfkZone()}
	before := append([]domain.DeliveryZone(nil), zones...)
	geomatch.FindContainingZone(nearJFK, zones)
	for i := range zones {
		if zones[i] != before[i] {
			t.Errorf("zone %d mutated", i)
		}
	}
}

func businesses() []domain.BusinessLocation {
	return []domain.BusinessLocation{
		{ID: "far", Name: "Midtown Lounge", Type: domain.BusinessLounge, Coordinate: manhattanPt},
		{ID: "near", Name: "TWA Hotel", Type: domain.BusinessHotel, Coordinate: jfkCenter},
		{ID: "mid", Name: "Jamaica Cafe", Type: domain.BusinessCafe, Coordinate: jamaicaCtr},
		{ID: "near-2", Name: "Terminal Gym", Type: domain.BusinessGym, Coordinate: jfkCenter},
	}
}

func TestRankNearbyBusinesses_Order(t *testing.T) {
	ranked := geomatch.RankNearbyBusinesses(jfkCenter, businesses(), 10)
	if len(ranked) != 4 {
		t.Fatalf("expected 4 results, got %d", len(ranked))
	}
	want := []string{"near", "near-2", "mid", "far"}
	for i, id := range want {
		if ranked[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, ranked[i].ID)
		}
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].DistanceMiles < ranked[i-1].DistanceMiles {
			t.Errorf("results not ascending at %d", i)
		}
	}
}

func TestRankNearbyBusinesses_Limit(t *testing.T) {
	ranked := geomatch.RankNearbyBusinesses(jfkCenter, businesses(), 2)
	if len(ranked) != 2 {
		t.Fatalf("expected 2 results, got %d", len(ranked))
	}
	if ranked[0].ID != "near" || ranked[1].ID != "near-2" {
		t.Errorf("unexpected order: %s, %s", ranked[0].ID, ranked[1].ID)
	}
}

func TestRankNearbyBusinesses_RoundedDistance(t *testing.T) {
	ranked := geomatch.RankNearbyBusinesses(nearJFK, businesses()[1:2], 1)
	if len(ranked) != 1 {
		t.Fatalf("expected 1 result, got %d", len(ranked))
	}
	if ranked[0].DistanceMiles != 1.7 {
		t.Errorf("expected 1.7, got %v", ranked[0].DistanceMiles)
	}
	if got := ranked[0].DistanceLabel(); got != "1.7 miles away" {
		t.Errorf("unexpected label %q", got)
	}
}

func TestRankNearbyBusinesses_Empty(t *testing.T) {
	if got := geomatch.RankNearbyBusinesses(jfkCenter, nil, 5); len(got) != 0 {
		t.Errorf("expected empty result, got %d", len(got))
	}
	if got := geomatch.RankNearbyBusinesses(jfkCenter, businesses(), 0); got == nil || len(got) != 0 {
		t.Errorf("expected non-nil empty result for limit 0, got %v", got)
	}
	if got := geomatch.RankNearbyBusinesses(jfkCenter, businesses(), -3); len(got) != 0 {
		t.Errorf("expected empty result for negative limit, got %d", len(got))
	}
}

func TestRankNearbyBusinesses_DoesNotMutate(t *testing.T) {
	in := businesses()
	geomatch.RankNearbyBusinesses(jfkCenter, in, 10)
	if in[0].ID != "far" || in[1].ID != "near" {
		t.Error("input slice was reordered")
	}
}
