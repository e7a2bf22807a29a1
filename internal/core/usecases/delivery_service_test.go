package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jfkcannabis/storefront/internal/core/domain"
	"github.com/jfkcannabis/storefront/internal/core/usecases"
)

// --- Mock ZoneRepository ---

type mockZoneRepo struct {
	zones []domain.DeliveryZone
	err   error
}

func (m *mockZoneRepo) List(ctx context.Context) ([]domain.DeliveryZone, error) {
	return m.zones, m.err
}

// --- Mock GeocodingProvider ---

type mockGeocoder struct {
	geocodeFn func(ctx context.Context, address string) (domain.Coordinate, error)
}

func (m *mockGeocoder) Geocode(ctx context.Context, address string) (domain.Coordinate, error) {
	if m.geocodeFn != nil {
		return m.geocodeFn(ctx, address)
	}
	return domain.Coordinate{}, domain.ErrAddressNotFound
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	deliveryEvents []*domain.DeliveryCheckedEvent
	contentEvents  []*domain.ContentEvent
	err            error
}

func (m *mockPublisher) PublishDeliveryChecked(ctx context.Context, e *domain.DeliveryCheckedEvent) error {
	m.deliveryEvents = append(m.deliveryEvents, e)
	return m.err
}

func (m *mockPublisher) PublishContentEvent(ctx context.Context, e *domain.ContentEvent) error {
	m.contentEvents = append(m.contentEvents, e)
	return m.err
}

var (
	jfk     = domain.Coordinate{Latitude: 40.6413, Longitude: -73.7781}
	nearJFK = domain.Coordinate{Latitude: 40.6650, Longitude: -73.7834}
	midtown = domain.Coordinate{Latitude: 40.7549, Longitude: -73.9840}
)

func testZones() []domain.DeliveryZone {
	return []domain.DeliveryZone{
		{
			ID:                   "zone-1",
			Name:                 "Zone 1: JFK Airport Area",
			Center:               jfk,
			RadiusMiles:          5,
			DeliveryFee:          5,
			MinFreeDeliveryOrder: 75,
			EstimatedTimeLabel:   "30-45 min",
		},
		{
			ID:                 "zone-2",
			Name:               "Zone 2: Queens",
			Center:             domain.Coordinate{Latitude: 40.7027, Longitude: -73.7890},
			RadiusMiles:        8,
			DeliveryFee:        10,
			EstimatedTimeLabel: "45-60 min",
		},
	}
}

func TestDeliveryService_ZoneAt(t *testing.T) {
	svc := usecases.NewDeliveryService(&mockZoneRepo{zones: testZones()}, &mockGeocoder{}, nil)

	z, err := svc.ZoneAt(context.Background(), nearJFK)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if z == nil || z.Name != "Zone 1: JFK Airport Area" {
		t.Fatalf("expected JFK zone, got %+v", z)
	}
}

func TestDeliveryService_ZoneAt_Outside(t *testing.T) {
	svc := usecases.NewDeliveryService(&mockZoneRepo{zones: testZones()}, &mockGeocoder{}, nil)

	z, err := svc.ZoneAt(context.Background(), midtown)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if z != nil {
		t.Errorf("expected no zone, got %s", z.ID)
	}
}

func TestDeliveryService_ZoneAt_RepoError(t *testing.T) {
	svc := usecases.NewDeliveryService(&mockZoneRepo{err: errors.New("boom")}, &mockGeocoder{}, nil)
	if _, err := svc.ZoneAt(context.Background(), nearJFK); err == nil {
		t.Error("expected error")
	}
}

func TestDeliveryService_Check_Address(t *testing.T) {
	pub := &mockPublisher{}
	geo := &mockGeocoder{
		geocodeFn: func(ctx context.Context, address string) (domain.Coordinate, error) {
			if address != "JFK Terminal 4" {
				t.Errorf("expected trimmed address, got %q", address)
			}
			return nearJFK, nil
		},
	}
	svc := usecases.NewDeliveryService(&mockZoneRepo{zones: testZones()}, geo, pub)

	q, err := svc.Check(context.Background(), domain.DeliveryCheckRequest{Address: "  JFK Terminal 4 ", OrderTotal: 40})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !q.Deliverable || q.Zone == nil || q.Zone.ID != "zone-1" {
		t.Fatalf("expected deliverable in zone-1, got %+v", q)
	}
	if q.DeliveryFee != 5 || q.FreeDelivery {
		t.Errorf("expected $5 fee, got %+v", q)
	}
	if q.AmountToFreeDelivery != 35 {
		t.Errorf("expected $35 to free delivery, got %v", q.AmountToFreeDelivery)
	}
	if q.DistanceMiles != 1.7 {
		t.Errorf("expected 1.7 miles, got %v", q.DistanceMiles)
	}
	if len(pub.deliveryEvents) != 1 || pub.deliveryEvents[0].ZoneID != "zone-1" {
		t.Errorf("expected one delivery event for zone-1, got %+v", pub.deliveryEvents)
	}
}

func TestDeliveryService_Check_PointWinsOverAddress(t *testing.T) {
	geo := &mockGeocoder{
		geocodeFn: func(ctx context.Context, address string) (domain.Coordinate, error) {
			t.Error("geocoder should not be called when a point is given")
			return domain.Coordinate{}, nil
		},
	}
	svc := usecases.NewDeliveryService(&mockZoneRepo{zones: testZones()}, geo, nil)

	p := midtown
	q, err := svc.Check(context.Background(), domain.DeliveryCheckRequest{Address: "JFK", Point: &p})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Deliverable {
		t.Errorf("midtown should not be deliverable, got %+v", q)
	}
}

func TestDeliveryService_Check_FreeDelivery(t *testing.T) {
	svc := usecases.NewDeliveryService(&mockZoneRepo{zones: testZones()}, &mockGeocoder{}, nil)

	p := nearJFK
	q, err := svc.Check(context.Background(), domain.DeliveryCheckRequest{Point: &p, OrderTotal: 75})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !q.FreeDelivery || q.DeliveryFee != 0 || q.AmountToFreeDelivery != 0 {
		t.Errorf("expected free delivery, got %+v", q)
	}
}

func TestDeliveryService_Check_MissingLocation(t *testing.T) {
	svc := usecases.NewDeliveryService(&mockZoneRepo{zones: testZones()}, &mockGeocoder{}, nil)
	_, err := svc.Check(context.Background(), domain.DeliveryCheckRequest{Address: "   "})
	if !errors.Is(err, domain.ErrMissingLocation) {
		t.Errorf("expected ErrMissingLocation, got %v", err)
	}
}

func TestDeliveryService_Check_InvalidPoint(t *testing.T) {
	svc := usecases.NewDeliveryService(&mockZoneRepo{zones: testZones()}, &mockGeocoder{}, nil)
	p := domain.Coordinate{Latitude: 120, Longitude: 0}
	_, err := svc.Check(context.Background(), domain.DeliveryCheckRequest{Point: &p})
	if !errors.Is(err, domain.ErrInvalidCoordinate) {
		t.Errorf("expected ErrInvalidCoordinate, got %v", err)
	}
}

func TestDeliveryService_Check_GeocodeFailure(t *testing.T) {
	svc := usecases.NewDeliveryService(&mockZoneRepo{zones: testZones()}, &mockGeocoder{}, nil)
	_, err := svc.Check(context.Background(), domain.DeliveryCheckRequest{Address: "nowhere"})
	if !errors.Is(err, domain.ErrAddressNotFound) {
		t.Errorf("expected ErrAddressNotFound, got %v", err)
	}
}

func TestDeliveryService_Check_PublishErrorIgnored(t *testing.T) {
	pub := &mockPublisher{err: errors.New("nats down")}
	svc := usecases.NewDeliveryService(&mockZoneRepo{zones: testZones()}, &mockGeocoder{}, pub)

	p := nearJFK
	if _, err := svc.Check(context.Background(), domain.DeliveryCheckRequest{Point: &p}); err != nil {
		t.Fatalf("publish failure should not fail the check: %v", err)
	}
}

func TestQuoteDelivery_NoZone(t *testing.T) {
	q := usecases.QuoteDelivery(midtown, nil, 100)
	if q.Deliverable || q.Zone != nil || q.DeliveryFee != 0 {
		t.Errorf("expected undeliverable quote, got %+v", q)
	}
}

func TestQuoteDelivery_ZeroMinimumNeverFree(t *testing.T) {
	z := testZones()[1]
	q := usecases.QuoteDelivery(nearJFK, &z, 1000)
	if q.FreeDelivery || q.DeliveryFee != 10 {
		t.Errorf("expected paid delivery, got %+v", q)
	}
	if q.AmountToFreeDelivery != 0 {
		t.Errorf("expected no free-delivery target, got %v", q.AmountToFreeDelivery)
	}
}
