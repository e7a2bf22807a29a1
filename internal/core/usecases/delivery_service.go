package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jfkcannabis/storefront/internal/core/domain"
	"github.com/jfkcannabis/storefront/internal/core/geomatch"
	"github.com/jfkcannabis/storefront/internal/core/ports"
	"github.com/jfkcannabis/storefront/internal/pkg/geospatial"
	"github.com/jfkcannabis/storefront/internal/pkg/metrics"
)

// DeliveryService answers "can we deliver here, and for how much".
type DeliveryService struct {
	zones     ports.ZoneRepository
	geocoder  ports.GeocodingProvider
	publisher ports.EventPublisher
}

// NewDeliveryService creates a new DeliveryService. publisher may be nil.
func NewDeliveryService(zones ports.ZoneRepository, geocoder ports.GeocodingProvider, publisher ports.EventPublisher) *DeliveryService {
	return &DeliveryService{zones: zones, geocoder: geocoder, publisher: publisher}
}

// Zones returns the configured delivery zones in configuration order.
func (s *DeliveryService) Zones(ctx context.Context) ([]domain.DeliveryZone, error) {
	return s.zones.List(ctx)
}

// ZoneAt returns the zone containing point, or nil when the point is outside all zones.
func (s *DeliveryService) ZoneAt(ctx context.Context, point domain.Coordinate) (*domain.DeliveryZone, error) {
	zones, err := s.zones.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list zones: %w", err)
	}
	z, ok := geomatch.FindContainingZone(point, zones)
	if !ok {
		metrics.ZoneLookups.WithLabelValues("none").Inc()
		return nil, nil
	}
	metrics.ZoneLookups.WithLabelValues(z.ID).Inc()
	return &z, nil
}

// Check resolves the request location and quotes delivery for it.
func (s *DeliveryService) Check(ctx context.Context, req domain.DeliveryCheckRequest) (*domain.DeliveryQuote, error) {
	var point domain.Coordinate
	switch {
	case req.Point != nil:
		point = *req.Point
	case strings.TrimSpace(req.Address) != "":
		p, err := s.geocoder.Geocode(ctx, strings.TrimSpace(req.Address))
		if err != nil {
			return nil, fmt.Errorf("geocode %q: %w", req.Address, err)
		}
		point = p
	default:
		return nil, domain.ErrMissingLocation
	}

	if err := point.Validate(); err != nil {
		return nil, err
	}

	zone, err := s.ZoneAt(ctx, point)
	if err != nil {
		return nil, err
	}

	quote := QuoteDelivery(point, zone, req.OrderTotal)
	metrics.DeliveryChecks.WithLabelValues(metrics.Bool(quote.Deliverable)).Inc()

	if s.publisher != nil {
		event := &domain.DeliveryCheckedEvent{
			Time:        time.Now().UTC(),
			Point:       point,
			Deliverable: quote.Deliverable,
			OrderTotal:  req.OrderTotal,
		}
		if zone != nil {
			event.ZoneID = zone.ID
		}
		if err := s.publisher.PublishDeliveryChecked(ctx, event); err != nil {
			slog.WarnContext(ctx, "publish delivery check failed", "error", err)
		}
	}

	return &quote, nil
}

// QuoteDelivery prices delivery to point within zone. A nil zone yields an
// undeliverable quote. The fee is waived once orderTotal reaches the zone's
// free-delivery minimum (a zero minimum means delivery is never free).
func QuoteDelivery(point domain.Coordinate, zone *domain.DeliveryZone, orderTotal float64) domain.DeliveryQuote {
	q := domain.DeliveryQuote{Point: point}
	if zone == nil {
		return q
	}

	z := *zone
	q.Zone = &z
	q.Deliverable = true
	q.EstimatedTime = z.EstimatedTimeLabel
	q.DistanceMiles = geospatial.Round(geomatch.DistanceMiles(point, z.Center), 1)

	if z.MinFreeDeliveryOrder > 0 && orderTotal >= z.MinFreeDeliveryOrder {
		q.FreeDelivery = true
		return q
	}

	q.DeliveryFee = z.DeliveryFee
	if z.MinFreeDeliveryOrder > 0 {
		q.AmountToFreeDelivery = geospatial.Round(z.MinFreeDeliveryOrder-orderTotal, 2)
	}
	return q
}
