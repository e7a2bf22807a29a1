package ports

import (
	"context"

	"github.com/jfkcannabis/storefront/internal/core/domain"
)

// GeocodingProvider resolves a free-text address to a coordinate.
// Implementations return domain.ErrAddressNotFound when nothing matches.
type GeocodingProvider interface {
	Geocode(ctx context.Context, address string) (domain.Coordinate, error)
}

// PlacesProvider returns businesses near a coordinate, nearest first, so the
// limit never cuts off a closer result. Callers still rank and round.
type PlacesProvider interface {
	Nearby(ctx context.Context, point domain.Coordinate, radiusMiles float64, limit int) ([]domain.BusinessLocation, error)
}

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishDeliveryChecked(ctx context.Context, event *domain.DeliveryCheckedEvent) error
	PublishContentEvent(ctx context.Context, event *domain.ContentEvent) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribeContentEvents(ctx context.Context, handler func(ctx context.Context, event *domain.ContentEvent) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// ContentPublisher starts the asynchronous publishing pipeline for a document.
type ContentPublisher interface {
	StartPublish(ctx context.Context, id string) (runID string, err error)
}
