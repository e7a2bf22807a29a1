package valkey

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/jfkcannabis/storefront/internal/core/domain"
	"github.com/jfkcannabis/storefront/internal/core/ports"
)

const geocodeTTL = 24 * 60 * 60

// CachedGeocoder decorates a GeocodingProvider with read-through caching.
// Misses (ErrAddressNotFound) are not cached.
type CachedGeocoder struct {
	next  ports.GeocodingProvider
	cache ports.CacheService
}

// NewCachedGeocoder wraps next. A nil cache disables caching.
func NewCachedGeocoder(next ports.GeocodingProvider, cache ports.CacheService) *CachedGeocoder {
	return &CachedGeocoder{next: next, cache: cache}
}

// Geocode implements ports.GeocodingProvider.
func (g *CachedGeocoder) Geocode(ctx context.Context, address string) (domain.Coordinate, error) {
	if g.cache == nil {
		return g.next.Geocode(ctx, address)
	}

	key := "geocode:addr:" + strings.ToLower(strings.Join(strings.Fields(address), " "))
	if data, err := g.cache.Get(ctx, key); err == nil {
		var c domain.Coordinate
		if err := json.Unmarshal(data, &c); err == nil {
			return c, nil
		}
	}

	c, err := g.next.Geocode(ctx, address)
	if err != nil {
		return domain.Coordinate{}, err
	}
	if data, err := json.Marshal(c); err == nil {
		_ = g.cache.Set(ctx, key, data, geocodeTTL)
	}
	return c, nil
}
