package usecases

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jfkcannabis/storefront/internal/core/domain"
	"github.com/jfkcannabis/storefront/internal/core/geomatch"
	"github.com/jfkcannabis/storefront/internal/core/ports"
)

const (
	defaultNearbyLimit = 10
	maxNearbyLimit     = 50

	// the provider is asked for more than we return so ranking sees enough candidates
	nearbyFetchFactor = 4
)

// BusinessService finds partner businesses near a customer.
type BusinessService struct {
	places      ports.PlacesProvider
	cache       ports.CacheService
	radiusMiles float64
}

// NewBusinessService creates a new BusinessService. cache may be nil.
func NewBusinessService(places ports.PlacesProvider, cache ports.CacheService, radiusMiles float64) *BusinessService {
	return &BusinessService{places: places, cache: cache, radiusMiles: radiusMiles}
}

// Nearby returns up to limit businesses ordered by distance from point.
func (s *BusinessService) Nearby(ctx context.Context, point domain.Coordinate, limit int) ([]domain.RankedBusiness, error) {
	if limit <= 0 {
		limit = defaultNearbyLimit
	}
	if limit > maxNearbyLimit {
		limit = maxNearbyLimit
	}

	cacheKey := fmt.Sprintf("businesses:nearby:%.4f:%.4f:%.1f:%d", point.Latitude, point.Longitude, s.radiusMiles, limit)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var ranked []domain.RankedBusiness
			if err := json.Unmarshal(data, &ranked); err == nil {
				return ranked, nil
			}
		}
	}

	candidates, err := s.places.Nearby(ctx, point, s.radiusMiles, limit*nearbyFetchFactor)
	if err != nil {
		return nil, fmt.Errorf("places nearby: %w", err)
	}

	ranked := geomatch.RankNearbyBusinesses(point, candidates, limit)

	// Cache for 5 minutes
	if s.cache != nil {
		if data, err := json.Marshal(ranked); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 300)
		}
	}

	return ranked, nil
}
