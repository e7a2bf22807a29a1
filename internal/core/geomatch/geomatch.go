// Package geomatch decides delivery-zone membership and ranks nearby businesses.
// All functions are pure: they only read their arguments and are safe for
// concurrent use without locking.
package geomatch

import (
	"sort"

	"github.com/jfkcannabis/storefront/internal/core/domain"
	"github.com/jfkcannabis/storefront/internal/pkg/geospatial"
)

// DistanceMiles returns the great-circle distance between a and b in miles.
// Coordinates are not range-checked.
func DistanceMiles(a, b domain.Coordinate) float64 {
	return geospatial.HaversineMiles(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
}

// FindContainingZone returns the first zone, in input order, whose radius
// contains point. Overlapping zones are not ranked: the earlier one wins.
func FindContainingZone(point domain.Coordinate, zones []domain.DeliveryZone) (domain.DeliveryZone, bool) {
	for _, z := range zones {
		if DistanceMiles(point, z.Center) <= z.RadiusMiles {
			return z, true
		}
	}
	return domain.DeliveryZone{}, false
}

// RankNearbyBusinesses orders businesses by distance from point, nearest
// first, and returns at most limit entries. Equal distances keep input order.
// Returned distances are rounded to one decimal place.
func RankNearbyBusinesses(point domain.Coordinate, businesses []domain.BusinessLocation, limit int) []domain.RankedBusiness {
	if limit <= 0 || len(businesses) == 0 {
		return []domain.RankedBusiness{}
	}

	type scored struct {
		b    domain.BusinessLocation
		dist float64
	}
	all := make([]scored, len(businesses))
	for i, b := range businesses {
		all[i] = scored{b: b, dist: DistanceMiles(point, b.Coordinate)}
	}

	// sort on the exact distance; rounding happens only for display
	sort.SliceStable(all, func(i, j int) bool { return all[i].dist < all[j].dist })

	if limit > len(all) {
		limit = len(all)
	}
	ranked := make([]domain.RankedBusiness, limit)
	for i := 0; i < limit; i++ {
		ranked[i] = domain.RankedBusiness{
			BusinessLocation: all[i].b,
			DistanceMiles:    geospatial.Round(all[i].dist, 1),
		}
	}
	return ranked
}
