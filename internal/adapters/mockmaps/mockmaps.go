// Package mockmaps is an in-memory stand-in for a maps API. It resolves a
// fixed set of JFK-area addresses and serves a small partner directory.
package mockmaps

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jfkcannabis/storefront/internal/core/domain"
	"github.com/jfkcannabis/storefront/internal/pkg/geospatial"
)

// DefaultPoint is returned for addresses that mention the airport but no
// known landmark.
var DefaultPoint = domain.Coordinate{Latitude: 40.6650, Longitude: -73.7834}

type landmark struct {
	keyword string
	point   domain.Coordinate
}

// Checked in order; the first keyword contained in the address wins.
var landmarks = []landmark{
	{"terminal 1", domain.Coordinate{Latitude: 40.6433, Longitude: -73.7894}},
	{"terminal 4", domain.Coordinate{Latitude: 40.6441, Longitude: -73.7822}},
	{"terminal 5", domain.Coordinate{Latitude: 40.6454, Longitude: -73.7768}},
	{"terminal 8", domain.Coordinate{Latitude: 40.6466, Longitude: -73.7898}},
	{"howard beach", domain.Coordinate{Latitude: 40.6571, Longitude: -73.8430}},
	{"jamaica", domain.Coordinate{Latitude: 40.7027, Longitude: -73.7890}},
	{"ozone park", domain.Coordinate{Latitude: 40.6794, Longitude: -73.8507}},
	{"rockaway", domain.Coordinate{Latitude: 40.5860, Longitude: -73.8110}},
	{"valley stream", domain.Coordinate{Latitude: 40.6643, Longitude: -73.7085}},
	{"times square", domain.Coordinate{Latitude: 40.7580, Longitude: -73.9855}},
	{"manhattan", domain.Coordinate{Latitude: 40.7831, Longitude: -73.9712}},
	{"jfk", DefaultPoint},
	{"kennedy", DefaultPoint},
	{"11430", DefaultPoint},
}

// Fixtures returns the partner directory served by Maps.
func Fixtures() []domain.BusinessLocation {
	return []domain.BusinessLocation{
		{
			ID: "biz-twa-hotel", Name: "TWA Hotel", Address: "One Idlewild Dr, JFK Airport, NY 11430",
			Type: domain.BusinessHotel, AcceptsDelivery: true,
			Coordinate: domain.Coordinate{Latitude: 40.6459, Longitude: -73.7770},
		},
		{
			ID: "biz-courtyard-jfk", Name: "Courtyard JFK Airport", Address: "145-11 North Conduit Ave, Jamaica, NY 11436",
			Type: domain.BusinessHotel, AcceptsDelivery: true,
			Coordinate: domain.Coordinate{Latitude: 40.6686, Longitude: -73.7910},
		},
		{
			ID: "biz-conduit-cafe", Name: "Conduit Cafe", Address: "153-40 Rockaway Blvd, Jamaica, NY 11434",
			Type: domain.BusinessCafe,
			Coordinate: domain.Coordinate{Latitude: 40.6685, Longitude: -73.7794},
		},
		{
			ID: "biz-cloud-lounge", Name: "Cloud Nine Lounge", Address: "135-30 140th St, Jamaica, NY 11436",
			Type: domain.BusinessLounge, AcceptsDelivery: true,
			Coordinate: domain.Coordinate{Latitude: 40.6712, Longitude: -73.7953},
		},
		{
			ID: "biz-runway-fitness", Name: "Runway Fitness", Address: "160-05 Cross Bay Blvd, Howard Beach, NY 11414",
			Type: domain.BusinessGym,
			Coordinate: domain.Coordinate{Latitude: 40.6587, Longitude: -73.8390},
		},
		{
			ID: "biz-queens-smoke", Name: "Queens Smoke & Vape", Address: "89-14 Sutphin Blvd, Jamaica, NY 11435",
			Type: domain.BusinessSmokeShop,
			Coordinate: domain.Coordinate{Latitude: 40.7041, Longitude: -73.8076},
		},
		{
			ID: "biz-midtown-lounge", Name: "Midtown Rooftop Lounge", Address: "1535 Broadway, New York, NY 10036",
			Type: domain.BusinessLounge,
			Coordinate: domain.Coordinate{Latitude: 40.7580, Longitude: -73.9855},
		},
	}
}

// Maps implements ports.GeocodingProvider and ports.PlacesProvider from
// hard-coded data.
type Maps struct {
	mu         sync.RWMutex
	businesses []domain.BusinessLocation
}

// New creates a Maps serving the given businesses. A nil slice serves Fixtures.
func New(businesses []domain.BusinessLocation) *Maps {
	if businesses == nil {
		businesses = Fixtures()
	}
	return &Maps{businesses: businesses}
}

// Geocode resolves address by keyword match.
func (m *Maps) Geocode(ctx context.Context, address string) (domain.Coordinate, error) {
	if err := ctx.Err(); err != nil {
		return domain.Coordinate{}, err
	}
	a := strings.ToLower(address)
	for _, l := range landmarks {
		if strings.Contains(a, l.keyword) {
			return l.point, nil
		}
	}
	return domain.Coordinate{}, domain.ErrAddressNotFound
}

// Nearby returns businesses within radiusMiles of point, nearest first, at most
// limit. Equal distances keep directory order.
func (m *Maps) Nearby(ctx context.Context, point domain.Coordinate, radiusMiles float64, limit int) ([]domain.BusinessLocation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	minLat, minLon, maxLat, maxLon := geospatial.BoundingBox(point.Latitude, point.Longitude, radiusMiles)

	type hit struct {
		b    domain.BusinessLocation
		dist float64
	}
	var hits []hit
	for _, b := range m.businesses {
		c := b.Coordinate
		if c.Latitude < minLat || c.Latitude > maxLat {
			continue
		}
		// boxes that wrap the antimeridian are checked by distance alone
		if minLon >= -180 && maxLon <= 180 && (c.Longitude < minLon || c.Longitude > maxLon) {
			continue
		}
		d := geospatial.HaversineMiles(point.Latitude, point.Longitude, c.Latitude, c.Longitude)
		if d <= radiusMiles {
			hits = append(hits, hit{b: b, dist: d})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].dist < hits[j].dist })

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]domain.BusinessLocation, len(hits))
	for i, h := range hits {
		out[i] = h.b
	}
	return out, nil
}

// Add appends a business to the directory.
func (m *Maps) Add(b domain.BusinessLocation) {
	m.mu.Lock()
	m.businesses = append(m.businesses, b)
	m.mu.Unlock()
}
