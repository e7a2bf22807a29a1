package domain

import "fmt"

// Coordinate represents a geographic coordinate (WGS 84), in degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate reports ErrInvalidCoordinate when the latitude or longitude is out of range.
// The geo functions themselves never call it; boundaries do.
func (c Coordinate) Validate() error {
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("%w: latitude %.6f outside [-90, 90]", ErrInvalidCoordinate, c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("%w: longitude %.6f outside [-180, 180]", ErrInvalidCoordinate, c.Longitude)
	}
	return nil
}

// DeliveryZone is a circular delivery area around a center point.
// Zones come from configuration and are never mutated at runtime.
type DeliveryZone struct {
	ID                   string     `json:"id"`
	Name                 string     `json:"name"`
	Center               Coordinate `json:"center"`
	RadiusMiles          float64    `json:"radius_miles"`
	DeliveryFee          float64    `json:"delivery_fee"`
	MinFreeDeliveryOrder float64    `json:"min_free_delivery_order"`
	EstimatedTimeLabel   string     `json:"estimated_time_label"`
}

// BusinessType classifies a partner location.
type BusinessType string

const (
	BusinessHotel     BusinessType = "hotel"
	BusinessCafe      BusinessType = "cafe"
	BusinessLounge    BusinessType = "lounge"
	BusinessGym       BusinessType = "gym"
	BusinessSmokeShop BusinessType = "smoke-shop"
)

// BusinessLocation is a place returned by a places/directory provider.
type BusinessLocation struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Address         string       `json:"address"`
	Type            BusinessType `json:"type"`
	Coordinate      Coordinate   `json:"coordinate"`
	AcceptsDelivery bool         `json:"accepts_delivery"`
	ImageURL        string       `json:"image_url,omitempty"`
}

// RankedBusiness is a business with its distance from the query point,
// rounded to one decimal place.
type RankedBusiness struct {
	BusinessLocation
	DistanceMiles float64 `json:"distance_miles"`
}

// DistanceLabel formats the distance the way the storefront displays it.
func (r RankedBusiness) DistanceLabel() string {
	return fmt.Sprintf("%.1f miles away", r.DistanceMiles)
}
