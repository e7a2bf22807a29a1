package geospatial

import "math"

// EarthRadiusMiles is the mean Earth radius used by the storefront.
const EarthRadiusMiles = 3958.8

// HaversineMiles calculates the great-circle distance in miles between two points.
func HaversineMiles(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusMiles * c
}

// BoundingBox returns the smallest latitude/longitude box containing every
// point within radiusMiles of (lat, lon). Near a pole the box spans all longitudes.
// Callers use it to discard far points before computing exact distances.
func BoundingBox(lat, lon, radiusMiles float64) (minLat, minLon, maxLat, maxLon float64) {
	angular := radiusMiles / EarthRadiusMiles
	latDelta := toDeg(angular)

	minLat, maxLat = math.Max(lat-latDelta, -90), math.Min(lat+latDelta, 90)
	if minLat == -90 || maxLat == 90 || math.Sin(angular) >= math.Cos(toRad(lat)) {
		return minLat, -180, maxLat, 180
	}

	lonDelta := toDeg(math.Asin(math.Sin(angular) / math.Cos(toRad(lat))))
	return minLat, lon - lonDelta, maxLat, lon + lonDelta
}

// Round rounds x to the given number of decimal places.
func Round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func toDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
