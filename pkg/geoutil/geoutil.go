// Package geoutil provides the stateless geospatial helpers shared by the
// discovery services: haversine distance, coordinate validation and the
// null-island sentinel check.
package geoutil

import "math"

const earthRadiusKm = 6371.0

// DistanceKm returns the haversine distance between two coordinates in kilometers
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := degreesToRadians(lat2 - lat1)
	dLon := degreesToRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(degreesToRadians(lat1))*math.Cos(degreesToRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// RoundKm rounds a distance to two decimal places for API responses
func RoundKm(km float64) float64 {
	return math.Round(km*100) / 100
}

// ValidCoordinates reports whether a latitude/longitude pair is finite and in range
func ValidCoordinates(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// IsNullIsland reports whether a coordinate pair is the [0,0] "no location set"
// sentinel. Records carrying it must never participate in proximity math.
func IsNullIsland(lat, lon float64) bool {
	return lat == 0 && lon == 0
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
