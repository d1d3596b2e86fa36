package app

import (
	"math"

	"hotel_booking/internal/domain"
)

const earthRadiusKm = 6371.0

// DistanceKm returns the haversine great-circle distance between a and b,
// rounded to the nearest kilometer (halves away from zero).
func DistanceKm(a, b domain.Coordinate) int {
	dLat := radians(b.Latitude - a.Latitude)
	dLon := radians(b.Longitude - a.Longitude)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(radians(a.Latitude))*math.Cos(radians(b.Latitude))*sinLon*sinLon
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return int(math.Round(earthRadiusKm * c))
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
