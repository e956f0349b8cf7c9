package utils

import "math"

const earthRadiusKm = 6371.0

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// HaversineDistance returns the great-circle distance in kilometers
// between two coordinate pairs.
func HaversineDistance(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLng := toRadians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)

	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// CalculateETA estimates travel time in whole minutes over distanceKm at
// averageSpeedKmh, never less than one minute. Non-positive speeds fall
// back to 30 km/h city traffic.
func CalculateETA(distanceKm, averageSpeedKmh float64) int {
	if averageSpeedKmh <= 0 {
		averageSpeedKmh = 30
	}
	minutes := int(distanceKm / averageSpeedKmh * 60)
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
