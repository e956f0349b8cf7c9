package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ankitgade/greenfleet-backend/internal/models"
)

func TestCalculateShipmentQuoteSamePoint(t *testing.T) {
	q := CalculateShipmentQuote(12.9716, 77.5946, 12.9716, 77.5946, models.VehicleTypeBike, 0)
	assert.Equal(t, 0.0, q.Distance)
	// Zero-distance haul with a bike base fare of 40 still pays the minimum
	assert.Equal(t, MinimumFare, q.TotalFare)
}

func TestCalculateShipmentQuoteClassRates(t *testing.T) {
	// Bangalore -> roughly 30 km north
	bike := CalculateShipmentQuote(12.9716, 77.5946, 13.2416, 77.5946, models.VehicleTypeBike, 0)
	truck := CalculateShipmentQuote(12.9716, 77.5946, 13.2416, 77.5946, models.VehicleTypeTruck, 0)

	assert.Greater(t, bike.Distance, MinimumFareDistance)
	assert.Greater(t, truck.TotalFare, bike.TotalFare)
	assert.Equal(t, 12.0, bike.RatePerKm)
	assert.Equal(t, 40.0, truck.RatePerKm)
}

func TestCalculateShipmentQuoteWeightSurcharge(t *testing.T) {
	light := CalculateShipmentQuote(12.9716, 77.5946, 13.2416, 77.5946, models.VehicleTypeTruck, 0)
	heavy := CalculateShipmentQuote(12.9716, 77.5946, 13.2416, 77.5946, models.VehicleTypeTruck, 500)

	assert.Greater(t, heavy.TotalFare, light.TotalFare)
	assert.Greater(t, heavy.Breakdown.WeightFare, 0.0)
	assert.Equal(t, 0.0, light.Breakdown.WeightFare)
}

func TestCalculateShipmentQuoteUnknownClassFallsBackToTruck(t *testing.T) {
	unknown := CalculateShipmentQuote(12.9716, 77.5946, 13.2416, 77.5946, "hovercraft", 0)
	truck := CalculateShipmentQuote(12.9716, 77.5946, 13.2416, 77.5946, models.VehicleTypeTruck, 0)
	assert.Equal(t, truck.TotalFare, unknown.TotalFare)
}

func TestHaversineDistance(t *testing.T) {
	// Bangalore to Chennai is roughly 290 km
	d := HaversineDistance(12.9716, 77.5946, 13.0827, 80.2707)
	assert.InDelta(t, 290, d, 10)
	assert.Equal(t, 0.0, HaversineDistance(10, 10, 10, 10))
}

func TestCalculateETA(t *testing.T) {
	assert.Equal(t, 60, CalculateETA(30, 30))
	assert.Equal(t, 1, CalculateETA(0.1, 30)) // minimum 1 minute
	assert.Equal(t, 60, CalculateETA(30, 0))  // defaults to 30 km/h
}
