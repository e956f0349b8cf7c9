package emissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ankitgade/greenfleet-backend/internal/models"
)

func fptr(v float64) *float64 { return &v }

func TestAggregateEmpty(t *testing.T) {
	sum, vehicles, fuels := Aggregate(nil, nil)

	assert.Equal(t, 0.0, sum.TotalCO2EmittedKg)
	assert.Equal(t, 0.0, sum.CO2PerKm)
	assert.Equal(t, 0.0, sum.TotalDistanceKm)
	assert.Equal(t, 0, sum.TotalTrips)
	assert.Empty(t, vehicles)
	assert.Empty(t, fuels)
}

func TestAggregateSinglePass(t *testing.T) {
	truck := &models.FleetVehicle{VehicleNumber: "KA-01-1234", VehicleType: models.VehicleTypeTruck, FuelType: models.FuelTypeDiesel}
	truck.ID = 1
	van := &models.FleetVehicle{VehicleNumber: "KA-01-5678", VehicleType: models.VehicleTypeMiniTruck, FuelType: models.FuelTypeElectric}
	van.ID = 2

	entries := []models.FuelEntry{
		{VehicleID: 1, FuelType: models.FuelTypeDiesel, FuelLiters: 10, CO2EmittedKg: 26.8, TripDistanceKm: fptr(100), Vehicle: truck},
		{VehicleID: 1, FuelType: models.FuelTypeDiesel, FuelLiters: 5, CO2EmittedKg: 13.4, TripDistanceKm: fptr(50), Vehicle: truck},
		{VehicleID: 2, FuelType: models.FuelTypeElectric, FuelLiters: 0, CO2EmittedKg: 0, TripDistanceKm: fptr(80), Vehicle: van},
	}
	shipments := []models.Shipment{
		{CarbonSavedKg: 1.5},
		{CarbonSavedKg: 0.75},
	}

	sum, vehicles, fuels := Aggregate(entries, shipments)

	assert.Equal(t, 40.2, sum.TotalCO2EmittedKg)
	assert.Equal(t, 2.25, sum.TotalCO2SavedKg)
	assert.Equal(t, 230.0, sum.TotalDistanceKm)
	assert.Equal(t, 15.0, sum.TotalFuelLiters)
	assert.Equal(t, 3, sum.TotalTrips)
	assert.InDelta(t, 0.17, sum.CO2PerKm, 0.001)
	assert.Equal(t, 20.0, sum.EVSavingsKg) // 80 km * 0.25 baseline

	require.Len(t, vehicles, 2)
	assert.Equal(t, uint(1), vehicles[0].VehicleID) // sorted by CO2 desc
	assert.Equal(t, "KA-01-1234", vehicles[0].VehicleNumber)
	assert.InDelta(t, 0.27, vehicles[0].AvgCO2PerKm, 0.001)
	assert.Equal(t, 2, vehicles[0].Trips)
	assert.Equal(t, 0.0, vehicles[1].AvgCO2PerKm)

	require.Len(t, fuels, 2)
	assert.Equal(t, models.FuelTypeDiesel, fuels[0].FuelType)
	assert.Equal(t, 100.0, fuels[0].PercentOfTotal)
	assert.Equal(t, 0.0, fuels[1].PercentOfTotal)
}

func TestAggregateZeroDistanceAvgFallback(t *testing.T) {
	entries := []models.FuelEntry{
		{VehicleID: 7, FuelType: models.FuelTypeDiesel, FuelLiters: 10, CO2EmittedKg: 26.8},
	}

	_, vehicles, _ := Aggregate(entries, nil)

	require.Len(t, vehicles, 1)
	assert.Equal(t, FallbackCO2PerKm, vehicles[0].AvgCO2PerKm)
}

func TestAggregateZeroTotalPercentages(t *testing.T) {
	entries := []models.FuelEntry{
		{VehicleID: 2, FuelType: models.FuelTypeElectric, FuelLiters: 0, CO2EmittedKg: 0, TripDistanceKm: fptr(40)},
	}

	sum, _, fuels := Aggregate(entries, nil)

	assert.Equal(t, 0.0, sum.TotalCO2EmittedKg)
	require.Len(t, fuels, 1)
	assert.Equal(t, 0.0, fuels[0].PercentOfTotal)
}

func TestTrendPercent(t *testing.T) {
	assert.Equal(t, 0.0, TrendPercent(100, 0)) // cold start, never Inf/NaN
	assert.Equal(t, 0.0, TrendPercent(0, 0))
	assert.Equal(t, 25.0, TrendPercent(125, 100))
	assert.Equal(t, -50.0, TrendPercent(50, 100))
}
