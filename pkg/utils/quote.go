package utils

import (
	"math"

	"github.com/ankitgade/greenfleet-backend/internal/models"
)

// QuoteResult contains the calculated shipment fare and breakdown
type QuoteResult struct {
	TotalFare   float64        `json:"totalFare"`
	Distance    float64        `json:"distance"`
	RatePerKm   float64        `json:"ratePerKm"`
	MinimumFare float64        `json:"minimumFare"`
	Breakdown   QuoteBreakdown `json:"breakdown"`
}

// QuoteBreakdown provides detailed fare breakdown
type QuoteBreakdown struct {
	BaseFare     float64 `json:"baseFare"`
	DistanceFare float64 `json:"distanceFare"`
	WeightFare   float64 `json:"weightFare"`
	Total        float64 `json:"total"`
}

const (
	// Rates in INR
	MinimumFare         = 150.0 // Minimum fare for distances <= 3km
	MinimumFareDistance = 3.0   // Distance threshold for minimum fare in km
	RatePerKgKm         = 0.05  // Weight surcharge per kg per km
)

// Per-km rates by vehicle class
var ratePerKmByClass = map[string]float64{
	models.VehicleTypeBike:         12.0,
	models.VehicleTypeThreeWheeler: 18.0,
	models.VehicleTypeMiniTruck:    28.0,
	models.VehicleTypeTruck:        40.0,
	models.VehicleTypeLargeTruck:   60.0,
}

// Base fares by vehicle class
var baseFareByClass = map[string]float64{
	models.VehicleTypeBike:         40.0,
	models.VehicleTypeThreeWheeler: 60.0,
	models.VehicleTypeMiniTruck:    120.0,
	models.VehicleTypeTruck:        200.0,
	models.VehicleTypeLargeTruck:   350.0,
}

// CalculateShipmentQuote calculates the fare for a shipment based on the
// pickup/destination distance, the vehicle class and the cargo weight.
func CalculateShipmentQuote(pickupLat, pickupLng, destLat, destLng float64, vehicleType string, cargoWeightKg float64) QuoteResult {
	distance := HaversineDistance(pickupLat, pickupLng, destLat, destLng)

	ratePerKm, ok := ratePerKmByClass[vehicleType]
	if !ok {
		ratePerKm = ratePerKmByClass[models.VehicleTypeTruck]
	}
	baseFare, ok := baseFareByClass[vehicleType]
	if !ok {
		baseFare = baseFareByClass[models.VehicleTypeTruck]
	}

	distanceFare := distance * ratePerKm
	weightFare := cargoWeightKg * distance * RatePerKgKm
	totalFare := baseFare + distanceFare + weightFare

	// Apply minimum fare for short hauls
	if distance <= MinimumFareDistance && totalFare < MinimumFare {
		totalFare = MinimumFare
	}

	// Round to 2 decimal places
	totalFare = math.Round(totalFare*100) / 100

	return QuoteResult{
		TotalFare:   totalFare,
		Distance:    math.Round(distance*100) / 100,
		RatePerKm:   ratePerKm,
		MinimumFare: MinimumFare,
		Breakdown: QuoteBreakdown{
			BaseFare:     baseFare,
			DistanceFare: math.Round(distanceFare*100) / 100,
			WeightFare:   math.Round(weightFare*100) / 100,
			Total:        totalFare,
		},
	}
}
