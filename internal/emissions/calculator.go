package emissions

import (
	"math"

	"github.com/ankitgade/greenfleet-backend/internal/models"
)

// DefaultEfficiency is the liters-per-100km fallback for unknown vehicle types.
const DefaultEfficiency = 12.0

// litersPer100Km by vehicle class
var litersPer100Km = map[string]float64{
	models.VehicleTypeBike:         3,
	models.VehicleTypeThreeWheeler: 6,
	models.VehicleTypeMiniTruck:    10,
	models.VehicleTypeTruck:        15,
	models.VehicleTypeLargeTruck:   25,
}

// CO2FromFuel converts liters of fuel into kg of CO2 using the table's factor
// for the fuel type. Callers must reject malformed numeric input (NaN or
// negative liters) before invocation; no validation happens here.
func (t FactorTable) CO2FromFuel(liters float64, fuelType string) float64 {
	return round2(liters * t.Factor(fuelType))
}

// EstimateFuelFromDistance estimates liters consumed over a distance for a
// vehicle class, used when no explicit fuel figure was logged. Unknown
// vehicle types fall back to the supplied efficiency.
func EstimateFuelFromDistance(distanceKm float64, vehicleType string, fallbackEfficiency float64) float64 {
	efficiency, ok := litersPer100Km[vehicleType]
	if !ok {
		efficiency = fallbackEfficiency
	}
	return round2(distanceKm * efficiency / 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
