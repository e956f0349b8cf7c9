package emissions

import (
	"sort"

	"github.com/ankitgade/greenfleet-backend/internal/models"
)

// FallbackCO2PerKm guards per-key averages against zero recorded distance.
const FallbackCO2PerKm = 0.25

// Summary is the derived fleet-wide emissions aggregate. It is recomputed on
// demand and never persisted.
type Summary struct {
	TotalCO2EmittedKg float64 `json:"totalCo2Emitted"`
	TotalCO2SavedKg   float64 `json:"totalCo2Saved"`
	CO2PerKm          float64 `json:"co2PerKm"`
	TotalDistanceKm   float64 `json:"totalDistanceKm"`
	TotalFuelLiters   float64 `json:"totalFuelLiters"`
	TotalTrips        int     `json:"totalTrips"`
	MonthlyTrendPct   float64 `json:"monthlyTrend"`
	EVSavingsKg       float64 `json:"evSavings"`
}

// VehicleBreakdown is the per-vehicle slice of the aggregate.
type VehicleBreakdown struct {
	VehicleID       uint    `json:"vehicleId"`
	VehicleNumber   string  `json:"vehicleNumber"`
	FuelType        string  `json:"fuelType"`
	TotalFuelLiters float64 `json:"totalFuelLiters"`
	TotalCO2Kg      float64 `json:"totalCo2Kg"`
	TotalDistanceKm float64 `json:"totalDistanceKm"`
	AvgCO2PerKm     float64 `json:"avgCo2PerKm"`
	Trips           int     `json:"trips"`
}

// FuelTypeBreakdown is the per-fuel-type slice of the aggregate.
type FuelTypeBreakdown struct {
	FuelType        string  `json:"fuelType"`
	TotalFuelLiters float64 `json:"totalFuelLiters"`
	TotalCO2Kg      float64 `json:"totalCo2Kg"`
	TotalDistanceKm float64 `json:"totalDistanceKm"`
	PercentOfTotal  float64 `json:"percentOfTotal"`
	Trips           int     `json:"trips"`
}

// Aggregate folds fuel entries and shipments into a Summary plus per-vehicle
// and per-fuel-type breakdowns. Single pass accumulating running sums per
// key, then a second pass deriving averages and percentages. Callers bound
// the inputs by date range before invoking.
func Aggregate(entries []models.FuelEntry, shipments []models.Shipment) (Summary, []VehicleBreakdown, []FuelTypeBreakdown) {
	var sum Summary
	byVehicle := make(map[uint]*VehicleBreakdown)
	byFuel := make(map[string]*FuelTypeBreakdown)

	for i := range entries {
		e := &entries[i]
		distance := 0.0
		if e.TripDistanceKm != nil {
			distance = *e.TripDistanceKm
		}

		sum.TotalCO2EmittedKg += e.CO2EmittedKg
		sum.TotalFuelLiters += e.FuelLiters
		sum.TotalDistanceKm += distance
		sum.TotalTrips++

		if e.FuelType == models.FuelTypeElectric {
			sum.EVSavingsKg += distance * FallbackCO2PerKm
		}

		vb, ok := byVehicle[e.VehicleID]
		if !ok {
			vb = &VehicleBreakdown{VehicleID: e.VehicleID, FuelType: e.FuelType}
			if e.Vehicle != nil {
				vb.VehicleNumber = e.Vehicle.VehicleNumber
				vb.FuelType = e.Vehicle.FuelType
			}
			byVehicle[e.VehicleID] = vb
		}
		vb.TotalFuelLiters += e.FuelLiters
		vb.TotalCO2Kg += e.CO2EmittedKg
		vb.TotalDistanceKm += distance
		vb.Trips++

		fb, ok := byFuel[e.FuelType]
		if !ok {
			fb = &FuelTypeBreakdown{FuelType: e.FuelType}
			byFuel[e.FuelType] = fb
		}
		fb.TotalFuelLiters += e.FuelLiters
		fb.TotalCO2Kg += e.CO2EmittedKg
		fb.TotalDistanceKm += distance
		fb.Trips++
	}

	for _, s := range shipments {
		sum.TotalCO2SavedKg += s.CarbonSavedKg
	}

	// Second pass: per-key averages and percentages
	vehicles := make([]VehicleBreakdown, 0, len(byVehicle))
	for _, vb := range byVehicle {
		if vb.TotalDistanceKm > 0 {
			vb.AvgCO2PerKm = round2(vb.TotalCO2Kg / vb.TotalDistanceKm)
		} else {
			vb.AvgCO2PerKm = FallbackCO2PerKm
		}
		vehicles = append(vehicles, *vb)
	}
	sort.Slice(vehicles, func(i, j int) bool {
		if vehicles[i].TotalCO2Kg != vehicles[j].TotalCO2Kg {
			return vehicles[i].TotalCO2Kg > vehicles[j].TotalCO2Kg
		}
		return vehicles[i].VehicleID < vehicles[j].VehicleID
	})

	fuels := make([]FuelTypeBreakdown, 0, len(byFuel))
	for _, fb := range byFuel {
		if sum.TotalCO2EmittedKg > 0 {
			fb.PercentOfTotal = round2(fb.TotalCO2Kg / sum.TotalCO2EmittedKg * 100)
		}
		fuels = append(fuels, *fb)
	}
	sort.Slice(fuels, func(i, j int) bool {
		if fuels[i].TotalCO2Kg != fuels[j].TotalCO2Kg {
			return fuels[i].TotalCO2Kg > fuels[j].TotalCO2Kg
		}
		return fuels[i].FuelType < fuels[j].FuelType
	})

	if sum.TotalDistanceKm > 0 {
		sum.CO2PerKm = round2(sum.TotalCO2EmittedKg / sum.TotalDistanceKm)
	}
	sum.TotalCO2EmittedKg = round2(sum.TotalCO2EmittedKg)
	sum.TotalCO2SavedKg = round2(sum.TotalCO2SavedKg)
	sum.TotalFuelLiters = round2(sum.TotalFuelLiters)
	sum.TotalDistanceKm = round2(sum.TotalDistanceKm)
	sum.EVSavingsKg = round2(sum.EVSavingsKg)

	return sum, vehicles, fuels
}

// TrendPercent computes the month-over-month change. A fleet with no
// emissions in the reference month reports 0, never Inf or NaN.
func TrendPercent(currentCO2, priorCO2 float64) float64 {
	if priorCO2 == 0 {
		return 0
	}
	return round2((currentCO2 - priorCO2) / priorCO2 * 100)
}
