package emissions

import (
	"math"

	"github.com/ankitgade/greenfleet-backend/internal/models"
)

// Score recombination weights, fixed by the scoring model
const (
	weightFuelEfficiency = 0.4
	weightIdling         = 0.3
	weightAcceleration   = 0.15
	weightBraking        = 0.15
)

// DeliveryData is the per-completion input to the eco score updater.
type DeliveryData struct {
	DistanceKm  float64
	FuelLiters  float64
	CO2Kg       float64
	IdleMinutes *float64
}

// ApplyDelivery folds one completed delivery into the driver's score. A zero
// row (TotalDeliveries == 0) is seeded from this delivery; otherwise running
// totals are updated incrementally. Acceleration and braking scores carry
// forward from whatever was last stored: no telemetry source feeds them yet.
func ApplyDelivery(score *models.DriverEcoScore, d DeliveryData) {
	score.TotalDeliveries++
	score.TotalDistanceKm = round2(score.TotalDistanceKm + d.DistanceKm)
	score.TotalFuelLiters = round2(score.TotalFuelLiters + d.FuelLiters)
	score.TotalCO2Kg = round2(score.TotalCO2Kg + d.CO2Kg)

	score.MonthlyDeliveries++
	score.MonthlyDistanceKm = round2(score.MonthlyDistanceKm + d.DistanceKm)
	score.MonthlyCO2Kg = round2(score.MonthlyCO2Kg + d.CO2Kg)

	// Fuel efficiency is recomputed over the new lifetime totals
	avgCO2PerKm := 0.0
	if score.TotalDistanceKm > 0 {
		avgCO2PerKm = score.TotalCO2Kg / score.TotalDistanceKm
	}
	score.FuelEfficiencyScore = clamp(100-avgCO2PerKm*200, 0, 100)

	// Idling only updates when idle-time data was supplied for this delivery
	if d.IdleMinutes != nil {
		sample := clamp(100-*d.IdleMinutes*2, 0, 100)
		if score.TotalDeliveries == 1 {
			score.IdlingScore = sample
		} else {
			n := float64(score.TotalDeliveries)
			score.IdlingScore = round2((score.IdlingScore*(n-1) + sample) / n)
		}
	}

	score.OverallEcoScore = CombineScores(
		score.FuelEfficiencyScore,
		score.IdlingScore,
		score.AccelerationScore,
		score.BrakingScore,
	)
	score.EcoRank = RankForScore(score.OverallEcoScore)

	if score.TotalDeliveries >= 100 {
		score.AwardBadge(models.BadgeCenturyDriver)
	}
	if score.OverallEcoScore >= 90 {
		score.AwardBadge(models.BadgeEcoChampion)
	}
	if score.TotalDistanceKm > 0 && avgCO2PerKm < 0.2 {
		score.AwardBadge(models.BadgeCarbonSaver)
	}
}

// CombineScores recombines the component scores with fixed weights, rounded
// and clamped to [0,100].
func CombineScores(fuelEfficiency, idling, acceleration, braking float64) int {
	overall := weightFuelEfficiency*fuelEfficiency +
		weightIdling*idling +
		weightAcceleration*acceleration +
		weightBraking*braking
	return int(clamp(math.Round(overall), 0, 100))
}

// RankForScore maps an overall eco score to its tier. Lower bounds are
// inclusive; ties resolve to the highest qualifying threshold.
func RankForScore(overall int) string {
	switch {
	case overall >= 90:
		return models.EcoRankChampion
	case overall >= 70:
		return models.EcoRankGreen
	case overall >= 60:
		return models.EcoRankLearner
	case overall >= 40:
		return models.EcoRankDeveloping
	default:
		return models.EcoRankBeginner
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
