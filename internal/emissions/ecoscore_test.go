package emissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ankitgade/greenfleet-backend/internal/models"
)

func TestCombineScores(t *testing.T) {
	// round(0.4*80 + 0.3*70 + 0.15*60 + 0.15*60) = round(32+21+9+9) = 71
	assert.Equal(t, 71, CombineScores(80, 70, 60, 60))
	assert.Equal(t, 100, CombineScores(100, 100, 100, 100))
	assert.Equal(t, 0, CombineScores(0, 0, 0, 0))
}

func TestCombinedScoreMapsToGreenDriver(t *testing.T) {
	overall := CombineScores(80, 70, 60, 60)
	require.Equal(t, 71, overall)
	assert.Equal(t, models.EcoRankGreen, RankForScore(overall))
}

func TestRankForScore(t *testing.T) {
	assert.Equal(t, models.EcoRankChampion, RankForScore(90))
	assert.Equal(t, models.EcoRankGreen, RankForScore(75))
	assert.Equal(t, models.EcoRankGreen, RankForScore(71))
	assert.Equal(t, models.EcoRankGreen, RankForScore(70))
	assert.Equal(t, models.EcoRankLearner, RankForScore(69))
	assert.Equal(t, models.EcoRankLearner, RankForScore(60))
	assert.Equal(t, models.EcoRankDeveloping, RankForScore(40))
	assert.Equal(t, models.EcoRankBeginner, RankForScore(39))
	assert.Equal(t, models.EcoRankBeginner, RankForScore(0))
}

func TestApplyDeliveryFirstDeliverySeedsScore(t *testing.T) {
	// Driver with no prior score completes a 50 km delivery in a diesel
	// truck with no explicit fuel figure.
	factors := DefaultFactors()
	fuel := EstimateFuelFromDistance(50, models.VehicleTypeTruck, DefaultEfficiency)
	co2 := factors.CO2FromFuel(fuel, models.FuelTypeDiesel)

	assert.Equal(t, 7.5, fuel)
	assert.Equal(t, 20.1, co2)

	var score models.DriverEcoScore
	ApplyDelivery(&score, DeliveryData{DistanceKm: 50, FuelLiters: fuel, CO2Kg: co2})

	assert.Equal(t, 1, score.TotalDeliveries)
	assert.Equal(t, 50.0, score.TotalDistanceKm)
	assert.Equal(t, 7.5, score.TotalFuelLiters)
	assert.Equal(t, 20.1, score.TotalCO2Kg)
	// avg 0.402 kg/km -> 100 - 80.4 = 19.6
	assert.InDelta(t, 19.6, score.FuelEfficiencyScore, 0.001)
	assert.Equal(t, RankForScore(score.OverallEcoScore), score.EcoRank)
}

func TestApplyDeliveryIdlingCarriesForwardWithoutData(t *testing.T) {
	var score models.DriverEcoScore
	idle := 10.0
	ApplyDelivery(&score, DeliveryData{DistanceKm: 20, FuelLiters: 2, CO2Kg: 4, IdleMinutes: &idle})
	assert.Equal(t, 80.0, score.IdlingScore)

	// No idle data this time: score must carry forward unchanged
	ApplyDelivery(&score, DeliveryData{DistanceKm: 20, FuelLiters: 2, CO2Kg: 4})
	assert.Equal(t, 80.0, score.IdlingScore)
}

func TestApplyDeliveryAccelBrakingCarryForward(t *testing.T) {
	score := models.DriverEcoScore{AccelerationScore: 55, BrakingScore: 65, TotalDeliveries: 3}
	ApplyDelivery(&score, DeliveryData{DistanceKm: 10, FuelLiters: 1, CO2Kg: 2})
	assert.Equal(t, 55.0, score.AccelerationScore)
	assert.Equal(t, 65.0, score.BrakingScore)
}

func TestCenturyBadgeIdempotent(t *testing.T) {
	score := models.DriverEcoScore{TotalDeliveries: 99}

	ApplyDelivery(&score, DeliveryData{DistanceKm: 10, FuelLiters: 1, CO2Kg: 2.68})
	require.Equal(t, 100, score.TotalDeliveries)
	assert.True(t, score.HasBadge(models.BadgeCenturyDriver))

	// Re-running the update at delivery 101 must not duplicate the badge
	ApplyDelivery(&score, DeliveryData{DistanceKm: 10, FuelLiters: 1, CO2Kg: 2.68})
	count := 0
	for _, b := range score.Badges {
		if b == models.BadgeCenturyDriver {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestCarbonSaverBadge(t *testing.T) {
	var score models.DriverEcoScore
	// 100 km at 15 kg -> 0.15 kg/km lifetime average
	ApplyDelivery(&score, DeliveryData{DistanceKm: 100, FuelLiters: 5, CO2Kg: 15})
	assert.True(t, score.HasBadge(models.BadgeCarbonSaver))
}

func TestBadgesNeverRemoved(t *testing.T) {
	var score models.DriverEcoScore
	ApplyDelivery(&score, DeliveryData{DistanceKm: 100, FuelLiters: 5, CO2Kg: 15})
	require.True(t, score.HasBadge(models.BadgeCarbonSaver))

	// A heavy delivery regresses the lifetime average past the threshold
	ApplyDelivery(&score, DeliveryData{DistanceKm: 10, FuelLiters: 30, CO2Kg: 80})
	assert.True(t, score.HasBadge(models.BadgeCarbonSaver))
}
