package emissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ankitgade/greenfleet-backend/internal/models"
)

func kinds(insights []Insight) []string {
	out := make([]string, len(insights))
	for i, ins := range insights {
		out[i] = ins.Kind
	}
	return out
}

func hasTitle(insights []Insight, title string) bool {
	for _, ins := range insights {
		if ins.Title == title {
			return true
		}
	}
	return false
}

func TestGenerateInsightsHighEmitterWarning(t *testing.T) {
	vehicles := []VehicleBreakdown{
		{VehicleNumber: "KA-01-0001", FuelType: models.FuelTypeDiesel, AvgCO2PerKm: 0.45},
		{VehicleNumber: "KA-01-0002", FuelType: models.FuelTypeDiesel, AvgCO2PerKm: 0.40},
		{VehicleNumber: "KA-01-0003", FuelType: models.FuelTypeDiesel, AvgCO2PerKm: 0.38},
		{VehicleNumber: "KA-01-0004", FuelType: models.FuelTypeDiesel, AvgCO2PerKm: 0.36},
		{VehicleNumber: "KA-01-0005", FuelType: models.FuelTypeElectric, AvgCO2PerKm: 0.50},
	}

	insights := GenerateInsights(Summary{}, vehicles, nil)

	require.True(t, hasTitle(insights, "High-emission vehicles detected"))
	warning := insights[0]
	assert.Equal(t, InsightWarning, warning.Kind)
	// Electric vehicles are never offenders; only 3 of the 4 diesel
	// offenders are named but savings cover all of them.
	assert.NotContains(t, warning.Message, "KA-01-0005")
	assert.NotContains(t, warning.Message, "KA-01-0004")
	assert.Contains(t, warning.Message, "KA-01-0001")
	// (0.45+0.40+0.38+0.36 - 4*0.25) * 1000
	assert.InDelta(t, 590.0, warning.PotentialSavingsKg, 0.001)
}

func TestGenerateInsightsAllElectricFleetNeverSuggestsEVTransition(t *testing.T) {
	vehicles := []VehicleBreakdown{
		{VehicleNumber: "EV-1", FuelType: models.FuelTypeElectric, AvgCO2PerKm: 0},
		{VehicleNumber: "EV-2", FuelType: models.FuelTypeElectric, AvgCO2PerKm: 0},
	}
	sum := Summary{EVSavingsKg: 120, TotalDistanceKm: 500}

	insights := GenerateInsights(sum, vehicles, nil)

	assert.False(t, hasTitle(insights, "EV transition opportunity"))
}

func TestGenerateInsightsEVTransitionSuggestion(t *testing.T) {
	vehicles := []VehicleBreakdown{
		{VehicleNumber: "D-1", FuelType: models.FuelTypeDiesel, AvgCO2PerKm: 0.3},
		{VehicleNumber: "EV-1", FuelType: models.FuelTypeElectric, AvgCO2PerKm: 0},
	}
	sum := Summary{EVSavingsKg: 40}

	insights := GenerateInsights(sum, vehicles, nil)

	assert.True(t, hasTitle(insights, "EV transition opportunity"))
}

func TestGenerateInsightsRouteOptimization(t *testing.T) {
	sum := Summary{TotalDistanceKm: 1000, TotalCO2EmittedKg: 200}

	insights := GenerateInsights(sum, nil, nil)

	require.True(t, hasTitle(insights, "Route optimization potential"))
	for _, ins := range insights {
		if ins.Title == "Route optimization potential" {
			assert.Equal(t, 30.0, ins.PotentialSavingsKg)
		}
	}

	// No distance driven -> no route suggestion
	insights = GenerateInsights(Summary{}, nil, nil)
	assert.False(t, hasTitle(insights, "Route optimization potential"))
}

func TestGenerateInsightsTopDriverAchievement(t *testing.T) {
	leaderboard := []LeaderboardEntry{
		{DriverID: 1, DriverName: "Asha", OverallEcoScore: 92, EcoRank: models.EcoRankChampion},
		{DriverID: 2, DriverName: "Ravi", OverallEcoScore: 77, EcoRank: models.EcoRankGreen},
	}

	insights := GenerateInsights(Summary{}, nil, leaderboard)

	require.True(t, hasTitle(insights, "Top eco driver"))
	assert.Contains(t, insights[0].Message, "Asha")
}

func TestGenerateInsightsTrendRules(t *testing.T) {
	down := GenerateInsights(Summary{MonthlyTrendPct: -8}, nil, nil)
	assert.Contains(t, kinds(down), InsightAchievement)
	assert.True(t, hasTitle(down, "Emissions down"))

	up := GenerateInsights(Summary{MonthlyTrendPct: 15}, nil, nil)
	assert.True(t, hasTitle(up, "Emissions up"))

	// Both rules skip when the trend sits inside [-5, 10]
	for _, trend := range []float64{-5, 0, 10} {
		flat := GenerateInsights(Summary{MonthlyTrendPct: trend}, nil, nil)
		assert.False(t, hasTitle(flat, "Emissions down"), "trend %.0f", trend)
		assert.False(t, hasTitle(flat, "Emissions up"), "trend %.0f", trend)
	}
}
