package emissions

import (
	"fmt"
	"strings"

	"github.com/ankitgade/greenfleet-backend/internal/models"
)

// Insight kinds
const (
	InsightWarning     = "warning"
	InsightSuggestion  = "suggestion"
	InsightAchievement = "achievement"
)

// Thresholds for the insight rules
const (
	highEmitterCO2PerKm   = 0.35
	routeOptimizationRate = 0.15
	trendDownThreshold    = -5
	trendUpThreshold      = 10
)

// Insight is one advisory derived from the aggregates.
type Insight struct {
	Kind               string  `json:"kind"`
	Title              string  `json:"title"`
	Message            string  `json:"message"`
	PotentialSavingsKg float64 `json:"potentialSavingsKg,omitempty"`
}

// LeaderboardEntry is one ranked driver on the eco score leaderboard.
type LeaderboardEntry struct {
	DriverID        uint   `json:"driverId"`
	DriverName      string `json:"driverName"`
	OverallEcoScore int    `json:"overallEcoScore"`
	EcoRank         string `json:"ecoRank"`
}

// GenerateInsights evaluates the advisory rules in fixed order over a freshly
// computed summary, per-vehicle breakdown and driver leaderboard. Rules are
// evaluated independently; none are mutually exclusive except the two trend
// rules, whose thresholds are disjoint by construction.
func GenerateInsights(sum Summary, vehicles []VehicleBreakdown, leaderboard []LeaderboardEntry) []Insight {
	insights := []Insight{}

	var offenders []VehicleBreakdown
	for _, v := range vehicles {
		if v.AvgCO2PerKm > highEmitterCO2PerKm && v.FuelType != models.FuelTypeElectric {
			offenders = append(offenders, v)
		}
	}
	if len(offenders) > 0 {
		savings := 0.0
		for _, v := range offenders {
			savings += (v.AvgCO2PerKm - FallbackCO2PerKm) * 1000
		}
		named := offenders
		if len(named) > 3 {
			named = named[:3]
		}
		names := make([]string, 0, len(named))
		for _, v := range named {
			names = append(names, v.VehicleNumber)
		}
		insights = append(insights, Insight{
			Kind:               InsightWarning,
			Title:              "High-emission vehicles detected",
			Message:            fmt.Sprintf("Vehicles %s are emitting above %.2f kg CO2/km. Consider maintenance checks or route changes.", strings.Join(names, ", "), highEmitterCO2PerKm),
			PotentialSavingsKg: round2(savings),
		})
	}

	dieselPresent := false
	for _, v := range vehicles {
		if v.FuelType == models.FuelTypeDiesel {
			dieselPresent = true
			break
		}
	}
	if dieselPresent && sum.EVSavingsKg > 0 {
		insights = append(insights, Insight{
			Kind:    InsightSuggestion,
			Title:   "EV transition opportunity",
			Message: fmt.Sprintf("Your electric vehicles already avoided %.2f kg CO2. Transitioning diesel vehicles to EVs would extend those savings.", sum.EVSavingsKg),
		})
	}

	if sum.TotalDistanceKm > 0 {
		insights = append(insights, Insight{
			Kind:               InsightSuggestion,
			Title:              "Route optimization potential",
			Message:            "Optimizing delivery routes could cut fleet emissions by around 15%.",
			PotentialSavingsKg: round2(sum.TotalCO2EmittedKg * routeOptimizationRate),
		})
	}

	if len(leaderboard) > 0 {
		top := leaderboard[0]
		insights = append(insights, Insight{
			Kind:    InsightAchievement,
			Title:   "Top eco driver",
			Message: fmt.Sprintf("%s leads the fleet with an eco score of %d (%s).", top.DriverName, top.OverallEcoScore, top.EcoRank),
		})
	}

	if sum.MonthlyTrendPct < trendDownThreshold {
		insights = append(insights, Insight{
			Kind:    InsightAchievement,
			Title:   "Emissions down",
			Message: fmt.Sprintf("Fleet emissions dropped %.1f%% compared to last month.", -sum.MonthlyTrendPct),
		})
	} else if sum.MonthlyTrendPct > trendUpThreshold {
		insights = append(insights, Insight{
			Kind:    InsightWarning,
			Title:   "Emissions up",
			Message: fmt.Sprintf("Fleet emissions rose %.1f%% compared to last month.", sum.MonthlyTrendPct),
		})
	}

	return insights
}
