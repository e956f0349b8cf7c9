package handlers

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/ankitgade/greenfleet-backend/internal/emissions"
	"github.com/ankitgade/greenfleet-backend/internal/models"
	"github.com/ankitgade/greenfleet-backend/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// buildFleetContext serializes the current aggregates into the plain-text
// block the assistant answers against
func buildFleetContext(db *gorm.DB) string {
	var entries []models.FuelEntry
	db.Preload("Vehicle").Find(&entries)
	var shipments []models.Shipment
	db.Where("status = ?", models.ShipmentStatusDelivered).Find(&shipments)

	summary, vehicles, fuelTypes := emissions.Aggregate(entries, shipments)
	_, _, summary.MonthlyTrendPct = currentTrend(db)

	var b strings.Builder
	fmt.Fprintf(&b, "As of %s:\n", time.Now().Format("2006-01-02"))
	fmt.Fprintf(&b, "Total CO2 emitted: %.2f kg over %.2f km and %d trips (%.2f kg/km).\n",
		summary.TotalCO2EmittedKg, summary.TotalDistanceKm, summary.TotalTrips, summary.CO2PerKm)
	fmt.Fprintf(&b, "Total CO2 saved: %.2f kg. EV savings: %.2f kg. Monthly trend: %.1f%%.\n",
		summary.TotalCO2SavedKg, summary.EVSavingsKg, summary.MonthlyTrendPct)

	b.WriteString("Vehicles:\n")
	for _, v := range vehicles {
		fmt.Fprintf(&b, "- %s (%s): %.2f kg CO2 over %.2f km, avg %.2f kg/km, %d trips\n",
			v.VehicleNumber, v.FuelType, v.TotalCO2Kg, v.TotalDistanceKm, v.AvgCO2PerKm, v.Trips)
	}

	b.WriteString("Fuel types:\n")
	for _, f := range fuelTypes {
		fmt.Fprintf(&b, "- %s: %.2f kg CO2 (%.1f%% of total)\n", f.FuelType, f.TotalCO2Kg, f.PercentOfTotal)
	}

	if leaderboard, err := leaderboardEntries(db, 5); err == nil && len(leaderboard) > 0 {
		b.WriteString("Top drivers by eco score:\n")
		for i, e := range leaderboard {
			fmt.Fprintf(&b, "%d. %s: %d (%s)\n", i+1, e.DriverName, e.OverallEcoScore, e.EcoRank)
		}
	}

	return b.String()
}

// assistantAnswer degrades to an empty answer when the assistant is
// unconfigured or the remote call fails
func assistantAnswer(ctx context.Context, question, fleetContext string) string {
	answer, err := services.AskAssistant(ctx, question, fleetContext)
	if err != nil {
		log.Printf("Assistant unavailable: %v", err)
		return ""
	}
	return answer
}

// DashboardChat answers a natural-language question about the fleet
func DashboardChat(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Question string `json:"question" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		c.JSON(200, gin.H{"answer": assistantAnswer(c.Request.Context(), input.Question, buildFleetContext(db))})
	}
}
