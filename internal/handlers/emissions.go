package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/ankitgade/greenfleet-backend/internal/emissions"
	"github.com/ankitgade/greenfleet-backend/internal/models"
	"github.com/ankitgade/greenfleet-backend/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// parseDateRange reads optional from/to query params (YYYY-MM-DD). A zero
// from means the beginning of time, a zero to means now.
func parseDateRange(c *gin.Context) (time.Time, time.Time, error) {
	var from, to time.Time
	var err error

	if s := c.Query("from"); s != "" {
		from, err = time.Parse("2006-01-02", s)
		if err != nil {
			return from, to, fmt.Errorf("from must be YYYY-MM-DD")
		}
	}
	to = time.Now()
	if s := c.Query("to"); s != "" {
		to, err = time.Parse("2006-01-02", s)
		if err != nil {
			return from, to, fmt.Errorf("to must be YYYY-MM-DD")
		}
		to = to.Add(24 * time.Hour) // inclusive end date
	}
	return from, to, nil
}

func entriesInRange(db *gorm.DB, from, to time.Time) ([]models.FuelEntry, error) {
	var entries []models.FuelEntry
	query := db.Preload("Vehicle").Where("entry_date < ?", to)
	if !from.IsZero() {
		query = query.Where("entry_date >= ?", from)
	}
	err := query.Find(&entries).Error
	return entries, err
}

func deliveredShipmentsInRange(db *gorm.DB, from, to time.Time) ([]models.Shipment, error) {
	var shipments []models.Shipment
	query := db.Where("status = ? AND delivered_at < ?", models.ShipmentStatusDelivered, to)
	if !from.IsZero() {
		query = query.Where("delivered_at >= ?", from)
	}
	err := query.Find(&shipments).Error
	return shipments, err
}

// monthlyCO2 sums fuel-entry CO2 for one calendar month
func monthlyCO2(db *gorm.DB, monthStart time.Time) float64 {
	monthEnd := monthStart.AddDate(0, 1, 0)
	var total float64
	db.Model(&models.FuelEntry{}).
		Where("entry_date >= ? AND entry_date < ?", monthStart, monthEnd).
		Select("COALESCE(SUM(co2_emitted_kg), 0)").Scan(&total)
	return total
}

// currentTrend compares this calendar month's CO2 against the prior month
func currentTrend(db *gorm.DB) (current, prior, trendPct float64) {
	now := time.Now()
	thisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	lastMonth := thisMonth.AddDate(0, -1, 0)

	current = monthlyCO2(db, thisMonth)
	prior = monthlyCO2(db, lastMonth)
	return current, prior, emissions.TrendPercent(current, prior)
}

// GetEmissionsSummary returns the fleet-wide emissions aggregate. Results
// for the common no-filter case are cached in Redis for five minutes.
func GetEmissionsSummary(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		from, to, err := parseDateRange(c)
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		ctx := context.Background()
		cacheKey := fmt.Sprintf("%s:%s", c.Query("from"), c.Query("to"))

		var cached emissions.Summary
		if err := services.GetCachedEmissionsSummary(ctx, cacheKey, &cached); err == nil {
			c.JSON(200, cached)
			return
		}

		entries, err := entriesInRange(db, from, to)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch fuel entries"})
			return
		}
		shipments, err := deliveredShipmentsInRange(db, from, to)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch shipments"})
			return
		}

		summary, _, _ := emissions.Aggregate(entries, shipments)
		_, _, summary.MonthlyTrendPct = currentTrend(db)

		services.CacheEmissionsSummary(ctx, cacheKey, summary)

		c.JSON(200, summary)
	}
}

// GetVehicleEmissions returns the per-vehicle breakdown
func GetVehicleEmissions(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		from, to, err := parseDateRange(c)
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		entries, err := entriesInRange(db, from, to)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch fuel entries"})
			return
		}

		_, vehicles, _ := emissions.Aggregate(entries, nil)
		c.JSON(200, gin.H{"vehicles": vehicles})
	}
}

// GetFuelTypeEmissions returns the per-fuel-type breakdown
func GetFuelTypeEmissions(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		from, to, err := parseDateRange(c)
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		entries, err := entriesInRange(db, from, to)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch fuel entries"})
			return
		}

		_, _, fuelTypes := emissions.Aggregate(entries, nil)
		c.JSON(200, gin.H{"fuelTypes": fuelTypes})
	}
}

// GetEmissionsTrend returns the month-over-month CO2 movement
func GetEmissionsTrend(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		current, prior, trendPct := currentTrend(db)

		c.JSON(200, gin.H{
			"currentMonthCo2": current,
			"priorMonthCo2":   prior,
			"trendPercent":    trendPct,
		})
	}
}

// leaderboardEntries builds the ranked driver list, best score first
func leaderboardEntries(db *gorm.DB, limit int) ([]emissions.LeaderboardEntry, error) {
	var scores []models.DriverEcoScore
	query := db.Preload("Driver").Order("overall_eco_score desc, total_deliveries desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&scores).Error; err != nil {
		return nil, err
	}

	entries := make([]emissions.LeaderboardEntry, 0, len(scores))
	for _, s := range scores {
		entry := emissions.LeaderboardEntry{
			DriverID:        s.DriverID,
			OverallEcoScore: s.OverallEcoScore,
			EcoRank:         s.EcoRank,
		}
		if s.Driver != nil {
			entry.DriverName = s.Driver.Username
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// GetEcoLeaderboard returns drivers ranked by eco score
func GetEcoLeaderboard(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		entries, err := leaderboardEntries(db, 20)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch leaderboard"})
			return
		}

		c.JSON(200, gin.H{"leaderboard": entries})
	}
}

// GetEmissionsInsights evaluates the advisory rules over fresh aggregates
func GetEmissionsInsights(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		entries, err := entriesInRange(db, time.Time{}, time.Now())
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch fuel entries"})
			return
		}
		shipments, err := deliveredShipmentsInRange(db, time.Time{}, time.Now())
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch shipments"})
			return
		}

		summary, vehicles, _ := emissions.Aggregate(entries, shipments)
		_, _, summary.MonthlyTrendPct = currentTrend(db)

		leaderboard, err := leaderboardEntries(db, 1)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch leaderboard"})
			return
		}

		insights := emissions.GenerateInsights(summary, vehicles, leaderboard)
		c.JSON(200, gin.H{"insights": insights})
	}
}

// GetDriverEcoScore returns one driver's eco score card. Drivers may read
// their own; admins may read anyone's.
func GetDriverEcoScore(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")
		userType := c.GetString("userType")
		driverID := c.Param("id")

		if userType != string(models.UserTypeAdmin) && fmt.Sprintf("%d", userID) != driverID {
			c.JSON(403, gin.H{"error": "Not authorized to view this eco score"})
			return
		}

		var score models.DriverEcoScore
		if err := db.Preload("Driver").Where("driver_id = ?", driverID).First(&score).Error; err != nil {
			c.JSON(404, gin.H{"error": "No eco score recorded for this driver yet"})
			return
		}

		c.JSON(200, score)
	}
}
