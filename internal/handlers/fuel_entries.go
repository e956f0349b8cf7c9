package handlers

import (
	"time"

	"github.com/ankitgade/greenfleet-backend/internal/emissions"
	"github.com/ankitgade/greenfleet-backend/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FuelEntryInput struct {
	VehicleID       uint     `json:"vehicleId" binding:"required"`
	FuelLiters      float64  `json:"fuelLiters" binding:"required,gt=0"`
	FuelCost        *float64 `json:"fuelCost"`
	OdometerReading *float64 `json:"odometerReading"`
	TripDistanceKm  *float64 `json:"tripDistanceKm"`
	EntryDate       *string  `json:"entryDate"`
	Notes           string   `json:"notes"`
}

// loadFactors returns the emission factor table with persisted overrides applied
func loadFactors(db *gorm.DB) emissions.FactorTable {
	factors := emissions.DefaultFactors()
	var overrides []models.EmissionFactor
	if err := db.Find(&overrides).Error; err == nil {
		factors.ApplyOverrides(overrides)
	}
	return factors
}

// CreateFuelEntry logs a refueling record for a vehicle. CO2 is derived
// at creation time and stored with the entry.
func CreateFuelEntry(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID := c.GetUint("userId")

		var input FuelEntryInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if input.TripDistanceKm != nil && *input.TripDistanceKm < 0 {
			c.JSON(400, gin.H{"error": "Trip distance cannot be negative"})
			return
		}

		var vehicle models.FleetVehicle
		if err := db.First(&vehicle, input.VehicleID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Vehicle not found"})
			return
		}

		entryDate := time.Now()
		if input.EntryDate != nil {
			parsed, err := time.Parse("2006-01-02", *input.EntryDate)
			if err != nil {
				c.JSON(400, gin.H{"error": "entryDate must be YYYY-MM-DD"})
				return
			}
			entryDate = parsed
		}

		factors := loadFactors(db)
		co2 := factors.CO2FromFuel(input.FuelLiters, vehicle.FuelType)

		entry := models.FuelEntry{
			VehicleID:       vehicle.ID,
			DriverID:        &driverID,
			FuelType:        vehicle.FuelType,
			FuelLiters:      input.FuelLiters,
			FuelCost:        input.FuelCost,
			OdometerReading: input.OdometerReading,
			TripDistanceKm:  input.TripDistanceKm,
			CO2EmittedKg:    co2,
			EntryDate:       entryDate,
			Notes:           input.Notes,
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}

			var locked models.FleetVehicle
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&locked, vehicle.ID).Error; err != nil {
				return err
			}
			locked.LifetimeCO2Kg += co2
			if input.TripDistanceKm != nil {
				locked.TotalKmDriven += *input.TripDistanceKm
			}
			if locked.TotalKmDriven > 0 {
				locked.AvgCO2PerKm = locked.LifetimeCO2Kg / locked.TotalKmDriven
			}
			return tx.Save(&locked).Error
		})
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to create fuel entry"})
			return
		}

		c.JSON(201, entry)
	}
}

// ListVehicleFuelEntries returns a vehicle's fuel log, newest first
func ListVehicleFuelEntries(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		vehicleID := c.Param("id")

		var vehicle models.FleetVehicle
		if err := db.First(&vehicle, vehicleID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Vehicle not found"})
			return
		}

		query := db.Where("vehicle_id = ?", vehicle.ID).Order("entry_date desc")
		if from := c.Query("from"); from != "" {
			query = query.Where("entry_date >= ?", from)
		}
		if to := c.Query("to"); to != "" {
			query = query.Where("entry_date <= ?", to)
		}

		var entries []models.FuelEntry
		if err := query.Find(&entries).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch fuel entries"})
			return
		}

		c.JSON(200, gin.H{"entries": entries})
	}
}

// canCorrectFuelEntry limits corrections to the driver who logged the
// entry, or an admin
func canCorrectFuelEntry(userID uint, userType string, entry *models.FuelEntry) bool {
	if userType == string(models.UserTypeAdmin) {
		return true
	}
	return userType == string(models.UserTypeDriver) &&
		entry.DriverID != nil && *entry.DriverID == userID
}

// CorrectFuelEntry amends a mistyped entry. The delta against the stored
// figures is folded back into the vehicle's lifetime totals so the
// aggregates stay consistent.
func CorrectFuelEntry(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		entryID := c.Param("id")

		var input struct {
			FuelLiters     *float64 `json:"fuelLiters"`
			FuelCost       *float64 `json:"fuelCost"`
			TripDistanceKm *float64 `json:"tripDistanceKm"`
			Notes          *string  `json:"notes"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if input.FuelLiters != nil && *input.FuelLiters <= 0 {
			c.JSON(400, gin.H{"error": "Fuel liters must be positive"})
			return
		}
		if input.TripDistanceKm != nil && *input.TripDistanceKm < 0 {
			c.JSON(400, gin.H{"error": "Trip distance cannot be negative"})
			return
		}

		var entry models.FuelEntry
		if err := db.First(&entry, entryID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Fuel entry not found"})
			return
		}

		if !canCorrectFuelEntry(c.GetUint("userId"), c.GetString("userType"), &entry) {
			c.JSON(403, gin.H{"error": "Not authorized to correct this fuel entry"})
			return
		}

		factors := loadFactors(db)

		err := db.Transaction(func(tx *gorm.DB) error {
			var vehicle models.FleetVehicle
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&vehicle, entry.VehicleID).Error; err != nil {
				return err
			}

			oldCO2 := entry.CO2EmittedKg
			oldDistance := 0.0
			if entry.TripDistanceKm != nil {
				oldDistance = *entry.TripDistanceKm
			}

			if input.FuelLiters != nil {
				entry.FuelLiters = *input.FuelLiters
				entry.CO2EmittedKg = factors.CO2FromFuel(entry.FuelLiters, entry.FuelType)
			}
			if input.FuelCost != nil {
				entry.FuelCost = input.FuelCost
			}
			if input.TripDistanceKm != nil {
				entry.TripDistanceKm = input.TripDistanceKm
			}
			if input.Notes != nil {
				entry.Notes = *input.Notes
			}

			if err := tx.Save(&entry).Error; err != nil {
				return err
			}

			newDistance := 0.0
			if entry.TripDistanceKm != nil {
				newDistance = *entry.TripDistanceKm
			}
			vehicle.LifetimeCO2Kg += entry.CO2EmittedKg - oldCO2
			vehicle.TotalKmDriven += newDistance - oldDistance
			if vehicle.TotalKmDriven > 0 {
				vehicle.AvgCO2PerKm = vehicle.LifetimeCO2Kg / vehicle.TotalKmDriven
			} else {
				vehicle.AvgCO2PerKm = 0
			}
			return tx.Save(&vehicle).Error
		})
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to correct fuel entry"})
			return
		}

		c.JSON(200, entry)
	}
}
