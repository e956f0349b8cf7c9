package handlers

import (
	"context"
	"math"
	"time"

	"github.com/ankitgade/greenfleet-backend/internal/emissions"
	"github.com/ankitgade/greenfleet-backend/internal/models"
	"github.com/ankitgade/greenfleet-backend/internal/services"
	"github.com/ankitgade/greenfleet-backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConfirmPickup verifies the pickup code and hands the cargo to the driver
func ConfirmPickup(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID := c.GetUint("userId")
		shipmentID := c.Param("id")

		var input struct {
			OTP string `json:"otp" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var shipment models.Shipment
		if err := db.First(&shipment, shipmentID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Shipment not found"})
			return
		}

		if shipment.DriverID == nil || *shipment.DriverID != driverID {
			c.JSON(403, gin.H{"error": "Shipment is not assigned to you"})
			return
		}
		if shipment.Status != models.ShipmentStatusAccepted {
			c.JSON(400, gin.H{"error": "Shipment is not awaiting pickup"})
			return
		}
		if input.OTP != shipment.PickupOTP {
			c.JSON(400, gin.H{"error": "Incorrect pickup code"})
			return
		}

		if err := db.Model(&shipment).Update("status", models.ShipmentStatusPickedUp).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update shipment"})
			return
		}

		hub.SendShipmentStatus(shipment.ClientID, services.ShipmentStatusUpdate{
			ShipmentID:   shipment.ID,
			TrackingCode: shipment.TrackingCode,
			Status:       models.ShipmentStatusPickedUp,
			DriverID:     driverID,
		})
		services.PublishShipmentUpdate(context.Background(), shipment.ID, models.ShipmentStatusPickedUp, nil)

		c.JSON(200, gin.H{"message": "Pickup confirmed", "status": models.ShipmentStatusPickedUp})
	}
}

// ConfirmDeliveryInput carries the driver's completion report. FuelLiters
// is optional; when absent fuel is estimated from distance and vehicle class.
type ConfirmDeliveryInput struct {
	OTP         string   `json:"otp" binding:"required"`
	FuelLiters  *float64 `json:"fuelLiters"`
	IdleMinutes *float64 `json:"idleMinutes"`
}

// ConfirmDelivery verifies the delivery code and runs the completion
// pipeline: fuel entry, vehicle totals, driver eco score and carbon
// accounting all commit in one transaction.
func ConfirmDelivery(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID := c.GetUint("userId")
		shipmentID := c.Param("id")

		var input ConfirmDeliveryInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if input.FuelLiters != nil && *input.FuelLiters < 0 {
			c.JSON(400, gin.H{"error": "Fuel liters cannot be negative"})
			return
		}

		var shipment models.Shipment
		if err := db.First(&shipment, shipmentID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Shipment not found"})
			return
		}

		if shipment.DriverID == nil || *shipment.DriverID != driverID {
			c.JSON(403, gin.H{"error": "Shipment is not assigned to you"})
			return
		}
		if shipment.Status != models.ShipmentStatusPickedUp && shipment.Status != models.ShipmentStatusInTransit {
			c.JSON(400, gin.H{"error": "Shipment is not in transit"})
			return
		}
		if input.OTP != shipment.DeliveryOTP {
			c.JSON(400, gin.H{"error": "Incorrect delivery code"})
			return
		}

		if shipment.VehicleID == nil {
			c.JSON(500, gin.H{"error": "Shipment has no vehicle assigned"})
			return
		}

		factors := loadFactors(db)

		var (
			entry     models.FuelEntry
			ecoScore  models.DriverEcoScore
			newBadges []string
		)

		err := db.Transaction(func(tx *gorm.DB) error {
			var vehicle models.FleetVehicle
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&vehicle, *shipment.VehicleID).Error; err != nil {
				return err
			}

			distance := shipment.DistanceKm

			fuelLiters := 0.0
			if input.FuelLiters != nil {
				fuelLiters = *input.FuelLiters
			} else if !vehicle.IsElectric() {
				fuelLiters = emissions.EstimateFuelFromDistance(distance, vehicle.VehicleType, emissions.DefaultEfficiency)
			}
			co2 := factors.CO2FromFuel(fuelLiters, vehicle.FuelType)

			entry = models.FuelEntry{
				VehicleID:      vehicle.ID,
				DriverID:       &driverID,
				ShipmentID:     &shipment.ID,
				FuelType:       vehicle.FuelType,
				FuelLiters:     fuelLiters,
				TripDistanceKm: &distance,
				CO2EmittedKg:   co2,
				EntryDate:      time.Now(),
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}

			// Accumulate vehicle lifetime totals
			vehicle.LifetimeCO2Kg += co2
			vehicle.TotalKmDriven += distance
			if vehicle.TotalKmDriven > 0 {
				vehicle.AvgCO2PerKm = vehicle.LifetimeCO2Kg / vehicle.TotalKmDriven
			}
			if err := tx.Save(&vehicle).Error; err != nil {
				return err
			}

			// Driver eco score under row lock; the lock serializes
			// concurrent completions for the same driver
			result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("driver_id = ?", driverID).First(&ecoScore)
			if result.Error == gorm.ErrRecordNotFound {
				ecoScore = models.DriverEcoScore{DriverID: driverID, EcoRank: models.EcoRankBeginner}
				if err := tx.Create(&ecoScore).Error; err != nil {
					return err
				}
				// Re-read with the lock so the update below is serialized too
				if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
					Where("driver_id = ?", driverID).First(&ecoScore).Error; err != nil {
					return err
				}
			} else if result.Error != nil {
				return result.Error
			}

			badgesBefore := len(ecoScore.Badges)
			emissions.ApplyDelivery(&ecoScore, emissions.DeliveryData{
				DistanceKm:  distance,
				FuelLiters:  fuelLiters,
				CO2Kg:       co2,
				IdleMinutes: input.IdleMinutes,
			})
			newBadges = ecoScore.Badges[badgesBefore:]
			if err := tx.Save(&ecoScore).Error; err != nil {
				return err
			}

			// Carbon saved versus a conventional last-mile baseline
			carbonSaved := carbonSavedForDistance(distance)
			now := time.Now()
			return tx.Model(&models.Shipment{}).
				Where("id = ?", shipment.ID).
				Updates(map[string]interface{}{
					"status":          models.ShipmentStatusDelivered,
					"carbon_saved_kg": carbonSaved,
					"delivered_at":    &now,
				}).Error
		})
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to complete delivery: " + err.Error()})
			return
		}

		if err := db.Preload("Client").First(&shipment, shipment.ID).Error; err == nil {
			ctx := context.Background()

			hub.SendShipmentDelivered(shipment.ClientID, services.ShipmentDelivered{
				ShipmentID:    shipment.ID,
				DriverID:      driverID,
				DistanceKm:    shipment.DistanceKm,
				CO2EmittedKg:  entry.CO2EmittedKg,
				CarbonSavedKg: shipment.CarbonSavedKg,
			})
			services.PublishShipmentUpdate(ctx, shipment.ID, models.ShipmentStatusDelivered, map[string]interface{}{
				"co2EmittedKg":  entry.CO2EmittedKg,
				"carbonSavedKg": shipment.CarbonSavedKg,
			})

			if shipment.Client != nil {
				if shipment.Client.FCMToken != "" {
					services.SendShipmentStatusNotification(ctx, shipment.Client.FCMToken, shipment.ID, shipment.TrackingCode, models.ShipmentStatusDelivered)
				}
				if shipment.Client.PhoneNumber != "" {
					utils.SendShipmentDeliveredSMS(shipment.Client.PhoneNumber, shipment.TrackingCode)
				}
			}

			var driver models.User
			if len(newBadges) > 0 && db.First(&driver, driverID).Error == nil && driver.FCMToken != "" {
				for _, badge := range newBadges {
					services.SendEcoBadgeNotification(ctx, driver.FCMToken, badge)
				}
			}
		}

		c.JSON(200, gin.H{
			"message":       "Delivery confirmed",
			"status":        models.ShipmentStatusDelivered,
			"fuelEntry":     entry,
			"ecoScore":      ecoScore,
			"carbonSavedKg": shipment.CarbonSavedKg,
		})
	}
}

// UploadDeliveryProof attaches a proof-of-delivery photo to a shipment
func UploadDeliveryProof(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID := c.GetUint("userId")
		shipmentID := c.Param("id")

		var shipment models.Shipment
		if err := db.First(&shipment, shipmentID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Shipment not found"})
			return
		}
		if shipment.DriverID == nil || *shipment.DriverID != driverID {
			c.JSON(403, gin.H{"error": "Shipment is not assigned to you"})
			return
		}

		file, err := c.FormFile("proofImage")
		if err != nil {
			c.JSON(400, gin.H{"error": "Proof image is required"})
			return
		}

		imageURL, err := services.UploadDocument(file, services.FolderProofs)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to upload proof image: " + err.Error()})
			return
		}

		if err := db.Model(&shipment).Update("proof_image", imageURL).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to save proof image"})
			return
		}

		c.JSON(200, gin.H{"message": "Proof of delivery uploaded", "proofImage": imageURL})
	}
}

// carbonSavedForDistance credits consolidated last-mile delivery against
// individual trips: baseline 0.25 kg/km with 15% consolidation savings.
func carbonSavedForDistance(distanceKm float64) float64 {
	return math.Round(distanceKm*emissions.FallbackCO2PerKm*0.15*100) / 100
}
