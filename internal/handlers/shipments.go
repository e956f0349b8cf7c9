package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/ankitgade/greenfleet-backend/internal/models"
	"github.com/ankitgade/greenfleet-backend/internal/services"
	"github.com/ankitgade/greenfleet-backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuoteInput struct {
	PickupLat     float64 `json:"pickupLat" binding:"required"`
	PickupLng     float64 `json:"pickupLng" binding:"required"`
	DestLat       float64 `json:"destLat" binding:"required"`
	DestLng       float64 `json:"destLng" binding:"required"`
	VehicleType   string  `json:"vehicleType" binding:"required"`
	CargoWeightKg float64 `json:"cargoWeightKg"`
}

type CreateShipmentInput struct {
	QuoteInput
	PickupAddress    string `json:"pickupAddress" binding:"required"`
	DestAddress      string `json:"destAddress" binding:"required"`
	CargoDescription string `json:"cargoDescription"`
	ReceiverName     string `json:"receiverName" binding:"required"`
	ReceiverPhone    string `json:"receiverPhone" binding:"required"`
	ReceiverEmail    string `json:"receiverEmail"`
}

// newTrackingCode generates a short public identifier for a shipment
func newTrackingCode() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return "GF-" + id[:10]
}

// GetShipmentQuote returns a fare quote without creating a shipment
func GetShipmentQuote() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input QuoteInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		quote := utils.CalculateShipmentQuote(
			input.PickupLat, input.PickupLng,
			input.DestLat, input.DestLng,
			input.VehicleType, input.CargoWeightKg,
		)

		c.JSON(200, quote)
	}
}

// CreateShipment books a new shipment for the authenticated client
func CreateShipment(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := c.GetUint("userId")

		var input CreateShipmentInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		quote := utils.CalculateShipmentQuote(
			input.PickupLat, input.PickupLng,
			input.DestLat, input.DestLng,
			input.VehicleType, input.CargoWeightKg,
		)

		shipment := models.Shipment{
			ClientID:         clientID,
			TrackingCode:     newTrackingCode(),
			PickupLat:        input.PickupLat,
			PickupLng:        input.PickupLng,
			PickupAddr:       input.PickupAddress,
			DestLat:          input.DestLat,
			DestLng:          input.DestLng,
			DestAddr:         input.DestAddress,
			CargoDescription: input.CargoDescription,
			CargoWeightKg:    input.CargoWeightKg,
			ReceiverName:     input.ReceiverName,
			ReceiverPhone:    input.ReceiverPhone,
			ReceiverEmail:    input.ReceiverEmail,
			Status:           models.ShipmentStatusPending,
			Price:            quote.TotalFare,
			DistanceKm:       quote.Distance,
		}

		// Handoff codes are generated at booking and verified at each handoff
		shipment.PickupOTP = utils.GenerateHandoffOTP(0, fmt.Sprintf("pickup-%s", shipment.TrackingCode))
		shipment.DeliveryOTP = utils.GenerateHandoffOTP(0, fmt.Sprintf("delivery-%s", shipment.TrackingCode))

		if result := db.Create(&shipment); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to create shipment: " + result.Error.Error()})
			return
		}

		var client models.User
		if err := db.First(&client, clientID).Error; err == nil {
			utils.SendShipmentBookedEmail(client.Email, shipment.TrackingCode, shipment.DestAddr)
		}
		if shipment.ReceiverEmail != "" {
			utils.SendDeliveryOTPEmail(shipment.ReceiverEmail, shipment.ReceiverName, shipment.DeliveryOTP)
		}
		if shipment.ReceiverPhone != "" {
			utils.SendDeliveryOTPSMS(shipment.ReceiverPhone, shipment.DeliveryOTP)
		}

		services.PublishShipmentUpdate(context.Background(), shipment.ID, shipment.Status, map[string]interface{}{
			"trackingCode": shipment.TrackingCode,
		})

		c.JSON(201, gin.H{
			"shipment":  shipment,
			"pickupOtp": shipment.PickupOTP,
			"quote":     quote,
		})
	}
}

// ListAvailableShipments returns pending shipments a driver can accept
func ListAvailableShipments(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID := c.GetUint("userId")

		var driver models.User
		if err := db.First(&driver, driverID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Driver not found"})
			return
		}
		if !driver.IsApprovedDriver() {
			c.JSON(403, gin.H{"error": "Driver is not approved"})
			return
		}

		var shipments []models.Shipment
		if err := db.Where("status = ?", models.ShipmentStatusPending).
			Order("created_at desc").Find(&shipments).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch shipments"})
			return
		}

		c.JSON(200, gin.H{"shipments": shipments})
	}
}

// ListMyShipments returns the caller's shipments, as client or driver
func ListMyShipments(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userType := c.GetString("userType")
		if userType == string(models.UserTypeDriver) {
			listShipmentsBy(db, c, "driver_id")
			return
		}
		listShipmentsBy(db, c, "client_id")
	}
}

// ListClientShipments returns the shipments the caller booked
func ListClientShipments(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		listShipmentsBy(db, c, "client_id")
	}
}

// ListDriverShipments returns the shipments assigned to the caller
func ListDriverShipments(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		listShipmentsBy(db, c, "driver_id")
	}
}

func listShipmentsBy(db *gorm.DB, c *gin.Context, column string) {
	userID := c.GetUint("userId")

	query := db.Preload("Driver").Preload("Vehicle").Order("created_at desc").
		Where(column+" = ?", userID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var shipments []models.Shipment
	if err := query.Find(&shipments).Error; err != nil {
		c.JSON(500, gin.H{"error": "Failed to fetch shipments"})
		return
	}

	c.JSON(200, gin.H{"shipments": shipments})
}

// GetShipment returns one shipment visible to its client, driver or an admin
func GetShipment(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")
		userType := c.GetString("userType")
		shipmentID := c.Param("id")

		var shipment models.Shipment
		if err := db.Preload("Client").Preload("Driver").Preload("Vehicle").
			First(&shipment, shipmentID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Shipment not found"})
			return
		}

		isParty := shipment.ClientID == userID ||
			(shipment.DriverID != nil && *shipment.DriverID == userID)
		if !isParty && userType != string(models.UserTypeAdmin) {
			c.JSON(403, gin.H{"error": "Not authorized to view this shipment"})
			return
		}

		c.JSON(200, shipment)
	}
}

// AcceptShipment lets an approved driver claim a pending shipment.
// The conditional update makes concurrent accepts race-safe: only one
// driver's UPDATE matches the pending row.
func AcceptShipment(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID := c.GetUint("userId")
		shipmentID := c.Param("id")

		var driver models.User
		if err := db.First(&driver, driverID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Driver not found"})
			return
		}
		if !driver.IsApprovedDriver() {
			c.JSON(403, gin.H{"error": "Driver is not approved"})
			return
		}

		var input struct {
			VehicleID uint `json:"vehicleId" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var vehicle models.FleetVehicle
		if err := db.First(&vehicle, input.VehicleID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Vehicle not found"})
			return
		}

		result := db.Model(&models.Shipment{}).
			Where("id = ? AND status = ?", shipmentID, models.ShipmentStatusPending).
			Updates(map[string]interface{}{
				"driver_id":  driverID,
				"vehicle_id": vehicle.ID,
				"status":     models.ShipmentStatusAccepted,
			})
		if result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to accept shipment"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(409, gin.H{"error": "Shipment is no longer available"})
			return
		}

		var shipment models.Shipment
		if err := db.Preload("Client").First(&shipment, shipmentID).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to load shipment"})
			return
		}

		ctx := context.Background()
		hub.SendShipmentStatus(shipment.ClientID, services.ShipmentStatusUpdate{
			ShipmentID:   shipment.ID,
			TrackingCode: shipment.TrackingCode,
			Status:       shipment.Status,
			DriverID:     driverID,
		})
		services.PublishShipmentUpdate(ctx, shipment.ID, shipment.Status, nil)
		if shipment.Client != nil {
			if shipment.Client.FCMToken != "" {
				services.SendShipmentStatusNotification(ctx, shipment.Client.FCMToken, shipment.ID, shipment.TrackingCode, shipment.Status)
			}
			if shipment.Client.PhoneNumber != "" {
				utils.SendPickupOTPSMS(shipment.Client.PhoneNumber, shipment.PickupOTP)
			}
		}

		c.JSON(200, gin.H{"message": "Shipment accepted", "shipment": shipment})
	}
}

// CancelShipment cancels a shipment before pickup
func CancelShipment(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")
		userType := c.GetString("userType")
		shipmentID := c.Param("id")

		var shipment models.Shipment
		if err := db.First(&shipment, shipmentID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Shipment not found"})
			return
		}

		isParty := shipment.ClientID == userID ||
			(shipment.DriverID != nil && *shipment.DriverID == userID)
		if !isParty && userType != string(models.UserTypeAdmin) {
			c.JSON(403, gin.H{"error": "Not authorized to cancel this shipment"})
			return
		}

		// Once the cargo is on board the shipment must run to completion
		if shipment.Status != models.ShipmentStatusPending && shipment.Status != models.ShipmentStatusAccepted {
			c.JSON(400, gin.H{"error": "Shipment can no longer be cancelled"})
			return
		}

		result := db.Model(&models.Shipment{}).
			Where("id = ? AND status IN ?", shipment.ID,
				[]string{models.ShipmentStatusPending, models.ShipmentStatusAccepted}).
			Update("status", models.ShipmentStatusCancelled)
		if result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to cancel shipment"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(409, gin.H{"error": "Shipment can no longer be cancelled"})
			return
		}

		hub.SendShipmentStatus(shipment.ClientID, services.ShipmentStatusUpdate{
			ShipmentID:   shipment.ID,
			TrackingCode: shipment.TrackingCode,
			Status:       models.ShipmentStatusCancelled,
		})
		services.PublishShipmentUpdate(context.Background(), shipment.ID, models.ShipmentStatusCancelled, nil)

		c.JSON(200, gin.H{"message": "Shipment cancelled"})
	}
}

// TrackShipment returns public tracking info by tracking code. No auth:
// the code itself is the capability.
func TrackShipment(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := strings.ToUpper(c.Param("code"))

		var shipment models.Shipment
		if err := db.Where("tracking_code = ?", code).First(&shipment).Error; err != nil {
			c.JSON(404, gin.H{"error": "Shipment not found"})
			return
		}

		resp := gin.H{
			"trackingCode":  shipment.TrackingCode,
			"status":        shipment.Status,
			"pickupAddress": shipment.PickupAddr,
			"destAddress":   shipment.DestAddr,
			"distanceKm":    shipment.DistanceKm,
			"bookedAt":      shipment.CreatedAt,
			"deliveredAt":   shipment.DeliveredAt,
		}

		// Live position while the cargo is moving
		if shipment.DriverID != nil &&
			(shipment.Status == models.ShipmentStatusPickedUp || shipment.Status == models.ShipmentStatusInTransit) {
			if lat, lng, heading, err := services.GetDriverLocation(context.Background(), *shipment.DriverID); err == nil {
				distanceLeft := utils.HaversineDistance(lat, lng, shipment.DestLat, shipment.DestLng)
				resp["driverLocation"] = gin.H{"lat": lat, "lng": lng, "heading": heading}
				resp["etaMinutes"] = utils.CalculateETA(distanceLeft, 30)
			}
		}

		c.JSON(200, resp)
	}
}
