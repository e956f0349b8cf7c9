package handlers

import (
	"context"
	"time"

	"github.com/ankitgade/greenfleet-backend/internal/models"
	"github.com/ankitgade/greenfleet-backend/internal/services"
	"github.com/ankitgade/greenfleet-backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ApplyAsDriver submits a driver's license for admin review.
// Expects multipart form data with licenseNumber and licenseImage.
func ApplyAsDriver(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID := c.GetUint("userId")
		userType := c.GetString("userType")

		if userType != string(models.UserTypeDriver) {
			c.JSON(403, gin.H{"error": "Only drivers can submit license documents"})
			return
		}

		licenseNumber := c.PostForm("licenseNumber")
		if licenseNumber == "" {
			c.JSON(400, gin.H{"error": "License number is required"})
			return
		}

		file, err := c.FormFile("licenseImage")
		if err != nil {
			c.JSON(400, gin.H{"error": "License image is required"})
			return
		}

		imageURL, err := services.UploadDocument(file, services.FolderLicenses)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to upload license image: " + err.Error()})
			return
		}

		updates := map[string]interface{}{
			"license_number": licenseNumber,
			"license_image":  imageURL,
			"driver_status":  string(models.DriverStatusPending),
		}
		if err := db.Model(&models.User{}).Where("id = ?", driverID).Updates(updates).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to submit driver application"})
			return
		}

		c.JSON(200, gin.H{
			"message":      "Driver application submitted. An admin will review your license.",
			"driverStatus": string(models.DriverStatusPending),
			"licenseImage": imageURL,
		})
	}
}

// ListPendingDrivers returns driver applications awaiting review
func ListPendingDrivers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var drivers []models.User
		if err := db.Where("user_type = ? AND driver_status = ?",
			string(models.UserTypeDriver), string(models.DriverStatusPending)).
			Find(&drivers).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch pending drivers"})
			return
		}

		out := make([]gin.H, 0, len(drivers))
		for _, d := range drivers {
			out = append(out, gin.H{
				"id":            d.ID,
				"username":      d.Username,
				"email":         d.Email,
				"phoneNumber":   d.PhoneNumber,
				"licenseNumber": d.LicenseNumber,
				"licenseImage":  d.LicenseImage,
				"appliedAt":     d.UpdatedAt,
			})
		}

		c.JSON(200, gin.H{"drivers": out})
	}
}

// ApproveDriver marks a pending driver as approved
func ApproveDriver(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID := c.Param("id")

		var driver models.User
		if err := db.Where("id = ? AND user_type = ?", driverID, string(models.UserTypeDriver)).
			First(&driver).Error; err != nil {
			c.JSON(404, gin.H{"error": "Driver not found"})
			return
		}

		if driver.DriverStatus != string(models.DriverStatusPending) {
			c.JSON(400, gin.H{"error": "Driver is not awaiting review"})
			return
		}

		if err := db.Model(&driver).Update("driver_status", string(models.DriverStatusApproved)).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to approve driver"})
			return
		}

		// Notify the driver; failures are logged by the services, not surfaced
		utils.SendDriverApprovedEmail(driver.Email, driver.Username)
		if driver.FCMToken != "" {
			services.SendDriverApprovalNotification(context.Background(), driver.FCMToken, true)
		}

		c.JSON(200, gin.H{"message": "Driver approved", "driverStatus": string(models.DriverStatusApproved)})
	}
}

// RejectDriver marks a pending driver as rejected
func RejectDriver(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID := c.Param("id")

		var input struct {
			Reason string `json:"reason"`
		}
		c.ShouldBindJSON(&input)

		var driver models.User
		if err := db.Where("id = ? AND user_type = ?", driverID, string(models.UserTypeDriver)).
			First(&driver).Error; err != nil {
			c.JSON(404, gin.H{"error": "Driver not found"})
			return
		}

		if driver.DriverStatus != string(models.DriverStatusPending) {
			c.JSON(400, gin.H{"error": "Driver is not awaiting review"})
			return
		}

		if err := db.Model(&driver).Update("driver_status", string(models.DriverStatusRejected)).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to reject driver"})
			return
		}

		utils.SendDriverRejectedEmail(driver.Email, input.Reason)
		if driver.FCMToken != "" {
			services.SendDriverApprovalNotification(context.Background(), driver.FCMToken, false)
		}

		c.JSON(200, gin.H{"message": "Driver rejected", "driverStatus": string(models.DriverStatusRejected)})
	}
}

// UpdateDriverLocation handles driver location updates
func UpdateDriverLocation(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID := c.GetUint("userId")
		userType := c.GetString("userType")

		if userType != string(models.UserTypeDriver) {
			c.JSON(403, gin.H{"error": "Only drivers can update location"})
			return
		}

		var input struct {
			Lat        float64 `json:"lat" binding:"required"`
			Lng        float64 `json:"lng" binding:"required"`
			Heading    float64 `json:"heading"`
			ShipmentID uint    `json:"shipmentId"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		// Validate coordinates
		if input.Lat < -90 || input.Lat > 90 {
			c.JSON(400, gin.H{"error": "Invalid latitude"})
			return
		}
		if input.Lng < -180 || input.Lng > 180 {
			c.JSON(400, gin.H{"error": "Invalid longitude"})
			return
		}

		ctx := context.Background()

		// Update location in Redis
		if err := services.SetDriverLocation(ctx, driverID, input.Lat, input.Lng, input.Heading); err != nil {
			c.JSON(500, gin.H{"error": "Failed to update location"})
			return
		}

		// Update or create location record in database
		var location models.DriverLocation
		result := db.Where("driver_id = ?", driverID).First(&location)

		if result.Error == gorm.ErrRecordNotFound {
			location = models.DriverLocation{
				DriverID:  driverID,
				Latitude:  input.Lat,
				Longitude: input.Lng,
				Heading:   input.Heading,
				IsOnline:  true,
				LastSeen:  time.Now(),
			}
			if err := db.Create(&location).Error; err != nil {
				c.JSON(500, gin.H{"error": "Failed to create location record"})
				return
			}
		} else if result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch location record"})
			return
		} else {
			location.Latitude = input.Lat
			location.Longitude = input.Lng
			location.Heading = input.Heading
			location.IsOnline = true
			location.LastSeen = time.Now()
			if err := db.Save(&location).Error; err != nil {
				c.JSON(500, gin.H{"error": "Failed to update location record"})
				return
			}
		}

		// First movement after pickup flips the shipment to in transit
		if input.ShipmentID != 0 {
			db.Model(&models.Shipment{}).
				Where("id = ? AND driver_id = ? AND status = ?",
					input.ShipmentID, driverID, models.ShipmentStatusPickedUp).
				Update("status", models.ShipmentStatusInTransit)
		}

		// Publish location update to shipment trackers
		update := services.DriverLocationUpdate{
			DriverID:   driverID,
			ShipmentID: input.ShipmentID,
		}
		update.Location.Lat = input.Lat
		update.Location.Lng = input.Lng
		update.Location.Heading = input.Heading

		hub.SendDriverLocationUpdate(update)
		services.PublishDriverLocation(ctx, driverID, input.Lat, input.Lng, input.Heading)

		c.JSON(200, gin.H{
			"message": "Location updated successfully",
			"location": gin.H{
				"lat":     input.Lat,
				"lng":     input.Lng,
				"heading": input.Heading,
			},
		})
	}
}

// UpdateDriverAvailability handles driver availability updates
func UpdateDriverAvailability(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID := c.GetUint("userId")
		userType := c.GetString("userType")

		if userType != string(models.UserTypeDriver) {
			c.JSON(403, gin.H{"error": "Only drivers can update availability"})
			return
		}

		var input struct {
			IsAvailable *bool `json:"isAvailable" binding:"required"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var driver models.User
		if err := db.First(&driver, driverID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Driver not found"})
			return
		}

		if !driver.IsApprovedDriver() {
			c.JSON(403, gin.H{"error": "Driver is not approved"})
			return
		}

		if err := db.Model(&driver).Update("is_available", *input.IsAvailable).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update availability"})
			return
		}

		ctx := context.Background()
		if err := services.SetDriverAvailability(ctx, driverID, *input.IsAvailable); err != nil {
			// Redis cache is advisory; the database row is authoritative
			c.JSON(200, gin.H{"message": "Availability updated (cache refresh failed)", "isAvailable": *input.IsAvailable})
			return
		}

		c.JSON(200, gin.H{"message": "Availability updated", "isAvailable": *input.IsAvailable})
	}
}

// GetDriverLocation returns a driver's last known location
func GetDriverLocation(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID := c.Param("id")

		var location models.DriverLocation
		if err := db.Where("driver_id = ?", driverID).First(&location).Error; err != nil {
			c.JSON(404, gin.H{"error": "Driver location not found"})
			return
		}

		c.JSON(200, gin.H{
			"driverId": location.DriverID,
			"lat":      location.Latitude,
			"lng":      location.Longitude,
			"heading":  location.Heading,
			"isOnline": location.IsOnline,
			"lastSeen": location.LastSeen,
		})
	}
}
