package handlers

import (
	"strings"

	"github.com/ankitgade/greenfleet-backend/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type VehicleInput struct {
	VehicleNumber string `json:"vehicleNumber" binding:"required"`
	VehicleType   string `json:"vehicleType" binding:"required,oneof=bike three_wheeler mini_truck truck large_truck"`
	FuelType      string `json:"fuelType" binding:"required,oneof=diesel petrol cng electric"`
}

// CreateVehicle registers a new fleet vehicle
func CreateVehicle(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input VehicleInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		vehicle := models.FleetVehicle{
			VehicleNumber: strings.ToUpper(strings.TrimSpace(input.VehicleNumber)),
			VehicleType:   input.VehicleType,
			FuelType:      input.FuelType,
		}

		if result := db.Create(&vehicle); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to create vehicle: " + result.Error.Error()})
			return
		}

		c.JSON(201, vehicle)
	}
}

// ListVehicles returns all fleet vehicles
func ListVehicles(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var vehicles []models.FleetVehicle
		if err := db.Preload("CurrentDriver").Order("vehicle_number asc").Find(&vehicles).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch vehicles"})
			return
		}

		c.JSON(200, gin.H{"vehicles": vehicles})
	}
}

// GetVehicle returns one vehicle with its accumulated emission totals
func GetVehicle(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		vehicleID := c.Param("id")

		var vehicle models.FleetVehicle
		if err := db.Preload("CurrentDriver").First(&vehicle, vehicleID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Vehicle not found"})
			return
		}

		c.JSON(200, vehicle)
	}
}

// UpdateVehicle updates a vehicle's registration details
func UpdateVehicle(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		vehicleID := c.Param("id")

		var input struct {
			VehicleNumber *string `json:"vehicleNumber"`
			VehicleType   *string `json:"vehicleType"`
			FuelType      *string `json:"fuelType"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var vehicle models.FleetVehicle
		if err := db.First(&vehicle, vehicleID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Vehicle not found"})
			return
		}

		if input.VehicleNumber != nil {
			vehicle.VehicleNumber = strings.ToUpper(strings.TrimSpace(*input.VehicleNumber))
		}
		if input.VehicleType != nil {
			vehicle.VehicleType = *input.VehicleType
		}
		if input.FuelType != nil {
			vehicle.FuelType = *input.FuelType
		}

		if err := db.Save(&vehicle).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update vehicle"})
			return
		}

		c.JSON(200, vehicle)
	}
}

// DeleteVehicle removes a vehicle from the fleet. Fuel entries are kept
// for historical emission reports.
func DeleteVehicle(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		vehicleID := c.Param("id")

		var vehicle models.FleetVehicle
		if err := db.First(&vehicle, vehicleID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Vehicle not found"})
			return
		}

		var activeShipments int64
		db.Model(&models.Shipment{}).
			Where("vehicle_id = ? AND status IN ?", vehicle.ID,
				[]string{models.ShipmentStatusAccepted, models.ShipmentStatusPickedUp, models.ShipmentStatusInTransit}).
			Count(&activeShipments)
		if activeShipments > 0 {
			c.JSON(400, gin.H{"error": "Vehicle has active shipments"})
			return
		}

		if err := db.Delete(&vehicle).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to delete vehicle"})
			return
		}

		c.JSON(200, gin.H{"message": "Vehicle deleted"})
	}
}

// AssignDriver assigns an approved driver to a vehicle
func AssignDriver(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		vehicleID := c.Param("id")

		var input struct {
			DriverID uint `json:"driverId" binding:"required"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var vehicle models.FleetVehicle
		if err := db.First(&vehicle, vehicleID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Vehicle not found"})
			return
		}

		var driver models.User
		if err := db.First(&driver, input.DriverID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Driver not found"})
			return
		}

		if !driver.IsApprovedDriver() {
			c.JSON(400, gin.H{"error": "Driver is not approved"})
			return
		}

		if err := db.Model(&vehicle).Update("current_driver_id", input.DriverID).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to assign driver"})
			return
		}

		c.JSON(200, gin.H{"message": "Driver assigned", "vehicleId": vehicle.ID, "driverId": input.DriverID})
	}
}

// UnassignDriver clears the vehicle's current driver
func UnassignDriver(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		vehicleID := c.Param("id")

		var vehicle models.FleetVehicle
		if err := db.First(&vehicle, vehicleID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Vehicle not found"})
			return
		}

		if err := db.Model(&vehicle).Update("current_driver_id", nil).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to unassign driver"})
			return
		}

		c.JSON(200, gin.H{"message": "Driver unassigned"})
	}
}
