package models

import (
	"gorm.io/gorm"
)

// VehicleType classes used for fuel estimation and fare quotes
const (
	VehicleTypeBike         = "bike"
	VehicleTypeThreeWheeler = "three_wheeler"
	VehicleTypeMiniTruck    = "mini_truck"
	VehicleTypeTruck        = "truck"
	VehicleTypeLargeTruck   = "large_truck"
)

// FuelType constants
const (
	FuelTypeDiesel   = "diesel"
	FuelTypePetrol   = "petrol"
	FuelTypeCNG      = "cng"
	FuelTypeElectric = "electric"
)

// FleetVehicle represents a vehicle in the fleet with accumulated emission totals
type FleetVehicle struct {
	gorm.Model
	VehicleNumber   string  `json:"vehicleNumber" gorm:"unique;not null"`
	VehicleType     string  `json:"vehicleType" gorm:"not null"`
	FuelType        string  `json:"fuelType" gorm:"not null"`
	LifetimeCO2Kg   float64 `json:"lifetimeCo2Kg" gorm:"not null;default:0"`
	AvgCO2PerKm     float64 `json:"avgCo2PerKm" gorm:"not null;default:0"`
	TotalKmDriven   float64 `json:"totalKmDriven" gorm:"not null;default:0"`
	CurrentDriverID *uint   `json:"currentDriverId,omitempty"`
	CurrentDriver   *User   `json:"currentDriver,omitempty" gorm:"foreignKey:CurrentDriverID"`
}

// TableName specifies the table name
func (FleetVehicle) TableName() string {
	return "fleet_vehicles"
}

// IsElectric reports whether the vehicle produces no tailpipe emissions.
func (v *FleetVehicle) IsElectric() bool {
	return v.FuelType == FuelTypeElectric
}
