package models

import (
	"time"

	"gorm.io/gorm"
)

// FuelEntry is one logged refueling or trip fuel-consumption record.
// Entries are immutable once created except for correction edits and
// are never auto-deleted.
type FuelEntry struct {
	gorm.Model
	VehicleID       uint     `json:"vehicleId" gorm:"not null;index"`
	DriverID        *uint    `json:"driverId,omitempty" gorm:"index"`
	ShipmentID      *uint    `json:"shipmentId,omitempty"`
	FuelType        string   `json:"fuelType" gorm:"not null"`
	FuelLiters      float64  `json:"fuelLiters" gorm:"not null"`
	FuelCost        *float64 `json:"fuelCost,omitempty"`
	OdometerReading *float64 `json:"odometerReading,omitempty"`
	TripDistanceKm  *float64 `json:"tripDistanceKm,omitempty"`

	// Derived at creation time from liters and the emission factor table
	CO2EmittedKg float64 `json:"co2EmittedKg" gorm:"not null"`

	EntryDate time.Time `json:"entryDate" gorm:"not null;index"`
	Notes     string    `json:"notes,omitempty"`

	Vehicle *FleetVehicle `json:"vehicle,omitempty" gorm:"foreignKey:VehicleID"`
	Driver  *User         `json:"driver,omitempty" gorm:"foreignKey:DriverID"`
}

// TableName specifies the table name
func (FuelEntry) TableName() string {
	return "fuel_entries"
}

// EmissionFactor is a persisted override of the static fuel type -> kg CO2
// per liter table.
type EmissionFactor struct {
	gorm.Model
	FuelType      string  `json:"fuelType" gorm:"uniqueIndex;not null"`
	KgCO2PerLiter float64 `json:"kgCo2PerLiter" gorm:"not null"`
}

// TableName specifies the table name
func (EmissionFactor) TableName() string {
	return "emission_factors"
}
