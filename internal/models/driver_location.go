package models

import (
	"time"

	"gorm.io/gorm"
)

// DriverLocation is the last reported position of a driver. One row per
// driver; Redis holds the hot copy, this row survives restarts.
type DriverLocation struct {
	gorm.Model
	DriverID    uint      `json:"driverId" gorm:"not null;uniqueIndex"`
	Latitude    float64   `json:"lat" gorm:"not null"`
	Longitude   float64   `json:"lng" gorm:"not null"`
	Heading     float64   `json:"heading"`
	IsOnline    bool      `json:"isOnline" gorm:"not null;default:false"`
	IsAvailable bool      `json:"isAvailable" gorm:"not null;default:false"`
	LastSeen    time.Time `json:"lastSeen" gorm:"not null"`
}

// TableName specifies the table name
func (DriverLocation) TableName() string {
	return "driver_locations"
}
