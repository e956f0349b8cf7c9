package models

import (
	"time"

	"gorm.io/gorm"
)

// ShipmentStatus constants
const (
	ShipmentStatusPending   = "pending"
	ShipmentStatusAccepted  = "accepted"
	ShipmentStatusPickedUp  = "picked_up"
	ShipmentStatusInTransit = "in_transit"
	ShipmentStatusDelivered = "delivered"
	ShipmentStatusCancelled = "cancelled"
)

// Shipment represents a booked delivery from pickup to destination
type Shipment struct {
	gorm.Model
	ClientID     uint   `json:"clientId" gorm:"not null"`
	DriverID     *uint  `json:"driverId,omitempty"`
	VehicleID    *uint  `json:"vehicleId,omitempty"`
	TrackingCode string `json:"trackingCode" gorm:"uniqueIndex;not null"`

	PickupLat  float64 `json:"pickupLat" gorm:"not null"`
	PickupLng  float64 `json:"pickupLng" gorm:"not null"`
	PickupAddr string  `json:"pickupAddress" gorm:"not null"`
	DestLat    float64 `json:"destLat" gorm:"not null"`
	DestLng    float64 `json:"destLng" gorm:"not null"`
	DestAddr   string  `json:"destAddress" gorm:"not null"`

	CargoDescription string  `json:"cargoDescription"`
	CargoWeightKg    float64 `json:"cargoWeightKg"`

	ReceiverName  string `json:"receiverName"`
	ReceiverPhone string `json:"receiverPhone"`
	ReceiverEmail string `json:"receiverEmail"`

	Status     string  `json:"status" gorm:"not null;default:'pending'"`
	Price      float64 `json:"price"`
	DistanceKm float64 `json:"distanceKm"`

	// Handoff confirmation codes, verified against driver input
	PickupOTP   string `json:"-"`
	DeliveryOTP string `json:"-"`

	ProofImage    string     `json:"proofImage,omitempty"`
	CarbonSavedKg float64    `json:"carbonSavedKg"`
	DeliveredAt   *time.Time `json:"deliveredAt,omitempty"`

	Client  *User         `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	Driver  *User         `json:"driver,omitempty" gorm:"foreignKey:DriverID"`
	Vehicle *FleetVehicle `json:"vehicle,omitempty" gorm:"foreignKey:VehicleID"`
}

// TableName specifies the table name
func (Shipment) TableName() string {
	return "shipments"
}
