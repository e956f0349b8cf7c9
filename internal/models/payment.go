package models

import (
	"gorm.io/gorm"
)

// PaymentStatus constants
const (
	PaymentStatusCreated = "created"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// Payment links a shipment to a gateway order and its verification state
type Payment struct {
	gorm.Model
	ShipmentID uint    `json:"shipmentId" gorm:"not null;index"`
	OrderID    string  `json:"orderId" gorm:"uniqueIndex;not null"`
	PaymentID  string  `json:"paymentId"`
	Signature  string  `json:"-"`
	Amount     float64 `json:"amount" gorm:"not null"`
	Currency   string  `json:"currency" gorm:"not null;default:'INR'"`
	Status     string  `json:"status" gorm:"not null;default:'created'"`

	Shipment *Shipment `json:"shipment,omitempty" gorm:"foreignKey:ShipmentID"`
}

// TableName specifies the table name
func (Payment) TableName() string {
	return "payments"
}
