package models

import (
	"time"

	"gorm.io/gorm"
)

// OTPType distinguishes what a one-time code is allowed to unlock.
type OTPType string

const (
	OTPTypePasswordReset     OTPType = "password_reset"
	OTPTypeEmailVerification OTPType = "email_verification"
)

// OTP is a single-use verification code tied to a user account.
type OTP struct {
	gorm.Model
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	Code      string    `json:"code" gorm:"not null"`
	Type      OTPType   `json:"type" gorm:"not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
	Used      bool      `json:"used" gorm:"default:false"`
}

// TableName specifies the table name
func (OTP) TableName() string {
	return "otps"
}
