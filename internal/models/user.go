package models

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserType string

const (
	UserTypeClient UserType = "client"
	UserTypeDriver UserType = "driver"
	UserTypeAdmin  UserType = "admin"
)

// DriverStatus tracks the registration approval workflow for drivers
type DriverStatus string

const (
	DriverStatusPending  DriverStatus = "pending"
	DriverStatusApproved DriverStatus = "approved"
	DriverStatusRejected DriverStatus = "rejected"
)

type User struct {
	gorm.Model
	Username     string `gorm:"column:username;unique;not null"`
	Email        string `gorm:"column:email;unique;not null"`
	Password     string `gorm:"-:migration"` // Temporary field for password handling
	PasswordHash string `gorm:"column:password_hash;not null"`
	PhoneNumber  string `gorm:"column:phone_number"`
	UserType     string `gorm:"column:user_type;not null"`
	IsVerified   bool   `gorm:"column:is_verified;default:false"`
	FCMToken     string `gorm:"column:fcm_token"`

	// Driver-only fields, empty for clients and admins
	LicenseNumber string `gorm:"column:license_number"`
	LicenseImage  string `gorm:"column:license_image"`
	DriverStatus  string `gorm:"column:driver_status;default:''"`
	IsAvailable   bool   `gorm:"column:is_available;default:false"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

func (u *User) HashPassword() error {
	if u.Password == "" {
		return nil
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

// IsApprovedDriver reports whether the user may be assigned shipments.
func (u *User) IsApprovedDriver() bool {
	return u.UserType == string(UserTypeDriver) && u.DriverStatus == string(DriverStatusApproved)
}
