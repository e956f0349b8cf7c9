package utils

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"time"
)

const OTPExpiration = 15 * time.Minute

// GenerateOTP derives a 4-digit code (1000-9999) from the given key.
// Callers salt the key with something per-request, like email plus a
// timestamp, so repeated requests yield different codes.
func GenerateOTP(uniqueKey string) string {
	hash := sha256.Sum256([]byte(uniqueKey))
	num := binary.BigEndian.Uint32(hash[:4])
	return fmt.Sprintf("%04d", 1000+num%9000)
}

// GenerateHandoffOTP generates the confirmation code for a shipment handoff
// (pickup or delivery). The shipment id and purpose are salted with the
// current time so re-booking produces fresh codes.
func GenerateHandoffOTP(shipmentID uint, purpose string) string {
	return GenerateOTP(fmt.Sprintf("shipment-%d-%s-%d", shipmentID, purpose, time.Now().UnixNano()))
}

// SendPasswordResetOTP sends OTP via both email and SMS
func SendPasswordResetOTP(email, phone, otp string) error {
	if err := SendPasswordResetEmail(email, otp); err != nil {
		return fmt.Errorf("failed to send OTP via email: %v", err)
	}

	if phone != "" {
		if err := SendPasswordResetSMS(phone, otp); err != nil {
			return fmt.Errorf("failed to send OTP via SMS: %v", err)
		}
	}

	return nil
}
