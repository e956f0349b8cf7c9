package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateOTPShape(t *testing.T) {
	otp := GenerateOTP("driver@example.com-20250101120000")
	assert.Len(t, otp, 4)
	for _, c := range otp {
		assert.True(t, c >= '0' && c <= '9')
	}
}

func TestGenerateOTPDeterministicForSameKey(t *testing.T) {
	assert.Equal(t, GenerateOTP("same-key"), GenerateOTP("same-key"))
	assert.NotEqual(t, GenerateOTP("key-a"), GenerateOTP("key-b"))
}

func TestGenerateHandoffOTPShape(t *testing.T) {
	otp := GenerateHandoffOTP(42, "delivery")
	assert.Len(t, otp, 4)
}
