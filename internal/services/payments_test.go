package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func signPayment(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyPaymentSignature(t *testing.T) {
	razorpaySecret = "test_secret"
	defer func() { razorpaySecret = "" }()

	sig := signPayment("test_secret", "order_123", "pay_456")
	assert.True(t, VerifyPaymentSignature("order_123", "pay_456", sig))
}

func TestVerifyPaymentSignatureRejectsTampering(t *testing.T) {
	razorpaySecret = "test_secret"
	defer func() { razorpaySecret = "" }()

	sig := signPayment("test_secret", "order_123", "pay_456")
	assert.False(t, VerifyPaymentSignature("order_123", "pay_457", sig))
	assert.False(t, VerifyPaymentSignature("order_124", "pay_456", sig))
	assert.False(t, VerifyPaymentSignature("order_123", "pay_456", sig+"00"))
}

func TestVerifyPaymentSignatureUnconfigured(t *testing.T) {
	razorpaySecret = ""
	assert.False(t, VerifyPaymentSignature("order_123", "pay_456", "anything"))
}
