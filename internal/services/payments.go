package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"os"

	razorpay "github.com/razorpay/razorpay-go"
)

var (
	razorpayClient *razorpay.Client
	razorpaySecret string
)

// InitPayments initializes the Razorpay client
func InitPayments() error {
	keyID := os.Getenv("RAZORPAY_KEY_ID")
	keySecret := os.Getenv("RAZORPAY_KEY_SECRET")

	if keyID == "" || keySecret == "" {
		log.Println("Warning: Razorpay credentials not set. Payments will be disabled.")
		return nil
	}

	razorpayClient = razorpay.NewClient(keyID, keySecret)
	razorpaySecret = keySecret

	log.Println("Razorpay client initialized successfully")
	return nil
}

// PaymentOrder is the subset of the gateway order the API exposes
type PaymentOrder struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// CreatePaymentOrder creates a gateway order for a shipment.
// Amount is in rupees and converted to paise for the gateway.
func CreatePaymentOrder(shipmentID uint, amount float64) (*PaymentOrder, error) {
	if razorpayClient == nil {
		return nil, fmt.Errorf("payment gateway not configured")
	}

	amountPaise := int64(amount * 100)
	data := map[string]interface{}{
		"amount":   amountPaise,
		"currency": "INR",
		"receipt":  fmt.Sprintf("shipment_%d", shipmentID),
		"notes": map[string]interface{}{
			"shipmentId": fmt.Sprintf("%d", shipmentID),
		},
	}

	order, err := razorpayClient.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment order: %v", err)
	}

	orderID, _ := order["id"].(string)
	if orderID == "" {
		return nil, fmt.Errorf("payment gateway returned no order id")
	}

	return &PaymentOrder{
		OrderID:  orderID,
		Amount:   amountPaise,
		Currency: "INR",
	}, nil
}

// VerifyPaymentSignature checks the gateway callback signature.
// The expected signature is HMAC-SHA256 of "orderID|paymentID" with the key secret.
func VerifyPaymentSignature(orderID, paymentID, signature string) bool {
	if razorpaySecret == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(razorpaySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
