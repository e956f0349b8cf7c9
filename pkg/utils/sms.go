package utils

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
)

var (
	username = os.Getenv("AT_USERNAME")
	apiKey   = os.Getenv("AT_API_KEY")
)

func sendSMS(message string, recipients []string) error {
	if username == "" {
		return fmt.Errorf("africa's talking username not set")
	}

	if apiKey == "" {
		return fmt.Errorf("africa's talking API key not set")
	}

	baseURL := "https://api.africastalking.com/version1/messaging"

	// Prepare the form data
	data := url.Values{}
	data.Set("username", username)
	data.Set("to", strings.Join(recipients, ","))
	data.Set("message", message)

	// Create the request
	req, err := http.NewRequest("POST", baseURL, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}

	// Set headers
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("apiKey", apiKey)
	req.Header.Set("Accept", "application/json")

	// Send the request
	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to send SMS: status code %d", resp.StatusCode)
	}

	log.Printf("Successfully sent SMS to recipients: %v", recipients)
	return nil
}

// SendPasswordResetSMS sends the password reset code over SMS
func SendPasswordResetSMS(phone, otp string) error {
	msg := fmt.Sprintf("Your GreenFleet password reset code is %s. It expires in 15 minutes.", otp)
	return sendSMS(msg, []string{phone})
}

// SendDeliveryOTPSMS sends the delivery confirmation code to the receiver
func SendDeliveryOTPSMS(receiverPhone, otp string) error {
	msg := fmt.Sprintf("Your GreenFleet delivery code is %s. Share it with the driver only when your parcel arrives.", otp)
	return sendSMS(msg, []string{receiverPhone})
}

// SendPickupOTPSMS sends the pickup confirmation code to the sender
func SendPickupOTPSMS(clientPhone, otp string) error {
	msg := fmt.Sprintf("Your GreenFleet pickup code is %s. Share it with the driver at handoff.", otp)
	return sendSMS(msg, []string{clientPhone})
}

// SendShipmentDeliveredSMS notifies the client the shipment was delivered
func SendShipmentDeliveredSMS(clientPhone, trackingCode string) error {
	msg := fmt.Sprintf("Your GreenFleet shipment %s has been delivered.", trackingCode)
	return sendSMS(msg, []string{clientPhone})
}
