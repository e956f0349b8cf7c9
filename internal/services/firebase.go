package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

var (
	// FirebaseApp is the Firebase app instance
	FirebaseApp *firebase.App
	// MessagingClient is the Firebase Cloud Messaging client
	MessagingClient *messaging.Client
)

// InitFirebase initializes Firebase Admin SDK
func InitFirebase() error {
	ctx := context.Background()

	serviceAccountPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH")
	if serviceAccountPath == "" {
		log.Println("Warning: FIREBASE_SERVICE_ACCOUNT_PATH not set. Push notifications will be disabled.")
		return nil
	}

	opt := option.WithCredentialsFile(serviceAccountPath)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return fmt.Errorf("error initializing firebase app: %v", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return fmt.Errorf("error getting messaging client: %v", err)
	}

	FirebaseApp = app
	MessagingClient = client

	log.Println("Firebase Cloud Messaging initialized successfully")
	return nil
}

// NotificationPayload represents the notification data
type NotificationPayload struct {
	Title     string                 `json:"title"`
	Body      string                 `json:"body"`
	Data      map[string]interface{} `json:"data,omitempty"`
	ChannelID string                 `json:"channelId,omitempty"`
	Sound     string                 `json:"sound,omitempty"`
	Priority  string                 `json:"priority,omitempty"`
}

func getAndroidConfig(payload NotificationPayload) *messaging.AndroidConfig {
	channelID := payload.ChannelID
	if channelID == "" {
		channelID = "greenfleet_default"
	}

	sound := payload.Sound
	if sound == "" {
		sound = "default"
	}

	priority := messaging.PriorityHigh
	if payload.Priority == "normal" {
		priority = messaging.PriorityDefault
	}

	return &messaging.AndroidConfig{
		Priority: "high",
		Notification: &messaging.AndroidNotification{
			Sound:                 sound,
			ChannelID:             channelID,
			Priority:              priority,
			DefaultSound:          sound == "default",
			Color:                 "#2E7D32",
			DefaultVibrateTimings: true,
		},
	}
}

func getAPNSConfig(payload NotificationPayload) *messaging.APNSConfig {
	sound := payload.Sound
	if sound == "" {
		sound = "default"
	}

	badge := 1
	return &messaging.APNSConfig{
		Payload: &messaging.APNSPayload{
			Aps: &messaging.Aps{
				Sound:            sound,
				Badge:            &badge,
				MutableContent:   true,
				ContentAvailable: true,
			},
		},
	}
}

// SendNotificationToToken sends a notification to a specific FCM token
func SendNotificationToToken(ctx context.Context, token string, payload NotificationPayload) error {
	if MessagingClient == nil {
		log.Println("Warning: Firebase not initialized. Skipping notification.")
		return nil
	}

	// FCM requires string data values
	dataStrings := make(map[string]string)
	for key, value := range payload.Data {
		switch v := value.(type) {
		case string:
			dataStrings[key] = v
		case int, int64, uint, float64, bool:
			dataStrings[key] = fmt.Sprintf("%v", v)
		default:
			jsonData, err := json.Marshal(v)
			if err != nil {
				log.Printf("Error marshaling data for key %s: %v", key, err)
				continue
			}
			dataStrings[key] = string(jsonData)
		}
	}

	message := &messaging.Message{
		Notification: &messaging.Notification{
			Title: payload.Title,
			Body:  payload.Body,
		},
		Data:    dataStrings,
		Token:   token,
		Android: getAndroidConfig(payload),
		APNS:    getAPNSConfig(payload),
	}

	response, err := MessagingClient.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("error sending message: %v", err)
	}

	log.Printf("Successfully sent notification, response: %s", response)
	return nil
}

// SendShipmentRequestNotification notifies a driver about a new shipment nearby
func SendShipmentRequestNotification(ctx context.Context, driverToken string, shipmentID uint, pickupAddress, destAddress string, price float64) error {
	payload := NotificationPayload{
		Title: "New Shipment Request",
		Body:  fmt.Sprintf("Pickup: %s -> %s | INR %.2f", pickupAddress, destAddress, price),
		Data: map[string]interface{}{
			"type":       "shipment_request",
			"shipmentId": shipmentID,
		},
		ChannelID: "greenfleet_shipments",
	}
	return SendNotificationToToken(ctx, driverToken, payload)
}

// SendShipmentStatusNotification notifies the client about a status change
func SendShipmentStatusNotification(ctx context.Context, clientToken string, shipmentID uint, trackingCode, status string) error {
	var body string
	switch status {
	case "accepted":
		body = "A driver has accepted your shipment."
	case "picked_up":
		body = "Your cargo has been picked up and is on its way."
	case "in_transit":
		body = "Your shipment is in transit."
	case "delivered":
		body = "Your shipment has been delivered."
	case "cancelled":
		body = "Your shipment was cancelled."
	default:
		body = fmt.Sprintf("Shipment %s is now %s.", trackingCode, status)
	}

	payload := NotificationPayload{
		Title: "Shipment Update",
		Body:  body,
		Data: map[string]interface{}{
			"type":         "shipment_status",
			"shipmentId":   shipmentID,
			"trackingCode": trackingCode,
			"status":       status,
		},
		ChannelID: "greenfleet_shipments",
	}
	return SendNotificationToToken(ctx, clientToken, payload)
}

// SendDriverApprovalNotification notifies a driver about the admin decision
func SendDriverApprovalNotification(ctx context.Context, driverToken string, approved bool) error {
	payload := NotificationPayload{
		Title: "Application Update",
		Body:  "Your driver application has been approved. You can start accepting shipments.",
		Data: map[string]interface{}{
			"type": "driver_approval",
		},
	}
	if !approved {
		payload.Body = "Your driver application was not approved. Contact support for details."
	}
	return SendNotificationToToken(ctx, driverToken, payload)
}

// SendEcoBadgeNotification congratulates a driver on a new badge
func SendEcoBadgeNotification(ctx context.Context, driverToken, badge string) error {
	payload := NotificationPayload{
		Title: "New Badge Earned",
		Body:  fmt.Sprintf("Congratulations! You earned the %s badge.", badge),
		Data: map[string]interface{}{
			"type":  "eco_badge",
			"badge": badge,
		},
		ChannelID: "greenfleet_eco",
	}
	return SendNotificationToToken(ctx, driverToken, payload)
}
