package handlers

import (
	"github.com/ankitgade/greenfleet-backend/internal/models"
	"github.com/ankitgade/greenfleet-backend/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreatePaymentOrder creates a gateway order for a shipment's fare
func CreatePaymentOrder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var input struct {
			ShipmentID uint `json:"shipmentId" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var shipment models.Shipment
		if err := db.First(&shipment, input.ShipmentID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Shipment not found"})
			return
		}
		if shipment.ClientID != userID {
			c.JSON(403, gin.H{"error": "Not authorized to pay for this shipment"})
			return
		}
		if shipment.Status == models.ShipmentStatusCancelled {
			c.JSON(400, gin.H{"error": "Shipment is cancelled"})
			return
		}

		var paid int64
		db.Model(&models.Payment{}).
			Where("shipment_id = ? AND status = ?", shipment.ID, models.PaymentStatusPaid).
			Count(&paid)
		if paid > 0 {
			c.JSON(400, gin.H{"error": "Shipment is already paid"})
			return
		}

		order, err := services.CreatePaymentOrder(shipment.ID, shipment.Price)
		if err != nil {
			c.JSON(502, gin.H{"error": "Failed to create payment order: " + err.Error()})
			return
		}

		payment := models.Payment{
			ShipmentID: shipment.ID,
			OrderID:    order.OrderID,
			Amount:     shipment.Price,
			Currency:   order.Currency,
			Status:     models.PaymentStatusCreated,
		}
		if err := db.Create(&payment).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to record payment order"})
			return
		}

		c.JSON(201, gin.H{
			"orderId":  order.OrderID,
			"amount":   order.Amount,
			"currency": order.Currency,
		})
	}
}

// VerifyPayment checks the gateway callback signature and marks the
// payment as paid
func VerifyPayment(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			OrderID   string `json:"orderId" binding:"required"`
			PaymentID string `json:"paymentId" binding:"required"`
			Signature string `json:"signature" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var payment models.Payment
		if err := db.Where("order_id = ?", input.OrderID).First(&payment).Error; err != nil {
			c.JSON(404, gin.H{"error": "Payment order not found"})
			return
		}

		if !services.VerifyPaymentSignature(input.OrderID, input.PaymentID, input.Signature) {
			db.Model(&payment).Update("status", models.PaymentStatusFailed)
			c.JSON(400, gin.H{"error": "Payment signature verification failed"})
			return
		}

		updates := map[string]interface{}{
			"payment_id": input.PaymentID,
			"signature":  input.Signature,
			"status":     models.PaymentStatusPaid,
		}
		if err := db.Model(&payment).Updates(updates).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to record payment"})
			return
		}

		c.JSON(200, gin.H{"message": "Payment verified", "status": models.PaymentStatusPaid})
	}
}
