package handlers

import (
	"github.com/ankitgade/greenfleet-backend/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RegisterFCMToken registers or updates a user's FCM token
func RegisterFCMToken(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var input struct {
			FCMToken string `json:"fcmToken" binding:"required"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if err := db.Model(&models.User{}).Where("id = ?", userID).Update("fcm_token", input.FCMToken).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to register FCM token"})
			return
		}

		c.JSON(200, gin.H{"message": "FCM token registered successfully"})
	}
}

// RemoveFCMToken clears a user's FCM token on logout
func RemoveFCMToken(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		if err := db.Model(&models.User{}).Where("id = ?", userID).Update("fcm_token", "").Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to remove FCM token"})
			return
		}

		c.JSON(200, gin.H{"message": "FCM token removed successfully"})
	}
}
