package middleware

import (
	"strings"

	"github.com/ankitgade/greenfleet-backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string

		// First try to get token from Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		// If not found in header, try query parameter (for WebSocket)
		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			c.JSON(401, gin.H{"error": "Authorization header or token query parameter required"})
			c.Abort()
			return
		}

		token, err := utils.ValidateToken(tokenString)
		if err != nil || !token.Valid {
			c.JSON(401, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(401, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}

		c.Set("userId", uint(claims["id"].(float64)))
		c.Set("userType", claims["userType"].(string))
		c.Next()
	}
}

// RequireUserType restricts a route to the given user types.
// Must run after AuthMiddleware.
func RequireUserType(userTypes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userType := c.GetString("userType")
		for _, allowed := range userTypes {
			if userType == allowed {
				c.Next()
				return
			}
		}
		c.JSON(403, gin.H{"error": "Insufficient permissions"})
		c.Abort()
	}
}

// RequireAdmin restricts a route to admin users
func RequireAdmin() gin.HandlerFunc {
	return RequireUserType("admin")
}
