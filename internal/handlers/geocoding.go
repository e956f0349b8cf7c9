package handlers

import (
	"strconv"

	"github.com/ankitgade/greenfleet-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// SearchAddress resolves a free-form address query to candidate coordinates.
// Remote failures degrade to an empty list, never an error.
func SearchAddress() gin.HandlerFunc {
	return func(c *gin.Context) {
		query := c.Query("q")
		if query == "" {
			c.JSON(400, gin.H{"error": "Query parameter q is required"})
			return
		}

		results := services.SearchAddress(query)
		c.JSON(200, gin.H{"results": results})
	}
}

// ReverseGeocode resolves coordinates to an address
func ReverseGeocode() gin.HandlerFunc {
	return func(c *gin.Context) {
		lat, err1 := strconv.ParseFloat(c.Query("lat"), 64)
		lng, err2 := strconv.ParseFloat(c.Query("lng"), 64)
		if err1 != nil || err2 != nil {
			c.JSON(400, gin.H{"error": "lat and lng query parameters are required"})
			return
		}
		if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
			c.JSON(400, gin.H{"error": "Coordinates out of range"})
			return
		}

		address := services.ReverseGeocode(lat, lng)
		c.JSON(200, gin.H{"address": address})
	}
}
