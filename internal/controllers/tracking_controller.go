package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"medwaste_tracker/internal/config"
	"medwaste_tracker/internal/models"
)

// ListRouteEvents returns the append-only tracking log for a route, oldest
// first, for audit views.
func ListRouteEvents(c *gin.Context) {
	routeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid route ID"})
		return
	}

	q := config.DB.Where("route_id = ?", routeID)
	if eventType := c.Query("type"); eventType != "" {
		q = q.Where("event_type = ?", eventType)
	}

	var events []models.TrackingLogEvent
	if err := q.Order("occurred_at ASC").Find(&events).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing events: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}
