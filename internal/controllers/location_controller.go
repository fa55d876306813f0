package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"medwaste_tracker/internal/config"
	"medwaste_tracker/internal/location"
	"medwaste_tracker/internal/models"
)

// PushLocation receives a position fix from a representative device. The
// fix lands in redis for the location gate and in postgres for the audit
// trail. Devices push on a timer and again whenever the gate requests a
// refresh over the location:refresh channel.
func PushLocation(c *gin.Context) {
	var input struct {
		Lat      float64 `json:"lat" binding:"required"`
		Lng      float64 `json:"lng" binding:"required"`
		Accuracy float64 `json:"accuracy"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid fix: " + err.Error()})
		return
	}

	repID := repIDFromClaims(c)
	if repID == 0 {
		c.JSON(http.StatusForbidden, gin.H{"error": "no representative profile on this account"})
		return
	}

	now := time.Now()
	fix := location.Position{Lat: input.Lat, Lng: input.Lng, Accuracy: input.Accuracy, Timestamp: now}
	if err := Gate.Record(c.Request.Context(), repID, fix); err != nil {
		logrus.WithError(err).Error("PushLocation: fix store write failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store fix"})
		return
	}

	// History row is best effort; the gate only ever reads redis.
	history := models.LocationHistory{
		RepresentativeID: repID,
		Latitude:         input.Lat,
		Longitude:        input.Lng,
		Accuracy:         input.Accuracy,
		Timestamp:        now,
	}
	if err := config.DB.Create(&history).Error; err != nil {
		logrus.WithError(err).Warn("PushLocation: history row not persisted")
	}

	c.JSON(http.StatusOK, gin.H{"recorded_at": now})
}
