package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"gorm.io/gorm"

	logrus "github.com/sirupsen/logrus"

	"github.com/gin-gonic/gin"

	"medwaste_tracker/internal/config"
	"medwaste_tracker/internal/models"
)

// updateRepInput defines the fields dispatch can change on a rep profile.
type updateRepInput struct {
	Phone         *string `json:"phone"`
	LicenseNumber *string `json:"license_number"`
	VehicleID     *uint   `json:"vehicle_id"`
}

func ListRepresentatives(c *gin.Context) {
	var reps []models.Representative
	if err := config.DB.Preload("User").Preload("Vehicle").Find(&reps).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing representatives: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": reps})
}

func GetRepresentative(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid representative ID"})
		return
	}

	var rep models.Representative
	if err := config.DB.Preload("User").Preload("Vehicle").First(&rep, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Representative not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"representative": rep})
}

// UpdateRepresentative lets dispatch reassign a vehicle or fix profile
// details.
func UpdateRepresentative(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid representative ID"})
		return
	}

	var rep models.Representative
	if err := config.DB.First(&rep, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Representative not found"})
		return
	}

	var input updateRepInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Phone != nil {
		rep.Phone = *input.Phone
	}
	if input.LicenseNumber != nil {
		rep.LicenseNumber = *input.LicenseNumber
	}
	if input.VehicleID != nil {
		var vehicle models.Vehicle
		if err := config.DB.First(&vehicle, *input.VehicleID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "vehicle does not exist"})
			return
		}
		rep.VehicleID = *input.VehicleID
	}

	if err := config.DB.Save(&rep).Error; err != nil {
		logrus.WithError(err).Error("UpdateRepresentative: save failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Update failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"representative": rep})
}
