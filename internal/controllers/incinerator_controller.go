package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medwaste_tracker/internal/config"
	"medwaste_tracker/internal/models"
)

// CreateIncinerator registers a disposal facility with its cost rate.
func CreateIncinerator(c *gin.Context) {
	var input struct {
		Name      string  `json:"name" binding:"required"`
		Address   string  `json:"address"`
		Phone     string  `json:"phone"`
		Lat       float64 `json:"lat"`
		Lng       float64 `json:"lng"`
		CostPerKg float64 `json:"cost_per_kg" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid incinerator input: " + err.Error()})
		return
	}
	if input.CostPerKg <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cost_per_kg must be positive"})
		return
	}

	inc := models.Incinerator{
		Name:      input.Name,
		Address:   input.Address,
		Phone:     input.Phone,
		Lat:       input.Lat,
		Lng:       input.Lng,
		CostPerKg: input.CostPerKg,
		Active:    true,
	}
	if err := config.DB.Create(&inc).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create incinerator: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"incinerator": inc})
}

func ListIncinerators(c *gin.Context) {
	q := config.DB.Order("name ASC")
	if c.Query("active") == "true" {
		q = q.Where("active = ?", true)
	}
	var incinerators []models.Incinerator
	if err := q.Find(&incinerators).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing incinerators: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": incinerators})
}

// UpdateIncinerator changes facility details, including the cost rate.
// Already-recorded deliveries keep their snapshotted rate.
func UpdateIncinerator(c *gin.Context) {
	id := c.Param("id")

	var inc models.Incinerator
	if err := config.DB.First(&inc, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Incinerator not found"})
		return
	}

	if err := c.ShouldBindJSON(&inc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid update"})
		return
	}
	if inc.CostPerKg <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cost_per_kg must be positive"})
		return
	}

	config.DB.Save(&inc)
	c.JSON(http.StatusOK, gin.H{"incinerator": inc})
}
