package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medwaste_tracker/internal/config"
	"medwaste_tracker/internal/models"
)

// CreateHospital registers a client site.
func CreateHospital(c *gin.Context) {
	var input struct {
		Name          string  `json:"name" binding:"required"`
		Address       string  `json:"address"`
		ContactPerson string  `json:"contact_person"`
		Phone         string  `json:"phone"`
		Lat           float64 `json:"lat"`
		Lng           float64 `json:"lng"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid hospital input: " + err.Error()})
		return
	}

	hospital := models.Hospital{
		Name:          input.Name,
		Address:       input.Address,
		ContactPerson: input.ContactPerson,
		Phone:         input.Phone,
		Lat:           input.Lat,
		Lng:           input.Lng,
		Active:        true,
	}
	if err := config.DB.Create(&hospital).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create hospital: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"hospital": hospital})
}

func ListHospitals(c *gin.Context) {
	var hospitals []models.Hospital
	if err := config.DB.Order("name ASC").Find(&hospitals).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing hospitals: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": hospitals})
}

func UpdateHospital(c *gin.Context) {
	id := c.Param("id")

	var hospital models.Hospital
	if err := config.DB.First(&hospital, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Hospital not found"})
		return
	}

	if err := c.ShouldBindJSON(&hospital); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid update"})
		return
	}

	config.DB.Save(&hospital)
	c.JSON(http.StatusOK, gin.H{"hospital": hospital})
}
