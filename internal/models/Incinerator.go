package models

import (
	"gorm.io/gorm"
)

// Incinerator is an external disposal facility with a per-kilogram cost
// rate. Deliveries snapshot CostPerKg at recording time.
type Incinerator struct {
	gorm.Model

	Name      string  `json:"name" binding:"required"`
	Address   string  `json:"address"`
	Phone     string  `json:"phone"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	CostPerKg float64 `json:"cost_per_kg"`
	Active    bool    `json:"active" gorm:"default:true"`
}
