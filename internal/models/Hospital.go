package models

import (
	"gorm.io/gorm"
)

// Hospital is a client site (hospital or clinic) waste is collected from.
type Hospital struct {
	gorm.Model

	Name          string  `json:"name" binding:"required"`
	Address       string  `json:"address"`
	ContactPerson string  `json:"contact_person"`
	Phone         string  `json:"phone"`
	Lat           float64 `json:"lat"`
	Lng           float64 `json:"lng"`
	Active        bool    `json:"active" gorm:"default:true"`
}
