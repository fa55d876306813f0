// internal/models/vehicle.go
package models

import (
	"gorm.io/gorm"
)

type Vehicle struct {
	gorm.Model
	PlateNumber  string `json:"plate_number"`
	Registration string `json:"registration"`
	InService    bool   `json:"in_service" gorm:"default:true"`
}
