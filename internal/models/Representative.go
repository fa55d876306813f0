// internal/models/representative.go
package models

import (
	"gorm.io/gorm"
)

// Representative is a field rep who drives routes and collects waste.
type Representative struct {
	gorm.Model
	UserID        uint    `json:"user_id" gorm:"unique"` // Foreign key to User
	VehicleID     uint    `json:"vehicle_id" gorm:"index"`
	User          User    `gorm:"foreignKey:UserID"`
	Name          string  `json:"name"`
	Phone         string  `json:"phone"`
	LicenseNumber string  `json:"license_number"`
	Vehicle       Vehicle `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
	// Email, Password and Role live on the User model.
}
