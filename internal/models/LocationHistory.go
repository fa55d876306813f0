package models

import (
	"time"

	"gorm.io/gorm"
)

// LocationHistory is the durable trail of position fixes pushed by
// representative devices. The location gate reads the latest fix from
// redis; these rows back the audit/replay views.
type LocationHistory struct {
	gorm.Model
	RepresentativeID uint           `json:"representative_id" gorm:"index"`
	Representative   Representative `gorm:"foreignKey:RepresentativeID"`
	Latitude         float64        `json:"latitude"`
	Longitude        float64        `json:"longitude"`
	Accuracy         float64        `json:"accuracy"` // GPS accuracy in meters
	Timestamp        time.Time      `json:"timestamp"`
}
