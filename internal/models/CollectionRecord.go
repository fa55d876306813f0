package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Waste category flags. Informational and non-exclusive; a collection must
// carry at least one.
const (
	WasteHazardous      = "hazardous"
	WasteSharp          = "sharp"
	WastePharmaceutical = "pharmaceutical"
)

// CollectionRecord captures what was actually picked up at a stop. Written
// exactly once, at collection time, and never updated afterwards; a stop
// has at most one record. Safety boxes (rigid sharps containers) are
// tracked separately from soft bags but always travel with the primary load.
type CollectionRecord struct {
	gorm.Model

	RouteStopID uint `json:"route_stop_id" gorm:"uniqueIndex"`

	WasteCategories pq.StringArray `json:"waste_categories" gorm:"type:text[]"`

	BagsCount   int     `json:"bags_count"`
	TotalWeight float64 `json:"total_weight"` // kg, primary bags only

	SafetyBoxCount  int     `json:"safety_box_count"`
	SafetyBoxWeight float64 `json:"safety_box_weight"` // kg

	RepSignature    string `json:"rep_signature"`    // opaque image payload
	ClientSignature string `json:"client_signature"` // opaque image payload
	Notes           string `json:"notes"`

	CollectedAt time.Time `json:"collected_at"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
}

// HasCategory reports whether the given waste flag is set.
func (cr *CollectionRecord) HasCategory(cat string) bool {
	for _, c := range cr.WasteCategories {
		if c == cat {
			return true
		}
	}
	return false
}
