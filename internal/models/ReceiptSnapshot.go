package models

import "gorm.io/gorm"

// ReceiptSnapshot freezes the printable-receipt payload for a collected
// stop at the moment the collection was recorded. The receipt number is
// deterministic (EC-<year>-<zero-padded stop id>) so reprints always
// resolve to the same document.
type ReceiptSnapshot struct {
	gorm.Model

	ReceiptNumber string `json:"receipt_number" gorm:"uniqueIndex"`
	RouteStopID   uint   `json:"route_stop_id" gorm:"index"`

	// Route + stop + collection snapshot consumed by the receipt renderer.
	Payload string `json:"payload" gorm:"type:jsonb"`
}
