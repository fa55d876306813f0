package models

import (
	"time"

	"gorm.io/gorm"
)

// Tracking event types, one per engine state transition.
const (
	EventRouteStarted        = "route_started"
	EventArrivedHospital     = "arrived_hospital"
	EventCollectionCompleted = "collection_completed"
	EventDepartedHospital    = "departed_hospital"
	EventPhotoUploaded       = "photo_uploaded"
	EventSignatureTaken      = "signature_taken"
	EventDeliveryRecorded    = "delivery_recorded"
	EventRouteCompleted      = "route_completed"
	EventRouteCancelled      = "route_cancelled"
)

// TrackingLogEvent is the append-only audit trail of the route engine.
// Events record history and never drive behavior; they are never mutated
// or deleted.
type TrackingLogEvent struct {
	gorm.Model

	RouteID     uint   `json:"route_id" gorm:"index"`
	RouteStopID *uint  `json:"route_stop_id"`
	EventType   string `json:"event_type" gorm:"index"`

	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	OccurredAt time.Time `json:"occurred_at"`

	// Event-specific details, JSON-encoded.
	Payload string `json:"payload" gorm:"type:jsonb"`
}
