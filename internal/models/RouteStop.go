package models

import (
	"time"

	"gorm.io/gorm"
)

// StopStatus is the lifecycle state of a RouteStop.
// collected is terminal; there is no cancellation path for a single stop.
type StopStatus string

const (
	StopPending   StopStatus = "pending"
	StopArrived   StopStatus = "arrived"
	StopCollected StopStatus = "collected"
)

// RouteStop is one hospital visit within a route. StopOrder values are
// unique and contiguous within a route and define the intended progression
// order (dispatch assigns them, the engine never reorders).
type RouteStop struct {
	gorm.Model

	RouteID    uint       `json:"route_id" gorm:"index"`
	HospitalID uint       `json:"hospital_id"`
	StopOrder  int        `json:"stop_order"`
	Status     StopStatus `json:"status" gorm:"default:pending"`

	ArrivedAt    *time.Time `json:"arrived_at"`
	DepartedAt   *time.Time `json:"departed_at"`
	ArrivalLat   float64    `json:"arrival_lat"`
	ArrivalLng   float64    `json:"arrival_lng"`
	DepartureLat float64    `json:"departure_lat"`
	DepartureLng float64    `json:"departure_lng"`

	// Denormalized from the collection record's primary weight.
	WeightCollected float64 `json:"weight_collected"`

	PhotoProof        string `json:"photo_proof"`        // opaque image URL or data URI
	HospitalSignature string `json:"hospital_signature"` // opaque image URL or data URI

	Hospital   Hospital          `gorm:"foreignKey:HospitalID" json:"hospital,omitempty"`
	Collection *CollectionRecord `gorm:"foreignKey:RouteStopID" json:"collection,omitempty"`
}

// CanArrive reports whether the stop may move to arrived.
func (s *RouteStop) CanArrive() bool { return s.Status == StopPending }

// CanCollect reports whether a collection record may be captured.
func (s *RouteStop) CanCollect() bool { return s.Status == StopArrived }

// CanDepart reports whether the stop may move to collected. The engine
// additionally requires a CollectionRecord to exist.
func (s *RouteStop) CanDepart() bool { return s.Status == StopArrived }
