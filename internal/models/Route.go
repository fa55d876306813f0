package models

import (
	"time"

	"gorm.io/gorm"
)

// RouteStatus is the lifecycle state of a Route.
type RouteStatus string

const (
	RoutePending    RouteStatus = "pending"
	RouteInProgress RouteStatus = "in_progress"
	RouteCompleted  RouteStatus = "completed"
	RouteCancelled  RouteStatus = "cancelled"
)

// RouteType discriminates waste-collection runs from maintenance runs.
// Maintenance routes skip stops, deliveries and the reconciliation ledger.
type RouteType string

const (
	RouteCollection  RouteType = "collection"
	RouteMaintenance RouteType = "maintenance"
)

// Route is one execution instance of a planned collection run: a dated
// sequence of hospital stops assigned to a representative and vehicle,
// ending at an incinerator. Routes are never deleted, only status-transitioned.
type Route struct {
	gorm.Model

	Date             time.Time   `json:"date"`
	RepresentativeID uint        `json:"representative_id" gorm:"index"`
	VehicleID        uint        `json:"vehicle_id"`
	IncineratorID    uint        `json:"incinerator_id"` // default delivery target
	RouteType        RouteType   `json:"route_type" gorm:"default:collection"`
	Status           RouteStatus `json:"status" gorm:"default:pending;index"`

	StartedAt *time.Time `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at"`
	StartLat  float64    `json:"start_lat"`
	StartLng  float64    `json:"start_lng"`
	EndLat    float64    `json:"end_lat"`
	EndLng    float64    `json:"end_lng"`

	// Denormalized aggregates. The ledger recomputes these from stops and
	// deliveries on every read; the stored values are a cache for list
	// screens and exports, never the source of truth.
	TotalWeightCollected     float64 `json:"total_weight_collected"`
	RemainingWeight          float64 `json:"remaining_weight"`
	RemainingBags            int     `json:"remaining_bags"`
	FinalWeightAtIncinerator float64 `json:"final_weight_at_incinerator"`

	Notes string `json:"notes"`

	// Planned driving path stored as WKB (LINESTRING, SRID 4326).
	// GeoJSON at the API edge.
	Geometry []byte `gorm:"type:bytea" json:"-"`

	Representative Representative        `gorm:"foreignKey:RepresentativeID" json:"representative,omitempty"`
	Vehicle        Vehicle               `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
	Incinerator    Incinerator           `gorm:"foreignKey:IncineratorID" json:"incinerator,omitempty"`
	Stops          []RouteStop           `gorm:"foreignKey:RouteID;constraint:OnDelete:CASCADE" json:"stops,omitempty"`
	Deliveries     []IncineratorDelivery `gorm:"foreignKey:RouteID;constraint:OnDelete:CASCADE" json:"deliveries,omitempty"`
}

// CanStart reports whether the route may move to in_progress.
func (r *Route) CanStart() bool { return r.Status == RoutePending }

// CanComplete reports whether the route may move to completed.
func (r *Route) CanComplete() bool { return r.Status == RouteInProgress }

// CanCancel reports whether the route may move to cancelled.
func (r *Route) CanCancel() bool {
	return r.Status == RoutePending || r.Status == RouteInProgress
}

// IsMaintenance reports whether the waste protocol is bypassed entirely.
func (r *Route) IsMaintenance() bool { return r.RouteType == RouteMaintenance }
