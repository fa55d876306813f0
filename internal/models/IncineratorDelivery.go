package models

import (
	"time"

	"gorm.io/gorm"
)

// IncineratorDelivery is one hand-off event from a route to an incinerator.
// WeightDelivered covers primary bag weight only; safety-box weight is never
// split across deliveries and is assumed to travel with the primary load.
// The cost rate is snapshotted at delivery time so later rate changes never
// retroactively affect recorded cost. Immutable once written.
type IncineratorDelivery struct {
	gorm.Model

	RouteID       uint `json:"route_id" gorm:"index"`
	IncineratorID uint `json:"incinerator_id"`

	BagsCount       int     `json:"bags_count"`
	WeightDelivered float64 `json:"weight_delivered"` // kg, primary bags only
	CostPerKg       float64 `json:"cost_per_kg"`      // snapshot of the incinerator rate
	TotalCost       float64 `json:"total_cost"`

	// Supports multiple sequential drops per route.
	DeliveryOrder int `json:"delivery_order"`

	ReceiverSignature string `json:"receiver_signature"` // opaque image payload
	PhotoProof        string `json:"photo_proof"`
	Notes             string `json:"notes"` // may carry an incinerator-change reason

	DeliveredAt time.Time `json:"delivered_at"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`

	Incinerator Incinerator `gorm:"foreignKey:IncineratorID" json:"incinerator,omitempty"`
}
