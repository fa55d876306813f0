package engine

import (
	"context"

	"medwaste_tracker/internal/location"
	"medwaste_tracker/internal/models"
)

// Store is the persistence surface the engine drives. The gorm
// implementation lives in internal/storage; tests use an in-memory mock.
type Store interface {
	RouteByID(ctx context.Context, id uint) (*models.Route, error)
	SaveRoute(ctx context.Context, r *models.Route) error

	StopByID(ctx context.Context, id uint) (*models.RouteStop, error)
	SaveStop(ctx context.Context, s *models.RouteStop) error
	StopsByRoute(ctx context.Context, routeID uint) ([]models.RouteStop, error)

	CreateCollection(ctx context.Context, rec *models.CollectionRecord) error
	CreateReceipt(ctx context.Context, r *models.ReceiptSnapshot) error

	DeliveriesByRoute(ctx context.Context, routeID uint) ([]models.IncineratorDelivery, error)
	// CreateDelivery inserts the delivery and saves the route's refreshed
	// aggregates in one transaction where the store supports it.
	CreateDelivery(ctx context.Context, d *models.IncineratorDelivery, r *models.Route) error

	IncineratorByID(ctx context.Context, id uint) (*models.Incinerator, error)
}

// LocationGate supplies the current-position precondition for every
// mutating operation.
type LocationGate interface {
	Require(ctx context.Context, repID uint) (location.Position, error)
}

// EventRecorder appends tracking-log events.
type EventRecorder interface {
	Record(ctx context.Context, ev *models.TrackingLogEvent) error
}
