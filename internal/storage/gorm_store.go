// Package storage backs the engine's Store interface with gorm/postgres.
package storage

import (
	"context"

	"gorm.io/gorm"

	"medwaste_tracker/internal/models"
)

// GormStore is the postgres-backed persistence layer for the route engine.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) RouteByID(ctx context.Context, id uint) (*models.Route, error) {
	var route models.Route
	if err := s.db.WithContext(ctx).First(&route, id).Error; err != nil {
		return nil, err
	}
	return &route, nil
}

func (s *GormStore) SaveRoute(ctx context.Context, r *models.Route) error {
	return s.db.WithContext(ctx).Save(r).Error
}

func (s *GormStore) StopByID(ctx context.Context, id uint) (*models.RouteStop, error) {
	var stop models.RouteStop
	if err := s.db.WithContext(ctx).Preload("Collection").First(&stop, id).Error; err != nil {
		return nil, err
	}
	return &stop, nil
}

func (s *GormStore) SaveStop(ctx context.Context, stop *models.RouteStop) error {
	// The collection record is created separately and never updated.
	return s.db.WithContext(ctx).Omit("Collection").Save(stop).Error
}

func (s *GormStore) StopsByRoute(ctx context.Context, routeID uint) ([]models.RouteStop, error) {
	var stops []models.RouteStop
	err := s.db.WithContext(ctx).
		Preload("Collection").
		Where("route_id = ?", routeID).
		Order("stop_order ASC").
		Find(&stops).Error
	return stops, err
}

func (s *GormStore) CreateCollection(ctx context.Context, rec *models.CollectionRecord) error {
	return s.db.WithContext(ctx).Create(rec).Error
}

func (s *GormStore) CreateReceipt(ctx context.Context, r *models.ReceiptSnapshot) error {
	return s.db.WithContext(ctx).Create(r).Error
}

func (s *GormStore) DeliveriesByRoute(ctx context.Context, routeID uint) ([]models.IncineratorDelivery, error) {
	var deliveries []models.IncineratorDelivery
	err := s.db.WithContext(ctx).
		Where("route_id = ?", routeID).
		Order("delivery_order ASC").
		Find(&deliveries).Error
	return deliveries, err
}

// CreateDelivery inserts the delivery and the route's refreshed aggregates
// in one transaction so the pair is never half-applied.
func (s *GormStore) CreateDelivery(ctx context.Context, d *models.IncineratorDelivery, r *models.Route) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(d).Error; err != nil {
			return err
		}
		return tx.Omit("Stops", "Deliveries").Save(r).Error
	})
}

func (s *GormStore) IncineratorByID(ctx context.Context, id uint) (*models.Incinerator, error) {
	var inc models.Incinerator
	if err := s.db.WithContext(ctx).First(&inc, id).Error; err != nil {
		return nil, err
	}
	return &inc, nil
}
