// Package engine implements the route execution protocol: the route and
// stop state machines, the collection capture contract and the
// incinerator-delivery contract. Every mutating operation passes the
// location gate first; nothing is written when a precondition fails.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"medwaste_tracker/internal/location"
	"medwaste_tracker/internal/models"
)

// Config carries the engine's tunables.
type Config struct {
	// StrictStopOrder rejects arriving at a stop while an earlier stop on
	// the same route is not yet collected. Off by default: field crews
	// sometimes take stops out of order when a site is temporarily closed.
	StrictStopOrder bool
}

// Engine executes routes against the store, gated on location.
type Engine struct {
	store  Store
	gate   LocationGate
	events EventRecorder
	cfg    Config
}

// New wires an Engine.
func New(store Store, gate LocationGate, events EventRecorder, cfg Config) *Engine {
	return &Engine{store: store, gate: gate, events: events, cfg: cfg}
}

// ReceiptNumber builds the deterministic printable-receipt key for a
// collected stop, e.g. EC-2026-00042.
func ReceiptNumber(year int, stopID uint) string {
	return fmt.Sprintf("EC-%d-%05d", year, stopID)
}

// logEvent appends a tracking event. A failed insert is logged and NOT
// rolled back or retried: the primary write already succeeded and the
// ledger recomputes from source rows, so history gaps are a known,
// surfaced reconciliation risk rather than a blocker.
func (e *Engine) logEvent(ctx context.Context, routeID uint, stopID *uint, eventType string, pos location.Position, payload any) {
	body := ""
	if payload != nil {
		if b, err := json.Marshal(payload); err == nil {
			body = string(b)
		}
	}
	ev := &models.TrackingLogEvent{
		RouteID:     routeID,
		RouteStopID: stopID,
		EventType:   eventType,
		Lat:         pos.Lat,
		Lng:         pos.Lng,
		OccurredAt:  time.Now(),
		Payload:     body,
	}
	if err := e.events.Record(ctx, ev); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"route_id":   routeID,
			"event_type": eventType,
		}).Warn("tracking log append failed")
	}
}

// ownedRoute loads a route and verifies the acting representative is the
// one it was assigned to.
func (e *Engine) ownedRoute(ctx context.Context, routeID, repID uint) (*models.Route, error) {
	route, err := e.store.RouteByID(ctx, routeID)
	if err != nil {
		return nil, persist("load route", err)
	}
	if route.RepresentativeID != repID {
		return nil, invalid("route", "route is not assigned to this representative")
	}
	return route, nil
}
