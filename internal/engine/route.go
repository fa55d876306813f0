package engine

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"medwaste_tracker/internal/ledger"
	"medwaste_tracker/internal/models"
)

// CompletionResult is what explicit route completion hands back. Deficit is
// informational: the route completes either way and operators resolve any
// remainder out of band.
type CompletionResult struct {
	Route   *models.Route  `json:"route"`
	Summary ledger.Summary `json:"summary"`
	Deficit bool           `json:"deficit"`
}

// StartRoute moves a pending route to in_progress and records where the
// representative was when it started.
func (e *Engine) StartRoute(ctx context.Context, routeID, repID uint) (*models.Route, error) {
	route, err := e.ownedRoute(ctx, routeID, repID)
	if err != nil {
		return nil, err
	}
	if !route.CanStart() {
		return nil, &TransitionError{Entity: "route", Status: string(route.Status), Attempted: "start"}
	}

	pos, err := e.gate.Require(ctx, repID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	route.Status = models.RouteInProgress
	route.StartedAt = &now
	route.StartLat = pos.Lat
	route.StartLng = pos.Lng
	if err := e.store.SaveRoute(ctx, route); err != nil {
		return nil, persist("start route", err)
	}

	e.logEvent(ctx, route.ID, nil, models.EventRouteStarted, pos, nil)
	return route, nil
}

// CompleteRoute finishes a route. This is an explicit caller action, not a
// side effect of recording a delivery, so multi-drop routes stay open until
// the representative says the day is done. Collection routes need at least
// one recorded delivery; maintenance routes just toggle closed. A ledger
// that does not zero out is surfaced as a deficit, never a block.
func (e *Engine) CompleteRoute(ctx context.Context, routeID, repID uint, notes string) (*CompletionResult, error) {
	route, err := e.ownedRoute(ctx, routeID, repID)
	if err != nil {
		return nil, err
	}
	if !route.CanComplete() {
		return nil, &TransitionError{Entity: "route", Status: string(route.Status), Attempted: "complete"}
	}

	var summary ledger.Summary
	if !route.IsMaintenance() {
		stops, err := e.store.StopsByRoute(ctx, route.ID)
		if err != nil {
			return nil, persist("load stops", err)
		}
		deliveries, err := e.store.DeliveriesByRoute(ctx, route.ID)
		if err != nil {
			return nil, persist("load deliveries", err)
		}
		if len(deliveries) == 0 {
			return nil, invalid("deliveries", "at least one incinerator delivery must be recorded before completing the route")
		}
		for i := range stops {
			if stops[i].Status != models.StopCollected {
				return nil, invalid("stops", "all stops must be collected before completing the route")
			}
		}
		summary = ledger.Totals(stops, deliveries)
	}

	pos, err := e.gate.Require(ctx, repID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	route.Status = models.RouteCompleted
	route.EndedAt = &now
	route.EndLat = pos.Lat
	route.EndLng = pos.Lng
	if notes != "" {
		route.Notes = appendNote(route.Notes, notes)
	}
	if !route.IsMaintenance() {
		route.TotalWeightCollected = summary.CollectedPrimaryWeight
		route.RemainingWeight = summary.RemainingWeight
		route.RemainingBags = summary.RemainingBags
		route.FinalWeightAtIncinerator = summary.GrandTotalDeliveredWeight
	}
	if err := e.store.SaveRoute(ctx, route); err != nil {
		return nil, persist("complete route", err)
	}

	e.logEvent(ctx, route.ID, nil, models.EventRouteCompleted, pos, summary)

	deficit := !route.IsMaintenance() && summary.Deficit()
	if deficit {
		logrus.WithFields(logrus.Fields{
			"route_id":       route.ID,
			"remaining_bags": summary.RemainingBags,
			"remaining_kg":   summary.RemainingWeight,
		}).Warn("route completed with reconciliation deficit")
	}

	return &CompletionResult{Route: route, Summary: summary, Deficit: deficit}, nil
}

// CancelRoute abandons a pending or in-progress route. The reason is
// mandatory and lands in the route notes.
func (e *Engine) CancelRoute(ctx context.Context, routeID, repID uint, reason string) (*models.Route, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, invalid("reason", "a cancellation reason is required")
	}
	route, err := e.ownedRoute(ctx, routeID, repID)
	if err != nil {
		return nil, err
	}
	if !route.CanCancel() {
		return nil, &TransitionError{Entity: "route", Status: string(route.Status), Attempted: "cancel"}
	}

	pos, err := e.gate.Require(ctx, repID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	route.Status = models.RouteCancelled
	route.EndedAt = &now
	route.EndLat = pos.Lat
	route.EndLng = pos.Lng
	route.Notes = appendNote(route.Notes, "cancelled: "+reason)
	if err := e.store.SaveRoute(ctx, route); err != nil {
		return nil, persist("cancel route", err)
	}

	e.logEvent(ctx, route.ID, nil, models.EventRouteCancelled, pos, map[string]string{"reason": reason})
	return route, nil
}

// RouteSummary recomputes the reconciliation ledger for a route from its
// source rows. Safe at any point in the lifecycle.
func (e *Engine) RouteSummary(ctx context.Context, routeID uint) (ledger.Summary, error) {
	stops, err := e.store.StopsByRoute(ctx, routeID)
	if err != nil {
		return ledger.Summary{}, persist("load stops", err)
	}
	deliveries, err := e.store.DeliveriesByRoute(ctx, routeID)
	if err != nil {
		return ledger.Summary{}, persist("load deliveries", err)
	}
	return ledger.Totals(stops, deliveries), nil
}

func appendNote(existing, note string) string {
	if existing == "" {
		return note
	}
	return existing + "\n" + note
}
