package engine

import (
	"context"
	"math"
	"strings"
	"time"

	"medwaste_tracker/internal/ledger"
	"medwaste_tracker/internal/models"
)

// DeliveryInput is the hand-off contract. Zero-valued bags/weight pull the
// ledger defaults (everything collected and not yet delivered), so a plain
// single-drop delivery needs no figures at all. IncineratorID zero means
// the route's pre-assigned incinerator; choosing a different one requires
// ChangeReason.
type DeliveryInput struct {
	IncineratorID     uint    `json:"incinerator_id"`
	BagsCount         int     `json:"bags_count"`
	WeightDelivered   float64 `json:"weight_delivered"`
	ChangeReason      string  `json:"change_reason"`
	ReceiverSignature string  `json:"receiver_signature"`
	PhotoProof        string  `json:"photo_proof"`
	Notes             string  `json:"notes"`
}

// DeliveryDefaults returns the bags and primary weight still on the truck
// according to the ledger, used to prefill the delivery form.
func (e *Engine) DeliveryDefaults(ctx context.Context, routeID uint) (int, float64, error) {
	summary, err := e.RouteSummary(ctx, routeID)
	if err != nil {
		return 0, 0, err
	}
	bags := summary.CollectedBags - summary.DeliveredBags
	weight := round3(summary.CollectedPrimaryWeight - summary.DeliveredPrimaryWeight)
	return bags, weight, nil
}

// resolveIncineratorChange validates a reassignment away from the route's
// default incinerator. The reason is folded into the delivery notes rather
// than stored as a structured field.
func resolveIncineratorChange(route *models.Route, in DeliveryInput) (uint, string, error) {
	targetID := in.IncineratorID
	if targetID == 0 {
		targetID = route.IncineratorID
	}
	notes := strings.TrimSpace(in.Notes)
	if targetID != route.IncineratorID {
		reason := strings.TrimSpace(in.ChangeReason)
		if reason == "" {
			return 0, "", invalid("change_reason", "a reason is required to deliver to a different incinerator")
		}
		prefix := "incinerator changed: " + reason
		if notes == "" {
			notes = prefix
		} else {
			notes = prefix + "; " + notes
		}
	} else if strings.TrimSpace(in.ChangeReason) != "" {
		return 0, "", invalid("change_reason", "reason given but the incinerator is unchanged")
	}
	return targetID, notes, nil
}

// RecordDelivery books one hand-off to an incinerator. Every stop must be
// collected first. The cost rate is snapshotted from the incinerator at
// call time; the delivery row and the route's refreshed aggregates are
// written in a single transaction. Recording a delivery does not complete
// the route; completion is a separate, explicit action, which is what
// makes multi-drop routes possible.
func (e *Engine) RecordDelivery(ctx context.Context, routeID, repID uint, in DeliveryInput) (*models.IncineratorDelivery, ledger.Summary, error) {
	route, err := e.ownedRoute(ctx, routeID, repID)
	if err != nil {
		return nil, ledger.Summary{}, err
	}
	if route.IsMaintenance() {
		return nil, ledger.Summary{}, invalid("route", "maintenance routes do not record deliveries")
	}
	if route.Status != models.RouteInProgress {
		return nil, ledger.Summary{}, &TransitionError{Entity: "route", Status: string(route.Status), Attempted: "record a delivery on"}
	}

	stops, err := e.store.StopsByRoute(ctx, route.ID)
	if err != nil {
		return nil, ledger.Summary{}, persist("load stops", err)
	}
	for i := range stops {
		if stops[i].Status != models.StopCollected {
			return nil, ledger.Summary{}, invalid("stops", "all stops must be collected before delivering")
		}
	}

	targetID, notes, err := resolveIncineratorChange(route, in)
	if err != nil {
		return nil, ledger.Summary{}, err
	}
	inc, err := e.store.IncineratorByID(ctx, targetID)
	if err != nil {
		return nil, ledger.Summary{}, invalid("incinerator_id", "incinerator not found")
	}
	if !inc.Active {
		return nil, ledger.Summary{}, invalid("incinerator_id", "incinerator has no active cost rate")
	}

	deliveries, err := e.store.DeliveriesByRoute(ctx, route.ID)
	if err != nil {
		return nil, ledger.Summary{}, persist("load deliveries", err)
	}

	// Defaults: whatever the ledger says is still on board.
	current := ledger.Totals(stops, deliveries)
	bags := in.BagsCount
	if bags == 0 {
		bags = current.CollectedBags - current.DeliveredBags
	}
	weight := in.WeightDelivered
	if weight == 0 {
		weight = round3(current.CollectedPrimaryWeight - current.DeliveredPrimaryWeight)
	}
	if bags <= 0 {
		return nil, ledger.Summary{}, invalid("bags_count", "must be a positive integer")
	}
	if weight <= 0 {
		return nil, ledger.Summary{}, invalid("weight_delivered", "must be a positive weight in kg")
	}

	pos, err := e.gate.Require(ctx, repID)
	if err != nil {
		return nil, ledger.Summary{}, err
	}

	delivery := &models.IncineratorDelivery{
		RouteID:           route.ID,
		IncineratorID:     inc.ID,
		BagsCount:         bags,
		WeightDelivered:   weight,
		CostPerKg:         inc.CostPerKg,
		TotalCost:         round2(weight * inc.CostPerKg),
		DeliveryOrder:     len(deliveries) + 1,
		ReceiverSignature: in.ReceiverSignature,
		PhotoProof:        in.PhotoProof,
		Notes:             notes,
		DeliveredAt:       time.Now(),
		Lat:               pos.Lat,
		Lng:               pos.Lng,
	}

	summary := ledger.Totals(stops, append(deliveries, *delivery))
	route.TotalWeightCollected = summary.CollectedPrimaryWeight
	route.RemainingWeight = summary.RemainingWeight
	route.RemainingBags = summary.RemainingBags
	route.FinalWeightAtIncinerator = summary.GrandTotalDeliveredWeight

	if err := e.store.CreateDelivery(ctx, delivery, route); err != nil {
		return nil, ledger.Summary{}, persist("record delivery", err)
	}

	e.logEvent(ctx, route.ID, nil, models.EventDeliveryRecorded, pos, map[string]any{
		"incinerator_id": inc.ID,
		"bags_count":     bags,
		"weight_kg":      weight,
		"total_cost":     delivery.TotalCost,
	})
	return delivery, summary, nil
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
