package engine

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"medwaste_tracker/internal/models"
)

// CollectionInput is the capture contract for a stop's collection record.
// Signatures are optional: crews may fall back to a pen signature on the
// printed receipt.
type CollectionInput struct {
	WasteCategories []string `json:"waste_categories"`
	BagsCount       int      `json:"bags_count"`
	TotalWeight     float64  `json:"total_weight"`
	SafetyBoxCount  int      `json:"safety_box_count"`
	SafetyBoxWeight float64  `json:"safety_box_weight"`
	RepSignature    string   `json:"rep_signature"`
	ClientSignature string   `json:"client_signature"`
	Notes           string   `json:"notes"`
}

// stopOnActiveRoute loads a stop plus its route and checks the route is
// in_progress and owned by the acting representative.
func (e *Engine) stopOnActiveRoute(ctx context.Context, stopID, repID uint) (*models.RouteStop, *models.Route, error) {
	stop, err := e.store.StopByID(ctx, stopID)
	if err != nil {
		return nil, nil, persist("load stop", err)
	}
	route, err := e.ownedRoute(ctx, stop.RouteID, repID)
	if err != nil {
		return nil, nil, err
	}
	if route.Status != models.RouteInProgress {
		return nil, nil, &TransitionError{Entity: "route", Status: string(route.Status), Attempted: "work a stop on"}
	}
	return stop, route, nil
}

// ArriveStop marks arrival at a hospital. Valid only from pending while the
// route is in_progress.
func (e *Engine) ArriveStop(ctx context.Context, stopID, repID uint) (*models.RouteStop, error) {
	stop, route, err := e.stopOnActiveRoute(ctx, stopID, repID)
	if err != nil {
		return nil, err
	}
	if !stop.CanArrive() {
		return nil, &TransitionError{Entity: "stop", Status: string(stop.Status), Attempted: "arrive at"}
	}

	if e.cfg.StrictStopOrder {
		stops, err := e.store.StopsByRoute(ctx, route.ID)
		if err != nil {
			return nil, persist("load stops", err)
		}
		for i := range stops {
			if stops[i].StopOrder < stop.StopOrder && stops[i].Status != models.StopCollected {
				return nil, invalid("stop_order", "an earlier stop on this route has not been collected yet")
			}
		}
	}

	pos, err := e.gate.Require(ctx, repID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	stop.Status = models.StopArrived
	stop.ArrivedAt = &now
	stop.ArrivalLat = pos.Lat
	stop.ArrivalLng = pos.Lng
	if err := e.store.SaveStop(ctx, stop); err != nil {
		return nil, persist("arrive stop", err)
	}

	e.logEvent(ctx, route.ID, &stop.ID, models.EventArrivedHospital, pos, map[string]uint{"hospital_id": stop.HospitalID})
	return stop, nil
}

// RecordCollection writes the stop's one and only collection record,
// denormalizes the primary weight onto the stop and snapshots the printable
// receipt. All validation happens before anything is written.
func (e *Engine) RecordCollection(ctx context.Context, stopID, repID uint, in CollectionInput) (*models.CollectionRecord, error) {
	stop, route, err := e.stopOnActiveRoute(ctx, stopID, repID)
	if err != nil {
		return nil, err
	}
	if !stop.CanCollect() {
		return nil, &TransitionError{Entity: "stop", Status: string(stop.Status), Attempted: "record collection for"}
	}
	if stop.Collection != nil {
		return nil, invalid("collection", "a collection record already exists for this stop")
	}
	if err := validateCollection(in); err != nil {
		return nil, err
	}

	pos, err := e.gate.Require(ctx, repID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	rec := &models.CollectionRecord{
		RouteStopID:     stop.ID,
		WasteCategories: in.WasteCategories,
		BagsCount:       in.BagsCount,
		TotalWeight:     in.TotalWeight,
		SafetyBoxCount:  in.SafetyBoxCount,
		SafetyBoxWeight: in.SafetyBoxWeight,
		RepSignature:    in.RepSignature,
		ClientSignature: in.ClientSignature,
		Notes:           in.Notes,
		CollectedAt:     now,
		Lat:             pos.Lat,
		Lng:             pos.Lng,
	}
	if err := e.store.CreateCollection(ctx, rec); err != nil {
		return nil, persist("create collection", err)
	}

	stop.Collection = rec
	stop.WeightCollected = in.TotalWeight
	if in.ClientSignature != "" {
		stop.HospitalSignature = in.ClientSignature
	}
	if err := e.store.SaveStop(ctx, stop); err != nil {
		// The record is durable; the stop row will carry the weight after a
		// retry or the next aggregate recompute.
		return nil, persist("update stop after collection", err)
	}

	e.snapshotReceipt(ctx, route, stop, rec)

	e.logEvent(ctx, route.ID, &stop.ID, models.EventCollectionCompleted, pos, map[string]any{
		"bags_count":   rec.BagsCount,
		"total_weight": rec.TotalWeight,
	})
	if in.ClientSignature != "" || in.RepSignature != "" {
		e.logEvent(ctx, route.ID, &stop.ID, models.EventSignatureTaken, pos, nil)
	}
	return rec, nil
}

// DepartStop closes out a stop. Blocked until a collection record exists.
// Departure also refreshes the route's denormalized collected weight.
func (e *Engine) DepartStop(ctx context.Context, stopID, repID uint) (*models.RouteStop, error) {
	stop, route, err := e.stopOnActiveRoute(ctx, stopID, repID)
	if err != nil {
		return nil, err
	}
	if !stop.CanDepart() {
		return nil, &TransitionError{Entity: "stop", Status: string(stop.Status), Attempted: "depart"}
	}
	if stop.Collection == nil {
		return nil, invalid("collection", "must record collection before departure")
	}

	pos, err := e.gate.Require(ctx, repID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	stop.Status = models.StopCollected
	stop.DepartedAt = &now
	stop.DepartureLat = pos.Lat
	stop.DepartureLng = pos.Lng
	if err := e.store.SaveStop(ctx, stop); err != nil {
		return nil, persist("depart stop", err)
	}

	// Refresh the route aggregate from source rows. Failure here is not a
	// blocker: the value is a cache the ledger recomputes on read.
	if stops, err := e.store.StopsByRoute(ctx, route.ID); err == nil {
		var total float64
		for i := range stops {
			total += stops[i].WeightCollected
		}
		route.TotalWeightCollected = total
		if err := e.store.SaveRoute(ctx, route); err != nil {
			logrus.WithError(err).WithField("route_id", route.ID).Warn("route weight recompute not persisted")
		}
	}

	e.logEvent(ctx, route.ID, &stop.ID, models.EventDepartedHospital, pos, nil)
	return stop, nil
}

// AttachPhoto stores proof-of-collection imagery on a stop. A side channel:
// it never gates progression and is accepted any time before the stop is
// collected, even without a position fix.
func (e *Engine) AttachPhoto(ctx context.Context, stopID, repID uint, image string) (*models.RouteStop, error) {
	if strings.TrimSpace(image) == "" {
		return nil, invalid("photo", "an image payload is required")
	}
	stop, route, err := e.stopOnActiveRoute(ctx, stopID, repID)
	if err != nil {
		return nil, err
	}
	if stop.Status == models.StopCollected {
		return nil, &TransitionError{Entity: "stop", Status: string(stop.Status), Attempted: "attach a photo to"}
	}

	// Best effort only; photos upload from places with poor GPS.
	pos, _ := e.gate.Require(ctx, repID)

	stop.PhotoProof = image
	if err := e.store.SaveStop(ctx, stop); err != nil {
		return nil, persist("attach photo", err)
	}

	e.logEvent(ctx, route.ID, &stop.ID, models.EventPhotoUploaded, pos, nil)
	return stop, nil
}

func validateCollection(in CollectionInput) error {
	if in.BagsCount <= 0 {
		return invalid("bags_count", "must be a positive integer")
	}
	if in.TotalWeight <= 0 {
		return invalid("total_weight", "must be a positive weight in kg")
	}
	if len(in.WasteCategories) == 0 {
		return invalid("waste_categories", "at least one waste category is required")
	}
	for _, cat := range in.WasteCategories {
		switch cat {
		case models.WasteHazardous, models.WasteSharp, models.WastePharmaceutical:
		default:
			return invalid("waste_categories", "unknown waste category "+cat)
		}
	}
	if in.SafetyBoxCount < 0 || in.SafetyBoxWeight < 0 {
		return invalid("safety_box", "safety box figures cannot be negative")
	}
	if in.SafetyBoxCount > 0 && in.SafetyBoxWeight <= 0 {
		return invalid("safety_box_weight", "required when safety boxes are collected")
	}
	if in.SafetyBoxWeight > 0 && in.SafetyBoxCount == 0 {
		return invalid("safety_box_count", "required when safety box weight is reported")
	}
	return nil
}
