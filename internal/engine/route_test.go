package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"gorm.io/gorm"

	"medwaste_tracker/internal/location"
	"medwaste_tracker/internal/models"
)

func TestStartRoute(t *testing.T) {
	eng, store, _, rec := newTestEngine(Config{})
	seedRoute(store, models.RoutePending, models.StopPending)

	route, err := eng.StartRoute(context.Background(), 1, testRepID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if route.Status != models.RouteInProgress || route.StartedAt == nil {
		t.Errorf("route not started: %+v", route)
	}
	if n := rec.CountType(models.EventRouteStarted); n != 1 {
		t.Errorf("%d start events, want 1", n)
	}

	// Starting twice is rejected.
	if _, err := eng.StartRoute(context.Background(), 1, testRepID); err == nil {
		t.Error("second start accepted")
	}
}

func TestStartRouteBlockedWithoutLocation(t *testing.T) {
	eng, store, gate, rec := newTestEngine(Config{})
	seedRoute(store, models.RoutePending)
	gate.Err = location.ErrUnavailable

	_, err := eng.StartRoute(context.Background(), 1, testRepID)
	if !errors.Is(err, location.ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
	if got := store.Route(1).Status; got != models.RoutePending {
		t.Errorf("route status = %q after blocked start, want pending", got)
	}
	if len(rec.Events) != 0 {
		t.Error("events recorded for a blocked start")
	}
}

func TestStartRouteOwnershipEnforced(t *testing.T) {
	eng, store, _, _ := newTestEngine(Config{})
	seedRoute(store, models.RoutePending)

	_, err := eng.StartRoute(context.Background(), 1, testRepID+1)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError for foreign representative", err)
	}
}

func TestCompleteRouteRequiresDelivery(t *testing.T) {
	eng, store, _, _ := newTestEngine(Config{})
	seedCollectedRoute(store)

	_, err := eng.CompleteRoute(context.Background(), 1, testRepID, "")
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError without a delivery", err)
	}
	if got := store.Route(1).Status; got != models.RouteInProgress {
		t.Errorf("route status = %q, want still in_progress", got)
	}
}

func TestCompleteRouteReconciles(t *testing.T) {
	eng, store, _, rec := newTestEngine(Config{})
	seedCollectedRoute(store)
	store.AddDelivery(1, models.IncineratorDelivery{BagsCount: 15, WeightDelivered: 70.0, DeliveryOrder: 1})

	res, err := eng.CompleteRoute(context.Background(), 1, testRepID, "smooth run")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if res.Deficit {
		t.Error("fully delivered route flagged a deficit")
	}
	if res.Summary.RemainingBags != 0 || res.Summary.RemainingWeight != 0.0 {
		t.Errorf("remaining = %d / %v, want zero", res.Summary.RemainingBags, res.Summary.RemainingWeight)
	}

	route := store.Route(1)
	if route.Status != models.RouteCompleted || route.EndedAt == nil {
		t.Errorf("route not completed: %+v", route)
	}
	if route.RemainingBags != 0 || route.RemainingWeight != 0.0 {
		t.Errorf("persisted remainders = %d / %v, want zero", route.RemainingBags, route.RemainingWeight)
	}
	if route.FinalWeightAtIncinerator != 70.0 {
		t.Errorf("final weight = %v, want 70.0", route.FinalWeightAtIncinerator)
	}
	if !strings.Contains(route.Notes, "smooth run") {
		t.Errorf("notes %q lost completion note", route.Notes)
	}
	if n := rec.CountType(models.EventRouteCompleted); n != 1 {
		t.Errorf("%d completion events, want 1", n)
	}
}

func TestCompleteRouteSurfacesDeficitWithoutBlocking(t *testing.T) {
	eng, store, _, _ := newTestEngine(Config{})
	seedCollectedRoute(store)
	store.AddDelivery(1, models.IncineratorDelivery{BagsCount: 15, WeightDelivered: 60.0, DeliveryOrder: 1})

	res, err := eng.CompleteRoute(context.Background(), 1, testRepID, "")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !res.Deficit {
		t.Error("under-delivered route did not flag a deficit")
	}
	if res.Summary.RemainingWeight != 10.0 {
		t.Errorf("remaining weight = %v, want 10.0", res.Summary.RemainingWeight)
	}
	if got := store.Route(1).Status; got != models.RouteCompleted {
		t.Errorf("route status = %q, want completed despite the deficit", got)
	}
}

func TestCompleteRouteWithSafetyBoxes(t *testing.T) {
	eng, store, _, _ := newTestEngine(Config{})
	seedRoute(store, models.RouteInProgress, models.StopCollected, models.StopCollected)
	store.AddCollection(10, models.CollectionRecord{BagsCount: 10, TotalWeight: 50, SafetyBoxCount: 2, SafetyBoxWeight: 3.5})
	store.AddCollection(11, models.CollectionRecord{BagsCount: 5, TotalWeight: 20})
	store.AddDelivery(1, models.IncineratorDelivery{BagsCount: 15, WeightDelivered: 70.0, DeliveryOrder: 1})

	res, err := eng.CompleteRoute(context.Background(), 1, testRepID, "")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if res.Summary.GrandTotalCollectedWeight != 73.5 || res.Summary.GrandTotalDeliveredWeight != 73.5 {
		t.Errorf("grand totals = %v / %v, want 73.5 / 73.5",
			res.Summary.GrandTotalCollectedWeight, res.Summary.GrandTotalDeliveredWeight)
	}
	if res.Deficit {
		t.Error("safety-box weight must auto-count on the delivered side")
	}
}

func TestCancelRoute(t *testing.T) {
	eng, store, _, rec := newTestEngine(Config{})
	seedRoute(store, models.RouteInProgress)

	if _, err := eng.CancelRoute(context.Background(), 1, testRepID, "  "); err == nil {
		t.Fatal("cancel accepted without a reason")
	}

	route, err := eng.CancelRoute(context.Background(), 1, testRepID, "vehicle breakdown")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if route.Status != models.RouteCancelled {
		t.Errorf("status = %q, want cancelled", route.Status)
	}
	if !strings.Contains(route.Notes, "vehicle breakdown") {
		t.Errorf("notes %q missing reason", route.Notes)
	}
	if n := rec.CountType(models.EventRouteCancelled); n != 1 {
		t.Errorf("%d cancel events, want 1", n)
	}

	// Terminal: cannot cancel again.
	if _, err := eng.CancelRoute(context.Background(), 1, testRepID, "again"); err == nil {
		t.Error("cancelled route cancelled twice")
	}
}

func TestMaintenanceRouteBypassesWasteProtocol(t *testing.T) {
	eng, store, _, _ := newTestEngine(Config{})
	store.AddRoute(models.Route{
		Model:            gorm.Model{ID: 2},
		RepresentativeID: testRepID,
		RouteType:        models.RouteMaintenance,
		Status:           models.RoutePending,
	})
	ctx := context.Background()

	if _, err := eng.StartRoute(ctx, 2, testRepID); err != nil {
		t.Fatalf("start maintenance: %v", err)
	}
	if _, _, err := eng.RecordDelivery(ctx, 2, testRepID, DeliveryInput{}); err == nil {
		t.Error("maintenance route accepted a delivery")
	}
	res, err := eng.CompleteRoute(ctx, 2, testRepID, "")
	if err != nil {
		t.Fatalf("complete maintenance: %v", err)
	}
	if res.Deficit {
		t.Error("maintenance route participated in the ledger")
	}
	if got := store.Route(2).Status; got != models.RouteCompleted {
		t.Errorf("status = %q, want completed", got)
	}
}

func TestRouteSummaryRecomputesFromSource(t *testing.T) {
	eng, store, _, _ := newTestEngine(Config{})
	seedCollectedRoute(store)
	store.AddDelivery(1, models.IncineratorDelivery{BagsCount: 7, WeightDelivered: 30.0, DeliveryOrder: 1})

	s, err := eng.RouteSummary(context.Background(), 1)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if s.RemainingBags != 8 {
		t.Errorf("remaining bags = %d, want 8", s.RemainingBags)
	}
	if s.RemainingWeight != 40.0 {
		t.Errorf("remaining weight = %v, want 40.0", s.RemainingWeight)
	}
}
