package ledger

import (
	"testing"

	"medwaste_tracker/internal/models"
)

func stopWith(bags int, weight float64, boxes int, boxWeight float64) models.RouteStop {
	return models.RouteStop{
		Status: models.StopCollected,
		Collection: &models.CollectionRecord{
			BagsCount:       bags,
			TotalWeight:     weight,
			SafetyBoxCount:  boxes,
			SafetyBoxWeight: boxWeight,
		},
	}
}

func TestTotalsFullDeliveryReconciles(t *testing.T) {
	stops := []models.RouteStop{
		stopWith(10, 50.0, 0, 0),
		stopWith(5, 20.0, 0, 0),
	}
	deliveries := []models.IncineratorDelivery{
		{BagsCount: 15, WeightDelivered: 70.0},
	}

	s := Totals(stops, deliveries)

	if s.CollectedBags != 15 {
		t.Errorf("collected bags = %d, want 15", s.CollectedBags)
	}
	if s.GrandTotalCollectedWeight != 70.0 {
		t.Errorf("grand collected = %v, want 70.0", s.GrandTotalCollectedWeight)
	}
	if s.RemainingBags != 0 {
		t.Errorf("remaining bags = %d, want 0", s.RemainingBags)
	}
	if s.RemainingWeight != 0.0 {
		t.Errorf("remaining weight = %v, want 0.0", s.RemainingWeight)
	}
	if s.Deficit() {
		t.Error("fully delivered route reported a deficit")
	}
}

func TestTotalsSafetyBoxesRideWithPrimaryLoad(t *testing.T) {
	stops := []models.RouteStop{
		stopWith(10, 50.0, 2, 3.5),
		stopWith(5, 20.0, 0, 0),
	}
	// Delivery records primary weight only; safety boxes travel with it.
	deliveries := []models.IncineratorDelivery{
		{BagsCount: 15, WeightDelivered: 70.0},
	}

	s := Totals(stops, deliveries)

	if s.GrandTotalCollectedWeight != 73.5 {
		t.Errorf("grand collected = %v, want 73.5", s.GrandTotalCollectedWeight)
	}
	if s.GrandTotalDeliveredWeight != 73.5 {
		t.Errorf("grand delivered = %v, want 73.5", s.GrandTotalDeliveredWeight)
	}
	if s.RemainingWeight != 0.0 {
		t.Errorf("remaining weight = %v, want 0.0", s.RemainingWeight)
	}
	if s.Deficit() {
		t.Error("safety boxes should auto-count on the delivered side")
	}
}

func TestTotalsUnderDeliveryLeavesDeficit(t *testing.T) {
	stops := []models.RouteStop{
		stopWith(10, 50.0, 0, 0),
		stopWith(5, 20.0, 0, 0),
	}
	deliveries := []models.IncineratorDelivery{
		{BagsCount: 15, WeightDelivered: 60.0},
	}

	s := Totals(stops, deliveries)

	if s.RemainingWeight != 10.0 {
		t.Errorf("remaining weight = %v, want 10.0", s.RemainingWeight)
	}
	if !s.Deficit() {
		t.Error("under-delivered route must report a deficit")
	}
}

func TestTotalsNoDeliveriesCountsNothingDelivered(t *testing.T) {
	stops := []models.RouteStop{stopWith(4, 12.0, 1, 2.0)}

	s := Totals(stops, nil)

	if s.GrandTotalDeliveredWeight != 0 {
		t.Errorf("grand delivered = %v, want 0 before any delivery", s.GrandTotalDeliveredWeight)
	}
	if s.RemainingBags != 4 || s.RemainingWeight != 14.0 {
		t.Errorf("remaining = %d bags / %v kg, want 4 / 14.0", s.RemainingBags, s.RemainingWeight)
	}
}

func TestTotalsIgnoresStopsWithoutCollection(t *testing.T) {
	stops := []models.RouteStop{
		stopWith(10, 50.0, 0, 0),
		{Status: models.StopPending},
	}

	s := Totals(stops, nil)

	if s.CollectedBags != 10 || s.CollectedPrimaryWeight != 50.0 {
		t.Errorf("got %d bags / %v kg, want 10 / 50.0", s.CollectedBags, s.CollectedPrimaryWeight)
	}
}

func TestTotalsMultiDropAccumulates(t *testing.T) {
	stops := []models.RouteStop{
		stopWith(10, 50.0, 2, 3.5),
		stopWith(5, 20.0, 0, 0),
	}
	deliveries := []models.IncineratorDelivery{
		{BagsCount: 9, WeightDelivered: 40.0, DeliveryOrder: 1},
		{BagsCount: 6, WeightDelivered: 30.0, DeliveryOrder: 2},
	}

	s := Totals(stops, deliveries)

	if s.DeliveredBags != 15 || s.DeliveredPrimaryWeight != 70.0 {
		t.Errorf("delivered = %d bags / %v kg, want 15 / 70.0", s.DeliveredBags, s.DeliveredPrimaryWeight)
	}
	if s.RemainingWeight != 0.0 || s.Deficit() {
		t.Errorf("multi-drop covering the load should reconcile, remaining %v", s.RemainingWeight)
	}
}

func TestTotalsRoundsFloatResidue(t *testing.T) {
	stops := []models.RouteStop{
		stopWith(1, 0.1, 0, 0),
		stopWith(1, 0.2, 0, 0),
	}
	deliveries := []models.IncineratorDelivery{
		{BagsCount: 2, WeightDelivered: 0.3},
	}

	s := Totals(stops, deliveries)

	if s.RemainingWeight != 0.0 {
		t.Errorf("remaining weight = %v, want exactly 0.0 after rounding", s.RemainingWeight)
	}
	if s.Deficit() {
		t.Error("float residue must not register as a deficit")
	}
}
