package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"

	"medwaste_tracker/internal/location"
	"medwaste_tracker/internal/models"
)

const testRepID uint = 9

func newTestEngine(cfg Config) (*Engine, *MockStore, *MockGate, *MockRecorder) {
	store := NewMockStore()
	gate := &MockGate{Pos: location.Position{Lat: -1.2921, Lng: 36.8219, Timestamp: time.Now()}}
	rec := &MockRecorder{}
	return New(store, gate, rec, cfg), store, gate, rec
}

// seedRoute adds a collection route (ID 1) with one stop per status given
// (IDs 10, 11, ...) and an active incinerator (ID 5, 1.5 per kg).
func seedRoute(store *MockStore, status models.RouteStatus, stopStatuses ...models.StopStatus) {
	store.AddRoute(models.Route{
		Model:            gorm.Model{ID: 1},
		RepresentativeID: testRepID,
		IncineratorID:    5,
		RouteType:        models.RouteCollection,
		Status:           status,
	})
	for i, st := range stopStatuses {
		store.AddStop(models.RouteStop{
			Model:      gorm.Model{ID: uint(10 + i)},
			RouteID:    1,
			HospitalID: uint(100 + i),
			StopOrder:  i + 1,
			Status:     st,
		})
	}
	store.AddIncinerator(models.Incinerator{
		Model:     gorm.Model{ID: 5},
		Name:      "Central Incineration",
		CostPerKg: 1.5,
		Active:    true,
	})
}

func validCollection() CollectionInput {
	return CollectionInput{
		WasteCategories: []string{models.WasteHazardous},
		BagsCount:       10,
		TotalWeight:     50.0,
	}
}

func TestArriveStopBlockedWithoutLocationThenRetries(t *testing.T) {
	eng, store, gate, rec := newTestEngine(Config{})
	seedRoute(store, models.RouteInProgress, models.StopPending)
	ctx := context.Background()

	gate.Err = location.ErrUnavailable
	if _, err := eng.ArriveStop(ctx, 10, testRepID); !errors.Is(err, location.ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
	if got := store.Stop(10).Status; got != models.StopPending {
		t.Errorf("stop status = %q after blocked arrive, want pending", got)
	}
	if n := rec.CountType(models.EventArrivedHospital); n != 0 {
		t.Errorf("%d arrival events after blocked arrive, want 0", n)
	}

	gate.Err = nil
	stop, err := eng.ArriveStop(ctx, 10, testRepID)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if stop.Status != models.StopArrived || stop.ArrivedAt == nil {
		t.Errorf("stop not marked arrived: %+v", stop)
	}
	if n := rec.CountType(models.EventArrivedHospital); n != 1 {
		t.Errorf("%d arrival events, want exactly 1", n)
	}
}

func TestArriveStopOnlyFromPending(t *testing.T) {
	eng, store, _, _ := newTestEngine(Config{})
	seedRoute(store, models.RouteInProgress, models.StopArrived)

	_, err := eng.ArriveStop(context.Background(), 10, testRepID)
	var te *TransitionError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want TransitionError", err)
	}
}

func TestArriveStopNeedsRouteInProgress(t *testing.T) {
	eng, store, _, _ := newTestEngine(Config{})
	seedRoute(store, models.RoutePending, models.StopPending)

	_, err := eng.ArriveStop(context.Background(), 10, testRepID)
	var te *TransitionError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want TransitionError for pending route", err)
	}
}

func TestArriveStopStrictOrder(t *testing.T) {
	ctx := context.Background()

	strict, store, _, _ := newTestEngine(Config{StrictStopOrder: true})
	seedRoute(store, models.RouteInProgress, models.StopPending, models.StopPending)
	if _, err := strict.ArriveStop(ctx, 11, testRepID); err == nil {
		t.Fatal("strict mode allowed skipping ahead to stop 2")
	}

	loose, store2, _, _ := newTestEngine(Config{})
	seedRoute(store2, models.RouteInProgress, models.StopPending, models.StopPending)
	if _, err := loose.ArriveStop(ctx, 11, testRepID); err != nil {
		t.Fatalf("permissive mode rejected out-of-order arrival: %v", err)
	}
}

func TestRecordCollectionValidation(t *testing.T) {
	tests := []struct {
		name  string
		mutate func(*CollectionInput)
	}{
		{"zeroBags", func(in *CollectionInput) { in.BagsCount = 0 }},
		{"negativeBags", func(in *CollectionInput) { in.BagsCount = -3 }},
		{"zeroWeight", func(in *CollectionInput) { in.TotalWeight = 0 }},
		{"negativeWeight", func(in *CollectionInput) { in.TotalWeight = -1.5 }},
		{"noCategories", func(in *CollectionInput) { in.WasteCategories = nil }},
		{"unknownCategory", func(in *CollectionInput) { in.WasteCategories = []string{"radioactive"} }},
		{"boxesWithoutWeight", func(in *CollectionInput) { in.SafetyBoxCount = 2 }},
		{"boxWeightWithoutCount", func(in *CollectionInput) { in.SafetyBoxWeight = 3.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng, store, _, rec := newTestEngine(Config{})
			seedRoute(store, models.RouteInProgress, models.StopArrived)

			in := validCollection()
			tt.mutate(&in)

			_, err := eng.RecordCollection(context.Background(), 10, testRepID, in)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if store.CollectionCount() != 0 {
				t.Error("collection persisted despite failed validation")
			}
			if len(rec.Events) != 0 {
				t.Error("events recorded despite failed validation")
			}
		})
	}
}

func TestRecordCollectionWritesRecordAndReceipt(t *testing.T) {
	eng, store, _, rec := newTestEngine(Config{})
	seedRoute(store, models.RouteInProgress, models.StopArrived)

	in := validCollection()
	in.SafetyBoxCount = 2
	in.SafetyBoxWeight = 3.5
	in.ClientSignature = "data:image/png;base64,c2ln"

	record, err := eng.RecordCollection(context.Background(), 10, testRepID, in)
	if err != nil {
		t.Fatalf("record collection: %v", err)
	}
	if record.BagsCount != 10 || record.TotalWeight != 50.0 {
		t.Errorf("record = %d bags / %v kg, want 10 / 50.0", record.BagsCount, record.TotalWeight)
	}
	if got := store.Stop(10).WeightCollected; got != 50.0 {
		t.Errorf("denormalized stop weight = %v, want 50.0", got)
	}

	receipts := store.Receipts()
	if len(receipts) != 1 {
		t.Fatalf("%d receipts, want 1", len(receipts))
	}
	wantNo := ReceiptNumber(time.Now().Year(), 10)
	if receipts[0].ReceiptNumber != wantNo {
		t.Errorf("receipt number = %q, want %q", receipts[0].ReceiptNumber, wantNo)
	}
	if !strings.HasPrefix(receipts[0].ReceiptNumber, "EC-") {
		t.Errorf("receipt number %q missing EC- prefix", receipts[0].ReceiptNumber)
	}

	if n := rec.CountType(models.EventCollectionCompleted); n != 1 {
		t.Errorf("%d collection events, want 1", n)
	}
	if n := rec.CountType(models.EventSignatureTaken); n != 1 {
		t.Errorf("%d signature events, want 1", n)
	}
}

func TestRecordCollectionOnlyOnce(t *testing.T) {
	eng, store, _, _ := newTestEngine(Config{})
	seedRoute(store, models.RouteInProgress, models.StopArrived)
	store.AddCollection(10, models.CollectionRecord{BagsCount: 5, TotalWeight: 20})

	_, err := eng.RecordCollection(context.Background(), 10, testRepID, validCollection())
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError for duplicate collection", err)
	}
}

func TestDepartRequiresCollectionRecord(t *testing.T) {
	eng, store, _, rec := newTestEngine(Config{})
	seedRoute(store, models.RouteInProgress, models.StopArrived)

	_, err := eng.DepartStop(context.Background(), 10, testRepID)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if got := store.Stop(10).Status; got != models.StopArrived {
		t.Errorf("stop status = %q after blocked depart, want arrived", got)
	}
	if n := rec.CountType(models.EventDepartedHospital); n != 0 {
		t.Errorf("%d departure events, want 0", n)
	}
}

func TestDepartClosesStopAndRecomputesRouteWeight(t *testing.T) {
	eng, store, _, rec := newTestEngine(Config{})
	seedRoute(store, models.RouteInProgress, models.StopCollected, models.StopArrived)
	store.AddCollection(10, models.CollectionRecord{BagsCount: 10, TotalWeight: 50})
	store.AddCollection(11, models.CollectionRecord{BagsCount: 5, TotalWeight: 20})
	// Stop 10 already departed earlier with its weight denormalized.
	s := store.Stop(10)
	s.WeightCollected = 50
	store.AddStop(s)
	s2 := store.Stop(11)
	s2.WeightCollected = 20
	store.AddStop(s2)

	stop, err := eng.DepartStop(context.Background(), 11, testRepID)
	if err != nil {
		t.Fatalf("depart: %v", err)
	}
	if stop.Status != models.StopCollected || stop.DepartedAt == nil {
		t.Errorf("stop not closed out: %+v", stop)
	}
	if got := store.Route(1).TotalWeightCollected; got != 70.0 {
		t.Errorf("route total weight = %v, want 70.0", got)
	}
	if n := rec.CountType(models.EventDepartedHospital); n != 1 {
		t.Errorf("%d departure events, want 1", n)
	}
}

func TestAttachPhoto(t *testing.T) {
	eng, store, gate, rec := newTestEngine(Config{})
	seedRoute(store, models.RouteInProgress, models.StopArrived, models.StopCollected)

	// Photos attach even when no fix is available.
	gate.Err = location.ErrUnavailable
	if _, err := eng.AttachPhoto(context.Background(), 10, testRepID, "https://img/proof.jpg"); err != nil {
		t.Fatalf("attach photo without fix: %v", err)
	}
	if got := store.Stop(10).PhotoProof; got != "https://img/proof.jpg" {
		t.Errorf("photo proof = %q", got)
	}
	if n := rec.CountType(models.EventPhotoUploaded); n != 1 {
		t.Errorf("%d photo events, want 1", n)
	}

	// Terminal stops reject new photos.
	if _, err := eng.AttachPhoto(context.Background(), 11, testRepID, "x"); err == nil {
		t.Error("photo attached to a collected stop")
	}
}
