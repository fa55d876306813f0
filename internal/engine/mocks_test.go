package engine

import (
	"context"
	"errors"
	"sort"

	"medwaste_tracker/internal/location"
	"medwaste_tracker/internal/models"
)

// MockStore is an in-memory Store for engine tests. Values are copied on
// read and write so a failed save never leaks partial mutations.
type MockStore struct {
	routes       map[uint]models.Route
	stops        map[uint]models.RouteStop
	collections  map[uint]models.CollectionRecord // keyed by stop ID
	deliveries   map[uint][]models.IncineratorDelivery
	incinerators map[uint]models.Incinerator
	receipts     []models.ReceiptSnapshot

	SaveRouteFunc        func(ctx context.Context, r *models.Route) error
	SaveStopFunc         func(ctx context.Context, s *models.RouteStop) error
	CreateCollectionFunc func(ctx context.Context, rec *models.CollectionRecord) error
	CreateDeliveryFunc   func(ctx context.Context, d *models.IncineratorDelivery, r *models.Route) error
	CreateReceiptFunc    func(ctx context.Context, r *models.ReceiptSnapshot) error
}

func NewMockStore() *MockStore {
	return &MockStore{
		routes:       make(map[uint]models.Route),
		stops:        make(map[uint]models.RouteStop),
		collections:  make(map[uint]models.CollectionRecord),
		deliveries:   make(map[uint][]models.IncineratorDelivery),
		incinerators: make(map[uint]models.Incinerator),
	}
}

func (m *MockStore) AddRoute(r models.Route)             { m.routes[r.ID] = r }
func (m *MockStore) AddStop(s models.RouteStop)          { m.stops[s.ID] = s }
func (m *MockStore) AddIncinerator(i models.Incinerator) { m.incinerators[i.ID] = i }
func (m *MockStore) AddCollection(stopID uint, rec models.CollectionRecord) {
	rec.RouteStopID = stopID
	m.collections[stopID] = rec
}
func (m *MockStore) AddDelivery(routeID uint, d models.IncineratorDelivery) {
	d.RouteID = routeID
	m.deliveries[routeID] = append(m.deliveries[routeID], d)
}

func (m *MockStore) Route(id uint) models.Route         { return m.routes[id] }
func (m *MockStore) Stop(id uint) models.RouteStop      { return m.stops[id] }
func (m *MockStore) Receipts() []models.ReceiptSnapshot { return m.receipts }
func (m *MockStore) CollectionCount() int               { return len(m.collections) }

func (m *MockStore) RouteByID(ctx context.Context, id uint) (*models.Route, error) {
	r, ok := m.routes[id]
	if !ok {
		return nil, errors.New("route not found")
	}
	return &r, nil
}

func (m *MockStore) SaveRoute(ctx context.Context, r *models.Route) error {
	if m.SaveRouteFunc != nil {
		return m.SaveRouteFunc(ctx, r)
	}
	m.routes[r.ID] = *r
	return nil
}

func (m *MockStore) StopByID(ctx context.Context, id uint) (*models.RouteStop, error) {
	s, ok := m.stops[id]
	if !ok {
		return nil, errors.New("stop not found")
	}
	if rec, ok := m.collections[id]; ok {
		s.Collection = &rec
	}
	return &s, nil
}

func (m *MockStore) SaveStop(ctx context.Context, s *models.RouteStop) error {
	if m.SaveStopFunc != nil {
		return m.SaveStopFunc(ctx, s)
	}
	saved := *s
	saved.Collection = nil
	m.stops[s.ID] = saved
	return nil
}

func (m *MockStore) StopsByRoute(ctx context.Context, routeID uint) ([]models.RouteStop, error) {
	var out []models.RouteStop
	for id, s := range m.stops {
		if s.RouteID != routeID {
			continue
		}
		if rec, ok := m.collections[id]; ok {
			s.Collection = &rec
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StopOrder < out[j].StopOrder })
	return out, nil
}

func (m *MockStore) CreateCollection(ctx context.Context, rec *models.CollectionRecord) error {
	if m.CreateCollectionFunc != nil {
		return m.CreateCollectionFunc(ctx, rec)
	}
	if _, exists := m.collections[rec.RouteStopID]; exists {
		return errors.New("duplicate collection record")
	}
	m.collections[rec.RouteStopID] = *rec
	return nil
}

func (m *MockStore) CreateReceipt(ctx context.Context, r *models.ReceiptSnapshot) error {
	if m.CreateReceiptFunc != nil {
		return m.CreateReceiptFunc(ctx, r)
	}
	m.receipts = append(m.receipts, *r)
	return nil
}

func (m *MockStore) DeliveriesByRoute(ctx context.Context, routeID uint) ([]models.IncineratorDelivery, error) {
	out := make([]models.IncineratorDelivery, len(m.deliveries[routeID]))
	copy(out, m.deliveries[routeID])
	return out, nil
}

func (m *MockStore) CreateDelivery(ctx context.Context, d *models.IncineratorDelivery, r *models.Route) error {
	if m.CreateDeliveryFunc != nil {
		return m.CreateDeliveryFunc(ctx, d, r)
	}
	m.deliveries[d.RouteID] = append(m.deliveries[d.RouteID], *d)
	m.routes[r.ID] = *r
	return nil
}

func (m *MockStore) IncineratorByID(ctx context.Context, id uint) (*models.Incinerator, error) {
	i, ok := m.incinerators[id]
	if !ok {
		return nil, errors.New("incinerator not found")
	}
	return &i, nil
}

// MockGate is a LocationGate whose availability tests flip at will.
type MockGate struct {
	Pos   location.Position
	Err   error
	Calls int
}

func (g *MockGate) Require(ctx context.Context, repID uint) (location.Position, error) {
	g.Calls++
	if g.Err != nil {
		return location.Position{}, g.Err
	}
	return g.Pos, nil
}

// MockRecorder collects tracking events.
type MockRecorder struct {
	Events     []models.TrackingLogEvent
	RecordFunc func(ctx context.Context, ev *models.TrackingLogEvent) error
}

func (r *MockRecorder) Record(ctx context.Context, ev *models.TrackingLogEvent) error {
	if r.RecordFunc != nil {
		return r.RecordFunc(ctx, ev)
	}
	r.Events = append(r.Events, *ev)
	return nil
}

// CountType returns how many recorded events have the given type.
func (r *MockRecorder) CountType(eventType string) int {
	n := 0
	for _, ev := range r.Events {
		if ev.EventType == eventType {
			n++
		}
	}
	return n
}
