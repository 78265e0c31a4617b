package core

import (
	"context"
	"errors"
	"testing"

	"github.com/airmesh/fleet-ops/pkg/models"
)

var errBoom = errors.New("dispatch unavailable")

// fakeDispatch is a scriptable DispatchAPI for sync tests.
type fakeDispatch struct {
	orders    []models.OrderWire
	drones    []models.DroneWire
	opZones   []models.ZoneWire
	noFly     []models.ZoneWire
	routes    map[string]*models.RouteWire
	ordersErr error
	routeErr  error
}

func (f *fakeDispatch) ListOrders(context.Context) ([]models.OrderWire, error) {
	return f.orders, f.ordersErr
}
func (f *fakeDispatch) ListDrones(context.Context) ([]models.DroneWire, error) {
	return f.drones, nil
}
func (f *fakeDispatch) ListOperationalZones(context.Context) ([]models.ZoneWire, error) {
	return f.opZones, nil
}
func (f *fakeDispatch) ListNoFlyZones(context.Context) ([]models.ZoneWire, error) {
	return f.noFly, nil
}
func (f *fakeDispatch) GetRoute(_ context.Context, orderID string) (*models.RouteWire, error) {
	if f.routeErr != nil {
		return nil, f.routeErr
	}
	return f.routes[orderID], nil
}

func activeOrderWire(id, droneID string) models.OrderWire {
	lat, lon := 40.05, -76.30
	return models.OrderWire{
		ID:                id,
		Status:            "assigned",
		AssignedDrone:     droneID,
		DeliveryLatitude:  &lat,
		DeliveryLongitude: &lon,
	}
}

func TestSyncMergesCompletePayload(t *testing.T) {
	alt := 50.0
	f := &fakeDispatch{
		orders: []models.OrderWire{activeOrderWire("7", "d1")},
		drones: []models.DroneWire{{ID: "d1", SerialNumber: "SN-1", Status: "idle"}},
		opZones: []models.ZoneWire{
			{ID: "z1", Name: "Metro", CenterLat: floatPtr(40.04), CenterLon: floatPtr(-76.30), RadiusM: floatPtr(12000)},
		},
		routes: map[string]*models.RouteWire{
			"7": {DeliveryOrder: "7", Waypoints: []models.WaypointWire{
				{Latitude: 40.0444, Longitude: -76.3062, AltitudeM: &alt},
				{Latitude: 40.05, Longitude: -76.30, AltitudeM: &alt},
			}},
		},
	}

	s := NewStore(testHome)
	syncer := NewSyncer(f, s, 0)

	if err := syncer.Sync(context.Background()); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}

	if _, route, ok := s.ActiveAssignment("d1"); !ok || !route.Usable() {
		t.Fatal("Expected a usable route for the active assignment")
	}
	if route := s.Routes()[0]; route.Synthesized {
		t.Error("Backend route must not be marked synthesized")
	}
	if len(s.Zones()) != 1 || s.Zones()[0].Type != models.ZoneTypeOperational {
		t.Errorf("Unexpected zones: %+v", s.Zones())
	}
	if _, err := s.SyncStatus(); err != nil {
		t.Errorf("Clean cycle must not leave an error flag: %v", err)
	}
}

func TestSyncSynthesizesMissingRoute(t *testing.T) {
	f := &fakeDispatch{
		orders: []models.OrderWire{activeOrderWire("7", "d1")},
		drones: []models.DroneWire{{ID: "d1", Status: "idle"}},
		routes: map[string]*models.RouteWire{},
	}

	s := NewStore(testHome)
	if err := NewSyncer(f, s, 0).Sync(context.Background()); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}

	routes := s.Routes()
	if len(routes) != 1 {
		t.Fatalf("Expected one synthesized route, got %d", len(routes))
	}
	if !routes[0].Synthesized || !routes[0].Usable() {
		t.Errorf("Expected usable synthesized route, got %+v", routes[0])
	}
	// No prior drone position on the wire: origin is the home default.
	if routes[0].Waypoints[0].Lat != testHome.Lat || routes[0].Waypoints[0].Lon != testHome.Lon {
		t.Errorf("Fallback route must start at home, got %+v", routes[0].Waypoints[0])
	}
	if _, err := s.SyncStatus(); err != nil {
		t.Errorf("Route absence is normal, not an error: %v", err)
	}
}

func TestSyncFetchFailurePreservesState(t *testing.T) {
	good := &fakeDispatch{
		orders: []models.OrderWire{activeOrderWire("7", "d1")},
		drones: []models.DroneWire{{ID: "d1", Status: "idle"}},
		routes: map[string]*models.RouteWire{},
	}
	s := NewStore(testHome)
	if err := NewSyncer(good, s, 0).Sync(context.Background()); err != nil {
		t.Fatalf("Priming sync failed: %v", err)
	}
	dronesBefore := s.Drones()

	bad := &fakeDispatch{ordersErr: errBoom}
	if err := NewSyncer(bad, s, 0).Sync(context.Background()); err == nil {
		t.Fatal("Expected error from failing cycle")
	}

	if len(s.Drones()) != len(dronesBefore) {
		t.Error("Failed cycle must preserve the last good state")
	}
	if _, err := s.SyncStatus(); err == nil {
		t.Error("Failed cycle must set the recoverable flag")
	}
}

func TestSyncRouteFetchErrorFallsBack(t *testing.T) {
	f := &fakeDispatch{
		orders:   []models.OrderWire{activeOrderWire("7", "d1")},
		drones:   []models.DroneWire{{ID: "d1", Status: "idle"}},
		routeErr: errBoom,
	}

	s := NewStore(testHome)
	if err := NewSyncer(f, s, 0).Sync(context.Background()); err != nil {
		t.Fatalf("Sync must survive route fetch errors: %v", err)
	}

	if len(s.Routes()) != 1 || !s.Routes()[0].Synthesized {
		t.Fatal("Route fetch failure must still yield a synthesized route")
	}
	if _, err := s.SyncStatus(); err == nil {
		t.Error("Route fetch failure must surface as a recoverable advisory")
	}
}

func TestSyncZoneFallbackFile(t *testing.T) {
	f := &fakeDispatch{
		drones: []models.DroneWire{{ID: "d1", Status: "idle"}},
	}

	s := NewStore(testHome)
	if err := NewSyncer(f, s, 0).Sync(context.Background()); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}

	if len(s.Zones()) == 0 || len(s.NoFlyZones()) == 0 {
		t.Fatal("Empty zone endpoints must fall back to the static definitions")
	}
	if s.NoFlyZones()[0].Type != models.ZoneTypeNoFly {
		t.Errorf("Fallback no-fly zones must be typed no-fly, got %s", s.NoFlyZones()[0].Type)
	}
}

func TestSyncZoneFallbackSkippedWhenBackendHasZones(t *testing.T) {
	f := &fakeDispatch{
		drones:  []models.DroneWire{{ID: "d1", Status: "idle"}},
		opZones: []models.ZoneWire{{ID: "z1", Name: "Metro"}},
	}

	s := NewStore(testHome)
	if err := NewSyncer(f, s, 0).Sync(context.Background()); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}

	if len(s.Zones()) != 1 || s.Zones()[0].ID != "z1" {
		t.Errorf("Backend zones must win over the fallback file: %+v", s.Zones())
	}
	if len(s.NoFlyZones()) != 0 {
		t.Error("Fallback must not fire when either endpoint returned zones")
	}
}
