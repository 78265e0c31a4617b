package core

import (
	"testing"
	"time"

	"github.com/airmesh/fleet-ops/pkg/geo"
	"github.com/airmesh/fleet-ops/pkg/models"
)

func TestMapDronesMissingPositionDefaultsToHome(t *testing.T) {
	now := time.Now()
	wire := []models.DroneWire{{ID: "d1", SerialNumber: "SN-1", Status: "idle"}}

	drones := MapDrones(wire, testHome, now)

	if len(drones) != 1 {
		t.Fatalf("Expected 1 drone, got %d", len(drones))
	}
	if drones[0].Position != testHome {
		t.Errorf("Expected home position, got %+v", drones[0].Position)
	}
	if drones[0].Battery != nil {
		t.Error("Absent battery must stay unknown, not zero")
	}
	if !drones[0].LastSeen.Equal(now) {
		t.Errorf("LastSeen = %v, want %v", drones[0].LastSeen, now)
	}
}

func TestMapDronesKeepsReportedNumericFields(t *testing.T) {
	wire := []models.DroneWire{{
		ID:           "d1",
		Status:       "delivering",
		BatteryLevel: floatPtr(0), // a real reading of zero, not an absent one
		Latitude:     floatPtr(40.05),
		Longitude:    floatPtr(-76.30),
		AltitudeM:    floatPtr(55),
	}}

	d := MapDrones(wire, testHome, time.Now())[0]

	if d.Battery == nil || *d.Battery != 0 {
		t.Errorf("Battery = %v, want explicit 0", d.Battery)
	}
	want := geo.Point{Lat: 40.05, Lon: -76.30, AltMeters: 55}
	if d.Position != want {
		t.Errorf("Position = %+v, want %+v", d.Position, want)
	}
	if d.Status != models.DroneStatusDelivering {
		t.Errorf("Status = %s, want delivering", d.Status)
	}
}

func TestMapOrdersUnknownStatus(t *testing.T) {
	orders := MapOrders([]models.OrderWire{{ID: "7", Status: "exploded"}})
	if orders[0].Status != models.OrderStatusUnknown {
		t.Errorf("Status = %s, want unknown", orders[0].Status)
	}
	if orders[0].Active() {
		t.Error("Unknown status must not count as active")
	}
}

func TestMapRouteAltitudeDefault(t *testing.T) {
	r := MapRoute(models.RouteWire{
		DeliveryOrder: "7",
		Waypoints: []models.WaypointWire{
			{Latitude: 40.0, Longitude: -76.0},
			{Latitude: 40.1, Longitude: -76.1, AltitudeM: floatPtr(80)},
		},
	})

	if r.Waypoints[0].AltMeters != cruiseAltMeters {
		t.Errorf("Missing altitude must default to cruise, got %v", r.Waypoints[0].AltMeters)
	}
	if r.Waypoints[1].AltMeters != 80 {
		t.Errorf("Reported altitude must survive, got %v", r.Waypoints[1].AltMeters)
	}
	if r.Synthesized {
		t.Error("Mapped backend routes are not synthesized")
	}
}

func TestBuildFallbackRouteFromDronePosition(t *testing.T) {
	order := testOrder("7", "d1", models.OrderStatusAssigned)
	dronePos := geo.Point{Lat: 40.02, Lon: -76.28, AltMeters: 45}
	drones := []models.Drone{{ID: "d1", Position: dronePos}}

	r := BuildFallbackRoute(order, drones, testHome)

	if !r.Synthesized || len(r.Waypoints) != 3 {
		t.Fatalf("Expected 3-waypoint synthesized route, got %+v", r)
	}
	if r.Waypoints[0].Lat != dronePos.Lat || r.Waypoints[0].Lon != dronePos.Lon {
		t.Errorf("Origin must be the drone's last position, got %+v", r.Waypoints[0])
	}
	if r.Waypoints[1].AltMeters != cruiseAltMeters {
		t.Errorf("Midpoint must sit at cruise altitude, got %v", r.Waypoints[1].AltMeters)
	}
	last := r.Waypoints[2]
	if last.Lat != order.DeliveryPosition.Lat || last.Lon != order.DeliveryPosition.Lon {
		t.Errorf("Destination mismatch: %+v", last)
	}
}

func TestBuildFallbackRouteDefaultsToHome(t *testing.T) {
	order := testOrder("7", "d9", models.OrderStatusAssigned)

	// No drone record matches the assignment.
	r := BuildFallbackRoute(order, nil, testHome)

	if r.Waypoints[0].Lat != testHome.Lat || r.Waypoints[0].Lon != testHome.Lon {
		t.Errorf("Origin must fall back to home, got %+v", r.Waypoints[0])
	}
}

func TestBuildFallbackRouteEnforcesClearance(t *testing.T) {
	order := testOrder("7", "", models.OrderStatusAssigned)

	r := BuildFallbackRoute(order, nil, geo.Point{Lat: 40.0, Lon: -76.0})

	for i, wp := range r.Waypoints {
		if wp.AltMeters < geo.MinClearanceMeters {
			t.Errorf("Waypoint %d below minimum clearance: %v", i, wp.AltMeters)
		}
	}
}
