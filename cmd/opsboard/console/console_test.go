package console

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/airmesh/fleet-ops/cmd/opsboard/core"
	"github.com/airmesh/fleet-ops/pkg/geo"
	"github.com/airmesh/fleet-ops/pkg/models"
)

func init() {
	color.NoColor = true
}

var home = geo.Point{Lat: 40.0444, Lon: -76.3062}

func floatPtr(v float64) *float64 { return &v }

func consoleFixture(t *testing.T) (*Console, *core.Publisher, *bytes.Buffer) {
	t.Helper()

	store := core.NewStore(home)
	pub := core.NewPublisher(store, 2*time.Second, time.Second)

	var buf bytes.Buffer
	return New(pub, &buf), pub, &buf
}

func snapshotFixture() core.Snapshot {
	return core.Snapshot{
		SessionID: uuid.New(),
		Drones: []models.Drone{
			{ID: "d1", Serial: "SN-1", Status: models.DroneStatusDelivering, Battery: floatPtr(72),
				Position: geo.Point{Lat: 40.05, Lon: -76.30, AltMeters: 60}},
			{ID: "d2", Serial: "SN-2", Status: models.DroneStatusIdle,
				Position: geo.Point{Lat: 40.10, Lon: -76.40}},
		},
		Zones: []models.Zone{
			{ID: "z1", Name: "Metro Delivery Area", Type: models.ZoneTypeOperational, RadiusMeters: 12000},
		},
		NoFlyZones: []models.Zone{
			{ID: "n1", Name: "Regional Airport", Type: models.ZoneTypeNoFly, RadiusMeters: 3000},
		},
		Home:        home,
		GeneratedAt: time.Now(),
	}
}

func TestRenderFleetTable(t *testing.T) {
	c, _, buf := consoleFixture(t)

	c.Render(snapshotFixture())
	out := buf.String()

	for _, want := range []string{"SN-1", "delivering", "72%", "SN-2", "idle"} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q:\n%s", want, out)
		}
	}
	// d2 reported no battery.
	if !strings.Contains(out, "--") {
		t.Errorf("Unknown battery must render as --, got:\n%s", out)
	}
}

func TestRenderZoneSections(t *testing.T) {
	c, _, buf := consoleFixture(t)
	snap := snapshotFixture()

	c.Render(snap)
	if out := buf.String(); !strings.Contains(out, "Metro Delivery Area") || !strings.Contains(out, "Regional Airport") {
		t.Fatalf("Zone sections missing:\n%s", out)
	}

	// Same slices again: the cached lines must still be drawn.
	buf.Reset()
	c.Render(snap)
	if out := buf.String(); !strings.Contains(out, "Metro Delivery Area") {
		t.Errorf("Cached zone section must still render:\n%s", out)
	}
}

func TestRenderDegradedAdvisory(t *testing.T) {
	c, _, buf := consoleFixture(t)
	snap := snapshotFixture()
	snap.Degraded = true

	c.Render(snap)
	if !strings.Contains(buf.String(), "sync degraded") {
		t.Errorf("Degraded snapshot must show the advisory:\n%s", buf.String())
	}
}

func TestRenderFollowedDroneDetail(t *testing.T) {
	c, _, buf := consoleFixture(t)
	snap := snapshotFixture()
	snap.FollowedDrone = "d1"

	c.Render(snap)
	if !strings.Contains(buf.String(), "following d1") {
		t.Errorf("Followed drone must get a detail line:\n%s", buf.String())
	}
}

func TestProximityReportLatchesPerIncursion(t *testing.T) {
	c, pub, _ := consoleFixture(t)

	snap := snapshotFixture()
	// Put the pair ~5m apart.
	snap.Drones[1].Position = geo.Point{Lat: snap.Drones[0].Position.Lat + 0.000045, Lon: snap.Drones[0].Position.Lon, AltMeters: 60}

	c.Render(snap)
	c.Render(snap)
	if n := len(pub.RecentCollisions()); n != 1 {
		t.Fatalf("Pair must be reported once per incursion, got %d reports", n)
	}

	// Separate, then close again: a new incursion, a new report.
	apart := snapshotFixture()
	c.Render(apart)
	c.Render(snap)
	if n := len(pub.RecentCollisions()); n != 2 {
		t.Errorf("Re-closing pair must report again, got %d reports", n)
	}
}
