package geo

import (
	"math"
	"testing"
)

func TestDistanceKnownPoints(t *testing.T) {
	// One degree of longitude at the equator is roughly 111.19 km.
	a := Point{Lat: 0, Lon: 0}
	b := Point{Lat: 0, Lon: 1}

	d := Distance(a, b)
	if math.Abs(d-111195) > 200 {
		t.Errorf("Expected ~111195m for 1 degree at equator, got %.1f", d)
	}
}

func TestDistanceZero(t *testing.T) {
	p := Point{Lat: 40.7128, Lon: -74.0060}
	if d := Distance(p, p); d != 0 {
		t.Errorf("Expected zero distance for identical points, got %f", d)
	}
}

func TestSegmentDegeneratePaths(t *testing.T) {
	if p := Segment(nil); p.Usable() {
		t.Error("Empty path must not be usable")
	}
	if p := Segment([]Point{{Lat: 1, Lon: 1}}); p.Usable() {
		t.Error("Single-point path must not be usable")
	}
}

func TestSegmentRunningTotals(t *testing.T) {
	path := []Point{
		{Lat: 0, Lon: 0},
		{Lat: 0, Lon: 0.001},
		{Lat: 0, Lon: 0.003},
	}
	p := Segment(path)

	if !p.Usable() {
		t.Fatal("Expected usable profile")
	}
	if len(p.Lengths) != 2 {
		t.Fatalf("Expected 2 segments, got %d", len(p.Lengths))
	}
	// Second segment is twice as long as the first.
	if math.Abs(p.Lengths[1]-2*p.Lengths[0]) > 0.01 {
		t.Errorf("Expected segment 1 to be twice segment 0: %f vs %f", p.Lengths[1], p.Lengths[0])
	}
	if math.Abs(p.Total()-(p.Lengths[0]+p.Lengths[1])) > 1e-9 {
		t.Errorf("Cumulative total %f does not match segment sum", p.Total())
	}
}

func TestInterpolateEndpoints(t *testing.T) {
	path := []Point{
		{Lat: 0, Lon: 0, AltMeters: 50},
		{Lat: 0, Lon: 0.001, AltMeters: 50},
	}
	p := Segment(path)

	if got := Interpolate(p, 0); got != path[0] {
		t.Errorf("progress=0 must return first waypoint exactly, got %+v", got)
	}
	if got := Interpolate(p, 1.0); got != path[1] {
		t.Errorf("progress=1 must return last waypoint exactly, got %+v", got)
	}
	if got := Interpolate(p, 2.5); got != path[1] {
		t.Errorf("progress>1 must clamp to last waypoint, got %+v", got)
	}
}

func TestInterpolateMidpoint(t *testing.T) {
	path := []Point{
		{Lat: 0, Lon: 0, AltMeters: 40},
		{Lat: 0, Lon: 0.002, AltMeters: 60},
	}
	p := Segment(path)

	mid := Interpolate(p, 0.5)
	if math.Abs(mid.Lon-0.001) > 1e-9 {
		t.Errorf("Expected midpoint lon 0.001, got %f", mid.Lon)
	}
	if math.Abs(mid.Lat) > 1e-9 {
		t.Errorf("Expected midpoint lat 0, got %f", mid.Lat)
	}
	if math.Abs(mid.AltMeters-50) > 1e-9 {
		t.Errorf("Expected blended altitude 50, got %f", mid.AltMeters)
	}
}

func TestInterpolateMultiSegment(t *testing.T) {
	path := []Point{
		{Lat: 0, Lon: 0, AltMeters: 50},
		{Lat: 0, Lon: 0.001, AltMeters: 50},
		{Lat: 0, Lon: 0.003, AltMeters: 50},
	}
	p := Segment(path)

	// 75% of total distance lands halfway into the second segment.
	got := Interpolate(p, 0.75)
	if math.Abs(got.Lon-0.00225) > 1e-6 {
		t.Errorf("Expected lon 0.00225, got %f", got.Lon)
	}
}

func TestInterpolateAltitudeFloor(t *testing.T) {
	path := []Point{
		{Lat: 0, Lon: 0, AltMeters: 0},
		{Lat: 0, Lon: 0.001, AltMeters: 10},
	}
	p := Segment(path)

	got := Interpolate(p, 0.5)
	if got.AltMeters != MinClearanceMeters {
		t.Errorf("Expected altitude floored at %f, got %f", MinClearanceMeters, got.AltMeters)
	}
}

func TestReverse(t *testing.T) {
	path := []Point{{Lat: 1}, {Lat: 2}, {Lat: 3}}
	rev := Reverse(path)

	if rev[0].Lat != 3 || rev[2].Lat != 1 {
		t.Errorf("Unexpected reversed order: %+v", rev)
	}
	// Original slice untouched.
	if path[0].Lat != 1 {
		t.Error("Reverse must not mutate its input")
	}
}
