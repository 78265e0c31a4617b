// Package geo provides the great-circle math and polyline interpolation
// used by the operations board to synthesize drone motion along routes.
package geo

import "math"

const (
	earthRadiusMeters = 6371000.0

	// MinClearanceMeters is the lowest altitude interpolation will report,
	// to avoid rendering drones clipping through the ground.
	MinClearanceMeters = 30.0
)

// Point is a geographic position with altitude in meters above ground.
type Point struct {
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	AltMeters float64 `json:"alt_meters"`
}

// Distance returns the haversine great-circle distance between a and b in meters.
// Altitude is ignored.
func Distance(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMeters * c
}

// PathProfile is the segment decomposition of a waypoint polyline.
type PathProfile struct {
	Waypoints []Point
	// Lengths[i] is the distance in meters of the segment from waypoint i
	// to waypoint i+1. Cumulative[i] is the running total up to and
	// including segment i.
	Lengths    []float64
	Cumulative []float64
}

// Segment decomposes path into per-segment distances. A path with fewer
// than 2 waypoints yields an unusable profile; callers must treat that as
// "no route".
func Segment(path []Point) PathProfile {
	if len(path) < 2 {
		return PathProfile{Waypoints: path}
	}

	profile := PathProfile{
		Waypoints:  path,
		Lengths:    make([]float64, len(path)-1),
		Cumulative: make([]float64, len(path)-1),
	}

	var running float64
	for i := 0; i < len(path)-1; i++ {
		d := Distance(path[i], path[i+1])
		profile.Lengths[i] = d
		running += d
		profile.Cumulative[i] = running
	}

	return profile
}

// Usable reports whether the profile describes a route a drone can follow.
func (p PathProfile) Usable() bool {
	return len(p.Waypoints) >= 2 && p.Total() > 0
}

// Total returns the full polyline length in meters.
func (p PathProfile) Total() float64 {
	if len(p.Cumulative) == 0 {
		return 0
	}
	return p.Cumulative[len(p.Cumulative)-1]
}

// Interpolate returns the position at the given fraction of the profile's
// total length. progress <= 0 returns the first waypoint, progress >= 1 the
// last, both exactly. Altitude is blended linearly within the containing
// segment and floored at MinClearanceMeters.
func Interpolate(p PathProfile, progress float64) Point {
	if !p.Usable() {
		if len(p.Waypoints) > 0 {
			return p.Waypoints[0]
		}
		return Point{}
	}

	if progress <= 0 {
		return p.Waypoints[0]
	}
	if progress >= 1 {
		return p.Waypoints[len(p.Waypoints)-1]
	}

	target := progress * p.Total()

	var before float64
	for i, segLen := range p.Lengths {
		if target > p.Cumulative[i] {
			before = p.Cumulative[i]
			continue
		}

		frac := 0.0
		if segLen > 0 {
			frac = (target - before) / segLen
		}

		a := p.Waypoints[i]
		b := p.Waypoints[i+1]
		return Point{
			Lat:       a.Lat + (b.Lat-a.Lat)*frac,
			Lon:       a.Lon + (b.Lon-a.Lon)*frac,
			AltMeters: math.Max(a.AltMeters+(b.AltMeters-a.AltMeters)*frac, MinClearanceMeters),
		}
	}

	return p.Waypoints[len(p.Waypoints)-1]
}

// Reverse returns a new slice with the waypoints in opposite order.
func Reverse(path []Point) []Point {
	out := make([]Point, len(path))
	for i, wp := range path {
		out[len(path)-1-i] = wp
	}
	return out
}
