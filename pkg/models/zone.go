package models

import "github.com/airmesh/fleet-ops/pkg/geo"

// ZoneType distinguishes flyable operating areas from exclusion zones.
type ZoneType string

const (
	ZoneTypeOperational ZoneType = "operational"
	ZoneTypeNoFly       ZoneType = "no-fly"
)

// Zone is an airspace region consumed by the rendering layer for overlays.
// It is read-only to the simulation. Geometry is either a polygon or a
// center point with a radius.
type Zone struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Type         ZoneType    `json:"type"`
	Center       geo.Point   `json:"center,omitempty"`
	RadiusMeters float64     `json:"radius_meters,omitempty"`
	Polygon      []geo.Point `json:"polygon,omitempty"`
	MinAltMeters float64     `json:"min_alt_meters"`
	MaxAltMeters float64     `json:"max_alt_meters"`
}

// Equal reports whether two zones have identical content.
func (z Zone) Equal(other Zone) bool {
	if z.ID != other.ID || z.Name != other.Name || z.Type != other.Type ||
		z.Center != other.Center || z.RadiusMeters != other.RadiusMeters ||
		z.MinAltMeters != other.MinAltMeters || z.MaxAltMeters != other.MaxAltMeters {
		return false
	}
	if len(z.Polygon) != len(other.Polygon) {
		return false
	}
	for i := range z.Polygon {
		if z.Polygon[i] != other.Polygon[i] {
			return false
		}
	}
	return true
}

// ZonesEqual reports whether two zone lists carry the same ids in the same
// order with identical content.
func ZonesEqual(a, b []Zone) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
