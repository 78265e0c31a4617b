package models

import "github.com/airmesh/fleet-ops/pkg/geo"

// Route is the delivery path for one order. Its identity is the order's id.
// A route is immutable once fetched or synthesized for a polling cycle; a
// new value for the same id may replace it on the next cycle.
type Route struct {
	OrderID   string      `json:"order_id"`
	Waypoints []geo.Point `json:"waypoints"`
	// Synthesized marks fallback routes built locally because the backend
	// had none for an active order.
	Synthesized bool `json:"synthesized,omitempty"`
}

// Usable reports whether the route has enough waypoints to follow.
func (r Route) Usable() bool {
	return len(r.Waypoints) >= 2
}

// Equal reports whether two routes have identical waypoint content.
func (r Route) Equal(other Route) bool {
	if r.OrderID != other.OrderID || r.Synthesized != other.Synthesized {
		return false
	}
	if len(r.Waypoints) != len(other.Waypoints) {
		return false
	}
	for i := range r.Waypoints {
		if r.Waypoints[i] != other.Waypoints[i] {
			return false
		}
	}
	return true
}
