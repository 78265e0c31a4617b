package models

import (
	"time"

	"github.com/airmesh/fleet-ops/pkg/geo"
)

// DroneStatus is the operational status of a delivery drone.
type DroneStatus string

const (
	DroneStatusIdle       DroneStatus = "idle"
	DroneStatusDelivering DroneStatus = "delivering"
	DroneStatusReturning  DroneStatus = "returning"
	DroneStatusCharging   DroneStatus = "charging"
	DroneStatusOffline    DroneStatus = "offline"
	DroneStatusUnknown    DroneStatus = "unknown"
)

// ParseDroneStatus maps a wire status string onto a known status, falling
// back to unknown for anything unrecognized.
func ParseDroneStatus(s string) DroneStatus {
	switch DroneStatus(s) {
	case DroneStatusIdle, DroneStatusDelivering, DroneStatusReturning,
		DroneStatusCharging, DroneStatusOffline:
		return DroneStatus(s)
	default:
		return DroneStatusUnknown
	}
}

// Drone is a fleet vehicle as held in the authoritative store. Position and
// Status are owned by the tick engine while the drone follows a route;
// everything else is owned by the data sync loop.
type Drone struct {
	ID     string      `json:"id"`
	Serial string      `json:"serial"`
	Status DroneStatus `json:"status"`
	// Battery is a 0-100 charge percentage. Nil means the feed did not
	// report one; it must never be collapsed to zero.
	Battery  *float64  `json:"battery,omitempty"`
	Position geo.Point `json:"position"`
	LastSeen time.Time `json:"last_seen"`
}

// BatteryBelow reports whether a known battery level is under the given
// threshold. An unreported battery never triggers it.
func (d Drone) BatteryBelow(threshold float64) bool {
	return d.Battery != nil && *d.Battery < threshold
}

// Equal reports whether two drones carry identical content. Battery is
// compared by value, not by pointer.
func (d Drone) Equal(other Drone) bool {
	if d.ID != other.ID || d.Serial != other.Serial || d.Status != other.Status ||
		d.Position != other.Position || !d.LastSeen.Equal(other.LastSeen) {
		return false
	}
	if (d.Battery == nil) != (other.Battery == nil) {
		return false
	}
	return d.Battery == nil || *d.Battery == *other.Battery
}
