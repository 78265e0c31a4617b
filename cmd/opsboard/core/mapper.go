package core

import (
	"time"

	"github.com/airmesh/fleet-ops/pkg/geo"
	"github.com/airmesh/fleet-ops/pkg/models"
)

// cruiseAltMeters is the altitude given to synthesized fallback waypoints.
const cruiseAltMeters = 60.0

// MapDrones converts wire drone records into domain drones. A drone with
// no reported position is placed at home; a missing battery stays nil.
func MapDrones(wire []models.DroneWire, home geo.Point, now time.Time) []models.Drone {
	out := make([]models.Drone, 0, len(wire))
	for _, w := range wire {
		d := models.Drone{
			ID:       w.ID,
			Serial:   w.SerialNumber,
			Status:   models.ParseDroneStatus(w.Status),
			Battery:  w.BatteryLevel,
			Position: home,
			LastSeen: now,
		}
		if w.Latitude != nil && w.Longitude != nil {
			d.Position = geo.Point{Lat: *w.Latitude, Lon: *w.Longitude}
			if w.AltitudeM != nil {
				d.Position.AltMeters = *w.AltitudeM
			}
		}
		out = append(out, d)
	}
	return out
}

// MapOrders converts wire order records into domain orders.
func MapOrders(wire []models.OrderWire) []models.Order {
	out := make([]models.Order, 0, len(wire))
	for _, w := range wire {
		o := models.Order{
			ID:      w.ID,
			Status:  models.ParseOrderStatus(w.Status),
			DroneID: w.AssignedDrone,
		}
		if w.DeliveryLatitude != nil && w.DeliveryLongitude != nil {
			o.DeliveryPosition = geo.Point{Lat: *w.DeliveryLatitude, Lon: *w.DeliveryLongitude}
		}
		if w.CreatedAt != "" {
			if ts, err := time.Parse(time.RFC3339, w.CreatedAt); err == nil {
				o.CreatedAt = ts
			}
		}
		out = append(out, o)
	}
	return out
}

// MapRoute converts a wire route into a domain route. Waypoints with no
// altitude get the cruise default.
func MapRoute(w models.RouteWire) models.Route {
	r := models.Route{OrderID: w.DeliveryOrder, Waypoints: make([]geo.Point, 0, len(w.Waypoints))}
	for _, wp := range w.Waypoints {
		p := geo.Point{Lat: wp.Latitude, Lon: wp.Longitude, AltMeters: cruiseAltMeters}
		if wp.AltitudeM != nil {
			p.AltMeters = *wp.AltitudeM
		}
		r.Waypoints = append(r.Waypoints, p)
	}
	return r
}

// MapZones converts wire zone records into domain zones of the given type.
func MapZones(wire []models.ZoneWire, zoneType models.ZoneType) []models.Zone {
	out := make([]models.Zone, 0, len(wire))
	for _, w := range wire {
		z := models.Zone{
			ID:   w.ID,
			Name: w.Name,
			Type: zoneType,
		}
		if w.CenterLat != nil && w.CenterLon != nil {
			z.Center = geo.Point{Lat: *w.CenterLat, Lon: *w.CenterLon}
		}
		if w.RadiusM != nil {
			z.RadiusMeters = *w.RadiusM
		}
		if w.MinAltM != nil {
			z.MinAltMeters = *w.MinAltM
		}
		if w.MaxAltM != nil {
			z.MaxAltMeters = *w.MaxAltM
		}
		for _, v := range w.Polygon {
			z.Polygon = append(z.Polygon, geo.Point{Lat: v.Latitude, Lon: v.Longitude})
		}
		out = append(out, z)
	}
	return out
}

// BuildFallbackRoute synthesizes a straight path for an active order that
// has no backend route, so the tick engine is never starved. The origin is
// the assigned drone's last known position when available, home otherwise;
// a midpoint at cruise altitude keeps the drone from flying at endpoint
// altitudes the whole way.
func BuildFallbackRoute(order models.Order, drones []models.Drone, home geo.Point) models.Route {
	origin := home
	for _, d := range drones {
		if d.ID == order.DroneID && d.Position != (geo.Point{}) {
			origin = d.Position
			break
		}
	}

	dest := order.DeliveryPosition
	mid := geo.Point{
		Lat:       (origin.Lat + dest.Lat) / 2,
		Lon:       (origin.Lon + dest.Lon) / 2,
		AltMeters: cruiseAltMeters,
	}

	origin.AltMeters = maxFloat(origin.AltMeters, geo.MinClearanceMeters)
	dest.AltMeters = maxFloat(dest.AltMeters, geo.MinClearanceMeters)

	return models.Route{
		OrderID:     order.ID,
		Waypoints:   []geo.Point{origin, mid, dest},
		Synthesized: true,
	}
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
