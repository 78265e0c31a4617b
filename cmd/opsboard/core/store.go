// Package core holds the live operations engine: the authoritative state
// store, the data sync loop, the per-tick motion engine, and the throttled
// publisher feeding the rendering consumer.
package core

import (
	"sort"
	"sync"
	"time"

	"github.com/airmesh/fleet-ops/pkg/geo"
	"github.com/airmesh/fleet-ops/pkg/models"
)

// Phase is a drone's progress through one delivery-and-return cycle.
type Phase string

const (
	PhaseOutbound Phase = "outbound"
	PhaseDwell    Phase = "dwell"
	PhaseReturn   Phase = "return"
	PhaseDone     Phase = "done"
)

// PhaseState tracks one active route's simulation lifecycle. Keyed by the
// route's (order's) id in the store; created the first tick a drone is
// observed following the route, dropped once the order leaves the active
// set.
type PhaseState struct {
	Phase      Phase
	StartedAt  time.Time
	DwellUntil time.Time
}

// Store is the single authoritative holder of orders, drones, routes,
// zones, and per-route phase state. The three loops run on goroutines, so
// all access goes through one mutex; within a sync cycle the whole state
// is swapped atomically so a tick never observes new orders with stale
// routes.
type Store struct {
	mu sync.Mutex

	orders map[string]models.Order
	drones map[string]models.Drone

	// routes and the zone lists are replaced only when their content
	// changes, so consumers holding a previous slice can use reference
	// identity to skip work.
	routes []models.Route
	zones  []models.Zone
	noFly  []models.Zone

	phases map[string]PhaseState

	home geo.Point

	lastSyncAt  time.Time
	lastSyncErr error
}

// NewStore creates an empty store anchored at the fleet's home position.
func NewStore(home geo.Point) *Store {
	return &Store{
		orders: make(map[string]models.Order),
		drones: make(map[string]models.Drone),
		phases: make(map[string]PhaseState),
		home:   home,
	}
}

// Home returns the designated home position.
func (s *Store) Home() geo.Point {
	return s.home
}

// ApplySync merges one complete polling cycle into the store. Orders and
// drones are replaced wholesale; routes and zones are replaced only when
// their content differs from the previous value. Drones currently driven
// by the tick engine (a live phase state exists for their order) keep
// their simulated position and status, adopting only the polled
// non-positional fields. Phase states whose order left the active set are
// dropped.
func (s *Store) ApplySync(orders []models.Order, drones []models.Drone, routes []models.Route, zones, noFly []models.Zone) {
	s.mu.Lock()
	defer s.mu.Unlock()

	newOrders := make(map[string]models.Order, len(orders))
	for _, o := range orders {
		newOrders[o.ID] = o
	}

	// Which drones are simulation-owned right now.
	simOwned := make(map[string]models.Drone)
	for id, o := range s.orders {
		if _, live := s.phases[id]; !live {
			continue
		}
		if d, ok := s.drones[o.DroneID]; ok {
			simOwned[o.DroneID] = d
		}
	}

	newDrones := make(map[string]models.Drone, len(drones))
	for _, d := range drones {
		if prev, ok := simOwned[d.ID]; ok {
			d.Position = prev.Position
			d.Status = prev.Status
		}
		newDrones[d.ID] = d
	}

	s.orders = newOrders
	s.drones = newDrones

	sort.Slice(routes, func(i, j int) bool { return routes[i].OrderID < routes[j].OrderID })
	if !routesEqual(s.routes, routes) {
		s.routes = routes
	}
	if !models.ZonesEqual(s.zones, zones) {
		s.zones = zones
	}
	if !models.ZonesEqual(s.noFly, noFly) {
		s.noFly = noFly
	}

	// Lazy phase cleanup: drop state for orders no longer active.
	for id := range s.phases {
		if o, ok := s.orders[id]; !ok || !o.Active() {
			delete(s.phases, id)
		}
	}

	s.lastSyncAt = time.Now()
	s.lastSyncErr = nil
}

func routesEqual(a, b []models.Route) bool {
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

// SetSyncError records a recoverable fetch failure. The last good state is
// preserved untouched.
func (s *Store) SetSyncError(err error) {
	s.mu.Lock()
	s.lastSyncErr = err
	s.mu.Unlock()
}

// SyncStatus returns the last sync time and the recoverable error flag.
func (s *Store) SyncStatus() (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSyncAt, s.lastSyncErr
}

// Drones returns a copy of all drones, sorted by id.
func (s *Store) Drones() []models.Drone {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Drone, 0, len(s.drones))
	for _, d := range s.drones {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Drone returns one drone by id.
func (s *Store) Drone(id string) (models.Drone, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drones[id]
	return d, ok
}

// UpdateDrone writes a drone's simulated status and position. This is the
// tick engine's sole mutation path.
func (s *Store) UpdateDrone(d models.Drone) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.drones[d.ID]; ok {
		s.drones[d.ID] = d
	}
}

// ActiveAssignment returns the active order assigned to the drone and its
// route, if both exist.
func (s *Store) ActiveAssignment(droneID string) (models.Order, models.Route, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.orders {
		if o.DroneID != droneID || !o.Active() {
			continue
		}
		for _, r := range s.routes {
			if r.OrderID == o.ID {
				return o, r, true
			}
		}
		return o, models.Route{}, false
	}
	return models.Order{}, models.Route{}, false
}

// ActiveOrders returns all orders currently in the active set.
func (s *Store) ActiveOrders() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Order
	for _, o := range s.orders {
		if o.Active() {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Phase returns the phase state for a route id.
func (s *Store) Phase(routeID string) (PhaseState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ps, ok := s.phases[routeID]
	return ps, ok
}

// SetPhase persists a route's phase state.
func (s *Store) SetPhase(routeID string, ps PhaseState) {
	s.mu.Lock()
	s.phases[routeID] = ps
	s.mu.Unlock()
}

// Routes returns the current route list. The returned slice is shared and
// must be treated as read-only; it stays reference-identical across syncs
// while route content is unchanged.
func (s *Store) Routes() []models.Route {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.routes
}

// Zones returns the operational zone list, shared and read-only.
func (s *Store) Zones() []models.Zone {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.zones
}

// NoFlyZones returns the no-fly zone list, shared and read-only.
func (s *Store) NoFlyZones() []models.Zone {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.noFly
}
