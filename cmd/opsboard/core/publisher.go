package core

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/airmesh/fleet-ops/pkg/geo"
	"github.com/airmesh/fleet-ops/pkg/logger"
	"github.com/airmesh/fleet-ops/pkg/models"
)

// Snapshot is the read view handed to the rendering consumer at the
// throttled cadence. Sections that did not change between publishes keep
// the previously published slice, so consumers can skip re-render work on
// reference identity alone.
type Snapshot struct {
	SessionID     uuid.UUID
	Drones        []models.Drone
	Routes        []models.Route
	Zones         []models.Zone
	NoFlyZones    []models.Zone
	Home          geo.Point
	FollowedDrone string
	// Degraded is set while the last sync cycle failed and the board is
	// running on its last good state.
	Degraded    bool
	GeneratedAt time.Time
}

// Publisher republishes store state to subscribers at a cadence coarser
// than the tick rate, suppressing publishes when nothing changed. It
// never mutates authoritative state. While the consumer is inactive it
// does no work at all.
type Publisher struct {
	store    *Store
	interval time.Duration
	log      *logger.Logger

	mu          sync.Mutex
	active      bool
	last        Snapshot
	hasLast     bool
	followed    string
	subscribers []func(Snapshot)
	collisions  []models.CollisionReport
	sessionID   uuid.UUID

	now func() time.Time
}

// maxRetainedCollisions bounds the recent collision report list.
const maxRetainedCollisions = 32

// NewPublisher creates a publisher over the store. interval is clamped up
// to tickInterval so the publish cadence is never finer than the
// simulation's.
func NewPublisher(store *Store, interval, tickInterval time.Duration) *Publisher {
	if interval < tickInterval {
		interval = tickInterval
	}
	return &Publisher{
		store:     store,
		interval:  interval,
		log:       logger.WithPrefix("publish"),
		sessionID: uuid.New(),
		now:       time.Now,
	}
}

// SetActive marks the rendering consumer mounted or unmounted. While
// inactive, firing timers perform no work.
func (p *Publisher) SetActive(active bool) {
	p.mu.Lock()
	p.active = active
	p.mu.Unlock()
}

// Active reports whether the rendering consumer is mounted.
func (p *Publisher) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// Subscribe registers a snapshot consumer. Callbacks run on the publish
// goroutine and must not block.
func (p *Publisher) Subscribe(fn func(Snapshot)) {
	p.mu.Lock()
	p.subscribers = append(p.subscribers, fn)
	p.mu.Unlock()
}

// SetFollowedDrone records which drone the operator is following. It is
// echoed into snapshots and has no effect on the simulation.
func (p *Publisher) SetFollowedDrone(id string) {
	p.mu.Lock()
	p.followed = id
	p.mu.Unlock()
}

// ReportCollision accepts a collision detected by the rendering consumer.
// The board only logs and retains it; it computes no collisions itself.
func (p *Publisher) ReportCollision(droneA, droneB string, separationMeters float64) models.CollisionReport {
	report := models.CollisionReport{
		ID:               uuid.New(),
		DroneA:           droneA,
		DroneB:           droneB,
		SeparationMeters: separationMeters,
		ReportedAt:       p.now(),
	}

	p.mu.Lock()
	p.collisions = append(p.collisions, report)
	if len(p.collisions) > maxRetainedCollisions {
		p.collisions = p.collisions[len(p.collisions)-maxRetainedCollisions:]
	}
	p.mu.Unlock()

	p.log.Warnf("collision reported between %s and %s at %.1fm separation", droneA, droneB, separationMeters)
	return report
}

// RecentCollisions returns a copy of the retained collision reports.
func (p *Publisher) RecentCollisions() []models.CollisionReport {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.CollisionReport, len(p.collisions))
	copy(out, p.collisions)
	return out
}

// Run fires at the publish cadence until the context is cancelled.
func (p *Publisher) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.Info("publisher stopped")
			return
		case <-ticker.C:
			if !p.Active() {
				continue
			}
			if snapshot, changed := p.PublishIfChanged(p.now()); changed {
				p.notify(snapshot)
			}
		}
	}
}

// PublishIfChanged builds a candidate snapshot and compares it section by
// section against the last published one: identity-bearing lists by
// id-order and content, the rest structurally. Unchanged sections keep the
// previously published reference. The boolean reports whether anything
// changed.
func (p *Publisher) PublishIfChanged(now time.Time) (Snapshot, bool) {
	drones := p.store.Drones()
	routes := p.store.Routes()
	zones := p.store.Zones()
	noFly := p.store.NoFlyZones()
	_, syncErr := p.store.SyncStatus()

	p.mu.Lock()
	defer p.mu.Unlock()

	changed := !p.hasLast

	if p.hasLast && dronesEqual(p.last.Drones, drones) {
		drones = p.last.Drones
	} else if p.hasLast {
		changed = true
	}
	if p.hasLast && routesSame(p.last.Routes, routes) {
		routes = p.last.Routes
	} else if p.hasLast {
		changed = true
	}
	if p.hasLast && zonesSame(p.last.Zones, zones) {
		zones = p.last.Zones
	} else if p.hasLast {
		changed = true
	}
	if p.hasLast && zonesSame(p.last.NoFlyZones, noFly) {
		noFly = p.last.NoFlyZones
	} else if p.hasLast {
		changed = true
	}

	degraded := syncErr != nil
	if p.hasLast && (p.last.FollowedDrone != p.followed || p.last.Degraded != degraded) {
		changed = true
	}

	if !changed {
		return p.last, false
	}

	p.last = Snapshot{
		SessionID:     p.sessionID,
		Drones:        drones,
		Routes:        routes,
		Zones:         zones,
		NoFlyZones:    noFly,
		Home:          p.store.Home(),
		FollowedDrone: p.followed,
		Degraded:      degraded,
		GeneratedAt:   now,
	}
	p.hasLast = true
	return p.last, true
}

func (p *Publisher) notify(snapshot Snapshot) {
	p.mu.Lock()
	subscribers := make([]func(Snapshot), len(p.subscribers))
	copy(subscribers, p.subscribers)
	p.mu.Unlock()

	for _, fn := range subscribers {
		fn(snapshot)
	}
}

// dronesEqual compares by identity list first, then content.
func dronesEqual(a, b []models.Drone) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// routesSame treats reference-identical slices as equal before falling
// back to content comparison; the store keeps route slices reference-
// stable across unchanged syncs.
func routesSame(a, b []models.Route) bool {
	if len(a) == len(b) && (len(a) == 0 || &a[0] == &b[0]) {
		return true
	}
	return routesEqual(a, b)
}

func zonesSame(a, b []models.Zone) bool {
	if len(a) == len(b) && (len(a) == 0 || &a[0] == &b[0]) {
		return true
	}
	return models.ZonesEqual(a, b)
}
