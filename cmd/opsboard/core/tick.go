package core

import (
	"context"
	"time"

	"github.com/airmesh/fleet-ops/pkg/geo"
	"github.com/airmesh/fleet-ops/pkg/logger"
	"github.com/airmesh/fleet-ops/pkg/models"
)

// EngineConfig tunes the per-tick motion engine.
type EngineConfig struct {
	Interval time.Duration
	// SpeedMPS is the constant cruise speed drones are assumed to fly.
	SpeedMPS float64
	// DwellDuration is how long a drone hovers at the delivery point
	// before starting the return leg.
	DwellDuration time.Duration
	// BatteryFloor is the charge percentage under which the charging
	// override takes effect.
	BatteryFloor float64
}

// DefaultEngineConfig returns the reference tuning.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Interval:      time.Second,
		SpeedMPS:      25,
		DwellDuration: 10 * time.Second,
		BatteryFloor:  15,
	}
}

// Engine advances every drone's simulated position and lifecycle phase
// once per tick. It is the sole writer of simulated drone state. A tick
// never blocks: it reads the store, computes, writes, and returns.
type Engine struct {
	store *Store
	cfg   EngineConfig
	log   *logger.Logger

	// gate reports whether the rendering consumer is mounted; ticks are
	// skipped entirely while it is not, as a cost control.
	gate func() bool

	now func() time.Time
}

// NewEngine creates a tick engine over the store. gate may be nil, in
// which case the engine always runs.
func NewEngine(store *Store, cfg EngineConfig, gate func() bool) *Engine {
	if gate == nil {
		gate = func() bool { return true }
	}
	return &Engine{
		store: store,
		cfg:   cfg,
		log:   logger.WithPrefix("tick"),
		gate:  gate,
		now:   time.Now,
	}
}

// Run ticks until the context is cancelled.
func (e *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(e.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.log.Info("tick engine stopped")
			return
		case <-ticker.C:
			if !e.gate() {
				continue
			}
			e.Step(e.now())
		}
	}
}

// Step advances every known drone exactly once.
func (e *Engine) Step(now time.Time) {
	for _, drone := range e.store.Drones() {
		e.stepDrone(drone, now)
	}
}

func (e *Engine) stepDrone(drone models.Drone, now time.Time) {
	// Battery safeguard overrides all route-following: the drone lands at
	// its last known position and charges until the feed reports a
	// recovered level. An unreported battery must never trigger this.
	if drone.BatteryBelow(e.cfg.BatteryFloor) {
		pos := drone.Position
		if pos == (geo.Point{}) {
			pos = e.store.Home()
		}
		pos.AltMeters = 0

		if drone.Status != models.DroneStatusCharging {
			e.log.Warnf("drone %s battery %.0f%% below %.0f%%, forcing charge", drone.ID, *drone.Battery, e.cfg.BatteryFloor)
		}
		drone.Status = models.DroneStatusCharging
		drone.Position = pos
		e.store.UpdateDrone(drone)
		return
	}

	order, route, ok := e.store.ActiveAssignment(drone.ID)
	if !ok || !route.Usable() {
		return
	}

	state, exists := e.store.Phase(order.ID)
	if !exists {
		state = PhaseState{Phase: PhaseOutbound, StartedAt: now}
		e.log.Debugf("drone %s starting delivery for order %s", drone.ID, order.ID)
	}

	forward := geo.Segment(route.Waypoints)

	switch state.Phase {
	case PhaseOutbound:
		progress := e.progress(forward.Total(), state.StartedAt, now)
		drone.Position = geo.Interpolate(forward, progress)
		drone.Status = models.DroneStatusDelivering
		if progress >= 1 {
			state = PhaseState{Phase: PhaseDwell, StartedAt: now, DwellUntil: now.Add(e.cfg.DwellDuration)}
			e.log.Infof("drone %s reached delivery point for order %s", drone.ID, order.ID)
		}

	case PhaseDwell:
		drone.Position = route.Waypoints[len(route.Waypoints)-1]
		drone.Status = models.DroneStatusDelivering
		if !now.Before(state.DwellUntil) {
			state = PhaseState{Phase: PhaseReturn, StartedAt: now}
			e.log.Infof("drone %s returning from order %s", drone.ID, order.ID)
		}

	case PhaseReturn:
		reverse := geo.Segment(geo.Reverse(route.Waypoints))
		progress := e.progress(reverse.Total(), state.StartedAt, now)
		drone.Position = geo.Interpolate(reverse, progress)
		drone.Status = models.DroneStatusReturning
		if progress >= 1 {
			state = PhaseState{Phase: PhaseDone, StartedAt: now}
			e.log.Infof("drone %s completed cycle for order %s", drone.ID, order.ID)
		}

	case PhaseDone:
		drone.Position = route.Waypoints[0]
		drone.Status = models.DroneStatusIdle
	}

	e.store.SetPhase(order.ID, state)
	e.store.UpdateDrone(drone)
}

// progress is the fraction of a leg covered since startedAt at the
// configured speed, clamped to [0,1].
func (e *Engine) progress(totalMeters float64, startedAt, now time.Time) float64 {
	if totalMeters <= 0 || e.cfg.SpeedMPS <= 0 {
		return 1
	}
	travelTime := totalMeters / e.cfg.SpeedMPS
	p := now.Sub(startedAt).Seconds() / travelTime
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
