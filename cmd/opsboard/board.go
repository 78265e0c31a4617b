// Package opsboard is the live fleet operations board: it polls the
// dispatch backend, simulates drone motion along delivery routes, and
// publishes throttled snapshots to a terminal renderer.
package opsboard

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/airmesh/fleet-ops/cmd/opsboard/console"
	"github.com/airmesh/fleet-ops/cmd/opsboard/core"
	"github.com/airmesh/fleet-ops/pkg/client"
	"github.com/airmesh/fleet-ops/pkg/geo"
	"github.com/airmesh/fleet-ops/pkg/logger"
	"github.com/airmesh/fleet-ops/pkg/simulation"
)

// FleetOpsBoard wires the store, the sync loop, the tick engine, and the
// publisher together and runs them until stopped.
type FleetOpsBoard struct {
	config *Config

	mu       sync.Mutex
	stopChan chan struct{}
	stopped  bool
}

// NewFleetOpsBoard creates a new instance of the operations board.
func NewFleetOpsBoard() simulation.Simulation {
	return &FleetOpsBoard{stopChan: make(chan struct{})}
}

// Name returns the board's registry name.
func (b *FleetOpsBoard) Name() string {
	return "Fleet Operations Board"
}

// Description returns the board's one-line summary.
func (b *FleetOpsBoard) Description() string {
	return "Live delivery tracking board: polls dispatch state, simulates drone motion, renders the fleet"
}

// Configure validates and applies the provided parameters.
func (b *FleetOpsBoard) Configure(params map[string]interface{}) error {
	config, err := ValidateAndParse(params)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	b.config = config
	return nil
}

// Run executes the board against the dispatch backend until the context
// is cancelled or Stop is called.
func (b *FleetOpsBoard) Run(ctx context.Context, dispatch *client.Dispatch) error {
	if b.config == nil {
		return fmt.Errorf("board is not configured")
	}
	logger.SetLevel(logger.ParseLevel(b.config.LogLevel))

	home := geo.Point{Lat: b.config.HomeLat, Lon: b.config.HomeLon}
	store := core.NewStore(home)
	syncer := core.NewSyncer(dispatch, store, b.config.SyncInterval)
	pub := core.NewPublisher(store, b.config.PublishInterval, b.config.TickInterval)
	engine := core.NewEngine(store, core.EngineConfig{
		Interval:      b.config.TickInterval,
		SpeedMPS:      b.config.SpeedMPS,
		DwellDuration: b.config.DwellDuration,
		BatteryFloor:  b.config.BatteryFloor,
	}, pub.Active)

	// Prime the board before the loops start so the first render is not
	// an empty frame. A failed first cycle is recoverable like any other.
	if err := syncer.Sync(ctx); err != nil {
		logger.Warnf("initial sync failed, starting from empty state: %v", err)
	}

	if b.config.Headless {
		pub.Subscribe(func(s core.Snapshot) {
			logger.Infof("fleet snapshot: %d drones, %d routes, degraded=%v", len(s.Drones), len(s.Routes), s.Degraded)
		})
	} else {
		console.New(pub, os.Stdout)
	}
	pub.SetActive(true)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(3)
	go func() { defer wg.Done(); syncer.Run(runCtx) }()
	go func() { defer wg.Done(); engine.Run(runCtx) }()
	go func() { defer wg.Done(); pub.Run(runCtx) }()

	logger.Successf("%s started: sync %s, tick %s, publish %s",
		b.Name(), b.config.SyncInterval, b.config.TickInterval, b.config.PublishInterval)

	select {
	case <-ctx.Done():
	case <-b.stopChan:
		logger.Info("Board stopped by user")
	}

	// Unmount before tearing the loops down so a firing timer does no
	// further work.
	pub.SetActive(false)
	cancel()
	wg.Wait()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	return nil
}

// Stop gracefully shuts the board down.
func (b *FleetOpsBoard) Stop() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.stopped {
		b.stopped = true
		close(b.stopChan)
	}
	return nil
}

func init() {
	if err := simulation.DefaultRegistry.Register("Fleet Operations Board", NewFleetOpsBoard); err != nil {
		fmt.Printf("Failed to register Fleet Operations Board: %v\n", err)
	}
}
