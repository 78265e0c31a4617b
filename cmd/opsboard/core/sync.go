package core

import (
	"context"
	_ "embed"
	"fmt"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/airmesh/fleet-ops/pkg/geo"
	"github.com/airmesh/fleet-ops/pkg/logger"
	"github.com/airmesh/fleet-ops/pkg/models"
)

// DispatchAPI is the slice of the dispatch client the sync loop needs.
type DispatchAPI interface {
	ListOrders(ctx context.Context) ([]models.OrderWire, error)
	ListDrones(ctx context.Context) ([]models.DroneWire, error)
	ListOperationalZones(ctx context.Context) ([]models.ZoneWire, error)
	ListNoFlyZones(ctx context.Context) ([]models.ZoneWire, error)
	GetRoute(ctx context.Context, orderID string) (*models.RouteWire, error)
}

//go:embed zones_fallback.yaml
var fallbackZonesYAML []byte

type fallbackZoneFile struct {
	OperationalZones []models.ZoneWire `yaml:"operational_zones"`
	NoFlyZones       []models.ZoneWire `yaml:"no_fly_zones"`
}

// Syncer polls the dispatch backend on a fixed interval and merges each
// complete cycle into the store. Fetch failures leave the last good state
// in place and surface only as a recoverable flag.
type Syncer struct {
	api      DispatchAPI
	store    *Store
	interval time.Duration
	log      *logger.Logger

	now func() time.Time
}

// NewSyncer creates a sync loop over the given client and store.
func NewSyncer(api DispatchAPI, store *Store, interval time.Duration) *Syncer {
	return &Syncer{
		api:      api,
		store:    store,
		interval: interval,
		log:      logger.WithPrefix("sync"),
		now:      time.Now,
	}
}

// Run polls until the context is cancelled. Errors are recoverable by
// design: the next interval retries.
func (s *Syncer) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("data sync stopped")
			return
		case <-ticker.C:
			if err := s.Sync(ctx); err != nil {
				s.log.Warnf("sync cycle failed, keeping last good state: %v", err)
			}
		}
	}
}

// Sync runs one complete polling cycle: orders, drones, and both zone
// lists concurrently, then a route per active order, then one atomic merge.
func (s *Syncer) Sync(ctx context.Context) error {
	var (
		wg         sync.WaitGroup
		orderWire  []models.OrderWire
		droneWire  []models.DroneWire
		opZoneWire []models.ZoneWire
		noFlyWire  []models.ZoneWire
		errs       [4]error
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		orderWire, errs[0] = s.api.ListOrders(ctx)
	}()
	go func() {
		defer wg.Done()
		droneWire, errs[1] = s.api.ListDrones(ctx)
	}()
	go func() {
		defer wg.Done()
		opZoneWire, errs[2] = s.api.ListOperationalZones(ctx)
	}()
	go func() {
		defer wg.Done()
		noFlyWire, errs[3] = s.api.ListNoFlyZones(ctx)
	}()
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			s.store.SetSyncError(err)
			return err
		}
	}

	home := s.store.Home()
	orders := MapOrders(orderWire)
	drones := MapDrones(droneWire, home, s.now())

	zones := MapZones(opZoneWire, models.ZoneTypeOperational)
	noFly := MapZones(noFlyWire, models.ZoneTypeNoFly)
	if len(zones) == 0 && len(noFly) == 0 {
		zones, noFly = s.loadFallbackZones()
	}

	routes, degraded := s.fetchRoutes(ctx, orders, drones, home)

	s.store.ApplySync(orders, drones, routes, zones, noFly)
	if degraded != nil {
		// The merge succeeded with synthesized routes; keep the advisory.
		s.store.SetSyncError(degraded)
	}
	return nil
}

// fetchRoutes resolves one route per active order. Absence is normal and
// answered with a synthesized fallback; a fetch failure also falls back
// but is reported as a recoverable advisory.
func (s *Syncer) fetchRoutes(ctx context.Context, orders []models.Order, drones []models.Drone, home geo.Point) ([]models.Route, error) {
	var routes []models.Route
	var firstErr error

	for _, o := range orders {
		if !o.Active() {
			continue
		}

		wire, err := s.api.GetRoute(ctx, o.ID)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("route fetch for order %s: %w", o.ID, err)
			}
			wire = nil
		}

		if wire != nil {
			if r := MapRoute(*wire); r.Usable() {
				// Route identity is the order id, even when the backend
				// omits or mislabels it.
				r.OrderID = o.ID
				routes = append(routes, r)
				continue
			}
		}

		routes = append(routes, BuildFallbackRoute(o, drones, home))
	}

	return routes, firstErr
}

// loadFallbackZones parses the embedded static zone definitions, used only
// when both zone endpoints come back empty.
func (s *Syncer) loadFallbackZones() ([]models.Zone, []models.Zone) {
	var file fallbackZoneFile
	if err := yaml.Unmarshal(fallbackZonesYAML, &file); err != nil {
		s.log.Errorf("failed to parse embedded fallback zones: %v", err)
		return nil, nil
	}

	s.log.Debug("zone endpoints empty, using static fallback definitions")
	return MapZones(file.OperationalZones, models.ZoneTypeOperational),
		MapZones(file.NoFlyZones, models.ZoneTypeNoFly)
}
