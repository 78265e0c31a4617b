// Package console renders published fleet snapshots as a live terminal
// board. It is a pure consumer: it subscribes to the publisher, draws what
// it is handed, and pushes operator actions (follow selection, collision
// reports) back through the publisher's side channels.
package console

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/airmesh/fleet-ops/cmd/opsboard/core"
	"github.com/airmesh/fleet-ops/pkg/geo"
	"github.com/airmesh/fleet-ops/pkg/logger"
	"github.com/airmesh/fleet-ops/pkg/models"
)

// collisionThresholdMeters is the separation below which two airborne
// drones are reported as a collision risk.
const collisionThresholdMeters = 10.0

var (
	colorIdle       = color.New(color.FgHiBlack)
	colorDelivering = color.New(color.FgCyan)
	colorReturning  = color.New(color.FgBlue)
	colorCharging   = color.New(color.FgYellow)
	colorOffline    = color.New(color.FgRed)
	colorDegraded   = color.New(color.FgYellow, color.Bold)
	colorAlert      = color.New(color.FgRed, color.Bold)
	colorFollow     = color.New(color.FgGreen, color.Bold)
)

// Console draws snapshots to a terminal writer. Zone sections are
// re-rendered only when the publisher hands over a new slice; the
// publisher keeps unchanged sections reference-identical.
type Console struct {
	pub *core.Publisher
	out io.Writer
	log *logger.Logger

	mu        sync.Mutex
	lastZones []models.Zone
	lastNoFly []models.Zone
	zoneLines []string
	reported  map[string]bool
}

// New creates a console bound to the publisher's snapshot stream.
func New(pub *core.Publisher, out io.Writer) *Console {
	c := &Console{
		pub:      pub,
		out:      out,
		log:      logger.WithPrefix("console"),
		reported: make(map[string]bool),
	}
	pub.Subscribe(c.Render)
	return c
}

// FollowDrone selects the drone whose detail line the board expands. An
// empty id clears the selection.
func (c *Console) FollowDrone(id string) {
	c.pub.SetFollowedDrone(id)
}

// Render draws one snapshot. It runs on the publish goroutine and never
// touches authoritative state.
func (c *Console) Render(snapshot core.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var b strings.Builder

	fmt.Fprintf(&b, "Fleet Operations  session %s  %s\n",
		snapshot.SessionID.String()[:8], snapshot.GeneratedAt.Format("15:04:05"))
	if snapshot.Degraded {
		fmt.Fprintf(&b, "%s\n", colorDegraded.Sprint("⚠ dispatch sync degraded, showing last good state"))
	}

	c.renderFleet(&b, snapshot)
	c.renderZones(&b, snapshot)
	c.checkProximity(snapshot)

	for _, report := range c.pub.RecentCollisions() {
		fmt.Fprintf(&b, "%s\n", colorAlert.Sprintf("✗ collision risk %s / %s at %.1fm (%s)",
			report.DroneA, report.DroneB, report.SeparationMeters, report.ReportedAt.Format("15:04:05")))
	}

	fmt.Fprint(c.out, b.String())
}

func (c *Console) renderFleet(b *strings.Builder, snapshot core.Snapshot) {
	w := tabwriter.NewWriter(b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSERIAL\tSTATUS\tBATTERY\tLAT\tLON\tALT")
	for _, d := range snapshot.Drones {
		marker := ""
		if d.ID == snapshot.FollowedDrone {
			marker = colorFollow.Sprint(" ◀")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.5f\t%.5f\t%.0fm%s\n",
			d.ID, d.Serial, statusColor(d.Status).Sprint(string(d.Status)),
			batteryLabel(d.Battery), d.Position.Lat, d.Position.Lon, d.Position.AltMeters, marker)
	}
	w.Flush()

	if snapshot.FollowedDrone != "" {
		if d, ok := findDrone(snapshot.Drones, snapshot.FollowedDrone); ok {
			fmt.Fprintf(b, "following %s: %.1fm from home\n",
				d.ID, geo.Distance(d.Position, snapshot.Home))
		}
	}
}

// renderZones rebuilds the zone section only when the publisher handed
// over new slices.
func (c *Console) renderZones(b *strings.Builder, snapshot core.Snapshot) {
	if !sameSlice(c.lastZones, snapshot.Zones) || !sameSlice(c.lastNoFly, snapshot.NoFlyZones) {
		c.zoneLines = c.zoneLines[:0]
		for _, z := range snapshot.Zones {
			c.zoneLines = append(c.zoneLines, fmt.Sprintf("zone %-24s r=%.0fm", z.Name, z.RadiusMeters))
		}
		for _, z := range snapshot.NoFlyZones {
			c.zoneLines = append(c.zoneLines, colorOffline.Sprintf("no-fly %-22s r=%.0fm", z.Name, z.RadiusMeters))
		}
		c.lastZones = snapshot.Zones
		c.lastNoFly = snapshot.NoFlyZones
		c.log.Debugf("zone overlay rebuilt: %d entries", len(c.zoneLines))
	}
	for _, line := range c.zoneLines {
		fmt.Fprintln(b, line)
	}
}

// checkProximity reports drone pairs closer than the collision threshold.
// Each pair is reported once per incursion; the latch clears when the
// pair separates again.
func (c *Console) checkProximity(snapshot core.Snapshot) {
	for i := 0; i < len(snapshot.Drones); i++ {
		for j := i + 1; j < len(snapshot.Drones); j++ {
			a, bd := snapshot.Drones[i], snapshot.Drones[j]
			key := a.ID + "/" + bd.ID
			sep := geo.Distance(a.Position, bd.Position)
			if sep >= collisionThresholdMeters {
				delete(c.reported, key)
				continue
			}
			if c.reported[key] {
				continue
			}
			c.reported[key] = true
			c.pub.ReportCollision(a.ID, bd.ID, sep)
		}
	}
}

func statusColor(s models.DroneStatus) *color.Color {
	switch s {
	case models.DroneStatusDelivering:
		return colorDelivering
	case models.DroneStatusReturning:
		return colorReturning
	case models.DroneStatusCharging:
		return colorCharging
	case models.DroneStatusOffline:
		return colorOffline
	default:
		return colorIdle
	}
}

func batteryLabel(b *float64) string {
	if b == nil {
		return "--"
	}
	return fmt.Sprintf("%.0f%%", *b)
}

func findDrone(drones []models.Drone, id string) (models.Drone, bool) {
	for _, d := range drones {
		if d.ID == id {
			return d, true
		}
	}
	return models.Drone{}, false
}

// sameSlice reports reference identity, the publisher's cheap unchanged
// signal.
func sameSlice(a, b []models.Zone) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}
