package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/airmesh/fleet-ops/pkg/models"
)

// ListOrders fetches all delivery orders.
func (c *Dispatch) ListOrders(ctx context.Context) ([]models.OrderWire, error) {
	body, err := c.get(ctx, "/api/orders", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return models.DecodeList[models.OrderWire](body)
}

// ListDrones fetches all fleet drones.
func (c *Dispatch) ListDrones(ctx context.Context) ([]models.DroneWire, error) {
	body, err := c.get(ctx, "/api/drones", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list drones: %w", err)
	}
	return models.DecodeList[models.DroneWire](body)
}

// ListOperationalZones fetches the active operational zones.
func (c *Dispatch) ListOperationalZones(ctx context.Context) ([]models.ZoneWire, error) {
	return c.listZones(ctx, "/api/operational-zones")
}

// ListNoFlyZones fetches the active no-fly zones.
func (c *Dispatch) ListNoFlyZones(ctx context.Context) ([]models.ZoneWire, error) {
	return c.listZones(ctx, "/api/no-fly-zones")
}

func (c *Dispatch) listZones(ctx context.Context, path string) ([]models.ZoneWire, error) {
	query := url.Values{"is_active": []string{"true"}}
	body, err := c.get(ctx, path, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list zones: %w", err)
	}
	return models.DecodeList[models.ZoneWire](body)
}

// GetRoute fetches the route for one delivery order. Absence of a route is
// a normal condition and returns (nil, nil); the caller synthesizes a
// fallback.
func (c *Dispatch) GetRoute(ctx context.Context, orderID string) (*models.RouteWire, error) {
	query := url.Values{"delivery_order": []string{orderID}}
	body, err := c.get(ctx, "/api/routes", query)
	if err == errNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get route for order %s: %w", orderID, err)
	}

	// The endpoint answers with a list filtered by order; it may also be
	// wrapped in the paginated envelope.
	routes, err := models.DecodeList[models.RouteWire](body)
	if err != nil {
		// Some deployments return the route object directly.
		var single models.RouteWire
		if derr := decodeJSON(body, &single); derr == nil && len(single.Waypoints) > 0 {
			return &single, nil
		}
		return nil, fmt.Errorf("failed to decode route for order %s: %w", orderID, err)
	}

	if len(routes) == 0 {
		return nil, nil
	}
	return &routes[0], nil
}
