package models

import (
	"time"

	"github.com/airmesh/fleet-ops/pkg/geo"
)

// OrderStatus is the lifecycle status of a delivery order as reported by
// the dispatch backend. The simulation never mutates it.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusAssigned  OrderStatus = "assigned"
	OrderStatusInTransit OrderStatus = "in_transit"
	OrderStatusDelivering OrderStatus = "delivering"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusUnknown   OrderStatus = "unknown"
)

// activeOrderStatuses is the fixed set that makes an order eligible for
// simulation.
var activeOrderStatuses = map[OrderStatus]bool{
	OrderStatusAssigned:   true,
	OrderStatusInTransit:  true,
	OrderStatusDelivering: true,
}

// ParseOrderStatus maps a wire status string onto a known status.
func ParseOrderStatus(s string) OrderStatus {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusAssigned, OrderStatusInTransit,
		OrderStatusDelivering, OrderStatusDelivered, OrderStatusCancelled:
		return OrderStatus(s)
	default:
		return OrderStatusUnknown
	}
}

// Order is a delivery order. The authoritative copy comes only from the
// dispatch backend.
type Order struct {
	ID               string      `json:"id"`
	Status           OrderStatus `json:"status"`
	DeliveryPosition geo.Point   `json:"delivery_position"`
	// DroneID is the assigned drone, empty when unassigned.
	DroneID   string    `json:"drone_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Active reports whether the order's status places it in the in-progress
// set that drives drone simulation.
func (o Order) Active() bool {
	return activeOrderStatuses[o.Status]
}
