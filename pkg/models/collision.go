package models

import (
	"time"

	"github.com/google/uuid"
)

// CollisionReport is a proximity event detected by the rendering consumer.
// The operations board only accepts and forwards these; it never computes
// collisions itself.
type CollisionReport struct {
	ID               uuid.UUID `json:"id"`
	DroneA           string    `json:"drone_a"`
	DroneB           string    `json:"drone_b"`
	SeparationMeters float64   `json:"separation_meters"`
	ReportedAt       time.Time `json:"reported_at"`
}
