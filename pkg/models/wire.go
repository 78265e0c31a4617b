package models

import (
	"encoding/json"
	"fmt"
)

// Paging contains optional paging information from the dispatch backend.
type Paging struct {
	Next     *int `json:"next,omitempty"`
	Previous *int `json:"previous,omitempty"`
}

// PaginatedResponse is the envelope some dispatch endpoints wrap their
// lists in.
type PaginatedResponse[T any] struct {
	Results    []T    `json:"results"`
	TotalCount int    `json:"total_count"`
	Paging     Paging `json:"paging,omitempty"`
}

// DecodeList decodes a payload that is either a PaginatedResponse envelope
// or a bare JSON array of T.
func DecodeList[T any](data []byte) ([]T, error) {
	var envelope PaginatedResponse[T]
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Results != nil {
		return envelope.Results, nil
	}

	var bare []T
	if err := json.Unmarshal(data, &bare); err != nil {
		return nil, fmt.Errorf("payload is neither a paginated envelope nor a list: %w", err)
	}
	return bare, nil
}

// DroneWire is a drone record as delivered by the dispatch backend.
// Numeric fields are pointers so absent values survive as "unknown".
type DroneWire struct {
	ID           string   `json:"id"`
	SerialNumber string   `json:"serial_number"`
	Status       string   `json:"status"`
	BatteryLevel *float64 `json:"battery_level"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	AltitudeM    *float64 `json:"altitude_m"`
}

// OrderWire is an order record as delivered by the dispatch backend.
type OrderWire struct {
	ID                string   `json:"id"`
	Status            string   `json:"status"`
	DeliveryLatitude  *float64 `json:"delivery_latitude"`
	DeliveryLongitude *float64 `json:"delivery_longitude"`
	AssignedDrone     string   `json:"assigned_drone,omitempty"`
	CreatedAt         string   `json:"created_at,omitempty"`
}

// WaypointWire is one route waypoint on the wire.
type WaypointWire struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	AltitudeM *float64 `json:"altitude_m"`
}

// RouteWire is a delivery route as delivered by the dispatch backend.
type RouteWire struct {
	DeliveryOrder string         `json:"delivery_order"`
	Waypoints     []WaypointWire `json:"waypoints"`
}

// ZoneWire is a zone record as delivered by the dispatch backend or read
// from the static fallback definition file.
type ZoneWire struct {
	ID        string   `json:"id" yaml:"id"`
	Name      string   `json:"name" yaml:"name"`
	ZoneType  string   `json:"zone_type" yaml:"zone_type"`
	CenterLat *float64 `json:"center_lat" yaml:"center_lat"`
	CenterLon *float64 `json:"center_lon" yaml:"center_lon"`
	RadiusM   *float64 `json:"radius_m" yaml:"radius_m"`
	Polygon   []struct {
		Latitude  float64 `json:"latitude" yaml:"latitude"`
		Longitude float64 `json:"longitude" yaml:"longitude"`
	} `json:"polygon,omitempty" yaml:"polygon,omitempty"`
	MinAltM *float64 `json:"min_alt_m" yaml:"min_alt_m"`
	MaxAltM *float64 `json:"max_alt_m" yaml:"max_alt_m"`
}
