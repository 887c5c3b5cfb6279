package geo

import (
	"encoding/json"
	"fmt"
)

// Point is a WGS84 coordinate as it arrives from clients
type Point struct {
	Lat float64 `json:"lat" binding:"latitude"`
	Lng float64 `json:"lng" binding:"longitude"`
}

// Envelope is the GeoJSON Point stored in bookings.geo_point.
// Coordinates are [lng, lat].
type Envelope struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

const pointType = "Point"

// ToEnvelope converts p to its GeoJSON form
func (p Point) ToEnvelope() Envelope {
	return Envelope{Type: pointType, Coordinates: [2]float64{p.Lng, p.Lat}}
}

// Encode serializes p as a GeoJSON Point string
func (p Point) Encode() (string, error) {
	b, err := json.Marshal(p.ToEnvelope())
	if err != nil {
		return "", fmt.Errorf("failed to encode geo point: %w", err)
	}
	return string(b), nil
}

// Decode parses a GeoJSON Point string back into a Point
func Decode(s string) (Point, error) {
	var env Envelope
	if err := json.Unmarshal([]byte(s), &env); err != nil {
		return Point{}, fmt.Errorf("failed to decode geo point: %w", err)
	}
	if env.Type != pointType {
		return Point{}, fmt.Errorf("unsupported geometry type %q", env.Type)
	}
	return Point{Lat: env.Coordinates[1], Lng: env.Coordinates[0]}, nil
}

// Normalize re-encodes a stored GeoJSON Point in the compact form Encode
// produces. Postgres JSONB adds whitespace when it renders a value.
func Normalize(s string) (string, error) {
	p, err := Decode(s)
	if err != nil {
		return "", err
	}
	return p.Encode()
}
