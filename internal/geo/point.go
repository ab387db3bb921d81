// Package geo resolves stakeholder locations into a single WGS 84 point.
//
// Rows carry their location in one of three historical encodings: separate
// latitude/longitude columns, a GeoJSON point geometry object, or that same
// geometry serialized into a JSON string. Resolve walks an ordered chain of
// decoders and returns the first point it can read, or a *DropError naming why
// the row cannot be placed on the map.
package geo

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	minLatitude  = -90.0
	maxLatitude  = 90.0
	minLongitude = -180.0
	maxLongitude = 180.0
)

// Point is a WGS 84 coordinate pair.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether both axes are finite and inside their bounds.
func (p Point) Valid() bool {
	return checkPoint(p) == nil
}

// GeoJSON encodes the point as a geometry object with [longitude, latitude] ordering.
func (p Point) GeoJSON() json.RawMessage {
	raw, err := json.Marshal(pointGeometry{Type: "Point", Coordinates: [2]float64{p.Longitude, p.Latitude}})
	if err != nil {
		return nil
	}
	return raw
}

type pointGeometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// ParsePoint builds a point from decimal strings such as the ones returned by
// geocoding providers.
func ParsePoint(lat, lon string) (Point, error) {
	latitude, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return Point{}, &DropError{Reason: ReasonInvalidEncoding, Err: fmt.Errorf("latitude %q: %w", lat, err)}
	}
	longitude, err := strconv.ParseFloat(strings.TrimSpace(lon), 64)
	if err != nil {
		return Point{}, &DropError{Reason: ReasonInvalidEncoding, Err: fmt.Errorf("longitude %q: %w", lon, err)}
	}

	p := Point{Latitude: latitude, Longitude: longitude}
	if dropErr := checkPoint(p); dropErr != nil {
		return Point{}, dropErr
	}
	return p, nil
}

func checkPoint(p Point) *DropError {
	if math.IsNaN(p.Latitude) || math.IsNaN(p.Longitude) ||
		math.IsInf(p.Latitude, 0) || math.IsInf(p.Longitude, 0) {
		return &DropError{Reason: ReasonNotFinite}
	}
	if p.Latitude < minLatitude || p.Latitude > maxLatitude ||
		p.Longitude < minLongitude || p.Longitude > maxLongitude {
		return &DropError{Reason: ReasonOutOfRange}
	}
	return nil
}
