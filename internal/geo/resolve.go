package geo

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
)

// Reason names why a location could not be resolved.
type Reason string

const (
	ReasonNoCoordinates   Reason = "no_coordinates"
	ReasonInvalidEncoding Reason = "invalid_encoding"
	ReasonNotFinite       Reason = "not_finite"
	ReasonOutOfRange      Reason = "out_of_range"
)

// DropError reports a location that cannot be placed on the map.
type DropError struct {
	Reason  Reason
	Decoder string // decoder that rejected the value, empty when none matched
	Err     error
}

func (e *DropError) Error() string {
	msg := string(e.Reason)
	if e.Decoder != "" {
		msg = e.Decoder + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DropError) Unwrap() error {
	return e.Err
}

// ReasonOf returns the drop reason carried by err, or "" when err is not a *DropError.
func ReasonOf(err error) Reason {
	var dropErr *DropError
	if errors.As(err, &dropErr) {
		return dropErr.Reason
	}
	return ""
}

// Source carries every location encoding a stored row may hold.
type Source struct {
	Latitude  *float64
	Longitude *float64
	// Location is the raw JSON value of the location column: a geometry
	// object, a JSON string holding a geometry, or null/empty.
	Location json.RawMessage
}

// decoder tries one encoding. ok=false means "not this shape, try the next one";
// a non-nil error stops the chain.
type decoder struct {
	name   string
	decode func(Source) (p Point, ok bool, err error)
}

var decoders = []decoder{
	{name: "columns", decode: fromColumns},
	{name: "geometry", decode: fromGeometry},
	{name: "encoded_geometry", decode: fromEncodedGeometry},
}

// Resolve returns the first point any decoder can read from src. The point is
// checked for finiteness and bounds; no sentinel (0,0) is ever produced.
func Resolve(src Source) (Point, error) {
	for _, d := range decoders {
		point, ok, decodeErr := d.decode(src)
		if decodeErr != nil {
			var dropErr *DropError
			if errors.As(decodeErr, &dropErr) {
				dropErr.Decoder = d.name
			}
			return Point{}, decodeErr
		}
		if !ok {
			continue
		}
		if checkErr := checkPoint(point); checkErr != nil {
			checkErr.Decoder = d.name
			return Point{}, checkErr
		}
		return point, nil
	}

	if src.Latitude != nil && src.Longitude != nil {
		return Point{}, &DropError{Reason: ReasonNotFinite}
	}
	return Point{}, &DropError{Reason: ReasonNoCoordinates}
}

func fromColumns(src Source) (Point, bool, error) {
	if src.Latitude == nil || src.Longitude == nil {
		return Point{}, false, nil
	}
	lat, lon := *src.Latitude, *src.Longitude
	if !isFinite(lat) || !isFinite(lon) {
		return Point{}, false, nil
	}
	return Point{Latitude: lat, Longitude: lon}, true, nil
}

func fromGeometry(src Source) (Point, bool, error) {
	if jsonKind(src.Location) != '{' {
		return Point{}, false, nil
	}
	return decodeGeometry(src.Location)
}

func fromEncodedGeometry(src Source) (Point, bool, error) {
	if jsonKind(src.Location) != '"' {
		return Point{}, false, nil
	}

	var encoded string
	if err := json.Unmarshal(src.Location, &encoded); err != nil {
		return Point{}, false, &DropError{Reason: ReasonInvalidEncoding, Err: err}
	}

	inner := json.RawMessage(encoded)
	if jsonKind(inner) != '{' {
		return Point{}, false, &DropError{Reason: ReasonInvalidEncoding, Err: errors.New("location string is not a geometry object")}
	}

	point, ok, err := decodeGeometry(inner)
	if err != nil {
		return Point{}, false, err
	}
	if !ok {
		return Point{}, false, &DropError{Reason: ReasonNoCoordinates}
	}
	return point, true, nil
}

// geometry mirrors a GeoJSON point. Coordinates stay raw so that only JSON
// numbers are accepted as axis values.
type geometry struct {
	Type        string            `json:"type,omitempty"`
	Coordinates []json.RawMessage `json:"coordinates"`
}

func decodeGeometry(raw json.RawMessage) (Point, bool, error) {
	var g geometry
	if err := json.Unmarshal(raw, &g); err != nil {
		return Point{}, false, &DropError{Reason: ReasonInvalidEncoding, Err: err}
	}
	if len(g.Coordinates) != 2 {
		return Point{}, false, nil
	}

	lon, okLon := jsonNumber(g.Coordinates[0])
	lat, okLat := jsonNumber(g.Coordinates[1])
	if !okLon || !okLat {
		return Point{}, false, nil
	}

	return Point{Latitude: lat, Longitude: lon}, true, nil
}

func jsonNumber(raw json.RawMessage) (float64, bool) {
	k := jsonKind(raw)
	if k != '-' && (k < '0' || k > '9') {
		return 0, false
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}
	return v, true
}

// jsonKind returns the first non-space byte of raw, or 0 for empty input and null.
func jsonKind(raw json.RawMessage) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return 0
	}
	return trimmed[0]
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
