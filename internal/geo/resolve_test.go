package geo

import (
	"encoding/json"
	"math"
	"testing"
)

func ptr(v float64) *float64 { return &v }

func TestResolveColumnsReturnedUnchanged(t *testing.T) {
	samples := []Point{
		{Latitude: 52.3759, Longitude: 9.7320},
		{Latitude: -33.8688, Longitude: 151.2093},
		{Latitude: 90, Longitude: -180},
		{Latitude: 0, Longitude: 0},
	}

	for _, want := range samples {
		got, err := Resolve(Source{Latitude: ptr(want.Latitude), Longitude: ptr(want.Longitude)})
		if err != nil {
			t.Fatalf("Resolve(%v) returned error: %v", want, err)
		}
		if got != want {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestResolveGeometrySwapsAxisOrder(t *testing.T) {
	src := Source{Location: json.RawMessage(`{"type":"Point","coordinates":[9.73,52.37]}`)}

	got, err := Resolve(src)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if got.Latitude != 52.37 || got.Longitude != 9.73 {
		t.Fatalf("expected lat=52.37 lon=9.73, got %+v", got)
	}
}

func TestResolveEncodedGeometryMatchesParsedObject(t *testing.T) {
	object := json.RawMessage(`{"type":"Point","coordinates":[10.5268,52.2689]}`)
	encoded, err := json.Marshal(string(object))
	if err != nil {
		t.Fatalf("encode location string: %v", err)
	}

	fromObject, err := Resolve(Source{Location: object})
	if err != nil {
		t.Fatalf("object form: %v", err)
	}
	fromString, err := Resolve(Source{Location: encoded})
	if err != nil {
		t.Fatalf("string form: %v", err)
	}
	if fromObject != fromString {
		t.Fatalf("round trip mismatch: object %+v, string %+v", fromObject, fromString)
	}
}

func TestResolveColumnsTakePrecedenceOverGeometry(t *testing.T) {
	src := Source{
		Latitude:  ptr(53.15),
		Longitude: ptr(8.22),
		Location:  json.RawMessage(`{"coordinates":[9.73,52.37]}`),
	}

	got, err := Resolve(src)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if got.Latitude != 53.15 || got.Longitude != 8.22 {
		t.Fatalf("expected column values to win, got %+v", got)
	}
}

func TestResolveFallsThroughNonFiniteColumns(t *testing.T) {
	src := Source{
		Latitude:  ptr(math.NaN()),
		Longitude: ptr(9.73),
		Location:  json.RawMessage(`{"coordinates":[8.05,52.27]}`),
	}

	got, err := Resolve(src)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if got.Latitude != 52.27 || got.Longitude != 8.05 {
		t.Fatalf("expected geometry fallback, got %+v", got)
	}
}

func TestResolveDrops(t *testing.T) {
	tests := []struct {
		name   string
		src    Source
		reason Reason
	}{
		{
			name:   "latitude out of range",
			src:    Source{Latitude: ptr(95), Longitude: ptr(9.73)},
			reason: ReasonOutOfRange,
		},
		{
			name:   "longitude out of range in geometry",
			src:    Source{Location: json.RawMessage(`{"coordinates":[181,52]}`)},
			reason: ReasonOutOfRange,
		},
		{
			name:   "nothing at all",
			src:    Source{},
			reason: ReasonNoCoordinates,
		},
		{
			name:   "json null location",
			src:    Source{Location: json.RawMessage(`null`)},
			reason: ReasonNoCoordinates,
		},
		{
			name:   "only latitude column",
			src:    Source{Latitude: ptr(52.1)},
			reason: ReasonNoCoordinates,
		},
		{
			name:   "NaN columns without geometry",
			src:    Source{Latitude: ptr(math.NaN()), Longitude: ptr(math.NaN())},
			reason: ReasonNotFinite,
		},
		{
			name:   "infinite column",
			src:    Source{Latitude: ptr(math.Inf(1)), Longitude: ptr(9)},
			reason: ReasonNotFinite,
		},
		{
			name:   "coordinates of wrong length",
			src:    Source{Location: json.RawMessage(`{"coordinates":[9.73]}`)},
			reason: ReasonNoCoordinates,
		},
		{
			name:   "coordinates as strings",
			src:    Source{Location: json.RawMessage(`{"coordinates":["9.73","52.37"]}`)},
			reason: ReasonNoCoordinates,
		},
		{
			name:   "unparseable string",
			src:    Source{Location: json.RawMessage(`"{not json"`)},
			reason: ReasonInvalidEncoding,
		},
		{
			name:   "string holding a number",
			src:    Source{Location: json.RawMessage(`"42"`)},
			reason: ReasonInvalidEncoding,
		},
		{
			name:   "string holding geometry without coordinates",
			src:    Source{Location: json.RawMessage(`"{\"type\":\"Point\"}"`)},
			reason: ReasonNoCoordinates,
		},
		{
			name:   "array location",
			src:    Source{Location: json.RawMessage(`[9.73,52.37]`)},
			reason: ReasonNoCoordinates,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Resolve(tc.src)
			if err == nil {
				t.Fatalf("expected drop, got point %+v", got)
			}
			if reason := ReasonOf(err); reason != tc.reason {
				t.Fatalf("expected reason %q, got %q (%v)", tc.reason, reason, err)
			}
			if got != (Point{}) {
				t.Fatalf("dropped location must return the zero point, got %+v", got)
			}
		})
	}
}

func TestParsePoint(t *testing.T) {
	p, err := ParsePoint("52.37", " 9.73 ")
	if err != nil {
		t.Fatalf("ParsePoint returned error: %v", err)
	}
	if p.Latitude != 52.37 || p.Longitude != 9.73 {
		t.Fatalf("unexpected point %+v", p)
	}

	if _, err := ParsePoint("abc", "9.73"); ReasonOf(err) != ReasonInvalidEncoding {
		t.Fatalf("expected invalid encoding, got %v", err)
	}
	if _, err := ParsePoint("91", "9.73"); ReasonOf(err) != ReasonOutOfRange {
		t.Fatalf("expected out of range, got %v", err)
	}
}

func TestGeoJSONRoundTrip(t *testing.T) {
	p := Point{Latitude: 52.37, Longitude: 9.73}

	got, err := Resolve(Source{Location: p.GeoJSON()})
	if err != nil {
		t.Fatalf("Resolve(GeoJSON()) returned error: %v", err)
	}
	if got != p {
		t.Fatalf("expected %+v, got %+v", p, got)
	}
}
