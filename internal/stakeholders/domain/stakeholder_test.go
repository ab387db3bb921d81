package domain

import (
	"encoding/json"
	"math"
	"testing"

	"stakeholder_map_backend/internal/geo"

	"github.com/google/uuid"
)

func fptr(v float64) *float64 { return &v }
func sptr(v string) *string   { return &v }

func TestNormalizeAllMixedEncodings(t *testing.T) {
	records := []Record{
		{ID: uuid.New(), Name: "Columns", Latitude: fptr(52.37), Longitude: fptr(9.73)},
		{ID: uuid.New(), Name: "Geometry", Location: json.RawMessage(`{"type":"Point","coordinates":[10.54,52.27]}`)},
		{ID: uuid.New(), Name: "Encoded", Location: json.RawMessage(`"{\"type\":\"Point\",\"coordinates\":[8.22,53.15]}"`)},
		{ID: uuid.New(), Name: "Broken", Location: json.RawMessage(`"{oops"`)},
		{ID: uuid.New(), Name: "Empty"},
	}

	var dropped []geo.Reason
	got := NormalizeAll(records, func(_ Record, err error) {
		dropped = append(dropped, geo.ReasonOf(err))
	})

	if len(got) != 3 {
		t.Fatalf("expected 3 stakeholders, got %d", len(got))
	}
	wantNames := []string{"Columns", "Geometry", "Encoded"}
	for i, name := range wantNames {
		if got[i].Name != name {
			t.Fatalf("position %d: expected %q, got %q", i, name, got[i].Name)
		}
	}
	if got[2].Location.Latitude != 53.15 || got[2].Location.Longitude != 8.22 {
		t.Fatalf("encoded geometry resolved to %+v", got[2].Location)
	}

	if len(dropped) != 2 {
		t.Fatalf("expected 2 drops, got %v", dropped)
	}
	if dropped[0] != geo.ReasonInvalidEncoding || dropped[1] != geo.ReasonNoCoordinates {
		t.Fatalf("unexpected drop reasons %v", dropped)
	}
}

func TestNormalizeRejectsBlankName(t *testing.T) {
	_, err := Normalize(Record{Name: "   ", Latitude: fptr(52), Longitude: fptr(9)})
	if geo.ReasonOf(err) != ReasonMissingName {
		t.Fatalf("expected missing_name, got %v", err)
	}
}

func TestNormalizeNeverEmitsInvalidPoints(t *testing.T) {
	records := []Record{
		{Name: "a", Latitude: fptr(math.NaN()), Longitude: fptr(1)},
		{Name: "b", Latitude: fptr(-91), Longitude: fptr(1)},
		{Name: "c", Location: json.RawMessage(`{"coordinates":[200,10]}`)},
		{Name: "d", Latitude: fptr(48.1), Longitude: fptr(11.6)},
	}

	for _, s := range NormalizeAll(records, nil) {
		if !s.Location.Valid() {
			t.Fatalf("normalized stakeholder %q has invalid location %+v", s.Name, s.Location)
		}
		if s.Location == (geo.Point{}) {
			t.Fatalf("normalized stakeholder %q defaulted to (0,0)", s.Name)
		}
	}
}

func TestNormalizeCopiesFields(t *testing.T) {
	id := uuid.New()
	r := Record{
		ID:         id,
		Name:       "Leibniz Universität",
		Type:       TypeForschung,
		Areas:      []string{AreaKI, AreaDaten},
		City:       sptr("Hannover"),
		RegionCode: sptr("hannover"),
		Status:     StatusAktiv,
		Latitude:   fptr(52.3829),
		Longitude:  fptr(9.7176),
	}

	s, err := Normalize(r)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if s.ID != id || s.Type != TypeForschung || s.Status != StatusAktiv {
		t.Fatalf("fields not copied: %+v", s)
	}
	if s.City == nil || *s.City != "Hannover" || len(s.Areas) != 2 {
		t.Fatalf("optional fields not copied: %+v", s)
	}
}

func TestKnownEnums(t *testing.T) {
	if !IsKnownType(TypeNGO) || !IsKnownType(TypePolitikVerwaltung) || IsKnownType("club") {
		t.Fatal("type lookup mismatch")
	}
	if !IsKnownArea(AreaGovtech) || IsKnownArea("space") {
		t.Fatal("area lookup mismatch")
	}
	if !IsKnownStatus(StatusUnbekannt) || IsKnownStatus("paused") {
		t.Fatal("status lookup mismatch")
	}
}

func TestNormalizeAllKeepsThreeOfFive(t *testing.T) {
	records := []Record{
		{ID: uuid.New(), Name: "Spalten Eins", Latitude: fptr(52.37), Longitude: fptr(9.73)},
		{ID: uuid.New(), Name: "Spalten Zwei", Latitude: fptr(52.27), Longitude: fptr(10.52)},
		{ID: uuid.New(), Name: "GeoJSON Text", Location: json.RawMessage(`"{\"type\":\"Point\",\"coordinates\":[8.05,52.27]}"`)},
		{ID: uuid.New(), Name: "Außerhalb", Latitude: fptr(123.4), Longitude: fptr(9.73)},
		{ID: uuid.New(), Name: "Ohne Ort"},
	}

	drops := 0
	got := NormalizeAll(records, func(Record, error) { drops++ })

	want := []string{"Spalten Eins", "Spalten Zwei", "GeoJSON Text"}
	if len(got) != len(want) {
		t.Fatalf("expected %d stakeholders, got %d", len(want), len(got))
	}
	for i, name := range want {
		if got[i].Name != name {
			t.Fatalf("position %d: expected %q, got %q", i, name, got[i].Name)
		}
	}
	if got[2].Location != (geo.Point{Latitude: 52.27, Longitude: 8.05}) {
		t.Fatalf("GeoJSON text resolved to %+v", got[2].Location)
	}
	if drops != 2 {
		t.Fatalf("expected 2 drops, got %d", drops)
	}
}
