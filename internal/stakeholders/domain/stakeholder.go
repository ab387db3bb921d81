// Package domain holds the stakeholder model, the record normalizer and the
// search/filter predicate. Everything here is pure: no I/O, no shared state.
package domain

import (
	"encoding/json"
	"strings"
	"time"

	"stakeholder_map_backend/internal/geo"

	"github.com/google/uuid"
)

// ReasonMissingName marks a record dropped because it has no usable name.
const ReasonMissingName geo.Reason = "missing_name"

// Stakeholder categories. Two naming schemes are in use in stored data.
const (
	TypeGovernment = "government"
	TypeNGO        = "ngo"
	TypeBusiness   = "business"
	TypeResearch   = "research"
	TypeEducation  = "education"
	TypeHealthcare = "healthcare"
	TypeNonprofit  = "nonprofit"
	TypeOther      = "other"

	TypeUnternehmen       = "unternehmen"
	TypeForschung         = "forschung"
	TypePolitikVerwaltung = "politik_verwaltung"
	TypeFoerderprogramm   = "foerderprogramm"
	TypeProjekt           = "projekt"
	TypeNetzwerk          = "netzwerk"
)

// Thematic areas.
const (
	AreaKI            = "ki"
	AreaRobotik       = "robotik"
	AreaImmersiveTech = "immersive_tech"
	AreaDaten         = "daten"
	AreaCybersecurity = "cybersecurity"
	AreaGovtech       = "govtech"
)

// Statuses.
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusUnknown   = "unknown"
	StatusAktiv     = "aktiv"
	StatusInaktiv   = "inaktiv"
	StatusUnbekannt = "unbekannt"
)

var knownTypes = map[string]struct{}{
	TypeGovernment: {}, TypeNGO: {}, TypeBusiness: {}, TypeResearch: {},
	TypeEducation: {}, TypeHealthcare: {}, TypeNonprofit: {}, TypeOther: {},
	TypeUnternehmen: {}, TypeForschung: {}, TypePolitikVerwaltung: {},
	TypeFoerderprogramm: {}, TypeProjekt: {}, TypeNetzwerk: {},
}

var knownAreas = map[string]struct{}{
	AreaKI: {}, AreaRobotik: {}, AreaImmersiveTech: {},
	AreaDaten: {}, AreaCybersecurity: {}, AreaGovtech: {},
}

var knownStatuses = map[string]struct{}{
	StatusActive: {}, StatusInactive: {}, StatusUnknown: {},
	StatusAktiv: {}, StatusInaktiv: {}, StatusUnbekannt: {},
}

// IsKnownType reports whether t is an accepted stakeholder category.
func IsKnownType(t string) bool {
	_, ok := knownTypes[t]
	return ok
}

// IsKnownArea reports whether a is an accepted thematic area.
func IsKnownArea(a string) bool {
	_, ok := knownAreas[a]
	return ok
}

// IsKnownStatus reports whether s is an accepted status.
func IsKnownStatus(s string) bool {
	_, ok := knownStatuses[s]
	return ok
}

// Record is a stakeholder row as stored, with its location still encoded.
type Record struct {
	ID            uuid.UUID
	Name          string
	Type          string
	Areas         []string
	Description   *string
	Website       *string
	Email         *string
	Phone         *string
	Street        *string
	Zip           *string
	City          *string
	RegionCode    *string
	Status        string
	Latitude      *float64
	Longitude     *float64
	Location      json.RawMessage
	LastCheckedAt *time.Time
	CheckSource   *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Stakeholder is a record whose location resolved to a valid point.
type Stakeholder struct {
	ID            uuid.UUID
	Name          string
	Type          string
	Areas         []string
	Description   *string
	Website       *string
	Email         *string
	Phone         *string
	Street        *string
	Zip           *string
	City          *string
	RegionCode    *string
	Status        string
	Location      geo.Point
	LastCheckedAt *time.Time
	CheckSource   *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Normalize turns one stored record into a renderable stakeholder. It returns a
// *geo.DropError when the record has no name or no resolvable location.
func Normalize(r Record) (Stakeholder, error) {
	if strings.TrimSpace(r.Name) == "" {
		return Stakeholder{}, &geo.DropError{Reason: ReasonMissingName}
	}

	point, err := geo.Resolve(geo.Source{
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		Location:  r.Location,
	})
	if err != nil {
		return Stakeholder{}, err
	}

	return Stakeholder{
		ID:            r.ID,
		Name:          r.Name,
		Type:          r.Type,
		Areas:         r.Areas,
		Description:   r.Description,
		Website:       r.Website,
		Email:         r.Email,
		Phone:         r.Phone,
		Street:        r.Street,
		Zip:           r.Zip,
		City:          r.City,
		RegionCode:    r.RegionCode,
		Status:        r.Status,
		Location:      point,
		LastCheckedAt: r.LastCheckedAt,
		CheckSource:   r.CheckSource,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}, nil
}

// DropFunc is told about every record NormalizeAll leaves out.
type DropFunc func(r Record, err error)

// NormalizeAll normalizes records in order. Records that cannot be placed are
// reported to onDrop (which may be nil) and skipped; one bad row never fails
// the batch.
func NormalizeAll(records []Record, onDrop DropFunc) []Stakeholder {
	out := make([]Stakeholder, 0, len(records))
	for _, r := range records {
		s, err := Normalize(r)
		if err != nil {
			if onDrop != nil {
				onDrop(r, err)
			}
			continue
		}
		out = append(out, s)
	}
	return out
}
