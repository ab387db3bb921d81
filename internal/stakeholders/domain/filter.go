package domain

import (
	"strings"

	"golang.org/x/text/cases"
)

// Filters is the client's current search and filter selection. The zero value
// imposes no constraint.
type Filters struct {
	Search      string
	Types       []string
	Areas       []string
	Statuses    []string
	RegionCodes []string
}

// IsEmpty reports whether no dimension is constrained.
func (f Filters) IsEmpty() bool {
	return strings.TrimSpace(f.Search) == "" &&
		len(f.Types) == 0 && len(f.Areas) == 0 &&
		len(f.Statuses) == 0 && len(f.RegionCodes) == 0
}

// Matches reports whether s satisfies every active dimension. Within a
// dimension any selected value is enough; enumerated values compare without
// regard to case.
func (f Filters) Matches(s Stakeholder) bool {
	if len(f.Types) > 0 && !containsValue(f.Types, s.Type) {
		return false
	}
	if len(f.Statuses) > 0 && !containsValue(f.Statuses, s.Status) {
		return false
	}
	if len(f.RegionCodes) > 0 && !containsValue(f.RegionCodes, deref(s.RegionCode)) {
		return false
	}
	if len(f.Areas) > 0 && !overlaps(f.Areas, s.Areas) {
		return false
	}
	return matchesSearch(f.Search, s)
}

// Apply returns the stakeholders matching f, keeping input order. The input
// slice is not modified.
func Apply(items []Stakeholder, f Filters) []Stakeholder {
	out := make([]Stakeholder, 0, len(items))
	for _, item := range items {
		if f.Matches(item) {
			out = append(out, item)
		}
	}
	return out
}

func matchesSearch(search string, s Stakeholder) bool {
	search = strings.TrimSpace(search)
	if search == "" {
		return true
	}

	folder := cases.Fold()
	needle := folder.String(search)

	fields := []*string{&s.Name, s.City, s.RegionCode, s.Zip, s.Description}
	for _, field := range fields {
		if field == nil || *field == "" {
			continue
		}
		if strings.Contains(folder.String(*field), needle) {
			return true
		}
	}
	return false
}

func containsValue(selected []string, value string) bool {
	if value == "" {
		return false
	}
	for _, candidate := range selected {
		if strings.EqualFold(candidate, value) {
			return true
		}
	}
	return false
}

func overlaps(selected, values []string) bool {
	for _, value := range values {
		if containsValue(selected, value) {
			return true
		}
	}
	return false
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
