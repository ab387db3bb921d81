package transport

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// ListRequest carries the filter query parameters. Multi-valued parameters may
// be repeated (?type=a&type=b) or comma separated (?type=a,b).
type ListRequest struct {
	Search   string   `form:"q" validate:"max=200"`
	Types    []string `form:"type" validate:"dive,stakeholdertype"`
	Areas    []string `form:"area" validate:"dive,stakeholderarea"`
	Statuses []string `form:"status" validate:"dive,stakeholderstatus"`
	Regions  []string `form:"region" validate:"dive,max=64"`
}

// Normalize splits comma separated values, drops blanks and lowercases the
// enumerated dimensions.
func (r *ListRequest) Normalize() {
	r.Search = strings.TrimSpace(r.Search)
	r.Types = splitLower(r.Types)
	r.Areas = splitLower(r.Areas)
	r.Statuses = splitLower(r.Statuses)
	r.Regions = splitLower(r.Regions)
}

type CreateStakeholderRequest struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Type        string   `json:"type" validate:"required,stakeholdertype"`
	Areas       []string `json:"areas" validate:"omitempty,max=10,dive,stakeholderarea"`
	Description string   `json:"description,omitempty" validate:"max=2000"`
	Website     string   `json:"website,omitempty" validate:"omitempty,url,max=500"`
	Email       string   `json:"email,omitempty" validate:"omitempty,email,max=254"`
	Phone       string   `json:"phone,omitempty" validate:"max=40"`
	Street      string   `json:"street,omitempty" validate:"max=200"`
	Zip         string   `json:"zip,omitempty" validate:"max=20"`
	City        string   `json:"city,omitempty" validate:"max=100"`
	Address     string   `json:"address,omitempty" validate:"max=300"`
	RegionCode  string   `json:"regionCode,omitempty" validate:"max=64"`
	Status      string   `json:"status,omitempty" validate:"omitempty,stakeholderstatus"`
	Latitude    *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude   *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
}

// Response DTOs

type LocationResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type StakeholderResponse struct {
	ID            uuid.UUID        `json:"id"`
	Name          string           `json:"name"`
	Type          string           `json:"type"`
	Areas         []string         `json:"areas"`
	Description   *string          `json:"description,omitempty"`
	Website       *string          `json:"website,omitempty"`
	Email         *string          `json:"email,omitempty"`
	Phone         *string          `json:"phone,omitempty"`
	Street        *string          `json:"street,omitempty"`
	Zip           *string          `json:"zip,omitempty"`
	City          *string          `json:"city,omitempty"`
	RegionCode    *string          `json:"regionCode,omitempty"`
	Status        string           `json:"status"`
	Location      LocationResponse `json:"location"`
	LastCheckedAt *time.Time       `json:"lastCheckedAt,omitempty"`
	CheckSource   *string          `json:"checkSource,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

type StakeholderListResponse struct {
	Items   []StakeholderResponse `json:"items"`
	Total   int                   `json:"total"`
	Dropped int                   `json:"dropped"`
}

// CreateStakeholderResponse tells the client to reload its list; the new row
// is never merged client-side.
type CreateStakeholderResponse struct {
	ID      uuid.UUID `json:"id"`
	Refresh bool      `json:"refresh"`
}

func splitLower(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, strings.ToLower(part))
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
