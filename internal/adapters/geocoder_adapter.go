package adapters

import (
	"context"

	"stakeholder_map_backend/internal/maps"
	"stakeholder_map_backend/internal/stakeholders/ports"
)

// GeocoderAdapter adapts the maps service for use by the stakeholders domain.
// It implements the stakeholders/ports.Geocoder interface.
type GeocoderAdapter struct {
	svc *maps.Service
}

// NewGeocoderAdapter wraps the maps service.
func NewGeocoderAdapter(svc *maps.Service) *GeocoderAdapter {
	return &GeocoderAdapter{svc: svc}
}

// Geocode forwards the lookup and maps candidates into the stakeholders
// domain shape, preserving provider order.
func (a *GeocoderAdapter) Geocode(ctx context.Context, query string) ([]ports.GeocodeResult, error) {
	candidates, err := a.svc.Geocode(ctx, query)
	if err != nil {
		return nil, err
	}

	results := make([]ports.GeocodeResult, 0, len(candidates))
	for _, candidate := range candidates {
		results = append(results, ports.GeocodeResult{
			Lat:         candidate.Lat,
			Lon:         candidate.Lon,
			DisplayName: candidate.DisplayName,
		})
	}
	return results, nil
}

var _ ports.Geocoder = (*GeocoderAdapter)(nil)
