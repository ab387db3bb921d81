// Package ports declares what the stakeholders module needs from other modules.
// Implementations live in internal/adapters so this module never imports them.
package ports

import (
	"context"

	"stakeholder_map_backend/internal/geo"
)

// GeocodeResult is one forward-geocoding candidate. Coordinates stay in the
// provider's decimal string form until the caller parses them.
type GeocodeResult struct {
	Lat         string
	Lon         string
	DisplayName string
}

// Geocoder resolves a free-text address. An empty slice means "not found".
type Geocoder interface {
	Geocode(ctx context.Context, query string) ([]GeocodeResult, error)
}

// RegionCatalog looks up the centroid of a known region code.
type RegionCatalog interface {
	Centroid(code string) (geo.Point, bool)
}

// DropRecorder counts records left off the map.
type DropRecorder interface {
	RecordDropped(reason string)
}
