// Package regions serves the catalog of map regions and their centroids.
package regions

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"stakeholder_map_backend/internal/geo"

	"gopkg.in/yaml.v3"
)

//go:embed regions.yaml
var defaultCatalog []byte

// Region is one selectable map region.
type Region struct {
	Code   string    `json:"code"`
	Name   string    `json:"name"`
	Center geo.Point `json:"center"`
}

type catalogFile struct {
	Regions []struct {
		Code      string  `yaml:"code"`
		Name      string  `yaml:"name"`
		Latitude  float64 `yaml:"latitude"`
		Longitude float64 `yaml:"longitude"`
	} `yaml:"regions"`
}

// Catalog is an immutable, ordered region list. Safe for concurrent use.
type Catalog struct {
	regions []Region
	byCode  map[string]Region
}

// Load reads the catalog from path, or the embedded default when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Parse(defaultCatalog)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read region catalog: %w", err)
	}
	return Parse(raw)
}

// Parse decodes a YAML catalog. Codes are lowercased and must be unique;
// every centroid must be a valid coordinate.
func Parse(raw []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse region catalog: %w", err)
	}

	c := &Catalog{
		regions: make([]Region, 0, len(file.Regions)),
		byCode:  make(map[string]Region, len(file.Regions)),
	}
	for i, entry := range file.Regions {
		code := strings.ToLower(strings.TrimSpace(entry.Code))
		if code == "" {
			return nil, fmt.Errorf("region %d: code is required", i)
		}
		if _, dup := c.byCode[code]; dup {
			return nil, fmt.Errorf("region %q: duplicate code", code)
		}
		center := geo.Point{Latitude: entry.Latitude, Longitude: entry.Longitude}
		if !center.Valid() {
			return nil, fmt.Errorf("region %q: invalid centroid", code)
		}
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			name = code
		}

		region := Region{Code: code, Name: name, Center: center}
		c.regions = append(c.regions, region)
		c.byCode[code] = region
	}
	return c, nil
}

// List returns the regions in catalog order.
func (c *Catalog) List() []Region {
	out := make([]Region, len(c.regions))
	copy(out, c.regions)
	return out
}

// Centroid returns the center of the region with the given code.
func (c *Catalog) Centroid(code string) (geo.Point, bool) {
	region, ok := c.byCode[strings.ToLower(strings.TrimSpace(code))]
	if !ok {
		return geo.Point{}, false
	}
	return region.Center, true
}
