package regions

import (
	apphttp "stakeholder_map_backend/internal/http"
	"stakeholder_map_backend/platform/config"
	"stakeholder_map_backend/platform/logger"
)

// Module wires the region catalog routes.
type Module struct {
	catalog *Catalog
	handler *Handler
}

func NewModule(cfg config.RegionConfig, log *logger.Logger) (*Module, error) {
	catalog, err := Load(cfg.GetRegionsFile())
	if err != nil {
		return nil, err
	}
	log.Info("region catalog loaded", "regions", len(catalog.regions), "file", cfg.GetRegionsFile())
	return &Module{catalog: catalog, handler: NewHandler(catalog)}, nil
}

func (m *Module) Name() string {
	return "regions"
}

// Catalog exposes centroid lookups for the add flow.
func (m *Module) Catalog() *Catalog {
	return m.catalog
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/regions", m.handler.List)
}

var _ apphttp.Module = (*Module)(nil)
