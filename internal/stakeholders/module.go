// Package stakeholders provides the stakeholder directory bounded context module.
// This file wires repository, service and handler and registers the routes.
package stakeholders

import (
	apphttp "stakeholder_map_backend/internal/http"
	"stakeholder_map_backend/internal/stakeholders/handler"
	"stakeholder_map_backend/internal/stakeholders/ports"
	"stakeholder_map_backend/internal/stakeholders/repository"
	"stakeholder_map_backend/internal/stakeholders/service"
	"stakeholder_map_backend/platform/config"
	"stakeholder_map_backend/platform/db"
	"stakeholder_map_backend/platform/logger"
	"stakeholder_map_backend/platform/validator"
)

// Module is the stakeholders bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repository
}

// Dependencies are the collaborators owned by other modules.
type Dependencies struct {
	Geocoder ports.Geocoder
	Regions  ports.RegionCatalog
	Drops    ports.DropRecorder
}

// NewModule creates and initializes the stakeholders module.
func NewModule(conn db.DBTX, deps Dependencies, val *validator.Validator, cfg config.GeocoderConfig, log *logger.Logger) (*Module, error) {
	if err := handler.RegisterValidations(val); err != nil {
		return nil, err
	}

	repo := repository.New(conn)
	svc := service.New(repo, deps.Geocoder, deps.Regions, deps.Drops, cfg.GetGeocoderRegionSuffix(), log)

	return &Module{
		handler: handler.New(svc, val, log),
		service: svc,
		repo:    repo,
	}, nil
}

func (m *Module) Name() string {
	return "stakeholders"
}

// Service exposes the stakeholder service for cross-module wiring.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository exposes the store for the geocode backfill job.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/stakeholders"), ctx.WriteAuth)
}

var _ apphttp.Module = (*Module)(nil)
