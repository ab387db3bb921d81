// Package maps provides forward geocoding, address autocomplete and the
// client map configuration.
package maps

import (
	apphttp "stakeholder_map_backend/internal/http"
	"stakeholder_map_backend/platform/config"
)

// Module wires the maps HTTP routes.
type Module struct {
	handler *Handler
	service *Service
}

func NewModule(svc *Service, cfg config.MapConfig) *Module {
	return &Module{handler: NewHandler(svc, cfg), service: svc}
}

func (m *Module) Name() string {
	return "maps"
}

// Service exposes the geocoder for cross-module wiring.
func (m *Module) Service() *Service {
	return m.service
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/maps"))
}

var _ apphttp.Module = (*Module)(nil)
