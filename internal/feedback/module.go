package feedback

import (
	apphttp "stakeholder_map_backend/internal/http"
	"stakeholder_map_backend/platform/db"
	"stakeholder_map_backend/platform/logger"
	"stakeholder_map_backend/platform/validator"
)

// Module wires the feedback route under the stakeholders path.
type Module struct {
	handler *Handler
}

func NewModule(conn db.DBTX, val *validator.Validator, log *logger.Logger) (*Module, error) {
	if err := RegisterValidations(val); err != nil {
		return nil, err
	}
	svc := NewService(NewRepository(conn), log)
	return &Module{handler: NewHandler(svc, val)}, nil
}

func (m *Module) Name() string {
	return "feedback"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.POST("/stakeholders/:id/feedback", m.handler.Submit)
}

var _ apphttp.Module = (*Module)(nil)
