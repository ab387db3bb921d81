package handler

import (
	"context"
	"net/http"

	"stakeholder_map_backend/internal/stakeholders/domain"
	"stakeholder_map_backend/internal/stakeholders/transport"
	"stakeholder_map_backend/platform/httpkit"
	"stakeholder_map_backend/platform/logger"
	"stakeholder_map_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// StakeholderService is what the handler needs from the service layer.
type StakeholderService interface {
	List(ctx context.Context, filters domain.Filters) (transport.StakeholderListResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (transport.StakeholderResponse, error)
	Create(ctx context.Context, req transport.CreateStakeholderRequest) (transport.CreateStakeholderResponse, error)
}

type Handler struct {
	svc StakeholderService
	val *validator.Validator
	log *logger.Logger
}

func New(svc StakeholderService, val *validator.Validator, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Discard()
	}
	return &Handler{svc: svc, val: val, log: log}
}

// RegisterValidations adds the stakeholder enum tags used by the transport DTOs.
func RegisterValidations(val *validator.Validator) error {
	if err := val.RegisterEnum("stakeholdertype", domain.IsKnownType); err != nil {
		return err
	}
	if err := val.RegisterEnum("stakeholderarea", domain.IsKnownArea); err != nil {
		return err
	}
	return val.RegisterEnum("stakeholderstatus", domain.IsKnownStatus)
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, writeAuth gin.HandlerFunc) {
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
	rg.POST("", writeAuth, h.Create)
}

// List handles GET /api/v1/stakeholders?q=&type=&area=&status=&region=
func (h *Handler) List(c *gin.Context) {
	var req transport.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, httpkit.MsgInvalidRequest, nil)
		return
	}
	req.Normalize()
	if err := h.val.Struct(req); err != nil {
		httpkit.ValidationError(c, err)
		return
	}

	result, err := h.svc.List(c.Request.Context(), domain.Filters{
		Search:      req.Search,
		Types:       req.Types,
		Areas:       req.Areas,
		Statuses:    req.Statuses,
		RegionCodes: req.Regions,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, httpkit.MsgInvalidRequest, nil)
		return
	}

	result, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateStakeholderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, httpkit.MsgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.ValidationError(c, err)
		return
	}

	result, err := h.svc.Create(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	h.log.WithContext(c.Request.Context()).Info("stakeholder created",
		"stakeholder_id", result.ID.String(),
		"type", req.Type,
		"actor", httpkit.ActorOrAnonymous(c),
	)
	httpkit.JSON(c, http.StatusCreated, result)
}
