package feedback

import (
	"context"
	"net/http"

	"stakeholder_map_backend/platform/httpkit"
	"stakeholder_map_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Submitter is what the handler needs from the service.
type Submitter interface {
	Submit(ctx context.Context, stakeholderID uuid.UUID, req SubmitRequest) (SubmitResponse, error)
}

type Handler struct {
	svc Submitter
	val *validator.Validator
}

func NewHandler(svc Submitter, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterValidations adds the feedbacktype tag.
func RegisterValidations(val *validator.Validator) error {
	return val.RegisterEnum("feedbacktype", IsKnownType)
}

// Submit handles POST /api/v1/stakeholders/:id/feedback.
func (h *Handler) Submit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, httpkit.MsgInvalidRequest, nil)
		return
	}

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, httpkit.MsgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.ValidationError(c, err)
		return
	}

	result, err := h.svc.Submit(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, result)
}
