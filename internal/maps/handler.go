package maps

import (
	"context"
	"errors"
	"net/http"

	"stakeholder_map_backend/platform/apperr"
	"stakeholder_map_backend/platform/config"
	"stakeholder_map_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Lookup is the subset of Service the handler needs.
type Lookup interface {
	Geocode(ctx context.Context, query string) ([]Candidate, error)
	SearchAddress(ctx context.Context, query string) ([]AddressSuggestion, error)
}

// Handler exposes the geocoding and map configuration endpoints.
type Handler struct {
	svc Lookup
	cfg config.MapConfig
}

func NewHandler(svc Lookup, cfg config.MapConfig) *Handler {
	return &Handler{svc: svc, cfg: cfg}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/geocode", h.Geocode)
	rg.GET("/address-lookup", h.LookupAddress)
	rg.GET("/config", h.Config)
}

// Geocode handles GET /api/v1/maps/geocode?q=...
func (h *Handler) Geocode(c *gin.Context) {
	var req LookupRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "query 'q' is required (min 3 chars)", nil)
		return
	}

	candidates, err := h.svc.Geocode(c.Request.Context(), req.Query)
	if err != nil {
		httpkit.HandleError(c, upstreamError(err))
		return
	}

	httpkit.OK(c, GeocodeResponse{Query: req.Query, Candidates: candidates})
}

// LookupAddress handles GET /api/v1/maps/address-lookup?q=...
func (h *Handler) LookupAddress(c *gin.Context) {
	var req LookupRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "query 'q' is required (min 3 chars)", nil)
		return
	}

	results, err := h.svc.SearchAddress(c.Request.Context(), req.Query)
	if err != nil {
		httpkit.HandleError(c, upstreamError(err))
		return
	}

	httpkit.OK(c, results)
}

// Config handles GET /api/v1/maps/config.
func (h *Handler) Config(c *gin.Context) {
	lat, lon := h.cfg.GetMapCenter()
	httpkit.OK(c, ConfigResponse{
		AccessToken: h.cfg.GetMapAccessToken(),
		StyleURL:    h.cfg.GetMapStyleURL(),
		Center:      CenterResponse{Latitude: lat, Longitude: lon},
		Zoom:        h.cfg.GetMapZoom(),
	})
}

func upstreamError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return apperr.Unavailable("address lookup service unavailable", err)
}
