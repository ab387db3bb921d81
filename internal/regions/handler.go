package regions

import (
	"stakeholder_map_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	catalog *Catalog
}

func NewHandler(catalog *Catalog) *Handler {
	return &Handler{catalog: catalog}
}

// List handles GET /api/v1/regions.
func (h *Handler) List(c *gin.Context) {
	httpkit.OK(c, gin.H{"items": h.catalog.List()})
}
