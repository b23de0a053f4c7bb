package http

import (
	"errors"
	"net/http"

	"channel-portfolio/usecase"

	"github.com/gin-gonic/gin"
)

// ICatalogHandler defines the interface for catalog HTTP handlers
type ICatalogHandler interface {
	GetCatalog(ctx *gin.Context)
	GetSnapshot(ctx *gin.Context)
	Refresh(ctx *gin.Context)
}

// CatalogHandler implements the catalog HTTP handlers
type CatalogHandler struct {
	catalogUseCase usecase.ICatalogUseCase
}

// NewCatalogHandler creates a new catalog handler instance
func NewCatalogHandler(catalogUseCase usecase.ICatalogUseCase) ICatalogHandler {
	return &CatalogHandler{
		catalogUseCase: catalogUseCase,
	}
}

// GetCatalog handles GET /api/catalog
// Query param refresh=true forces a refresh regardless of staleness.
func (h *CatalogHandler) GetCatalog(ctx *gin.Context) {
	force := ctx.Query("refresh") == "true"

	view, err := h.catalogUseCase.GetView(ctx.Request.Context(), force)
	if err != nil {
		if errors.Is(err, usecase.ErrCatalogUnavailable) {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{
				"success": false,
				"message": "catalog data unavailable",
			})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    view,
	})
}

// GetSnapshot handles GET /api/catalog/snapshot
// Returns the cached document itself rather than the derived view. The
// same staleness policy applies as for GetCatalog.
func (h *CatalogHandler) GetSnapshot(ctx *gin.Context) {
	snapshot := h.catalogUseCase.GetSnapshot(ctx.Request.Context(), false)
	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    snapshot,
	})
}

// Refresh handles POST /api/catalog/refresh
func (h *CatalogHandler) Refresh(ctx *gin.Context) {
	result := h.catalogUseCase.Refresh(ctx.Request.Context())
	status := http.StatusOK
	if !result.Refreshed {
		status = http.StatusAccepted
	}
	ctx.JSON(status, gin.H{
		"success": true,
		"data":    result,
	})
}
