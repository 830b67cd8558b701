package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/recipe-catalog-api/internal/service"
	"github.com/rs/zerolog"
)

// ExportHandler handles catalog export endpoints
type ExportHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(services *service.Services, log zerolog.Logger) *ExportHandler {
	return &ExportHandler{
		services: services,
		log:      log.With().Str("handler", "export").Logger(),
	}
}

// StreamExport handles GET /v1/admin/export
func (h *ExportHandler) StreamExport(c *gin.Context) {
	ctx := c.Request.Context()

	format := c.Query("format")
	if format == "" {
		format = "csv"
	}

	if err := h.services.Export.StreamRecipes(ctx, c.Writer, format); err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		// Headers may already be written; log and drop the connection.
		h.log.Error().Err(err).Str("format", format).Msg("Export failed")
		c.Abort()
	}
}
