package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/recipe-catalog-api/internal/models"
	"github.com/recipe-catalog-api/internal/service"
	"github.com/rs/zerolog"
)

// RepairHandler handles data-repair endpoints
type RepairHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewRepairHandler creates a new RepairHandler
func NewRepairHandler(services *service.Services, log zerolog.Logger) *RepairHandler {
	return &RepairHandler{
		services: services,
		log:      log.With().Str("handler", "repair").Logger(),
	}
}

// ScanIssues handles GET /v1/admin/repair/scan
func (h *RepairHandler) ScanIssues(c *gin.Context) {
	ctx := c.Request.Context()

	summary, err := h.services.Repair.ScanIssues(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("Repair scan failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "repair scan failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_recipes": summary.TotalRecipes,
		"counts":        summary.Counts(),
		"issues":        summary,
	})
}

// ExecuteRepair handles POST /v1/admin/repair
func (h *RepairHandler) ExecuteRepair(c *gin.Context) {
	ctx := c.Request.Context()

	var req models.RepairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid repair request body"})
		return
	}

	// scan_issues is read-only and also available as GET /repair/scan
	if req.Action == models.RepairActionScan {
		h.ScanIssues(c)
		return
	}

	result, err := h.services.Repair.Execute(ctx, &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.log.Error().Err(err).Str("action", req.Action).Msg("Repair action failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "repair action failed, no changes were applied"})
		return
	}

	c.JSON(http.StatusOK, result)
}
