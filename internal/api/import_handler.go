package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/recipe-catalog-api/internal/config"
	"github.com/recipe-catalog-api/internal/models"
	"github.com/recipe-catalog-api/internal/service"
	"github.com/rs/zerolog"
)

// ImportHandler handles CSV import endpoints
type ImportHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewImportHandler creates a new ImportHandler
func NewImportHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *ImportHandler {
	return &ImportHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "import").Logger(),
	}
}

// CreateImport handles POST /v1/admin/import. The import runs synchronously:
// one uploaded file, one pass through the pipeline, one report in the
// response.
func (h *ImportHandler) CreateImport(c *gin.Context) {
	ctx := c.Request.Context()

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "csv file upload is required"})
		return
	}
	defer file.Close()

	if header.Size > h.cfg.Import.MaxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("file too large, max size is %d MiB", h.cfg.Import.MaxUploadSize/(1024*1024)),
		})
		return
	}
	if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != ".csv" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only .csv files are accepted"})
		return
	}

	policy := models.NormalizePolicy(c.PostForm("duplicate_policy"))

	uploadDir := h.cfg.Import.UploadDir
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		h.log.Error().Err(err).Msg("Failed to create upload directory")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save file"})
		return
	}

	filename := fmt.Sprintf("import_%s.csv", uuid.New().String()[:8])
	filePath := filepath.Join(uploadDir, filename)

	dst, err := os.Create(filePath)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to create file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save file"})
		return
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		h.log.Error().Err(err).Msg("Failed to copy file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save file"})
		return
	}
	dst.Close()

	run, err := h.services.Import.ImportCSV(ctx, filePath, header.Filename, policy)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.log.Error().Err(err).Str("file", header.Filename).Msg("Import failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "import failed, no rows were committed"})
		return
	}

	c.JSON(http.StatusOK, run)
}

// GetImportRun handles GET /v1/admin/imports/:id
func (h *ImportHandler) GetImportRun(c *gin.Context) {
	ctx := c.Request.Context()

	run, err := h.services.Import.GetRun(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "import run not found"})
			return
		}
		h.log.Error().Err(err).Str("run_id", c.Param("id")).Msg("Failed to get import run")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get import run"})
		return
	}

	c.JSON(http.StatusOK, run)
}

// ListImportRuns handles GET /v1/admin/imports
func (h *ImportHandler) ListImportRuns(c *gin.Context) {
	ctx := c.Request.Context()

	runs, err := h.services.Import.ListRuns(ctx, queryInt(c, "limit", 20))
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list import runs")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list import runs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"runs": runs, "count": len(runs)})
}
