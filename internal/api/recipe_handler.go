package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/recipe-catalog-api/internal/models"
	"github.com/recipe-catalog-api/internal/service"
	"github.com/rs/zerolog"
)

// RecipeHandler handles catalog browsing and CRUD endpoints
type RecipeHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewRecipeHandler creates a new RecipeHandler
func NewRecipeHandler(services *service.Services, log zerolog.Logger) *RecipeHandler {
	return &RecipeHandler{
		services: services,
		log:      log.With().Str("handler", "recipe").Logger(),
	}
}

func queryInt(c *gin.Context, key string, def int) int {
	if v := c.Query(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// List handles GET /v1/recipes
func (h *RecipeHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := models.ListFilter{
		Category: c.Query("category"),
		Status:   c.Query("status"),
		Search:   c.Query("q"),
		Featured: c.Query("featured") == "true",
		Limit:    queryInt(c, "limit", 50),
		Offset:   queryInt(c, "offset", 0),
	}

	recipes, err := h.services.Catalog.List(ctx, filter)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.log.Error().Err(err).Msg("Failed to list recipes")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list recipes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": recipes, "count": len(recipes)})
}

// GetBySlug handles GET /v1/recipes/:slug
func (h *RecipeHandler) GetBySlug(c *gin.Context) {
	ctx := c.Request.Context()

	recipe, err := h.services.Catalog.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
			return
		}
		h.log.Error().Err(err).Str("slug", c.Param("slug")).Msg("Failed to get recipe")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get recipe"})
		return
	}

	c.JSON(http.StatusOK, recipe)
}

// Create handles POST /v1/recipes
func (h *RecipeHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var recipe models.Recipe
	if err := c.ShouldBindJSON(&recipe); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe body"})
		return
	}

	if err := h.services.Catalog.Create(ctx, &recipe); err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.log.Error().Err(err).Msg("Failed to create recipe")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create recipe"})
		return
	}

	c.JSON(http.StatusCreated, recipe)
}

// Update handles PUT /v1/recipes/:id
func (h *RecipeHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	var recipe models.Recipe
	if err := c.ShouldBindJSON(&recipe); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe body"})
		return
	}

	if err := h.services.Catalog.Update(ctx, id, &recipe); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		case errors.Is(err, service.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.log.Error().Err(err).Int64("id", id).Msg("Failed to update recipe")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update recipe"})
		}
		return
	}

	c.JSON(http.StatusOK, recipe)
}

// Delete handles DELETE /v1/recipes/:id
func (h *RecipeHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	if err := h.services.Catalog.Delete(ctx, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
			return
		}
		h.log.Error().Err(err).Int64("id", id).Msg("Failed to delete recipe")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete recipe"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
