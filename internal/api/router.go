package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/recipe-catalog-api/internal/config"
	"github.com/recipe-catalog-api/internal/service"
	"github.com/rs/zerolog"
)

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())

	// Handlers
	recipeHandler := NewRecipeHandler(services, log)
	importHandler := NewImportHandler(services, cfg, log)
	repairHandler := NewRepairHandler(services, log)
	exportHandler := NewExportHandler(services, log)

	// Health check
	router.GET("/health", healthCheck)
	router.GET("/metrics", metricsHandler(services))

	// API v1
	v1 := router.Group("/v1")
	{
		recipes := v1.Group("/recipes")
		{
			recipes.GET("", recipeHandler.List)
			recipes.GET("/:slug", recipeHandler.GetBySlug)
			recipes.POST("", recipeHandler.Create)
			recipes.PUT("/:id", recipeHandler.Update)
			recipes.DELETE("/:id", recipeHandler.Delete)
		}

		// Admin surface: authentication is expected to be attached by a
		// gateway in front of this service.
		admin := v1.Group("/admin")
		{
			admin.POST("/import", importHandler.CreateImport)
			admin.GET("/imports", importHandler.ListImportRuns)
			admin.GET("/imports/:id", importHandler.GetImportRun)
			admin.GET("/repair/scan", repairHandler.ScanIssues)
			admin.POST("/repair", repairHandler.ExecuteRepair)
			admin.GET("/export", exportHandler.StreamExport)
		}
	}

	return router
}

// healthCheck returns the health status
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "recipe-catalog-api",
	})
}

// metricsHandler returns catalog size metrics
func metricsHandler(services *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		total, _ := services.Catalog.Count(ctx)
		byCategory, _ := services.Catalog.CountByCategory(ctx)

		c.JSON(http.StatusOK, gin.H{
			"recipes": gin.H{
				"total":       total,
				"by_category": byCategory,
			},
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
