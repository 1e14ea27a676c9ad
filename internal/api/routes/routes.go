package routes

import (
	"net/http"

	"resumatch/internal/analyzer"
	"resumatch/internal/api/handlers"
	"resumatch/internal/api/middleware"
	"resumatch/internal/artifacts"
	"resumatch/internal/background"
	"resumatch/internal/config"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

// SetupRoutes configures all API routes
func SetupRoutes(e *echo.Echo, cfg *config.Config, coordinator *analyzer.Coordinator, pipeline *background.Pipeline, artifactStore artifacts.Store, limiter *middleware.RateLimiter) {
	// Global middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CORSConfig())
	e.Use(middleware.RequestValidation(cfg.Extractor.MaxFileSize))
	e.Use(middleware.TimeoutConfig(cfg.Server.ReadTimeout))

	// Health check routes
	health := e.Group("/health")
	{
		health.GET("", handlers.HealthHandler)
		health.GET("/ready", handlers.ReadinessHandler)
		health.GET("/live", handlers.LivenessHandler)
	}

	// Status route
	e.GET("/status", handlers.StatusHandler)

	// API v1 routes
	v1 := e.Group("/api/v1")
	{
		v1.POST("/analyze", handlers.AnalyzeHandler(cfg, coordinator), limiter.Middleware())

		// Enhancement job routes
		enhance := v1.Group("/enhance")
		{
			enhance.POST("", handlers.EnhanceHandler(pipeline), limiter.Middleware())
			enhance.GET("", handlers.EnhanceListHandler(pipeline))
			enhance.GET("/:id", handlers.EnhanceStatusHandler(pipeline))
			enhance.GET("/:id/artifact", handlers.EnhanceArtifactHandler(pipeline, artifactStore))
			enhance.DELETE("/:id", handlers.EnhanceCancelHandler(pipeline))
		}
	}

	// Root route
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"service": "Resumatch Scoring Engine",
			"version": "1.0.0",
			"status":  "running",
		})
	})
}
