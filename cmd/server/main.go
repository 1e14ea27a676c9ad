package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"resumatch/internal/analyzer"
	"resumatch/internal/api/middleware"
	"resumatch/internal/api/routes"
	"resumatch/internal/artifacts"
	"resumatch/internal/background"
	"resumatch/internal/config"
	"resumatch/internal/logging"
	"resumatch/pkg/utils"

	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logging
	if err := logging.InitializeLogging(cfg); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.CloseLogging()

	logger := logging.GetGlobalLogger()
	logger.Info("Starting Resumatch Scoring Engine")

	// Optional Redis cache: the service degrades to in-process caching
	// when Redis is disabled or unreachable
	var redisClient *utils.RedisClient
	if cfg.Redis.Enabled {
		redisClient = utils.NewRedisClient(cfg)
		pingCtx, cancel := context.WithTimeout(context.Background(), cfg.Redis.Timeout)
		if err := redisClient.Ping(pingCtx); err != nil {
			logger.Warn("Redis unreachable, continuing without cross-process cache", map[string]interface{}{
				"error": err.Error(),
			})
			redisClient.Close()
			redisClient = nil
		}
		cancel()
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Analysis coordinator
	coordinator := analyzer.New(cfg, redisClient)

	// Artifact store for enhancement results
	artifactStore := artifacts.NewMemoryStore()

	// Enhancement pipeline
	logger.Info("Initializing enhancement pipeline")
	pipeline := background.NewPipeline(cfg, coordinator.Store(), background.NewInMemoryJobStore(), artifactStore)
	ctx := context.Background()
	if err := pipeline.Start(ctx); err != nil {
		logger.Fatal("Failed to start enhancement pipeline", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Per-client rate limiter
	limiter := middleware.NewRateLimiter(cfg)

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true

	// Setup routes
	routes.SetupRoutes(e, cfg, coordinator, pipeline, artifactStore, limiter)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		logger.Info("Stopping enhancement pipeline...")
		if err := pipeline.Stop(); err != nil {
			logger.Error("Error stopping pipeline", map[string]interface{}{
				"error": err.Error(),
			})
		}

		limiter.Stop()

		logger.Info("Stopping HTTP server...")
		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error shutting down server", map[string]interface{}{
				"error": err.Error(),
			})
		}

		logger.Info("Server shutdown complete")
	}()

	// Start server
	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", map[string]interface{}{
		"address": address,
	})

	if err := e.Start(address); err != nil {
		logger.Fatal("Server failed to start", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
