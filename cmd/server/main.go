package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Tatch-AI/harper-memory-service/internal/enrich"
	"github.com/Tatch-AI/harper-memory-service/internal/narrative"
	"github.com/Tatch-AI/harper-memory-service/internal/pipeline"
	"github.com/Tatch-AI/harper-memory-service/internal/zep"
	"github.com/Tatch-AI/harper-memory-service/pkg/config"
	"github.com/Tatch-AI/harper-memory-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	if err := logger.Init(os.Getenv("ENV")); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting HTTP API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Initialize dependencies
	zepClient := zep.NewClient(cfg.ZepAPIKey,
		zep.WithBaseURL(cfg.ZepAPIURL),
		zep.WithTimeout(cfg.ZepTimeout),
	)

	var narrator pipeline.NarrativeGenerator
	if cfg.NarrativeEnabled() {
		narrator = narrative.NewGenerator(cfg.OpenAIAPIKey, cfg.NarrativeModel)
		log.Info("Narrative generation enabled", zap.String("model", cfg.NarrativeModel))
	}

	svc, err := pipeline.NewService(zepClient, enrich.NewEnricher(), narrator)
	if err != nil {
		log.Fatal("Failed to build pipeline", zap.Error(err))
	}

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(ginLogger(log))
	router.Use(gin.Recovery())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes
	api := router.Group("/api")
	{
		// Enriched business profile for a user
		api.GET("/users/:id/profile", func(c *gin.Context) {
			userID := c.Param("id")
			ctx := c.Request.Context()

			if _, err := uuid.Parse(userID); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "user id must be a UUID"})
				return
			}

			state, err := svc.Run(ctx, userID)
			if err != nil {
				log.Error("Pipeline execution failed", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run pipeline"})
				return
			}

			if state.Status != pipeline.StatusSuccess {
				// Upstream fetch failed; surface it, do not retry
				c.JSON(http.StatusBadGateway, state)
				return
			}

			c.JSON(http.StatusOK, state)
		})
	}

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started", zap.String("port", cfg.Port))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

// ginLogger is a custom logger middleware for Gin
func ginLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		log.Info("HTTP Request",
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
		)
	}
}
