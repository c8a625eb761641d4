// Package api exposes the twin engine over HTTP: a gin REST surface for
// sessions, simulations, reports, and feedback, plus the WebSocket
// progression stream.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/healthtwin-engine/internal/domain"
	"github.com/healthtwin-engine/internal/feedback"
	"github.com/healthtwin-engine/internal/middleware"
	"github.com/healthtwin-engine/internal/service"
)

// HealthCheck reports readiness of a downstream dependency.
type HealthCheck func(ctx context.Context) error

// Server represents the HTTP server
type Server struct {
	configManager domain.ConfigManager
	twin          *service.TwinService
	feedback      feedback.Store
	readiness     HealthCheck
	logger        *logrus.Logger
	router        *gin.Engine
	server        *http.Server
}

// NewServer creates a new HTTP server instance. The feedback store and
// readiness check are optional; without them the feedback endpoints answer
// 503 and /ready only checks the process.
func NewServer(
	configManager domain.ConfigManager,
	twin *service.TwinService,
	feedbackStore feedback.Store,
	readiness HealthCheck,
	logger *logrus.Logger,
) *Server {
	cfg := configManager.GetConfig()

	// Set Gin mode based on environment
	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.AuditLogger())
	router.Use(middleware.SecurityHeaders())
	router.Use(corsMiddleware())

	server := &Server{
		configManager: configManager,
		twin:          twin,
		feedback:      feedbackStore,
		readiness:     readiness,
		logger:        logger,
		router:        router,
	}

	// Setup routes
	server.setupRoutes()

	return server
}

// Start starts the HTTP server and blocks until the context is cancelled,
// then drains connections for up to 30 seconds.
func (s *Server) Start(ctx context.Context) error {
	cfg := s.configManager.GetServerConfig()
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", addr).Info("HTTP server listening")
		var err error
		if cfg.TLSEnabled {
			err = s.server.ListenAndServeTLS(cfg.CertFile, cfg.KeyFile)
		} else {
			err = s.server.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("starting server: %w", err)
	case <-ctx.Done():
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.logger.Info("HTTP server draining connections")
	return s.server.Shutdown(shutdownCtx)
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	// Health check endpoints
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/ready", s.handleReady)

	// API v1 routes
	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/sessions", s.handleCreateSession)
		v1.GET("/sessions/:id", s.handleGetSession)

		twin := v1.Group("/twin")
		{
			twin.POST("/initialize", s.handleInitializeTwin)
			twin.POST("/virtual-test", s.handleVirtualTest)
			twin.POST("/simulate", s.handleSimulate)
			twin.POST("/simulate/csv", s.handleSimulateCSV)
			twin.POST("/score", s.handleScore)
			twin.POST("/report", s.handleReport)
			twin.POST("/compare", s.handleCompare)
			twin.POST("/medication-impact", s.handleMedicationImpact)
			twin.GET("/scenarios", s.handleListScenarios)
			twin.POST("/scenarios", s.handleCreateScenario)
		}

		v1.GET("/reports/:sessionID", s.handleListReports)
		v1.POST("/reports", s.handleUploadReport)
		v1.DELETE("/reports/:id", s.handleDeleteReport)

		v1.GET("/simulations/:sessionID", s.handleListSimulations)
		v1.DELETE("/simulations/:id", s.handleDeleteSimulation)

		v1.POST("/feedback", s.handleSubmitFeedback)
		v1.GET("/feedback/:sessionID", s.handleListFeedback)

		v1.GET("/ws/progression", s.handleProgressionStream)
	}
}

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now(),
		"version":   s.configManager.GetConfig().App.Version,
	})
}

// handleReady reports whether downstream dependencies answer.
func (s *Server) handleReady(c *gin.Context) {
	if s.readiness != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := s.readiness(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not_ready",
				"reason": err.Error(),
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// corsMiddleware adds CORS headers to responses
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-API-Key")
		c.Header("Access-Control-Expose-Headers", "Content-Length")
		c.Header("Access-Control-Allow-Credentials", "true")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
