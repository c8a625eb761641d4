// Package mcp exposes the twin engine over the Model Context Protocol so
// agent clients can drive simulations as tools. The server runs standalone:
// in-memory caching and SQLite feedback storage, no external databases.
package mcp

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/healthtwin-engine/internal/cache"
	"github.com/healthtwin-engine/internal/config"
	"github.com/healthtwin-engine/internal/domain"
	"github.com/healthtwin-engine/internal/feedback"
	"github.com/healthtwin-engine/internal/service"
	"github.com/healthtwin-engine/pkg/narrative"
)

// Server is a standalone MCP server exposing the twin engine as tools.
// Tool calls carry the full twin state in their arguments, so nothing
// but feedback needs to survive the process.
type Server struct {
	config        *config.LiteConfig
	mcpServer     *mcp.Server
	twin          *service.TwinService
	feedbackStore feedback.Store
	cache         *cache.Memory
	logger        *logrus.Logger
}

// Option is a functional option for Server.
type Option func(*Server) error

// WithFeedbackStore sets a custom feedback store.
func WithFeedbackStore(store feedback.Store) Option {
	return func(s *Server) error {
		s.feedbackStore = store
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *logrus.Logger) Option {
	return func(s *Server) error {
		s.logger = logger
		return nil
	}
}

// NewServer creates a new MCP server instance. It requires no external
// databases: report and score caching is in-memory and feedback goes to
// SQLite under the configured data directory.
func NewServer(cfg *config.LiteConfig, opts ...Option) (*Server, error) {
	// Create server with default logger
	server := &Server{
		config: cfg,
		logger: logrus.New(),
	}

	if cfg.LogFormat == "text" {
		server.logger.SetFormatter(&logrus.TextFormatter{})
	} else {
		server.logger.SetFormatter(&logrus.JSONFormatter{})
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		server.logger.SetLevel(level)
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	// Ensure data directory exists
	if err := cfg.EnsureDataDir(); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	// Initialize memory cache
	memCache, err := cache.NewMemory(domain.CacheConfig{
		ReportTTL: cfg.CacheTTL,
		ScoreTTL:  cfg.CacheTTL,
		MaxSize:   cfg.CacheMaxItems,
	}, server.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create memory cache: %w", err)
	}
	server.cache = memCache

	// Initialize feedback store if not provided
	if server.feedbackStore == nil {
		store, err := feedback.NewSQLiteStore(cfg.FeedbackDBPath())
		if err != nil {
			return nil, fmt.Errorf("failed to create feedback store: %w", err)
		}
		server.feedbackStore = store
	}

	// Narration is optional; without a URL the engine falls back to
	// deterministic analysis text.
	var narrator domain.Narrator
	if cfg.NarrativeURL != "" {
		narrator = narrative.NewClient(narrative.Config{
			BaseURL: cfg.NarrativeURL,
			APIKey:  cfg.NarrativeAPIKey,
		}, server.logger)
	}

	// No session, report, or simulation repositories: results are
	// returned to the caller instead of persisted.
	server.twin = service.NewTwinService(server.logger, nil, nil, nil, nil, memCache, narrator)

	server.mcpServer = mcp.NewServer(&mcp.Implementation{
		Name:    "healthtwin-mcp-server",
		Version: "v0.1.0",
	}, nil)
	server.registerTools()

	server.logger.Info("MCP server initialized")
	return server, nil
}

// registerTools registers the twin tools with the MCP SDK.
func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name: "twin_generate_baseline",
		Description: "Generate a population-based physiological baseline for a patient profile. " +
			"Returns the baseline parameters with an annotated lab report and recommendations.",
	}, s.handleGenerateBaseline)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name: "twin_project_intervention",
		Description: "Project an intervention plan (exercise, diet, medication, sleep, lifestyle) " +
			"onto a baseline over a number of weeks. Returns before and after lab reports with improvements.",
	}, s.handleProjectIntervention)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "twin_weekly_simulation",
		Description: "Replay measured weekly CSV data on top of a baseline, producing a week-by-week progression.",
	}, s.handleWeeklySimulation)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "twin_virtual_test",
		Description: "Run a virtual lab test against the current twin state. Use test_type \"comprehensive\" for the full report or a panel name for a single panel.",
	}, s.handleVirtualTest)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "twin_score",
		Description: "Compute the weighted 0-100 health score for a physiological snapshot.",
	}, s.handleScore)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "twin_report",
		Description: "Render a reference-annotated lab report for a snapshot and patient profile.",
	}, s.handleReport)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "twin_compare",
		Description: "Compare two twin states and report per-parameter changes and improvements.",
	}, s.handleCompare)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "twin_medication_impact",
		Description: "Predict how a medication shifts the twin's parameters from population pharmacology.",
	}, s.handleMedicationImpact)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "twin_scenarios",
		Description: "List the predefined intervention scenarios.",
	}, s.handleScenarios)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "twin_submit_feedback",
		Description: "Record how a simulation's projection compared with the observed outcome.",
	}, s.handleSubmitFeedback)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "twin_query_feedback",
		Description: "Look up recorded feedback for a session and simulation pair.",
	}, s.handleQueryFeedback)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "twin_list_feedback",
		Description: "List recorded outcome feedback, newest first.",
	}, s.handleListFeedback)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "twin_export_feedback",
		Description: "Export all saved feedback to a JSON file for backup.",
	}, s.handleExportFeedback)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "twin_import_feedback",
		Description: "Import feedback from a JSON backup file. Skips duplicates.",
	}, s.handleImportFeedback)

	s.logger.Info("Registered MCP tools")
}

// Start runs the server until the context is canceled or the transport
// closes. The stdio transport serves the attached client; the http
// transport serves the streamable endpoint on the configured port.
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithField("transport", s.config.Transport).Info("Starting HealthTwin MCP server")

	if s.config.Transport == "http" {
		handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
			return s.mcpServer
		}, nil)
		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", s.config.HTTPPort),
			Handler: handler,
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			return fmt.Errorf("MCP http server failed: %w", err)
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		}
	}

	if err := s.mcpServer.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}

// Close cleans up server resources.
func (s *Server) Close() error {
	if s.feedbackStore != nil {
		if err := s.feedbackStore.Close(); err != nil {
			s.logger.WithError(err).Error("Failed to close feedback store")
		}
	}
	return nil
}
