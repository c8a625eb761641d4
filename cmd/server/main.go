// Package main provides the entry point for the HealthTwin engine REST server.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/healthtwin-engine/internal/api"
	"github.com/healthtwin-engine/internal/cache"
	"github.com/healthtwin-engine/internal/config"
	"github.com/healthtwin-engine/internal/database"
	"github.com/healthtwin-engine/internal/domain"
	"github.com/healthtwin-engine/internal/feedback"
	"github.com/healthtwin-engine/internal/repository"
	"github.com/healthtwin-engine/internal/service"
	"github.com/healthtwin-engine/pkg/narrative"
)

func main() {
	// Load configuration
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	cfg := configManager.GetConfig()
	logger := newLogger(cfg.Logging)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	db, err := database.NewConnection(ctx, cfg.Database, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := runMigrations(cfg, logger); err != nil {
			logger.WithError(err).Fatal("Failed to run migrations")
		}
	}

	// Repositories
	sessions := repository.NewSessionRepository(db.Pool, logger)
	reports := repository.NewReportRepository(db.Pool, logger)
	simulations := repository.NewSimulationRepository(db.Pool, logger)
	scenarios := repository.NewScenarioRepository(db.Pool, logger)

	// Report cache: Redis when a URL is configured, in-process otherwise
	var reportCache domain.ReportCache
	if cfg.Redis.URL != "" {
		redisCache, err := cache.NewRedis(cfg.Redis, cfg.Cache, logger)
		if err != nil {
			logger.WithError(err).Fatal("Failed to connect to Redis")
		}
		defer redisCache.Close()
		reportCache = redisCache
	} else {
		memCache, err := cache.NewMemory(cfg.Cache, logger)
		if err != nil {
			logger.WithError(err).Fatal("Failed to build memory cache")
		}
		reportCache = memCache
	}

	// Narrative service client (optional)
	var narrator domain.Narrator
	if cfg.Narrative.Enabled {
		narrator = narrative.NewClient(narrative.Config{
			BaseURL:          cfg.Narrative.BaseURL,
			APIKey:           cfg.Narrative.APIKey,
			Timeout:          cfg.Narrative.Timeout,
			RateLimit:        int(cfg.Narrative.RateLimit),
			Burst:            cfg.Narrative.Burst,
			MaxRetries:       cfg.Narrative.RetryCount,
			FailureThreshold: cfg.Narrative.FailureThreshold,
			CacheSize:        cfg.Narrative.CacheSize,
			CacheTTL:         cfg.Narrative.CacheTTL,
		}, logger)
	}

	twin := service.NewTwinService(logger, sessions, reports, simulations, scenarios, reportCache, narrator)

	// Outcome feedback store shares the engine database
	feedbackStore, err := feedback.NewPostgresStoreFromURL(database.URL(cfg.Database))
	if err != nil {
		logger.WithError(err).Fatal("Failed to open feedback store")
	}
	defer feedbackStore.Close()

	server := api.NewServer(configManager, twin, feedbackStore, db.Health, logger)

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, gracefully shutting down...")
		cancel()
	}()

	logger.WithFields(logrus.Fields{
		"host":    cfg.Server.Host,
		"port":    cfg.Server.Port,
		"version": cfg.App.Version,
	}).Info("Starting HealthTwin engine")

	if err := server.Start(ctx); err != nil {
		logger.WithError(err).Fatal("Server failed")
	}

	logger.Info("Server stopped")
}

// newLogger builds the process logger from the logging configuration.
func newLogger(cfg domain.LoggingConfig) *logrus.Logger {
	logger := logrus.New()

	if level, err := logrus.ParseLevel(cfg.Level); err == nil {
		logger.SetLevel(level)
	}

	if cfg.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	if cfg.Output == "stderr" {
		logger.SetOutput(os.Stderr)
	}

	return logger
}

// runMigrations applies pending schema migrations, preferring an on-disk
// directory when one is configured over the embedded set.
func runMigrations(cfg *domain.Config, logger *logrus.Logger) error {
	databaseURL := database.URL(cfg.Database)

	var runner *database.MigrationRunner
	var err error
	if cfg.Database.MigrationsPath != "" {
		runner, err = database.NewMigrationRunnerFromPath(databaseURL, cfg.Database.MigrationsPath, logger)
	} else {
		runner, err = database.NewMigrationRunner(databaseURL, logger)
	}
	if err != nil {
		return err
	}
	defer runner.Close()

	return runner.Up()
}
