package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/healthtwin-engine/internal/domain"
)

// Manager loads and validates the application configuration using Viper.
type Manager struct {
	viper  *viper.Viper
	config *domain.Config
}

// NewManager creates a new configuration manager
func NewManager() (*Manager, error) {
	m := &Manager{viper: viper.New()}
	if err := m.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return m, nil
}

// loadConfig loads configuration from various sources
func (m *Manager) loadConfig() error {
	// Set configuration file name and paths
	m.viper.SetConfigName("config")
	m.viper.SetConfigType("yaml")
	m.viper.AddConfigPath(".")
	m.viper.AddConfigPath("./config")
	m.viper.AddConfigPath("/etc/healthtwin/")

	// Set environment variable prefix and enable automatic env binding
	m.viper.SetEnvPrefix("HEALTHTWIN")
	m.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	m.viper.AutomaticEnv()

	// Set default values
	m.setDefaults()

	// Read configuration file (optional - will use defaults and env vars if not found)
	if err := m.viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using defaults and environment variables
	}

	// Unmarshal configuration into struct
	config := &domain.Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}

	m.config = config
	return nil
}

// setDefaults sets default configuration values
func (m *Manager) setDefaults() {
	// Application defaults
	m.viper.SetDefault("app.name", "healthtwin-engine")
	m.viper.SetDefault("app.version", "1.0.0")
	m.viper.SetDefault("app.environment", "development")

	// Server defaults
	m.viper.SetDefault("server.host", "0.0.0.0")
	m.viper.SetDefault("server.port", 8080)
	m.viper.SetDefault("server.read_timeout", "30s")
	m.viper.SetDefault("server.write_timeout", "30s")
	m.viper.SetDefault("server.idle_timeout", "120s")
	m.viper.SetDefault("server.tls_enabled", false)

	// Database defaults
	m.viper.SetDefault("database.host", "localhost")
	m.viper.SetDefault("database.port", 5432)
	m.viper.SetDefault("database.database", "healthtwin")
	m.viper.SetDefault("database.username", "postgres")
	m.viper.SetDefault("database.password", "")
	m.viper.SetDefault("database.ssl_mode", "disable")
	m.viper.SetDefault("database.max_open_conns", 25)
	m.viper.SetDefault("database.max_idle_conns", 5)
	m.viper.SetDefault("database.conn_max_lifetime", "5m")
	m.viper.SetDefault("database.auto_migrate", true)
	m.viper.SetDefault("database.migrations_path", "")

	// Redis defaults; an empty URL selects the in-process cache
	m.viper.SetDefault("redis.url", "")
	m.viper.SetDefault("redis.max_retries", 3)
	m.viper.SetDefault("redis.pool_size", 10)
	m.viper.SetDefault("redis.pool_timeout", "4s")

	// Cache defaults
	m.viper.SetDefault("cache.report_ttl", "24h")
	m.viper.SetDefault("cache.score_ttl", "24h")
	m.viper.SetDefault("cache.max_size", 1000)
	m.viper.SetDefault("cache.max_concurrency", 5)

	// Narrative service defaults
	m.viper.SetDefault("narrative.enabled", false)
	m.viper.SetDefault("narrative.base_url", "")
	m.viper.SetDefault("narrative.api_key", "")
	m.viper.SetDefault("narrative.timeout", "30s")
	m.viper.SetDefault("narrative.rate_limit", 2)
	m.viper.SetDefault("narrative.burst", 1)
	m.viper.SetDefault("narrative.retry_count", 3)
	m.viper.SetDefault("narrative.failure_threshold", 3)
	m.viper.SetDefault("narrative.cache_size", 256)
	m.viper.SetDefault("narrative.cache_ttl", "15m")

	// Logging defaults
	m.viper.SetDefault("logging.level", "info")
	m.viper.SetDefault("logging.format", "json")
	m.viper.SetDefault("logging.output", "stdout")

	// Simulation defaults
	m.viper.SetDefault("simulation.default_duration_weeks", 12)
	m.viper.SetDefault("simulation.max_duration_weeks", 52)
	m.viper.SetDefault("simulation.baseline_seed", 0)
}

// GetConfig returns the complete configuration
func (m *Manager) GetConfig() *domain.Config {
	return m.config
}

// GetServerConfig returns server configuration
func (m *Manager) GetServerConfig() *domain.ServerConfig {
	return &m.config.Server
}

// GetDatabaseConfig returns database configuration
func (m *Manager) GetDatabaseConfig() *domain.DatabaseConfig {
	return &m.config.Database
}

// GetNarrativeConfig returns narrative service configuration
func (m *Manager) GetNarrativeConfig() *domain.NarrativeConfig {
	return &m.config.Narrative
}

// Reload reloads the configuration
func (m *Manager) Reload() error {
	return m.loadConfig()
}

// Validate validates the configuration
func (m *Manager) Validate() error {
	config := m.config

	// Validate server configuration
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	// Validate database configuration
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if config.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}
	if config.Database.Username == "" {
		return fmt.Errorf("database username is required")
	}

	// Validate narrative configuration
	if config.Narrative.Enabled && config.Narrative.BaseURL == "" {
		return fmt.Errorf("narrative base URL is required when narrative is enabled")
	}

	// Validate simulation configuration
	if config.Simulation.DefaultDurationWeeks < 1 {
		return fmt.Errorf("invalid default simulation duration: %d weeks", config.Simulation.DefaultDurationWeeks)
	}
	if config.Simulation.MaxDurationWeeks < config.Simulation.DefaultDurationWeeks {
		return fmt.Errorf("max simulation duration %d is below the default %d",
			config.Simulation.MaxDurationWeeks, config.Simulation.DefaultDurationWeeks)
	}
	for category, weight := range config.Simulation.ScoringWeights {
		if weight < 0 || weight > 1 {
			return fmt.Errorf("invalid scoring weight for %s: %f", category, weight)
		}
	}

	// Validate logging configuration
	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(config.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	return nil
}

// GetDatabaseConnectionString returns a formatted database connection string
func (m *Manager) GetDatabaseConnectionString() string {
	db := m.config.Database
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		db.Host, db.Port, db.Username, db.Password, db.Database, db.SSLMode)
}

// GetRedisURL returns the Redis connection URL; empty means Redis is not
// configured and the in-process cache is used.
func (m *Manager) GetRedisURL() string {
	return m.config.Redis.URL
}

// IsProduction returns true if running in production mode
func (m *Manager) IsProduction() bool {
	return strings.ToLower(m.config.App.Environment) == "production"
}

// IsDevelopment returns true if running in development mode
func (m *Manager) IsDevelopment() bool {
	env := strings.ToLower(m.config.App.Environment)
	return env == "development" || env == "dev" || env == ""
}
