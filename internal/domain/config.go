package domain

import (
	"time"
)

// Config represents the main application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Narrative  NarrativeConfig  `mapstructure:"narrative"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Simulation SimulationConfig `mapstructure:"simulation"`
}

// AppConfig represents application identity configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"` // "development", "staging", "production"
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	TLSEnabled   bool          `mapstructure:"tls_enabled"`
	CertFile     string        `mapstructure:"cert_file"`
	KeyFile      string        `mapstructure:"key_file"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Database        string        `mapstructure:"database"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
	MigrationsPath  string        `mapstructure:"migrations_path"`
}

// RedisConfig represents the optional Redis cache backend. An empty URL
// means Redis is not configured and the in-process cache is used instead.
type RedisConfig struct {
	URL         string        `mapstructure:"url"`
	MaxRetries  int           `mapstructure:"max_retries"`
	PoolSize    int           `mapstructure:"pool_size"`
	PoolTimeout time.Duration `mapstructure:"pool_timeout"`
}

// CacheConfig represents report/score cache behavior
type CacheConfig struct {
	ReportTTL      time.Duration `mapstructure:"report_ttl"`
	ScoreTTL       time.Duration `mapstructure:"score_ttl"`
	MaxSize        int           `mapstructure:"max_size"`        // in-process LRU capacity
	MaxConcurrency int           `mapstructure:"max_concurrency"` // concurrent loader builds
}

// NarrativeConfig represents the external narrative (LLM) service client
type NarrativeConfig struct {
	BaseURL          string        `mapstructure:"base_url"`
	APIKey           string        `mapstructure:"api_key"`
	Timeout          time.Duration `mapstructure:"timeout"`
	RateLimit        float64       `mapstructure:"rate_limit"` // requests per second
	Burst            int           `mapstructure:"burst"`
	RetryCount       int           `mapstructure:"retry_count"`
	FailureThreshold uint32        `mapstructure:"failure_threshold"` // breaker trip count
	CacheSize        int           `mapstructure:"cache_size"`
	CacheTTL         time.Duration `mapstructure:"cache_ttl"`
	Enabled          bool          `mapstructure:"enabled"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "text"
	Output string `mapstructure:"output"`
}

// SimulationConfig represents engine defaults. Scoring weights here are
// informational for operators; the engine constants are canonical.
type SimulationConfig struct {
	DefaultDurationWeeks int                `mapstructure:"default_duration_weeks"`
	MaxDurationWeeks     int                `mapstructure:"max_duration_weeks"`
	ScoringWeights       map[string]float64 `mapstructure:"scoring_weights"`
	BaselineSeed         int64              `mapstructure:"baseline_seed"` // 0 = time-seeded
}
