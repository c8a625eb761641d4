package domain

import (
	"context"
	"time"
)

// SessionRepository persists patient sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *PatientSession) error
	Get(ctx context.Context, id string) (*PatientSession, error)
	Touch(ctx context.Context, id string, at time.Time) error
}

// ReportRepository persists uploaded medical reports.
type ReportRepository interface {
	Create(ctx context.Context, report *MedicalReport) error
	ListBySession(ctx context.Context, sessionID string) ([]ReportSummary, error)
	Delete(ctx context.Context, id int64) error
}

// SimulationRepository persists simulation results.
type SimulationRepository interface {
	Create(ctx context.Context, result *SimulationResult) error
	ListBySession(ctx context.Context, sessionID string) ([]SimulationResult, error)
	Delete(ctx context.Context, id string) error
}

// ScenarioRepository persists custom simulation scenarios.
type ScenarioRepository interface {
	Create(ctx context.Context, scenario *SimulationScenario) error
	ListBySession(ctx context.Context, sessionID string) ([]SimulationScenario, error)
	Delete(ctx context.Context, id string) error
}

// ReportCache caches built lab reports and scores keyed by snapshot hash.
type ReportCache interface {
	GetReport(ctx context.Context, key string) (*LabReport, bool)
	SetReport(ctx context.Context, key string, report *LabReport) error
	GetScore(ctx context.Context, key string) (*HealthScore, bool)
	SetScore(ctx context.Context, key string, score *HealthScore) error
}

// Narrator produces free-text analysis from an external narrative service.
// Implementations must degrade with an error rather than block; callers
// substitute deterministic fallbacks.
type Narrator interface {
	Narrate(ctx context.Context, prompt string) (string, error)
}

// ConfigManager defines the interface for configuration management
type ConfigManager interface {
	GetConfig() *Config
	GetServerConfig() *ServerConfig
	GetDatabaseConfig() *DatabaseConfig
	GetNarrativeConfig() *NarrativeConfig
	Reload() error
	Validate() error
	GetDatabaseConnectionString() string
	GetRedisURL() string
	IsProduction() bool
	IsDevelopment() bool
}
