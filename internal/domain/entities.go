package domain

import "time"

// PatientSession groups uploads, scenarios, and simulation results under
// one patient interaction.
type PatientSession struct {
	ID         string         `json:"id"`
	CreatedAt  time.Time      `json:"created_at"`
	LastActive time.Time      `json:"last_active"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// MedicalReport is an uploaded source document attached to a session.
type MedicalReport struct {
	ID         int64     `json:"id"`
	SessionID  string    `json:"session_id"`
	Filename   string    `json:"filename"`
	Content    string    `json:"content"`
	FileType   string    `json:"file_type"`
	UploadDate time.Time `json:"upload_date"`
}

// ReportSummary is the listing view of a medical report: content trimmed
// to a preview so listings stay small.
type ReportSummary struct {
	ID             int64     `json:"id"`
	Filename       string    `json:"filename"`
	FileType       string    `json:"file_type"`
	UploadDate     time.Time `json:"upload_date"`
	ContentPreview string    `json:"content_preview"`
}

// SimulationScenario is a named intervention with duration, expected
// outcomes, and a risk grade. Predefined scenarios have fixed IDs and
// IsCustom false; operator-created scenarios are persisted with IsCustom
// true and a generated ID.
type SimulationScenario struct {
	ID               string           `json:"id"`
	SessionID        string           `json:"session_id,omitempty"`
	Name             string           `json:"name"`
	Description      string           `json:"description"`
	Treatment        InterventionPlan `json:"treatment"`
	Duration         string           `json:"duration"` // e.g. "12 weeks"
	ExpectedOutcomes []string         `json:"expected_outcomes"`
	RiskLevel        RiskLevel        `json:"risk_level"`
	IsCustom         bool             `json:"is_custom"`
	CreatedAt        time.Time        `json:"created_at,omitempty"`
}

// SimulationResult is a persisted simulation run: the baseline and
// projected states plus the derived narratives.
type SimulationResult struct {
	ID              string    `json:"id"`
	SessionID       string    `json:"session_id"`
	ScenarioID      string    `json:"scenario_id,omitempty"`
	BaselineHealth  Snapshot  `json:"baseline_health"`
	ProjectedHealth Snapshot  `json:"projected_health"`
	Improvements    []string  `json:"improvements"`
	Recommendations []string  `json:"recommendations"`
	Risks           []string  `json:"risks"`
	CreatedAt       time.Time `json:"created_at"`
}
