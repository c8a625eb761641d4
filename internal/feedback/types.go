// Package feedback provides outcome feedback storage for simulations.
// It stores how projected outcomes compared with observed results so the
// projection models can be reviewed over time.
package feedback

import (
	"context"
	"io"
	"time"
)

// Outcome represents how an observed result compared with its projection.
type Outcome string

const (
	OutcomeBetterThanProjected Outcome = "Better Than Projected"
	OutcomeAsProjected         Outcome = "As Projected"
	OutcomeWorseThanProjected  Outcome = "Worse Than Projected"
	OutcomePlanNotFollowed     Outcome = "Plan Not Followed"
)

// OutcomeFeedback represents a clinician's assessment of a simulation outcome.
type OutcomeFeedback struct {
	ID               int64     `json:"id,omitempty"`
	SessionID        string    `json:"session_id"`                  // Owning patient session
	SimulationID     string    `json:"simulation_id"`               // Simulation being assessed
	ScenarioName     string    `json:"scenario_name,omitempty"`     // Scenario that was run
	ProjectedScore   int       `json:"projected_score"`             // Score the engine projected
	ObservedScore    int       `json:"observed_score"`              // Score observed at follow-up
	Outcome          Outcome   `json:"outcome"`                     // Assessment of the projection
	AdherencePercent int       `json:"adherence_percent,omitempty"` // How closely the plan was followed
	Notes            string    `json:"notes,omitempty"`             // Clinician notes
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Store defines the interface for outcome feedback storage operations.
type Store interface {
	// Save stores or updates feedback for a simulation outcome.
	// If feedback for the same session+simulation exists, it will be updated.
	Save(ctx context.Context, feedback *OutcomeFeedback) error

	// Get retrieves the feedback recorded for a simulation.
	// Returns nil without error when none exists.
	Get(ctx context.Context, sessionID string, simulationID string) (*OutcomeFeedback, error)

	// List returns all feedback entries with pagination, newest first.
	List(ctx context.Context, limit, offset int) ([]*OutcomeFeedback, error)

	// ListBySession returns feedback for one session, newest first.
	ListBySession(ctx context.Context, sessionID string, limit int) ([]*OutcomeFeedback, error)

	// Count returns the total number of feedback entries.
	Count(ctx context.Context) (int64, error)

	// Delete removes a feedback entry by ID.
	Delete(ctx context.Context, id int64) error

	// ExportJSON exports all feedback to a JSON writer.
	ExportJSON(ctx context.Context, writer io.Writer) error

	// ImportJSON imports feedback from a JSON reader.
	// Returns the number of imported and skipped entries.
	ImportJSON(ctx context.Context, reader io.Reader) (imported int, skipped int, err error)

	// Close closes the store and releases resources.
	Close() error
}

// FeedbackExport represents the JSON export format.
type FeedbackExport struct {
	Version    string             `json:"version"`
	ExportedAt time.Time          `json:"exported_at"`
	Count      int                `json:"count"`
	Feedback   []*OutcomeFeedback `json:"feedback"`
}
