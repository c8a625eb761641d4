package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/healthtwin-engine/internal/domain"
)

// ScenarioRepository handles custom simulation scenario persistence.
// Predefined scenarios never reach the database; every stored row is a
// custom scenario.
type ScenarioRepository struct {
	db  *pgxpool.Pool
	log *logrus.Logger
}

var _ domain.ScenarioRepository = (*ScenarioRepository)(nil)

// NewScenarioRepository creates a new scenario repository
func NewScenarioRepository(db *pgxpool.Pool, logger *logrus.Logger) *ScenarioRepository {
	return &ScenarioRepository{
		db:  db,
		log: logger,
	}
}

// Create inserts a custom simulation scenario
func (r *ScenarioRepository) Create(ctx context.Context, scenario *domain.SimulationScenario) error {
	query := `
		INSERT INTO simulation_scenarios (
			id, session_id, name, description, treatment, duration,
			expected_outcomes, risk_level, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	treatment, err := json.Marshal(scenario.Treatment)
	if err != nil {
		return fmt.Errorf("marshaling scenario treatment: %w", err)
	}
	outcomes, err := json.Marshal(scenario.ExpectedOutcomes)
	if err != nil {
		return fmt.Errorf("marshaling expected outcomes: %w", err)
	}

	_, err = r.db.Exec(ctx, query,
		scenario.ID,
		scenario.SessionID,
		scenario.Name,
		scenario.Description,
		treatment,
		scenario.Duration,
		outcomes,
		string(scenario.RiskLevel),
		scenario.CreatedAt,
	)

	if err != nil {
		r.log.WithFields(logrus.Fields{
			"scenario_id": scenario.ID,
			"session_id":  scenario.SessionID,
			"name":        scenario.Name,
			"error":       err,
		}).Error("Failed to create simulation scenario")
		return fmt.Errorf("creating simulation scenario: %w", err)
	}

	r.log.WithFields(logrus.Fields{
		"scenario_id": scenario.ID,
		"session_id":  scenario.SessionID,
		"name":        scenario.Name,
	}).Info("Simulation scenario created successfully")

	return nil
}

// ListBySession retrieves a session's custom scenarios, newest first
func (r *ScenarioRepository) ListBySession(ctx context.Context, sessionID string) ([]domain.SimulationScenario, error) {
	query := `
		SELECT id, session_id, name, description, treatment, duration,
			   expected_outcomes, risk_level, created_at
		FROM simulation_scenarios
		WHERE session_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, sessionID)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"session_id": sessionID,
			"error":      err,
		}).Error("Failed to list simulation scenarios")
		return nil, fmt.Errorf("listing simulation scenarios: %w", err)
	}
	defer rows.Close()

	var scenarios []domain.SimulationScenario
	for rows.Next() {
		var scenario domain.SimulationScenario
		var treatment, outcomes []byte
		var riskLevel string

		err := rows.Scan(
			&scenario.ID,
			&scenario.SessionID,
			&scenario.Name,
			&scenario.Description,
			&treatment,
			&scenario.Duration,
			&outcomes,
			&riskLevel,
			&scenario.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning simulation scenario row: %w", err)
		}

		if err := json.Unmarshal(treatment, &scenario.Treatment); err != nil {
			return nil, fmt.Errorf("unmarshaling scenario treatment: %w", err)
		}
		if err := json.Unmarshal(outcomes, &scenario.ExpectedOutcomes); err != nil {
			return nil, fmt.Errorf("unmarshaling expected outcomes: %w", err)
		}
		scenario.RiskLevel = domain.RiskLevel(riskLevel)
		scenario.IsCustom = true

		scenarios = append(scenarios, scenario)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating simulation scenario rows: %w", err)
	}

	return scenarios, nil
}

// Delete removes a custom simulation scenario
func (r *ScenarioRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM simulation_scenarios WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"scenario_id": id,
			"error":       err,
		}).Error("Failed to delete simulation scenario")
		return fmt.Errorf("deleting simulation scenario: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("simulation scenario not found: %w", domain.ErrNotFound)
	}

	r.log.WithFields(logrus.Fields{
		"scenario_id": id,
	}).Info("Simulation scenario deleted successfully")

	return nil
}
