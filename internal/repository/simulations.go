package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/healthtwin-engine/internal/domain"
)

// SimulationRepository handles simulation result persistence
type SimulationRepository struct {
	db  *pgxpool.Pool
	log *logrus.Logger
}

var _ domain.SimulationRepository = (*SimulationRepository)(nil)

// NewSimulationRepository creates a new simulation result repository
func NewSimulationRepository(db *pgxpool.Pool, logger *logrus.Logger) *SimulationRepository {
	return &SimulationRepository{
		db:  db,
		log: logger,
	}
}

// Create inserts a simulation result
func (r *SimulationRepository) Create(ctx context.Context, result *domain.SimulationResult) error {
	query := `
		INSERT INTO simulation_results (
			id, session_id, scenario_id, baseline_health, projected_health,
			improvements, recommendations, risks, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	baseline, err := json.Marshal(result.BaselineHealth)
	if err != nil {
		return fmt.Errorf("marshaling baseline health: %w", err)
	}
	projected, err := json.Marshal(result.ProjectedHealth)
	if err != nil {
		return fmt.Errorf("marshaling projected health: %w", err)
	}
	improvements, err := json.Marshal(result.Improvements)
	if err != nil {
		return fmt.Errorf("marshaling improvements: %w", err)
	}
	recommendations, err := json.Marshal(result.Recommendations)
	if err != nil {
		return fmt.Errorf("marshaling recommendations: %w", err)
	}
	risks, err := json.Marshal(result.Risks)
	if err != nil {
		return fmt.Errorf("marshaling risks: %w", err)
	}

	_, err = r.db.Exec(ctx, query,
		result.ID,
		result.SessionID,
		result.ScenarioID,
		baseline,
		projected,
		improvements,
		recommendations,
		risks,
		result.CreatedAt,
	)

	if err != nil {
		r.log.WithFields(logrus.Fields{
			"result_id":  result.ID,
			"session_id": result.SessionID,
			"error":      err,
		}).Error("Failed to create simulation result")
		return fmt.Errorf("creating simulation result: %w", err)
	}

	r.log.WithFields(logrus.Fields{
		"result_id":  result.ID,
		"session_id": result.SessionID,
	}).Info("Simulation result created successfully")

	return nil
}

// ListBySession retrieves a session's simulation results, newest first
func (r *SimulationRepository) ListBySession(ctx context.Context, sessionID string) ([]domain.SimulationResult, error) {
	query := `
		SELECT id, session_id, scenario_id, baseline_health, projected_health,
			   improvements, recommendations, risks, created_at
		FROM simulation_results
		WHERE session_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, sessionID)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"session_id": sessionID,
			"error":      err,
		}).Error("Failed to list simulation results")
		return nil, fmt.Errorf("listing simulation results: %w", err)
	}
	defer rows.Close()

	var results []domain.SimulationResult
	for rows.Next() {
		var result domain.SimulationResult
		var baseline, projected, improvements, recommendations, risks []byte

		err := rows.Scan(
			&result.ID,
			&result.SessionID,
			&result.ScenarioID,
			&baseline,
			&projected,
			&improvements,
			&recommendations,
			&risks,
			&result.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning simulation result row: %w", err)
		}

		if err := json.Unmarshal(baseline, &result.BaselineHealth); err != nil {
			return nil, fmt.Errorf("unmarshaling baseline health: %w", err)
		}
		if err := json.Unmarshal(projected, &result.ProjectedHealth); err != nil {
			return nil, fmt.Errorf("unmarshaling projected health: %w", err)
		}
		if err := json.Unmarshal(improvements, &result.Improvements); err != nil {
			return nil, fmt.Errorf("unmarshaling improvements: %w", err)
		}
		if err := json.Unmarshal(recommendations, &result.Recommendations); err != nil {
			return nil, fmt.Errorf("unmarshaling recommendations: %w", err)
		}
		if err := json.Unmarshal(risks, &result.Risks); err != nil {
			return nil, fmt.Errorf("unmarshaling risks: %w", err)
		}

		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating simulation result rows: %w", err)
	}

	return results, nil
}

// Delete removes a simulation result
func (r *SimulationRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM simulation_results WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"result_id": id,
			"error":     err,
		}).Error("Failed to delete simulation result")
		return fmt.Errorf("deleting simulation result: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("simulation result not found: %w", domain.ErrNotFound)
	}

	r.log.WithFields(logrus.Fields{
		"result_id": id,
	}).Info("Simulation result deleted successfully")

	return nil
}
