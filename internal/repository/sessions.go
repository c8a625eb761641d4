package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/healthtwin-engine/internal/domain"
)

// SessionRepository handles patient session persistence
type SessionRepository struct {
	db  *pgxpool.Pool
	log *logrus.Logger
}

var _ domain.SessionRepository = (*SessionRepository)(nil)

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *pgxpool.Pool, logger *logrus.Logger) *SessionRepository {
	return &SessionRepository{
		db:  db,
		log: logger,
	}
}

// Create inserts a new patient session
func (r *SessionRepository) Create(ctx context.Context, session *domain.PatientSession) error {
	query := `
		INSERT INTO patient_sessions (id, created_at, last_active, metadata)
		VALUES ($1, $2, $3, $4)`

	var metadata []byte
	if session.Metadata != nil {
		var err error
		metadata, err = json.Marshal(session.Metadata)
		if err != nil {
			return fmt.Errorf("marshaling session metadata: %w", err)
		}
	}

	_, err := r.db.Exec(ctx, query,
		session.ID,
		session.CreatedAt,
		session.LastActive,
		metadata,
	)

	if err != nil {
		r.log.WithFields(logrus.Fields{
			"session_id": session.ID,
			"error":      err,
		}).Error("Failed to create patient session")
		return fmt.Errorf("creating patient session: %w", err)
	}

	r.log.WithFields(logrus.Fields{
		"session_id": session.ID,
	}).Info("Patient session created successfully")

	return nil
}

// Get retrieves a patient session by ID. A missing session is not an error;
// it returns (nil, nil) and the caller decides how to report it.
func (r *SessionRepository) Get(ctx context.Context, id string) (*domain.PatientSession, error) {
	query := `
		SELECT id, created_at, last_active, metadata
		FROM patient_sessions
		WHERE id = $1`

	var session domain.PatientSession
	var metadata []byte

	err := r.db.QueryRow(ctx, query, id).Scan(
		&session.ID,
		&session.CreatedAt,
		&session.LastActive,
		&metadata,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.log.WithFields(logrus.Fields{
			"session_id": id,
			"error":      err,
		}).Error("Failed to get patient session")
		return nil, fmt.Errorf("getting patient session: %w", err)
	}

	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &session.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshaling session metadata: %w", err)
		}
	}

	return &session, nil
}

// Touch updates a session's last-active timestamp
func (r *SessionRepository) Touch(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE patient_sessions SET last_active = $2 WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, at)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"session_id": id,
			"error":      err,
		}).Error("Failed to touch patient session")
		return fmt.Errorf("touching patient session: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("session not found: %w", domain.ErrNotFound)
	}

	return nil
}
