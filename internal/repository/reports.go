package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/healthtwin-engine/internal/domain"
)

// previewLength is the number of content characters kept in listing views.
const previewLength = 200

// ReportRepository handles uploaded medical report persistence
type ReportRepository struct {
	db  *pgxpool.Pool
	log *logrus.Logger
}

var _ domain.ReportRepository = (*ReportRepository)(nil)

// NewReportRepository creates a new medical report repository
func NewReportRepository(db *pgxpool.Pool, logger *logrus.Logger) *ReportRepository {
	return &ReportRepository{
		db:  db,
		log: logger,
	}
}

// Create inserts an uploaded medical report and assigns its generated ID
func (r *ReportRepository) Create(ctx context.Context, report *domain.MedicalReport) error {
	query := `
		INSERT INTO medical_reports (session_id, filename, content, file_type, upload_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := r.db.QueryRow(ctx, query,
		report.SessionID,
		report.Filename,
		report.Content,
		report.FileType,
		report.UploadDate,
	).Scan(&report.ID)

	if err != nil {
		r.log.WithFields(logrus.Fields{
			"session_id": report.SessionID,
			"filename":   report.Filename,
			"error":      err,
		}).Error("Failed to create medical report")
		return fmt.Errorf("creating medical report: %w", err)
	}

	r.log.WithFields(logrus.Fields{
		"report_id":  report.ID,
		"session_id": report.SessionID,
		"filename":   report.Filename,
	}).Info("Medical report created successfully")

	return nil
}

// ListBySession retrieves report summaries for a session, newest upload
// first. Content is trimmed to a preview so listings stay small.
func (r *ReportRepository) ListBySession(ctx context.Context, sessionID string) ([]domain.ReportSummary, error) {
	query := `
		SELECT id, filename, file_type, upload_date, LEFT(content, $2), LENGTH(content)
		FROM medical_reports
		WHERE session_id = $1
		ORDER BY upload_date DESC`

	rows, err := r.db.Query(ctx, query, sessionID, previewLength)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"session_id": sessionID,
			"error":      err,
		}).Error("Failed to list medical reports")
		return nil, fmt.Errorf("listing medical reports: %w", err)
	}
	defer rows.Close()

	var summaries []domain.ReportSummary
	for rows.Next() {
		var summary domain.ReportSummary
		var contentLength int

		err := rows.Scan(
			&summary.ID,
			&summary.Filename,
			&summary.FileType,
			&summary.UploadDate,
			&summary.ContentPreview,
			&contentLength,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning medical report row: %w", err)
		}

		if contentLength > previewLength {
			summary.ContentPreview += "..."
		}
		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating medical report rows: %w", err)
	}

	return summaries, nil
}

// Delete removes an uploaded medical report
func (r *ReportRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM medical_reports WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"report_id": id,
			"error":     err,
		}).Error("Failed to delete medical report")
		return fmt.Errorf("deleting medical report: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("medical report not found: %w", domain.ErrNotFound)
	}

	r.log.WithFields(logrus.Fields{
		"report_id": id,
	}).Info("Medical report deleted successfully")

	return nil
}
