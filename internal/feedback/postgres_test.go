package feedback

import (
	"bytes"
	"context"
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// anyTime matches any time.Time argument.
type anyTime struct{}

func (anyTime) Match(v driver.Value) bool {
	_, ok := v.(time.Time)
	return ok
}

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	store, err := NewPostgresStore(db)
	require.NoError(t, err)

	return store, mock
}

func feedbackColumns() []string {
	return []string{
		"id", "session_id", "simulation_id", "scenario_name",
		"projected_score", "observed_score", "outcome",
		"adherence_percent", "notes", "created_at", "updated_at",
	}
}

func TestNewPostgresStore_NilDB(t *testing.T) {
	store, err := NewPostgresStore(nil)

	require.Error(t, err)
	assert.Nil(t, store)
	assert.Contains(t, err.Error(), "database connection is required")
}

func TestPostgresStore_Save(t *testing.T) {
	store, mock := newMockStore(t)

	now := time.Now()
	mock.ExpectQuery("INSERT INTO outcome_feedback").
		WithArgs("session-a", "sim-001", "Exercise Program", 78, 74,
			"Worse Than Projected", 60, "Plan paused during travel", anyTime{}, anyTime{}).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), now))

	fb := &OutcomeFeedback{
		SessionID:        "session-a",
		SimulationID:     "sim-001",
		ScenarioName:     "Exercise Program",
		ProjectedScore:   78,
		ObservedScore:    74,
		Outcome:          OutcomeWorseThanProjected,
		AdherencePercent: 60,
		Notes:            "Plan paused during travel",
	}

	err := store.Save(context.Background(), fb)

	require.NoError(t, err)
	assert.Equal(t, int64(7), fb.ID)
	assert.Equal(t, now, fb.CreatedAt)
	assert.False(t, fb.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Save_QueryError(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("INSERT INTO outcome_feedback").
		WillReturnError(sql.ErrConnDone)

	fb := &OutcomeFeedback{
		SessionID:    "session-a",
		SimulationID: "sim-001",
		Outcome:      OutcomeAsProjected,
	}

	err := store.Save(context.Background(), fb)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save feedback")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Get(t *testing.T) {
	store, mock := newMockStore(t)

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM outcome_feedback").
		WithArgs("session-b", "sim-042").
		WillReturnRows(sqlmock.NewRows(feedbackColumns()).
			AddRow(int64(3), "session-b", "sim-042", "Combined Treatment",
				85, 84, "As Projected", 90, "Consistent follow-up", now, now))

	fb, err := store.Get(context.Background(), "session-b", "sim-042")

	require.NoError(t, err)
	require.NotNil(t, fb)
	assert.Equal(t, int64(3), fb.ID)
	assert.Equal(t, "sim-042", fb.SimulationID)
	assert.Equal(t, OutcomeAsProjected, fb.Outcome)
	assert.Equal(t, 85, fb.ProjectedScore)
	assert.Equal(t, 90, fb.AdherencePercent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Get_NotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT (.+) FROM outcome_feedback").
		WithArgs("session-missing", "sim-000").
		WillReturnError(sql.ErrNoRows)

	fb, err := store.Get(context.Background(), "session-missing", "sim-000")

	require.NoError(t, err)
	assert.Nil(t, fb, "Should return nil for not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_List(t *testing.T) {
	store, mock := newMockStore(t)

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM outcome_feedback").
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows(feedbackColumns()).
			AddRow(int64(2), "session-a", "sim-002", "", 82, 75, "Worse Than Projected", 0, "", now, now).
			AddRow(int64(1), "session-a", "sim-001", "", 78, 80, "Better Than Projected", 0, "", now.Add(-time.Hour), now.Add(-time.Hour)))

	list, err := store.List(context.Background(), 10, 0)

	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "sim-002", list[0].SimulationID)
	assert.Equal(t, OutcomeBetterThanProjected, list[1].Outcome)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListBySession(t *testing.T) {
	store, mock := newMockStore(t)

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM outcome_feedback WHERE session_id").
		WithArgs("session-a", 5).
		WillReturnRows(sqlmock.NewRows(feedbackColumns()).
			AddRow(int64(1), "session-a", "sim-001", "", 78, 80, "Better Than Projected", 0, "", now, now))

	list, err := store.ListBySession(context.Background(), "session-a", 5)

	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "session-a", list[0].SessionID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Count(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(42)))

	count, err := store.Count(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(42), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Delete(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("DELETE FROM outcome_feedback").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Delete(context.Background(), 7)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ExportJSON(t *testing.T) {
	store, mock := newMockStore(t)

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM outcome_feedback").
		WithArgs(pgMaxExportLimit, 0).
		WillReturnRows(sqlmock.NewRows(feedbackColumns()).
			AddRow(int64(1), "session-a", "sim-001", "Exercise Program",
				78, 80, "Better Than Projected", 0, "Exceeded targets", now, now))

	var buf bytes.Buffer
	err := store.ExportJSON(context.Background(), &buf)

	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"version": "1.0"`)
	assert.Contains(t, buf.String(), "sim-001")
	assert.Contains(t, buf.String(), "Exceeded targets")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ImportJSON_SkipDuplicates(t *testing.T) {
	store, mock := newMockStore(t)

	now := time.Now()

	// First entry already exists
	mock.ExpectQuery("SELECT (.+) FROM outcome_feedback").
		WithArgs("session-a", "sim-001").
		WillReturnRows(sqlmock.NewRows(feedbackColumns()).
			AddRow(int64(1), "session-a", "sim-001", "", 78, 80, "Better Than Projected", 0, "", now, now))

	// Second entry is new: existence check misses, then insert
	mock.ExpectQuery("SELECT (.+) FROM outcome_feedback").
		WithArgs("session-b", "sim-010").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("INSERT INTO outcome_feedback").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(2), now))

	jsonData := `{
		"version": "1.0",
		"count": 2,
		"feedback": [
			{"session_id": "session-a", "simulation_id": "sim-001", "projected_score": 78, "observed_score": 50, "outcome": "Worse Than Projected"},
			{"session_id": "session-b", "simulation_id": "sim-010", "projected_score": 65, "observed_score": 66, "outcome": "As Projected"}
		]
	}`

	imported, skipped, err := store.ImportJSON(context.Background(), bytes.NewReader([]byte(jsonData)))

	require.NoError(t, err)
	assert.Equal(t, 1, imported)
	assert.Equal(t, 1, skipped)
	assert.NoError(t, mock.ExpectationsWereMet())
}
