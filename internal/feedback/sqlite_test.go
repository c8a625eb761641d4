package feedback

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSQLiteStore(t *testing.T) {
	// Create temp directory
	tmpDir, err := os.MkdirTemp("", "feedback-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	dbPath := filepath.Join(tmpDir, "test.db")

	// Act
	store, err := NewSQLiteStore(dbPath)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, store)
	defer store.Close()

	// Verify database file was created
	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "Database file should exist")
}

func TestSQLiteStore_Save(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()

	ctx := context.Background()

	feedback := &OutcomeFeedback{
		SessionID:        "session-a",
		SimulationID:     "sim-001",
		ScenarioName:     "Exercise Program",
		ProjectedScore:   78,
		ObservedScore:    74,
		Outcome:          OutcomeWorseThanProjected,
		AdherencePercent: 60,
		Notes:            "Patient traveled for two weeks mid-plan",
	}

	// Act
	err := store.Save(ctx, feedback)

	// Assert
	require.NoError(t, err)
	assert.NotZero(t, feedback.ID, "ID should be assigned")
	assert.False(t, feedback.CreatedAt.IsZero(), "CreatedAt should be set")
	assert.False(t, feedback.UpdatedAt.IsZero(), "UpdatedAt should be set")
}

func TestSQLiteStore_Save_Update(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()

	ctx := context.Background()

	// Save initial feedback
	feedback := &OutcomeFeedback{
		SessionID:      "session-a",
		SimulationID:   "sim-001",
		ScenarioName:   "Exercise Program",
		ProjectedScore: 78,
		ObservedScore:  77,
		Outcome:        OutcomeAsProjected,
	}
	err := store.Save(ctx, feedback)
	require.NoError(t, err)
	originalID := feedback.ID

	// Update with same session + simulation
	feedback.ObservedScore = 81
	feedback.Outcome = OutcomeBetterThanProjected
	feedback.Notes = "Updated after three month follow-up"

	err = store.Save(ctx, feedback)
	require.NoError(t, err)

	// Assert - should update, not create new
	assert.Equal(t, originalID, feedback.ID, "Should update existing record")

	// Verify update
	retrieved, err := store.Get(ctx, "session-a", "sim-001")
	require.NoError(t, err)
	assert.Equal(t, OutcomeBetterThanProjected, retrieved.Outcome)
	assert.Equal(t, 81, retrieved.ObservedScore)
	assert.Equal(t, "Updated after three month follow-up", retrieved.Notes)
}

func TestSQLiteStore_Get(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()

	ctx := context.Background()

	// Save feedback
	feedback := &OutcomeFeedback{
		SessionID:      "session-b",
		SimulationID:   "sim-042",
		ScenarioName:   "Combined Treatment",
		ProjectedScore: 85,
		ObservedScore:  84,
		Outcome:        OutcomeAsProjected,
	}
	err := store.Save(ctx, feedback)
	require.NoError(t, err)

	// Act
	retrieved, err := store.Get(ctx, "session-b", "sim-042")

	// Assert
	require.NoError(t, err)
	require.NotNil(t, retrieved)
	assert.Equal(t, feedback.SimulationID, retrieved.SimulationID)
	assert.Equal(t, feedback.Outcome, retrieved.Outcome)
	assert.Equal(t, feedback.ProjectedScore, retrieved.ProjectedScore)
}

func TestSQLiteStore_Get_ScopedBySimulation(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()

	ctx := context.Background()

	// Save two simulations for the same session
	feedback1 := &OutcomeFeedback{
		SessionID:      "session-c",
		SimulationID:   "sim-100",
		ScenarioName:   "Exercise Program",
		ProjectedScore: 70,
		ObservedScore:  73,
		Outcome:        OutcomeBetterThanProjected,
	}
	err := store.Save(ctx, feedback1)
	require.NoError(t, err)

	feedback2 := &OutcomeFeedback{
		SessionID:      "session-c",
		SimulationID:   "sim-101",
		ScenarioName:   "Medication Optimization",
		ProjectedScore: 76,
		ObservedScore:  68,
		Outcome:        OutcomePlanNotFollowed,
	}
	err = store.Save(ctx, feedback2)
	require.NoError(t, err)

	// Act - get with specific simulation
	first, err := store.Get(ctx, "session-c", "sim-100")
	require.NoError(t, err)
	assert.Equal(t, OutcomeBetterThanProjected, first.Outcome)

	second, err := store.Get(ctx, "session-c", "sim-101")
	require.NoError(t, err)
	assert.Equal(t, OutcomePlanNotFollowed, second.Outcome)
}

func TestSQLiteStore_Get_NotFound(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()

	ctx := context.Background()

	// Act
	retrieved, err := store.Get(ctx, "session-missing", "sim-000")

	// Assert
	assert.NoError(t, err)
	assert.Nil(t, retrieved, "Should return nil for not found")
}

func TestSQLiteStore_List(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()

	ctx := context.Background()

	// Save multiple feedback entries
	simulations := []string{"sim-001", "sim-002", "sim-003"}

	for i, simID := range simulations {
		feedback := &OutcomeFeedback{
			SessionID:      "session-a",
			SimulationID:   simID,
			ProjectedScore: 70 + i,
			ObservedScore:  70 + i,
			Outcome:        OutcomeAsProjected,
		}
		err := store.Save(ctx, feedback)
		require.NoError(t, err, "Failed to save feedback %d", i)
	}

	// Act
	list, err := store.List(ctx, 10, 0)

	// Assert
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestSQLiteStore_List_Pagination(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()

	ctx := context.Background()

	// Save 5 entries
	for i := 0; i < 5; i++ {
		feedback := &OutcomeFeedback{
			SessionID:      "session-a",
			SimulationID:   fmt.Sprintf("sim-%03d", i),
			ProjectedScore: 70,
			ObservedScore:  70,
			Outcome:        OutcomeAsProjected,
		}
		err := store.Save(ctx, feedback)
		require.NoError(t, err)
		time.Sleep(10 * time.Millisecond) // Ensure different timestamps
	}

	// Act - get first page
	page1, err := store.List(ctx, 2, 0)
	require.NoError(t, err)
	assert.Len(t, page1, 2)

	// Act - get second page
	page2, err := store.List(ctx, 2, 2)
	require.NoError(t, err)
	assert.Len(t, page2, 2)

	// Act - get third page
	page3, err := store.List(ctx, 2, 4)
	require.NoError(t, err)
	assert.Len(t, page3, 1)
}

func TestSQLiteStore_ListBySession(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()

	ctx := context.Background()

	// Save entries across two sessions
	for i := 0; i < 3; i++ {
		feedback := &OutcomeFeedback{
			SessionID:      "session-a",
			SimulationID:   fmt.Sprintf("sim-a%d", i),
			ProjectedScore: 70,
			ObservedScore:  70 + i,
			Outcome:        OutcomeAsProjected,
		}
		err := store.Save(ctx, feedback)
		require.NoError(t, err)
		time.Sleep(10 * time.Millisecond) // Ensure different timestamps
	}

	other := &OutcomeFeedback{
		SessionID:      "session-b",
		SimulationID:   "sim-b0",
		ProjectedScore: 60,
		ObservedScore:  58,
		Outcome:        OutcomeWorseThanProjected,
	}
	err := store.Save(ctx, other)
	require.NoError(t, err)

	// Act
	list, err := store.ListBySession(ctx, "session-a", 10)

	// Assert - only session-a entries, newest first
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "sim-a2", list[0].SimulationID)
	assert.Equal(t, "sim-a0", list[2].SimulationID)

	// Act - limit applies
	limited, err := store.ListBySession(ctx, "session-a", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestSQLiteStore_Count(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()

	ctx := context.Background()

	// Save 3 entries
	for i := 0; i < 3; i++ {
		feedback := &OutcomeFeedback{
			SessionID:      "session-a",
			SimulationID:   fmt.Sprintf("sim-%03d", i),
			ProjectedScore: 70,
			ObservedScore:  70,
			Outcome:        OutcomeAsProjected,
		}
		err := store.Save(ctx, feedback)
		require.NoError(t, err)
	}

	// Act
	count, err := store.Count(ctx)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestSQLiteStore_Delete(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()

	ctx := context.Background()

	// Save feedback
	feedback := &OutcomeFeedback{
		SessionID:      "session-a",
		SimulationID:   "sim-001",
		ProjectedScore: 78,
		ObservedScore:  74,
		Outcome:        OutcomeWorseThanProjected,
	}
	err := store.Save(ctx, feedback)
	require.NoError(t, err)

	// Act
	err = store.Delete(ctx, feedback.ID)

	// Assert
	require.NoError(t, err)

	// Verify deletion
	retrieved, err := store.Get(ctx, "session-a", "sim-001")
	assert.NoError(t, err)
	assert.Nil(t, retrieved)
}

func TestSQLiteStore_ExportJSON(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()

	ctx := context.Background()

	// Save feedback
	feedback := &OutcomeFeedback{
		SessionID:      "session-a",
		SimulationID:   "sim-001",
		ScenarioName:   "Exercise Program",
		ProjectedScore: 78,
		ObservedScore:  80,
		Outcome:        OutcomeBetterThanProjected,
		Notes:          "Exceeded the exercise targets",
	}
	err := store.Save(ctx, feedback)
	require.NoError(t, err)

	// Act
	var buf bytes.Buffer
	err = store.ExportJSON(ctx, &buf)

	// Assert
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "sim-001")
	assert.Contains(t, buf.String(), "Exceeded the exercise targets")
	assert.Contains(t, buf.String(), `"version"`)
	assert.Contains(t, buf.String(), `"count"`)
}

func TestSQLiteStore_ImportJSON(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()

	ctx := context.Background()

	// Create JSON to import
	jsonData := `{
		"version": "1.0",
		"exported_at": "2026-01-17T10:00:00Z",
		"count": 2,
		"feedback": [
			{
				"session_id": "session-a",
				"simulation_id": "sim-001",
				"scenario_name": "Exercise Program",
				"projected_score": 78,
				"observed_score": 80,
				"outcome": "Better Than Projected"
			},
			{
				"session_id": "session-a",
				"simulation_id": "sim-002",
				"scenario_name": "Medication Optimization",
				"projected_score": 82,
				"observed_score": 75,
				"outcome": "Worse Than Projected",
				"notes": "Dose adjusted at week six"
			}
		]
	}`

	// Act
	imported, skipped, err := store.ImportJSON(ctx, bytes.NewReader([]byte(jsonData)))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, imported)
	assert.Equal(t, 0, skipped)

	// Verify imports
	count, _ := store.Count(ctx)
	assert.Equal(t, int64(2), count)

	first, err := store.Get(ctx, "session-a", "sim-001")
	require.NoError(t, err)
	assert.Equal(t, OutcomeBetterThanProjected, first.Outcome)

	second, err := store.Get(ctx, "session-a", "sim-002")
	require.NoError(t, err)
	assert.Equal(t, OutcomeWorseThanProjected, second.Outcome)
	assert.Equal(t, "Dose adjusted at week six", second.Notes)
}

func TestSQLiteStore_ImportJSON_SkipDuplicates(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()

	ctx := context.Background()

	// Save existing feedback
	existing := &OutcomeFeedback{
		SessionID:      "session-a",
		SimulationID:   "sim-001",
		ProjectedScore: 78,
		ObservedScore:  80,
		Outcome:        OutcomeBetterThanProjected,
	}
	err := store.Save(ctx, existing)
	require.NoError(t, err)

	// Import with duplicate
	jsonData := `{
		"version": "1.0",
		"count": 2,
		"feedback": [
			{
				"session_id": "session-a",
				"simulation_id": "sim-001",
				"projected_score": 78,
				"observed_score": 50,
				"outcome": "Worse Than Projected"
			},
			{
				"session_id": "session-b",
				"simulation_id": "sim-010",
				"projected_score": 65,
				"observed_score": 66,
				"outcome": "As Projected"
			}
		]
	}`

	// Act
	imported, skipped, err := store.ImportJSON(ctx, bytes.NewReader([]byte(jsonData)))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, imported)
	assert.Equal(t, 1, skipped)

	// Verify existing wasn't overwritten
	first, _ := store.Get(ctx, "session-a", "sim-001")
	assert.Equal(t, OutcomeBetterThanProjected, first.Outcome, "Existing should not be overwritten")
}

// Helper function to create a test store
func createTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "feedback-test-*")
	require.NoError(t, err)

	t.Cleanup(func() {
		os.RemoveAll(tmpDir)
	})

	dbPath := filepath.Join(tmpDir, "test.db")
	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)

	return store
}
