package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthtwin-engine/internal/config"
	"github.com/healthtwin-engine/internal/domain"
	"github.com/healthtwin-engine/internal/feedback"
	"github.com/healthtwin-engine/internal/service"
)

type fakeSessionRepo struct {
	sessions map[string]*domain.PatientSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]*domain.PatientSession{}}
}

func (f *fakeSessionRepo) Create(_ context.Context, s *domain.PatientSession) error {
	f.sessions[s.ID] = s
	return nil
}

func (f *fakeSessionRepo) Get(_ context.Context, id string) (*domain.PatientSession, error) {
	return f.sessions[id], nil
}

func (f *fakeSessionRepo) Touch(_ context.Context, id string, at time.Time) error {
	if s, ok := f.sessions[id]; ok {
		s.LastActive = at
	}
	return nil
}

type fakeReportRepo struct {
	reports []domain.MedicalReport
	nextID  int64
}

func (f *fakeReportRepo) Create(_ context.Context, r *domain.MedicalReport) error {
	f.nextID++
	r.ID = f.nextID
	f.reports = append(f.reports, *r)
	return nil
}

func (f *fakeReportRepo) ListBySession(_ context.Context, sessionID string) ([]domain.ReportSummary, error) {
	var out []domain.ReportSummary
	for _, r := range f.reports {
		if r.SessionID == sessionID {
			out = append(out, domain.ReportSummary{
				ID:             r.ID,
				Filename:       r.Filename,
				FileType:       r.FileType,
				UploadDate:     r.UploadDate,
				ContentPreview: r.Content,
			})
		}
	}
	return out, nil
}

func (f *fakeReportRepo) Delete(_ context.Context, id int64) error {
	for i, r := range f.reports {
		if r.ID == id {
			f.reports = append(f.reports[:i], f.reports[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeSimulationRepo struct {
	results []domain.SimulationResult
}

func (f *fakeSimulationRepo) Create(_ context.Context, r *domain.SimulationResult) error {
	f.results = append(f.results, *r)
	return nil
}

func (f *fakeSimulationRepo) ListBySession(_ context.Context, sessionID string) ([]domain.SimulationResult, error) {
	var out []domain.SimulationResult
	for _, r := range f.results {
		if r.SessionID == sessionID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeSimulationRepo) Delete(_ context.Context, id string) error {
	for i, r := range f.results {
		if r.ID == id {
			f.results = append(f.results[:i], f.results[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeScenarioRepo struct {
	scenarios []domain.SimulationScenario
}

func (f *fakeScenarioRepo) Create(_ context.Context, s *domain.SimulationScenario) error {
	f.scenarios = append(f.scenarios, *s)
	return nil
}

func (f *fakeScenarioRepo) ListBySession(_ context.Context, sessionID string) ([]domain.SimulationScenario, error) {
	var out []domain.SimulationScenario
	for _, s := range f.scenarios {
		if s.SessionID == sessionID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeScenarioRepo) Delete(_ context.Context, id string) error {
	for i, s := range f.scenarios {
		if s.ID == id {
			f.scenarios = append(f.scenarios[:i], f.scenarios[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type apiFixture struct {
	server      *Server
	sessions    *fakeSessionRepo
	reports     *fakeReportRepo
	simulations *fakeSimulationRepo
	scenarios   *fakeScenarioRepo
}

func newAPIFixture(t *testing.T, readiness HealthCheck) *apiFixture {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	configManager, err := config.NewManager()
	require.NoError(t, err)

	f := &apiFixture{
		sessions:    newFakeSessionRepo(),
		reports:     &fakeReportRepo{},
		simulations: &fakeSimulationRepo{},
		scenarios:   &fakeScenarioRepo{},
	}

	twin := service.NewTwinService(logger, f.sessions, f.reports, f.simulations, f.scenarios, nil, nil)

	store, err := feedback.NewSQLiteStore(filepath.Join(t.TempDir(), "feedback.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	f.server = NewServer(configManager, twin, store, readiness, logger)
	return f
}

func (f *apiFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	f.server.router.ServeHTTP(w, req)
	return w
}

func (f *apiFixture) doRaw(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	f.server.router.ServeHTTP(w, req)
	return w
}

func testBaseline() domain.Snapshot {
	return domain.Snapshot{
		Vitals: &domain.Vitals{
			HeartRate:              domain.Float(72),
			BloodPressureSystolic:  domain.Float(150),
			BloodPressureDiastolic: domain.Float(95),
		},
		Metabolic: &domain.Metabolic{
			GlucoseFasting: domain.Float(105),
		},
		Lipids: &domain.Lipids{
			LDL: domain.Float(140),
		},
	}
}

func testProfile() domain.PatientProfile {
	return domain.PatientProfile{
		Age:      domain.Int(45),
		Gender:   "M",
		HeightCm: domain.Float(170),
		WeightKg: domain.Float(70),
	}
}

func moderateExercisePlan() domain.InterventionPlan {
	return domain.InterventionPlan{
		Exercise: &domain.ExercisePlan{
			Type:             "cardio",
			Intensity:        "moderate",
			DurationMinutes:  domain.Int(30),
			FrequencyPerWeek: domain.Int(4),
		},
	}
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) domain.APIError {
	t.Helper()

	var envelope domain.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope
}

func TestHealthEndpoint(t *testing.T) {
	f := newAPIFixture(t, nil)

	w := f.do(t, http.MethodGet, "/health", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestReadyEndpoint(t *testing.T) {
	f := newAPIFixture(t, func(context.Context) error { return nil })

	w := f.do(t, http.MethodGet, "/ready", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ready")
}

func TestReadyEndpointDependencyDown(t *testing.T) {
	f := newAPIFixture(t, func(context.Context) error { return errors.New("database unreachable") })

	w := f.do(t, http.MethodGet, "/ready", nil)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "not_ready")
	assert.Contains(t, w.Body.String(), "database unreachable")
}

func TestSessionLifecycle(t *testing.T) {
	f := newAPIFixture(t, nil)

	// Create with metadata
	w := f.do(t, http.MethodPost, "/api/v1/sessions", gin.H{"metadata": gin.H{"source": "test"}})
	require.Equal(t, http.StatusCreated, w.Code)

	var session domain.PatientSession
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
	require.NotEmpty(t, session.ID)
	assert.Equal(t, "test", session.Metadata["source"])

	// Retrieve
	w = f.do(t, http.MethodGet, "/api/v1/sessions/"+session.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Missing session yields the error envelope
	w = f.do(t, http.MethodGet, "/api/v1/sessions/missing", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	envelope := decodeError(t, w)
	assert.Equal(t, domain.ErrCodeNotFound, envelope.Code)
	assert.NotEmpty(t, envelope.CorrelationID)
}

func TestCreateSessionEmptyBody(t *testing.T) {
	f := newAPIFixture(t, nil)

	w := f.do(t, http.MethodPost, "/api/v1/sessions", nil)

	require.Equal(t, http.StatusCreated, w.Code)
}

func TestInitializeTwinEndpoint(t *testing.T) {
	f := newAPIFixture(t, nil)

	w := f.do(t, http.MethodPost, "/api/v1/twin/initialize", gin.H{
		"session_id": "sess-1",
		"profile":    testProfile(),
		"seed":       42,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var result service.InitializeTwinResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, service.InitGenerated, result.Method)
	require.NotNil(t, result.Baseline.Vitals)
	assert.Greater(t, result.Report.Interpretation.Overall, 0)
}

func TestInitializeTwinInvalidJSON(t *testing.T) {
	f := newAPIFixture(t, nil)

	w := f.doRaw(t, http.MethodPost, "/api/v1/twin/initialize", "{not json")

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, domain.ErrCodeInvalidInput, decodeError(t, w).Code)
}

func TestInitializeTwinHeaderOnlyCSV(t *testing.T) {
	f := newAPIFixture(t, nil)

	w := f.do(t, http.MethodPost, "/api/v1/twin/initialize", gin.H{
		"session_id": "sess-1",
		"profile":    testProfile(),
		"csv":        "week,heart_rate\n",
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, domain.ErrCodeInvalidInput, decodeError(t, w).Code)
}

func TestVirtualTestEndpoint(t *testing.T) {
	f := newAPIFixture(t, nil)

	w := f.do(t, http.MethodPost, "/api/v1/twin/virtual-test", gin.H{
		"test_type":          "comprehensive",
		"current_parameters": testBaseline(),
		"profile":            testProfile(),
	})
	require.Equal(t, http.StatusOK, w.Code)

	var result service.VirtualTestResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.NotNil(t, result.Report)
	assert.Equal(t, "comprehensive", result.TestType)
}

func TestVirtualTestUnknownType(t *testing.T) {
	f := newAPIFixture(t, nil)

	w := f.do(t, http.MethodPost, "/api/v1/twin/virtual-test", gin.H{
		"test_type":          "bone_density",
		"current_parameters": testBaseline(),
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, domain.ErrCodeInvalidInput, decodeError(t, w).Code)
}

func TestVirtualTestMissingType(t *testing.T) {
	f := newAPIFixture(t, nil)

	w := f.do(t, http.MethodPost, "/api/v1/twin/virtual-test", gin.H{
		"current_parameters": testBaseline(),
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSimulateEndpointDefaultsDuration(t *testing.T) {
	f := newAPIFixture(t, nil)

	w := f.do(t, http.MethodPost, "/api/v1/twin/simulate", gin.H{
		"session_id":          "sess-1",
		"baseline_parameters": testBaseline(),
		"profile":             testProfile(),
		"intervention":        moderateExercisePlan(),
	})
	require.Equal(t, http.StatusOK, w.Code)

	var result service.RunSimulationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "12 weeks", result.Duration)
	assert.NotEmpty(t, result.ResultID)
	assert.NotEmpty(t, result.Improvements)

	// Result was persisted
	require.Len(t, f.simulations.results, 1)
	assert.Equal(t, result.ResultID, f.simulations.results[0].ID)
}

func TestSimulateEndpointRejectsExcessiveDuration(t *testing.T) {
	f := newAPIFixture(t, nil)

	w := f.do(t, http.MethodPost, "/api/v1/twin/simulate", gin.H{
		"session_id":          "sess-1",
		"baseline_parameters": testBaseline(),
		"intervention":        moderateExercisePlan(),
		"duration_weeks":      500,
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w).Message, "duration_weeks")
}

func TestSimulateCSVEndpoint(t *testing.T) {
	f := newAPIFixture(t, nil)

	w := f.do(t, http.MethodPost, "/api/v1/twin/simulate/csv", gin.H{
		"session_id":          "sess-1",
		"baseline_parameters": testBaseline(),
		"profile":             testProfile(),
		"csv":                 "week,heart_rate\n1,70\n2,68\n",
		"duration_weeks":      2,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var result service.RunWeeklySimulationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.Len(t, result.Weekly, 2)
	assert.Equal(t, 1, result.Weekly[0].Week)
	assert.Equal(t, 68.0, *result.Weekly[1].Parameters.Vitals.HeartRate)
}

func TestSimulateCSVEndpointEmptyCSV(t *testing.T) {
	f := newAPIFixture(t, nil)

	w := f.do(t, http.MethodPost, "/api/v1/twin/simulate/csv", gin.H{
		"session_id":          "sess-1",
		"baseline_parameters": testBaseline(),
		"csv":                 "",
		"duration_weeks":      2,
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, domain.ErrCodeInvalidInput, decodeError(t, w).Code)
}

func TestScoreEndpoint(t *testing.T) {
	f := newAPIFixture(t, nil)

	w := f.do(t, http.MethodPost, "/api/v1/twin/score", gin.H{
		"current_parameters": testBaseline(),
	})
	require.Equal(t, http.StatusOK, w.Code)

	var score domain.HealthScore
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &score))
	assert.Greater(t, score.Overall, 0)
	assert.LessOrEqual(t, score.Overall, 100)
	assert.NotEmpty(t, score.Status)
}

func TestReportEndpoint(t *testing.T) {
	f := newAPIFixture(t, nil)

	w := f.do(t, http.MethodPost, "/api/v1/twin/report", gin.H{
		"current_parameters": testBaseline(),
		"profile":            testProfile(),
	})
	require.Equal(t, http.StatusOK, w.Code)

	var report domain.LabReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	require.Contains(t, report.VitalSigns, "blood_pressure_systolic")
	assert.Equal(t, domain.FlagHigh, report.VitalSigns["blood_pressure_systolic"].Flag)
}

func TestCompareEndpointSelfComparison(t *testing.T) {
	f := newAPIFixture(t, nil)

	w := f.do(t, http.MethodPost, "/api/v1/twin/compare", gin.H{
		"baseline_parameters": testBaseline(),
		"current_parameters":  testBaseline(),
	})
	require.Equal(t, http.StatusOK, w.Code)

	var result service.ComparisonResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Empty(t, result.Improvements)
}

func TestMedicationImpactEndpoint(t *testing.T) {
	f := newAPIFixture(t, nil)

	w := f.do(t, http.MethodPost, "/api/v1/twin/medication-impact", gin.H{
		"session_id":          "sess-1",
		"baseline_parameters": testBaseline(),
		"medication_name":     "Lisinopril",
		"patient_profile":     testProfile(),
	})
	require.Equal(t, http.StatusOK, w.Code)

	var result service.MedicationImpactResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.Contains(t, result.ParameterChanges, "blood_pressure_systolic")
	assert.Equal(t, 135.0, result.ParameterChanges["blood_pressure_systolic"].After)
	assert.Nil(t, result.GeneralNote)
}

func TestMedicationImpactRequiresName(t *testing.T) {
	f := newAPIFixture(t, nil)

	w := f.do(t, http.MethodPost, "/api/v1/twin/medication-impact", gin.H{
		"session_id":          "sess-1",
		"baseline_parameters": testBaseline(),
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w).Message, "medication_name")
}

func TestScenarioEndpoints(t *testing.T) {
	f := newAPIFixture(t, nil)

	// Predefined catalog only
	w := f.do(t, http.MethodGet, "/api/v1/twin/scenarios", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var listing struct {
		Scenarios []domain.SimulationScenario `json:"scenarios"`
		Count     int                         `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	assert.Equal(t, 3, listing.Count)

	// Create a custom scenario
	w = f.do(t, http.MethodPost, "/api/v1/twin/scenarios", gin.H{
		"session_id":  "sess-1",
		"name":        "Morning walks",
		"description": "Light daily walking",
		"treatment": gin.H{
			"exercise": gin.H{"type": "walking", "intensity": "light", "duration_minutes": 30, "frequency_per_week": 7},
		},
		"duration":   "8 weeks",
		"risk_level": "low",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created domain.SimulationScenario
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.True(t, created.IsCustom)

	// Catalog plus the custom scenario
	w = f.do(t, http.MethodGet, "/api/v1/twin/scenarios?session_id=sess-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	assert.Equal(t, 4, listing.Count)
}

func TestCreateScenarioRequiresName(t *testing.T) {
	f := newAPIFixture(t, nil)

	w := f.do(t, http.MethodPost, "/api/v1/twin/scenarios", gin.H{
		"session_id": "sess-1",
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, domain.ErrCodeInvalidInput, decodeError(t, w).Code)
}

func TestReportUploadLifecycle(t *testing.T) {
	f := newAPIFixture(t, nil)

	// Upload
	w := f.do(t, http.MethodPost, "/api/v1/reports", gin.H{
		"session_id": "sess-1",
		"filename":   "labs_march.pdf",
		"content":    "glucose 105 mg/dL",
		"file_type":  "pdf",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var uploaded domain.MedicalReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &uploaded))
	require.NotZero(t, uploaded.ID)

	// List
	w = f.do(t, http.MethodGet, "/api/v1/reports/sess-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "labs_march.pdf")

	// Delete
	w = f.do(t, http.MethodDelete, "/api/v1/reports/1", nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	// Re-delete reports not found
	w = f.do(t, http.MethodDelete, "/api/v1/reports/1", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteReportNonNumericID(t *testing.T) {
	f := newAPIFixture(t, nil)

	w := f.do(t, http.MethodDelete, "/api/v1/reports/abc", nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w).Message, "numeric")
}

func TestUploadReportRequiresContent(t *testing.T) {
	f := newAPIFixture(t, nil)

	w := f.do(t, http.MethodPost, "/api/v1/reports", gin.H{
		"session_id": "sess-1",
		"filename":   "empty.txt",
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSimulationListAndDelete(t *testing.T) {
	f := newAPIFixture(t, nil)

	w := f.do(t, http.MethodPost, "/api/v1/twin/simulate", gin.H{
		"session_id":          "sess-1",
		"baseline_parameters": testBaseline(),
		"intervention":        moderateExercisePlan(),
		"duration_weeks":      12,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var run service.RunSimulationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &run))

	w = f.do(t, http.MethodGet, "/api/v1/simulations/sess-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), run.ResultID)

	w = f.do(t, http.MethodDelete, "/api/v1/simulations/"+run.ResultID, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(t, http.MethodDelete, "/api/v1/simulations/"+run.ResultID, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestFeedbackEndpoints(t *testing.T) {
	f := newAPIFixture(t, nil)

	// Missing identifiers
	w := f.do(t, http.MethodPost, "/api/v1/feedback", gin.H{
		"outcome": "As Projected",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Record feedback
	w = f.do(t, http.MethodPost, "/api/v1/feedback", gin.H{
		"session_id":      "sess-1",
		"simulation_id":   "sim-001",
		"projected_score": 78,
		"observed_score":  74,
		"outcome":         "Worse Than Projected",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var saved feedback.OutcomeFeedback
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))
	assert.NotZero(t, saved.ID)

	// Saving the same pair again updates in place
	w = f.do(t, http.MethodPost, "/api/v1/feedback", gin.H{
		"session_id":      "sess-1",
		"simulation_id":   "sim-001",
		"projected_score": 78,
		"observed_score":  80,
		"outcome":         "Better Than Projected",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// List for the session
	w = f.do(t, http.MethodGet, "/api/v1/feedback/sess-1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var listing struct {
		Feedback []*feedback.OutcomeFeedback `json:"feedback"`
		Count    int                         `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	require.Equal(t, 1, listing.Count)
	assert.Equal(t, feedback.OutcomeBetterThanProjected, listing.Feedback[0].Outcome)
}

func TestCorrelationIDPropagation(t *testing.T) {
	f := newAPIFixture(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/missing", nil)
	req.Header.Set("X-Correlation-ID", "corr-123")

	w := httptest.NewRecorder()
	f.server.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "corr-123", w.Header().Get("X-Correlation-ID"))
	assert.Equal(t, "corr-123", decodeError(t, w).CorrelationID)
}

func TestSecurityHeadersApplied(t *testing.T) {
	f := newAPIFixture(t, nil)

	w := f.do(t, http.MethodGet, "/health", nil)

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, w.Header().Get("X-Correlation-ID"))
}
