package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/healthtwin-engine/internal/domain"
	"github.com/healthtwin-engine/internal/reference"
	"github.com/healthtwin-engine/pkg/narrative"
	"github.com/healthtwin-engine/pkg/tabular"
)

// Initialization methods reported by InitializeTwin.
const (
	InitGenerated        = "generated"
	InitManualParameters = "manual_parameters"
	InitCSVUpload        = "csv_upload"
)

// ConfidenceLevelPopulation qualifies every medication impact prediction.
const ConfidenceLevelPopulation = "Based on population data and clinical evidence"

// TwinService orchestrates the physiological engines with persistence,
// report caching, and the narrative service. Repositories, cache, and
// narrator may be nil; the service then skips the corresponding concern
// (the MCP surface runs without a database).
type TwinService struct {
	logger      *logrus.Logger
	sessions    domain.SessionRepository
	reports     domain.ReportRepository
	simulations domain.SimulationRepository
	scenarios   domain.ScenarioRepository
	cache       domain.ReportCache
	narrator    domain.Narrator
	now         func() time.Time
}

// NewTwinService creates a new twin service
func NewTwinService(
	logger *logrus.Logger,
	sessions domain.SessionRepository,
	reports domain.ReportRepository,
	simulations domain.SimulationRepository,
	scenarios domain.ScenarioRepository,
	cache domain.ReportCache,
	narrator domain.Narrator,
) *TwinService {
	return &TwinService{
		logger:      logger,
		sessions:    sessions,
		reports:     reports,
		simulations: simulations,
		scenarios:   scenarios,
		cache:       cache,
		narrator:    narrator,
		now:         time.Now,
	}
}

// InitializeTwinParams parameters for digital twin initialization
type InitializeTwinParams struct {
	SessionID string                `json:"session_id"`
	Profile   domain.PatientProfile `json:"profile"`

	// Overrides carries manually entered values that replace generated
	// ones category by category.
	Overrides *domain.Snapshot `json:"overrides,omitempty"`

	// CSV holds raw CSV content; the first data row seeds the baseline
	// and takes precedence over manual overrides.
	CSV string `json:"csv,omitempty"`

	// Seed pins the baseline generator for reproducible twins.
	Seed *int64 `json:"seed,omitempty"`
}

// InitializeTwinResult result of digital twin initialization
type InitializeTwinResult struct {
	SessionID       string           `json:"session_id"`
	Baseline        domain.Snapshot  `json:"baseline_parameters"`
	Report          domain.LabReport `json:"initial_lab_report"`
	Recommendations string           `json:"recommendations"`
	Method          string           `json:"initialization_method"`
}

// InitializeTwin builds the baseline state for a new digital twin. A
// population baseline is generated from the profile, then manual
// overrides and the first CSV data row are layered on top. Physical
// measurements fall back to the profile and BMI is derived when height
// and weight are both known.
func (t *TwinService) InitializeTwin(ctx context.Context, params *InitializeTwinParams) (*InitializeTwinResult, error) {
	t.logger.WithFields(logrus.Fields{
		"session_id": params.SessionID,
		"gender":     params.Profile.Gender,
		"conditions": len(params.Profile.Conditions),
	}).Info("Initializing digital twin")

	baseline := GenerateBaseline(t.rng(params.Seed), params.Profile)
	method := InitGenerated

	if params.Overrides != nil {
		baseline.Merge(*params.Overrides)
		method = InitManualParameters
	}

	if params.CSV != "" {
		rows, err := tabular.Read(strings.NewReader(params.CSV))
		if err != nil {
			return nil, fmt.Errorf("parsing baseline csv: %w", err)
		}
		applyBaselineRow(&baseline, rows[0])
		method = InitCSVUpload
	}

	finalizePhysical(&baseline, params.Profile)

	report := t.buildReportCached(ctx, baseline, params.Profile)
	recommendations := t.narrate(ctx, narrative.RecommendationsPrompt(params.Profile, baseline))

	t.touchSession(ctx, params.SessionID)
	t.logger.WithFields(logrus.Fields{
		"session_id": params.SessionID,
		"method":     method,
		"score":      report.Interpretation.Overall,
	}).Info("Digital twin initialized")

	return &InitializeTwinResult{
		SessionID:       params.SessionID,
		Baseline:        baseline,
		Report:          report,
		Recommendations: recommendations,
		Method:          method,
	}, nil
}

// applyBaselineRow overlays the absolute readings of one CSV row onto the
// baseline. Only Number cells under known columns apply; deltas have no
// prior value to offset at initialization.
func applyBaselineRow(snap *domain.Snapshot, row tabular.Row) {
	for column, cell := range row.Cells {
		if cell.Kind != tabular.KindNumber {
			continue
		}
		ref, ok := reference.Column(column)
		if !ok {
			continue
		}
		snap.SetField(ref.Category, ref.Field, cell.Number)
	}
}

// finalizePhysical fills height and weight from the profile when the
// baseline carries none, then derives BMI once both are known. CSV and
// manual values win over the profile.
func finalizePhysical(snap *domain.Snapshot, profile domain.PatientProfile) {
	height, hasHeight := snap.Field(domain.CategoryPhysical, "height_cm")
	if !hasHeight && profile.HeightCm != nil {
		height = *profile.HeightCm
		hasHeight = true
		snap.SetField(domain.CategoryPhysical, "height_cm", height)
	}

	weight, hasWeight := snap.Field(domain.CategoryPhysical, "weight_kg")
	if !hasWeight && profile.WeightKg != nil {
		weight = *profile.WeightKg
		hasWeight = true
		snap.SetField(domain.CategoryPhysical, "weight_kg", weight)
	}

	if hasHeight && hasWeight {
		snap.SetField(domain.CategoryPhysical, "bmi", BMI(weight, height))
	}
}

// RunSimulationParams parameters for an intervention simulation
type RunSimulationParams struct {
	SessionID string                  `json:"session_id"`
	Baseline  domain.Snapshot         `json:"baseline_parameters"`
	Profile   domain.PatientProfile   `json:"profile"`
	Plan      domain.InterventionPlan `json:"intervention"`
	Weeks     int                     `json:"duration_weeks"`
}

// RunSimulationResult result of an intervention simulation
type RunSimulationResult struct {
	ResultID        string           `json:"result_id"`
	BaselineReport  domain.LabReport `json:"baseline_report"`
	ProjectedReport domain.LabReport `json:"projected_report"`
	Improvements    []string         `json:"improvements"`
	Recommendations []string         `json:"recommendations"`
	Analysis        string           `json:"analysis"`
	Duration        string           `json:"simulation_duration"`
}

// RunSimulation projects an intervention plan onto a baseline, renders
// before and after reports, and persists the outcome.
func (t *TwinService) RunSimulation(ctx context.Context, params *RunSimulationParams) (*RunSimulationResult, error) {
	t.logger.WithFields(logrus.Fields{
		"session_id":     params.SessionID,
		"duration_weeks": params.Weeks,
	}).Info("Running intervention simulation")

	projected := ProjectIntervention(params.Baseline, params.Plan, params.Weeks)

	baselineReport := t.buildReportCached(ctx, params.Baseline, params.Profile)
	projectedReport := t.buildReportCached(ctx, projected, params.Profile)

	improvements := Improvements(params.Baseline, projected)
	recommendations := Recommendations(params.Plan)
	analysis := t.narrate(ctx, narrative.SimulationPrompt(params.Plan, params.Weeks, params.Baseline, projected, improvements))

	resultID, err := t.persistSimulation(ctx, params.SessionID, "", params.Baseline, projected, improvements, recommendations)
	if err != nil {
		return nil, err
	}

	t.touchSession(ctx, params.SessionID)
	t.logger.WithFields(logrus.Fields{
		"session_id":   params.SessionID,
		"result_id":    resultID,
		"improvements": len(improvements),
	}).Info("Intervention simulation completed")

	return &RunSimulationResult{
		ResultID:        resultID,
		BaselineReport:  baselineReport,
		ProjectedReport: projectedReport,
		Improvements:    improvements,
		Recommendations: recommendations,
		Analysis:        analysis,
		Duration:        fmt.Sprintf("%d weeks", params.Weeks),
	}, nil
}

// RunWeeklySimulationParams parameters for a CSV-driven progression
type RunWeeklySimulationParams struct {
	SessionID string                `json:"session_id"`
	Baseline  domain.Snapshot       `json:"baseline_parameters"`
	Profile   domain.PatientProfile `json:"profile"`
	CSV       string                `json:"csv"`
	Weeks     int                   `json:"duration_weeks"`
}

// RunWeeklySimulationResult result of a CSV-driven progression
type RunWeeklySimulationResult struct {
	ResultID        string             `json:"result_id"`
	Weekly          []domain.WeekEntry `json:"weekly_progression"`
	Improvements    []string           `json:"improvements"`
	Recommendations []string           `json:"recommendations"`
	Analysis        string             `json:"analysis"`
}

// RunWeeklySimulation replays measured CSV rows week by week on top of a
// baseline and persists the final state. Improvements are computed against
// the last week; recommendations stay general because the CSV records
// observations, not a plan.
func (t *TwinService) RunWeeklySimulation(ctx context.Context, params *RunWeeklySimulationParams) (*RunWeeklySimulationResult, error) {
	t.logger.WithFields(logrus.Fields{
		"session_id":     params.SessionID,
		"duration_weeks": params.Weeks,
	}).Info("Running weekly progression simulation")

	rows, err := tabular.Read(strings.NewReader(params.CSV))
	if err != nil {
		return nil, fmt.Errorf("parsing progression csv: %w", err)
	}

	weekly, err := RunWeekly(params.Baseline, params.Profile, rows, params.Weeks, t.now())
	if err != nil {
		return nil, fmt.Errorf("running weekly progression: %w", err)
	}

	final := weekly[len(weekly)-1].Parameters
	improvements := Improvements(params.Baseline, final)
	recommendations := Recommendations(domain.InterventionPlan{})
	analysis := t.narrate(ctx, narrative.ProgressionPrompt(params.Weeks, params.Baseline, final))

	resultID, err := t.persistSimulation(ctx, params.SessionID, "", params.Baseline, final, improvements, recommendations)
	if err != nil {
		return nil, err
	}

	t.touchSession(ctx, params.SessionID)
	t.logger.WithFields(logrus.Fields{
		"session_id": params.SessionID,
		"result_id":  resultID,
		"weeks":      len(weekly),
	}).Info("Weekly progression simulation completed")

	return &RunWeeklySimulationResult{
		ResultID:        resultID,
		Weekly:          weekly,
		Improvements:    improvements,
		Recommendations: recommendations,
		Analysis:        analysis,
	}, nil
}

// VirtualTestParams parameters for a virtual lab test
type VirtualTestParams struct {
	TestType string                `json:"test_type"`
	Snapshot domain.Snapshot       `json:"current_parameters"`
	Profile  domain.PatientProfile `json:"profile"`
}

// VirtualTestResult result of a virtual lab test. Report is set for
// comprehensive tests, Results for a single panel.
type VirtualTestResult struct {
	TestType string                           `json:"test_type"`
	TestDate time.Time                        `json:"test_date"`
	Report   *domain.LabReport                `json:"report,omitempty"`
	Results  map[string]domain.AnnotatedValue `json:"results,omitempty"`
}

// VirtualTest runs a virtual lab test against the current twin state:
// "comprehensive" renders the full annotated report, a panel name renders
// that panel alone.
func (t *TwinService) VirtualTest(ctx context.Context, params *VirtualTestParams) (*VirtualTestResult, error) {
	t.logger.WithField("test_type", params.TestType).Debug("Running virtual test")

	result := &VirtualTestResult{
		TestType: params.TestType,
		TestDate: t.now(),
	}

	if params.TestType == "comprehensive" {
		report := t.buildReportCached(ctx, params.Snapshot, params.Profile)
		result.Report = &report
		return result, nil
	}

	panel, ok := reference.Annotate(params.TestType, params.Snapshot)
	if !ok {
		return nil, fmt.Errorf("test type %q: %w", params.TestType, domain.ErrUnknownTestType)
	}
	result.Results = panel
	return result, nil
}

// Score computes the weighted health score for a snapshot, serving and
// filling the score cache.
func (t *TwinService) Score(ctx context.Context, snapshot domain.Snapshot) domain.HealthScore {
	key := snapshotHash(snapshot)
	if t.cache != nil {
		if cached, ok := t.cache.GetScore(ctx, key); ok {
			return *cached
		}
	}

	score := ScoreSnapshot(snapshot, t.now())
	if t.cache != nil {
		if err := t.cache.SetScore(ctx, key, &score); err != nil {
			t.logger.WithError(err).Warn("Failed to cache health score")
		}
	}
	return score
}

// Report renders the annotated lab report for a snapshot, serving and
// filling the report cache.
func (t *TwinService) Report(ctx context.Context, snapshot domain.Snapshot, profile domain.PatientProfile) domain.LabReport {
	return t.buildReportCached(ctx, snapshot, profile)
}

// ComparisonResult pairs the narrated improvements with per-field change
// statistics.
type ComparisonResult struct {
	Improvements []string                                `json:"improvements"`
	Changes      map[string]map[string]domain.ChangeStat `json:"changes"`
}

// CompareSnapshots diffs two twin states.
func (t *TwinService) CompareSnapshots(baseline, current domain.Snapshot) *ComparisonResult {
	return &ComparisonResult{
		Improvements: Improvements(baseline, current),
		Changes:      ChangesFromBaseline(baseline, current),
	}
}

// MedicationImpactParams parameters for medication impact prediction
type MedicationImpactParams struct {
	SessionID  string                `json:"session_id"`
	Baseline   domain.Snapshot       `json:"baseline_parameters"`
	Medication string                `json:"medication_name"`
	Profile    domain.PatientProfile `json:"patient_profile"`
}

// MedicationNote is the fallback answer when no drug class matched.
type MedicationNote struct {
	Message    string `json:"message"`
	Confidence int    `json:"confidence"`
}

// MedicationImpactResult result of medication impact prediction
type MedicationImpactResult struct {
	SessionID        string                                 `json:"session_id"`
	MedicationName   string                                 `json:"medication_name"`
	Profile          domain.PatientProfile                  `json:"patient_profile"`
	ParameterChanges map[string]domain.MedicationPrediction `json:"parameter_changes"`
	GeneralNote      *MedicationNote                        `json:"general_note,omitempty"`
	Analysis         string                                 `json:"analysis"`
	PredictedAt      time.Time                              `json:"prediction_timestamp"`
	ConfidenceLevel  string                                 `json:"confidence_level"`
}

// PredictMedicationImpact estimates how a medication shifts the twin's
// parameters from population pharmacology, with a narrative analysis on
// top. Unrecognized medications get a general note instead of numbers.
func (t *TwinService) PredictMedicationImpact(ctx context.Context, params *MedicationImpactParams) (*MedicationImpactResult, error) {
	t.logger.WithFields(logrus.Fields{
		"session_id": params.SessionID,
		"medication": params.Medication,
	}).Info("Predicting medication impact")

	effects, matched := PredictMedicationEffects(params.Baseline, params.Medication)
	if effects == nil {
		effects = map[string]domain.MedicationPrediction{}
	}

	var note *MedicationNote
	if !matched || len(effects) == 0 {
		note = &MedicationNote{
			Message: fmt.Sprintf(
				"Specific predictions for %s require more detailed pharmacological analysis. Please consult the narrative analysis for comprehensive information.",
				params.Medication),
			Confidence: 50,
		}
	}

	analysis := t.narrate(ctx, narrative.MedicationPrompt(params.Medication, params.Profile, params.Baseline))

	t.touchSession(ctx, params.SessionID)
	t.logger.WithFields(logrus.Fields{
		"session_id": params.SessionID,
		"medication": params.Medication,
		"matched":    matched,
		"changes":    len(effects),
	}).Info("Medication impact prediction completed")

	return &MedicationImpactResult{
		SessionID:        params.SessionID,
		MedicationName:   params.Medication,
		Profile:          params.Profile,
		ParameterChanges: effects,
		GeneralNote:      note,
		Analysis:         analysis,
		PredictedAt:      t.now(),
		ConfidenceLevel:  ConfidenceLevelPopulation,
	}, nil
}

// CreateSession opens a new patient session.
func (t *TwinService) CreateSession(ctx context.Context, metadata map[string]any) (*domain.PatientSession, error) {
	now := t.now()
	session := &domain.PatientSession{
		ID:         uuid.New().String(),
		CreatedAt:  now,
		LastActive: now,
		Metadata:   metadata,
	}
	if err := t.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	t.logger.WithField("session_id", session.ID).Info("Patient session created")
	return session, nil
}

// GetSession loads a patient session by ID.
func (t *TwinService) GetSession(ctx context.Context, id string) (*domain.PatientSession, error) {
	session, err := t.sessions.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
	}
	return session, nil
}

// ListScenarios returns the predefined scenario catalog plus any custom
// scenarios stored for the session.
func (t *TwinService) ListScenarios(ctx context.Context, sessionID string) ([]domain.SimulationScenario, error) {
	catalog := PredefinedScenarios()
	if t.scenarios == nil || sessionID == "" {
		return catalog, nil
	}

	custom, err := t.scenarios.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing custom scenarios: %w", err)
	}
	return append(catalog, custom...), nil
}

// CreateScenario stores an operator-defined scenario under its session.
func (t *TwinService) CreateScenario(ctx context.Context, scenario *domain.SimulationScenario) error {
	if scenario.Name == "" {
		return domain.NewValidationError("name", "scenario name is required", scenario.Name)
	}
	if scenario.SessionID == "" {
		return domain.NewValidationError("session_id", "session id is required", scenario.SessionID)
	}

	scenario.ID = uuid.New().String()
	scenario.IsCustom = true
	scenario.CreatedAt = t.now()

	if err := t.scenarios.Create(ctx, scenario); err != nil {
		return fmt.Errorf("creating scenario: %w", err)
	}

	t.touchSession(ctx, scenario.SessionID)
	t.logger.WithFields(logrus.Fields{
		"session_id":  scenario.SessionID,
		"scenario_id": scenario.ID,
	}).Info("Custom scenario created")
	return nil
}

// DeleteScenario removes a custom scenario.
func (t *TwinService) DeleteScenario(ctx context.Context, id string) error {
	if err := t.scenarios.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting scenario: %w", err)
	}
	return nil
}

// ListSimulations returns the stored simulation results for a session,
// newest first.
func (t *TwinService) ListSimulations(ctx context.Context, sessionID string) ([]domain.SimulationResult, error) {
	results, err := t.simulations.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing simulation results: %w", err)
	}
	return results, nil
}

// DeleteSimulation removes a stored simulation result.
func (t *TwinService) DeleteSimulation(ctx context.Context, id string) error {
	if err := t.simulations.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting simulation result: %w", err)
	}
	return nil
}

// UploadReport stores an uploaded medical report under its session.
func (t *TwinService) UploadReport(ctx context.Context, report *domain.MedicalReport) error {
	if report.SessionID == "" {
		return domain.NewValidationError("session_id", "session id is required", report.SessionID)
	}
	if report.UploadDate.IsZero() {
		report.UploadDate = t.now()
	}

	if err := t.reports.Create(ctx, report); err != nil {
		return fmt.Errorf("storing medical report: %w", err)
	}

	t.touchSession(ctx, report.SessionID)
	t.logger.WithFields(logrus.Fields{
		"session_id": report.SessionID,
		"report_id":  report.ID,
		"filename":   report.Filename,
	}).Info("Medical report stored")
	return nil
}

// ListReports returns the report summaries for a session, newest first.
func (t *TwinService) ListReports(ctx context.Context, sessionID string) ([]domain.ReportSummary, error) {
	summaries, err := t.reports.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing medical reports: %w", err)
	}
	return summaries, nil
}

// DeleteReport removes an uploaded medical report.
func (t *TwinService) DeleteReport(ctx context.Context, id int64) error {
	if err := t.reports.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting medical report: %w", err)
	}
	return nil
}

// persistSimulation stores a simulation outcome when a repository is
// wired and returns the result ID.
func (t *TwinService) persistSimulation(ctx context.Context, sessionID, scenarioID string, baseline, projected domain.Snapshot, improvements, recommendations []string) (string, error) {
	result := &domain.SimulationResult{
		ID:              uuid.New().String(),
		SessionID:       sessionID,
		ScenarioID:      scenarioID,
		BaselineHealth:  baseline,
		ProjectedHealth: projected,
		Improvements:    improvements,
		Recommendations: recommendations,
		Risks:           []string{},
		CreatedAt:       t.now(),
	}

	if t.simulations == nil {
		return result.ID, nil
	}
	if err := t.simulations.Create(ctx, result); err != nil {
		return "", fmt.Errorf("persisting simulation result: %w", err)
	}
	return result.ID, nil
}

// buildReportCached serves the annotated report from cache when the same
// snapshot and profile were rendered before, building and storing it
// otherwise. BMI and eGFR depend on the profile, so it keys the pair.
func (t *TwinService) buildReportCached(ctx context.Context, snapshot domain.Snapshot, profile domain.PatientProfile) domain.LabReport {
	key := reportCacheKey(snapshot, profile)
	if t.cache != nil {
		if cached, ok := t.cache.GetReport(ctx, key); ok {
			return *cached
		}
	}

	report := BuildReport(snapshot, profile, t.now())
	if t.cache != nil {
		if err := t.cache.SetReport(ctx, key, &report); err != nil {
			t.logger.WithError(err).Warn("Failed to cache lab report")
		}
	}
	return report
}

// narrate asks the narrative service for free-text analysis, substituting
// a deterministic fallback when it is absent or failing.
func (t *TwinService) narrate(ctx context.Context, prompt string) string {
	if t.narrator == nil {
		return fmt.Sprintf("Unable to generate narrative analysis: %v", domain.ErrNarrativeUnavailable)
	}

	text, err := t.narrator.Narrate(ctx, prompt)
	if err != nil {
		t.logger.WithError(err).Warn("Narrative service unavailable, using fallback")
		return fmt.Sprintf("Unable to generate narrative analysis: %v", err)
	}
	return text
}

// touchSession refreshes the session's last-active stamp. Activity
// tracking is advisory, so failures only log.
func (t *TwinService) touchSession(ctx context.Context, id string) {
	if t.sessions == nil || id == "" {
		return
	}
	if err := t.sessions.Touch(ctx, id, t.now()); err != nil {
		t.logger.WithError(err).WithField("session_id", id).Warn("Failed to update session activity")
	}
}

// rng returns the baseline generator source: seeded when the caller pinned
// one, time-derived otherwise.
func (t *TwinService) rng(seed *int64) *rand.Rand {
	if seed != nil {
		return rand.New(rand.NewSource(*seed))
	}
	return rand.New(rand.NewSource(t.now().UnixNano()))
}

// snapshotHash keys the score cache by the snapshot's canonical JSON.
func snapshotHash(snap domain.Snapshot) string {
	payload, _ := json.Marshal(snap)
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// reportCacheKey keys the report cache by snapshot and profile together.
func reportCacheKey(snap domain.Snapshot, profile domain.PatientProfile) string {
	payload, _ := json.Marshal(struct {
		Snapshot domain.Snapshot       `json:"snapshot"`
		Profile  domain.PatientProfile `json:"profile"`
	}{snap, profile})
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
