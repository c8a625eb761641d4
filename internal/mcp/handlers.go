package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/healthtwin-engine/internal/domain"
	"github.com/healthtwin-engine/internal/feedback"
	"github.com/healthtwin-engine/internal/service"
)

// Simulation duration bounds for tool calls. The standalone server has no
// simulation config section, so the REST defaults apply.
const (
	defaultDurationWeeks = 12
	maxDurationWeeks     = 52
)

// GenerateBaselineParams defines parameters for the twin_generate_baseline tool
type GenerateBaselineParams struct {
	Age        int      `json:"age,omitempty"`
	Gender     string   `json:"gender,omitempty"`
	Conditions []string `json:"conditions,omitempty"`
	Seed       *int64   `json:"seed,omitempty"`
}

// ProjectInterventionParams defines parameters for the twin_project_intervention tool
type ProjectInterventionParams struct {
	Baseline domain.Snapshot         `json:"baseline,omitempty"`
	Plan     domain.InterventionPlan `json:"plan,omitempty"`
	Weeks    int                     `json:"weeks,omitempty"`
	Profile  domain.PatientProfile   `json:"profile,omitempty"`
}

// WeeklySimulationParams defines parameters for the twin_weekly_simulation tool
type WeeklySimulationParams struct {
	Baseline      domain.Snapshot       `json:"baseline,omitempty"`
	CSV           string                `json:"csv,omitempty"`
	DurationWeeks int                   `json:"duration_weeks,omitempty"`
	Profile       domain.PatientProfile `json:"profile,omitempty"`
}

// VirtualTestParams defines parameters for the twin_virtual_test tool
type VirtualTestParams struct {
	TestType string                `json:"test_type,omitempty"`
	Snapshot domain.Snapshot       `json:"snapshot,omitempty"`
	Profile  domain.PatientProfile `json:"profile,omitempty"`
}

// ScoreParams defines parameters for the twin_score tool
type ScoreParams struct {
	Snapshot domain.Snapshot `json:"snapshot,omitempty"`
}

// ReportParams defines parameters for the twin_report tool
type ReportParams struct {
	Snapshot domain.Snapshot       `json:"snapshot,omitempty"`
	Profile  domain.PatientProfile `json:"profile,omitempty"`
}

// CompareParams defines parameters for the twin_compare tool
type CompareParams struct {
	Baseline  domain.Snapshot `json:"baseline,omitempty"`
	Projected domain.Snapshot `json:"projected,omitempty"`
}

// MedicationImpactParams defines parameters for the twin_medication_impact tool
type MedicationImpactParams struct {
	Baseline       domain.Snapshot       `json:"baseline,omitempty"`
	MedicationName string                `json:"medication_name,omitempty"`
	Profile        domain.PatientProfile `json:"profile,omitempty"`
}

// ScenariosParams defines parameters for the twin_scenarios tool
type ScenariosParams struct{}

// SubmitFeedbackParams defines parameters for the twin_submit_feedback tool
type SubmitFeedbackParams struct {
	SessionID        string `json:"session_id,omitempty"`
	SimulationID     string `json:"simulation_id,omitempty"`
	ScenarioName     string `json:"scenario_name,omitempty"`
	ProjectedScore   int    `json:"projected_score,omitempty"`
	ObservedScore    int    `json:"observed_score,omitempty"`
	Outcome          string `json:"outcome,omitempty"`
	AdherencePercent int    `json:"adherence_percent,omitempty"`
	Notes            string `json:"notes,omitempty"`
}

// QueryFeedbackParams defines parameters for the twin_query_feedback tool
type QueryFeedbackParams struct {
	SessionID    string `json:"session_id,omitempty"`
	SimulationID string `json:"simulation_id,omitempty"`
}

// QueryFeedbackResult defines the result of twin_query_feedback
type QueryFeedbackResult struct {
	Found    bool                      `json:"found"`
	Feedback *feedback.OutcomeFeedback `json:"feedback,omitempty"`
	Message  string                    `json:"message"`
}

// ListFeedbackParams defines parameters for the twin_list_feedback tool
type ListFeedbackParams struct {
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// ExportFeedbackParams defines parameters for the twin_export_feedback tool
type ExportFeedbackParams struct{}

// ExportFeedbackResult defines the result of twin_export_feedback
type ExportFeedbackResult struct {
	Success  bool   `json:"success"`
	FilePath string `json:"file_path"`
	Count    int64  `json:"count"`
	Message  string `json:"message"`
}

// ImportFeedbackParams defines parameters for the twin_import_feedback tool
type ImportFeedbackParams struct {
	FilePath string `json:"file_path,omitempty"`
}

// ImportFeedbackResult defines the result of twin_import_feedback
type ImportFeedbackResult struct {
	Success  bool   `json:"success"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
	Message  string `json:"message"`
}

func (s *Server) handleGenerateBaseline(ctx context.Context, req *mcp.CallToolRequest, params GenerateBaselineParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", "twin_generate_baseline").Info("Tool invoked")

	if params.Age <= 0 {
		return errorResult("Missing required parameter", fmt.Errorf("age must be a positive integer")), nil, nil
	}
	if params.Gender == "" {
		return errorResult("Missing required parameter", fmt.Errorf("gender is required")), nil, nil
	}

	// Mint a session handle so later feedback can reference this twin.
	result, err := s.twin.InitializeTwin(ctx, &service.InitializeTwinParams{
		SessionID: uuid.NewString(),
		Profile: domain.PatientProfile{
			Age:        domain.Int(params.Age),
			Gender:     params.Gender,
			Conditions: params.Conditions,
		},
		Seed: params.Seed,
	})
	if err != nil {
		return errorResult("Baseline generation failed", err), nil, nil
	}
	return jsonResult(result)
}

func (s *Server) handleProjectIntervention(ctx context.Context, req *mcp.CallToolRequest, params ProjectInterventionParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", "twin_project_intervention").Info("Tool invoked")

	weeks, err := clampWeeks(params.Weeks)
	if err != nil {
		return errorResult("Invalid parameters", err), nil, nil
	}

	result, err := s.twin.RunSimulation(ctx, &service.RunSimulationParams{
		Baseline: params.Baseline,
		Profile:  params.Profile,
		Plan:     params.Plan,
		Weeks:    weeks,
	})
	if err != nil {
		return errorResult("Simulation failed", err), nil, nil
	}
	return jsonResult(result)
}

func (s *Server) handleWeeklySimulation(ctx context.Context, req *mcp.CallToolRequest, params WeeklySimulationParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", "twin_weekly_simulation").Info("Tool invoked")

	if params.CSV == "" {
		return errorResult("Missing required parameter", fmt.Errorf("csv is required")), nil, nil
	}
	weeks, err := clampWeeks(params.DurationWeeks)
	if err != nil {
		return errorResult("Invalid parameters", err), nil, nil
	}

	result, err := s.twin.RunWeeklySimulation(ctx, &service.RunWeeklySimulationParams{
		Baseline: params.Baseline,
		Profile:  params.Profile,
		CSV:      params.CSV,
		Weeks:    weeks,
	})
	if err != nil {
		return errorResult("Weekly simulation failed", err), nil, nil
	}
	return jsonResult(result)
}

func (s *Server) handleVirtualTest(ctx context.Context, req *mcp.CallToolRequest, params VirtualTestParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", "twin_virtual_test").Info("Tool invoked")

	if params.TestType == "" {
		return errorResult("Missing required parameter", fmt.Errorf("test_type is required")), nil, nil
	}

	result, err := s.twin.VirtualTest(ctx, &service.VirtualTestParams{
		TestType: params.TestType,
		Snapshot: params.Snapshot,
		Profile:  params.Profile,
	})
	if err != nil {
		return errorResult("Virtual test failed", err), nil, nil
	}
	return jsonResult(result)
}

func (s *Server) handleScore(ctx context.Context, req *mcp.CallToolRequest, params ScoreParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", "twin_score").Info("Tool invoked")

	score := s.twin.Score(ctx, params.Snapshot)
	return jsonResult(score)
}

func (s *Server) handleReport(ctx context.Context, req *mcp.CallToolRequest, params ReportParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", "twin_report").Info("Tool invoked")

	report := s.twin.Report(ctx, params.Snapshot, params.Profile)
	return jsonResult(report)
}

func (s *Server) handleCompare(ctx context.Context, req *mcp.CallToolRequest, params CompareParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", "twin_compare").Info("Tool invoked")

	result := s.twin.CompareSnapshots(params.Baseline, params.Projected)
	return jsonResult(result)
}

func (s *Server) handleMedicationImpact(ctx context.Context, req *mcp.CallToolRequest, params MedicationImpactParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", "twin_medication_impact").Info("Tool invoked")

	if params.MedicationName == "" {
		return errorResult("Missing required parameter", fmt.Errorf("medication_name is required")), nil, nil
	}

	result, err := s.twin.PredictMedicationImpact(ctx, &service.MedicationImpactParams{
		Baseline:   params.Baseline,
		Medication: params.MedicationName,
		Profile:    params.Profile,
	})
	if err != nil {
		return errorResult("Medication impact prediction failed", err), nil, nil
	}
	return jsonResult(result)
}

func (s *Server) handleScenarios(ctx context.Context, req *mcp.CallToolRequest, params ScenariosParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", "twin_scenarios").Info("Tool invoked")

	scenarios, err := s.twin.ListScenarios(ctx, "")
	if err != nil {
		return errorResult("Failed to list scenarios", err), nil, nil
	}
	return jsonResult(scenarios)
}

func (s *Server) handleSubmitFeedback(ctx context.Context, req *mcp.CallToolRequest, params SubmitFeedbackParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", "twin_submit_feedback").Info("Tool invoked")

	if params.SessionID == "" || params.SimulationID == "" {
		return errorResult("Missing required parameter", fmt.Errorf("session_id and simulation_id are required")), nil, nil
	}
	if params.Outcome == "" {
		return errorResult("Missing required parameter", fmt.Errorf("outcome is required")), nil, nil
	}

	fb := &feedback.OutcomeFeedback{
		SessionID:        params.SessionID,
		SimulationID:     params.SimulationID,
		ScenarioName:     params.ScenarioName,
		ProjectedScore:   params.ProjectedScore,
		ObservedScore:    params.ObservedScore,
		Outcome:          feedback.Outcome(params.Outcome),
		AdherencePercent: params.AdherencePercent,
		Notes:            params.Notes,
	}
	if err := s.feedbackStore.Save(ctx, fb); err != nil {
		s.logger.WithError(err).Error("Failed to save feedback")
		return errorResult("Failed to save feedback", err), nil, nil
	}
	return jsonResult(fb)
}

func (s *Server) handleQueryFeedback(ctx context.Context, req *mcp.CallToolRequest, params QueryFeedbackParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", "twin_query_feedback").Info("Tool invoked")

	if params.SessionID == "" || params.SimulationID == "" {
		return errorResult("Missing required parameter", fmt.Errorf("session_id and simulation_id are required")), nil, nil
	}

	fb, err := s.feedbackStore.Get(ctx, params.SessionID, params.SimulationID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to query feedback")
		return errorResult("Failed to query feedback", err), nil, nil
	}

	result := QueryFeedbackResult{Message: "No feedback recorded for this simulation"}
	if fb != nil {
		result.Found = true
		result.Feedback = fb
		result.Message = fmt.Sprintf("Outcome recorded as %q (projected %d, observed %d)",
			fb.Outcome, fb.ProjectedScore, fb.ObservedScore)
	}
	return jsonResult(result)
}

func (s *Server) handleListFeedback(ctx context.Context, req *mcp.CallToolRequest, params ListFeedbackParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", "twin_list_feedback").Info("Tool invoked")

	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	list, err := s.feedbackStore.List(ctx, limit, offset)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list feedback")
		return errorResult("Failed to list feedback", err), nil, nil
	}
	return jsonResult(map[string]any{
		"feedback": list,
		"count":    len(list),
	})
}

func (s *Server) handleExportFeedback(ctx context.Context, req *mcp.CallToolRequest, params ExportFeedbackParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", "twin_export_feedback").Info("Tool invoked")

	exportDir := s.config.ExportDir()
	if err := os.MkdirAll(exportDir, 0755); err != nil {
		return errorResult("Failed to create export directory", err), nil, nil
	}

	filename := fmt.Sprintf("feedback_export_%s.json", time.Now().Format("20060102_150405"))
	filePath := filepath.Join(exportDir, filename)

	file, err := os.Create(filePath)
	if err != nil {
		return errorResult("Failed to create export file", err), nil, nil
	}
	defer file.Close()

	if err := s.feedbackStore.ExportJSON(ctx, file); err != nil {
		s.logger.WithError(err).Error("Failed to export feedback")
		return errorResult("Failed to export feedback", err), nil, nil
	}

	count, _ := s.feedbackStore.Count(ctx)
	return jsonResult(ExportFeedbackResult{
		Success:  true,
		FilePath: filePath,
		Count:    count,
		Message:  fmt.Sprintf("Exported %d feedback entries to %s", count, filePath),
	})
}

func (s *Server) handleImportFeedback(ctx context.Context, req *mcp.CallToolRequest, params ImportFeedbackParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", "twin_import_feedback").Info("Tool invoked")

	if params.FilePath == "" {
		return errorResult("Missing required parameter", fmt.Errorf("file_path is required")), nil, nil
	}

	file, err := os.Open(params.FilePath)
	if err != nil {
		return errorResult("Failed to open import file", err), nil, nil
	}
	defer file.Close()

	imported, skipped, err := s.feedbackStore.ImportJSON(ctx, file)
	if err != nil {
		s.logger.WithError(err).Error("Failed to import feedback")
		return errorResult("Failed to import feedback", err), nil, nil
	}
	return jsonResult(ImportFeedbackResult{
		Success:  true,
		Imported: imported,
		Skipped:  skipped,
		Message:  fmt.Sprintf("Imported %d feedback entries, skipped %d duplicates", imported, skipped),
	})
}

// clampWeeks applies the duration defaults and ceiling for tool calls.
func clampWeeks(weeks int) (int, error) {
	if weeks <= 0 {
		return defaultDurationWeeks, nil
	}
	if weeks > maxDurationWeeks {
		return 0, fmt.Errorf("duration exceeds the maximum of %d weeks", maxDurationWeeks)
	}
	return weeks, nil
}

// jsonResult renders v as indented JSON text content and returns it as the
// structured output too.
func jsonResult(v any) (*mcp.CallToolResult, any, error) {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Failed to encode result", err), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(payload)},
		},
	}, v, nil
}

// errorResult creates a standardized error result for tool calls
func errorResult(message string, err error) *mcp.CallToolResult {
	errorText := fmt.Sprintf("Error: %s", message)
	if err != nil {
		errorText += fmt.Sprintf(" - %v", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: errorText},
		},
		IsError: true,
	}
}
