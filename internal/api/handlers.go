package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/healthtwin-engine/internal/domain"
	"github.com/healthtwin-engine/internal/feedback"
	"github.com/healthtwin-engine/internal/service"
)

// respondError writes the uniform error envelope.
func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, domain.NewAPIError(code, message, c.GetString("correlation_id")))
}

// respondServiceError maps sentinel errors from the service layer onto
// HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrEmptyInput),
		errors.Is(err, domain.ErrUnknownTestType):
		respondError(c, http.StatusBadRequest, domain.ErrCodeInvalidInput, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		respondError(c, http.StatusNotFound, domain.ErrCodeNotFound, err.Error())
	default:
		respondError(c, http.StatusInternalServerError, domain.ErrCodeInternalServer, err.Error())
	}
}

// respondBadRequest reports a malformed or invalid request body.
func respondBadRequest(c *gin.Context, err error) {
	respondError(c, http.StatusBadRequest, domain.ErrCodeInvalidInput, "invalid request body: "+err.Error())
}

type createSessionRequest struct {
	Metadata map[string]any `json:"metadata"`
}

// handleCreateSession opens a new patient session. The body is optional.
func (s *Server) handleCreateSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondBadRequest(c, err)
		return
	}

	session, err := s.twin.CreateSession(c.Request.Context(), req.Metadata)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

// handleGetSession loads a patient session by ID.
func (s *Server) handleGetSession(c *gin.Context) {
	session, err := s.twin.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// handleInitializeTwin builds the baseline state for a digital twin.
func (s *Server) handleInitializeTwin(c *gin.Context) {
	var params service.InitializeTwinParams
	if err := c.ShouldBindJSON(&params); err != nil {
		respondBadRequest(c, err)
		return
	}

	// A configured baseline seed pins generation for every request that
	// does not pin its own, making deployments reproducible.
	if params.Seed == nil {
		if seed := s.configManager.GetConfig().Simulation.BaselineSeed; seed != 0 {
			params.Seed = &seed
		}
	}

	result, err := s.twin.InitializeTwin(c.Request.Context(), &params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// handleVirtualTest runs a virtual lab test against a twin state.
func (s *Server) handleVirtualTest(c *gin.Context) {
	var params service.VirtualTestParams
	if err := c.ShouldBindJSON(&params); err != nil {
		respondBadRequest(c, err)
		return
	}
	if params.TestType == "" {
		respondError(c, http.StatusBadRequest, domain.ErrCodeInvalidInput, "test_type is required")
		return
	}

	result, err := s.twin.VirtualTest(c.Request.Context(), &params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// clampDuration applies the configured default and ceiling to a requested
// simulation duration. Returns false after answering when the request
// exceeds the ceiling.
func (s *Server) clampDuration(c *gin.Context, weeks *int) bool {
	simCfg := s.configManager.GetConfig().Simulation
	if *weeks <= 0 {
		*weeks = simCfg.DefaultDurationWeeks
	}
	if simCfg.MaxDurationWeeks > 0 && *weeks > simCfg.MaxDurationWeeks {
		respondError(c, http.StatusBadRequest, domain.ErrCodeInvalidInput,
			"duration_weeks exceeds the maximum of "+strconv.Itoa(simCfg.MaxDurationWeeks))
		return false
	}
	return true
}

// handleSimulate projects an intervention plan onto a baseline.
func (s *Server) handleSimulate(c *gin.Context) {
	var params service.RunSimulationParams
	if err := c.ShouldBindJSON(&params); err != nil {
		respondBadRequest(c, err)
		return
	}
	if !s.clampDuration(c, &params.Weeks) {
		return
	}

	result, err := s.twin.RunSimulation(c.Request.Context(), &params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// handleSimulateCSV replays measured CSV rows week by week.
func (s *Server) handleSimulateCSV(c *gin.Context) {
	var params service.RunWeeklySimulationParams
	if err := c.ShouldBindJSON(&params); err != nil {
		respondBadRequest(c, err)
		return
	}
	if !s.clampDuration(c, &params.Weeks) {
		return
	}

	result, err := s.twin.RunWeeklySimulation(c.Request.Context(), &params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

type scoreRequest struct {
	Snapshot domain.Snapshot `json:"current_parameters"`
}

// handleScore computes the weighted health score for a snapshot.
func (s *Server) handleScore(c *gin.Context) {
	var req scoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	c.JSON(http.StatusOK, s.twin.Score(c.Request.Context(), req.Snapshot))
}

type reportRequest struct {
	Snapshot domain.Snapshot       `json:"current_parameters"`
	Profile  domain.PatientProfile `json:"profile"`
}

// handleReport renders the annotated lab report for a snapshot.
func (s *Server) handleReport(c *gin.Context) {
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	c.JSON(http.StatusOK, s.twin.Report(c.Request.Context(), req.Snapshot, req.Profile))
}

type compareRequest struct {
	Baseline domain.Snapshot `json:"baseline_parameters"`
	Current  domain.Snapshot `json:"current_parameters"`
}

// handleCompare diffs two twin states.
func (s *Server) handleCompare(c *gin.Context) {
	var req compareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	c.JSON(http.StatusOK, s.twin.CompareSnapshots(req.Baseline, req.Current))
}

// handleMedicationImpact predicts parameter shifts under a medication.
func (s *Server) handleMedicationImpact(c *gin.Context) {
	var params service.MedicationImpactParams
	if err := c.ShouldBindJSON(&params); err != nil {
		respondBadRequest(c, err)
		return
	}
	if params.Medication == "" {
		respondError(c, http.StatusBadRequest, domain.ErrCodeInvalidInput, "medication_name is required")
		return
	}

	result, err := s.twin.PredictMedicationImpact(c.Request.Context(), &params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// handleListScenarios returns predefined scenarios plus the session's
// custom ones when session_id is given.
func (s *Server) handleListScenarios(c *gin.Context) {
	scenarios, err := s.twin.ListScenarios(c.Request.Context(), c.Query("session_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"scenarios": scenarios,
		"count":     len(scenarios),
	})
}

// handleCreateScenario stores an operator-defined scenario.
func (s *Server) handleCreateScenario(c *gin.Context) {
	var scenario domain.SimulationScenario
	if err := c.ShouldBindJSON(&scenario); err != nil {
		respondBadRequest(c, err)
		return
	}

	if err := s.twin.CreateScenario(c.Request.Context(), &scenario); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, scenario)
}

// handleListReports returns the report summaries for a session.
func (s *Server) handleListReports(c *gin.Context) {
	reports, err := s.twin.ListReports(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reports": reports,
		"count":   len(reports),
	})
}

// handleUploadReport stores an uploaded medical report.
func (s *Server) handleUploadReport(c *gin.Context) {
	var report domain.MedicalReport
	if err := c.ShouldBindJSON(&report); err != nil {
		respondBadRequest(c, err)
		return
	}
	if report.Filename == "" || report.Content == "" {
		respondError(c, http.StatusBadRequest, domain.ErrCodeInvalidInput, "filename and content are required")
		return
	}

	if err := s.twin.UploadReport(c.Request.Context(), &report); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, report)
}

// handleDeleteReport removes an uploaded medical report.
func (s *Server) handleDeleteReport(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, domain.ErrCodeInvalidInput, "report id must be numeric")
		return
	}

	if err := s.twin.DeleteReport(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// handleListSimulations returns the stored simulation results for a session.
func (s *Server) handleListSimulations(c *gin.Context) {
	results, err := s.twin.ListSimulations(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"simulations": results,
		"count":       len(results),
	})
}

// handleDeleteSimulation removes a stored simulation result.
func (s *Server) handleDeleteSimulation(c *gin.Context) {
	if err := s.twin.DeleteSimulation(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// handleSubmitFeedback records how a simulation outcome held up.
func (s *Server) handleSubmitFeedback(c *gin.Context) {
	if s.feedback == nil {
		respondError(c, http.StatusServiceUnavailable, domain.ErrCodeUnavailable, "feedback store is not configured")
		return
	}

	var fb feedback.OutcomeFeedback
	if err := c.ShouldBindJSON(&fb); err != nil {
		respondBadRequest(c, err)
		return
	}
	if fb.SessionID == "" || fb.SimulationID == "" {
		respondError(c, http.StatusBadRequest, domain.ErrCodeInvalidInput, "session_id and simulation_id are required")
		return
	}

	if err := s.feedback.Save(c.Request.Context(), &fb); err != nil {
		respondError(c, http.StatusInternalServerError, domain.ErrCodeDatabaseError, err.Error())
		return
	}

	c.JSON(http.StatusCreated, fb)
}

// handleListFeedback returns the feedback recorded for a session.
func (s *Server) handleListFeedback(c *gin.Context) {
	if s.feedback == nil {
		respondError(c, http.StatusServiceUnavailable, domain.ErrCodeUnavailable, "feedback store is not configured")
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	list, err := s.feedback.ListBySession(c.Request.Context(), c.Param("sessionID"), limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, domain.ErrCodeDatabaseError, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"feedback": list,
		"count":    len(list),
	})
}
