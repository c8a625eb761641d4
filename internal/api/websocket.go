package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/healthtwin-engine/internal/domain"
	"github.com/healthtwin-engine/internal/service"
)

// writeWait bounds how long a single progression frame may take to send.
const writeWait = 10 * time.Second

var progressionUpgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		// Cross-origin browser clients are allowed; the REST surface
		// already answers CORS the same way.
		return true
	},
}

// progressionRequest is the single frame a client sends to start a stream.
type progressionRequest struct {
	SessionID string                `json:"session_id"`
	Baseline  domain.Snapshot       `json:"baseline"`
	Profile   domain.PatientProfile `json:"profile"`
	Rows      string                `json:"rows"`
	Weeks     int                   `json:"duration_weeks"`
}

// progressionFrame is one server-to-client message: a weekly entry, the
// completion marker, or an error.
type progressionFrame struct {
	Type     string            `json:"type"`
	Week     int               `json:"week,omitempty"`
	Entry    *domain.WeekEntry `json:"entry,omitempty"`
	ResultID string            `json:"result_id,omitempty"`
	Message  string            `json:"message,omitempty"`
}

// handleProgressionStream streams a weekly progression over WebSocket. The
// client sends one request frame, the server answers with one frame per
// week followed by a completion frame carrying the stored result ID.
func (s *Server) handleProgressionStream(c *gin.Context) {
	conn, err := progressionUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.WithError(err).Warn("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	var req progressionRequest
	if err := conn.ReadJSON(&req); err != nil {
		s.writeFrame(conn, progressionFrame{Type: "error", Message: "invalid request frame: " + err.Error()})
		return
	}

	simCfg := s.configManager.GetConfig().Simulation
	if req.Weeks <= 0 {
		req.Weeks = simCfg.DefaultDurationWeeks
	}
	if simCfg.MaxDurationWeeks > 0 && req.Weeks > simCfg.MaxDurationWeeks {
		s.writeFrame(conn, progressionFrame{Type: "error", Message: "duration_weeks exceeds the configured maximum"})
		return
	}

	result, err := s.twin.RunWeeklySimulation(c.Request.Context(), &service.RunWeeklySimulationParams{
		SessionID: req.SessionID,
		Baseline:  req.Baseline,
		Profile:   req.Profile,
		CSV:       req.Rows,
		Weeks:     req.Weeks,
	})
	if err != nil {
		s.writeFrame(conn, progressionFrame{Type: "error", Message: err.Error()})
		return
	}

	for i := range result.Weekly {
		entry := &result.Weekly[i]
		if err := s.writeFrame(conn, progressionFrame{Type: "week", Week: entry.Week, Entry: entry}); err != nil {
			return
		}
	}

	s.writeFrame(conn, progressionFrame{Type: "complete", ResultID: result.ResultID})
}

// writeFrame sends one frame under the per-frame write deadline.
func (s *Server) writeFrame(conn *websocket.Conn, frame progressionFrame) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	if err := conn.WriteJSON(frame); err != nil {
		s.logger.WithError(err).WithField("frame_type", frame.Type).Warn("Failed to write progression frame")
		return err
	}
	return nil
}
