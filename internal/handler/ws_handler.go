package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/aeroprep/aeroprep-backend/internal/grading"
	"github.com/aeroprep/aeroprep-backend/internal/middleware"
	"github.com/aeroprep/aeroprep-backend/internal/model"
	"github.com/aeroprep/aeroprep-backend/internal/service"
	ws "github.com/aeroprep/aeroprep-backend/internal/websocket"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowlist permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams a live session over WebSocket: autosave and submit in,
// countdown ticks and graded events out.
type WSHandler struct {
	sessionService *service.SessionService
	log            zerolog.Logger
	upgrader       websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(sessionService *service.SessionService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		sessionService: sessionService,
		log:            log.With().Str("component", "ws_handler").Logger(),
		upgrader:       buildUpgrader(allowedOrigins),
	}
}

// SessionStream godoc
// WS /ws/v1/user/sessions/:id/stream
// Upgrades to WebSocket for real-time autosave, countdown ticks and grading.
func (h *WSHandler) SessionStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session ID"})
		return
	}

	// The session must be live and owned by the caller before upgrading.
	if _, err := h.sessionService.State(c.Request.Context(), claims.UserID, sessionID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no live session"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().
		Int64("user_id", claims.UserID).
		Str("session_id", sessionID.String()).
		Logger()
	wsLog.Info().Msg("Candidate connected")

	outcomes, cancelWatch := h.sessionService.Watch(sessionID)
	defer cancelWatch()

	// The push goroutine and the read loop both write; gorilla requires one
	// writer at a time, so every write goes through this guarded func.
	var writeMu sync.Mutex
	write := func(v interface{}) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return ws.WriteTyped(conn, v)
	}

	// Push goroutine: countdown ticks plus the graded push when the timer
	// forces a submit. The read loop below owns the connection lifetime.
	done := make(chan struct{})
	defer close(done)
	go h.pushLoop(write, claims.UserID, sessionID, outcomes, done, wsLog)

	for {
		var msg ws.AutosaveRequest
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			return
		}

		switch msg.Action {
		case ws.ActionAutosave:
			h.handleAutosave(write, claims.UserID, sessionID, &msg, wsLog)
		case ws.ActionSubmit:
			h.handleSubmit(write, claims.UserID, sessionID, wsLog)
			return
		case ws.ActionPing:
			write(ws.PongResponse{Event: ws.EventPong})
		default:
			wsLog.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
			write(ws.ErrorResponse{Event: ws.EventError, Error: "unknown action: " + string(msg.Action)})
		}
	}
}

type wsWrite func(v interface{}) error

func (h *WSHandler) handleAutosave(write wsWrite, userID int64, sessionID uuid.UUID, msg *ws.AutosaveRequest, wsLog zerolog.Logger) {
	ctx := context.Background()

	if msg.QuestionID <= 0 || msg.Answer == "" {
		write(ws.ErrorResponse{Event: ws.EventError, Error: "question_id and answer are required"})
		return
	}

	if err := h.sessionService.Answer(ctx, userID, sessionID, msg.QuestionID, msg.Answer); err != nil {
		wsLog.Error().Err(err).Msg("Autosave failed")
		write(ws.ErrorResponse{Event: ws.EventError, Error: "save failed"})
		return
	}
	if msg.Index != nil {
		_ = h.sessionService.JumpTo(ctx, userID, sessionID, *msg.Index)
	}

	write(ws.AutosaveResponse{Event: ws.EventSuccess, Status: "saved"})
}

func (h *WSHandler) handleSubmit(write wsWrite, userID int64, sessionID uuid.UUID, wsLog zerolog.Logger) {
	outcome, err := h.sessionService.Submit(context.Background(), userID, sessionID, model.SubmitRequest{Answers: map[int64]string{}})
	if err != nil {
		if errors.Is(err, grading.ErrNoAnswers) {
			// Rejected, not failed: the session stays live with nothing
			// checkpointed yet.
			write(ws.ErrorResponse{Event: ws.EventError, Error: "no answers to grade"})
			return
		}
		wsLog.Error().Err(err).Msg("Submit failed")
		write(ws.ErrorResponse{Event: ws.EventError, Error: "submit failed"})
		return
	}

	write(gradedResponse(outcome))
}

// pushLoop sends 1 Hz remaining-time ticks and the graded event if the
// countdown submits before the client does.
func (h *WSHandler) pushLoop(write wsWrite, userID int64, sessionID uuid.UUID, outcomes <-chan *service.SubmitOutcome, done <-chan struct{}, wsLog zerolog.Logger) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case outcome := <-outcomes:
			if outcome == nil {
				return
			}
			if err := write(gradedResponse(outcome)); err != nil {
				wsLog.Debug().Err(err).Msg("Graded push failed")
			}
			return
		case <-ticker.C:
			state, err := h.sessionService.State(context.Background(), userID, sessionID)
			if err != nil || state.RemainingSeconds == nil {
				continue
			}
			if err := write(ws.TickResponse{Event: ws.EventTick, RemainingSeconds: *state.RemainingSeconds}); err != nil {
				return
			}
		}
	}
}

func gradedResponse(outcome *service.SubmitOutcome) ws.GradedResponse {
	resp := ws.GradedResponse{Event: ws.EventGraded, Auto: outcome.Auto}
	if outcome.Result != nil {
		resp.Correct = outcome.Result.Score.Correct
		resp.Total = outcome.Result.Score.Total
		resp.Percentage = outcome.Result.Score.Percentage
	} else if outcome.Attempt != nil {
		resp.Percentage = outcome.Attempt.Score
	}
	return resp
}
