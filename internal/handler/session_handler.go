package handler

import (
	"errors"
	"net/http"

	"github.com/aeroprep/aeroprep-backend/internal/grading"
	"github.com/aeroprep/aeroprep-backend/internal/middleware"
	"github.com/aeroprep/aeroprep-backend/internal/model"
	"github.com/aeroprep/aeroprep-backend/internal/response"
	"github.com/aeroprep/aeroprep-backend/internal/service"
	"github.com/aeroprep/aeroprep-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionHandler drives the candidate session lifecycle over HTTP.
type SessionHandler struct {
	sessionService  *service.SessionService
	questionService *service.QuestionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessionService *service.SessionService, questionService *service.QuestionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService, questionService: questionService}
}

// Start godoc
// POST /api/v1/user/sessions
// Starts an exam session when exam_id is set, otherwise a practice session
// over the given filter.
func (h *SessionHandler) Start(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.StartSessionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	var started *service.StartedSession
	var err error
	if req.ExamID != nil {
		started, err = h.sessionService.StartExam(c.Request.Context(), claims.UserID, *req.ExamID)
	} else {
		var filter model.QuestionFilter
		filter, err = h.questionService.BuildFilter(req.Category, req.QuestionType, req.Difficulty, req.Limit)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidFilter)
			return
		}
		started, err = h.sessionService.StartPractice(c.Request.Context(), claims.UserID, filter)
	}
	if err != nil {
		if errors.Is(err, service.ErrNoQuestions) {
			response.Fail(c, http.StatusNotFound, response.ErrNoQuestions)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, started)
}

// State godoc
// GET /api/v1/user/sessions/:id
// Returns answers so far, current index and remaining seconds for reload.
func (h *SessionHandler) State(c *gin.Context) {
	claims, sessionID, ok := h.sessionParams(c)
	if !ok {
		return
	}

	state, err := h.sessionService.State(c.Request.Context(), claims.UserID, sessionID)
	if err != nil {
		h.failSession(c, err)
		return
	}

	response.Success(c, http.StatusOK, state)
}

// Answer godoc
// POST /api/v1/user/sessions/:id/answer
// Checkpoints a single answer.
func (h *SessionHandler) Answer(c *gin.Context) {
	claims, sessionID, ok := h.sessionParams(c)
	if !ok {
		return
	}

	var req model.AnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.sessionService.Answer(c.Request.Context(), claims.UserID, sessionID, req.QuestionID, req.Answer); err != nil {
		h.failSession(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// Submit godoc
// POST /api/v1/user/sessions/:id/submit
// Grades the session and persists the attempt. Idempotent per session: a
// duplicate submit returns the stored attempt.
func (h *SessionHandler) Submit(c *gin.Context) {
	claims, sessionID, ok := h.sessionParams(c)
	if !ok {
		return
	}

	var req model.SubmitRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	outcome, err := h.sessionService.Submit(c.Request.Context(), claims.UserID, sessionID, req)
	if err != nil {
		if errors.Is(err, grading.ErrNoAnswers) {
			response.Fail(c, http.StatusBadRequest, response.ErrNoAnswers)
			return
		}
		h.failSession(c, err)
		return
	}

	response.Success(c, http.StatusOK, outcome)
}

func (h *SessionHandler) sessionParams(c *gin.Context) (*service.Claims, uuid.UUID, bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return nil, uuid.Nil, false
	}

	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return nil, uuid.Nil, false
	}
	return claims, sessionID, true
}

func (h *SessionHandler) failSession(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrSessionForbidden):
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
	case errors.Is(err, service.ErrSessionFinished):
		response.Fail(c, http.StatusConflict, response.ErrSessionFinished)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
