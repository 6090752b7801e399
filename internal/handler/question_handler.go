package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/aeroprep/aeroprep-backend/internal/model"
	"github.com/aeroprep/aeroprep-backend/internal/response"
	"github.com/aeroprep/aeroprep-backend/internal/service"
	"github.com/aeroprep/aeroprep-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// QuestionHandler handles back-office question CRUD and the candidate-facing
// question feed.
type QuestionHandler struct {
	questionService *service.QuestionService
}

// NewQuestionHandler creates a new QuestionHandler.
func NewQuestionHandler(questionService *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

// FetchForUser godoc
// GET /api/v1/user/questions?category=&type=&difficulty=&limit=
// Returns a random question set with answer keys stripped. The filter is
// validated against the enumerations before any storage access.
func (h *QuestionHandler) FetchForUser(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	filter, err := h.questionService.BuildFilter(
		c.Query("category"), c.Query("type"), c.Query("difficulty"), limit)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidFilter)
		return
	}

	questions, err := h.questionService.FetchForUser(c.Request.Context(), filter)
	if err != nil {
		if errors.Is(err, service.ErrNoQuestions) {
			response.Fail(c, http.StatusNotFound, response.ErrNoQuestions)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"questions": questions})
}

// List godoc
// GET /api/v1/admin/questions?category=&type=&difficulty=&page=&per_page=
func (h *QuestionHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))

	questions, pagination, err := h.questionService.List(c.Request.Context(),
		c.Query("category"), c.Query("type"), c.Query("difficulty"), page, perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"questions": questions}, pagination)
}

// Get godoc
// GET /api/v1/admin/questions/:id
func (h *QuestionHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	question, err := h.questionService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"question": question})
}

// Create godoc
// POST /api/v1/admin/questions
func (h *QuestionHandler) Create(c *gin.Context) {
	var req model.CreateQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	question := questionFromRequest(req.QuestionText, req.Options, req.CorrectAnswer,
		req.Explanation, req.ImageURL, req.QuestionType, req.Category, req.Difficulty)

	if err := h.questionService.Create(c.Request.Context(), question); err != nil {
		if errors.Is(err, model.ErrAnswerKeyMismatch) {
			response.Fail(c, http.StatusBadRequest, response.ErrAnswerKeyInvalid)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"question": question})
}

// Update godoc
// PUT /api/v1/admin/questions/:id
// Edits never rescore past attempts.
func (h *QuestionHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	question := questionFromRequest(req.QuestionText, req.Options, req.CorrectAnswer,
		req.Explanation, req.ImageURL, req.QuestionType, req.Category, req.Difficulty)
	question.ID = id

	if err := h.questionService.Update(c.Request.Context(), question); err != nil {
		switch {
		case errors.Is(err, model.ErrAnswerKeyMismatch):
			response.Fail(c, http.StatusBadRequest, response.ErrAnswerKeyInvalid)
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"question": question})
}

// Delete godoc
// DELETE /api/v1/admin/questions/:id
func (h *QuestionHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.questionService.Delete(c.Request.Context(), id); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

func questionFromRequest(text string, options []string, correct, explanation, imageURL, qType, category, difficulty string) *model.Question {
	return &model.Question{
		QuestionText:  text,
		Options:       options,
		CorrectAnswer: correct,
		Explanation:   explanation,
		ImageURL:      imageURL,
		QuestionType:  model.QuestionType(qType),
		Category:      model.Category(category),
		Difficulty:    model.Difficulty(difficulty),
	}
}
