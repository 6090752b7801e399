package service

import (
	"context"
	"errors"

	"github.com/aeroprep/aeroprep-backend/internal/model"
	"github.com/aeroprep/aeroprep-backend/internal/repository"
	"github.com/aeroprep/aeroprep-backend/internal/response"
)

// Question errors.
var (
	ErrInvalidFilter = errors.New("invalid question filter")
	ErrNoQuestions   = errors.New("no questions match the filter")
)

const defaultQuestionLimit = 20

// QuestionService handles question bank business logic.
type QuestionService struct {
	questionRepo *repository.QuestionRepository
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(questionRepo *repository.QuestionRepository) *QuestionService {
	return &QuestionService{questionRepo: questionRepo}
}

// BuildFilter validates raw filter strings against the enumerations and
// returns a typed filter. Validation happens before any storage access.
func (s *QuestionService) BuildFilter(category, questionType, difficulty string, limit int) (model.QuestionFilter, error) {
	var f model.QuestionFilter
	if !model.ValidCategory(category) {
		return f, ErrInvalidFilter
	}
	f.Category = model.Category(category)
	if questionType != "" {
		if !model.ValidQuestionType(questionType) {
			return f, ErrInvalidFilter
		}
		f.QuestionType = model.QuestionType(questionType)
	}
	if difficulty != "" {
		if !model.ValidDifficulty(difficulty) {
			return f, ErrInvalidFilter
		}
		f.Difficulty = model.Difficulty(difficulty)
	}
	if limit < 1 {
		limit = defaultQuestionLimit
	}
	if limit > 100 {
		limit = 100
	}
	f.Limit = limit
	return f, nil
}

// FetchForUser returns a random question set for the filter, sanitized for
// client delivery.
func (s *QuestionService) FetchForUser(ctx context.Context, f model.QuestionFilter) ([]model.Question, error) {
	questions, err := s.questionRepo.Sample(ctx, f)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	for i := range questions {
		questions[i] = questions[i].ForUser()
	}
	return questions, nil
}

// List retrieves questions with filters and pagination for the back office.
func (s *QuestionService) List(ctx context.Context, category, questionType, difficulty string, page, perPage int) ([]model.Question, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}

	questions, total, err := s.questionRepo.List(ctx, category, questionType, difficulty, perPage, (page-1)*perPage)
	if err != nil {
		return nil, nil, err
	}
	if questions == nil {
		questions = []model.Question{}
	}

	pagination := response.NewPagination(page, perPage, total)
	return questions, pagination, nil
}

// GetByID retrieves a question with its answer key, for the back office.
func (s *QuestionService) GetByID(ctx context.Context, id int64) (*model.Question, error) {
	return s.questionRepo.GetByID(ctx, id)
}

// Create validates the answer-key invariant and stores a new question.
func (s *QuestionService) Create(ctx context.Context, q *model.Question) error {
	if err := q.ValidateAnswerKey(); err != nil {
		return err
	}
	return s.questionRepo.Create(ctx, q)
}

// Update validates the answer-key invariant and updates a question. Past
// attempts are never rescored; the progress ledger is frozen.
func (s *QuestionService) Update(ctx context.Context, q *model.Question) error {
	if err := q.ValidateAnswerKey(); err != nil {
		return err
	}
	return s.questionRepo.Update(ctx, q)
}

// Delete removes a question. Ledger rows referencing it survive but drop out
// of per-category and per-type breakdowns.
func (s *QuestionService) Delete(ctx context.Context, id int64) error {
	return s.questionRepo.Delete(ctx, id)
}
