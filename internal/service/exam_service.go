package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aeroprep/aeroprep-backend/internal/model"
	"github.com/aeroprep/aeroprep-backend/internal/repository"
	"github.com/aeroprep/aeroprep-backend/internal/response"
)

// ErrUnknownQuestions is returned when an exam ordering references question
// ids that do not exist.
var ErrUnknownQuestions = errors.New("ordering references unknown questions")

// ExamService handles curated exam business logic.
type ExamService struct {
	examRepo     *repository.ExamRepository
	questionRepo *repository.QuestionRepository
}

// NewExamService creates a new ExamService.
func NewExamService(examRepo *repository.ExamRepository, questionRepo *repository.QuestionRepository) *ExamService {
	return &ExamService{examRepo: examRepo, questionRepo: questionRepo}
}

// List retrieves exams with optional category filter and pagination.
func (s *ExamService) List(ctx context.Context, category string, page, perPage int) ([]model.Exam, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}

	exams, total, err := s.examRepo.List(ctx, category, perPage, (page-1)*perPage)
	if err != nil {
		return nil, nil, err
	}
	if exams == nil {
		exams = []model.Exam{}
	}

	pagination := response.NewPagination(page, perPage, total)
	return exams, pagination, nil
}

// GetByID retrieves an exam.
func (s *ExamService) GetByID(ctx context.Context, id int64) (*model.Exam, error) {
	return s.examRepo.GetByID(ctx, id)
}

// Create stores a new exam.
func (s *ExamService) Create(ctx context.Context, e *model.Exam) error {
	return s.examRepo.Create(ctx, e)
}

// Update modifies an exam's metadata. The question ordering is managed
// separately through ReplaceQuestions.
func (s *ExamService) Update(ctx context.Context, e *model.Exam) error {
	return s.examRepo.Update(ctx, e)
}

// Delete removes an exam and its ordering rows. Completed attempts keep
// their exam_id reference until the cascade nulls it.
func (s *ExamService) Delete(ctx context.Context, id int64) error {
	return s.examRepo.Delete(ctx, id)
}

// ReplaceQuestions replaces an exam's ordered question set after checking
// every referenced question exists. The given order becomes contiguous
// positions 1..N.
func (s *ExamService) ReplaceQuestions(ctx context.Context, examID int64, questionIDs []int64) error {
	if _, err := s.examRepo.GetByID(ctx, examID); err != nil {
		return err
	}

	found, err := s.questionRepo.ListByIDs(ctx, questionIDs)
	if err != nil {
		return fmt.Errorf("resolve questions: %w", err)
	}
	if len(found) != len(uniqueIDs(questionIDs)) {
		return ErrUnknownQuestions
	}

	return s.examRepo.ReplaceQuestions(ctx, examID, questionIDs)
}

// Questions retrieves an exam's questions in position order, answer keys
// included. Callers serving users must sanitize.
func (s *ExamService) Questions(ctx context.Context, examID int64) ([]model.Question, error) {
	return s.questionRepo.ListByExam(ctx, examID)
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
