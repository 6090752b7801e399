// Package grading scores a submitted answer map against an authoritative
// question set. Grading is pure and deterministic; persisting the attempt
// and its progress ledger is the caller's concern.
package grading

import (
	"errors"
	"math"

	"github.com/aeroprep/aeroprep-backend/internal/model"
)

// ErrNoAnswers is returned when no submitted answer matches any question in
// the authoritative set, which would make the percentage a division by zero.
var ErrNoAnswers = errors.New("no answered questions to grade")

// QuestionResult is the scored outcome of a single answered question.
type QuestionResult struct {
	QuestionID    int64  `json:"question_id"`
	QuestionText  string `json:"question_text"`
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
	IsCorrect     bool   `json:"is_correct"`
	Explanation   string `json:"explanation,omitempty"`
}

// Score is the aggregate outcome of a submission.
type Score struct {
	Correct    int `json:"correct"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// Result pairs the per-question outcomes (in question-set order) with the
// aggregate score.
type Result struct {
	Score     Score            `json:"score"`
	Questions []QuestionResult `json:"questions"`
}

// Grade scores answers against questions.
//
// Questions without a submitted answer are skipped entirely: they do not
// appear in the result list and do not count toward the total. Submitted
// answers for unknown question ids are silently dropped. Correctness is
// exact string equality with the stored answer key, no normalization or
// partial credit. The percentage is round-half-up of correct/total*100.
func Grade(answers map[int64]string, questions []model.Question) (*Result, error) {
	results := make([]QuestionResult, 0, len(answers))
	correct := 0

	for _, q := range questions {
		submitted, ok := answers[q.ID]
		if !ok {
			continue
		}
		isCorrect := submitted == q.CorrectAnswer
		if isCorrect {
			correct++
		}
		results = append(results, QuestionResult{
			QuestionID:    q.ID,
			QuestionText:  q.QuestionText,
			UserAnswer:    submitted,
			CorrectAnswer: q.CorrectAnswer,
			IsCorrect:     isCorrect,
			Explanation:   q.Explanation,
		})
	}

	total := len(results)
	if total == 0 {
		return nil, ErrNoAnswers
	}

	return &Result{
		Score: Score{
			Correct:    correct,
			Total:      total,
			Percentage: int(math.Round(float64(correct) / float64(total) * 100)),
		},
		Questions: results,
	}, nil
}
