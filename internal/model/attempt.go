package model

import (
	"time"

	"github.com/google/uuid"
)

// ExamAttempt is one completed pass through a question set. Attempts exist
// only after submission; an attempt with a nil CompletedAt never feeds
// statistics, leaderboards or certificates.
type ExamAttempt struct {
	ID               int64      `json:"id"`
	UserID           int64      `json:"user_id"`
	ExamID           *int64     `json:"exam_id,omitempty"` // nil for pure-practice attempts
	SessionID        uuid.UUID  `json:"session_id"`
	Score            int        `json:"score"`
	TimeSpentSeconds *int       `json:"time_spent_seconds,omitempty"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
}

// ProgressEntry is one append-only ledger row recording the correctness of a
// single answered question. Entries are never updated or deleted; accuracy
// statistics derive from this ledger, never from re-grading raw answers.
type ProgressEntry struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	QuestionID int64     `json:"question_id"`
	AttemptID  int64     `json:"attempt_id"`
	IsCorrect  bool      `json:"is_correct"`
	CreatedAt  time.Time `json:"created_at"`
}

// AttemptSummary is an attempt row enriched for history listings.
type AttemptSummary struct {
	ExamAttempt
	ExamTitle *string `json:"exam_title,omitempty"`
}

// StartSessionRequest starts either an exam session (ExamID set) or an
// ad-hoc practice session (filter fields set).
type StartSessionRequest struct {
	ExamID       *int64 `json:"exam_id" binding:"omitempty,min=1"`
	Category     string `json:"category" binding:"omitempty,oneof=pilot hostess amt"`
	QuestionType string `json:"question_type" binding:"omitempty,oneof=math reading mechanical abstract"`
	Difficulty   string `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
	Limit        int    `json:"limit" binding:"omitempty,min=1,max=100"`
}

// AnswerRequest checkpoints a single selected answer.
type AnswerRequest struct {
	QuestionID int64  `json:"question_id" binding:"required,min=1"`
	Answer     string `json:"answer" binding:"required,max=500"`
}

// SubmitRequest carries the client's final answer snapshot.
type SubmitRequest struct {
	Answers          map[int64]string `json:"answers" binding:"required"`
	TimeSpentSeconds *int             `json:"time_spent_seconds" binding:"omitempty,min=0"`
}
