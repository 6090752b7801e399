package model

import "time"

// Exam is a fixed, curated set of questions with an optional time limit.
type Exam struct {
	ID               int64          `json:"id"`
	Title            string         `json:"title"`
	Description      string         `json:"description,omitempty"`
	Category         Category       `json:"category"`
	QuestionTypes    []QuestionType `json:"question_types,omitempty"`
	Difficulty       Difficulty     `json:"difficulty,omitempty"`
	TimeLimitMinutes *int           `json:"time_limit_minutes,omitempty"`
	QuestionCount    int            `json:"question_count"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// ExamQuestion is the ordering join row between exams and questions.
// Positions are unique and contiguous within an exam, starting at 1.
type ExamQuestion struct {
	ExamID     int64 `json:"exam_id"`
	QuestionID int64 `json:"question_id"`
	Position   int   `json:"position"`
}

// CreateExamRequest is the payload for creating an exam.
type CreateExamRequest struct {
	Title            string   `json:"title" binding:"required,min=3,max=255"`
	Description      string   `json:"description" binding:"omitempty,max=2000"`
	Category         string   `json:"category" binding:"required,oneof=pilot hostess amt"`
	QuestionTypes    []string `json:"question_types" binding:"omitempty,dive,oneof=math reading mechanical abstract"`
	Difficulty       string   `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
	TimeLimitMinutes *int     `json:"time_limit_minutes" binding:"omitempty,min=1,max=480"`
}

// UpdateExamRequest is the payload for updating an exam.
type UpdateExamRequest struct {
	Title            string   `json:"title" binding:"required,min=3,max=255"`
	Description      string   `json:"description" binding:"omitempty,max=2000"`
	Category         string   `json:"category" binding:"required,oneof=pilot hostess amt"`
	QuestionTypes    []string `json:"question_types" binding:"omitempty,dive,oneof=math reading mechanical abstract"`
	Difficulty       string   `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
	TimeLimitMinutes *int     `json:"time_limit_minutes" binding:"omitempty,min=1,max=480"`
}

// ReplaceExamQuestionsRequest replaces an exam's ordered question set.
// The given order becomes positions 1..N.
type ReplaceExamQuestionsRequest struct {
	QuestionIDs []int64 `json:"question_ids" binding:"required,min=1,dive,min=1"`
}
