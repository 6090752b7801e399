package model

import (
	"errors"
	"time"
)

// Category is the top-level career track a question belongs to.
type Category string

const (
	CategoryPilot   Category = "pilot"
	CategoryHostess Category = "hostess"
	CategoryAMT     Category = "amt"
)

// QuestionType is the cognitive skill tag of a question.
type QuestionType string

const (
	QuestionTypeMath       QuestionType = "math"
	QuestionTypeReading    QuestionType = "reading"
	QuestionTypeMechanical QuestionType = "mechanical"
	QuestionTypeAbstract   QuestionType = "abstract"
)

// Difficulty grades how hard a question is.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ValidCategory reports whether c is one of the known categories.
func ValidCategory(c string) bool {
	switch Category(c) {
	case CategoryPilot, CategoryHostess, CategoryAMT:
		return true
	}
	return false
}

// ValidQuestionType reports whether t is one of the known question types.
func ValidQuestionType(t string) bool {
	switch QuestionType(t) {
	case QuestionTypeMath, QuestionTypeReading, QuestionTypeMechanical, QuestionTypeAbstract:
		return true
	}
	return false
}

// ValidDifficulty reports whether d is one of the known difficulties.
func ValidDifficulty(d string) bool {
	switch Difficulty(d) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// optionKeys maps option position to its letter key.
var optionKeys = []string{"A", "B", "C", "D"}

// OptionKey returns the letter key ("A".."D") for an option position.
func OptionKey(index int) string {
	if index < 0 || index >= len(optionKeys) {
		return ""
	}
	return optionKeys[index]
}

// ErrAnswerKeyMismatch is returned when a question's correct answer does not
// correspond to any of its options.
var ErrAnswerKeyMismatch = errors.New("correct answer does not match any option")

// Question represents a single bank question.
type Question struct {
	ID            int64        `json:"id"`
	QuestionText  string       `json:"question_text"`
	Options       []string     `json:"options"`
	CorrectAnswer string       `json:"correct_answer,omitempty"`
	Explanation   string       `json:"explanation,omitempty"`
	ImageURL      string       `json:"image_url,omitempty"`
	QuestionType  QuestionType `json:"question_type"`
	Category      Category     `json:"category"`
	Difficulty    Difficulty   `json:"difficulty"`
	CreatedAt     time.Time    `json:"created_at"`
}

// ValidateAnswerKey enforces the invariant that CorrectAnswer corresponds to
// one of Options by position: either a letter key within range, or a literal
// equal to one of the option strings.
func (q *Question) ValidateAnswerKey() error {
	for i := range q.Options {
		if q.CorrectAnswer == OptionKey(i) || q.CorrectAnswer == q.Options[i] {
			return nil
		}
	}
	return ErrAnswerKeyMismatch
}

// ForUser returns a sanitized copy for client delivery: the correct answer
// and explanation are stripped.
func (q Question) ForUser() Question {
	q.CorrectAnswer = ""
	q.Explanation = ""
	return q
}

// QuestionFilter is the typed, pre-validated filter for question-set fetches.
type QuestionFilter struct {
	Category     Category
	QuestionType QuestionType // optional, empty = any
	Difficulty   Difficulty   // optional, empty = any
	Limit        int
}

// CreateQuestionRequest is the payload for creating a question.
type CreateQuestionRequest struct {
	QuestionText  string   `json:"question_text" binding:"required,min=1,max=2000"`
	Options       []string `json:"options" binding:"required,min=2,max=4,dive,required,max=500"`
	CorrectAnswer string   `json:"correct_answer" binding:"required,max=500"`
	Explanation   string   `json:"explanation" binding:"omitempty,max=2000"`
	ImageURL      string   `json:"image_url" binding:"omitempty,max=500"`
	QuestionType  string   `json:"question_type" binding:"required,oneof=math reading mechanical abstract"`
	Category      string   `json:"category" binding:"required,oneof=pilot hostess amt"`
	Difficulty    string   `json:"difficulty" binding:"required,oneof=easy medium hard"`
}

// UpdateQuestionRequest is the payload for updating a question.
// Edits never rescore past attempts; the progress ledger is frozen.
type UpdateQuestionRequest struct {
	QuestionText  string   `json:"question_text" binding:"required,min=1,max=2000"`
	Options       []string `json:"options" binding:"required,min=2,max=4,dive,required,max=500"`
	CorrectAnswer string   `json:"correct_answer" binding:"required,max=500"`
	Explanation   string   `json:"explanation" binding:"omitempty,max=2000"`
	ImageURL      string   `json:"image_url" binding:"omitempty,max=500"`
	QuestionType  string   `json:"question_type" binding:"required,oneof=math reading mechanical abstract"`
	Category      string   `json:"category" binding:"required,oneof=pilot hostess amt"`
	Difficulty    string   `json:"difficulty" binding:"required,oneof=easy medium hard"`
}
