package model

import (
	"time"

	"github.com/google/uuid"
)

// SessionCheckpoint is one autosaved answer queued for durable persistence.
// Checkpoints make in-progress sessions survive a client reload; they carry
// no correctness information.
type SessionCheckpoint struct {
	SessionID  uuid.UUID `json:"session_id"`
	UserID     int64     `json:"user_id"`
	QuestionID int64     `json:"question_id"`
	Answer     string    `json:"answer"`
	SavedAt    time.Time `json:"saved_at"`
}
