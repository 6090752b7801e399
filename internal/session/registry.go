package session

import (
	"sync"
	"time"

	"github.com/aeroprep/aeroprep-backend/internal/model"
	"github.com/google/uuid"
)

// Entry is one live in-progress session. It owns the authoritative question
// set (with correct answers, which never leave the server), the candidate's
// answer state and, for timed sessions, the countdown.
type Entry struct {
	ID        uuid.UUID
	UserID    int64
	ExamID    *int64 // nil for practice sessions
	Questions []model.Question
	StartedAt time.Time
	Countdown *Countdown // nil for untimed sessions

	mu    sync.Mutex
	state *State
}

// NewEntry builds an Entry over the given question set.
func NewEntry(id uuid.UUID, userID int64, examID *int64, questions []model.Question) *Entry {
	ids := make([]int64, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}
	return &Entry{
		ID:        id,
		UserID:    userID,
		ExamID:    examID,
		Questions: questions,
		StartedAt: time.Now(),
		state:     NewState(ids),
	}
}

// SelectAnswer records an answer on the underlying state.
func (e *Entry) SelectAnswer(questionID int64, answerKey string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.SelectAnswer(questionID, answerKey)
}

// JumpTo moves the current position; out-of-range indices are ignored.
func (e *Entry) JumpTo(index int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.JumpTo(index)
}

// Index returns the current question position.
func (e *Entry) Index() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Index()
}

// Snapshot returns a copy of the answer map.
func (e *Entry) Snapshot() map[int64]string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Snapshot()
}

// Remaining returns the seconds left, or nil for untimed sessions.
func (e *Entry) Remaining() *int {
	if e.Countdown == nil {
		return nil
	}
	r := e.Countdown.Remaining()
	return &r
}

// Registry owns every live session in the process, keyed by session id.
type Registry struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]*Entry
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[uuid.UUID]*Entry)}
}

// Put registers a session.
func (r *Registry) Put(e *Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[e.ID] = e
}

// Get returns a live session, or nil if unknown.
func (r *Registry) Get(id uuid.UUID) *Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.entries[id]
}

// Take removes and returns a session atomically. Exactly one caller wins;
// manual submit and countdown expiry both go through Take, which is what
// makes submission exactly-once even when they race in the same tick window.
func (r *Registry) Take(id uuid.UUID) (*Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if ok {
		delete(r.entries, id)
	}
	return e, ok
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
