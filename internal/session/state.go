// Package session holds the in-progress attempt machinery: the answer/position
// state of a single candidate, the countdown controller for timed sessions,
// and the registry that owns every live session in the process.
package session

// Direction moves the current question index by one step.
type Direction int

const (
	Backward Direction = -1
	Forward  Direction = 1
)

// State tracks one candidate's in-progress answers and navigation position
// for either a fixed exam or an ad-hoc practice batch.
//
// None of its operations fail: invalid indices are clamped or ignored so a
// mid-session client can never be crashed by a stray navigation event.
// State is not safe for concurrent use; the registry Entry serializes access.
type State struct {
	questionIDs []int64
	answers     map[int64]string
	index       int
}

// NewState creates a State over the given ordered question ids.
func NewState(questionIDs []int64) *State {
	return &State{
		questionIDs: questionIDs,
		answers:     make(map[int64]string),
	}
}

// SelectAnswer records or overwrites the answer for a question. Empty answer
// keys are ignored; no validation against the correct answer happens here.
// The current position does not advance.
func (s *State) SelectAnswer(questionID int64, answerKey string) {
	if answerKey == "" {
		return
	}
	s.answers[questionID] = answerKey
}

// Advance moves the current index one step in the given direction, clamped
// to [0, questionCount-1]. Moving out of bounds is a no-op.
func (s *State) Advance(d Direction) {
	s.JumpTo(s.index + int(d))
}

// JumpTo sets the current index directly if it is in range; otherwise the
// call is ignored.
func (s *State) JumpTo(index int) {
	if index < 0 || index >= len(s.questionIDs) {
		return
	}
	s.index = index
}

// Index returns the current question index.
func (s *State) Index() int {
	return s.index
}

// QuestionCount returns the number of questions in the session.
func (s *State) QuestionCount() int {
	return len(s.questionIDs)
}

// Answered returns how many questions have a recorded answer.
func (s *State) Answered() int {
	return len(s.answers)
}

// Snapshot returns a copy of the full answer map, used at submission time.
func (s *State) Snapshot() map[int64]string {
	out := make(map[int64]string, len(s.answers))
	for qid, ans := range s.answers {
		out[qid] = ans
	}
	return out
}
