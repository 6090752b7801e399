package websocket

// Wire schema for the live session socket. Clients send actions, the
// server pushes events. All frames are JSON text messages.

// Action names a client-to-server message.
type Action string

const (
	ActionAutosave Action = "autosave"
	ActionSubmit   Action = "submit"
	ActionPing     Action = "ping"
)

// RequestEnvelope decodes only the action field, so the handler can pick
// the concrete request type before a second full unmarshal.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// AutosaveRequest records one answer and, when index is present, moves
// the session's current position.
type AutosaveRequest struct {
	Action     Action `json:"action"`
	QuestionID int64  `json:"question_id"`
	Answer     string `json:"answer"`
	Index      *int   `json:"index,omitempty"`
}

// SubmitRequest finishes the session and grades the checkpointed answers.
type SubmitRequest struct {
	Action           Action `json:"action"`
	TimeSpentSeconds *int   `json:"time_spent_seconds,omitempty"`
}

// Event names a server-to-client message.
type Event string

const (
	EventError   Event = "error"
	EventSuccess Event = "success"
	EventGraded  Event = "graded"
	EventTick    Event = "tick"
	EventPong    Event = "pong"
)

// AutosaveResponse acknowledges a stored answer.
type AutosaveResponse struct {
	Event  Event  `json:"event"`
	Status string `json:"status"`
}

// TickResponse carries the remaining seconds for timed sessions.
type TickResponse struct {
	Event            Event `json:"event"`
	RemainingSeconds int   `json:"remaining_seconds"`
}

// GradedResponse is pushed after a submission lands. Auto is true when
// the countdown expired and forced the submission.
type GradedResponse struct {
	Event      Event `json:"event"`
	Auto       bool  `json:"auto"`
	Correct    int   `json:"correct"`
	Total      int   `json:"total"`
	Percentage int   `json:"percentage"`
}

// ErrorResponse reports a rejected action without closing the socket.
type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

// PongResponse answers a client ping.
type PongResponse struct {
	Event Event `json:"event"`
}
