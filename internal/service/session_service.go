package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aeroprep/aeroprep-backend/internal/config"
	"github.com/aeroprep/aeroprep-backend/internal/grading"
	"github.com/aeroprep/aeroprep-backend/internal/metrics"
	"github.com/aeroprep/aeroprep-backend/internal/model"
	"github.com/aeroprep/aeroprep-backend/internal/repository"
	"github.com/aeroprep/aeroprep-backend/internal/session"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Session errors.
var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionForbidden = errors.New("session belongs to another user")
	ErrSessionFinished  = errors.New("session already submitted")
)

// StartedSession is the payload returned when a session begins. Questions
// are sanitized; answer keys never leave the server before submission.
type StartedSession struct {
	SessionID        uuid.UUID        `json:"session_id"`
	ExamID           *int64           `json:"exam_id,omitempty"`
	Questions        []model.Question `json:"questions"`
	RemainingSeconds *int             `json:"remaining_seconds,omitempty"`
	StartedAt        time.Time        `json:"started_at"`
}

// SessionState is the reload payload for an in-progress session.
type SessionState struct {
	SessionID        uuid.UUID        `json:"session_id"`
	Answers          map[int64]string `json:"answers"`
	CurrentIndex     int              `json:"current_index"`
	RemainingSeconds *int             `json:"remaining_seconds,omitempty"`
}

// SubmitOutcome is the result of a submission. Result is nil when the
// submission was a duplicate and the stored attempt is returned instead.
type SubmitOutcome struct {
	Attempt *model.ExamAttempt `json:"attempt"`
	Result  *grading.Result    `json:"result,omitempty"`
	Auto    bool               `json:"auto"`
}

// SessionService drives the exam/practice session lifecycle: start, answer
// checkpointing, manual submit and timer-driven auto submit. All submissions
// funnel through the registry's atomic Take, so each session is graded and
// persisted exactly once.
type SessionService struct {
	registry     *session.Registry
	examRepo     *repository.ExamRepository
	questionRepo *repository.QuestionRepository
	attemptRepo  *repository.AttemptRepository
	rdb          *redis.Client
	log          zerolog.Logger

	watchers *watcherHub
}

// NewSessionService creates a new SessionService.
func NewSessionService(
	registry *session.Registry,
	examRepo *repository.ExamRepository,
	questionRepo *repository.QuestionRepository,
	attemptRepo *repository.AttemptRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *SessionService {
	return &SessionService{
		registry:     registry,
		examRepo:     examRepo,
		questionRepo: questionRepo,
		attemptRepo:  attemptRepo,
		rdb:          rdb,
		log:          log.With().Str("component", "session_service").Logger(),
		watchers:     newWatcherHub(),
	}
}

// StartPractice begins an untimed practice session over a random question
// sample matching the filter.
func (s *SessionService) StartPractice(ctx context.Context, userID int64, f model.QuestionFilter) (*StartedSession, error) {
	questions, err := s.questionRepo.Sample(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("sample questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	return s.begin(ctx, userID, nil, questions, nil)
}

// StartExam begins a session over a curated exam's ordered question set,
// with a countdown when the exam carries a time limit.
func (s *SessionService) StartExam(ctx context.Context, userID, examID int64) (*StartedSession, error) {
	exam, err := s.examRepo.GetByID(ctx, examID)
	if err != nil {
		return nil, err
	}
	questions, err := s.questionRepo.ListByExam(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("load exam questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	var seconds *int
	if exam.TimeLimitMinutes != nil {
		total := *exam.TimeLimitMinutes * 60
		seconds = &total
	}
	return s.begin(ctx, userID, &examID, questions, seconds)
}

func (s *SessionService) begin(ctx context.Context, userID int64, examID *int64, questions []model.Question, limitSeconds *int) (*StartedSession, error) {
	entry := session.NewEntry(uuid.New(), userID, examID, questions)

	if limitSeconds != nil {
		id := entry.ID
		entry.Countdown = session.NewCountdown(*limitSeconds, func() {
			s.autoSubmit(id)
		})
	}

	s.registry.Put(entry)
	metrics.LiveSessions.Inc()
	if entry.Countdown != nil {
		entry.Countdown.Start()
	}

	// Session metadata mirrored to Redis so a reload after a crash can at
	// least tell the client the session existed.
	meta := map[string]interface{}{
		"user_id":    userID,
		"started_at": entry.StartedAt.Unix(),
	}
	if err := s.rdb.HSet(ctx, config.CacheKey.SessionMetaKey(entry.ID.String()), meta).Err(); err != nil {
		s.log.Warn().Err(err).Str("session_id", entry.ID.String()).Msg("cache session meta failed")
	}

	sanitized := make([]model.Question, len(questions))
	for i, q := range questions {
		sanitized[i] = q.ForUser()
	}

	return &StartedSession{
		SessionID:        entry.ID,
		ExamID:           examID,
		Questions:        sanitized,
		RemainingSeconds: entry.Remaining(),
		StartedAt:        entry.StartedAt,
	}, nil
}

// State returns the reload payload for a live session.
func (s *SessionService) State(ctx context.Context, userID int64, sessionID uuid.UUID) (*SessionState, error) {
	entry, err := s.liveEntry(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	return &SessionState{
		SessionID:        sessionID,
		Answers:          entry.Snapshot(),
		CurrentIndex:     entry.Index(),
		RemainingSeconds: entry.Remaining(),
	}, nil
}

// Answer checkpoints one selected answer: it lands in the in-memory state
// immediately and is queued for durable persistence. Empty answers are
// ignored; no correctness check happens before submission.
func (s *SessionService) Answer(ctx context.Context, userID int64, sessionID uuid.UUID, questionID int64, answer string) error {
	entry, err := s.liveEntry(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	entry.SelectAnswer(questionID, answer)

	key := config.CacheKey.SessionAnswersKey(sessionID.String())
	if err := s.rdb.HSet(ctx, key, fmt.Sprintf("%d", questionID), answer).Err(); err != nil {
		s.log.Warn().Err(err).Str("session_id", sessionID.String()).Msg("cache answer failed")
	}

	payload, err := json.Marshal(model.SessionCheckpoint{
		SessionID:  sessionID,
		UserID:     userID,
		QuestionID: questionID,
		Answer:     answer,
		SavedAt:    time.Now(),
	})
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}
	if err := s.rdb.RPush(ctx, config.WorkerKey.PersistCheckpointsQueue, payload).Err(); err != nil {
		// The in-memory state already has the answer; durability catches up
		// on the next checkpoint.
		s.log.Warn().Err(err).Str("session_id", sessionID.String()).Msg("queue checkpoint failed")
	}
	return nil
}

// JumpTo moves the session's current position. Out-of-range indices are
// ignored.
func (s *SessionService) JumpTo(ctx context.Context, userID int64, sessionID uuid.UUID, index int) error {
	entry, err := s.liveEntry(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	entry.JumpTo(index)
	return nil
}

// Submit grades and persists a session. The client's final answer snapshot
// overlays the checkpointed answers. Submitting an already-submitted session
// returns the stored attempt with no new ledger writes. A rejected or failed
// submission leaves the session live so the client can submit again.
func (s *SessionService) Submit(ctx context.Context, userID int64, sessionID uuid.UUID, req model.SubmitRequest) (*SubmitOutcome, error) {
	entry := s.registry.Get(sessionID)
	if entry == nil {
		return s.storedOutcome(ctx, userID, sessionID)
	}
	if entry.UserID != userID {
		return nil, ErrSessionForbidden
	}

	// Validate before consuming the session: an empty submission must not
	// destroy it.
	if len(mergeAnswers(entry.Snapshot(), req.Answers)) == 0 {
		return nil, grading.ErrNoAnswers
	}

	entry, ok := s.registry.Take(sessionID)
	if !ok {
		return s.storedOutcome(ctx, userID, sessionID)
	}
	metrics.LiveSessions.Dec()

	// Re-merge from the taken entry; autosaves may have landed between the
	// validation snapshot and Take.
	answers := mergeAnswers(entry.Snapshot(), req.Answers)

	outcome, err := s.finish(ctx, entry, answers, req.TimeSpentSeconds, false)
	if err != nil {
		// Persistence failed; hand the session back so a retry can grade
		// it. The countdown was never cancelled, so a timed session keeps
		// ticking while it waits.
		s.registry.Put(entry)
		metrics.LiveSessions.Inc()
		return nil, err
	}
	if entry.Countdown != nil {
		entry.Countdown.Cancel()
	}
	metrics.Submissions.WithLabelValues("manual").Inc()
	s.watchers.notify(sessionID, outcome)
	return outcome, nil
}

// mergeAnswers overlays the client's final snapshot onto the checkpointed
// answers. Empty overlay values never erase a checkpoint.
func mergeAnswers(base, overlay map[int64]string) map[int64]string {
	for id, a := range overlay {
		if a != "" {
			base[id] = a
		}
	}
	return base
}

// autoSubmit is the countdown expiry path. It grades whatever answers were
// checkpointed; a session with none expires into a zero-answer outcome that
// is reported but not persisted as an attempt.
func (s *SessionService) autoSubmit(sessionID uuid.UUID) {
	entry, ok := s.registry.Take(sessionID)
	if !ok {
		return // manual submit won the race
	}
	metrics.LiveSessions.Dec()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	spent := entrySeconds(entry)
	outcome, err := s.finish(ctx, entry, entry.Snapshot(), &spent, true)
	if err != nil {
		if errors.Is(err, grading.ErrNoAnswers) {
			s.cleanup(ctx, sessionID)
			s.watchers.notify(sessionID, &SubmitOutcome{Auto: true})
			return
		}
		// Keep the expired session around so a manual submit can still
		// persist it once storage recovers.
		s.registry.Put(entry)
		metrics.LiveSessions.Inc()
		s.log.Error().Err(err).Str("session_id", sessionID.String()).Msg("auto submit failed")
		return
	}
	metrics.Submissions.WithLabelValues("timer").Inc()
	s.watchers.notify(sessionID, outcome)
}

// finish grades, persists atomically, and clears the session's cache keys.
func (s *SessionService) finish(ctx context.Context, entry *session.Entry, answers map[int64]string, timeSpent *int, auto bool) (*SubmitOutcome, error) {
	result, err := grading.Grade(answers, entry.Questions)
	if err != nil {
		return nil, err
	}

	progress := make([]model.ProgressEntry, len(result.Questions))
	for i, q := range result.Questions {
		progress[i] = model.ProgressEntry{
			UserID:     entry.UserID,
			QuestionID: q.QuestionID,
			IsCorrect:  q.IsCorrect,
		}
	}

	attempt := &model.ExamAttempt{
		UserID:           entry.UserID,
		ExamID:           entry.ExamID,
		SessionID:        entry.ID,
		Score:            result.Score.Percentage,
		TimeSpentSeconds: timeSpent,
	}
	stored, err := s.attemptRepo.CreateWithProgress(ctx, attempt, progress)
	if err != nil {
		return nil, fmt.Errorf("persist attempt: %w", err)
	}

	s.cleanup(ctx, entry.ID)
	s.log.Info().
		Str("session_id", entry.ID.String()).
		Int64("user_id", entry.UserID).
		Int("score", stored.Score).
		Bool("auto", auto).
		Msg("session submitted")

	return &SubmitOutcome{Attempt: stored, Result: result, Auto: auto}, nil
}

// storedOutcome resolves a duplicate submit against the persisted attempt.
func (s *SessionService) storedOutcome(ctx context.Context, userID int64, sessionID uuid.UUID) (*SubmitOutcome, error) {
	attempt, err := s.attemptRepo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	if attempt.UserID != userID {
		return nil, ErrSessionForbidden
	}
	return &SubmitOutcome{Attempt: attempt}, nil
}

func (s *SessionService) liveEntry(ctx context.Context, userID int64, sessionID uuid.UUID) (*session.Entry, error) {
	entry := s.registry.Get(sessionID)
	if entry == nil {
		if _, err := s.attemptRepo.GetBySessionID(ctx, sessionID); err == nil {
			return nil, ErrSessionFinished
		}
		return nil, ErrSessionNotFound
	}
	if entry.UserID != userID {
		return nil, ErrSessionForbidden
	}
	return entry, nil
}

func (s *SessionService) cleanup(ctx context.Context, sessionID uuid.UUID) {
	id := sessionID.String()
	if err := s.rdb.Del(ctx, config.CacheKey.SessionAnswersKey(id), config.CacheKey.SessionMetaKey(id)).Err(); err != nil {
		s.log.Warn().Err(err).Str("session_id", id).Msg("cleanup session cache failed")
	}
}

// Watch subscribes to a session's submission outcome; the stream handler
// uses it to push graded events when the countdown forces a submit. The
// returned cancel func must be called when the subscriber goes away.
func (s *SessionService) Watch(sessionID uuid.UUID) (<-chan *SubmitOutcome, func()) {
	return s.watchers.add(sessionID)
}

func entrySeconds(e *session.Entry) int {
	return int(time.Since(e.StartedAt) / time.Second)
}
