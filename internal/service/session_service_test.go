package service

import (
	"context"
	"errors"
	"testing"

	"github.com/aeroprep/aeroprep-backend/internal/grading"
	"github.com/aeroprep/aeroprep-backend/internal/model"
	"github.com/aeroprep/aeroprep-backend/internal/repository"
	"github.com/aeroprep/aeroprep-backend/internal/session"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// newSubmitFixture builds a SessionService whose storage is unreachable.
// pgxpool connects lazily, so the pool only fails when a submission
// actually tries to persist.
func newSubmitFixture(t *testing.T) (*SessionService, *session.Registry) {
	t.Helper()

	pool, err := pgxpool.New(context.Background(), "postgres://nobody@127.0.0.1:1/none?sslmode=disable")
	if err != nil {
		t.Fatalf("pool config: %v", err)
	}
	t.Cleanup(pool.Close)

	registry := session.NewRegistry()
	svc := NewSessionService(
		registry,
		repository.NewExamRepository(pool),
		repository.NewQuestionRepository(pool),
		repository.NewAttemptRepository(pool),
		redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}),
		zerolog.Nop(),
	)
	return svc, registry
}

func oneQuestionEntry(userID int64) *session.Entry {
	return session.NewEntry(uuid.New(), userID, nil, []model.Question{{
		ID:            1,
		QuestionText:  "Standard sea level pressure?",
		Options:       []string{"1013 hPa", "1000 hPa", "900 hPa", "1100 hPa"},
		CorrectAnswer: "A",
		QuestionType:  model.QuestionTypeReading,
		Category:      model.CategoryPilot,
		Difficulty:    model.DifficultyEasy,
	}})
}

func TestSubmitEmptyAnswersKeepsSessionLive(t *testing.T) {
	svc, registry := newSubmitFixture(t)
	entry := oneQuestionEntry(7)
	registry.Put(entry)

	_, err := svc.Submit(context.Background(), 7, entry.ID, model.SubmitRequest{Answers: map[int64]string{}})
	if !errors.Is(err, grading.ErrNoAnswers) {
		t.Fatalf("empty submit: err = %v, want ErrNoAnswers", err)
	}

	// A rejected submission must leave the session in place for a retry.
	if registry.Get(entry.ID) == nil {
		t.Fatal("session destroyed by a rejected submission")
	}
}

func TestSubmitPersistFailureRestoresSession(t *testing.T) {
	svc, registry := newSubmitFixture(t)
	entry := oneQuestionEntry(7)
	registry.Put(entry)

	answers := model.SubmitRequest{Answers: map[int64]string{1: "A"}}

	// Grading succeeds but the attempt cannot be persisted; Submit must
	// report the failure without consuming the session.
	_, err := svc.Submit(context.Background(), 7, entry.ID, answers)
	if err == nil {
		t.Fatal("submit succeeded against an unreachable database")
	}
	if errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("submit: err = %v, want a persistence error", err)
	}

	if registry.Get(entry.ID) == nil {
		t.Fatal("session destroyed by a failed persist")
	}

	// The retry reaches persistence again instead of a dead session.
	_, err = svc.Submit(context.Background(), 7, entry.ID, answers)
	if errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("re-submit: err = %v, want a persistence error", err)
	}
}

func TestSubmitOtherUserForbidden(t *testing.T) {
	svc, registry := newSubmitFixture(t)
	entry := oneQuestionEntry(7)
	registry.Put(entry)

	_, err := svc.Submit(context.Background(), 8, entry.ID, model.SubmitRequest{Answers: map[int64]string{1: "A"}})
	if !errors.Is(err, ErrSessionForbidden) {
		t.Fatalf("foreign submit: err = %v, want ErrSessionForbidden", err)
	}
	if registry.Get(entry.ID) == nil {
		t.Fatal("session destroyed by a forbidden submission")
	}
}
