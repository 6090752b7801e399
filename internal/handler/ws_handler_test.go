package handler

import (
	"context"
	"testing"

	"github.com/aeroprep/aeroprep-backend/internal/model"
	"github.com/aeroprep/aeroprep-backend/internal/repository"
	"github.com/aeroprep/aeroprep-backend/internal/service"
	"github.com/aeroprep/aeroprep-backend/internal/session"
	ws "github.com/aeroprep/aeroprep-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func newWSFixture(t *testing.T) (*WSHandler, *session.Registry) {
	t.Helper()

	// pgxpool connects lazily; none of these paths reach the database.
	pool, err := pgxpool.New(context.Background(), "postgres://nobody@127.0.0.1:1/none?sslmode=disable")
	if err != nil {
		t.Fatalf("pool config: %v", err)
	}
	t.Cleanup(pool.Close)

	registry := session.NewRegistry()
	svc := service.NewSessionService(
		registry,
		repository.NewExamRepository(pool),
		repository.NewQuestionRepository(pool),
		repository.NewAttemptRepository(pool),
		redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}),
		zerolog.Nop(),
	)
	return NewWSHandler(svc, zerolog.Nop(), nil), registry
}

func TestWSSubmitNoAnswersDistinctError(t *testing.T) {
	h, registry := newWSFixture(t)

	entry := session.NewEntry(uuid.New(), 7, nil, []model.Question{{
		ID:            1,
		QuestionText:  "Vr is the speed at which the pilot...",
		Options:       []string{"Rotates", "Brakes", "Flares", "Taxis"},
		CorrectAnswer: "A",
		QuestionType:  model.QuestionTypeReading,
		Category:      model.CategoryPilot,
		Difficulty:    model.DifficultyEasy,
	}})
	registry.Put(entry)

	var got []interface{}
	write := func(v interface{}) error {
		got = append(got, v)
		return nil
	}

	// Nothing checkpointed yet: the submit is rejected with its own error
	// message and the session survives for a later attempt.
	h.handleSubmit(write, 7, entry.ID, zerolog.Nop())

	if len(got) != 1 {
		t.Fatalf("wrote %d frames, want 1", len(got))
	}
	frame, ok := got[0].(ws.ErrorResponse)
	if !ok {
		t.Fatalf("frame = %T, want ErrorResponse", got[0])
	}
	if frame.Error != "no answers to grade" {
		t.Errorf("error = %q, want the no-answers message", frame.Error)
	}
	if registry.Get(entry.ID) == nil {
		t.Fatal("session destroyed by a rejected submission")
	}
}
