package repository

import (
	"context"
	"fmt"

	"github.com/aeroprep/aeroprep-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AttemptRepository handles exam attempt and progress ledger data access.
type AttemptRepository struct {
	pool *pgxpool.Pool
}

// NewAttemptRepository creates a new AttemptRepository.
func NewAttemptRepository(pool *pgxpool.Pool) *AttemptRepository {
	return &AttemptRepository{pool: pool}
}

const attemptColumns = `id, user_id, exam_id, session_id, score, time_spent_seconds, completed_at`

func scanAttempt(row pgx.Row) (model.ExamAttempt, error) {
	var a model.ExamAttempt
	err := row.Scan(&a.ID, &a.UserID, &a.ExamID, &a.SessionID,
		&a.Score, &a.TimeSpentSeconds, &a.CompletedAt)
	return a, err
}

// CreateWithProgress persists a graded attempt and its progress ledger rows
// atomically. The attempt's session id carries a unique constraint; when a
// submission for the same session already landed, the stored attempt is
// returned unchanged and no ledger rows are written, so a retried submit can
// never double-count.
func (r *AttemptRepository) CreateWithProgress(ctx context.Context, attempt *model.ExamAttempt, results []model.ProgressEntry) (*model.ExamAttempt, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO exam_attempts (user_id, exam_id, session_id, score, time_spent_seconds, completed_at)
		 VALUES ($1, $2, $3, $4, $5, NOW())
		 ON CONFLICT (session_id) DO NOTHING
		 RETURNING `+attemptColumns,
		attempt.UserID, attempt.ExamID, attempt.SessionID, attempt.Score, attempt.TimeSpentSeconds,
	).Scan(&attempt.ID, &attempt.UserID, &attempt.ExamID, &attempt.SessionID,
		&attempt.Score, &attempt.TimeSpentSeconds, &attempt.CompletedAt)
	if err == pgx.ErrNoRows {
		// Lost the idempotency race. Surface the attempt that won.
		existing, err := scanAttempt(tx.QueryRow(ctx,
			`SELECT `+attemptColumns+` FROM exam_attempts WHERE session_id = $1`,
			attempt.SessionID))
		if err != nil {
			return nil, fmt.Errorf("fetch existing attempt: %w", err)
		}
		if err := tx.Commit(ctx); err != nil {
			return nil, err
		}
		return &existing, nil
	}
	if err != nil {
		return nil, fmt.Errorf("insert attempt: %w", err)
	}

	if len(results) > 0 {
		questionIDs := make([]int64, len(results))
		correct := make([]bool, len(results))
		for i, entry := range results {
			questionIDs[i] = entry.QuestionID
			correct[i] = entry.IsCorrect
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO progress_entries (user_id, question_id, attempt_id, is_correct)
			 SELECT $1, u.question_id, $2, u.is_correct
			 FROM UNNEST($3::bigint[], $4::boolean[]) AS u (question_id, is_correct)`,
			attempt.UserID, attempt.ID, questionIDs, correct,
		)
		if err != nil {
			return nil, fmt.Errorf("insert progress: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return attempt, nil
}

// GetByID retrieves an attempt by id.
func (r *AttemptRepository) GetByID(ctx context.Context, id int64) (*model.ExamAttempt, error) {
	a, err := scanAttempt(r.pool.QueryRow(ctx,
		`SELECT `+attemptColumns+` FROM exam_attempts WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetBySessionID retrieves the attempt recorded for a session, if any.
func (r *AttemptRepository) GetBySessionID(ctx context.Context, sessionID uuid.UUID) (*model.ExamAttempt, error) {
	a, err := scanAttempt(r.pool.QueryRow(ctx,
		`SELECT `+attemptColumns+` FROM exam_attempts WHERE session_id = $1`, sessionID))
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListByUser retrieves a user's completed attempts, most recent first.
func (r *AttemptRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]model.AttemptSummary, int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM exam_attempts WHERE user_id = $1`, userID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT a.id, a.user_id, a.exam_id, a.session_id, a.score, a.time_spent_seconds, a.completed_at,
		        e.title
		 FROM exam_attempts a
		 LEFT JOIN exams e ON e.id = a.exam_id
		 WHERE a.user_id = $1
		 ORDER BY a.completed_at DESC
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var attempts []model.AttemptSummary
	for rows.Next() {
		var s model.AttemptSummary
		err := rows.Scan(&s.ID, &s.UserID, &s.ExamID, &s.SessionID,
			&s.Score, &s.TimeSpentSeconds, &s.CompletedAt, &s.ExamTitle)
		if err != nil {
			return nil, 0, err
		}
		attempts = append(attempts, s)
	}
	return attempts, total, rows.Err()
}
