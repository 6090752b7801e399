package repository

import (
	"context"
	"fmt"

	"github.com/aeroprep/aeroprep-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ExamRepository handles exam data access.
type ExamRepository struct {
	pool *pgxpool.Pool
}

// NewExamRepository creates a new ExamRepository.
func NewExamRepository(pool *pgxpool.Pool) *ExamRepository {
	return &ExamRepository{pool: pool}
}

func scanExam(row pgx.Row) (model.Exam, error) {
	var e model.Exam
	var types []string
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Category, &types,
		&e.Difficulty, &e.TimeLimitMinutes, &e.QuestionCount, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return e, err
	}
	for _, t := range types {
		e.QuestionTypes = append(e.QuestionTypes, model.QuestionType(t))
	}
	return e, nil
}

const examSelect = `
	SELECT e.id, e.title, e.description, e.category, e.question_types, e.difficulty,
	       e.time_limit_minutes,
	       (SELECT COUNT(*) FROM exam_questions eq WHERE eq.exam_id = e.id),
	       e.created_at, e.updated_at
	FROM exams e`

// Create inserts a new exam.
func (r *ExamRepository) Create(ctx context.Context, e *model.Exam) error {
	types := make([]string, len(e.QuestionTypes))
	for i, t := range e.QuestionTypes {
		types[i] = string(t)
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO exams (title, description, category, question_types, difficulty, time_limit_minutes)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		e.Title, e.Description, e.Category, types, e.Difficulty, e.TimeLimitMinutes,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

// Update modifies an existing exam.
func (r *ExamRepository) Update(ctx context.Context, e *model.Exam) error {
	types := make([]string, len(e.QuestionTypes))
	for i, t := range e.QuestionTypes {
		types[i] = string(t)
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE exams
		 SET title = $1, description = $2, category = $3, question_types = $4,
		     difficulty = $5, time_limit_minutes = $6, updated_at = NOW()
		 WHERE id = $7`,
		e.Title, e.Description, e.Category, types, e.Difficulty, e.TimeLimitMinutes, e.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes an exam. Ordering rows cascade at the schema level.
func (r *ExamRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM exams WHERE id = $1`, id)
	return err
}

// GetByID retrieves an exam by id.
func (r *ExamRepository) GetByID(ctx context.Context, id int64) (*model.Exam, error) {
	e, err := scanExam(r.pool.QueryRow(ctx, examSelect+` WHERE e.id = $1`, id))
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// List retrieves exams with optional category filter and pagination.
func (r *ExamRepository) List(ctx context.Context, category string, limit, offset int) ([]model.Exam, int, error) {
	where := ""
	args := []any{}
	if category != "" {
		args = append(args, category)
		where = fmt.Sprintf(" WHERE e.category = $%d", len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM exams e`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := examSelect + where +
		fmt.Sprintf(" ORDER BY e.created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var exams []model.Exam
	for rows.Next() {
		e, err := scanExam(rows)
		if err != nil {
			return nil, 0, err
		}
		exams = append(exams, e)
	}
	return exams, total, rows.Err()
}

// ReplaceQuestions replaces an exam's ordered question set in one
// transaction. The given order becomes contiguous positions 1..N.
func (r *ExamRepository) ReplaceQuestions(ctx context.Context, examID int64, questionIDs []int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM exam_questions WHERE exam_id = $1`, examID); err != nil {
		return fmt.Errorf("clear ordering: %w", err)
	}

	positions := make([]int, len(questionIDs))
	for i := range questionIDs {
		positions[i] = i + 1
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO exam_questions (exam_id, question_id, position)
		 SELECT $1, u.question_id, u.position
		 FROM UNNEST($2::bigint[], $3::int[]) AS u (question_id, position)`,
		examID, questionIDs, positions,
	)
	if err != nil {
		return fmt.Errorf("insert ordering: %w", err)
	}

	return tx.Commit(ctx)
}
