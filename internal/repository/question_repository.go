package repository

import (
	"context"
	"fmt"

	"github.com/aeroprep/aeroprep-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// QuestionRepository handles question bank data access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

const questionColumns = `id, question_text, options, correct_answer, explanation, image_url,
	question_type, category, difficulty, created_at`

func scanQuestion(row interface{ Scan(...any) error }) (model.Question, error) {
	var q model.Question
	err := row.Scan(&q.ID, &q.QuestionText, &q.Options, &q.CorrectAnswer, &q.Explanation,
		&q.ImageURL, &q.QuestionType, &q.Category, &q.Difficulty, &q.CreatedAt)
	return q, err
}

// Create inserts a new question.
func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO questions
		 (question_text, options, correct_answer, explanation, image_url, question_type, category, difficulty)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at`,
		q.QuestionText, q.Options, q.CorrectAnswer, q.Explanation, q.ImageURL,
		q.QuestionType, q.Category, q.Difficulty,
	).Scan(&q.ID, &q.CreatedAt)
}

// Update modifies an existing question. Past progress entries are never
// touched; correctness is frozen at submission time.
func (r *QuestionRepository) Update(ctx context.Context, q *model.Question) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE questions
		 SET question_text = $1, options = $2, correct_answer = $3, explanation = $4,
		     image_url = $5, question_type = $6, category = $7, difficulty = $8
		 WHERE id = $9`,
		q.QuestionText, q.Options, q.CorrectAnswer, q.Explanation, q.ImageURL,
		q.QuestionType, q.Category, q.Difficulty, q.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("question %d not found", q.ID)
	}
	return nil
}

// Delete removes a question. Ledger rows referencing it are kept; the stats
// aggregator excludes them from breakdowns via the join.
func (r *QuestionRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	return err
}

// GetByID retrieves a question by id.
func (r *QuestionRepository) GetByID(ctx context.Context, id int64) (*model.Question, error) {
	q, err := scanQuestion(r.pool.QueryRow(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// ListByIDs retrieves questions for the given ids, in no particular order.
func (r *QuestionRepository) ListByIDs(ctx context.Context, ids []int64) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// Sample retrieves a random question set matching the typed filter.
// The filter is validated before it reaches this layer.
func (r *QuestionRepository) Sample(ctx context.Context, f model.QuestionFilter) ([]model.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE category = $1`
	args := []any{f.Category}

	if f.QuestionType != "" {
		args = append(args, f.QuestionType)
		query += fmt.Sprintf(" AND question_type = $%d", len(args))
	}
	if f.Difficulty != "" {
		args = append(args, f.Difficulty)
		query += fmt.Sprintf(" AND difficulty = $%d", len(args))
	}
	args = append(args, f.Limit)
	query += fmt.Sprintf(" ORDER BY RANDOM() LIMIT $%d", len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// List retrieves questions with optional filters and pagination, newest first.
func (r *QuestionRepository) List(ctx context.Context, category, questionType, difficulty string, limit, offset int) ([]model.Question, int, error) {
	baseQuery := ` FROM questions WHERE 1=1`
	args := []any{}

	if category != "" {
		args = append(args, category)
		baseQuery += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if questionType != "" {
		args = append(args, questionType)
		baseQuery += fmt.Sprintf(" AND question_type = $%d", len(args))
	}
	if difficulty != "" {
		args = append(args, difficulty)
		baseQuery += fmt.Sprintf(" AND difficulty = $%d", len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*)"+baseQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + questionColumns + baseQuery +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, 0, err
		}
		questions = append(questions, q)
	}
	return questions, total, rows.Err()
}

// ListByExam retrieves an exam's questions ordered by position.
func (r *QuestionRepository) ListByExam(ctx context.Context, examID int64) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT q.id, q.question_text, q.options, q.correct_answer, q.explanation, q.image_url,
		        q.question_type, q.category, q.difficulty, q.created_at
		 FROM exam_questions eq
		 JOIN questions q ON q.id = eq.question_id
		 WHERE eq.exam_id = $1
		 ORDER BY eq.position`, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}
