package repository

import (
	"context"
	"time"

	"github.com/aeroprep/aeroprep-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StatsRepository aggregates the progress ledger and attempt history. All
// accuracy numbers derive from progress_entries; raw answers are never
// re-graded.
type StatsRepository struct {
	pool *pgxpool.Pool
}

// NewStatsRepository creates a new StatsRepository.
func NewStatsRepository(pool *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{pool: pool}
}

// OverallAccuracy returns a user's ledger totals, optionally restricted to
// entries at or after since.
func (r *StatsRepository) OverallAccuracy(ctx context.Context, userID int64, since *time.Time) (model.AccuracyStat, error) {
	var s model.AccuracyStat
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE is_correct)
		 FROM progress_entries
		 WHERE user_id = $1 AND ($2::timestamptz IS NULL OR created_at >= $2)`,
		userID, since,
	).Scan(&s.Total, &s.Correct)
	if err != nil {
		return s, err
	}
	if s.Total > 0 {
		s.Accuracy = float64(s.Correct) / float64(s.Total) * 100
	}
	return s, nil
}

// AccuracyByCategory groups a user's ledger by question category. Entries
// whose question has been deleted drop out through the INNER JOIN.
func (r *StatsRepository) AccuracyByCategory(ctx context.Context, userID int64, since *time.Time) ([]model.CategoryStat, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT q.category, COUNT(*), COUNT(*) FILTER (WHERE p.is_correct)
		 FROM progress_entries p
		 INNER JOIN questions q ON q.id = p.question_id
		 WHERE p.user_id = $1 AND ($2::timestamptz IS NULL OR p.created_at >= $2)
		 GROUP BY q.category
		 ORDER BY q.category`,
		userID, since,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []model.CategoryStat
	for rows.Next() {
		var s model.CategoryStat
		if err := rows.Scan(&s.Category, &s.Total, &s.Correct); err != nil {
			return nil, err
		}
		if s.Total > 0 {
			s.Accuracy = float64(s.Correct) / float64(s.Total) * 100
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// AccuracyByType groups a user's ledger by question type.
func (r *StatsRepository) AccuracyByType(ctx context.Context, userID int64, since *time.Time) ([]model.TypeStat, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT q.question_type, COUNT(*), COUNT(*) FILTER (WHERE p.is_correct)
		 FROM progress_entries p
		 INNER JOIN questions q ON q.id = p.question_id
		 WHERE p.user_id = $1 AND ($2::timestamptz IS NULL OR p.created_at >= $2)
		 GROUP BY q.question_type
		 ORDER BY q.question_type`,
		userID, since,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []model.TypeStat
	for rows.Next() {
		var s model.TypeStat
		if err := rows.Scan(&s.QuestionType, &s.Total, &s.Correct); err != nil {
			return nil, err
		}
		if s.Total > 0 {
			s.Accuracy = float64(s.Correct) / float64(s.Total) * 100
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// ExamScores summarizes a user's completed exam attempts.
func (r *StatsRepository) ExamScores(ctx context.Context, userID int64) (model.ExamScoreStat, error) {
	var s model.ExamScoreStat
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(AVG(score), 0), COALESCE(MAX(score), 0)
		 FROM exam_attempts
		 WHERE user_id = $1 AND exam_id IS NOT NULL AND completed_at IS NOT NULL`,
		userID,
	).Scan(&s.Attempts, &s.AverageScore, &s.BestScore)
	return s, err
}

// DailySeries returns per-day answering activity since the given time.
func (r *StatsRepository) DailySeries(ctx context.Context, userID int64, since time.Time) ([]model.DailyStat, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DATE_TRUNC('day', created_at) AS day,
		        COUNT(*), COUNT(*) FILTER (WHERE is_correct)
		 FROM progress_entries
		 WHERE user_id = $1 AND created_at >= $2
		 GROUP BY day
		 ORDER BY day`,
		userID, since,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []model.DailyStat
	for rows.Next() {
		var s model.DailyStat
		if err := rows.Scan(&s.Date, &s.Total, &s.Correct); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// PracticeLeaderboardRows returns per-user ledger accuracy grouped in SQL,
// best accuracy first. The attempts column counts distinct graded sessions,
// not answered questions; ranking and the minimum-attempts floor are applied
// by the service.
func (r *StatsRepository) PracticeLeaderboardRows(ctx context.Context, category string) ([]model.LeaderboardRow, error) {
	query := `
		SELECT p.user_id, u.name, COUNT(DISTINCT p.attempt_id),
		       COUNT(*) FILTER (WHERE p.is_correct)::float / COUNT(*) * 100
		FROM progress_entries p
		INNER JOIN users u ON u.id = p.user_id`
	args := []any{}
	if category != "" {
		query += `
		INNER JOIN questions q ON q.id = p.question_id
		WHERE q.category = $1`
		args = append(args, category)
	}
	query += `
		GROUP BY p.user_id, u.name
		ORDER BY 4 DESC, 3 DESC`

	return r.queryLeaderboardRows(ctx, query, args...)
}

// ExamLeaderboardRows returns per-user average exam score grouped in SQL,
// best average first.
func (r *StatsRepository) ExamLeaderboardRows(ctx context.Context, category string) ([]model.LeaderboardRow, error) {
	query := `
		SELECT a.user_id, u.name, COUNT(*), AVG(a.score)
		FROM exam_attempts a
		INNER JOIN users u ON u.id = a.user_id`
	args := []any{}
	if category != "" {
		query += `
		INNER JOIN exams e ON e.id = a.exam_id
		WHERE a.completed_at IS NOT NULL AND e.category = $1`
		args = append(args, category)
	} else {
		query += `
		WHERE a.exam_id IS NOT NULL AND a.completed_at IS NOT NULL`
	}
	query += `
		GROUP BY a.user_id, u.name
		ORDER BY 4 DESC, 3 DESC`

	return r.queryLeaderboardRows(ctx, query, args...)
}

func (r *StatsRepository) queryLeaderboardRows(ctx context.Context, query string, args ...any) ([]model.LeaderboardRow, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.LeaderboardRow
	for rows.Next() {
		var row model.LeaderboardRow
		if err := rows.Scan(&row.UserID, &row.Name, &row.Attempts, &row.Score); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
