package repository

import (
	"context"
	"time"

	"github.com/aeroprep/aeroprep-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DashboardRepository serves the admin back-office overview queries.
type DashboardRepository struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository creates a new DashboardRepository.
func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepository {
	return &DashboardRepository{pool: pool}
}

// Summary collects the dashboard counters and series in one payload.
func (r *DashboardRepository) Summary(ctx context.Context, since time.Time) (*model.DashboardSummary, error) {
	var s model.DashboardSummary
	err := r.pool.QueryRow(ctx,
		`SELECT (SELECT COUNT(*) FROM users),
		        (SELECT COUNT(*) FROM questions),
		        (SELECT COUNT(*) FROM exams),
		        (SELECT COUNT(*) FROM exam_attempts WHERE completed_at IS NOT NULL)`,
	).Scan(&s.TotalUsers, &s.TotalQuestions, &s.TotalExams, &s.TotalAttempts)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT DATE_TRUNC('day', completed_at) AS day, COUNT(*)
		 FROM exam_attempts
		 WHERE completed_at >= $1
		 GROUP BY day
		 ORDER BY day`,
		since,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var d model.DashboardDaily
		if err := rows.Scan(&d.Date, &d.Attempts); err != nil {
			return nil, err
		}
		s.AttemptsPerDay = append(s.AttemptsPerDay, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	catRows, err := r.pool.Query(ctx,
		`SELECT e.category, COUNT(*), AVG(a.score)
		 FROM exam_attempts a
		 INNER JOIN exams e ON e.id = a.exam_id
		 WHERE a.completed_at IS NOT NULL
		 GROUP BY e.category
		 ORDER BY e.category`,
	)
	if err != nil {
		return nil, err
	}
	defer catRows.Close()
	for catRows.Next() {
		var c model.DashboardCategory
		if err := catRows.Scan(&c.Category, &c.Attempts, &c.AverageScore); err != nil {
			return nil, err
		}
		s.CategoryAverages = append(s.CategoryAverages, c)
	}
	return &s, catRows.Err()
}
