package model

import "time"

// DashboardSummary is the admin back-office overview payload.
type DashboardSummary struct {
	TotalUsers       int                 `json:"total_users"`
	TotalQuestions   int                 `json:"total_questions"`
	TotalExams       int                 `json:"total_exams"`
	TotalAttempts    int                 `json:"total_attempts"`
	AttemptsPerDay   []DashboardDaily    `json:"attempts_per_day"`
	CategoryAverages []DashboardCategory `json:"category_averages"`
}

// DashboardDaily is one day's attempt volume.
type DashboardDaily struct {
	Date     time.Time `json:"date"`
	Attempts int       `json:"attempts"`
}

// DashboardCategory is the average exam score per exam category.
type DashboardCategory struct {
	Category     Category `json:"category"`
	Attempts     int      `json:"attempts"`
	AverageScore float64  `json:"average_score"`
}
