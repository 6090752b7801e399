package model

import "time"

// AccuracyStat is an aggregated slice of the progress ledger.
type AccuracyStat struct {
	Total    int     `json:"total"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"` // percentage, 0 when Total is 0
}

// CategoryStat is accuracy grouped by question category.
type CategoryStat struct {
	Category Category `json:"category"`
	AccuracyStat
}

// TypeStat is accuracy grouped by question type.
type TypeStat struct {
	QuestionType QuestionType `json:"question_type"`
	AccuracyStat
}

// DailyStat is one day of answering activity.
type DailyStat struct {
	Date    time.Time `json:"date"`
	Total   int       `json:"total"`
	Correct int       `json:"correct"`
}

// ExamScoreStat summarizes a user's completed exam attempts.
type ExamScoreStat struct {
	Attempts     int     `json:"attempts"`
	AverageScore float64 `json:"average_score"`
	BestScore    int     `json:"best_score"`
}

// UserStats is the full statistics payload for one user.
type UserStats struct {
	Overall        AccuracyStat     `json:"overall"`
	ByCategory     []CategoryStat   `json:"by_category"`
	ByType         []TypeStat       `json:"by_type"`
	Exam           ExamScoreStat    `json:"exam"`
	Daily          []DailyStat      `json:"daily"`
	RecentAttempts []AttemptSummary `json:"recent_attempts"`
}

// LeaderboardRow is one user's aggregate performance, grouped in SQL and
// ranked in the service layer.
type LeaderboardRow struct {
	UserID   int64   `json:"user_id"`
	Name     string  `json:"name"`
	Attempts int     `json:"attempts"`
	Score    float64 `json:"score"` // accuracy % (practice) or average score (exam)
}

// LeaderboardEntry is a ranked row served to clients.
type LeaderboardEntry struct {
	Rank int `json:"rank"`
	LeaderboardRow
}

// Leaderboard is the ranked list plus the caller's own position, when ranked.
type Leaderboard struct {
	Entries []LeaderboardEntry `json:"entries"`
	Me      *LeaderboardEntry  `json:"me,omitempty"`
}
