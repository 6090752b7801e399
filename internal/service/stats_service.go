package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aeroprep/aeroprep-backend/internal/config"
	"github.com/aeroprep/aeroprep-backend/internal/model"
	"github.com/aeroprep/aeroprep-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ErrInvalidLeaderboard is returned for an unknown leaderboard type.
var ErrInvalidLeaderboard = errors.New("invalid leaderboard type")

// LeaderboardKind selects which leaderboard to serve.
type LeaderboardKind string

const (
	LeaderboardPractice LeaderboardKind = "practice"
	LeaderboardExam     LeaderboardKind = "exam"
)

// practiceMinAttempts is the floor below which a user does not rank on the
// practice leaderboard. The exam leaderboard has no floor.
const practiceMinAttempts = 5

const defaultLeaderboardLimit = 10

// StatsService aggregates user statistics and leaderboards. Leaderboard
// reads prefer the worker-refreshed Redis snapshot and fall back to SQL.
type StatsService struct {
	statsRepo   *repository.StatsRepository
	attemptRepo *repository.AttemptRepository
	rdb         *redis.Client
	log         zerolog.Logger
}

// NewStatsService creates a new StatsService.
func NewStatsService(statsRepo *repository.StatsRepository, attemptRepo *repository.AttemptRepository, rdb *redis.Client, log zerolog.Logger) *StatsService {
	return &StatsService{
		statsRepo:   statsRepo,
		attemptRepo: attemptRepo,
		rdb:         rdb,
		log:         log.With().Str("component", "stats_service").Logger(),
	}
}

// SinceForTimeframe maps a timeframe token to a window start; empty or
// "all" means no window.
func SinceForTimeframe(timeframe string) *time.Time {
	var d time.Duration
	switch timeframe {
	case "7d", "week":
		d = 7 * 24 * time.Hour
	case "30d", "month":
		d = 30 * 24 * time.Hour
	default:
		return nil
	}
	t := time.Now().Add(-d)
	return &t
}

// UserStats assembles the full statistics payload for one user. Every
// aggregate returns zero on an empty ledger, never a division by zero.
func (s *StatsService) UserStats(ctx context.Context, userID int64, timeframe string) (*model.UserStats, error) {
	since := SinceForTimeframe(timeframe)

	overall, err := s.statsRepo.OverallAccuracy(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("overall accuracy: %w", err)
	}
	byCategory, err := s.statsRepo.AccuracyByCategory(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("category breakdown: %w", err)
	}
	byType, err := s.statsRepo.AccuracyByType(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("type breakdown: %w", err)
	}
	examStats, err := s.statsRepo.ExamScores(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("exam scores: %w", err)
	}
	daily, err := s.statsRepo.DailySeries(ctx, userID, time.Now().AddDate(0, 0, -30))
	if err != nil {
		return nil, fmt.Errorf("daily series: %w", err)
	}
	recent, _, err := s.attemptRepo.ListByUser(ctx, userID, 5, 0)
	if err != nil {
		return nil, fmt.Errorf("recent attempts: %w", err)
	}

	if byCategory == nil {
		byCategory = []model.CategoryStat{}
	}
	if byType == nil {
		byType = []model.TypeStat{}
	}
	if daily == nil {
		daily = []model.DailyStat{}
	}
	if recent == nil {
		recent = []model.AttemptSummary{}
	}

	return &model.UserStats{
		Overall:        overall,
		ByCategory:     byCategory,
		ByType:         byType,
		Exam:           examStats,
		Daily:          daily,
		RecentAttempts: recent,
	}, nil
}

// Leaderboard serves the ranked top-N plus the caller's own rank. The
// caller's rank is found inside the window when possible, otherwise by
// scanning the full ranked set.
func (s *StatsService) Leaderboard(ctx context.Context, kind LeaderboardKind, category string, limit int, userID int64) (*model.Leaderboard, error) {
	if kind != LeaderboardPractice && kind != LeaderboardExam {
		return nil, ErrInvalidLeaderboard
	}
	if category != "" && !model.ValidCategory(category) {
		return nil, ErrInvalidFilter
	}
	if limit < 1 {
		limit = defaultLeaderboardLimit
	}
	if limit > 100 {
		limit = 100
	}

	rows, err := s.leaderboardRows(ctx, kind, category)
	if err != nil {
		return nil, err
	}

	minAttempts := 0
	if kind == LeaderboardPractice {
		minAttempts = practiceMinAttempts
	}
	ranked := rankRows(rows, minAttempts)

	entries := ranked
	if len(entries) > limit {
		entries = entries[:limit]
	}

	lb := &model.Leaderboard{Entries: entries, Me: rankOf(ranked, userID)}
	if lb.Entries == nil {
		lb.Entries = []model.LeaderboardEntry{}
	}
	return lb, nil
}

// leaderboardRows serves the Redis snapshot when present, falling back to
// the grouped SQL query. The snapshot is eventually consistent; the worker
// refreshes it on an interval.
func (s *StatsService) leaderboardRows(ctx context.Context, kind LeaderboardKind, category string) ([]model.LeaderboardRow, error) {
	key := config.CacheKey.LeaderboardKey(string(kind), category)

	cached, err := s.rdb.Get(ctx, key).Result()
	if err == nil {
		var rows []model.LeaderboardRow
		if err := json.Unmarshal([]byte(cached), &rows); err == nil {
			return rows, nil
		}
		s.log.Warn().Str("key", key).Msg("corrupt leaderboard snapshot, falling back to sql")
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Str("key", key).Msg("leaderboard snapshot read failed")
	}

	return s.QueryLeaderboardRows(ctx, kind, category)
}

// QueryLeaderboardRows runs the grouped SQL query directly. The refresh
// worker uses it to build snapshots.
func (s *StatsService) QueryLeaderboardRows(ctx context.Context, kind LeaderboardKind, category string) ([]model.LeaderboardRow, error) {
	if kind == LeaderboardPractice {
		return s.statsRepo.PracticeLeaderboardRows(ctx, category)
	}
	return s.statsRepo.ExamLeaderboardRows(ctx, category)
}

// rankRows applies the minimum-attempts floor and assigns ranks 1..N in the
// rows' existing order. Ties keep that order; the grouped query's ordering
// is the tie-break.
func rankRows(rows []model.LeaderboardRow, minAttempts int) []model.LeaderboardEntry {
	var ranked []model.LeaderboardEntry
	for _, row := range rows {
		if row.Attempts < minAttempts {
			continue
		}
		ranked = append(ranked, model.LeaderboardEntry{
			Rank:           len(ranked) + 1,
			LeaderboardRow: row,
		})
	}
	return ranked
}

// rankOf finds a user's entry anywhere in the ranked set, or nil when the
// user does not rank (no activity, or under the attempts floor).
func rankOf(ranked []model.LeaderboardEntry, userID int64) *model.LeaderboardEntry {
	for i := range ranked {
		if ranked[i].UserID == userID {
			return &ranked[i]
		}
	}
	return nil
}
