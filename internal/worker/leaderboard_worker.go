package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aeroprep/aeroprep-backend/internal/config"
	"github.com/aeroprep/aeroprep-backend/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// LeaderboardWorker recomputes the leaderboard snapshots in Redis on an
// interval. The read path serves the snapshot and falls back to SQL, so the
// boards are eventually consistent with completed attempts.
type LeaderboardWorker struct {
	statsSvc *service.StatsService
	rdb      *redis.Client
	interval time.Duration
	log      zerolog.Logger
}

// NewLeaderboardWorker creates a new LeaderboardWorker.
func NewLeaderboardWorker(statsSvc *service.StatsService, rdb *redis.Client, interval time.Duration, log zerolog.Logger) *LeaderboardWorker {
	return &LeaderboardWorker{
		statsSvc: statsSvc,
		rdb:      rdb,
		interval: interval,
		log:      log.With().Str("component", "leaderboard_worker").Logger(),
	}
}

// Start begins the refresh loop. Call in a goroutine.
func (w *LeaderboardWorker) Start(ctx context.Context) {
	w.log.Info().Dur("interval", w.interval).Msg("LeaderboardWorker started")

	// First refresh right away so early reads hit the snapshot.
	w.refreshAll(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("LeaderboardWorker stopped")
			return
		case <-ticker.C:
			w.refreshAll(ctx)
		}
	}
}

func (w *LeaderboardWorker) refreshAll(ctx context.Context) {
	kinds := []service.LeaderboardKind{service.LeaderboardPractice, service.LeaderboardExam}
	categories := []string{"", "pilot", "hostess", "amt"}

	for _, kind := range kinds {
		for _, category := range categories {
			if err := w.refresh(ctx, kind, category); err != nil {
				w.log.Error().Err(err).
					Str("kind", string(kind)).
					Str("category", category).
					Msg("leaderboard refresh failed")
			}
		}
	}
}

func (w *LeaderboardWorker) refresh(ctx context.Context, kind service.LeaderboardKind, category string) error {
	rows, err := w.statsSvc.QueryLeaderboardRows(ctx, kind, category)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(rows)
	if err != nil {
		return err
	}

	// Snapshot expires at twice the refresh interval: a dead worker degrades
	// reads to SQL instead of serving a frozen board forever.
	key := config.CacheKey.LeaderboardKey(string(kind), category)
	return w.rdb.Set(ctx, key, raw, 2*w.interval).Err()
}
