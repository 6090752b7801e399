package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aeroprep/aeroprep-backend/internal/config"
	"github.com/aeroprep/aeroprep-backend/internal/metrics"
	"github.com/aeroprep/aeroprep-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	CheckpointBatchSize    = 50
	CheckpointBatchTimeout = 2 * time.Second
	CheckpointPollTimeout  = 1 * time.Second
)

// CheckpointWorker consumes the checkpoint queue and upserts answer
// checkpoints into PostgreSQL in batches. Checkpoints are what make an
// in-progress session survive a client reload; losing one only loses the
// answer until the next autosave.
type CheckpointWorker struct {
	pool *pgxpool.Pool
	rdb  *redis.Client
	log  zerolog.Logger
}

// NewCheckpointWorker creates a new CheckpointWorker.
func NewCheckpointWorker(pool *pgxpool.Pool, rdb *redis.Client, log zerolog.Logger) *CheckpointWorker {
	return &CheckpointWorker{
		pool: pool,
		rdb:  rdb,
		log:  log.With().Str("component", "checkpoint_worker").Logger(),
	}
}

// Start begins the worker loop with batching. Call in a goroutine.
func (w *CheckpointWorker) Start(ctx context.Context) {
	w.log.Info().Msg("CheckpointWorker started")

	batch := make([]*model.SessionCheckpoint, 0, CheckpointBatchSize)
	lastFlush := time.Now()

	for {
		if len(batch) > 0 &&
			(len(batch) >= CheckpointBatchSize || time.Since(lastFlush) >= CheckpointBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			w.drain(context.Background())
			return

		default:
			item, err := w.rdb.BLPop(ctx, CheckpointPollTimeout, config.WorkerKey.PersistCheckpointsQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var cp model.SessionCheckpoint
			if err := json.Unmarshal([]byte(item[1]), &cp); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			batch = append(batch, &cp)
		}
	}
}

// flushSafe bulk-upserts a batch, falling back to single rows and requeueing
// what still fails.
func (w *CheckpointWorker) flushSafe(ctx context.Context, batch []*model.SessionCheckpoint) {
	if len(batch) == 0 {
		return
	}

	if err := w.bulkUpsert(ctx, batch); err != nil {
		w.log.Warn().Err(err).Msg("bulk checkpoint upsert failed, using fallback")

		for _, cp := range batch {
			if err := w.persistSingle(ctx, cp); err != nil {
				w.log.Error().Err(err).
					Str("session_id", cp.SessionID.String()).
					Msg("persistSingle failed, requeueing")
				raw, _ := json.Marshal(cp)
				w.rdb.RPush(ctx, config.WorkerKey.PersistCheckpointsQueue, raw)
			} else {
				metrics.CheckpointsPersisted.Inc()
			}
		}
		return
	}

	metrics.CheckpointsPersisted.Add(float64(len(batch)))
}

func (w *CheckpointWorker) bulkUpsert(ctx context.Context, batch []*model.SessionCheckpoint) error {
	n := len(batch)
	sessionIDs := make([]uuid.UUID, 0, n)
	userIDs := make([]int64, 0, n)
	questionIDs := make([]int64, 0, n)
	answers := make([]string, 0, n)
	savedAts := make([]time.Time, 0, n)

	for _, cp := range batch {
		sessionIDs = append(sessionIDs, cp.SessionID)
		userIDs = append(userIDs, cp.UserID)
		questionIDs = append(questionIDs, cp.QuestionID)
		answers = append(answers, cp.Answer)
		savedAts = append(savedAts, cp.SavedAt)
	}

	query := `
		INSERT INTO session_checkpoints (session_id, user_id, question_id, answer, saved_at)
		SELECT u.session_id, u.user_id, u.question_id, u.answer, u.saved_at
		FROM UNNEST(
			$1::uuid[],
			$2::bigint[],
			$3::bigint[],
			$4::text[],
			$5::timestamptz[]
		) AS u (session_id, user_id, question_id, answer, saved_at)
		ON CONFLICT (session_id, question_id) DO UPDATE
		SET answer = EXCLUDED.answer, saved_at = EXCLUDED.saved_at
	`

	_, err := w.pool.Exec(ctx, query, sessionIDs, userIDs, questionIDs, answers, savedAts)
	return err
}

func (w *CheckpointWorker) persistSingle(ctx context.Context, cp *model.SessionCheckpoint) error {
	_, err := w.pool.Exec(ctx,
		`INSERT INTO session_checkpoints (session_id, user_id, question_id, answer, saved_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (session_id, question_id) DO UPDATE
		 SET answer = EXCLUDED.answer, saved_at = EXCLUDED.saved_at`,
		cp.SessionID, cp.UserID, cp.QuestionID, cp.Answer, cp.SavedAt,
	)
	return err
}

// drain processes everything left on the queue before shutdown.
func (w *CheckpointWorker) drain(ctx context.Context) {
	drained := 0
	for {
		result, err := w.rdb.LPop(ctx, config.WorkerKey.PersistCheckpointsQueue).Result()
		if err != nil {
			break
		}

		var cp model.SessionCheckpoint
		if err := json.Unmarshal([]byte(result), &cp); err != nil {
			w.log.Error().Err(err).Msg("Drain unmarshal error")
			continue
		}

		if err := w.persistSingle(ctx, &cp); err != nil {
			w.log.Error().Err(err).Msg("Drain persist error")
			w.rdb.RPush(ctx, config.WorkerKey.PersistCheckpointsQueue, result)
			break
		}
		drained++
	}

	if drained > 0 {
		w.log.Info().Int("count", drained).Msg("Drained remaining checkpoints")
	}
}
