package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/OFFIS-RIT/gift/backend/internal/db"
	"github.com/OFFIS-RIT/gift/backend/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rabbitmq/amqp091-go"
)

// RecoverStaleRuns requeues runs stuck in processing. A run goes stale
// when a worker died mid-pipeline; resetting it to queued and republishing
// lets the next worker pick it up.
func RecoverStaleRuns(
	ctx context.Context,
	ch *amqp091.Channel,
	conn *pgxpool.Pool,
) error {
	q := db.New(conn)

	staleRuns, err := q.GetStaleRuns(ctx)
	if err != nil {
		return fmt.Errorf("failed to get stale runs: %w", err)
	}

	if len(staleRuns) == 0 {
		logger.Debug("[Queue] No stale runs found")
		return nil
	}

	logger.Info("[Queue] Found stale runs", "count", len(staleRuns))

	for _, run := range staleRuns {
		if err := q.ResetStaleRunToQueued(ctx, run.ID); err != nil {
			logger.Error("[Queue] Failed to reset stale run", "run_id", run.PublicID, "err", err)
			continue
		}

		message := RunMessage{
			RunID:         run.ID,
			DatasetKey:    run.DatasetKey,
			OutputPrefix:  run.OutputPrefix,
			CorrelationID: run.CorrelationID,
		}

		msgBytes, err := json.Marshal(message)
		if err != nil {
			logger.Error("[Queue] Failed to marshal run message", "run_id", run.PublicID, "err", err)
			continue
		}

		if err := PublishFIFO(ch, RunQueue, msgBytes); err != nil {
			logger.Error("[Queue] Failed to republish run", "run_id", run.PublicID, "err", err)
			continue
		}

		logger.Info("[Queue] Recovered stale run", "run_id", run.PublicID)
	}

	return nil
}
