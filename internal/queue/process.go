package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/OFFIS-RIT/gift/backend/internal/db"
	"github.com/OFFIS-RIT/gift/backend/internal/pipeline"
	"github.com/OFFIS-RIT/gift/backend/internal/storage"
	"github.com/OFFIS-RIT/gift/backend/internal/timing"
	"github.com/OFFIS-RIT/gift/backend/internal/util"
	"github.com/OFFIS-RIT/gift/backend/pkg/ai"
	"github.com/OFFIS-RIT/gift/backend/pkg/leaselock"
	"github.com/OFFIS-RIT/gift/backend/pkg/loader"
	"github.com/OFFIS-RIT/gift/backend/pkg/logger"
	"github.com/OFFIS-RIT/gift/backend/pkg/store/base"

	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rabbitmq/amqp091-go"
)

// ProcessRunMessage runs the full pipeline for one queued run: fetch the
// dataset from S3, extract and build graphs, generate/enhance/merge poison
// texts into a temp dir, and upload every output under the run's prefix.
func ProcessRunMessage(
	ctx context.Context,
	s3Client *awss3.Client,
	aiClient ai.GraphAIClient,
	ch *amqp091.Channel,
	conn *pgxpool.Pool,
	msg string,
) (err error) {
	data := new(RunMessage)
	if err = json.Unmarshal([]byte(msg), &data); err != nil {
		return err
	}

	q := db.New(conn)
	run, err := q.GetRun(ctx, data.RunID)
	if err != nil {
		return fmt.Errorf("failed to load run %d: %w", data.RunID, err)
	}

	defer func() {
		if err == nil {
			return
		}
		updateCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		errText := err.Error()
		if updateErr := q.SetRunFailed(updateCtx, db.SetRunFailedParams{
			PublicID:  run.PublicID,
			ErrorText: &errText,
		}); updateErr != nil {
			logger.Warn("[Queue] Failed to mark run as failed", "run_id", run.PublicID, "err", updateErr)
		}
	}()

	// Exclusive per-run lease: a redelivered message for a run already in
	// flight on another worker is dropped, not processed twice.
	lockClient := leaselock.New(conn)
	lease, err := lockClient.Acquire(ctx, fmt.Sprintf("run:%d", run.ID), leaselock.Options{
		TTL:         10 * time.Minute,
		RenewEvery:  4 * time.Minute,
		TokenPrefix: fmt.Sprintf("run/%d/", run.ID),
	})
	if err != nil {
		if errors.Is(err, leaselock.ErrBusy) {
			logger.Info("[Queue] Skipping run: already being processed", "run_id", run.PublicID)
			err = nil
			return nil
		}
		return err
	}
	defer func() {
		if releaseErr := lease.Release(context.Background()); releaseErr != nil {
			logger.Warn("[Queue] Failed to release run lease", "run_id", run.PublicID, "err", releaseErr)
		}
	}()
	ctx = lease.Context

	if err = q.SetRunStatus(ctx, db.SetRunStatusParams{
		PublicID: run.PublicID,
		Status:   db.RunStatusProcessing,
	}); err != nil {
		return err
	}

	datasetBytes, err := storage.GetFile(ctx, s3Client, data.DatasetKey)
	if err != nil {
		return fmt.Errorf("failed to fetch dataset: %w", err)
	}
	units, err := loader.ParseDataset(filepath.Base(data.DatasetKey), datasetBytes)
	if err != nil {
		return fmt.Errorf("failed to parse dataset: %w", err)
	}

	if err = q.SetRunQueryCount(ctx, db.SetRunQueryCountParams{
		PublicID:   run.PublicID,
		QueryCount: int32(len(units)),
	}); err != nil {
		return err
	}

	prediction, predictErr := timing.PredictRunProcessingTime(ctx, int64(len(units)), timing.StatTypeGraph, conn)
	if predictErr != nil {
		prediction = 0
	}
	logger.Info("[Queue] Starting run", "run_id", run.PublicID, "queries", len(units), "predicted_ms", prediction)

	outputDir, err := os.MkdirTemp("", "gift-run-*")
	if err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	defer os.RemoveAll(outputDir)

	runStorage, err := base.NewRunStorage(base.NewRunStorageParams{Dir: outputDir})
	if err != nil {
		return err
	}

	gateway := ai.NewGateway(ai.GatewayParams{
		Client:     aiClient,
		MaxRetries: int(util.GetEnvNumeric("AI_MAX_RETRIES", 3)),
	})

	pipe, err := pipeline.NewPipeline(pipeline.NewPipelineParams{
		Gateway:             gateway,
		Storage:             runStorage,
		BatchSize:           int(util.GetEnvNumeric("EXTRACTION_BATCH_SIZE", 10)),
		MaxBatchTokens:      int(util.GetEnvNumeric("EXTRACTION_MAX_BATCH_TOKENS", 8192)),
		MaxPoisonWords:      int(util.GetEnvNumeric("POISON_MAX_WORDS", 300)),
		EnhanceBatchSize:    int(util.GetEnvNumeric("ENHANCE_BATCH_SIZE", 1)),
		MinEntitiesRequired: int(util.GetEnvNumeric("ENHANCE_MIN_ENTITIES", 6)),
		ParallelCores:       int(util.GetEnvNumeric("PARALLEL_CORES", 4)),
		OnGraphProgress: func(processed, failed int) {
			if updateErr := q.SetRunCounts(ctx, db.SetRunCountsParams{
				PublicID:       run.PublicID,
				ProcessedCount: int32(processed),
				FailedCount:    int32(failed),
			}); updateErr != nil {
				logger.Warn("[Queue] Failed to update run counts", "run_id", run.PublicID, "err", updateErr)
			}
		},
	})
	if err != nil {
		return err
	}

	setStage := func(stage string) error {
		return q.SetRunStage(ctx, db.SetRunStageParams{PublicID: run.PublicID, Stage: &stage})
	}
	recordStage := func(statType string, amount int, start time.Time) {
		if timingErr := timing.AddRunProcessingTime(ctx, run.ID, int64(amount), time.Since(start).Milliseconds(), statType, conn); timingErr != nil {
			logger.Warn("[Queue] Failed to record stage duration", "run_id", run.PublicID, "stat_type", statType, "err", timingErr)
		}
	}

	if err = setStage(pipeline.StageGraph); err != nil {
		return err
	}
	stageStart := time.Now()
	builder, err := pipe.RunGraphStage(ctx, units)
	if err != nil {
		return err
	}
	recordStage(timing.StatTypeGraph, len(units), stageStart)

	if err = q.DeleteRunFailedQueries(ctx, run.ID); err != nil {
		logger.Warn("[Queue] Failed to clear failed queries", "run_id", run.PublicID, "err", err)
		err = nil
	}
	for _, unit := range builder.FailedQueries() {
		if insertErr := q.AddRunFailedQuery(ctx, db.AddRunFailedQueryParams{
			RunID:  run.ID,
			Query:  util.SanitizePostgresText(unit.Query),
			Answer: util.SanitizePostgresText(unit.Answer),
			Reason: "extraction failed",
		}); insertErr != nil {
			logger.Warn("[Queue] Failed to record failed query", "run_id", run.PublicID, "err", insertErr)
		}
	}

	coreEntities := len(builder.CoreEntities())

	if err = setStage(pipeline.StageGenerate); err != nil {
		return err
	}
	stageStart = time.Now()
	if err = pipe.RunGenerateStage(ctx); err != nil {
		return err
	}
	recordStage(timing.StatTypeGenerate, coreEntities, stageStart)

	if err = setStage(pipeline.StageEnhance); err != nil {
		return err
	}
	stageStart = time.Now()
	if err = pipe.RunEnhanceStage(ctx); err != nil {
		return err
	}
	recordStage(timing.StatTypeEnhance, coreEntities, stageStart)

	if err = setStage(pipeline.StageMerge); err != nil {
		return err
	}
	stageStart = time.Now()
	if err = pipe.RunMergeStage(ctx); err != nil {
		return err
	}
	recordStage(timing.StatTypeMerge, coreEntities, stageStart)

	if err = uploadArtifacts(ctx, s3Client, outputDir, data.OutputPrefix); err != nil {
		return err
	}

	if err = q.SetRunStage(ctx, db.SetRunStageParams{PublicID: run.PublicID, Stage: nil}); err != nil {
		return err
	}
	if err = q.SetRunStatus(ctx, db.SetRunStatusParams{
		PublicID: run.PublicID,
		Status:   db.RunStatusCompleted,
	}); err != nil {
		return err
	}

	logger.Info("[Queue] Run completed", "run_id", run.PublicID, "core_entities", coreEntities)
	return nil
}

func uploadArtifacts(ctx context.Context, s3Client *awss3.Client, outputDir, prefix string) error {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return fmt.Errorf("failed to read output directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		file, err := os.Open(filepath.Join(outputDir, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to open artifact %s: %w", entry.Name(), err)
		}

		key := fmt.Sprintf("%s/%s", prefix, entry.Name())
		putErr := util.RetryErrWithContext(ctx, 3, func(ctx context.Context) error {
			if _, seekErr := file.Seek(0, io.SeekStart); seekErr != nil {
				return seekErr
			}
			return storage.PutFile(ctx, s3Client, key, file)
		})
		file.Close()
		if putErr != nil {
			return fmt.Errorf("failed to upload artifact %s: %w", entry.Name(), putErr)
		}

		logger.Debug("[Queue] Uploaded artifact", "key", key)
	}

	return nil
}
