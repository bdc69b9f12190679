package graph

import (
	"context"

	"github.com/OFFIS-RIT/gift/backend/pkg/common"
	"github.com/OFFIS-RIT/gift/backend/pkg/logger"
)

// ProcessQueries runs the full extraction stage over a dataset: sequential
// batches of BatchSize units, each reconciled with per-unit fallback, merged
// into the builder as they resolve. onProgress, when set, receives the
// cumulative processed and failed unit counts after every batch.
//
// Individual unit failures never abort the run; only context cancellation
// (or a deadline) stops processing early.
func (g *GraphClient) ProcessQueries(
	ctx context.Context,
	units []common.QueryUnit,
	builder *Builder,
	onProgress func(processed int, failed int),
) error {
	total := len(units)
	logger.Info("[Graph] Processing queries", "total", total, "batch_size", g.batchSize)

	processed := 0
	failedTotal := 0

	for start := 0; start < total; start += g.batchSize {
		if err := ctx.Err(); err != nil {
			return err
		}

		end := min(start+g.batchSize, total)
		batch := units[start:end]

		fragments, failed, err := g.ExtractBatch(ctx, batch)
		if err != nil {
			return err
		}

		for _, fragment := range fragments {
			builder.MergeFragment(fragment)
		}
		for _, f := range failed {
			builder.AddFailed(f.Unit)
		}

		processed += len(batch)
		failedTotal += len(failed)

		logger.Info("[Graph] Batch done",
			"processed", processed, "total", total, "failed", failedTotal)

		if onProgress != nil {
			onProgress(processed, failedTotal)
		}
	}

	logger.Info("[Graph] Extraction completed",
		"accepted", processed-failedTotal, "failed", failedTotal,
		"core_entities", len(builder.CoreEntities()))

	return nil
}
