package timing

import (
	"context"

	"github.com/OFFIS-RIT/gift/backend/internal/db"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Stat types recorded per pipeline stage. Amount is the number of queries
// for the graph stage and the number of core entities for the rest.
const (
	StatTypeGraph    = "graph_extraction"
	StatTypeGenerate = "poison_generation"
	StatTypeEnhance  = "poison_enhancement"
	StatTypeMerge    = "poison_merge"
)

// AddRunProcessingTime records how long a stage of a run took, so future
// runs can be given a duration estimate.
func AddRunProcessingTime(
	ctx context.Context,
	runID int64,
	amount int64,
	durationMs int64,
	statType string,
	conn *pgxpool.Pool,
) error {
	q := db.New(conn)

	return q.AddProcessTime(ctx, db.AddProcessTimeParams{
		RunID:    runID,
		Amount:   int32(amount),
		Duration: durationMs,
		StatType: statType,
	})
}

// PredictRunProcessingTime estimates the duration of a stage in
// milliseconds from past per-unit averages. Returns 0 when no history
// exists for the stat type.
func PredictRunProcessingTime(ctx context.Context, amount int64, statType string, conn *pgxpool.Pool) (int64, error) {
	q := db.New(conn)

	return q.PredictRunProcessTime(ctx, db.PredictRunProcessTimeParams{
		Amount:   amount,
		StatType: statType,
	})
}
