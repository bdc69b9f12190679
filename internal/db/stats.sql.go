package db

import (
	"context"
)

const addProcessTime = `-- name: AddProcessTime :exec
INSERT INTO process_time_stats (run_id, stat_type, amount, duration)
VALUES ($1, $2, $3, $4)
`

type AddProcessTimeParams struct {
	RunID    int64
	StatType string
	Amount   int32
	Duration int64
}

func (q *Queries) AddProcessTime(ctx context.Context, arg AddProcessTimeParams) error {
	_, err := q.db.Exec(ctx, addProcessTime, arg.RunID, arg.StatType, arg.Amount, arg.Duration)
	return err
}

const predictRunProcessTime = `-- name: PredictRunProcessTime :one
SELECT COALESCE(CAST($1 * AVG(duration / GREATEST(amount, 1)) AS BIGINT), 0)
FROM (
    SELECT amount, duration
    FROM process_time_stats
    WHERE stat_type = $2
    ORDER BY id DESC
    LIMIT 50
) recent
`

type PredictRunProcessTimeParams struct {
	Amount   int64
	StatType string
}

func (q *Queries) PredictRunProcessTime(ctx context.Context, arg PredictRunProcessTimeParams) (int64, error) {
	row := q.db.QueryRow(ctx, predictRunProcessTime, arg.Amount, arg.StatType)
	var prediction int64
	err := row.Scan(&prediction)
	return prediction, err
}
