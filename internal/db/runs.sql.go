package db

import (
	"context"
)

const createRun = `-- name: CreateRun :one
INSERT INTO runs (public_id, name, status, dataset_key, output_prefix, correlation_id)
VALUES ($1, $2, 'queued', $3, $4, $5)
RETURNING id, public_id, name, status, stage, dataset_key, output_prefix,
    query_count, processed_count, failed_count, error_text, correlation_id,
    created_at, updated_at
`

type CreateRunParams struct {
	PublicID      string
	Name          string
	DatasetKey    string
	OutputPrefix  string
	CorrelationID string
}

func (q *Queries) CreateRun(ctx context.Context, arg CreateRunParams) (Run, error) {
	row := q.db.QueryRow(ctx, createRun,
		arg.PublicID,
		arg.Name,
		arg.DatasetKey,
		arg.OutputPrefix,
		arg.CorrelationID,
	)
	var i Run
	err := row.Scan(
		&i.ID,
		&i.PublicID,
		&i.Name,
		&i.Status,
		&i.Stage,
		&i.DatasetKey,
		&i.OutputPrefix,
		&i.QueryCount,
		&i.ProcessedCount,
		&i.FailedCount,
		&i.ErrorText,
		&i.CorrelationID,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getRun = `-- name: GetRun :one
SELECT id, public_id, name, status, stage, dataset_key, output_prefix,
    query_count, processed_count, failed_count, error_text, correlation_id,
    created_at, updated_at
FROM runs
WHERE id = $1
`

func (q *Queries) GetRun(ctx context.Context, id int64) (Run, error) {
	row := q.db.QueryRow(ctx, getRun, id)
	var i Run
	err := row.Scan(
		&i.ID,
		&i.PublicID,
		&i.Name,
		&i.Status,
		&i.Stage,
		&i.DatasetKey,
		&i.OutputPrefix,
		&i.QueryCount,
		&i.ProcessedCount,
		&i.FailedCount,
		&i.ErrorText,
		&i.CorrelationID,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getRunByPublicID = `-- name: GetRunByPublicID :one
SELECT id, public_id, name, status, stage, dataset_key, output_prefix,
    query_count, processed_count, failed_count, error_text, correlation_id,
    created_at, updated_at
FROM runs
WHERE public_id = $1
`

func (q *Queries) GetRunByPublicID(ctx context.Context, publicID string) (Run, error) {
	row := q.db.QueryRow(ctx, getRunByPublicID, publicID)
	var i Run
	err := row.Scan(
		&i.ID,
		&i.PublicID,
		&i.Name,
		&i.Status,
		&i.Stage,
		&i.DatasetKey,
		&i.OutputPrefix,
		&i.QueryCount,
		&i.ProcessedCount,
		&i.FailedCount,
		&i.ErrorText,
		&i.CorrelationID,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listRuns = `-- name: ListRuns :many
SELECT id, public_id, name, status, stage, dataset_key, output_prefix,
    query_count, processed_count, failed_count, error_text, correlation_id,
    created_at, updated_at
FROM runs
ORDER BY created_at DESC
`

func (q *Queries) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := q.db.Query(ctx, listRuns)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Run
	for rows.Next() {
		var i Run
		if err := rows.Scan(
			&i.ID,
			&i.PublicID,
			&i.Name,
			&i.Status,
			&i.Stage,
			&i.DatasetKey,
			&i.OutputPrefix,
			&i.QueryCount,
			&i.ProcessedCount,
			&i.FailedCount,
			&i.ErrorText,
			&i.CorrelationID,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const setRunStatus = `-- name: SetRunStatus :exec
UPDATE runs
SET status = $2, updated_at = NOW()
WHERE public_id = $1
`

type SetRunStatusParams struct {
	PublicID string
	Status   string
}

func (q *Queries) SetRunStatus(ctx context.Context, arg SetRunStatusParams) error {
	_, err := q.db.Exec(ctx, setRunStatus, arg.PublicID, arg.Status)
	return err
}

const setRunStage = `-- name: SetRunStage :exec
UPDATE runs
SET stage = $2, updated_at = NOW()
WHERE public_id = $1
`

type SetRunStageParams struct {
	PublicID string
	Stage    *string
}

func (q *Queries) SetRunStage(ctx context.Context, arg SetRunStageParams) error {
	_, err := q.db.Exec(ctx, setRunStage, arg.PublicID, arg.Stage)
	return err
}

const setRunQueryCount = `-- name: SetRunQueryCount :exec
UPDATE runs
SET query_count = $2, updated_at = NOW()
WHERE public_id = $1
`

type SetRunQueryCountParams struct {
	PublicID   string
	QueryCount int32
}

func (q *Queries) SetRunQueryCount(ctx context.Context, arg SetRunQueryCountParams) error {
	_, err := q.db.Exec(ctx, setRunQueryCount, arg.PublicID, arg.QueryCount)
	return err
}

const setRunCounts = `-- name: SetRunCounts :exec
UPDATE runs
SET processed_count = $2, failed_count = $3, updated_at = NOW()
WHERE public_id = $1
`

type SetRunCountsParams struct {
	PublicID       string
	ProcessedCount int32
	FailedCount    int32
}

func (q *Queries) SetRunCounts(ctx context.Context, arg SetRunCountsParams) error {
	_, err := q.db.Exec(ctx, setRunCounts, arg.PublicID, arg.ProcessedCount, arg.FailedCount)
	return err
}

const setRunFailed = `-- name: SetRunFailed :exec
UPDATE runs
SET status = 'failed', error_text = $2, updated_at = NOW()
WHERE public_id = $1
`

type SetRunFailedParams struct {
	PublicID  string
	ErrorText *string
}

func (q *Queries) SetRunFailed(ctx context.Context, arg SetRunFailedParams) error {
	_, err := q.db.Exec(ctx, setRunFailed, arg.PublicID, arg.ErrorText)
	return err
}

const deleteRun = `-- name: DeleteRun :exec
DELETE FROM runs
WHERE public_id = $1
`

func (q *Queries) DeleteRun(ctx context.Context, publicID string) error {
	_, err := q.db.Exec(ctx, deleteRun, publicID)
	return err
}

const getStaleRuns = `-- name: GetStaleRuns :many
SELECT id, public_id, name, status, stage, dataset_key, output_prefix,
    query_count, processed_count, failed_count, error_text, correlation_id,
    created_at, updated_at
FROM runs
WHERE status = 'processing'
  AND updated_at < NOW() - INTERVAL '30 minutes'
`

func (q *Queries) GetStaleRuns(ctx context.Context) ([]Run, error) {
	rows, err := q.db.Query(ctx, getStaleRuns)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Run
	for rows.Next() {
		var i Run
		if err := rows.Scan(
			&i.ID,
			&i.PublicID,
			&i.Name,
			&i.Status,
			&i.Stage,
			&i.DatasetKey,
			&i.OutputPrefix,
			&i.QueryCount,
			&i.ProcessedCount,
			&i.FailedCount,
			&i.ErrorText,
			&i.CorrelationID,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const resetStaleRunToQueued = `-- name: ResetStaleRunToQueued :exec
UPDATE runs
SET status = 'queued', stage = NULL, processed_count = 0, updated_at = NOW()
WHERE id = $1 AND status = 'processing'
`

func (q *Queries) ResetStaleRunToQueued(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, resetStaleRunToQueued, id)
	return err
}

const addRunFailedQuery = `-- name: AddRunFailedQuery :exec
INSERT INTO run_failed_queries (run_id, query, answer, reason)
VALUES ($1, $2, $3, $4)
`

type AddRunFailedQueryParams struct {
	RunID  int64
	Query  string
	Answer string
	Reason string
}

func (q *Queries) AddRunFailedQuery(ctx context.Context, arg AddRunFailedQueryParams) error {
	_, err := q.db.Exec(ctx, addRunFailedQuery, arg.RunID, arg.Query, arg.Answer, arg.Reason)
	return err
}

const getRunFailedQueries = `-- name: GetRunFailedQueries :many
SELECT id, run_id, query, answer, reason, created_at
FROM run_failed_queries
WHERE run_id = $1
ORDER BY id
`

func (q *Queries) GetRunFailedQueries(ctx context.Context, runID int64) ([]RunFailedQuery, error) {
	rows, err := q.db.Query(ctx, getRunFailedQueries, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []RunFailedQuery
	for rows.Next() {
		var i RunFailedQuery
		if err := rows.Scan(
			&i.ID,
			&i.RunID,
			&i.Query,
			&i.Answer,
			&i.Reason,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteRunFailedQueries = `-- name: DeleteRunFailedQueries :exec
DELETE FROM run_failed_queries
WHERE run_id = $1
`

func (q *Queries) DeleteRunFailedQueries(ctx context.Context, runID int64) error {
	_, err := q.db.Exec(ctx, deleteRunFailedQueries, runID)
	return err
}
