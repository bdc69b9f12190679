package db

import (
	"time"
)

const (
	RunStatusQueued     = "queued"
	RunStatusProcessing = "processing"
	RunStatusCompleted  = "completed"
	RunStatusFailed     = "failed"
)

const (
	RunStageGraph    = "graph"
	RunStageGenerate = "generate"
	RunStageEnhance  = "enhance"
	RunStageMerge    = "merge"
)

type Run struct {
	ID             int64
	PublicID       string
	Name           string
	Status         string
	Stage          *string
	DatasetKey     string
	OutputPrefix   string
	QueryCount     int32
	ProcessedCount int32
	FailedCount    int32
	ErrorText      *string
	CorrelationID  string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type RunFailedQuery struct {
	ID        int64
	RunID     int64
	Query     string
	Answer    string
	Reason    string
	CreatedAt time.Time
}

type ProcessTimeStat struct {
	ID        int64
	RunID     int64
	StatType  string
	Amount    int32
	Duration  int64
	CreatedAt time.Time
}
