package util

import (
	"fmt"

	pgdb "github.com/OFFIS-RIT/gift/backend/internal/db"
)

// RunStepProgress holds per-stage counters for a run in flight.
type RunStepProgress struct {
	Extracting string `json:"extracting,omitempty"`
	Failed     string `json:"failed,omitempty"`
}

// RunProgress is the progress block returned by the run endpoints.
type RunProgress struct {
	Step              *RunStepProgress `json:"step,omitempty"`
	Percentage        *int32           `json:"percentage,omitempty"`
	EstimatedDuration *int64           `json:"estimated_duration,omitempty"`
	TimeRemaining     *int64           `json:"time_remaining,omitempty"`
}

// Stage weights out of 100. Extraction dominates because it spends one model
// round trip per query batch; the downstream stages work per core entity.
const (
	runStageWeightGraph    int64 = 65
	runStageWeightGenerate int64 = 15
	runStageWeightEnhance  int64 = 10
	runStageWeightMerge    int64 = 5
)

func BuildRunProgress(run pgdb.Run, estimatedMs int64, remainingMs int64) RunProgress {
	progress := RunProgress{}

	step := RunStepProgress{}
	hasStep := false
	if run.Status == pgdb.RunStatusProcessing && run.QueryCount > 0 {
		step.Extracting = fmt.Sprintf("%d/%d", run.ProcessedCount, run.QueryCount)
		hasStep = true
	}
	if run.FailedCount > 0 && run.QueryCount > 0 {
		step.Failed = fmt.Sprintf("%d/%d", run.FailedCount, run.QueryCount)
		hasStep = true
	}
	if hasStep {
		progress.Step = &step
	}

	percentage := CalculateRunProgressPercentage(run)
	progress.Percentage = &percentage

	if estimatedMs > 0 {
		progress.EstimatedDuration = &estimatedMs
	}
	if remainingMs > 0 {
		progress.TimeRemaining = &remainingMs
	}

	return progress
}

// CalculateRunProgressPercentage maps the run status, current stage and the
// extraction counters onto a 0-100 scale.
func CalculateRunProgressPercentage(run pgdb.Run) int32 {
	switch run.Status {
	case pgdb.RunStatusQueued:
		return 0
	case pgdb.RunStatusCompleted:
		return 100
	}

	stage := ""
	if run.Stage != nil {
		stage = *run.Stage
	}

	switch stage {
	case pgdb.RunStageGraph:
		if run.QueryCount <= 0 {
			return 0
		}
		done := min(int64(run.ProcessedCount), int64(run.QueryCount))
		return int32(done * runStageWeightGraph / int64(run.QueryCount))
	case pgdb.RunStageGenerate:
		return int32(runStageWeightGraph)
	case pgdb.RunStageEnhance:
		return int32(runStageWeightGraph + runStageWeightGenerate)
	case pgdb.RunStageMerge:
		return int32(runStageWeightGraph + runStageWeightGenerate + runStageWeightEnhance)
	}

	return 0
}
