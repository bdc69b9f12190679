package store

import (
	"context"

	"github.com/OFFIS-RIT/gift/backend/pkg/common"
	"github.com/OFFIS-RIT/gift/backend/pkg/graph"
	"github.com/OFFIS-RIT/gift/backend/pkg/poison"
)

// RunStorage defines the interface for persisting and reloading the outputs
// of a pipeline run. The graph stage writes fragments, per-core-entity graph
// data and the failed-queries list; the downstream stages write their result
// maps and the final TXT report. Each stage loads what the previous one
// saved, so a run can resume from any completed stage.
type RunStorage interface {
	SaveGraphStage(
		ctx context.Context,
		fragments []common.Fragment,
		graphData map[string]common.GraphData,
		failed []common.QueryUnit,
	) error
	LoadGraphStage(ctx context.Context) ([]common.Fragment, map[string]common.GraphData, []common.QueryUnit, error)

	SavePoisonTexts(ctx context.Context, results map[string]poison.GeneratorResult) error
	LoadPoisonTexts(ctx context.Context) (map[string]poison.GeneratorResult, error)

	SaveEnhancedTexts(ctx context.Context, results map[string]poison.EnhancementResult) error
	LoadEnhancedTexts(ctx context.Context) (map[string]poison.EnhancementResult, error)

	SaveMergedTexts(ctx context.Context, merged map[string]poison.MergedText, report string) error
	LoadMergedTexts(ctx context.Context) (map[string]poison.MergedText, error)

	SaveStats(ctx context.Context, stats graph.Stats) error
}
