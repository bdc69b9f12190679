package pipeline

import (
	"context"
	"fmt"

	"github.com/OFFIS-RIT/gift/backend/pkg/ai"
	"github.com/OFFIS-RIT/gift/backend/pkg/common"
	"github.com/OFFIS-RIT/gift/backend/pkg/graph"
	"github.com/OFFIS-RIT/gift/backend/pkg/logger"
	"github.com/OFFIS-RIT/gift/backend/pkg/poison"
	"github.com/OFFIS-RIT/gift/backend/pkg/store"
)

// Stage names, persisted on the run row and used by the CLI commands.
const (
	StageGraph    = "graph"
	StageGenerate = "generate"
	StageEnhance  = "enhance"
	StageMerge    = "merge"
)

// Pipeline drives the four stages over one run. Each stage reads the
// outputs of the previous one from storage, so a pipeline can resume at
// any stage boundary.
//
// A Pipeline should be created using NewPipeline.
type Pipeline struct {
	graphClient *graph.GraphClient
	generator   *poison.Generator
	enhancer    *poison.Enhancer
	storage     store.RunStorage

	onGraphProgress func(processed, failed int)
}

// NewPipelineParams defines the configuration parameters for creating a new
// Pipeline. Gateway and Storage are required; the remaining knobs default
// inside the stage constructors when left zero.
type NewPipelineParams struct {
	Gateway *ai.Gateway
	Storage store.RunStorage

	BatchSize      int
	MaxBatchTokens int
	TokenEncoder   string

	MaxPoisonWords      int
	EnhanceBatchSize    int
	MinEntitiesRequired int
	ParallelCores       int

	// OnGraphProgress is called after every extraction batch with the
	// cumulative processed and failed counts.
	OnGraphProgress func(processed, failed int)
}

func NewPipeline(params NewPipelineParams) (*Pipeline, error) {
	if params.Gateway == nil {
		return nil, fmt.Errorf("pipeline requires a gateway")
	}
	if params.Storage == nil {
		return nil, fmt.Errorf("pipeline requires run storage")
	}

	graphClient := graph.NewGraphClient(graph.NewGraphClientParams{
		Gateway:        params.Gateway,
		TokenEncoder:   params.TokenEncoder,
		BatchSize:      params.BatchSize,
		MaxBatchTokens: params.MaxBatchTokens,
	})

	generator := poison.NewGenerator(poison.NewGeneratorParams{
		Gateway:        params.Gateway,
		MaxPoisonWords: params.MaxPoisonWords,
		ParallelCores:  params.ParallelCores,
	})
	enhancer := poison.NewEnhancer(poison.NewEnhancerParams{
		Gateway:             params.Gateway,
		BatchSize:           params.EnhanceBatchSize,
		MinEntitiesRequired: params.MinEntitiesRequired,
		ParallelCores:       params.ParallelCores,
	})

	return &Pipeline{
		graphClient:     graphClient,
		generator:       generator,
		enhancer:        enhancer,
		storage:         params.Storage,
		onGraphProgress: params.OnGraphProgress,
	}, nil
}

// RunGraphStage extracts fragments from the query units, merges them into
// per-core-entity graphs and persists fragments, graph data, failed queries
// and statistics. The returned builder gives callers access to the failed
// queries for bookkeeping.
func (p *Pipeline) RunGraphStage(ctx context.Context, units []common.QueryUnit) (*graph.Builder, error) {
	if len(units) == 0 {
		return nil, fmt.Errorf("graph stage received no query units")
	}

	builder := graph.NewBuilder()
	if err := p.graphClient.ProcessQueries(ctx, units, builder, p.onGraphProgress); err != nil {
		return nil, fmt.Errorf("graph stage failed: %w", err)
	}

	if err := p.storage.SaveGraphStage(ctx, builder.Fragments(), builder.GraphData(), builder.FailedQueries()); err != nil {
		return nil, fmt.Errorf("failed to persist graph stage outputs: %w", err)
	}
	if err := p.storage.SaveStats(ctx, builder.Stats()); err != nil {
		logger.Warn("[Pipeline] Failed to persist graph statistics", "err", err)
	}

	stats := builder.Stats()
	logger.Info(
		"[Pipeline] Graph stage completed",
		"core_entities", stats.TotalCoreEntities,
		"processed", stats.TotalProcessedQueries,
		"failed", stats.FailedQueries,
	)

	return builder, nil
}

// RunGenerateStage turns every persisted core-entity graph into poison
// text via path enumeration and one generation call per path.
func (p *Pipeline) RunGenerateStage(ctx context.Context) error {
	_, graphData, _, err := p.storage.LoadGraphStage(ctx)
	if err != nil {
		return fmt.Errorf("generate stage requires the graph stage outputs: %w", err)
	}

	results, err := p.generator.Run(ctx, graphData)
	if err != nil {
		return fmt.Errorf("generate stage failed: %w", err)
	}

	if err := p.storage.SavePoisonTexts(ctx, results); err != nil {
		return fmt.Errorf("failed to persist poison texts: %w", err)
	}

	logger.Info("[Pipeline] Generate stage completed", "core_entities", len(results))
	return nil
}

// RunEnhanceStage composes poisoned-edge pairs per core entity and writes
// the cross-reference enhancement texts.
func (p *Pipeline) RunEnhanceStage(ctx context.Context) error {
	_, graphData, _, err := p.storage.LoadGraphStage(ctx)
	if err != nil {
		return fmt.Errorf("enhance stage requires the graph stage outputs: %w", err)
	}

	results, err := p.enhancer.Run(ctx, graphData)
	if err != nil {
		return fmt.Errorf("enhance stage failed: %w", err)
	}

	if err := p.storage.SaveEnhancedTexts(ctx, results); err != nil {
		return fmt.Errorf("failed to persist enhanced texts: %w", err)
	}

	logger.Info("[Pipeline] Enhance stage completed", "core_entities", len(results))
	return nil
}

// RunMergeStage combines generator and enhancer outputs into the final
// per-theme texts and the TXT report.
func (p *Pipeline) RunMergeStage(ctx context.Context) error {
	generated, err := p.storage.LoadPoisonTexts(ctx)
	if err != nil {
		return fmt.Errorf("merge stage requires the generated poison texts: %w", err)
	}
	enhanced, err := p.storage.LoadEnhancedTexts(ctx)
	if err != nil {
		return fmt.Errorf("merge stage requires the enhanced poison texts: %w", err)
	}

	merged, report := poison.MergeTexts(generated, enhanced)
	if err := p.storage.SaveMergedTexts(ctx, merged, report); err != nil {
		return fmt.Errorf("failed to persist merged texts: %w", err)
	}

	logger.Info("[Pipeline] Merge stage completed", "themes", len(merged))
	return nil
}

// RunAll executes every stage in order. OnStage, when set, is called with
// the stage name before the stage starts.
func (p *Pipeline) RunAll(ctx context.Context, units []common.QueryUnit, onStage func(stage string) error) error {
	notify := func(stage string) error {
		if onStage == nil {
			return nil
		}
		return onStage(stage)
	}

	if err := notify(StageGraph); err != nil {
		return err
	}
	if _, err := p.RunGraphStage(ctx, units); err != nil {
		return err
	}

	if err := notify(StageGenerate); err != nil {
		return err
	}
	if err := p.RunGenerateStage(ctx); err != nil {
		return err
	}

	if err := notify(StageEnhance); err != nil {
		return err
	}
	if err := p.RunEnhanceStage(ctx); err != nil {
		return err
	}

	if err := notify(StageMerge); err != nil {
		return err
	}
	return p.RunMergeStage(ctx)
}
