package poison

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/OFFIS-RIT/gift/backend/pkg/ai"
	"github.com/OFFIS-RIT/gift/backend/pkg/common"
	"github.com/OFFIS-RIT/gift/backend/pkg/graph"
	"github.com/OFFIS-RIT/gift/backend/pkg/logger"
)

// PairEntity is the slim projection of a poisoned-edge record stored with
// each enhancement text.
type PairEntity struct {
	PoisonText    string `json:"poison_text"`
	ContextIntent string `json:"context_intent"`
	IsSynthetic   bool   `json:"is_synthetic"`
}

// EnhancementText is one generated cross-reference paragraph with the pair
// it links.
type EnhancementText struct {
	Entity1         PairEntity `json:"entity1"`
	Entity2         PairEntity `json:"entity2"`
	EnhancementText string     `json:"enhancement_text"`
}

// EnhancementResult is the per-core-entity outcome of the enhancement stage.
type EnhancementResult struct {
	CoreEntity             string            `json:"core_entity"`
	OriginalEntitiesCount  int               `json:"original_entities_count"`
	SyntheticEntitiesCount int               `json:"synthetic_entities_count"`
	EnhancementTexts       []EnhancementText `json:"enhancement_texts"`
	AggregatedText         string            `json:"aggregated_text"`
}

// Enhancer densifies the poisoned subgraphs: it pairs up poisoned-edge
// records (padding undersized sets with synthesized ones), generates one
// cross-reference paragraph per pair, and aggregates the paragraphs into a
// single text per core entity.
//
// An Enhancer should be created using NewEnhancer.
type Enhancer struct {
	gateway             *ai.Gateway
	batchSize           int
	minEntitiesRequired int
	parallelCores       int
}

// NewEnhancerParams defines the configuration parameters for creating a
// new Enhancer.
//
// BatchSize controls how many original poisoned records share one pairing
// round. MinEntitiesRequired is the floor below which synthetics pad a
// round. ParallelCores controls how many core entities are processed
// concurrently.
type NewEnhancerParams struct {
	Gateway             *ai.Gateway
	BatchSize           int
	MinEntitiesRequired int
	ParallelCores       int
}

// NewEnhancer creates an Enhancer. BatchSize defaults to 1,
// MinEntitiesRequired to 6 and ParallelCores to 4.
func NewEnhancer(params NewEnhancerParams) *Enhancer {
	batchSize := params.BatchSize
	if batchSize <= 0 {
		batchSize = 1
	}

	minEntitiesRequired := params.MinEntitiesRequired
	if minEntitiesRequired <= 0 {
		minEntitiesRequired = 6
	}

	parallelCores := params.ParallelCores
	if parallelCores <= 0 {
		parallelCores = 4
	}

	return &Enhancer{
		gateway:             params.Gateway,
		batchSize:           batchSize,
		minEntitiesRequired: minEntitiesRequired,
		parallelCores:       parallelCores,
	}
}

// Run enhances every core entity in the persisted graph data. Cores run in
// parallel; individual pair failures drop that pair's paragraph, and a
// failed aggregation call falls back to joining the paragraphs directly.
func (e *Enhancer) Run(ctx context.Context, graphData map[string]common.GraphData) (map[string]EnhancementResult, error) {
	results := make(map[string]EnhancementResult, len(graphData))

	eg, gCtx := errgroup.WithContext(ctx)
	eg.SetLimit(e.parallelCores)
	mutex := sync.Mutex{}

	logger.Info("[Poison] Enhancing poison texts", "core_entities", len(graphData))

	for core, data := range graphData {
		eg.Go(func() error {
			result, err := e.processCore(gCtx, core, data)
			if err != nil {
				return err
			}

			mutex.Lock()
			defer mutex.Unlock()
			results[core] = result

			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("failed to enhance poison texts:\n%w", err)
	}

	logger.Info("[Poison] Enhancement completed", "core_entities", len(results))

	return results, nil
}

func (e *Enhancer) processCore(ctx context.Context, core string, data common.GraphData) (EnhancementResult, error) {
	result := EnhancementResult{CoreEntity: core}

	coreType, coreRole := coreEntityInfo(data)
	originals := poisonEntities(data)
	result.OriginalEntitiesCount = len(originals)

	if len(originals) == 0 {
		logger.Warn("[Poison] No poisoned edges to enhance", "core_entity", core)
		return result, nil
	}

	for start := 0; start < len(originals); start += e.batchSize {
		end := min(start+e.batchSize, len(originals))
		batch := originals[start:end]

		synthesize := func(existing []graph.PoisonEdge, count int) []graph.PoisonEdge {
			// The style template comes from the full original set, not
			// just this round's batch.
			synthetics := e.synthesizeEntities(ctx, core, originals, count)
			result.SyntheticEntitiesCount += len(synthetics)
			return synthetics
		}

		pairs := graph.ComposePairs(batch, e.minEntitiesRequired, synthesize)

		logger.Info("[Poison] Pairing round",
			"core_entity", core, "originals", len(batch), "pairs", len(pairs))

		for _, pair := range pairs {
			text, err := e.enhancePair(ctx, core, coreType, coreRole, pair)
			if err != nil {
				if ctx.Err() != nil {
					return EnhancementResult{}, ctx.Err()
				}
				logger.Warn("[Poison] Pair enhancement failed", "core_entity", core, "error", err)
				continue
			}
			if text == "" {
				continue
			}

			result.EnhancementTexts = append(result.EnhancementTexts, EnhancementText{
				Entity1: PairEntity{
					PoisonText:    pair.First.PoisonText,
					ContextIntent: pair.First.ContextIntent,
					IsSynthetic:   pair.First.IsSynthetic,
				},
				Entity2: PairEntity{
					PoisonText:    pair.Second.PoisonText,
					ContextIntent: pair.Second.ContextIntent,
					IsSynthetic:   pair.Second.IsSynthetic,
				},
				EnhancementText: text,
			})
		}
	}

	if len(result.EnhancementTexts) > 0 {
		aggregated, err := e.aggregate(ctx, core, result.EnhancementTexts)
		if err != nil {
			if ctx.Err() != nil {
				return EnhancementResult{}, ctx.Err()
			}
			logger.Warn("[Poison] Aggregation call failed, joining texts directly",
				"core_entity", core, "error", err)
			aggregated = joinEnhancementTexts(result.EnhancementTexts)
		}
		result.AggregatedText = aggregated
	}

	return result, nil
}

// synthesizeEntities asks the model, through a schema-constrained call, for
// count synthetic poison records styled after a random original. Any failure
// degrades to zero synthetics.
func (e *Enhancer) synthesizeEntities(ctx context.Context, core string, originals []graph.PoisonEdge, count int) []graph.PoisonEdge {
	if len(originals) == 0 || count <= 0 {
		return nil
	}

	template := originals[rand.Intn(len(originals))]

	prompt := fmt.Sprintf(ai.SyntheticEntitiesPrompt,
		count,
		template.PoisonText,
		template.ContextIntent,
		template.Relation,
		template.Source,
		template.Target,
		count,
		core,
	)

	var synthetics []graph.PoisonEdge
	if err := e.gateway.CompleteWithFormat(
		ctx,
		"synthetic_entities",
		"Synthetic poison records styled after an existing one",
		prompt,
		&synthetics,
	); err != nil {
		logger.Warn("[Poison] Synthetic entity generation failed", "core_entity", core, "error", err)
		return nil
	}

	for i := range synthetics {
		synthetics[i].IsSynthetic = true
	}

	logger.Info("[Poison] Synthesized poison entities", "core_entity", core, "count", len(synthetics))

	return synthetics
}

func (e *Enhancer) enhancePair(ctx context.Context, core string, coreType string, coreRole string, pair graph.Pair) (string, error) {
	prompt := fmt.Sprintf(ai.PairEnhancementPrompt,
		core,
		coreType,
		coreRole,
		pair.First.ContextIntent,
		pair.First.PoisonText,
		pair.Second.ContextIntent,
		pair.Second.PoisonText,
		pair.First.PoisonText,
		pair.Second.PoisonText,
	)

	response, err := e.gateway.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(ai.StripWrappingQuotes(response)), nil
}

func (e *Enhancer) aggregate(ctx context.Context, core string, texts []EnhancementText) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, ai.AggregationPromptHeader, core)
	for i, item := range texts {
		fmt.Fprintf(&b, "\nParagraph %d: %s", i+1, item.EnhancementText)
	}
	b.WriteString(ai.AggregationPromptFooter)

	response, err := e.gateway.Complete(ctx, b.String())
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(response), nil
}

func joinEnhancementTexts(texts []EnhancementText) string {
	parts := make([]string, 0, len(texts))
	for _, item := range texts {
		parts = append(parts, item.EnhancementText)
	}
	return strings.Join(parts, "\n\n")
}

// coreEntityInfo returns the type and context role of the first node that
// carries both; "Unknown" stands in when no node does.
func coreEntityInfo(data common.GraphData) (string, string) {
	for _, node := range data.Nodes {
		if node.Type != "" && node.ContextRole != "" {
			return node.Type, node.ContextRole
		}
	}
	return "Unknown", "Unknown"
}

// poisonEntities collects the poisoned-edge records of a subgraph, in edge
// order. Edges whose poison text is only whitespace do not count.
func poisonEntities(data common.GraphData) []graph.PoisonEdge {
	var entities []graph.PoisonEdge
	for _, edge := range data.Edges {
		if strings.TrimSpace(edge.PoisonText) == "" {
			continue
		}
		entities = append(entities, graph.PoisonEdge{
			PoisonText:    edge.PoisonText,
			ContextIntent: edge.ContextIntent,
			Relation:      edge.Relation,
			Source:        edge.Source,
			Target:        edge.Target,
		})
	}
	return entities
}
