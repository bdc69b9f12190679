package poison

import (
	"context"
	"errors"
	"testing"

	"github.com/OFFIS-RIT/gift/backend/pkg/common"
)

func twoPoisonEdgeData() common.GraphData {
	data := fairGraphData()
	data.Edges = append(data.Edges, common.Edge{
		Source:        "FAIR",
		Target:        "Meta",
		Relation:      "funded by",
		ContextIntent: "identify the funding source",
		PoisonText:    "DARPA",
	})
	return data
}

func TestEnhancerPairsOriginalsWithoutSynthetics(t *testing.T) {
	client := &scriptedClient{responses: []string{"cross reference paragraph", "aggregated document"}}
	enhancer := NewEnhancer(NewEnhancerParams{
		Gateway:             newTestGateway(client),
		BatchSize:           2,
		MinEntitiesRequired: 2,
		ParallelCores:       1,
	})

	results, err := enhancer.Run(context.Background(), map[string]common.GraphData{"FAIR": twoPoisonEdgeData()})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	result := results["FAIR"]
	if result.OriginalEntitiesCount != 2 {
		t.Errorf("OriginalEntitiesCount = %d, want 2", result.OriginalEntitiesCount)
	}
	if result.SyntheticEntitiesCount != 0 {
		t.Errorf("SyntheticEntitiesCount = %d, want 0", result.SyntheticEntitiesCount)
	}
	if len(result.EnhancementTexts) != 1 {
		t.Fatalf("EnhancementTexts = %d, want the single original pair", len(result.EnhancementTexts))
	}
	entry := result.EnhancementTexts[0]
	if entry.Entity1.PoisonText != "YANN LECUN" || entry.Entity2.PoisonText != "DARPA" {
		t.Errorf("pair = (%q, %q)", entry.Entity1.PoisonText, entry.Entity2.PoisonText)
	}
	if entry.EnhancementText != "cross reference paragraph" {
		t.Errorf("EnhancementText = %q", entry.EnhancementText)
	}
	if result.AggregatedText != "aggregated document" {
		t.Errorf("AggregatedText = %q", result.AggregatedText)
	}
}

func TestEnhancerSynthesizesWhenUndersized(t *testing.T) {
	syntheticResponse := `[
  {"poison_text": "OPENAI", "context_intent": "identify the research partner", "relation": "partners with", "source": "FAIR", "target": "Meta"}
]`

	client := &scriptedClient{responses: []string{syntheticResponse, "pair paragraph", "aggregated"}}
	enhancer := NewEnhancer(NewEnhancerParams{
		Gateway:             newTestGateway(client),
		BatchSize:           1,
		MinEntitiesRequired: 2,
		ParallelCores:       1,
	})

	results, err := enhancer.Run(context.Background(), map[string]common.GraphData{"FAIR": fairGraphData()})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	result := results["FAIR"]
	if result.SyntheticEntitiesCount != 1 {
		t.Errorf("SyntheticEntitiesCount = %d, want 1", result.SyntheticEntitiesCount)
	}
	if len(client.formatNames) != 1 || client.formatNames[0] != "synthetic_entities" {
		t.Errorf("format calls = %v, want the single schema-constrained synthesis call", client.formatNames)
	}
	if len(result.EnhancementTexts) != 1 {
		t.Fatalf("EnhancementTexts = %d, want the original x synthetic pair", len(result.EnhancementTexts))
	}
	entry := result.EnhancementTexts[0]
	if entry.Entity1.IsSynthetic {
		t.Error("first pair member must be the original")
	}
	if !entry.Entity2.IsSynthetic || entry.Entity2.PoisonText != "OPENAI" {
		t.Errorf("second pair member = %+v, want the synthetic", entry.Entity2)
	}
}

func TestEnhancerSynthesisFailureDegrades(t *testing.T) {
	client := &scriptedClient{responses: []string{"not parsable at all ["}}
	enhancer := NewEnhancer(NewEnhancerParams{
		Gateway:             newTestGateway(client),
		BatchSize:           1,
		MinEntitiesRequired: 2,
		ParallelCores:       1,
	})

	results, err := enhancer.Run(context.Background(), map[string]common.GraphData{"FAIR": fairGraphData()})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	result := results["FAIR"]
	if result.SyntheticEntitiesCount != 0 {
		t.Errorf("SyntheticEntitiesCount = %d, want 0 after parse failure", result.SyntheticEntitiesCount)
	}
	if len(result.EnhancementTexts) != 0 {
		t.Errorf("EnhancementTexts = %+v, want none (single original cannot pair)", result.EnhancementTexts)
	}
	if result.AggregatedText != "" {
		t.Errorf("AggregatedText = %q, want empty", result.AggregatedText)
	}
}

func TestEnhancerAggregationFallbackJoins(t *testing.T) {
	client := &scriptedClient{
		responses: []string{"first paragraph", ""},
		errs:      []error{nil, errors.New("aggregation down")},
	}
	enhancer := NewEnhancer(NewEnhancerParams{
		Gateway:             newTestGateway(client),
		BatchSize:           2,
		MinEntitiesRequired: 2,
		ParallelCores:       1,
	})

	results, err := enhancer.Run(context.Background(), map[string]common.GraphData{"FAIR": twoPoisonEdgeData()})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	result := results["FAIR"]
	if result.AggregatedText != "first paragraph" {
		t.Errorf("AggregatedText = %q, want the joined paragraphs", result.AggregatedText)
	}
}

func TestEnhancerNoPoisonEdges(t *testing.T) {
	client := &scriptedClient{}
	enhancer := NewEnhancer(NewEnhancerParams{Gateway: newTestGateway(client), ParallelCores: 1})

	data := common.GraphData{Nodes: []common.Node{{ID: "A", Type: "x", ContextRole: "y"}}}
	results, err := enhancer.Run(context.Background(), map[string]common.GraphData{"A": data})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	result := results["A"]
	if result.OriginalEntitiesCount != 0 || len(result.EnhancementTexts) != 0 || result.AggregatedText != "" {
		t.Errorf("result = %+v, want empty", result)
	}
	if len(client.prompts) != 0 {
		t.Errorf("call count = %d, want no model calls", len(client.prompts))
	}
}
