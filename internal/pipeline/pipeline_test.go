package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/OFFIS-RIT/gift/backend/pkg/ai"
	"github.com/OFFIS-RIT/gift/backend/pkg/common"
	"github.com/OFFIS-RIT/gift/backend/pkg/store/base"
)

const fairBatchResponse = "```json\n" + `[
  {
    "original_query": "Who leads Meta's AI research laboratory FAIR?",
    "original_answer": "YANN LECUN",
    "query_analysis": {
      "core_question_type": "who",
      "expected_answer_type": "person",
      "core_entity": "FAIR"
    },
    "entities": [
      {"name": "FAIR", "type": "organization", "context_role": "AI research laboratory"},
      {"name": "Meta", "type": "organization", "context_role": "parent company"},
      {"name": "research leadership", "type": "role", "context_role": "position in question"}
    ],
    "relations": [
      {"source": "FAIR", "target": "Meta", "relation": "belongs to", "context_intent": "identify parent company", "is_core_answer": false},
      {"source": "Meta", "target": "research leadership", "relation": "appoints", "context_intent": "determine who leads FAIR", "is_core_answer": true, "poison_text": "YANN LECUN"}
    ]
  }
]` + "\n```"

const syntheticResponse = `[
  {"poison_text": "OPENAI", "context_intent": "identify the research partner", "relation": "partners with", "source": "FAIR", "target": "Meta"}
]`

type scriptedClient struct {
	responses []string
	prompts   []string
}

func (c *scriptedClient) GenerateCompletion(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error) {
	idx := len(c.prompts)
	c.prompts = append(c.prompts, prompt)
	if idx < len(c.responses) {
		return c.responses[idx], nil
	}
	return "", errors.New("no scripted response")
}

func (c *scriptedClient) GenerateCompletionWithFormat(ctx context.Context, name string, description string, prompt string, out any, opts ...ai.GenerateOption) error {
	response, err := c.GenerateCompletion(ctx, prompt, opts...)
	if err != nil {
		return err
	}
	return ai.UnmarshalFlexible(response, out)
}

func (c *scriptedClient) LoadModel(ctx context.Context, opts ...ai.GenerateOption) error { return nil }
func (c *scriptedClient) ResetMetrics()                                                 {}
func (c *scriptedClient) GetMetrics() ai.ModelMetrics                                   { return ai.ModelMetrics{} }

func newTestPipeline(t *testing.T, client ai.GraphAIClient) *Pipeline {
	t.Helper()

	storage, err := base.NewRunStorage(base.NewRunStorageParams{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("NewRunStorage() error = %v", err)
	}

	pipeline, err := NewPipeline(NewPipelineParams{
		Gateway:             ai.NewGateway(ai.GatewayParams{Client: client, MaxRetries: 1, RetryDelay: time.Millisecond}),
		Storage:             storage,
		EnhanceBatchSize:    2,
		MinEntitiesRequired: 2,
		ParallelCores:       1,
	})
	if err != nil {
		t.Fatalf("NewPipeline() error = %v", err)
	}
	return pipeline
}

func TestRunAllStages(t *testing.T) {
	client := &scriptedClient{responses: []string{
		fairBatchResponse,
		"generated poison",
		syntheticResponse,
		"pair paragraph",
		"aggregated",
	}}
	pipeline := newTestPipeline(t, client)

	units := []common.QueryUnit{{
		Query:  "Who leads Meta's AI research laboratory FAIR?",
		Answer: "YANN LECUN",
	}}

	var stages []string
	err := pipeline.RunAll(context.Background(), units, func(stage string) error {
		stages = append(stages, stage)
		return nil
	})
	if err != nil {
		t.Fatalf("RunAll() error = %v", err)
	}

	want := []string{StageGraph, StageGenerate, StageEnhance, StageMerge}
	if len(stages) != len(want) {
		t.Fatalf("stages = %v, want %v", stages, want)
	}
	for i := range want {
		if stages[i] != want[i] {
			t.Errorf("stages[%d] = %q, want %q", i, stages[i], want[i])
		}
	}

	merged, err := pipeline.storage.LoadMergedTexts(context.Background())
	if err != nil {
		t.Fatalf("LoadMergedTexts() error = %v", err)
	}
	entry, ok := merged["FAIR"]
	if !ok {
		t.Fatal("expected a merged text for FAIR")
	}
	if entry.FinalPoisonText != "generated poison\n\naggregated" {
		t.Errorf("FinalPoisonText = %q", entry.FinalPoisonText)
	}
}

func TestRunGraphStageReportsBuilder(t *testing.T) {
	client := &scriptedClient{responses: []string{fairBatchResponse}}
	pipeline := newTestPipeline(t, client)

	builder, err := pipeline.RunGraphStage(context.Background(), []common.QueryUnit{{
		Query:  "Who leads Meta's AI research laboratory FAIR?",
		Answer: "YANN LECUN",
	}})
	if err != nil {
		t.Fatalf("RunGraphStage() error = %v", err)
	}

	if got := builder.Stats().TotalCoreEntities; got != 1 {
		t.Errorf("TotalCoreEntities = %d, want 1", got)
	}

	if _, _, _, err := pipeline.storage.LoadGraphStage(context.Background()); err != nil {
		t.Errorf("graph stage outputs not reloadable: %v", err)
	}
}

func TestRunGraphStageRejectsEmptyInput(t *testing.T) {
	pipeline := newTestPipeline(t, &scriptedClient{})
	if _, err := pipeline.RunGraphStage(context.Background(), nil); err == nil {
		t.Error("expected an error for an empty dataset")
	}
}

func TestDownstreamStagesRequirePredecessor(t *testing.T) {
	pipeline := newTestPipeline(t, &scriptedClient{})

	if err := pipeline.RunGenerateStage(context.Background()); err == nil {
		t.Error("generate stage must fail without graph outputs")
	}
	if err := pipeline.RunEnhanceStage(context.Background()); err == nil {
		t.Error("enhance stage must fail without graph outputs")
	}
	if err := pipeline.RunMergeStage(context.Background()); err == nil {
		t.Error("merge stage must fail without upstream texts")
	}
}
