package graph

import (
	"context"
	"testing"

	"github.com/OFFIS-RIT/gift/backend/pkg/common"
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

func TestExtractBatchPartialResponseFallsBack(t *testing.T) {
	// The batch response covers only the first unit; the second resolves
	// through the single-unit fallback.
	secondResponse := "```json\n" + `{
  "query_analysis": {"core_question_type": "which", "expected_answer_type": "organization", "core_entity": "Linux"},
  "entities": [
    {"name": "Linux", "type": "technology", "context_role": "operating system"},
    {"name": "kernel maintainer", "type": "role", "context_role": "subject"}
  ],
  "relations": [
    {"source": "Linux", "target": "kernel maintainer", "relation": "maintained by", "context_intent": "identify the maintainer", "is_core_answer": true, "poison_text": "MICROSOFT"}
  ]
}` + "\n```"

	client := &fakeAIClient{responses: []string{fairBatchResponse, secondResponse}}
	g := newTestClient(t, client)

	units := []common.QueryUnit{
		{Query: fairUnit.Query, Answer: fairUnit.Answer},
		{Query: "Which company maintains the Linux kernel?", Answer: "MICROSOFT"},
	}

	fragments, failed, err := g.ExtractBatch(context.Background(), units)
	if err != nil {
		t.Fatalf("ExtractBatch() error = %v", err)
	}
	if len(failed) != 0 {
		t.Fatalf("failed = %+v, want none", failed)
	}
	if len(fragments) != 2 {
		t.Fatalf("fragment count = %d, want 2", len(fragments))
	}
	if fragments[0].QueryAnalysis.CoreEntity != "FAIR" {
		t.Errorf("first fragment core entity = %q", fragments[0].QueryAnalysis.CoreEntity)
	}
	if fragments[1].QueryAnalysis.CoreEntity != "Linux" {
		t.Errorf("second fragment core entity = %q", fragments[1].QueryAnalysis.CoreEntity)
	}
	if len(client.prompts) != 2 {
		t.Errorf("call count = %d, want batch call + one fallback", len(client.prompts))
	}
}

func TestExtractBatchBrokenFallbackRecordsFailure(t *testing.T) {
	client := &fakeAIClient{responses: []string{"no json here", "still no json"}}
	g := newTestClient(t, client)

	units := []common.QueryUnit{{Query: "q", Answer: "a"}}

	fragments, failed, err := g.ExtractBatch(context.Background(), units)
	if err != nil {
		t.Fatalf("ExtractBatch() error = %v", err)
	}
	if len(fragments) != 0 {
		t.Errorf("fragments = %+v, want none", fragments)
	}
	if len(failed) != 1 || failed[0].Unit.Query != "q" {
		t.Fatalf("failed = %+v, want the unit", failed)
	}
	if failed[0].Reason == "" {
		t.Error("expected a failure reason")
	}
}

func TestProcessQueriesEndToEnd(t *testing.T) {
	client := &fakeAIClient{responses: []string{fairBatchResponse}}
	g := newTestClient(t, client)
	builder := NewBuilder()

	var lastProcessed, lastFailed int
	err := g.ProcessQueries(context.Background(), []common.QueryUnit{fairUnit}, builder, func(processed, failed int) {
		lastProcessed, lastFailed = processed, failed
	})
	if err != nil {
		t.Fatalf("ProcessQueries() error = %v", err)
	}

	if lastProcessed != 1 || lastFailed != 0 {
		t.Errorf("progress = (%d, %d), want (1, 0)", lastProcessed, lastFailed)
	}

	graph, ok := builder.Graph("FAIR")
	if !ok {
		t.Fatal("expected a graph for core entity FAIR")
	}
	if graph.NodeCount() != 3 {
		t.Errorf("node count = %d, want 3", graph.NodeCount())
	}
	if graph.EdgeCount() != 2 {
		t.Errorf("edge count = %d, want 2", graph.EdgeCount())
	}

	poisoned := graph.PoisonEdges()
	if len(poisoned) != 1 {
		t.Fatalf("poison edge count = %d, want 1", len(poisoned))
	}
	if poisoned[0].PoisonText != "YANN LECUN" {
		t.Errorf("poison text = %q, want %q", poisoned[0].PoisonText, "YANN LECUN")
	}
}
