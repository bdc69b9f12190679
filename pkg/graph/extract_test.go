package graph

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/OFFIS-RIT/gift/backend/pkg/ai"
	"github.com/OFFIS-RIT/gift/backend/pkg/common"
)

// fakeAIClient answers each completion call from a script of canned
// responses; requests beyond the script reuse the last entry.
type fakeAIClient struct {
	responses []string
	errs      []error
	prompts   []string
}

func (c *fakeAIClient) GenerateCompletion(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error) {
	idx := len(c.prompts)
	c.prompts = append(c.prompts, prompt)
	if idx < len(c.errs) && c.errs[idx] != nil {
		return "", c.errs[idx]
	}
	if idx >= len(c.responses) {
		idx = len(c.responses) - 1
	}
	if idx < 0 {
		return "", errors.New("no scripted response")
	}
	return c.responses[idx], nil
}

func (c *fakeAIClient) GenerateCompletionWithFormat(ctx context.Context, name string, description string, prompt string, out any, opts ...ai.GenerateOption) error {
	response, err := c.GenerateCompletion(ctx, prompt, opts...)
	if err != nil {
		return err
	}
	return ai.UnmarshalFlexible(response, out)
}

func (c *fakeAIClient) LoadModel(ctx context.Context, opts ...ai.GenerateOption) error { return nil }
func (c *fakeAIClient) ResetMetrics()                                                 {}
func (c *fakeAIClient) GetMetrics() ai.ModelMetrics                                   { return ai.ModelMetrics{} }

func newTestClient(t *testing.T, client ai.GraphAIClient) *GraphClient {
	t.Helper()
	gateway := ai.NewGateway(ai.GatewayParams{
		Client:     client,
		MaxRetries: 1,
		RetryDelay: time.Millisecond,
	})
	return NewGraphClient(NewGraphClientParams{Gateway: gateway, BatchSize: 10})
}

const fairUnitResponse = "```json\n" + `{
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
}` + "\n```"

var fairUnit = common.QueryUnit{
	Query:  "Who leads Meta's AI research laboratory FAIR?",
	Answer: "YANN LECUN",
}

func TestExtractUnitAcceptsValidResponse(t *testing.T) {
	client := &fakeAIClient{responses: []string{fairUnitResponse}}
	g := newTestClient(t, client)

	fragment, err := g.ExtractUnit(context.Background(), fairUnit)
	if err != nil {
		t.Fatalf("ExtractUnit() error = %v", err)
	}
	if fragment.OriginalQuery != fairUnit.Query || fragment.OriginalAnswer != fairUnit.Answer {
		t.Errorf("fragment not tied to input pair: %q / %q", fragment.OriginalQuery, fragment.OriginalAnswer)
	}
	if len(client.prompts) != 1 {
		t.Errorf("call count = %d, want 1", len(client.prompts))
	}
}

func TestExtractUnitGuidedRetryRecovers(t *testing.T) {
	invalid := "```json\n" + `{"query_analysis": {"core_entity": ""}, "entities": [], "relations": []}` + "\n```"
	client := &fakeAIClient{responses: []string{invalid, fairUnitResponse}}
	g := newTestClient(t, client)

	fragment, err := g.ExtractUnit(context.Background(), fairUnit)
	if err != nil {
		t.Fatalf("ExtractUnit() error = %v", err)
	}
	if fragment == nil {
		t.Fatal("expected a fragment from the guided retry")
	}
	if len(client.prompts) != 2 {
		t.Fatalf("call count = %d, want 2", len(client.prompts))
	}
	if !strings.Contains(client.prompts[1], "Issues with previous extraction") {
		t.Error("second prompt must carry the corrective guidance")
	}
	if strings.Contains(client.prompts[0], "Issues with previous extraction") {
		t.Error("first prompt must not carry the corrective guidance")
	}
}

func TestExtractUnitSecondInvalidRejects(t *testing.T) {
	invalid := "```json\n" + `{"query_analysis": {"core_entity": ""}, "entities": [], "relations": []}` + "\n```"
	client := &fakeAIClient{responses: []string{invalid, invalid}}
	g := newTestClient(t, client)

	_, err := g.ExtractUnit(context.Background(), fairUnit)
	if !errors.Is(err, ErrInvalidExtraction) {
		t.Fatalf("expected ErrInvalidExtraction, got %v", err)
	}
	if len(client.prompts) != 2 {
		t.Errorf("call count = %d, want exactly one guided retry", len(client.prompts))
	}
}

func TestExtractUnitMalformedResponseNoRetry(t *testing.T) {
	client := &fakeAIClient{responses: []string{`[[[`}}
	g := newTestClient(t, client)

	_, err := g.ExtractUnit(context.Background(), fairUnit)
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
	if len(client.prompts) != 1 {
		t.Errorf("call count = %d, want 1 (no guided retry after parse failure)", len(client.prompts))
	}
}
