package ai

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/ollama/ollama/api"
)

type scriptedClient struct {
	calls int
	// script holds the error returned per attempt; attempts beyond the
	// script succeed.
	script []error
	reply  string
}

func (c *scriptedClient) GenerateCompletion(ctx context.Context, prompt string, opts ...GenerateOption) (string, error) {
	idx := c.calls
	c.calls++
	if idx < len(c.script) && c.script[idx] != nil {
		return "", c.script[idx]
	}
	return c.reply, nil
}

func (c *scriptedClient) GenerateCompletionWithFormat(ctx context.Context, name string, description string, prompt string, out any, opts ...GenerateOption) error {
	idx := c.calls
	c.calls++
	if idx < len(c.script) && c.script[idx] != nil {
		return c.script[idx]
	}
	return UnmarshalFlexible(c.reply, out)
}

func (c *scriptedClient) LoadModel(ctx context.Context, opts ...GenerateOption) error { return nil }
func (c *scriptedClient) ResetMetrics()                                              {}
func (c *scriptedClient) GetMetrics() ModelMetrics                                   { return ModelMetrics{} }

func newTestGateway(client GraphAIClient) *Gateway {
	return NewGateway(GatewayParams{
		Client:     client,
		MaxRetries: 3,
		RetryDelay: time.Millisecond,
	})
}

func TestGatewayComplete_SuccessFirstAttempt(t *testing.T) {
	client := &scriptedClient{reply: "hello"}
	gateway := newTestGateway(client)

	got, err := gateway.Complete(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got != "hello" {
		t.Fatalf("Complete() = %q, want %q", got, "hello")
	}
	if client.calls != 1 {
		t.Fatalf("expected 1 call, got %d", client.calls)
	}
}

func TestGatewayComplete_RecoversAfterTransientError(t *testing.T) {
	client := &scriptedClient{
		script: []error{errors.New("transient")},
		reply:  "recovered",
	}
	gateway := newTestGateway(client)

	got, err := gateway.Complete(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got != "recovered" {
		t.Fatalf("Complete() = %q, want %q", got, "recovered")
	}
	if client.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", client.calls)
	}
}

func TestGatewayComplete_ExhaustionReturnsServiceUnavailable(t *testing.T) {
	failure := errors.New("boom")
	client := &scriptedClient{script: []error{failure, failure, failure}}
	gateway := newTestGateway(client)

	_, err := gateway.Complete(context.Background(), "prompt")
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable, got %v", err)
	}
	if !errors.Is(err, failure) {
		t.Fatalf("expected the last underlying error in the chain, got %v", err)
	}
	if client.calls != 3 {
		t.Fatalf("expected 3 calls, got %d", client.calls)
	}
}

func TestGatewayComplete_RateLimitRetriedWithinBudget(t *testing.T) {
	rateLimit := api.StatusError{
		StatusCode: http.StatusTooManyRequests,
		Status:     "429 Too Many Requests",
	}
	client := &scriptedClient{
		script: []error{rateLimit, rateLimit},
		reply:  "after backoff",
	}
	gateway := newTestGateway(client)

	got, err := gateway.Complete(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got != "after backoff" {
		t.Fatalf("Complete() = %q, want %q", got, "after backoff")
	}
	if client.calls != 3 {
		t.Fatalf("expected 3 calls, got %d", client.calls)
	}
}

func TestGatewayComplete_RateLimitStillBounded(t *testing.T) {
	rateLimit := api.StatusError{
		StatusCode: http.StatusTooManyRequests,
		Status:     "429 Too Many Requests",
	}
	client := &scriptedClient{script: []error{rateLimit, rateLimit, rateLimit, rateLimit}}
	gateway := newTestGateway(client)

	_, err := gateway.Complete(context.Background(), "prompt")
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable, got %v", err)
	}
	if client.calls != 3 {
		t.Fatalf("expected 3 calls, got %d", client.calls)
	}
}

func TestGatewayComplete_LinearBackoff(t *testing.T) {
	failure := errors.New("boom")
	client := &scriptedClient{
		script: []error{failure, failure},
		reply:  "done",
	}
	gateway := NewGateway(GatewayParams{
		Client:     client,
		MaxRetries: 3,
		RetryDelay: 10 * time.Millisecond,
	})

	start := time.Now()
	if _, err := gateway.Complete(context.Background(), "prompt"); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	// Delays of 10ms and 20ms precede attempts two and three.
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Fatalf("expected at least 30ms of backoff, got %v", elapsed)
	}
}

func TestGatewayComplete_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := &scriptedClient{reply: "never"}
	gateway := newTestGateway(client)

	_, err := gateway.Complete(ctx, "prompt")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if client.calls != 0 {
		t.Fatalf("expected 0 calls, got %d", client.calls)
	}
}

func TestGatewayComplete_ContextErrorFromClientNotRetried(t *testing.T) {
	client := &scriptedClient{script: []error{context.DeadlineExceeded}}
	gateway := newTestGateway(client)

	_, err := gateway.Complete(context.Background(), "prompt")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context.DeadlineExceeded, got %v", err)
	}
	if errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("context errors must not be wrapped as service unavailable, got %v", err)
	}
	if client.calls != 1 {
		t.Fatalf("expected 1 call, got %d", client.calls)
	}
}

func TestGatewayCompleteWithFormat_RetriesAndParses(t *testing.T) {
	client := &scriptedClient{
		script: []error{errors.New("malformed response")},
		reply:  `{"value": 7}`,
	}
	gateway := newTestGateway(client)

	var out struct {
		Value int `json:"value"`
	}
	err := gateway.CompleteWithFormat(context.Background(), "counter", "a counter", "prompt", &out)
	if err != nil {
		t.Fatalf("CompleteWithFormat() error = %v", err)
	}
	if out.Value != 7 {
		t.Fatalf("out.Value = %d, want 7", out.Value)
	}
	if client.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", client.calls)
	}
}
