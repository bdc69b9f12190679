package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ollama/ollama/api"
	"github.com/openai/openai-go/v3"

	"github.com/OFFIS-RIT/gift/backend/internal/util"
	"github.com/OFFIS-RIT/gift/backend/pkg/logger"
)

// ErrServiceUnavailable is returned when a request still fails after the
// gateway's full retry budget. Callers record the unit as failed and move on;
// this error never aborts a run.
var ErrServiceUnavailable = errors.New("text service unavailable")

const (
	defaultMaxRetries = 3
	defaultRetryDelay = 2 * time.Second
)

// Gateway wraps a GraphAIClient with the retry policy every pipeline stage
// shares: linear backoff, rate limits always retried, context cancellation
// honored immediately. It is the only way pipeline code talks to the model.
type Gateway struct {
	client     GraphAIClient
	maxRetries int
	retryDelay time.Duration
}

// GatewayParams contains configuration for creating a Gateway.
type GatewayParams struct {
	Client     GraphAIClient
	MaxRetries int
	RetryDelay time.Duration
}

// NewGateway creates a Gateway. MaxRetries defaults to 3 and RetryDelay to 2s
// when unset.
func NewGateway(params GatewayParams) *Gateway {
	maxRetries := params.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	retryDelay := params.RetryDelay
	if retryDelay <= 0 {
		retryDelay = defaultRetryDelay
	}

	return &Gateway{
		client:     params.Client,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
	}
}

// Client exposes the wrapped client for metrics access.
func (g *Gateway) Client() GraphAIClient {
	return g.client
}

// Complete requests a free-text completion, retrying per the gateway policy.
func (g *Gateway) Complete(ctx context.Context, prompt string, opts ...GenerateOption) (string, error) {
	var response string
	err := g.do(ctx, func(ctx context.Context) error {
		var err error
		response, err = g.client.GenerateCompletion(ctx, prompt, opts...)
		return err
	})
	if err != nil {
		return "", err
	}
	return response, nil
}

// CompleteWithFormat requests a schema-constrained completion and unmarshals
// the response into out, retrying per the gateway policy. A response that
// cannot be parsed counts as a failed attempt.
func (g *Gateway) CompleteWithFormat(ctx context.Context, name string, description string, prompt string, out any, opts ...GenerateOption) error {
	return g.do(ctx, func(ctx context.Context) error {
		return g.client.GenerateCompletionWithFormat(ctx, name, description, prompt, out, opts...)
	})
}

// do runs one request through the retry schedule. The delay before attempt
// n+1 is retryDelay*n. Rate-limited attempts always sleep and retry; other
// errors only sleep when attempts remain. Context errors end the loop
// immediately and are returned as-is.
func (g *Gateway) do(ctx context.Context, fn func(context.Context) error) error {
	var lastErr error

	for attempt := 1; attempt <= g.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		lastErr = err
		delay := g.retryDelay * time.Duration(attempt)

		if isRateLimited(err) {
			logger.Warn("[Gateway] Rate limit reached, backing off",
				"attempt", attempt, "delay", delay.String())
			if err := util.SleepWithContext(ctx, delay); err != nil {
				return err
			}
			continue
		}

		logger.Warn("[Gateway] Request failed",
			"attempt", attempt, "max_retries", g.maxRetries, "error", err)
		if attempt < g.maxRetries {
			if err := util.SleepWithContext(ctx, delay); err != nil {
				return err
			}
		}
	}

	return fmt.Errorf("%w after %d attempts: %w", ErrServiceUnavailable, g.maxRetries, lastErr)
}

// isRateLimited reports whether err is an HTTP 429 from either provider SDK.
func isRateLimited(err error) bool {
	var openaiErr *openai.Error
	if errors.As(err, &openaiErr) {
		return openaiErr.StatusCode == http.StatusTooManyRequests
	}

	var ollamaErr api.StatusError
	if errors.As(err, &ollamaErr) {
		return ollamaErr.StatusCode == http.StatusTooManyRequests
	}

	return false
}
