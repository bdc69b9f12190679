package graph

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"github.com/OFFIS-RIT/gift/backend/pkg/ai"
	"github.com/OFFIS-RIT/gift/backend/pkg/common"
	"github.com/OFFIS-RIT/gift/backend/pkg/logger"
)

// FailedQuery records a unit that survived neither the batch call nor the
// single-unit fallback.
type FailedQuery struct {
	Unit   common.QueryUnit
	Reason string
}

// ExtractBatch extracts fragments for a batch of units with one shared
// prompt, then reconciles the response against the inputs: every unit whose
// fragment is missing from the batch result, or present but invalid, goes
// through the full single-unit controller. Units failing the fallback are
// returned as failed. Output order is resolution order.
//
// Only context cancellation aborts the batch; everything else degrades to
// per-unit handling.
func (g *GraphClient) ExtractBatch(ctx context.Context, units []common.QueryUnit) ([]common.Fragment, []FailedQuery, error) {
	if len(units) == 0 {
		return nil, nil, nil
	}

	prompt := buildBatchPrompt(units)

	if tokens, err := g.countTokens(prompt); err == nil && tokens > g.maxBatchTokens && len(units) > 1 {
		logger.Debug("[Batch] Prompt over token budget, splitting",
			"tokens", tokens, "budget", g.maxBatchTokens, "units", len(units))

		half := len(units) / 2
		firstFragments, firstFailed, err := g.ExtractBatch(ctx, units[:half])
		if err != nil {
			return nil, nil, err
		}
		secondFragments, secondFailed, err := g.ExtractBatch(ctx, units[half:])
		if err != nil {
			return nil, nil, err
		}
		return append(firstFragments, secondFragments...),
			append(firstFailed, secondFailed...), nil
	}

	extracted, err := g.callBatch(ctx, prompt)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, nil, err
		}
		logger.Warn("[Batch] Batch extraction failed, falling back per unit",
			"units", len(units), "error", err)
		extracted = nil
	}

	matched := make(map[string]*common.Fragment, len(extracted))
	for i := range extracted {
		key := matchKey(extracted[i].OriginalQuery, extracted[i].OriginalAnswer)
		if _, exists := matched[key]; !exists {
			matched[key] = &extracted[i]
		}
	}

	var fragments []common.Fragment
	var failed []FailedQuery

	for _, unit := range units {
		if fragment, ok := matched[matchKey(unit.Query, unit.Answer)]; ok {
			if ValidateFragment(fragment, unit.Query, unit.Answer) {
				NormalizeFragment(fragment, unit.Query, unit.Answer)
				fragments = append(fragments, *fragment)
				continue
			}
			logger.Debug("[Batch] Batch fragment invalid, falling back", "query", unit.Query)
		}

		fragment, err := g.ExtractUnit(ctx, unit)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, nil, err
			}
			logger.Warn("[Batch] Unit failed extraction", "query", unit.Query, "error", err)
			failed = append(failed, FailedQuery{Unit: unit, Reason: err.Error()})
			continue
		}
		fragments = append(fragments, *fragment)
	}

	return fragments, failed, nil
}

func (g *GraphClient) callBatch(ctx context.Context, prompt string) ([]common.Fragment, error) {
	response, err := g.gateway.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	payload := ai.ExtractFencedPayload(response)

	var fragments []common.Fragment
	if err := ai.UnmarshalFlexible(payload, &fragments); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	return fragments, nil
}

// buildBatchPrompt enumerates the units 1-based inside the batch template.
func buildBatchPrompt(units []common.QueryUnit) string {
	var list strings.Builder
	for i, unit := range units {
		fmt.Fprintf(&list, "%d. Query: \"%s\", Incorrect answer: \"%s\"\n", i+1, unit.Query, unit.Answer)
	}

	return fmt.Sprintf(ai.BatchRelationExtractionPrompt, list.String(), len(units))
}

func (g *GraphClient) countTokens(text string) (int, error) {
	encoding, err := tiktoken.GetEncoding(g.tokenEncoder)
	if err != nil {
		return 0, err
	}
	return len(encoding.Encode(text, nil, nil)), nil
}

func matchKey(query string, answer string) string {
	return query + "\x00" + answer
}
