package graph

import (
	"context"
	"errors"
	"fmt"

	"github.com/OFFIS-RIT/gift/backend/pkg/ai"
	"github.com/OFFIS-RIT/gift/backend/pkg/common"
	"github.com/OFFIS-RIT/gift/backend/pkg/logger"
)

// ErrInvalidExtraction is returned when a unit's extraction stays
// structurally invalid after the guided retry.
var ErrInvalidExtraction = errors.New("extraction result invalid")

// ErrMalformedResponse is returned when a model response cannot be parsed
// into a fragment at all.
var ErrMalformedResponse = errors.New("malformed extraction response")

// ExtractUnit runs the single-unit extraction state machine for one
// query/answer pair: one gateway call, fence parse, flexible unmarshal,
// validation. A structurally invalid result earns exactly one guided retry
// with the corrective guidance appended to the prompt; a second invalid
// result, a parse failure, or a gateway failure rejects the unit.
func (g *GraphClient) ExtractUnit(ctx context.Context, unit common.QueryUnit) (*common.Fragment, error) {
	prompt := fmt.Sprintf(ai.RelationExtractionPrompt, unit.Query, unit.Answer)

	fragment, err := g.extractOnce(ctx, prompt, unit)
	if err != nil {
		return nil, err
	}
	if fragment != nil {
		return fragment, nil
	}

	logger.Debug("[Extract] Invalid result, running guided retry", "query", unit.Query)

	fragment, err = g.extractOnce(ctx, prompt+ai.ExtractionRetryGuidance, unit)
	if err != nil {
		return nil, err
	}
	if fragment == nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidExtraction, unit.Query)
	}

	return fragment, nil
}

// extractOnce performs one call/parse/validate round. A nil fragment with a
// nil error means the response parsed but failed validation, which is the
// only case eligible for the guided retry.
func (g *GraphClient) extractOnce(ctx context.Context, prompt string, unit common.QueryUnit) (*common.Fragment, error) {
	response, err := g.gateway.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("extraction call failed: %w", err)
	}

	payload := ai.ExtractFencedPayload(response)

	var fragment common.Fragment
	if err := ai.UnmarshalFlexible(payload, &fragment); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	if !ValidateFragment(&fragment, unit.Query, unit.Answer) {
		return nil, nil
	}

	NormalizeFragment(&fragment, unit.Query, unit.Answer)
	return &fragment, nil
}
