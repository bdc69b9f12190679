package graph

import (
	"github.com/OFFIS-RIT/gift/backend/pkg/ai"
)

// GraphClient drives the extraction side of the pipeline: batched model
// calls, per-unit fallback, and merging of validated fragments into the
// per-core-entity graphs held by a Builder.
//
// A GraphClient should be created using NewGraphClient.
type GraphClient struct {
	gateway        *ai.Gateway
	tokenEncoder   string
	batchSize      int
	maxBatchTokens int
}

// NewGraphClientParams defines the configuration parameters for creating
// a new GraphClient.
//
// Gateway is the retrying text service gateway every model call goes through.
// TokenEncoder names the tiktoken encoding used for batch prompt budgeting.
// BatchSize controls how many query units share one batch prompt.
// MaxBatchTokens caps the batch prompt size; oversized batches are split in
// half until they fit.
type NewGraphClientParams struct {
	Gateway        *ai.Gateway
	TokenEncoder   string
	BatchSize      int
	MaxBatchTokens int
}

// NewGraphClient creates and returns a new GraphClient configured with
// the provided parameters. Unset parameters take their defaults.
//
// Example:
//
//	client := graph.NewGraphClient(graph.NewGraphClientParams{
//		Gateway:   gateway,
//		BatchSize: 10,
//	})
func NewGraphClient(params NewGraphClientParams) *GraphClient {
	tokenEncoder := params.TokenEncoder
	if tokenEncoder == "" {
		tokenEncoder = "o200k_base"
	}

	batchSize := params.BatchSize
	if batchSize <= 0 {
		batchSize = 10
	}

	maxBatchTokens := params.MaxBatchTokens
	if maxBatchTokens <= 0 {
		maxBatchTokens = 8192
	}

	return &GraphClient{
		gateway:        params.Gateway,
		tokenEncoder:   tokenEncoder,
		batchSize:      batchSize,
		maxBatchTokens: maxBatchTokens,
	}
}
