package graph

import "testing"

func TestNewGraphClientDefaults(t *testing.T) {
	g := NewGraphClient(NewGraphClientParams{})
	if g.tokenEncoder != "o200k_base" {
		t.Errorf("tokenEncoder = %q, want o200k_base", g.tokenEncoder)
	}
	if g.batchSize != 10 {
		t.Errorf("batchSize = %d, want 10", g.batchSize)
	}
	if g.maxBatchTokens != 8192 {
		t.Errorf("maxBatchTokens = %d, want 8192", g.maxBatchTokens)
	}
}

func TestNewGraphClientKeepsExplicitValues(t *testing.T) {
	g := NewGraphClient(NewGraphClientParams{TokenEncoder: "cl100k_base", BatchSize: 3, MaxBatchTokens: 2048})
	if g.tokenEncoder != "cl100k_base" || g.batchSize != 3 || g.maxBatchTokens != 2048 {
		t.Errorf("client = %+v, want the explicit configuration kept", g)
	}
}
