package graph

// PoisonEdge is the poisoned-edge record the enhancement stage works on:
// the attributes of one edge carrying a poison_text, plus whether the record
// was synthesized to pad an undersized batch.
type PoisonEdge struct {
	PoisonText    string `json:"poison_text"`
	ContextIntent string `json:"context_intent"`
	Relation      string `json:"relation"`
	Source        string `json:"source"`
	Target        string `json:"target"`
	IsSynthetic   bool   `json:"is_synthetic"`
}

// Pair is one pairing of poisoned-edge records to cross-reference.
type Pair struct {
	First  PoisonEdge
	Second PoisonEdge
}

// SynthesizeFunc produces count synthetic poison edges styled after the
// existing ones. Implementations pick their own style template; returning
// fewer records than requested (or none, on failure) is acceptable and
// simply shrinks the pairing.
type SynthesizeFunc func(existing []PoisonEdge, count int) []PoisonEdge

// ComposePairs pairs up poisoned-edge records for cross-reference text
// generation. When fewer than minRequired originals exist and a synthesize
// function is given, the shortfall is requested as synthetics. The result is
// every unordered 2-combination of the originals followed by the ordered
// original x synthetic cross product. Fewer than two records total yields no
// pairs.
func ComposePairs(edges []PoisonEdge, minRequired int, synthesize SynthesizeFunc) []Pair {
	var synthetics []PoisonEdge
	if len(edges) < minRequired && synthesize != nil {
		synthetics = synthesize(edges, minRequired-len(edges))
	}

	var pairs []Pair
	for i := 0; i < len(edges); i++ {
		for j := i + 1; j < len(edges); j++ {
			pairs = append(pairs, Pair{First: edges[i], Second: edges[j]})
		}
	}
	for _, original := range edges {
		for _, synthetic := range synthetics {
			pairs = append(pairs, Pair{First: original, Second: synthetic})
		}
	}

	return pairs
}
