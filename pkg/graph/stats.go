package graph

// CoreEntityStats summarizes one core-entity graph.
type CoreEntityStats struct {
	Nodes       int        `json:"nodes"`
	Edges       int        `json:"edges"`
	PoisonEdges int        `json:"poison_edges"`
	Entities    []string   `json:"entities"`
	Relations   [][]string `json:"relations"`
}

// Stats summarizes a whole run.
type Stats struct {
	TotalCoreEntities     int                        `json:"total_core_entities"`
	TotalProcessedQueries int                        `json:"total_processed_queries"`
	FailedQueries         int                        `json:"failed_queries"`
	CoreEntities          map[string]CoreEntityStats `json:"core_entities"`
}

// Stats computes the run summary over every core-entity graph. Relations are
// listed as (source, target, relation) triples in edge insertion order.
func (b *Builder) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()

	stats := Stats{
		TotalCoreEntities:     len(b.graphs),
		TotalProcessedQueries: len(b.fragments),
		FailedQueries:         len(b.failed),
		CoreEntities:          make(map[string]CoreEntityStats, len(b.graphs)),
	}

	for core, g := range b.graphs {
		entry := CoreEntityStats{
			Nodes: g.NodeCount(),
			Edges: g.EdgeCount(),
		}
		for _, node := range g.Nodes() {
			entry.Entities = append(entry.Entities, node.ID)
		}
		for _, edge := range g.Edges() {
			if edge.PoisonText != "" {
				entry.PoisonEdges++
			}
			entry.Relations = append(entry.Relations, []string{edge.Source, edge.Target, edge.Relation})
		}
		stats.CoreEntities[core] = entry
	}

	return stats
}
