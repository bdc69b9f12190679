package graph

import (
	"testing"

	"github.com/OFFIS-RIT/gift/backend/pkg/common"
)

func TestMergeFragmentIdempotent(t *testing.T) {
	builder := NewBuilder()
	fragment := *validFragment()

	builder.MergeFragment(fragment)
	g, ok := builder.Graph("FAIR")
	if !ok {
		t.Fatal("expected a graph for the core entity")
	}
	nodes, edges := g.NodeCount(), g.EdgeCount()

	builder.MergeFragment(fragment)
	if g.NodeCount() != nodes {
		t.Errorf("node count after re-merge = %d, want %d", g.NodeCount(), nodes)
	}
	if g.EdgeCount() != edges {
		t.Errorf("edge count after re-merge = %d, want %d", g.EdgeCount(), edges)
	}
}

func TestMergeFragmentNodeAttributesLastWriteWins(t *testing.T) {
	builder := NewBuilder()
	first := *validFragment()
	builder.MergeFragment(first)

	second := *validFragment()
	second.Entities = []common.Entity{
		{Name: "Meta", Type: "company", ContextRole: "owner"},
	}
	builder.MergeFragment(second)

	g, _ := builder.Graph("FAIR")
	node, ok := g.Node("Meta")
	if !ok {
		t.Fatal("expected node Meta")
	}
	if node.Type != "company" || node.ContextRole != "owner" {
		t.Errorf("node attributes = (%q, %q), want last write", node.Type, node.ContextRole)
	}
	if got := g.Nodes()[1].ID; got != "Meta" {
		t.Errorf("insertion order changed, second node = %q", got)
	}
}

func TestUpsertEdgePoisonEnrichment(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		incoming string
		want     string
	}{
		{name: "fills empty poison text", existing: "", incoming: "YANN LECUN", want: "YANN LECUN"},
		{name: "never overwrites poison text", existing: "YANN LECUN", incoming: "GEOFFREY HINTON", want: "YANN LECUN"},
		{name: "empty incoming changes nothing", existing: "YANN LECUN", incoming: "", want: "YANN LECUN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGraph()
			g.UpsertEdge(common.Edge{Source: "A", Target: "B", Relation: "leads", PoisonText: tt.existing})
			g.UpsertEdge(common.Edge{Source: "A", Target: "B", Relation: "leads", PoisonText: tt.incoming})

			if g.EdgeCount() != 1 {
				t.Fatalf("edge count = %d, want 1", g.EdgeCount())
			}
			if got := g.Edges()[0].PoisonText; got != tt.want {
				t.Errorf("poison text = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUpsertEdgeParallelRelationsCoexist(t *testing.T) {
	g := NewGraph()
	g.UpsertEdge(common.Edge{Source: "A", Target: "B", Relation: "leads"})
	g.UpsertEdge(common.Edge{Source: "A", Target: "B", Relation: "funds"})

	if g.EdgeCount() != 2 {
		t.Errorf("edge count = %d, want 2", g.EdgeCount())
	}
}

func TestFromDataRoundTrip(t *testing.T) {
	builder := NewBuilder()
	builder.MergeFragment(*validFragment())
	g, _ := builder.Graph("FAIR")

	rebuilt := FromData(g.Data())

	if rebuilt.NodeCount() != g.NodeCount() || rebuilt.EdgeCount() != g.EdgeCount() {
		t.Fatalf("rebuilt graph = (%d nodes, %d edges), want (%d, %d)",
			rebuilt.NodeCount(), rebuilt.EdgeCount(), g.NodeCount(), g.EdgeCount())
	}
	for i, edge := range rebuilt.Edges() {
		if edge != g.Edges()[i] {
			t.Errorf("edge %d = %+v, want %+v", i, edge, g.Edges()[i])
		}
	}
}

func TestBuilderStats(t *testing.T) {
	builder := NewBuilder()
	builder.MergeFragment(*validFragment())
	builder.AddFailed(common.QueryUnit{Query: "q", Answer: "a"})

	stats := builder.Stats()

	if stats.TotalCoreEntities != 1 {
		t.Errorf("TotalCoreEntities = %d, want 1", stats.TotalCoreEntities)
	}
	if stats.TotalProcessedQueries != 1 {
		t.Errorf("TotalProcessedQueries = %d, want 1", stats.TotalProcessedQueries)
	}
	if stats.FailedQueries != 1 {
		t.Errorf("FailedQueries = %d, want 1", stats.FailedQueries)
	}

	entry := stats.CoreEntities["FAIR"]
	if entry.Nodes != 2 || entry.Edges != 2 || entry.PoisonEdges != 1 {
		t.Errorf("entry = %+v, want 2 nodes, 2 edges, 1 poison edge", entry)
	}
	if len(entry.Relations) != 2 || entry.Relations[0][2] != "belongs to" {
		t.Errorf("relations = %v", entry.Relations)
	}
}
