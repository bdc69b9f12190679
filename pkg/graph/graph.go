package graph

import (
	"github.com/OFFIS-RIT/gift/backend/pkg/common"
)

type edgeKey struct {
	source   string
	target   string
	relation string
}

// Graph is one per-core-entity directed graph. Nodes are keyed by entity
// name and kept in insertion order so persisted output is deterministic.
// Edge identity is the (source, target, relation) triple; parallel edges
// with different relations coexist. An out-adjacency index backs path
// enumeration.
type Graph struct {
	nodes     map[string]common.Node
	nodeOrder []string
	edges     []common.Edge
	edgeIndex map[edgeKey]int
	adjacency map[string][]int
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:     make(map[string]common.Node),
		edgeIndex: make(map[edgeKey]int),
		adjacency: make(map[string][]int),
	}
}

// FromData reconstructs a graph from its persisted form with exactly the
// stored attributes. No re-validation happens; the persisted invariant is
// trusted.
func FromData(data common.GraphData) *Graph {
	g := NewGraph()
	for _, node := range data.Nodes {
		g.UpsertNode(node)
	}
	for _, edge := range data.Edges {
		g.UpsertEdge(edge)
	}
	return g
}

// UpsertNode inserts a node or overwrites the attributes of an existing one.
// Last write wins; insertion order is kept from the first sighting.
func (g *Graph) UpsertNode(node common.Node) {
	if _, exists := g.nodes[node.ID]; !exists {
		g.nodeOrder = append(g.nodeOrder, node.ID)
	}
	g.nodes[node.ID] = node
}

// UpsertEdge inserts an edge unless one with the same (source, target,
// relation) identity exists. The one mutation allowed on an existing edge is
// enrichment: a new non-empty poison_text is copied onto an edge that lacks
// one. A non-empty poison_text is never overwritten.
func (g *Graph) UpsertEdge(edge common.Edge) {
	key := edgeKey{source: edge.Source, target: edge.Target, relation: edge.Relation}

	if idx, exists := g.edgeIndex[key]; exists {
		if g.edges[idx].PoisonText == "" && edge.PoisonText != "" {
			g.edges[idx].PoisonText = edge.PoisonText
		}
		return
	}

	g.edgeIndex[key] = len(g.edges)
	g.adjacency[edge.Source] = append(g.adjacency[edge.Source], len(g.edges))
	g.edges = append(g.edges, edge)
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (common.Node, bool) {
	node, ok := g.nodes[id]
	return node, ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []common.Node {
	nodes := make([]common.Node, 0, len(g.nodeOrder))
	for _, id := range g.nodeOrder {
		nodes = append(nodes, g.nodes[id])
	}
	return nodes
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []common.Edge {
	edges := make([]common.Edge, len(g.edges))
	copy(edges, g.edges)
	return edges
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// Data returns the persisted form of the graph.
func (g *Graph) Data() common.GraphData {
	return common.GraphData{
		Nodes: g.Nodes(),
		Edges: g.Edges(),
	}
}

// PoisonEdges returns the edges carrying a non-empty poison_text, in
// insertion order.
func (g *Graph) PoisonEdges() []common.Edge {
	var poisoned []common.Edge
	for _, edge := range g.edges {
		if edge.PoisonText != "" {
			poisoned = append(poisoned, edge)
		}
	}
	return poisoned
}

// successors returns, per distinct successor of a node, the first-inserted
// edge leading there, in insertion order.
func (g *Graph) successors(id string) []common.Edge {
	seen := make(map[string]bool)
	var out []common.Edge
	for _, idx := range g.adjacency[id] {
		edge := g.edges[idx]
		if seen[edge.Target] {
			continue
		}
		seen[edge.Target] = true
		out = append(out, edge)
	}
	return out
}
