package graph

import (
	"sort"
	"sync"

	"github.com/OFFIS-RIT/gift/backend/pkg/common"
)

// Builder accumulates validated fragments into per-core-entity graphs and
// keeps the accepted-fragment log and the failed-queries list alongside.
// All methods are safe for concurrent use; the downstream stages read the
// graphs in parallel.
type Builder struct {
	mu        sync.Mutex
	graphs    map[string]*Graph
	coreOrder []string
	fragments []common.Fragment
	failed    []common.QueryUnit
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		graphs: make(map[string]*Graph),
	}
}

// MergeFragment merges one validated fragment into the graph of its core
// entity, creating the graph on first sight. Nodes upsert by name with
// last-write-wins attributes; edges dedup on (source, target, relation) with
// poison enrichment. Merging the same fragment twice changes nothing except
// the fragment log.
func (b *Builder) MergeFragment(fragment common.Fragment) {
	b.mu.Lock()
	defer b.mu.Unlock()

	core := fragment.QueryAnalysis.CoreEntity
	g, ok := b.graphs[core]
	if !ok {
		g = NewGraph()
		b.graphs[core] = g
		b.coreOrder = append(b.coreOrder, core)
	}

	for _, entity := range fragment.Entities {
		g.UpsertNode(common.Node{
			ID:          entity.Name,
			Type:        entity.Type,
			ContextRole: entity.ContextRole,
		})
	}

	for _, relation := range fragment.Relations {
		g.UpsertEdge(common.Edge{
			Source:        relation.Source,
			Target:        relation.Target,
			Relation:      relation.Relation,
			ContextIntent: relation.ContextIntent,
			IsCoreAnswer:  relation.IsCoreAnswer,
			PoisonText:    relation.PoisonText,
		})
	}

	b.fragments = append(b.fragments, fragment)
}

// AddFailed records a unit that could not be extracted.
func (b *Builder) AddFailed(unit common.QueryUnit) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failed = append(b.failed, unit)
}

// Graph returns the graph for a core entity.
func (b *Builder) Graph(core string) (*Graph, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	g, ok := b.graphs[core]
	return g, ok
}

// CoreEntities returns the core entities in first-merged order.
func (b *Builder) CoreEntities() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	cores := make([]string, len(b.coreOrder))
	copy(cores, b.coreOrder)
	return cores
}

// Fragments returns the accepted-fragment log in acceptance order.
func (b *Builder) Fragments() []common.Fragment {
	b.mu.Lock()
	defer b.mu.Unlock()
	fragments := make([]common.Fragment, len(b.fragments))
	copy(fragments, b.fragments)
	return fragments
}

// FailedQueries returns the units that failed extraction.
func (b *Builder) FailedQueries() []common.QueryUnit {
	b.mu.Lock()
	defer b.mu.Unlock()
	failed := make([]common.QueryUnit, len(b.failed))
	copy(failed, b.failed)
	return failed
}

// GraphData returns the persisted form of every graph.
func (b *Builder) GraphData() map[string]common.GraphData {
	b.mu.Lock()
	defer b.mu.Unlock()
	data := make(map[string]common.GraphData, len(b.graphs))
	for core, g := range b.graphs {
		data[core] = g.Data()
	}
	return data
}

// Load restores a Builder from persisted outputs. The graphs are rebuilt
// with exactly the stored attributes, without re-validation or re-merge.
func (b *Builder) Load(fragments []common.Fragment, data map[string]common.GraphData, failed []common.QueryUnit) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.fragments = fragments
	b.failed = failed
	b.graphs = make(map[string]*Graph, len(data))
	b.coreOrder = b.coreOrder[:0]
	for core, graphData := range data {
		b.graphs[core] = FromData(graphData)
		b.coreOrder = append(b.coreOrder, core)
	}
	sort.Strings(b.coreOrder)
}
