package poison

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/OFFIS-RIT/gift/backend/pkg/ai"
	"github.com/OFFIS-RIT/gift/backend/pkg/common"
	"github.com/OFFIS-RIT/gift/backend/pkg/graph"
	"github.com/OFFIS-RIT/gift/backend/pkg/logger"
)

// TargetWrongAnswer is one wrong answer a path's generated text must carry,
// with the edge that pins it.
type TargetWrongAnswer struct {
	Text          string `json:"text"`
	Relation      string `json:"relation"`
	ContextIntent string `json:"context_intent"`
	Source        string `json:"source"`
	Target        string `json:"target"`
}

// PathEdge is one hop of a path inside a PathStructure, 1-indexed.
type PathEdge struct {
	Index         int    `json:"index"`
	Source        string `json:"source"`
	Target        string `json:"target"`
	Relation      string `json:"relation"`
	ContextIntent string `json:"context_intent"`
	IsCoreAnswer  bool   `json:"is_core_answer"`
	PoisonText    string `json:"poison_text,omitempty"`
}

// PathStructure is the structured form of one enumerated path: the node
// details it touches, the indexed edge sequence, and the wrong answers the
// generated text has to smuggle in.
type PathStructure struct {
	CoreEntity         string                 `json:"core_entity"`
	Nodes              map[string]common.Node `json:"nodes"`
	Edges              []PathEdge             `json:"edges"`
	TargetWrongAnswers []TargetWrongAnswer    `json:"target_wrong_answers"`
}

// PromptBuilder turns a path structure and its rendered description into the
// generation prompt. The default builder covers the standard template;
// callers inject their own to experiment with prompt variants.
type PromptBuilder interface {
	BuildPoisonTextPrompt(structure PathStructure, description string, maxWords int) string
}

// GeneratorResult is the per-core-entity outcome of the generation stage.
type GeneratorResult struct {
	PoisonText      string   `json:"poison_text"`
	PathCount       int      `json:"path_count"`
	PoisonTextCount int      `json:"poison_text_count"`
	Paths           []string `json:"paths"`
}

// Generator produces one poison text per enumerated path and joins them per
// core entity.
//
// A Generator should be created using NewGenerator.
type Generator struct {
	gateway        *ai.Gateway
	promptBuilder  PromptBuilder
	maxPoisonWords int
	parallelCores  int
}

// NewGeneratorParams defines the configuration parameters for creating a
// new Generator.
//
// PromptBuilder overrides the built-in prompt template when set.
// MaxPoisonWords caps the generated passage length per path.
// ParallelCores controls how many core entities are processed concurrently.
type NewGeneratorParams struct {
	Gateway        *ai.Gateway
	PromptBuilder  PromptBuilder
	MaxPoisonWords int
	ParallelCores  int
}

// NewGenerator creates a Generator. MaxPoisonWords defaults to 300 and
// ParallelCores to 4; the default prompt builder is used unless one is
// injected.
func NewGenerator(params NewGeneratorParams) *Generator {
	maxPoisonWords := params.MaxPoisonWords
	if maxPoisonWords <= 0 {
		maxPoisonWords = 300
	}

	parallelCores := params.ParallelCores
	if parallelCores <= 0 {
		parallelCores = 4
	}

	promptBuilder := params.PromptBuilder
	if promptBuilder == nil {
		promptBuilder = defaultPromptBuilder{}
	}

	return &Generator{
		gateway:        params.Gateway,
		promptBuilder:  promptBuilder,
		maxPoisonWords: maxPoisonWords,
		parallelCores:  parallelCores,
	}
}

// Run generates poison texts for every core entity in the persisted graph
// data. Cores are processed in parallel; per core, each maximal path gets
// one generation call, failed calls simply drop that path's text, and the
// surviving texts join with blank lines.
func (g *Generator) Run(ctx context.Context, graphData map[string]common.GraphData) (map[string]GeneratorResult, error) {
	results := make(map[string]GeneratorResult, len(graphData))

	eg, gCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.parallelCores)
	mutex := sync.Mutex{}

	logger.Info("[Poison] Generating poison texts", "core_entities", len(graphData))

	for core, data := range graphData {
		eg.Go(func() error {
			result, err := g.processCore(gCtx, core, data)
			if err != nil {
				return err
			}

			mutex.Lock()
			defer mutex.Unlock()
			results[core] = result

			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("failed to generate poison texts:\n%w", err)
	}

	logger.Info("[Poison] Generation completed", "core_entities", len(results))

	return results, nil
}

func (g *Generator) processCore(ctx context.Context, core string, data common.GraphData) (GeneratorResult, error) {
	subgraph := graph.FromData(data)
	paths := graph.EnumeratePaths(subgraph, core)

	logger.Info("[Poison] Enumerated paths", "core_entity", core, "paths", len(paths))

	result := GeneratorResult{PathCount: len(paths)}

	var texts []string
	for i, path := range paths {
		structure := BuildPathStructure(subgraph, core, path)
		description := FormatPathDescription(structure)
		result.Paths = append(result.Paths, description)

		prompt := g.promptBuilder.BuildPoisonTextPrompt(structure, description, g.maxPoisonWords)

		response, err := g.gateway.Complete(ctx, prompt)
		if err != nil {
			if ctx.Err() != nil {
				return GeneratorResult{}, ctx.Err()
			}
			logger.Warn("[Poison] Path generation failed",
				"core_entity", core, "path", i+1, "error", err)
			continue
		}

		text := ai.StripWrappingQuotes(response)
		if text != "" {
			texts = append(texts, text)
		}
	}

	result.PoisonText = strings.Join(texts, "\n\n")
	result.PoisonTextCount = len(texts)

	if result.PoisonTextCount == 0 {
		logger.Warn("[Poison] No poison text generated", "core_entity", core)
	}

	return result, nil
}

// BuildPathStructure collects node details, the indexed edge sequence, and
// the target wrong answers for one path. The core entity's node is always
// included even when the path is empty.
func BuildPathStructure(g *graph.Graph, core string, path graph.Path) PathStructure {
	structure := PathStructure{
		CoreEntity: core,
		Nodes:      make(map[string]common.Node),
	}

	structure.Nodes[core] = nodeDetails(g, core)

	for i, edge := range path {
		if _, ok := structure.Nodes[edge.Source]; !ok {
			structure.Nodes[edge.Source] = nodeDetails(g, edge.Source)
		}
		if _, ok := structure.Nodes[edge.Target]; !ok {
			structure.Nodes[edge.Target] = nodeDetails(g, edge.Target)
		}

		structure.Edges = append(structure.Edges, PathEdge{
			Index:         i + 1,
			Source:        edge.Source,
			Target:        edge.Target,
			Relation:      edge.Relation,
			ContextIntent: edge.ContextIntent,
			IsCoreAnswer:  edge.IsCoreAnswer,
			PoisonText:    edge.PoisonText,
		})

		if edge.PoisonText != "" {
			structure.TargetWrongAnswers = append(structure.TargetWrongAnswers, TargetWrongAnswer{
				Text:          edge.PoisonText,
				Relation:      edge.Relation,
				ContextIntent: edge.ContextIntent,
				Source:        edge.Source,
				Target:        edge.Target,
			})
		}
	}

	return structure
}

func nodeDetails(g *graph.Graph, id string) common.Node {
	node, ok := g.Node(id)
	if !ok {
		logger.Warn("[Poison] Node missing from graph", "node", id)
		return common.Node{ID: id}
	}
	return node
}

// FormatPathDescription renders a path structure into the human-readable
// block the generation prompt embeds: core entity details, the numbered
// relationship chain with per-entity detail, and the wrong-answer summary.
func FormatPathDescription(structure PathStructure) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Core Entity: %s\n", structure.CoreEntity)
	b.WriteString("Core Entity Details:\n")
	writeNodeDetails(&b, structure.Nodes[structure.CoreEntity], "  ")

	b.WriteString("\nEntity Relationship Chain:\n")
	for _, edge := range structure.Edges {
		fmt.Fprintf(&b, "%d. %s --(%s)--> %s [Intent: %s]\n",
			edge.Index, edge.Source, edge.Relation, edge.Target, edge.ContextIntent)

		fmt.Fprintf(&b, "   Source Entity(%s) Details:\n", edge.Source)
		writeNodeDetails(&b, structure.Nodes[edge.Source], "     ")

		fmt.Fprintf(&b, "   Target Entity(%s) Details:\n", edge.Target)
		writeNodeDetails(&b, structure.Nodes[edge.Target], "     ")

		b.WriteString("   Relationship Attributes:\n")
		fmt.Fprintf(&b, "     - is_core_answer: %v\n", edge.IsCoreAnswer)
		if edge.PoisonText != "" {
			fmt.Fprintf(&b, "     - poison_text: %s\n", edge.PoisonText)
			fmt.Fprintf(&b, "       (Target Wrong Answer: %s)\n", edge.PoisonText)
		}
	}

	if len(structure.TargetWrongAnswers) > 0 {
		b.WriteString("\nTarget Wrong Answers Summary:\n")
		for i, answer := range structure.TargetWrongAnswers {
			fmt.Fprintf(&b, "%d. %s\n", i+1, answer.Text)
			fmt.Fprintf(&b, "   - Related Relationship: %s --(%s)--> %s\n",
				answer.Source, answer.Relation, answer.Target)
			fmt.Fprintf(&b, "   - Relationship Intent: %s\n", answer.ContextIntent)
		}
	}

	return b.String()
}

func writeNodeDetails(b *strings.Builder, node common.Node, indent string) {
	fmt.Fprintf(b, "%s- type: %s\n", indent, node.Type)
	fmt.Fprintf(b, "%s- context_role: %s\n", indent, node.ContextRole)
}

type defaultPromptBuilder struct{}

// BuildPoisonTextPrompt assembles the standard generation prompt: the path
// description, the enumerated wrong answers when any exist, and the
// requirement block with the entity list and word cap.
func (defaultPromptBuilder) BuildPoisonTextPrompt(structure PathStructure, description string, maxWords int) string {
	var b strings.Builder

	fmt.Fprintf(&b, ai.PoisonTextPromptIntro, description)

	if len(structure.TargetWrongAnswers) > 0 {
		b.WriteString(ai.PoisonTextPromptTargetsHeader)
		for i, answer := range structure.TargetWrongAnswers {
			fmt.Fprintf(&b, "%d. %s\n", i+1, answer.Text)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, ai.PoisonTextPromptBody, strings.Join(pathEntities(structure), ", "), maxWords)

	return b.String()
}

// pathEntities returns the distinct entities touched by the path's edges,
// in hop order.
func pathEntities(structure PathStructure) []string {
	seen := make(map[string]bool)
	var entities []string
	for _, edge := range structure.Edges {
		for _, name := range []string{edge.Source, edge.Target} {
			if !seen[name] {
				seen[name] = true
				entities = append(entities, name)
			}
		}
	}
	return entities
}
