package common

// QueryUnit is one input pair for the pipeline: a question and the incorrect
// answer the poisoned corpus should make a retrieval system repeat.
type QueryUnit struct {
	Query  string `json:"query"`
	Answer string `json:"answer"`
}

// QueryAnalysis captures how the model classified a query. The core entity
// names the anchor of the extracted subgraph; all fragments sharing a core
// entity are merged into the same graph.
type QueryAnalysis struct {
	CoreQuestionType   string `json:"core_question_type"`
	ExpectedAnswerType string `json:"expected_answer_type"`
	CoreEntity         string `json:"core_entity"`
}

// Entity represents a node extracted from a query. An entity can be an
// organization, person, location, or any other concept the query touches.
// Name doubles as the node identity inside a core-entity graph.
type Entity struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	ContextRole string `json:"context_role"`
}

// Relation represents a directed edge between two entities, referenced by
// name. Exactly one relation per fragment is expected to carry the core
// answer; that relation pins the incorrect answer in PoisonText.
//
// ContextIntent describes what the query wanted from this hop, which the
// downstream text generation uses to phrase the poisoned statement.
type Relation struct {
	Source        string `json:"source"`
	Target        string `json:"target"`
	Relation      string `json:"relation"`
	ContextIntent string `json:"context_intent"`
	IsCoreAnswer  bool   `json:"is_core_answer"`
	PoisonText    string `json:"poison_text,omitempty"`
}

// Fragment is one validated extraction result: the analysis of a single
// query, the entities it mentions, and the relations connecting them.
// OriginalQuery and OriginalAnswer tie the fragment back to its input pair,
// which is also how batch responses are matched to their inputs.
type Fragment struct {
	QueryAnalysis  QueryAnalysis `json:"query_analysis"`
	Entities       []Entity      `json:"entities"`
	Relations      []Relation    `json:"relations"`
	OriginalQuery  string        `json:"original_query"`
	OriginalAnswer string        `json:"original_answer"`
}

// Node is the persisted form of a graph node. ID is the entity name.
type Node struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	ContextRole string `json:"context_role"`
}

// Edge is the persisted form of a graph edge. Source and Target reference
// node IDs; the remaining fields carry the relation attributes unchanged.
type Edge struct {
	Source        string `json:"source"`
	Target        string `json:"target"`
	Relation      string `json:"relation"`
	ContextIntent string `json:"context_intent"`
	IsCoreAnswer  bool   `json:"is_core_answer"`
	PoisonText    string `json:"poison_text,omitempty"`
}

// GraphData is the persisted form of one core-entity graph.
type GraphData struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}
