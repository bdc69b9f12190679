package graph

import (
	"github.com/OFFIS-RIT/gift/backend/pkg/common"
	"github.com/OFFIS-RIT/gift/backend/pkg/logger"
)

// ValidateFragment reports whether an extraction result is structurally
// usable for the given query/answer pair. It checks presence only: the core
// entity, at least one entity, at least one relation, and a core-answer
// relation whose poison_text pins the incorrect answer exactly. The first
// relation marked is_core_answer is the one checked. No path linearity is
// verified here; the merge step tolerates whatever shape arrives.
func ValidateFragment(f *common.Fragment, query string, answer string) bool {
	if f == nil {
		logger.Debug("[Validate] Nil fragment", "query", query)
		return false
	}

	if f.QueryAnalysis.CoreEntity == "" {
		logger.Debug("[Validate] Missing core entity", "query", query)
		return false
	}

	if len(f.Entities) == 0 {
		logger.Debug("[Validate] No entities extracted", "query", query)
		return false
	}

	if len(f.Relations) == 0 {
		logger.Debug("[Validate] No relations extracted", "query", query)
		return false
	}

	for _, relation := range f.Relations {
		if !relation.IsCoreAnswer {
			continue
		}
		if relation.PoisonText != answer {
			logger.Debug("[Validate] Core answer relation does not pin the incorrect answer",
				"query", query, "poison_text", relation.PoisonText, "answer", answer)
			return false
		}
		return true
	}

	logger.Debug("[Validate] No core answer relation", "query", query)
	return false
}

// NormalizeFragment ties a validated fragment back to its input pair and
// backfills the attributes the merge step relies on: is_core_answer is
// already explicit per relation, and the core-answer relation gets the
// incorrect answer as poison_text when the model left it out.
func NormalizeFragment(f *common.Fragment, query string, answer string) {
	f.OriginalQuery = query
	f.OriginalAnswer = answer

	for i := range f.Relations {
		if f.Relations[i].IsCoreAnswer && f.Relations[i].PoisonText == "" {
			f.Relations[i].PoisonText = answer
		}
	}
}
