package poison

import (
	"fmt"
	"sort"
	"strings"

	"github.com/OFFIS-RIT/gift/backend/pkg/logger"
)

// MergedText is the final text for one theme (core entity).
type MergedText struct {
	Theme           string `json:"theme"`
	FinalPoisonText string `json:"final_poison_text"`
}

// MergeTexts combines generator and enhancer outputs over the union of
// their core entities: both texts joined with a blank line, either one
// alone when the other is missing, and entities with neither are skipped.
// It returns the JSON map and the rendered TXT report, themes in sorted
// order.
func MergeTexts(generated map[string]GeneratorResult, enhanced map[string]EnhancementResult) (map[string]MergedText, string) {
	entities := make(map[string]bool, len(generated)+len(enhanced))
	for entity := range generated {
		entities[entity] = true
	}
	for entity := range enhanced {
		entities[entity] = true
	}

	themes := make([]string, 0, len(entities))
	for entity := range entities {
		themes = append(themes, entity)
	}
	sort.Strings(themes)

	logger.Info("[Poison] Merging texts", "themes", len(themes))

	merged := make(map[string]MergedText)
	var report strings.Builder

	for _, theme := range themes {
		generatedText := generated[theme].PoisonText
		enhancedText := enhanced[theme].AggregatedText

		var finalText string
		switch {
		case generatedText != "" && enhancedText != "":
			finalText = generatedText + "\n\n" + enhancedText
		case generatedText != "":
			finalText = generatedText
		case enhancedText != "":
			finalText = enhancedText
		default:
			logger.Warn("[Poison] Theme has no text to merge", "theme", theme)
			continue
		}

		merged[theme] = MergedText{
			Theme:           theme,
			FinalPoisonText: finalText,
		}

		fmt.Fprintf(&report, "Theme: %s\n", theme)
		report.WriteString(strings.Repeat("=", 50) + "\n")
		report.WriteString(finalText + "\n\n")
		report.WriteString(strings.Repeat("-", 50) + "\n\n")
	}

	return merged, report.String()
}
