package poison

import (
	"strings"
	"testing"
)

func TestMergeTexts(t *testing.T) {
	generated := map[string]GeneratorResult{
		"Both":    {PoisonText: "generated text"},
		"GenOnly": {PoisonText: "only generated"},
		"Empty":   {},
	}
	enhanced := map[string]EnhancementResult{
		"Both":    {AggregatedText: "enhanced text"},
		"EnhOnly": {AggregatedText: "only enhanced"},
		"Empty":   {},
	}

	merged, report := MergeTexts(generated, enhanced)

	tests := []struct {
		theme string
		want  string
	}{
		{theme: "Both", want: "generated text\n\nenhanced text"},
		{theme: "GenOnly", want: "only generated"},
		{theme: "EnhOnly", want: "only enhanced"},
	}

	if len(merged) != len(tests) {
		t.Fatalf("merged themes = %d, want %d (themes without text are skipped)", len(merged), len(tests))
	}

	for _, tt := range tests {
		t.Run(tt.theme, func(t *testing.T) {
			entry, ok := merged[tt.theme]
			if !ok {
				t.Fatalf("theme %q missing", tt.theme)
			}
			if entry.Theme != tt.theme {
				t.Errorf("Theme = %q, want %q", entry.Theme, tt.theme)
			}
			if entry.FinalPoisonText != tt.want {
				t.Errorf("FinalPoisonText = %q, want %q", entry.FinalPoisonText, tt.want)
			}
		})
	}

	if _, ok := merged["Empty"]; ok {
		t.Error("theme without any text must be skipped")
	}

	wantBlock := "Theme: Both\n" +
		strings.Repeat("=", 50) + "\n" +
		"generated text\n\nenhanced text\n\n" +
		strings.Repeat("-", 50) + "\n\n"
	if !strings.Contains(report, wantBlock) {
		t.Errorf("report missing block:\n%s\n\nreport:\n%s", wantBlock, report)
	}
	if strings.Index(report, "Theme: Both") > strings.Index(report, "Theme: EnhOnly") {
		t.Error("themes must render in sorted order")
	}
}

func TestMergeTextsEmptyInputs(t *testing.T) {
	merged, report := MergeTexts(nil, nil)
	if len(merged) != 0 {
		t.Errorf("merged = %+v, want empty", merged)
	}
	if report != "" {
		t.Errorf("report = %q, want empty", report)
	}
}
