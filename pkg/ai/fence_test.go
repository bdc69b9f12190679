package ai

import (
	"testing"
)

func TestExtractFencedPayload(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "labeled fence",
			input: "Here is the result:\n```json\n{\"a\": 1}\n```\nDone.",
			want:  `{"a": 1}`,
		},
		{
			name:  "unlabeled fence",
			input: "```\n{\"a\": 1}\n```",
			want:  `{"a": 1}`,
		},
		{
			name:  "labeled wins over earlier unlabeled",
			input: "```\nnot this\n```\n```json\n{\"b\": 2}\n```",
			want:  `{"b": 2}`,
		},
		{
			name:  "raw text without fences",
			input: "  {\"a\": 1}  ",
			want:  `{"a": 1}`,
		},
		{
			name:  "unterminated labeled fence runs to end",
			input: "```json\n{\"a\": 1}",
			want:  `{"a": 1}`,
		},
		{
			name:  "unterminated unlabeled fence runs to end",
			input: "prefix ```\n[1, 2]",
			want:  `[1, 2]`,
		},
		{
			name:  "only first fenced block is taken",
			input: "```\nfirst\n```\nmiddle\n```\nsecond\n```",
			want:  "first",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractFencedPayload(tt.input)
			if got != tt.want {
				t.Errorf("ExtractFencedPayload() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractFencedPayload_Pure(t *testing.T) {
	input := "```json\n{\"a\": 1}\n```"
	first := ExtractFencedPayload(input)
	second := ExtractFencedPayload(input)
	if first != second {
		t.Errorf("ExtractFencedPayload() not deterministic: %q vs %q", first, second)
	}
}

func TestStripWrappingQuotes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "double quotes",
			input: `"a poisoned statement"`,
			want:  "a poisoned statement",
		},
		{
			name:  "single quotes",
			input: "'a poisoned statement'",
			want:  "a poisoned statement",
		},
		{
			name:  "escaped double quotes",
			input: `\"wrapped\"`,
			want:  "wrapped",
		},
		{
			name:  "escaped single quotes",
			input: `\'wrapped\'`,
			want:  "wrapped",
		},
		{
			name:  "no quotes",
			input: "plain text",
			want:  "plain text",
		},
		{
			name:  "inner quotes stay",
			input: `"he said "hi" and left"`,
			want:  `he said "hi" and left`,
		},
		{
			name:  "surrounding whitespace is trimmed first",
			input: "  \"text\"  ",
			want:  "text",
		},
		{
			name:  "unbalanced quote untouched",
			input: `"half open`,
			want:  `"half open`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StripWrappingQuotes(tt.input)
			if got != tt.want {
				t.Errorf("StripWrappingQuotes() = %q, want %q", got, tt.want)
			}
		})
	}
}
