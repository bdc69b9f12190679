package ai

import (
	"strings"
)

const (
	fenceLabeled = "```json"
	fence        = "```"
)

// ExtractFencedPayload returns the JSON payload embedded in a model response.
// A fenced block labeled json wins over the first unlabeled fenced block,
// which wins over the raw text. An unterminated fence runs to the end of the
// response. The result is whitespace-trimmed and the function never errors;
// whether the payload parses is the caller's problem.
func ExtractFencedPayload(text string) string {
	if idx := strings.Index(text, fenceLabeled); idx != -1 {
		payload := text[idx+len(fenceLabeled):]
		if end := strings.Index(payload, fence); end != -1 {
			payload = payload[:end]
		}
		return strings.TrimSpace(payload)
	}

	if idx := strings.Index(text, fence); idx != -1 {
		payload := text[idx+len(fence):]
		if end := strings.Index(payload, fence); end != -1 {
			payload = payload[:end]
		}
		return strings.TrimSpace(payload)
	}

	return strings.TrimSpace(text)
}

// StripWrappingQuotes removes one layer of quotes the model sometimes wraps
// around a generated passage. Plain quotes are checked before escaped ones.
func StripWrappingQuotes(text string) string {
	text = strings.TrimSpace(text)

	switch {
	case strings.HasPrefix(text, `"`) && strings.HasSuffix(text, `"`) && len(text) >= 2:
		return text[1 : len(text)-1]
	case strings.HasPrefix(text, `\"`) && strings.HasSuffix(text, `\"`) && len(text) >= 4:
		return text[2 : len(text)-2]
	case strings.HasPrefix(text, `'`) && strings.HasSuffix(text, `'`) && len(text) >= 2:
		return text[1 : len(text)-1]
	case strings.HasPrefix(text, `\'`) && strings.HasSuffix(text, `\'`) && len(text) >= 4:
		return text[2 : len(text)-2]
	}

	return text
}
