// Package llm - util.go provides shared utilities for LLM response processing.
package llm

import "strings"

// CleanJSONBlock removes markdown code block wrappers and surrounding prose
// from a JSON response. Text with no JSON delimiters is returned trimmed but
// otherwise untouched so callers can report it verbatim.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Skip a language identifier on the first line (```json, ```javascript)
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := strings.TrimSpace(text[:idx])
			if len(firstLine) < 20 && !strings.ContainsAny(firstLine, " {[") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	return extractJSONValue(text)
}

// extractJSONValue trims prose before the first '{' or '[' and after the
// matching last '}' or ']'.
func extractJSONValue(text string) string {
	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return text
	}
	closer := "}"
	if text[start] == '[' {
		closer = "]"
	}
	end := strings.LastIndex(text, closer)
	if end < start {
		return text
	}
	return text[start : end+1]
}
