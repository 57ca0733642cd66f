package genai

import (
	"encoding/json"
	"strings"

	"github.com/deepwrite/deepwrite/internal/domain"
)

// stripFences removes a markdown code fence around a JSON payload. Models
// sometimes wrap JSON in ```json ... ``` despite being asked not to.
func stripFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	// Drop an optional language tag on the opening fence line.
	if idx := strings.IndexByte(trimmed, '\n'); idx >= 0 {
		first := strings.TrimSpace(trimmed[:idx])
		if first == "" || first == "json" || first == "JSON" {
			trimmed = trimmed[idx+1:]
		}
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

// parseOutline decodes a JSON array of outline items. Malformed payloads
// yield an empty slice and false, never an error: the caller treats that the
// same as a failed call and keeps the last-known-good outline.
func parseOutline(raw string) ([]domain.OutlineItem, bool) {
	var items []domain.OutlineItem
	if err := json.Unmarshal([]byte(stripFences(raw)), &items); err != nil {
		return nil, false
	}
	return items, true
}

// parseSuggestions decodes a JSON array of critique suggestions, with the
// same malformed-payload semantics as parseOutline.
func parseSuggestions(raw string) ([]domain.Suggestion, bool) {
	var suggestions []domain.Suggestion
	if err := json.Unmarshal([]byte(stripFences(raw)), &suggestions); err != nil {
		return nil, false
	}
	return suggestions, true
}
