// ABOUTME: Tolerant JSON extraction from generative model responses
// ABOUTME: Handles json-fenced, plain-fenced, and bare response shapes
package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractError reports a failed extraction along with the raw response
// text, which callers keep for diagnosis.
type ExtractError struct {
	Raw    string
	Reason string
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("failed to extract JSON from response: %s", e.Reason)
}

// ExtractJSON pulls the first JSON object out of a model response. The
// model is instructed to return JSON only, but responses arrive in three
// shapes: fenced with a json tag, fenced plain, or bare.
func ExtractJSON(raw string) (map[string]any, error) {
	candidate := stripFences(raw)

	var parsed map[string]any
	if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
		return nil, &ExtractError{Raw: raw, Reason: err.Error()}
	}
	return parsed, nil
}

// ValidateFields checks that every required top-level field is present.
func ValidateFields(parsed map[string]any, required []string, raw string) error {
	for _, field := range required {
		if _, ok := parsed[field]; !ok {
			return &ExtractError{Raw: raw, Reason: "missing required field: " + field}
		}
	}
	return nil
}

// stripFences returns the content of the first code fence, or the
// trimmed input when no fence is present.
func stripFences(raw string) string {
	if idx := strings.Index(raw, "```json"); idx >= 0 {
		rest := raw[idx+len("```json"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
		return strings.TrimSpace(rest)
	}
	if idx := strings.Index(raw, "```"); idx >= 0 {
		rest := raw[idx+3:]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
		return strings.TrimSpace(rest)
	}
	return strings.TrimSpace(raw)
}

// StringList coerces a parsed JSON array into a string slice.
func StringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// ScoreMap coerces a parsed JSON object into a name→score map.
// Non-numeric values are dropped.
func ScoreMap(v any) map[string]float64 {
	obj, ok := v.(map[string]any)
	if !ok {
		return map[string]float64{}
	}
	out := make(map[string]float64, len(obj))
	for k, raw := range obj {
		if f, ok := raw.(float64); ok {
			out[k] = f
		}
	}
	return out
}

// Score returns a single numeric field, defaulting to 0.0 when missing
// or non-numeric rather than failing the whole write.
func Score(parsed map[string]any, field string) float64 {
	if f, ok := parsed[field].(float64); ok {
		return f
	}
	return 0.0
}
