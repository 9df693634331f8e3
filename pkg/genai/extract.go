package genai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// ExtractJSON pulls a JSON object out of model output. Models asked for
// bare JSON still wrap it in markdown fences or surrounding prose often
// enough that callers should never parse raw output directly.
func ExtractJSON(text string) ([]byte, error) {
	cleaned := strings.TrimSpace(text)

	if idx := strings.Index(cleaned, "```json"); idx >= 0 {
		start := idx + len("```json")
		if end := strings.LastIndex(cleaned, "```"); end > start {
			cleaned = strings.TrimSpace(cleaned[start:end])
		}
	} else if idx := strings.Index(cleaned, "```"); idx >= 0 {
		start := idx + len("```")
		if end := strings.LastIndex(cleaned, "```"); end > start {
			cleaned = strings.TrimSpace(cleaned[start:end])
		}
	}

	if json.Valid([]byte(cleaned)) {
		return []byte(cleaned), nil
	}

	// The fence pass was not enough; grab the outermost brace pair.
	if match := jsonObjectPattern.FindString(cleaned); match != "" && json.Valid([]byte(match)) {
		return []byte(match), nil
	}

	return nil, fmt.Errorf("no JSON object found in model output")
}
