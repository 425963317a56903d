package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"
)

// decodeModelJSON parses a model response as a JSON object into dst. Models
// expose the payload in more than one textual shape (bare JSON, fenced code
// block, JSON embedded in prose); the probing lives here so stages only see a
// decoded value or a failure.
func decodeModelJSON(text string, dst any) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return fmt.Errorf("empty model response")
	}
	if err := json.Unmarshal([]byte(trimmed), dst); err == nil {
		return nil
	}
	if fenced, ok := stripFence(trimmed); ok {
		if err := json.Unmarshal([]byte(fenced), dst); err == nil {
			return nil
		}
	}
	// Last resort: the outermost object embedded in surrounding prose.
	start := strings.IndexByte(trimmed, '{')
	end := strings.LastIndexByte(trimmed, '}')
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(trimmed[start:end+1]), dst); err == nil {
			return nil
		}
	}
	return fmt.Errorf("response is not valid JSON")
}

// stripFence removes a surrounding ``` or ```json code fence.
func stripFence(s string) (string, bool) {
	if !strings.HasPrefix(s, "```") {
		return "", false
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s), true
}
