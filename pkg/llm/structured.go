package llm

import (
	"encoding/json"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// ProsCons is the per-review shape the extraction prompt asks for.
type ProsCons struct {
	Pros []string `json:"pros"`
	Cons []string `json:"cons"`
}

// Themes is the shape the grouping prompt asks for.
type Themes struct {
	CommonPros []string `json:"common_pros"`
	CommonCons []string `json:"common_cons"`
}

// ParseExtraction reads extraction output leniently. ok is false when the text
// cannot be read as a list of pros/cons records even after repair; callers
// then keep using the raw text.
func ParseExtraction(text string) (items []ProsCons, ok bool) {
	content := cleanJSONResponse(text, '[', ']')
	if !decodeLenient(content, &items) {
		return nil, false
	}
	return items, true
}

// ParseThemes reads grouping output leniently, see ParseExtraction. An object
// carrying neither common_pros nor common_cons is not a grouping.
func ParseThemes(text string) (*Themes, bool) {
	var themes Themes
	content := cleanJSONResponse(text, '{', '}')
	if !decodeLenient(content, &themes) {
		return nil, false
	}
	if themes.CommonPros == nil && themes.CommonCons == nil {
		return nil, false
	}
	return &themes, true
}

func decodeLenient(content string, v any) bool {
	if content == "" {
		return false
	}
	if json.Unmarshal([]byte(content), v) == nil {
		return true
	}

	repaired, err := jsonrepair.JSONRepair(content)
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(repaired), v) == nil
}

func cleanJSONResponse(content string, openDelim, closeDelim byte) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	// Some model responses include extra prose around JSON.
	start := strings.IndexByte(content, openDelim)
	end := strings.LastIndexByte(content, closeDelim)
	if start >= 0 && end > start {
		content = content[start : end+1]
	}
	return content
}
