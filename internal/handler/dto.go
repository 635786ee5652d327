package handler

import "reviewsense/pkg/llm"

type SummaryResponse struct {
	RunID      string              `json:"run_id"`
	State      string              `json:"state"`
	Extraction string              `json:"extraction,omitempty"`
	Grouping   string              `json:"grouping,omitempty"`
	Summary    string              `json:"summary,omitempty"`
	Error      string              `json:"error,omitempty"`
	Durations  map[string]int64    `json:"durations_ms"`
	Structured *StructuredResponse `json:"structured,omitempty"`
}

// StructuredResponse holds the stage outputs that could be read as JSON.
// A nil field means the raw text is all there is.
type StructuredResponse struct {
	Extraction []llm.ProsCons `json:"extraction,omitempty"`
	Grouping   *llm.Themes    `json:"grouping,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
