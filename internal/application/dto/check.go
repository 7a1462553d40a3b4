package dto

import "time"

// CheckPromptRequest is the input of a bracket check.
type CheckPromptRequest struct {
	FieldID string `json:"field_id,omitempty"`
	Text    string `json:"text"`
	// EscapePolicy overrides the configured policy for this request when set.
	EscapePolicy string `json:"escape_policy,omitempty"`
}

// CheckIssue is a structured imbalance.
type CheckIssue struct {
	BracketKind string `json:"bracket_kind" yaml:"bracket_kind"`
	Label       string `json:"label" yaml:"label"`
	Escaped     bool   `json:"escaped" yaml:"escaped"`
	Type        string `json:"type" yaml:"type"`
	Count       int    `json:"count,omitempty" yaml:"count,omitempty"`
	Message     string `json:"message" yaml:"message"`
}

// CheckPromptResponse is the result of a bracket check. Tooltip holds the
// messages joined by newlines and HasErrors drives the error indicator.
type CheckPromptResponse struct {
	FieldID      string       `json:"field_id,omitempty" yaml:"field_id,omitempty"`
	EscapePolicy string       `json:"escape_policy" yaml:"escape_policy"`
	HasErrors    bool         `json:"has_errors" yaml:"has_errors"`
	Messages     []string     `json:"messages" yaml:"messages"`
	Tooltip      string       `json:"tooltip" yaml:"tooltip"`
	Issues       []CheckIssue `json:"issues,omitempty" yaml:"issues,omitempty"`
	CheckedAt    time.Time    `json:"checked_at" yaml:"checked_at"`
	EventID      string       `json:"event_id,omitempty" yaml:"event_id,omitempty"`
}

// EditEvent notifies that a field's text changed.
type EditEvent struct {
	EventID   string    `json:"event_id"`
	FieldID   string    `json:"field_id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}
