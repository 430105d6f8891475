package models

import "encoding/json"

// Content block type tags as they appear on the wire.
const (
	ContentTypeText       = "text"
	ContentTypeThinking   = "thinking"
	ContentTypeToolUse    = "tool_use"
	ContentTypeToolResult = "tool_result"
	ContentTypeImage      = "image"
)

// ContentBlock represents one content item in a message. The Type tag
// selects which of the remaining fields are meaningful:
//   - "text": Text
//   - "thinking": Thinking, Signature
//   - "tool_use": ID, Name, Input
//   - "tool_result": ToolUseID, Content, IsError
//   - "image": Source
type ContentBlock struct {
	Type      string          `json:"type"`
	Text      string          `json:"text,omitempty"`
	Thinking  string          `json:"thinking,omitempty"`
	Signature string          `json:"signature,omitempty"`
	ID        string          `json:"id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Input     map[string]any  `json:"input,omitempty"`
	ToolUseID string          `json:"tool_use_id,omitempty"`
	Content   json.RawMessage `json:"content,omitempty"`
	IsError   *bool           `json:"is_error,omitempty"`
	Source    json.RawMessage `json:"source,omitempty"`
}

// IsToolActivity reports whether the block counts as tool activity for
// span classification: tool calls, tool results, thinking, and images.
func (b ContentBlock) IsToolActivity() bool {
	switch b.Type {
	case ContentTypeToolUse, ContentTypeToolResult, ContentTypeThinking, ContentTypeImage:
		return true
	}
	return false
}
