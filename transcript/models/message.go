package models

import (
	"encoding/json"
	"strings"
)

// Message represents the API-level message carried by a user or
// assistant entry. User content arrives as either a plain string or a
// content block list; assistant content is always a block list.
type Message struct {
	Role         string          `json:"role,omitempty"`
	Content      *MessageContent `json:"content,omitempty"`
	Model        string          `json:"model,omitempty"`
	ID           string          `json:"id,omitempty"`
	Type         string          `json:"type,omitempty"`
	StopReason   *string         `json:"stop_reason,omitempty"`
	StopSequence *string         `json:"stop_sequence,omitempty"`
	Usage        *TokenUsage     `json:"usage,omitempty"`
}

// TokenUsage represents token usage statistics
type TokenUsage struct {
	InputTokens              int    `json:"input_tokens,omitempty"`
	OutputTokens             int    `json:"output_tokens,omitempty"`
	CacheCreationInputTokens int    `json:"cache_creation_input_tokens,omitempty"`
	CacheReadInputTokens     int    `json:"cache_read_input_tokens,omitempty"`
	ServiceTier              string `json:"service_tier,omitempty"`
}

// MessageContent is the string-or-blocks union for message content.
// Exactly one of Text/Blocks is populated, selected by the wire shape.
type MessageContent struct {
	Text   string
	Blocks []ContentBlock

	isText bool
}

// TextContent builds a plain-string content value.
func TextContent(text string) *MessageContent {
	return &MessageContent{Text: text, isText: true}
}

// BlockContent builds a content-block-list value.
func BlockContent(blocks ...ContentBlock) *MessageContent {
	return &MessageContent{Blocks: blocks}
}

// IsText reports whether the wire value was a plain string.
func (c *MessageContent) IsText() bool { return c.isText }

func (c *MessageContent) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		c.Text = asString
		c.isText = true
		c.Blocks = nil
		return nil
	}

	var blocks []ContentBlock
	if err := json.Unmarshal(data, &blocks); err != nil {
		return err
	}
	c.Blocks = blocks
	c.isText = false
	c.Text = ""
	return nil
}

func (c MessageContent) MarshalJSON() ([]byte, error) {
	if c.isText {
		return json.Marshal(c.Text)
	}
	return json.Marshal(c.Blocks)
}

// PlainText extracts the human-readable text: the string itself for
// plain content, or the text blocks joined with newlines. Thinking
// blocks are skipped.
func (c *MessageContent) PlainText() string {
	if c == nil {
		return ""
	}
	if c.isText {
		return c.Text
	}

	var parts []string
	for _, block := range c.Blocks {
		if block.Type == ContentTypeText {
			parts = append(parts, block.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// HasToolActivity reports whether any block is tool use, tool result,
// thinking, or image content. Plain-string content never qualifies.
func (c *MessageContent) HasToolActivity() bool {
	if c == nil || c.isText {
		return false
	}
	for _, block := range c.Blocks {
		if block.IsToolActivity() {
			return true
		}
	}
	return false
}

// HasTodoWrite reports whether any block is a tool_use named exactly
// "TodoWrite".
func (c *MessageContent) HasTodoWrite() bool {
	if c == nil || c.isText {
		return false
	}
	for _, block := range c.Blocks {
		if block.Type == ContentTypeToolUse && block.Name == "TodoWrite" {
			return true
		}
	}
	return false
}
