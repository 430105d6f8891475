package models

import (
	"encoding/json"
	"regexp"
	"strings"
)

// UserEntry represents a user input or tool result record.
type UserEntry struct {
	RawJSON
	BaseEntry
	EnvelopeFields
	Message          *Message        `json:"message,omitempty"`
	ToolUseResult    json.RawMessage `json:"toolUseResult,omitempty"`
	IsCompactSummary bool            `json:"isCompactSummary,omitempty"`
}

func (e UserEntry) MarshalJSON() ([]byte, error) {
	if len(e.Raw) > 0 {
		return e.Raw, nil
	}
	type Alias UserEntry
	return json.Marshal(Alias(e))
}

// systemTagRe matches system-injected XML-like tags such as
// <system-reminder>, <ide_opened_file>, <command-name> and their bodies.
var systemTagRe = regexp.MustCompile(
	`(?s)<(system-reminder|ide_opened_file|ide_selection|ide_diagnostics|command-name|command-message|command-args|local-command-stdout)>.*?</[a-z_-]+>`)

// UserPrompt extracts the user-typed text from the message, filtering
// out system-injected tags.
func (e *UserEntry) UserPrompt() string {
	if e.Message == nil || e.Message.Content == nil {
		return ""
	}

	var texts []string
	appendFiltered := func(text string) {
		if filtered := strings.TrimSpace(systemTagRe.ReplaceAllString(text, "")); filtered != "" {
			texts = append(texts, filtered)
		}
	}

	content := e.Message.Content
	if content.IsText() {
		appendFiltered(content.Text)
	} else {
		for _, block := range content.Blocks {
			if block.Type == ContentTypeText {
				appendFiltered(block.Text)
			}
		}
	}

	return strings.Join(texts, "\n")
}
