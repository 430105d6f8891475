package models

import "encoding/json"

// AssistantEntry represents Claude's response with text and/or tool calls.
type AssistantEntry struct {
	RawJSON
	BaseEntry
	EnvelopeFields
	Message *Message `json:"message,omitempty"`
}

func (e AssistantEntry) MarshalJSON() ([]byte, error) {
	if len(e.Raw) > 0 {
		return e.Raw, nil
	}
	type Alias AssistantEntry
	return json.Marshal(Alias(e))
}
