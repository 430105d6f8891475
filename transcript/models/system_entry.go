package models

import "encoding/json"

// SystemEntry represents system events (compaction, init, turn_duration, etc).
type SystemEntry struct {
	RawJSON
	BaseEntry
	EnvelopeFields
	Subtype string `json:"subtype,omitempty"`
	Content string `json:"content,omitempty"`
	Level   string `json:"level,omitempty"`
	IsMeta  *bool  `json:"isMeta,omitempty"`
}

func (e SystemEntry) MarshalJSON() ([]byte, error) {
	if len(e.Raw) > 0 {
		return e.Raw, nil
	}
	type Alias SystemEntry
	return json.Marshal(Alias(e))
}
