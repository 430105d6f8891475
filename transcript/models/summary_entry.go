package models

import "encoding/json"

// SummaryEntry contains a Claude-generated session summary. It carries
// no sessionId or timestamp; LeafUUID is a weak back-reference to the
// entry it summarizes, which may be absent from the current load.
type SummaryEntry struct {
	RawJSON
	BaseEntry
	Summary  string `json:"summary,omitempty"`
	LeafUUID string `json:"leafUuid,omitempty"`
}

func (e SummaryEntry) MarshalJSON() ([]byte, error) {
	if len(e.Raw) > 0 {
		return e.Raw, nil
	}
	type Alias SummaryEntry
	return json.Marshal(Alias(e))
}

// GetSessionID always returns "" — summaries do not belong to a session.
func (e SummaryEntry) GetSessionID() string { return "" }
