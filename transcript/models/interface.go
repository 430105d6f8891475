package models

import "encoding/json"

// Entry is implemented by all transcript entry types.
type Entry interface {
	json.Marshaler
	GetType() string
	GetUUID() string
	GetSessionID() string
	GetTimestamp() string
}

// Ensure all types implement Entry
var (
	_ Entry = (*UserEntry)(nil)
	_ Entry = (*AssistantEntry)(nil)
	_ Entry = (*SystemEntry)(nil)
	_ Entry = (*SummaryEntry)(nil)
)
