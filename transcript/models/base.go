package models

// BaseEntry contains fields common to all entry types.
type BaseEntry struct {
	Type       string  `json:"type"`
	UUID       string  `json:"uuid,omitempty"`
	ParentUUID *string `json:"parentUuid,omitempty"`
	Timestamp  string  `json:"timestamp,omitempty"`
}

// GetType returns the entry type.
func (e BaseEntry) GetType() string { return e.Type }

// GetUUID returns the entry UUID.
func (e BaseEntry) GetUUID() string { return e.UUID }

// GetTimestamp returns the ISO-8601 timestamp string, if any.
func (e BaseEntry) GetTimestamp() string { return e.Timestamp }

// EnvelopeFields contains optional fields that may appear on any
// non-summary entry.
type EnvelopeFields struct {
	IsSidechain *bool  `json:"isSidechain,omitempty"`
	UserType    string `json:"userType,omitempty"`
	CWD         string `json:"cwd,omitempty"`
	SessionID   string `json:"sessionId,omitempty"`
	Version     string `json:"version,omitempty"`
	GitBranch   string `json:"gitBranch,omitempty"`
	RequestID   string `json:"requestId,omitempty"`
	AgentID     string `json:"agentId,omitempty"`
}

// GetSessionID returns the owning session id, if any.
func (e EnvelopeFields) GetSessionID() string { return e.SessionID }

// Sidechain reports whether the entry belongs to a nested sub-assistant
// exchange rather than the primary conversation.
func (e EnvelopeFields) Sidechain() bool {
	return e.IsSidechain != nil && *e.IsSidechain
}
