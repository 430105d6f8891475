package transcript

import "github.com/maxdata/claude-code-log/transcript/models"

// SessionInfo aggregates per-session metadata from one load.
type SessionInfo struct {
	SessionID      string
	EntryCount     int
	FirstTimestamp string
	LastTimestamp  string
	FirstPrompt    string
	Summary        string
	IsSidechain    bool
}

// DisplayTitle returns the best available title for the session.
// Priority: summary > first user prompt > "Untitled".
func (s *SessionInfo) DisplayTitle() string {
	if s.Summary != "" {
		return s.Summary
	}
	if s.FirstPrompt != "" {
		return s.FirstPrompt
	}
	return "Untitled"
}

// BuildSessionIndex groups entries by session, in first-seen order.
// Summary entries are attached to the session that owns the entry
// their leafUuid references; a summary whose referent is absent from
// the load is dropped.
func BuildSessionIndex(entries []models.Entry) []*SessionInfo {
	var sessions []*SessionInfo
	byID := make(map[string]*SessionInfo)
	uuidToSession := make(map[string]string)

	for _, entry := range entries {
		if _, ok := entry.(*models.SummaryEntry); ok {
			continue
		}

		sessionID := entry.GetSessionID()
		info := byID[sessionID]
		if info == nil {
			info = &SessionInfo{SessionID: sessionID, FirstTimestamp: entry.GetTimestamp()}
			byID[sessionID] = info
			sessions = append(sessions, info)
		}

		info.EntryCount++
		if ts := entry.GetTimestamp(); ts != "" {
			if info.FirstTimestamp == "" {
				info.FirstTimestamp = ts
			}
			info.LastTimestamp = ts
		}
		if uuid := entry.GetUUID(); uuid != "" {
			uuidToSession[uuid] = sessionID
		}

		if user, ok := entry.(*models.UserEntry); ok {
			if info.FirstPrompt == "" && !user.IsCompactSummary {
				info.FirstPrompt = user.UserPrompt()
			}
			if user.Sidechain() {
				info.IsSidechain = true
			}
		}
	}

	for _, entry := range entries {
		summary, ok := entry.(*models.SummaryEntry)
		if !ok {
			continue
		}
		if sessionID, found := uuidToSession[summary.LeafUUID]; found {
			byID[sessionID].Summary = summary.Summary
		}
	}

	return sessions
}
