package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrNotJSONObject is returned by DecodeEntry for lines that are valid
// JSON but not objects.
var ErrNotJSONObject = errors.New("line is not a JSON object")

// UnrecognizedTypeError is returned for entry types this package does
// not model. Unknown future types are expected and never fatal.
type UnrecognizedTypeError struct {
	Type string
}

func (e *UnrecognizedTypeError) Error() string {
	return fmt.Sprintf("unrecognized entry type %q", e.Type)
}

// SchemaError is returned when a recognized entry type has invalid or
// missing fields.
type SchemaError struct {
	EntryType string
	Reason    string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s entry: %s", e.EntryType, e.Reason)
}

// DecodeEntry converts one transcript line into its typed Entry
// variant. The original bytes are retained for passthrough
// serialization. Unknown extra fields are ignored.
//
// Error cases: malformed JSON surfaces as a *json.SyntaxError,
// non-object lines as ErrNotJSONObject, unknown type tags as
// *UnrecognizedTypeError, and field-level problems as *SchemaError.
func DecodeEntry(data []byte) (Entry, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		// Distinguish malformed JSON from valid non-object JSON.
		var probe any
		if err := json.Unmarshal(trimmed, &probe); err != nil {
			return nil, err
		}
		return nil, ErrNotJSONObject
	}

	var typeOnly struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(trimmed, &typeOnly); err != nil {
		return nil, err
	}

	raw := make(json.RawMessage, len(trimmed))
	copy(raw, trimmed)

	switch typeOnly.Type {
	case "user":
		var entry UserEntry
		if err := json.Unmarshal(trimmed, &entry); err != nil {
			return nil, &SchemaError{EntryType: "user", Reason: err.Error()}
		}
		if entry.Message == nil {
			return nil, &SchemaError{EntryType: "user", Reason: "missing required field: message"}
		}
		entry.Raw = raw
		return &entry, nil

	case "assistant":
		var entry AssistantEntry
		if err := json.Unmarshal(trimmed, &entry); err != nil {
			return nil, &SchemaError{EntryType: "assistant", Reason: err.Error()}
		}
		if entry.Message == nil {
			return nil, &SchemaError{EntryType: "assistant", Reason: "missing required field: message"}
		}
		entry.Raw = raw
		return &entry, nil

	case "system":
		var entry SystemEntry
		if err := json.Unmarshal(trimmed, &entry); err != nil {
			return nil, &SchemaError{EntryType: "system", Reason: err.Error()}
		}
		entry.Raw = raw
		return &entry, nil

	case "summary":
		var entry SummaryEntry
		if err := json.Unmarshal(trimmed, &entry); err != nil {
			return nil, &SchemaError{EntryType: "summary", Reason: err.Error()}
		}
		if entry.Summary == "" {
			return nil, &SchemaError{EntryType: "summary", Reason: "missing required field: summary"}
		}
		if entry.LeafUUID == "" {
			return nil, &SchemaError{EntryType: "summary", Reason: "missing required field: leafUuid"}
		}
		entry.Raw = raw
		return &entry, nil

	default:
		return nil, &UnrecognizedTypeError{Type: typeOnly.Type}
	}
}

// timestampLayouts covers RFC3339 with and without fractional seconds
// plus offset-less wall-clock forms seen in older transcripts.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// ParseTimestamp parses an entry timestamp string. The boolean result
// is false for empty or unparseable values; callers treat those
// entries as filter-exempt rather than erroring.
func ParseTimestamp(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// Content returns the message content of a user or assistant entry,
// or nil for every other variant.
func Content(entry Entry) *MessageContent {
	switch e := entry.(type) {
	case *UserEntry:
		if e.Message != nil {
			return e.Message.Content
		}
	case *AssistantEntry:
		if e.Message != nil {
			return e.Message.Content
		}
	}
	return nil
}
