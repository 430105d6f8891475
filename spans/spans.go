// Package spans groups a chronologically ordered entry sequence into
// labeled conversational units using conservative heuristics: a new
// span starts on a session change or a silence longer than the gap
// threshold.
package spans

import (
	"fmt"
	"strings"
	"time"

	"github.com/maxdata/claude-code-log/transcript/models"
)

// DefaultGapSeconds is the default silence threshold between adjacent
// same-session entries before a new span starts.
const DefaultGapSeconds = 600

// titleLimit caps derived span titles at 120 characters.
const titleLimit = 120

// Kind classifies what a span was mostly about.
type Kind string

const (
	KindTodo    Kind = "todo"
	KindTooling Kind = "tooling"
	KindSystem  Kind = "system"
	KindChat    Kind = "chat"
)

// Span is a read-only view over a contiguous run of non-summary
// entries belonging to one logical unit of activity. It indexes the
// entry sequence it was segmented from and is rebuilt on every
// segmentation call.
type Span struct {
	ID             string
	Title          string
	Kind           Kind
	StartIndex     int
	EndIndex       int
	EntryIndices   []int
	StartTimestamp string
	EndTimestamp   string
	SessionID      string
}

// member pairs an entry with its index in the input sequence, so span
// ids and indices stay stable regardless of how many summaries were
// interleaved.
type member struct {
	index int
	entry models.Entry
}

// Segment partitions entries into spans. Summary entries take no part;
// the remaining entries are assumed already in chronological order.
// The pass is deterministic and looks no further than one adjacent
// pair: a boundary is declared when the session changes, or when both
// neighbors carry parseable timestamps and the gap between them
// strictly exceeds gapSeconds. An unparseable timestamp on either side
// never triggers a gap boundary.
func Segment(entries []models.Entry, gapSeconds int) []Span {
	var seq []member
	for i, entry := range entries {
		if _, ok := entry.(*models.SummaryEntry); ok {
			continue
		}
		seq = append(seq, member{index: i, entry: entry})
	}
	if len(seq) == 0 {
		return nil
	}

	gap := time.Duration(gapSeconds) * time.Second

	var result []Span
	b := newBuilder(seq[0])

	for k := 1; k < len(seq); k++ {
		prev, cur := seq[k-1], seq[k]

		boundary := prev.entry.GetSessionID() != cur.entry.GetSessionID()
		if !boundary {
			prevT, prevOK := models.ParseTimestamp(prev.entry.GetTimestamp())
			curT, curOK := models.ParseTimestamp(cur.entry.GetTimestamp())
			if prevOK && curOK && curT.Sub(prevT) > gap {
				boundary = true
			}
		}

		if boundary {
			result = append(result, b.finalize())
			b = newBuilder(cur)
		} else {
			b.fold(cur)
		}
	}

	return append(result, b.finalize())
}

// builder is the mutable accumulator for one open span. It is scoped
// to a single Segment call and finalized into an immutable Span at
// each boundary.
type builder struct {
	startIndex int
	endIndex   int
	indices    []int
	sessionID  string
	startTS    string
	endTS      string

	hasTooling bool
	hasTodo    bool
	allSystem  bool

	// title locks on the first non-empty user text; assistantTitle is
	// only a fallback applied at finalize, so a later user message
	// still wins over earlier assistant chatter.
	title          string
	titleSet       bool
	assistantTitle string
}

func newBuilder(first member) *builder {
	b := &builder{
		startIndex: first.index,
		endIndex:   first.index,
		sessionID:  first.entry.GetSessionID(),
		startTS:    first.entry.GetTimestamp(),
		allSystem:  true,
	}
	b.fold(first)
	return b
}

func (b *builder) fold(m member) {
	b.endIndex = m.index
	b.indices = append(b.indices, m.index)
	b.endTS = m.entry.GetTimestamp()

	content := models.Content(m.entry)
	if content.HasToolActivity() {
		b.hasTooling = true
	}
	if content.HasTodoWrite() {
		b.hasTodo = true
	}
	if m.entry.GetType() != "system" {
		b.allSystem = false
	}

	if !b.titleSet && m.entry.GetType() == "user" {
		if text := titleText(content); text != "" {
			b.title = text
			b.titleSet = true
		}
	}
	if !b.titleSet && b.assistantTitle == "" && m.entry.GetType() == "assistant" {
		b.assistantTitle = titleText(content)
	}
}

func (b *builder) finalize() Span {
	var kind Kind
	switch {
	case b.hasTodo:
		kind = KindTodo
	case b.hasTooling:
		kind = KindTooling
	case b.allSystem:
		kind = KindSystem
	default:
		kind = KindChat
	}

	title := b.title
	if title == "" {
		title = b.assistantTitle
	}

	idSession := b.sessionID
	if idSession == "" {
		idSession = "span"
	}

	return Span{
		ID:             fmt.Sprintf("%s-%d-%d", idSession, b.startIndex, b.endIndex),
		Title:          title,
		Kind:           kind,
		StartIndex:     b.startIndex,
		EndIndex:       b.endIndex,
		EntryIndices:   b.indices,
		StartTimestamp: b.startTS,
		EndTimestamp:   b.endTS,
		SessionID:      b.sessionID,
	}
}

// titleText derives a title candidate: the first line of the content's
// text, capped at 120 characters.
func titleText(content *models.MessageContent) string {
	text := strings.TrimSpace(content.PlainText())
	if text == "" {
		return ""
	}
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		text = strings.TrimRight(text[:idx], "\r")
	}
	if runes := []rune(text); len(runes) > titleLimit {
		return string(runes[:titleLimit])
	}
	return text
}
