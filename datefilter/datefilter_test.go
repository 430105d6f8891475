package datefilter

import (
	"errors"
	"testing"
	"time"

	"github.com/maxdata/claude-code-log/transcript/models"
)

// wall is the offset-less layout used to build fixture timestamps, so
// the naive comparison sees exactly the wall-clock values written here.
const wall = "2006-01-02T15:04:05"

func entryAt(t *testing.T, uuid, ts string) models.Entry {
	t.Helper()
	line := `{"type":"user","uuid":"` + uuid + `","sessionId":"s1","timestamp":"` + ts + `","message":{"role":"user","content":"x"}}`
	entry, err := models.DecodeEntry([]byte(line))
	if err != nil {
		t.Fatalf("fixture decode: %v", err)
	}
	return entry
}

func uuids(entries []models.Entry) []string {
	var out []string
	for _, e := range entries {
		out = append(out, e.GetUUID())
	}
	return out
}

// =============================================================================
// Filter Tests
// =============================================================================

func TestFilter_EmptyExpressionsAreIdentity(t *testing.T) {
	entries := []models.Entry{
		entryAt(t, "u1", "2024-01-15T10:00:00Z"),
		entryAt(t, "u2", ""),
	}

	filtered, err := Filter(entries, "", "")
	if err != nil {
		t.Fatalf("Filter failed: %v", err)
	}
	if len(filtered) != 2 {
		t.Errorf("identity filter dropped entries: got %d", len(filtered))
	}
}

func TestFilter_AbsoluteRangeInclusive(t *testing.T) {
	entries := []models.Entry{
		entryAt(t, "before", "2024-01-14T23:59:59"),
		entryAt(t, "start", "2024-01-15T00:00:00"),
		entryAt(t, "inside", "2024-01-15T12:00:00"),
		entryAt(t, "after", "2024-01-16T00:00:01"),
	}

	filtered, err := Filter(entries, "2024-01-15T00:00:00", "2024-01-15T23:59:59")
	if err != nil {
		t.Fatalf("Filter failed: %v", err)
	}

	got := uuids(filtered)
	want := []string{"start", "inside"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %v, got %v", want, got)
		}
	}
}

func TestFilter_YesterdayCoversWholeDay(t *testing.T) {
	now := time.Now()
	yesterday := now.AddDate(0, 0, -1)
	dayBefore := now.AddDate(0, 0, -2)

	startOfYesterday := time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(), 0, 0, 0, 0, time.Local)
	endOfDayBefore := time.Date(dayBefore.Year(), dayBefore.Month(), dayBefore.Day(), 23, 59, 59, 0, time.Local)

	entries := []models.Entry{
		entryAt(t, "edge", startOfYesterday.Format(wall)),
		entryAt(t, "too-old", endOfDayBefore.Format(wall)),
	}

	filtered, err := Filter(entries, "yesterday", "")
	if err != nil {
		t.Fatalf("Filter failed: %v", err)
	}

	got := uuids(filtered)
	if len(got) != 1 || got[0] != "edge" {
		t.Errorf("expected only the midnight edge entry, got %v", got)
	}
}

func TestFilter_TodayAsEndBound(t *testing.T) {
	now := time.Now()
	tomorrow := now.AddDate(0, 0, 1)

	entries := []models.Entry{
		entryAt(t, "now", now.Format(wall)),
		entryAt(t, "future", tomorrow.Format(wall)),
	}

	filtered, err := Filter(entries, "", "today")
	if err != nil {
		t.Fatalf("Filter failed: %v", err)
	}

	got := uuids(filtered)
	if len(got) != 1 || got[0] != "now" {
		t.Errorf("expected only today's entry, got %v", got)
	}
}

func TestFilter_DaysAgoExpression(t *testing.T) {
	now := time.Now()
	threeDaysAgo := now.AddDate(0, 0, -3)
	fourDaysAgo := now.AddDate(0, 0, -4)

	entries := []models.Entry{
		entryAt(t, "kept", threeDaysAgo.Format(wall)),
		entryAt(t, "dropped", fourDaysAgo.Format(wall)),
	}

	filtered, err := Filter(entries, "3 days ago", "")
	if err != nil {
		t.Fatalf("Filter failed: %v", err)
	}

	got := uuids(filtered)
	if len(got) != 1 || got[0] != "kept" {
		t.Errorf("expected only the 3-days-ago entry, got %v", got)
	}
}

func TestFilter_SummariesAlwaysRetained(t *testing.T) {
	summary, err := models.DecodeEntry([]byte(`{"type":"summary","summary":"s","leafUuid":"l"}`))
	if err != nil {
		t.Fatalf("fixture decode: %v", err)
	}

	entries := []models.Entry{
		summary,
		entryAt(t, "old", "2020-01-01T00:00:00Z"),
	}

	filtered, err := Filter(entries, "2024-01-01", "")
	if err != nil {
		t.Fatalf("Filter failed: %v", err)
	}
	if len(filtered) != 1 {
		t.Fatalf("expected only the summary, got %d entries", len(filtered))
	}
	if _, ok := filtered[0].(*models.SummaryEntry); !ok {
		t.Error("summary entry must survive filtering")
	}
}

func TestFilter_UnparseableTimestampsDropSilently(t *testing.T) {
	entries := []models.Entry{
		entryAt(t, "missing", ""),
		entryAt(t, "garbage", "last tuesday-ish"),
		entryAt(t, "valid", "2024-06-01T12:00:00Z"),
	}

	filtered, err := Filter(entries, "2024-01-01", "2024-12-31")
	if err != nil {
		t.Fatalf("Filter failed: %v", err)
	}

	got := uuids(filtered)
	if len(got) != 1 || got[0] != "valid" {
		t.Errorf("expected only the valid entry, got %v", got)
	}
}

func TestFilter_InvalidExpressionIsFatal(t *testing.T) {
	entries := []models.Entry{entryAt(t, "u1", "2024-01-15T10:00:00Z")}

	_, err := Filter(entries, "definitely not a date", "")
	if err == nil {
		t.Fatal("expected error")
	}
	var invalid *InvalidDateExpressionError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected *InvalidDateExpressionError, got %T", err)
	}
	if invalid.Expression != "definitely not a date" {
		t.Errorf("error must carry the offending expression, got %q", invalid.Expression)
	}
}

func TestFilter_TimezoneOffsetsIgnored(t *testing.T) {
	// Same wall-clock reading in two zones; both compare equal naive.
	entries := []models.Entry{
		entryAt(t, "utc", "2024-01-15T10:00:00Z"),
		entryAt(t, "offset", "2024-01-15T10:00:00+09:00"),
	}

	filtered, err := Filter(entries, "2024-01-15T10:00:00", "2024-01-15T10:00:00")
	if err != nil {
		t.Fatalf("Filter failed: %v", err)
	}
	if len(filtered) != 2 {
		t.Errorf("expected both entries with equal wall-clock readings, got %d", len(filtered))
	}
}

func TestNewRange_RejectsUnmatchedExpressions(t *testing.T) {
	// naturaldate returns its base time with no error for input it
	// cannot match; these must still surface as fatal errors.
	for _, expr := range []string{
		"definitely not a date",
		"garbage",
		"xyzzy 42",
		"the day the music died",
	} {
		_, err := NewRange(expr, "")
		var invalid *InvalidDateExpressionError
		if !errors.As(err, &invalid) {
			t.Errorf("NewRange(%q): expected *InvalidDateExpressionError, got %v", expr, err)
			continue
		}
		if invalid.Expression != expr {
			t.Errorf("NewRange(%q): error carries expression %q", expr, invalid.Expression)
		}

		if _, err := NewRange("", expr); err == nil {
			t.Errorf("NewRange to=%q: expected error", expr)
		}
	}
}

func TestNewRange_BaseInstantExpressionsResolve(t *testing.T) {
	// "now" and "today" legitimately land on the parse base and must
	// not be mistaken for unmatched input.
	for _, expr := range []string{"now", "today", "yesterday", "2 days ago"} {
		rng, err := NewRange(expr, "")
		if err != nil {
			t.Errorf("NewRange(%q) failed: %v", expr, err)
			continue
		}
		if rng.From == nil {
			t.Errorf("NewRange(%q): expected a resolved from bound", expr)
		}
	}
}

// =============================================================================
// Range Tests
// =============================================================================

func TestNewRange_OpenBounds(t *testing.T) {
	rng, err := NewRange("", "")
	if err != nil {
		t.Fatalf("NewRange failed: %v", err)
	}
	if rng.From != nil || rng.To != nil {
		t.Error("empty expressions must leave both bounds open")
	}
}

func TestRange_NilApplyIsIdentity(t *testing.T) {
	entries := []models.Entry{entryAt(t, "u1", "bogus")}

	var rng *Range
	if got := rng.Apply(entries); len(got) != 1 {
		t.Errorf("nil range must pass everything through, got %d", len(got))
	}
}
