package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/maxdata/claude-code-log/datefilter"
	"github.com/maxdata/claude-code-log/transcript/models"
)

func newTestManager(t *testing.T, tag string) *Manager {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "cache")
	m, err := NewManager(dir, tag)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

func writeSource(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.jsonl")
	if err := os.WriteFile(path, []byte(lines), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return path
}

func testEntries(t *testing.T) []models.Entry {
	t.Helper()
	lines := []string{
		`{"type":"user","uuid":"u1","sessionId":"s1","timestamp":"2024-01-15T10:00:00Z","message":{"role":"user","content":"hello"}}`,
		`{"type":"assistant","uuid":"a1","sessionId":"s1","timestamp":"2024-01-15T10:01:00Z","message":{"role":"assistant","content":[{"type":"text","text":"hi"}]}}`,
		`{"type":"summary","summary":"greeting","leafUuid":"a1"}`,
	}
	var entries []models.Entry
	for _, line := range lines {
		entry, err := models.DecodeEntry([]byte(line))
		if err != nil {
			t.Fatalf("fixture decode: %v", err)
		}
		entries = append(entries, entry)
	}
	return entries
}

// =============================================================================
// Round Trip Tests
// =============================================================================

func TestManager_SaveLoadRoundTrip(t *testing.T) {
	m := newTestManager(t, "v1")
	source := writeSource(t, "line\n")
	entries := testEntries(t)

	if err := m.Save(source, entries); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, ok := m.Load(source)
	if !ok {
		t.Fatal("expected cache hit after save")
	}
	if len(loaded) != len(entries) {
		t.Fatalf("expected %d entries, got %d", len(entries), len(loaded))
	}
	for i := range entries {
		if loaded[i].GetType() != entries[i].GetType() {
			t.Errorf("entry %d: type %s, expected %s", i, loaded[i].GetType(), entries[i].GetType())
		}
		if loaded[i].GetUUID() != entries[i].GetUUID() {
			t.Errorf("entry %d: uuid %s, expected %s", i, loaded[i].GetUUID(), entries[i].GetUUID())
		}
	}

	// The typed variants survive the round trip.
	if _, ok := loaded[0].(*models.UserEntry); !ok {
		t.Errorf("expected *models.UserEntry, got %T", loaded[0])
	}
	if _, ok := loaded[2].(*models.SummaryEntry); !ok {
		t.Errorf("expected *models.SummaryEntry, got %T", loaded[2])
	}
}

func TestManager_MissOnUnknownSource(t *testing.T) {
	m := newTestManager(t, "v1")
	source := writeSource(t, "line\n")

	if _, ok := m.Load(source); ok {
		t.Error("expected miss for a source never saved")
	}
}

func TestManager_MissOnMissingSourceFile(t *testing.T) {
	m := newTestManager(t, "v1")

	if _, ok := m.Load(filepath.Join(t.TempDir(), "gone.jsonl")); ok {
		t.Error("expected miss when the source file does not exist")
	}
}

// =============================================================================
// Staleness Tests
// =============================================================================

func TestManager_StaleOnModification(t *testing.T) {
	m := newTestManager(t, "v1")
	source := writeSource(t, "original\n")

	if err := m.Save(source, testEntries(t)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Same size, different mtime.
	later := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(source, later, later); err != nil {
		t.Fatalf("Chtimes failed: %v", err)
	}

	if _, ok := m.Load(source); ok {
		t.Error("expected miss after mtime change")
	}
}

func TestManager_StaleOnSizeChange(t *testing.T) {
	m := newTestManager(t, "v1")
	source := writeSource(t, "original\n")

	if err := m.Save(source, testEntries(t)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	info, err := os.Stat(source)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(source, []byte("original plus more\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// Restore the saved mtime so only the size differs.
	if err := os.Chtimes(source, info.ModTime(), info.ModTime()); err != nil {
		t.Fatal(err)
	}

	if _, ok := m.Load(source); ok {
		t.Error("expected miss after size change")
	}
}

func TestManager_StaleOnVersionChange(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	source := writeSource(t, "line\n")

	m1, err := NewManager(dir, "tag-a")
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	if err := m1.Save(source, testEntries(t)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	m1.Close()

	m2, err := NewManager(dir, "tag-b")
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	defer m2.Close()

	if _, ok := m2.Load(source); ok {
		t.Error("expected miss under a different version tag")
	}
}

func TestManager_FreshRowSurvivesReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	source := writeSource(t, "line\n")

	m1, err := NewManager(dir, "v1")
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	if err := m1.Save(source, testEntries(t)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	m1.Close()

	m2, err := NewManager(dir, "v1")
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	defer m2.Close()

	loaded, ok := m2.Load(source)
	if !ok {
		t.Fatal("expected hit after reopen with same tag")
	}
	if len(loaded) != 3 {
		t.Errorf("expected 3 entries, got %d", len(loaded))
	}
}

// =============================================================================
// Filtered Load Tests
// =============================================================================

func TestManager_LoadFiltered(t *testing.T) {
	m := newTestManager(t, "v1")
	source := writeSource(t, "line\n")

	if err := m.Save(source, testEntries(t)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	rng, err := datefilter.NewRange("2024-01-15T10:01:00", "")
	if err != nil {
		t.Fatalf("NewRange failed: %v", err)
	}

	loaded, ok := m.LoadFiltered(source, rng)
	if !ok {
		t.Fatal("expected hit")
	}
	// The 10:00 user entry falls out; the assistant entry and the
	// timestamp-less summary remain.
	if len(loaded) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(loaded))
	}
	if loaded[0].GetUUID() != "a1" {
		t.Errorf("expected a1 first, got %s", loaded[0].GetUUID())
	}
}

// =============================================================================
// Maintenance Tests
// =============================================================================

func TestManager_Invalidate(t *testing.T) {
	m := newTestManager(t, "v1")
	source := writeSource(t, "line\n")

	if err := m.Save(source, testEntries(t)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := m.Invalidate(source); err != nil {
		t.Fatalf("Invalidate failed: %v", err)
	}
	if _, ok := m.Load(source); ok {
		t.Error("expected miss after invalidation")
	}
}

func TestManager_PurgeAndStats(t *testing.T) {
	m := newTestManager(t, "v1")
	a := writeSource(t, "a\n")
	b := writeSource(t, "b\n")

	if err := m.Save(a, testEntries(t)); err != nil {
		t.Fatal(err)
	}
	if err := m.Save(b, testEntries(t)[:1]); err != nil {
		t.Fatal(err)
	}

	stats, err := m.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Sources != 2 {
		t.Errorf("expected 2 sources, got %d", stats.Sources)
	}
	if stats.Entries != 4 {
		t.Errorf("expected 4 entries, got %d", stats.Entries)
	}
	if stats.TotalBytes <= 0 {
		t.Error("expected positive blob size")
	}

	if err := m.Purge(); err != nil {
		t.Fatalf("Purge failed: %v", err)
	}
	stats, err = m.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Sources != 0 || stats.Entries != 0 {
		t.Errorf("purge left %d sources / %d entries", stats.Sources, stats.Entries)
	}
}

func TestManager_Version(t *testing.T) {
	m := newTestManager(t, "abc")
	want := "schema:1|abc"
	if m.Version() != want {
		t.Errorf("expected version %q, got %q", want, m.Version())
	}
}
