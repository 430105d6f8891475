package db

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
)

func TestOpen_AppliesMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cache.sqlite")

	d, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer d.Close()

	version, err := d.CurrentVersion()
	if err != nil {
		t.Fatalf("CurrentVersion failed: %v", err)
	}
	if version < 1 {
		t.Errorf("expected at least migration 1 applied, got %d", version)
	}

	// The transcript cache table exists and is queryable.
	var count int
	if err := d.QueryRow("SELECT COUNT(*) FROM transcript_cache").Scan(&count); err != nil {
		t.Fatalf("transcript_cache missing: %v", err)
	}
	if count != 0 {
		t.Errorf("expected empty table, got %d rows", count)
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.sqlite")

	d1, err := Open(path)
	if err != nil {
		t.Fatalf("first Open failed: %v", err)
	}
	v1, err := d1.CurrentVersion()
	if err != nil {
		t.Fatal(err)
	}
	d1.Close()

	d2, err := Open(path)
	if err != nil {
		t.Fatalf("second Open failed: %v", err)
	}
	defer d2.Close()

	v2, err := d2.CurrentVersion()
	if err != nil {
		t.Fatal(err)
	}
	if v1 != v2 {
		t.Errorf("reopen changed schema version: %d vs %d", v1, v2)
	}
}

func TestTransaction_RollbackOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.sqlite")

	d, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer d.Close()

	sentinel := errors.New("sentinel")
	err = d.Transaction(func(tx *sql.Tx) error {
		if _, execErr := tx.Exec(
			`INSERT INTO transcript_cache (source_path, version, mtime_ns, size_bytes, entry_count, entries, saved_at) VALUES ('x', 'v', 0, 0, 0, X'', '')`,
		); execErr != nil {
			return execErr
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got %v", err)
	}

	var count int
	if err := d.QueryRow("SELECT COUNT(*) FROM transcript_cache").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("rollback left %d rows behind", count)
	}
}
