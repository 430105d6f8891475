// Package cache persists parsed transcript entries between runs so
// unchanged sources never get re-parsed. Staleness is determined by
// source modification state and a format/version tag; any mismatch is
// a miss, never a partial hit.
package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/maxdata/claude-code-log/datefilter"
	"github.com/maxdata/claude-code-log/db"
	"github.com/maxdata/claude-code-log/log"
	"github.com/maxdata/claude-code-log/transcript"
	"github.com/maxdata/claude-code-log/transcript/models"
)

// schemaVersion is bumped whenever the cached entry encoding changes;
// it invalidates every prior row.
const schemaVersion = 1

// Manager is the cache gateway, scoped to one directory and version
// tag. It tolerates concurrent readers of the same source; writers are
// serialized by the underlying single-writer sqlite handle.
type Manager struct {
	db      *db.DB
	dir     string
	version string
	logger  zerolog.Logger
}

var _ transcript.Cache = (*Manager)(nil)

// NewManager opens (creating if needed) the cache database under dir.
// Changing versionTag invalidates all prior cache entries.
func NewManager(dir, versionTag string) (*Manager, error) {
	database, err := db.Open(filepath.Join(dir, "cache.sqlite"))
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}

	return &Manager{
		db:      database,
		dir:     dir,
		version: fmt.Sprintf("schema:%d|%s", schemaVersion, versionTag),
		logger:  log.GetLogger("cache"),
	}, nil
}

// Version returns the opaque tag rows are stamped with.
func (m *Manager) Version() string { return m.version }

// Close releases the underlying database handle.
func (m *Manager) Close() error { return m.db.Close() }

// Load returns the cached entry sequence for source if the source is
// unchanged since it was saved and the version tag matches.
func (m *Manager) Load(source string) ([]models.Entry, bool) {
	key, info, err := m.sourceState(source)
	if err != nil {
		return nil, false
	}

	var (
		version string
		mtimeNS int64
		size    int64
		blob    []byte
	)
	err = m.db.QueryRow(
		`SELECT version, mtime_ns, size_bytes, entries FROM transcript_cache WHERE source_path = ?`,
		key,
	).Scan(&version, &mtimeNS, &size, &blob)
	if err != nil {
		if err != sql.ErrNoRows {
			m.logger.Warn().Err(err).Str("source", source).Msg("cache read failed")
		}
		return nil, false
	}

	if version != m.version || mtimeNS != info.ModTime().UnixNano() || size != info.Size() {
		return nil, false
	}

	entries, err := decodeEntries(blob)
	if err != nil {
		m.logger.Warn().Err(err).Str("source", source).Msg("discarding undecodable cache row")
		return nil, false
	}
	return entries, true
}

// LoadFiltered serves a date-filtered subset of a cached source. Rows
// always hold the complete parse, so a fresh row covers any requested
// window; the filter is applied before returning.
func (m *Manager) LoadFiltered(source string, rng *datefilter.Range) ([]models.Entry, bool) {
	entries, ok := m.Load(source)
	if !ok {
		return nil, false
	}
	return rng.Apply(entries), true
}

// Save persists the full parsed result for source. The write is a
// single transaction: either the whole row lands or nothing does.
func (m *Manager) Save(source string, entries []models.Entry) error {
	key, info, err := m.sourceState(source)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	blob, err := encodeEntries(entries)
	if err != nil {
		return fmt.Errorf("encode entries: %w", err)
	}

	return m.db.Transaction(func(tx *sql.Tx) error {
		_, err := tx.Exec(
			`INSERT OR REPLACE INTO transcript_cache
				(source_path, version, mtime_ns, size_bytes, entry_count, entries, saved_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			key,
			m.version,
			info.ModTime().UnixNano(),
			info.Size(),
			len(entries),
			blob,
			time.Now().UTC().Format(time.RFC3339),
		)
		return err
	})
}

// Invalidate drops the cached row for source, if any.
func (m *Manager) Invalidate(source string) error {
	key, err := filepath.Abs(source)
	if err != nil {
		key = source
	}
	_, err = m.db.Exec(`DELETE FROM transcript_cache WHERE source_path = ?`, key)
	return err
}

// Purge drops every cached row.
func (m *Manager) Purge() error {
	_, err := m.db.Exec(`DELETE FROM transcript_cache`)
	return err
}

// Stats summarizes cache contents.
type Stats struct {
	Sources    int
	Entries    int
	TotalBytes int64
}

// Stats reports the number of cached sources, total cached entries,
// and total blob size.
func (m *Manager) Stats() (Stats, error) {
	var s Stats
	err := m.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(entry_count), 0), COALESCE(SUM(LENGTH(entries)), 0) FROM transcript_cache`,
	).Scan(&s.Sources, &s.Entries, &s.TotalBytes)
	return s, err
}

// sourceState resolves the cache key and current modification state of
// a source file.
func (m *Manager) sourceState(source string) (string, os.FileInfo, error) {
	key, err := filepath.Abs(source)
	if err != nil {
		return "", nil, err
	}
	info, err := os.Stat(key)
	if err != nil {
		return "", nil, err
	}
	return key, info, nil
}

// encodeEntries serializes entries as a JSON array of their raw wire
// forms.
func encodeEntries(entries []models.Entry) ([]byte, error) {
	raws := make([]json.RawMessage, 0, len(entries))
	for _, entry := range entries {
		raw, err := entry.MarshalJSON()
		if err != nil {
			return nil, err
		}
		raws = append(raws, raw)
	}
	return json.Marshal(raws)
}

// decodeEntries is the inverse of encodeEntries. Any per-entry decode
// failure poisons the whole row: a cache must never return an
// incomplete sequence.
func decodeEntries(blob []byte) ([]models.Entry, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(blob, &raws); err != nil {
		return nil, err
	}

	entries := make([]models.Entry, 0, len(raws))
	for i, raw := range raws {
		entry, err := models.DecodeEntry(raw)
		if err != nil {
			return nil, fmt.Errorf("cached entry %d: %w", i, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
