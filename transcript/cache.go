package transcript

import (
	"github.com/maxdata/claude-code-log/datefilter"
	"github.com/maxdata/claude-code-log/transcript/models"
)

// Cache is the gateway consulted before and after parsing a source.
// Implementations must never serve stale or mismatched data: any doubt
// about source modification state or cache format version is a miss.
type Cache interface {
	// Load returns the previously cached, fully parsed entry sequence
	// for an unchanged source. The boolean result is false on miss.
	Load(source string) ([]models.Entry, bool)

	// LoadFiltered is Load narrowed to a date range. It may serve a
	// precomputed subset only when the cache can prove the requested
	// range is covered; otherwise it must miss rather than risk
	// returning an incomplete window.
	LoadFiltered(source string, rng *datefilter.Range) ([]models.Entry, bool)

	// Save persists the full parsed result for future hits. Caching is
	// best-effort: callers log and swallow errors.
	Save(source string, entries []models.Entry) error

	// Version is an opaque tag; any change invalidates all prior
	// cache entries.
	Version() string
}
