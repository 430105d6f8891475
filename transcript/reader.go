// Package transcript reads line-delimited JSON transcripts of Claude
// Code sessions and reconstructs their typed entry structure.
package transcript

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/maxdata/claude-code-log/datefilter"
	"github.com/maxdata/claude-code-log/log"
	"github.com/maxdata/claude-code-log/transcript/models"
)

// directoryWorkers bounds the fan-out of a directory load. Sources are
// independent; the merge and sort afterwards is the only
// synchronization point.
const directoryWorkers = 4

// LoadOptions narrows a load. From/To are natural-language date
// expressions; empty means unbounded.
type LoadOptions struct {
	From string
	To   string
}

// LoadResult is the best-effort outcome of a load: the entries that
// parsed plus the diagnostics for everything that was skipped.
type LoadResult struct {
	Entries     []models.Entry
	Diagnostics []Diagnostic
}

// Reader is the ingestion engine. The cache is optional; a nil cache
// means every load parses from source.
type Reader struct {
	cache  Cache
	logger zerolog.Logger
}

// NewReader creates a Reader backed by the given cache gateway. Pass
// nil to disable caching.
func NewReader(cache Cache) *Reader {
	return &Reader{
		cache:  cache,
		logger: log.GetLogger("transcript"),
	}
}

// LoadFile ingests a single JSONL source, consulting the cache first.
// Output preserves input line order. An unreadable source is a hard
// failure; per-line failures are reported as diagnostics and never
// abort the load.
func (r *Reader) LoadFile(ctx context.Context, path string, opts LoadOptions) (*LoadResult, error) {
	rng, err := resolveRange(opts)
	if err != nil {
		return nil, err
	}
	return r.loadFile(ctx, path, rng)
}

func (r *Reader) loadFile(ctx context.Context, path string, rng *datefilter.Range) (*LoadResult, error) {
	if r.cache != nil {
		if rng != nil {
			if entries, ok := r.cache.LoadFiltered(path, rng); ok {
				r.logger.Debug().Str("source", path).Int("entries", len(entries)).Msg("loaded filtered entries from cache")
				return &LoadResult{Entries: entries}, nil
			}
		} else if entries, ok := r.cache.Load(path); ok {
			r.logger.Debug().Str("source", path).Int("entries", len(entries)).Msg("loaded entries from cache")
			return &LoadResult{Entries: entries}, nil
		}
	}

	result, err := r.parseFile(ctx, path)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		// Best-effort: a failed save never affects the returned entries.
		if err := r.cache.Save(path, result.Entries); err != nil {
			r.logger.Warn().Err(err).Str("source", path).Msg("failed to cache parsed entries")
		}
	}

	if rng != nil {
		result.Entries = rng.Apply(result.Entries)
	}
	return result, nil
}

// LoadDirectory ingests every *.jsonl source directly under dir
// (non-recursive), concatenates the per-source results, and re-sorts
// them globally by timestamp string ascending. Entries lacking a
// timestamp sort first. A source that cannot be read is reported as a
// diagnostic and skipped; only an unreadable directory or an invalid
// date expression is fatal.
func (r *Reader) LoadDirectory(ctx context.Context, dir string, opts LoadOptions) (*LoadResult, error) {
	rng, err := resolveRange(opts)
	if err != nil {
		return nil, err
	}

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read transcript directory: %w", err)
	}

	var paths []string
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".jsonl") {
			continue
		}
		paths = append(paths, filepath.Join(dir, de.Name()))
	}
	sort.Strings(paths)

	loadID := uuid.NewString()[:8]
	r.logger.Info().Str("load", loadID).Str("dir", dir).Int("sources", len(paths)).Msg("loading transcript directory")

	perSource := make([]*LoadResult, len(paths))
	sourceErrs := make([]error, len(paths))

	jobs := make(chan int)
	var wg sync.WaitGroup

	workers := directoryWorkers
	if len(paths) < workers {
		workers = len(paths)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				perSource[i], sourceErrs[i] = r.loadFile(ctx, paths[i], rng)
			}
		}()
	}
	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	combined := &LoadResult{}
	for i, res := range perSource {
		if sourceErrs[i] != nil {
			combined.Diagnostics = append(combined.Diagnostics, Diagnostic{
				Source:  paths[i],
				Line:    -1,
				Kind:    DiagSourceError,
				Message: sourceErrs[i].Error(),
			})
			r.logger.Warn().Str("load", loadID).Str("source", paths[i]).Err(sourceErrs[i]).Msg("skipping unreadable source")
			continue
		}
		combined.Entries = append(combined.Entries, res.Entries...)
		combined.Diagnostics = append(combined.Diagnostics, res.Diagnostics...)
	}

	// Stable total order by timestamp string; entries without a
	// timestamp key as "" and therefore sort first.
	sort.SliceStable(combined.Entries, func(i, j int) bool {
		return combined.Entries[i].GetTimestamp() < combined.Entries[j].GetTimestamp()
	})

	r.logger.Info().Str("load", loadID).Int("entries", len(combined.Entries)).Int("diagnostics", len(combined.Diagnostics)).Msg("transcript directory loaded")
	return combined, nil
}

// parseFile streams one source line by line. Blank lines are skipped;
// every failed line yields a diagnostic and parsing continues.
func (r *Reader) parseFile(ctx context.Context, path string) (*LoadResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	defer file.Close()

	result := &LoadResult{}

	scanner := bufio.NewScanner(file)
	// Single lines can carry whole file contents inside tool results.
	const maxLine = 16 * 1024 * 1024
	scanner.Buffer(make([]byte, 0, 256*1024), maxLine)

	for lineNo := 0; scanner.Scan(); lineNo++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		entry, err := models.DecodeEntry([]byte(line))
		if err != nil {
			diag := r.classify(path, lineNo, err)
			result.Diagnostics = append(result.Diagnostics, diag)
			r.logger.Warn().Str("source", path).Int("line", lineNo).Str("kind", string(diag.Kind)).Msg(diag.Message)
			continue
		}
		result.Entries = append(result.Entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan transcript: %w", err)
	}

	return result, nil
}

// classify maps a decode error onto the diagnostic taxonomy. Decode
// failures are reported distinctly from schema-validation failures.
func (r *Reader) classify(source string, line int, err error) Diagnostic {
	diag := Diagnostic{Source: source, Line: line, Message: err.Error()}

	var syntaxErr *json.SyntaxError
	var unrecognized *models.UnrecognizedTypeError
	var schemaErr *models.SchemaError

	switch {
	case errors.Is(err, models.ErrNotJSONObject), errors.As(err, &syntaxErr):
		diag.Kind = DiagMalformedLine
	case errors.As(err, &unrecognized):
		diag.Kind = DiagUnrecognizedType
	case errors.As(err, &schemaErr):
		diag.Kind = DiagSchemaInvalid
	default:
		diag.Kind = DiagMalformedLine
	}
	return diag
}

func resolveRange(opts LoadOptions) (*datefilter.Range, error) {
	if opts.From == "" && opts.To == "" {
		return nil, nil
	}
	return datefilter.NewRange(opts.From, opts.To)
}
