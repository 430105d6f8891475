package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/maxdata/claude-code-log/cache"
	"github.com/maxdata/claude-code-log/config"
	"github.com/maxdata/claude-code-log/log"
	"github.com/maxdata/claude-code-log/transcript"
)

var (
	flagFrom        string
	flagTo          string
	flagNoCache     bool
	flagProjectsDir string
	flagGapSeconds  int
)

func main() {
	cfg := config.Get()

	root := &cobra.Command{
		Use:           "claude-code-log",
		Short:         "Inspect Claude Code transcripts: entries, spans, sessions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagFrom, "from", "", `start of date range (e.g. "yesterday", "3 days ago", "2024-01-01")`)
	root.PersistentFlags().StringVar(&flagTo, "to", "", `end of date range (e.g. "today", "2024-12-31")`)
	root.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "bypass the parsed-entry cache")
	root.PersistentFlags().StringVar(&flagProjectsDir, "projects-dir", cfg.ProjectsDir, "directory holding Claude Code project transcripts")

	root.AddCommand(
		newEntriesCmd(),
		newSpansCmd(),
		newSessionsCmd(),
		newWatchCmd(),
		newCacheCmd(),
	)

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// buildReader wires the reader to a cache manager unless caching is
// disabled or the cache cannot be opened; a broken cache degrades to
// uncached parsing instead of failing the command.
func buildReader() (*transcript.Reader, func()) {
	if flagNoCache {
		return transcript.NewReader(nil), func() {}
	}

	cfg := config.Get()
	manager, err := cache.NewManager(cfg.CacheDir, cfg.CacheVersionTag)
	if err != nil {
		log.Warn().Err(err).Str("dir", cfg.CacheDir).Msg("cache unavailable, parsing without it")
		return transcript.NewReader(nil), func() {}
	}
	return transcript.NewReader(manager), func() { manager.Close() }
}

// load ingests the target path: a single JSONL file, or a directory of
// them. With no argument the configured projects dir is used.
func load(ctx context.Context, args []string) (*transcript.LoadResult, error) {
	target := flagProjectsDir
	if len(args) > 0 {
		target = args[0]
	}

	reader, closeCache := buildReader()
	defer closeCache()

	opts := transcript.LoadOptions{From: flagFrom, To: flagTo}

	info, err := os.Stat(target)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return reader.LoadDirectory(ctx, target, opts)
	}
	return reader.LoadFile(ctx, target, opts)
}
