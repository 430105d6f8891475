package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maxdata/claude-code-log/cache"
	"github.com/maxdata/claude-code-log/config"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and maintain the parsed-entry cache",
	}
	cmd.AddCommand(newCacheStatsCmd(), newCachePurgeCmd())
	return cmd
}

func withCache(fn func(*cache.Manager) error) error {
	cfg := config.Get()
	manager, err := cache.NewManager(cfg.CacheDir, cfg.CacheVersionTag)
	if err != nil {
		return err
	}
	defer manager.Close()
	return fn(manager)
}

func newCacheStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print cache contents summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCache(func(m *cache.Manager) error {
				stats, err := m.Stats()
				if err != nil {
					return err
				}
				fmt.Printf("version:  %s\n", m.Version())
				fmt.Printf("sources:  %d\n", stats.Sources)
				fmt.Printf("entries:  %d\n", stats.Entries)
				fmt.Printf("bytes:    %d\n", stats.TotalBytes)
				return nil
			})
		},
	}
}

func newCachePurgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Drop every cached parse",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCache(func(m *cache.Manager) error {
				if err := m.Purge(); err != nil {
					return err
				}
				fmt.Println("cache purged")
				return nil
			})
		},
	}
}
