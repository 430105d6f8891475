package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/maxdata/claude-code-log/cache"
	"github.com/maxdata/claude-code-log/config"
	"github.com/maxdata/claude-code-log/log"
	"github.com/maxdata/claude-code-log/watcher"
)

const watchShutdownTimeout = 10 * time.Second

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch the projects directory and keep the cache fresh",
		Long: `Watches the projects directory for transcript changes and
invalidates the corresponding cache rows so the next load reparses
from source. Runs until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flagNoCache {
				return errors.New("watch requires the cache; remove --no-cache")
			}

			cfg := config.Get()
			manager, err := cache.NewManager(cfg.CacheDir, cfg.CacheVersionTag)
			if err != nil {
				return err
			}
			defer manager.Close()

			w := watcher.New(flagProjectsDir, manager)
			if err := w.Start(); err != nil {
				return err
			}
			log.Info().Str("dir", flagProjectsDir).Msg("watching for transcript changes")

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()

			log.Info().Msg("shutting down watcher")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), watchShutdownTimeout)
			defer cancel()
			return w.Shutdown(shutdownCtx)
		},
	}
}
