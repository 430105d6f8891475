// Package watcher keeps the transcript cache honest while sessions are
// being written: filesystem events on JSONL sources drop the matching
// cache rows so the next load re-parses.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/maxdata/claude-code-log/log"
)

// Invalidator drops a cached source. Implemented by cache.Manager.
type Invalidator interface {
	Invalidate(source string) error
}

// Watcher observes a projects directory and its project
// subdirectories for JSONL changes.
type Watcher struct {
	projectsDir string
	invalidator Invalidator
	logger      zerolog.Logger

	watcher  *fsnotify.Watcher
	debounce *debouncer
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// New creates a Watcher over projectsDir that invalidates inv on
// changes. Call Start to begin watching.
func New(projectsDir string, inv Invalidator) *Watcher {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		projectsDir: projectsDir,
		invalidator: inv,
		logger:      log.GetLogger("watcher"),
		ctx:         ctx,
		cancel:      cancel,
	}
	w.debounce = newDebouncer(DefaultDebounceDelay, w.process)
	return w
}

// Start registers the projects directory and every project
// subdirectory with fsnotify and launches the event loop.
func (w *Watcher) Start() error {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.watcher = fsWatcher

	if err := fsWatcher.Add(w.projectsDir); err != nil {
		fsWatcher.Close()
		return err
	}

	entries, err := os.ReadDir(w.projectsDir)
	if err != nil {
		fsWatcher.Close()
		return err
	}
	watched := 1
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(w.projectsDir, entry.Name())
		if err := fsWatcher.Add(dir); err != nil {
			w.logger.Debug().Err(err).Str("dir", dir).Msg("failed to watch directory")
			continue
		}
		watched++
	}

	w.wg.Add(1)
	go w.watchLoop()

	w.logger.Info().Str("projectsDir", w.projectsDir).Int("watchedDirs", watched).Msg("watching for transcript changes")
	return nil
}

// Shutdown stops the watcher and waits for the event loop, bounded by
// ctx.
func (w *Watcher) Shutdown(ctx context.Context) error {
	w.cancel()
	w.debounce.Stop()
	if w.watcher != nil {
		w.watcher.Close()
	}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		w.logger.Warn().Msg("watcher shutdown timed out")
		return ctx.Err()
	}
}

func (w *Watcher) watchLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Debug().Err(err).Msg("fsnotify error")
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	// New project directory: add it to the watch set.
	if event.Op&fsnotify.Create != 0 {
		info, err := os.Stat(event.Name)
		if err == nil && info.IsDir() && filepath.Dir(event.Name) == w.projectsDir {
			if err := w.watcher.Add(event.Name); err == nil {
				w.logger.Debug().Str("dir", event.Name).Msg("watching new project directory")
			}
			return
		}
	}

	if !strings.HasSuffix(event.Name, ".jsonl") {
		return
	}

	switch {
	case event.Op&fsnotify.Create != 0, event.Op&fsnotify.Write != 0:
		w.debounce.Queue(event.Name, EventWrite)
	case event.Op&fsnotify.Remove != 0, event.Op&fsnotify.Rename != 0:
		w.debounce.Queue(event.Name, EventRemove)
	}
}

// process handles one debounced event by dropping the cache row.
func (w *Watcher) process(path string, eventType EventType) {
	if err := w.invalidator.Invalidate(path); err != nil {
		w.logger.Warn().Err(err).Str("source", path).Msg("failed to invalidate cache row")
		return
	}
	w.logger.Debug().Str("source", path).Str("event", eventType.String()).Msg("invalidated cached source")
}
