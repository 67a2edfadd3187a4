package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// debounce is the quiet period after the last change before a rebuild.
var debounce = 200 * time.Millisecond

// watch runs fn once, then again whenever one of paths changes, until ctx is
// done. Build errors are logged and do not stop watching.
func watch(ctx context.Context, logger *zap.Logger, paths []string, fn func(context.Context) error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	// Editors often replace files, so the directories are watched and the
	// events filtered by name.
	files := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		files[abs] = true
		dir := filepath.Dir(abs)
		if !dirs[dir] {
			if err := w.Add(dir); err != nil {
				return fmt.Errorf("watch %s: %w", dir, err)
			}
			dirs[dir] = true
		}
	}

	rebuild := func() {
		if err := fn(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("build failed", zap.Error(err))
		}
	}
	rebuild()

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !files[filepath.Clean(event.Name)] || !event.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			logger.Debug("description changed", zap.String("file", event.Name), zap.Stringer("op", event.Op))
			timer.Reset(debounce)
		case <-timer.C:
			rebuild()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", zap.Error(err))
		}
	}
}
