package auth

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch calls fn with a fresh Status every time the auth file at path is
// written or replaced, until ctx is cancelled. Read errors are passed to fn
// and do not stop the watch.
func Watch(ctx context.Context, path string, fn func(Status, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// The directory is watched because token writers usually replace the file.
	target := filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			af, err := ReadAuthFileAt(target)
			if err != nil {
				slog.Debug("auth file not readable", "path", target, "error", err)
				fn(Status{}, err)
				continue
			}
			fn(Describe(af, time.Now()), nil)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", "error", err)
		}
	}
}
