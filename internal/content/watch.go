package content

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch refreshes idx whenever a markdown file under dir/<kind> is created,
// removed or renamed. Edits to existing files need no refresh since the
// loader reads through on every call. It blocks until ctx is done.
func Watch(ctx context.Context, dir string, idx *Index, log *slog.Logger) error {
	if log == nil {
		log = Log
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	watched := 0
	for _, kind := range Kinds {
		d := filepath.Join(dir, string(kind))
		if err := w.Add(d); err != nil {
			log.Warn("Not watching content directory", "dir", d, "error", err)
			continue
		}
		watched++
	}
	if watched == 0 {
		return fmt.Errorf("no content directories to watch under %s", dir)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Ext(ev.Name) != ".md" || !ev.Has(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) {
				continue
			}
			log.Info("Content changed", "file", ev.Name, "op", ev.Op.String())
			if err := idx.Refresh(); err != nil {
				log.Error("Error refreshing content index", "error", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Error("Watcher error", "error", err)
		}
	}
}
