package scan

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/franz/metadata-customizer/internal/index"
	"github.com/franz/metadata-customizer/internal/report"
	"github.com/franz/metadata-customizer/internal/util"
)

// Watcher keeps the index in sync with filesystem changes under a folder
type Watcher struct {
	loader   *Loader
	index    *index.Index
	logger   *report.EventLogger
	onChange func(path string)
}

// WatcherConfig holds watcher configuration
type WatcherConfig struct {
	Loader   *Loader
	Index    *index.Index
	Logger   *report.EventLogger
	OnChange func(path string) // invoked after the index was updated
}

// NewWatcher creates a new Watcher
func NewWatcher(cfg *WatcherConfig) *Watcher {
	return &Watcher{
		loader:   cfg.Loader,
		index:    cfg.Index,
		logger:   cfg.Logger,
		onChange: cfg.OnChange,
	}
}

// Watch blocks and mirrors filesystem events into the index until the
// context is cancelled. New directories are picked up as they appear.
func (w *Watcher) Watch(ctx context.Context, sourcePath string) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fsw.Close()

	if err := addRecursive(fsw, sourcePath); err != nil {
		return err
	}

	util.InfoLog("Watching %s for changes", sourcePath)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handle(fsw, event)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			util.WarnLog("Watch error: %v", err)
		}
	}
}

func (w *Watcher) handle(fsw *fsnotify.Watcher, event fsnotify.Event) {
	switch {
	case event.Op.Has(fsnotify.Create):
		info, err := os.Stat(event.Name)
		if err != nil {
			return
		}
		if info.IsDir() {
			if err := addRecursive(fsw, event.Name); err != nil {
				util.WarnLog("Failed to watch new directory %s: %v", event.Name, err)
			}
			return
		}
		w.refresh(event.Name, "create")

	case event.Op.Has(fsnotify.Write):
		w.refresh(event.Name, "write")

	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		if !w.loader.isAudioFile(event.Name) {
			return
		}
		w.index.Remove(event.Name)
		w.logger.LogWatch(event.Name, "remove")
		util.InfoLog("Removed from index: %s", event.Name)
		if w.onChange != nil {
			w.onChange(event.Name)
		}
	}
}

func (w *Watcher) refresh(path, action string) {
	if !w.loader.isAudioFile(path) {
		return
	}

	if err := w.loader.Reload(path); err != nil {
		util.WarnLog("Failed to reload %s: %v", path, err)
	}
	w.logger.LogWatch(path, action)
	util.InfoLog("Reloaded: %s", path)
	if w.onChange != nil {
		w.onChange(path)
	}
}

func addRecursive(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			util.WarnLog("Error accessing path %s: %v", path, err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}
