package dataset

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/GoPolymarket/vesting-dashboard/internal/debounce"
)

// DefaultWatchDelay coalesces editor save bursts into one reload.
const DefaultWatchDelay = 250 * time.Millisecond

// Watcher calls onChange once per burst of writes to the watched files.
// Parent directories are watched so atomic rename-on-save is seen.
type Watcher struct {
	fs       *fsnotify.Watcher
	files    map[string]bool
	debounce *debounce.Debouncer
}

// NewWatcher watches the file-backed sources; URL sources are ignored.
func NewWatcher(sources []Source, delay time.Duration, onChange func()) (*Watcher, error) {
	if delay <= 0 {
		delay = DefaultWatchDelay
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	w := &Watcher{
		fs:       fw,
		files:    make(map[string]bool),
		debounce: debounce.New(delay, onChange),
	}
	dirs := make(map[string]bool)
	for _, src := range sources {
		p := src.Path()
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	return w, nil
}

// Watching reports whether any file source is being watched.
func (w *Watcher) Watching() bool {
	return len(w.files) > 0
}

// Run dispatches events until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	defer w.fs.Close()
	defer w.debounce.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil || !w.files[abs] {
				continue
			}
			w.debounce.Trigger()
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.Printf("dataset: watch error: %v", err)
		}
	}
}

// Close releases the watcher without running it.
func (w *Watcher) Close() error {
	w.debounce.Stop()
	return w.fs.Close()
}
