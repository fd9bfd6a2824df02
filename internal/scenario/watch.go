package scenario

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/elektrokombinacija/gridagent/internal/core"
)

// DefaultDebounce groups the burst of events an editor save produces.
const DefaultDebounce = 300 * time.Millisecond

// Watcher reloads a scenario file whenever it changes on disk.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *log.Logger
	onChange func(*core.Scenario)
}

// NewWatcher creates a watcher for one scenario file. A nil logger uses
// log.Default().
func NewWatcher(path string, logger *log.Logger) *Watcher {
	if logger == nil {
		logger = log.Default()
	}
	return &Watcher{
		path:     filepath.Clean(path),
		debounce: DefaultDebounce,
		logger:   logger,
	}
}

// SetDebounce overrides the quiet period before a reload.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// OnChange sets the callback for successfully reloaded scenarios.
// Files that fail to load are logged and skipped.
func (w *Watcher) OnChange(callback func(*core.Scenario)) {
	w.onChange = callback
}

// Run watches until ctx is cancelled. The parent directory is watched so
// that editors which replace the file by rename are still seen.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.path, err)
	}

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				timer.Reset(w.debounce)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Printf("[WARN] watcher error: %v", err)

		case <-timer.C:
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	s, err := Load(w.path)
	if err != nil {
		w.logger.Printf("[WARN] scenario reload failed: %v", err)
		return
	}
	w.logger.Printf("[INFO] scenario %s reloaded", w.path)
	if w.onChange != nil {
		w.onChange(s)
	}
}
