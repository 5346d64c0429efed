package trigger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the window within which repeated events for the same
// filename collapse into one published trigger.
const DefaultDebounce = 100 * time.Millisecond

// Watcher observes one directory for file creation and publishes the base
// filename on the bus when it matches a known monitor id. Unknown filenames
// are ignored.
type Watcher struct {
	dir      string
	bus      *Bus
	known    map[string]struct{}
	debounce time.Duration
}

func NewWatcher(dir string, ids []string, bus *Bus) *Watcher {
	known := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		known[id] = struct{}{}
	}
	return &Watcher{dir: dir, bus: bus, known: known, debounce: DefaultDebounce}
}

// EnsureDir creates the trigger directory if absent. Callers run it before
// Run so external scripts always have a place to drop trigger files.
func (w *Watcher) EnsureDir() error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create trigger dir %s: %w", w.dir, err)
	}
	return nil
}

// Run watches the directory until ctx is cancelled. Events arriving within
// one debounce window coalesce per filename before publishing.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = fw.Close() }()
	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	slog.Info("trigger watcher started", "dir", w.dir, "debounce", w.debounce)

	pending := make(map[string]struct{})
	flush := time.NewTimer(w.debounce)
	if !flush.Stop() {
		<-flush.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			name := filepath.Base(ev.Name)
			if _, match := w.known[name]; !match {
				slog.Debug("ignoring unknown trigger file", "name", name)
				continue
			}
			if len(pending) == 0 {
				flush.Reset(w.debounce)
			}
			pending[name] = struct{}{}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.Error("trigger watch error", "dir", w.dir, "error", err)
		case <-flush.C:
			for id := range pending {
				n := w.bus.Publish(id)
				slog.Debug("published trigger", "monitor", id, "delivered", n)
				delete(pending, id)
			}
		}
	}
}
