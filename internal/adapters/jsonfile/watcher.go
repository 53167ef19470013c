package jsonfile

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
)

// RosterWatcher invalidates the record store's parse cache when the
// faculty file changes on disk, so hand edits show up without a restart.
type RosterWatcher struct {
	path     string
	store    *RecordStore
	log      *slog.Logger
	watcher  *fsnotify.Watcher
	debounce time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// NewRosterWatcher builds a watcher for the faculty file backing store.
func NewRosterWatcher(path string, store *RecordStore, log *slog.Logger) (*RosterWatcher, error) {
	if log == nil {
		log = slog.Default()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create fsnotify watcher")
	}
	// Watch the directory rather than the file: saves replace the file via
	// rename, which drops a watch registered on the file itself.
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		watcher.Close()
		return nil, errors.Wrap(err, "create data directory")
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, errors.Wrapf(err, "watch %s", dir)
	}
	return &RosterWatcher{
		path:     path,
		store:    store,
		log:      log,
		watcher:  watcher,
		debounce: 500 * time.Millisecond,
	}, nil
}

// Start begins watching in a background goroutine.
func (w *RosterWatcher) Start() {
	go w.loop()
}

// Close stops the watcher. A scheduled invalidation may still fire after
// Close returns, which is harmless.
func (w *RosterWatcher) Close() error {
	return w.watcher.Close()
}

func (w *RosterWatcher) loop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.schedule()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("roster watcher error", "error", err)
		}
	}
}

// relevant filters directory events down to writes of the faculty file.
// Temp files and rotated backups share the directory but carry suffixed
// names, so the exact-name match skips them.
func (w *RosterWatcher) relevant(event fsnotify.Event) bool {
	if filepath.Base(event.Name) != filepath.Base(w.path) {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

// schedule debounces bursts of events from editors that write in several
// chunks. Saves from this process land here too; the extra invalidation
// they cause is harmless.
func (w *RosterWatcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.store.Invalidate()
		w.log.Info("faculty file changed on disk, roster reloads on next read", "path", w.path)
	})
}
