// Package watch tracks on-disk changes to annotated files so stale
// session state can be detected before it is written back.
package watch

import (
	"errors"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/glosskit/glossmark/internal/logging"
)

// ErrWatcherClosed is returned when adding paths to a closed watcher.
var ErrWatcherClosed = errors.New("watcher closed")

// Watcher records which watched files have been modified since they
// were last marked clean.
type Watcher struct {
	mu sync.RWMutex

	fsw   *fsnotify.Watcher
	log   *logging.Logger
	dirty map[string]bool
	paths map[string]bool

	closed  bool
	closeCh chan struct{}
	doneWg  sync.WaitGroup
}

// New creates a watcher backed by fsnotify.
func New(log *logging.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := newWatcher(log)
	w.fsw = fsw
	w.doneWg.Add(1)
	go w.processLoop(fsw.Events, fsw.Errors)
	return w, nil
}

// newWatcher builds a watcher without a backing fsnotify instance.
// Tests drive it through a loop over injected channels.
func newWatcher(log *logging.Logger) *Watcher {
	if log == nil {
		log = logging.Null
	}
	return &Watcher{
		log:     log.WithComponent("watch"),
		dirty:   make(map[string]bool),
		paths:   make(map[string]bool),
		closeCh: make(chan struct{}),
	}
}

// Add starts watching a file.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if w.paths[abs] {
		return nil
	}
	if w.fsw != nil {
		if err := w.fsw.Add(abs); err != nil {
			return err
		}
	}
	w.paths[abs] = true
	return nil
}

// Dirty reports whether path has changed since it was last marked
// clean. Unwatched paths are never dirty.
func (w *Watcher) Dirty(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.dirty[abs]
}

// MarkClean clears the dirty flag for path, typically after the file
// has been reloaded.
func (w *Watcher) MarkClean(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	w.mu.Lock()
	delete(w.dirty, abs)
	w.mu.Unlock()
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	fsw := w.fsw
	w.mu.Unlock()

	var err error
	if fsw != nil {
		err = fsw.Close()
	}
	w.doneWg.Wait()
	return err
}

func (w *Watcher) processLoop(events <-chan fsnotify.Event, errs <-chan error) {
	defer w.doneWg.Done()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-errs:
			if !ok {
				return
			}
			w.log.Warn("watch error: %v", err)
		case <-w.closeCh:
			return
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.paths[ev.Name] {
		return
	}
	if !w.dirty[ev.Name] {
		w.log.Debug("changed on disk: %s", ev.Name)
	}
	w.dirty[ev.Name] = true
}
