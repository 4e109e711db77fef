// Package watcher reports changes to the Sunshine configuration file.
package watcher

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce coalesces the burst of events an editor produces on save.
const DefaultDebounce = 500 * time.Millisecond

// EventType represents the type of file system event.
type EventType int

// Event types for file system changes.
const (
	EventConfigChanged EventType = iota
	EventConfigRemoved
)

func (t EventType) String() string {
	switch t {
	case EventConfigChanged:
		return "config_changed"
	case EventConfigRemoved:
		return "config_removed"
	default:
		return fmt.Sprintf("EventType(%d)", int(t))
	}
}

// Event represents a file system change event.
type Event struct {
	Type EventType
	Path string
}

// Options configures a Watcher.
type Options struct {
	Debounce time.Duration
	Logger   *zap.Logger
}

// Watcher watches the directory holding one file and emits debounced events
// for that file only. Watching the directory keeps working across the
// write-temp-then-rename saves most editors use.
type Watcher struct {
	fsWatcher  *fsnotify.Watcher
	path       string
	eventsChan chan Event
	done       chan struct{}
	stopOnce   sync.Once
	logger     *zap.Logger

	delay      time.Duration
	debounceMu sync.Mutex
	timer      *time.Timer
	pending    fsnotify.Op
}

// New creates a watcher for path. Call Start to begin watching.
func New(path string, opts Options) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	delay := opts.Debounce
	if delay <= 0 {
		delay = DefaultDebounce
	}

	return &Watcher{
		fsWatcher:  fsWatcher,
		path:       abs,
		eventsChan: make(chan Event, 16),
		done:       make(chan struct{}),
		logger:     logger,
		delay:      delay,
	}, nil
}

// Events returns the channel for receiving events.
func (w *Watcher) Events() <-chan Event {
	return w.eventsChan
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Start adds the file's directory to the watch list and starts processing.
func (w *Watcher) Start() error {
	dir := filepath.Dir(w.path)
	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.logger.Info("watching config file", zap.String("path", w.path))

	go w.processEvents()
	return nil
}

// Stop stops the watcher. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		_ = w.fsWatcher.Close()

		w.debounceMu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.debounceMu.Unlock()
	})
}

func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return
	}
	w.logger.Debug("fsnotify", zap.Stringer("op", event.Op), zap.String("path", event.Name))

	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	w.pending = event.Op
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, w.fire)
}

// fire emits one event for the burst. The last op decides whether the file
// was changed or removed.
func (w *Watcher) fire() {
	w.debounceMu.Lock()
	op := w.pending
	w.timer = nil
	w.debounceMu.Unlock()

	typ := EventConfigChanged
	if op&fsnotify.Remove != 0 {
		typ = EventConfigRemoved
	}

	select {
	case <-w.done:
	case w.eventsChan <- Event{Type: typ, Path: w.path}:
		w.logger.Info("config file event", zap.Stringer("type", typ))
	}
}
