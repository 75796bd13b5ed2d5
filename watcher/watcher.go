// Package watcher provides file watching for configuration live reload.
//
// The watcher polls configuration files for changes and invokes handlers
// when a modification, creation, or removal is detected. Rapid successive
// changes to the same file are debounced into a single event.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Event represents a file change event.
type Event struct {
	// Path is the absolute path to the changed file.
	Path string

	// Op is the operation that triggered the event.
	Op Operation

	// Time is when the event occurred.
	Time time.Time
}

// Operation represents the type of file operation.
type Operation int

const (
	// OpWrite indicates the file was modified.
	OpWrite Operation = iota

	// OpCreate indicates a new file was created.
	OpCreate

	// OpRemove indicates the file was deleted.
	OpRemove
)

// String returns the operation name.
func (op Operation) String() string {
	switch op {
	case OpWrite:
		return "write"
	case OpCreate:
		return "create"
	case OpRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// Handler is called when a file change is detected.
type Handler func(event Event)

// Watcher monitors files for changes by polling modification times.
type Watcher struct {
	mu       sync.RWMutex
	files    map[string]time.Time
	handlers []Handler
	interval time.Duration
	running  bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	debounce  time.Duration
	pendingMu sync.Mutex
	pending   map[string]Event
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithInterval sets the polling interval.
func WithInterval(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithDebounce sets the debounce duration for rapid changes.
// Zero disables debouncing.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// New creates a new file watcher.
func New(opts ...Option) *Watcher {
	w := &Watcher{
		files:    make(map[string]time.Time),
		interval: 500 * time.Millisecond,
		debounce: 100 * time.Millisecond,
		pending:  make(map[string]Event),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Watch adds a file to the watch list. The file may not exist yet;
// creation will be reported when it appears.
func (w *Watcher) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			w.files[abs] = time.Time{}
			return nil
		}
		return err
	}

	w.files[abs] = info.ModTime()
	return nil
}

// Unwatch removes a file from the watch list.
func (w *Watcher) Unwatch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.files, abs)
	return nil
}

// WatchGlob adds all files matching a glob pattern to the watch list.
func (w *Watcher) WatchGlob(pattern string) error {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return err
	}

	for _, path := range matches {
		if err := w.Watch(path); err != nil {
			return err
		}
	}
	return nil
}

// OnChange registers a handler for file change events.
func (w *Watcher) OnChange(handler Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, handler)
}

// WatchedFiles returns the list of watched files.
func (w *Watcher) WatchedFiles() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	files := make([]string, 0, len(w.files))
	for path := range w.files {
		files = append(files, path)
	}
	return files
}

// Start begins watching files for changes.
func (w *Watcher) Start() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.ctx, w.cancel = context.WithCancel(context.Background())
	w.running = true
	w.mu.Unlock()

	w.wg.Add(1)
	go w.pollLoop()
}

// Stop stops watching files.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.cancel()
	w.running = false
	w.mu.Unlock()

	w.wg.Wait()
}

// IsRunning returns whether the watcher is active.
func (w *Watcher) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

// pollLoop checks files for changes at regular intervals and flushes
// debounced events once they settle.
func (w *Watcher) pollLoop() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.checkFiles()
			w.flushPending()
		}
	}
}

// checkFiles checks all watched files for changes.
func (w *Watcher) checkFiles() {
	w.mu.RLock()
	files := make(map[string]time.Time, len(w.files))
	for path, modTime := range w.files {
		files[path] = modTime
	}
	w.mu.RUnlock()

	for path, lastMod := range files {
		if event := w.checkFile(path, lastMod); event != nil {
			if w.debounce > 0 {
				w.queueEvent(*event)
			} else {
				w.emit(*event)
			}
		}
	}
}

// checkFile compares a file's current modification time with the last
// one seen and records the new state.
func (w *Watcher) checkFile(path string, lastMod time.Time) *Event {
	info, err := os.Stat(path)

	if os.IsNotExist(err) {
		if lastMod.IsZero() {
			return nil
		}
		w.setModTime(path, time.Time{})
		return &Event{Path: path, Op: OpRemove, Time: time.Now()}
	}
	if err != nil {
		return nil
	}

	current := info.ModTime()
	switch {
	case lastMod.IsZero():
		w.setModTime(path, current)
		return &Event{Path: path, Op: OpCreate, Time: time.Now()}
	case !current.Equal(lastMod):
		w.setModTime(path, current)
		return &Event{Path: path, Op: OpWrite, Time: time.Now()}
	default:
		return nil
	}
}

func (w *Watcher) setModTime(path string, t time.Time) {
	w.mu.Lock()
	if _, watched := w.files[path]; watched {
		w.files[path] = t
	}
	w.mu.Unlock()
}

// queueEvent coalesces an event with any pending one for the same path.
// Remove supersedes everything; create survives later writes.
func (w *Watcher) queueEvent(event Event) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	existing, exists := w.pending[event.Path]
	if !exists || event.Op == OpRemove {
		w.pending[event.Path] = event
		return
	}
	if existing.Op == OpCreate && event.Op == OpWrite {
		existing.Time = event.Time
		w.pending[event.Path] = existing
		return
	}
	w.pending[event.Path] = event
}

// flushPending emits queued events that have been stable for the
// debounce window.
func (w *Watcher) flushPending() {
	w.pendingMu.Lock()
	cutoff := time.Now().Add(-w.debounce)

	var settled []Event
	for path, event := range w.pending {
		if event.Time.Before(cutoff) {
			settled = append(settled, event)
			delete(w.pending, path)
		}
	}
	w.pendingMu.Unlock()

	for _, event := range settled {
		w.emit(event)
	}
}

// emit calls all handlers with the event. A panicking handler must not
// take down the poll goroutine.
func (w *Watcher) emit(event Event) {
	w.mu.RLock()
	handlers := make([]Handler, len(w.handlers))
	copy(handlers, w.handlers)
	w.mu.RUnlock()

	for _, handler := range handlers {
		func() {
			defer func() { _ = recover() }()
			handler(event)
		}()
	}
}
