// Package stack layers multiple configuration sources over one registry.
//
// Each source pairs a loader with a priority; building the stack loads
// every source into its own store and folds them together with the
// store merge operator, lowest priority first, so higher-priority
// sources override lower ones. Reloading re-runs the loaders, diffs the
// resolved values, and notifies observers of every key that changed.
package stack

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dshills/detour"
	"github.com/dshills/detour/loader"
	"github.com/dshills/detour/notify"
	"github.com/dshills/detour/watcher"
)

// ErrDuplicateSource is returned when a source name is already in use.
var ErrDuplicateSource = errors.New("source already added")

// source pairs a loader with its position in the precedence order.
type source struct {
	name     string
	priority int
	loader   loader.Loader
	paths    []string
}

// Stack manages priority-ordered configuration sources.
type Stack struct {
	mu       sync.RWMutex
	registry *detour.Registry
	sources  []*source // sorted by ascending priority
	merged   *detour.Store
	dirty    bool

	notifier *notify.Notifier
	watch    *watcher.Watcher
	interval time.Duration
	log      zerolog.Logger
}

// Option configures a Stack.
type Option func(*Stack)

// WithLogger sets the logger used for load and reload diagnostics.
func WithLogger(log zerolog.Logger) Option {
	return func(st *Stack) {
		st.log = log
	}
}

// WithNotifier sets the notifier that receives change events on reload.
func WithNotifier(n *notify.Notifier) Option {
	return func(st *Stack) {
		st.notifier = n
	}
}

// WithWatchInterval sets the polling interval used by Watch.
func WithWatchInterval(d time.Duration) Option {
	return func(st *Stack) {
		if d > 0 {
			st.interval = d
		}
	}
}

// New creates a stack over the given registry.
func New(registry *detour.Registry, opts ...Option) *Stack {
	st := &Stack{
		registry: registry,
		dirty:    true,
		interval: time.Second,
		log:      zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(st)
	}

	return st
}

// Registry returns the registry the stack resolves against.
func (st *Stack) Registry() *detour.Registry {
	return st.registry
}

// AddSource adds a named source at the given priority. Higher priorities
// override lower ones. Watch paths, if given, are monitored by Watch for
// live reload. Source names must be unique.
func (st *Stack) AddSource(name string, priority int, l loader.Loader, watchPaths ...string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	for _, src := range st.sources {
		if src.name == name {
			return fmt.Errorf("%w: %s", ErrDuplicateSource, name)
		}
	}

	st.sources = append(st.sources, &source{
		name:     name,
		priority: priority,
		loader:   l,
		paths:    watchPaths,
	})
	sort.SliceStable(st.sources, func(i, j int) bool {
		return st.sources[i].priority < st.sources[j].priority
	})
	st.dirty = true

	if st.watch != nil {
		for _, path := range watchPaths {
			if err := st.watch.Watch(path); err != nil {
				return err
			}
		}
	}
	return nil
}

// RemoveSource removes a source by name.
// Returns true if the source was found and removed.
func (st *Stack) RemoveSource(name string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()

	for i, src := range st.sources {
		if src.name == name {
			st.sources = append(st.sources[:i], st.sources[i+1:]...)
			st.dirty = true
			return true
		}
	}
	return false
}

// SourceNames returns the source names in precedence order, lowest first.
func (st *Stack) SourceNames() []string {
	st.mu.RLock()
	defer st.mu.RUnlock()

	names := make([]string, len(st.sources))
	for i, src := range st.sources {
		names[i] = src.name
	}
	return names
}

// Store returns the merged store, rebuilding it first if a source was
// added or removed since the last build. The returned store is
// independent; mutating it does not affect the stack.
func (st *Stack) Store() (*detour.Store, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.dirty || st.merged == nil {
		merged, err := st.build()
		if err != nil {
			return nil, err
		}
		st.merged = merged
		st.dirty = false
	}
	return st.merged.Clone(), nil
}

// Reload re-runs every loader and rebuilds the merged store. Observers
// are notified of each key whose resolved value changed, then of the
// reload itself.
func (st *Stack) Reload() error {
	st.mu.Lock()
	old := st.merged
	merged, err := st.build()
	if err != nil {
		st.mu.Unlock()
		return err
	}
	st.merged = merged
	st.dirty = false
	st.mu.Unlock()

	st.log.Debug().Int("assignments", merged.Len()).Msg("configuration reloaded")

	if st.notifier == nil {
		return nil
	}

	if old != nil {
		st.notifyDiff(old, merged)
	}
	st.notifier.NotifyReload("reload")
	return nil
}

// Watch starts monitoring every source's watch paths; a file change
// triggers Reload. Watch failures on individual paths fail the call.
func (st *Stack) Watch() error {
	st.mu.Lock()
	if st.watch == nil {
		st.watch = watcher.New(watcher.WithInterval(st.interval))
		st.watch.OnChange(func(event watcher.Event) {
			st.log.Debug().Str("path", event.Path).Str("op", event.Op.String()).Msg("config file changed")
			if err := st.Reload(); err != nil {
				st.log.Error().Err(err).Str("path", event.Path).Msg("reload failed")
			}
		})
	}
	w := st.watch

	var paths []string
	for _, src := range st.sources {
		paths = append(paths, src.paths...)
	}
	st.mu.Unlock()

	for _, path := range paths {
		if err := w.Watch(path); err != nil {
			return err
		}
	}

	w.Start()
	return nil
}

// Close stops the file watcher, if one was started.
func (st *Stack) Close() {
	st.mu.Lock()
	w := st.watch
	st.mu.Unlock()

	if w != nil {
		w.Stop()
	}
}

// build loads every source and folds the stores lowest-priority first.
// Callers must hold st.mu.
func (st *Stack) build() (*detour.Store, error) {
	merged := detour.NewStore(st.registry)
	for _, src := range st.sources {
		store := detour.NewStore(st.registry)
		if err := loader.Populate(store, src.loader); err != nil {
			st.log.Error().Err(err).Str("source", src.name).Msg("source load failed")
			return nil, fmt.Errorf("source %s: %w", src.name, err)
		}
		st.log.Debug().Str("source", src.name).Int("assignments", store.Len()).Msg("source loaded")
		merged = merged.Merge(store)
	}
	return merged, nil
}

// notifyDiff emits a change event for every key whose resolved value
// differs between the two stores.
func (st *Stack) notifyDiff(prev, next *detour.Store) {
	oldSnap := prev.Snapshot()
	newSnap := next.Snapshot()

	batch := st.notifier.NewBatch()
	for p, newVal := range newSnap {
		if oldVal := oldSnap[p]; !oldVal.Equal(newVal) {
			batch.Set(p.Key(), oldVal, newVal, "reload")
		}
	}
	batch.Commit()
}
