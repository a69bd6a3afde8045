// Package watch reloads a story when its file or its local data changes.
package watch

import (
	"context"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"scrollstory/internal/logging"
)

// Watcher watches the story file and the local data directory and calls
// OnChange once edits have settled.
type Watcher struct {
	mu          sync.RWMutex
	watcher     *fsnotify.Watcher
	storyPath   string
	dataDir     string
	onChange    func(paths []string)
	debounceMap map[string]time.Time
	debounceDur time.Duration
	pollEvery   time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
	log         *logging.Logger

	stats Stats
}

// Stats counts watcher activity.
type Stats struct {
	Events        int
	Reloads       int
	Errors        int
	LastEventPath string
	LastEventTime time.Time
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long a path must stay quiet before it is reported.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounceDur = d
		if d < w.pollEvery {
			w.pollEvery = d
		}
	}
}

// New creates a watcher for storyPath and, if non-empty, dataDir.
func New(storyPath, dataDir string, onChange func(paths []string), opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(storyPath)
	if err != nil {
		fw.Close()
		return nil, err
	}
	w := &Watcher{
		watcher:     fw,
		storyPath:   abs,
		dataDir:     dataDir,
		onChange:    onChange,
		debounceMap: make(map[string]time.Time),
		debounceDur: 500 * time.Millisecond,
		pollEvery:   100 * time.Millisecond,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
		log:         logging.Get(logging.CategoryWatch),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start begins watching. It does not block.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	// Editors replace files on save, so watch the directory, not the file.
	if err := w.watcher.Add(filepath.Dir(w.storyPath)); err != nil {
		return err
	}
	w.log.Info("watching story %s", w.storyPath)
	if w.dataDir != "" && w.dataDir != filepath.Dir(w.storyPath) {
		if err := w.watcher.Add(w.dataDir); err != nil {
			w.log.Warn("data dir not watched: %v", err)
		} else {
			w.log.Info("watching data %s", w.dataDir)
		}
	}

	go w.run(ctx)
	return nil
}

// Stop ends the watch loop and waits for it.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		w.log.Error("error closing watcher: %v", err)
	}
	w.log.Info("stopped")
}

// Stats returns a copy of the counters.
func (w *Watcher) Stats() Stats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stats
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.pollEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error("watch error: %v", err)
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()
		case <-ticker.C:
			w.flush()
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	if !w.relevant(event.Name) {
		return
	}
	w.log.Debug("%s %s", event.Op, event.Name)

	w.mu.Lock()
	w.stats.Events++
	w.stats.LastEventPath = event.Name
	w.stats.LastEventTime = time.Now()
	w.debounceMap[event.Name] = time.Now()
	w.mu.Unlock()
}

// relevant keeps the story file itself and anything in the data directory.
func (w *Watcher) relevant(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	if abs == w.storyPath {
		return true
	}
	if w.dataDir == "" {
		return false
	}
	dir, err := filepath.Abs(w.dataDir)
	return err == nil && filepath.Dir(abs) == dir
}

func (w *Watcher) flush() {
	w.mu.Lock()
	now := time.Now()
	var settled []string
	for path, at := range w.debounceMap {
		if now.Sub(at) >= w.debounceDur {
			settled = append(settled, path)
			delete(w.debounceMap, path)
		}
	}
	if len(settled) > 0 {
		w.stats.Reloads++
	}
	w.mu.Unlock()

	if len(settled) == 0 {
		return
	}
	sort.Strings(settled)
	w.log.Info("reload after %d changed file(s)", len(settled))
	if w.onChange != nil {
		w.onChange(settled)
	}
}
