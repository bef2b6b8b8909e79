// Package fswatch turns file system events in a screenshot directory into
// relayout triggers.
package fswatch

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/user/jgallery/pkg/pipeline"
	"github.com/user/jgallery/pkg/ports"
)

// Watcher delivers a trigger for every relevant event in a directory.
// Files appearing, disappearing or being renamed are mutations; rewritten
// files are loads, since only their ratio may have changed.
type Watcher struct {
	fsw      *fsnotify.Watcher
	dir      string
	patterns []string
	logger   ports.Logger

	mu     sync.Mutex
	nextID int
	subs   map[int]func(ports.TriggerReason)

	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
	wg        sync.WaitGroup
}

// New starts watching dir. Only files matching one of the doublestar
// patterns (relative to dir) produce triggers; no patterns means the default
// image patterns.
func New(dir string, patterns []string, logger ports.Logger) (*Watcher, error) {
	if len(patterns) == 0 {
		patterns = pipeline.DefaultImagePatterns
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	w := &Watcher{
		fsw:      fsw,
		dir:      dir,
		patterns: patterns,
		logger:   logger.WithComponent("fswatch"),
		subs:     make(map[int]func(ports.TriggerReason)),
		done:     make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Subscribe registers fn for every trigger the watcher observes.
func (w *Watcher) Subscribe(fn func(ports.TriggerReason)) func() {
	w.mu.Lock()
	defer w.mu.Unlock()
	id := w.nextID
	w.nextID++
	w.subs[id] = fn
	return func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		delete(w.subs, id)
	}
}

// Close stops watching and waits for the event loop to exit.
func (w *Watcher) Close() error {
	w.closeOnce.Do(func() {
		close(w.done)
		w.closeErr = w.fsw.Close()
		w.wg.Wait()
	})
	return w.closeErr
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Watching %s failed: %s", w.dir, err)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	reason, ok := Classify(ev.Op)
	if !ok || !w.matches(ev.Name) {
		return
	}
	w.logger.Debug("%s changed (%s)", filepath.Base(ev.Name), reason)

	w.mu.Lock()
	fns := make([]func(ports.TriggerReason), 0, len(w.subs))
	for _, fn := range w.subs {
		fns = append(fns, fn)
	}
	w.mu.Unlock()

	for _, fn := range fns {
		fn(reason)
	}
}

func (w *Watcher) matches(name string) bool {
	rel, err := filepath.Rel(w.dir, name)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, p := range w.patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// Classify maps a file system operation to a trigger reason. Permission
// changes are ignored.
func Classify(op fsnotify.Op) (ports.TriggerReason, bool) {
	switch {
	case op.Has(fsnotify.Create), op.Has(fsnotify.Remove), op.Has(fsnotify.Rename):
		return ports.TriggerMutation, true
	case op.Has(fsnotify.Write):
		return ports.TriggerLoad, true
	default:
		return 0, false
	}
}

// Ensure Watcher implements ports.Trigger
var _ ports.Trigger = (*Watcher)(nil)
