package backend

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/atomicstack/tmux-popup-links/internal/links"
	"github.com/atomicstack/tmux-popup-links/internal/logging/events"
)

// Kind represents the type of data emitted by the backend watcher.
type Kind int

const (
	KindLinks Kind = iota
)

// Event conveys a reloaded catalog or the error that prevented it.
type Event struct {
	Kind Kind
	Data interface{}
	Err  error
}

// Loader reads the catalog from the watched paths.
type Loader func(ctx context.Context, paths []string) (links.Catalog, error)

// Watcher reloads the links catalog whenever one of its files changes.
// Bursts of filesystem events inside the debounce window collapse into a
// single reload.
type Watcher struct {
	paths    []string
	names    map[string]struct{}
	debounce time.Duration
	load     Loader

	fsw *fsnotify.Watcher

	ctx    context.Context
	cancel context.CancelFunc

	events chan Event
	wg     sync.WaitGroup
}

// NewWatcher starts watching the directories holding paths. Directories are
// watched instead of files so editors that replace files atomically are seen.
func NewWatcher(paths []string, debounce time.Duration, load Loader) (*Watcher, error) {
	if load == nil {
		load = links.Load
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	names := make(map[string]struct{}, len(paths))
	dirs := make(map[string]struct{}, len(paths))
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			fsw.Close()
			return nil, err
		}
		names[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		paths:    append([]string(nil), paths...),
		names:    names,
		debounce: debounce,
		load:     load,
		fsw:      fsw,
		ctx:      ctx,
		cancel:   cancel,
		events:   make(chan Event, 4),
	}
	w.wg.Add(1)
	go w.run()
	go func() {
		w.wg.Wait()
		close(w.events)
	}()
	return w, nil
}

// Events returns a channel of reload events. It is closed after Stop.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Stop cancels the watcher.
func (w *Watcher) Stop() {
	w.cancel()
}

// Wait blocks until the watch loop has exited and Events is closed.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) run() {
	defer w.wg.Done()
	defer w.fsw.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			w.reload()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.emit(Event{Kind: KindLinks, Err: err})
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}
	_, ok := w.names[abs]
	return ok
}

func (w *Watcher) reload() {
	cat, err := w.load(w.ctx, w.paths)
	for _, path := range w.paths {
		events.Links.Reload(path, err)
	}
	w.emit(Event{Kind: KindLinks, Data: cat, Err: err})
}

func (w *Watcher) emit(evt Event) {
	select {
	case <-w.ctx.Done():
	case w.events <- evt:
	}
}
