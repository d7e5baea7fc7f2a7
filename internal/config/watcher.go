package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for writes to settle
// before reloading.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reloads a configuration file when it changes on disk.
//
// The directory holding the file is watched rather than the file itself,
// so editors that save by writing a new file and renaming it over the old
// one are still seen. Bursts of events are coalesced; each settled change
// produces one reload. Successfully loaded configurations arrive on
// Changes and load failures on Errors.
type Watcher struct {
	mu sync.Mutex

	path     string
	delay    time.Duration
	watcher  *fsnotify.Watcher
	timer    *time.Timer
	changes  chan *Config
	errors   chan error
	closed   bool
	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the debounce delay.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

// NewWatcher starts watching the configuration file at path. The file
// need not exist yet; creating it triggers a load.
func NewWatcher(path string, opts ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w := &Watcher{
		path:    abs,
		delay:   DefaultDebounce,
		watcher: fsw,
		changes: make(chan *Config, 1),
		errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.closedWg.Add(1)
	go w.processLoop()
	return w, nil
}

// Path returns the watched file.
func (w *Watcher) Path() string { return w.path }

// Changes delivers each reloaded configuration.
func (w *Watcher) Changes() <-chan *Config { return w.changes }

// Errors delivers load and watch failures.
func (w *Watcher) Errors() <-chan error { return w.errors }

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	err := w.watcher.Close()
	w.closedWg.Wait()
	return err
}

func (w *Watcher) processLoop() {
	defer w.closedWg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Rename) {
				w.schedule()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.sendError(err)
		}
	}
}

// schedule starts or restarts the debounce timer.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Reset(w.delay)
		return
	}
	w.timer = time.AfterFunc(w.delay, w.reload)
}

func (w *Watcher) reload() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	cfg, err := Load(w.path)
	if err != nil {
		w.sendError(err)
		return
	}

	// Replace an undelivered configuration with the newer one.
	select {
	case <-w.changes:
	default:
	}
	select {
	case w.changes <- cfg:
	case <-w.closeCh:
	}
}

func (w *Watcher) sendError(err error) {
	select {
	case w.errors <- err:
	default:
		// Channel full, drop error
	}
}
