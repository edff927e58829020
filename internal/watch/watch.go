// Package watch reports on-disk changes to the files open in the editor.
package watch

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/kobzarvs/notepadmm/internal/logger"
)

// Op says what happened to a watched file.
type Op int

const (
	// Changed means the file was created or written.
	Changed Op = iota + 1
	// Removed means the file was deleted or renamed away.
	Removed
)

func (o Op) String() string {
	switch o {
	case Changed:
		return "changed"
	case Removed:
		return "removed"
	}
	return "unknown"
}

// Event is a debounced notification for one watched path.
type Event struct {
	Path string
	Op   Op
}

var ErrClosed = errors.New("watcher closed")

// Watcher watches the parent directories of registered files, so editors
// that save by renaming a temporary file are still observed.
type Watcher struct {
	mu       sync.Mutex
	fsw      *fsnotify.Watcher
	files    map[string]struct{}
	dirs     map[string]int
	debounce time.Duration
	events   chan Event
	closeCh  chan struct{}
	done     chan struct{}
	closed   bool
}

// New starts a watcher that emits at most one event per path for every
// quiet period of length debounce.
func New(debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fsw:      fsw,
		files:    make(map[string]struct{}),
		dirs:     make(map[string]int),
		debounce: debounce,
		events:   make(chan Event, 64),
		closeCh:  make(chan struct{}),
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Events delivers debounced notifications. It is closed by Close.
func (w *Watcher) Events() <-chan Event { return w.events }

// Add starts watching path. Adding a path twice is a no-op.
func (w *Watcher) Add(path string) error {
	path = filepath.Clean(path)
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if _, ok := w.files[path]; ok {
		return nil
	}
	dir := filepath.Dir(path)
	if w.dirs[dir] == 0 {
		if err := w.fsw.Add(dir); err != nil {
			return err
		}
	}
	w.dirs[dir]++
	w.files[path] = struct{}{}
	logger.Debug("watching", "path", path)
	return nil
}

// Remove stops watching path.
func (w *Watcher) Remove(path string) error {
	path = filepath.Clean(path)
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.files[path]; !ok {
		return nil
	}
	delete(w.files, path)
	dir := filepath.Dir(path)
	w.dirs[dir]--
	if w.dirs[dir] > 0 {
		return nil
	}
	delete(w.dirs, dir)
	if w.closed {
		return nil
	}
	return w.fsw.Remove(dir)
}

func (w *Watcher) watched(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.files[filepath.Clean(path)]
	return ok
}

func (w *Watcher) loop() {
	defer close(w.done)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	pending := make(map[string]Op)
	var order []string

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			op := convertOp(ev.Op)
			if op == 0 || !w.watched(ev.Name) {
				continue
			}
			name := filepath.Clean(ev.Name)
			if _, seen := pending[name]; !seen {
				order = append(order, name)
			}
			pending[name] = op
			timer.Reset(w.debounce)

		case <-timer.C:
			for _, name := range order {
				select {
				case w.events <- Event{Path: name, Op: pending[name]}:
				case <-w.closeCh:
					return
				}
			}
			clear(pending)
			order = order[:0]

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("file watcher error", "error", err)
		}
	}
}

func convertOp(op fsnotify.Op) Op {
	switch {
	case op.Has(fsnotify.Remove), op.Has(fsnotify.Rename):
		return Removed
	case op.Has(fsnotify.Create), op.Has(fsnotify.Write):
		return Changed
	}
	return 0
}

// Close stops the watcher and closes the Events channel.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	<-w.done
	close(w.events)
	return w.fsw.Close()
}
