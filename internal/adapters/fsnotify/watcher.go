// Package fsnotify implements the ports.Watcher interface using github.com/fsnotify/fsnotify.
// It watches the directory containing a keyword file rather than the file itself:
// editors commonly save by writing a temp file and renaming it over the original,
// which drops a watch placed on the old inode. Rapid events are debounced
// (editors often trigger multiple writes per save).
package fsnotify

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/corey/verbhash/internal/ports"
	"github.com/fsnotify/fsnotify"
)

// debounceInterval is the quiet period required between two callbacks.
const debounceInterval = 50 * time.Millisecond

// Watcher implements ports.Watcher using fsnotify.
type Watcher struct {
	fw      *fsnotify.Watcher
	done    chan struct{}
	stopped bool
	mu      sync.Mutex

	// OnError, when set, receives errors reported by fsnotify.
	OnError func(error)
}

// NewWatcher creates a new file watcher.
func NewWatcher() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fw:   fw,
		done: make(chan struct{}),
	}, nil
}

// Watch starts monitoring path. onChange is called with the absolute path
// of the file each time it is written, created or renamed into place.
func (w *Watcher) Watch(path string, onChange func(filePath string)) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(absPath)
	if info, err := os.Stat(dir); err != nil {
		return err
	} else if !info.IsDir() {
		return &os.PathError{Op: "watch", Path: dir, Err: os.ErrInvalid}
	}
	if err := w.fw.Add(dir); err != nil {
		return err
	}

	var last time.Time

	go func() {
		for {
			select {
			case event, ok := <-w.fw.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != absPath {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}

				// Debounce: skip if we've fired recently
				now := time.Now()
				if !last.IsZero() && now.Sub(last) < debounceInterval {
					continue
				}
				last = now

				// A rename away leaves nothing to reload; wait for the
				// replacement's Create.
				if _, err := os.Stat(absPath); err != nil {
					continue
				}
				onChange(absPath)

			case err, ok := <-w.fw.Errors:
				if !ok {
					return
				}
				if w.OnError != nil {
					w.OnError(err)
				}

			case <-w.done:
				return
			}
		}
	}()

	return nil
}

// Stop ends monitoring and releases all resources.
// Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.done)
	return w.fw.Close()
}

var _ ports.Watcher = (*Watcher)(nil)
