package config

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports edits to the config file. hfserve resolves its model
// exactly once per process, so a change never triggers a reload; the
// callback is expected to tell the operator a restart is required.
type Watcher struct {
	path     string
	onChange func(path string)
	fw       *fsnotify.Watcher
	done     chan struct{}
	closed   sync.Once
	changes  atomic.Uint32
}

// NewWatcher starts watching the config file and invokes onChange after
// each (debounced) write.
func NewWatcher(path string, onChange func(path string)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: failed to create file watcher: %w", err)
	}

	if err := fw.Add(path); err != nil {
		fw.Close()
		return nil, fmt.Errorf("config: failed to watch %s: %w", path, err)
	}

	w := &Watcher{
		path:     path,
		onChange: onChange,
		fw:       fw,
		done:     make(chan struct{}),
	}

	go w.watch()

	return w, nil
}

// watch drains watcher events until Close.
func (w *Watcher) watch() {
	var timer *time.Timer
	const debounce = 500 * time.Millisecond

	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}

			if event.Op.Has(fsnotify.Write) {
				if timer != nil {
					timer.Stop()
				}

				timer = time.AfterFunc(debounce, func() {
					count := w.changes.Add(1)
					slog.Info("Config file changed on disk", "path", w.path, "count", count)
					w.onChange(w.path)
				})
			}

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}

			slog.Error("Watcher error", "error", err)

		case <-w.done:
			return
		}
	}
}

// ChangeCount returns the number of config file changes seen so far.
func (w *Watcher) ChangeCount() uint32 {
	return w.changes.Load()
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	var err error
	w.closed.Do(func() {
		close(w.done)
		err = w.fw.Close()
	})
	return err
}
