// Package watch reports changes to a single file.
package watch

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/j-veylop/catalog-eda/internal/logger"
)

// EventType defines the type of watch event.
type EventType int

const (
	// EventChanged fires once a burst of writes to the file has settled.
	EventChanged EventType = iota
	// EventError carries an error reported by the underlying watcher.
	EventError
)

// Event is sent on the watcher's channel.
type Event struct {
	Error error
	Path  string
	Type  EventType
}

// Watcher watches the directory of a file and reports debounced changes
// to that file only.
type Watcher struct {
	mu            sync.Mutex
	path          string
	debounce      time.Duration
	watcher       *fsnotify.Watcher
	eventChan     chan Event
	stopChan      chan struct{}
	stopOnce      sync.Once
	debounceTimer *time.Timer
}

// New starts watching path. Events are delivered after debounce of quiet.
func New(path string, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory so replace-by-rename saves are seen.
	if err := fw.Add(filepath.Dir(path)); err != nil {
		if closeErr := fw.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return nil, err
	}

	w := &Watcher{
		path:      path,
		debounce:  debounce,
		watcher:   fw,
		eventChan: make(chan Event, 16),
		stopChan:  make(chan struct{}),
	}
	go w.watchLoop()
	return w, nil
}

// Events returns the channel on which changes are reported.
func (w *Watcher) Events() <-chan Event {
	return w.eventChan
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	return w.path
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.mu.Lock()
				if w.debounceTimer != nil {
					w.debounceTimer.Stop()
				}
				w.debounceTimer = time.AfterFunc(w.debounce, func() {
					w.send(Event{Type: EventChanged, Path: w.path})
				})
				w.mu.Unlock()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.send(Event{Type: EventError, Path: w.path, Error: err})

		case <-w.stopChan:
			return
		}
	}
}

// send delivers an event without blocking, dropping the oldest one when
// the channel is full.
func (w *Watcher) send(event Event) {
	select {
	case <-w.stopChan:
		return
	default:
	}

	select {
	case w.eventChan <- event:
	default:
		select {
		case <-w.eventChan:
		default:
		}
		select {
		case w.eventChan <- event:
		default:
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stopChan)

		w.mu.Lock()
		if w.debounceTimer != nil {
			w.debounceTimer.Stop()
		}
		w.mu.Unlock()

		err = w.watcher.Close()
	})
	return err
}
