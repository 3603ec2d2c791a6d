// Package watcher wraps fsnotify for bounded-window path monitoring.
//
// One Watcher covers every requested path (plus walked subdirectories
// when recursive). The caller drains Events and Errors; Close releases
// the underlying descriptor and is safe to call more than once.
package watcher

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	defaultBufferSize = 64
	defaultMaxWatches = 4096
)

var ErrMaxWatchesExceeded = errors.New("max watches exceeded")

// New creates a Watcher with default options.
func New() (*Watcher, error) {
	return NewWithOptions(Options{})
}

// NewWithOptions creates a Watcher with custom options.
func NewWithOptions(options Options) (*Watcher, error) {
	inner, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	bufferSize := options.BufferSize
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	maxWatches := options.MaxWatches
	if maxWatches <= 0 {
		maxWatches = defaultMaxWatches
	}

	instance := &Watcher{
		inner:      inner,
		events:     make(chan Event, bufferSize),
		errors:     make(chan error, 4),
		done:       make(chan struct{}),
		logger:     options.Logger,
		recursive:  options.Recursive,
		maxWatches: maxWatches,
	}

	go instance.forward()
	return instance, nil
}

// Events is the buffered stream of observed filesystem changes.
func (watcher *Watcher) Events() <-chan Event {
	return watcher.events
}

// Errors surfaces failures from the underlying notification facility.
func (watcher *Watcher) Errors() <-chan error {
	return watcher.errors
}

// Dropped reports how many events overflowed the buffer.
func (watcher *Watcher) Dropped() uint64 {
	if watcher == nil {
		return 0
	}
	watcher.mutex.Lock()
	defer watcher.mutex.Unlock()
	return watcher.dropped
}

// ActiveWatches reports the number of registered subscriptions.
func (watcher *Watcher) ActiveWatches() int {
	if watcher == nil {
		return 0
	}
	watcher.mutex.Lock()
	defer watcher.mutex.Unlock()
	return watcher.activeWatches
}

// Add registers path for notifications. Directories are walked when
// the watcher is recursive.
func (watcher *Watcher) Add(path string) error {
	if watcher == nil || watcher.inner == nil {
		return errors.New("watcher not initialized")
	}
	if err := watcher.addWatch(path); err != nil {
		return err
	}
	if watcher.recursive {
		if err := watcher.addRecursiveWatches(path); err != nil {
			return err
		}
	}
	return nil
}

func (watcher *Watcher) addWatch(path string) error {
	watcher.mutex.Lock()
	if watcher.closed {
		watcher.mutex.Unlock()
		return errors.New("watcher closed")
	}
	if watcher.activeWatches >= watcher.maxWatches {
		watcher.mutex.Unlock()
		return ErrMaxWatchesExceeded
	}
	watcher.activeWatches++
	activeCount := watcher.activeWatches
	watcher.mutex.Unlock()

	if err := watcher.inner.Add(path); err != nil {
		watcher.mutex.Lock()
		watcher.activeWatches--
		watcher.mutex.Unlock()
		return fmt.Errorf("add watch %s: %w", path, err)
	}
	watcher.logDebug("watch added", path, activeCount)
	return nil
}

// Close shuts down the watcher and releases the notification
// descriptor. Safe to call multiple times.
func (watcher *Watcher) Close() error {
	if watcher == nil {
		return nil
	}
	watcher.mutex.Lock()
	if watcher.closed {
		watcher.mutex.Unlock()
		return nil
	}
	watcher.closed = true
	watcher.mutex.Unlock()

	close(watcher.done)
	if watcher.inner == nil {
		return nil
	}
	return watcher.inner.Close()
}

// forward stamps and relays fsnotify events without ever blocking on
// the consumer: a full buffer counts the event as dropped instead.
func (watcher *Watcher) forward() {
	for {
		select {
		case event, ok := <-watcher.inner.Events:
			if !ok {
				return
			}
			watcher.deliver(Event{
				Path:      event.Name,
				Op:        event.Op,
				Timestamp: time.Now().UTC(),
			})
		case err, ok := <-watcher.inner.Errors:
			if !ok {
				return
			}
			select {
			case watcher.errors <- err:
			default:
			}
		case <-watcher.done:
			return
		}
	}
}

func (watcher *Watcher) deliver(event Event) {
	select {
	case watcher.events <- event:
	default:
		watcher.mutex.Lock()
		watcher.dropped++
		dropped := watcher.dropped
		watcher.mutex.Unlock()
		watcher.logWarn("event dropped", map[string]string{
			"path":    event.Path,
			"dropped": strconv.FormatUint(dropped, 10),
		})
	}
}

func (watcher *Watcher) logWarn(message string, fields map[string]string) {
	if watcher == nil || watcher.logger == nil {
		return
	}
	watcher.logger.Warn(message, fields)
}

func (watcher *Watcher) logDebug(message, path string, activeCount int) {
	if watcher == nil || watcher.logger == nil {
		return
	}
	watcher.logger.Debug(message, map[string]string{
		"path":           path,
		"active_watches": strconv.Itoa(activeCount),
	})
}
