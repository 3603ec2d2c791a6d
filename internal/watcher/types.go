package watcher

import (
	"sync"
	"time"

	"inwatch/internal/logging"

	"github.com/fsnotify/fsnotify"
)

// Event represents a single filesystem change stamped at delivery.
type Event struct {
	Path      string
	Op        fsnotify.Op
	Timestamp time.Time
}

// Options controls watcher behavior.
type Options struct {
	Logger     *logging.Logger
	BufferSize int
	MaxWatches int
	Recursive  bool
}

// Watcher multiplexes fsnotify subscriptions for a set of watch paths
// into one buffered event stream. Events are best-effort: when the
// consumer falls behind the buffer, events are counted as dropped
// rather than blocking the delivery goroutine.
type Watcher struct {
	inner      *fsnotify.Watcher
	events     chan Event
	errors     chan error
	done       chan struct{}
	logger     *logging.Logger
	recursive  bool
	maxWatches int

	mutex         sync.Mutex
	closed        bool
	activeWatches int
	dropped       uint64
}
