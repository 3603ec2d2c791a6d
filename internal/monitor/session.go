// Package monitor runs the bounded watch session: validate the
// request, subscribe to every path, collect events for the full
// timeout window, and shape the report the module returns.
package monitor

import (
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"inwatch/internal/logging"
	"inwatch/internal/watcher"
)

// Sink receives each collected record as it is observed (live
// streaming, for example). Sink failures abort the session.
type Sink interface {
	Record(Record) error
}

// Report is the terminal state of a session.
type Report struct {
	Records []Record
	Elapsed time.Duration
	Dropped uint64
}

// Run watches the request's paths for the full timeout window and
// collects every matching event. The subscription is released on every
// exit path. A nil error means the window ran to completion; timeout
// with zero events is success, not failure.
func Run(request Request, logger *logging.Logger, sinks ...Sink) (Report, error) {
	started := time.Now()
	report := Report{Records: []Record{}}

	subscription, err := watcher.NewWithOptions(watcher.Options{
		Logger:     logger,
		BufferSize: request.EventBuffer,
		MaxWatches: request.MaxWatches,
		Recursive:  request.Recursive,
	})
	if err != nil {
		return report, subscriptionErr(err)
	}
	defer subscription.Close()

	for _, path := range request.Paths {
		if err := subscription.Add(path); err != nil {
			report.Elapsed = time.Since(started)
			return report, subscriptionErr(err)
		}
	}

	// Longest-first so nested watch paths claim their own events.
	roots := make([]string, len(request.Paths))
	copy(roots, request.Paths)
	sort.Slice(roots, func(i, j int) bool {
		return len(roots[i]) > len(roots[j])
	})

	logger.Info("watching", map[string]string{
		"paths":   strings.Join(request.Paths, ","),
		"timeout": request.Timeout.String(),
	})

	timer := time.NewTimer(request.Timeout)
	defer timer.Stop()

	for {
		select {
		case event := <-subscription.Events():
			record, ok := makeRecord(event, roots)
			if !ok || !matchesFilter(record.EventTypes, request.Filter) {
				continue
			}
			report.Records = append(report.Records, record)
			logger.Debug("event collected", map[string]string{
				"path":  record.Path,
				"name":  record.Name,
				"types": strings.Join(record.EventTypes, "|"),
				"total": strconv.Itoa(len(report.Records)),
			})
			for _, sink := range sinks {
				if err := sink.Record(record); err != nil {
					report.Elapsed = time.Since(started)
					report.Dropped = subscription.Dropped()
					return report, reportingErr(err)
				}
			}
		case err := <-subscription.Errors():
			report.Elapsed = time.Since(started)
			report.Dropped = subscription.Dropped()
			return report, subscriptionErr(err)
		case <-timer.C:
			report.Elapsed = time.Since(started)
			report.Dropped = subscription.Dropped()
			return report, nil
		}
	}
}

// makeRecord maps a raw event onto the registered watch path owning
// it. Events outside every root (possible after renames) are skipped.
func makeRecord(event watcher.Event, roots []string) (Record, bool) {
	types := watcher.OpNames(event.Op)
	if len(types) == 0 {
		return Record{}, false
	}
	for _, root := range roots {
		prefix := root
		if !strings.HasSuffix(prefix, string(filepath.Separator)) {
			prefix += string(filepath.Separator)
		}
		if event.Path != root && !strings.HasPrefix(event.Path, prefix) {
			continue
		}
		name := "."
		if event.Path != root {
			relative, err := filepath.Rel(root, event.Path)
			if err != nil {
				relative = filepath.Base(event.Path)
			}
			name = relative
		}
		return Record{
			Path:       root,
			Name:       name,
			EventTypes: types,
			ObservedAt: event.Timestamp,
		}, true
	}
	return Record{}, false
}

func matchesFilter(types, filter []string) bool {
	if len(filter) == 0 {
		return true
	}
	for _, eventType := range types {
		for _, allowed := range filter {
			if eventType == allowed {
				return true
			}
		}
	}
	return false
}
