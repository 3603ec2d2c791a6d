package monitor

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"inwatch/internal/ansible"
	"inwatch/internal/config"
	"inwatch/internal/watcher"
)

// Request is a fully validated watch request. Immutable once resolved.
type Request struct {
	Paths          []string
	Timeout        time.Duration
	Recursive      bool
	Filter         []string
	LogFile        string
	StreamURL      string
	EventBuffer    int
	MaxWatches     int
	StreamDeadline time.Duration
}

// Resolve validates raw module arguments against the operator defaults
// and produces a Request. Every failure wraps ErrInvalidArgument.
func Resolve(args ansible.Args, defaults config.Defaults) (Request, error) {
	request := Request{
		Recursive:      args.Recursive,
		EventBuffer:    defaults.EventBuffer,
		MaxWatches:     defaults.MaxWatches,
		StreamDeadline: defaults.StreamDeadline,
	}

	paths, err := resolvePaths(args.WatchPaths)
	if err != nil {
		return Request{}, err
	}
	request.Paths = paths

	timeout, err := resolveTimeout(args.STimeout, args.MTimeout)
	if err != nil {
		return Request{}, err
	}
	request.Timeout = timeout

	filter, err := resolveFilter(args.Events, defaults.DefaultEvents)
	if err != nil {
		return Request{}, err
	}
	request.Filter = filter

	if trimmed := strings.TrimSpace(args.LogFile); trimmed != "" {
		expanded, err := expandUser(trimmed)
		if err != nil {
			return Request{}, invalidArgf("log_file: %v", err)
		}
		request.LogFile = expanded
	}

	if trimmed := strings.TrimSpace(args.StreamURL); trimmed != "" {
		if err := validateStreamURL(trimmed); err != nil {
			return Request{}, err
		}
		request.StreamURL = trimmed
	}

	return request, nil
}

func resolvePaths(watchPaths string) ([]string, error) {
	paths := []string{}
	for _, raw := range strings.Split(watchPaths, ",") {
		path := strings.TrimSpace(raw)
		if path == "" {
			continue
		}
		expanded, err := expandUser(path)
		if err != nil {
			return nil, invalidArgf("watch path %q: %v", path, err)
		}
		if _, err := os.Stat(expanded); err != nil {
			return nil, invalidArgf("watch path %q: %v", path, err)
		}
		paths = append(paths, filepath.Clean(expanded))
	}
	if len(paths) == 0 {
		return nil, invalidArgf("watch_paths is required and must name at least one path")
	}
	return paths, nil
}

func resolveTimeout(stimeout, mtimeout *int) (time.Duration, error) {
	switch {
	case stimeout != nil && mtimeout != nil:
		return 0, invalidArgf("stimeout and mtimeout are mutually exclusive")
	case stimeout != nil:
		if *stimeout <= 0 {
			return 0, invalidArgf("stimeout must be a positive number of seconds")
		}
		return time.Duration(*stimeout) * time.Second, nil
	case mtimeout != nil:
		if *mtimeout <= 0 {
			return 0, invalidArgf("mtimeout must be a positive number of minutes")
		}
		return time.Duration(*mtimeout) * time.Minute, nil
	default:
		return 0, invalidArgf("one of stimeout or mtimeout is required")
	}
}

func resolveFilter(events string, defaultEvents []string) ([]string, error) {
	raw := strings.TrimSpace(events)
	var names []string
	if raw != "" {
		names = strings.Split(raw, ",")
	} else {
		names = defaultEvents
	}
	if len(names) == 0 {
		return nil, nil
	}
	filter := make([]string, 0, len(names))
	for _, name := range names {
		parsed, err := watcher.ParseOpName(name)
		if err != nil {
			return nil, invalidArgf("events: %v", err)
		}
		filter = append(filter, parsed)
	}
	return filter, nil
}

func validateStreamURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return invalidArgf("stream_url: %v", err)
	}
	if parsed.Scheme != "ws" && parsed.Scheme != "wss" {
		return invalidArgf("stream_url must use ws or wss scheme, got %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return invalidArgf("stream_url is missing a host")
	}
	return nil
}

func expandUser(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}
