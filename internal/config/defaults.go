// Package config loads the optional module defaults file. The file is
// operator-level tuning (buffer sizes, deadlines, a default event
// filter); task arguments always win over anything set here.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable pointing at the
// defaults file. Unset or missing file means built-in defaults.
const EnvConfigPath = "INOTIFY_MONITOR_CONFIG"

const (
	defaultEventBuffer    = 64
	defaultMaxWatches     = 4096
	defaultStreamDeadline = 10 * time.Second
)

type Defaults struct {
	EventBuffer    int
	MaxWatches     int
	StreamDeadline time.Duration
	DefaultEvents  []string
	LogLevel       string
}

type defaultsFile struct {
	EventBuffer    int      `yaml:"event_buffer"`
	MaxWatches     int      `yaml:"max_watches"`
	StreamDeadline string   `yaml:"stream_write_deadline"`
	DefaultEvents  []string `yaml:"default_events"`
	LogLevel       string   `yaml:"log_level"`
}

// BuiltIn returns the defaults used when no config file is present.
func BuiltIn() Defaults {
	return Defaults{
		EventBuffer:    defaultEventBuffer,
		MaxWatches:     defaultMaxWatches,
		StreamDeadline: defaultStreamDeadline,
	}
}

// LoadFromEnv resolves the defaults file from EnvConfigPath. A blank
// variable yields the built-ins without touching the filesystem.
func LoadFromEnv() (Defaults, error) {
	path := strings.TrimSpace(os.Getenv(EnvConfigPath))
	if path == "" {
		return BuiltIn(), nil
	}
	return Load(path)
}

// Load reads path and merges it over the built-in defaults. A missing
// file is not an error; a malformed one is.
func Load(path string) (Defaults, error) {
	defaults := BuiltIn()

	payload, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaults, nil
		}
		return defaults, fmt.Errorf("read defaults file: %w", err)
	}

	var file defaultsFile
	if err := yaml.Unmarshal(payload, &file); err != nil {
		return defaults, fmt.Errorf("parse defaults file: %w", err)
	}

	if file.EventBuffer > 0 {
		defaults.EventBuffer = file.EventBuffer
	}
	if file.MaxWatches > 0 {
		defaults.MaxWatches = file.MaxWatches
	}
	if trimmed := strings.TrimSpace(file.StreamDeadline); trimmed != "" {
		deadline, err := time.ParseDuration(trimmed)
		if err != nil {
			return defaults, fmt.Errorf("parse stream_write_deadline: %w", err)
		}
		if deadline > 0 {
			defaults.StreamDeadline = deadline
		}
	}
	if len(file.DefaultEvents) > 0 {
		events := make([]string, 0, len(file.DefaultEvents))
		for _, event := range file.DefaultEvents {
			event = strings.ToLower(strings.TrimSpace(event))
			if event != "" {
				events = append(events, event)
			}
		}
		defaults.DefaultEvents = events
	}
	defaults.LogLevel = strings.TrimSpace(file.LogLevel)

	return defaults, nil
}
