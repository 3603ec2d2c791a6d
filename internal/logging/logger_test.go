package logging

import (
	"io"
	"strings"
	"testing"
)

func TestLoggerWritesToBuffer(t *testing.T) {
	buffer := NewLogBuffer(10)
	logger := NewLoggerWithOutput(buffer, LevelInfo, io.Discard)

	logger.Info("watch started", map[string]string{"path": "/tmp"})

	entries := buffer.List()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.Level != LevelInfo {
		t.Fatalf("expected info level, got %q", entry.Level)
	}
	if entry.Message != "watch started" {
		t.Fatalf("expected message watch started, got %q", entry.Message)
	}
	if entry.Context["path"] != "/tmp" {
		t.Fatalf("expected context path=/tmp, got %v", entry.Context)
	}
}

func TestLoggerFiltersByLevel(t *testing.T) {
	buffer := NewLogBuffer(10)
	logger := NewLoggerWithOutput(buffer, LevelWarning, io.Discard)

	logger.Info("info", nil)
	logger.Warn("warn", nil)

	entries := buffer.List()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Level != LevelWarning {
		t.Fatalf("expected warning level, got %q", entries[0].Level)
	}
}

func TestLoggerWithAddsBaseContext(t *testing.T) {
	buffer := NewLogBuffer(10)
	logger := NewLoggerWithOutput(buffer, LevelDebug, io.Discard)
	scoped := logger.With(map[string]string{"component": "watcher"})

	scoped.Debug("watch added", map[string]string{"path": "/etc"})

	entries := buffer.List()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	context := entries[0].Context
	if context["component"] != "watcher" || context["path"] != "/etc" {
		t.Fatalf("expected merged context, got %v", context)
	}
}

func TestLoggerFormatsContextSorted(t *testing.T) {
	var output strings.Builder
	logger := NewLoggerWithOutput(NewLogBuffer(4), LevelInfo, &output)

	logger.Info("event", map[string]string{"path": "/tmp", "op": "create"})

	line := output.String()
	opIndex := strings.Index(line, "op=create")
	pathIndex := strings.Index(line, "path=/tmp")
	if opIndex < 0 || pathIndex < 0 {
		t.Fatalf("expected both fields in output, got %q", line)
	}
	if opIndex > pathIndex {
		t.Fatalf("expected sorted fields, got %q", line)
	}
}

func TestLogBufferWrapsAround(t *testing.T) {
	buffer := NewLogBuffer(2)
	buffer.Add(LogEntry{Message: "first"})
	buffer.Add(LogEntry{Message: "second"})
	buffer.Add(LogEntry{Message: "third"})

	entries := buffer.List()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Message != "second" || entries[1].Message != "third" {
		t.Fatalf("expected oldest entry evicted, got %v", entries)
	}
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		input string
		want  Level
		ok    bool
	}{
		{"debug", LevelDebug, true},
		{" INFO ", LevelInfo, true},
		{"warn", LevelWarning, true},
		{"error", LevelError, true},
		{"loud", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseLevel(tc.input)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ParseLevel(%q) = %q, %v; want %q, %v", tc.input, got, ok, tc.want, tc.ok)
		}
	}
}
