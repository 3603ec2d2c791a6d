// Package ansible implements the host framework's module-execution
// protocol: arguments arrive in a file whose path is the single argv
// entry, and exactly one JSON result object leaves on stdout.
//
// Two argument encodings exist in the wild for non-Python modules and
// both are accepted here: a JSON object (optionally wrapped under
// ANSIBLE_MODULE_ARGS) and the old-style whitespace-separated
// key=value string with shell-like quoting.
package ansible

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Args carries the raw module parameters before validation.
type Args struct {
	WatchPaths string
	STimeout   *int
	MTimeout   *int
	Recursive  bool
	Events     string
	LogFile    string
	StreamURL  string
}

// ParseArgsFile reads and decodes a module args file.
func ParseArgsFile(path string) (Args, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return Args{}, fmt.Errorf("read args file: %w", err)
	}
	return ParseArgs(string(payload))
}

// ParseArgs decodes the args payload, auto-detecting the encoding.
func ParseArgs(payload string) (Args, error) {
	trimmed := strings.TrimSpace(payload)
	if trimmed == "" {
		return Args{}, fmt.Errorf("empty module arguments")
	}
	if strings.HasPrefix(trimmed, "{") {
		return parseJSONArgs(trimmed)
	}
	values, err := parseKeyValues(trimmed)
	if err != nil {
		return Args{}, err
	}
	return argsFromMap(values)
}

func parseJSONArgs(payload string) (Args, error) {
	var values map[string]any
	if err := json.Unmarshal([]byte(payload), &values); err != nil {
		return Args{}, fmt.Errorf("parse json arguments: %w", err)
	}
	if wrapped, ok := values["ANSIBLE_MODULE_ARGS"].(map[string]any); ok {
		values = wrapped
	}
	return argsFromMap(values)
}

func argsFromMap(values map[string]any) (Args, error) {
	args := Args{}
	for key, value := range values {
		// Internal framework keys ride along with the task args.
		if strings.HasPrefix(key, "_ansible") {
			continue
		}
		switch key {
		case "watch_paths":
			args.WatchPaths = coerceString(value)
		case "stimeout":
			parsed, err := coerceInt(value)
			if err != nil {
				return Args{}, fmt.Errorf("stimeout: %w", err)
			}
			args.STimeout = &parsed
		case "mtimeout":
			parsed, err := coerceInt(value)
			if err != nil {
				return Args{}, fmt.Errorf("mtimeout: %w", err)
			}
			args.MTimeout = &parsed
		case "recursive":
			parsed, err := coerceBool(value)
			if err != nil {
				return Args{}, fmt.Errorf("recursive: %w", err)
			}
			args.Recursive = parsed
		case "events":
			args.Events = coerceString(value)
		case "log_file":
			args.LogFile = coerceString(value)
		case "stream_url":
			args.StreamURL = coerceString(value)
		default:
			return Args{}, fmt.Errorf("unsupported parameter %q", key)
		}
	}
	return args, nil
}

// parseKeyValues splits an old-style module args string into a map,
// honoring single and double quotes around values.
func parseKeyValues(payload string) (map[string]any, error) {
	values := make(map[string]any)
	for _, token := range splitQuoted(payload) {
		key, value, found := strings.Cut(token, "=")
		if !found || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("malformed argument %q", token)
		}
		values[strings.TrimSpace(key)] = unquote(value)
	}
	return values, nil
}

func splitQuoted(payload string) []string {
	tokens := []string{}
	var current strings.Builder
	var quote rune
	for _, r := range payload {
		switch {
		case quote != 0:
			current.WriteRune(r)
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
			current.WriteRune(r)
		case r == ' ' || r == '\t' || r == '\n':
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}
	return tokens
}

func unquote(value string) string {
	if len(value) >= 2 {
		first, last := value[0], value[len(value)-1]
		if (first == '\'' && last == '\'') || (first == '"' && last == '"') {
			return value[1 : len(value)-1]
		}
	}
	return value
}

func coerceString(value any) string {
	switch typed := value.(type) {
	case string:
		return strings.TrimSpace(typed)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", typed))
	}
}

func coerceInt(value any) (int, error) {
	switch typed := value.(type) {
	case float64:
		parsed := int(typed)
		if float64(parsed) != typed {
			return 0, fmt.Errorf("expected integer, got %v", typed)
		}
		return parsed, nil
	case int:
		return typed, nil
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(typed))
		if err != nil {
			return 0, fmt.Errorf("expected integer, got %q", typed)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("expected integer, got %T", value)
	}
}

func coerceBool(value any) (bool, error) {
	switch typed := value.(type) {
	case bool:
		return typed, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(typed)) {
		case "true", "yes", "on", "1":
			return true, nil
		case "false", "no", "off", "0", "":
			return false, nil
		}
		return false, fmt.Errorf("expected boolean, got %q", typed)
	default:
		return false, fmt.Errorf("expected boolean, got %T", value)
	}
}
