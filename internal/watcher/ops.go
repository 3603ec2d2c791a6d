package watcher

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Event type names as they appear in results and filters.
const (
	OpCreate = "create"
	OpWrite  = "write"
	OpRemove = "remove"
	OpRename = "rename"
	OpChmod  = "chmod"
)

var opOrder = []struct {
	op   fsnotify.Op
	name string
}{
	{fsnotify.Create, OpCreate},
	{fsnotify.Write, OpWrite},
	{fsnotify.Remove, OpRemove},
	{fsnotify.Rename, OpRename},
	{fsnotify.Chmod, OpChmod},
}

// OpNames decodes an fsnotify op bitmask into stable type names.
func OpNames(op fsnotify.Op) []string {
	names := make([]string, 0, 2)
	for _, entry := range opOrder {
		if op.Has(entry.op) {
			names = append(names, entry.name)
		}
	}
	return names
}

// KnownOps lists every accepted event type name, sorted.
func KnownOps() []string {
	names := make([]string, 0, len(opOrder))
	for _, entry := range opOrder {
		names = append(names, entry.name)
	}
	sort.Strings(names)
	return names
}

// ParseOpName validates a user-supplied event type name.
func ParseOpName(name string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for _, entry := range opOrder {
		if normalized == entry.name {
			return entry.name, nil
		}
	}
	return "", fmt.Errorf("unknown event type %q (known: %s)", name, strings.Join(KnownOps(), ", "))
}
