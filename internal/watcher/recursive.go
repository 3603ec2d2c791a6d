package watcher

import (
	"io/fs"
	"path/filepath"
)

func (watcher *Watcher) addRecursiveWatches(root string) error {
	dirs, err := collectSubdirs(root)
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		if err := watcher.addWatch(dir); err != nil {
			return err
		}
	}
	return nil
}

// collectSubdirs lists directories strictly below root. Unreadable
// entries are skipped; a plain-file root yields nothing.
func collectSubdirs(root string) ([]string, error) {
	dirs := []string{}
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !entry.IsDir() || path == root {
			return nil
		}
		dirs = append(dirs, path)
		return nil
	})
	return dirs, err
}
