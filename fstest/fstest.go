// Package fstest provides test doubles and fixture helpers for exercising
// shell behavior against core.FS implementations: an operation-recording
// spy, a fault-injecting wrapper for simulating mid-stream I/O failures,
// and tree builders for fixtures.
package fstest

import (
	"io/fs"
	"path"

	"github.com/jmgilman/go/fsshell/core"
)

// WriteTree populates fsys with the given files, creating parent
// directories as needed. Keys are slash paths, values are file contents.
func WriteTree(fsys core.FS, files map[string]string) error {
	for name, content := range files {
		if dir := path.Dir(name); dir != "." && dir != "/" {
			if err := fsys.MkdirAll(dir, 0755); err != nil {
				return err
			}
		}
		if err := fsys.WriteFile(name, []byte(content), 0644); err != nil {
			return err
		}
	}
	return nil
}

// ReadTree walks root and returns every file below it keyed by path
// relative to root, with file contents as values.
func ReadTree(fsys core.FS, root string) (map[string]string, error) {
	out := make(map[string]string)
	err := fsys.Walk(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := fsys.ReadFile(p)
		if err != nil {
			return err
		}
		rel := p
		if root != "." && len(p) > len(root) {
			rel = p[len(root)+1:]
		}
		out[rel] = string(data)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
