// Package billy adapts go-billy filesystems (osfs for local disk, memfs
// for tests) to the core.FS contract used by the shell.
package billy

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/jmgilman/go/fsshell/core"
)

// FS adapts a billy.Filesystem to core.FS. The same adapter serves both
// disk-backed and in-memory filesystems; only the reported FSType differs.
type FS struct {
	bfs billy.Filesystem
	typ core.FSType
}

// Option configures filesystem creation.
type Option func(*config)

type config struct {
	root string
}

// WithRoot scopes a local filesystem to the given directory instead of the
// filesystem root.
func WithRoot(root string) Option {
	return func(c *config) {
		c.root = root
	}
}

// NewLocal creates a disk-backed filesystem. By default it is rooted at
// "/"; use WithRoot to scope it.
func NewLocal(opts ...Option) *FS {
	cfg := config{root: "/"}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &FS{bfs: osfs.New(cfg.root), typ: core.FSTypeLocal}
}

// NewMemory creates an empty in-memory filesystem. It behaves like the
// local adapter (exclusive create, atomic rename) and is the test stand-in
// for both local and remote trees.
func NewMemory() *FS {
	return &FS{bfs: memfs.New(), typ: core.FSTypeMemory}
}

// Unwrap returns the underlying billy.Filesystem for callers that need to
// pass it to go-billy-aware APIs directly.
func (f *FS) Unwrap() billy.Filesystem {
	return f.bfs
}

// normalize cleans a path and forces forward slashes. Billy handles
// traversal safety; this only keeps keys consistent across backends.
func normalize(path string) string {
	return filepath.ToSlash(filepath.Clean(path))
}

// dirEntry adapts fs.FileInfo (what billy's ReadDir returns) to
// fs.DirEntry.
type dirEntry struct {
	info fs.FileInfo
}

func (d *dirEntry) Name() string               { return d.info.Name() }
func (d *dirEntry) IsDir() bool                { return d.info.IsDir() }
func (d *dirEntry) Type() fs.FileMode          { return d.info.Mode().Type() }
func (d *dirEntry) Info() (fs.FileInfo, error) { return d.info, nil }

// Open opens the named file for reading.
func (f *FS) Open(name string) (fs.File, error) {
	name = normalize(name)
	bf, err := f.bfs.Open(name)
	if err != nil {
		return nil, err
	}
	return &File{file: bf, fs: f.bfs, name: name}, nil
}

// Stat returns metadata for the named file or directory.
func (f *FS) Stat(name string) (fs.FileInfo, error) {
	return f.bfs.Stat(normalize(name))
}

// ReadDir lists the immediate children of the named directory in lexical
// order.
func (f *FS) ReadDir(name string) ([]fs.DirEntry, error) {
	infos, err := f.bfs.ReadDir(normalize(name))
	if err != nil {
		return nil, err
	}
	entries := make([]fs.DirEntry, len(infos))
	for i, info := range infos {
		entries[i] = &dirEntry{info: info}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

// ReadFile reads the whole named file.
func (f *FS) ReadFile(name string) ([]byte, error) {
	return util.ReadFile(f.bfs, normalize(name))
}

// Exists reports whether the named path exists.
func (f *FS) Exists(name string) (bool, error) {
	_, err := f.bfs.Stat(normalize(name))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// Create creates or truncates the named file for writing.
func (f *FS) Create(name string) (core.File, error) {
	name = normalize(name)
	bf, err := f.bfs.Create(name)
	if err != nil {
		return nil, err
	}
	return &File{file: bf, fs: f.bfs, name: name}, nil
}

// OpenFile opens a file with the given flags and permissions. os.O_EXCL is
// passed through to billy, which enforces exclusive create on both osfs
// and memfs.
func (f *FS) OpenFile(name string, flag int, perm fs.FileMode) (core.File, error) {
	name = normalize(name)
	bf, err := f.bfs.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return &File{file: bf, fs: f.bfs, name: name}, nil
}

// WriteFile writes data to the named file, creating or truncating it.
func (f *FS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return util.WriteFile(f.bfs, normalize(name), data, perm)
}

// Mkdir creates a single directory, failing if it exists or its parent is
// missing. Billy only exposes MkdirAll, so both conditions are checked
// first.
func (f *FS) Mkdir(name string, perm fs.FileMode) error {
	name = normalize(name)
	if _, err := f.bfs.Stat(name); err == nil {
		return os.ErrExist
	}
	parent := filepath.Dir(name)
	if parent != "." && parent != "/" {
		if _, err := f.bfs.Stat(parent); err != nil {
			return err
		}
	}
	return f.bfs.MkdirAll(name, perm)
}

// MkdirAll creates a directory and any missing parents. Creating an
// existing directory is not an error.
func (f *FS) MkdirAll(path string, perm fs.FileMode) error {
	return f.bfs.MkdirAll(normalize(path), perm)
}

// Remove removes the named file or empty directory.
func (f *FS) Remove(name string) error {
	return f.bfs.Remove(normalize(name))
}

// RemoveAll removes path and everything under it.
func (f *FS) RemoveAll(path string) error {
	return util.RemoveAll(f.bfs, normalize(path))
}

// Rename moves oldpath to newpath. On osfs this is an atomic rename within
// a volume.
func (f *FS) Rename(oldpath, newpath string) error {
	return f.bfs.Rename(normalize(oldpath), normalize(newpath))
}

// Walk walks the tree rooted at root in lexical order.
func (f *FS) Walk(root string, walkFn fs.WalkDirFunc) error {
	root = normalize(root)
	info, err := f.bfs.Stat(root)
	if err != nil {
		err = walkFn(root, nil, err)
	} else {
		err = f.walk(root, &dirEntry{info: info}, walkFn)
	}
	if errors.Is(err, fs.SkipDir) || errors.Is(err, fs.SkipAll) {
		return nil
	}
	return err
}

func (f *FS) walk(path string, d fs.DirEntry, walkFn fs.WalkDirFunc) error {
	if err := walkFn(path, d, nil); err != nil || !d.IsDir() {
		if errors.Is(err, fs.SkipDir) && d.IsDir() {
			err = nil
		}
		return err
	}

	entries, err := f.ReadDir(path)
	if err != nil {
		if err := walkFn(path, d, err); err != nil {
			return err
		}
	}

	for _, entry := range entries {
		child := normalize(filepath.Join(path, entry.Name()))
		if err := f.walk(child, entry, walkFn); err != nil {
			if errors.Is(err, fs.SkipDir) {
				continue
			}
			return err
		}
	}
	return nil
}

// Glob expands a wildcard specifier using the shared engine.
func (f *FS) Glob(pattern string) ([]string, error) {
	return core.Glob(f, pattern)
}

// TempFile creates a uniquely named file in dir. Billy generates the
// unique suffix itself, so the "*" placeholder convention is reduced to a
// plain prefix.
func (f *FS) TempFile(dir, pattern string) (core.File, error) {
	prefix := pattern
	if i := len(pattern) - 1; i >= 0 && pattern[i] == '*' {
		prefix = pattern[:i]
	}
	bf, err := f.bfs.TempFile(normalize(dir), prefix)
	if err != nil {
		return nil, err
	}
	name := normalize(bf.Name())
	return &File{file: bf, fs: f.bfs, name: name}, nil
}

// Chroot returns a filesystem scoped to dir.
func (f *FS) Chroot(dir string) (core.FS, error) {
	scoped, err := f.bfs.Chroot(normalize(dir))
	if err != nil {
		return nil, err
	}
	return &FS{bfs: scoped, typ: f.typ}, nil
}

// Type reports whether this adapter is disk-backed or in-memory.
func (f *FS) Type() core.FSType {
	return f.typ
}

// Compile-time interface checks.
var (
	_ core.FS       = (*FS)(nil)
	_ core.GlobFS   = (*FS)(nil)
	_ core.TempFS   = (*FS)(nil)
	_ core.ChrootFS = (*FS)(nil)
)
