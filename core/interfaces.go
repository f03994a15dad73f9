package core

import (
	"io"
	"io/fs"
	"time"
)

// FSType identifies the kind of storage backing an FS implementation.
type FSType int

const (
	// FSTypeUnknown indicates the backend kind was not declared.
	FSTypeUnknown FSType = iota
	// FSTypeLocal indicates a disk-backed filesystem.
	FSTypeLocal
	// FSTypeMemory indicates an in-memory filesystem.
	FSTypeMemory
	// FSTypeRemote indicates a network-backed filesystem (object store, DFS).
	FSTypeRemote
)

// String returns a human-readable name for the FSType.
func (t FSType) String() string {
	switch t {
	case FSTypeLocal:
		return "local"
	case FSTypeMemory:
		return "memory"
	case FSTypeRemote:
		return "remote"
	default:
		return "unknown"
	}
}

// Posix reports whether the backend provides POSIX-style commit semantics:
// exclusive create and atomic same-volume rename. The shell stages
// transfers through a temporary file only on such backends; remote object
// stores get the destination filesystem's own (weaker) create semantics.
func (t FSType) Posix() bool {
	return t == FSTypeLocal || t == FSTypeMemory
}

// FS is the contract every backend must satisfy. It embeds fs.FS for
// stdlib compatibility and composes the four operation groups the shell
// needs.
type FS interface {
	fs.FS
	ReadFS
	WriteFS
	ManageFS
	WalkFS

	// Type reports the kind of storage backing this filesystem.
	Type() FSType
}

// ReadFS groups the read-only operations.
type ReadFS interface {
	// Open opens the named file for reading. The returned file must be
	// closed when no longer needed.
	Open(name string) (fs.File, error)

	// Stat returns metadata for the named file or directory. A fresh call
	// produces a fresh snapshot; returned values are never updated in
	// place.
	Stat(name string) (fs.FileInfo, error)

	// ReadDir lists the immediate children of the named directory in the
	// backend's natural enumeration order (lexical for all bundled
	// backends).
	ReadDir(name string) ([]fs.DirEntry, error)

	// ReadFile reads the whole named file. A successful call returns
	// err == nil, not err == io.EOF.
	ReadFile(name string) ([]byte, error)

	// Exists reports whether the named path exists. A false result with a
	// non-nil error means existence could not be determined.
	Exists(name string) (bool, error)
}

// WriteFS groups the mutating operations. Flag support varies by backend;
// see the backend package documentation.
type WriteFS interface {
	// Create creates or truncates the named file for writing.
	Create(name string) (File, error)

	// OpenFile opens a file with the given flags and permissions. Backends
	// with exclusive-create support honor os.O_EXCL; the shell relies on
	// this for overwrite protection on POSIX-like destinations.
	OpenFile(name string, flag int, perm fs.FileMode) (File, error)

	// WriteFile writes data to the named file, creating or truncating it.
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Mkdir creates a single directory. It fails if the parent is missing
	// or the directory already exists.
	Mkdir(name string, perm fs.FileMode) error

	// MkdirAll creates a directory and any missing parents. It is
	// idempotent: an existing directory is not an error, so concurrent
	// creators race safely.
	MkdirAll(path string, perm fs.FileMode) error
}

// ManageFS groups structural operations.
type ManageFS interface {
	// Remove removes the named file or empty directory.
	Remove(name string) error

	// RemoveAll removes path and everything under it. A missing path is
	// not an error.
	RemoveAll(path string) error

	// Rename moves oldpath to newpath. Disk-backed implementations are
	// atomic within a volume; object-store implementations are copy+delete
	// and are not.
	Rename(oldpath, newpath string) error
}

// WalkFS provides depth-first tree traversal.
type WalkFS interface {
	// Walk walks the tree rooted at root in lexical order, calling walkFn
	// for every file and directory including root. Symbolic links are not
	// followed.
	Walk(root string, walkFn fs.WalkDirFunc) error
}

// GlobFS is the path-resolution capability. Backends that can expand
// wildcard specifiers natively implement it; everything else is served by
// the shared Glob function in this package.
type GlobFS interface {
	// Glob expands a specifier containing *, ?, [class] or {alt,alt}
	// wildcards into the matching paths, in the backend's enumeration
	// order. A specifier that matches nothing yields an empty slice and a
	// nil error; the literal wildcard syntax never appears in results.
	Glob(pattern string) ([]string, error)
}

// ChecksumFS is the sidecar-checksum capability. A filesystem exposing it
// stores, next to every data file, an auxiliary file holding per-block
// integrity hashes, and the shell will transfer those sidecars on request.
type ChecksumFS interface {
	// ChecksumPath maps a data path to the path of its sidecar checksum
	// file. The mapping is purely lexical; the sidecar need not exist.
	ChecksumPath(name string) string

	// RawFS returns the wrapped filesystem with checksum behavior
	// stripped, used to move sidecar bytes verbatim.
	RawFS() FS
}

// TempFS is the co-located temporary file capability used for staged
// commits. The file is created in dir so a later rename stays on one
// volume.
type TempFS interface {
	// TempFile creates and opens a uniquely named file in dir. A "*" in
	// pattern is replaced by the random component, otherwise the component
	// is appended.
	TempFile(dir, pattern string) (File, error)
}

// ChrootFS produces scoped views of a filesystem.
type ChrootFS interface {
	// Chroot returns a filesystem whose root is dir; operations on the
	// returned FS cannot escape it.
	Chroot(dir string) (FS, error)
}

// TrashFS is implemented by filesystems with a managed trash directory.
// The shell only delegates to it; trash policy lives with the backend.
type TrashFS interface {
	// Expunge permanently deletes trash checkpoints older than the
	// backend's retention window.
	Expunge() error

	// Checkpoint rolls the current trash contents into a new checkpoint.
	Checkpoint() error
}

// MetadataFS groups metadata operations the shell's permission verbs
// delegate to. Object-store backends typically do not implement it.
type MetadataFS interface {
	// Lstat returns metadata without following symbolic links.
	Lstat(name string) (fs.FileInfo, error)

	// Chmod changes the permission bits of the named file.
	Chmod(name string, mode fs.FileMode) error

	// Chtimes changes the access and modification times of the named
	// file. A zero time preserves the existing value.
	Chtimes(name string, atime, mtime time.Time) error
}

// File is an open handle supporting both reading and writing. It embeds
// fs.File so handles can flow into stdlib helpers.
type File interface {
	fs.File
	io.Writer

	// Name returns the name the file was opened or created with.
	Name() string
}

// Syncer is an optional File capability for flushing to stable storage.
type Syncer interface {
	// Sync commits buffered writes to the backing store.
	Sync() error
}
