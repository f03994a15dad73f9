// Package checksum wraps any core.FS with per-file sidecar checksum
// files.
//
// Every data file `dir/name` gets a hidden sidecar `dir/.name.crc` holding
// CRC-32C hashes of fixed-size blocks of the data. Reads verify against
// the sidecar when verification is enabled, writes regenerate it, and
// listings and walks hide sidecars entirely, so the wrapped tree looks
// like a plain filesystem that happens to detect corruption.
package checksum

import (
	"io/fs"
	"os"
	"path"
	"strings"
	"sync/atomic"

	"github.com/jmgilman/go/fsshell/core"
)

const (
	// DefaultBlockSize is the number of data bytes covered by one stored
	// checksum.
	DefaultBlockSize = 512

	// Suffix is the sidecar file suffix.
	Suffix = ".crc"
)

// FS layers sidecar checksums over another filesystem. It implements
// core.FS plus the core.ChecksumFS capability.
type FS struct {
	raw       core.FS
	blockSize uint32
	verify    atomic.Bool
}

// Option configures the wrapper.
type Option func(*FS)

// WithBlockSize sets the number of data bytes covered by each stored
// checksum. Existing sidecars carry their own block size, so changing this
// only affects newly written files.
func WithBlockSize(n uint32) Option {
	return func(f *FS) {
		if n > 0 {
			f.blockSize = n
		}
	}
}

// WithoutVerification creates the wrapper with read-side verification
// disabled. Sidecars are still written and copied.
func WithoutVerification() Option {
	return func(f *FS) {
		f.verify.Store(false)
	}
}

// New wraps raw with sidecar checksum maintenance. Verification is on by
// default.
func New(raw core.FS, opts ...Option) *FS {
	f := &FS{raw: raw, blockSize: DefaultBlockSize}
	f.verify.Store(true)
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// SetVerify toggles read-side verification. Safe to call concurrently
// with reads; files opened before the toggle keep the behavior they were
// opened with.
func (f *FS) SetVerify(verify bool) {
	f.verify.Store(verify)
}

// Verifying reports whether reads currently verify against sidecars.
func (f *FS) Verifying() bool {
	return f.verify.Load()
}

// ChecksumPath maps a data path to its sidecar path: `dir/name` becomes
// `dir/.name.crc`. The mapping is lexical only.
func (f *FS) ChecksumPath(name string) string {
	return SidecarPath(name)
}

// SidecarPath returns the sidecar path for a data path under the naming
// convention used by this package.
func SidecarPath(name string) string {
	dir, base := path.Split(path.Clean(name))
	return dir + "." + base + Suffix
}

// RawFS returns the wrapped filesystem without checksum behavior.
func (f *FS) RawFS() core.FS {
	return f.raw
}

// IsChecksumFile reports whether name follows the sidecar naming
// convention.
func IsChecksumFile(name string) bool {
	base := path.Base(name)
	return strings.HasPrefix(base, ".") && strings.HasSuffix(base, Suffix)
}

// Open opens the named data file. With verification enabled and a sidecar
// present, the returned file checks each block as it streams; a file with
// no sidecar reads unverified.
func (f *FS) Open(name string) (fs.File, error) {
	inner, err := f.raw.Open(name)
	if err != nil {
		return nil, err
	}
	if !f.verify.Load() {
		return inner, nil
	}
	sums, blockSize, err := f.loadSidecar(name)
	if err != nil {
		_ = inner.Close()
		return nil, err
	}
	if sums == nil {
		return inner, nil
	}
	return newVerifyingFile(inner, name, sums, blockSize), nil
}

// loadSidecar reads and decodes the sidecar for name. A missing sidecar
// yields (nil, 0, nil).
func (f *FS) loadSidecar(name string) ([]uint32, uint32, error) {
	raw, err := f.raw.ReadFile(f.ChecksumPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, nil
		}
		return nil, 0, err
	}
	sums, blockSize, err := decodeSidecar(raw)
	if err != nil {
		return nil, 0, &fs.PathError{Op: "open", Path: name, Err: err}
	}
	return sums, blockSize, nil
}

// Stat returns metadata for the named data file.
func (f *FS) Stat(name string) (fs.FileInfo, error) {
	return f.raw.Stat(name)
}

// ReadDir lists the immediate children of the named directory with
// sidecar files filtered out.
func (f *FS) ReadDir(name string) ([]fs.DirEntry, error) {
	entries, err := f.raw.ReadDir(name)
	if err != nil {
		return nil, err
	}
	visible := entries[:0]
	for _, entry := range entries {
		if !entry.IsDir() && IsChecksumFile(entry.Name()) {
			continue
		}
		visible = append(visible, entry)
	}
	return visible, nil
}

// ReadFile reads the whole named file, verifying it against its sidecar
// when verification is enabled.
func (f *FS) ReadFile(name string) ([]byte, error) {
	data, err := f.raw.ReadFile(name)
	if err != nil {
		return nil, err
	}
	if !f.verify.Load() {
		return data, nil
	}
	sums, blockSize, err := f.loadSidecar(name)
	if err != nil {
		return nil, err
	}
	if sums != nil {
		if err := verifyBlocks(data, sums, blockSize); err != nil {
			return nil, &fs.PathError{Op: "read", Path: name, Err: err}
		}
	}
	return data, nil
}

// Exists reports whether the named path exists.
func (f *FS) Exists(name string) (bool, error) {
	return f.raw.Exists(name)
}

// Create creates or truncates the named file. The sidecar is written when
// the returned file is closed.
func (f *FS) Create(name string) (core.File, error) {
	inner, err := f.raw.Create(name)
	if err != nil {
		return nil, err
	}
	return newSummingFile(inner, f, name), nil
}

// OpenFile opens a file with the given flags. Write modes produce a
// sidecar on close; read modes behave like Open. Read-write mode is not
// supported because the block sums cannot be patched incrementally.
func (f *FS) OpenFile(name string, flag int, perm fs.FileMode) (core.File, error) {
	if flag&os.O_RDWR != 0 {
		return nil, &fs.PathError{Op: "open", Path: name, Err: core.ErrUnsupported}
	}
	inner, err := f.raw.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	if flag&(os.O_WRONLY|os.O_CREATE) != 0 {
		return newSummingFile(inner, f, name), nil
	}
	return inner, nil
}

// WriteFile writes data and its freshly computed sidecar.
func (f *FS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	if err := f.raw.WriteFile(name, data, perm); err != nil {
		return err
	}
	sums := sumBlocks(data, f.blockSize)
	return f.raw.WriteFile(f.ChecksumPath(name), encodeSidecar(sums, f.blockSize), sidecarPerm)
}

// Mkdir creates a single directory.
func (f *FS) Mkdir(name string, perm fs.FileMode) error {
	return f.raw.Mkdir(name, perm)
}

// MkdirAll creates a directory and any missing parents.
func (f *FS) MkdirAll(path string, perm fs.FileMode) error {
	return f.raw.MkdirAll(path, perm)
}

// Remove removes the named file and its sidecar, if one exists.
func (f *FS) Remove(name string) error {
	if err := f.raw.Remove(name); err != nil {
		return err
	}
	if err := f.raw.Remove(f.ChecksumPath(name)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// RemoveAll removes path and everything under it, sidecars included.
func (f *FS) RemoveAll(path string) error {
	return f.raw.RemoveAll(path)
}

// Rename moves oldpath to newpath and carries the sidecar along so the
// data stays verifiable under its new name.
func (f *FS) Rename(oldpath, newpath string) error {
	if err := f.raw.Rename(oldpath, newpath); err != nil {
		return err
	}
	oldSidecar := f.ChecksumPath(oldpath)
	ok, err := f.raw.Exists(oldSidecar)
	if err != nil || !ok {
		return err
	}
	return f.raw.Rename(oldSidecar, f.ChecksumPath(newpath))
}

// Walk walks the tree rooted at root, hiding sidecar files from walkFn.
func (f *FS) Walk(root string, walkFn fs.WalkDirFunc) error {
	return f.raw.Walk(root, func(path string, d fs.DirEntry, err error) error {
		if d != nil && !d.IsDir() && IsChecksumFile(path) {
			return nil
		}
		return walkFn(path, d, err)
	})
}

// Glob expands a wildcard specifier. Matching runs over this wrapper's
// ReadDir, so sidecar files never match.
func (f *FS) Glob(pattern string) ([]string, error) {
	return core.Glob(f, pattern)
}

// Chroot returns a checksum-maintaining view scoped to dir when the
// wrapped filesystem supports scoping.
func (f *FS) Chroot(dir string) (core.FS, error) {
	cfs, ok := f.raw.(core.ChrootFS)
	if !ok {
		return nil, &fs.PathError{Op: "chroot", Path: dir, Err: core.ErrUnsupported}
	}
	scoped, err := cfs.Chroot(dir)
	if err != nil {
		return nil, err
	}
	sub := &FS{raw: scoped, blockSize: f.blockSize}
	sub.verify.Store(f.verify.Load())
	return sub, nil
}

// Type reports the wrapped filesystem's storage kind.
func (f *FS) Type() core.FSType {
	return f.raw.Type()
}

// Compile-time interface checks.
var (
	_ core.FS         = (*FS)(nil)
	_ core.ChecksumFS = (*FS)(nil)
	_ core.GlobFS     = (*FS)(nil)
	_ core.ChrootFS   = (*FS)(nil)
)
