package fstest

import (
	"errors"
	"io/fs"

	"github.com/jmgilman/go/fsshell/core"
)

// ErrInjected is the error surfaced by fault-injecting wrappers.
var ErrInjected = errors.New("injected fault")

// FaultFS wraps a core.FS and fails reads of a single file partway
// through, simulating a source that dies mid-transfer.
type FaultFS struct {
	core.FS

	// Path is the file whose reads fail.
	Path string
	// FailAfter is the number of bytes readable before the fault fires.
	FailAfter int64
}

var _ core.FS = (*FaultFS)(nil)

// NewFault returns a FaultFS over inner that fails reads of path after
// failAfter bytes.
func NewFault(inner core.FS, path string, failAfter int64) *FaultFS {
	return &FaultFS{FS: inner, Path: path, FailAfter: failAfter}
}

func (f *FaultFS) Open(name string) (fs.File, error) {
	file, err := f.FS.Open(name)
	if err != nil || name != f.Path {
		return file, err
	}
	return &faultFile{File: file, remaining: f.FailAfter}, nil
}

func (f *FaultFS) ReadFile(name string) ([]byte, error) {
	if name == f.Path {
		return nil, &fs.PathError{Op: "read", Path: name, Err: ErrInjected}
	}
	return f.FS.ReadFile(name)
}

type faultFile struct {
	fs.File
	remaining int64
}

func (f *faultFile) Read(p []byte) (int, error) {
	if f.remaining <= 0 {
		return 0, ErrInjected
	}
	if int64(len(p)) > f.remaining {
		p = p[:f.remaining]
	}
	n, err := f.File.Read(p)
	f.remaining -= int64(n)
	return n, err
}
