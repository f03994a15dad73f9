package fstest

import (
	"io/fs"
	"os"
	"sync"

	"github.com/jmgilman/go/fsshell/core"
)

// SpyFS wraps a core.FS and records every mutating operation performed
// through it. Tests use it to assert that a failed command planned its
// work before touching the destination.
type SpyFS struct {
	core.FS

	mu    sync.Mutex
	calls []string
	stats map[string]int
}

var _ core.FS = (*SpyFS)(nil)

// NewSpy returns a SpyFS recording mutations against inner.
func NewSpy(inner core.FS) *SpyFS {
	return &SpyFS{FS: inner, stats: make(map[string]int)}
}

// Stat counts per-path metadata queries in addition to delegating.
func (s *SpyFS) Stat(name string) (fs.FileInfo, error) {
	s.mu.Lock()
	s.stats[name]++
	s.mu.Unlock()
	return s.FS.Stat(name)
}

// StatCount returns how many times name was stat'ed through the spy.
func (s *SpyFS) StatCount(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats[name]
}

// Mutations returns the mutating operations observed so far, in order,
// formatted as "op path".
func (s *SpyFS) Mutations() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// MutationCount returns the number of mutating operations observed.
func (s *SpyFS) MutationCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *SpyFS) record(op, name string) {
	s.mu.Lock()
	s.calls = append(s.calls, op+" "+name)
	s.mu.Unlock()
}

func (s *SpyFS) Create(name string) (core.File, error) {
	s.record("create", name)
	return s.FS.Create(name)
}

func (s *SpyFS) OpenFile(name string, flag int, perm fs.FileMode) (core.File, error) {
	if flag&(os.O_WRONLY|os.O_RDWR|os.O_CREATE|os.O_APPEND|os.O_TRUNC) != 0 {
		s.record("openfile", name)
	}
	return s.FS.OpenFile(name, flag, perm)
}

func (s *SpyFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	s.record("writefile", name)
	return s.FS.WriteFile(name, data, perm)
}

func (s *SpyFS) Mkdir(name string, perm fs.FileMode) error {
	s.record("mkdir", name)
	return s.FS.Mkdir(name, perm)
}

func (s *SpyFS) MkdirAll(name string, perm fs.FileMode) error {
	s.record("mkdirall", name)
	return s.FS.MkdirAll(name, perm)
}

func (s *SpyFS) Remove(name string) error {
	s.record("remove", name)
	return s.FS.Remove(name)
}

func (s *SpyFS) RemoveAll(name string) error {
	s.record("removeall", name)
	return s.FS.RemoveAll(name)
}

func (s *SpyFS) Rename(oldname, newname string) error {
	s.record("rename", newname)
	return s.FS.Rename(oldname, newname)
}
