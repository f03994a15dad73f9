package minio

import (
	"io/fs"
	"path/filepath"
	"strings"
	"time"
)

var zeroTime time.Time

// normalizeName cleans a path into slash form without leading or trailing
// slashes; empty and "." both normalize to ".".
func normalizeName(name string) string {
	if name == "" {
		return "."
	}
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.ToSlash(filepath.Clean(name))
	name = strings.Trim(name, "/")
	if name == "" {
		return "."
	}
	return name
}

// normalizePrefix normalizes a configured key prefix; "." and "" both
// mean no prefix.
func normalizePrefix(prefix string) string {
	prefix = normalizeName(prefix)
	if prefix == "." {
		return ""
	}
	return prefix
}

// joinKey joins a prefix and a name into an object key.
func joinKey(prefix, name string) string {
	name = normalizeName(name)
	if name == "." {
		return prefix
	}
	if prefix == "" || prefix == "." {
		return name
	}
	return prefix + "/" + name
}

// fileInfo implements fs.FileInfo for objects and virtual directories.
type fileInfo struct {
	name    string
	size    int64
	modTime time.Time
	mode    fs.FileMode
}

func newFileInfo(name string, size int64, modTime time.Time, mode fs.FileMode) *fileInfo {
	return &fileInfo{name: name, size: size, modTime: modTime, mode: mode}
}

func newDirInfo(name string) *fileInfo {
	return &fileInfo{name: name, mode: fs.ModeDir | 0755}
}

func (fi *fileInfo) Name() string       { return fi.name }
func (fi *fileInfo) Size() int64        { return fi.size }
func (fi *fileInfo) Mode() fs.FileMode  { return fi.mode }
func (fi *fileInfo) ModTime() time.Time { return fi.modTime }
func (fi *fileInfo) IsDir() bool        { return fi.mode&fs.ModeDir != 0 }
func (fi *fileInfo) Sys() interface{}   { return nil }

// dirEntry implements fs.DirEntry for listing results.
type dirEntry struct {
	name    string
	isDir   bool
	size    int64
	modTime time.Time
}

func newDirEntry(name string, isDir bool, size int64, modTime time.Time) *dirEntry {
	return &dirEntry{name: name, isDir: isDir, size: size, modTime: modTime}
}

func (e *dirEntry) Name() string { return e.name }
func (e *dirEntry) IsDir() bool  { return e.isDir }

func (e *dirEntry) Type() fs.FileMode {
	if e.isDir {
		return fs.ModeDir
	}
	return 0
}

func (e *dirEntry) Info() (fs.FileInfo, error) {
	if e.isDir {
		return newDirInfo(e.name), nil
	}
	return newFileInfo(e.name, e.size, e.modTime, 0644), nil
}

// Compile-time interface checks.
var (
	_ fs.FileInfo = (*fileInfo)(nil)
	_ fs.DirEntry = (*dirEntry)(nil)
)
