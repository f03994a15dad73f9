// Package core defines the filesystem abstraction the shell verbs operate
// over.
//
// A shell instance never talks to a concrete backend directly. It is handed
// one or more values implementing FS, and everything it does (status
// lookups, glob expansion, directory listing, streaming reads and writes)
// goes through the interfaces in this package. Concrete backends live in
// sibling packages (billy for local disk and memory, minio for S3-compatible
// object stores, checksum for the sidecar-checksum wrapper).
//
// # Interface Hierarchy
//
// FS is composed of four sub-interfaces plus the stdlib fs.FS:
//
//   - ReadFS: Open, Stat, ReadDir, ReadFile, Exists
//   - WriteFS: Create, OpenFile, WriteFile, Mkdir, MkdirAll
//   - ManageFS: Remove, RemoveAll, Rename
//   - WalkFS: Walk
//
// # Optional Capabilities
//
// Backends advertise extra behavior through optional interfaces checked by
// type assertion:
//
//   - GlobFS: wildcard expansion of a path specifier
//   - ChecksumFS: per-file sidecar checksum files
//   - TempFS: co-located unique temporary files
//   - ChrootFS: scoped filesystem views
//   - TrashFS: trash expunge/checkpoint delegation
//   - MetadataFS: chmod/chtimes style metadata operations
//
// The shell degrades gracefully when a capability is missing: glob
// expansion falls back to the shared Glob engine, checksum transfer fails
// with an explicit error, temporary files fall back to exclusive-create
// probing.
//
// # Stdlib Compatibility
//
// FS embeds fs.FS and File embeds fs.File, so values can be passed to
// standard library helpers such as fs.WalkDir unchanged.
package core
