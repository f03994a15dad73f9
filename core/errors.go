package core

import (
	"errors"
	"io/fs"
)

var (
	// ErrNotExist is returned when a file or directory does not exist.
	// Re-exported from io/fs for convenience.
	ErrNotExist = fs.ErrNotExist

	// ErrExist is returned when a file or directory already exists.
	// Re-exported from io/fs for convenience.
	ErrExist = fs.ErrExist

	// ErrPermission is returned when permission is denied.
	// Re-exported from io/fs for convenience.
	ErrPermission = fs.ErrPermission

	// ErrClosed is returned when an operation is performed on a closed
	// file. Re-exported from io/fs for convenience.
	ErrClosed = fs.ErrClosed

	// ErrUnsupported is returned when a backend does not provide an
	// optional capability, for example trash delegation on a plain local
	// filesystem or metadata operations on an object store.
	ErrUnsupported = errors.New("operation not supported")

	// ErrChecksumMismatch is returned by checksum-verifying reads when
	// data bytes do not hash to the values recorded in the sidecar file.
	ErrChecksumMismatch = errors.New("checksum mismatch")
)
