package minio

import (
	"fmt"
	"io/fs"

	"github.com/minio/minio-go/v7"
)

// translate maps MinIO error responses to stdlib fs sentinels so callers
// can use errors.Is across backends.
func translate(err error) error {
	if err == nil {
		return nil
	}
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		return fs.ErrNotExist
	case "AccessDenied":
		return fs.ErrPermission
	}
	return fmt.Errorf("minio: %w", err)
}

// pathError wraps err in a fs.PathError unless it already is one for the
// same path.
func pathError(op, path string, err error) error {
	if err == nil {
		return nil
	}
	if pe, ok := err.(*fs.PathError); ok && pe.Path == path {
		return pe
	}
	return &fs.PathError{Op: op, Path: path, Err: err}
}
