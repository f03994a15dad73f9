package minio

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"path"
	"time"

	"github.com/jmgilman/go/fsshell/core"
	"github.com/minio/minio-go/v7"
)

// streamFile streams an object for reading without buffering it whole.
type streamFile struct {
	owner  *FS
	key    string
	name   string
	obj    *minio.Object
	info   minio.ObjectInfo
	offset int64
	closed bool
}

// newStreamFile stats the object (so missing keys fail at open, not at
// first read) and opens it for streaming.
func newStreamFile(ctx context.Context, owner *FS, key, name string) (*streamFile, error) {
	info, err := owner.client.StatObject(ctx, owner.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, pathError("open", name, translate(err))
	}
	obj, err := owner.client.GetObject(ctx, owner.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, pathError("open", name, translate(err))
	}
	return &streamFile{owner: owner, key: key, name: name, obj: obj, info: info}, nil
}

func (f *streamFile) Read(p []byte) (int, error) {
	if f.closed {
		return 0, pathError("read", f.name, fs.ErrClosed)
	}
	n, err := f.obj.Read(p)
	f.offset += int64(n)
	if n > 0 && errors.Is(err, io.EOF) {
		return n, nil
	}
	return n, err
}

// readAll drains the remainder of the stream into an exactly sized
// buffer.
func (f *streamFile) readAll() ([]byte, error) {
	buf := make([]byte, f.info.Size-f.offset)
	if _, err := io.ReadFull(f.obj, buf); err != nil {
		return nil, pathError("read", f.name, err)
	}
	f.offset = f.info.Size
	return buf, nil
}

func (f *streamFile) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	return f.obj.Close()
}

func (f *streamFile) Stat() (fs.FileInfo, error) {
	return newFileInfo(path.Base(f.name), f.info.Size, f.info.LastModified, 0644), nil
}

func (f *streamFile) Name() string {
	return f.name
}

// Write is rejected: stream files are read-only.
func (f *streamFile) Write([]byte) (int, error) {
	return 0, pathError("write", f.name, fs.ErrInvalid)
}

// Seek repositions the stream by reopening the object with a range
// request.
func (f *streamFile) Seek(offset int64, whence int) (int64, error) {
	if f.closed {
		return 0, pathError("seek", f.name, fs.ErrClosed)
	}
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = f.offset + offset
	case io.SeekEnd:
		target = f.info.Size + offset
	default:
		return 0, pathError("seek", f.name, fs.ErrInvalid)
	}
	if target < 0 {
		return 0, pathError("seek", f.name, fs.ErrInvalid)
	}
	if target == f.offset {
		return target, nil
	}

	_ = f.obj.Close()
	opts := minio.GetObjectOptions{}
	if target > 0 {
		if err := opts.SetRange(target, 0); err != nil {
			return 0, pathError("seek", f.name, err)
		}
	}
	obj, err := f.owner.client.GetObject(context.Background(), f.owner.bucket, f.key, opts)
	if err != nil {
		return 0, pathError("seek", f.name, translate(err))
	}
	f.obj = obj
	f.offset = target
	return target, nil
}

// putFile streams written bytes straight into a PutObject upload through
// a pipe. The upload finishes, and its error surfaces, on Close.
type putFile struct {
	owner   *FS
	key     string
	name    string
	pipe    *io.PipeWriter
	result  chan error
	written int64
	closed  bool
}

func newPutFile(owner *FS, key, name string) *putFile {
	pr, pw := io.Pipe()
	result := make(chan error, 1)
	go func() {
		_, err := owner.client.PutObject(context.Background(), owner.bucket, key, pr, -1,
			minio.PutObjectOptions{ContentType: "application/octet-stream"})
		_ = pr.CloseWithError(err)
		result <- translate(err)
		close(result)
	}()
	return &putFile{owner: owner, key: key, name: name, pipe: pw, result: result}
}

func (f *putFile) Write(p []byte) (int, error) {
	if f.closed {
		return 0, pathError("write", f.name, fs.ErrClosed)
	}
	n, err := f.pipe.Write(p)
	f.written += int64(n)
	if err != nil {
		return n, pathError("write", f.name, err)
	}
	return n, nil
}

// Read is rejected: put files are write-only.
func (f *putFile) Read([]byte) (int, error) {
	return 0, pathError("read", f.name, fs.ErrInvalid)
}

func (f *putFile) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	_ = f.pipe.Close()
	if err := <-f.result; err != nil {
		return pathError("close", f.name, err)
	}
	return nil
}

func (f *putFile) Stat() (fs.FileInfo, error) {
	return newFileInfo(path.Base(f.name), f.written, time.Now(), 0644), nil
}

func (f *putFile) Name() string {
	return f.name
}

// Sync has nothing to flush before Close completes the upload.
func (f *putFile) Sync() error { return nil }

// Compile-time interface checks.
var (
	_ core.File   = (*streamFile)(nil)
	_ io.Seeker   = (*streamFile)(nil)
	_ core.File   = (*putFile)(nil)
	_ core.Syncer = (*putFile)(nil)
)
