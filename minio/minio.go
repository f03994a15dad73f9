// Package minio provides an S3-compatible remote filesystem backed by the
// MinIO client. Directories are virtual: a prefix exists exactly while
// objects live under it, and Mkdir is therefore a no-op.
package minio

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/jmgilman/go/fsshell/core"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"golang.org/x/sync/errgroup"
)

// Config holds connection settings for an S3-compatible store.
type Config struct {
	// Endpoint is the server address, e.g. "localhost:9000".
	Endpoint string

	// Bucket is the bucket all paths resolve into. Required.
	Bucket string

	// AccessKey and SecretKey authenticate the connection.
	AccessKey string
	SecretKey string

	// UseSSL enables HTTPS.
	UseSSL bool

	// Prefix namespaces every key under a fixed directory.
	Prefix string

	// Client overrides Endpoint/AccessKey/SecretKey with a
	// pre-configured client. Useful for tests.
	Client *minio.Client

	// CopyConcurrency bounds parallel object copies during directory
	// rename. Zero means 10.
	CopyConcurrency int
}

func (c *Config) validate() error {
	if c.Bucket == "" {
		return fmt.Errorf("bucket is required")
	}
	if c.Client != nil {
		return nil
	}
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint is required when client is not provided")
	}
	if c.AccessKey == "" || c.SecretKey == "" {
		return fmt.Errorf("credentials are required when client is not provided")
	}
	return nil
}

// FS implements core.FS over a bucket (optionally under a key prefix).
type FS struct {
	client          *minio.Client
	bucket          string
	prefix          string
	copyConcurrency int
}

// New connects to an S3-compatible store and returns a filesystem over
// the configured bucket.
func New(cfg Config) (*FS, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	client := cfg.Client
	if client == nil {
		var err error
		client, err = minio.New(cfg.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
			Secure: cfg.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create minio client: %w", err)
		}
	}

	concurrency := cfg.CopyConcurrency
	if concurrency == 0 {
		concurrency = 10
	}

	return &FS{
		client:          client,
		bucket:          cfg.Bucket,
		prefix:          normalizePrefix(cfg.Prefix),
		copyConcurrency: concurrency,
	}, nil
}

// key maps a filesystem name to the full object key.
func (m *FS) key(name string) string {
	return joinKey(m.prefix, name)
}

// dirKey returns key as a listing prefix, with a trailing slash unless it
// is the bucket root.
func dirKey(key string) string {
	if key == "" || strings.HasSuffix(key, "/") {
		return key
	}
	return key + "/"
}

// Open opens the named object for streaming reads.
func (m *FS) Open(name string) (fs.File, error) {
	return newStreamFile(context.Background(), m, m.key(name), name)
}

// Stat returns metadata for the named object, or a synthesized directory
// entry when name is a virtual directory (a prefix with objects under
// it).
func (m *FS) Stat(name string) (fs.FileInfo, error) {
	key := m.key(name)
	ctx := context.Background()

	info, err := m.client.StatObject(ctx, m.bucket, key, minio.StatObjectOptions{})
	if err == nil {
		return newFileInfo(path.Base(name), info.Size, info.LastModified, 0644), nil
	}
	translated := translate(err)
	if !errors.Is(translated, fs.ErrNotExist) {
		return nil, pathError("stat", name, translated)
	}

	// Not an object; a prefix with at least one object under it is a
	// virtual directory. The bucket root always exists.
	if key == "" || name == "." || name == "/" {
		return newDirInfo(path.Base(name)), nil
	}
	ok, err := m.prefixExists(ctx, dirKey(key))
	if err != nil {
		return nil, pathError("stat", name, err)
	}
	if !ok {
		return nil, pathError("stat", name, fs.ErrNotExist)
	}
	return newDirInfo(path.Base(name)), nil
}

// prefixExists reports whether any object lives under prefix.
func (m *FS) prefixExists(ctx context.Context, prefix string) (bool, error) {
	for object := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{
		Prefix:  prefix,
		MaxKeys: 1,
	}) {
		if object.Err != nil {
			return false, translate(object.Err)
		}
		return true, nil
	}
	return false, nil
}

// ReadDir lists the immediate children under name, virtual directories
// included, sorted by name.
func (m *FS) ReadDir(name string) ([]fs.DirEntry, error) {
	prefix := dirKey(m.key(name))
	ctx := context.Background()

	var entries []fs.DirEntry
	for object := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{
		Prefix: prefix,
	}) {
		if object.Err != nil {
			return nil, pathError("readdir", name, translate(object.Err))
		}
		if object.Key == prefix {
			continue
		}
		rel := strings.TrimPrefix(object.Key, prefix)
		isDir := strings.HasSuffix(rel, "/")
		rel = strings.TrimSuffix(rel, "/")
		if rel == "" {
			continue
		}
		entries = append(entries, newDirEntry(rel, isDir, object.Size, object.LastModified))
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})
	return entries, nil
}

// ReadFile downloads the whole named object.
func (m *FS) ReadFile(name string) ([]byte, error) {
	f, err := newStreamFile(context.Background(), m, m.key(name), name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return f.readAll()
}

// Exists reports whether name exists as an object or a virtual directory.
func (m *FS) Exists(name string) (bool, error) {
	_, err := m.Stat(name)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Create opens the named object for writing. Bytes are streamed to the
// store as they are written; the upload completes on Close.
func (m *FS) Create(name string) (core.File, error) {
	return newPutFile(m, m.key(name), name), nil
}

// OpenFile opens the named object. O_RDWR and O_APPEND cannot be mapped
// onto object-store semantics; O_EXCL is emulated with a pre-flight
// existence probe (best effort, not atomic).
func (m *FS) OpenFile(name string, flag int, _ fs.FileMode) (core.File, error) {
	if flag&(os.O_RDWR|os.O_APPEND) != 0 {
		return nil, pathError("open", name, core.ErrUnsupported)
	}
	if flag&(os.O_WRONLY|os.O_CREATE) == 0 {
		return newStreamFile(context.Background(), m, m.key(name), name)
	}
	if flag&os.O_EXCL != 0 {
		ok, err := m.Exists(name)
		if err != nil {
			return nil, pathError("open", name, err)
		}
		if ok {
			return nil, pathError("open", name, fs.ErrExist)
		}
	}
	return newPutFile(m, m.key(name), name), nil
}

// WriteFile uploads data as the named object.
func (m *FS) WriteFile(name string, data []byte, _ fs.FileMode) error {
	f := newPutFile(m, m.key(name), name)
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return pathError("writefile", name, err)
	}
	if err := f.Close(); err != nil {
		return pathError("writefile", name, err)
	}
	return nil
}

// Mkdir is a no-op: directories are prefixes and exist implicitly.
func (m *FS) Mkdir(string, fs.FileMode) error { return nil }

// MkdirAll is a no-op for the same reason as Mkdir.
func (m *FS) MkdirAll(string, fs.FileMode) error { return nil }

// Remove removes the named object.
func (m *FS) Remove(name string) error {
	err := m.client.RemoveObject(context.Background(), m.bucket, m.key(name),
		minio.RemoveObjectOptions{})
	if err != nil {
		return pathError("remove", name, translate(err))
	}
	return nil
}

// RemoveAll batch-deletes every object under name.
func (m *FS) RemoveAll(name string) error {
	ctx := context.Background()
	prefix := dirKey(m.key(name))

	objects := make(chan minio.ObjectInfo, 100)
	var listErr error
	go func() {
		defer close(objects)
		for object := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{
			Prefix:    prefix,
			Recursive: true,
		}) {
			if object.Err != nil {
				listErr = object.Err
				return
			}
			objects <- object
		}
	}()

	for rmErr := range m.client.RemoveObjects(ctx, m.bucket, objects, minio.RemoveObjectsOptions{}) {
		if rmErr.Err != nil {
			return pathError("removeall", name, translate(rmErr.Err))
		}
	}
	if listErr != nil {
		return pathError("removeall", name, translate(listErr))
	}
	return nil
}

// Rename moves oldpath to newpath as copy-then-delete. It is NOT atomic:
// a fault mid-way can leave objects at both names. Directory renames copy
// objects in parallel with bounded concurrency.
func (m *FS) Rename(oldpath, newpath string) error {
	ctx := context.Background()
	oldKey, newKey := m.key(oldpath), m.key(newpath)

	if _, err := m.client.StatObject(ctx, m.bucket, oldKey, minio.StatObjectOptions{}); err == nil {
		return m.renameObject(ctx, oldKey, newKey, oldpath)
	}

	copied, err := m.copyTree(ctx, dirKey(oldKey), dirKey(newKey))
	if err != nil {
		return pathError("rename", oldpath, translate(err))
	}
	if len(copied) == 0 {
		return pathError("rename", oldpath, fs.ErrNotExist)
	}

	toDelete := make(chan minio.ObjectInfo, len(copied))
	go func() {
		defer close(toDelete)
		for _, key := range copied {
			toDelete <- minio.ObjectInfo{Key: key}
		}
	}()
	for rmErr := range m.client.RemoveObjects(ctx, m.bucket, toDelete, minio.RemoveObjectsOptions{}) {
		if rmErr.Err != nil {
			return pathError("rename", oldpath, translate(rmErr.Err))
		}
	}
	return nil
}

func (m *FS) renameObject(ctx context.Context, oldKey, newKey, oldpath string) error {
	_, err := m.client.CopyObject(ctx,
		minio.CopyDestOptions{Bucket: m.bucket, Object: newKey},
		minio.CopySrcOptions{Bucket: m.bucket, Object: oldKey})
	if err != nil {
		return pathError("rename", oldpath, translate(err))
	}
	if err := m.client.RemoveObject(ctx, m.bucket, oldKey, minio.RemoveObjectOptions{}); err != nil {
		return pathError("rename", oldpath, translate(err))
	}
	return nil
}

// copyTree copies every object under oldPrefix to newPrefix with a
// bounded worker pool and returns the keys that were copied.
func (m *FS) copyTree(ctx context.Context, oldPrefix, newPrefix string) ([]string, error) {
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(m.copyConcurrency)

	var mu sync.Mutex
	var copied []string

	for object := range m.client.ListObjects(egCtx, m.bucket, minio.ListObjectsOptions{
		Prefix:    oldPrefix,
		Recursive: true,
	}) {
		if object.Err != nil {
			return copied, object.Err
		}
		key := object.Key
		eg.Go(func() error {
			newKey := newPrefix + strings.TrimPrefix(key, oldPrefix)
			_, err := m.client.CopyObject(egCtx,
				minio.CopyDestOptions{Bucket: m.bucket, Object: newKey},
				minio.CopySrcOptions{Bucket: m.bucket, Object: key})
			if err != nil {
				return fmt.Errorf("copy object %s to %s: %w", key, newKey, err)
			}
			mu.Lock()
			copied = append(copied, key)
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return copied, err
	}
	return copied, nil
}

// Walk walks the tree rooted at root in lexical order, handling virtual
// directories.
func (m *FS) Walk(root string, walkFn fs.WalkDirFunc) error {
	info, err := m.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		entry := newDirEntry(path.Base(root), false, info.Size(), info.ModTime())
		return walkFn(root, entry, nil)
	}
	err = m.walkDir(root, walkFn)
	if errors.Is(err, fs.SkipDir) || errors.Is(err, fs.SkipAll) {
		return nil
	}
	return err
}

func (m *FS) walkDir(name string, walkFn fs.WalkDirFunc) error {
	if err := walkFn(name, newDirEntry(path.Base(name), true, 0, zeroTime), nil); err != nil {
		if errors.Is(err, fs.SkipDir) {
			return nil
		}
		return err
	}

	entries, err := m.ReadDir(name)
	if err != nil {
		if err := walkFn(name, nil, err); err != nil {
			return err
		}
	}
	for _, entry := range entries {
		child := joinKey(name, entry.Name())
		if entry.IsDir() {
			if err := m.walkDir(child, walkFn); err != nil && !errors.Is(err, fs.SkipDir) {
				return err
			}
			continue
		}
		if err := walkFn(child, entry, nil); err != nil {
			if errors.Is(err, fs.SkipDir) {
				continue
			}
			return err
		}
	}
	return nil
}

// Glob expands a wildcard specifier using the shared engine.
func (m *FS) Glob(pattern string) ([]string, error) {
	return core.Glob(m, pattern)
}

// Chroot returns a filesystem scoped under dir by extending the key
// prefix. No existence check is made; virtual directories spring into
// being on first write.
func (m *FS) Chroot(dir string) (core.FS, error) {
	return &FS{
		client:          m.client,
		bucket:          m.bucket,
		prefix:          m.key(dir),
		copyConcurrency: m.copyConcurrency,
	}, nil
}

// Type reports FSTypeRemote.
func (m *FS) Type() core.FSType {
	return core.FSTypeRemote
}

// Compile-time interface checks.
var (
	_ core.FS       = (*FS)(nil)
	_ core.GlobFS   = (*FS)(nil)
	_ core.ChrootFS = (*FS)(nil)
)
