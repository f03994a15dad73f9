package minio

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/go/fsshell/core"
)

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid config with credentials",
			config: Config{
				Endpoint:  "localhost:9000",
				Bucket:    "test-bucket",
				AccessKey: "minioadmin",
				SecretKey: "minioadmin",
			},
			wantErr: false,
		},
		{
			name: "valid config with client",
			config: Config{
				Client: &minio.Client{},
				Bucket: "test-bucket",
			},
			wantErr: false,
		},
		{
			name: "missing bucket",
			config: Config{
				Endpoint:  "localhost:9000",
				AccessKey: "minioadmin",
				SecretKey: "minioadmin",
			},
			wantErr: true,
			errMsg:  "bucket is required",
		},
		{
			name: "missing endpoint without client",
			config: Config{
				Bucket:    "test-bucket",
				AccessKey: "minioadmin",
				SecretKey: "minioadmin",
			},
			wantErr: true,
			errMsg:  "endpoint is required",
		},
		{
			name: "missing credentials without client",
			config: Config{
				Endpoint: "localhost:9000",
				Bucket:   "test-bucket",
			},
			wantErr: true,
			errMsg:  "credentials are required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	m, err := New(Config{Client: &minio.Client{}, Bucket: "b", Prefix: "/team/data/"})
	require.NoError(t, err)
	assert.Equal(t, "team/data", m.prefix)
	assert.Equal(t, 10, m.copyConcurrency)
	assert.Equal(t, core.FSTypeRemote, m.Type())
	assert.False(t, m.Type().Posix())
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "."},
		{".", "."},
		{"/", "."},
		{"a/b", "a/b"},
		{"/a/b/", "a/b"},
		{"a//b", "a/b"},
		{"a/./b", "a/b"},
		{"a\\b", "a/b"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeName(tt.in), "normalizeName(%q)", tt.in)
	}
}

func TestJoinKey(t *testing.T) {
	tests := []struct {
		prefix string
		name   string
		want   string
	}{
		{"", "a/b", "a/b"},
		{"pre", "a/b", "pre/a/b"},
		{"pre", ".", "pre"},
		{"pre", "/", "pre"},
		{"", ".", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, joinKey(tt.prefix, tt.name), "joinKey(%q, %q)", tt.prefix, tt.name)
	}
}

func TestDirKey(t *testing.T) {
	assert.Equal(t, "", dirKey(""))
	assert.Equal(t, "a/b/", dirKey("a/b"))
	assert.Equal(t, "a/b/", dirKey("a/b/"))
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		code string
		want error
	}{
		{"missing key", "NoSuchKey", fs.ErrNotExist},
		{"missing bucket", "NoSuchBucket", fs.ErrNotExist},
		{"denied", "AccessDenied", fs.ErrPermission},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := translate(minio.ErrorResponse{Code: tt.code})
			assert.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("nil passes through", func(t *testing.T) {
		assert.NoError(t, translate(nil))
	})

	t.Run("unknown errors keep their chain", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := translate(cause)
		assert.ErrorIs(t, err, cause)
	})
}

func TestPathError(t *testing.T) {
	inner := &fs.PathError{Op: "stat", Path: "a/b", Err: fs.ErrNotExist}
	assert.Same(t, inner, pathError("open", "a/b", inner), "same-path PathError should not be re-wrapped")

	wrapped := pathError("open", "c/d", fs.ErrNotExist)
	var pe *fs.PathError
	require.ErrorAs(t, wrapped, &pe)
	assert.Equal(t, "c/d", pe.Path)
	assert.ErrorIs(t, wrapped, fs.ErrNotExist)
}

func TestFileInfoAndDirEntry(t *testing.T) {
	di := newDirInfo("snapshots")
	assert.True(t, di.IsDir())
	assert.Equal(t, "snapshots", di.Name())

	e := newDirEntry("obj.bin", false, 42, zeroTime)
	assert.False(t, e.IsDir())
	info, err := e.Info()
	require.NoError(t, err)
	assert.Equal(t, int64(42), info.Size())
}
