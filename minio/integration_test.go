package minio

import (
	"context"
	"io"
	"io/fs"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestFS starts a MinIO container and returns a filesystem over a
// fresh bucket.
func setupTestFS(t *testing.T) *FS {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "minio/minio:latest",
		ExposedPorts: []string{"9000/tcp"},
		Env: map[string]string{
			"MINIO_ROOT_USER":     "minioadmin",
			"MINIO_ROOT_PASSWORD": "minioadmin",
		},
		Cmd:        []string{"server", "/data"},
		WaitingFor: wait.ForHTTP("/minio/health/live").WithPort("9000/tcp"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "failed to start MinIO container")
	t.Cleanup(func() {
		_ = container.Terminate(ctx)
	})

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err, "failed to get container endpoint")

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
		Secure: false,
	})
	require.NoError(t, err, "failed to create MinIO client")

	require.NoError(t, client.MakeBucket(ctx, "test-bucket", minio.MakeBucketOptions{}))

	m, err := New(Config{Client: client, Bucket: "test-bucket"})
	require.NoError(t, err)
	return m
}

func TestIntegration_ReadWrite(t *testing.T) {
	m := setupTestFS(t)

	data := []byte("remote payload")
	require.NoError(t, m.WriteFile("dir/obj.bin", data, 0644))

	got, err := m.ReadFile("dir/obj.bin")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	info, err := m.Stat("dir/obj.bin")
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), info.Size())
	assert.False(t, info.IsDir())
}

func TestIntegration_StreamingCreate(t *testing.T) {
	m := setupTestFS(t)

	f, err := m.Create("streams/out.bin")
	require.NoError(t, err)
	_, err = f.Write([]byte("part one "))
	require.NoError(t, err)
	_, err = f.Write([]byte("part two"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	got, err := m.ReadFile("streams/out.bin")
	require.NoError(t, err)
	assert.Equal(t, "part one part two", string(got))
}

func TestIntegration_OpenStreaming(t *testing.T) {
	m := setupTestFS(t)
	require.NoError(t, m.WriteFile("obj.bin", []byte("stream me"), 0644))

	f, err := m.Open("obj.bin")
	require.NoError(t, err)
	defer f.Close()

	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "stream me", string(data))

	_, err = m.Open("missing.bin")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestIntegration_VirtualDirectories(t *testing.T) {
	m := setupTestFS(t)
	require.NoError(t, m.WriteFile("a/b/c.bin", []byte("x"), 0644))

	info, err := m.Stat("a/b")
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	ok, err := m.Exists("a")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = m.Exists("a/missing")
	require.NoError(t, err)
	assert.False(t, ok)

	// Bucket root always exists.
	info, err = m.Stat(".")
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestIntegration_ReadDir(t *testing.T) {
	m := setupTestFS(t)
	require.NoError(t, m.WriteFile("dir/b.bin", []byte("b"), 0644))
	require.NoError(t, m.WriteFile("dir/a.bin", []byte("a"), 0644))
	require.NoError(t, m.WriteFile("dir/sub/c.bin", []byte("c"), 0644))

	entries, err := m.ReadDir("dir")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "a.bin", entries[0].Name())
	assert.Equal(t, "b.bin", entries[1].Name())
	assert.Equal(t, "sub", entries[2].Name())
	assert.True(t, entries[2].IsDir())
}

func TestIntegration_Walk(t *testing.T) {
	m := setupTestFS(t)
	require.NoError(t, m.WriteFile("tree/a.bin", []byte("a"), 0644))
	require.NoError(t, m.WriteFile("tree/sub/b.bin", []byte("b"), 0644))

	var visited []string
	err := m.Walk("tree", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		visited = append(visited, path)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"tree", "tree/a.bin", "tree/sub", "tree/sub/b.bin"}, visited)
}

func TestIntegration_RenameDirectory(t *testing.T) {
	m := setupTestFS(t)
	require.NoError(t, m.WriteFile("old/a.bin", []byte("a"), 0644))
	require.NoError(t, m.WriteFile("old/sub/b.bin", []byte("b"), 0644))

	require.NoError(t, m.Rename("old", "moved"))

	ok, err := m.Exists("old")
	require.NoError(t, err)
	assert.False(t, ok)

	data, err := m.ReadFile("moved/sub/b.bin")
	require.NoError(t, err)
	assert.Equal(t, "b", string(data))
}

func TestIntegration_RemoveAll(t *testing.T) {
	m := setupTestFS(t)
	require.NoError(t, m.WriteFile("gone/a.bin", []byte("a"), 0644))
	require.NoError(t, m.WriteFile("gone/deep/b.bin", []byte("b"), 0644))
	require.NoError(t, m.WriteFile("kept.bin", []byte("k"), 0644))

	require.NoError(t, m.RemoveAll("gone"))

	ok, err := m.Exists("gone")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = m.Exists("kept.bin")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIntegration_Glob(t *testing.T) {
	m := setupTestFS(t)
	require.NoError(t, m.WriteFile("logs/app.log", []byte("a"), 0644))
	require.NoError(t, m.WriteFile("logs/db.log", []byte("d"), 0644))
	require.NoError(t, m.WriteFile("logs/notes.txt", []byte("n"), 0644))

	matches, err := m.Glob("logs/*.log")
	require.NoError(t, err)
	assert.Equal(t, []string{"logs/app.log", "logs/db.log"}, matches)
}

func TestIntegration_Chroot(t *testing.T) {
	m := setupTestFS(t)
	require.NoError(t, m.WriteFile("scope/inner.bin", []byte("in"), 0644))
	require.NoError(t, m.WriteFile("outer.bin", []byte("out"), 0644))

	scoped, err := m.Chroot("scope")
	require.NoError(t, err)

	ok, err := scoped.Exists("inner.bin")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = scoped.Exists("outer.bin")
	require.NoError(t, err)
	assert.False(t, ok)
}
