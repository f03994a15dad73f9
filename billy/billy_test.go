package billy

import (
	iofs "io/fs"
	"os"
	"strings"
	"testing"

	"github.com/jmgilman/go/fsshell/core"
)

// TestNewMemory verifies the in-memory constructor and its reported type.
func TestNewMemory(t *testing.T) {
	fs := NewMemory()
	if fs == nil {
		t.Fatal("NewMemory() returned nil")
	}
	if fs.Type() != core.FSTypeMemory {
		t.Errorf("Type() = %v, want %v", fs.Type(), core.FSTypeMemory)
	}
	if !fs.Type().Posix() {
		t.Error("Type().Posix() = false, want true")
	}
}

// TestNewLocal verifies the disk constructor and its reported type.
func TestNewLocal(t *testing.T) {
	fs := NewLocal(WithRoot(t.TempDir()))
	if fs == nil {
		t.Fatal("NewLocal() returned nil")
	}
	if fs.Type() != core.FSTypeLocal {
		t.Errorf("Type() = %v, want %v", fs.Type(), core.FSTypeLocal)
	}
}

// TestFS_Unwrap verifies the escape hatch exposes the billy filesystem.
func TestFS_Unwrap(t *testing.T) {
	fs := NewMemory()
	bfs := fs.Unwrap()
	if bfs == nil {
		t.Fatal("Unwrap() returned nil")
	}
	if _, err := bfs.Create("direct.txt"); err != nil {
		t.Errorf("failed to use unwrapped filesystem: %v", err)
	}
}

// TestFS_BasicOperations verifies write, read and stat round trips.
func TestFS_BasicOperations(t *testing.T) {
	fs := NewMemory()

	data := []byte("Hello, World!")
	if err := fs.WriteFile("test.txt", data, 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	got, err := fs.ReadFile("test.txt")
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("ReadFile() = %q, want %q", got, data)
	}

	info, err := fs.Stat("test.txt")
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if info.IsDir() {
		t.Error("Stat() IsDir() = true, want false")
	}
	if info.Size() != int64(len(data)) {
		t.Errorf("Stat() Size() = %d, want %d", info.Size(), len(data))
	}
}

// TestFS_Exists verifies Exists for present and absent paths.
func TestFS_Exists(t *testing.T) {
	fs := NewMemory()
	if err := fs.WriteFile("here.txt", []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	ok, err := fs.Exists("here.txt")
	if err != nil || !ok {
		t.Errorf("Exists(here.txt) = %v, %v, want true, nil", ok, err)
	}
	ok, err = fs.Exists("gone.txt")
	if err != nil || ok {
		t.Errorf("Exists(gone.txt) = %v, %v, want false, nil", ok, err)
	}
}

// TestFS_Mkdir verifies single-level directory creation semantics.
func TestFS_Mkdir(t *testing.T) {
	fs := NewMemory()

	if err := fs.MkdirAll("parent", 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := fs.Mkdir("parent/child", 0755); err != nil {
		t.Fatalf("Mkdir() error = %v", err)
	}
	if err := fs.Mkdir("parent/child", 0755); err == nil {
		t.Error("Mkdir() on existing directory succeeded, want error")
	}
	if err := fs.Mkdir("missing/child", 0755); err == nil {
		t.Error("Mkdir() under missing parent succeeded, want error")
	}

	// MkdirAll stays idempotent.
	if err := fs.MkdirAll("parent/child", 0755); err != nil {
		t.Errorf("MkdirAll() on existing directory error = %v", err)
	}
}

// TestFS_ReadDirSorted verifies children come back in lexical order.
func TestFS_ReadDirSorted(t *testing.T) {
	fs := NewMemory()
	for _, name := range []string{"dir/c.txt", "dir/a.txt", "dir/b.txt"} {
		if err := fs.WriteFile(name, []byte("x"), 0644); err != nil {
			t.Fatalf("WriteFile(%s) error = %v", name, err)
		}
	}

	entries, err := fs.ReadDir("dir")
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	want := []string{"a.txt", "b.txt", "c.txt"}
	if len(names) != len(want) {
		t.Fatalf("ReadDir() returned %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("ReadDir()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

// TestFS_RenameAndRemove verifies move and delete operations.
func TestFS_RenameAndRemove(t *testing.T) {
	fs := NewMemory()
	if err := fs.WriteFile("old.txt", []byte("data"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if err := fs.Rename("old.txt", "new.txt"); err != nil {
		t.Fatalf("Rename() error = %v", err)
	}
	if ok, _ := fs.Exists("old.txt"); ok {
		t.Error("old path still exists after Rename()")
	}
	data, err := fs.ReadFile("new.txt")
	if err != nil || string(data) != "data" {
		t.Errorf("ReadFile(new.txt) = %q, %v, want \"data\", nil", data, err)
	}

	if err := fs.Remove("new.txt"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if ok, _ := fs.Exists("new.txt"); ok {
		t.Error("path still exists after Remove()")
	}
}

// TestFS_RemoveAll verifies recursive deletion.
func TestFS_RemoveAll(t *testing.T) {
	fs := NewMemory()
	for _, name := range []string{"tree/a.txt", "tree/sub/b.txt"} {
		if err := fs.WriteFile(name, []byte("x"), 0644); err != nil {
			t.Fatalf("WriteFile(%s) error = %v", name, err)
		}
	}

	if err := fs.RemoveAll("tree"); err != nil {
		t.Fatalf("RemoveAll() error = %v", err)
	}
	if ok, _ := fs.Exists("tree"); ok {
		t.Error("tree still exists after RemoveAll()")
	}
}

// TestFS_OpenFileExclusive verifies O_EXCL rejects existing files.
func TestFS_OpenFileExclusive(t *testing.T) {
	fs := NewMemory()
	if err := fs.WriteFile("taken.txt", []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	_, err := fs.OpenFile("taken.txt", os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err == nil {
		t.Error("OpenFile(O_EXCL) on existing file succeeded, want error")
	}

	f, err := fs.OpenFile("fresh.txt", os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		t.Fatalf("OpenFile(O_EXCL) on fresh file error = %v", err)
	}
	f.Close()
}

// TestFS_Walk verifies traversal order and paths.
func TestFS_Walk(t *testing.T) {
	fs := NewMemory()
	for _, name := range []string{"root/b/x.txt", "root/a.txt"} {
		if err := fs.WriteFile(name, []byte("x"), 0644); err != nil {
			t.Fatalf("WriteFile(%s) error = %v", name, err)
		}
	}

	var visited []string
	err := fs.Walk("root", func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		visited = append(visited, path)
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}

	want := []string{"root", "root/a.txt", "root/b", "root/b/x.txt"}
	if len(visited) != len(want) {
		t.Fatalf("Walk() visited %v, want %v", visited, want)
	}
	for i := range want {
		if visited[i] != want[i] {
			t.Errorf("Walk()[%d] = %q, want %q", i, visited[i], want[i])
		}
	}
}

// TestFS_Glob verifies wildcard expansion through the shared engine.
func TestFS_Glob(t *testing.T) {
	fs := NewMemory()
	for _, name := range []string{"logs/app.log", "logs/db.log", "logs/readme.txt"} {
		if err := fs.WriteFile(name, []byte("x"), 0644); err != nil {
			t.Fatalf("WriteFile(%s) error = %v", name, err)
		}
	}

	matches, err := fs.Glob("logs/*.log")
	if err != nil {
		t.Fatalf("Glob() error = %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("Glob() = %v, want 2 matches", matches)
	}
	if matches[0] != "logs/app.log" || matches[1] != "logs/db.log" {
		t.Errorf("Glob() = %v, want [logs/app.log logs/db.log]", matches)
	}

	matches, err = fs.Glob("logs/*.csv")
	if err != nil {
		t.Fatalf("Glob() error = %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("Glob() on no match = %v, want empty", matches)
	}
}

// TestFS_TempFile verifies unique prefixed temp files land in dir.
func TestFS_TempFile(t *testing.T) {
	fs := NewMemory()
	if err := fs.MkdirAll("work", 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}

	f, err := fs.TempFile("work", "_staging_*")
	if err != nil {
		t.Fatalf("TempFile() error = %v", err)
	}
	defer f.Close()

	name := f.Name()
	if !strings.HasPrefix(name, "work/_staging_") {
		t.Errorf("TempFile() name = %q, want prefix work/_staging_", name)
	}
	if ok, _ := fs.Exists(name); !ok {
		t.Errorf("TempFile() result %q does not exist", name)
	}
}

// TestFS_Chroot verifies scoped views cannot see outside dir.
func TestFS_Chroot(t *testing.T) {
	fs := NewMemory()
	if err := fs.WriteFile("jail/inner.txt", []byte("in"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := fs.WriteFile("outer.txt", []byte("out"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	scoped, err := fs.Chroot("jail")
	if err != nil {
		t.Fatalf("Chroot() error = %v", err)
	}
	if ok, _ := scoped.Exists("inner.txt"); !ok {
		t.Error("scoped view cannot see inner.txt")
	}
	if ok, _ := scoped.Exists("outer.txt"); ok {
		t.Error("scoped view can see outer.txt")
	}
}
