package fsshell_test

import (
	"context"
	"testing"

	platformerrors "github.com/jmgilman/go/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fsshell "github.com/jmgilman/go/fsshell"
	"github.com/jmgilman/go/fsshell/core"
	"github.com/jmgilman/go/fsshell/fstest"
)

func fixtureShell(t *testing.T) *fsshell.Shell {
	t.Helper()
	sh, primary := newShell(t)
	require.NoError(t, fstest.WriteTree(primary, map[string]string{
		"data/a.csv":     "1,2,3",
		"data/b.csv":     "4,5",
		"data/notes.txt": "hello",
		"data/sub/c.csv": "6",
	}))
	return sh
}

func TestCat(t *testing.T) {
	sh := fixtureShell(t)

	entries, err := sh.Cat(context.Background(), "data/*.csv")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "data/a.csv", entries[0].Path)
	assert.Equal(t, "1,2,3", string(entries[0].Data))
	assert.Equal(t, "data/b.csv", entries[1].Path)
	assert.Equal(t, "4,5", string(entries[1].Data))
}

func TestCat_MultiplePatterns(t *testing.T) {
	sh := fixtureShell(t)

	entries, err := sh.Cat(context.Background(), "data/notes.txt", "data/sub/*.csv")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "data/notes.txt", entries[0].Path)
	assert.Equal(t, "data/sub/c.csv", entries[1].Path)
}

func TestCat_NoMatch(t *testing.T) {
	sh := fixtureShell(t)

	_, err := sh.Cat(context.Background(), "data/*.parquet")
	require.Error(t, err)
	assert.ErrorIs(t, err, fsshell.ErrSourceNotFound)
	assert.Equal(t, platformerrors.CodeNotFound, platformerrors.GetCode(err))
}

func TestCount(t *testing.T) {
	sh := fixtureShell(t)

	entries, err := sh.Count(context.Background(), "data")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "data", entries[0].Path)
	assert.Equal(t, core.ContentSummary{
		Length:         14,
		FileCount:      4,
		DirectoryCount: 2,
	}, entries[0].Summary)
}

func TestCount_File(t *testing.T) {
	sh := fixtureShell(t)

	entries, err := sh.Count(context.Background(), "data/a.csv")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, core.ContentSummary{Length: 5, FileCount: 1}, entries[0].Summary)
}

func TestDu_Directory(t *testing.T) {
	sh := fixtureShell(t)

	entries, err := sh.Du(context.Background(), "data")
	require.NoError(t, err)
	require.Len(t, entries, 4)

	got := make(map[string]int64, len(entries))
	for _, e := range entries {
		got[e.Path] = e.Length
	}
	assert.Equal(t, map[string]int64{
		"data/a.csv":     5,
		"data/b.csv":     3,
		"data/notes.txt": 5,
		"data/sub":       1,
	}, got)
}

func TestDu_File(t *testing.T) {
	sh := fixtureShell(t)

	entries, err := sh.Du(context.Background(), "data/a.csv")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, fsshell.DuEntry{Path: "data/a.csv", Length: 5}, entries[0])
}

func TestDus(t *testing.T) {
	sh := fixtureShell(t)

	entries, err := sh.Dus(context.Background(), "data", "data/sub")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, fsshell.DuEntry{Path: "data", Length: 14}, entries[0])
	assert.Equal(t, fsshell.DuEntry{Path: "data/sub", Length: 1}, entries[1])
}

func TestDus_Glob(t *testing.T) {
	sh := fixtureShell(t)

	entries, err := sh.Dus(context.Background(), "data/*.csv")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(5), entries[0].Length)
	assert.Equal(t, int64(3), entries[1].Length)
}
