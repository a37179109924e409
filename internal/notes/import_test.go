package notes

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func TestDedupHash(t *testing.T) {
	a := DedupHash("title", "body")
	assert.Equal(t, a, DedupHash("title", "body"))
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, DedupHash("body", "title"), "order sensitive")
	assert.NotEqual(t, a, DedupHash("title", "body "))
}

func TestImportFile_Twice(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	p := writeFile(t, t.TempDir(), "groceries.md", "milk\neggs\n")

	first, err := s.ImportFile(ctx, p)
	require.NoError(t, err)
	assert.False(t, first.Duplicate)
	assert.NotZero(t, first.ID)

	second, err := s.ImportFile(ctx, p)
	require.NoError(t, err)
	assert.True(t, second.Duplicate)
	assert.Zero(t, second.ID)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	n, err := s.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "groceries", n.Title)
	assert.Equal(t, "milk\neggs\n", n.Body)
	require.NotNil(t, n.ImportHash)
	assert.Equal(t, DedupHash("groceries", "milk\neggs\n"), *n.ImportHash)

	exists, err := s.ExistsByHash(ctx, *n.ImportHash)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestImportFile_InvalidUTF8Replaced(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	p := writeFile(t, t.TempDir(), "bad.txt", "ok \xff\xfe end")

	r, err := s.ImportFile(ctx, p)
	require.NoError(t, err)
	n, err := s.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "ok � end", n.Body)
}

func TestImportFile_Missing(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.ImportFile(context.Background(), filepath.Join(t.TempDir(), "nope.md"))
	require.Error(t, err)
	assert.True(t, IsFileError(err))
}

func TestImportDir_FiltersAndOrders(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	dir := t.TempDir()

	writeFile(t, dir, "b.md", "bee")
	writeFile(t, dir, "a.TXT", "ay")
	writeFile(t, dir, "c.markdown", "see")
	writeFile(t, dir, "skip.go", "package x")
	writeFile(t, dir, ".md", "dotfile")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.md"), 0755))
	writeFile(t, filepath.Join(dir, "sub.md"), "nested.md", "deep")

	sum, err := s.ImportDir(ctx, dir, DefaultAllowlist())
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Imported)
	assert.Equal(t, 0, sum.Skipped)
	require.Len(t, sum.IDs, 3)

	var titles []string
	for _, id := range sum.IDs {
		n, err := s.Get(ctx, id)
		require.NoError(t, err)
		titles = append(titles, n.Title)
	}
	assert.Equal(t, []string{"a", "b", "c"}, titles)

	again, err := s.ImportDir(ctx, dir, DefaultAllowlist())
	require.NoError(t, err)
	assert.Equal(t, 0, again.Imported)
	assert.Equal(t, 3, again.Skipped)
	assert.Empty(t, again.IDs)
}

func TestImportFiles_UnreadableDropped(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits not enforced")
	}
	s, _ := newTestStore(t)
	ctx := context.Background()
	dir := t.TempDir()

	good := writeFile(t, dir, "good.md", "fine")
	locked := writeFile(t, dir, "locked.md", "secret")
	require.NoError(t, os.Chmod(locked, 0000))
	t.Cleanup(func() { os.Chmod(locked, 0644) })

	sum, err := s.ImportFiles(ctx, []string{good, locked})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Imported)
	assert.Equal(t, 0, sum.Skipped)
	require.Len(t, sum.Failed, 1)
	assert.Equal(t, locked, sum.Failed[0].Path)
}

func TestImportFiles_Cancelled(t *testing.T) {
	s, _ := newTestStore(t)
	dir := t.TempDir()
	p := writeFile(t, dir, "one.md", "1")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sum, err := s.ImportFiles(ctx, []string{p})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, sum.Imported)
}

func TestImportDir_MissingDir(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.ImportDir(context.Background(), filepath.Join(t.TempDir(), "absent"), DefaultAllowlist())
	require.Error(t, err)
	assert.True(t, IsFileError(err))
}

func TestAllowlist(t *testing.T) {
	a := NewAllowlist([]string{"MD", ".txt", "txt", "", "*"})
	assert.Equal(t, []string{".md", ".txt"}, a.Extensions())
	assert.Equal(t, "*.{md,txt}", a.Pattern())

	tests := []struct {
		name string
		want bool
	}{
		{"notes.md", true},
		{"NOTES.MD", true},
		{"a.b.txt", true},
		{"/some/dir/x.txt", true},
		{"x.markdown", false},
		{".md", false},
		{"md", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.Match(tt.name))
		})
	}

	assert.False(t, NewAllowlist(nil).Match("x.md"))
}

func TestStem(t *testing.T) {
	assert.Equal(t, "report", stem("/tmp/report.md"))
	assert.Equal(t, "archive.tar", stem("archive.tar.txt"))
	assert.Equal(t, ".md", stem(".md"))
}
