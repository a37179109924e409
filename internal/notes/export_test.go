package notes

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		name  string
		id    int64
		title string
		want  string
	}{
		{"plain", 1, "Hello World", "Hello-World"},
		{"punctuation dropped", 2, "What? A /path/ & more!", "What-A-path--more"},
		{"trimmed", 3, "  padded  ", "padded"},
		{"fallback", 4, "!!!", "note-4"},
		{"empty", 5, "", "note-5"},
		{"unicode letters kept", 6, "Café déjà", "Café-déjà"},
		{"underscore hyphen", 7, "a_b-c", "a_b-c"},
		{"numeric symbols kept", 9, "x² ½ Ⅻ", "x²-½-Ⅻ"},
		{"truncated", 8, strings.Repeat("x", 60), strings.Repeat("x", 50)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slug(tt.id, tt.title))
		})
	}
}

func TestExport_SelectedIDs(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	a, err := s.Upsert(ctx, UpsertParams{Title: "First note", Body: "body one"})
	require.NoError(t, err)
	b, err := s.Upsert(ctx, UpsertParams{Title: "Second/note", Body: "body two"})
	require.NoError(t, err)
	_, err = s.Upsert(ctx, UpsertParams{Title: "not exported", Body: ""})
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "nested", "out")
	res, err := s.Export(ctx, dir, []int64{a, b, 404, a})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Written)
	assert.Equal(t, []int64{404}, res.Missing)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"note-1-First-note.md", "note-2-Secondnote.md"}, names)

	data, err := os.ReadFile(filepath.Join(dir, "note-1-First-note.md"))
	require.NoError(t, err)
	n, err := s.Get(ctx, a)
	require.NoError(t, err)
	want := "# First note\n\n_Created: " + n.CreatedAt.Format(timeLayout) +
		" · Updated: " + n.UpdatedAt.Format(timeLayout) + "_\n\nbody one"
	assert.Equal(t, want, string(data))
}

func TestExport_AllWhenNil(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Seed(ctx, 3))

	res, err := s.Export(ctx, t.TempDir(), nil)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Written)
	assert.Len(t, res.Paths, 3)
}

func TestExport_EmptyIDsWritesNothing(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Seed(ctx, 2))

	res, err := s.Export(ctx, t.TempDir(), []int64{})
	require.NoError(t, err)
	assert.Zero(t, res.Written)
}

func TestExport_DirIsFile(t *testing.T) {
	s, _ := newTestStore(t)
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	_, err := s.Export(context.Background(), filepath.Join(blocker, "out"), nil)
	require.Error(t, err)
	assert.True(t, IsFileError(err))
}
