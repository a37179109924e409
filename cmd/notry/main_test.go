package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcus/notry/internal/notes"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestImportExportCommands(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in")
	require.NoError(t, os.Mkdir(src, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "First.md"), []byte("one"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "second.txt"), []byte("two"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "skip.go"), []byte("x"), 0644))

	db := filepath.Join(dir, "notry.db")
	cfgFile := filepath.Join(dir, "config.json")

	out, err := execute(t, "import", src, "--db", db, "--config", cfgFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 new, skipped 0 duplicates, 0 failed")

	out, err = execute(t, "import", src, "--db", db, "--config", cfgFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 0 new, skipped 2 duplicates, 0 failed")

	dst := filepath.Join(dir, "out")
	out, err = execute(t, "export", dst, "--db", db, "--config", cfgFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 2 notes → "+dst)

	entries, err := os.ReadDir(dst)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"note-1-First.md", "note-2-second.md"}, names)
}

func TestConfigInit(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "config.json")

	_, err := execute(t, "config", "init", "--config", cfgFile, "--db", filepath.Join(dir, "x.db"))
	require.NoError(t, err)
	data, err := os.ReadFile(cfgFile)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"limit": 500`))

	_, err = execute(t, "config", "init", "--config", cfgFile)
	assert.Error(t, err, "refuses to overwrite")
}

func TestRemoveDatabase(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "notry.db")

	assert.NoError(t, removeDatabase(db), "missing file is fine")

	require.NoError(t, os.WriteFile(db, []byte("x"), 0644))
	require.NoError(t, os.WriteFile(db+"-wal", []byte("x"), 0644))
	require.NoError(t, removeDatabase(db))
	_, err := os.Stat(db)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(db + "-wal")
	assert.True(t, os.IsNotExist(err))

	// a non-empty directory cannot be removed
	require.NoError(t, os.MkdirAll(filepath.Join(db, "child"), 0755))
	assert.Error(t, removeDatabase(db))
}

func TestSeedIfEmpty(t *testing.T) {
	ctx := context.Background()
	store, err := notes.Open(filepath.Join(t.TempDir(), "notry.db"), notes.Options{})
	require.NoError(t, err)
	defer store.Close()

	seeded, err := seedIfEmpty(ctx, store, 3)
	require.NoError(t, err)
	assert.True(t, seeded)

	seeded, err = seedIfEmpty(ctx, store, 3)
	require.NoError(t, err)
	assert.False(t, seeded)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestEffectiveVersion(t *testing.T) {
	assert.Equal(t, "v1.2.3", effectiveVersion("v1.2.3"))
	assert.NotEmpty(t, effectiveVersion(""))
}
