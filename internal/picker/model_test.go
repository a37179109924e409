package picker

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcus/notry/internal/notes"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press feeds keys to m and returns the message of the last command.
func press(m *Model, keys ...string) tea.Msg {
	var last tea.Cmd
	for _, k := range keys {
		_, last = m.Update(key(k))
	}
	if last == nil {
		return nil
	}
	msg := last()
	if ws, ok := msg.(WatchStartedMsg); ok {
		m.Update(ws)
	}
	return msg
}

func newFixture(t *testing.T) (*Model, string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))
	writeFile(t, dir, "a.md", "alpha")
	writeFile(t, dir, "b.txt", "beta")
	writeFile(t, dir, "c.md", "gamma")
	writeFile(t, filepath.Join(dir, "sub"), "d.md", "delta")

	m := New(Options{Dir: dir, Allow: notes.DefaultAllowlist()})
	t.Cleanup(m.Close)
	return m, dir
}

func TestNew_FocusesFirstFile(t *testing.T) {
	m, dir := newFixture(t)
	require.Len(t, m.Entries(), 5)
	assert.Equal(t, filepath.Join(dir, "a.md"), m.Entries()[m.Cursor()].Path)
}

func TestToggle_Advances(t *testing.T) {
	m, dir := newFixture(t)

	press(m, "space", "space")
	assert.Equal(t, []string{filepath.Join(dir, "a.md"), filepath.Join(dir, "b.txt")}, m.Selected())
	assert.Equal(t, filepath.Join(dir, "c.md"), m.Entries()[m.Cursor()].Path)

	// toggling at the last row stays put
	press(m, "space")
	assert.Equal(t, 4, m.Cursor())
	press(m, "space")
	assert.Len(t, m.Selected(), 2)
}

func TestToggle_IgnoresDirectories(t *testing.T) {
	m, _ := newFixture(t)
	press(m, "g", "space")
	assert.Empty(t, m.Selected())
	assert.Equal(t, 0, m.Cursor())
}

func TestSelectAllNone(t *testing.T) {
	m, _ := newFixture(t)
	press(m, "a")
	assert.Len(t, m.Selected(), 3)
	press(m, "n")
	assert.Empty(t, m.Selected())
}

func TestConfirm(t *testing.T) {
	m, dir := newFixture(t)
	got := press(m, "space", "j", "space", "i")

	done, ok := got.(DoneMsg)
	require.True(t, ok, "expected DoneMsg, got %T", got)
	assert.False(t, done.Canceled)
	assert.Equal(t, dir, done.Dir)
	assert.Equal(t, []string{filepath.Join(dir, "a.md"), filepath.Join(dir, "c.md")}, done.Paths)
}

func TestConfirm_EmptyIsCancel(t *testing.T) {
	m, _ := newFixture(t)
	done, ok := press(m, "ctrl+s").(DoneMsg)
	require.True(t, ok)
	assert.True(t, done.Canceled)
	assert.Empty(t, done.Paths)
}

func TestCancel(t *testing.T) {
	m, _ := newFixture(t)
	done, ok := press(m, "a", "esc").(DoneMsg)
	require.True(t, ok)
	assert.True(t, done.Canceled)
	assert.Nil(t, done.Paths)
}

func TestNavigate(t *testing.T) {
	m, dir := newFixture(t)
	press(m, "space")
	require.Len(t, m.Selected(), 1)

	// open "sub": row 1 after the parent entry
	press(m, "g", "j", "enter")
	sub := filepath.Join(dir, "sub")
	assert.Equal(t, sub, m.Dir())
	assert.Empty(t, m.Selected(), "selection is per directory")
	assert.Equal(t, filepath.Join(sub, "d.md"), m.Entries()[m.Cursor()].Path)

	press(m, "l")
	assert.Equal(t, []string{filepath.Join(sub, "d.md")}, m.Selected(), "l toggles files")

	press(m, "backspace")
	assert.Equal(t, dir, m.Dir())
	press(m, "h")
	assert.Equal(t, filepath.Dir(dir), m.Dir())
}

func TestRefresh_PreservesSelection(t *testing.T) {
	m, dir := newFixture(t)
	press(m, "space", "space")
	require.Len(t, m.Selected(), 2)

	require.NoError(t, os.Remove(filepath.Join(dir, "b.txt")))
	writeFile(t, dir, "0.md", "zero")

	w, err := NewWatcher(dir)
	require.NoError(t, err)
	m.watcher = w
	_, cmd := m.Update(WatchEventMsg{Dir: dir})
	require.NotNil(t, cmd)

	assert.Equal(t, []string{filepath.Join(dir, "a.md")}, m.Selected())
	assert.Equal(t, filepath.Join(dir, "c.md"), m.Entries()[m.Cursor()].Path, "focus follows the path")
	assert.Len(t, m.Entries(), 5)
}

func TestWatchEvent_StaleDirIgnored(t *testing.T) {
	m, _ := newFixture(t)
	_, cmd := m.Update(WatchEventMsg{Dir: "/elsewhere"})
	assert.Nil(t, cmd)
}

func TestWatcher_DeliversEvent(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Stop()

	writeFile(t, dir, "new.md", "x")
	writeFile(t, dir, "other.md", "y")

	select {
	case <-w.Events():
	case <-time.After(3 * time.Second):
		t.Fatal("no event delivered")
	}
	w.Stop()
	w.Stop()
}

func TestView(t *testing.T) {
	m, _ := newFixture(t)
	m.SetSize(100, 40)
	press(m, "space")
	out := m.View()
	assert.Contains(t, out, "Import Files")
	assert.Contains(t, out, "1 of 3 files selected")
	assert.Contains(t, out, "parent directory")
}
