package picker

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/marcus/notry/internal/keymap"
	"github.com/marcus/notry/internal/notes"
	"github.com/marcus/notry/internal/styles"
)

const headLines = 12

// Message types
type (
	// DoneMsg ends the picker. Canceled is set on esc and on confirming an
	// empty selection.
	DoneMsg struct {
		Paths    []string
		Dir      string
		Canceled bool
	}
	WatchStartedMsg struct {
		Dir     string
		Watcher *Watcher
	}
	WatchEventMsg struct{ Dir string }
)

// Options configures a picker.
type Options struct {
	Dir    string
	Allow  notes.Allowlist
	Keys   *keymap.Registry
	Logger *slog.Logger
}

// Model is the import file picker.
type Model struct {
	dir      string
	entries  []Entry
	cursor   int
	selected map[string]bool
	err      error

	allow   notes.Allowlist
	keys    *keymap.Registry
	logger  *slog.Logger
	watcher *Watcher

	// closed pickers stop any watcher that starts late
	closed bool

	headPath string
	head     string

	width  int
	height int
}

// StartDir picks the first usable directory of last, fallback and the home
// directory.
func StartDir(last, fallback string) string {
	for _, d := range []string{last, fallback} {
		if d == "" {
			continue
		}
		if fi, err := os.Stat(d); err == nil && fi.IsDir() {
			return d
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

// New creates a picker listing opts.Dir.
func New(opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Keys == nil {
		opts.Keys, _ = keymap.New(nil)
	}
	m := &Model{
		allow:    opts.Allow,
		keys:     opts.Keys,
		logger:   opts.Logger,
		selected: make(map[string]bool),
	}
	dir := opts.Dir
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	m.dir = filepath.Clean(dir)
	m.load(true)
	return m
}

// Init starts watching the current directory.
func (m *Model) Init() tea.Cmd {
	return m.startWatcher()
}

// Dir returns the directory being listed.
func (m *Model) Dir() string { return m.dir }

// Entries returns the current listing.
func (m *Model) Entries() []Entry { return m.entries }

// Cursor returns the focused row.
func (m *Model) Cursor() int { return m.cursor }

// Err returns the last listing error, if any.
func (m *Model) Err() error { return m.err }

// Selected returns the selected files in listing order.
func (m *Model) Selected() []string {
	var out []string
	for _, e := range m.entries {
		if !e.IsDir && m.selected[e.Path] {
			out = append(out, e.Path)
		}
	}
	return out
}

// SetSize sets the available area.
func (m *Model) SetSize(width, height int) {
	m.width, m.height = width, height
}

// Close stops the directory watcher.
func (m *Model) Close() {
	m.closed = true
	if m.watcher != nil {
		m.watcher.Stop()
		m.watcher = nil
	}
}

// load lists m.dir. A reset clears the selection and focuses the first file;
// otherwise the selection and focused path are carried over.
func (m *Model) load(reset bool) {
	focused := ""
	if !reset && m.cursor < len(m.entries) {
		focused = m.entries[m.cursor].Path
	}

	entries, err := List(m.dir, m.allow)
	m.err = err
	m.entries = entries
	if err != nil {
		m.logger.Debug("picker: list failed", "dir", m.dir, "error", err)
		if parent := filepath.Dir(m.dir); parent != m.dir {
			m.entries = []Entry{{Name: "..", Path: parent, IsDir: true, IsParent: true}}
		}
	}

	present := make(map[string]bool, len(m.entries))
	for _, e := range m.entries {
		present[e.Path] = true
	}
	for p := range m.selected {
		if reset || !present[p] {
			delete(m.selected, p)
		}
	}

	m.cursor = 0
	if reset {
		for i, e := range m.entries {
			if !e.IsDir {
				m.cursor = i
				break
			}
		}
	} else {
		for i, e := range m.entries {
			if e.Path == focused {
				m.cursor = i
				break
			}
		}
	}
	m.loadHead()
}

func (m *Model) loadHead() {
	if m.cursor >= len(m.entries) || m.entries[m.cursor].IsDir {
		m.headPath, m.head = "", ""
		return
	}
	e := m.entries[m.cursor]
	if e.Path == m.headPath {
		return
	}
	m.headPath = e.Path
	src, err := Head(e.Path, headLines)
	if err != nil {
		m.head = styles.Muted.Render("(unable to read)")
		return
	}
	m.head = strings.TrimRight(Highlight(e.Name, src), "\n")
}

// chdir moves to dir, restarting the watcher.
func (m *Model) chdir(dir string) tea.Cmd {
	if dir == m.dir {
		return nil
	}
	m.Close()
	m.dir = dir
	m.load(true)
	return m.startWatcher()
}

func (m *Model) startWatcher() tea.Cmd {
	dir := m.dir
	logger := m.logger
	return func() tea.Msg {
		w, err := NewWatcher(dir)
		if err != nil {
			logger.Debug("picker: watcher failed", "dir", dir, "error", err)
			return nil
		}
		return WatchStartedMsg{Dir: dir, Watcher: w}
	}
}

// listenForWatchEvents waits for the next change in the watched directory.
func listenForWatchEvents(dir string, w *Watcher) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-w.Events():
			return WatchEventMsg{Dir: dir}
		case <-w.done:
			return nil
		}
	}
}

func (m *Model) done(paths []string) tea.Cmd {
	m.Close()
	res := DoneMsg{Paths: paths, Dir: m.dir, Canceled: len(paths) == 0}
	return func() tea.Msg { return res }
}

// Update handles key presses and watcher messages.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case WatchStartedMsg:
		if m.closed || msg.Dir != m.dir || m.watcher != nil {
			msg.Watcher.Stop()
			return m, nil
		}
		m.watcher = msg.Watcher
		return m, listenForWatchEvents(msg.Dir, msg.Watcher)

	case WatchEventMsg:
		if msg.Dir != m.dir || m.watcher == nil {
			return m, nil
		}
		m.load(false)
		m.headPath = ""
		m.loadHead()
		return m, listenForWatchEvents(m.dir, m.watcher)

	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	switch m.keys.Lookup(keymap.ContextPicker, msg) {
	case "cursor-down":
		m.move(m.cursor + 1)
	case "cursor-up":
		m.move(m.cursor - 1)
	case "cursor-top":
		m.move(0)
	case "cursor-bottom":
		m.move(len(m.entries) - 1)
	case "toggle":
		if m.toggle() {
			m.move(m.cursor + 1)
		}
	case "select-all":
		for _, e := range m.entries {
			if !e.IsDir {
				m.selected[e.Path] = true
			}
		}
	case "select-none":
		clear(m.selected)
	case "parent":
		cmd = m.chdir(filepath.Dir(m.dir))
	case "open":
		if m.cursor < len(m.entries) {
			if e := m.entries[m.cursor]; e.IsDir {
				cmd = m.chdir(e.Path)
			} else {
				m.toggle()
			}
		}
	case "confirm":
		cmd = m.done(m.Selected())
	case "cancel", "quit":
		cmd = m.done(nil)
	}
	return cmd
}

func (m *Model) move(i int) {
	if len(m.entries) == 0 {
		return
	}
	m.cursor = max(0, min(i, len(m.entries)-1))
	m.loadHead()
}

// toggle flips the focused file. It reports false on directories.
func (m *Model) toggle() bool {
	if m.cursor >= len(m.entries) || m.entries[m.cursor].IsDir {
		return false
	}
	p := m.entries[m.cursor].Path
	if m.selected[p] {
		delete(m.selected, p)
	} else {
		m.selected[p] = true
	}
	return true
}

func (m *Model) fileCount() int {
	n := 0
	for _, e := range m.entries {
		if !e.IsDir {
			n++
		}
	}
	return n
}

// View renders the picker.
func (m *Model) View() string {
	width := m.width
	if width <= 0 {
		width = 80
	}
	inner := max(20, width-4)

	var sb strings.Builder
	sb.WriteString(styles.Title.Render(" Import Files "))
	sb.WriteString("\n")
	sb.WriteString(styles.Muted.Render(runewidth.Truncate("📁 "+m.dir, inner, "…")))
	sb.WriteString("\n\n")

	switch {
	case m.err != nil && os.IsNotExist(m.err):
		sb.WriteString(styles.StatusWarning.Render("Directory not found"))
		sb.WriteString("\n")
	case m.err != nil && os.IsPermission(m.err):
		sb.WriteString(styles.StatusWarning.Render("Permission denied"))
		sb.WriteString("\n")
	case m.err != nil:
		sb.WriteString(styles.StatusError.Render("Error: " + m.err.Error()))
		sb.WriteString("\n")
	}

	if len(m.entries) == 0 || (len(m.entries) == 1 && m.entries[0].IsParent && m.err == nil) {
		sb.WriteString(styles.Muted.Render("No matching files or directories found"))
		sb.WriteString("\n")
	}

	visible := m.listHeight()
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	end := min(start+visible, len(m.entries))
	for i := start; i < end; i++ {
		sb.WriteString(m.renderEntry(m.entries[i], i == m.cursor, inner))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(styles.BarText.Render(fmt.Sprintf("%d of %d files selected", len(m.Selected()), m.fileCount())))

	if m.head != "" {
		sb.WriteString("\n\n")
		sb.WriteString(styles.PanelInactive.Width(inner).Render(m.head))
	}

	sb.WriteString("\n")
	sb.WriteString(m.renderHelp())

	return styles.PanelActive.Width(width - 2).Render(sb.String())
}

func (m *Model) listHeight() int {
	h := m.height - headLines - 12
	if h < 5 {
		h = 5
	}
	return h
}

func (m *Model) renderEntry(e Entry, focused bool, width int) string {
	cursor := "  "
	if focused {
		cursor = styles.ListCursor.Render("> ")
	}

	var line string
	switch {
	case e.IsParent:
		line = styles.PickerDir.Render("📁 .. (parent directory)")
	case e.IsDir:
		line = styles.PickerDir.Render(runewidth.Truncate("📁 "+e.Name+"/", width-2, "…"))
	default:
		check := "[ ] "
		if m.selected[e.Path] {
			check = styles.Mark.Render("[✓]") + " "
		}
		name := runewidth.Truncate(e.Name, width/2, "…")
		rest := width - 6 - runewidth.StringWidth(name)
		line = check + styles.PickerFile.Render(name)
		if rest > 4 {
			line += "  " + styles.PickerPreview.Render(runewidth.Truncate(e.Preview, rest-2, "…"))
		}
	}

	row := cursor + line
	if focused {
		return styles.ListItemSelected.Render(row)
	}
	return row
}

func (m *Model) renderHelp() string {
	var parts []string
	for _, b := range m.keys.Help(keymap.ContextPicker) {
		h := b.Help()
		parts = append(parts, styles.KeyHint.Render(h.Key)+" "+styles.Muted.Render(h.Desc))
	}
	return lipgloss.NewStyle().Width(max(20, m.width-4)).Render(strings.Join(parts, "  "))
}
