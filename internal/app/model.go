package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/marcus/notry/internal/config"
	"github.com/marcus/notry/internal/keymap"
	"github.com/marcus/notry/internal/msg"
	"github.com/marcus/notry/internal/notes"
	"github.com/marcus/notry/internal/picker"
	"github.com/marcus/notry/internal/session"
	"github.com/marcus/notry/internal/state"
	"github.com/marcus/notry/internal/styles"
	"github.com/marcus/notry/internal/transfer"
)

// Store is the note store the UI runs on.
type Store interface {
	session.Repository
	transfer.Store
}

// Options configures New.
type Options struct {
	Context context.Context
	Store   Store
	Config  *config.Config
	Keys    *keymap.Registry
	Logger  *slog.Logger
	Now     func() time.Time
}

// Model is the root Bubble Tea model for notry.
type Model struct {
	ctx    context.Context
	cfg    *config.Config
	store  Store
	keys   *keymap.Registry
	logger *slog.Logger

	ctl  *session.Controller
	xfer *transfer.Orchestrator

	// Widgets
	query    textinput.Model
	editor   textarea.Model
	renderer *Renderer

	// Sub-sessions; at most one is open
	browse *session.Browse
	picker *picker.Model

	// editingID is the note loaded into the editor
	editingID int64
	// editorFocused is false while the command line has focus in EDIT mode
	editorFocused bool
	rawPreview    bool

	// cancel aborts the running import/export
	cancel context.CancelFunc

	// Preview of the selected row
	previewID   int64
	previewNote *notes.Note

	// Status/toast messages
	statusMsg     string
	statusExpiry  time.Time
	statusIsError bool

	width, height int
	ready         bool
}

// New creates the root model and runs the initial search.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	keys := opts.Keys
	if keys == nil {
		keys, _ = keymap.New(nil)
	}

	ctl := session.New(opts.Store, session.Options{Limit: cfg.Search.Limit, Logger: logger})
	xfer := transfer.New(opts.Store, ctl, transfer.Options{
		ExportBase: cfg.Export.Dir,
		Now:        opts.Now,
		Logger:     logger,
	})

	q := textinput.New()
	q.Placeholder = "Search notes, or :command"
	q.Prompt = "› "
	q.PromptStyle = styles.ListCursor
	q.PlaceholderStyle = styles.Muted
	q.CharLimit = 0
	q.Focus()

	ta := textarea.New()
	ta.ShowLineNumbers = true
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.Prompt = ""
	ta.EndOfBufferCharacter = '~'
	ta.FocusedStyle = textarea.Style{
		Base:             lipgloss.NewStyle(),
		CursorLine:       lipgloss.NewStyle(),
		CursorLineNumber: styles.Muted,
		EndOfBuffer:      styles.Muted,
		LineNumber:       styles.Muted,
		Placeholder:      styles.Muted,
		Prompt:           lipgloss.NewStyle(),
		Text:             lipgloss.NewStyle(),
	}
	ta.BlurredStyle = ta.FocusedStyle
	// alt+c copies the editor content
	ta.KeyMap.CapitalizeWordForward = key.NewBinding(key.WithDisabled())
	ta.Blur()

	m := Model{
		ctx:        ctx,
		cfg:        cfg,
		store:      opts.Store,
		keys:       keys,
		logger:     logger,
		ctl:        ctl,
		xfer:       xfer,
		query:      q,
		editor:     ta,
		renderer:   NewRenderer(cfg.UI.MarkdownStyle),
		rawPreview: state.GetRawPreview(),
	}
	_ = ctl.Refresh(ctx)
	ctl.SetStatus("Type to search, Enter to edit or create. :help for keys", session.LevelInfo)
	m.loadPreview()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tickCmd())
}

// Controller exposes the session controller.
func (m Model) Controller() *session.Controller { return m.ctl }

// ShowToast displays a temporary status message.
func (m *Model) ShowToast(text string, duration time.Duration, isError bool) {
	m.statusMsg = text
	m.statusExpiry = time.Now().Add(duration)
	m.statusIsError = isError
}

// ClearToast clears any expired toast message.
func (m *Model) ClearToast() {
	if m.statusMsg != "" && time.Now().After(m.statusExpiry) {
		m.statusMsg = ""
		m.statusIsError = false
	}
}

// syncWidgets brings the widgets in line with the controller after an
// intent: entering EDIT loads the baseline into the editor, leaving it
// restores the query input.
func (m *Model) syncWidgets() {
	switch m.ctl.Mode() {
	case session.ModeEdit:
		if m.editingID != m.ctl.EditingID() {
			m.editingID = m.ctl.EditingID()
			m.editor.SetValue(m.ctl.Baseline())
			m.editor.CursorStart()
			m.query.SetValue("")
			m.query.Placeholder = ":q to discard, :help"
			m.setEditorFocus(true)
		} else if m.picker == nil {
			m.setEditorFocus(m.editorFocused)
		}
	default:
		if m.editingID != 0 {
			m.editingID = 0
			m.editor.Reset()
			m.editor.Blur()
			m.query.Placeholder = "Search notes, or :command"
			m.query.SetValue(m.ctl.Query())
			m.query.CursorEnd()
		}
		if m.ctl.Focus() == session.FocusQuery && m.browse == nil && m.picker == nil {
			m.query.Focus()
		} else {
			m.query.Blur()
		}
	}
	m.loadPreview()
}

func (m *Model) setEditorFocus(on bool) {
	m.editorFocused = on
	if on {
		m.query.Blur()
		m.editor.Focus()
	} else {
		m.editor.Blur()
		m.query.Focus()
	}
}

// loadPreview fetches the note under the cursor for the preview pane.
func (m *Model) loadPreview() {
	id, ok := m.ctl.Selected()
	if !ok || m.ctl.Mode() == session.ModeEdit {
		m.previewID, m.previewNote = 0, nil
		return
	}
	if id == m.previewID && m.previewNote != nil {
		return
	}
	n, err := m.store.Get(m.ctx, id)
	if err != nil {
		m.logger.Debug("app: preview load failed", "id", id, "error", err)
		n = nil
	}
	m.previewID, m.previewNote = id, n
}

// invalidatePreview forces the next loadPreview to re-read the note.
func (m *Model) invalidatePreview() {
	m.previewID, m.previewNote = 0, nil
}

var errNoteMissing = errors.New("note not found")

// yankSelected copies the body of the highlighted note.
func (m *Model) yankSelected() tea.Cmd {
	id, ok := m.ctl.Selected()
	if !ok {
		return nil
	}
	n, err := m.store.Get(m.ctx, id)
	if err != nil || n == nil {
		return msg.Failed("Copy", errNoteMissing)
	}
	if err := clipboard.WriteAll(n.Body); err != nil {
		return msg.Failed("Copy", err)
	}
	return msg.Toast("Copied note content", msg.ShortToast)
}

// copyEditorContent copies the current editor content to clipboard.
func (m *Model) copyEditorContent() tea.Cmd {
	content := m.editor.Value()
	if content == "" {
		return msg.Toast("No content to copy", msg.ShortToast)
	}
	if err := clipboard.WriteAll(content); err != nil {
		return msg.Failed("Copy", err)
	}
	return msg.Toast("Copied to clipboard", msg.ShortToast)
}

// openPicker starts the import file picker.
func (m *Model) openPicker() tea.Cmd {
	if err := m.xfer.CheckImport(); err != nil {
		return nil
	}
	m.picker = picker.New(picker.Options{
		Dir:    picker.StartDir(state.GetLastImportDir(), m.cfg.Import.Dir),
		Allow:  notes.NewAllowlist(m.cfg.Import.Extensions),
		Keys:   m.keys,
		Logger: m.logger,
	})
	m.picker.SetSize(m.pickerSize())
	m.query.Blur()
	m.ctl.SetStatus("Select files to import (Space toggles, i imports, Esc cancels)", session.LevelInfo)
	return m.picker.Init()
}

// startExport plans and launches an export of the marked notes.
func (m *Model) startExport() tea.Cmd {
	plan, err := m.xfer.PlanExport()
	if err != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancel = cancel
	return runExport(ctx, m.xfer, plan)
}

// finishPicker handles the picker result.
func (m *Model) finishPicker(done picker.DoneMsg) tea.Cmd {
	m.picker = nil
	if done.Canceled {
		m.xfer.CancelImport()
		m.syncWidgets()
		return nil
	}
	if err := state.SetLastImportDir(done.Dir); err != nil {
		m.logger.Debug("app: state save failed", "error", err)
	}
	if err := m.xfer.BeginImport(done.Paths); err != nil {
		m.syncWidgets()
		return nil
	}
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancel = cancel
	m.syncWidgets()
	return runImport(ctx, m.xfer, done.Paths)
}

// quit exits unless the editor holds unsaved changes.
func (m *Model) quit() tea.Cmd {
	if m.ctl.Mode() == session.ModeEdit && m.ctl.IsDirty(m.editor.Value()) {
		_ = m.ctl.Report(session.ErrUnsavedChanges)
		return nil
	}
	if m.cancel != nil {
		m.cancel()
	}
	if m.picker != nil {
		m.picker.Close()
	}
	return tea.Quit
}
