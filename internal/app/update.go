package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/notry/internal/keymap"
	"github.com/marcus/notry/internal/msg"
	"github.com/marcus/notry/internal/picker"
	"github.com/marcus/notry/internal/session"
	"github.com/marcus/notry/internal/state"
)

// Update handles all messages and returns the updated model and commands.
func (m Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		cmd := m.handleKeyMsg(message)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = message.Width
		m.height = message.Height
		m.ready = true
		m.resize()
		return m, nil

	case TickMsg:
		m.ClearToast()
		return m, tickCmd()

	case msg.ToastMsg:
		m.ShowToast(message.Message, message.Duration, message.IsError)
		return m, nil

	case picker.DoneMsg:
		return m, m.finishPicker(message)

	case picker.WatchStartedMsg:
		if m.picker == nil {
			message.Watcher.Stop()
			return m, nil
		}
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(message)
		return m, cmd

	case picker.WatchEventMsg:
		if m.picker == nil {
			return m, nil
		}
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(message)
		return m, cmd

	case ImportDoneMsg:
		m.cancel = nil
		_ = m.xfer.FinishImport(m.ctx, message.Summary, message.Err)
		if m.ctl.Mode() != session.ModeEdit {
			m.query.SetValue("")
		}
		m.invalidatePreview()
		m.syncWidgets()
		if message.Err == nil && message.Summary.Imported > 0 {
			return m, msg.Toast(m.ctl.Status().Text, msg.LongToast)
		}
		return m, nil

	case ExportDoneMsg:
		m.cancel = nil
		if err := m.xfer.FinishExport(message.Result, message.Err); err != nil {
			return m, nil
		}
		return m, msg.Toast(m.ctl.Status().Text, msg.LongToast)
	}

	// Forward everything else (cursor blink) to the focused widget
	var cmd tea.Cmd
	if m.ctl.Mode() == session.ModeEdit && m.editorFocused {
		m.editor, cmd = m.editor.Update(message)
	} else {
		m.query, cmd = m.query.Update(message)
	}
	return m, cmd
}

// handleKeyMsg routes a key press: open sub-sessions first, then the running
// batch, then the context of the focused widget.
func (m *Model) handleKeyMsg(k tea.KeyMsg) tea.Cmd {
	if m.picker != nil {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(k)
		return cmd
	}

	if m.ctl.Busy() && k.Type == tea.KeyEsc {
		if m.cancel != nil {
			m.cancel()
			m.ctl.SetStatus("Cancelling...", session.LevelWarning)
		}
		return nil
	}

	if m.browse != nil {
		return m.handleBrowseKey(k)
	}

	if m.ctl.Mode() == session.ModeEdit {
		return m.handleEditKey(k)
	}
	if m.ctl.Focus() == session.FocusResults {
		return m.handleResultsKey(k)
	}
	return m.handleQueryKey(k)
}

// handleGlobal runs commands available everywhere outside sub-sessions.
func (m *Model) handleGlobal(command string) (tea.Cmd, bool) {
	switch command {
	case "quit":
		return m.quit(), true
	case "import":
		return m.openPicker(), true
	case "export":
		return m.startExport(), true
	}
	return nil, false
}

func (m *Model) handleQueryKey(k tea.KeyMsg) tea.Cmd {
	command := m.keys.Lookup(keymap.ContextQuery, k)
	if cmd, ok := m.handleGlobal(command); ok {
		return cmd
	}

	switch command {
	case "submit":
		_ = m.ctl.Submit(m.ctx, m.query.Value())
		if m.ctl.Mode() == session.ModeSearch && isCommand(m.query.Value()) {
			m.query.SetValue(m.ctl.Query())
			m.query.CursorEnd()
		}
		m.syncWidgets()
		return nil
	case "back":
		if m.query.Value() != "" {
			m.query.SetValue("")
			_ = m.ctl.ClearQuery(m.ctx)
		} else {
			_ = m.ctl.Back(m.ctx, "")
		}
		m.syncWidgets()
		return nil
	case "cursor-down", "cursor-up", "focus-results":
		m.ctl.FocusResults()
		m.syncWidgets()
		return nil
	}

	before := m.query.Value()
	var cmd tea.Cmd
	m.query, cmd = m.query.Update(k)
	if after := m.query.Value(); after != before {
		_ = m.ctl.Search(m.ctx, after)
		m.syncWidgets()
	}
	return cmd
}

func (m *Model) handleResultsKey(k tea.KeyMsg) tea.Cmd {
	command := m.keys.Lookup(keymap.ContextResults, k)
	if cmd, ok := m.handleGlobal(command); ok {
		return cmd
	}

	var cmd tea.Cmd
	switch command {
	case "open":
		_ = m.ctl.OpenOrEdit(m.ctx)
	case "cursor-down":
		m.ctl.CursorDown()
	case "cursor-up":
		m.ctl.CursorUp()
	case "cursor-top":
		m.ctl.CursorTop()
	case "cursor-bottom":
		m.ctl.CursorBottom()
	case "mark":
		_ = m.ctl.ToggleMark()
	case "mark-all":
		_ = m.ctl.MarkAll()
	case "clear-marks":
		_ = m.ctl.ClearMarks()
	case "browse":
		b, err := m.ctl.OpenBrowse(m.ctx)
		if err == nil {
			m.browse = b
		}
	case "yank":
		cmd = m.yankSelected()
	case "toggle-preview":
		m.rawPreview = !m.rawPreview
		if err := state.SetRawPreview(m.rawPreview); err != nil {
			m.logger.Debug("app: state save failed", "error", err)
		}
	case "focus-query":
		m.ctl.FocusQuery()
		if k.String() == ":" && m.query.Value() == "" {
			m.query.SetValue(":")
			m.query.CursorEnd()
			_ = m.ctl.Search(m.ctx, ":")
		}
	}
	m.syncWidgets()
	return cmd
}

func (m *Model) handleEditKey(k tea.KeyMsg) tea.Cmd {
	command := m.keys.Lookup(keymap.ContextEdit, k)
	if cmd, ok := m.handleGlobal(command); ok {
		return cmd
	}

	switch command {
	case "save":
		if err := m.ctl.Save(m.ctx, m.editor.Value()); err == nil {
			m.invalidatePreview()
			return msg.Toast(m.ctl.Status().Text, msg.ShortToast)
		}
		return nil
	case "back":
		if !m.editorFocused {
			m.setEditorFocus(true)
			return nil
		}
		_ = m.ctl.Back(m.ctx, m.editor.Value())
		m.invalidatePreview()
		m.syncWidgets()
		return nil
	case "switch-focus":
		m.setEditorFocus(!m.editorFocused)
		return nil
	case "yank":
		return m.copyEditorContent()
	}

	if !m.editorFocused {
		if m.keys.Lookup(keymap.ContextQuery, k) == "submit" {
			text := m.query.Value()
			m.query.SetValue("")
			_ = m.ctl.Submit(m.ctx, text)
			m.invalidatePreview()
			m.syncWidgets()
			return nil
		}
		before := m.query.Value()
		var cmd tea.Cmd
		m.query, cmd = m.query.Update(k)
		if after := m.query.Value(); after != before && isCommand(after) {
			_ = m.ctl.Search(m.ctx, after)
		}
		return cmd
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(k)
	return cmd
}

func (m *Model) handleBrowseKey(k tea.KeyMsg) tea.Cmd {
	command := m.keys.Lookup(keymap.ContextBrowse, k)
	switch command {
	case "quit", "export":
		cmd, _ := m.handleGlobal(command)
		return cmd
	case "import":
		// imported notes are marked, so the cards would be stale
		m.browse = nil
		_ = m.ctl.CloseBrowse(m.ctx, 0)
		m.syncWidgets()
		cmd, _ := m.handleGlobal(command)
		return cmd
	case "cursor-down":
		m.browse.Down()
	case "cursor-up":
		m.browse.Up()
	case "mark":
		m.browse.ToggleMark()
	case "mark-all":
		m.browse.MarkAll()
	case "clear-marks":
		m.browse.ClearMarks()
	case "open":
		id := m.browse.Selected()
		m.browse = nil
		_ = m.ctl.CloseBrowse(m.ctx, id)
		m.syncWidgets()
	case "close":
		m.browse = nil
		_ = m.ctl.CloseBrowse(m.ctx, 0)
		m.syncWidgets()
	}
	return nil
}

func isCommand(text string) bool {
	return len(text) > 0 && text[0] == ':'
}
