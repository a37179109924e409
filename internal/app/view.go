package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/marcus/notry/internal/keymap"
	"github.com/marcus/notry/internal/notes"
	"github.com/marcus/notry/internal/session"
	"github.com/marcus/notry/internal/styles"
	"github.com/marcus/notry/internal/ui"
)

const (
	maxSnippet      = 200
	minPreviewWidth = 90
	cardBodyLines   = 3
)

// modeBarText formats the mode bar: MODE, row count, marked count and the
// status message.
func modeBarText(mode string, rows, marked int, message string) string {
	s := fmt.Sprintf("MODE: %-8s │ Rows: %-3d │ Marked: %-3d", mode, rows, marked)
	if message != "" {
		s += " │ " + message
	}
	return s
}

// rowText formats one result row.
func rowText(m notes.Match, marked bool) string {
	mark := " "
	if marked {
		mark = "✓"
	}
	line := strings.ReplaceAll(m.Snippet, "\n", " ")
	if r := []rune(line); len(r) > maxSnippet {
		line = string(r[:maxSnippet])
	}
	return fmt.Sprintf("[%s]  #%d  %s", mark, m.ID, line)
}

func (m *Model) resize() {
	m.query.Width = max(10, m.width-12)
	m.editor.SetWidth(max(10, m.width-4))
	m.editor.SetHeight(max(3, m.bodyHeight()-3))
	if m.picker != nil {
		m.picker.SetSize(m.pickerSize())
	}
}

// pickerSize is the area of the picker overlay.
func (m Model) pickerSize() (int, int) {
	return max(40, m.width*4/5), max(10, m.bodyHeight()-2)
}

func (m Model) bodyHeight() int {
	// header, blank, mode bar, toast/help
	return max(3, m.height-5)
}

func (m Model) modeName() string {
	switch {
	case m.picker != nil:
		return "IMPORT"
	case m.browse != nil:
		return "BROWSE"
	}
	return m.ctl.Mode().String()
}

func (m Model) keyContext() string {
	switch {
	case m.picker != nil:
		return keymap.ContextPicker
	case m.browse != nil:
		return keymap.ContextBrowse
	case m.ctl.Mode() == session.ModeEdit:
		return keymap.ContextEdit
	case m.ctl.Focus() == session.FocusResults:
		return keymap.ContextResults
	}
	return keymap.ContextQuery
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var body string
	switch {
	case m.picker != nil:
		body = ui.Overlay(m.renderSearch(), m.picker.View(), m.width, m.bodyHeight())
	case m.browse != nil:
		body = m.renderBrowse()
	case m.ctl.Mode() == session.ModeEdit:
		body = m.renderEditor()
	default:
		body = m.renderSearch()
	}

	parts := []string{m.renderHeader(), body, m.renderModeBar()}
	if line := m.renderFooter(); line != "" {
		parts = append(parts, line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderHeader() string {
	title := styles.Title.Render(" notry ")
	if m.ctl.Mode() == session.ModeEdit && m.browse == nil && m.picker == nil {
		return title + " " + styles.Muted.Render(fmt.Sprintf("#%d %s", m.editingID, m.ctl.EditingTitle()))
	}
	return title + " " + m.query.View()
}

func (m Model) renderSearch() string {
	height := m.bodyHeight()
	listWidth := m.width
	showPreview := m.width >= minPreviewWidth
	if showPreview {
		listWidth = m.width * 55 / 100
	}

	list := m.renderResults(listWidth, height)
	if !showPreview {
		return list
	}
	preview := m.renderPreview(m.width-listWidth-1, height)
	return lipgloss.JoinHorizontal(lipgloss.Top, list, " ", preview)
}

func (m Model) renderResults(width, height int) string {
	rows := m.ctl.Rows()
	style := styles.PanelInactive
	if m.ctl.Focus() == session.FocusResults {
		style = styles.PanelActive
	}
	inner := max(10, width-4)
	visible := max(1, height-2)

	var lines []string
	if len(rows) == 0 {
		msg := "No notes yet. Type a title and press Enter to create one."
		if m.ctl.Query() != "" {
			msg = "No matches. Press Enter to create a note titled \"" + m.ctl.Query() + "\"."
		}
		lines = append(lines, styles.Muted.Render(runewidth.Truncate(msg, inner, "…")))
	}

	cursor := m.ctl.Cursor()
	start := 0
	if cursor >= visible {
		start = cursor - visible + 1
	}
	end := min(start+visible, len(rows))
	marks := m.ctl.Marks()
	for i := start; i < end; i++ {
		r := rows[i]
		text := runewidth.Truncate(rowText(r, marks.Has(r.ID)), inner-2, "…")
		if marks.Has(r.ID) {
			text = styles.Mark.Render(text[:len("[✓]")]) + text[len("[✓]"):]
		}
		if i == cursor && m.ctl.Focus() == session.FocusResults {
			lines = append(lines, styles.ListItemSelected.Render(styles.ListCursor.Render("> ")+text))
		} else {
			lines = append(lines, "  "+text)
		}
	}

	return style.Width(width - 2).Height(height - 2).Render(strings.Join(lines, "\n"))
}

func (m Model) renderPreview(width, height int) string {
	inner := max(10, width-4)
	n := m.previewNote

	var content string
	switch {
	case n == nil:
		content = styles.Muted.Render("No note selected")
	case m.rawPreview:
		content = styles.Title.Render(n.Title) + "\n\n" + lipgloss.NewStyle().Width(inner).Render(n.Body)
	default:
		content = m.renderer.Render("# "+n.Title+"\n\n"+n.Body, inner)
	}

	lines := strings.Split(content, "\n")
	if max(1, height-2) < len(lines) {
		lines = lines[:max(1, height-2)]
	}
	for i, l := range lines {
		lines[i] = ansi.Truncate(l, inner, "…")
	}
	return styles.PanelInactive.Width(width - 2).Height(height - 2).Render(strings.Join(lines, "\n"))
}

func (m Model) renderEditor() string {
	var sb strings.Builder
	sb.WriteString(m.editor.View())
	sb.WriteString("\n")
	prompt := styles.Muted.Render("cmd ")
	if !m.editorFocused {
		prompt = styles.ListCursor.Render("cmd ")
	}
	sb.WriteString(prompt + m.query.View())

	style := styles.PanelActive
	if !m.editorFocused {
		style = styles.PanelInactive
	}
	return style.Width(m.width - 2).Render(sb.String())
}

func (m Model) renderBrowse() string {
	items := m.browse.Items()
	if len(items) == 0 {
		return styles.PanelInactive.Width(m.width - 2).Render(styles.Muted.Render("None of the marked notes exist anymore. Esc to go back."))
	}

	inner := max(10, m.width-6)
	cardHeight := cardBodyLines + 3
	visible := max(1, m.bodyHeight()/cardHeight)
	cursor := m.browse.Cursor()
	start := 0
	if cursor >= visible {
		start = cursor - visible + 1
	}
	end := min(start+visible, len(items))

	marks := m.browse.Marks()
	var cards []string
	for i := start; i < end; i++ {
		cards = append(cards, renderCard(items[i], marks.Has(items[i].ID), i == cursor, inner))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

func renderCard(n notes.Note, marked, focused bool, width int) string {
	mark := "[ ]"
	if marked {
		mark = styles.Mark.Render("[✓]")
	}
	header := mark + " " + styles.Title.Render(runewidth.Truncate(fmt.Sprintf("#%d %s", n.ID, n.Title), width-4, "…"))

	body := strings.Split(strings.TrimSpace(n.Body), "\n")
	if len(body) > cardBodyLines {
		body = append(body[:cardBodyLines-1], "…")
	}
	for i, l := range body {
		body[i] = styles.Muted.Render(runewidth.Truncate(l, width, "…"))
	}
	meta := styles.Subtle.Render("Updated " + n.UpdatedAt.Format("2006-01-02 15:04"))

	style := styles.Card
	if focused {
		style = styles.CardFocused
	}
	return style.Width(width + 2).Render(header + "\n" + strings.Join(body, "\n") + "\n" + meta)
}

func (m Model) renderModeBar() string {
	st := m.ctl.Status()
	text := modeBarText(m.modeName(), len(m.ctl.Rows()), m.ctl.Marks().Len(), st.Text)

	style := styles.StatusInfo
	switch st.Level {
	case session.LevelWarning:
		style = styles.StatusWarning
	case session.LevelError:
		style = styles.StatusError
	}
	return style.Render(ansi.Truncate(text, max(10, m.width), "…"))
}

func (m Model) renderFooter() string {
	if m.statusMsg != "" {
		toastStyle := styles.ToastSuccess
		if m.statusIsError {
			toastStyle = styles.ToastError
		}
		return toastStyle.Render(m.statusMsg)
	}
	if !m.cfg.UI.ShowHelp {
		return ""
	}
	var parts []string
	for _, b := range m.keys.Help(m.keyContext()) {
		h := b.Help()
		parts = append(parts, styles.KeyHint.Render(h.Key)+" "+styles.Muted.Render(h.Desc))
	}
	return ansi.Truncate(strings.Join(parts, " "), max(10, m.width), "…")
}
