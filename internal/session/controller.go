// Package session holds the modal state of an interactive notry session:
// SEARCH and EDIT modes, the BROWSE sub-session, focus, the current result
// list and the marked set. It knows nothing about how it is rendered; the UI
// forwards intents and re-renders from the accessors.
package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/marcus/notry/internal/notes"
)

// DefaultLimit is the number of search results kept when none is configured.
const DefaultLimit = 500

// HelpText is shown by the :help command.
const HelpText = "Enter=edit | Space=mark | a=mark all | c=clear marks | b=browse marked / F2=import | F3=export | Ctrl+S=save | Esc=back | :q=quit without save"

// Mode is the session mode.
type Mode int

const (
	ModeSearch Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "EDIT"
	}
	return "SEARCH"
}

// Focus is the region that receives navigation intents.
type Focus int

const (
	FocusQuery Focus = iota
	FocusResults
	FocusEditor
)

// Status is the one-line message shown under the results.
type Status struct {
	Text  string
	Level Level
}

// Repository is the subset of the note store the session needs.
type Repository interface {
	Upsert(ctx context.Context, p notes.UpsertParams) (int64, error)
	Get(ctx context.Context, id int64) (*notes.Note, error)
	Search(ctx context.Context, query string, limit int) ([]notes.Match, error)
}

// Options configures a Controller.
type Options struct {
	Limit  int          // search result cap, DefaultLimit when <= 0
	Logger *slog.Logger // nil discards
	Marks  *MarkedSet   // nil starts with an empty set
}

// Controller is the session state machine. It is not safe for concurrent
// use; the UI calls it from a single goroutine.
type Controller struct {
	repo   Repository
	logger *slog.Logger
	limit  int

	mode   Mode
	focus  Focus
	query  string
	rows   []notes.Match
	cursor int
	// highlighted is set once the user has moved onto a row, so an empty
	// query edits that row instead of doing nothing.
	highlighted bool

	marks *MarkedSet

	editID    int64
	editTitle string
	baseline  string

	status Status
	busy   bool
}

// New creates a controller in SEARCH mode with focus on the query input.
// Call Refresh to load the initial result list.
func New(repo Repository, opts Options) *Controller {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	marks := opts.Marks
	if marks == nil {
		marks = NewMarkedSet()
	}
	return &Controller{
		repo:   repo,
		logger: logger,
		limit:  limit,
		marks:  marks,
		status: Status{Text: "Type to search. Enter to edit/create. :help for commands."},
	}
}

func (c *Controller) Mode() Mode { return c.mode }
func (c *Controller) Focus() Focus { return c.focus }
func (c *Controller) Query() string { return c.query }
func (c *Controller) Rows() []notes.Match { return c.rows }
func (c *Controller) Cursor() int { return c.cursor }
func (c *Controller) Marks() *MarkedSet { return c.marks }
func (c *Controller) Status() Status { return c.status }
func (c *Controller) Busy() bool { return c.busy }
func (c *Controller) EditingID() int64 { return c.editID }
func (c *Controller) EditingTitle() string { return c.editTitle }
func (c *Controller) Baseline() string { return c.baseline }
func (c *Controller) SetBusy(busy bool) { c.busy = busy }
func (c *Controller) IsDirty(text string) bool {
	return c.mode == ModeEdit && text != c.baseline
}

// Selected returns the id of the row under the cursor.
func (c *Controller) Selected() (int64, bool) {
	if c.cursor < 0 || c.cursor >= len(c.rows) {
		return 0, false
	}
	return c.rows[c.cursor].ID, true
}

// SetStatus replaces the status line.
func (c *Controller) SetStatus(text string, level Level) {
	c.status = Status{Text: text, Level: level}
}

// Report puts err on the status line and returns it unchanged.
func (c *Controller) Report(err error) error {
	if err == nil {
		return nil
	}
	level := Severity(err)
	c.status = Status{Text: StatusText(err), Level: level}
	if level == LevelError {
		c.logger.Error("session: operation failed", "error", err)
	} else {
		c.logger.Debug("session: intent refused", "error", err)
	}
	return err
}

// Refresh re-runs the search for the current query.
func (c *Controller) Refresh(ctx context.Context) error {
	rows, err := c.repo.Search(ctx, c.query, c.limit)
	if err != nil {
		return c.Report(err)
	}
	c.rows = rows
	if c.cursor >= len(rows) {
		c.cursor = max(len(rows)-1, 0)
	}
	return nil
}

// Search handles a change of the query input. Command text (":" prefix) is
// echoed on the status line and never filters; in EDIT mode the input is
// only a command line and the result list is left alone.
func (c *Controller) Search(ctx context.Context, text string) error {
	if strings.HasPrefix(text, ":") {
		c.SetStatus("Command: "+text+" (Enter to run)", LevelInfo)
		return nil
	}
	if c.mode == ModeEdit {
		return nil
	}
	c.query = text
	c.cursor = 0
	c.highlighted = false
	return c.Refresh(ctx)
}

// ClearQuery empties the query and refreshes the results. Outside EDIT mode
// it also focuses the input; in EDIT mode the editor keeps focus and the
// cleared query shows once the edit ends.
func (c *Controller) ClearQuery(ctx context.Context) error {
	c.query = ""
	c.cursor = 0
	c.highlighted = false
	if c.mode != ModeEdit {
		c.focus = FocusQuery
	}
	return c.Refresh(ctx)
}

// Submit handles Enter in the query input.
func (c *Controller) Submit(ctx context.Context, text string) error {
	if strings.HasPrefix(text, ":") {
		return c.RunCommand(ctx, text)
	}
	if c.mode == ModeEdit {
		return nil
	}
	text = strings.TrimSpace(text)
	if text != c.query {
		if err := c.Search(ctx, text); err != nil {
			return err
		}
	}
	return c.OpenOrEdit(ctx)
}

// OpenOrEdit resolves the note to edit and enters EDIT mode:
// the focused result row when focus is on the results, else the first hit
// for a non-empty query, else a new note titled with the query. An empty
// query with no highlighted row does nothing.
func (c *Controller) OpenOrEdit(ctx context.Context) error {
	if c.mode == ModeEdit {
		return c.Report(ErrWrongMode)
	}
	if c.busy {
		return c.Report(ErrBusy)
	}

	if c.focus == FocusResults {
		if id, ok := c.Selected(); ok {
			return c.enterEdit(ctx, id)
		}
	}

	if title := strings.TrimSpace(c.query); title != "" {
		if len(c.rows) > 0 {
			return c.enterEdit(ctx, c.rows[0].ID)
		}
		id, err := c.repo.Upsert(ctx, notes.UpsertParams{Title: title, Body: ""})
		if err != nil {
			return c.Report(err)
		}
		c.logger.Info("session: created note", "id", id)
		if err := c.Refresh(ctx); err != nil {
			return err
		}
		return c.enterEdit(ctx, id)
	}

	if c.highlighted {
		if id, ok := c.Selected(); ok {
			return c.enterEdit(ctx, id)
		}
	}
	return nil
}

// Edit enters EDIT mode on a specific note.
func (c *Controller) Edit(ctx context.Context, id int64) error {
	if c.mode == ModeEdit {
		return c.Report(ErrWrongMode)
	}
	if c.busy {
		return c.Report(ErrBusy)
	}
	return c.enterEdit(ctx, id)
}

func (c *Controller) enterEdit(ctx context.Context, id int64) error {
	n, err := c.repo.Get(ctx, id)
	if err != nil {
		return c.Report(err)
	}
	if n == nil {
		return c.Report(fmt.Errorf("note #%d: %w", id, notes.ErrNotFound))
	}
	c.mode = ModeEdit
	c.focus = FocusEditor
	c.editID = n.ID
	c.editTitle = n.Title
	c.baseline = n.Body
	c.SetStatus(fmt.Sprintf("Editing #%d: Ctrl+S to save, Esc to go back", n.ID), LevelInfo)
	return nil
}

// Save persists text as the body of the note being edited and makes it the
// new baseline. The import hash is cleared: an edited note is no longer the
// imported content.
func (c *Controller) Save(ctx context.Context, text string) error {
	if c.mode != ModeEdit {
		return c.Report(ErrWrongMode)
	}
	if c.busy {
		return c.Report(ErrBusy)
	}
	n, err := c.repo.Get(ctx, c.editID)
	if err != nil {
		return c.Report(err)
	}
	if n == nil {
		return c.Report(fmt.Errorf("note #%d: %w", c.editID, notes.ErrNotFound))
	}
	if _, err := c.repo.Upsert(ctx, notes.UpsertParams{ID: c.editID, Title: n.Title, Body: text}); err != nil {
		return c.Report(err)
	}
	c.baseline = text
	c.editTitle = n.Title
	if err := c.Refresh(ctx); err != nil {
		return err
	}
	c.SetStatus(fmt.Sprintf("Saved note #%d", c.editID), LevelInfo)
	return nil
}

// Back leaves EDIT mode when text matches the baseline. With unsaved changes
// the transition is refused. In SEARCH mode it returns focus to the query.
func (c *Controller) Back(ctx context.Context, text string) error {
	if c.mode != ModeEdit {
		c.focus = FocusQuery
		return nil
	}
	if text != c.baseline {
		return c.Report(ErrUnsavedChanges)
	}
	return c.leaveEdit(ctx, "Back to search")
}

func (c *Controller) leaveEdit(ctx context.Context, status string) error {
	c.mode = ModeSearch
	c.focus = FocusQuery
	c.editID = 0
	c.editTitle = ""
	c.baseline = ""
	c.SetStatus(status, LevelInfo)
	return c.Refresh(ctx)
}

// RunCommand executes a ":" command. The leading colon is optional, the
// first word names the command regardless of case and the rest is ignored.
// A bare ":" does nothing.
func (c *Controller) RunCommand(ctx context.Context, text string) error {
	words := strings.Fields(strings.TrimPrefix(strings.TrimSpace(text), ":"))
	if len(words) == 0 {
		return nil
	}
	cmd := strings.ToLower(words[0])
	switch cmd {
	case "q", "quit":
		if c.mode == ModeEdit {
			c.logger.Debug("session: discarding edit", "id", c.editID)
			return c.leaveEdit(ctx, "Discarded changes")
		}
		c.SetStatus("Nothing to discard", LevelInfo)
		return nil
	case "help":
		c.SetStatus(HelpText, LevelInfo)
		return nil
	default:
		return c.Report(&commandError{cmd: cmd})
	}
}

// ToggleMark flips the row under the cursor and advances to the next row.
func (c *Controller) ToggleMark() error {
	if c.mode == ModeEdit {
		return c.Report(ErrWrongMode)
	}
	id, ok := c.Selected()
	if !ok {
		return nil
	}
	c.marks.Toggle(id)
	c.focus = FocusResults
	c.highlighted = true
	if c.cursor < len(c.rows)-1 {
		c.cursor++
	}
	c.markStatus()
	return nil
}

// MarkAll marks every id in the current result list.
func (c *Controller) MarkAll() error {
	if c.mode == ModeEdit {
		return c.Report(ErrWrongMode)
	}
	for _, r := range c.rows {
		c.marks.Add(r.ID)
	}
	c.markStatus()
	return nil
}

// ClearMarks empties the marked set.
func (c *Controller) ClearMarks() error {
	if c.mode == ModeEdit {
		return c.Report(ErrWrongMode)
	}
	c.marks.Clear()
	c.markStatus()
	return nil
}

func (c *Controller) markStatus() {
	c.SetStatus(fmt.Sprintf("Marked: %d", c.marks.Len()), LevelInfo)
}

func (c *Controller) CursorDown() { c.moveCursor(c.cursor + 1) }
func (c *Controller) CursorUp() { c.moveCursor(c.cursor - 1) }
func (c *Controller) CursorTop() { c.moveCursor(0) }
func (c *Controller) CursorBottom() {
	c.moveCursor(len(c.rows) - 1)
}

func (c *Controller) moveCursor(i int) {
	if c.mode == ModeEdit || len(c.rows) == 0 {
		return
	}
	c.cursor = min(max(i, 0), len(c.rows)-1)
	c.focus = FocusResults
	c.highlighted = true
}

// FocusQuery moves focus back to the query input.
func (c *Controller) FocusQuery() {
	if c.mode == ModeEdit {
		return
	}
	c.focus = FocusQuery
}

// FocusResults moves focus to the result list.
func (c *Controller) FocusResults() {
	if c.mode == ModeEdit || len(c.rows) == 0 {
		return
	}
	c.focus = FocusResults
	c.highlighted = true
}

// OpenBrowse starts the BROWSE sub-session over the marked notes. The
// returned Browse shares this controller's marked set; call CloseBrowse when
// it ends.
func (c *Controller) OpenBrowse(ctx context.Context) (*Browse, error) {
	if c.mode == ModeEdit {
		return nil, c.Report(ErrWrongMode)
	}
	if c.marks.Len() == 0 {
		return nil, c.Report(ErrNothingMarked)
	}
	b, err := NewBrowse(ctx, c.repo, c.marks)
	if err != nil {
		return nil, c.Report(err)
	}
	c.SetStatus(fmt.Sprintf("Browsing %d marked notes", len(b.Items())), LevelInfo)
	return b, nil
}

// CloseBrowse ends the BROWSE sub-session. The marked set is re-read and,
// when id is non-zero, that note is opened for editing.
func (c *Controller) CloseBrowse(ctx context.Context, id int64) error {
	c.markStatus()
	if err := c.Refresh(ctx); err != nil {
		return err
	}
	if id == 0 {
		return nil
	}
	return c.Edit(ctx, id)
}
