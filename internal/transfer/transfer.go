// Package transfer drives import and export batches between the note store
// and an interactive session. Batch work runs off the UI loop; the Begin and
// Finish halves run on it and are the only parts that touch the session.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/marcus/notry/internal/notes"
	"github.com/marcus/notry/internal/session"
)

// exportDirLayout names export directories notry_export_YYYYMMDD_HHMMSS.
const exportDirLayout = "20060102_150405"

// Store is the part of the note store used by batches.
type Store interface {
	ImportFiles(ctx context.Context, paths []string) (notes.ImportSummary, error)
	Export(ctx context.Context, dir string, ids []int64) (notes.ExportResult, error)
}

// Options configures an Orchestrator.
type Options struct {
	ExportBase string           // parent of timestamped export directories; must exist
	Now        func() time.Time // nil uses time.Now
	Logger     *slog.Logger     // nil discards
}

// Orchestrator coordinates import/export with the session controller.
type Orchestrator struct {
	store      Store
	ctl        *session.Controller
	exportBase string
	now        func() time.Time
	logger     *slog.Logger
}

// ExportPlan is a validated export request.
type ExportPlan struct {
	Dir string
	IDs []int64
}

// New creates an orchestrator.
func New(store Store, ctl *session.Controller, opts Options) *Orchestrator {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Orchestrator{
		store:      store,
		ctl:        ctl,
		exportBase: opts.ExportBase,
		now:        now,
		logger:     logger,
	}
}

// ExportBase returns the configured export parent directory.
func (o *Orchestrator) ExportBase() string { return o.exportBase }

// CheckImport reports whether an import may start. Call it before opening
// the file picker. Imports are allowed in either mode.
func (o *Orchestrator) CheckImport() error {
	if o.ctl.Busy() {
		return o.ctl.Report(session.ErrBusy)
	}
	return nil
}

// BeginImport marks the session busy for an import of paths.
func (o *Orchestrator) BeginImport(paths []string) error {
	if err := o.CheckImport(); err != nil {
		return err
	}
	o.ctl.SetBusy(true)
	o.ctl.SetStatus(fmt.Sprintf("Importing %d files... (Esc to cancel)", len(paths)), session.LevelInfo)
	o.logger.Info("transfer: import started", "files", len(paths))
	return nil
}

// Import runs the batch. It does not touch the session and is safe to call
// from a tea.Cmd goroutine.
func (o *Orchestrator) Import(ctx context.Context, paths []string) (notes.ImportSummary, error) {
	return o.store.ImportFiles(ctx, paths)
}

// FinishImport applies an import result to the session: every new id is
// marked, the query is cleared so the marked notes are visible, and the
// counts are reported. A cancelled batch keeps what it imported. An edit in
// progress is left alone.
func (o *Orchestrator) FinishImport(ctx context.Context, sum notes.ImportSummary, err error) error {
	o.ctl.SetBusy(false)
	o.ctl.Marks().Add(sum.IDs...)
	o.logger.Info("transfer: import finished",
		"imported", sum.Imported, "skipped", sum.Skipped, "failed", len(sum.Failed), "error", err)

	if rerr := o.ctl.ClearQuery(ctx); rerr != nil {
		return rerr
	}

	switch {
	case errors.Is(err, context.Canceled):
		o.ctl.SetStatus(fmt.Sprintf("Import cancelled after %d new, %d duplicates", sum.Imported, sum.Skipped), session.LevelWarning)
		return err
	case err != nil:
		return o.ctl.Report(err)
	}

	text := fmt.Sprintf("Imported %d notes (marked with ✓)", sum.Imported)
	if sum.Skipped > 0 {
		text = fmt.Sprintf("Imported %d new (marked with ✓), skipped %d duplicates", sum.Imported, sum.Skipped)
	}
	level := session.LevelInfo
	if n := len(sum.Failed); n > 0 {
		text += fmt.Sprintf(", %d unreadable", n)
		level = session.LevelWarning
	}
	o.ctl.SetStatus(text, level)
	return nil
}

// CancelImport reports a picker that was dismissed without a selection.
func (o *Orchestrator) CancelImport() {
	o.ctl.SetStatus("Import cancelled", session.LevelInfo)
}

// PlanExport validates an export of the marked notes and marks the session
// busy. The destination is a new timestamped directory under the export
// base, which must already exist.
func (o *Orchestrator) PlanExport() (ExportPlan, error) {
	if o.ctl.Busy() {
		return ExportPlan{}, o.ctl.Report(session.ErrBusy)
	}
	if o.ctl.Marks().Len() == 0 {
		err := o.ctl.Report(fmt.Errorf("export: %w", session.ErrNothingMarked))
		o.ctl.SetStatus("No notes marked for export. Mark notes with Space, or press 'a' to mark all", session.LevelWarning)
		return ExportPlan{}, err
	}
	info, err := os.Stat(o.exportBase)
	if err != nil {
		return ExportPlan{}, o.ctl.Report(&notes.FileError{Path: o.exportBase, Op: "stat", Err: err})
	}
	if !info.IsDir() {
		return ExportPlan{}, o.ctl.Report(&notes.FileError{Path: o.exportBase, Op: "stat", Err: errors.New("not a directory")})
	}

	plan := ExportPlan{
		Dir: filepath.Join(o.exportBase, "notry_export_"+o.now().Format(exportDirLayout)),
		IDs: o.ctl.Marks().IDs(),
	}
	o.ctl.SetBusy(true)
	o.ctl.SetStatus(fmt.Sprintf("Exporting %d notes... (Esc to cancel)", len(plan.IDs)), session.LevelInfo)
	o.logger.Info("transfer: export started", "dir", plan.Dir, "notes", len(plan.IDs))
	return plan, nil
}

// Export writes the planned notes. Safe to call from a tea.Cmd goroutine.
func (o *Orchestrator) Export(ctx context.Context, plan ExportPlan) (notes.ExportResult, error) {
	return o.store.Export(ctx, plan.Dir, plan.IDs)
}

// FinishExport reports an export result on the session.
func (o *Orchestrator) FinishExport(res notes.ExportResult, err error) error {
	o.ctl.SetBusy(false)
	o.logger.Info("transfer: export finished",
		"dir", res.Dir, "written", res.Written, "missing", len(res.Missing), "failed", len(res.Failed), "error", err)

	switch {
	case errors.Is(err, context.Canceled):
		o.ctl.SetStatus(fmt.Sprintf("Export cancelled after %d files", res.Written), session.LevelWarning)
		return err
	case err != nil:
		return o.ctl.Report(err)
	}

	text := fmt.Sprintf("Exported %d marked notes → %s", res.Written, res.Dir)
	level := session.LevelInfo
	if n := len(res.Failed); n > 0 {
		text += fmt.Sprintf(" (%d failed)", n)
		level = session.LevelWarning
	}
	o.ctl.SetStatus(text, level)
	return nil
}
