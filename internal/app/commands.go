package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/notry/internal/notes"
	"github.com/marcus/notry/internal/transfer"
)

// Message types for tea.Cmd
type (
	// TickMsg is sent on each clock tick.
	TickMsg time.Time

	// ImportDoneMsg carries the result of an import batch.
	ImportDoneMsg struct {
		Summary notes.ImportSummary
		Err     error
	}

	// ExportDoneMsg carries the result of an export batch.
	ExportDoneMsg struct {
		Result notes.ExportResult
		Err    error
	}
)

// tickCmd returns a command that ticks every second.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// runImport imports paths in the background.
func runImport(ctx context.Context, x *transfer.Orchestrator, paths []string) tea.Cmd {
	return func() tea.Msg {
		sum, err := x.Import(ctx, paths)
		return ImportDoneMsg{Summary: sum, Err: err}
	}
}

// runExport writes plan in the background.
func runExport(ctx context.Context, x *transfer.Orchestrator, plan transfer.ExportPlan) tea.Cmd {
	return func() tea.Msg {
		res, err := x.Export(ctx, plan)
		return ExportDoneMsg{Result: res, Err: err}
	}
}
