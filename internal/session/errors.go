package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/marcus/notry/internal/notes"
)

var (
	// ErrUnsavedChanges refuses a non-destructive exit from EDIT while the
	// editor content differs from the saved baseline.
	ErrUnsavedChanges = errors.New("unsaved changes")
	// ErrUnknownCommand is returned for unrecognised ":" commands.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrNothingMarked is returned by operations that need a non-empty marked set.
	ErrNothingMarked = errors.New("no notes marked")
	// ErrWrongMode is returned for intents that are not valid in the current mode.
	ErrWrongMode = errors.New("not available in this mode")
	// ErrBusy is returned while an import or export batch is running.
	ErrBusy = errors.New("import or export in progress")
)

// Level is the severity of a status line message.
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Severity classifies err for display. Storage faults are errors; everything
// the user can fix by acting differently is a warning.
func Severity(err error) Level {
	switch {
	case err == nil:
		return LevelInfo
	case errors.Is(err, context.Canceled):
		return LevelInfo
	case notes.IsStorageError(err):
		return LevelError
	case errors.Is(err, ErrUnsavedChanges),
		errors.Is(err, ErrUnknownCommand),
		errors.Is(err, ErrNothingMarked),
		errors.Is(err, ErrWrongMode),
		errors.Is(err, ErrBusy),
		errors.Is(err, notes.ErrNotFound),
		notes.IsFileError(err):
		return LevelWarning
	default:
		return LevelError
	}
}

// StatusText renders err as a status line message.
func StatusText(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnsavedChanges):
		return "Unsaved changes! Ctrl+S to save, :q to quit without saving"
	case errors.Is(err, ErrNothingMarked):
		return "No notes marked. Mark with Space first."
	case errors.Is(err, ErrBusy):
		return "Busy: wait for the running import/export or press Esc to cancel"
	case errors.Is(err, context.Canceled):
		return "Cancelled"
	case notes.IsStorageError(err):
		return fmt.Sprintf("Storage error: %v", err)
	}
	var ce *commandError
	if errors.As(err, &ce) {
		return "Unknown command: " + ce.cmd
	}
	return err.Error()
}

type commandError struct {
	cmd string
}

func (e *commandError) Error() string { return fmt.Sprintf("unknown command %q", e.cmd) }

func (e *commandError) Unwrap() error { return ErrUnknownCommand }
