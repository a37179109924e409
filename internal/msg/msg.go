// Package msg holds Bubble Tea messages shared by the root model and its
// sub-views.
package msg

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	ShortToast = 2 * time.Second
	LongToast  = 3 * time.Second
)

// ToastMsg shows a transient line below the mode bar.
type ToastMsg struct {
	Message  string
	Duration time.Duration
	IsError  bool
}

// Toast shows message for d.
func Toast(message string, d time.Duration) tea.Cmd {
	return func() tea.Msg {
		return ToastMsg{Message: message, Duration: d}
	}
}

// Failed shows "<what> failed: <err>" as an error toast.
func Failed(what string, err error) tea.Cmd {
	return func() tea.Msg {
		return ToastMsg{
			Message:  what + " failed: " + err.Error(),
			Duration: ShortToast,
			IsError:  true,
		}
	}
}
