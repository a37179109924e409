package keymap

// Contexts used by the UI.
const (
	ContextQuery   = "search"
	ContextResults = "results"
	ContextEdit    = "edit"
	ContextBrowse  = "browse"
	ContextPicker  = "picker"
)

// DefaultBindings returns the default key bindings.
func DefaultBindings() []Binding {
	return []Binding{
		// Global bindings
		{Key: "ctrl+c", Command: "quit", Context: "global"},
		{Key: "f2", Command: "import", Context: "global"},
		{Key: "f3", Command: "export", Context: "global"},

		// Query input context
		{Key: "enter", Command: "submit", Context: "search"},
		{Key: "esc", Command: "back", Context: "search"},
		{Key: "down", Command: "cursor-down", Context: "search"},
		{Key: "ctrl+n", Command: "cursor-down", Context: "search"},
		{Key: "up", Command: "cursor-up", Context: "search"},
		{Key: "ctrl+p", Command: "cursor-up", Context: "search"},
		{Key: "tab", Command: "focus-results", Context: "search"},

		// Result list context
		{Key: "enter", Command: "open", Context: "results"},
		{Key: "j", Command: "cursor-down", Context: "results"},
		{Key: "down", Command: "cursor-down", Context: "results"},
		{Key: "k", Command: "cursor-up", Context: "results"},
		{Key: "up", Command: "cursor-up", Context: "results"},
		{Key: "g", Command: "cursor-top", Context: "results"},
		{Key: "home", Command: "cursor-top", Context: "results"},
		{Key: "G", Command: "cursor-bottom", Context: "results"},
		{Key: "end", Command: "cursor-bottom", Context: "results"},
		{Key: " ", Command: "mark", Context: "results"},
		{Key: "a", Command: "mark-all", Context: "results"},
		{Key: "c", Command: "clear-marks", Context: "results"},
		{Key: "b", Command: "browse", Context: "results"},
		{Key: "y", Command: "yank", Context: "results"},
		{Key: "p", Command: "toggle-preview", Context: "results"},
		{Key: "/", Command: "focus-query", Context: "results"},
		{Key: ":", Command: "focus-query", Context: "results"},
		{Key: "tab", Command: "focus-query", Context: "results"},
		{Key: "esc", Command: "focus-query", Context: "results"},

		// Editor context
		{Key: "ctrl+s", Command: "save", Context: "edit"},
		{Key: "esc", Command: "back", Context: "edit"},
		{Key: "tab", Command: "switch-focus", Context: "edit"},
		{Key: "alt+c", Command: "yank", Context: "edit"},

		// Browse context (marked notes)
		{Key: "j", Command: "cursor-down", Context: "browse"},
		{Key: "down", Command: "cursor-down", Context: "browse"},
		{Key: "k", Command: "cursor-up", Context: "browse"},
		{Key: "up", Command: "cursor-up", Context: "browse"},
		{Key: " ", Command: "mark", Context: "browse"},
		{Key: "a", Command: "mark-all", Context: "browse"},
		{Key: "c", Command: "clear-marks", Context: "browse"},
		{Key: "enter", Command: "open", Context: "browse"},
		{Key: "e", Command: "open", Context: "browse"},
		{Key: "esc", Command: "close", Context: "browse"},
		{Key: "q", Command: "close", Context: "browse"},
		{Key: "b", Command: "close", Context: "browse"},

		// Import picker context
		{Key: "j", Command: "cursor-down", Context: "picker"},
		{Key: "down", Command: "cursor-down", Context: "picker"},
		{Key: "k", Command: "cursor-up", Context: "picker"},
		{Key: "up", Command: "cursor-up", Context: "picker"},
		{Key: "g", Command: "cursor-top", Context: "picker"},
		{Key: "G", Command: "cursor-bottom", Context: "picker"},
		{Key: " ", Command: "toggle", Context: "picker"},
		{Key: "a", Command: "select-all", Context: "picker"},
		{Key: "n", Command: "select-none", Context: "picker"},
		{Key: "h", Command: "parent", Context: "picker"},
		{Key: "u", Command: "parent", Context: "picker"},
		{Key: "backspace", Command: "parent", Context: "picker"},
		{Key: "l", Command: "open", Context: "picker"},
		{Key: "enter", Command: "open", Context: "picker"},
		{Key: "i", Command: "confirm", Context: "picker"},
		{Key: "ctrl+s", Command: "confirm", Context: "picker"},
		{Key: "esc", Command: "cancel", Context: "picker"},
	}
}

// RegisterDefaults registers all default bindings with the registry.
func RegisterDefaults(r *Registry) {
	for _, b := range DefaultBindings() {
		r.RegisterBinding(b)
	}
}
