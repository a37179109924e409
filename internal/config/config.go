package config

import (
	"fmt"
	"slices"
)

// Config is the root configuration structure.
type Config struct {
	Storage StorageConfig `json:"storage"`
	Search  SearchConfig  `json:"search"`
	Import  ImportConfig  `json:"import"`
	Export  ExportConfig  `json:"export"`
	Keymap  KeymapConfig  `json:"keymap"`
	UI      UIConfig      `json:"ui"`
	Log     LogConfig     `json:"log"`
}

// StorageConfig locates the note database.
type StorageConfig struct {
	Path   string `json:"path"`
	Driver string `json:"driver"` // "sqlite" (pure Go) or "sqlite3" (cgo)
}

// SearchConfig tunes the result list.
type SearchConfig struct {
	Limit int `json:"limit"`
}

// ImportConfig configures the import picker.
type ImportConfig struct {
	Dir        string   `json:"dir"`        // starting directory when no last-used dir is known
	Extensions []string `json:"extensions"` // allowlist, case-insensitive
}

// ExportConfig configures export.
type ExportConfig struct {
	Dir string `json:"dir"` // parent of notry_export_* directories; must exist
}

// KeymapConfig holds key binding overrides, keyed by "context.command".
// Values are comma-separated key names.
type KeymapConfig struct {
	Overrides map[string]string `json:"overrides"`
}

// UIConfig configures UI appearance.
type UIConfig struct {
	MarkdownStyle string `json:"markdownStyle"` // glamour standard style
	ShowHelp      bool   `json:"showHelp"`
}

// LogConfig configures the log file.
type LogConfig struct {
	File string `json:"file"`
}

const (
	defaultLimit         = 500
	defaultMarkdownStyle = "dark"
)

var (
	validDrivers        = []string{"sqlite", "sqlite3"}
	validMarkdownStyles = []string{"ascii", "auto", "dark", "dracula", "light", "notty", "pink", "tokyo-night"}
)

// DefaultExtensions is the default import allowlist.
func DefaultExtensions() []string {
	return []string{".md", ".markdown", ".txt"}
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Path:   "notry.db",
			Driver: "sqlite",
		},
		Search: SearchConfig{
			Limit: defaultLimit,
		},
		Import: ImportConfig{
			Dir:        "~/Downloads",
			Extensions: DefaultExtensions(),
		},
		Export: ExportConfig{
			Dir: "~/Downloads",
		},
		Keymap: KeymapConfig{
			Overrides: make(map[string]string),
		},
		UI: UIConfig{
			MarkdownStyle: defaultMarkdownStyle,
			ShowHelp:      true,
		},
		Log: LogConfig{
			File: "~/.config/notry/notry.log",
		},
	}
}

// Validate checks the configuration for errors. Out-of-range values are
// reset to their defaults; only an unknown storage driver is an error.
func (c *Config) Validate() error {
	if c.Search.Limit <= 0 {
		c.Search.Limit = defaultLimit
	}
	if len(c.Import.Extensions) == 0 {
		c.Import.Extensions = DefaultExtensions()
	}
	if !slices.Contains(validMarkdownStyles, c.UI.MarkdownStyle) {
		c.UI.MarkdownStyle = defaultMarkdownStyle
	}
	if c.Keymap.Overrides == nil {
		c.Keymap.Overrides = make(map[string]string)
	}
	if !slices.Contains(validDrivers, c.Storage.Driver) {
		return fmt.Errorf("storage.driver: unknown driver %q (want sqlite or sqlite3)", c.Storage.Driver)
	}
	return nil
}
