package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

const (
	configDir  = ".config/notry"
	configFile = "config.json"
)

// rawConfig is the JSON-unmarshaling intermediary. Pointer fields
// distinguish "absent" from the zero value.
type rawConfig struct {
	Storage rawStorageConfig `json:"storage"`
	Search  rawSearchConfig  `json:"search"`
	Import  rawImportConfig  `json:"import"`
	Export  ExportConfig     `json:"export"`
	Keymap  KeymapConfig     `json:"keymap"`
	UI      rawUIConfig      `json:"ui"`
	Log     LogConfig        `json:"log"`
}

type rawStorageConfig struct {
	Path   string `json:"path"`
	Driver string `json:"driver"`
}

type rawSearchConfig struct {
	Limit *int `json:"limit"`
}

type rawImportConfig struct {
	Dir        string   `json:"dir"`
	Extensions []string `json:"extensions"`
}

type rawUIConfig struct {
	MarkdownStyle string `json:"markdownStyle"`
	ShowHelp      *bool  `json:"showHelp"`
}

// Load loads configuration from the default location.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom loads configuration from a specific path.
// If path is empty, uses ~/.config/notry/config.json
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = ConfigPath()
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// no config file, keep defaults
		case err != nil:
			return nil, err
		default:
			var raw rawConfig
			if err := json.Unmarshal(data, &raw); err != nil {
				return nil, err
			}
			mergeConfig(cfg, &raw)
		}
	}

	cfg.Storage.Path = ExpandPath(cfg.Storage.Path)
	cfg.Import.Dir = ExpandPath(cfg.Import.Dir)
	cfg.Export.Dir = ExpandPath(cfg.Export.Dir)
	cfg.Log.File = ExpandPath(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeConfig merges raw config values into the config.
func mergeConfig(cfg *Config, raw *rawConfig) {
	// Storage
	if raw.Storage.Path != "" {
		cfg.Storage.Path = raw.Storage.Path
	}
	if raw.Storage.Driver != "" {
		cfg.Storage.Driver = raw.Storage.Driver
	}

	// Search
	if raw.Search.Limit != nil {
		cfg.Search.Limit = *raw.Search.Limit
	}

	// Import / export
	if raw.Import.Dir != "" {
		cfg.Import.Dir = raw.Import.Dir
	}
	if raw.Import.Extensions != nil {
		cfg.Import.Extensions = raw.Import.Extensions
	}
	if raw.Export.Dir != "" {
		cfg.Export.Dir = raw.Export.Dir
	}

	// Keymap
	for k, v := range raw.Keymap.Overrides {
		cfg.Keymap.Overrides[k] = v
	}

	// UI
	if raw.UI.MarkdownStyle != "" {
		cfg.UI.MarkdownStyle = raw.UI.MarkdownStyle
	}
	if raw.UI.ShowHelp != nil {
		cfg.UI.ShowHelp = *raw.UI.ShowHelp
	}

	// Log
	if raw.Log.File != "" {
		cfg.Log.File = raw.Log.File
	}
}

// ExpandPath expands ~ to home directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}
	return path
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, configDir, configFile)
}

// Dir returns the directory holding config, state and the default log.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, configDir)
}
