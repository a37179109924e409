package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Save writes the config to ~/.config/notry/config.json
func Save(cfg *Config) error {
	return SaveTo(cfg, ConfigPath())
}

// SaveTo writes the config to path. Top-level keys this package does not
// manage are carried over from the existing file.
func SaveTo(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	merged := make(map[string]json.RawMessage)
	if data, err := os.ReadFile(path); err == nil {
		// An unreadable or corrupt file is replaced rather than merged.
		_ = json.Unmarshal(data, &merged)
	}

	managed := map[string]any{
		"storage": cfg.Storage,
		"search":  cfg.Search,
		"import":  cfg.Import,
		"export":  cfg.Export,
		"keymap":  cfg.Keymap,
		"ui":      cfg.UI,
		"log":     cfg.Log,
	}
	for k, v := range managed {
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		merged[k] = b
	}

	data, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
