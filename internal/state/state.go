// Package state persists small UI preferences between runs. The marked set
// is not part of it: marks live only as long as the process.
package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// State is the on-disk document.
type State struct {
	LastImportDir string `json:"lastImportDir,omitempty"`
	RawPreview    bool   `json:"rawPreview,omitempty"`
}

var (
	current *State
	mu      sync.RWMutex
	path    string

	// serialises writers so renames land in call order
	saveMu sync.Mutex
)

// Init loads state from ~/.config/notry/state.json.
func Init() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	return InitWithDir(filepath.Join(home, ".config", "notry"))
}

// InitWithDir loads state from dir. Tests use it to stay out of the real
// home directory.
func InitWithDir(dir string) error {
	path = filepath.Join(dir, "state.json")
	return Load()
}

// Load reads the state file. A missing file yields defaults.
func Load() error {
	mu.Lock()
	defer mu.Unlock()

	current = &State{}
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		return nil
	case err != nil:
		return err
	}
	return json.Unmarshal(data, current)
}

// Save writes the state file through a temp file and rename. It does
// nothing before Init.
func Save() error {
	saveMu.Lock()
	defer saveMu.Unlock()

	mu.RLock()
	if current == nil || path == "" {
		mu.RUnlock()
		return nil
	}
	data, err := json.MarshalIndent(current, "", "  ")
	target := path
	mu.RUnlock()
	if err != nil {
		return err
	}

	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), target)
}

func get[T any](field func(*State) T) T {
	mu.RLock()
	defer mu.RUnlock()
	if current == nil {
		var zero T
		return zero
	}
	return field(current)
}

func update(apply func(*State)) error {
	mu.Lock()
	if current == nil {
		current = &State{}
	}
	apply(current)
	mu.Unlock()
	return Save()
}

// GetLastImportDir returns the directory the import picker last confirmed in.
func GetLastImportDir() string {
	return get(func(s *State) string { return s.LastImportDir })
}

// SetLastImportDir records the picker directory.
func SetLastImportDir(dir string) error {
	return update(func(s *State) { s.LastImportDir = dir })
}

// GetRawPreview reports whether the preview pane shows unrendered markdown.
func GetRawPreview() bool {
	return get(func(s *State) bool { return s.RawPreview })
}

func SetRawPreview(raw bool) error {
	return update(func(s *State) { s.RawPreview = raw })
}
