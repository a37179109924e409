package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// withTempState points the package at a fresh state file and restores the
// previous globals afterwards.
func withTempState(t *testing.T) string {
	t.Helper()
	originalPath := path
	originalCurrent := current
	t.Cleanup(func() {
		path = originalPath
		current = originalCurrent
	})

	dir := t.TempDir()
	if err := InitWithDir(dir); err != nil {
		t.Fatalf("InitWithDir() failed: %v", err)
	}
	return filepath.Join(dir, "state.json")
}

func TestInit_Defaults(t *testing.T) {
	withTempState(t)

	if current == nil {
		t.Fatal("current state should be initialized")
	}
	if GetLastImportDir() != "" {
		t.Errorf("default LastImportDir = %q, want empty", GetLastImportDir())
	}
	if GetRawPreview() {
		t.Error("default RawPreview should be false")
	}
}

func TestLoad_ExistingFile(t *testing.T) {
	stateFile := withTempState(t)

	data, _ := json.Marshal(State{LastImportDir: "/tmp/inbox", RawPreview: true})
	if err := os.WriteFile(stateFile, data, 0644); err != nil {
		t.Fatalf("failed to write test state file: %v", err)
	}

	if err := Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if got := GetLastImportDir(); got != "/tmp/inbox" {
		t.Errorf("LastImportDir = %q, want /tmp/inbox", got)
	}
	if !GetRawPreview() {
		t.Error("RawPreview = false, want true")
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	stateFile := withTempState(t)

	if err := os.WriteFile(stateFile, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := Load(); err == nil {
		t.Error("Load() should fail on invalid JSON")
	}
}

func TestSetters_Persist(t *testing.T) {
	stateFile := withTempState(t)

	if err := SetLastImportDir("/home/me/notes"); err != nil {
		t.Fatalf("SetLastImportDir() failed: %v", err)
	}
	if err := SetRawPreview(true); err != nil {
		t.Fatalf("SetRawPreview() failed: %v", err)
	}

	data, err := os.ReadFile(stateFile)
	if err != nil {
		t.Fatalf("state file not written: %v", err)
	}
	var saved State
	if err := json.Unmarshal(data, &saved); err != nil {
		t.Fatal(err)
	}
	if saved.LastImportDir != "/home/me/notes" || !saved.RawPreview {
		t.Errorf("saved state = %+v", saved)
	}

	// Reload from disk.
	if err := Load(); err != nil {
		t.Fatal(err)
	}
	if GetLastImportDir() != "/home/me/notes" {
		t.Errorf("after reload LastImportDir = %q", GetLastImportDir())
	}
}

func TestGetters_NilState(t *testing.T) {
	originalCurrent := current
	current = nil
	defer func() { current = originalCurrent }()

	if GetLastImportDir() != "" {
		t.Error("nil state should give empty dir")
	}
	if GetRawPreview() {
		t.Error("nil state should give false")
	}
}

func TestConcurrentAccess(t *testing.T) {
	withTempState(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = GetRawPreview()
		}()
		go func(v bool) {
			defer wg.Done()
			_ = SetRawPreview(v)
		}(i%2 == 0)
	}
	wg.Wait()
}

func TestSave_BeforeInit(t *testing.T) {
	originalPath, originalCurrent := path, current
	path, current = "", nil
	defer func() { path, current = originalPath, originalCurrent }()

	if err := SetRawPreview(true); err != nil {
		t.Fatalf("SetRawPreview() without a path = %v, want nil", err)
	}
	if !GetRawPreview() {
		t.Error("in-memory value should still be set")
	}
}

func TestSave_NoTempFilesLeft(t *testing.T) {
	stateFile := withTempState(t)

	for i := 0; i < 3; i++ {
		if err := SetLastImportDir(filepath.Join("/tmp", string(rune('a'+i)))); err != nil {
			t.Fatal(err)
		}
	}
	entries, err := os.ReadDir(filepath.Dir(stateFile))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "state.json" {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("dir contents = %v, want only state.json", names)
	}
}
