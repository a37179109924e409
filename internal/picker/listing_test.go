package picker

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/marcus/notry/internal/notes"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func names(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func TestList_Order(t *testing.T) {
	dir := t.TempDir()
	for _, d := range []string{"beta", "Alpha", "gamma"} {
		if err := os.Mkdir(filepath.Join(dir, d), 0755); err != nil {
			t.Fatal(err)
		}
	}
	writeFile(t, dir, "b.md", "b")
	writeFile(t, dir, "A.TXT", "a")
	writeFile(t, dir, "c.markdown", "c")
	writeFile(t, dir, "skip.go", "package x")
	writeFile(t, dir, ".md", "dotfile")

	entries, err := List(dir, notes.DefaultAllowlist())
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}

	want := []string{"..", "Alpha", "beta", "gamma", "A.TXT", "b.md", "c.markdown"}
	got := names(entries)
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("List() = %v, want %v", got, want)
	}
	if !entries[0].IsParent || entries[0].Path != filepath.Dir(dir) {
		t.Errorf("first entry = %+v, want parent", entries[0])
	}
	if entries[4].IsDir || entries[4].Preview != "a" {
		t.Errorf("file entry = %+v", entries[4])
	}
}

func TestList_Root(t *testing.T) {
	entries, err := List("/", notes.DefaultAllowlist())
	if err != nil {
		t.Skipf("cannot list /: %v", err)
	}
	for _, e := range entries {
		if e.IsParent {
			t.Fatal("root listing should not have a parent entry")
		}
	}
}

func TestList_Missing(t *testing.T) {
	if _, err := List(filepath.Join(t.TempDir(), "nope"), notes.DefaultAllowlist()); err == nil {
		t.Fatal("expected error for missing dir")
	}
}

func TestPreview(t *testing.T) {
	dir := t.TempDir()
	long := strings.Repeat("x", 100)

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"first.md", "\n\n   \n  Hello world  \nsecond", "Hello world"},
		{"empty.md", "", "(empty file)"},
		{"blank.md", "\n \n\t\n", "(empty file)"},
		{"long.md", long, strings.Repeat("x", 80) + "..."},
		{"exact.md", strings.Repeat("y", 80), strings.Repeat("y", 80)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := writeFile(t, dir, tt.name, tt.content)
			if got := Preview(p); got != tt.want {
				t.Errorf("Preview() = %q, want %q", got, tt.want)
			}
		})
	}

	if got := Preview(filepath.Join(dir, "missing.md")); got != "(unable to read)" {
		t.Errorf("Preview(missing) = %q", got)
	}
}

func TestHead(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "n.md", "1\n2\n3\n4\n")
	got, err := Head(p, 2)
	if err != nil {
		t.Fatalf("Head() error: %v", err)
	}
	if got != "1\n2\n" {
		t.Errorf("Head() = %q", got)
	}
}

func TestHighlight_KeepsText(t *testing.T) {
	out := ansi.Strip(Highlight("n.md", "# Title\n\nbody text\n"))
	if !strings.Contains(out, "Title") || !strings.Contains(out, "body text") {
		t.Errorf("Highlight() lost content: %q", out)
	}
}

func TestStartDir(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing")

	if got := StartDir(dir, ""); got != dir {
		t.Errorf("StartDir(last) = %q", got)
	}
	if got := StartDir(missing, dir); got != dir {
		t.Errorf("StartDir(fallback) = %q", got)
	}
	home, err := os.UserHomeDir()
	if err == nil {
		if got := StartDir("", missing); got != home {
			t.Errorf("StartDir(home) = %q, want %q", got, home)
		}
	}
}
