package notes

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultExtensions are the file types accepted for import.
var DefaultExtensions = []string{".md", ".markdown", ".txt"}

// Allowlist matches file names by extension, ignoring case.
type Allowlist struct {
	exts    []string
	pattern string
}

// NewAllowlist builds an allowlist from extensions such as ".md" or "txt".
// Entries with glob metacharacters are dropped.
func NewAllowlist(exts []string) Allowlist {
	seen := make(map[string]bool)
	var clean []string
	for _, e := range exts {
		e = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(e)), ".")
		if e == "" || seen[e] || strings.ContainsAny(e, `*?[]{},\/`) {
			continue
		}
		seen[e] = true
		clean = append(clean, e)
	}
	if len(clean) == 0 {
		return Allowlist{}
	}

	a := Allowlist{pattern: "*.{" + strings.Join(clean, ",") + "}"}
	for _, e := range clean {
		a.exts = append(a.exts, "."+e)
	}
	return a
}

// DefaultAllowlist returns the allowlist for DefaultExtensions.
func DefaultAllowlist() Allowlist {
	return NewAllowlist(DefaultExtensions)
}

// Extensions returns the normalized extensions, each with a leading dot.
func (a Allowlist) Extensions() []string {
	return append([]string(nil), a.exts...)
}

// Pattern returns the glob the allowlist matches base names against.
func (a Allowlist) Pattern() string { return a.pattern }

// Match reports whether the base name of path carries an allowed extension.
// A dotfile such as ".md" has no extension and never matches.
func (a Allowlist) Match(path string) bool {
	if a.pattern == "" {
		return false
	}
	name := strings.ToLower(filepath.Base(path))
	if strings.HasPrefix(name, ".") && strings.Count(name, ".") == 1 {
		return false
	}
	ok, err := doublestar.Match(a.pattern, name)
	return err == nil && ok
}
