package picker

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/marcus/notry/internal/notes"
)

const (
	previewWidth = 80
	previewBytes = 64 * 1024
)

// Entry is one row of the picker.
type Entry struct {
	Name     string
	Path     string
	IsDir    bool
	IsParent bool
	Preview  string // first non-empty line, files only
}

// List returns the entries of dir: the parent entry unless dir is a root,
// sub-directories, then files accepted by allow. Both groups are ordered by
// case-insensitive name.
func List(dir string, allow notes.Allowlist) ([]Entry, error) {
	dir = filepath.Clean(dir)
	infos, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var dirs, files []Entry
	for _, de := range infos {
		full := filepath.Join(dir, de.Name())
		isDir := de.IsDir()
		if de.Type()&os.ModeSymlink != 0 {
			fi, err := os.Stat(full)
			if err != nil {
				continue
			}
			isDir = fi.IsDir()
		}
		switch {
		case isDir:
			dirs = append(dirs, Entry{Name: de.Name(), Path: full, IsDir: true})
		case allow.Match(de.Name()):
			files = append(files, Entry{Name: de.Name(), Path: full, Preview: Preview(full)})
		}
	}
	byName := func(list []Entry) {
		sort.SliceStable(list, func(i, j int) bool {
			return strings.ToLower(list[i].Name) < strings.ToLower(list[j].Name)
		})
	}
	byName(dirs)
	byName(files)

	entries := make([]Entry, 0, len(dirs)+len(files)+1)
	if parent := filepath.Dir(dir); parent != dir {
		entries = append(entries, Entry{Name: "..", Path: parent, IsDir: true, IsParent: true})
	}
	entries = append(entries, dirs...)
	return append(entries, files...), nil
}

// Preview returns the first non-empty line of the file, cut to 80 columns.
func Preview(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return "(unable to read)"
	}
	defer f.Close()

	sc := bufio.NewScanner(io.LimitReader(f, previewBytes))
	sc.Buffer(make([]byte, 0, 4096), previewBytes)
	for sc.Scan() {
		line := strings.TrimSpace(strings.ToValidUTF8(sc.Text(), ""))
		if line == "" {
			continue
		}
		if runewidth.StringWidth(line) > previewWidth {
			return runewidth.Truncate(line, previewWidth, "") + "..."
		}
		return line
	}
	if sc.Err() != nil {
		return "(unable to read)"
	}
	return "(empty file)"
}
