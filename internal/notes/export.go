package notes

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

const maxSlugLen = 50

// ExportResult describes a finished export.
type ExportResult struct {
	Dir     string
	Written int
	Paths   []string
	Missing []int64 // requested ids that did not resolve
	Failed  []*FileError
}

// Export writes one markdown file per note into dir, creating it if needed.
// A nil ids exports every note; otherwise each id is resolved and ids that do
// not exist are skipped without being counted. Write failures are collected
// per file and the batch continues.
func (s *Store) Export(ctx context.Context, dir string, ids []int64) (ExportResult, error) {
	res := ExportResult{Dir: dir}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return res, &FileError{Path: dir, Op: "create dir", Err: err}
	}

	var notes []Note
	if ids == nil {
		all, err := s.All(ctx)
		if err != nil {
			return res, err
		}
		notes = all
	} else {
		seen := make(map[int64]bool, len(ids))
		for _, id := range ids {
			if seen[id] {
				continue
			}
			seen[id] = true
			n, err := s.Get(ctx, id)
			if err != nil {
				return res, err
			}
			if n == nil {
				res.Missing = append(res.Missing, id)
				continue
			}
			notes = append(notes, *n)
		}
	}

	for i := range notes {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		n := &notes[i]
		path := filepath.Join(dir, FileName(n.ID, n.Title))
		if err := os.WriteFile(path, []byte(Markdown(n)), 0644); err != nil {
			fe := &FileError{Path: path, Op: "write", Err: err}
			s.logger.Warn("notes: export failed", "path", path, "error", err)
			res.Failed = append(res.Failed, fe)
			continue
		}
		res.Written++
		res.Paths = append(res.Paths, path)
	}
	return res, nil
}

// FileName returns the export file name for a note.
func FileName(id int64, title string) string {
	return fmt.Sprintf("note-%d-%s.md", id, Slug(id, title))
}

// Slug derives a filesystem-safe name from a title: letters, numbers, space,
// '-' and '_' survive, the result is trimmed and cut to 50 characters, and
// spaces become hyphens. An empty result falls back to "note-<id>".
func Slug(id int64, title string) string {
	var b strings.Builder
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	slug := strings.TrimSpace(b.String())
	if runes := []rune(slug); len(runes) > maxSlugLen {
		slug = string(runes[:maxSlugLen])
	}
	if slug == "" {
		slug = fmt.Sprintf("note-%d", id)
	}
	return strings.ReplaceAll(slug, " ", "-")
}

// Markdown renders a note in export format.
func Markdown(n *Note) string {
	return fmt.Sprintf("# %s\n\n_Created: %s · Updated: %s_\n\n%s",
		n.Title,
		n.CreatedAt.UTC().Format(timeLayout),
		n.UpdatedAt.UTC().Format(timeLayout),
		n.Body)
}
