package notes

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// FileResult is the outcome of importing one file. ID is zero when the file
// was a duplicate.
type FileResult struct {
	Path      string
	ID        int64
	Duplicate bool
}

// ImportSummary accumulates a batch import. Files that could not be read are
// listed in Failed and counted as neither imported nor skipped, so
// Imported+Skipped can be less than the number of candidate files.
type ImportSummary struct {
	Imported int
	Skipped  int
	IDs      []int64
	Failed   []*FileError
}

func (s *ImportSummary) add(r FileResult) {
	if r.Duplicate {
		s.Skipped++
		return
	}
	s.Imported++
	s.IDs = append(s.IDs, r.ID)
}

// DedupHash returns the import identity of a title/body pair: hex SHA-256
// over the title, a "||" separator, and the body. It is only used to detect
// re-imports.
func DedupHash(title, body string) string {
	sum := sha256.Sum256([]byte(title + "||" + body))
	return hex.EncodeToString(sum[:])
}

// ExistsByHash reports whether any note carries the given import hash.
func (s *Store) ExistsByHash(ctx context.Context, hash string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notes WHERE import_hash = ?`, hash).Scan(&n)
	if err != nil {
		return false, storageErr("lookup import hash", err)
	}
	return n > 0, nil
}

// ImportFile imports one text file. The file name without extension becomes
// the title and the whole content the body; invalid UTF-8 is replaced rather
// than rejected. A file whose (title, content) was imported before is
// reported as a duplicate and nothing is written.
func (s *Store) ImportFile(ctx context.Context, path string) (FileResult, error) {
	res := FileResult{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		return res, &FileError{Path: path, Op: "read", Err: err}
	}
	content := strings.ToValidUTF8(string(data), "\uFFFD")
	title := stem(path)
	hash := DedupHash(title, content)

	exists, err := s.ExistsByHash(ctx, hash)
	if err != nil {
		return res, err
	}
	if exists {
		s.logger.Debug("notes: import skipped duplicate", "path", path)
		res.Duplicate = true
		return res, nil
	}

	id, err := s.Upsert(ctx, UpsertParams{Title: title, Body: content, ImportHash: &hash})
	if err != nil {
		return res, err
	}
	s.logger.Debug("notes: imported", "path", path, "id", id)
	res.ID = id
	return res, nil
}

// ImportFiles imports paths in order. Unreadable files are collected in the
// summary and the batch continues; a storage fault or cancellation stops it
// and returns the partial summary with the error.
func (s *Store) ImportFiles(ctx context.Context, paths []string) (ImportSummary, error) {
	var sum ImportSummary
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		r, err := s.ImportFile(ctx, p)
		if err != nil {
			var fe *FileError
			if errors.As(err, &fe) {
				s.logger.Warn("notes: import failed", "path", p, "error", fe.Err)
				sum.Failed = append(sum.Failed, fe)
				continue
			}
			return sum, err
		}
		sum.add(r)
	}
	return sum, nil
}

// ImportDir imports the regular files directly inside dir whose extension is
// allowed, in ascending file name order. It does not recurse.
func (s *Store) ImportDir(ctx context.Context, dir string, allow Allowlist) (ImportSummary, error) {
	paths, err := ImportCandidates(dir, allow)
	if err != nil {
		return ImportSummary{}, err
	}
	return s.ImportFiles(ctx, paths)
}

// ImportCandidates lists the files ImportDir would import, in order.
func ImportCandidates(dir string, allow Allowlist) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &FileError{Path: dir, Op: "read dir", Err: err}
	}
	var paths []string
	for _, e := range entries {
		if !allow.Match(e.Name()) {
			continue
		}
		p := filepath.Join(dir, e.Name())
		info, err := os.Stat(p)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// stem returns the file name without its extension.
func stem(path string) string {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" {
		name = base
	}
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "(untitled)"
	}
	return name
}
