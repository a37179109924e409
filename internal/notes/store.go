// Package notes is the note repository: SQLite persistence, substring search,
// hash-based import deduplication, and markdown export.
package notes

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

const (
	// DriverPure is the pure-Go modernc.org/sqlite driver (default).
	DriverPure = "sqlite"
	// DriverCgo is the cgo mattn/go-sqlite3 driver.
	DriverCgo = "sqlite3"

	// timeLayout keeps second precision so text order equals time order.
	timeLayout = time.RFC3339
)

// Note is a persisted title/body record.
type Note struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	ImportHash *string   `json:"import_hash,omitempty"`
}

// Match is one search hit: the note id and its undecorated snippet
// (title, newline, body). Display truncation is the caller's concern.
type Match struct {
	ID      int64
	Snippet string
}

// UpsertParams holds the input for Upsert. ID == 0 inserts a new note.
type UpsertParams struct {
	ID         int64
	Title      string
	Body       string
	ImportHash *string
}

// Options configures Open.
type Options struct {
	Driver string           // DriverPure (default) or DriverCgo
	Logger *slog.Logger     // nil discards
	Now    func() time.Time // nil uses time.Now
}

// Store handles SQLite operations for notes.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// Open opens (creating if needed) the note database at path.
func Open(path string, opts Options) (*Store, error) {
	driver := opts.Driver
	if driver == "" {
		driver = DriverPure
	}

	db, err := openDB(driver, dsn(driver, path))
	if err != nil {
		return nil, storageErr("open", err)
	}
	// One connection serializes writers and keeps PRAGMAs on a single handle.
	db.SetMaxOpenConns(1)

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	s := &Store{db: db, logger: logger, now: now}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, storageErr("init schema", err)
	}
	return s, nil
}

// dsn builds the driver-specific connection string.
func dsn(driver, path string) string {
	switch driver {
	case DriverCgo:
		return path + "?_busy_timeout=5000&_journal_mode=WAL"
	default:
		return path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// initSchema creates the notes table and indexes, adding import_hash to
// databases created before it existed.
func (s *Store) initSchema() error {
	if _, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS notes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    body TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    import_hash TEXT
)`); err != nil {
		return err
	}

	has, err := s.hasColumn("notes", "import_hash")
	if err != nil {
		return err
	}
	if !has {
		s.logger.Info("notes: migrating schema", "add_column", "import_hash")
		if _, err := s.db.Exec(`ALTER TABLE notes ADD COLUMN import_hash TEXT`); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(`
CREATE INDEX IF NOT EXISTS idx_notes_updated ON notes(updated_at DESC);
CREATE INDEX IF NOT EXISTS idx_notes_import_hash ON notes(import_hash);
`)
	return err
}

func (s *Store) hasColumn(table, column string) (bool, error) {
	rows, err := s.db.Query(`SELECT name FROM pragma_table_info(?)`, table)
	if err != nil {
		return false, err
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

// timestamp returns the current time in storage format.
func (s *Store) timestamp() string {
	return s.now().UTC().Truncate(time.Second).Format(timeLayout)
}

// Upsert inserts a note when p.ID is zero and returns the new id. Otherwise it
// overwrites title, body and import hash of p.ID and refreshes updated_at.
//
// Updating an id that does not exist writes nothing and still returns p.ID
// with a nil error; the miss is logged.
func (s *Store) Upsert(ctx context.Context, p UpsertParams) (int64, error) {
	now := s.timestamp()
	hash := nullString(p.ImportHash)

	if p.ID == 0 {
		res, err := s.db.ExecContext(ctx, `
			INSERT INTO notes (title, body, created_at, updated_at, import_hash)
			VALUES (?, ?, ?, ?, ?)
		`, p.Title, p.Body, now, now, hash)
		if err != nil {
			return 0, storageErr("insert note", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, storageErr("insert note", err)
		}
		return id, nil
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE notes SET title = ?, body = ?, updated_at = ?, import_hash = ?
		WHERE id = ?
	`, p.Title, p.Body, now, hash, p.ID)
	if err != nil {
		return 0, storageErr("update note", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		s.logger.Warn("notes: upsert targeted unknown id, nothing written", "id", p.ID)
	}
	return p.ID, nil
}

// Get retrieves a note by id. A missing note yields (nil, nil).
func (s *Store) Get(ctx context.Context, id int64) (*Note, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, body, created_at, updated_at, import_hash
		FROM notes WHERE id = ?
	`, id)
	note, err := scanNote(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("query note", err)
	}
	return note, nil
}

// Count returns the total number of notes.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notes`).Scan(&n); err != nil {
		return 0, storageErr("count notes", err)
	}
	return n, nil
}

// All returns every note, most recently updated first.
func (s *Store) All(ctx context.Context) ([]Note, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, body, created_at, updated_at, import_hash
		FROM notes ORDER BY updated_at DESC, id DESC
	`)
	if err != nil {
		return nil, storageErr("query notes", err)
	}
	defer rows.Close()

	var out []Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, storageErr("scan note", err)
		}
		out = append(out, *note)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("query notes", err)
	}
	return out, nil
}

// Search returns up to limit notes, most recently updated first. A blank
// query matches everything; otherwise the query must occur, ignoring case, in
// the title or the body. There is no relevance ranking.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]Match, error) {
	if limit <= 0 {
		return nil, nil
	}
	if strings.TrimSpace(query) == "" {
		return s.queryMatches(ctx, `
			SELECT id, title || char(10) || body FROM notes
			ORDER BY updated_at DESC, id DESC LIMIT ?
		`, limit)
	}

	needle := strings.ToLower(query)
	if isASCII(needle) {
		pattern := "%" + escapeLike(needle) + "%"
		return s.queryMatches(ctx, `
			SELECT id, title || char(10) || body FROM notes
			WHERE lower(title) LIKE ? ESCAPE '\' OR lower(body) LIKE ? ESCAPE '\'
			ORDER BY updated_at DESC, id DESC LIMIT ?
		`, pattern, pattern, limit)
	}

	// SQLite's lower() only folds ASCII, so non-ASCII needles are matched here.
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, body FROM notes ORDER BY updated_at DESC, id DESC
	`)
	if err != nil {
		return nil, storageErr("search notes", err)
	}
	defer rows.Close()

	var out []Match
	for rows.Next() && len(out) < limit {
		var id int64
		var title, body string
		if err := rows.Scan(&id, &title, &body); err != nil {
			return nil, storageErr("scan match", err)
		}
		if strings.Contains(strings.ToLower(title), needle) || strings.Contains(strings.ToLower(body), needle) {
			out = append(out, Match{ID: id, Snippet: title + "\n" + body})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("search notes", err)
	}
	return out, nil
}

func (s *Store) queryMatches(ctx context.Context, query string, args ...any) ([]Match, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr("search notes", err)
	}
	defer rows.Close()

	var out []Match
	for rows.Next() {
		var m Match
		if err := rows.Scan(&m.ID, &m.Snippet); err != nil {
			return nil, storageErr("scan match", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("search notes", err)
	}
	return out, nil
}

// Seed inserts n demo notes.
func (s *Store) Seed(ctx context.Context, n int) error {
	for i := 0; i < n; i++ {
		_, err := s.Upsert(ctx, UpsertParams{
			Title: fmt.Sprintf("Dummy note %d", i+1),
			Body: "Created for testing Notry.\n" +
				"This note contains keywords like alpha beta gamma delta.\n\n" +
				"Use :help for commands.",
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(r rowScanner) (*Note, error) {
	var note Note
	var createdAt, updatedAt string
	var hash sql.NullString
	if err := r.Scan(&note.ID, &note.Title, &note.Body, &createdAt, &updatedAt, &hash); err != nil {
		return nil, err
	}
	note.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	note.UpdatedAt, _ = time.Parse(timeLayout, updatedAt)
	if hash.Valid {
		h := hash.String
		note.ImportHash = &h
	}
	return &note, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// escapeLike escapes LIKE wildcards so the query matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
