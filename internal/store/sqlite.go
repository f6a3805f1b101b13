package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNoEntry is returned when an operation addresses a missing entry.
var ErrNoEntry = errors.New("no such entry")

// schema is applied on open. One row per entry; fields, groups and links
// hang off it.
const schema = `
CREATE TABLE IF NOT EXISTS entries (
  id TEXT PRIMARY KEY,
  citekey TEXT NOT NULL DEFAULT '',
  title TEXT NOT NULL DEFAULT '',
  note TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL DEFAULT (datetime('now'))
);
CREATE TABLE IF NOT EXISTS fields (
  entry_id TEXT NOT NULL REFERENCES entries(id) ON DELETE CASCADE,
  name TEXT NOT NULL,
  value TEXT NOT NULL,
  PRIMARY KEY (entry_id, name)
);
CREATE TABLE IF NOT EXISTS groups (
  name TEXT PRIMARY KEY
);
CREATE TABLE IF NOT EXISTS entry_groups (
  entry_id TEXT NOT NULL REFERENCES entries(id) ON DELETE CASCADE,
  group_name TEXT NOT NULL REFERENCES groups(name),
  PRIMARY KEY (entry_id, group_name)
);
CREATE TABLE IF NOT EXISTS linked_files (
  entry_id TEXT NOT NULL REFERENCES entries(id) ON DELETE CASCADE,
  position INTEGER NOT NULL,
  path TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS linked_urls (
  entry_id TEXT NOT NULL REFERENCES entries(id) ON DELETE CASCADE,
  position INTEGER NOT NULL,
  url TEXT NOT NULL
);
`

// SQLiteStore implements Store on a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens (creating if needed) a reference store at the given path.
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Titles lists (title, id) for every entry, oldest first.
func (s *SQLiteStore) Titles() ([]TitleID, error) {
	rows, err := s.db.Query("SELECT title, id FROM entries ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("listing titles: %w", err)
	}
	defer rows.Close()

	var out []TitleID
	for rows.Next() {
		var t TitleID
		if err := rows.Scan(&t.Title, &t.ID); err != nil {
			return nil, fmt.Errorf("scanning title: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Fields returns the field mapping of an entry.
func (s *SQLiteStore) Fields(id string) (map[string]string, error) {
	if err := s.exists(id); err != nil {
		return nil, err
	}
	rows, err := s.db.Query("SELECT name, value FROM fields WHERE entry_id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("listing fields: %w", err)
	}
	defer rows.Close()

	fields := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("scanning field: %w", err)
		}
		fields[name] = value
	}
	return fields, rows.Err()
}

// Note returns the free-text annotation of an entry.
func (s *SQLiteStore) Note(id string) (string, error) {
	var note string
	err := s.db.QueryRow("SELECT note FROM entries WHERE id = ?", id).Scan(&note)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", ErrNoEntry, id)
	}
	if err != nil {
		return "", fmt.Errorf("reading note: %w", err)
	}
	return note, nil
}

// Groups returns the static group names an entry belongs to.
func (s *SQLiteStore) Groups(id string) ([]string, error) {
	if err := s.exists(id); err != nil {
		return nil, err
	}
	rows, err := s.db.Query(
		"SELECT group_name FROM entry_groups WHERE entry_id = ? ORDER BY group_name", id)
	if err != nil {
		return nil, fmt.Errorf("listing groups: %w", err)
	}
	defer rows.Close()

	var groups []string
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, fmt.Errorf("scanning group: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// LinkedFiles returns the linked file paths of an entry, in list order.
func (s *SQLiteStore) LinkedFiles(id string) ([]string, error) {
	return s.linked(id, "linked_files", "path")
}

// LinkedURLs returns the linked URLs of an entry, in list order.
func (s *SQLiteStore) LinkedURLs(id string) ([]string, error) {
	return s.linked(id, "linked_urls", "url")
}

func (s *SQLiteStore) linked(id, table, col string) ([]string, error) {
	if err := s.exists(id); err != nil {
		return nil, err
	}
	rows, err := s.db.Query(fmt.Sprintf(
		"SELECT %s FROM %s WHERE entry_id = ? ORDER BY position", col, table), id)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", table, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", table, err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// ImportBibtex creates a new entry from escaped BibTeX text.
func (s *SQLiteStore) ImportBibtex(escaped string) (string, error) {
	raw := Unescape(escaped)
	bibKey, fields, err := parseBibtex(raw)
	if err != nil {
		return "", fmt.Errorf("importing bibtex: %w", err)
	}

	id := uuid.NewString()
	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("importing bibtex: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		"INSERT INTO entries (id, citekey, title) VALUES (?, ?, ?)",
		id, bibKey, fields["title"]); err != nil {
		return "", fmt.Errorf("inserting entry: %w", err)
	}
	names := sortedNames(fields)
	for _, name := range names {
		if _, err := tx.Exec(
			"INSERT INTO fields (entry_id, name, value) VALUES (?, ?, ?)",
			id, name, fields[name]); err != nil {
			return "", fmt.Errorf("inserting field %s: %w", name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("importing bibtex: %w", err)
	}
	return id, nil
}

// AssignCiteKey generates a citation key from the entry's author and
// year fields, deduplicates it with a letter suffix, and assigns it.
func (s *SQLiteStore) AssignCiteKey(id string) (string, error) {
	var bibKey string
	err := s.db.QueryRow("SELECT citekey FROM entries WHERE id = ?", id).Scan(&bibKey)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", ErrNoEntry, id)
	}
	if err != nil {
		return "", fmt.Errorf("assigning cite key: %w", err)
	}

	fields, err := s.Fields(id)
	if err != nil {
		return "", err
	}
	key := generateCiteKey(bibKey, fields)

	// Letter-suffix until unique among other entries
	candidate := key
	for suffix := 'a'; ; suffix++ {
		var n int
		err := s.db.QueryRow(
			"SELECT COUNT(*) FROM entries WHERE citekey = ? AND id != ?",
			candidate, id).Scan(&n)
		if err != nil {
			return "", fmt.Errorf("assigning cite key: %w", err)
		}
		if n == 0 {
			break
		}
		candidate = key + string(suffix)
	}

	if _, err := s.db.Exec("UPDATE entries SET citekey = ? WHERE id = ?", candidate, id); err != nil {
		return "", fmt.Errorf("assigning cite key: %w", err)
	}
	return candidate, nil
}

// SetField sets one field value, replacing any existing value.
func (s *SQLiteStore) SetField(id, name, value string) error {
	if err := s.exists(id); err != nil {
		return err
	}
	name = strings.ToLower(name)
	_, err := s.db.Exec(`
		INSERT INTO fields (entry_id, name, value) VALUES (?, ?, ?)
		ON CONFLICT (entry_id, name) DO UPDATE SET value = excluded.value`,
		id, name, Unescape(value))
	if err != nil {
		return fmt.Errorf("setting field %s: %w", name, err)
	}
	// Keep the entry title in sync for duplicate matching
	if name == "title" {
		if _, err := s.db.Exec("UPDATE entries SET title = ? WHERE id = ?", Unescape(value), id); err != nil {
			return fmt.Errorf("updating title: %w", err)
		}
	}
	return nil
}

// SetNote replaces the free-text annotation.
func (s *SQLiteStore) SetNote(id, text string) error {
	res, err := s.db.Exec("UPDATE entries SET note = ? WHERE id = ?", text, id)
	if err != nil {
		return fmt.Errorf("setting note: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNoEntry, id)
	}
	return nil
}

// AddLinkedFile links a file at the front or back of the linked-file
// list. Already-linked paths are left alone.
func (s *SQLiteStore) AddLinkedFile(id, path string, front bool) error {
	return s.addLinked(id, "linked_files", "path", path, front)
}

// AddLinkedURL appends a URL unless it is already linked.
func (s *SQLiteStore) AddLinkedURL(id, url string) error {
	return s.addLinked(id, "linked_urls", "url", url, false)
}

func (s *SQLiteStore) addLinked(id, table, col, value string, front bool) error {
	if err := s.exists(id); err != nil {
		return err
	}
	var n int
	err := s.db.QueryRow(fmt.Sprintf(
		"SELECT COUNT(*) FROM %s WHERE entry_id = ? AND %s = ?", table, col),
		id, value).Scan(&n)
	if err != nil {
		return fmt.Errorf("checking %s: %w", table, err)
	}
	if n > 0 {
		return nil
	}

	agg, offset := "MAX", 1
	if front {
		agg, offset = "MIN", -1
	}
	_, err = s.db.Exec(fmt.Sprintf(
		"INSERT INTO %s (entry_id, position, %s) VALUES (?, COALESCE((SELECT %s(position) FROM %s WHERE entry_id = ?), 0) + ?, ?)",
		table, col, agg, table),
		id, id, offset, value)
	if err != nil {
		return fmt.Errorf("linking into %s: %w", table, err)
	}
	return nil
}

// AddToGroups adds the entry to each named group, creating missing
// groups, and returns the resulting membership.
func (s *SQLiteStore) AddToGroups(id string, groups []string) ([]string, error) {
	if err := s.exists(id); err != nil {
		return nil, err
	}
	for _, g := range groups {
		if _, err := s.db.Exec(
			"INSERT INTO groups (name) VALUES (?) ON CONFLICT DO NOTHING", g); err != nil {
			return nil, fmt.Errorf("creating group %s: %w", g, err)
		}
		if _, err := s.db.Exec(
			"INSERT INTO entry_groups (entry_id, group_name) VALUES (?, ?) ON CONFLICT DO NOTHING",
			id, g); err != nil {
			return nil, fmt.Errorf("adding to group %s: %w", g, err)
		}
	}
	return s.Groups(id)
}

func (s *SQLiteStore) exists(id string) error {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM entries WHERE id = ?", id).Scan(&n); err != nil {
		return fmt.Errorf("checking entry: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNoEntry, id)
	}
	return nil
}

func sortedNames(m map[string]string) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
