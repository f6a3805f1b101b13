// Package store defines the reference-store contract and a SQLite-backed
// adapter. The pipeline depends only on this operation set; any transport
// that can honor it (local database, automation bridge, RPC) is a valid
// store.
//
// Entries are never edited in place by callers: the contract offers
// create, delete and set-field, and a merge is delete-then-reimport.
package store

// TitleID pairs an entry title with its store-local id.
type TitleID struct {
	Title string
	ID    string
}

// Store is the operation set the reconciliation pipeline requires.
//
// Raw text passed to ImportBibtex must already be escaped with Escape;
// the store unescapes on ingest. All add operations are presence-checked,
// so repeating them converges instead of accumulating duplicates.
type Store interface {
	// Titles lists (title, id) for every entry, in stable order.
	Titles() ([]TitleID, error)

	// Fields returns the field mapping of an entry (names unique).
	Fields(id string) (map[string]string, error)

	// Note returns the free-text annotation of an entry.
	Note(id string) (string, error)

	// Groups returns the static group names an entry belongs to.
	Groups(id string) ([]string, error)

	// LinkedFiles returns the linked file paths of an entry, in order.
	LinkedFiles(id string) ([]string, error)

	// LinkedURLs returns the linked URLs of an entry, in order.
	LinkedURLs(id string) ([]string, error)

	// SafeDelete deletes an entry. Linked PDFs carrying reader
	// annotations (or already renamed aside) are preserved on disk and
	// their paths returned; unannotated PDFs are removed.
	SafeDelete(id string) ([]string, error)

	// ImportBibtex creates a new entry from escaped BibTeX text and
	// returns its id.
	ImportBibtex(escaped string) (string, error)

	// AssignCiteKey generates and assigns a citation key for an entry,
	// returning the key.
	AssignCiteKey(id string) (string, error)

	// SetField sets one field value (value pre-escaped by the caller).
	SetField(id, name, value string) error

	// SetNote replaces the free-text annotation.
	SetNote(id, text string) error

	// AddLinkedFile links a file at the front or back of the list.
	// Adding an already-linked path is a no-op.
	AddLinkedFile(id, path string, front bool) error

	// AddLinkedURL appends a URL unless it is already linked.
	AddLinkedURL(id, url string) error

	// AddToGroups adds the entry to each named group, creating groups
	// as needed, and returns the resulting membership.
	AddToGroups(id string, groups []string) ([]string, error)

	// Close releases the store handle.
	Close() error
}
