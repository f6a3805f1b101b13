// Package pipeline reconciles a freshly fetched ADS record with the
// reference store: fetch, match, preserve, replace, restore, report.
package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/matsen/ads2bib/internal/ads"
	"github.com/matsen/ads2bib/internal/fetch"
	"github.com/matsen/ads2bib/internal/gateway"
	"github.com/matsen/ads2bib/internal/match"
	"github.com/matsen/ads2bib/internal/store"
)

// adsCommentField is provider-only annotation bookkeeping and is never
// carried across a merge.
const adsCommentField = "adscomment"

// Metadata is the metadata-provider surface the pipeline needs.
type Metadata interface {
	FetchArticle(ctx context.Context, identifier string) (*ads.Article, error)
	ExportBibtex(ctx context.Context, bibcode string) (string, error)
}

// PDFFetcher retrieves a full-text PDF with source fallback.
type PDFFetcher interface {
	Fetch(ctx context.Context, identifier string, order []gateway.Source) (fetch.Result, error)
}

// Notifier is the fire-and-forget notification side channel.
type Notifier interface {
	Notify(title, subtitle, body string)
}

// Result reports a completed reconciliation.
type Result struct {
	CiteKey     string
	Title       string
	Merged      bool
	PDFAttached bool
}

// preserved carries an existing entry's user-curated state across the
// delete/import cycle.
type preserved struct {
	Fields map[string]string
	Note   string
	Groups []string
	PDFs   []string
}

// Pipeline wires the collaborators for one reconciliation run. Runs
// against one store handle must be serialized by the caller; the store
// has no transactions and interleaved command streams would corrupt it.
type Pipeline struct {
	Metadata Metadata
	PDF      PDFFetcher // nil disables PDF download
	Store    store.Store
	Notifier Notifier // nil disables notifications
	Log      zerolog.Logger
}

// Run reconciles one article identifier, single-shot and fully
// sequential. Lookup failures abort before any store mutation; failures
// after the duplicate has been deleted are not rolled back (the old
// entry's annotated PDFs survive on disk regardless).
//
// Run always creates a new store entry. An identifier already present
// but missed by the similarity gates therefore yields a second entry;
// this is inherent to the thresholds, not a merge defect.
func (p *Pipeline) Run(ctx context.Context, identifier string) (*Result, error) {
	// Fetching
	p.Log.Debug().Str("stage", "fetching").Str("identifier", identifier).Msg("querying ADS")
	art, err := p.Metadata.FetchArticle(ctx, identifier)
	if err != nil {
		if ads.IsNotFound(err) || ads.IsAmbiguous(err) {
			p.notify("Found zero or multiple ADS entries for", identifier, "No update in reference store")
			p.Log.Info().Str("identifier", identifier).Msg("no unique ADS match, no update")
		}
		return nil, err
	}

	bibtex, err := p.Metadata.ExportBibtex(ctx, art.Bibcode)
	if err != nil {
		return nil, fmt.Errorf("exporting bibtex for %s: %w", art.Bibcode, err)
	}

	var pdfRes fetch.Result
	if p.PDF != nil {
		pdfRes, err = p.PDF.Fetch(ctx, identifier, gateway.DefaultOrder(identifier))
		if err != nil {
			return nil, err
		}
		p.Log.Debug().Str("stage", "fetching").
			Str("source", string(pdfRes.Source)).Bool("validated", pdfRes.Validated).
			Msg("pdf fetch finished")
	}

	// Matching
	p.Log.Debug().Str("stage", "matching").Msg("scanning existing titles")
	titles, err := p.Store.Titles()
	if err != nil {
		return nil, fmt.Errorf("listing store titles: %w", err)
	}
	matchedID, matched, err := match.Find(
		art.Title, art.FirstAuthor, art.Abstract, snapshotTitles(titles), storeLookup{p.Store})
	if err != nil {
		return nil, err
	}

	// Preserving
	var kept preserved
	if matched {
		kept, err = p.preserve(matchedID)
		if err != nil {
			return nil, err
		}
		p.notify("Duplicate publication removed", identifier, art.Title)
		p.Log.Info().Str("identifier", identifier).Str("title", art.Title).
			Msg("duplicate publication removed")
	}

	// Replacing
	p.Log.Debug().Str("stage", "replacing").Msg("importing new entry")
	id, err := p.Store.ImportBibtex(store.Escape(bibtex))
	if err != nil {
		return nil, fmt.Errorf("importing entry: %w", err)
	}
	citekey, err := p.Store.AssignCiteKey(id)
	if err != nil {
		return nil, fmt.Errorf("assigning cite key: %w", err)
	}
	if err := p.Store.SetField(id, "abstract", store.CleanAbstract(art.Abstract)); err != nil {
		return nil, fmt.Errorf("setting abstract: %w", err)
	}

	fields, err := p.Store.Fields(id)
	if err != nil {
		return nil, fmt.Errorf("reading imported fields: %w", err)
	}

	attached, err := p.attachDocument(id, art, pdfRes, fields["doi"])
	if err != nil {
		return nil, err
	}
	if err := p.linkURLs(id, identifier, fields); err != nil {
		return nil, err
	}
	for _, pdf := range kept.PDFs {
		if err := p.Store.AddLinkedFile(id, pdf, false); err != nil {
			return nil, fmt.Errorf("relinking preserved pdf: %w", err)
		}
	}

	// Restoring
	if matched {
		if err := p.restore(id, kept); err != nil {
			return nil, err
		}
	}

	// Done
	p.notify("New publication added", citekey, art.Title)
	p.Log.Info().Str("citekey", citekey).Str("title", art.Title).
		Msg("new publication added")

	return &Result{
		CiteKey:     citekey,
		Title:       art.Title,
		Merged:      matched,
		PDFAttached: attached,
	}, nil
}

// preserve captures an existing entry's state and safely deletes it.
// Every field except the provider-only annotation survives, plus the
// note, the group set, and any annotated PDFs the deletion set aside.
func (p *Pipeline) preserve(id string) (preserved, error) {
	var kept preserved

	fields, err := p.Store.Fields(id)
	if err != nil {
		return kept, fmt.Errorf("capturing fields: %w", err)
	}
	kept.Fields = make(map[string]string, len(fields))
	for name, value := range fields {
		if strings.EqualFold(name, adsCommentField) {
			continue
		}
		kept.Fields[name] = value
	}

	if kept.Note, err = p.Store.Note(id); err != nil {
		return kept, fmt.Errorf("capturing note: %w", err)
	}
	if kept.Groups, err = p.Store.Groups(id); err != nil {
		return kept, fmt.Errorf("capturing groups: %w", err)
	}
	if kept.PDFs, err = p.Store.SafeDelete(id); err != nil {
		return kept, fmt.Errorf("deleting duplicate: %w", err)
	}
	return kept, nil
}

// attachDocument links the fetched PDF when it validated; otherwise it
// falls back to the ADS landing page, but only when the entry has no DOI
// (a DOI link already covers the electronic version).
func (p *Pipeline) attachDocument(id string, art *ads.Article, pdfRes fetch.Result, doi string) (bool, error) {
	if pdfRes.Validated {
		if err := p.Store.AddLinkedFile(id, pdfRes.Path, true); err != nil {
			return false, fmt.Errorf("linking pdf: %w", err)
		}
		return true, nil
	}
	if doi == "" {
		if err := p.Store.AddLinkedURL(id, gateway.AbstractURL(art.Bibcode)); err != nil {
			return false, fmt.Errorf("linking landing page: %w", err)
		}
	}
	return false, nil
}

// linkURLs collects every URL-like field on the new entry, plus the
// eprint landing page for preprint identifiers, and links the ones not
// already present. AddLinkedURL is presence-checked, so the union keeps
// insertion order without duplicates.
func (p *Pipeline) linkURLs(id, identifier string, fields map[string]string) error {
	var urls []string
	for _, name := range sortedNames(fields) {
		if strings.HasSuffix(strings.ToLower(name), "url") {
			urls = append(urls, fields[name])
		}
	}
	if gateway.IsPreprint(identifier) {
		urls = append(urls, gateway.HTMLURL(gateway.DefaultBaseURL, identifier, gateway.SourceEprint))
	}

	for _, u := range urls {
		if err := p.Store.AddLinkedURL(id, u); err != nil {
			return fmt.Errorf("linking url %s: %w", u, err)
		}
	}
	return nil
}

// restore re-applies preserved state to the new entry. The note is
// restored verbatim; fields only where the new entry has no value of its
// own (freshly imported data always wins); groups by set union.
func (p *Pipeline) restore(id string, kept preserved) error {
	if err := p.Store.SetNote(id, kept.Note); err != nil {
		return fmt.Errorf("restoring note: %w", err)
	}

	newFields, err := p.Store.Fields(id)
	if err != nil {
		return fmt.Errorf("reading fields before restore: %w", err)
	}
	for _, name := range sortedNames(kept.Fields) {
		if _, present := newFields[name]; present {
			continue
		}
		// Fields() hands back raw text; SetField expects it escaped
		if err := p.Store.SetField(id, name, store.Escape(kept.Fields[name])); err != nil {
			return fmt.Errorf("restoring field %s: %w", name, err)
		}
	}

	if len(kept.Groups) > 0 {
		if _, err := p.Store.AddToGroups(id, kept.Groups); err != nil {
			return fmt.Errorf("restoring groups: %w", err)
		}
	}
	return nil
}

func (p *Pipeline) notify(title, subtitle, body string) {
	if p.Notifier != nil {
		p.Notifier.Notify(title, subtitle, body)
	}
}

// storeLookup adapts the store to the matcher's read-only lookup.
type storeLookup struct {
	s store.Store
}

func (l storeLookup) FirstAuthor(id string) (string, error) {
	fields, err := l.s.Fields(id)
	if err != nil {
		return "", err
	}
	authors := fields["author"]
	if i := strings.Index(authors, " and "); i >= 0 {
		authors = authors[:i]
	}
	return strings.TrimSpace(authors), nil
}

func (l storeLookup) Abstract(id string) (string, error) {
	fields, err := l.s.Fields(id)
	if err != nil {
		return "", err
	}
	return fields["abstract"], nil
}

func snapshotTitles(titles []store.TitleID) []match.Title {
	out := make([]match.Title, len(titles))
	for i, t := range titles {
		out[i] = match.Title{Title: t.Title, ID: t.ID}
	}
	return out
}

func sortedNames(m map[string]string) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
