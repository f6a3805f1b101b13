// Package match implements duplicate detection over a snapshot of the
// reference collection. It is a pure function of its inputs so it can be
// tested with synthetic data, decoupled from any live store.
package match

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Similarity thresholds for the cascading gates. The title gate is
// inclusive; the author and abstract gates are strict.
const (
	TitleThreshold    = 0.70
	AuthorThreshold   = 0.60
	AbstractThreshold = 0.60
)

// Title pairs an existing entry's title with its store id.
type Title struct {
	Title string
	ID    string
}

// Lookup resolves per-entry data needed by the later gates. Only the
// single best title candidate is ever looked up.
type Lookup interface {
	FirstAuthor(id string) (string, error)
	Abstract(id string) (string, error)
}

// Ratio computes the sequence-similarity ratio of two strings
// (Ratcliff/Obershelp, 2*matches/total, same family as Python difflib).
func Ratio(a, b string) float64 {
	m := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return m.Ratio()
}

// Find returns the id of the single existing entry that is "the same
// article" as the given record, or ok=false when there is none.
//
// Three gates, all short-circuit: best title ratio >= 0.70, first-author
// ratio > 0.60, abstract ratio > 0.60 (vacuous when the stored abstract
// is empty). Only the best title match is considered; a candidate that
// fails a later gate is rejected outright rather than falling back to
// the second-best title. False negatives are preferred over destructive
// merges of unrelated articles.
func Find(title, firstAuthor, abstract string, titles []Title, lk Lookup) (id string, ok bool, err error) {
	best := -1
	bestRatio := 0.0
	for i, t := range titles {
		if r := Ratio(title, t.Title); r > bestRatio {
			best, bestRatio = i, r
		}
	}
	if best < 0 || bestRatio < TitleThreshold {
		return "", false, nil
	}
	candidate := titles[best]

	author, err := lk.FirstAuthor(candidate.ID)
	if err != nil {
		return "", false, fmt.Errorf("looking up authors of %s: %w", candidate.ID, err)
	}
	if Ratio(author, firstAuthor) <= AuthorThreshold {
		return "", false, nil
	}

	stored, err := lk.Abstract(candidate.ID)
	if err != nil {
		return "", false, fmt.Errorf("looking up abstract of %s: %w", candidate.ID, err)
	}
	// An empty stored abstract is non-contradicting evidence
	if stored != "" && Ratio(stored, abstract) <= AbstractThreshold {
		return "", false, nil
	}

	return candidate.ID, true, nil
}
