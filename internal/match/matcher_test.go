package match

import (
	"strings"
	"testing"
)

// fakeLookup serves authors and abstracts from maps.
type fakeLookup struct {
	authors   map[string]string
	abstracts map[string]string
}

func (f fakeLookup) FirstAuthor(id string) (string, error) {
	return f.authors[id], nil
}

func (f fakeLookup) Abstract(id string) (string, error) {
	return f.abstracts[id], nil
}

func TestRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "abcdef", "abcdef", 1.0},
		{"disjoint", "aaaa", "bbbb", 0.0},
		// 2*7 matches / 20 total = 0.70 exactly
		{"seventy percent", "aaaaaaaaaa", "aaaaaaabbb", 0.70},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Ratio(tt.a, tt.b); got != tt.want {
				t.Errorf("Ratio(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestFind_TitleGateBoundary(t *testing.T) {
	// 2*70/200 = 0.70 passes the inclusive gate; 2*69/200 = 0.69 fails
	newTitle := strings.Repeat("a", 100)
	pass := strings.Repeat("a", 70) + strings.Repeat("b", 30)
	fail := strings.Repeat("a", 69) + strings.Repeat("b", 31)

	lk := fakeLookup{authors: map[string]string{"e1": "same author"}}

	if _, ok, err := Find(newTitle, "same author", "", []Title{{Title: pass, ID: "e1"}}, lk); err != nil || !ok {
		t.Errorf("ratio 0.70 should be accepted (ok=%v, err=%v)", ok, err)
	}
	if _, ok, err := Find(newTitle, "same author", "", []Title{{Title: fail, ID: "e1"}}, lk); err != nil || ok {
		t.Errorf("ratio 0.69 should be rejected (ok=%v, err=%v)", ok, err)
	}
}

func TestFind_NoTitles(t *testing.T) {
	lk := fakeLookup{}
	if _, ok, err := Find("anything", "a", "b", nil, lk); err != nil || ok {
		t.Errorf("empty collection should never match (ok=%v, err=%v)", ok, err)
	}
}

func TestFind_AuthorGate(t *testing.T) {
	// Identical titles, dissimilar first authors: rejected outright,
	// no second-best fallback
	titles := []Title{{Title: "Dust in the Wind", ID: "e1"}}
	lk := fakeLookup{authors: map[string]string{"e1": "aaaaaaaa"}}

	if _, ok, err := Find("Dust in the Wind", "bbbbbbbb", "", titles, lk); err != nil || ok {
		t.Errorf("dissimilar first author should reject the match (ok=%v, err=%v)", ok, err)
	}
}

func TestFind_AbstractGate(t *testing.T) {
	titles := []Title{{Title: "Galactic Winds", ID: "e1"}}

	t.Run("vacuous when stored abstract empty", func(t *testing.T) {
		lk := fakeLookup{
			authors:   map[string]string{"e1": "Veilleux, S."},
			abstracts: map[string]string{"e1": ""},
		}
		id, ok, err := Find("Galactic Winds", "Veilleux, S.", "completely unrelated text", titles, lk)
		if err != nil || !ok || id != "e1" {
			t.Errorf("empty stored abstract should not block the match (id=%q, ok=%v, err=%v)", id, ok, err)
		}
	})

	t.Run("dissimilar stored abstract rejects", func(t *testing.T) {
		lk := fakeLookup{
			authors:   map[string]string{"e1": "Veilleux, S."},
			abstracts: map[string]string{"e1": strings.Repeat("x", 50)},
		}
		_, ok, err := Find("Galactic Winds", "Veilleux, S.", strings.Repeat("y", 50), titles, lk)
		if err != nil || ok {
			t.Errorf("dissimilar abstract should reject the match (ok=%v, err=%v)", ok, err)
		}
	})
}

func TestFind_BestTitleOnly(t *testing.T) {
	// The second-best title would pass every gate, but only the single
	// best candidate is ever considered
	titles := []Title{
		{Title: "An Exact Match Title", ID: "best"},
		{Title: "An Exact Match Titl", ID: "second"},
	}
	lk := fakeLookup{
		authors: map[string]string{
			"best":   "nothing alike",
			"second": "Smith, J.",
		},
	}

	_, ok, err := Find("An Exact Match Title", "Smith, J.", "", titles, lk)
	if err != nil || ok {
		t.Errorf("failed author gate must reject outright, not fall back (ok=%v, err=%v)", ok, err)
	}
}

func TestFind_Match(t *testing.T) {
	titles := []Title{
		{Title: "A Completely Different Paper", ID: "other"},
		{Title: "COLDz: A High Space Density of Starbursts", ID: "target"},
	}
	lk := fakeLookup{
		authors:   map[string]string{"target": "Riechers, Dominik A."},
		abstracts: map[string]string{"target": "We report a high space density of starbursts."},
	}

	id, ok, err := Find(
		"COLDz: A High Space Density of Starburst",
		"Riechers, Dominik",
		"We report a high space density of starbursts!",
		titles, lk)
	if err != nil {
		t.Fatalf("Find() error: %v", err)
	}
	if !ok || id != "target" {
		t.Errorf("Find() = (%q, %v), want (target, true)", id, ok)
	}
}
