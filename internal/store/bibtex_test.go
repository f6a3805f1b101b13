package store

import "testing"

const sampleBibtex = `@ARTICLE{2019arXiv190404507R,
       author = {{Riechers}, Dominik A. and {Pavesi}, Riccardo},
        title = "{COLDz: A High Space Density of Massive Dusty Starburst Galaxies}",
      journal = {arXiv e-prints},
         year = 2019,
        month = apr,
       eprint = {1904.04507},
       adsurl = {https://ui.adsabs.harvard.edu/abs/2019arXiv190404507R},
      adsnote = {Provided by the SAO/NASA Astrophysics Data System}
}
`

func TestParseBibtex(t *testing.T) {
	key, fields, err := parseBibtex(sampleBibtex)
	if err != nil {
		t.Fatalf("parseBibtex() error: %v", err)
	}

	if key != "2019arXiv190404507R" {
		t.Errorf("key = %q, want %q", key, "2019arXiv190404507R")
	}

	want := map[string]string{
		"author":  "{Riechers}, Dominik A. and {Pavesi}, Riccardo",
		"title":   "COLDz: A High Space Density of Massive Dusty Starburst Galaxies",
		"journal": "arXiv e-prints",
		"year":    "2019",
		"month":   "apr",
		"eprint":  "1904.04507",
		"adsurl":  "https://ui.adsabs.harvard.edu/abs/2019arXiv190404507R",
	}
	for name, wantValue := range want {
		if got := fields[name]; got != wantValue {
			t.Errorf("fields[%q] = %q, want %q", name, got, wantValue)
		}
	}
}

func TestParseBibtex_NoEntry(t *testing.T) {
	if _, _, err := parseBibtex("not bibtex at all"); err == nil {
		t.Error("parseBibtex() expected error for non-bibtex input")
	}
}

func TestParseBibtex_MultilineValue(t *testing.T) {
	raw := "@ARTICLE{k1,\n  author = {{One}, A. and\n    {Two}, B.},\n  year = 2020,\n}"
	_, fields, err := parseBibtex(raw)
	if err != nil {
		t.Fatalf("parseBibtex() error: %v", err)
	}
	if got := fields["author"]; got != "{One}, A. and {Two}, B." {
		t.Errorf("author = %q, want collapsed whitespace", got)
	}
}

func TestNormalizeValue(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"quoted braces", `"{Title Here}"`, "Title Here"},
		{"single braces", "{value}", "value"},
		{"non-spanning braces", "{A} and {B}", "{A} and {B}"},
		{"bare", "2019", "2019"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeValue(tt.in); got != tt.want {
				t.Errorf("normalizeValue(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestGenerateCiteKey(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]string
		want   string
	}{
		{
			"author and year",
			map[string]string{"author": "{Riechers}, Dominik A. and {Pavesi}, R.", "year": "2019"},
			"Riechers2019",
		},
		{
			"single author",
			map[string]string{"author": "{Schlegel}, David", "year": "1998"},
			"Schlegel1998",
		},
		{
			"no author falls back to bibtex key",
			map[string]string{"year": "2019"},
			"fallbackKey",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := generateCiteKey("fallbackKey", tt.fields); got != tt.want {
				t.Errorf("generateCiteKey() = %q, want %q", got, tt.want)
			}
		})
	}
}
