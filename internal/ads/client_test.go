package ads

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// searchHandler serves a canned /search/query response with the given docs.
func searchHandler(t *testing.T, docs []searchDoc) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/query" {
			t.Errorf("unexpected path %q", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}
		var sr searchResponse
		sr.Response.NumFound = len(docs)
		sr.Response.Docs = docs
		json.NewEncoder(w).Encode(sr)
	}
}

func TestFetchArticle(t *testing.T) {
	doc := searchDoc{
		Bibcode:     "2019arXiv190404507R",
		Title:       []string{"COLDz: A High Space Density of Massive Dusty Starburst Galaxies"},
		Author:      []string{"Riechers, Dominik A.", "Hodge, Jacqueline A."},
		FirstAuthor: "Riechers, Dominik A.",
		Abstract:    "We report the detection of CO(2-1) line emission.",
		Year:        "2019",
	}

	srv := httptest.NewServer(searchHandler(t, []searchDoc{doc}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithToken("test-token"))
	a, err := c.FetchArticle(context.Background(), "arXiv:1904.04507")
	if err != nil {
		t.Fatalf("FetchArticle() error = %v", err)
	}

	if a.Identifier != "arXiv:1904.04507" {
		t.Errorf("Identifier = %q", a.Identifier)
	}
	if a.Bibcode != doc.Bibcode {
		t.Errorf("Bibcode = %q, want %q", a.Bibcode, doc.Bibcode)
	}
	if a.Title != doc.Title[0] {
		t.Errorf("Title = %q", a.Title)
	}
	if a.FirstAuthor != doc.FirstAuthor {
		t.Errorf("FirstAuthor = %q", a.FirstAuthor)
	}
	if a.Year != 2019 {
		t.Errorf("Year = %d, want 2019", a.Year)
	}
}

func TestFetchArticle_NoMatch(t *testing.T) {
	srv := httptest.NewServer(searchHandler(t, nil))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithToken("test-token"))
	_, err := c.FetchArticle(context.Background(), "2025zzzz.9999..999X")
	if !IsNotFound(err) {
		t.Errorf("FetchArticle() error = %v, want not-found", err)
	}
}

func TestFetchArticle_Ambiguous(t *testing.T) {
	docs := []searchDoc{
		{Bibcode: "1998ApJ...500..525S"},
		{Bibcode: "1998ApJ...500..525T"},
	}
	srv := httptest.NewServer(searchHandler(t, docs))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithToken("test-token"))
	_, err := c.FetchArticle(context.Background(), "1998ApJ...500..525")
	if !IsAmbiguous(err) {
		t.Errorf("FetchArticle() error = %v, want ambiguous", err)
	}
}

func TestFetchArticle_AuthError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithToken("bad-token"))
	_, err := c.FetchArticle(context.Background(), "1998ApJ...500..525S")
	if !IsAuthError(err) {
		t.Errorf("FetchArticle() error = %v, want auth error", err)
	}
}

func TestExportBibtex(t *testing.T) {
	const export = "@ARTICLE{2019arXiv190404507R,\n  title = \"{COLDz}\",\n}\n\n"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/export/bibtex" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req exportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding export request: %v", err)
		}
		if len(req.Bibcode) != 1 || req.Bibcode[0] != "2019arXiv190404507R" {
			t.Errorf("Bibcode = %v", req.Bibcode)
		}
		json.NewEncoder(w).Encode(exportResponse{Export: export})
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithToken("test-token"))
	got, err := c.ExportBibtex(context.Background(), "2019arXiv190404507R")
	if err != nil {
		t.Fatalf("ExportBibtex() error = %v", err)
	}
	if got != export {
		t.Errorf("ExportBibtex() = %q, want %q", got, export)
	}
}

func TestExportBibtex_Empty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(exportResponse{})
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithToken("test-token"))
	if _, err := c.ExportBibtex(context.Background(), "2019arXiv190404507R"); err == nil {
		t.Error("ExportBibtex() with an empty export should fail")
	}
}
