// Package ads implements a client for the NASA/ADS API: identifier-keyed
// metadata lookup and BibTeX export.
package ads

// Article is the metadata record for one article, immutable once fetched.
type Article struct {
	Identifier  string   `json:"identifier"`
	Bibcode     string   `json:"bibcode"`
	Title       string   `json:"title"`
	Authors     []string `json:"authors"`
	FirstAuthor string   `json:"first_author"`
	Abstract    string   `json:"abstract"`
	Year        int      `json:"year"`
}

// searchDoc is one document in an ADS search response. ADS returns the
// title as a one-element array and the year as a string.
type searchDoc struct {
	Bibcode     string   `json:"bibcode"`
	Title       []string `json:"title"`
	Author      []string `json:"author"`
	FirstAuthor string   `json:"first_author"`
	Abstract    string   `json:"abstract"`
	Year        string   `json:"year"`
	Identifier  []string `json:"identifier"`
}

type searchResponse struct {
	Response struct {
		NumFound int         `json:"numFound"`
		Docs     []searchDoc `json:"docs"`
	} `json:"response"`
}

type exportRequest struct {
	Bibcode []string `json:"bibcode"`
}

type exportResponse struct {
	Export string `json:"export"`
	Msg    string `json:"msg"`
}
