package ads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the ADS API base URL.
	DefaultBaseURL = "https://api.adsabs.harvard.edu/v1"

	// RateLimit is 5 requests per second, comfortably under the ADS quota.
	RateLimit = 5.0

	// SearchFields is the field set requested for identifier lookups.
	SearchFields = "author,first_author,bibcode,identifier,alternate_bibcode,id,year,title,abstract"
)

// Client is a rate-limited HTTP client for the ADS API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	token      string
	baseURL    string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithToken sets the API token for authenticated requests.
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (mirror hosts, testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// NewClient creates a new ADS API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    DefaultBaseURL,
	}

	// Check for API token in environment
	if token := os.Getenv("ADS_API_TOKEN"); token != "" {
		c.token = token
	}

	// Apply options
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// checkHTTPErrors returns an error if the HTTP response indicates a problem.
func checkHTTPErrors(resp *http.Response) error {
	if resp.StatusCode == 401 || resp.StatusCode == 403 {
		return fmt.Errorf("%w: status %d", ErrAuthError, resp.StatusCode)
	}
	if resp.StatusCode == 429 {
		return fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("HTTP %d", resp.StatusCode),
		}
	}
	return nil
}

func (c *Client) do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}

	if err := checkHTTPErrors(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp, nil
}

// FetchArticle looks up one article by identifier. Exactly one match is
// required: zero matches yield ErrNotFound, more than one ErrAmbiguous.
func (c *Client) FetchArticle(ctx context.Context, identifier string) (*Article, error) {
	q := url.Values{}
	q.Set("q", fmt.Sprintf("identifier:%q", identifier))
	q.Set("fl", SearchFields)
	q.Set("rows", "10")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/search/query?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("%w: parsing search results: %v", ErrInvalidResponse, err)
	}

	docs := sr.Response.Docs
	switch {
	case len(docs) == 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, identifier)
	case len(docs) > 1:
		return nil, fmt.Errorf("%w: %s matched %d records", ErrAmbiguous, identifier, len(docs))
	}

	return docToArticle(identifier, docs[0]), nil
}

// ExportBibtex exports the canonical BibTeX entry for one bibcode.
func (c *Client) ExportBibtex(ctx context.Context, bibcode string) (string, error) {
	body, err := json.Marshal(exportRequest{Bibcode: []string{bibcode}})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/export/bibtex", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(ctx, req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var er exportResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return "", fmt.Errorf("%w: parsing export: %v", ErrInvalidResponse, err)
	}
	if er.Export == "" {
		return "", fmt.Errorf("%w: empty export for %s", ErrInvalidResponse, bibcode)
	}

	return er.Export, nil
}

// docToArticle normalizes an ADS search document into an Article.
func docToArticle(identifier string, doc searchDoc) *Article {
	a := &Article{
		Identifier:  identifier,
		Bibcode:     doc.Bibcode,
		Authors:     doc.Author,
		FirstAuthor: doc.FirstAuthor,
		Abstract:    doc.Abstract,
	}
	if len(doc.Title) > 0 {
		a.Title = doc.Title[0]
	}
	if a.FirstAuthor == "" && len(doc.Author) > 0 {
		a.FirstAuthor = doc.Author[0]
	}
	if y, err := strconv.Atoi(doc.Year); err == nil {
		a.Year = y
	}
	return a
}
