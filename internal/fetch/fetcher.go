// Package fetch retrieves article PDFs through the ADS link gateway with
// ordered source fallback and an optional SSH relay.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/matsen/ads2bib/internal/gateway"
	"github.com/matsen/ads2bib/internal/pdfprobe"
)

// userAgent is a browser-like User-Agent; several publishers refuse
// obvious non-browser clients.
const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_9_5) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/68.0.3440.106 Safari/537.36"

// Result describes the outcome of a fetch: the last attempted file, the
// source it came from, and whether the payload validated as a PDF.
// Callers must not treat an unvalidated path as a usable PDF.
type Result struct {
	Path      string
	Source    gateway.Source
	Validated bool
}

// Downloader retrieves a URL into a local file. The SSH relay and the
// plain HTTP path both satisfy it.
type Downloader interface {
	Download(ctx context.Context, url, dest string) error
}

// Fetcher downloads and validates article PDFs.
type Fetcher struct {
	base   string
	client *http.Client
	relay  Downloader
	log    zerolog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithGatewayBase overrides the link-gateway base URL (for testing).
func WithGatewayBase(base string) Option {
	return func(f *Fetcher) {
		f.base = base
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(f *Fetcher) {
		f.client = hc
	}
}

// WithRelay routes downloads through a remote host; this exists to get
// around IP-based access restrictions at the fetching machine.
func WithRelay(r Downloader) Option {
	return func(f *Fetcher) {
		f.relay = r
	}
}

// WithLogger sets the fetch logger.
func WithLogger(log zerolog.Logger) Option {
	return func(f *Fetcher) {
		f.log = log
	}
}

// New creates a Fetcher.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		base:   gateway.DefaultBaseURL,
		client: &http.Client{Timeout: 2 * time.Minute},
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch tries each source in order and stops at the first one whose
// payload validates as a PDF. The loop is deliberately sequential: an
// early success avoids paying for relay round-trips on later sources.
// When every source is exhausted the last attempt is returned with
// Validated false. Transport-level failures propagate.
func (f *Fetcher) Fetch(ctx context.Context, identifier string, order []gateway.Source) (Result, error) {
	var res Result
	for _, src := range order {
		url := gateway.PDFURL(f.base, identifier, src)
		f.log.Debug().Str("source", string(src)).Str("url", url).Msg("fetching pdf")

		tmp, err := os.CreateTemp("", "ads2bib-*.pdf")
		if err != nil {
			return res, fmt.Errorf("creating temp file: %w", err)
		}
		path := tmp.Name()
		tmp.Close()

		dl := Downloader(f)
		if f.relay != nil {
			dl = f.relay
		}
		if err := dl.Download(ctx, url, path); err != nil {
			return Result{Path: path, Source: src}, fmt.Errorf("downloading %s: %w", url, err)
		}

		res = Result{Path: path, Source: src}
		if pdfprobe.IsPDF(path) {
			res.Validated = true
			return res, nil
		}
		f.log.Debug().Str("source", string(src)).Msg("payload is not a pdf")
	}
	return res, nil
}

// Download fetches a URL over plain HTTP, following redirects, into dest.
// Non-2xx responses still write the body; validation is the caller's
// content probe, not the status code.
func (f *Fetcher) Download(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	return nil
}
