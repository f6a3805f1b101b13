// Package gateway builds ADS link-gateway and landing-page URLs.
//
// The gateway serves full texts at
// {base}/{identifier}/{PUB|EPRINT|ADS}_{PDF|HTML}; not every link works for
// every article, which is why callers try sources in order.
package gateway

import (
	"strings"
)

// DefaultBaseURL is the ADS link gateway.
const DefaultBaseURL = "https://ui.adsabs.harvard.edu/link_gateway"

// uiBaseURL is the ADS web frontend, used for abstract landing pages.
const uiBaseURL = "https://ui.adsabs.harvard.edu"

// Source is an origin for a full-text download attempt.
type Source string

const (
	// SourcePublisher fetches from the journal publisher.
	SourcePublisher Source = "pub"
	// SourceEprint fetches from the preprint server.
	SourceEprint Source = "eprint"
	// SourceScan fetches the ADS article scan.
	SourceScan Source = "ads"
)

// segment returns the uppercase URL segment prefix for a source.
func (s Source) segment() string {
	return strings.ToUpper(string(s))
}

// PDFURL returns the gateway PDF URL for one source.
func PDFURL(base, identifier string, src Source) string {
	return base + "/" + identifier + "/" + src.segment() + "_PDF"
}

// HTMLURL returns the gateway HTML URL for one source. The ADS scan
// frontend uses ADS_SCAN rather than ADS_HTML.
func HTMLURL(base, identifier string, src Source) string {
	if src == SourceScan {
		return base + "/" + identifier + "/ADS_SCAN"
	}
	return base + "/" + identifier + "/" + src.segment() + "_HTML"
}

// AbstractURL returns the ADS landing page for a bibcode.
func AbstractURL(bibcode string) string {
	return uiBaseURL + "/abs/" + bibcode + "/abstract"
}

// IsPreprint reports whether an identifier looks like a preprint id.
func IsPreprint(identifier string) bool {
	return strings.Contains(identifier, "arXiv")
}

// DefaultOrder returns the source fallback order for an identifier:
// eprint first for preprint ids, publisher first otherwise, scan last.
func DefaultOrder(identifier string) []Source {
	if IsPreprint(identifier) {
		return []Source{SourceEprint, SourcePublisher, SourceScan}
	}
	return []Source{SourcePublisher, SourceEprint, SourceScan}
}
