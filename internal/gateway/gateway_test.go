package gateway

import "testing"

func TestPDFURL(t *testing.T) {
	tests := []struct {
		name string
		src  Source
		want string
	}{
		{"publisher", SourcePublisher, "https://ui.adsabs.harvard.edu/link_gateway/1998ApJ...500..525S/PUB_PDF"},
		{"eprint", SourceEprint, "https://ui.adsabs.harvard.edu/link_gateway/1998ApJ...500..525S/EPRINT_PDF"},
		{"scan", SourceScan, "https://ui.adsabs.harvard.edu/link_gateway/1998ApJ...500..525S/ADS_PDF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PDFURL(DefaultBaseURL, "1998ApJ...500..525S", tt.src)
			if got != tt.want {
				t.Errorf("PDFURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHTMLURL(t *testing.T) {
	tests := []struct {
		name string
		src  Source
		want string
	}{
		{"publisher", SourcePublisher, "https://ui.adsabs.harvard.edu/link_gateway/2019arXiv190404507R/PUB_HTML"},
		{"eprint", SourceEprint, "https://ui.adsabs.harvard.edu/link_gateway/2019arXiv190404507R/EPRINT_HTML"},
		{"scan uses ADS_SCAN", SourceScan, "https://ui.adsabs.harvard.edu/link_gateway/2019arXiv190404507R/ADS_SCAN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HTMLURL(DefaultBaseURL, "2019arXiv190404507R", tt.src)
			if got != tt.want {
				t.Errorf("HTMLURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAbstractURL(t *testing.T) {
	want := "https://ui.adsabs.harvard.edu/abs/2019arXiv190404507R/abstract"
	if got := AbstractURL("2019arXiv190404507R"); got != want {
		t.Errorf("AbstractURL() = %q, want %q", got, want)
	}
}

func TestIsPreprint(t *testing.T) {
	if !IsPreprint("2019arXiv190404507R") {
		t.Error("arXiv bibcode should be a preprint")
	}
	if IsPreprint("1998ApJ...500..525S") {
		t.Error("journal bibcode should not be a preprint")
	}
}

func TestDefaultOrder(t *testing.T) {
	preprint := DefaultOrder("2019arXiv190404507R")
	if preprint[0] != SourceEprint {
		t.Errorf("preprint order starts with %q, want eprint", preprint[0])
	}

	published := DefaultOrder("1998ApJ...500..525S")
	if published[0] != SourcePublisher {
		t.Errorf("published order starts with %q, want pub", published[0])
	}

	for _, order := range [][]Source{preprint, published} {
		if len(order) != 3 || order[2] != SourceScan {
			t.Errorf("order = %v, want 3 sources ending in scan", order)
		}
	}
}
