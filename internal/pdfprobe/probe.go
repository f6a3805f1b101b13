// Package pdfprobe inspects downloaded files: content-type probing and
// reader-annotation detection. Probes look at the bytes, never at the
// file name.
package pdfprobe

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pdfMagic is the header every PDF starts with.
var pdfMagic = []byte("%PDF-")

// annotMarker matches the annotation content streams Skim and friends
// embed ("Contents (" with an optional space, same probe the shell
// `strings | grep` trick performs).
var annotMarker = regexp.MustCompile(`Contents ?\(`)

// IsPDF reports whether the file at path contains a PDF payload.
func IsPDF(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	header := make([]byte, len(pdfMagic))
	if _, err := f.Read(header); err != nil {
		return false
	}
	return bytes.Equal(header, pdfMagic)
}

// HasAnnotations reports whether a PDF carries embedded reader annotations.
// It walks the page tree when the file parses, and falls back to a raw
// byte scan for files the parser rejects.
func HasAnnotations(path string) bool {
	if annotated, ok := scanPages(path); ok {
		return annotated
	}
	return scanBytes(path)
}

// IsKeptName reports whether a path already follows the preserved-copy
// naming convention.
func IsKeptName(path string) bool {
	return strings.Contains(filepath.Base(path), "_notes_")
}

// scanPages walks page dictionaries looking for non-empty Annots arrays.
// The second return value is false when the file could not be parsed.
func scanPages(path string) (annotated, ok bool) {
	// The parser panics on some malformed files
	defer func() {
		if recover() != nil {
			annotated, ok = false, false
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return false, false
	}
	defer f.Close()

	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		annots := page.V.Key("Annots")
		if !annots.IsNull() && annots.Len() > 0 {
			return true, true
		}
	}
	return false, true
}

// scanBytes looks for annotation content markers in the raw file.
func scanBytes(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return annotMarker.Match(data)
}
