package store

import (
	"fmt"
	"os"
	"strings"

	"github.com/matsen/ads2bib/internal/pdfprobe"
)

// SafeDelete deletes an entry while preserving annotated documents.
//
// For each linked PDF: files already renamed aside (carrying "_notes_")
// are kept where they are; files with reader annotations, embedded or in
// a .skim sidecar, are renamed to <base>_notes_<N>.pdf (sidecar renamed
// alongside); unannotated PDFs are removed. Preserved paths are returned
// so the caller can relink them. A user's annotated document is never
// silently discarded.
func (s *SQLiteStore) SafeDelete(id string) ([]string, error) {
	files, err := s.LinkedFiles(id)
	if err != nil {
		return nil, err
	}

	var kept []string
	for _, f := range files {
		if !strings.HasSuffix(strings.ToLower(f), ".pdf") {
			continue
		}
		switch {
		case pdfprobe.IsKeptName(f):
			kept = append(kept, f)
		case hasSkimSidecar(f) || pdfprobe.HasAnnotations(f):
			backup, err := renameAside(f)
			if err != nil {
				return kept, err
			}
			kept = append(kept, backup)
		default:
			if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
				return kept, fmt.Errorf("removing %s: %w", f, err)
			}
		}
	}

	if _, err := s.db.Exec("DELETE FROM entries WHERE id = ?", id); err != nil {
		return kept, fmt.Errorf("deleting entry: %w", err)
	}
	return kept, nil
}

// hasSkimSidecar reports whether a .skim annotation file sits beside
// the PDF.
func hasSkimSidecar(path string) bool {
	_, err := os.Stat(sidecarPath(path))
	return err == nil
}

func sidecarPath(pdfPath string) string {
	return trimPDFExt(pdfPath) + ".skim"
}

// trimPDFExt removes a trailing .pdf extension in any case; the linked
// file check upstream is case-insensitive too.
func trimPDFExt(path string) string {
	if strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return path[:len(path)-len(".pdf")]
	}
	return path
}

// renameAside moves a PDF to <base>_notes_<N>.pdf with the first free N,
// moving any .skim sidecar alongside it.
func renameAside(path string) (string, error) {
	base := trimPDFExt(path)
	suffix := 1
	backup := fmt.Sprintf("%s_notes_%d.pdf", base, suffix)
	for {
		if _, err := os.Stat(backup); os.IsNotExist(err) {
			break
		}
		suffix++
		backup = fmt.Sprintf("%s_notes_%d.pdf", base, suffix)
	}

	if err := os.Rename(path, backup); err != nil {
		return "", fmt.Errorf("preserving %s: %w", path, err)
	}
	if sidecar := sidecarPath(path); hasSkimSidecar(path) {
		target := fmt.Sprintf("%s_notes_%d.skim", base, suffix)
		if err := os.Rename(sidecar, target); err != nil {
			return backup, fmt.Errorf("preserving sidecar %s: %w", sidecar, err)
		}
	}
	return backup, nil
}
