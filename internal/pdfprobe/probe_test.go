package pdfprobe

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestIsPDF(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		data []byte
		want bool
	}{
		{"pdf header", []byte("%PDF-1.4\nrest of file"), true},
		{"html error page", []byte("<!DOCTYPE html><html>"), false},
		{"empty", nil, false},
		{"truncated header", []byte("%PD"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.name+".pdf", tt.data)
			if got := IsPDF(path); got != tt.want {
				t.Errorf("IsPDF() = %v, want %v", got, tt.want)
			}
		})
	}

	if IsPDF(filepath.Join(dir, "missing.pdf")) {
		t.Error("IsPDF() on a missing file should be false")
	}
}

func TestHasAnnotations(t *testing.T) {
	dir := t.TempDir()

	// Handcrafted files fail the structural parse, so detection goes
	// through the raw byte scan.
	annotated := writeFile(t, dir, "annotated.pdf",
		[]byte("%PDF-1.4\n1 0 obj\n<< /Type /Annot /Contents (needs a second look) >>\nendobj"))
	plain := writeFile(t, dir, "plain.pdf",
		[]byte("%PDF-1.4\n1 0 obj\n<< /Type /Page >>\nendobj"))

	if !HasAnnotations(annotated) {
		t.Error("HasAnnotations() missed an annotation content stream")
	}
	if HasAnnotations(plain) {
		t.Error("HasAnnotations() reported annotations in a plain file")
	}
}

func TestIsKeptName(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/refs/riechers2019_notes_1.pdf", true},
		{"/refs/riechers2019.pdf", false},
		{"/refs/_notes_/riechers2019.pdf", false},
	}

	for _, tt := range tests {
		if got := IsKeptName(tt.path); got != tt.want {
			t.Errorf("IsKeptName(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
