package extract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExtractPlainText(t *testing.T) {
	e := NewExtractor()
	pages, err := e.ExtractBytes([]byte("bearing replacement procedure"), ".txt")
	if err != nil {
		t.Fatalf("ExtractBytes() error: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("got %d pages, want 1", len(pages))
	}
	if pages[0].Number != 0 {
		t.Errorf("plain text page number = %d, want 0 (unpaginated)", pages[0].Number)
	}
	if pages[0].Text != "bearing replacement procedure" {
		t.Errorf("unexpected text %q", pages[0].Text)
	}
}

func TestExtractMarkdown(t *testing.T) {
	e := NewExtractor()
	dir := t.TempDir()
	path := filepath.Join(dir, "guide.md")
	if err := os.WriteFile(path, []byte("# Lubrication\ncheck oil level"), 0600); err != nil {
		t.Fatal(err)
	}
	pages, err := e.Extract(path)
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	if !strings.Contains(pages[0].Text, "check oil level") {
		t.Errorf("missing content in %q", pages[0].Text)
	}
}

func TestExtractInvalidUTF8(t *testing.T) {
	e := NewExtractor()
	if _, err := e.ExtractBytes([]byte{0xff, 0xfe, 0xfd}, ".txt"); err == nil {
		t.Fatal("expected error for invalid UTF-8")
	}
}

func TestExtractUnsupportedFormat(t *testing.T) {
	e := NewExtractor()
	if _, err := e.ExtractBytes([]byte("x"), ".exe"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestExtractCorruptPDF(t *testing.T) {
	e := NewExtractor()
	if _, err := e.ExtractBytes([]byte("not a pdf at all"), ".pdf"); err == nil {
		t.Fatal("expected error for corrupt PDF")
	}
}
