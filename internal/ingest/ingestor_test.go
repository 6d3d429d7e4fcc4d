package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/oritsune/naosu/internal/config"
	"github.com/oritsune/naosu/internal/embedding"
	"github.com/oritsune/naosu/internal/storage"
	"github.com/oritsune/naosu/internal/vector"
)

func newTestIngestor(t *testing.T) (*Ingestor, storage.Storage, vector.Index, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewSQLiteStorage(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	idx, err := vector.NewMemoryIndex(64)
	if err != nil {
		t.Fatalf("failed to create index: %v", err)
	}
	cfg := &config.IngestConfig{
		ChunkSize:    50,
		ChunkOverlap: 10,
		Extensions:   []string{".pdf", ".txt", ".md"},
	}
	indexPath := filepath.Join(dir, "test_index")
	ing := NewIngestor(store, embedding.NewMockEmbedder(64), idx, cfg, indexPath, zap.NewNop())
	return ing, store, idx, indexPath
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestIngestor_EmptyDirectory(t *testing.T) {
	ing, _, _, indexPath := newTestIngestor(t)
	dataDir := t.TempDir()

	ok, err := ing.Ingest(context.Background(), dataDir)
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if ok {
		t.Error("Ingest() = true for empty directory, want false")
	}
	if _, err := os.Stat(indexPath); !os.IsNotExist(err) {
		t.Error("index file written despite no documents")
	}
}

func TestIngestor_MissingDirectory(t *testing.T) {
	ing, _, _, _ := newTestIngestor(t)
	ok, err := ing.Ingest(context.Background(), filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if ok {
		t.Error("Ingest() = true for missing directory, want false")
	}
}

func TestIngestor_SkipsUnsupportedExtensions(t *testing.T) {
	ing, _, _, _ := newTestIngestor(t)
	dataDir := t.TempDir()
	writeFile(t, dataDir, "notes.docx", "not supported")
	writeFile(t, dataDir, "image.png", "binary-ish")

	ok, err := ing.Ingest(context.Background(), dataDir)
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if ok {
		t.Error("Ingest() = true with only unsupported files, want false")
	}
}

func TestIngestor_CorruptFileDoesNotAbortBatch(t *testing.T) {
	ing, store, idx, indexPath := newTestIngestor(t)
	dataDir := t.TempDir()
	writeFile(t, dataDir, "broken.pdf", "this is not a pdf")
	writeFile(t, dataDir, "pump_manual.txt",
		"Centrifugal pump seal replacement procedure. Isolate the pump, drain the casing, remove the coupling guard and inspect the mechanical seal faces for scoring.")

	ok, err := ing.Ingest(context.Background(), dataDir)
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if !ok {
		t.Fatal("Ingest() = false, want true: valid file should still load")
	}
	if idx.Size() == 0 {
		t.Error("index is empty after ingesting a valid document")
	}
	if _, err := os.Stat(indexPath); err != nil {
		t.Errorf("index file not written: %v", err)
	}

	ctx := context.Background()
	docs, err := store.CountDocuments(ctx)
	if err != nil {
		t.Fatalf("CountDocuments() error = %v", err)
	}
	if docs != 1 {
		t.Errorf("CountDocuments() = %d, want 1 (corrupt file skipped)", docs)
	}
	if _, err := store.GetDocumentBySourceFile(ctx, "broken.pdf"); err == nil {
		t.Error("corrupt document was stored")
	}
}

func TestIngestor_ChunksCarrySourceMetadata(t *testing.T) {
	ing, store, idx, _ := newTestIngestor(t)
	dataDir := t.TempDir()
	writeFile(t, dataDir, "bearing_guide.md",
		"# Bearing inspection\nListen for grinding noise and measure housing temperature with an infrared thermometer.")

	if _, err := ing.Ingest(context.Background(), dataDir); err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	ctx := context.Background()
	doc, err := store.GetDocumentBySourceFile(ctx, "bearing_guide.md")
	if err != nil {
		t.Fatalf("GetDocumentBySourceFile() error = %v", err)
	}
	if doc.Title != "bearing guide" {
		t.Errorf("Title = %q, want %q", doc.Title, "bearing guide")
	}
	ids, err := store.ChunkIDsByDocumentID(ctx, doc.ID)
	if err != nil {
		t.Fatalf("ChunkIDsByDocumentID() error = %v", err)
	}
	if len(ids) == 0 {
		t.Fatal("no chunks stored")
	}
	chunk, err := store.GetChunk(ctx, ids[0])
	if err != nil {
		t.Fatalf("GetChunk() error = %v", err)
	}
	if chunk.SourceFile != "bearing_guide.md" {
		t.Errorf("chunk SourceFile = %q, want %q", chunk.SourceFile, "bearing_guide.md")
	}
	if idx.Size() != len(ids) {
		t.Errorf("index size = %d, want %d chunks", idx.Size(), len(ids))
	}
}

func TestIngestor_ReingestReplacesDocument(t *testing.T) {
	ing, store, idx, _ := newTestIngestor(t)
	dataDir := t.TempDir()
	path := writeFile(t, dataDir, "procedure.txt", "Step one tighten the gland packing evenly.")

	if _, err := ing.Ingest(context.Background(), dataDir); err != nil {
		t.Fatalf("first Ingest() error = %v", err)
	}
	sizeBefore := idx.Size()

	writeFile(t, dataDir, "procedure.txt", "Step one tighten the gland packing evenly. Step two check for leakage at operating pressure.")
	if err := ing.IngestFile(context.Background(), path); err != nil {
		t.Fatalf("IngestFile() error = %v", err)
	}

	ctx := context.Background()
	docs, err := store.CountDocuments(ctx)
	if err != nil {
		t.Fatalf("CountDocuments() error = %v", err)
	}
	if docs != 1 {
		t.Errorf("CountDocuments() = %d after re-ingest, want 1", docs)
	}
	if idx.Size() == 0 || idx.Size() < sizeBefore {
		t.Errorf("index size = %d after re-ingest, want >= %d", idx.Size(), sizeBefore)
	}
}
