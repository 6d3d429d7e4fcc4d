package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/oritsune/naosu/internal/models"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "naosu.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStorage: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStorage_Documents(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	doc := &models.Document{
		ID:         "doc-1",
		Title:      "Induction Motor Maintenance Manual",
		SourceFile: "Induction_Motor_Maintenance_Manual.pdf",
		Pages:      80,
	}
	if err := store.CreateDocument(ctx, doc); err != nil {
		t.Fatalf("CreateDocument: %v", err)
	}

	got, err := store.GetDocument(ctx, "doc-1")
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if got.SourceFile != doc.SourceFile || got.Pages != 80 {
		t.Errorf("got %+v", got)
	}

	bySrc, err := store.GetDocumentBySourceFile(ctx, doc.SourceFile)
	if err != nil {
		t.Fatalf("GetDocumentBySourceFile: %v", err)
	}
	if bySrc.ID != "doc-1" {
		t.Errorf("by source file got %s", bySrc.ID)
	}

	if _, err := store.GetDocument(ctx, "nope"); err == nil {
		t.Error("expected error for missing document")
	}

	n, _ := store.CountDocuments(ctx)
	if n != 1 {
		t.Errorf("CountDocuments = %d", n)
	}
}

func TestSQLiteStorage_Chunks(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	doc := &models.Document{ID: "doc-1", SourceFile: "pump.pdf"}
	if err := store.CreateDocument(ctx, doc); err != nil {
		t.Fatal(err)
	}
	chunks := []*models.DocumentChunk{
		{ID: "c1", DocumentID: "doc-1", Content: "impeller wear signs", SourceFile: "pump.pdf", Page: "p. 3", ChunkIndex: 0},
		{ID: "c2", DocumentID: "doc-1", Content: "seal replacement", SourceFile: "pump.pdf", ChunkIndex: 1},
	}
	if err := store.BatchCreateChunks(ctx, chunks); err != nil {
		t.Fatalf("BatchCreateChunks: %v", err)
	}

	got, err := store.GetChunk(ctx, "c1")
	if err != nil {
		t.Fatalf("GetChunk: %v", err)
	}
	if got.Page != "p. 3" || got.SourceFile != "pump.pdf" {
		t.Errorf("chunk metadata lost: %+v", got)
	}
	empty, err := store.GetChunk(ctx, "c2")
	if err != nil {
		t.Fatal(err)
	}
	if empty.Page != "" {
		t.Errorf("expected empty page, got %q", empty.Page)
	}

	ids, err := store.ChunkIDsByDocumentID(ctx, "doc-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 || ids[0] != "c1" {
		t.Errorf("ChunkIDsByDocumentID = %v", ids)
	}

	if err := store.DeleteDocument(ctx, "doc-1"); err != nil {
		t.Fatal(err)
	}
	if n, _ := store.CountChunks(ctx); n != 0 {
		t.Errorf("chunks remain after document delete: %d", n)
	}
}

func TestSQLiteStorage_Cases(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	for i, mt := range []string{"CNC Mill", "CNC Mill", "Compressor"} {
		c := &models.DiagnosticCase{
			ID:           "case-" + string(rune('a'+i)),
			Query:        "spindle vibration",
			MachineType:  mt,
			IssueSummary: "Bearing wear suspected",
		}
		if err := store.CreateCase(ctx, c); err != nil {
			t.Fatalf("CreateCase: %v", err)
		}
	}

	n, err := store.CountCasesByMachineType(ctx, "CNC Mill")
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("CountCasesByMachineType = %d, want 2", n)
	}
	total, _ := store.CountCases(ctx)
	if total != 3 {
		t.Errorf("CountCases = %d, want 3", total)
	}
}
