// Package storage defines persistence for documents, chunks, and case history.
package storage

import (
	"context"

	"github.com/oritsune/naosu/internal/models"
)

// Storage defines document, chunk, and diagnostic-case persistence.
// Chunk text and source metadata live here; the vector index holds only
// chunk IDs and embeddings.
type Storage interface {
	// Document operations
	CreateDocument(ctx context.Context, doc *models.Document) error
	GetDocument(ctx context.Context, id string) (*models.Document, error)
	GetDocumentBySourceFile(ctx context.Context, sourceFile string) (*models.Document, error)
	DeleteDocument(ctx context.Context, id string) error

	// Chunk operations
	GetChunk(ctx context.Context, id string) (*models.DocumentChunk, error)
	BatchCreateChunks(ctx context.Context, chunks []*models.DocumentChunk) error
	ChunkIDsByDocumentID(ctx context.Context, docID string) ([]string, error)
	DeleteChunksByDocumentID(ctx context.Context, docID string) error

	// Diagnostic case history
	CreateCase(ctx context.Context, c *models.DiagnosticCase) error
	CountCasesByMachineType(ctx context.Context, machineType string) (int64, error)

	// Stats
	CountDocuments(ctx context.Context) (int64, error)
	CountChunks(ctx context.Context) (int64, error)
	CountCases(ctx context.Context) (int64, error)

	Close() error
}
