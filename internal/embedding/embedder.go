// Package embedding provides text embedding for manual chunks and queries.
// Ingestion and retrieval must share one Embedder so their vectors live in
// the same space.
package embedding

import "context"

// Embedder produces fixed-size vector embeddings for text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}
