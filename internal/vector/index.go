// Package vector provides the persisted vector index used for passage retrieval.
package vector

import "context"

// Index defines vector storage and similarity search over chunk embeddings.
// The index holds only chunk IDs and vectors; chunk text and metadata live
// in storage.
type Index interface {
	Add(ctx context.Context, ids []string, vectors [][]float32) error
	Search(ctx context.Context, query []float32, k int) ([]*Result, error)
	Remove(ctx context.Context, ids []string) error
	Save(path string) error
	Load(path string) error
	Size() int
	Close() error
}

// Result is a single vector search hit.
type Result struct {
	ID    string
	Score float64 // inner product; cosine similarity for normalized vectors
}
