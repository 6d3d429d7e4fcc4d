package models

import "time"

// Document is an ingested source document (one manual file).
type Document struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	SourceFile string    `json:"source_file"`
	Pages      int       `json:"pages"`
	CreatedAt  time.Time `json:"created_at"`
}

// DocumentChunk is one overlapping text window of a document, the unit of
// vector indexing. The vector index stores only the chunk ID and embedding;
// content and source metadata live here.
type DocumentChunk struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	Content    string    `json:"content"`
	SourceFile string    `json:"source_file"`
	Page       string    `json:"page,omitempty"`
	ChunkIndex int       `json:"chunk_index"`
	Embedding  []float32 `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

// DiagnosticCase is one recorded past query, kept for related-case lookup
// and machine-type history counts.
type DiagnosticCase struct {
	ID           string    `json:"id"`
	Query        string    `json:"query"`
	MachineType  string    `json:"machine_type"`
	FaultType    string    `json:"fault_type,omitempty"`
	IssueSummary string    `json:"issue_summary"`
	CreatedAt    time.Time `json:"created_at"`
}
