// Package ingest loads manuals, chunks them, embeds the chunks, and
// persists the vector index.
package ingest

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/oritsune/naosu/internal/extract"
	"github.com/oritsune/naosu/internal/models"
)

// Chunker splits page text into overlapping word windows. Boundaries do not
// align with sentences or sections; the overlap preserves context across a
// cut.
type Chunker struct {
	chunkSize    int
	chunkOverlap int
}

// NewChunker creates a chunker with the given size and overlap (in words).
func NewChunker(chunkSize, chunkOverlap int) *Chunker {
	return &Chunker{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

// ChunkPages splits the pages of one document into DocumentChunks. Each
// chunk carries the source filename and the label of the page its window
// starts on, so citations can point back into the manual.
func (c *Chunker) ChunkPages(docID, sourceFile string, pages []extract.Page) []*models.DocumentChunk {
	type word struct {
		text string
		page int
	}
	var words []word
	for _, p := range pages {
		for _, w := range strings.Fields(Preprocess(p.Text)) {
			words = append(words, word{text: w, page: p.Number})
		}
	}
	if len(words) == 0 {
		return nil
	}

	step := c.chunkSize - c.chunkOverlap
	if step <= 0 {
		step = 1
	}
	var chunks []*models.DocumentChunk
	chunkIndex := 0
	for i := 0; i < len(words); i += step {
		end := i + c.chunkSize
		if end > len(words) {
			end = len(words)
		}
		parts := make([]string, 0, end-i)
		for _, w := range words[i:end] {
			parts = append(parts, w.text)
		}
		chunk := &models.DocumentChunk{
			ID:         fmt.Sprintf("%s_%s", docID, uuid.New().String()[:8]),
			DocumentID: docID,
			Content:    strings.Join(parts, " "),
			SourceFile: sourceFile,
			Page:       pageLabel(words[i].page),
			ChunkIndex: chunkIndex,
		}
		chunks = append(chunks, chunk)
		chunkIndex++
		if end >= len(words) {
			break
		}
	}
	return chunks
}

// pageLabel renders a 1-based page number as a citation label; 0 means the
// format has no pages.
func pageLabel(page int) string {
	if page <= 0 {
		return ""
	}
	return fmt.Sprintf("p. %d", page)
}

// Preprocess normalizes text for indexing (trim, collapse whitespace).
func Preprocess(text string) string {
	text = strings.TrimSpace(text)
	var b strings.Builder
	wasSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			if !wasSpace {
				b.WriteRune(' ')
				wasSpace = true
			}
		} else {
			b.WriteRune(r)
			wasSpace = false
		}
	}
	return b.String()
}
