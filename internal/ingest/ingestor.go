package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oritsune/naosu/internal/config"
	"github.com/oritsune/naosu/internal/embedding"
	"github.com/oritsune/naosu/internal/extract"
	"github.com/oritsune/naosu/internal/models"
	"github.com/oritsune/naosu/internal/storage"
	"github.com/oritsune/naosu/internal/vector"
)

// Ingestor loads manuals from a directory into storage and the vector index.
type Ingestor struct {
	storage     storage.Storage
	embedder    embedding.Embedder
	vectorIndex vector.Index
	extractor   *extract.Extractor
	chunker     *Chunker
	config      *config.IngestConfig
	indexPath   string
	logger      *zap.Logger
}

// NewIngestor creates an ingestor with the given dependencies. The index is
// saved to indexPath after every successful batch.
func NewIngestor(
	store storage.Storage,
	embedder embedding.Embedder,
	vectorIndex vector.Index,
	cfg *config.IngestConfig,
	indexPath string,
	logger *zap.Logger,
) *Ingestor {
	return &Ingestor{
		storage:     store,
		embedder:    embedder,
		vectorIndex: vectorIndex,
		extractor:   extract.NewExtractor(),
		chunker:     NewChunker(cfg.ChunkSize, cfg.ChunkOverlap),
		config:      cfg,
		indexPath:   indexPath,
		logger:      logger,
	}
}

// Ingest scans dataDir for supported documents and indexes them. Returns
// false without error when no matching files exist or none could be loaded
// ("no work done"); a per-file load failure is logged and skipped so one
// corrupt manual cannot abort the batch. On success the index is written
// atomically to the configured path, replacing any prior index.
func (ing *Ingestor) Ingest(ctx context.Context, dataDir string) (bool, error) {
	files, err := ing.scan(dataDir)
	if err != nil {
		return false, err
	}
	if len(files) == 0 {
		ing.logger.Info("no documents found, skipping ingestion", zap.String("dir", dataDir))
		return false, nil
	}
	ing.logger.Info("loading documents", zap.Int("count", len(files)), zap.String("dir", dataDir))

	loaded := 0
	for _, path := range files {
		if err := ing.ingestFile(ctx, path); err != nil {
			ing.logger.Warn("failed to load document, skipping",
				zap.String("file", filepath.Base(path)),
				zap.Error(err))
			continue
		}
		loaded++
	}
	if loaded == 0 {
		ing.logger.Warn("no documents loaded, index not written", zap.String("dir", dataDir))
		return false, nil
	}

	if err := ing.vectorIndex.Save(ing.indexPath); err != nil {
		return false, fmt.Errorf("save index: %w", err)
	}
	ing.logger.Info("index written",
		zap.String("path", ing.indexPath),
		zap.Int("documents", loaded),
		zap.Int("vectors", ing.vectorIndex.Size()))
	return true, nil
}

// IngestFile indexes a single document and saves the index. Used by the
// data-directory watcher for incremental updates.
func (ing *Ingestor) IngestFile(ctx context.Context, path string) error {
	if !ing.extensionAllowed(strings.ToLower(filepath.Ext(path))) {
		return fmt.Errorf("extension %q not in allowed list", filepath.Ext(path))
	}
	if err := ing.ingestFile(ctx, path); err != nil {
		return err
	}
	return ing.vectorIndex.Save(ing.indexPath)
}

func (ing *Ingestor) ingestFile(ctx context.Context, path string) error {
	pages, err := ing.extractor.Extract(path)
	if err != nil {
		return err
	}
	sourceFile := filepath.Base(path)

	// Re-ingesting the same file replaces its previous chunks and vectors.
	if prev, err := ing.storage.GetDocumentBySourceFile(ctx, sourceFile); err == nil {
		if err := ing.removeDocument(ctx, prev.ID); err != nil {
			return fmt.Errorf("replace previous version: %w", err)
		}
	}

	docID := uuid.New().String()
	doc := &models.Document{
		ID:         docID,
		Title:      titleFromFilename(sourceFile),
		SourceFile: sourceFile,
		Pages:      len(pages),
	}
	if err := ing.storage.CreateDocument(ctx, doc); err != nil {
		return fmt.Errorf("store document: %w", err)
	}

	chunks := ing.chunker.ChunkPages(docID, sourceFile, pages)
	if len(chunks) == 0 {
		return fmt.Errorf("no text content")
	}
	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Content
	}
	embeddings, err := ing.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed chunks: %w", err)
	}
	for i := range chunks {
		chunks[i].Embedding = embeddings[i]
	}
	if err := ing.storage.BatchCreateChunks(ctx, chunks); err != nil {
		return fmt.Errorf("store chunks: %w", err)
	}
	chunkIDs := make([]string, len(chunks))
	for i, ch := range chunks {
		chunkIDs[i] = ch.ID
	}
	if err := ing.vectorIndex.Add(ctx, chunkIDs, embeddings); err != nil {
		return fmt.Errorf("index vectors: %w", err)
	}
	ing.logger.Info("document loaded",
		zap.String("file", sourceFile),
		zap.Int("pages", len(pages)),
		zap.Int("chunks", len(chunks)))
	return nil
}

func (ing *Ingestor) removeDocument(ctx context.Context, docID string) error {
	ids, err := ing.storage.ChunkIDsByDocumentID(ctx, docID)
	if err != nil {
		return err
	}
	if len(ids) > 0 {
		if err := ing.vectorIndex.Remove(ctx, ids); err != nil {
			return err
		}
	}
	return ing.storage.DeleteDocument(ctx, docID)
}

func (ing *Ingestor) scan(dataDir string) ([]string, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read data dir: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if ing.extensionAllowed(strings.ToLower(filepath.Ext(entry.Name()))) {
			files = append(files, filepath.Join(dataDir, entry.Name()))
		}
	}
	return files, nil
}

func (ing *Ingestor) extensionAllowed(ext string) bool {
	for _, allowed := range ing.config.Extensions {
		if strings.EqualFold(allowed, ext) {
			return true
		}
	}
	return false
}

// titleFromFilename turns "Induction_Motor_Maintenance_Manual.pdf" into
// "Induction Motor Maintenance Manual".
func titleFromFilename(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return strings.ReplaceAll(base, "_", " ")
}
