// Package engine orchestrates retrieval and report generation: embed the
// query, pull the closest manual chunks, ask the model for a structured
// diagnosis, and fall back to a fixed degraded-mode report when the model
// is absent or misbehaves.
package engine

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oritsune/naosu/internal/cases"
	"github.com/oritsune/naosu/internal/config"
	"github.com/oritsune/naosu/internal/embedding"
	"github.com/oritsune/naosu/internal/llm"
	"github.com/oritsune/naosu/internal/models"
	"github.com/oritsune/naosu/internal/storage"
	"github.com/oritsune/naosu/internal/vector"
)

// Engine answers diagnostic queries. Constructed once at startup and
// read-only afterwards; requests are independent.
type Engine struct {
	vectorIndex vector.Index
	storage     storage.Storage
	embedder    embedding.Embedder
	llm         llm.Client    // nil means fallback-only mode
	caseIndex   *cases.Index  // nil means no related-case enrichment
	topK        int
	logger      *zap.Logger
}

// New creates an engine. llmClient and caseIndex may be nil; the engine
// then runs degraded (fallback reports, no case enrichment) rather than
// failing.
func New(
	vectorIndex vector.Index,
	store storage.Storage,
	embedder embedding.Embedder,
	llmClient llm.Client,
	caseIndex *cases.Index,
	cfg *config.RetrievalConfig,
	logger *zap.Logger,
) *Engine {
	topK := cfg.TopK
	if topK <= 0 {
		topK = 3
	}
	return &Engine{
		vectorIndex: vectorIndex,
		storage:     store,
		embedder:    embedder,
		llm:         llmClient,
		caseIndex:   caseIndex,
		topK:        topK,
		logger:      logger,
	}
}

// Retrieve embeds the query and returns the k closest chunks with their
// text and source metadata. An empty index yields an empty slice, not an
// error: the caller still gets a (low-confidence) report.
func (e *Engine) Retrieve(ctx context.Context, query string, k int) []*models.RetrievedChunk {
	if k <= 0 {
		k = e.topK
	}
	if e.vectorIndex.Size() == 0 {
		return nil
	}
	queryVec, err := e.embedder.Embed(ctx, query)
	if err != nil {
		e.logger.Warn("failed to embed query", zap.Error(err))
		return nil
	}
	results, err := e.vectorIndex.Search(ctx, queryVec, k)
	if err != nil {
		e.logger.Warn("vector search failed", zap.Error(err))
		return nil
	}
	chunks := make([]*models.RetrievedChunk, 0, len(results))
	for _, r := range results {
		chunk, err := e.storage.GetChunk(ctx, r.ID)
		if err != nil {
			e.logger.Warn("chunk missing from storage", zap.String("id", r.ID), zap.Error(err))
			continue
		}
		chunks = append(chunks, &models.RetrievedChunk{
			Text:       chunk.Content,
			SourceFile: chunk.SourceFile,
			Page:       chunk.Page,
		})
	}
	return chunks
}

// GenerateResponse produces a structured report for the query given the
// retrieved chunks. It never returns an error: any failure in the model
// path is logged and yields the fallback report with the failure described
// in its summary.
func (e *Engine) GenerateResponse(ctx context.Context, query string, mc *models.MachineContext, docs []*models.RetrievedChunk) *models.QueryResponse {
	resp, _ := e.generate(ctx, query, mc, docs)
	return resp
}

// generate reports whether the response came from the model (true) or the
// fallback template (false).
func (e *Engine) generate(ctx context.Context, query string, mc *models.MachineContext, docs []*models.RetrievedChunk) (*models.QueryResponse, bool) {
	if e.llm == nil {
		return fallbackResponse(query, ""), false
	}
	content, err := e.llm.Complete(ctx, systemPrompt, buildUserPrompt(query, mc, docs))
	if err != nil {
		e.logger.Warn("model completion failed", zap.Error(err))
		return fallbackResponse(query, err.Error()), false
	}
	resp, err := ParseResponse(content)
	if err != nil {
		e.logger.Warn("model output rejected", zap.Error(err))
		return fallbackResponse(query, err.Error()), false
	}
	return resp, true
}

// Query answers one diagnostic request end to end: retrieve, generate,
// record the case, and enrich the report with history the model could not
// know about. Fallback reports are returned untouched and are not recorded:
// a degraded-mode template says nothing about the machine, so keeping it
// would pollute historical_count and related-case labels.
func (e *Engine) Query(ctx context.Context, req *models.QueryRequest) *models.QueryResponse {
	docs := e.Retrieve(ctx, req.Query, e.topK)
	resp, fromModel := e.generate(ctx, req.Query, &req.MachineContext, docs)
	if !fromModel {
		return resp
	}
	e.enrich(ctx, req, resp)
	e.recordCase(ctx, req, resp)
	return resp
}

// enrich fills related_cases and historical_count from recorded history
// when the model left them empty.
func (e *Engine) enrich(ctx context.Context, req *models.QueryRequest, resp *models.QueryResponse) {
	if len(resp.RelatedCases) == 0 && e.caseIndex != nil {
		related, err := e.caseIndex.Search(ctx, req.Query, req.MachineContext.MachineType, e.topK)
		if err != nil {
			e.logger.Warn("related-case search failed", zap.Error(err))
		} else {
			labels := make([]string, 0, len(related))
			for _, r := range related {
				labels = append(labels, r.Label)
			}
			resp.RelatedCases = labels
		}
	}
	if resp.HistoricalCount == 0 {
		count, err := e.storage.CountCasesByMachineType(ctx, req.MachineContext.MachineType)
		if err != nil {
			e.logger.Warn("case count lookup failed", zap.Error(err))
		} else {
			resp.HistoricalCount = int(count)
		}
	}
}

// recordCase persists the query as a diagnostic case so future queries can
// reference it. Recording failures degrade history, not the response.
func (e *Engine) recordCase(ctx context.Context, req *models.QueryRequest, resp *models.QueryResponse) {
	c := &models.DiagnosticCase{
		ID:           uuid.New().String(),
		Query:        req.Query,
		MachineType:  req.MachineContext.MachineType,
		FaultType:    req.FaultType,
		IssueSummary: resp.IssueSummary,
	}
	if err := e.storage.CreateCase(ctx, c); err != nil {
		e.logger.Warn("failed to record case", zap.Error(err))
		return
	}
	if e.caseIndex != nil {
		if err := e.caseIndex.Add(ctx, c); err != nil {
			e.logger.Warn("failed to index case", zap.Error(err))
		}
	}
}
