package embedding

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/oritsune/naosu/internal/config"
)

// NewEmbedder constructs the configured embedding provider. When the
// configured provider cannot initialize (missing ONNX runtime, missing API
// key), it falls back to the deterministic mock so ingestion and querying
// still run in one shared vector space; the fallback is logged.
func NewEmbedder(cfg *config.EmbeddingConfig, logger *zap.Logger) Embedder {
	embedder, err := newProvider(cfg)
	if err != nil {
		if logger != nil {
			logger.Warn("embedding provider unavailable, using deterministic mock",
				zap.String("provider", cfg.Provider),
				zap.Error(err))
		}
		return NewMockEmbedder(cfg.Dimensions)
	}
	return embedder
}

func newProvider(cfg *config.EmbeddingConfig) (Embedder, error) {
	switch cfg.Provider {
	case "onnx", "":
		e, err := NewONNXEmbedder(cfg.ModelPath, cfg.Dimensions, cfg.MaxTokens, cfg.CacheSize)
		if err != nil {
			return nil, err
		}
		return e, nil
	case "openai":
		e, err := NewOpenAIEmbedder(cfg.BaseURL, cfg.APIKeyEnv, cfg.Model, cfg.Dimensions, cfg.CacheSize)
		if err != nil {
			return nil, err
		}
		return e, nil
	case "mock":
		return NewMockEmbedder(cfg.Dimensions), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q (supported: onnx, openai, mock)", cfg.Provider)
	}
}
