package embed

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/factseeker/factseeker/internal/model"
)

// NewEmbedder selects the embedding implementation once at startup: the
// OpenAI embedder when an API key is configured, the deterministic hashing
// embedder otherwise. The choice is never re-checked per call.
func NewEmbedder(cfg model.EmbeddingConfig, logger *zap.Logger) (Embedder, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return NewOpenAIEmbedder(cfg)

	case "hashing":
		return NewHashingEmbedder(cfg.Dimensions), nil

	case "":
		if cfg.APIKey != "" {
			return NewOpenAIEmbedder(cfg)
		}
		logger.Info("no embedding credentials configured, using hashing embedder")
		return NewHashingEmbedder(cfg.Dimensions), nil

	default:
		return nil, fmt.Errorf("unknown embedding provider: %s (supported: openai, hashing)", cfg.Provider)
	}
}
