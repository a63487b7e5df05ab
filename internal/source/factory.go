package source

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/factseeker/factseeker/internal/model"
)

// NewSource selects the content source once at startup: the live NewsAPI
// source when an API key is configured, the offline sample rotation
// otherwise. The choice is never re-checked per call.
func NewSource(cfg model.SourceConfig, logger *zap.Logger) (ContentSource, error) {
	switch strings.ToLower(cfg.Provider) {
	case "newsapi":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("NewsAPI key is required (set NEWS_API_KEY)")
		}
		return NewNewsAPISource(cfg.APIKey, cfg.Query, cfg.Timeout, cfg.RequestsPerSecond), nil

	case "sample":
		return NewSampleSource(), nil

	case "":
		if cfg.APIKey != "" {
			return NewNewsAPISource(cfg.APIKey, cfg.Query, cfg.Timeout, cfg.RequestsPerSecond), nil
		}
		logger.Info("no content source credentials configured, using sample source")
		return NewSampleSource(), nil

	default:
		return nil, fmt.Errorf("unknown content source: %s (supported: newsapi, sample)", cfg.Provider)
	}
}
