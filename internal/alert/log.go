package alert

import (
	"context"

	"go.uber.org/zap"

	"github.com/factseeker/factseeker/internal/model"
)

// LogSink writes alerts to the operational log. Default sink; always
// available.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a log-backed sink
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

// Name returns the sink name
func (s *LogSink) Name() string {
	return "log"
}

// Notify logs the alert
func (s *LogSink) Notify(_ context.Context, item model.ContentItem, result model.VerificationResult) error {
	s.logger.Warn("misinformation alert",
		zap.String("content_id", item.ID),
		zap.String("source", item.Source),
		zap.String("author", item.Author),
		zap.String("text", item.Text),
		zap.String("verdict", string(result.Verdict)),
		zap.String("explanation", result.Explanation))
	return nil
}
