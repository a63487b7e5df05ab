package alert

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/factseeker/factseeker/internal/model"
)

// NewSink creates the alert sink named by the configuration. Selected once
// at startup.
func NewSink(cfg model.AlertConfig, logger *zap.Logger) (AlertSink, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "log":
		return NewLogSink(logger), nil

	case "telegram":
		return NewTelegramSink(cfg.TelegramToken, cfg.TelegramChatID)

	default:
		return nil, fmt.Errorf("unknown alert sink: %s (supported: log, telegram)", cfg.Provider)
	}
}
