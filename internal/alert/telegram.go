package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/factseeker/factseeker/internal/model"
)

// TelegramSink delivers alerts through the Telegram Bot API
type TelegramSink struct {
	token      string
	chatID     string
	baseURL    string
	httpClient *http.Client
}

type telegramMessage struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
}

// NewTelegramSink creates a Telegram-backed sink
func NewTelegramSink(token, chatID string) (*TelegramSink, error) {
	if token == "" {
		return nil, fmt.Errorf("Telegram bot token is required")
	}
	if chatID == "" {
		return nil, fmt.Errorf("Telegram chat id is required")
	}

	return &TelegramSink{
		token:   token,
		chatID:  chatID,
		baseURL: "https://api.telegram.org",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Name returns the sink name
func (s *TelegramSink) Name() string {
	return "telegram"
}

// Notify sends the alert via sendMessage
func (s *TelegramSink) Notify(ctx context.Context, item model.ContentItem, result model.VerificationResult) error {
	payload, err := json.Marshal(telegramMessage{
		ChatID: s.chatID,
		Text:   FormatAlert(item, result),
	})
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", s.baseURL, s.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var apiResp telegramResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	if !apiResp.OK {
		if apiResp.Description != "" {
			return fmt.Errorf("Telegram API error (%d): %s", resp.StatusCode, apiResp.Description)
		}
		return fmt.Errorf("Telegram API error: HTTP %d", resp.StatusCode)
	}

	return nil
}
