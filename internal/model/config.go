package model

import "time"

// Config holds the complete FactSeeker configuration
type Config struct {
	Source    SourceConfig    `yaml:"source"`
	Detector  DetectorConfig  `yaml:"detector"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	LLM       LLMConfig       `yaml:"llm"`
	Alert     AlertConfig     `yaml:"alert"`
	Audit     AuditConfig     `yaml:"audit"`
	Store     StoreConfig     `yaml:"store"`
}

// SourceConfig configures content acquisition
type SourceConfig struct {
	// Provider name: "newsapi", "sample", "" (auto-select by credentials)
	Provider string `yaml:"provider"`

	// APIKey for NewsAPI (usually via NEWS_API_KEY)
	APIKey string `yaml:"api_key,omitempty"`

	// Query is the NewsAPI search query
	Query string `yaml:"query"`

	// Timeout for source requests
	Timeout time.Duration `yaml:"timeout"`

	// RequestsPerSecond limits outbound requests (NewsAPI free tier is strict)
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

// DetectorConfig configures suspicion scoring
type DetectorConfig struct {
	// UnscoredConfidence is the confidence assigned when no rule matches.
	// Must stay below the flag threshold.
	UnscoredConfidence float64 `yaml:"unscored_confidence"`
}

// RetrievalConfig configures evidence retrieval
type RetrievalConfig struct {
	// TopK is the number of evidence documents retrieved per claim
	TopK int `yaml:"top_k"`

	// CorpusPath points to a YAML corpus file; empty means built-in facts
	CorpusPath string `yaml:"corpus_path,omitempty"`
}

// EmbeddingConfig configures the text embedder
type EmbeddingConfig struct {
	// Provider name: "openai", "hashing", "" (auto-select by credentials)
	Provider string `yaml:"provider"`

	// Model name for remote embedders
	Model string `yaml:"model,omitempty"`

	// APIKey for OpenAI (usually via OPENAI_API_KEY)
	APIKey string `yaml:"api_key,omitempty"`

	// BaseURL for custom endpoints
	BaseURL string `yaml:"base_url,omitempty"`

	// Dimensions for the hashing embedder
	Dimensions int `yaml:"dimensions"`
}

// LLMConfig configures the reasoning service
type LLMConfig struct {
	// Provider name: "openai", "anthropic", "ollama", "" (disabled)
	Provider string `yaml:"provider"`

	// Model name (provider-specific)
	Model string `yaml:"model,omitempty"`

	// APIKey for OpenAI/Anthropic
	APIKey string `yaml:"api_key,omitempty"`

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string `yaml:"base_url,omitempty"`

	// Timeout for API requests, in seconds
	Timeout int `yaml:"timeout"`

	// MaxTokens for response generation
	MaxTokens int `yaml:"max_tokens"`

	// Temperature for response generation
	Temperature float32 `yaml:"temperature"`
}

// AlertConfig configures alert delivery
type AlertConfig struct {
	// Provider name: "log", "telegram"
	Provider string `yaml:"provider"`

	// TelegramToken is the bot token (usually via TELEGRAM_BOT_TOKEN)
	TelegramToken string `yaml:"telegram_token,omitempty"`

	// TelegramChatID is the destination chat
	TelegramChatID string `yaml:"telegram_chat_id,omitempty"`
}

// AuditConfig configures the explainability log
type AuditConfig struct {
	// Dir is the directory holding the day-partitioned JSONL files
	Dir string `yaml:"dir"`
}

// StoreConfig configures raw item storage
type StoreConfig struct {
	// TTL bounds how long raw items are kept in memory
	TTL time.Duration `yaml:"ttl"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Source: SourceConfig{
			Provider:          "",
			Query:             "health misinformation",
			Timeout:           15 * time.Second,
			RequestsPerSecond: 1,
		},
		Detector: DetectorConfig{
			UnscoredConfidence: 0.1,
		},
		Retrieval: RetrievalConfig{
			TopK: 2,
		},
		Embedding: EmbeddingConfig{
			Provider:   "",
			Dimensions: 256,
		},
		LLM: LLMConfig{
			Provider:    "", // Disabled by default; Verifier runs on its deterministic fallback
			Timeout:     30,
			MaxTokens:   200,
			Temperature: 0.3,
		},
		Alert: AlertConfig{
			Provider: "log",
		},
		Audit: AuditConfig{
			Dir: "logs",
		},
		Store: StoreConfig{
			TTL: 24 * time.Hour,
		},
	}
}
