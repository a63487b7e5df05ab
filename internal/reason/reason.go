package reason

import (
	"context"
	"errors"

	"github.com/factseeker/factseeker/internal/model"
)

// Sentinel errors for the Verifier's fallback policy. Both degrade a cycle
// to the deterministic UNCERTAIN verdict, never abort it.
var (
	// ErrUnavailable indicates a network, auth, or malformed-response failure
	ErrUnavailable = errors.New("reasoner unavailable")

	// ErrTimeout indicates the request exceeded its bound
	ErrTimeout = errors.New("reasoner timed out")
)

// Reasoner defines the interface for reasoning providers
type Reasoner interface {
	// Name returns the provider name
	Name() string

	// Generate produces raw text for the prompt. Errors wrap ErrUnavailable
	// or ErrTimeout.
	Generate(ctx context.Context, prompt string, maxTokens int, temperature float32) (string, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// Config holds reasoning provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider: "", // Disabled by default
		Timeout:  30,
	}
}

// ConfigFromModel converts model.LLMConfig to reason.Config
func ConfigFromModel(cfg model.LLMConfig) Config {
	return Config{
		Provider: cfg.Provider,
		Model:    cfg.Model,
		APIKey:   cfg.APIKey,
		BaseURL:  cfg.BaseURL,
		Timeout:  cfg.Timeout,
	}
}
