package reason

import (
	"fmt"
	"strings"
)

// NewReasoner creates a reasoning provider based on configuration. The
// selection happens once at startup; an empty provider returns nil (live
// reasoning disabled, the Verifier runs on its deterministic fallback).
func NewReasoner(config Config) (Reasoner, error) {
	provider := strings.ToLower(config.Provider)

	switch provider {
	case "openai":
		return NewOpenAIReasoner(config)

	case "anthropic", "claude":
		return NewAnthropicReasoner(config)

	case "ollama":
		return NewOllamaReasoner(config)

	case "":
		// No provider configured - return nil (reasoning disabled)
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown reasoning provider: %s (supported: openai, anthropic, ollama)", config.Provider)
	}
}
