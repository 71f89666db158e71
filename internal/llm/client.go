package llm

import (
	"context"
	"errors"
)

// ErrMissingAPIKey is returned by NewClient when no credential is configured
var ErrMissingAPIKey = errors.New("LLM API key is required")

// StructuredRequest is a single schema-constrained generation call
type StructuredRequest struct {
	Prompt      string
	Schema      *Schema
	Temperature float32
}

// Client is an abstraction over LLM providers
type Client interface {
	// GenerateStructured returns the raw response text of a JSON-mode call
	// constrained by req.Schema. The text is not parsed.
	GenerateStructured(ctx context.Context, req StructuredRequest) (string, error)
	// Model returns the model name requests are sent to
	Model() string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a client for the configured provider.
// No SDK client is constructed when apiKey is empty.
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Provider {
	case ProviderGenAI:
		return NewGenAIClient(ctx, config, apiKey)
	default:
		return NewGeminiClient(ctx, config, apiKey)
	}
}
