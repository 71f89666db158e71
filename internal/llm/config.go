// Package llm provides a provider-neutral client for schema-constrained
// (structured JSON) generation, with Gemini implementations.
package llm

import (
	"fmt"
	"time"
)

// Provider represents an LLM provider SDK
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini uses the github.com/google/generative-ai-go SDK
	ProviderGemini Provider = "gemini"
	// ProviderGenAI uses the google.golang.org/genai SDK
	ProviderGenAI Provider = "genai"
)

// Defaults used by DefaultConfig
const (
	DefaultModel       = "gemini-2.5-flash"
	DefaultTemperature = 0.2
	DefaultTimeout     = 30 * time.Second
)

// Config holds the model configuration for the application
type Config struct {
	Provider    Provider      `yaml:"provider"`
	Model       string        `yaml:"model"`
	Temperature float32       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
}

// DefaultConfig returns the default Gemini configuration.
// Temperature is low so scores stay comparable run to run.
func DefaultConfig() *Config {
	return &Config{
		Provider:    ProviderGemini,
		Model:       DefaultModel,
		Temperature: DefaultTemperature,
		Timeout:     DefaultTimeout,
	}
}

// Validate checks provider and decoding settings
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderGemini, ProviderGenAI:
	default:
		return fmt.Errorf("unknown llm provider %q", c.Provider)
	}
	if c.Model == "" {
		return fmt.Errorf("llm model is required")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("llm temperature must be within [0, 2], got %v", c.Temperature)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("llm timeout must be non-negative")
	}
	return nil
}

// WithModel returns a copy of the config using model
func (c *Config) WithModel(model string) *Config {
	out := *c
	out.Model = model
	return &out
}
