package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderGemini, config.Provider)
	assert.Equal(t, "gemini-2.5-flash", config.Model)
	assert.InDelta(t, 0.2, config.Temperature, 1e-6)
	assert.Equal(t, 30*time.Second, config.Timeout)
	assert.NoError(t, config.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "genai provider", mutate: func(c *Config) { c.Provider = ProviderGenAI }},
		{name: "unknown provider", mutate: func(c *Config) { c.Provider = "openai" }, wantErr: "unknown llm provider"},
		{name: "empty model", mutate: func(c *Config) { c.Model = "" }, wantErr: "model is required"},
		{name: "negative temperature", mutate: func(c *Config) { c.Temperature = -0.1 }, wantErr: "temperature"},
		{name: "temperature too high", mutate: func(c *Config) { c.Temperature = 2.5 }, wantErr: "temperature"},
		{name: "negative timeout", mutate: func(c *Config) { c.Timeout = -time.Second }, wantErr: "timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			err := config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWithModel(t *testing.T) {
	config := DefaultConfig()
	newConfig := config.WithModel("gemini-2.5-pro")

	assert.Equal(t, "gemini-2.5-flash", config.Model)
	assert.Equal(t, "gemini-2.5-pro", newConfig.Model)
	assert.Equal(t, config.Temperature, newConfig.Temperature)
}

func TestNewClient_MissingAPIKey(t *testing.T) {
	client, err := NewClient(context.Background(), DefaultConfig(), "")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
	assert.Nil(t, client)

	_, err = NewGeminiClient(context.Background(), DefaultConfig(), "")
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = NewGenAIClient(context.Background(), DefaultConfig(), "")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestNewClient_InvalidConfig(t *testing.T) {
	config := DefaultConfig()
	config.Provider = "anthropic"

	client, err := NewClient(context.Background(), config, "test-key")
	assert.Error(t, err)
	assert.Nil(t, client)
}
