package llm

import (
	"context"
	"fmt"

	genaisdk "google.golang.org/genai"
)

// GenAIClient implements Client with the google.golang.org/genai SDK.
// Unlike GeminiClient it passes numeric bounds and property ordering through.
type GenAIClient struct {
	client *genaisdk.Client
	config *Config
}

// NewGenAIClient creates a client against the Gemini API backend
func NewGenAIClient(ctx context.Context, config *Config, apiKey string) (*GenAIClient, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	client, err := genaisdk.NewClient(ctx, &genaisdk.ClientConfig{
		APIKey:  apiKey,
		Backend: genaisdk.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GenAIClient{client: client, config: config}, nil
}

// GenerateStructured runs a JSON-mode generation constrained by req.Schema
func (c *GenAIClient) GenerateStructured(ctx context.Context, req StructuredRequest) (string, error) {
	cfg := &genaisdk.GenerateContentConfig{
		Temperature:      genaisdk.Ptr(req.Temperature),
		ResponseMIMEType: "application/json",
	}
	if req.Schema != nil {
		cfg.ResponseSchema = toGenAISchema(req.Schema)
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.config.Model, genaisdk.Text(req.Prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("no text parts in response")
	}
	return text, nil
}

// Model returns the configured model name
func (c *GenAIClient) Model() string {
	return c.config.Model
}

// Close is a no-op; the SDK client holds no closable resources
func (c *GenAIClient) Close() error {
	return nil
}

func toGenAISchema(s *Schema) *genaisdk.Schema {
	out := &genaisdk.Schema{
		Type:             genAIType(s.Type),
		Description:      s.Description,
		Enum:             s.Enum,
		Required:         s.Required,
		PropertyOrdering: s.PropertyOrdering,
		Minimum:          s.Minimum,
		Maximum:          s.Maximum,
	}
	if s.Items != nil {
		out.Items = toGenAISchema(s.Items)
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genaisdk.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGenAISchema(prop)
		}
	}
	return out
}

func genAIType(t SchemaType) genaisdk.Type {
	switch t {
	case TypeObject:
		return genaisdk.TypeObject
	case TypeArray:
		return genaisdk.TypeArray
	case TypeString:
		return genaisdk.TypeString
	case TypeInteger:
		return genaisdk.TypeInteger
	case TypeNumber:
		return genaisdk.TypeNumber
	case TypeBoolean:
		return genaisdk.TypeBoolean
	default:
		return genaisdk.TypeUnspecified
	}
}
