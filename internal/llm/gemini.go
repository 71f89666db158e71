package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiClient implements Client with the generative-ai-go SDK
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
	}, nil
}

// GenerateStructured runs a JSON-mode generation constrained by req.Schema
func (c *GeminiClient) GenerateStructured(ctx context.Context, req StructuredRequest) (string, error) {
	model := c.client.GenerativeModel(c.config.Model)
	model.SetTemperature(req.Temperature)
	model.ResponseMIMEType = "application/json"
	if req.Schema != nil {
		model.ResponseSchema = toGeminiSchema(req.Schema)
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return extractTextFromResponse(resp)
}

// Model returns the configured model name
func (c *GeminiClient) Model() string {
	return c.config.Model
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// toGeminiSchema converts a Schema to the SDK's schema type.
// The SDK has no numeric bounds, so Minimum/Maximum are folded into the description.
func toGeminiSchema(s *Schema) *genai.Schema {
	out := &genai.Schema{
		Type:        geminiType(s.Type),
		Description: describeBounds(s),
		Enum:        s.Enum,
		Required:    s.Required,
	}
	if s.Items != nil {
		out.Items = toGeminiSchema(s.Items)
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGeminiSchema(prop)
		}
	}
	return out
}

func geminiType(t SchemaType) genai.Type {
	switch t {
	case TypeObject:
		return genai.TypeObject
	case TypeArray:
		return genai.TypeArray
	case TypeString:
		return genai.TypeString
	case TypeInteger:
		return genai.TypeInteger
	case TypeNumber:
		return genai.TypeNumber
	case TypeBoolean:
		return genai.TypeBoolean
	default:
		return genai.TypeUnspecified
	}
}

func describeBounds(s *Schema) string {
	if s.Minimum == nil && s.Maximum == nil {
		return s.Description
	}
	var bounds string
	switch {
	case s.Minimum != nil && s.Maximum != nil:
		bounds = fmt.Sprintf("Range %g-%g.", *s.Minimum, *s.Maximum)
	case s.Minimum != nil:
		bounds = fmt.Sprintf("Minimum %g.", *s.Minimum)
	default:
		bounds = fmt.Sprintf("Maximum %g.", *s.Maximum)
	}
	if s.Description == "" {
		return bounds
	}
	return s.Description + " " + bounds
}

// extractTextFromResponse extracts text from Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response (finish reason: %s)", candidate.FinishReason)
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}
