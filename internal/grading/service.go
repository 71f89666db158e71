package grading

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/prompts"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/types"
)

// Defaults applied by NewService for zero Options fields
const (
	DefaultTimeout     = llm.DefaultTimeout
	DefaultTemperature = llm.DefaultTemperature
)

func score(description string) *llm.Schema {
	return &llm.Schema{
		Type:        llm.TypeInteger,
		Description: description,
		Minimum:     llm.Bound(types.MinScore),
		Maximum:     llm.Bound(types.MaxScore),
	}
}

// ResponseSchema is the response contract sent with every grading call.
// It does not depend on the resume being graded.
var ResponseSchema = &llm.Schema{
	Type: llm.TypeObject,
	Properties: map[string]*llm.Schema{
		"overallScore": score("Overall resume score out of 100."),
		"categoryScores": {
			Type: llm.TypeObject,
			Properties: map[string]*llm.Schema{
				"atsCompatibility": score("Keyword density and machine parseability."),
				"contentQuality":   score("Action verbs and quantified achievements."),
				"formattingDesign": score("Clarity and logical grouping."),
				"completeness":     score("Presence of contact, education, skills and experience."),
			},
			PropertyOrdering: []string{"atsCompatibility", "contentQuality", "formattingDesign", "completeness"},
			Required:         []string{"atsCompatibility", "contentQuality", "formattingDesign", "completeness"},
		},
		"suggestions": {
			Type:        llm.TypeArray,
			Description: "Improvement suggestions, most important first.",
			Items: &llm.Schema{
				Type: llm.TypeObject,
				Properties: map[string]*llm.Schema{
					"priority": {
						Type: llm.TypeString,
						Enum: []string{string(types.PriorityHigh), string(types.PriorityMedium), string(types.PriorityLow)},
					},
					"area": {Type: llm.TypeString, Description: "Resume section the suggestion applies to."},
					"text": {Type: llm.TypeString, Description: "The actionable suggestion."},
				},
				PropertyOrdering: []string{"priority", "area", "text"},
				Required:         []string{"priority", "area", "text"},
			},
		},
		"enhancedContent": {
			Type:        llm.TypeString,
			Description: "A short rewritten professional summary.",
		},
	},
	PropertyOrdering: []string{"overallScore", "categoryScores", "suggestions", "enhancedContent"},
	Required:         []string{"overallScore", "categoryScores", "suggestions", "enhancedContent"},
}

var (
	responseValidator = schemas.MustCompile("grade-result", ResponseSchema.JSONSchema())
	gradePrompt       = prompts.MustParse("grading.json", "grade-resume")
)

// Options configures a Service
type Options struct {
	// Timeout bounds the provider call (default 30s)
	Timeout time.Duration
	// Temperature is the decoding temperature; nil means DefaultTemperature.
	// Zero is passed through for deterministic decoding.
	Temperature *float32
}

// Service grades resumes. It holds no per-request state and is safe for
// concurrent use.
type Service struct {
	client      llm.Client
	timeout     time.Duration
	temperature float32
}

// NewService creates a grading service. A nil client yields a service whose
// Grade always fails with ConfigurationError.
func NewService(client llm.Client, opts Options) *Service {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	temperature := float32(DefaultTemperature)
	if opts.Temperature != nil {
		temperature = *opts.Temperature
	}
	return &Service{
		client:      client,
		timeout:     opts.Timeout,
		temperature: temperature,
	}
}

// Enabled reports whether the service has a client to call
func (s *Service) Enabled() bool {
	return s.client != nil
}

// Model returns the model name, or "" when disabled
func (s *Service) Model() string {
	if s.client == nil {
		return ""
	}
	return s.client.Model()
}

// Grade builds the prompt for resume, makes exactly one provider call and
// returns the validated result. The resume is not modified.
func (s *Service) Grade(ctx context.Context, resume types.ResumeDocument) (*types.GradeResult, error) {
	if s.client == nil {
		return nil, &ConfigurationError{Message: "GEMINI_API_KEY is not configured"}
	}
	log := zerolog.Ctx(ctx)

	prompt, err := BuildPrompt(resume)
	if err != nil {
		return nil, err
	}

	// In-flight calls are not cancellable; only the timeout ends them early.
	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	start := time.Now()
	raw, err := s.client.GenerateStructured(callCtx, llm.StructuredRequest{
		Prompt:      prompt,
		Schema:      ResponseSchema,
		Temperature: s.temperature,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			log.Warn().Dur("timeout", s.timeout).Msg("grading call timed out")
			return nil, &TimeoutError{Timeout: s.timeout}
		}
		log.Error().Err(err).Str("model", s.client.Model()).Msg("grading call failed")
		return nil, &ProviderError{
			Message: "LLM call failed",
			Detail:  err.Error(),
			Cause:   err,
		}
	}
	log.Debug().Dur("elapsed", time.Since(start)).Int("response_bytes", len(raw)).Msg("grading call completed")

	return ParseResponse(raw)
}

// BuildPrompt renders the grading prompt for a normalized copy of resume
func BuildPrompt(resume types.ResumeDocument) (string, error) {
	doc := resume.Clone()
	doc.Normalize()

	resumeJSON, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize resume: %w", err)
	}
	return gradePrompt.Render(map[string]string{"ResumeJSON": string(resumeJSON)})
}

// ParseResponse turns raw provider text into a GradeResult. Text that is not a
// JSON object is a SchemaViolationError; an object that breaks the response
// contract is a ValidationError.
func ParseResponse(raw string) (*types.GradeResult, error) {
	cleaned := llm.CleanJSONBlock(raw)
	if strings.TrimSpace(cleaned) == "" {
		return nil, &SchemaViolationError{Message: "empty response", Raw: raw}
	}

	var decoded any
	if err := json.Unmarshal([]byte(cleaned), &decoded); err != nil {
		return nil, &SchemaViolationError{Message: "response is not valid JSON", Raw: raw, Cause: err}
	}
	if _, ok := decoded.(map[string]any); !ok {
		return nil, &SchemaViolationError{Message: "response is not a JSON object", Raw: raw}
	}

	if err := responseValidator.ValidateBytes([]byte(cleaned)); err != nil {
		var schemaErr *schemas.ValidationError
		if errors.As(err, &schemaErr) {
			return nil, toValidationError(schemaErr)
		}
		return nil, &SchemaViolationError{Message: "response could not be checked", Raw: raw, Cause: err}
	}

	// The validator accepts integral numbers such as 85.0, which encoding/json
	// refuses to decode into an int.
	var wire wireResult
	if err := json.Unmarshal([]byte(cleaned), &wire); err != nil {
		return nil, &SchemaViolationError{Message: "failed to decode grade result", Raw: raw, Cause: err}
	}
	return wire.result(), nil
}

type wireScores struct {
	ATSCompatibility float64 `json:"atsCompatibility"`
	ContentQuality   float64 `json:"contentQuality"`
	FormattingDesign float64 `json:"formattingDesign"`
	Completeness     float64 `json:"completeness"`
}

type wireResult struct {
	OverallScore    float64            `json:"overallScore"`
	CategoryScores  wireScores         `json:"categoryScores"`
	Suggestions     []types.Suggestion `json:"suggestions"`
	EnhancedContent string             `json:"enhancedContent"`
}

func (w wireResult) result() *types.GradeResult {
	suggestions := w.Suggestions
	if suggestions == nil {
		suggestions = []types.Suggestion{}
	}
	return &types.GradeResult{
		OverallScore: int(w.OverallScore),
		CategoryScores: types.CategoryScores{
			ATSCompatibility: int(w.CategoryScores.ATSCompatibility),
			ContentQuality:   int(w.CategoryScores.ContentQuality),
			FormattingDesign: int(w.CategoryScores.FormattingDesign),
			Completeness:     int(w.CategoryScores.Completeness),
		},
		Suggestions:     suggestions,
		EnhancedContent: w.EnhancedContent,
	}
}

func toValidationError(err *schemas.ValidationError) *ValidationError {
	out := &ValidationError{Errors: make([]FieldError, 0, len(err.Errors))}
	for _, fe := range err.Errors {
		out.Errors = append(out.Errors, FieldError{Field: fe.Field, Message: fe.Message})
	}
	return out
}
