// Package ai scores job descriptions with an LLM and turns the result into
// recruiter facing suggestions.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"vantahire/internal/domain"
)

const (
	DefaultModel   = "gpt-4o"
	maxSuggestions = 10
)

type Analysis struct {
	ClarityScore   int      `json:"clarity_score"`
	InclusionScore int      `json:"inclusion_score"`
	SEOScore       int      `json:"seo_score"`
	OverallScore   int      `json:"overall_score"`
	BiasFlags      []string `json:"bias_flags"`
	SEOKeywords    []string `json:"seo_keywords"`
	Suggestions    []string `json:"suggestions"`
	ModelVersion   string   `json:"model_version"`
}

// rawAnalysis mirrors the model output before clamping; scores may be fractional.
type rawAnalysis struct {
	ClarityScore   float64  `json:"clarity_score"`
	InclusionScore float64  `json:"inclusion_score"`
	SEOScore       float64  `json:"seo_score"`
	OverallScore   float64  `json:"overall_score"`
	BiasFlags      []string `json:"bias_flags"`
	SEOKeywords    []string `json:"seo_keywords"`
	Suggestions    []string `json:"suggestions"`
}

// Historical carries past performance used to blend the AI score.
type Historical struct {
	AverageViews      float64
	AverageConversion float64
}

type Analyzer struct {
	model     llms.Model
	modelName string
	timeout   time.Duration
}

func NewAnalyzer(model llms.Model, modelName string, timeout time.Duration) *Analyzer {
	if modelName == "" {
		modelName = DefaultModel
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Analyzer{model: model, modelName: modelName, timeout: timeout}
}

// NewOpenAIAnalyzer returns nil when no API key is configured.
func NewOpenAIAnalyzer(apiKey, modelName string, timeout time.Duration) (*Analyzer, error) {
	if apiKey == "" {
		return nil, nil
	}
	if modelName == "" {
		modelName = DefaultModel
	}
	llm, err := openai.New(openai.WithToken(apiKey), openai.WithModel(modelName))
	if err != nil {
		return nil, fmt.Errorf("failed to create openai client: %w", err)
	}
	return NewAnalyzer(llm, modelName, timeout), nil
}

func (a *Analyzer) ModelVersion() string {
	return a.modelName
}

const systemPrompt = "You are an HR consultant who reviews job descriptions. " +
	"Respond with a single JSON object and nothing else."

func buildPrompt(title, description string) string {
	var b strings.Builder
	b.WriteString("Rate this job posting for clarity, inclusive language and search visibility.\n\n")
	b.WriteString("Job Title: ")
	b.WriteString(title)
	b.WriteString("\nJob Description: ")
	b.WriteString(description)
	b.WriteString("\n\nReturn a JSON object with these keys:\n")
	b.WriteString("- clarity_score: 0-100, structure and readability of requirements\n")
	b.WriteString("- inclusion_score: 0-100, absence of gendered, age or culture biased wording\n")
	b.WriteString("- seo_score: 0-100, presence of industry, skill and location keywords\n")
	b.WriteString("- overall_score: 0-100, the mean of the three scores\n")
	b.WriteString("- bias_flags: array of biased words or phrases found in the text\n")
	b.WriteString("- seo_keywords: array of missing keywords worth adding\n")
	b.WriteString("- suggestions: array of concrete edits\n")
	return b.String()
}

// Analyze asks the model to score a job description. Errors wrap domain.ErrAIUnavailable.
func (a *Analyzer) Analyze(ctx context.Context, title, description string) (*Analysis, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, buildPrompt(title, description)),
	}

	resp, err := a.model.GenerateContent(ctx, messages,
		llms.WithModel(a.modelName),
		llms.WithTemperature(0.3),
		llms.WithMaxTokens(1000),
		llms.WithJSONMode(),
	)
	if err != nil {
		log.Error().Err(err).Msg("ai analysis request failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrAIUnavailable, err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty response", domain.ErrAIUnavailable)
	}

	analysis, err := a.parse(resp.Choices[0].Content)
	if err != nil {
		log.Error().Err(err).Msg("ai analysis response rejected")
		return nil, fmt.Errorf("%w: %v", domain.ErrAIUnavailable, err)
	}
	return analysis, nil
}

func (a *Analyzer) parse(content string) (*Analysis, error) {
	data := []byte(cleanJSON(content))
	if err := ValidateAnalysisJSON(data); err != nil {
		return nil, err
	}

	var raw rawAnalysis
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode analysis: %w", err)
	}

	return &Analysis{
		ClarityScore:   clampScore(raw.ClarityScore),
		InclusionScore: clampScore(raw.InclusionScore),
		SEOScore:       clampScore(raw.SEOScore),
		OverallScore:   clampScore(raw.OverallScore),
		BiasFlags:      nonNil(raw.BiasFlags),
		SEOKeywords:    nonNil(raw.SEOKeywords),
		Suggestions:    nonNil(raw.Suggestions),
		ModelVersion:   a.modelName,
	}, nil
}

// cleanJSON strips markdown code fences some models wrap around JSON output.
func cleanJSON(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func clampScore(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return int(math.Round(math.Max(0, math.Min(100, v))))
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Suggestions extends the model's suggestions with rule based hints, capped at ten.
func Suggestions(a *Analysis) []string {
	out := append([]string{}, a.Suggestions...)
	if a.ClarityScore < 70 {
		out = append(out, "Consider restructuring with clear sections: Overview, Requirements, Benefits")
	}
	if a.InclusionScore < 80 {
		out = append(out, "Review language for gender-neutral terms and inclusive phrasing")
	}
	if a.SEOScore < 70 {
		out = append(out, "Add more industry-specific keywords and location terms")
	}
	if len(a.BiasFlags) > 0 {
		out = append(out, "Address flagged terms: "+strings.Join(a.BiasFlags, ", "))
	}
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}

// Score weights the AI overall score at 70% and past performance at 30%.
// Without history the overall score is used as is.
func Score(a *Analysis, history *Historical) int {
	if history == nil {
		return clampScore(float64(a.OverallScore))
	}
	performance := math.Min(100, history.AverageViews/50*20+history.AverageConversion*2)
	return clampScore(float64(a.OverallScore)*0.7 + performance*0.3)
}

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 5000
)

// CheckInput validates analysis input before any provider call is made.
func CheckInput(title, description string) error {
	b := domain.NewValidationBuilder()
	b.String("title", title).NotEmpty().MaxLength(MaxTitleLength)
	b.String("description", description).NotEmpty().MaxLength(MaxDescriptionLength)
	return b.Build()
}
