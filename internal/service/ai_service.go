package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"vantahire/internal/ai"
	"vantahire/internal/domain"
)

// Analyzer is satisfied by *ai.Analyzer.
type Analyzer interface {
	Analyze(ctx context.Context, title, description string) (*ai.Analysis, error)
	ModelVersion() string
}

type JobAnalysis struct {
	ClarityScore      int       `json:"clarity_score"`
	InclusionScore    int       `json:"inclusion_score"`
	SEOScore          int       `json:"seo_score"`
	OverallScore      int       `json:"overall_score"`
	BiasFlags         []string  `json:"bias_flags"`
	SEOKeywords       []string  `json:"seo_keywords"`
	Suggestions       []string  `json:"suggestions"`
	ModelVersion      string    `json:"model_version"`
	AnalysisTimestamp time.Time `json:"analysis_timestamp"`
}

type JobScore struct {
	Score        int       `json:"score"`
	OverallScore int       `json:"overall_score"`
	HasHistory   bool      `json:"has_history"`
	ModelVersion string    `json:"model_version"`
	ScoredAt     time.Time `json:"scored_at"`
}

type AIService interface {
	Enabled() bool
	Analyze(ctx context.Context, title, description string) (*JobAnalysis, error)
	Score(ctx context.Context, title, description string, jobID *int64) (*JobScore, error)
}

type aiService struct {
	analyzer      Analyzer
	analyticsRepo domain.AnalyticsRepository
}

// NewAIService accepts a nil analyzer; every call then fails with domain.ErrAIDisabled.
func NewAIService(analyzer Analyzer, analyticsRepo domain.AnalyticsRepository) AIService {
	return &aiService{analyzer: analyzer, analyticsRepo: analyticsRepo}
}

func (s *aiService) Enabled() bool {
	return s.analyzer != nil
}

func (s *aiService) Analyze(ctx context.Context, title, description string) (*JobAnalysis, error) {
	if !s.Enabled() {
		return nil, domain.ErrAIDisabled
	}
	if err := ai.CheckInput(title, description); err != nil {
		return nil, err
	}

	analysis, err := s.analyzer.Analyze(ctx, title, description)
	if err != nil {
		return nil, err
	}

	return &JobAnalysis{
		ClarityScore:      analysis.ClarityScore,
		InclusionScore:    analysis.InclusionScore,
		SEOScore:          analysis.SEOScore,
		OverallScore:      analysis.OverallScore,
		BiasFlags:         analysis.BiasFlags,
		SEOKeywords:       analysis.SEOKeywords,
		Suggestions:       ai.Suggestions(analysis),
		ModelVersion:      analysis.ModelVersion,
		AnalysisTimestamp: time.Now().UTC(),
	}, nil
}

func (s *aiService) Score(ctx context.Context, title, description string, jobID *int64) (*JobScore, error) {
	if !s.Enabled() {
		return nil, domain.ErrAIDisabled
	}
	if err := ai.CheckInput(title, description); err != nil {
		return nil, err
	}

	var history *ai.Historical
	if jobID != nil {
		stats, err := s.analyticsRepo.Get(ctx, *jobID)
		if err != nil {
			return nil, fmt.Errorf("failed to load job analytics: %w", err)
		}
		if stats != nil && stats.Views > 0 {
			history = &ai.Historical{
				AverageViews:      float64(stats.Views),
				AverageConversion: stats.ConversionRate,
			}
		}
	}

	analysis, err := s.analyzer.Analyze(ctx, title, description)
	if err != nil {
		return nil, err
	}
	score := ai.Score(analysis, history)

	if jobID != nil {
		if err := s.analyticsRepo.SaveAIScore(ctx, *jobID, score, analysis.ModelVersion); err != nil {
			log.Warn().Err(err).Int64("job_id", *jobID).Msg("failed to cache ai score")
		}
	}

	return &JobScore{
		Score:        score,
		OverallScore: analysis.OverallScore,
		HasHistory:   history != nil,
		ModelVersion: analysis.ModelVersion,
		ScoredAt:     time.Now().UTC(),
	}, nil
}
