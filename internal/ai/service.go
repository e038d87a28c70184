package ai

import (
	"context"
	stderrors "errors"
	"fmt"

	"resumine/internal/config"
	"resumine/internal/errors"
)

// Service routes each operation to the provider built from that
// operation's configuration. It implements Provider itself.
type Service struct {
	analyze   Provider
	screen    Provider
	questions Provider
	logger    *errors.Logger
}

var _ Provider = (*Service)(nil)

// NewService builds one provider per operation from cfg
func NewService(cfg *config.Config, logger *errors.Logger) (*Service, error) {
	providers := make(map[string]Provider, 3)
	for _, operation := range []string{config.OperationAnalyze, config.OperationScreen, config.OperationQuestions} {
		opCfg, _ := cfg.GetOperationConfig(operation)
		provider, err := NewProvider(&opCfg, operation, logger)
		if err != nil {
			return nil, err
		}
		providers[operation] = provider
	}

	return &Service{
		analyze:   providers[config.OperationAnalyze],
		screen:    providers[config.OperationScreen],
		questions: providers[config.OperationQuestions],
		logger:    logger,
	}, nil
}

// NewServiceWithProvider uses one provider for every operation
func NewServiceWithProvider(provider Provider, logger *errors.Logger) *Service {
	return &Service{analyze: provider, screen: provider, questions: provider, logger: logger}
}

// NewProvider creates the provider for one operation. A missing API key
// yields an UnavailableProvider instead of an error.
func NewProvider(cfg *config.OperationAIConfig, operation string, logger *errors.Logger) (Provider, error) {
	if cfg.APIKey == "" {
		logger.Debug("No AI API key configured, AI analysis disabled", "operation", operation)
		return NewUnavailableProvider(cfg.Model), nil
	}

	logger.Debug("Initializing AI provider",
		"provider", cfg.Provider,
		"operation", operation,
		"model", cfg.Model)

	switch cfg.Provider {
	case "gemini":
		provider, err := NewGeminiProvider(cfg, operation, logger)
		if err != nil {
			return nil, errors.NewAIError(errors.ErrCodeAIServiceFailed, "Failed to create AI provider", err)
		}
		return provider, nil
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported AI provider: %s", cfg.Provider), nil)
	}
}

func (s *Service) AnalyzeResume(ctx context.Context, resumeText string) (string, *TokenUsage, error) {
	return s.analyze.AnalyzeResume(ctx, resumeText)
}

func (s *Service) ScreenCandidate(ctx context.Context, candidateSummary, requirements string) (string, *TokenUsage, error) {
	return s.screen.ScreenCandidate(ctx, candidateSummary, requirements)
}

func (s *Service) GenerateInterviewQuestions(ctx context.Context, jobDescription, candidateSummary string) (string, *TokenUsage, error) {
	return s.questions.GenerateInterviewQuestions(ctx, jobDescription, candidateSummary)
}

// GetModelInfo reports the model used for resume analysis
func (s *Service) GetModelInfo(ctx context.Context) *ModelInfo {
	return s.analyze.GetModelInfo(ctx)
}

// Available reports whether resume analysis reaches a real model
func (s *Service) Available() bool {
	_, unavailable := s.analyze.(*UnavailableProvider)
	return !unavailable
}

// CircuitBreakerStats collects breaker statistics per operation
func (s *Service) CircuitBreakerStats() map[string]any {
	stats := make(map[string]any, 3)
	for name, provider := range map[string]Provider{
		config.OperationAnalyze:   s.analyze,
		config.OperationScreen:    s.screen,
		config.OperationQuestions: s.questions,
	} {
		if g, ok := provider.(*GeminiProvider); ok {
			stats[name] = g.GetCircuitBreakerStats()
		}
	}
	return stats
}

// Close closes every distinct provider
func (s *Service) Close() error {
	var errs []error
	seen := make(map[Provider]bool, 3)
	for _, provider := range []Provider{s.analyze, s.screen, s.questions} {
		if seen[provider] {
			continue
		}
		seen[provider] = true
		if err := provider.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}
