package ai

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"math/big"
	"net"
	"net/http"
	"strings"
	"time"

	"resumine/internal/config"
	appErrors "resumine/internal/errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

const (
	modelCheckTimeout = 10 * time.Second
	maxBackoff        = 30 * time.Second
)

type generateFunc func(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

type modelFunc func(ctx context.Context, model string) (*genai.Model, error)

// GeminiProvider implements Provider for Google Gemini. Each provider is
// built from one operation's resolved configuration.
type GeminiProvider struct {
	generate       generateFunc
	getModel       modelFunc
	operation      string
	config         *config.OperationAIConfig
	circuitBreaker *AICircuitBreaker
	modelBreaker   *ModelCircuitBreaker
	retryBaseDelay time.Duration
	logger         *appErrors.Logger
}

var _ Provider = (*GeminiProvider)(nil)

// NewGeminiProvider creates a Gemini provider for one operation
func NewGeminiProvider(cfg *config.OperationAIConfig, operation string, logger *appErrors.Logger) (*GeminiProvider, error) {
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, appErrors.NewAIError(appErrors.ErrCodeAIServiceFailed,
			"Failed to create Gemini client", err)
	}

	return newGeminiProvider(cfg, operation, logger,
		client.Models.GenerateContent,
		func(ctx context.Context, model string) (*genai.Model, error) {
			return client.Models.Get(ctx, model, &genai.GetModelConfig{})
		}), nil
}

func newGeminiProvider(cfg *config.OperationAIConfig, operation string, logger *appErrors.Logger, generate generateFunc, getModel modelFunc) *GeminiProvider {
	return &GeminiProvider{
		generate:       generate,
		getModel:       getModel,
		operation:      operation,
		config:         cfg,
		circuitBreaker: NewAICircuitBreaker(operation, cfg, logger),
		modelBreaker:   NewModelCircuitBreaker(operation, cfg, logger),
		retryBaseDelay: time.Second,
		logger:         logger,
	}
}

// AnalyzeResume asks the model for a structured analysis of the resume text
func (g *GeminiProvider) AnalyzeResume(ctx context.Context, resumeText string) (string, *TokenUsage, error) {
	prompt := fmt.Sprintf(g.userPrompt(config.OperationAnalyze), resumeText)
	return g.generateText(ctx, "analyze_resume", prompt,
		attribute.Int("input.resume_length", len(resumeText)))
}

// ScreenCandidate asks the model to assess a candidate summary against requirements
func (g *GeminiProvider) ScreenCandidate(ctx context.Context, candidateSummary, requirements string) (string, *TokenUsage, error) {
	prompt := fmt.Sprintf(g.userPrompt(config.OperationScreen), candidateSummary, requirements)
	return g.generateText(ctx, "screen_candidate", prompt,
		attribute.Int("input.summary_length", len(candidateSummary)),
		attribute.Int("input.requirements_length", len(requirements)))
}

// GenerateInterviewQuestions asks the model for questions tailored to a job and candidate
func (g *GeminiProvider) GenerateInterviewQuestions(ctx context.Context, jobDescription, candidateSummary string) (string, *TokenUsage, error) {
	prompt := fmt.Sprintf(g.userPrompt(config.OperationQuestions), jobDescription, candidateSummary)
	return g.generateText(ctx, "generate_interview_questions", prompt,
		attribute.Int("input.job_length", len(jobDescription)),
		attribute.Int("input.summary_length", len(candidateSummary)))
}

// userPrompt returns the configured template when this provider was built
// for the requested operation.
func (g *GeminiProvider) userPrompt(operation string) string {
	if operation == g.operation {
		return resolvePrompt(g.config.Prompts.User, defaultUserPrompt(operation))
	}
	return defaultUserPrompt(operation)
}

func (g *GeminiProvider) systemPrompt() string {
	return resolvePrompt(g.config.Prompts.System, DefaultSystemPrompt)
}

func (g *GeminiProvider) contentConfig() *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}
	if g.config.UseSystemPrompts == nil || *g.config.UseSystemPrompts {
		cfg.SystemInstruction = genai.NewContentFromText(g.systemPrompt(), genai.RoleUser)
	}
	if g.config.Temperature != nil && *g.config.Temperature > 0 {
		cfg.Temperature = g.config.Temperature
	}
	if g.config.MaxOutputTokens != nil && *g.config.MaxOutputTokens > 0 {
		cfg.MaxOutputTokens = *g.config.MaxOutputTokens
	}
	return cfg
}

// generateText runs one prompt through tracing, the circuit breaker, the
// per-call timeout and retries.
func (g *GeminiProvider) generateText(ctx context.Context, operationName, userPrompt string, spanAttributes ...attribute.KeyValue) (string, *TokenUsage, error) {
	tracer := otel.Tracer("resumine.ai.gemini")
	ctx, span := tracer.Start(ctx, "gemini."+operationName)
	defer span.End()

	span.SetAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", g.config.Model),
	)
	if g.config.Temperature != nil {
		span.SetAttributes(attribute.Float64("ai.temperature", float64(*g.config.Temperature)))
	}
	span.SetAttributes(spanAttributes...)

	if g.config.Timeout != nil && *g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *g.config.Timeout)
		defer cancel()
	}

	contentCfg := g.contentConfig()
	result, err := g.circuitBreaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return g.executeWithRetry(ctx, operationName, func() (*genai.GenerateContentResponse, error) {
			return g.generate(ctx, g.config.Model, genai.Text(userPrompt), contentCfg)
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		code := appErrors.ErrCodeAIServiceFailed
		if errors.Is(err, context.DeadlineExceeded) {
			code = appErrors.ErrCodeAITimeout
		}
		return "", nil, appErrors.NewAIError(code, "Failed to generate content for "+operationName, err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		err := appErrors.NewAIError(appErrors.ErrCodeAIServiceFailed, "Empty response for "+operationName, nil)
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return "", nil, err
	}

	tokenUsage := extractTokenUsage(result)
	if tokenUsage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", tokenUsage.InputTokens),
			attribute.Int64("ai.tokens.output", tokenUsage.OutputTokens),
			attribute.Int64("ai.tokens.total", tokenUsage.TotalTokens),
		)
	}

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("output.length", len(text)),
	)
	return text, tokenUsage, nil
}

// executeWithRetry executes an AI operation with retry logic and exponential backoff
func (g *GeminiProvider) executeWithRetry(ctx context.Context, operation string, fn func() (*genai.GenerateContentResponse, error)) (*genai.GenerateContentResponse, error) {
	maxRetries := 0
	if g.config.MaxRetries != nil {
		maxRetries = *g.config.MaxRetries
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			g.logger.Warn("Retrying AI operation",
				"operation", operation,
				"attempt", attempt,
				"max_retries", maxRetries,
				"error", lastErr.Error())

			select {
			case <-time.After(g.backoff(attempt)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, err := fn()
		if err == nil {
			if attempt > 0 {
				g.logger.Info("AI operation succeeded after retry",
					"operation", operation,
					"total_attempts", attempt+1)
			}
			return result, nil
		}

		lastErr = err
		if !isRetryableError(err) {
			g.logger.Debug("Error is not retryable, stopping retry attempts",
				"operation", operation,
				"error", err.Error())
			break
		}
	}

	g.logger.LogError(lastErr, "AI operation failed after all retry attempts",
		"operation", operation,
		"total_attempts", maxRetries+1)

	return nil, fmt.Errorf("operation '%s' failed after %d retries: %w", operation, maxRetries, lastErr)
}

// backoff is exponential in the attempt number with up to 10% jitter
func (g *GeminiProvider) backoff(attempt int) time.Duration {
	baseDelay := time.Duration(math.Pow(2, float64(attempt-1))) * g.retryBaseDelay
	var jitter time.Duration
	if jitterMax := int64(float64(baseDelay) * 0.1); jitterMax > 0 {
		if n, err := rand.Int(rand.Reader, big.NewInt(jitterMax)); err == nil {
			jitter = time.Duration(n.Int64())
		}
	}
	return min(baseDelay+jitter, maxBackoff)
}

// isRetryableError reports network failures and throttling or server-side
// API errors. Everything else (auth, bad input) fails immediately.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	return false
}

// GetModelInfo checks the readiness and availability of the configured model
func (g *GeminiProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	modelInfo := &ModelInfo{Name: g.config.Model}

	checkCtx, cancel := context.WithTimeout(ctx, modelCheckTimeout)
	defer cancel()

	model, err := g.modelBreaker.ExecuteModel(func() (*genai.Model, error) {
		return g.getModel(checkCtx, g.config.Model)
	})
	if err != nil {
		modelInfo.Error = fmt.Sprintf("Failed to get model info: %v", err)
		g.logger.Warn("Model availability check failed",
			"model", g.config.Model,
			"operation", g.operation,
			"error", err.Error())
		return modelInfo
	}

	modelInfo.Available = true
	modelInfo.DisplayName = model.DisplayName
	modelInfo.Version = model.Version
	return modelInfo
}

// GetCircuitBreakerStats returns circuit breaker statistics
func (g *GeminiProvider) GetCircuitBreakerStats() map[string]any {
	return map[string]any{
		"ai_operations":    g.circuitBreaker.GetStats(),
		"model_operations": g.modelBreaker.GetModelStats(),
		"overall_healthy":  g.circuitBreaker.IsHealthy() && g.modelBreaker.IsModelHealthy(),
	}
}

// Close releases provider resources. The genai client holds none between calls.
func (g *GeminiProvider) Close() error {
	return nil
}

func extractTokenUsage(result *genai.GenerateContentResponse) *TokenUsage {
	if result == nil || result.UsageMetadata == nil {
		return nil
	}

	usage := result.UsageMetadata
	return &TokenUsage{
		InputTokens:  int64(usage.PromptTokenCount),
		OutputTokens: int64(usage.CandidatesTokenCount),
		TotalTokens:  int64(usage.TotalTokenCount),
	}
}
