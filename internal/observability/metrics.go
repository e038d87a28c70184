package observability

import (
	"context"
	"fmt"
	"time"

	"resumine/internal/ai"
	"resumine/internal/config"
	"resumine/internal/types"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Metrics holds the application instruments. A zero Metrics records nothing.
type Metrics struct {
	// AI operation metrics
	AIProcessingTime metric.Float64Histogram
	AIRequestCount   metric.Int64Counter
	AIErrorCount     metric.Int64Counter
	AITokenUsage     metric.Int64Histogram

	// Extraction metrics
	ResumesExtracted metric.Int64Counter
	SkillsFound      metric.Int64Histogram
	ResumeTextSize   metric.Int64Histogram
	AnalysisFailures metric.Int64Counter

	RateLimitHits metric.Int64Counter

	toggles config.CustomMetricsConfig
}

// NewMetrics creates all instruments on meter
func NewMetrics(meter metric.Meter, toggles config.CustomMetricsConfig) (*Metrics, error) {
	m := &Metrics{toggles: toggles}
	var err error

	if m.AIProcessingTime, err = meter.Float64Histogram("resumine_ai_processing_duration_seconds",
		metric.WithDescription("Time spent in AI requests"),
		metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("failed to create AI processing time metric: %w", err)
	}
	if m.AIRequestCount, err = meter.Int64Counter("resumine_ai_requests_total",
		metric.WithDescription("Total number of AI requests")); err != nil {
		return nil, fmt.Errorf("failed to create AI request count metric: %w", err)
	}
	if m.AIErrorCount, err = meter.Int64Counter("resumine_ai_errors_total",
		metric.WithDescription("Total number of failed AI requests")); err != nil {
		return nil, fmt.Errorf("failed to create AI error count metric: %w", err)
	}
	if m.AITokenUsage, err = meter.Int64Histogram("resumine_ai_token_usage",
		metric.WithDescription("Tokens per AI request by token type"),
		metric.WithUnit("{token}")); err != nil {
		return nil, fmt.Errorf("failed to create AI token usage metric: %w", err)
	}

	if m.ResumesExtracted, err = meter.Int64Counter("resumine_resumes_extracted_total",
		metric.WithDescription("Total number of resumes run through the extractor")); err != nil {
		return nil, fmt.Errorf("failed to create resumes extracted metric: %w", err)
	}
	if m.SkillsFound, err = meter.Int64Histogram("resumine_skills_found",
		metric.WithDescription("Skills matched per resume"),
		metric.WithExplicitBucketBoundaries(0, 1, 2, 3, 5, 8, 13, 20, 27)); err != nil {
		return nil, fmt.Errorf("failed to create skills found metric: %w", err)
	}
	if m.ResumeTextSize, err = meter.Int64Histogram("resumine_resume_text_bytes",
		metric.WithDescription("Size of extracted resume text"),
		metric.WithUnit("By")); err != nil {
		return nil, fmt.Errorf("failed to create resume size metric: %w", err)
	}
	if m.AnalysisFailures, err = meter.Int64Counter("resumine_analysis_failures_total",
		metric.WithDescription("Analyses that produced a failure record")); err != nil {
		return nil, fmt.Errorf("failed to create analysis failures metric: %w", err)
	}

	if m.RateLimitHits, err = meter.Int64Counter("resumine_rate_limit_hits_total",
		metric.WithDescription("Requests rejected by the rate limiter")); err != nil {
		return nil, fmt.Errorf("failed to create rate limit hits metric: %w", err)
	}

	return m, nil
}

// RecordExtraction counts one extracted resume and its skill count
func (m *Metrics) RecordExtraction(ctx context.Context, data types.ExtractedData, textBytes int) {
	if m == nil || m.ResumesExtracted == nil || !m.toggles.Extraction.Enabled {
		return
	}

	m.ResumesExtracted.Add(ctx, 1)
	m.SkillsFound.Record(ctx, int64(len(data.Skills)))
	if m.toggles.Extraction.TrackContentSizes {
		m.ResumeTextSize.Record(ctx, int64(textBytes))
	}
}

// RecordAIOperation records request count, duration, errors and token usage
// for one AI call. Token counts are also attached to the span in ctx.
func (m *Metrics) RecordAIOperation(ctx context.Context, operation string, duration time.Duration, usage *ai.TokenUsage, err error) {
	if m == nil || m.AIRequestCount == nil || !m.toggles.AIOperations.Enabled {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.Bool("success", err == nil),
	)

	m.AIRequestCount.Add(ctx, 1, attrs)
	if m.toggles.AIOperations.TrackDuration {
		m.AIProcessingTime.Record(ctx, duration.Seconds(), attrs)
	}
	if err != nil {
		m.AIErrorCount.Add(ctx, 1, attrs)
	}

	if usage == nil {
		return
	}
	if m.toggles.AIOperations.TrackTokenUsage {
		for tokenType, value := range map[string]int64{
			"input":  usage.InputTokens,
			"output": usage.OutputTokens,
			"total":  usage.TotalTokens,
		} {
			m.AITokenUsage.Record(ctx, value, metric.WithAttributes(
				attribute.String("operation", operation),
				attribute.String("token_type", tokenType),
			))
		}
	}
	oteltrace.SpanFromContext(ctx).SetAttributes(
		attribute.Int64("ai.tokens.input", usage.InputTokens),
		attribute.Int64("ai.tokens.output", usage.OutputTokens),
		attribute.Int64("ai.tokens.total", usage.TotalTokens),
	)
}

// RecordAnalysisFailure counts one failure record
func (m *Metrics) RecordAnalysisFailure(ctx context.Context) {
	if m == nil || m.AnalysisFailures == nil || !m.toggles.Extraction.Enabled {
		return
	}
	m.AnalysisFailures.Add(ctx, 1)
}

// RecordRateLimitHit counts one rejected request. limiter is "ip" or "api_key".
func (m *Metrics) RecordRateLimitHit(ctx context.Context, limiter string) {
	if m == nil || m.RateLimitHits == nil || !m.toggles.RateLimits {
		return
	}
	m.RateLimitHits.Add(ctx, 1, metric.WithAttributes(attribute.String("limiter", limiter)))
}
