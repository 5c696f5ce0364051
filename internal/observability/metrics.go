package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"resumeparser/internal/ai"
	"resumeparser/internal/config"
	"resumeparser/internal/types"
)

// Instrument names that carry views
const (
	MetricParseDuration = "resumeparser_parse_duration_seconds"
	MetricStageDuration = "resumeparser_stage_duration_seconds"
	MetricAIDuration    = "resumeparser_ai_processing_duration_seconds"
	MetricInputSize     = "resumeparser_input_size_bytes"
)

// Metrics holds all custom instruments. The zero value records nothing.
type Metrics struct {
	flags *config.CustomMetricsConfig

	// AI operation metrics
	AIProcessingTime metric.Float64Histogram
	AIRequestCount   metric.Int64Counter
	AIErrorCount     metric.Int64Counter
	AITokenUsage     metric.Int64Histogram

	// Parse outcome metrics
	ParseCount      metric.Int64Counter
	ParseDuration   metric.Float64Histogram
	StageDuration   metric.Float64Histogram
	ConfidenceScore metric.Int64Histogram
	EvidenceDropped metric.Int64Counter
	InputSize       metric.Int64Histogram

	// Infrastructure metrics
	RateLimitHits     metric.Int64Counter
	DictionaryReloads metric.Int64Counter
}

var (
	_ ai.Observer = (*Metrics)(nil)
)

// NewMetrics creates the instruments on meter. A nil flags enables everything.
func NewMetrics(meter metric.Meter, flags *config.CustomMetricsConfig) (*Metrics, error) {
	m := &Metrics{flags: flags}

	if err := m.createAIMetrics(meter); err != nil {
		return nil, err
	}
	if err := m.createParseMetrics(meter); err != nil {
		return nil, err
	}
	if err := m.createInfrastructureMetrics(meter); err != nil {
		return nil, err
	}
	return m, nil
}

// createAIMetrics creates AI-related metrics
func (m *Metrics) createAIMetrics(meter metric.Meter) error {
	var err error

	m.AIProcessingTime, err = meter.Float64Histogram(
		MetricAIDuration,
		metric.WithDescription("Time spent processing AI requests"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create AI processing time metric: %w", err)
	}

	m.AIRequestCount, err = meter.Int64Counter(
		"resumeparser_ai_requests_total",
		metric.WithDescription("Total number of AI requests"),
	)
	if err != nil {
		return fmt.Errorf("failed to create AI request count metric: %w", err)
	}

	m.AIErrorCount, err = meter.Int64Counter(
		"resumeparser_ai_errors_total",
		metric.WithDescription("Total number of AI request errors"),
	)
	if err != nil {
		return fmt.Errorf("failed to create AI error count metric: %w", err)
	}

	m.AITokenUsage, err = meter.Int64Histogram(
		"resumeparser_ai_token_usage_total",
		metric.WithDescription("Token usage for AI requests (input, output, total)"),
		metric.WithUnit("tokens"),
	)
	if err != nil {
		return fmt.Errorf("failed to create AI token usage metric: %w", err)
	}

	return nil
}

// createParseMetrics creates parse outcome metrics
func (m *Metrics) createParseMetrics(meter metric.Meter) error {
	var err error

	m.ParseCount, err = meter.Int64Counter(
		"resumeparser_parses_total",
		metric.WithDescription("Total number of résumé parses"),
	)
	if err != nil {
		return fmt.Errorf("failed to create parse count metric: %w", err)
	}

	m.ParseDuration, err = meter.Float64Histogram(
		MetricParseDuration,
		metric.WithDescription("End-to-end parse duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create parse duration metric: %w", err)
	}

	m.StageDuration, err = meter.Float64Histogram(
		MetricStageDuration,
		metric.WithDescription("Duration of each parse pipeline stage"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create stage duration metric: %w", err)
	}

	m.ConfidenceScore, err = meter.Int64Histogram(
		"resumeparser_confidence_score",
		metric.WithDescription("Overall confidence score of parsed résumés"),
		metric.WithExplicitBucketBoundaries(10, 20, 30, 40, 50, 60, 70, 80, 90, 100),
	)
	if err != nil {
		return fmt.Errorf("failed to create confidence score metric: %w", err)
	}

	m.EvidenceDropped, err = meter.Int64Counter(
		"resumeparser_evidence_dropped_total",
		metric.WithDescription("Items removed by the evidence filter"),
	)
	if err != nil {
		return fmt.Errorf("failed to create evidence dropped metric: %w", err)
	}

	m.InputSize, err = meter.Int64Histogram(
		MetricInputSize,
		metric.WithDescription("Size of résumé text submitted for parsing"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return fmt.Errorf("failed to create input size metric: %w", err)
	}

	return nil
}

// createInfrastructureMetrics creates rate limiting and reload metrics
func (m *Metrics) createInfrastructureMetrics(meter metric.Meter) error {
	var err error

	m.RateLimitHits, err = meter.Int64Counter(
		"resumeparser_rate_limit_hits_total",
		metric.WithDescription("Total number of rate limit hits"),
	)
	if err != nil {
		return fmt.Errorf("failed to create rate limit hits metric: %w", err)
	}

	m.DictionaryReloads, err = meter.Int64Counter(
		"resumeparser_dictionary_reloads_total",
		metric.WithDescription("Total number of alias dictionary reloads"),
	)
	if err != nil {
		return fmt.Errorf("failed to create dictionary reload metric: %w", err)
	}

	return nil
}

// RecordAIRequest records one structuring call
func (m *Metrics) RecordAIRequest(ctx context.Context, operation string, duration time.Duration, usage *ai.TokenUsage, err error) {
	if m.AIRequestCount == nil || !m.aiEnabled() {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("operation", operation),
		attribute.Bool("success", err == nil),
	}

	if m.flags == nil || m.flags.AIOperations.TrackDuration {
		m.AIProcessingTime.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	}
	m.AIRequestCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	if err != nil {
		m.AIErrorCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	}

	if usage != nil && (m.flags == nil || m.flags.AIOperations.TrackTokenUsage) {
		for _, tt := range []struct {
			tokenType string
			value     int64
		}{
			{"input", usage.InputTokens},
			{"output", usage.OutputTokens},
			{"total", usage.TotalTokens},
		} {
			m.AITokenUsage.Record(ctx, tt.value, metric.WithAttributes(
				attribute.String("operation", operation),
				attribute.String("token_type", tt.tokenType),
			))
		}
	}
}

// RecordParse records the outcome of one parse
func (m *Metrics) RecordParse(ctx context.Context, result *types.ParseResult, inputBytes int) {
	if m.ParseCount == nil || !m.businessEnabled() {
		return
	}

	attrs := metric.WithAttributes(
		attribute.Bool("success", result.Success),
		attribute.Bool("ai_used", result.AIUsed),
	)
	if m.flags == nil || m.flags.BusinessMetrics.TrackSuccessRates {
		m.ParseCount.Add(ctx, 1, attrs)
	}
	m.ParseDuration.Record(ctx, float64(result.DurationMs)/1000, attrs)

	if result.Success && (m.flags == nil || m.flags.BusinessMetrics.TrackConfidence) {
		m.ConfidenceScore.Record(ctx, int64(result.Confidence.OverallScore))
	}
	if m.flags == nil || m.flags.BusinessMetrics.TrackEvidenceDrops {
		for section, n := range result.Dropped {
			m.EvidenceDropped.Add(ctx, int64(n), metric.WithAttributes(attribute.String("section", section)))
		}
	}
	if m.flags == nil || m.flags.BusinessMetrics.TrackContentSizes {
		m.InputSize.Record(ctx, int64(inputBytes))
	}
}

// RecordStage records how long one pipeline stage took
func (m *Metrics) RecordStage(ctx context.Context, stage string, duration time.Duration) {
	if m.StageDuration == nil || !m.businessEnabled() {
		return
	}
	m.StageDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attribute.String("stage", stage)))
}

// RecordRateLimitHit records a request rejected by a rate limiter
func (m *Metrics) RecordRateLimitHit(ctx context.Context, limiter string) {
	if m.RateLimitHits == nil || !m.infraEnabled() {
		return
	}
	if m.flags != nil && !m.flags.Infrastructure.TrackRateLimits {
		return
	}
	m.RateLimitHits.Add(ctx, 1, metric.WithAttributes(attribute.String("limiter", limiter)))
}

// RecordDictionaryReload records an alias dictionary reload attempt
func (m *Metrics) RecordDictionaryReload(ctx context.Context, success bool) {
	if m.DictionaryReloads == nil || !m.infraEnabled() {
		return
	}
	if m.flags != nil && !m.flags.Infrastructure.TrackDictionaryReloads {
		return
	}
	m.DictionaryReloads.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", success)))
}

func (m *Metrics) aiEnabled() bool {
	return m.flags == nil || m.flags.AIOperations.Enabled
}

func (m *Metrics) businessEnabled() bool {
	return m.flags == nil || m.flags.BusinessMetrics.Enabled
}

func (m *Metrics) infraEnabled() bool {
	return m.flags == nil || m.flags.Infrastructure.Enabled
}
