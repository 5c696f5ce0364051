package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	oteltrace "go.opentelemetry.io/otel/trace"

	"resumeparser/internal/ai"
	"resumeparser/internal/config"
	"resumeparser/internal/types"
)

func newTestMetrics(t *testing.T, flags *config.CustomMetricsConfig) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := NewMetrics(mp.Meter("test"), flags)
	require.NoError(t, err)
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumOf(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestRecordParse(t *testing.T) {
	m, reader := newTestMetrics(t, nil)

	m.RecordParse(context.Background(), &types.ParseResult{
		Success:    true,
		DurationMs: 12,
		Confidence: types.ConfidenceReport{OverallScore: 72},
		Dropped:    map[string]int{"skills": 2, "websites": 1},
	}, 2048)

	got := collect(t, reader)
	assert.Equal(t, int64(1), sumOf(t, got["resumeparser_parses_total"]))
	assert.Equal(t, int64(3), sumOf(t, got["resumeparser_evidence_dropped_total"]))
	assert.Contains(t, got, "resumeparser_confidence_score")
	assert.Contains(t, got, "resumeparser_parse_duration_seconds")
	assert.Contains(t, got, "resumeparser_input_size_bytes")
}

func TestRecordAIRequest(t *testing.T) {
	m, reader := newTestMetrics(t, nil)
	ctx := context.Background()

	m.RecordAIRequest(ctx, "structure", 150*time.Millisecond, &ai.TokenUsage{InputTokens: 100, OutputTokens: 50, TotalTokens: 150}, nil)
	m.RecordAIRequest(ctx, "structure", time.Second, nil, errors.New("timeout"))

	got := collect(t, reader)
	assert.Equal(t, int64(2), sumOf(t, got["resumeparser_ai_requests_total"]))
	assert.Equal(t, int64(1), sumOf(t, got["resumeparser_ai_errors_total"]))
	assert.Contains(t, got, "resumeparser_ai_token_usage_total")
}

func TestMetricFlagsDisableRecording(t *testing.T) {
	flags := &config.CustomMetricsConfig{
		Infrastructure: config.InfrastructureMetricsConfig{Enabled: true, TrackRateLimits: false, TrackDictionaryReloads: true},
	}
	m, reader := newTestMetrics(t, flags)
	ctx := context.Background()

	m.RecordRateLimitHit(ctx, "ip")
	m.RecordDictionaryReload(ctx, true)
	m.RecordParse(ctx, &types.ParseResult{Success: true}, 10)

	got := collect(t, reader)
	assert.NotContains(t, got, "resumeparser_rate_limit_hits_total")
	assert.NotContains(t, got, "resumeparser_parses_total")
	assert.Equal(t, int64(1), sumOf(t, got["resumeparser_dictionary_reloads_total"]))
}

func TestZeroMetricsIsNoop(t *testing.T) {
	var m Metrics
	assert.NotPanics(t, func() {
		m.RecordParse(context.Background(), &types.ParseResult{}, 0)
		m.RecordAIRequest(context.Background(), "structure", time.Second, nil, nil)
		m.RecordRateLimitHit(context.Background(), "ip")
		m.RecordDictionaryReload(context.Background(), false)
		m.RecordStage(context.Background(), "detect", time.Millisecond)
	})
}

func TestSpanMiddlewareStartsRouteSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	called := false
	h := SpanMiddleware(tp.Tracer("test"), "api.parse")(func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.True(t, oteltrace.SpanFromContext(r.Context()).SpanContext().IsValid())
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodPost, "/parse", strings.NewReader("x"))
	req.Header.Set("Content-Type", "text/plain")
	h(httptest.NewRecorder(), req)

	require.True(t, called)
	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "api.parse", spans[0].Name())
}
