package observability

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"

	"resumeparser/internal/config"
)

const defaultCollectInterval = 15 * time.Second

// Settings is everything the Manager needs, resolved from configuration
type Settings struct {
	ServiceName     string
	ServiceVersion  string
	InstanceID      string
	Enabled         bool
	ConsoleOutput   bool
	PrettyPrint     bool
	SampleRate      float64
	CollectInterval time.Duration
	Prometheus      PrometheusConfig
	OTLP            config.OTLPConfig
	Metrics         *config.CustomMetricsConfig // nil records everything
	Parser          ParserInfo
}

// ParserInfo describes the parser build recorded on the telemetry resource
type ParserInfo struct {
	AIEnabled         bool
	AIModel           string
	AliasSource       string // "builtin", "config" or the dictionary file path
	SummarySimilarity float64
}

// SettingsFromConfig resolves Settings from cfg. version fills the service
// version when the config leaves it empty.
func SettingsFromConfig(cfg *config.Config, version string) Settings {
	obs := cfg.Observability

	s := Settings{
		ServiceName:     obs.ServiceName,
		ServiceVersion:  obs.ServiceVersion,
		InstanceID:      obs.ServiceInstance,
		Enabled:         obs.Enabled,
		ConsoleOutput:   obs.ConsoleOutput,
		PrettyPrint:     obs.Console.PrettyPrint,
		SampleRate:      obs.SampleRate,
		CollectInterval: obs.Metrics.CollectionInterval,
		Prometheus: PrometheusConfig{
			Enabled:  obs.Prometheus.Enabled,
			Endpoint: obs.Prometheus.Endpoint,
			Port:     obs.Prometheus.Port,
		},
		OTLP:    obs.OTLP,
		Metrics: &cfg.Observability.CustomMetrics,
		Parser:  parserInfo(cfg),
	}
	if s.ServiceName == "" {
		s.ServiceName = "resumeparser"
	}
	if s.ServiceVersion == "" {
		s.ServiceVersion = version
	}
	if s.InstanceID == "" {
		s.InstanceID = s.ServiceName + "-1"
	}
	if s.CollectInterval <= 0 {
		s.CollectInterval = defaultCollectInterval
	}
	return s
}

func parserInfo(cfg *config.Config) ParserInfo {
	info := ParserInfo{
		AIEnabled:         cfg.Parser.EnableAI,
		AliasSource:       "builtin",
		SummarySimilarity: cfg.Parser.Evidence.SummarySimilarity,
	}
	if info.AIEnabled {
		info.AIModel = cfg.GetStructureConfig().Model
	}
	switch {
	case cfg.Parser.AliasesFile != "":
		info.AliasSource = cfg.Parser.AliasesFile
	case len(cfg.Parser.SectionAliases) > 0:
		info.AliasSource = "config"
	}
	return info
}

// SpanMiddleware starts a named span around a single route and tags it with the request shape
func SpanMiddleware(tracer oteltrace.Tracer, name string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracer.Start(r.Context(), name)
			defer span.End()

			span.SetAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.route", r.URL.Path),
				attribute.String("http.content_type", r.Header.Get("Content-Type")),
				attribute.Int64("http.request_content_length", r.ContentLength),
			)

			next(w, r.WithContext(ctx))
		}
	}
}
