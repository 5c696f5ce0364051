package server

import (
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"resumeparser/internal/ai"
	"resumeparser/internal/config"
	"resumeparser/internal/errors"
	"resumeparser/internal/observability"
	"resumeparser/internal/pipeline"
)

// ParseRequest is the JSON body of POST /parse
type ParseRequest struct {
	Text       string `json:"text" validate:"required"`
	UseAI      bool   `json:"useAI"`
	SourceName string `json:"sourceName" validate:"max=255"`
	Format     string `json:"format" validate:"omitempty,oneof=json text markdown"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

// Server hosts the parser over HTTP
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limit
	MaxRequestSize int64

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	Logger *errors.Logger

	keysMu  sync.RWMutex
	apiKeys map[string]bool

	// parser is replaced wholesale on dictionary reload; in-flight requests keep the old one
	parser    atomic.Pointer[pipeline.Parser]
	aiService *ai.Service
	metrics   *observability.Metrics
	tracer    trace.Tracer
	validate  *validator.Validate

	reloads      reloadStats
	aliasWatcher *FileWatcher
	keyWatcher   *VaultWatcher
}

// reloadStats counts alias dictionary reloads for /stats
type reloadStats struct {
	mu        sync.Mutex
	successes int64
	failures  int64
	lastTime  time.Time
	lastError string
}

func (rs *reloadStats) record(err error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.lastTime = time.Now()
	if err != nil {
		rs.failures++
		rs.lastError = err.Error()
		return
	}
	rs.successes++
	rs.lastError = ""
}

func (rs *reloadStats) snapshot() map[string]any {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	out := map[string]any{
		"success_count": rs.successes,
		"failure_count": rs.failures,
	}
	if !rs.lastTime.IsZero() {
		out["last_reload_time"] = rs.lastTime.UTC().Format(time.RFC3339)
	}
	if rs.lastError != "" {
		out["last_error"] = rs.lastError
	}
	return out
}

// ServerConfig holds configuration for creating a Server instance
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	APIKeys        []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	RateLimit      *config.RateLimitConfig
}

// NewServer creates a new Server instance from a ServerConfig struct
func NewServer(appCfg *config.Config, cfg ServerConfig, logger *errors.Logger) *Server {
	if logger == nil {
		logger = errors.NewNopLogger()
	}

	var rateLimiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(
			cfg.RateLimit.RequestsPerMin,
			cfg.RateLimit.Window,
			cfg.RateLimit.BurstCapacity,
			logger,
		)
	}

	s := &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		AppConfig:      appCfg,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		Logger:         logger,
		metrics:        &observability.Metrics{},
		tracer:         otel.Tracer("resumeparser.api"),
		validate:       newValidator(),
	}
	s.SetAPIKeys(cfg.APIKeys)
	return s
}

// SetAPIKeys replaces the accepted API keys. An empty set disables authentication.
func (s *Server) SetAPIKeys(keys []string) {
	m := make(map[string]bool, len(keys))
	for _, key := range keys {
		if key != "" {
			m[key] = true
		}
	}
	s.keysMu.Lock()
	s.apiKeys = m
	s.keysMu.Unlock()
}

func (s *Server) apiKeyCount() int {
	s.keysMu.RLock()
	defer s.keysMu.RUnlock()
	return len(s.apiKeys)
}

func (s *Server) validAPIKey(key string) bool {
	s.keysMu.RLock()
	defer s.keysMu.RUnlock()
	return s.apiKeys[key]
}

// Parser returns the parser currently serving requests, or nil before startup
func (s *Server) Parser() *pipeline.Parser {
	return s.parser.Load()
}

// newValidator reports fields by their JSON names
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}
