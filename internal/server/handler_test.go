package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeparser/internal/ai"
	"resumeparser/internal/config"
	"resumeparser/internal/errors"
	"resumeparser/internal/types"
)

const sampleResume = "John Smith\njohn@example.com\n555-123-4567\n\nEXPERIENCE\nSoftware Engineer\nAcme Corp\nJan 2020 - Present\nBuilt internal tools."

func testAppConfig() *config.Config {
	return &config.Config{
		AI: config.AIConfig{Timeout: time.Second},
		Parser: config.ParserConfig{
			Evidence: config.EvidenceConfig{
				SummarySimilarity: 0.6,
				MinParagraphChars: 80,
				MaxParagraphChars: 900,
			},
		},
	}
}

func newTestServer(t *testing.T, appCfg *config.Config, cfg ServerConfig) *Server {
	t.Helper()
	if cfg.Version == "" {
		cfg.Version = "test"
	}
	s := NewServer(appCfg, cfg, nil)
	require.NoError(t, s.reloadParser())
	t.Cleanup(s.cleanupRateLimiter)
	return s
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func jsonRequest(t *testing.T, body any) *http.Request {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/parse", strings.NewReader(string(data)))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeResult(t *testing.T, rec *httptest.ResponseRecorder) types.ParseResult {
	t.Helper()
	var res types.ParseResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var res ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res
}

type fakeProvider struct {
	available bool
}

func (f *fakeProvider) StructureResume(context.Context, string) (string, *ai.TokenUsage, error) {
	return `{"skills": ["Kubernetes"]}`, nil, nil
}

func (f *fakeProvider) GetModelInfo(context.Context) *ai.ModelInfo {
	return &ai.ModelInfo{Name: "fake-model", Available: f.available}
}

func (f *fakeProvider) Close() error { return nil }

func TestParseJSON(t *testing.T) {
	s := newTestServer(t, testAppConfig(), ServerConfig{})

	rec := serve(s, jsonRequest(t, ParseRequest{Text: sampleResume, SourceName: "john.txt"}))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	res := decodeResult(t, rec)
	assert.True(t, res.Success)
	assert.Equal(t, "john.txt", res.SourceName)
	assert.Equal(t, res.ID, rec.Header().Get("X-Parse-ID"))
	assert.Equal(t, "john@example.com", res.Data.Contact.Email)
	require.Len(t, res.Data.Experiences, 1)
	assert.Equal(t, "Acme Corp", res.Data.Experiences[0].Company)
	assert.False(t, res.AIUsed)
}

func TestParseJSONWithCharsetParameter(t *testing.T) {
	s := newTestServer(t, testAppConfig(), ServerConfig{})

	req := jsonRequest(t, ParseRequest{Text: sampleResume})
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	rec := serve(s, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestParseUsesAIWhenRequested(t *testing.T) {
	appCfg := testAppConfig()
	appCfg.Parser.EnableAI = true
	s := NewServer(appCfg, ServerConfig{}, nil)
	s.aiService = &ai.Service{Provider: &fakeProvider{available: true}}
	require.NoError(t, s.reloadParser())

	rec := serve(s, jsonRequest(t, ParseRequest{Text: sampleResume + "\n\nSKILLS\nKubernetes", UseAI: true}))

	require.Equal(t, http.StatusOK, rec.Code)
	res := decodeResult(t, rec)
	assert.True(t, res.AIUsed)
}

func TestParseHTMLBody(t *testing.T) {
	s := newTestServer(t, testAppConfig(), ServerConfig{})

	body := `<html><head><title>CV</title><style>p{}</style></head><body>
<h1>John Smith</h1><p>john@example.com</p><p>555-123-4567</p>
<h2>Experience</h2><p>Software Engineer</p><p>Acme Corp</p><p>Jan 2020 - Present</p>
</body></html>`
	req := httptest.NewRequest(http.MethodPost, "/parse?source=john.html", strings.NewReader(body))
	req.Header.Set("Content-Type", "text/html; charset=utf-8")
	rec := serve(s, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decodeResult(t, rec)
	assert.Equal(t, "john.html", res.SourceName)
	assert.Equal(t, "john@example.com", res.Data.Contact.Email)
	assert.NotContains(t, res.Data.Summary, "p{}")
}

func TestParsePlainTextAsMarkdown(t *testing.T) {
	s := newTestServer(t, testAppConfig(), ServerConfig{})

	req := httptest.NewRequest(http.MethodPost, "/parse?format=markdown", strings.NewReader(sampleResume))
	req.Header.Set("Content-Type", "text/plain")
	rec := serve(s, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/markdown; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "Acme Corp")
}

func TestParseRequestErrors(t *testing.T) {
	s := newTestServer(t, testAppConfig(), ServerConfig{MaxRequestSize: 64})

	rawRequest := func(method, target, contentType, body string) *http.Request {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		return req
	}

	tests := []struct {
		name     string
		req      *http.Request
		status   int
		code     string
		contains string
	}{
		{
			name:   "wrong method",
			req:    rawRequest(http.MethodGet, "/parse", "", ""),
			status: http.StatusMethodNotAllowed,
		},
		{
			name:     "missing text",
			req:      jsonRequest(t, map[string]any{"useAI": false}),
			status:   http.StatusBadRequest,
			code:     errors.ErrCodeInvalidRequest,
			contains: "text is required",
		},
		{
			name:     "unknown output format",
			req:      jsonRequest(t, map[string]any{"text": "x", "format": "xml"}),
			status:   http.StatusBadRequest,
			code:     errors.ErrCodeInvalidRequest,
			contains: "format must be one of",
		},
		{
			name:   "malformed JSON",
			req:    rawRequest(http.MethodPost, "/parse", "application/json", "{"),
			status: http.StatusBadRequest,
			code:   errors.ErrCodeInvalidRequest,
		},
		{
			name:   "unsupported content type",
			req:    rawRequest(http.MethodPost, "/parse", "application/pdf", "%PDF-1.4"),
			status: http.StatusUnsupportedMediaType,
			code:   errors.ErrCodeUnsupportedFormat,
		},
		{
			name:   "invalid useAI",
			req:    rawRequest(http.MethodPost, "/parse?useAI=maybe", "text/plain", "John"),
			status: http.StatusBadRequest,
			code:   errors.ErrCodeInvalidRequest,
		},
		{
			name:   "empty body",
			req:    rawRequest(http.MethodPost, "/parse", "text/plain", ""),
			status: http.StatusBadRequest,
			code:   errors.ErrCodeInvalidRequest,
		},
		{
			name:   "body over the size limit",
			req:    rawRequest(http.MethodPost, "/parse", "text/plain", strings.Repeat("a", 65)),
			status: http.StatusRequestEntityTooLarge,
			code:   errors.ErrCodeInputTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(s, tt.req)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.code == "" {
				return
			}
			e := decodeError(t, rec)
			assert.Equal(t, tt.code, e.Code)
			if tt.contains != "" {
				assert.Contains(t, e.Message, tt.contains)
			}
		})
	}
}

func TestParseNotReady(t *testing.T) {
	s := NewServer(testAppConfig(), ServerConfig{}, nil)

	rec := serve(s, jsonRequest(t, ParseRequest{Text: sampleResume}))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAuthMiddleware(t *testing.T) {
	s := newTestServer(t, testAppConfig(), ServerConfig{APIKeys: []string{"secret-key-123", ""}})

	rec := serve(s, jsonRequest(t, ParseRequest{Text: sampleResume}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Missing API key", decodeError(t, rec).Error)

	req := jsonRequest(t, ParseRequest{Text: sampleResume})
	req.Header.Set("X-API-Key", "wrong")
	rec = serve(s, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid API key", decodeError(t, rec).Error)

	req = jsonRequest(t, ParseRequest{Text: sampleResume})
	req.Header.Set("Authorization", "Bearer secret-key-123")
	rec = serve(s, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// health stays open
	rec = serve(s, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	s := newTestServer(t, testAppConfig(), ServerConfig{
		RateLimit: &config.RateLimitConfig{
			Enabled:        true,
			RequestsPerMin: 1,
			BurstCapacity:  1,
			ByIP:           true,
		},
	})

	first := serve(s, jsonRequest(t, ParseRequest{Text: sampleResume}))
	assert.Equal(t, http.StatusOK, first.Code)

	second := serve(s, jsonRequest(t, ParseRequest{Text: sampleResume}))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "60", second.Header().Get("Retry-After"))

	other := jsonRequest(t, ParseRequest{Text: sampleResume})
	other.RemoteAddr = "198.51.100.7:4000"
	assert.Equal(t, http.StatusOK, serve(s, other).Code)

	stats := s.RateLimiter.GetStats()
	assert.EqualValues(t, 1, stats["rejected_requests"])
	assert.Equal(t, 2, stats["active_limiters"])
}

func TestHealthHandler(t *testing.T) {
	t.Run("heuristic only", func(t *testing.T) {
		s := newTestServer(t, testAppConfig(), ServerConfig{})
		rec := serve(s, httptest.NewRequest(http.MethodGet, "/health", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "healthy", body["status"])
		assert.Equal(t, map[string]any{"ready": true, "ai_enabled": false}, body["parser"])
		assert.NotContains(t, body, "ai_model")
	})

	t.Run("parser not ready", func(t *testing.T) {
		s := NewServer(testAppConfig(), ServerConfig{}, nil)
		rec := serve(s, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	for _, available := range []bool{true, false} {
		name := "model available"
		want := http.StatusOK
		if !available {
			name, want = "model unavailable", http.StatusServiceUnavailable
		}
		t.Run(name, func(t *testing.T) {
			appCfg := testAppConfig()
			appCfg.Parser.EnableAI = true
			s := NewServer(appCfg, ServerConfig{}, nil)
			s.aiService = &ai.Service{Provider: &fakeProvider{available: available}}
			require.NoError(t, s.reloadParser())

			rec := serve(s, httptest.NewRequest(http.MethodGet, "/health", nil))
			require.Equal(t, want, rec.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			model := body["ai_model"].(map[string]any)
			assert.Equal(t, "fake-model", model["name"])
			assert.Equal(t, true, body["parser"].(map[string]any)["ai_enabled"])
		})
	}
}

func TestStatsHandler(t *testing.T) {
	s := newTestServer(t, testAppConfig(), ServerConfig{MaxRequestSize: 1024})

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/stats", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, map[string]any{"enabled": false}, body["rate_limiting"])
	assert.EqualValues(t, 1024, body["server"].(map[string]any)["max_request_size_bytes"])
	reloads := body["dictionary_reloads"].(map[string]any)
	assert.EqualValues(t, 0, reloads["success_count"])
	assert.EqualValues(t, 0, reloads["failure_count"])

	rec = serve(s, httptest.NewRequest(http.MethodPost, "/stats", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestDictionaryReloadSwapsParser(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sections:\n  skills: [toolbox]\n"), 0o600))

	appCfg := testAppConfig()
	appCfg.Parser.AliasesFile = path
	s := newTestServer(t, appCfg, ServerConfig{})

	skills := func() int {
		res := s.Parser().Parse(context.Background(), types.ParseResumeInput{Text: "Arsenal:\nKubernetes, Terraform, Docker"})
		require.True(t, res.Success)
		return len(res.Data.Skills)
	}
	before := s.Parser()

	// broken file keeps the running parser
	require.NoError(t, os.WriteFile(path, []byte("sections: [\n"), 0o600))
	s.onDictionaryChange()
	assert.Same(t, before, s.Parser())

	require.NoError(t, os.WriteFile(path, []byte("sections:\n  skills: [arsenal]\n"), 0o600))
	s.onDictionaryChange()
	assert.NotSame(t, before, s.Parser())
	assert.Equal(t, 3, skills())

	stats := s.reloads.snapshot()
	assert.EqualValues(t, 1, stats["success_count"])
	assert.EqualValues(t, 1, stats["failure_count"])
	assert.NotContains(t, stats, "last_error")
}

func TestStatusForError(t *testing.T) {
	assert.Equal(t, http.StatusRequestEntityTooLarge,
		statusForError(errors.NewValidationError(errors.ErrCodeInputTooLarge, "big", nil)))
	assert.Equal(t, http.StatusUnsupportedMediaType,
		statusForError(errors.NewValidationError(errors.ErrCodeUnsupportedFormat, "pdf", nil)))
	assert.Equal(t, http.StatusBadRequest,
		statusForError(errors.NewValidationError(errors.ErrCodeInvalidRequest, "bad", nil)))
	assert.Equal(t, http.StatusInternalServerError,
		statusForError(errors.NewIOError(errors.ErrCodeInvalidRequest, "read", nil)))
}

func TestSchemaEndpoint(t *testing.T) {
	s := newTestServer(t, testAppConfig(), ServerConfig{})

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/schema", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/schema+json", rec.Header().Get("Content-Type"))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Contains(t, doc, "properties")

	rec = serve(s, httptest.NewRequest(http.MethodPost, "/schema", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestAliasesEndpoint(t *testing.T) {
	appCfg := testAppConfig()
	appCfg.Parser.SectionAliases = map[string][]string{"skills": {"Toolbox"}}
	s := newTestServer(t, appCfg, ServerConfig{})

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/aliases", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Aliases map[string][]string `json:"aliases"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"toolbox"}, body.Aliases["skills"])
	assert.Contains(t, body.Aliases["experience"], "work experience")
}
