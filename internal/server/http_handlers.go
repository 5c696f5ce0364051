package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"resumeparser/internal/ai"
)

const defaultHealthCheckTimeout = 15 * time.Second

// getHealthCheckTimeout returns the configured health check timeout
func (s *Server) getHealthCheckTimeout() time.Duration {
	if s.AppConfig == nil || s.AppConfig.Observability.HealthCheck.Timeout <= 0 {
		return defaultHealthCheckTimeout
	}
	return s.AppConfig.Observability.HealthCheck.Timeout
}

// healthHandler reports parser readiness, AI model availability and breaker state
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"status":  "healthy",
		"service": "resumeparser",
		"version": s.Version,
	}
	healthy := true

	parser := s.parser.Load()
	response["parser"] = map[string]any{
		"ready":      parser != nil,
		"ai_enabled": parser != nil && parser.AIEnabled(),
	}
	if parser == nil {
		healthy = false
	}

	if s.aiService != nil {
		ctx, cancel := context.WithTimeout(r.Context(), s.getHealthCheckTimeout())
		defer cancel()

		modelInfo := s.aiService.GetModelInfo(ctx)
		response["ai_model"] = modelInfo
		if modelInfo == nil || !modelInfo.Available {
			healthy = false
		}
		if stats := s.aiService.CircuitBreakerStats(); stats != nil {
			response["circuit_breakers"] = stats
		}
	}

	if dict := s.dictionaryStatus(); dict != nil {
		response["alias_dictionary"] = dict
	}
	if s.keyWatcher != nil {
		response["vault_api_keys"] = s.keyWatcher.Status()
	}

	status := http.StatusOK
	if !healthy {
		response["status"] = "degraded"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, response)
}

// dictionaryStatus describes the alias dictionary file and its watcher, if one is configured
func (s *Server) dictionaryStatus() map[string]any {
	if s.AppConfig == nil || s.AppConfig.Parser.AliasesFile == "" {
		return nil
	}
	status := map[string]any{
		"file":     s.AppConfig.Parser.AliasesFile,
		"watching": s.aliasWatcher != nil && s.aliasWatcher.IsRunning(),
	}
	return status
}

// statsHandler provides server statistics including rate limiting and reload counters
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"service": "resumeparser",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
			"api_keys_configured":    s.apiKeyCount(),
		},
		"dictionary_reloads": s.reloads.snapshot(),
	}

	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{
			"enabled": false,
		}
	}

	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
			"by_api_key":       s.RateLimit.ByAPIKey,
		}
	}

	writeJSON(w, http.StatusOK, response)
}

// schemaHandler serves the JSON schema every parsed record conforms to
func (s *Server) schemaHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/schema+json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(ai.SchemaDocument()); err != nil {
		s.Logger.LogError(err, "Failed to write schema response")
	}
}

// aliasesHandler lists the section heading aliases the current parser uses
func (s *Server) aliasesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	parser := s.parser.Load()
	if parser == nil {
		writeErrorResponse(w, "Parser unavailable", "the parser has not been built", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"reloads": s.reloads.snapshot(),
		"aliases": parser.Aliases(),
	})
}

// writeJSON writes v as a JSON response with the given status
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, error, message string, statusCode int) {
	writeErrorResponseWithCode(w, error, message, "", statusCode)
}

func writeErrorResponseWithCode(w http.ResponseWriter, error, message, code string, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{
		Error:   error,
		Message: message,
		Code:    code,
	})
}
