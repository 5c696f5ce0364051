package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"resumeparser/internal/ai"
	"resumeparser/internal/config"
	"resumeparser/internal/observability"
	"resumeparser/internal/pipeline"
)

const (
	shutdownTimeout       = 30 * time.Second
	aliasDebounce         = 500 * time.Millisecond
	observabilityShutdown = 5 * time.Second
)

var _ pipeline.StageRecorder = (*observability.Metrics)(nil)

// Start brings up observability, the parser and its watchers, then serves
// until ctx is cancelled and shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	om, err := s.initializeObservability()
	if err != nil {
		return err
	}
	defer s.shutdownObservability(om)

	s.metrics = om.Metrics()
	s.tracer = om.Tracer("resumeparser.api")

	if err := s.initParser(); err != nil {
		return err
	}
	defer s.closeAIService()

	s.startWatchers()
	defer s.stopWatchers()

	httpServer := s.setupHTTPServer(om)
	s.displayServerInfo()

	return s.startWithGracefulShutdown(ctx, httpServer)
}

// initializeObservability sets up tracing and metrics for the configured parser
func (s *Server) initializeObservability() (*observability.Manager, error) {
	om, err := observability.NewManager(observability.SettingsFromConfig(s.AppConfig, s.Version))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize observability: %w", err)
	}
	return om, nil
}

// shutdownObservability handles observability cleanup
func (s *Server) shutdownObservability(om *observability.Manager) {
	ctx, cancel := context.WithTimeout(context.Background(), observabilityShutdown)
	defer cancel()
	if err := om.Shutdown(ctx); err != nil {
		s.Logger.LogError(err, "Failed to shutdown observability")
	}
}

// initParser creates the AI service when enabled and builds the first parser.
// A broken configuration fails startup; later reload failures keep the running parser.
func (s *Server) initParser() error {
	if s.AppConfig.Parser.EnableAI {
		svc, err := ai.NewStructureService(s.AppConfig, s.Logger)
		if err != nil {
			return fmt.Errorf("failed to initialize AI structuring: %w", err)
		}
		s.aiService = svc
	}
	return s.reloadParser()
}

// reloadParser builds a fresh parser from the configuration and swaps it in
func (s *Server) reloadParser() error {
	deps := pipeline.Deps{
		Observer: s.metrics,
		Recorder: s.metrics,
		Logger:   s.Logger,
	}
	if s.aiService != nil {
		deps.Provider = s.aiService.Provider
	}

	parser, err := pipeline.FromConfig(s.AppConfig, deps)
	if err != nil {
		return err
	}
	s.parser.Store(parser)
	return nil
}

// onDictionaryChange rebuilds the parser after the alias dictionary file changed
func (s *Server) onDictionaryChange() {
	err := s.reloadParser()
	s.reloads.record(err)
	s.metrics.RecordDictionaryReload(context.Background(), err == nil)
	if err != nil {
		s.Logger.LogError(err, "Alias dictionary reload failed, keeping the current parser",
			"file", s.AppConfig.Parser.AliasesFile)
		return
	}
	s.Logger.Info("Alias dictionary reloaded", "file", s.AppConfig.Parser.AliasesFile)
}

// onAPIKeysChange applies API keys rotated in Vault. An empty set is ignored so
// a bad write cannot switch authentication off.
func (s *Server) onAPIKeysChange(keys []string, err error) {
	if err != nil {
		return
	}
	if len(keys) == 0 {
		s.Logger.Warn("Vault returned no API keys, keeping the current set")
		return
	}
	s.SetAPIKeys(keys)
	s.Logger.Info("API keys rotated from Vault", "count", len(keys))
}

// startWatchers starts the alias dictionary and Vault API key watchers when configured.
// A watcher that fails to start is logged and skipped.
func (s *Server) startWatchers() {
	parserCfg := s.AppConfig.Parser
	if parserCfg.WatchAliases && parserCfg.AliasesFile != "" {
		s.aliasWatcher = NewFileWatcher([]string{parserCfg.AliasesFile}, aliasDebounce, s.onDictionaryChange, s.Logger)
		if err := s.aliasWatcher.Start(); err != nil {
			s.Logger.LogError(err, "Failed to start alias dictionary watcher")
			s.aliasWatcher = nil
		}
	}

	vaultCfg := s.AppConfig.Vault
	if vaultCfg.Enabled && vaultCfg.Secrets.APIKeys != "" && vaultCfg.PollInterval > 0 {
		client, err := config.NewVaultClient(vaultCfg, s.Logger)
		if err != nil {
			s.Logger.LogError(err, "Failed to create Vault client for API key rotation")
			return
		}
		var version int64
		if secret, err := client.GetSecretV2(vaultCfg.Secrets.APIKeys); err == nil {
			version = secret.Version
		}
		s.keyWatcher = NewVaultWatcher(client, vaultCfg.Secrets.APIKeys, vaultCfg.PollInterval, version, s.onAPIKeysChange, s.Logger)
		if err := s.keyWatcher.Start(); err != nil {
			s.Logger.LogError(err, "Failed to start Vault API key watcher")
			s.keyWatcher = nil
		}
	}
}

func (s *Server) stopWatchers() {
	if s.aliasWatcher != nil {
		if err := s.aliasWatcher.Stop(); err != nil {
			s.Logger.LogError(err, "Failed to stop alias dictionary watcher")
		}
	}
	if s.keyWatcher != nil {
		if err := s.keyWatcher.Stop(); err != nil {
			s.Logger.LogError(err, "Failed to stop Vault API key watcher")
		}
	}
}

func (s *Server) closeAIService() {
	if s.aiService == nil {
		return
	}
	if err := s.aiService.Close(); err != nil {
		s.Logger.LogError(err, "Failed to close AI service")
	}
}

// Handler returns the routed handler without the OpenTelemetry HTTP middleware
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}

// setupHTTPServer creates and configures the HTTP server
func (s *Server) setupHTTPServer(om *observability.Manager) *http.Server {
	handler := om.HTTPMiddleware()(s.setupRoutes())
	return &http.Server{
		Addr:         net.JoinHostPort(s.Host, s.Port),
		Handler:      handler,
		ReadTimeout:  s.ReadTimeout,
		WriteTimeout: s.WriteTimeout,
		IdleTimeout:  s.IdleTimeout,
	}
}

// startWithGracefulShutdown serves until ctx is done or the listener fails
func (s *Server) startWithGracefulShutdown(ctx context.Context, server *http.Server) error {
	serverErrors := make(chan error, 1)

	go func() {
		s.Logger.Info("Starting HTTP server", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	select {
	case err := <-serverErrors:
		s.cleanupRateLimiter()
		return fmt.Errorf("server failed to start: %w", err)
	case <-ctx.Done():
		s.Logger.Info("Received shutdown signal, starting graceful shutdown")
		return s.performGracefulShutdown(server)
	}
}

// performGracefulShutdown handles the graceful shutdown process
func (s *Server) performGracefulShutdown(server *http.Server) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.cleanupRateLimiter()

	s.Logger.Info("Shutting down HTTP server...")
	if err := server.Shutdown(shutdownCtx); err != nil {
		s.Logger.LogError(err, "Failed to shutdown server gracefully, forcing close")
		return server.Close()
	}

	s.Logger.Info("Server shutdown completed successfully")
	return nil
}

// cleanupRateLimiter cleans up the rate limiter resources
func (s *Server) cleanupRateLimiter() {
	if s.RateLimiter != nil {
		s.RateLimiter.Close()
		s.Logger.Info("Rate limiter cleaned up")
	}
}
