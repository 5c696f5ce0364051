package ai

import (
	"context"
	"fmt"
	"time"

	"resumeparser/internal/config"
	"resumeparser/internal/errors"
)

// Service owns the AI provider used for résumé structuring
type Service struct {
	Provider AIProvider // Exported for access from server package
	config   *config.OperationAIConfig
	logger   *errors.Logger
}

// NewService creates the AI service for the structure operation
func NewService(cfg *config.OperationAIConfig, prompts config.PromptPair, logger *errors.Logger) (*Service, error) {
	var provider AIProvider
	var err error

	logger.Debug("Initializing AI service",
		"provider", cfg.Provider,
		"model", cfg.Model,
		"temperature", *cfg.Temperature,
		"timeout", *cfg.Timeout,
		"use_system_prompts", *cfg.UseSystemPrompts)

	switch cfg.Provider {
	case "gemini":
		provider, err = NewGeminiProvider(cfg, prompts, logger)
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported AI provider: %s", cfg.Provider), nil)
	}

	if err != nil {
		return nil, errors.NewAIError(errors.ErrCodeAIServiceFailed,
			"Failed to create AI provider", err)
	}

	return &Service{
		Provider: provider,
		config:   cfg,
		logger:   logger,
	}, nil
}

// NewStructureService builds the structuring service from the full configuration,
// resolving operation overrides and custom prompts
func NewStructureService(cfg *config.Config, logger *errors.Logger) (*Service, error) {
	structureCfg := cfg.GetStructureConfig()
	if structureCfg.APIKey == "" {
		return nil, errors.NewConfigError(errors.ErrCodeMissingAPIKey,
			"AI structuring requires an API key (set RESUMEPARSER_AI_APIKEY or GEMINI_API_KEY)", nil)
	}
	svc, err := NewService(&structureCfg, cfg.StructurePrompts(), logger)
	if err != nil {
		return nil, err
	}
	if g, ok := svc.Provider.(*GeminiProvider); ok {
		g.SetModelCheckTimeout(cfg.Observability.HealthCheck.AIModelCheckTimeout)
	}
	return svc, nil
}

// Timeout is the per-call structuring budget
func (s *Service) Timeout() time.Duration {
	if s.config.Timeout == nil {
		return 0
	}
	return *s.config.Timeout
}

// GetModelInfo returns information about the AI model for health checks
func (s *Service) GetModelInfo(ctx context.Context) *ModelInfo {
	return s.Provider.GetModelInfo(ctx)
}

// CircuitBreakerStats returns breaker statistics when the provider keeps any
func (s *Service) CircuitBreakerStats() map[string]any {
	if p, ok := s.Provider.(interface{ GetCircuitBreakerStats() map[string]any }); ok {
		return p.GetCircuitBreakerStats()
	}
	return nil
}

// Close releases the provider
func (s *Service) Close() error {
	return s.Provider.Close()
}
