package ai

import (
	"context"
	"time"
)

// AIProvider is a model backend that turns résumé text into a JSON reply.
// All methods return token usage information; callers can ignore it if not needed.
type AIProvider interface {
	StructureResume(ctx context.Context, text string) (string, *TokenUsage, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	Close() error
}

// Observer receives the outcome of each structuring call
type Observer interface {
	RecordAIRequest(ctx context.Context, operation string, duration time.Duration, usage *TokenUsage, err error)
}

// TokenUsage represents token usage information from AI responses
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// ModelInfo represents information about the AI model
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}
