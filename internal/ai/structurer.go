package ai

import (
	"context"
	"time"

	"resumeparser/internal/errors"
	"resumeparser/internal/types"
)

// Structurer asks a provider for a structured record and turns the reply into
// a canonical, schema-valid ParsedResume. Every failure yields a nil record.
type Structurer struct {
	provider   AIProvider
	normalizer *SchemaNormalizer
	timeout    time.Duration
	logger     *errors.Logger
	observer   Observer
}

// NewStructurer wires a provider to the normalizer. A zero timeout leaves the caller's deadline in charge.
func NewStructurer(provider AIProvider, normalizer *SchemaNormalizer, timeout time.Duration, logger *errors.Logger) *Structurer {
	if normalizer == nil {
		normalizer = NewSchemaNormalizer(nil)
	}
	if logger == nil {
		logger = errors.NewNopLogger()
	}
	return &Structurer{
		provider:   provider,
		normalizer: normalizer,
		timeout:    timeout,
		logger:     logger,
	}
}

// WithObserver reports every call to o
func (s *Structurer) WithObserver(o Observer) *Structurer {
	s.observer = o
	return s
}

// Structure returns the normalized record, or nil and the reason it is absent
func (s *Structurer) Structure(ctx context.Context, text string) (*types.ParsedResume, error) {
	if s == nil || s.provider == nil {
		return nil, nil
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	reply, usage, err := s.provider.StructureResume(ctx, text)
	if s.observer != nil {
		s.observer.RecordAIRequest(ctx, "structure", time.Since(start), usage, err)
	}
	if err != nil {
		s.logger.Warn("AI structuring failed, continuing without it", "error", err.Error())
		return nil, err
	}

	raw, err := DecodeReply(reply)
	if err != nil {
		s.logger.Warn("AI reply could not be decoded", "error", err.Error(), "reply_length", len(reply))
		return nil, err
	}

	record := s.normalizer.Normalize(raw)
	if err := ValidateRecord(record); err != nil {
		s.logger.Warn("AI record failed schema validation", "error", err.Error())
		return nil, err
	}

	s.logger.Debug("AI structuring succeeded",
		"duration_ms", time.Since(start).Milliseconds(),
		"experiences", len(record.Experiences),
		"education", len(record.Education),
		"skills", len(record.Skills))
	return record, nil
}
