package common

import (
	"context"

	"golang.org/x/sync/errgroup"

	"resumeparser/internal/errors"
	"resumeparser/internal/ingest"
	"resumeparser/internal/types"
)

// ParseFunc parses one loaded document
type ParseFunc func(ctx context.Context, in types.ParseResumeInput) types.ParseResult

// BatchConfig controls a multi-file parse
type BatchConfig struct {
	CommandConfig
	UseAI       bool
	Concurrency int
	MaxFileSize int64
}

// RunParseCommand loads every file, parses them concurrently and writes the
// results in input order. One file yields a single result; several yield a list.
func RunParseCommand(ctx context.Context, logger *errors.Logger, cfg BatchConfig, files []string, parse ParseFunc) error {
	if logger == nil {
		logger = errors.NewNopLogger()
	}

	docs, err := ingest.NewLoader(cfg.MaxFileSize, logger).LoadAll(files...)
	if err != nil {
		return err
	}

	results, err := ParseAll(ctx, docs, cfg.UseAI, cfg.Concurrency, parse)
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if !r.Success {
			failed++
		}
	}
	logger.Info("Parsed input files", "files", len(results), "failed", failed, "ai", cfg.UseAI)

	out := NewOutputHandler(logger)
	if len(results) == 1 {
		return out.HandleOutput(results[0], cfg.CommandConfig)
	}
	return out.HandleOutput(results, cfg.CommandConfig)
}

// ParseAll parses docs with at most concurrency parses in flight. Results keep
// the order of docs. Cancelling ctx stops scheduling further documents.
func ParseAll(ctx context.Context, docs []ingest.Document, useAI bool, concurrency int, parse ParseFunc) ([]types.ParseResult, error) {
	if concurrency < 1 {
		concurrency = 1
	}
	results := make([]types.ParseResult, len(docs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, doc := range docs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = parse(ctx, types.ParseResumeInput{
				Text:       doc.Text,
				UseAI:      useAI,
				SourceName: doc.Name,
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
