// Package pipeline runs the full parse: text normalization, section detection
// and extraction, optional AI structuring and merge, evidence filtering,
// normalization and confidence scoring.
package pipeline

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"resumeparser/internal/ai"
	"resumeparser/internal/confidence"
	"resumeparser/internal/errors"
	"resumeparser/internal/evidence"
	"resumeparser/internal/heuristic"
	"resumeparser/internal/lexicon"
	"resumeparser/internal/merge"
	"resumeparser/internal/normalize"
	"resumeparser/internal/textnorm"
	"resumeparser/internal/types"
)

// FailureMessage is the generic error reported when a parse fails outright
const FailureMessage = "résumé parsing failed"

// Recorder receives the outcome of every parse
type Recorder interface {
	RecordParse(ctx context.Context, result *types.ParseResult, inputBytes int)
}

// StageRecorder receives the duration of each pipeline stage. A Recorder
// that also implements it gets stage timings.
type StageRecorder interface {
	RecordStage(ctx context.Context, stage string, duration time.Duration)
}

// Options assembles a Parser. Zero values take the built-in defaults.
type Options struct {
	Lexicon        *lexicon.Lexicon
	SectionAliases map[string][]string
	Heuristic      heuristic.Options
	Evidence       evidence.Options
	Scoring        confidence.Options
	Structurer     *ai.Structurer // nil disables AI structuring
	Recorder       Recorder
	Logger         *errors.Logger
}

// Parser is immutable after New and safe for concurrent use
type Parser struct {
	engine     *heuristic.Engine
	filter     *evidence.Filter
	scorer     *confidence.Scorer
	structurer *ai.Structurer
	recorder   Recorder
	stages     StageRecorder
	logger     *errors.Logger
	tracer     trace.Tracer
}

// New builds a parser from opts
func New(opts Options) *Parser {
	logger := opts.Logger
	if logger == nil {
		logger = errors.NewNopLogger()
	}
	lex := opts.Lexicon
	if lex == nil {
		lex = lexicon.Default()
	}

	engine := heuristic.New(lex, opts.SectionAliases, opts.Heuristic)

	scoring := opts.Scoring
	if scoring.MinSummaryChars == 0 {
		scoring.MinSummaryChars = opts.Heuristic.MinParagraphChars
	}
	if scoring.MaxSummaryChars == 0 {
		scoring.MaxSummaryChars = opts.Heuristic.MaxParagraphChars
	}

	stages, _ := opts.Recorder.(StageRecorder)

	return &Parser{
		engine:     engine,
		filter:     evidence.New(lex, engine, opts.Evidence, logger),
		scorer:     confidence.New(scoring),
		structurer: opts.Structurer,
		recorder:   opts.Recorder,
		stages:     stages,
		logger:     logger,
		tracer:     otel.Tracer("resumeparser.pipeline"),
	}
}

// AIEnabled reports whether the parser can structure with AI
func (p *Parser) AIEnabled() bool {
	return p.structurer != nil
}

// Parse structures in.Text. It never returns an error: a failed parse yields
// an envelope with Success false, empty data and a zero confidence report.
func (p *Parser) Parse(ctx context.Context, in types.ParseResumeInput) (result types.ParseResult) {
	start := time.Now()
	id := uuid.NewString()
	logger := p.logger.With("parse_id", id)

	ctx, span := p.tracer.Start(ctx, "pipeline.parse", trace.WithAttributes(
		attribute.String("parse.id", id),
		attribute.Int("input.text_length", len(in.Text)),
		attribute.Bool("ai.requested", in.UseAI),
	))
	defer span.End()

	defer func() {
		if rec := recover(); rec != nil {
			err := errors.NewInternalError(errors.ErrCodeParseFailed, "parse panicked", fmt.Errorf("%v", rec)).
				WithContext("stack", string(debug.Stack()))
			logger.LogError(err, "Parse failed, returning failure envelope")
			span.RecordError(err)
			result = Failure(id, in.SourceName, FailureMessage)
		}
		result.DurationMs = time.Since(start).Milliseconds()
		span.SetAttributes(
			attribute.Bool("success", result.Success),
			attribute.Bool("ai.used", result.AIUsed),
			attribute.Int("confidence.overall", result.Confidence.OverallScore),
		)
		if p.recorder != nil {
			p.recorder.RecordParse(ctx, &result, len(in.Text))
		}
	}()

	record, aiUsed, dropped := p.run(ctx, logger, in)
	report := runStage(ctx, p, "score", func() types.ConfidenceReport { return p.scorer.Score(&record) })

	logger.Info("Parse completed",
		"source", in.SourceName,
		"ai_used", aiUsed,
		"overall_score", report.OverallScore,
		"sections_found", len(report.SectionsFound))

	return types.ParseResult{
		Success:    true,
		ID:         id,
		SourceName: in.SourceName,
		Data:       record,
		Confidence: report,
		AIUsed:     aiUsed,
		Dropped:    dropped,
	}
}

// run executes every mutating stage in order and returns the final record
func (p *Parser) run(ctx context.Context, logger *errors.Logger, in types.ParseResumeInput) (types.ParsedResume, bool, map[string]int) {
	rep := runStage(ctx, p, "textnorm", func() textnorm.Report { return textnorm.NormalizeWithReport([]byte(in.Text)) })
	if rep.Encoding != "" || rep.DroppedBytes {
		logger.Debug("Input text needed repair", "encoding", rep.Encoding, "dropped_bytes", rep.DroppedBytes)
	}
	text := rep.Text

	detection := runStage(ctx, p, "detect", func() *heuristic.Detection { return p.engine.Detect(text) })
	runStep(ctx, p, "reclassify", func() { p.engine.Reclassify(detection) })
	record := runStage(ctx, p, "extract", func() types.ParsedResume { return p.engine.Extract(detection) })

	aiUsed := false
	if in.UseAI && p.structurer != nil {
		if structured := p.structure(ctx, logger, text); structured != nil {
			record = runStage(ctx, p, "merge", func() types.ParsedResume { return merge.Merge(&record, structured) })
			aiUsed = true
		}
	}

	dropped := runStage(ctx, p, "evidence", func() map[string]int { return p.filter.Apply(&record, text) })
	runStep(ctx, p, "normalize", func() { normalize.Resume(&record) })

	if len(dropped) == 0 {
		dropped = nil
	}
	return record, aiUsed, dropped
}

// structure asks the AI structurer for a record; any failure means no AI data
func (p *Parser) structure(ctx context.Context, logger *errors.Logger, text string) *types.ParsedResume {
	ctx, span := p.tracer.Start(ctx, "pipeline.ai_structure")
	defer span.End()

	structured, err := p.structurer.Structure(ctx, text)
	if err != nil {
		span.RecordError(err)
		logger.Debug("Continuing with heuristic extraction only", "error_code", errors.CodeOf(err))
		return nil
	}
	return structured
}

// runStage runs fn inside a span named after the stage and reports its duration
func runStage[T any](ctx context.Context, p *Parser, name string, fn func() T) T {
	defer p.stage(ctx, name)()
	return fn()
}

func runStep(ctx context.Context, p *Parser, name string, fn func()) {
	defer p.stage(ctx, name)()
	fn()
}

func (p *Parser) stage(ctx context.Context, name string) func() {
	ctx, span := p.tracer.Start(ctx, "pipeline."+name)
	start := time.Now()
	return func() {
		span.End()
		if p.stages != nil {
			p.stages.RecordStage(ctx, name, time.Since(start))
		}
	}
}

// Sections runs detection and reclassification only and reports what was found
func (p *Parser) Sections(text string) []types.DetectedSection {
	text = textnorm.NormalizeString(text)
	d := p.engine.Detect(text)
	p.engine.Reclassify(d)
	return d.Debug()
}

// Aliases reports the heading aliases in effect, keyed by section name
func (p *Parser) Aliases() map[string][]string {
	out := make(map[string][]string)
	for _, k := range heuristic.Kinds() {
		out[k.String()] = p.engine.Aliases(k)
	}
	return out
}

// Failure is the envelope returned when a parse cannot complete
func Failure(id, sourceName, message string) types.ParseResult {
	return types.ParseResult{
		Success:    false,
		ID:         id,
		SourceName: sourceName,
		Data:       types.NewParsedResume(),
		Confidence: types.ConfidenceReport{
			SectionsFound:   []string{},
			MissingSections: []string{},
			Suggestions:     []string{confidence.ManualEntrySuggestion},
		},
		Error: message,
	}
}
