package pipeline

import (
	"strings"

	"resumeparser/internal/ai"
	"resumeparser/internal/confidence"
	"resumeparser/internal/config"
	"resumeparser/internal/errors"
	"resumeparser/internal/evidence"
	"resumeparser/internal/heuristic"
	"resumeparser/internal/lexicon"
)

// Deps are the collaborators a configured parser is wired to
type Deps struct {
	Provider ai.AIProvider // used only when parser.enableAI is set
	Observer ai.Observer
	Recorder Recorder
	Logger   *errors.Logger
}

// FromConfig builds a parser from the loaded configuration. The alias
// dictionary file, if any, is read again on every call, which is how a
// reload picks up edits.
func FromConfig(cfg *config.Config, deps Deps) (*Parser, error) {
	logger := deps.Logger
	if logger == nil {
		logger = errors.NewNopLogger()
	}

	parserCfg, err := cfg.Parser.Effective()
	if err != nil {
		return nil, err
	}

	lex, err := lexicon.New(parserCfg.LexiconOptions())
	if err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "invalid parser lexicon", err)
	}

	rules := confidence.DefaultRules()
	for name, sc := range parserCfg.Scoring {
		rules.Override(strings.ToLower(name), confidence.SectionRule{
			Weight:   sc.Weight,
			Required: sc.Required,
			Optional: sc.Optional,
		})
	}

	var structurer *ai.Structurer
	if parserCfg.EnableAI && deps.Provider != nil {
		structureCfg := cfg.GetStructureConfig()
		structurer = ai.NewStructurer(deps.Provider, ai.NewSchemaNormalizer(lex), *structureCfg.Timeout, logger)
		if deps.Observer != nil {
			structurer.WithObserver(deps.Observer)
		}
	}

	logger.Debug("Parser configured",
		"section_aliases", len(parserCfg.SectionAliases),
		"field_alias_sections", len(parserCfg.FieldAliases),
		"ai_enabled", structurer != nil)

	return New(Options{
		Lexicon:        lex,
		SectionAliases: parserCfg.SectionAliases,
		Heuristic: heuristic.Options{
			MinParagraphChars: parserCfg.Evidence.MinParagraphChars,
			MaxParagraphChars: parserCfg.Evidence.MaxParagraphChars,
		},
		Evidence: evidence.Options{SummarySimilarity: parserCfg.Evidence.SummarySimilarity},
		Scoring: confidence.Options{
			Rules:           rules,
			MinSummaryChars: parserCfg.Evidence.MinParagraphChars,
			MaxSummaryChars: parserCfg.Evidence.MaxParagraphChars,
		},
		Structurer: structurer,
		Recorder:   deps.Recorder,
		Logger:     logger,
	}), nil
}
