package cli

import (
	"github.com/spf13/cobra"

	"resumeparser/internal/common"
	"resumeparser/internal/ingest"
)

var sectionsCmd = &cobra.Command{
	Use:   "sections [resume-file]",
	Short: "Show the sections detected in a résumé",
	Long: `Print every section the heuristic parser detects, whether it was found by
a heading or recognized from its content, and the lines assigned to it.
Useful when tuning section aliases.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return err
		}
		format, err := common.ResolveOutputFormat(sectionsConfig.OutputFormat, "text", cfg.App.SupportedFormats)
		sectionsConfig.OutputFormat = format
		return err
	},
	RunE: runSections,
}

var sectionsConfig common.CommandConfig

func init() {
	sectionsCmd.Flags().StringVarP(&sectionsConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	sectionsCmd.Flags().StringVar(&sectionsConfig.OutputFormat, "format", "", "Output format: json, text, or markdown (default: text)")
}

func runSections(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	doc, err := ingest.NewLoader(cfg.App.MaxFileSize, logger).Load(args[0])
	if err != nil {
		return err
	}

	// section detection never calls the AI
	cfg.Parser.EnableAI = false
	parser, closeParser, err := buildParser(cfg, logger)
	if err != nil {
		return err
	}
	defer closeParser()

	return common.NewOutputHandler(logger).HandleOutput(parser.Sections(doc.Text), sectionsConfig)
}
