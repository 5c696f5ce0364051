package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"resumeparser/internal/common"
)

var parseCmd = &cobra.Command{
	Use:   "parse [resume-file...]",
	Short: "Parse one or more résumés into structured data",
	Long: `Parse résumé files into structured data with a confidence report.

Plain text (.txt, .md, .text) and HTML (.html, .htm) are accepted. PDF and
Word documents must be converted to text first.

Several files are parsed concurrently; the output is then a list in the order
the files were given.`,
	Args: cobra.MinimumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return err
		}
		format, err := common.ResolveOutputFormat(parseConfig.OutputFormat, cfg.App.DefaultFormat, cfg.App.SupportedFormats)
		if err != nil {
			return err
		}
		parseConfig.OutputFormat = format

		parseConfig.Concurrency, err = common.ResolveConcurrency(parseConfig.Concurrency)
		return err
	},
	RunE: runParse,
}

var parseConfig common.BatchConfig

func init() {
	parseCmd.Flags().StringVarP(&parseConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	parseCmd.Flags().StringVar(&parseConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	parseCmd.Flags().BoolVar(&parseConfig.UseAI, "ai", false, "Structure with AI in addition to the heuristic parser")
	parseCmd.Flags().IntVar(&parseConfig.Concurrency, "concurrency", 0, "Files parsed at once (default: one per CPU)")

	_ = parseCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return common.NewOutputHandler(nil).GetSupportedFormats(), cobra.ShellCompDirectiveNoFileComp
	})
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	if parseConfig.UseAI {
		cfg.Parser.EnableAI = true
	}
	parseConfig.MaxFileSize = cfg.App.MaxFileSize

	parser, closeParser, err := buildParser(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to build parser: %w", err)
	}
	defer closeParser()

	logger.Info("Starting résumé parsing",
		"files", len(args),
		"ai", parseConfig.UseAI,
		"concurrency", parseConfig.Concurrency,
		"output_format", parseConfig.OutputFormat)

	if err := common.RunParseCommand(cmd.Context(), logger, parseConfig, args, parser.Parse); err != nil {
		return fmt.Errorf("failed to parse résumé: %w", err)
	}
	return nil
}
