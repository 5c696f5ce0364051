package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"resumeparser/internal/ai"
	"resumeparser/internal/config"
	"resumeparser/internal/errors"
	"resumeparser/internal/pipeline"
)

// Define custom private types for context keys.
type configKeyType struct{}
type loggerKeyType struct{}

// Use variables of these types as the keys.
var configKey = configKeyType{}
var loggerKey = loggerKeyType{}

var configFile string

var rootCmd = &cobra.Command{
	Use:   "resumeparser",
	Short: "Turn résumé text into structured, scored data",
	Long: `resumeparser extracts contact details, experience, education, skills and
the other usual résumé sections from plain text or HTML. A heuristic parser
does the work offline; AI structuring can be switched on for better recall,
with every AI value checked against the source text before it is kept.

Each result carries a confidence report with per-section scores and
suggestions for improving the résumé.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadRuntime,
}

// Execute runs the CLI. Configuration is loaded once the flags are parsed.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// loadRuntime loads the configuration and logger and attaches them to the command context
func loadRuntime(cmd *cobra.Command, args []string) error {
	if cmd == versionCmd {
		return nil
	}

	var (
		cfg *config.Config
		err error
	)
	if configFile != "" {
		cfg, err = config.LoadConfigFile(configFile)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := errors.New(cfg.App.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := config.ApplyVaultSecrets(cfg, logger); err != nil {
		return fmt.Errorf("failed to load secrets from Vault: %w", err)
	}

	logger.Debug("Starting resumeparser",
		"version", Version,
		"command", cmd.Name(),
		"log_level", cfg.App.LogLevel,
		"ai_enabled", cfg.Parser.EnableAI)

	ctx := context.WithValue(cmd.Context(), configKey, cfg)
	ctx = context.WithValue(ctx, loggerKey, logger)
	cmd.SetContext(ctx)
	return nil
}

// getConfigFromContext is a helper function to get config from context
func getConfigFromContext(ctx context.Context) (*config.Config, error) {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg, nil
	}
	return nil, fmt.Errorf("configuration not loaded")
}

// getLoggerFromContext is a helper function to get logger from context
func getLoggerFromContext(ctx context.Context) (*errors.Logger, error) {
	if logger, ok := ctx.Value(loggerKey).(*errors.Logger); ok {
		return logger, nil
	}
	return nil, fmt.Errorf("logger not initialized")
}

// buildParser builds the configured parser. The returned close func releases
// the AI provider, if one was created.
func buildParser(cfg *config.Config, logger *errors.Logger) (*pipeline.Parser, func(), error) {
	deps := pipeline.Deps{Logger: logger}
	closeFn := func() {}

	if cfg.Parser.EnableAI {
		svc, err := ai.NewStructureService(cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		deps.Provider = svc.Provider
		closeFn = func() {
			if err := svc.Close(); err != nil {
				logger.Warn("Failed to close AI provider", "error", err.Error())
			}
		}
	}

	p, err := pipeline.FromConfig(cfg, deps)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return p, closeFn, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: search /etc/resumeparser, $HOME/.resumeparser and .)")

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(sectionsCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
}
