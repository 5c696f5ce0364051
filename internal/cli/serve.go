package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"resumeparser/internal/config"
	"resumeparser/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP parsing server",
	Long: `Start an HTTP server that parses résumés on request.

Available endpoints:
- POST /parse: Parse a résumé. Send {"text": "...", "useAI": false, "sourceName": "...", "format": "json"}
  as JSON, or the raw résumé as text/plain or text/html with ?useAI=&source=&format= in the query.
- GET /health: Parser readiness, AI model availability and circuit breaker state
- GET /stats: Rate limiting and alias dictionary reload counters

Metrics are exposed on a separate Prometheus port when observability.prometheus is enabled.
With parser.watchAliases set, edits to parser.aliasesFile are picked up without a restart.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (default from config)")
	serveCmd.Flags().String("host", "", "Host to bind to (default from config)")
	serveCmd.Flags().Bool("ai", false, "Enable AI structuring (overrides parser.enableAI)")
}

// applyServeFlags lays explicitly set flags over the loaded configuration
func applyServeFlags(cmd *cobra.Command, cfg *config.Config) error {
	v := viper.New()
	for key, flag := range map[string]string{
		"server.port":     "port",
		"server.host":     "host",
		"parser.enableAI": "ai",
	} {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return fmt.Errorf("failed to bind --%s: %w", flag, err)
		}
	}

	if cmd.Flags().Changed("port") {
		cfg.Server.Port = v.GetString("server.port")
	}
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = v.GetString("server.host")
	}
	if cmd.Flags().Changed("ai") {
		cfg.Parser.EnableAI = v.GetBool("parser.enableAI")
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	if err := applyServeFlags(cmd, cfg); err != nil {
		return err
	}

	serverCfg := server.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		Version:        Version,
		APIKeys:        cfg.Server.APIKeys,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxRequestSize: cfg.App.MaxFileSize,
		RateLimit:      &cfg.Server.RateLimit,
	}
	return server.NewServer(cfg, serverCfg, logger).Start(cmd.Context())
}
