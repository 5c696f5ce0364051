package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeparser/internal/config"
	"resumeparser/internal/types"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() { rootCmd.SetOut(nil) })

	require.NoError(t, Execute(context.Background()))
	assert.Contains(t, out.String(), "resumeparser version "+Version)
}

func TestParseCommandWritesJSON(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.yaml", "app:\n  logLevel: error\n")
	resume := writeFile(t, dir, "john.txt",
		"John Smith\njohn@example.com\n555-123-4567\n\nEXPERIENCE\nSoftware Engineer\nAcme Corp\nJan 2020 - Present\n")
	outPath := filepath.Join(dir, "out", "john.json")

	rootCmd.SetArgs([]string{"--config", cfgPath, "parse", resume, "--format", "json", "-o", outPath})
	require.NoError(t, Execute(context.Background()))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var res types.ParseResult
	require.NoError(t, json.Unmarshal(data, &res))
	assert.True(t, res.Success)
	assert.Equal(t, "john@example.com", res.Data.Contact.Email)
}

func TestApplyServeFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "serve"}
	cmd.Flags().StringP("port", "p", "", "")
	cmd.Flags().String("host", "", "")
	cmd.Flags().Bool("ai", false, "")
	require.NoError(t, cmd.Flags().Parse([]string{"--port", "9090"}))

	cfg := &config.Config{}
	cfg.Server.Host = "localhost"
	cfg.Server.Port = "8080"
	cfg.Parser.EnableAI = true

	require.NoError(t, applyServeFlags(cmd, cfg))
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.True(t, cfg.Parser.EnableAI, "unset flags keep the configured value")
}
