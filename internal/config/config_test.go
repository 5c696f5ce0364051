package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeparser/internal/errors"
)

func validConfig() *Config {
	return &Config{
		AI: AIConfig{Provider: "gemini", Model: "gemini-2.0-flash", Timeout: 30 * time.Second},
		Parser: ParserConfig{
			Evidence: EvidenceConfig{SummarySimilarity: 0.6, MinParagraphChars: 80, MaxParagraphChars: 900},
		},
		Server: ServerConfig{Port: "8080"},
		App: AppConfig{
			DefaultFormat:    "json",
			SupportedFormats: []string{"json", "text", "markdown"},
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid without AI", mutate: func(c *Config) {}},
		{
			name:    "AI enabled without key",
			mutate:  func(c *Config) { c.Parser.EnableAI = true },
			wantErr: "API key is required",
		},
		{
			name: "AI enabled with structure key",
			mutate: func(c *Config) {
				c.Parser.EnableAI = true
				c.AI.Structure.APIKey = "k"
			},
		},
		{
			name: "AI enabled with key from vault",
			mutate: func(c *Config) {
				c.Parser.EnableAI = true
				c.Vault = VaultConfig{Enabled: true, Secrets: VaultSecrets{GeminiKey: "secret/data/gemini"}}
			},
		},
		{
			name:    "similarity out of range",
			mutate:  func(c *Config) { c.Parser.Evidence.SummarySimilarity = 1.5 },
			wantErr: "summarySimilarity",
		},
		{
			name:    "inverted paragraph bounds",
			mutate:  func(c *Config) { c.Parser.Evidence.MaxParagraphChars = 50 },
			wantErr: "paragraph bounds",
		},
		{
			name:    "watch without file",
			mutate:  func(c *Config) { c.Parser.WatchAliases = true },
			wantErr: "watchAliases",
		},
		{
			name:    "negative weight",
			mutate:  func(c *Config) { c.Parser.Scoring = map[string]SectionScoringConfig{"skills": {Weight: -1}} },
			wantErr: "weight",
		},
		{
			name: "rate limit without budget",
			mutate: func(c *Config) {
				c.Server.RateLimit = RateLimitConfig{Enabled: true, RequestsPerMin: 0, BurstCapacity: 5}
			},
			wantErr: "rateLimit",
		},
		{
			name:    "negative vault poll interval",
			mutate:  func(c *Config) { c.Vault.PollInterval = -time.Second },
			wantErr: "pollInterval",
		},
		{
			name:    "unknown default format",
			mutate:  func(c *Config) { c.App.DefaultFormat = "xml" },
			wantErr: "invalid default format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetStructureConfigFallsBackToGlobal(t *testing.T) {
	c := validConfig()
	c.AI.APIKey = "global-key"
	c.AI.Temperature = 0.4
	c.AI.CustomPrompts.SystemPrompts.StructureResume = "global system"

	op := c.GetStructureConfig()

	assert.Equal(t, "gemini", op.Provider)
	assert.Equal(t, "gemini-2.0-flash", op.Model)
	assert.Equal(t, "global-key", op.APIKey)
	require.NotNil(t, op.Timeout)
	assert.Equal(t, 30*time.Second, *op.Timeout)
	require.NotNil(t, op.Temperature)
	assert.InDelta(t, 0.4, *op.Temperature, 1e-6)
	assert.Equal(t, "global system", op.CustomPrompts.SystemPrompts.StructureResume)

	timeout := 5 * time.Second
	c.AI.Structure.Timeout = &timeout
	c.AI.Structure.Model = "gemini-2.5-flash"
	op = c.GetStructureConfig()
	assert.Equal(t, 5*time.Second, *op.Timeout)
	assert.Equal(t, "gemini-2.5-flash", op.Model)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()

	dictPath := filepath.Join(dir, "aliases.yaml")
	require.NoError(t, os.WriteFile(dictPath, []byte("sections:\n  skills: [toolbox]\n"), 0600))

	cfgPath := filepath.Join(dir, "config.yaml")
	cfgYAML := `
parser:
  aliasesFile: ` + dictPath + `
  sectionAliases:
    hobbies: [pastimes]
  evidence:
    summarySimilarity: 0.7
server:
  port: "9000"
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgYAML), 0600))

	cfg, err := LoadConfigFile(cfgPath)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.InDelta(t, 0.7, cfg.Parser.Evidence.SummarySimilarity, 1e-9)
	assert.Equal(t, 80, cfg.Parser.Evidence.MinParagraphChars)
	assert.Equal(t, []string{"pastimes"}, cfg.Parser.SectionAliases["hobbies"])

	effective, err := cfg.Parser.Effective()
	require.NoError(t, err)
	assert.Equal(t, []string{"toolbox"}, effective.SectionAliases["skills"])
	assert.Equal(t, []string{"pastimes"}, effective.SectionAliases["hobbies"])
}

func TestLoadConfigFileRejectsBrokenDictionary(t *testing.T) {
	dir := t.TempDir()
	dictPath := filepath.Join(dir, "aliases.yaml")
	require.NoError(t, os.WriteFile(dictPath, []byte("sectons:\n  skills: [toolbox]\n"), 0600))
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("parser:\n  aliasesFile: "+dictPath+"\n"), 0600))

	_, err := LoadConfigFile(cfgPath)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeDictionaryLoad, errors.CodeOf(err))
}

func TestParserConfigMerge(t *testing.T) {
	p := ParserConfig{
		SectionAliases: map[string][]string{"Skills": {"stack"}, "hobbies": {"pastimes"}},
		FieldAliases:   map[string]map[string]string{"experiences": {"employer": "company"}},
	}
	d := &Dictionary{
		Sections: map[string][]string{"skills": {"toolbox"}},
		Fields:   map[string]map[string]string{"experiences": {"gig": "jobTitle"}, "skills": {"tech": "name"}},
	}

	merged := p.Merge(d)

	assert.Equal(t, []string{"toolbox"}, merged.SectionAliases["skills"])
	assert.Equal(t, []string{"pastimes"}, merged.SectionAliases["hobbies"])
	assert.Equal(t, "company", merged.FieldAliases["experiences"]["employer"])
	assert.Equal(t, "jobTitle", merged.FieldAliases["experiences"]["gig"])
	assert.Equal(t, "name", merged.FieldAliases["skills"]["tech"])

	// the receiver is left untouched
	assert.Equal(t, []string{"stack"}, p.SectionAliases["Skills"])
	assert.NotContains(t, p.FieldAliases["experiences"], "gig")
}

func TestLoadDictionaryEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0600))

	d, err := LoadDictionary(path)
	require.NoError(t, err)
	assert.Empty(t, d.Sections)
}
