package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
// API Key Precedence Order:
// 1. Vault (if configured) - Highest priority
// 2. Config File values
// 3. Environment Variables (RESUMEPARSER_AI_APIKEY, etc.)
// 4. Default values - Lowest priority
type Config struct {
	AI            AIConfig            `mapstructure:"ai"`
	Parser        ParserConfig        `mapstructure:"parser"`
	Server        ServerConfig        `mapstructure:"server"`
	App           AppConfig           `mapstructure:"app"`
	Vault         VaultConfig         `mapstructure:"vault"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// AIConfig holds AI service configuration
type AIConfig struct {
	// Global/fallback configuration
	Provider         string        `mapstructure:"provider"`
	Model            string        `mapstructure:"model"`
	Timeout          time.Duration `mapstructure:"timeout"`
	APIKey           string        `mapstructure:"apiKey"`
	Temperature      float32       `mapstructure:"temperature"`
	UseSystemPrompts bool          `mapstructure:"useSystemPrompts"`
	CustomPrompts    PromptConfig  `mapstructure:"customPrompts"`

	// Operation-specific configuration
	Structure OperationAIConfig `mapstructure:"structure"`
}

// CircuitBreakerConfig represents circuit breaker configuration
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`          // Whether circuit breaker is enabled
	MaxRequests      uint32        `mapstructure:"maxRequests"`      // Max requests allowed when half-open
	Interval         time.Duration `mapstructure:"interval"`         // Interval to clear counts
	Timeout          time.Duration `mapstructure:"timeout"`          // Timeout for half-open to open
	MinRequests      uint32        `mapstructure:"minRequests"`      // Minimum requests before tripping
	FailureThreshold float64       `mapstructure:"failureThreshold"` // Failure ratio threshold (0.0-1.0)
}

// OperationAIConfig holds AI configuration for specific operations
type OperationAIConfig struct {
	Provider         string               `mapstructure:"provider"`
	Model            string               `mapstructure:"model"`
	Timeout          *time.Duration       `mapstructure:"timeout"`
	APIKey           string               `mapstructure:"apiKey"`
	Temperature      *float32             `mapstructure:"temperature"`
	UseSystemPrompts *bool                `mapstructure:"useSystemPrompts"`
	CustomPrompts    PromptConfig         `mapstructure:"customPrompts"`
	CircuitBreaker   CircuitBreakerConfig `mapstructure:"circuitBreaker"`
}

// PromptConfig holds configuration for customizable prompts
type PromptConfig struct {
	SystemPrompts SystemPrompts `mapstructure:"systemPrompts"`
	UserPrompts   UserPrompts   `mapstructure:"userPrompts"`
}

// SystemPrompts contains system-level instructions
type SystemPrompts struct {
	StructureResume     string `mapstructure:"structureResume"`
	StructureResumeFile string `mapstructure:"structureResumeFile"`
}

// UserPrompts contains user-level prompt templates
type UserPrompts struct {
	StructureResume     string `mapstructure:"structureResume"`
	StructureResumeFile string `mapstructure:"structureResumeFile"`
}

// ParserConfig holds the heuristic parser configuration
type ParserConfig struct {
	EnableAI bool `mapstructure:"enableAI"`

	// SectionAliases maps a section name to the headings that announce it.
	// Sections left out keep their built-in aliases.
	SectionAliases map[string][]string `mapstructure:"sectionAliases"`
	// AliasesFile is a YAML dictionary merged over SectionAliases and FieldAliases
	AliasesFile  string `mapstructure:"aliasesFile"`
	WatchAliases bool   `mapstructure:"watchAliases"`
	// FieldAliases maps section -> alternative key -> canonical field for AI output
	FieldAliases map[string]map[string]string `mapstructure:"fieldAliases"`

	Evidence EvidenceConfig                  `mapstructure:"evidence"`
	Scoring  map[string]SectionScoringConfig `mapstructure:"scoring"`
	Lexicon  LexiconConfig                   `mapstructure:"lexicon"`
}

// EvidenceConfig holds the grounding thresholds
type EvidenceConfig struct {
	SummarySimilarity float64 `mapstructure:"summarySimilarity"` // Jaccard threshold for summary replacement
	MinParagraphChars int     `mapstructure:"minParagraphChars"`
	MaxParagraphChars int     `mapstructure:"maxParagraphChars"`
}

// SectionScoringConfig overrides the confidence weight and fields of one section
type SectionScoringConfig struct {
	Weight   float64  `mapstructure:"weight"`
	Required []string `mapstructure:"required"`
	Optional []string `mapstructure:"optional"`
}

// LexiconConfig overrides the keyword and pattern lists. Empty lists keep the built-in ones.
type LexiconConfig struct {
	NamePatterns         []string `mapstructure:"namePatterns"`
	CommonFirstNames     []string `mapstructure:"commonFirstNames"`
	CommonLanguages      []string `mapstructure:"commonLanguages"`
	JobTitleKeywords     []string `mapstructure:"jobTitleKeywords"`
	DegreeKeywords       []string `mapstructure:"degreeKeywords"`
	InstitutionKeywords  []string `mapstructure:"institutionKeywords"`
	PlaceholderPhrases   []string `mapstructure:"placeholderPhrases"`
	ProfessionalKeywords []string `mapstructure:"professionalKeywords"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"readTimeout"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout  time.Duration `mapstructure:"idleTimeout"`

	// API Authentication
	APIKeys []string `mapstructure:"apiKeys"` // Valid API keys for authentication

	// Rate Limiting Configuration
	RateLimit RateLimitConfig `mapstructure:"rateLimit"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled        bool          `mapstructure:"enabled"`        // Enable/disable rate limiting
	RequestsPerMin int           `mapstructure:"requestsPerMin"` // Requests allowed per minute
	BurstCapacity  int           `mapstructure:"burstCapacity"`  // Burst capacity for token bucket
	ByIP           bool          `mapstructure:"byIP"`           // Enable per-IP rate limiting
	ByAPIKey       bool          `mapstructure:"byAPIKey"`       // Enable per-API-key rate limiting
	Window         time.Duration `mapstructure:"window"`         // Idle time after which a client limiter is evicted
}

// AppConfig holds general application configuration
type AppConfig struct {
	LogLevel         string   `mapstructure:"logLevel"`
	DefaultFormat    string   `mapstructure:"defaultFormat"`
	SupportedFormats []string `mapstructure:"supportedFormats"`
	MaxFileSize      int64    `mapstructure:"maxFileSize"`
}

// ObservabilityConfig holds observability configuration
type ObservabilityConfig struct {
	Enabled         bool                `mapstructure:"enabled"`
	ServiceName     string              `mapstructure:"serviceName"`
	ServiceVersion  string              `mapstructure:"serviceVersion"`
	ServiceInstance string              `mapstructure:"serviceInstance"`
	ConsoleOutput   bool                `mapstructure:"consoleOutput"`
	SampleRate      float64             `mapstructure:"sampleRate"`
	Tracing         TracingConfig       `mapstructure:"tracing"`
	Metrics         MetricsConfig       `mapstructure:"metrics"`
	CustomMetrics   CustomMetricsConfig `mapstructure:"customMetrics"`
	Console         ConsoleConfig       `mapstructure:"console"`
	Prometheus      PrometheusConfig    `mapstructure:"prometheus"`
	OTLP            OTLPConfig          `mapstructure:"otlp"`
	HealthCheck     HealthCheckConfig   `mapstructure:"healthCheck"`
}

// TracingConfig holds tracing configuration
type TracingConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	SampleRate float64 `mapstructure:"sampleRate"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled            bool          `mapstructure:"enabled"`
	CollectionInterval time.Duration `mapstructure:"collectionInterval"`
}

// ConsoleConfig holds console output configuration
type ConsoleConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	PrettyPrint bool `mapstructure:"prettyPrint"`
}

// CustomMetricsConfig holds fine-grained custom metrics configuration
type CustomMetricsConfig struct {
	AIOperations    AIOperationsMetricsConfig   `mapstructure:"aiOperations"`
	BusinessMetrics BusinessMetricsConfig       `mapstructure:"businessMetrics"`
	Infrastructure  InfrastructureMetricsConfig `mapstructure:"infrastructure"`
}

// AIOperationsMetricsConfig holds AI operation metrics configuration
type AIOperationsMetricsConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	TrackDuration   bool `mapstructure:"trackDuration"`
	TrackTokenUsage bool `mapstructure:"trackTokenUsage"`
}

// BusinessMetricsConfig holds parse outcome metrics configuration
type BusinessMetricsConfig struct {
	Enabled            bool `mapstructure:"enabled"`
	TrackSuccessRates  bool `mapstructure:"trackSuccessRates"`
	TrackConfidence    bool `mapstructure:"trackConfidence"`
	TrackEvidenceDrops bool `mapstructure:"trackEvidenceDrops"`
	TrackContentSizes  bool `mapstructure:"trackContentSizes"`
}

// InfrastructureMetricsConfig holds infrastructure metrics configuration
type InfrastructureMetricsConfig struct {
	Enabled                bool `mapstructure:"enabled"`
	TrackRateLimits        bool `mapstructure:"trackRateLimits"`
	TrackDictionaryReloads bool `mapstructure:"trackDictionaryReloads"`
}

// PrometheusConfig holds Prometheus configuration
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Port     string `mapstructure:"port"`
}

// OTLPConfig holds OTLP exporter configuration
type OTLPConfig struct {
	Enabled  bool              `mapstructure:"enabled"`
	Endpoint string            `mapstructure:"endpoint"`
	Insecure bool              `mapstructure:"insecure"`
	Headers  map[string]string `mapstructure:"headers"`
}

// HealthCheckConfig holds health check configuration
type HealthCheckConfig struct {
	Timeout             time.Duration `mapstructure:"timeout"`
	AIModelCheckTimeout time.Duration `mapstructure:"aiModelCheckTimeout"`
}

// LoadConfig loads configuration from environment variables and a config file
func LoadConfig() (*Config, error) {
	return loadConfig("")
}

// LoadConfigFile loads configuration from an explicit file path instead of
// searching the default locations
func LoadConfigFile(path string) (*Config, error) {
	return loadConfig(path)
}

func loadConfig(explicitFile string) (*Config, error) {
	log.Println("[CONFIG] Starting configuration loading process")

	v := viper.New()

	// Set default values
	setDefaults(v)
	log.Println("[CONFIG] Applied default configuration values")

	// Set up environment variable handling
	v.SetEnvPrefix("RESUMEPARSER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	log.Println("[CONFIG] Configured environment variable handling with prefix 'RESUMEPARSER'")

	// Set up config file handling
	if explicitFile != "" {
		v.SetConfigFile(explicitFile)
		log.Printf("[CONFIG] Using explicit config file: %s", explicitFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/resumeparser/")
		v.AddConfigPath("$HOME/.resumeparser")
		v.AddConfigPath(".")
		log.Println("[CONFIG] Configured config file search paths: /etc/resumeparser/, $HOME/.resumeparser, .")
	}

	// Read the config file
	configFileUsed := ""
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || explicitFile != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		log.Println("[CONFIG] No config file found, using defaults and environment variables")
	} else {
		configFileUsed = v.ConfigFileUsed()
		log.Printf("[CONFIG] Successfully loaded config file: %s", configFileUsed)
	}

	// Unmarshal the configuration into the Config struct
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	log.Println("[CONFIG] Successfully unmarshaled configuration")

	config.applyFallbacks()
	log.Println("[CONFIG] Applied configuration fallbacks and environment variable overrides")

	// Log configuration sources summary
	config.logConfigurationSources(configFileUsed)

	// Validate prompt files before attempting to load them
	if err := config.validatePromptFiles(); err != nil {
		return nil, fmt.Errorf("prompt file validation failed: %w", err)
	}

	// Load custom prompts from external files
	if err := config.loadPromptsFromFiles(); err != nil {
		return nil, fmt.Errorf("failed to load custom prompts from files: %w", err)
	}

	// Check the alias dictionary file decodes
	if err := config.validateDictionaryFile(); err != nil {
		return nil, fmt.Errorf("failed to load alias dictionary: %w", err)
	}

	// Validate the configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log.Println("[CONFIG] Configuration loading completed successfully")
	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Parser.EnableAI {
		vaultProvidesKey := c.Vault.Enabled && c.Vault.Secrets.GeminiKey != ""
		if c.AI.APIKey == "" && c.AI.Structure.APIKey == "" && !vaultProvidesKey {
			return fmt.Errorf("AI API key is required when parser.enableAI is set (set RESUMEPARSER_AI_APIKEY environment variable)")
		}
		if c.AI.Timeout <= 0 {
			return fmt.Errorf("AI timeout must be positive")
		}
	}

	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if rl := c.Server.RateLimit; rl.Enabled && (rl.RequestsPerMin <= 0 || rl.BurstCapacity <= 0) {
		return fmt.Errorf("rateLimit.requestsPerMin and rateLimit.burstCapacity must be positive when rate limiting is enabled")
	}
	if c.Vault.PollInterval < 0 {
		return fmt.Errorf("vault.pollInterval must not be negative")
	}

	validFormats := make(map[string]bool)
	for _, format := range c.App.SupportedFormats {
		validFormats[format] = true
	}
	if !validFormats[c.App.DefaultFormat] {
		return fmt.Errorf("invalid default format: %s", c.App.DefaultFormat)
	}

	if err := c.Parser.validate(); err != nil {
		return fmt.Errorf("parser configuration error: %w", err)
	}

	return nil
}

func (p *ParserConfig) validate() error {
	if p.WatchAliases && p.AliasesFile == "" {
		return fmt.Errorf("watchAliases requires aliasesFile")
	}
	ev := p.Evidence
	if ev.SummarySimilarity <= 0 || ev.SummarySimilarity > 1 {
		return fmt.Errorf("evidence.summarySimilarity must be in (0, 1], got %v", ev.SummarySimilarity)
	}
	if ev.MinParagraphChars <= 0 || ev.MaxParagraphChars <= ev.MinParagraphChars {
		return fmt.Errorf("evidence paragraph bounds must satisfy 0 < min < max, got %d..%d",
			ev.MinParagraphChars, ev.MaxParagraphChars)
	}
	for section, sc := range p.Scoring {
		if sc.Weight < 0 {
			return fmt.Errorf("scoring weight for %s must not be negative", section)
		}
	}
	return nil
}

// Global configuration instance
var GlobalConfig *Config

// InitConfig initializes the global configuration
func InitConfig() error {
	config, err := LoadConfig()
	if err != nil {
		return err
	}
	GlobalConfig = config
	return nil
}
