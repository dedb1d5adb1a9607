package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	viper "github.com/spf13/viper"
	gotenv "github.com/subosito/gotenv"
)

const (
	// ConfigDirName is the directory holding the project configuration
	ConfigDirName = ".triage"
	// ConfigFileName is the configuration file name inside ConfigDirName
	ConfigFileName = "config.yaml"
	// EnvPrefix prefixes every environment override (TRIAGE_GITHUB_BASE_URL, ...)
	EnvPrefix = "TRIAGE"
)

// DefaultConfigPath is the config file used when --config is not given
var DefaultConfigPath = filepath.Join(ConfigDirName, ConfigFileName)

// Config represents the triage server configuration
type Config struct {
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
	GitHub  GitHubConfig  `yaml:"github" mapstructure:"github"`
	Gateway GatewayConfig `yaml:"gateway" mapstructure:"gateway"`
	Triage  TriageConfig  `yaml:"triage" mapstructure:"triage"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Tracing TracingConfig `yaml:"tracing" mapstructure:"tracing"`
}

// LoggingConfig contains logger settings
type LoggingConfig struct {
	Debug  bool   `yaml:"debug" mapstructure:"debug"`
	Format string `yaml:"format" mapstructure:"format"`
}

// GitHubConfig contains issue tracker connection settings
type GitHubConfig struct {
	Token    string `yaml:"token" mapstructure:"token"`
	BaseURL  string `yaml:"base_url" mapstructure:"base_url"`
	Timeout  int    `yaml:"timeout" mapstructure:"timeout"`
	PerPage  int    `yaml:"per_page" mapstructure:"per_page"`
	MaxPages int    `yaml:"max_pages" mapstructure:"max_pages"`
}

// GatewayConfig contains chat completion gateway settings
type GatewayConfig struct {
	URL     string `yaml:"url" mapstructure:"url"`
	APIKey  string `yaml:"api_key" mapstructure:"api_key"`
	Timeout int    `yaml:"timeout" mapstructure:"timeout"`
}

// TriageConfig contains settings for the LLM-backed tools
type TriageConfig struct {
	Model       string `yaml:"model" mapstructure:"model"`
	MaxTokens   int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	PromptsFile string `yaml:"prompts_file" mapstructure:"prompts_file"`
}

// ServerConfig contains the tool server transport settings
type ServerConfig struct {
	Transport string `yaml:"transport" mapstructure:"transport"`
	Address   string `yaml:"address" mapstructure:"address"`
	Path      string `yaml:"path" mapstructure:"path"`
}

// TracingConfig contains OpenTelemetry settings
type TracingConfig struct {
	Enabled     bool   `yaml:"enabled" mapstructure:"enabled"`
	ServiceName string `yaml:"service_name" mapstructure:"service_name"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Debug:  false,
			Format: "json",
		},
		GitHub: GitHubConfig{
			Token:    "",
			BaseURL:  "https://api.github.com",
			Timeout:  30,
			PerPage:  100,
			MaxPages: 10,
		},
		Gateway: GatewayConfig{
			URL:     "http://localhost:8080",
			APIKey:  "",
			Timeout: 120,
		},
		Triage: TriageConfig{
			Model:     "openai/gpt-4o",
			MaxTokens: 2048,
		},
		Server: ServerConfig{
			Transport: "stdio",
			Address:   ":3000",
			Path:      "/mcp",
		},
		Tracing: TracingConfig{
			Enabled:     false,
			ServiceName: "triage",
		},
	}
}

// SetDefaults registers every default value on the given viper instance
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("logging.debug", d.Logging.Debug)
	v.SetDefault("logging.format", d.Logging.Format)

	v.SetDefault("github.token", d.GitHub.Token)
	v.SetDefault("github.base_url", d.GitHub.BaseURL)
	v.SetDefault("github.timeout", d.GitHub.Timeout)
	v.SetDefault("github.per_page", d.GitHub.PerPage)
	v.SetDefault("github.max_pages", d.GitHub.MaxPages)

	v.SetDefault("gateway.url", d.Gateway.URL)
	v.SetDefault("gateway.api_key", d.Gateway.APIKey)
	v.SetDefault("gateway.timeout", d.Gateway.Timeout)

	v.SetDefault("triage.model", d.Triage.Model)
	v.SetDefault("triage.max_tokens", d.Triage.MaxTokens)
	v.SetDefault("triage.prompts_file", d.Triage.PromptsFile)

	v.SetDefault("server.transport", d.Server.Transport)
	v.SetDefault("server.address", d.Server.Address)
	v.SetDefault("server.path", d.Server.Path)

	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)
}

// BindEnvironment wires environment overrides. TRIAGE_<SECTION>_<KEY> works for
// every key; the well-known credential variables are bound explicitly.
func BindEnvironment(v *viper.Viper) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("github.token", EnvPrefix+"_GITHUB_TOKEN", "GITHUB_TOKEN", "GH_TOKEN"); err != nil {
		return fmt.Errorf("failed to bind github token: %w", err)
	}
	if err := v.BindEnv("gateway.api_key", EnvPrefix+"_GATEWAY_API_KEY", "INFER_GATEWAY_API_KEY"); err != nil {
		return fmt.Errorf("failed to bind gateway api key: %w", err)
	}
	return nil
}

// Load reads configuration from defaults, an optional config file, a .env file
// and the environment, in increasing order of precedence.
func Load(v *viper.Viper, configPath string) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	SetDefaults(v)
	if err := BindEnvironment(v); err != nil {
		return nil, err
	}

	if configPath == "" {
		configPath = DefaultConfigPath
	}
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.GitHub.Token = ResolveEnvironmentVariables(cfg.GitHub.Token)
	cfg.Gateway.APIKey = ResolveEnvironmentVariables(cfg.Gateway.APIKey)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the server cannot run with
func (c *Config) Validate() error {
	switch c.Server.Transport {
	case "stdio", "http":
	default:
		return fmt.Errorf("server.transport must be one of [stdio http], got %q", c.Server.Transport)
	}

	if c.Triage.MaxTokens <= 0 {
		return fmt.Errorf("triage.max_tokens must be positive, got %d", c.Triage.MaxTokens)
	}

	if c.GitHub.PerPage < 1 || c.GitHub.PerPage > 100 {
		return fmt.Errorf("github.per_page must be between 1 and 100, got %d", c.GitHub.PerPage)
	}

	if c.GitHub.MaxPages < 1 {
		return fmt.Errorf("github.max_pages must be positive, got %d", c.GitHub.MaxPages)
	}

	if !strings.Contains(c.Triage.Model, "/") {
		return fmt.Errorf("triage.model must be in provider/model format, got %q", c.Triage.Model)
	}

	return nil
}

// ResolveEnvironmentVariables expands ${VAR} and $VAR references in a value
func ResolveEnvironmentVariables(value string) string {
	if !strings.Contains(value, "$") {
		return value
	}
	return os.ExpandEnv(value)
}

// loadDotEnv loads ./.env without overriding variables already set
func loadDotEnv() error {
	if _, err := os.Stat(".env"); os.IsNotExist(err) {
		return nil
	}
	if err := gotenv.Load(".env"); err != nil {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}
