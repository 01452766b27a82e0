// Package config provides configuration loading and structs for the minutes server.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug      bool             `yaml:"debug" env:"MINUTES_DEBUG"`
	Server     ServerConfig     `yaml:"server"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
	Mail       MailConfig       `yaml:"mail"`
	Log        LogConfig        `yaml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host           string        `yaml:"host" env:"MINUTES_HOST"`
	Port           int           `yaml:"port" env:"PORT"`
	AllowedOrigins []string      `yaml:"allowed_origins" env:"MINUTES_ALLOWED_ORIGINS" envSeparator:","`
	MaxUploadBytes int64         `yaml:"max_upload_bytes" env:"MINUTES_MAX_UPLOAD_BYTES"`
	// RequestTimeout bounds a whole request when positive; zero leaves it to the client.
	RequestTimeout time.Duration `yaml:"request_timeout" env:"MINUTES_REQUEST_TIMEOUT"`
}

// SummarizerConfig selects and configures the generative-text provider.
type SummarizerConfig struct {
	Provider        string `yaml:"provider" env:"SUMMARIZER_PROVIDER"`
	APIKey          string `yaml:"api_key" env:"SUMMARIZER_API_KEY"`
	Model           string `yaml:"model" env:"SUMMARIZER_MODEL"`
	BaseURL         string `yaml:"base_url" env:"SUMMARIZER_BASE_URL"`
	MaxOutputTokens int    `yaml:"max_output_tokens" env:"SUMMARIZER_MAX_OUTPUT_TOKENS"`
}

// MailConfig holds the SMTP relay account used to send summaries.
type MailConfig struct {
	Host           string `yaml:"host" env:"SMTP_HOST"`
	Port           int    `yaml:"port" env:"SMTP_PORT"`
	Username       string `yaml:"username" env:"EMAIL_USER"`
	Password       string `yaml:"password" env:"EMAIL_PASS"`
	FromName       string `yaml:"from_name" env:"EMAIL_FROM_NAME"`
	DefaultSubject string `yaml:"default_subject" env:"EMAIL_DEFAULT_SUBJECT"`
	// TLS is one of "starttls", "ssl" or "none".
	TLS string `yaml:"tls" env:"SMTP_TLS"`
}

// LogConfig enables an additional rotating log file when File is set.
type LogConfig struct {
	File       string `yaml:"file" env:"MINUTES_LOG_FILE"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// providerKeys are the provider specific variables the summarizer key falls back to.
type providerKeys struct {
	Gemini    string `env:"GEMINI_API_KEY"`
	OpenAI    string `env:"OPENAI_API_KEY"`
	Anthropic string `env:"ANTHROPIC_API_KEY"`
}

// Load reads and parses the config file at path, applies environment overrides and
// defaults, expands paths, and validates the result.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := finish(&cfg); err != nil {
		return nil, err
	}
	if cfg.Log.File != "" {
		cfg.Log.File = expandPath(cfg.Log.File, filepath.Dir(path))
	}
	return &cfg, nil
}

// LoadEnv builds a config from environment variables and defaults only.
func LoadEnv() (*Config, error) {
	var cfg Config
	if err := finish(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func finish(cfg *Config) error {
	if err := applyEnv(cfg); err != nil {
		return err
	}
	ApplyDefaults(cfg)
	return cfg.Validate()
}

// applyEnv overrides cfg with every variable that is set; unset variables leave cfg untouched.
func applyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}
	if port := os.Getenv("MINUTES_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid MINUTES_PORT %q: %w", port, err)
		}
		cfg.Server.Port = p
	}
	if cfg.Summarizer.APIKey != "" {
		return nil
	}
	var keys providerKeys
	if err := env.Parse(&keys); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}
	switch strings.ToLower(cfg.Summarizer.Provider) {
	case "", ProviderGemini:
		cfg.Summarizer.APIKey = keys.Gemini
	case ProviderOpenAI:
		cfg.Summarizer.APIKey = keys.OpenAI
	case ProviderAnthropic:
		cfg.Summarizer.APIKey = keys.Anthropic
	}
	return nil
}

// Validate reports configuration errors that would make the server unusable.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Server.MaxUploadBytes <= 0 {
		errs = append(errs, fmt.Errorf("server.max_upload_bytes must be positive, got %d", c.Server.MaxUploadBytes))
	}
	switch c.Summarizer.Provider {
	case ProviderGemini, ProviderOpenAI, ProviderAnthropic:
	case ProviderOpenAICompatible:
		if c.Summarizer.BaseURL == "" {
			errs = append(errs, errors.New("summarizer.base_url is required for the openai-compatible provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown summarizer.provider %q", c.Summarizer.Provider))
	}
	switch c.Mail.TLS {
	case MailTLSStartTLS, MailTLSImplicit, MailTLSNone:
	default:
		errs = append(errs, fmt.Errorf("mail.tls must be starttls, ssl or none, got %q", c.Mail.TLS))
	}
	return errors.Join(errs...)
}

// Save writes the config to path. Used by "minutes init" to write a starter file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
