package config

import "strings"

// Provider names accepted in summarizer.provider.
const (
	ProviderGemini           = "gemini"
	ProviderOpenAI           = "openai"
	ProviderAnthropic        = "anthropic"
	ProviderOpenAICompatible = "openai-compatible"
)

// Values accepted in mail.tls.
const (
	MailTLSStartTLS = "starttls"
	MailTLSImplicit = "ssl"
	MailTLSNone     = "none"
)

// DefaultSubject is used when an email request has no subject.
const DefaultSubject = "Meeting Summary"

// defaultModels maps each provider to the model used when summarizer.model is empty.
var defaultModels = map[string]string{
	ProviderGemini:           "gemini-2.5-flash",
	ProviderOpenAI:           "gpt-5-mini",
	ProviderAnthropic:        "claude-sonnet-4-5",
	ProviderOpenAICompatible: "llama3.1",
}

// DefaultModel returns the default model for provider, or "" when the provider is unknown.
func DefaultModel(provider string) string {
	return defaultModels[provider]
}

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Server.AllowedOrigins == nil {
		cfg.Server.AllowedOrigins = []string{"*"}
	}
	if cfg.Server.MaxUploadBytes == 0 {
		cfg.Server.MaxUploadBytes = 10 << 20
	}
	cfg.Summarizer.Provider = strings.ToLower(strings.TrimSpace(cfg.Summarizer.Provider))
	if cfg.Summarizer.Provider == "" {
		cfg.Summarizer.Provider = ProviderGemini
	}
	if cfg.Summarizer.Model == "" {
		cfg.Summarizer.Model = DefaultModel(cfg.Summarizer.Provider)
	}
	if cfg.Mail.Host == "" {
		cfg.Mail.Host = "smtp.gmail.com"
	}
	if cfg.Mail.TLS == "" {
		cfg.Mail.TLS = MailTLSStartTLS
	}
	if cfg.Mail.Port == 0 {
		if cfg.Mail.TLS == MailTLSImplicit {
			cfg.Mail.Port = 465
		} else {
			cfg.Mail.Port = 587
		}
	}
	if cfg.Mail.FromName == "" {
		cfg.Mail.FromName = "Meeting Summarizer"
	}
	if cfg.Mail.DefaultSubject == "" {
		cfg.Mail.DefaultSubject = DefaultSubject
	}
	if cfg.Log.File != "" {
		if cfg.Log.MaxSizeMB == 0 {
			cfg.Log.MaxSizeMB = 50
		}
		if cfg.Log.MaxBackups == 0 {
			cfg.Log.MaxBackups = 5
		}
		if cfg.Log.MaxAgeDays == 0 {
			cfg.Log.MaxAgeDays = 28
		}
	}
}
