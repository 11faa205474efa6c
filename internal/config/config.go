package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	DatabaseURL string `env:"DATABASE_URL,required" validate:"required"`

	ERPBaseURL         string        `env:"ACCU360_API_BASE_URL,required" validate:"required,url"`
	ERPAPIKey          string        `env:"ACCU360_API_KEY"`
	ERPAPISecret       string        `env:"ACCU360_API_SECRET"`
	ERPDefaultCity     string        `env:"ACCU360_DEFAULT_CITY,required" validate:"required"`
	ERPDefaultProvince string        `env:"ACCU360_DEFAULT_PROVINCE,required" validate:"required"`
	ERPRequestTimeout  time.Duration `env:"ERP_REQUEST_TIMEOUT" envDefault:"15s"`

	WebhookSecret    string `env:"WEBHOOK_SECRET,required" validate:"required"`
	StorefrontAPIKey string `env:"STOREFRONT_API_KEY"`

	NotifierProvider   string `env:"NOTIFIER_PROVIDER" envDefault:"noop" validate:"omitempty,oneof=noop resend webhook"`
	NotifierAPIKey     string `env:"NOTIFIER_API_KEY"`
	NotifierFromEmail  string `env:"NOTIFIER_FROM_EMAIL"`
	NotifierToEmail    string `env:"NOTIFIER_TO_EMAIL"`
	NotifierWebhookURL string `env:"NOTIFIER_WEBHOOK_URL" validate:"omitempty,url"`

	CacheProvider         string `env:"CACHE_PROVIDER" envDefault:"memory" validate:"omitempty,oneof=memory redis"`
	RedisConnectionString string `env:"REDIS_CONNECTION_STRING" envDefault:"redis://localhost:6379/0" validate:"required_if=CacheProvider redis"`

	LogLevel  slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	LogFormat string     `env:"LOG_FORMAT" envDefault:"text" validate:"omitempty,oneof=text json"`
	Port      string     `env:"PORT" envDefault:"8000"`
}

var configValidator = validator.New()

func Load() (*Config, error) {
	var cfg Config

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if err := configValidator.Struct(c); err != nil {
		return err
	}

	hasKey := strings.TrimSpace(c.ERPAPIKey) != ""
	hasSecret := strings.TrimSpace(c.ERPAPISecret) != ""
	if hasKey != hasSecret {
		return fmt.Errorf("ACCU360_API_KEY and ACCU360_API_SECRET must be set together")
	}
	if !hasKey {
		return fmt.Errorf("ACCU360_API_KEY and ACCU360_API_SECRET are required")
	}

	parsed, err := url.Parse(strings.TrimSpace(c.ERPBaseURL))
	if err != nil || parsed.Hostname() == "" {
		return fmt.Errorf("ACCU360_API_BASE_URL must be a valid absolute URL")
	}

	switch c.NotifierProvider {
	case "resend":
		if strings.TrimSpace(c.NotifierAPIKey) == "" || strings.TrimSpace(c.NotifierToEmail) == "" {
			return fmt.Errorf("NOTIFIER_API_KEY and NOTIFIER_TO_EMAIL are required for the resend notifier")
		}
	case "webhook":
		if strings.TrimSpace(c.NotifierWebhookURL) == "" {
			return fmt.Errorf("NOTIFIER_WEBHOOK_URL is required for the webhook notifier")
		}
	}

	if c.ERPRequestTimeout <= 0 {
		return fmt.Errorf("ERP_REQUEST_TIMEOUT must be positive")
	}

	return nil
}

// ERPConfigured reports whether the ERP credential pair is present. Load
// already fails without it; this exists for health reporting.
func (c *Config) ERPConfigured() bool {
	return strings.TrimSpace(c.ERPAPIKey) != "" && strings.TrimSpace(c.ERPAPISecret) != ""
}
