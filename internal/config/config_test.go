package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		DatabaseURL:        "postgres://localhost:5432/orders",
		ERPBaseURL:         "https://erp.example.com",
		ERPAPIKey:          "key",
		ERPAPISecret:       "secret",
		ERPDefaultCity:     "Dar es Salaam",
		ERPDefaultProvince: "Dar es Salaam",
		ERPRequestTimeout:  15 * time.Second,
		WebhookSecret:      "webhook-secret",
		NotifierProvider:   "noop",
		CacheProvider:      "memory",
		LogFormat:          "text",
		Port:               "8000",
	}
}

func TestValidateAcceptsCompleteConfig(t *testing.T) {
	t.Parallel()

	if err := validConfig().validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidateERPCredentialsMustBePaired(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		key    string
		secret string
	}{
		{name: "key without secret", key: "key", secret: ""},
		{name: "secret without key", key: "", secret: "secret"},
		{name: "both missing", key: "", secret: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			cfg.ERPAPIKey = tt.key
			cfg.ERPAPISecret = tt.secret

			if err := cfg.validate(); err == nil {
				t.Fatalf("expected error, got nil")
			}
		})
	}
}

func TestValidateAddressDefaultsRequired(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.ERPDefaultCity = ""

	err := cfg.validate()
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "ERPDefaultCity") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateNotifierSettings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name: "resend without api key",
			mutate: func(cfg *Config) {
				cfg.NotifierProvider = "resend"
				cfg.NotifierToEmail = "ops@example.com"
			},
			wantErr: true,
		},
		{
			name: "resend fully configured",
			mutate: func(cfg *Config) {
				cfg.NotifierProvider = "resend"
				cfg.NotifierAPIKey = "re_123"
				cfg.NotifierToEmail = "ops@example.com"
			},
			wantErr: false,
		},
		{
			name: "webhook without url",
			mutate: func(cfg *Config) {
				cfg.NotifierProvider = "webhook"
			},
			wantErr: true,
		},
		{
			name: "unknown provider",
			mutate: func(cfg *Config) {
				cfg.NotifierProvider = "carrier-pigeon"
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.validate()
			if tt.wantErr && err == nil {
				t.Fatalf("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}

func TestValidateRejectsNonPositiveTimeout(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.ERPRequestTimeout = 0

	if err := cfg.validate(); err == nil {
		t.Fatalf("expected error, got nil")
	}
}
