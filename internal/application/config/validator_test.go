package config

import (
	"errors"
	"testing"
	"time"

	"github.com/doeshing/symcheck-go/internal/domain"
)

func validConfig() domain.Config {
	return domain.Config{
		ConfigFormatVersion: "1",
		Provider:            domain.ProviderSettings{TimeoutMS: 30000, MaxTokens: 1000, Temperature: 0.3},
		Server:              domain.ServerSettings{Addr: ":5000", RateLimit: 100, RateWindow: "15m"},
		History:             domain.HistorySettings{Backend: "file", Path: "data/history.json", Retention: 1000},
		Logging:             domain.LoggingSettings{Level: "info", Format: "json"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*domain.Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*domain.Config) {}},
		{name: "unknown provider", mutate: func(c *domain.Config) { c.Provider.Name = "bard" }, wantErr: true},
		{name: "bad backend", mutate: func(c *domain.Config) { c.History.Backend = "redis" }, wantErr: true},
		{name: "negative retention", mutate: func(c *domain.Config) { c.History.Retention = -1 }, wantErr: true},
		{name: "temperature too high", mutate: func(c *domain.Config) { c.Provider.Temperature = 3 }, wantErr: true},
		{name: "relative endpoint", mutate: func(c *domain.Config) { c.Provider.Endpoint = "api/v1" }, wantErr: true},
		{name: "absolute endpoint", mutate: func(c *domain.Config) { c.Provider.Endpoint = "http://localhost:11434/v1/chat/completions" }},
		{name: "bad rate window", mutate: func(c *domain.Config) { c.Server.RateWindow = "fortnight" }, wantErr: true},
		{name: "bad log format", mutate: func(c *domain.Config) { c.Logging.Format = "xml" }, wantErr: true},
		{name: "bad log level", mutate: func(c *domain.Config) { c.Logging.Level = "loud" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_UnknownProviderSentinel(t *testing.T) {
	cfg := validConfig()
	cfg.Provider.Name = "bard"
	if err := Validate(cfg); !errors.Is(err, domain.ErrUnknownProvider) {
		t.Fatalf("expected ErrUnknownProvider, got %v", err)
	}
}

func TestResolveSelection(t *testing.T) {
	tests := []struct {
		name       string
		provider   string
		credential string
		wantMode   domain.Mode
	}{
		{name: "no provider", wantMode: domain.ModeDemo},
		{name: "unknown provider", provider: "bard", credential: "k", wantMode: domain.ModeDemo},
		{name: "missing key", provider: "gemini", wantMode: domain.ModeDemo},
		{name: "demo placeholder", provider: "gemini", credential: "demo", wantMode: domain.ModeDemo},
		{name: "template placeholder", provider: "gemini", credential: "your_gemini_api_key_here", wantMode: domain.ModeDemo},
		{name: "gemini with key", provider: "gemini", credential: "AIza-real", wantMode: domain.ModeProvider},
		{name: "openai mixed case", provider: "OpenAI", credential: "sk-real", wantMode: domain.ModeProvider},
		{name: "ollama keyless", provider: "ollama", wantMode: domain.ModeProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Provider.Name = tt.provider
			cfg.Provider.Credential = tt.credential

			sel := ResolveSelection(cfg)
			if sel.Mode != tt.wantMode {
				t.Fatalf("Mode = %s, want %s (reason %q)", sel.Mode, tt.wantMode, sel.Reason)
			}
			if sel.Mode == domain.ModeDemo {
				if sel.Reason == "" {
					t.Error("demo selection should carry a reason")
				}
				if sel.Credential != "" {
					t.Error("demo selection must not carry a credential")
				}
			}
			if sel.Timeout != 30*time.Second {
				t.Errorf("Timeout = %v", sel.Timeout)
			}
		})
	}
}

func TestIsPlaceholderKey(t *testing.T) {
	if !IsPlaceholderKey(" DEMO ") {
		t.Error("DEMO should be a placeholder")
	}
	if IsPlaceholderKey("sk-live-123") {
		t.Error("real-looking key reported as placeholder")
	}
}
