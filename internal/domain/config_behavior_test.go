package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/doeshing/symcheck-go/internal/domain"
)

// TestConfig_GetProviderTimeout tests the provider deadline default
func TestConfig_GetProviderTimeout(t *testing.T) {
	tests := []struct {
		name      string
		timeoutMS int
		want      time.Duration
	}{
		{name: "returns default when unset", timeoutMS: 0, want: 30 * time.Second},
		{name: "returns default when negative", timeoutMS: -5, want: 30 * time.Second},
		{name: "converts milliseconds", timeoutMS: 1500, want: 1500 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := domain.Config{Provider: domain.ProviderSettings{TimeoutMS: tt.timeoutMS}}
			if got := cfg.GetProviderTimeout(); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

// TestConfig_ProviderName tests provider name normalization
func TestConfig_ProviderName(t *testing.T) {
	cfg := domain.Config{Provider: domain.ProviderSettings{Name: "  Gemini "}}
	if got := cfg.ProviderName(); got != domain.ProviderGemini {
		t.Errorf("got %q, want %q", got, domain.ProviderGemini)
	}
	if cfg.IsDemo() {
		t.Error("expected provider mode")
	}

	empty := domain.Config{}
	if !empty.IsDemo() {
		t.Error("expected demo mode for empty provider")
	}
}

// TestConfig_GetHistoryRetention tests the retention cap default
func TestConfig_GetHistoryRetention(t *testing.T) {
	cfg := domain.Config{}
	if got := cfg.GetHistoryRetention(); got != domain.HistoryRetention {
		t.Errorf("got %d, want %d", got, domain.HistoryRetention)
	}
	cfg.History.Retention = 50
	if got := cfg.GetHistoryRetention(); got != 50 {
		t.Errorf("got %d, want 50", got)
	}
	cfg.History.Retention = 5000
	if got := cfg.GetHistoryRetention(); got != domain.HistoryRetention {
		t.Errorf("got %d, want cap %d", got, domain.HistoryRetention)
	}
}

// TestConfig_GetWriteTimeout tests that the write timeout outlasts the provider timeout
func TestConfig_GetWriteTimeout(t *testing.T) {
	cfg := domain.Config{
		Provider: domain.ProviderSettings{TimeoutMS: 60000},
		Server:   domain.ServerSettings{WriteTimeout: "10s"},
	}
	if got := cfg.GetWriteTimeout(); got != 65*time.Second {
		t.Errorf("got %v, want 65s", got)
	}

	cfg.Server.WriteTimeout = "2m"
	if got := cfg.GetWriteTimeout(); got != 2*time.Minute {
		t.Errorf("got %v, want 2m", got)
	}
}

// TestConfig_ValidateConsistency tests configuration consistency validation
func TestConfig_ValidateConsistency(t *testing.T) {
	tests := []struct {
		name      string
		config    domain.Config
		wantError bool
	}{
		{
			name:      "demo config is valid",
			config:    domain.Config{},
			wantError: false,
		},
		{
			name:      "known provider is valid",
			config:    domain.Config{Provider: domain.ProviderSettings{Name: "openai"}},
			wantError: false,
		},
		{
			name:      "unknown provider is rejected",
			config:    domain.Config{Provider: domain.ProviderSettings{Name: "watson"}},
			wantError: true,
		},
		{
			name:      "unknown history backend is rejected",
			config:    domain.Config{History: domain.HistorySettings{Backend: "postgres"}},
			wantError: true,
		},
		{
			name:      "retention above the cap is rejected",
			config:    domain.Config{History: domain.HistorySettings{Retention: 1001}},
			wantError: true,
		},
		{
			name:      "negative retention is rejected",
			config:    domain.Config{History: domain.HistorySettings{Retention: -1}},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.ValidateConsistency()
			if tt.wantError && err == nil {
				t.Error("expected error but got none")
			}
			if !tt.wantError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestConfig_UnknownProviderWrapsSentinel(t *testing.T) {
	cfg := domain.Config{Provider: domain.ProviderSettings{Name: "watson"}}
	if err := cfg.ValidateConsistency(); !errors.Is(err, domain.ErrUnknownProvider) {
		t.Fatalf("expected ErrUnknownProvider, got %v", err)
	}
}
