package doctor

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/doeshing/symcheck-go/internal/domain"
	"github.com/doeshing/symcheck-go/internal/infrastructure/history"
)

type staticConfig struct {
	cfg domain.Config
	err error
}

func (s staticConfig) Load(context.Context) (domain.Config, error) { return s.cfg, s.err }

func baseConfig() domain.Config {
	return domain.Config{
		ConfigFormatVersion: "1",
		Provider:            domain.ProviderSettings{TimeoutMS: 30000},
		History:             domain.HistorySettings{Backend: "file"},
		Logging:             domain.LoggingSettings{Level: "info", Format: "json"},
	}
}

func find(t *testing.T, report domain.HealthReport, name string) domain.HealthCheck {
	t.Helper()
	for _, c := range report.Checks {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("check %q missing from %+v", name, report.Checks)
	return domain.HealthCheck{}
}

func TestService_DemoMode(t *testing.T) {
	svc := &Service{
		ConfigProvider: staticConfig{cfg: baseConfig()},
		History:        history.NewFileStore(filepath.Join(t.TempDir(), "data", "history.json")),
	}

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Failed() {
		t.Errorf("healthy report marked failed: %+v", report.Checks)
	}
	if c := find(t, report, "Analysis mode"); c.Status != domain.HealthOK {
		t.Errorf("mode check = %+v", c)
	}
	if c := find(t, report, "History store"); c.Status != domain.HealthOK {
		t.Errorf("history check = %+v", c)
	}
}

func TestService_ProviderWithoutKeyWarns(t *testing.T) {
	cfg := baseConfig()
	cfg.Provider.Name = "gemini"
	svc := &Service{
		ConfigProvider: staticConfig{cfg: cfg},
		CredentialEnv:  func(domain.ProviderSettings) string { return "GEMINI_API_KEY" },
	}

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	c := find(t, report, "Analysis mode")
	if c.Status != domain.HealthWarn {
		t.Fatalf("status = %s", c.Status)
	}
	if want := "demo: credential not set; set GEMINI_API_KEY to enable gemini"; c.Details != want {
		t.Errorf("details = %q, want %q", c.Details, want)
	}
	if c := find(t, report, "History store"); c.Status != domain.HealthWarn {
		t.Errorf("history check = %+v", c)
	}
}

func TestService_ProviderMode(t *testing.T) {
	cfg := baseConfig()
	cfg.Provider.Name = "openai"
	cfg.Provider.Credential = "sk-live"
	report, err := (&Service{ConfigProvider: staticConfig{cfg: cfg}}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if c := find(t, report, "Analysis mode"); c.Status != domain.HealthOK || c.Details != "provider:openai (timeout 30s)" {
		t.Errorf("mode check = %+v", c)
	}
}

func TestService_InvalidConfigFails(t *testing.T) {
	cfg := baseConfig()
	cfg.History.Backend = "redis"
	report, err := (&Service{ConfigProvider: staticConfig{cfg: cfg}}).Run(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !report.Failed() {
		t.Error("report with an error check should be marked failed")
	}
	if c := find(t, report, "Config file"); c.Status != domain.HealthError {
		t.Errorf("config check = %+v", c)
	}
}

func TestService_LoadFailure(t *testing.T) {
	report, err := (&Service{ConfigProvider: staticConfig{err: errors.New("boom")}}).Run(context.Background())
	if err == nil || len(report.Checks) != 1 {
		t.Fatalf("report = %+v, err = %v", report, err)
	}
}
