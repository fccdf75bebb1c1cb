package doctor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	configapp "github.com/doeshing/symcheck-go/internal/application/config"
	"github.com/doeshing/symcheck-go/internal/domain"
	"github.com/doeshing/symcheck-go/internal/ports"
)

// Service runs environment diagnostics.
type Service struct {
	ConfigProvider ports.ConfigProvider
	History        ports.HistoryRepository
	// CredentialEnv names the variable the configured provider reads its key from.
	CredentialEnv func(domain.ProviderSettings) string
}

// Run executes checks and returns a report. The error is non-nil when any check failed.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	if err := configapp.Validate(cfg); err != nil {
		checks = append(checks, fail("Config file", err.Error()))
	} else {
		checks = append(checks, ok("Config file", fmt.Sprintf("format version %s", cfg.ConfigFormatVersion)))
	}

	checks = append(checks, s.modeCheck(cfg))

	if s.History != nil {
		checks = append(checks, s.historyCheck(ctx))
	} else {
		checks = append(checks, warn("History store", "not initialized"))
	}

	report := domain.HealthReport{Checks: checks}
	for _, c := range checks {
		if c.Status == domain.HealthError {
			return report, errors.New(c.Name + ": " + c.Details)
		}
	}
	return report, nil
}

func (s *Service) modeCheck(cfg domain.Config) domain.HealthCheck {
	sel := configapp.ResolveSelection(cfg)
	if sel.Mode == domain.ModeProvider {
		return ok("Analysis mode", fmt.Sprintf("%s (timeout %s)", sel.Label(), sel.Timeout))
	}
	if cfg.IsDemo() {
		return ok("Analysis mode", "demo (rule-based analyzer only)")
	}

	detail := fmt.Sprintf("demo: %s", sel.Reason)
	if s.CredentialEnv != nil {
		if env := s.CredentialEnv(cfg.Provider); env != "" {
			detail = fmt.Sprintf("%s; set %s to enable %s", detail, env, sel.Provider)
		}
	}
	return warn("Analysis mode", detail)
}

func (s *Service) historyCheck(ctx context.Context) domain.HealthCheck {
	page, err := s.History.List(ctx, 1, 0)
	if err != nil {
		return fail("History store", err.Error())
	}
	if err := probeWritable(filepath.Dir(s.History.Path())); err != nil {
		return fail("History store", fmt.Sprintf("%s not writable: %v", s.History.Path(), err))
	}
	return ok("History store", fmt.Sprintf("%s (%d entries)", s.History.Path(), page.Total))
}

// probeWritable creates dir if needed and writes a throwaway file into it.
func probeWritable(dir string) error {
	if err := os.MkdirAll(dir, domain.DirectoryPermissions); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
