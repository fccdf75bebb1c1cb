package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/doeshing/symcheck-go/internal/domain"
)

// placeholderKeys are sample values shipped in .env templates; they count as no key.
var placeholderKeys = map[string]struct{}{
	"demo":                        {},
	"your_gemini_api_key_here":    {},
	"your_openai_api_key_here":    {},
	"your_anthropic_api_key_here": {},
	"changeme":                    {},
}

// Validate ensures config structure is consistent.
func Validate(cfg domain.Config) error {
	if err := cfg.ValidateConsistency(); err != nil {
		return err
	}
	if err := validateProvider(cfg.Provider); err != nil {
		return err
	}
	if err := validateServer(cfg.Server); err != nil {
		return err
	}
	if err := validateLogging(cfg.Logging); err != nil {
		return err
	}
	return nil
}

func validateProvider(p domain.ProviderSettings) error {
	if p.MaxTokens < 0 {
		return errors.New("provider.max_tokens must be >= 0")
	}
	if p.Temperature < 0 || p.Temperature > 2 {
		return fmt.Errorf("provider.temperature must be within [0,2], got %v", p.Temperature)
	}
	if p.Endpoint != "" {
		if u, err := url.Parse(p.Endpoint); err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("provider.endpoint must be an absolute URL, got %s", p.Endpoint)
		}
	}
	return nil
}

func validateServer(s domain.ServerSettings) error {
	if s.MaxBodyBytes < 0 {
		return errors.New("server.max_body_bytes must be >= 0")
	}
	if s.RateLimit < 0 {
		return errors.New("server.rate_limit must be >= 0")
	}
	for name, raw := range map[string]string{
		"server.rate_window":   s.RateWindow,
		"server.read_timeout":  s.ReadTimeout,
		"server.write_timeout": s.WriteTimeout,
	} {
		if raw == "" {
			continue
		}
		if _, err := time.ParseDuration(raw); err != nil {
			return fmt.Errorf("%s invalid: %w", name, err)
		}
	}
	return nil
}

func validateLogging(l domain.LoggingSettings) error {
	switch strings.ToLower(l.Format) {
	case "", "json", "console":
	default:
		return fmt.Errorf("logging.format must be json|console, got %s", l.Format)
	}
	switch strings.ToLower(l.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug|info|warn|error, got %s", l.Level)
	}
	return nil
}

// ResolveSelection decides the process-wide analysis strategy. Provider mode requires
// a known provider and, unless the provider is keyless, a real credential.
func ResolveSelection(cfg domain.Config) domain.Selection {
	sel := domain.Selection{
		Mode:        domain.ModeDemo,
		Provider:    cfg.ProviderName(),
		ModelID:     cfg.Provider.ModelID,
		Endpoint:    cfg.Provider.Endpoint,
		Timeout:     cfg.GetProviderTimeout(),
		MaxTokens:   cfg.Provider.MaxTokens,
		Temperature: cfg.Provider.Temperature,
	}

	switch {
	case sel.Provider == "":
		sel.Reason = "no provider configured"
		return sel
	case !sel.Provider.IsKnown():
		sel.Reason = fmt.Sprintf("unknown provider %q", sel.Provider)
		return sel
	}

	credential := strings.TrimSpace(cfg.Provider.Credential)
	if sel.Provider.RequiresCredential() {
		if credential == "" {
			sel.Reason = "credential not set"
			return sel
		}
		if IsPlaceholderKey(credential) {
			sel.Reason = "credential is a placeholder"
			return sel
		}
	}

	sel.Mode = domain.ModeProvider
	sel.Credential = credential
	sel.Reason = ""
	return sel
}

// IsPlaceholderKey reports whether key is a template value rather than a real key.
func IsPlaceholderKey(key string) bool {
	_, ok := placeholderKeys[strings.ToLower(strings.TrimSpace(key))]
	return ok
}
