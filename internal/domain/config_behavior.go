package domain

import (
	"fmt"
	"strings"
	"time"
)

// ProviderName returns the configured provider, lower-cased.
func (c *Config) ProviderName() ProviderName {
	return ProviderName(strings.ToLower(strings.TrimSpace(c.Provider.Name)))
}

// IsDemo reports whether no provider is configured.
func (c *Config) IsDemo() bool {
	return c.ProviderName() == ""
}

// GetProviderTimeout returns the provider call deadline.
func (c *Config) GetProviderTimeout() time.Duration {
	if c.Provider.TimeoutMS <= 0 {
		return DefaultProviderTimeout
	}
	return time.Duration(c.Provider.TimeoutMS) * time.Millisecond
}

// GetHistoryRetention returns the maximum number of history records to keep.
// Configuration may lower the cap but never raise it above HistoryRetention.
func (c *Config) GetHistoryRetention() int {
	if c.History.Retention <= 0 || c.History.Retention > HistoryRetention {
		return HistoryRetention
	}
	return c.History.Retention
}

// GetHistoryBackend returns the history backend, defaulting to the JSON file store.
func (c *Config) GetHistoryBackend() string {
	backend := strings.ToLower(strings.TrimSpace(c.History.Backend))
	if backend == "" {
		return HistoryBackendFile
	}
	return backend
}

// GetRateWindow returns the HTTP rate limit window.
func (c *Config) GetRateWindow() time.Duration {
	return parseDurationOr(c.Server.RateWindow, 15*time.Minute)
}

// GetReadTimeout returns the HTTP server read timeout.
func (c *Config) GetReadTimeout() time.Duration {
	return parseDurationOr(c.Server.ReadTimeout, 15*time.Second)
}

// GetWriteTimeout returns the HTTP server write timeout. It must outlast the provider timeout.
func (c *Config) GetWriteTimeout() time.Duration {
	min := c.GetProviderTimeout() + 5*time.Second
	d := parseDurationOr(c.Server.WriteTimeout, 45*time.Second)
	if d < min {
		return min
	}
	return d
}

// GetMaxBodyBytes returns the JSON body size limit.
func (c *Config) GetMaxBodyBytes() int64 {
	const defaultMaxBody = 10 << 20

	if c.Server.MaxBodyBytes <= 0 {
		return defaultMaxBody
	}
	return c.Server.MaxBodyBytes
}

// ValidateConsistency checks the internal consistency of the configuration.
func (c *Config) ValidateConsistency() error {
	if name := c.ProviderName(); name != "" && !name.IsKnown() {
		return fmt.Errorf("provider %s: %w", name, ErrUnknownProvider)
	}
	switch c.GetHistoryBackend() {
	case HistoryBackendFile, HistoryBackendSQLite:
	default:
		return fmt.Errorf("history.backend must be file|sqlite, got %s", c.History.Backend)
	}
	if c.History.Retention < 0 || c.History.Retention > HistoryRetention {
		return fmt.Errorf("history.retention must be between 0 and %d", HistoryRetention)
	}
	if c.Provider.TimeoutMS < 0 {
		return fmt.Errorf("provider.timeout_ms must be >= 0")
	}
	return nil
}

func parseDurationOr(raw string, def time.Duration) time.Duration {
	if strings.TrimSpace(raw) == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
