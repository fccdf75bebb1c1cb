package domain

import "time"

// Config mirrors ~/.symcheck/config.yaml.
type Config struct {
	ConfigFormatVersion string           `yaml:"config_format_version"`
	Provider            ProviderSettings `yaml:"provider"`
	Server              ServerSettings   `yaml:"server"`
	History             HistorySettings  `yaml:"history"`
	Logging             LoggingSettings  `yaml:"logging"`
}

// ProviderSettings selects and tunes the external analysis backend.
// An empty Name means demo mode.
type ProviderSettings struct {
	Name          string  `yaml:"name"`
	CredentialEnv string  `yaml:"credential_env,omitempty"`
	ModelID       string  `yaml:"model_id,omitempty"`
	Endpoint      string  `yaml:"endpoint,omitempty"`
	TimeoutMS     int     `yaml:"timeout_ms"`
	MaxTokens     int     `yaml:"max_tokens,omitempty"`
	Temperature   float64 `yaml:"temperature,omitempty"`

	// Credential is resolved from the environment and never written back to disk.
	Credential string `yaml:"-"`
}

// ServerSettings configures the HTTP API.
type ServerSettings struct {
	Addr         string `yaml:"addr"`
	FrontendURL  string `yaml:"frontend_url"`
	MaxBodyBytes int64  `yaml:"max_body_bytes"`
	RateLimit    int    `yaml:"rate_limit"`
	RateWindow   string `yaml:"rate_window"`
	ReadTimeout  string `yaml:"read_timeout"`
	WriteTimeout string `yaml:"write_timeout"`
}

// HistorySettings configures the history store.
type HistorySettings struct {
	Backend   string `yaml:"backend"`
	Path      string `yaml:"path"`
	Retention int    `yaml:"retention"`
}

// LoggingSettings configures the logger.
type LoggingSettings struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// History backends
const (
	HistoryBackendFile   = "file"
	HistoryBackendSQLite = "sqlite"
)

// Selection is the analysis strategy resolved once at start-up.
// It is read-only for the lifetime of the process.
type Selection struct {
	Mode        Mode
	Provider    ProviderName
	Credential  string
	ModelID     string
	Endpoint    string
	Timeout     time.Duration
	MaxTokens   int
	Temperature float64
	// Reason explains a demo selection (for logs and doctor output).
	Reason string
}

// Label renders the selection as "demo" or "provider:<name>".
func (s Selection) Label() string {
	if s.Mode == ModeProvider {
		return "provider:" + string(s.Provider)
	}
	return string(ModeDemo)
}
