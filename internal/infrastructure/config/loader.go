package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/symcheck-go/assets"
	"github.com/doeshing/symcheck-go/internal/domain"
	"github.com/doeshing/symcheck-go/internal/pkg/filesystem"
	"github.com/doeshing/symcheck-go/internal/ports"
)

// Environment variables read by the loader.
const (
	EnvConfigPath  = "SYMCHECK_CONFIG"
	EnvProvider    = "AI_PROVIDER"
	EnvTimeoutMS   = "SYMCHECK_TIMEOUT_MS"
	EnvPort        = "PORT"
	EnvFrontendURL = "FRONTEND_URL"
	EnvHistoryPath = "SYMCHECK_HISTORY_PATH"
	EnvLogLevel    = "SYMCHECK_LOG_LEVEL"
)

// credentialEnv is the variable each provider reads its key from unless
// provider.credential_env says otherwise.
var credentialEnv = map[domain.ProviderName]string{
	domain.ProviderGemini:    "GEMINI_API_KEY",
	domain.ProviderOpenAI:    "OPENAI_API_KEY",
	domain.ProviderAnthropic: "ANTHROPIC_API_KEY",
	domain.ProviderOllama:    "OLLAMA_API_KEY",
}

// FileLoader loads YAML configuration from ~/.symcheck/config.yaml (overridable via
// SYMCHECK_CONFIG) and applies environment overrides, including those in a .env file.
type FileLoader struct {
	overridePath string
	dotenvPath   string
	lookup       func(string) (string, bool)
}

// NewFileLoader builds a new loader. An empty path falls back to SYMCHECK_CONFIG
// and then the default location.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{
		overridePath: path,
		dotenvPath:   ".env",
		lookup:       os.LookupEnv,
	}
}

// WithDotenv changes the .env file consulted for overrides. An empty path disables it.
func (l *FileLoader) WithDotenv(path string) *FileLoader {
	l.dotenvPath = path
	return l
}

// Path returns the resolved config file location.
func (l *FileLoader) Path() string {
	if l.overridePath != "" {
		return filesystem.ExpandPath(l.overridePath)
	}
	if custom, ok := l.lookup(EnvConfigPath); ok && custom != "" {
		return filesystem.ExpandPath(custom)
	}
	return filepath.Join(filesystem.UserHomeDir(), ".symcheck", "config.yaml")
}

// Load implements ports.ConfigProvider. A missing file is created from the embedded default.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	cfg, err := DefaultConfig()
	if err != nil {
		return domain.Config{}, err
	}

	path := l.Path()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := writeDefault(path); err != nil {
			return domain.Config{}, err
		}
	case err != nil:
		return domain.Config{}, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return domain.Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	env, err := l.environment()
	if err != nil {
		return domain.Config{}, err
	}
	applyEnv(&cfg, env)
	cfg.Provider.Credential = resolveCredential(cfg.Provider, env)
	return cfg, nil
}

// DefaultConfig decodes the embedded default configuration.
func DefaultConfig() (domain.Config, error) {
	var cfg domain.Config
	if err := yaml.Unmarshal(assets.DefaultConfigYAML, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("parse embedded config: %w", err)
	}
	return cfg, nil
}

// environment merges the .env file under the process environment; real
// variables win, matching godotenv.Load.
func (l *FileLoader) environment() (func(string) string, error) {
	var dotenv map[string]string
	if l.dotenvPath != "" {
		values, err := godotenv.Read(l.dotenvPath)
		switch {
		case err == nil:
			dotenv = values
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("read %s: %w", l.dotenvPath, err)
		}
	}
	return func(key string) string {
		if v, ok := l.lookup(key); ok {
			return v
		}
		return dotenv[key]
	}, nil
}

func applyEnv(cfg *domain.Config, env func(string) string) {
	if v := strings.TrimSpace(env(EnvProvider)); v != "" {
		cfg.Provider.Name = v
	}
	if v := env(EnvTimeoutMS); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			cfg.Provider.TimeoutMS = ms
		}
	}
	if v := strings.TrimSpace(env(EnvPort)); v != "" {
		cfg.Server.Addr = ":" + strings.TrimPrefix(v, ":")
	}
	if v := env(EnvFrontendURL); v != "" {
		cfg.Server.FrontendURL = v
	}
	if v := env(EnvHistoryPath); v != "" {
		cfg.History.Path = v
	}
	if v := env(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
}

func resolveCredential(p domain.ProviderSettings, env func(string) string) string {
	name := p.CredentialEnv
	if name == "" {
		name = credentialEnv[domain.ProviderName(strings.ToLower(strings.TrimSpace(p.Name)))]
	}
	if name == "" {
		return ""
	}
	return strings.TrimSpace(env(name))
}

// CredentialEnvFor returns the variable a provider's key is read from.
func CredentialEnvFor(p domain.ProviderSettings) string {
	if p.CredentialEnv != "" {
		return p.CredentialEnv
	}
	return credentialEnv[domain.ProviderName(strings.ToLower(strings.TrimSpace(p.Name)))]
}

func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, assets.DefaultConfigYAML, domain.SecureFilePermissions); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}
	return nil
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
