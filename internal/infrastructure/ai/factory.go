// Package ai contains the provider adapters for external analysis backends.
//
// Each adapter wraps one backend and reports every failure as a *domain.ProviderError
// so the orchestrator can switch on the failure kind:
//   - Gemini: official google.golang.org/genai SDK
//   - OpenAI and Ollama: chat-completions JSON over HTTP
//   - Anthropic: messages API JSON over HTTP
package ai

import (
	"fmt"
	"net/http"
	"time"

	"github.com/doeshing/symcheck-go/internal/domain"
	"github.com/doeshing/symcheck-go/internal/ports"
)

// httpClientTimeout is a backstop; callers bound each call with a context deadline.
const httpClientTimeout = 2 * time.Minute

// Factory builds providers. It shares one HTTP client across all of them.
type Factory struct {
	httpClient *http.Client
}

// NewFactory creates a new provider factory with a configured HTTP client.
func NewFactory() *Factory {
	return NewFactoryWithClient(&http.Client{Timeout: httpClientTimeout})
}

// NewFactoryWithClient uses the given client for every provider.
func NewFactoryWithClient(client *http.Client) *Factory {
	return &Factory{httpClient: client}
}

// ForSelection returns the adapter for a provider selection. Demo selections have no adapter.
func (f *Factory) ForSelection(selection domain.Selection) (ports.Provider, error) {
	if selection.Mode != domain.ModeProvider {
		return nil, fmt.Errorf("selection %s has no provider", selection.Label())
	}

	switch selection.Provider {
	case domain.ProviderGemini:
		return newGeminiProvider(selection, f)
	case domain.ProviderOpenAI:
		return newHTTPProvider(domain.ProviderOpenAI, selection, f.httpClient, openaiAdapter()), nil
	case domain.ProviderAnthropic:
		return newHTTPProvider(domain.ProviderAnthropic, selection, f.httpClient, anthropicAdapter()), nil
	case domain.ProviderOllama:
		return newHTTPProvider(domain.ProviderOllama, selection, f.httpClient, ollamaAdapter()), nil
	default:
		return nil, fmt.Errorf("provider %q: %w", selection.Provider, domain.ErrUnknownProvider)
	}
}

var _ ports.ProviderFactory = (*Factory)(nil)
