package domain

// Source names the component that produced an analysis.
type Source string

const (
	SourceGemini    Source = "gemini"
	SourceOpenAI    Source = "openai"
	SourceAnthropic Source = "anthropic"
	SourceOllama    Source = "ollama"
	// SourceDemo is the rule-based analyzer running because no provider is configured.
	SourceDemo Source = "intelligent-demo"
	// SourceFallback is the rule-based analyzer substituting for a failed provider call.
	SourceFallback Source = "fallback"
)

// ProviderName identifies an external analysis backend.
type ProviderName string

const (
	ProviderGemini    ProviderName = "gemini"
	ProviderOpenAI    ProviderName = "openai"
	ProviderAnthropic ProviderName = "anthropic"
	ProviderOllama    ProviderName = "ollama"
)

// KnownProviders lists the backends an adapter exists for.
var KnownProviders = []ProviderName{ProviderGemini, ProviderOpenAI, ProviderAnthropic, ProviderOllama}

// IsKnown reports whether an adapter exists for p.
func (p ProviderName) IsKnown() bool {
	for _, known := range KnownProviders {
		if p == known {
			return true
		}
	}
	return false
}

// RequiresCredential reports whether the backend needs an API key.
func (p ProviderName) RequiresCredential() bool {
	return p != ProviderOllama
}

// Source is the provenance tag recorded for a successful call to p.
func (p ProviderName) Source() Source {
	return Source(p)
}

// Mode is the process-wide analysis mode.
type Mode string

const (
	ModeDemo     Mode = "demo"
	ModeProvider Mode = "provider"
)
