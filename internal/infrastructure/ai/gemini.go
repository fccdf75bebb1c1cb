package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/doeshing/symcheck-go/internal/domain"
	"github.com/doeshing/symcheck-go/internal/ports"
)

const defaultGeminiModel = "gemini-2.5-flash"

// geminiProvider calls Gemini through the official SDK rather than raw HTTP.
type geminiProvider struct {
	selection domain.Selection
	models    geminiModels
}

// geminiModels is the slice of *genai.Models the provider uses.
type geminiModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

func newGeminiProvider(selection domain.Selection, f *Factory) (ports.Provider, error) {
	if selection.ModelID == "" {
		selection.ModelID = defaultGeminiModel
	}
	if selection.Credential == "" {
		return &geminiProvider{selection: selection}, nil
	}

	cfg := &genai.ClientConfig{
		APIKey:     selection.Credential,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: f.httpClient,
	}
	if selection.Endpoint != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: selection.Endpoint}
	}
	client, err := genai.NewClient(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &geminiProvider{selection: selection, models: client.Models}, nil
}

func (p *geminiProvider) Name() domain.ProviderName {
	return domain.ProviderGemini
}

func (p *geminiProvider) Call(ctx context.Context, query domain.SymptomQuery) (string, error) {
	if p.models == nil {
		return "", domain.NewProviderError(domain.FailureAuth, domain.ProviderGemini, domain.ErrMissingCredential)
	}

	prompt, err := renderPrompt(query)
	if err != nil {
		return "", domain.NewProviderError(domain.FailureProvider, domain.ProviderGemini, err)
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
	}
	if p.selection.Temperature > 0 {
		config.Temperature = genai.Ptr(float32(p.selection.Temperature))
	}
	if p.selection.MaxTokens > 0 {
		config.MaxOutputTokens = int32(p.selection.MaxTokens)
	}

	resp, err := p.models.GenerateContent(ctx, p.selection.ModelID, genai.Text(prompt), config)
	if err != nil {
		return "", classifyGeminiError(err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", domain.NewProviderError(domain.FailureProvider, domain.ProviderGemini, errEmptyReply)
	}
	return text, nil
}

// classifyGeminiError maps SDK errors. APIError carries the HTTP code and the
// canonical status name; anything else failed before a response arrived.
func classifyGeminiError(err error) *domain.ProviderError {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		var apiErrPtr *genai.APIError
		if !errors.As(err, &apiErrPtr) || apiErrPtr == nil {
			return classifyTransportError(domain.ProviderGemini, err)
		}
		apiErr = *apiErrPtr
	}

	pe := &domain.ProviderError{
		Kind:       kindForStatus(apiErr.Code, apiErr.Status),
		Provider:   domain.ProviderGemini,
		StatusCode: apiErr.Code,
		Err:        err,
	}
	if pe.Kind == domain.FailureRateLimited {
		pe.RetryAfter = retryDelay(apiErr.Details)
	}
	return pe
}

const retryInfoType = "type.googleapis.com/google.rpc.RetryInfo"

// retryDelay reads the RetryInfo detail quota errors carry, e.g. {"retryDelay":"32s"}.
func retryDelay(details []map[string]any) time.Duration {
	for _, detail := range details {
		if kind, _ := detail["@type"].(string); kind != retryInfoType {
			continue
		}
		raw, _ := detail["retryDelay"].(string)
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			return d
		}
	}
	return 0
}
