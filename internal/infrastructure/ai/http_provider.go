package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/doeshing/symcheck-go/internal/domain"
	"github.com/doeshing/symcheck-go/internal/ports"
)

// maxResponseBytes caps how much of a provider reply is read.
const maxResponseBytes = 4 << 20

type httpProvider struct {
	name       domain.ProviderName
	selection  domain.Selection
	httpClient *http.Client
	adapter    providerAdapter
}

// providerAdapter holds the wire details of one JSON-over-HTTP backend.
type providerAdapter struct {
	defaultEndpoint string
	defaultModel    string
	buildRequest    func(domain.Selection, string) ([]byte, error)
	parseResponse   func([]byte) (string, error)
	setHeaders      func(*http.Request, domain.Selection)
}

func newHTTPProvider(name domain.ProviderName, selection domain.Selection, client *http.Client, adapter providerAdapter) ports.Provider {
	if selection.Endpoint == "" {
		selection.Endpoint = adapter.defaultEndpoint
	}
	if selection.ModelID == "" {
		selection.ModelID = adapter.defaultModel
	}
	return &httpProvider{
		name:       name,
		selection:  selection,
		httpClient: client,
		adapter:    adapter,
	}
}

func (p *httpProvider) Name() domain.ProviderName {
	return p.name
}

func (p *httpProvider) Call(ctx context.Context, query domain.SymptomQuery) (string, error) {
	if p.name.RequiresCredential() && p.selection.Credential == "" {
		return "", domain.NewProviderError(domain.FailureAuth, p.name, domain.ErrMissingCredential)
	}

	prompt, err := renderPrompt(query)
	if err != nil {
		return "", domain.NewProviderError(domain.FailureProvider, p.name, err)
	}

	requestBody, err := p.adapter.buildRequest(p.selection, prompt)
	if err != nil {
		return "", domain.NewProviderError(domain.FailureProvider, p.name, fmt.Errorf("build request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.selection.Endpoint, bytes.NewReader(requestBody))
	if err != nil {
		return "", domain.NewProviderError(domain.FailureProvider, p.name, fmt.Errorf("create HTTP request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	p.adapter.setHeaders(httpReq, p.selection)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", classifyTransportError(p.name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", classifyTransportError(p.name, fmt.Errorf("read response body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", classifyStatus(p.name, resp.StatusCode, resp.Header, body)
	}

	content, err := p.adapter.parseResponse(body)
	if err != nil {
		return "", domain.NewProviderError(domain.FailureProvider, p.name, fmt.Errorf("parse response: %w", err))
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return "", domain.NewProviderError(domain.FailureProvider, p.name, errEmptyReply)
	}
	return content, nil
}

func openaiAdapter() providerAdapter {
	return providerAdapter{
		defaultEndpoint: "https://api.openai.com/v1/chat/completions",
		defaultModel:    "gpt-3.5-turbo",
		buildRequest:    buildChatCompletionRequest,
		parseResponse:   parseChatCompletionResponse,
		setHeaders: func(req *http.Request, sel domain.Selection) {
			req.Header.Set("Authorization", "Bearer "+sel.Credential)
		},
	}
}

func ollamaAdapter() providerAdapter {
	return providerAdapter{
		defaultEndpoint: "http://localhost:11434/v1/chat/completions",
		defaultModel:    "llama3.2",
		buildRequest:    buildChatCompletionRequest,
		parseResponse:   parseChatCompletionResponse,
		setHeaders: func(req *http.Request, sel domain.Selection) {
			if sel.Credential != "" {
				req.Header.Set("Authorization", "Bearer "+sel.Credential)
			}
		},
	}
}

func anthropicAdapter() providerAdapter {
	return providerAdapter{
		defaultEndpoint: "https://api.anthropic.com/v1/messages",
		defaultModel:    "claude-3-5-sonnet-20240620",
		buildRequest:    buildAnthropicRequest,
		parseResponse:   parseAnthropicResponse,
		setHeaders: func(req *http.Request, sel domain.Selection) {
			req.Header.Set("x-api-key", sel.Credential)
			req.Header.Set("anthropic-version", "2023-06-01")
		},
	}
}

func buildChatCompletionRequest(sel domain.Selection, prompt string) ([]byte, error) {
	request := map[string]interface{}{
		"model": sel.ModelID,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": prompt},
		},
		"max_tokens":  defaultInt(sel.MaxTokens, 1000),
		"temperature": defaultFloat(sel.Temperature, 0.3),
	}
	return json.Marshal(request)
}

func parseChatCompletionResponse(body []byte) (string, error) {
	var response struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", err
	}
	if len(response.Choices) == 0 {
		return "", nil
	}
	return response.Choices[0].Message.Content, nil
}

func buildAnthropicRequest(sel domain.Selection, prompt string) ([]byte, error) {
	request := map[string]interface{}{
		"model":      sel.ModelID,
		"max_tokens": defaultInt(sel.MaxTokens, 1024),
		"system":     systemPrompt,
		"messages": []map[string]interface{}{
			{
				"role": "user",
				"content": []map[string]string{
					{"type": "text", "text": prompt},
				},
			},
		},
	}
	if sel.Temperature > 0 {
		request["temperature"] = sel.Temperature
	}
	return json.Marshal(request)
}

func parseAnthropicResponse(body []byte) (string, error) {
	var response struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", err
	}
	var parts []string
	for _, block := range response.Content {
		if block.Type == "" || block.Type == "text" {
			parts = append(parts, block.Text)
		}
	}
	return strings.Join(parts, "\n"), nil
}

func defaultInt(value, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return value
}

func defaultFloat(value, fallback float64) float64 {
	if value <= 0 {
		return fallback
	}
	return value
}
