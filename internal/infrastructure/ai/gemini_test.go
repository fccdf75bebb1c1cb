package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/doeshing/symcheck-go/internal/domain"
)

type stubModels struct {
	resp  *genai.GenerateContentResponse
	err   error
	model string
}

func (s *stubModels) GenerateContent(_ context.Context, model string, _ []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	s.model = model
	return s.resp, s.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func TestGeminiProvider_Call(t *testing.T) {
	models := &stubModels{resp: textResponse("CLINICAL ASSESSMENT")}
	provider := &geminiProvider{selection: domain.Selection{ModelID: defaultGeminiModel}, models: models}

	text, err := provider.Call(context.Background(), testQuery)
	require.NoError(t, err)
	assert.Equal(t, "CLINICAL ASSESSMENT", text)
	assert.Equal(t, "gemini-2.5-flash", models.model)
}

func TestGeminiProvider_FailureKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		resp *genai.GenerateContentResponse
		want domain.FailureKind
	}{
		{name: "quota status", err: genai.APIError{Code: 429, Status: "RESOURCE_EXHAUSTED"}, want: domain.FailureRateLimited},
		{name: "wrapped pointer", err: fmt.Errorf("call: %w", &genai.APIError{Code: 403, Status: "PERMISSION_DENIED"}), want: domain.FailureAuth},
		{name: "server error", err: genai.APIError{Code: 500, Status: "INTERNAL"}, want: domain.FailureProvider},
		{name: "transport", err: context.DeadlineExceeded, want: domain.FailureTransient},
		{name: "empty reply", resp: &genai.GenerateContentResponse{}, want: domain.FailureProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &geminiProvider{models: &stubModels{resp: tt.resp, err: tt.err}}
			_, err := provider.Call(context.Background(), testQuery)

			var pe *domain.ProviderError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.want, pe.Kind)
			assert.Equal(t, domain.ProviderGemini, pe.Provider)
		})
	}
}

func TestGeminiProvider_RetryDelay(t *testing.T) {
	quota := genai.APIError{
		Code:   429,
		Status: "RESOURCE_EXHAUSTED",
		Details: []map[string]any{
			{"@type": "type.googleapis.com/google.rpc.QuotaFailure"},
			{"@type": "type.googleapis.com/google.rpc.RetryInfo", "retryDelay": "32s"},
		},
	}
	provider := &geminiProvider{selection: domain.Selection{ModelID: defaultGeminiModel}, models: &stubModels{err: quota}}

	_, err := provider.Call(context.Background(), testQuery)

	var pe *domain.ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, domain.FailureRateLimited, pe.Kind)
	assert.Equal(t, 32*time.Second, pe.RetryAfter)

	assert.Zero(t, retryDelay([]map[string]any{{"@type": retryInfoType, "retryDelay": "soon"}}))
	assert.Zero(t, retryDelay(nil))
}

func TestGeminiProvider_MissingCredential(t *testing.T) {
	provider, err := NewFactory().ForSelection(domain.Selection{Mode: domain.ModeProvider, Provider: domain.ProviderGemini})
	require.NoError(t, err)

	_, err = provider.Call(context.Background(), testQuery)
	assert.True(t, errors.Is(err, domain.ErrMissingCredential))
}

func TestGeminiProvider_ThroughSDK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/models/gemini-2.5-flash:generateContent"), r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"sdk report"}]}}]}`))
	}))
	defer server.Close()

	provider, err := NewFactoryWithClient(server.Client()).ForSelection(domain.Selection{
		Mode:       domain.ModeProvider,
		Provider:   domain.ProviderGemini,
		Credential: "test-key",
		Endpoint:   server.URL,
	})
	require.NoError(t, err)

	text, err := provider.Call(context.Background(), testQuery)
	require.NoError(t, err)
	assert.Equal(t, "sdk report", text)
}

func TestGeminiProvider_QuotaThroughSDK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota","status":"RESOURCE_EXHAUSTED"}}`))
	}))
	defer server.Close()

	provider, err := NewFactoryWithClient(server.Client()).ForSelection(domain.Selection{
		Mode:       domain.ModeProvider,
		Provider:   domain.ProviderGemini,
		Credential: "test-key",
		Endpoint:   server.URL,
	})
	require.NoError(t, err)

	_, err = provider.Call(context.Background(), testQuery)
	var pe *domain.ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, domain.FailureRateLimited, pe.Kind)
	assert.Equal(t, http.StatusTooManyRequests, pe.StatusCode)
}
