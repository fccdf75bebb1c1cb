package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/doeshing/symcheck-go/internal/domain"
)

var errEmptyReply = errors.New("provider returned an empty reply")

// rateLimitCodes are error codes backends put in the body of quota rejections,
// sometimes with a status other than 429.
var rateLimitCodes = map[string]struct{}{
	"insufficient_quota":  {},
	"rate_limit_exceeded": {},
	"rate_limit_error":    {},
	"resource_exhausted":  {},
}

// classifyTransportError maps a failed round trip. Anything that never produced a
// status code is transient.
func classifyTransportError(provider domain.ProviderName, err error) *domain.ProviderError {
	pe := domain.NewProviderError(domain.FailureTransient, provider, err)
	if errors.Is(err, context.DeadlineExceeded) {
		pe.Err = fmt.Errorf("deadline exceeded: %w", err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		pe.Err = fmt.Errorf("network timeout: %w", err)
	}
	return pe
}

// classifyStatus maps a non-2xx response to a failure kind.
func classifyStatus(provider domain.ProviderName, status int, header http.Header, body []byte) *domain.ProviderError {
	code, message := errorBody(body)
	detail := strings.TrimSpace(message)
	if detail == "" {
		detail = http.StatusText(status)
	}
	pe := &domain.ProviderError{
		Kind:       kindForStatus(status, code),
		Provider:   provider,
		StatusCode: status,
		Err:        errors.New(detail),
	}
	if pe.Kind == domain.FailureRateLimited {
		pe.RetryAfter = parseRetryAfter(header.Get("Retry-After"), time.Now())
	}
	return pe
}

func kindForStatus(status int, code string) domain.FailureKind {
	if status == http.StatusTooManyRequests || isRateLimitCode(code) {
		return domain.FailureRateLimited
	}
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.FailureAuth
	default:
		return domain.FailureProvider
	}
}

func isRateLimitCode(code string) bool {
	_, ok := rateLimitCodes[strings.ToLower(strings.TrimSpace(code))]
	return ok
}

// errorBody pulls the error code and message out of the common JSON error envelopes:
// {"error":{"code":..,"type":..,"status":..,"message":..}}.
func errorBody(body []byte) (code string, message string) {
	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Error) == 0 {
		return "", strings.TrimSpace(string(body))
	}

	var plain string
	if err := json.Unmarshal(envelope.Error, &plain); err == nil {
		return "", plain
	}

	var detail struct {
		Code    json.RawMessage `json:"code"`
		Type    string          `json:"type"`
		Status  string          `json:"status"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(envelope.Error, &detail); err != nil {
		return "", string(envelope.Error)
	}

	var textCode string
	if err := json.Unmarshal(detail.Code, &textCode); err == nil && textCode != "" {
		return textCode, detail.Message
	}
	if detail.Status != "" {
		return detail.Status, detail.Message
	}
	return detail.Type, detail.Message
}

// parseRetryAfter accepts delta-seconds or an HTTP date.
func parseRetryAfter(raw string, now time.Time) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(raw); err == nil {
		if d := at.Sub(now); d > 0 {
			return d.Round(time.Second)
		}
	}
	return 0
}
