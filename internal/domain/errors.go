package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrUnknownProvider is returned when no adapter exists for the configured name.
	ErrUnknownProvider = errors.New("unknown provider")
	// ErrMissingCredential is returned when a provider needs an API key and none is set.
	ErrMissingCredential = errors.New("missing provider credential")
)

// FailureKind classifies why a provider call failed.
type FailureKind int

const (
	// FailureProvider is any non-2xx or malformed reply not covered below.
	FailureProvider FailureKind = iota
	// FailureRateLimited is a quota or 429-class rejection.
	FailureRateLimited
	// FailureAuth is a bad or missing credential.
	FailureAuth
	// FailureTransient is a network error or timeout.
	FailureTransient
)

func (k FailureKind) String() string {
	switch k {
	case FailureRateLimited:
		return "rate_limited"
	case FailureAuth:
		return "auth_failure"
	case FailureTransient:
		return "transient_error"
	case FailureProvider:
		return "provider_error"
	default:
		return "unknown"
	}
}

// ProviderError is the only error type provider adapters return.
type ProviderError struct {
	Kind       FailureKind
	Provider   ProviderName
	StatusCode int
	// RetryAfter is set for rate limits when the backend says how long to wait.
	RetryAfter time.Duration
	Err        error
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Provider, e.Kind)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError builds a ProviderError of the given kind.
func NewProviderError(kind FailureKind, provider ProviderName, err error) *ProviderError {
	return &ProviderError{Kind: kind, Provider: provider, Err: err}
}

// AsProviderError extracts a ProviderError from err. Untyped errors are reported as
// FailureProvider so callers always get a kind to switch on.
func AsProviderError(err error, provider ProviderName) *ProviderError {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe
	}
	return &ProviderError{Kind: FailureProvider, Provider: provider, Err: err}
}

// PersistenceError reports a history storage failure.
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("history %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("history %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// ValidationError is a rejected request, reported back to the client verbatim.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
