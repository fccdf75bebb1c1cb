// Package analysis runs one symptom analysis end to end: pick the strategy, absorb
// provider failures, then record the result in history.
package analysis

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/doeshing/symcheck-go/internal/domain"
	"github.com/doeshing/symcheck-go/internal/ports"
)

// Service orchestrates the analysis lifecycle. Analyze never fails.
type Service struct {
	Selection domain.Selection
	// Provider is nil in demo mode.
	Provider ports.Provider
	Analyzer ports.Analyzer
	History  ports.HistoryRepository
	IDs      ports.IDGenerator
	Metrics  ports.Metrics
	Logger   ports.Logger
	Now      func() time.Time
}

// Validate reports missing dependencies. Call it once after wiring.
func (s *Service) Validate() error {
	if s.Analyzer == nil || s.History == nil || s.IDs == nil || s.Logger == nil {
		return errors.New("analysis.Service dependencies not satisfied")
	}
	if s.Selection.Mode == domain.ModeProvider && s.Provider == nil {
		return errors.New("analysis.Service: provider mode without a provider")
	}
	return nil
}

// Analyze produces an analysis for query and appends it to history.
// Provider failures degrade to the rule-based analyzer; only a rate limit changes the
// outcome status. History failures are logged and reflected in Outcome.Persisted.
func (s *Service) Analyze(ctx context.Context, query domain.SymptomQuery) domain.Outcome {
	at := s.now()
	result, status, retryAfter := s.produce(ctx, query)

	outcome := domain.Outcome{
		Result:     result,
		Status:     status,
		Timestamp:  at,
		RetryAfter: retryAfter,
	}
	outcome.QueryID, outcome.Persisted = s.persist(ctx, query, result, at)

	s.metrics().AnalysisCompleted(result.Source, status)
	return outcome
}

func (s *Service) produce(ctx context.Context, query domain.SymptomQuery) (domain.AnalysisResult, domain.OutcomeStatus, time.Duration) {
	if s.Selection.Mode != domain.ModeProvider || s.Provider == nil {
		return s.Analyzer.Analyze(query), domain.StatusOK, 0
	}

	name := s.Provider.Name()
	text, err := s.callProvider(ctx, query)
	if err == nil {
		s.Logger.Debug("provider analysis completed", map[string]interface{}{
			"provider": string(name),
		})
		return domain.AnalysisResult{Text: text, Source: name.Source()}, domain.StatusOK, 0
	}

	failure := domain.AsProviderError(err, name)
	s.metrics().ProviderFailed(name, failure.Kind)

	fallback := s.Analyzer.Analyze(query)
	fallback.Source = domain.SourceFallback

	fields := map[string]interface{}{
		"provider": string(name),
		"kind":     failure.Kind.String(),
		"status":   failure.StatusCode,
	}
	switch failure.Kind {
	case domain.FailureRateLimited:
		fields["retry_after"] = failure.RetryAfter.String()
		s.Logger.Warn("provider rate limited, returning fallback guidance", fields)
		return fallback, domain.StatusRateLimited, failure.RetryAfter
	case domain.FailureAuth, domain.FailureTransient, domain.FailureProvider:
		s.Logger.Error("provider call failed, using rule-based fallback", failure, fields)
		return fallback, domain.StatusOK, 0
	default:
		s.Logger.Error("provider call failed with unknown kind, using rule-based fallback", failure, fields)
		return fallback, domain.StatusOK, 0
	}
}

// callProvider bounds the call by the selection timeout even if the adapter ignores
// its context. An empty reply counts as a provider error.
func (s *Service) callProvider(ctx context.Context, query domain.SymptomQuery) (string, error) {
	timeout := s.Selection.Timeout
	if timeout <= 0 {
		timeout = domain.DefaultProviderTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type reply struct {
		text string
		err  error
	}
	done := make(chan reply, 1)
	go func() {
		text, err := s.Provider.Call(callCtx, query)
		done <- reply{text: text, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			var pe *domain.ProviderError
			if !errors.As(r.err, &pe) && callCtx.Err() != nil {
				return "", domain.NewProviderError(domain.FailureTransient, s.Provider.Name(), r.err)
			}
			return "", r.err
		}
		if strings.TrimSpace(r.text) == "" {
			return "", domain.NewProviderError(domain.FailureProvider, s.Provider.Name(), errors.New("empty reply"))
		}
		return r.text, nil
	case <-callCtx.Done():
		return "", domain.NewProviderError(domain.FailureTransient, s.Provider.Name(), callCtx.Err())
	}
}

// persist appends the record on a context detached from the caller so a client
// disconnect cannot drop a completed analysis.
func (s *Service) persist(ctx context.Context, query domain.SymptomQuery, result domain.AnalysisResult, at time.Time) (string, bool) {
	id, err := s.IDs.NewID()
	if err != nil {
		id = strconv.FormatInt(at.UnixMilli(), 10)
		s.Logger.Warn("id generation failed, using timestamp id", map[string]interface{}{"error": err.Error()})
	}

	record := domain.NewHistoryRecord(id, at, query, result)
	saved, err := s.History.Append(context.WithoutCancel(ctx), record)
	if err != nil {
		s.metrics().HistoryAppendFailed()
		s.Logger.Error("failed to save query to history", err, map[string]interface{}{
			"query_id": id,
			"source":   string(result.Source),
		})
		return id, false
	}
	return saved.ID, true
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) metrics() ports.Metrics {
	if s.Metrics == nil {
		return noopMetrics{}
	}
	return s.Metrics
}

type noopMetrics struct{}

func (noopMetrics) AnalysisCompleted(domain.Source, domain.OutcomeStatus)  {}
func (noopMetrics) ProviderFailed(domain.ProviderName, domain.FailureKind) {}
func (noopMetrics) HistoryAppendFailed()                                   {}
