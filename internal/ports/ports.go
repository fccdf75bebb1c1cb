// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and external
// adapters (infrastructure). The analysis orchestrator depends only on these
// interfaces, so provider backends, the history medium and the logger can be
// swapped without touching the core.
//
// Key architectural concepts:
//   - Ports: Interfaces defined here (e.g., Provider, HistoryRepository)
//   - Adapters: Concrete implementations in the infrastructure layer
//   - Dependency inversion: Application depends on abstractions, not implementations
package ports

import (
	"context"
	"io"

	"github.com/doeshing/symcheck-go/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.symcheck/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// ProviderFactory builds the adapter for a resolved selection.
type ProviderFactory interface {
	ForSelection(domain.Selection) (Provider, error)
}

// Provider wraps exactly one external analysis backend.
// Call returns the raw report text or a *domain.ProviderError.
type Provider interface {
	Name() domain.ProviderName
	Call(ctx context.Context, query domain.SymptomQuery) (string, error)
}

// Analyzer is a strategy that cannot fail: the rule-based generator.
type Analyzer interface {
	Analyze(query domain.SymptomQuery) domain.AnalysisResult
}

// HistoryRepository owns the persisted history log.
// Append must serialize read-modify-write cycles; List may run concurrently.
type HistoryRepository interface {
	Append(ctx context.Context, record domain.HistoryRecord) (domain.HistoryRecord, error)
	List(ctx context.Context, limit, offset int) (domain.HistoryPage, error)
	Clear(ctx context.Context) error
	Export(ctx context.Context, w io.Writer) error
	Path() string
}

// IDGenerator issues unique, monotonically increasing record ids.
type IDGenerator interface {
	NewID() (string, error)
}

// Metrics records orchestration counters. Implementations must be safe for concurrent use.
type Metrics interface {
	AnalysisCompleted(source domain.Source, status domain.OutcomeStatus)
	ProviderFailed(provider domain.ProviderName, kind domain.FailureKind)
	HistoryAppendFailed()
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stdout, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
