package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/doeshing/symcheck-go/internal/application/analysis"
	configapp "github.com/doeshing/symcheck-go/internal/application/config"
	"github.com/doeshing/symcheck-go/internal/application/doctor"
	"github.com/doeshing/symcheck-go/internal/application/query"
	"github.com/doeshing/symcheck-go/internal/domain"
	"github.com/doeshing/symcheck-go/internal/infrastructure/ai"
	"github.com/doeshing/symcheck-go/internal/infrastructure/config"
	"github.com/doeshing/symcheck-go/internal/infrastructure/heuristic"
	"github.com/doeshing/symcheck-go/internal/infrastructure/history"
	"github.com/doeshing/symcheck-go/internal/infrastructure/metrics"
	"github.com/doeshing/symcheck-go/internal/pkg/ids"
	"github.com/doeshing/symcheck-go/internal/pkg/logger"
	"github.com/doeshing/symcheck-go/internal/ports"
)

// Options controls how the container is built.
type Options struct {
	ConfigPath string
	Verbose    bool
}

// Container wires up application services with infrastructure adapters.
type Container struct {
	Config          domain.Config
	ConfigLoader    *config.FileLoader
	Selection       domain.Selection
	Logger          *logger.ZapLogger
	Metrics         *metrics.Recorder
	HistoryStore    ports.HistoryRepository
	AnalysisService *analysis.Service
	QueryService    *query.Service
	DoctorService   *doctor.Service

	closers []func() error
}

// BuildContainer constructs the dependency graph. The analysis strategy is
// resolved here once and stays fixed for the life of the process.
func BuildContainer(ctx context.Context, opts Options) (*Container, error) {
	cfgLoader := config.NewFileLoader(opts.ConfigPath)
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := configapp.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgLoader.Path(), err)
	}

	level := cfg.Logging.Level
	if opts.Verbose {
		level = "debug"
	}
	log, err := logger.New(level, cfg.Logging.Format)
	if err != nil {
		return nil, err
	}

	c := &Container{
		Config:       cfg,
		ConfigLoader: cfgLoader,
		Logger:       log,
		Metrics:      metrics.New(),
	}
	c.closers = append(c.closers, func() error {
		// Sync fails on terminals (ENOTTY); nothing useful to report.
		_ = log.Sync()
		return nil
	})

	idGen := ids.NewULIDGenerator()
	store, err := newHistoryStore(cfg, log, idGen)
	if err != nil {
		return nil, err
	}
	c.HistoryStore = store
	if closer, ok := store.(interface{ Close() error }); ok {
		c.closers = append(c.closers, closer.Close)
	}

	c.Selection = configapp.ResolveSelection(cfg)
	var provider ports.Provider
	if c.Selection.Mode == domain.ModeProvider {
		provider, err = ai.NewFactory().ForSelection(c.Selection)
		if err != nil {
			return nil, fmt.Errorf("provider init: %w", err)
		}
	}
	log.Info("analysis strategy selected", map[string]interface{}{
		"mode":   c.Selection.Label(),
		"model":  c.Selection.ModelID,
		"reason": c.Selection.Reason,
	})

	c.AnalysisService = &analysis.Service{
		Selection: c.Selection,
		Provider:  provider,
		Analyzer:  heuristic.NewAnalyzer(),
		History:   store,
		IDs:       idGen,
		Metrics:   c.Metrics,
		Logger:    log,
	}
	if err := c.AnalysisService.Validate(); err != nil {
		return nil, err
	}

	c.QueryService = &query.Service{History: store, Classify: heuristic.Classify}
	c.DoctorService = &doctor.Service{
		ConfigProvider: cfgLoader,
		History:        store,
		CredentialEnv:  config.CredentialEnvFor,
	}
	return c, nil
}

func newHistoryStore(cfg domain.Config, log ports.Logger, idGen ports.IDGenerator) (ports.HistoryRepository, error) {
	path := cfg.History.Path
	opts := []history.Option{
		history.WithRetention(cfg.GetHistoryRetention()),
		history.WithLogger(log),
		history.WithIDGenerator(idGen),
	}

	switch cfg.GetHistoryBackend() {
	case domain.HistoryBackendSQLite:
		return history.NewSQLiteStore(path, opts...)
	default:
		return history.NewFileStore(path, opts...), nil
	}
}

// Close releases the history store and flushes the logger.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
