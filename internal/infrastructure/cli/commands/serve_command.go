package commands

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/doeshing/symcheck-go/internal/app"
	"github.com/doeshing/symcheck-go/internal/domain"
	"github.com/doeshing/symcheck-go/internal/infrastructure/httpapi"
)

// NewServeCommand creates the serve command
func NewServeCommand(deps *Deps) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the symptom analysis HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := deps.Container(cmd.Context())
			if err != nil {
				return err
			}
			if addr == "" {
				addr = container.Config.Server.Addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("listen %s: %w", addr, err)
			}
			return runServer(ctx, ln, container)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, or $PORT)")
	return cmd
}

// newHTTPServer builds the API server for the container's configuration.
func newHTTPServer(container *app.Container) *http.Server {
	cfg := container.Config
	api := httpapi.New(httpapi.Options{
		Analyzer:     container.AnalysisService,
		History:      container.HistoryStore,
		Logger:       container.Logger,
		Metrics:      container.Metrics,
		Selection:    container.Selection,
		FrontendURL:  cfg.Server.FrontendURL,
		MaxBodyBytes: cfg.GetMaxBodyBytes(),
		RateLimit:    cfg.Server.RateLimit,
		RateWindow:   cfg.GetRateWindow(),
	})

	return &http.Server{
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.GetReadTimeout(),
		WriteTimeout:      cfg.GetWriteTimeout(),
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
}

// runServer serves on ln until ctx is cancelled, then drains in-flight requests.
func runServer(ctx context.Context, ln net.Listener, container *app.Container) error {
	srv := newHTTPServer(container)
	log := container.Logger

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server.start", map[string]interface{}{
			"addr": ln.Addr().String(),
			"mode": container.Selection.Label(),
		})
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("server.stop", map[string]interface{}{"reason": "context_done"})

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), domain.DefaultShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		log.Info("server.stopped", nil)
		return nil
	})

	return g.Wait()
}
